package fs

import (
	"path/filepath"
	"strings"
)

// FixCase fixes the case of all path elements, using directory listings to determine
// the actual name of each element.
//
// Elements which cannot be found are left unchanged, as well as all elements below them.
func (p *Paths) FixCase(path string) string {
	if path == "" {
		return path
	}
	vol := filepath.VolumeName(path)
	rest := filepath.Clean(path[len(vol):])
	isAbs := filepath.IsAbs(path)

	current := curdir
	if isAbs {
		current = vol + string(filepath.Separator)
	}

	elements := strings.Split(rest, string(filepath.Separator))
	fixed := make([]string, 0, len(elements))
	found := true
	for _, element := range elements {
		if element == "" || element == curdir {
			continue
		}
		if found && element != pardir {
			var name string
			name, found = p.lookupName(current, element)
			if found {
				element = name
			}
		}
		fixed = append(fixed, element)
		current = filepath.Join(current, element)
	}

	joined := filepath.Join(fixed...)
	if isAbs {
		return vol + string(filepath.Separator) + joined
	}
	if joined == "" {
		return curdir
	}
	return joined
}

// IsFileCS checks if path points to an existing regular file, with the exact same case.
func (p *Paths) IsFileCS(path string) bool {
	info, err := p.fs.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = curdir
	}
	names, err := p.readNames(dir, false)
	if err != nil {
		return false
	}
	for _, candidate := range names {
		if candidate == name {
			return true
		}
	}
	return false
}

// ForgetListings drops all directory listings cached by FixCase
func (p *Paths) ForgetListings() {
	if p.listings != nil {
		p.listings.Purge()
	}
}

// lookupName finds the entry in dir matching element, ignoring case.
// An exact match is preferred.
func (p *Paths) lookupName(dir, element string) (string, bool) {
	names, err := p.readNames(dir, true)
	if err != nil {
		return element, false
	}
	match, found := "", false
	for _, name := range names {
		if name == element {
			return name, true
		}
		if !found && strings.EqualFold(name, element) {
			match, found = name, true
		}
	}
	return match, found
}

func (p *Paths) readNames(dir string, cached bool) ([]string, error) {
	if cached && p.listings != nil {
		if v, ok := p.listings.Get(dir); ok {
			return v.([]string), nil
		}
	}
	f, err := p.fs.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	names, err := f.Readdirnames(-1)
	if err != nil {
		return nil, err
	}
	if cached && p.listings != nil {
		p.listings.Add(dir, names)
	}
	return names, nil
}
