// Copyright © 2018 One Concern

// Package version parses, compares, bumps and selects semantic versions.
package version

import (
	"sort"
	"strings"

	"github.com/blang/semver"
	"github.com/oneconcern/nr/pkg/errors"
)

type errString string

func (e errString) Error() string { return string(e) }

const (
	// ErrInvalidPart is returned when bumping an unknown version part
	ErrInvalidPart errString = "invalid version part"
)

// ErrInvalidSelector is returned for malformed version criteria
var ErrInvalidSelector = errors.New("invalid version selector")

// Version is a semantic version
type Version struct {
	semver.Version
}

// Parse a strict semantic version, like 1.2.3-rc.1+build.5
func Parse(s string) (Version, error) {
	v, err := semver.Parse(strings.TrimSpace(s))
	if err != nil {
		return Version{}, errors.Newf("parse version %q", s).Wrap(err)
	}
	return Version{v}, nil
}

// ParseTolerant accepts a leading "v" and missing minor or patch numbers
func ParseTolerant(s string) (Version, error) {
	v, err := semver.ParseTolerant(strings.TrimSpace(s))
	if err != nil {
		return Version{}, errors.Newf("parse version %q", s).Wrap(err)
	}
	return Version{v}, nil
}

// MustParse is like Parse but panics on error
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Compare returns -1, 0 or 1. Build metadata is ignored.
func (v Version) Compare(o Version) int {
	return v.Version.Compare(o.Version)
}

// IsPrerelease tells if the version carries prerelease identifiers
func (v Version) IsPrerelease() bool {
	return len(v.Pre) > 0
}

// Part of a version to bump
type Part string

// Parts of a version
const (
	Major Part = "major"
	Minor Part = "minor"
	Patch Part = "patch"
	Pre   Part = "pre"
)

// ParsePart recognizes a part name
func ParsePart(s string) (Part, error) {
	switch p := Part(strings.ToLower(s)); p {
	case Major, Minor, Patch, Pre:
		return p, nil
	default:
		return "", errors.Newf("part %q", s).Wrap(ErrInvalidPart)
	}
}

// Bump returns the next version for the given part.
//
// Bumping a part resets the lower parts. A prerelease of the target version
// is released instead: 1.0.1-rc.1 bumped on patch is 1.0.1, 2.0.0-beta bumped
// on major is 2.0.0. Bumping pre increments the last numeric identifier,
// appends one when it is missing, or starts a prerelease of the next patch.
func (v Version) Bump(part Part) (Version, error) {
	next := semver.Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch}
	pre := v.IsPrerelease()

	switch part {
	case Major:
		if !pre || v.Minor != 0 || v.Patch != 0 {
			next.Major++
			next.Minor, next.Patch = 0, 0
		}
	case Minor:
		if !pre || v.Patch != 0 {
			next.Minor++
			next.Patch = 0
		}
	case Patch:
		if !pre {
			next.Patch++
		}
	case Pre:
		next.Pre = bumpPrerelease(v.Pre)
		if !pre {
			next.Patch++
		}
	default:
		return Version{}, ErrInvalidPart
	}
	return Version{next}, nil
}

func bumpPrerelease(current []semver.PRVersion) []semver.PRVersion {
	if len(current) == 0 {
		return []semver.PRVersion{{VersionNum: 0, IsNum: true}}
	}
	next := make([]semver.PRVersion, len(current))
	copy(next, current)
	last := &next[len(next)-1]
	if last.IsNum {
		last.VersionNum++
		return next
	}
	return append(next, semver.PRVersion{VersionNum: 1, IsNum: true})
}

// Sort versions in ascending order
func Sort(versions []Version) {
	sort.Slice(versions, func(i, j int) bool {
		return versions[i].Compare(versions[j]) < 0
	})
}

// Latest returns the highest version accepted by the selector. A nil selector accepts all.
func Latest(versions []Version, sel *Selector) (Version, bool) {
	var (
		best  Version
		found bool
	)
	for _, v := range versions {
		if sel != nil && !sel.Match(v) {
			continue
		}
		if !found || v.Compare(best) > 0 {
			best, found = v, true
		}
	}
	return best, found
}
