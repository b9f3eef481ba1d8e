package fs

import "strings"

// lastSep finds the last path separator, considering both '/' and '\\'
func lastSep(subject string) int {
	return strings.LastIndexAny(subject, `/\`)
}

// splitExt splits the extension of the last path element, like python's os.path.splitext:
// leading dots of the base name do not start an extension.
func splitExt(subject string) (string, string) {
	sep := lastSep(subject)
	base := subject[sep+1:]
	trimmed := strings.TrimLeft(base, ".")
	idx := strings.LastIndexByte(trimmed, '.')
	if idx < 0 {
		return subject, ""
	}
	cut := len(subject) - len(trimmed) + idx
	return subject[:cut], subject[cut:]
}

// AddToBase inserts a string between the base name and the extension of a path.
//
//	AddToBase("dir/lib.so", "-debug") == "dir/lib-debug.so"
func AddToBase(subject, baseSuffix string) string {
	if baseSuffix == "" {
		return subject
	}
	base, ext := splitExt(subject)
	return base + baseSuffix + ext
}

// AddPrefix adds a prefix to the last path element of subject
func AddPrefix(subject, prefix string) string {
	if prefix == "" {
		return subject
	}
	return AddPrefixFunc(subject, func(base string) string { return prefix + base })
}

// AddPrefixFunc replaces the last path element of subject by the result of fn
func AddPrefixFunc(subject string, fn func(string) string) string {
	if fn == nil {
		return subject
	}
	sep := lastSep(subject)
	return subject[:sep+1] + fn(subject[sep+1:])
}

// AddSuffix appends a suffix to subject. If replace is true, the current suffix is removed first.
func AddSuffix(subject, suffix string, replace bool) string {
	if suffix == "" && !replace {
		return subject
	}
	if replace {
		subject = RmvSuffix(subject)
	}
	return subject + suffix
}

// SetSuffix replaces the suffix of subject
func SetSuffix(subject, suffix string) string {
	return AddSuffix(subject, suffix, true)
}

// RmvSuffix removes the suffix from the last path element of subject
func RmvSuffix(subject string) string {
	idx := strings.LastIndexByte(subject, '.')
	if idx > lastSep(subject) {
		return subject[:idx]
	}
	return subject
}

// GetSuffix returns the suffix of the last path element, without the dot.
//
// The boolean is false when there is no suffix at all. An empty suffix with a true
// boolean means the name ends with a period.
func GetSuffix(subject string) (string, bool) {
	idx := strings.LastIndexByte(subject, '.')
	if idx > lastSep(subject) {
		return subject[idx+1:], true
	}
	return "", false
}
