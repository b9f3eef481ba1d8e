// Copyright © 2018 One Concern

package archive

import (
	"strings"

	"github.com/oneconcern/nr/pkg/errors"
)

type errString string

func (e errString) Error() string { return string(e) }

const (
	// ErrUnknownFormat is returned when the archive format cannot be determined
	ErrUnknownFormat errString = "unknown archive format"
	// ErrNoSource is returned when there is nothing to archive
	ErrNoSource errString = "no source to archive"
)

// Format of an archive
type Format string

// Supported formats
const (
	Tar    Format = "tar"
	TarGz  Format = "tar.gz"
	TarZst Format = "tar.zst"
	Zip    Format = "zip"
)

var suffixes = []struct {
	suffix string
	format Format
}{
	{".tar.gz", TarGz},
	{".tgz", TarGz},
	{".tar.zst", TarZst},
	{".tzst", TarZst},
	{".tar", Tar},
	{".zip", Zip},
}

// Formats lists the supported formats
func Formats() []Format {
	return []Format{Tar, TarGz, TarZst, Zip}
}

// ParseFormat recognizes a format name
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats() {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	switch strings.ToLower(s) {
	case "tgz":
		return TarGz, nil
	case "tzst":
		return TarZst, nil
	}
	return "", errors.Newf("%q", s).Wrap(ErrUnknownFormat)
}

// FormatFromName infers the format from the suffix of an archive file name
func FormatFromName(name string) (Format, error) {
	lower := strings.ToLower(name)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, s.suffix) {
			return s.format, nil
		}
	}
	return "", errors.Newf("cannot infer format from %q", name).Wrap(ErrUnknownFormat)
}

// Suffix is the conventional file extension of the format
func (f Format) Suffix() string {
	return "." + string(f)
}

// String implements pflag.Value
func (f Format) String() string {
	return string(f)
}

// Set implements pflag.Value
func (f *Format) Set(s string) error {
	parsed, err := ParseFormat(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Type implements pflag.Value
func (f *Format) Type() string {
	return "format"
}
