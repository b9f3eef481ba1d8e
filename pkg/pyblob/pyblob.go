// Package pyblob packs Python source files into a self-loading Python script.
//
// Each source is stored as a base64 blob, optionally zlib compressed. When the
// generated script runs, the blobs are executed as modules and registered in
// sys.modules.
package pyblob

import (
	"bytes"
	"encoding/base64"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/klauspost/compress/zlib"
	"github.com/oneconcern/nr/pkg/errors"
	"github.com/oneconcern/nr/pkg/fs"
	"github.com/spf13/afero"
)

const defaultWidth = 76

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Options for the generated script
type Options struct {
	Compress bool
	// ExportSymbol binds the loaded module to this name. It requires a single source.
	ExportSymbol string
	// Width of the blob lines in the script
	Width int
}

// Source is a Python module to pack
type Source struct {
	Module string
	Path   string
	Data   []byte
}

// ModuleName derives the module name from a file name. A package __init__.py
// is named after its directory.
func ModuleName(path string) string {
	base := fs.RmvSuffix(filepath.Base(path))
	if base == "__init__" {
		return filepath.Base(filepath.Dir(path))
	}
	return base
}

// LoadSources reads files from afs
func LoadSources(afs afero.Fs, files []string) ([]Source, error) {
	sources := make([]Source, 0, len(files))
	seen := make(map[string]string)
	for _, file := range files {
		data, err := afero.ReadFile(afs, file)
		if err != nil {
			return nil, err
		}
		module := ModuleName(file)
		if !identifier.MatchString(module) {
			return nil, errors.Newf("%s: %q is not a valid module name", file, module)
		}
		if other, ok := seen[module]; ok {
			return nil, errors.Newf("%s and %s both define module %s", other, file, module)
		}
		seen[module] = file
		sources = append(sources, Source{Module: module, Path: file, Data: data})
	}
	return sources, nil
}

// Encode data as base64, zlib compressed first when requested
func Encode(data []byte, compress bool) (string, error) {
	if !compress {
		return base64.StdEncoding.EncodeToString(data), nil
	}
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return "", err
	}
	if _, err = zw.Write(data); err != nil {
		return "", err
	}
	if err = zw.Close(); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Decode reverses Encode
func Decode(blob string, compressed bool) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(blob), ""))
	if err != nil {
		return nil, err
	}
	if !compressed {
		return data, nil
	}
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

type blob struct {
	Module string
	Path   string
	Lines  []string
}

var script = template.Must(template.New("pyblob").Parse(`# Generated by nr py.blob. Do not edit.
import base64
import sys
import types
{{- if .Compress }}
import zlib
{{- end }}

_blobs = [
{{- range .Blobs }}
  ({{ printf "%q" .Module }}, {{ printf "%q" .Path }}, (
{{- range .Lines }}
    b'{{ . }}'
{{- end }}
  )),
{{- end }}
]


def _load(name, filename, blob):
  source = base64.b64decode(blob)
{{- if .Compress }}
  source = zlib.decompress(source)
{{- end }}
  module = types.ModuleType(name)
  module.__file__ = filename
  sys.modules[name] = module
  exec(compile(source, filename, 'exec'), vars(module))
  return module


_modules = [_load(*_b) for _b in _blobs]
{{- if .Export }}
{{ .Export }} = _modules[0]
{{- end }}
del _blobs
`))

// Render writes the Python script loading the sources
func Render(w io.Writer, sources []Source, opts Options) error {
	if len(sources) == 0 {
		return errors.New("no source to pack")
	}
	if opts.ExportSymbol != "" {
		if !identifier.MatchString(opts.ExportSymbol) {
			return errors.Newf("invalid export symbol %q", opts.ExportSymbol)
		}
		if len(sources) != 1 {
			return errors.Newf("export symbol %s needs exactly one source, got %d", opts.ExportSymbol, len(sources))
		}
	}
	width := opts.Width
	if width <= 0 {
		width = defaultWidth
	}

	blobs := make([]blob, 0, len(sources))
	for _, s := range sources {
		encoded, err := Encode(s.Data, opts.Compress)
		if err != nil {
			return errors.New(s.Path).Wrap(err)
		}
		blobs = append(blobs, blob{Module: s.Module, Path: filepath.ToSlash(s.Path), Lines: split(encoded, width)})
	}
	return script.Execute(w, struct {
		Compress bool
		Export   string
		Blobs    []blob
	}{
		Compress: opts.Compress,
		Export:   opts.ExportSymbol,
		Blobs:    blobs,
	})
}

func split(s string, width int) []string {
	lines := make([]string, 0, len(s)/width+1)
	for len(s) > width {
		lines = append(lines, s[:width])
		s = s[width:]
	}
	return append(lines, s)
}
