// Package license renders the text of common open source licenses.
package license

import (
	"embed"
	"io"
	"path"
	"sort"
	"strings"
	"text/template"

	"github.com/oneconcern/nr/pkg/errors"
)

//go:embed templates/*.txt
var templates embed.FS

type errString string

func (e errString) Error() string { return string(e) }

// ErrUnknownLicense is returned when no template exists for a license name
const ErrUnknownLicense errString = "unknown license"

var aliases = map[string]string{
	"apache":  "Apache-2.0",
	"apache2": "Apache-2.0",
	"bsd":     "BSD-3-Clause",
	"bsd2":    "BSD-2-Clause",
	"bsd3":    "BSD-3-Clause",
}

// Info fills the placeholders of a license
type Info struct {
	Year   string
	Author string
}

// Names of the available licenses, as SPDX identifiers
func Names() []string {
	entries, err := templates.ReadDir("templates")
	if err != nil {
		panic(err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".txt"))
	}
	sort.Strings(names)
	return names
}

// Lookup resolves a license name, ignoring case. A few common aliases are
// accepted, such as "apache" or "bsd3".
func Lookup(name string) (string, error) {
	if canonical, ok := aliases[strings.ToLower(name)]; ok {
		return canonical, nil
	}
	for _, known := range Names() {
		if strings.EqualFold(known, name) {
			return known, nil
		}
	}
	return "", errors.Newf("%q", name).Wrap(ErrUnknownLicense)
}

// Render writes the text of a license
func Render(w io.Writer, name string, info Info) error {
	canonical, err := Lookup(name)
	if err != nil {
		return err
	}
	tpl, err := template.New(canonical).Option("missingkey=error").ParseFS(templates, path.Join("templates", canonical+".txt"))
	if err != nil {
		return err
	}
	return tpl.ExecuteTemplate(w, canonical+".txt", info)
}
