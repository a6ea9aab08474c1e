// Package migrations holds the embedded schema migration sources. Table
// names are deployment configuration rather than fixed identifiers, so the
// migrations are stored as templates and rendered into an in-memory
// filesystem before being handed to golang-migrate.
package migrations

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"testing/fstest"
	"text/template"
)

//go:embed *.sql.tmpl
var templates embed.FS

// Tables are the identifiers substituted into the migration templates.
type Tables struct {
	Users    string
	Sessions string
}

// Render instantiates every embedded template with the given table names and
// returns an fs.FS laid out the way golang-migrate's iofs source expects
// (NNNN_name.up.sql / NNNN_name.down.sql).
func Render(tables Tables) (fs.FS, error) {
	entries, err := templates.ReadDir(".")
	if err != nil {
		return nil, err
	}

	rendered := fstest.MapFS{}
	for _, entry := range entries {
		raw, err := templates.ReadFile(entry.Name())
		if err != nil {
			return nil, err
		}

		tmpl, err := template.New(entry.Name()).Parse(string(raw))
		if err != nil {
			return nil, fmt.Errorf("migrations: parse %s: %w", entry.Name(), err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, tables); err != nil {
			return nil, fmt.Errorf("migrations: render %s: %w", entry.Name(), err)
		}

		name := strings.TrimSuffix(entry.Name(), ".tmpl")
		rendered[name] = &fstest.MapFile{Data: buf.Bytes()}
	}

	return rendered, nil
}
