// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

var formats = []string{"text", "json", "yaml"}

type ignoredReport struct {
	Root  string   `json:"root" yaml:"root"`
	Files []string `json:"files" yaml:"files"`
	Dirs  []string `json:"dirs" yaml:"dirs"`
}

type authorsReport struct {
	Path    string   `json:"path" yaml:"path"`
	Authors []string `json:"authors" yaml:"authors"`
}

type licenseReport struct {
	Dry     bool     `json:"dry" yaml:"dry"`
	Changed []string `json:"changed" yaml:"changed"`
}

// printer writes reports in one of the supported formats.
type printer struct {
	w      io.Writer
	format string
}

func (p *printer) ignored(root string, files, dirs []string) error {
	r := ignoredReport{Root: root, Files: orEmpty(files), Dirs: orEmpty(dirs)}
	return p.print(r, func(t *textWriter) {
		t.list("Ignored files:", r.Files)
		t.list("Ignored directories:", r.Dirs)
	})
}

func (p *printer) authors(dir, file string, names []string) error {
	r := authorsReport{Path: dir, Authors: orEmpty(names)}
	if file != "" {
		r.Path = path.Join(dir, file)
	}
	return p.print(r, func(t *textWriter) {
		t.list("Authors of "+r.Path+":", r.Authors)
	})
}

func (p *printer) license(changed []string, dry bool) error {
	r := licenseReport{Dry: dry, Changed: orEmpty(changed)}
	heading := "Added license to:"
	if dry {
		heading = "Would add license to:"
	}
	return p.print(r, func(t *textWriter) {
		t.list(heading, r.Changed)
	})
}

func (p *printer) print(v any, text func(*textWriter)) error {
	switch p.format {
	case "json":
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		t := &textWriter{w: p.w, heading: lipgloss.NewRenderer(p.w).NewStyle().Bold(true)}
		text(t)
		return t.err
	}
}

// textWriter prints headed lists, remembering the first write error.
type textWriter struct {
	w       io.Writer
	heading lipgloss.Style
	err     error
}

func (t *textWriter) list(heading string, items []string) {
	t.printf("%s\n", t.heading.Render(heading))
	if len(items) == 0 {
		t.printf("  (none)\n")
	}
	for _, item := range items {
		t.printf("  %s\n", item)
	}
}

func (t *textWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
