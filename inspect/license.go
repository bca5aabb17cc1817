// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package inspect

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/tools/txtar"

	"go.astrophena.name/inspector/logger"
)

// LicenseConfigFile is the txtar archive, relative to the project root, that
// holds license templates.
const LicenseConfigFile = ".devtools/config.txtar"

// LicenseConfig holds license templates and header markers keyed by file
// extension, including the leading dot.
//
// A template may contain a single %d verb, replaced with the year the file was
// last modified. A file whose content starts with the header marker for its
// extension already has a license.
type LicenseConfig struct {
	Templates map[string]string
	Headers   map[string]string
}

// LoadLicenseConfig reads the license configuration of the project at root.
//
// The archive contains license/template.<ext> and license/header.<ext> files;
// other files are ignored.
func LoadLicenseConfig(root string) (*LicenseConfig, error) {
	name := filepath.Join(root, filepath.FromSlash(LicenseConfigFile))
	ar, err := txtar.ParseFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfigNotFound, name, err)
	}
	if err != nil {
		return nil, err
	}
	return ParseLicenseConfig(ar), nil
}

// ParseLicenseConfig extracts license templates and headers from ar.
func ParseLicenseConfig(ar *txtar.Archive) *LicenseConfig {
	cfg := &LicenseConfig{
		Templates: make(map[string]string),
		Headers:   make(map[string]string),
	}
	for _, f := range ar.Files {
		dir, base := path.Split(f.Name)
		if dir != "license/" {
			continue
		}
		ext := path.Ext(base)
		if ext == "" {
			continue
		}
		switch strings.TrimSuffix(base, ext) {
		case "template":
			cfg.Templates[ext] = string(f.Data)
		case "header":
			cfg.Headers[ext] = strings.TrimSuffix(string(f.Data), "\n")
		}
	}
	return cfg
}

// LicenseOptions controls [Session.AddLicense].
type LicenseOptions struct {
	// RespectExclusions skips paths excluded by the ignore file.
	RespectExclusions bool
	// Dry reports the files that would change without writing them.
	Dry bool
}

// AddLicense prepends a license to every file below the root that has a
// template for its extension and does not start with the matching header. It
// returns the paths, relative to the root, of the files it changed or, for dry
// runs, would change.
func (s *Session) AddLicense(ctx context.Context, cfg *LicenseConfig, opts LicenseOptions) ([]string, error) {
	var changed []string
	err := s.walk(s.root, opts.RespectExclusions, func(path, rel string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		ext := filepath.Ext(path)
		tmpl, ok := cfg.Templates[ext]
		if !ok {
			return nil
		}
		header, ok := cfg.Headers[ext]
		if !ok {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if bytes.HasPrefix(content, []byte(header)) {
			return nil
		}
		info, err := os.Stat(path)
		if err != nil {
			return err
		}

		hdr := tmpl
		if strings.Contains(tmpl, "%d") {
			hdr = fmt.Sprintf(tmpl, info.ModTime().Year())
		}
		changed = append(changed, rel)
		if opts.Dry {
			logger.Info(ctx, "would add license", slog.String("path", rel))
			return nil
		}

		var buf bytes.Buffer
		buf.WriteString(hdr)
		buf.Write(content)
		if err := os.WriteFile(path, buf.Bytes(), info.Mode().Perm()); err != nil {
			return err
		}
		logger.Debug(ctx, "added license", slog.String("path", rel))
		return nil
	})
	return changed, err
}
