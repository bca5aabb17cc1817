// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"
	"time"

	"go.astrophena.name/inspector/cli"
	"go.astrophena.name/inspector/git"
	"go.astrophena.name/inspector/inspect"
)

func main() { cli.Main(new(app)) }

type app struct {
	root       string
	project    string
	ignoreFile string
	format     string
	gitTimeout time.Duration

	authors   string
	file      string
	recursive bool

	addLicense       bool
	ignoreExclusions bool
	dry              bool
}

func (a *app) Flags(fs *flag.FlagSet) {
	fs.StringVar(&a.root, "root", ".", "Project root `dir`.")
	fs.StringVar(&a.project, "project", "", "Use the nearest parent directory with this `name` as the project root.")
	fs.StringVar(&a.ignoreFile, "ignore-file", inspect.DefaultIgnoreFile, "Ignore `file`, relative to the project root.")
	fs.StringVar(&a.format, "format", "text", "Output `format`: text, json or yaml.")
	fs.DurationVar(&a.gitTimeout, "git-timeout", git.DefaultTimeout, "Timeout of a single git invocation.")
	fs.StringVar(&a.authors, "authors", "", "List the authors of files in `path`.")
	fs.StringVar(&a.file, "file", "", "With -authors, list the authors of this `file` inside the path.")
	fs.BoolVar(&a.recursive, "recursive", false, "With -authors, list the authors of every file below the path.")
	fs.BoolVar(&a.addLicense, "add-license", false, "Add license headers to files that lack one.")
	fs.BoolVar(&a.ignoreExclusions, "ignore-exclusions", false, "With -add-license, also process ignored paths.")
	fs.BoolVar(&a.dry, "dry", false, "With -add-license, print the files that would change without changing them.")
}

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)

	if len(env.Args) > 0 {
		return fmt.Errorf("%w: unexpected arguments %q", cli.ErrInvalidArgs, env.Args)
	}
	if !slices.Contains(formats, a.format) {
		return fmt.Errorf("%w: unknown format %q, want one of %q", cli.ErrInvalidArgs, a.format, formats)
	}
	if a.authors == "" && (a.file != "" || a.recursive) {
		return fmt.Errorf("%w: -file and -recursive require -authors", cli.ErrInvalidArgs)
	}
	if a.authors != "" && a.addLicense {
		return fmt.Errorf("%w: -authors and -add-license are mutually exclusive", cli.ErrInvalidArgs)
	}

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	root := a.root
	if a.project != "" {
		if root, err = inspect.FindRoot(wd, a.project); err != nil {
			return err
		}
	}

	s, err := inspect.New(ctx, inspect.Config{
		Root:       root,
		WorkDir:    wd,
		IgnoreFile: a.ignoreFile,
		GitTimeout: a.gitTimeout,
	})
	if err != nil {
		return err
	}

	out := &printer{w: env.Stdout, format: a.format}

	switch {
	case a.authors != "":
		seq, err := s.AuthorsFor(ctx, inspect.Target{
			Path:      a.authors,
			FileName:  a.file,
			Recursive: a.recursive,
		})
		if err != nil {
			return err
		}
		return out.authors(a.authors, a.file, slices.Collect(seq))
	case a.addLicense:
		cfg, err := inspect.LoadLicenseConfig(s.Root())
		if err != nil {
			return err
		}
		changed, err := s.AddLicense(ctx, cfg, inspect.LicenseOptions{
			RespectExclusions: !a.ignoreExclusions,
			Dry:               a.dry,
		})
		if err != nil {
			return err
		}
		return out.license(changed, a.dry)
	default:
		return out.ignored(s.Root(), s.Rules().Files(), s.Rules().Dirs())
	}
}
