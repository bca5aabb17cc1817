// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"go.astrophena.name/inspector/cli"
	"go.astrophena.name/inspector/cli/clitest"
	"go.astrophena.name/inspector/inspect"
	"go.astrophena.name/inspector/testutil"
)

const fakeGit = `#!/bin/sh
case "$1" in
--version) echo "git version 2.50.0" ;;
shortlog)
	case "$6" in
	src/done.c) printf '     7\tGerardo Salazar\n' ;;
	src/main.c) printf '    12\tAlice Smith\n     3\tBob Lee\n' ;;
	src/util.h) printf '     4\tCarol\n     1\tAlice Smith\n' ;;
	*) echo "fatal: bad revision for $6" >&2; exit 128 ;;
	esac ;;
*) exit 1 ;;
esac
`

// setupProject creates a project named Discorded from testdata/project.txtar,
// puts a fake git first in PATH and changes into dir, relative to the project
// root.
func setupProject(t *testing.T, dir string) *app {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake git requires a POSIX shell")
	}
	ar := testutil.ParseTxtar(t, filepath.Join("testdata", "project.txtar"))
	base := t.TempDir()
	testutil.ExtractTxtar(t, ar, base)

	// Files below config/ form the project's license configuration.
	var cfg txtar.Archive
	for _, f := range ar.Files {
		if name, ok := strings.CutPrefix(f.Name, "config/"); ok {
			cfg.Files = append(cfg.Files, txtar.File{Name: name, Data: f.Data})
		}
	}
	cfgPath := filepath.Join(base, "Discorded", ".devtools", "config.txtar")
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfgPath, txtar.Format(&cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	bin := t.TempDir()
	if err := os.WriteFile(filepath.Join(bin, "git"), []byte(fakeGit), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))
	t.Chdir(filepath.Join(base, "Discorded", filepath.FromSlash(dir)))
	return new(app)
}

func readProjectFile(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.FromSlash(name))
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestRun(t *testing.T) {
	setup := func(t *testing.T) *app { return setupProject(t, ".") }

	cases := map[string]clitest.Case[*app]{
		"ignored lists": {
			WantInStdout: "  secrets.txt\n",
		},
		"ignored directories": {
			WantInStdout: "  build/\n  src/gen/\n",
		},
		"json": {
			Args:         []string{"-format", "json"},
			WantInStdout: "\"files\": [\n    \"secrets.txt\"\n  ],\n  \"dirs\": [\n    \"build/\",\n    \"src/gen/\"\n  ]\n",
		},
		"yaml": {
			Args:         []string{"-format", "yaml"},
			WantInStdout: "- secrets.txt\n",
		},
		"unknown format": {
			Args:    []string{"-format", "xml"},
			WantErr: cli.ErrInvalidArgs,
		},
		"unexpected arguments": {
			Args:    []string{"src"},
			WantErr: cli.ErrInvalidArgs,
		},
		"file without authors": {
			Args:    []string{"-file", "main.c"},
			WantErr: cli.ErrInvalidArgs,
		},
		"authors and license": {
			Args:    []string{"-authors", "src", "-recursive", "-add-license"},
			WantErr: cli.ErrInvalidArgs,
		},
		"missing ignore file": {
			Args:    []string{"-ignore-file", "nope"},
			WantErr: inspect.ErrConfigNotFound,
		},
		"root below working directory": {
			Args:    []string{"-root", "src"},
			WantErr: inspect.ErrNotInProjectTree,
		},
		"authors of file": {
			Args:         []string{"-authors", "src", "-file", "main.c"},
			WantInStdout: "Authors of src/main.c:\n  Alice Smith\n  Bob Lee\n",
		},
		"authors recursive": {
			Args:         []string{"-authors", "src", "-recursive"},
			WantInStdout: "Authors of src:\n  Gerardo Salazar\n  Alice Smith\n  Bob Lee\n  Carol\n",
		},
		"authors as json": {
			Args:         []string{"-authors", "src", "-file", "util.h", "-format", "json"},
			WantInStdout: "\"authors\": [\n    \"Carol\",\n    \"Alice Smith\"\n  ]",
		},
		"authors without mode": {
			Args:    []string{"-authors", "src"},
			WantErr: inspect.ErrInvalidArgument,
		},
		"authors of missing path": {
			Args:    []string{"-authors", "lib", "-recursive"},
			WantErr: inspect.ErrPathNotFound,
		},
		"authors of missing file": {
			Args:    []string{"-authors", "src", "-file", "nope.c"},
			WantErr: inspect.ErrFileNotFound,
		},
		"authors of excluded file": {
			Args:    []string{"-authors", ".", "-file", "secrets.txt"},
			WantErr: inspect.ErrExcludedPath,
		},
		"git failure": {
			Args:    []string{"-authors", "legacy", "-file", "broken.c"},
			WantErr: inspect.ErrVCSQueryFailed,
		},
		"add license dry run": {
			Args:         []string{"-add-license", "-dry"},
			WantInStdout: "Would add license to:\n  src/main.c\n  src/util.h\n",
			CheckFunc: func(t *testing.T, _ *app) {
				testutil.AssertEqual(t, readProjectFile(t, "src/main.c"), "int main(void) { return 0; }\n")
			},
		},
		"add license": {
			Args:         []string{"-add-license"},
			WantInStdout: "Added license to:\n  src/main.c\n  src/util.h\n",
			CheckFunc: func(t *testing.T, _ *app) {
				if got := readProjectFile(t, "src/main.c"); !strings.HasPrefix(got, "/* Copyright ") {
					t.Errorf("src/main.c has no license header:\n%s", got)
				}
				testutil.AssertEqual(t, readProjectFile(t, "src/gen/out.c"), "int generated;\n")
			},
		},
		"add license including exclusions": {
			Args:         []string{"-add-license", "-dry", "-ignore-exclusions"},
			WantInStdout: "  src/gen/out.c\n  src/main.c\n",
		},
	}

	clitest.Run(t, setup, cases)
}

func TestRunProject(t *testing.T) {
	setup := func(t *testing.T) *app { return setupProject(t, "scripts") }

	clitest.Run(t, setup, map[string]clitest.Case[*app]{
		"found by name": {
			Args:         []string{"-project", "Discorded"},
			WantInStdout: "  secrets.txt\n",
		},
		"unknown name": {
			Args:    []string{"-project", "Elsewhere"},
			WantErr: inspect.ErrNotInProjectTree,
		},
		"default root is the working directory": {
			WantErr: inspect.ErrConfigNotFound,
		},
	})
}
