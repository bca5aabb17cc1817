// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Inspector reports which paths of a project are excluded by its ignore file,
lists the Git authors of project files and adds license headers to files that
lack one.

Usage:

	$ inspector [flags]

Without mode flags, inspector prints the ignored files and directories read
from the .gitignore file at the project root. Rules are literal paths: a rule
ending with a slash, or naming an existing directory, is a directory rule;
every other rule is a file rule. Lines starting with # or with whitespace are
skipped.

The project root is the current directory unless -root or -project is given.
With -project, inspector walks up from the current directory to the nearest
directory with that name. The current directory must be inside the root.

To list the authors of a file, most commits first:

	$ inspector -authors src -file main.c

To list the authors of every file below a directory, skipping ignored paths:

	$ inspector -authors src -recursive

Authors of several files are merged without duplicates, in the order they
were first seen. Author queries need git; without it inspector prints a
warning and only ignore rules are available.

To add license headers:

	$ inspector -add-license

License templates are read from the .devtools/config.txtar file in the
project root. This file is a txtar archive and can contain the following
files:

  - license/template.{ext}: A template for the license header for a specific
    file extension (e.g., template.c). The template can contain a formatting
    verb %d for the year the file was last modified.
  - license/header.{ext}: A string that identifies an existing license header
    for a specific file extension (e.g., header.c). If a file starts with
    this string, it already has a license header and is left alone.

Ignored paths are skipped unless -ignore-exclusions is set. Pass -dry to
print the files that would change without writing them.

Output can be printed as text, JSON or YAML with -format.
*/
package main

import (
	_ "embed"

	"go.astrophena.name/inspector/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
