// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package ignore loads exclusion rules from a project's ignore file.
//
// Rules are literal paths, not glob expressions: a rule excludes exactly the
// file or directory it names relative to the project root. Each rule is
// classified once, at load time, as either a directory or a file rule.
package ignore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrConfigNotFound is returned when the ignore file does not exist.
var ErrConfigNotFound = errors.New("ignore file not found")

// Kind is the classification of a rule.
type Kind int

const (
	File Kind = iota // rule names a file
	Dir              // rule names a directory
)

func (k Kind) String() string {
	if k == Dir {
		return "dir"
	}
	return "file"
}

// RuleSet is an immutable set of classified rules bound to a project root.
// It is safe for concurrent use.
type RuleSet struct {
	root  string
	dirs  []string
	files []string
	index map[string]Kind
}

// Load reads the ignore file at name, resolving it against root when it is
// relative, and classifies its rules.
func Load(root, name string) (*RuleSet, error) {
	if !filepath.IsAbs(name) {
		name = filepath.Join(root, name)
	}
	f, err := os.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfigNotFound, name, err)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rs, err := Parse(root, f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return rs, nil
}

// Parse classifies the rules read from r. Directory rules are those ending
// with a slash or naming an existing directory below root.
func Parse(root string, r io.Reader) (*RuleSet, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	rs := &RuleSet{
		root:  root,
		index: make(map[string]Kind),
	}

	s := bufio.NewScanner(r)
	for s.Scan() {
		line := strings.TrimSuffix(s.Text(), "\r")
		if skip(line) {
			continue
		}
		if strings.HasSuffix(line, "/") || rs.isDir(line) {
			rs.dirs = append(rs.dirs, line)
			rs.index[line] = Dir
			continue
		}
		rs.files = append(rs.files, line)
		rs.index[line] = File
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return rs, nil
}

// skip reports whether line is a comment or does not start with a
// non-whitespace character.
func skip(line string) bool {
	if line == "" || strings.HasPrefix(line, "#") {
		return true
	}
	r, _ := utf8.DecodeRuneInString(line)
	return unicode.IsSpace(r)
}

func (rs *RuleSet) isDir(rel string) bool {
	fi, err := os.Stat(filepath.Join(rs.root, filepath.FromSlash(strings.TrimPrefix(rel, "/"))))
	return err == nil && fi.IsDir()
}

// Root returns the absolute project root the rules are resolved against.
func (rs *RuleSet) Root() string { return rs.root }

// Dirs returns the directory rules in file order, duplicates included.
func (rs *RuleSet) Dirs() []string { return slices.Clone(rs.dirs) }

// Files returns the file rules in file order, duplicates included.
func (rs *RuleSet) Files() []string { return slices.Clone(rs.files) }

// Lookup returns the classification of a literal rule.
func (rs *RuleSet) Lookup(rule string) (Kind, bool) {
	k, ok := rs.index[rule]
	return k, ok
}

// IsExcluded reports whether candidate, an absolute path or a path relative
// to the root, is named by a rule of the matching kind. Candidates outside the
// root are never excluded.
func (rs *RuleSet) IsExcluded(candidate string) bool {
	rel, ok := rs.rel(candidate)
	if !ok || rel == "." {
		return false
	}
	if strings.HasSuffix(candidate, "/") || rs.isDir(rel) {
		return rs.has(Dir, rel, rel+"/", "/"+rel, "/"+rel+"/")
	}
	return rs.has(File, rel, "/"+rel)
}

// Excluded returns the excluded candidates in input order.
func (rs *RuleSet) Excluded(candidates ...string) []string {
	var excluded []string
	for _, c := range candidates {
		if rs.IsExcluded(c) {
			excluded = append(excluded, c)
		}
	}
	return excluded
}

func (rs *RuleSet) has(kind Kind, forms ...string) bool {
	for _, f := range forms {
		if k, ok := rs.index[f]; ok && k == kind {
			return true
		}
	}
	return false
}

// rel converts candidate into a cleaned slash-separated path relative to the
// root.
func (rs *RuleSet) rel(candidate string) (string, bool) {
	p := filepath.FromSlash(candidate)
	if filepath.IsAbs(p) {
		r, err := filepath.Rel(rs.root, p)
		if err != nil {
			return "", false
		}
		p = r
	}
	rel := path.Clean(filepath.ToSlash(p))
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	return rel, true
}
