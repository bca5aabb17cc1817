// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package inspect

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"go.astrophena.name/inspector/logger"
)

// Target selects the paths an author query covers. Exactly one of FileName
// and Recursive must be set.
type Target struct {
	// Path is a directory or file, relative to the root unless absolute.
	Path string
	// FileName names a single file inside Path.
	FileName string
	// Recursive covers every file below Path that is not excluded.
	Recursive bool
}

// AuthorsFor returns the authors of the target in the order git reports them,
// most commits first. Recursive queries merge the authors of every file,
// dropping duplicates and keeping the order in which authors were first seen.
//
// The returned sequence can be ranged over once.
func (s *Session) AuthorsFor(ctx context.Context, t Target) (iter.Seq[string], error) {
	if (t.FileName != "") == t.Recursive {
		return nil, fmt.Errorf("%w: ambiguous or missing target: set exactly one of file name and recursive", ErrInvalidArgument)
	}

	path := s.resolve(t.Path)
	fi, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrPathNotFound, t.Path)
	}
	if err != nil {
		return nil, err
	}

	target := path
	if t.FileName != "" {
		target = filepath.Join(path, t.FileName)
		fi, err = os.Stat(target)
		if err != nil || !fi.Mode().IsRegular() {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, filepath.Join(t.Path, t.FileName))
		}
	}

	if s.rules.IsExcluded(target) {
		return nil, fmt.Errorf("%w: %s", ErrExcludedPath, target)
	}
	rel, err := s.rel(target)
	if err != nil {
		return nil, err
	}
	if s.vcs == nil {
		return nil, fmt.Errorf("%w: cannot attribute %s", ErrVCSUnavailable, rel)
	}

	if !t.Recursive || !fi.IsDir() {
		return s.vcs.ShortLog(ctx, rel)
	}
	return s.recursiveAuthors(ctx, target)
}

func (s *Session) recursiveAuthors(ctx context.Context, dir string) (iter.Seq[string], error) {
	var (
		authors []string
		seen    = make(map[string]bool)
		files   int
	)
	err := s.walk(dir, true, func(path, rel string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		names, err := s.fileAuthors(ctx, rel)
		if err != nil {
			return err
		}
		files++
		for _, name := range names {
			if !seen[name] {
				seen[name] = true
				authors = append(authors, name)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Debug(ctx, "collected authors",
		slog.String("dir", dir),
		slog.Int("files", files),
		slog.Int("authors", len(authors)),
	)
	return once(slices.Values(authors)), nil
}

// fileAuthors returns the authors of one file, caching the result for the
// lifetime of the session.
func (s *Session) fileAuthors(ctx context.Context, rel string) ([]string, error) {
	if names, ok := s.authors.Load(rel); ok {
		return names, nil
	}
	seq, err := s.vcs.ShortLog(ctx, rel)
	if err != nil {
		return nil, err
	}
	names, _ := s.authors.LoadOrStore(rel, slices.Collect(seq))
	return names, nil
}

// walk calls fn for every regular file below dir in lexical order, skipping
// the .git directory and, if respect is set, excluded entries.
func (s *Session) walk(dir string, respect bool, fn func(path, rel string) error) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == dir {
				return nil
			}
			if d.Name() == ".git" || (respect && s.rules.IsExcluded(path)) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || (respect && s.rules.IsExcluded(path)) {
			return nil
		}
		rel, err := s.rel(path)
		if err != nil {
			return err
		}
		return fn(path, rel)
	})
}

// once wraps seq so that it yields nothing after its first use.
func once[T any](seq iter.Seq[T]) iter.Seq[T] {
	var used bool
	return func(yield func(T) bool) {
		if used {
			return
		}
		used = true
		seq(yield)
	}
}
