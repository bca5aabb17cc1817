// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package inspect

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go4org/hashtriemap"

	"go.astrophena.name/inspector/git"
	"go.astrophena.name/inspector/ignore"
	"go.astrophena.name/inspector/logger"
)

// DefaultIgnoreFile is the ignore file read when Config.IgnoreFile is empty.
const DefaultIgnoreFile = ".gitignore"

// VCS reports the authors of a path. Paths are slash-separated and relative
// to the project root.
type VCS interface {
	ShortLog(ctx context.Context, path string) (iter.Seq[string], error)
}

// Config configures a [Session].
type Config struct {
	// Root is the project root. Relative roots are resolved against the
	// process working directory.
	Root string
	// WorkDir must be inside Root. It defaults to the process working
	// directory.
	WorkDir string
	// IgnoreFile is the ignore file, relative to Root unless absolute.
	IgnoreFile string
	// VCS answers author queries. If nil, git is used when it is installed.
	VCS VCS
	// GitTimeout bounds each git invocation when VCS is nil.
	GitTimeout time.Duration
}

// Session inspects one project tree.
type Session struct {
	root  string
	rules *ignore.RuleSet
	vcs   VCS

	authors hashtriemap.HashTrieMap[string, []string] // rel path → authors
}

// New creates a Session. It fails if the working directory is outside the
// root or the ignore file is missing. A missing git binary only disables
// author queries.
func New(ctx context.Context, cfg Config) (*Session, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, err
	}
	wd := cfg.WorkDir
	if wd == "" {
		if wd, err = os.Getwd(); err != nil {
			return nil, err
		}
	}
	if wd, err = filepath.Abs(wd); err != nil {
		return nil, err
	}
	if !within(root, wd) {
		return nil, fmt.Errorf("%w: %s is outside %s", ErrNotInProjectTree, wd, root)
	}

	name := cfg.IgnoreFile
	if name == "" {
		name = DefaultIgnoreFile
	}
	rules, err := ignore.Load(root, name)
	if err != nil {
		return nil, err
	}
	logger.Debug(ctx, "loaded ignore rules",
		slog.String("root", root),
		slog.Int("dirs", len(rules.Dirs())),
		slog.Int("files", len(rules.Files())),
	)

	s := &Session{root: root, rules: rules, vcs: cfg.VCS}
	if s.vcs == nil {
		c := &git.Client{Dir: root, Timeout: cfg.GitTimeout}
		if err := c.Check(ctx); err != nil {
			logger.Warn(ctx, "git is not available; author queries are disabled", slog.Any("err", err))
		} else {
			s.vcs = c
		}
	}
	return s, nil
}

// Root returns the absolute project root.
func (s *Session) Root() string { return s.root }

// Rules returns the ignore rules loaded at construction.
func (s *Session) Rules() *ignore.RuleSet { return s.rules }

// VCSAvailable reports whether author queries are enabled.
func (s *Session) VCSAvailable() bool { return s.vcs != nil }

// FindRoot returns the nearest directory named name among dir and its
// ancestors.
func FindRoot(dir, name string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for d := dir; ; {
		if filepath.Base(d) == name {
			return d, nil
		}
		parent := filepath.Dir(d)
		if parent == d {
			return "", fmt.Errorf("%w: no directory named %q contains %s", ErrNotInProjectTree, name, dir)
		}
		d = parent
	}
}

// within reports whether path is root or below it.
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// resolve returns the absolute form of p, resolving relative paths against
// the root.
func (s *Session) resolve(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(s.root, p)
}

// rel returns abs relative to the root in slash form.
func (s *Session) rel(abs string) (string, error) {
	if !within(s.root, abs) {
		return "", fmt.Errorf("%w: %s is outside %s", ErrNotInProjectTree, abs, s.root)
	}
	rel, err := filepath.Rel(s.root, abs)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}
