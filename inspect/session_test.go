// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package inspect

import (
	"bytes"
	"context"
	"iter"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"go.astrophena.name/inspector/logger"
	"go.astrophena.name/inspector/testutil"
)

// fakeVCS serves canned authors and records the paths it was asked about.
type fakeVCS struct {
	authors map[string][]string
	err     error
	calls   []string
}

func (f *fakeVCS) ShortLog(ctx context.Context, path string) (iter.Seq[string], error) {
	f.calls = append(f.calls, path)
	if f.err != nil {
		return nil, f.err
	}
	return once(slices.Values(f.authors[path])), nil
}

func newSession(t *testing.T, files map[string]string, vcs VCS) *Session {
	t.Helper()
	root := testutil.Tree(t, files)
	s, err := New(context.Background(), Config{Root: root, WorkDir: root, VCS: vcs})
	if err != nil {
		t.Fatalf("New(): %v", err)
	}
	return s
}

func TestNew(t *testing.T) {
	s := newSession(t, map[string]string{
		".gitignore": "build/\n# comment\nsecrets.txt\n",
	}, &fakeVCS{})

	testutil.AssertEqual(t, s.Rules().Dirs(), []string{"build/"})
	testutil.AssertEqual(t, s.Rules().Files(), []string{"secrets.txt"})
	testutil.AssertEqual(t, s.VCSAvailable(), true)
	testutil.AssertEqual(t, filepath.IsAbs(s.Root()), true)
}

func TestNewWorkDir(t *testing.T) {
	root := testutil.Tree(t, map[string]string{
		".gitignore":     "",
		"scripts/run.sh": "",
	})

	t.Run("subdirectory", func(t *testing.T) {
		_, err := New(context.Background(), Config{
			Root:    root,
			WorkDir: filepath.Join(root, "scripts"),
			VCS:     &fakeVCS{},
		})
		if err != nil {
			t.Fatalf("New(): %v", err)
		}
	})

	t.Run("outside", func(t *testing.T) {
		_, err := New(context.Background(), Config{
			Root:    root,
			WorkDir: t.TempDir(),
			VCS:     &fakeVCS{},
		})
		testutil.AssertErrorIs(t, err, ErrNotInProjectTree)
	})

	t.Run("sibling with common prefix", func(t *testing.T) {
		_, err := New(context.Background(), Config{
			Root:    filepath.Join(root, "scripts"),
			WorkDir: filepath.Join(root, "scripts-old"),
			VCS:     &fakeVCS{},
		})
		testutil.AssertErrorIs(t, err, ErrNotInProjectTree)
	})
}

func TestNewMissingIgnoreFile(t *testing.T) {
	root := t.TempDir()
	_, err := New(context.Background(), Config{Root: root, WorkDir: root, VCS: &fakeVCS{}})
	testutil.AssertErrorIs(t, err, ErrConfigNotFound)
}

func TestNewCustomIgnoreFile(t *testing.T) {
	root := testutil.Tree(t, map[string]string{"rules/exclude": "out/\n"})
	s, err := New(context.Background(), Config{
		Root:       root,
		WorkDir:    root,
		IgnoreFile: "rules/exclude",
		VCS:        &fakeVCS{},
	})
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, s.Rules().Dirs(), []string{"out/"})
}

func TestNewWithoutGit(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	var logs bytes.Buffer
	l := logger.New(nil)
	l.AttachTerminal(&logs, false)
	ctx := logger.Put(context.Background(), l)

	root := testutil.Tree(t, map[string]string{
		".gitignore": "build/\n",
		"main.c":     "",
	})
	s, err := New(ctx, Config{Root: root, WorkDir: root})
	if err != nil {
		t.Fatalf("New() must degrade without git, got %v", err)
	}
	testutil.AssertEqual(t, s.VCSAvailable(), false)
	testutil.AssertEqual(t, s.Rules().Dirs(), []string{"build/"})
	if !strings.Contains(logs.String(), "git is not available") {
		t.Errorf("no warning logged: %q", logs.String())
	}

	_, err = s.AuthorsFor(ctx, Target{Path: ".", FileName: "main.c"})
	testutil.AssertErrorIs(t, err, ErrVCSUnavailable)
}

func TestFindRoot(t *testing.T) {
	base := testutil.Tree(t, map[string]string{"Discorded/scripts/tools/": ""})

	got, err := FindRoot(filepath.Join(base, "Discorded", "scripts", "tools"), "Discorded")
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, got, filepath.Join(base, "Discorded"))

	got, err = FindRoot(filepath.Join(base, "Discorded"), "Discorded")
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, got, filepath.Join(base, "Discorded"))

	_, err = FindRoot(filepath.Join(base, "Discorded", "scripts"), "Elsewhere")
	testutil.AssertErrorIs(t, err, ErrNotInProjectTree)
}
