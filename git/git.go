// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package git queries commit authorship by running the git binary.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"go.astrophena.name/inspector/logger"
)

// DefaultTimeout bounds a single git invocation when Client.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// ErrQueryFailed is matched by every [QueryError].
var ErrQueryFailed = errors.New("git query failed")

// QueryError describes a failed git invocation.
type QueryError struct {
	Args    []string // arguments passed to git
	Err     error    // underlying error, usually *exec.ExitError
	Output  string   // captured stderr, or stdout if stderr was empty
	Timeout bool     // whether the invocation hit its deadline
}

func (e *QueryError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "git %s", strings.Join(e.Args, " "))
	if e.Timeout {
		sb.WriteString(": timed out")
	} else {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		fmt.Fprintf(&sb, ":\n%s", out)
	}
	return sb.String()
}

func (e *QueryError) Unwrap() error { return e.Err }

// Is makes every QueryError match [ErrQueryFailed].
func (e *QueryError) Is(target error) bool { return target == ErrQueryFailed }

// Client runs git in a repository directory.
type Client struct {
	Dir     string        // working directory of git invocations
	Binary  string        // git executable; "git" if empty
	Timeout time.Duration // per-invocation deadline; DefaultTimeout if zero
}

func (c *Client) binary() string {
	if c.Binary == "" {
		return "git"
	}
	return c.Binary
}

func (c *Client) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// Check reports whether the git binary can be found and executed.
func (c *Client) Check(ctx context.Context) error {
	if _, err := exec.LookPath(c.binary()); err != nil {
		return err
	}
	_, err := c.run(ctx, "--version")
	return err
}

// ShortLog returns the authors of commits touching path, relative to Dir, as
// reported by "git shortlog -s -n". The sequence can be ranged over once.
func (c *Client) ShortLog(ctx context.Context, path string) (iter.Seq[string], error) {
	out, err := c.run(ctx, "shortlog", "-s", "-n", "HEAD", "--", path)
	if err != nil {
		return nil, err
	}
	return ParseShortLog(out), nil
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.binary(), args...)
	cmd.Dir = c.Dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Never wait for a pager or a credential prompt.
	cmd.Env = append(cmd.Environ(), "GIT_PAGER=cat", "GIT_TERMINAL_PROMPT=0")
	cmd.WaitDelay = time.Second

	logger.Debug(ctx, "running git", slog.Any("args", args), slog.String("dir", c.Dir))
	if err := cmd.Run(); err != nil {
		qe := &QueryError{
			Args:    args,
			Err:     err,
			Output:  stderr.String(),
			Timeout: errors.Is(ctx.Err(), context.DeadlineExceeded),
		}
		if qe.Output == "" {
			qe.Output = stdout.String()
		}
		return nil, qe
	}
	return stdout.Bytes(), nil
}

// nameOffset is the width of the commit count column plus its separator.
const nameOffset = 7

// ParseShortLog parses summary output of "git shortlog -s" into author names,
// in output order. Each line holds a commit count padded to six columns and a
// separator, followed by the name. The returned sequence yields nothing after
// its first use.
func ParseShortLog(out []byte) iter.Seq[string] {
	lines := strings.Split(string(out), "\n")
	// The output always ends with a newline.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	var used bool
	return func(yield func(string) bool) {
		if used {
			return
		}
		used = true
		for _, line := range lines {
			name, ok := authorName(strings.TrimSuffix(line, "\r"))
			if !ok {
				continue
			}
			if !yield(name) {
				return
			}
		}
	}
}

func authorName(line string) (string, bool) {
	// Counts too wide for the column push the name right; the tab git
	// writes still separates them.
	if _, name, ok := strings.Cut(line, "\t"); ok {
		return name, name != ""
	}
	if len(line) <= nameOffset {
		return "", false
	}
	return line[nameOffset:], true
}
