// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package inspect

import (
	"errors"

	"go.astrophena.name/inspector/git"
	"go.astrophena.name/inspector/ignore"
)

var (
	// ErrConfigNotFound is returned when the ignore file or the license
	// configuration is missing.
	ErrConfigNotFound = ignore.ErrConfigNotFound
	// ErrPathNotFound is returned when a queried path does not exist.
	ErrPathNotFound = errors.New("path not found")
	// ErrFileNotFound is returned when a queried file does not exist.
	ErrFileNotFound = errors.New("file not found")
	// ErrInvalidArgument is returned for ambiguous or missing query targets.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrExcludedPath is returned when a queried path is excluded by the
	// ignore file.
	ErrExcludedPath = errors.New("path is excluded")
	// ErrVCSQueryFailed is matched by failed git invocations; see
	// [git.QueryError].
	ErrVCSQueryFailed = git.ErrQueryFailed
	// ErrVCSUnavailable is returned by author queries when git could not be
	// found.
	ErrVCSUnavailable = errors.New("version control is not available")
	// ErrNotInProjectTree is returned when the working directory is outside
	// the project root.
	ErrNotInProjectTree = errors.New("not in project tree")
)
