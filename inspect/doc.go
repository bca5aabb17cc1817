// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package inspect inspects a project tree: which paths its ignore file
// excludes, who authored its files according to Git, and which files lack a
// license header.
//
// A [Session] is bound to one project root. It loads the ignore file once, at
// construction, and consults the resulting rules for every query.
package inspect
