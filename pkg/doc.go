// Package pkg provides the core libraries for pagecraft, a content editor for
// websites built from typed sections.
//
// # Overview
//
// A page is an ordered list of sections. Most section types carry plain
// structured content (a hero banner, a timeline, a list of people). Rich-text
// sections carry a document tree that may contain multi-column layouts, and
// every edit to that tree goes through a transaction mediator that keeps the
// layouts well-formed. The pkg directory is organized into three areas:
//
//  1. Document core - [doc], [schema], [transform], [layout], [io]
//  2. Editing - [editor]
//  3. Content and storage - [content], [store], [server]
//
// # Architecture
//
// The typical flow of one edit:
//
//	layout command (toolbar, API, CLI)
//	         ↓
//	    [layout] package (command → transaction)
//	         ↓
//	    [transform] package (plugin filter → steps → repair → validate)
//	         ↓
//	    [editor] package (commit, undo history)
//	         ↓
//	    [io] package (canonical JSON) → [store]
//
// # Quick Start
//
// Insert a two-column layout and align the second column:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/pagecraft/pkg/doc"
//	    "github.com/matzehuels/pagecraft/pkg/editor"
//	    "github.com/matzehuels/pagecraft/pkg/layout"
//	)
//
//	sess, _ := editor.New(nil, editor.Options{})
//	sess.Exec(ctx, layout.InsertColumns{Count: 2})
//	sess.Exec(ctx, layout.SetColumnVerticalAlign{Align: "bottom", Target: doc.Path{0, 1}})
//	data, _ := sess.Snapshot()
//
// # Main Packages
//
// ## Document Core
//
// [doc] - The node tree, marks and paths. Carries no policy.
//
// [schema] - Node types, allowed content and attribute rules. Validates a
// tree and fills in defaults such as a column's vertical alignment.
//
// [transform] - Steps, transactions and the mediator that runs every edit
// through a plugin chain. Also the bounded undo/redo history.
//
// [layout] - Column commands and the layout plugin enforcing the column
// rules: an emptied layout collapses, edits that cross a column boundary are
// dropped, the last column cannot be removed, and alignment defaults to top.
//
// [io] - Canonical JSON serialization of document trees.
//
// ## Editing
//
// [editor] - A single-user editing session with cursor and history.
//
// ## Content and Storage
//
// [content] - Sections, pages and per-type content validation.
//
// [store] - Persistence of pages and sections over a key/value backend:
// MemoryBackend for testing, FileBackend for the CLI, RedisBackend and
// MongoBackend for servers.
//
// [server] - The HTTP admin API.
//
// [observability] - Hooks for transaction, storage and request metrics.
//
// [errors] - Coded errors shared by all layers.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                                   # All tests
//	go test ./pkg/layout/...                            # Specific package
//	go test -run Example                                # Examples only
//	PAGECRAFT_TEST_REDIS=localhost:6379 go test ./pkg/store/  # Include Redis
//
// [doc]: https://pkg.go.dev/github.com/matzehuels/pagecraft/pkg/doc
// [schema]: https://pkg.go.dev/github.com/matzehuels/pagecraft/pkg/schema
// [transform]: https://pkg.go.dev/github.com/matzehuels/pagecraft/pkg/transform
// [layout]: https://pkg.go.dev/github.com/matzehuels/pagecraft/pkg/layout
// [io]: https://pkg.go.dev/github.com/matzehuels/pagecraft/pkg/io
// [editor]: https://pkg.go.dev/github.com/matzehuels/pagecraft/pkg/editor
// [content]: https://pkg.go.dev/github.com/matzehuels/pagecraft/pkg/content
// [store]: https://pkg.go.dev/github.com/matzehuels/pagecraft/pkg/store
// [server]: https://pkg.go.dev/github.com/matzehuels/pagecraft/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/pagecraft/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/pagecraft/pkg/errors
package pkg
