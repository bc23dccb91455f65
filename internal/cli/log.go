// Package cli implements the pagecraft command-line interface.
//
// This package provides commands for checking and formatting stored
// rich-text documents, editing their column layouts from the shell, and
// running the HTTP admin API. The CLI is built using cobra and supports
// verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - validate: Check a document file against the schema
//   - fmt: Rewrite a document in canonical form
//   - tree: Print the outline of a document
//   - columns: Insert, align and remove column layouts
//   - serve: Run the admin API
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so that commands and the editing session
// share one logger.
//
// # Example
//
//	import "github.com/matzehuels/pagecraft/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pagecraft/pkg/doc"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times work on one document file. Each call to done logs the
// outcome with the document's shape as structured fields.
type progress struct {
	logger *log.Logger
	file   string
	start  time.Time
}

func newProgress(l *log.Logger, file string) *progress {
	return &progress{logger: l, file: file, start: time.Now()}
}

// done logs msg with the file, the block and column counts of root, and the
// elapsed time rounded to the millisecond. A nil root logs the file only.
func (p *progress) done(msg string, root *doc.Node) {
	kv := []any{"file", p.file}
	if root != nil {
		kv = append(kv,
			"blocks", root.ChildCount(),
			"layouts", root.Count(doc.TypeColumns),
			"columns", root.Count(doc.TypeColumn))
	}
	kv = append(kv, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, kv...)
}

// ctxKey is the type for context keys used in this package.
// Using a distinct type prevents collisions with other packages.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
// The logger can be retrieved later with loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
// This ensures commands always have a valid logger even if context setup fails.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
