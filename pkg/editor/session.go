// Package editor holds an editing session: one document, its cursor and its
// undo history.
//
// Every command runs through a [transform.Mediator] carrying the layout
// plugin, so the session only ever holds trees that satisfy the schema and
// the column invariants. Committed trees are never mutated afterwards; Doc
// hands out copies and Snapshot serializes the committed tree, so a save
// always observes a whole transaction.
//
// Editing is single-user. A mutex serializes access so that a save running on
// another goroutine sees either the tree before or after a command, never a
// tree in between.
package editor

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pagecraft/pkg/doc"
	"github.com/matzehuels/pagecraft/pkg/errors"
	"github.com/matzehuels/pagecraft/pkg/io"
	"github.com/matzehuels/pagecraft/pkg/layout"
	"github.com/matzehuels/pagecraft/pkg/observability"
	"github.com/matzehuels/pagecraft/pkg/schema"
	"github.com/matzehuels/pagecraft/pkg/transform"
)

// Options configures a session. The zero value is usable.
type Options struct {
	// Registry is the schema; nil uses [schema.Default].
	Registry *schema.Registry
	// HistoryDepth bounds undo; <= 0 uses [transform.DefaultHistoryDepth].
	HistoryDepth int
	// Logger receives debug output for each transaction; nil uses log.Default().
	Logger *log.Logger
}

// Session is an editing session over one document.
type Session struct {
	mu       sync.Mutex
	reg      *schema.Registry
	codec    *io.Codec
	mediator *transform.Mediator
	history  *transform.History
	logger   *log.Logger

	root   *doc.Node
	saved  *doc.Node
	cursor doc.Path
}

// New starts a session over root. A nil root starts from an empty document.
// The root must be a valid "doc" node; the session keeps its own copy.
func New(root *doc.Node, opts Options) (*Session, error) {
	reg := opts.Registry
	if reg == nil {
		reg = schema.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	if root == nil {
		root = doc.New()
	}
	if root.Type != doc.TypeDoc {
		return nil, errors.SchemaViolation("/", "session root must be %q, got %q", doc.TypeDoc, root.Type)
	}
	root = root.Clone()
	reg.ApplyDefaults(root)
	if err := reg.Validate(root); err != nil {
		return nil, err
	}

	return &Session{
		reg:      reg,
		codec:    io.NewCodec(reg),
		mediator: transform.NewMediator(reg, layout.NewPlugin(reg)),
		history:  transform.NewHistory(opts.HistoryDepth),
		logger:   logger,
		root:     root,
		saved:    root,
	}, nil
}

// Load starts a session from a stored document. Stored JSON that cannot be
// read fails with CORRUPT_DOCUMENT.
func Load(data []byte, opts Options) (*Session, error) {
	codec := io.NewCodec(opts.Registry)
	root, err := codec.Deserialize(data)
	if err != nil {
		return nil, err
	}
	if root.Type != doc.TypeDoc {
		return nil, errors.CorruptDocument("/", "stored document root is %q, want %q", root.Type, doc.TypeDoc)
	}
	return New(root, opts)
}

// Exec runs one command at the current cursor. It reports false when the
// command does not apply; on error the document is unchanged.
func (s *Session) Exec(ctx context.Context, cmd layout.Command) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	tx, err := cmd.Transaction(s.root, s.cursor, s.reg)
	if err != nil || tx == nil {
		s.finish(ctx, cmd.Kind(), 0, start, err)
		return false, err
	}

	res, err := s.mediator.Apply(s.root, tx)
	if err != nil {
		s.finish(ctx, cmd.Kind(), len(tx.Steps), start, err)
		return false, err
	}
	applied := !res.Transaction.Empty()
	if n := len(tx.Steps) - stepCount(res.Transaction); n > 0 {
		s.logger.Debug("steps filtered", "command", cmd.Kind(), "dropped", n)
	}
	for _, r := range res.Repairs {
		s.logger.Debug("repair", "command", cmd.Kind(), "note", r)
		observability.Editor().OnRepair(ctx, r)
	}

	if res.Changed {
		s.history.Push(transform.Record{
			Label:  tx.Label,
			Before: s.root,
			After:  res.Doc,
			At:     start,
		})
		s.root = res.Doc
	}
	if applied && res.Transaction.Cursor != nil {
		s.cursor = res.Transaction.Cursor.Clone()
	}
	s.finish(ctx, cmd.Kind(), stepCount(res.Transaction), start, nil)
	return applied, nil
}

func stepCount(tx *transform.Transaction) int {
	if tx == nil {
		return 0
	}
	return len(tx.Steps)
}

func (s *Session) finish(ctx context.Context, kind layout.Kind, steps int, start time.Time, err error) {
	d := time.Since(start)
	if err != nil {
		s.logger.Debug("transaction rejected", "command", kind, "code", errors.GetCode(err), "err", err)
	} else {
		s.logger.Debug("transaction", "command", kind, "steps", steps, "took", d)
	}
	observability.Editor().OnTransaction(ctx, string(kind), steps, d, err)
}

// Undo reverts the most recent committed transaction.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.history.Undo()
	if ok {
		s.root = r.Before
		s.clampCursor()
	}
	return ok
}

// Redo re-applies the most recently undone transaction.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.history.Redo()
	if ok {
		s.root = r.After
		s.clampCursor()
	}
	return ok
}

// clampCursor drops a cursor that no longer addresses a node.
func (s *Session) clampCursor() {
	if _, err := s.root.At(s.cursor); err != nil {
		s.cursor = nil
	}
}

// CanUndo reports whether Undo would succeed.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanUndo()
}

// CanRedo reports whether Redo would succeed.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanRedo()
}

// SetCursor moves the cursor. A nil path clears it.
func (s *Session) SetCursor(p doc.Path) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p == nil {
		s.cursor = nil
		return nil
	}
	if _, err := s.root.At(p); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidArgument, err, "cursor").WithPath(p.String())
	}
	s.cursor = p.Clone()
	return nil
}

// Cursor returns the current cursor, nil when unset.
func (s *Session) Cursor() doc.Path {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor.Clone()
}

// Doc returns a copy of the committed document.
func (s *Session) Doc() *doc.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root.Clone()
}

// Snapshot serializes the committed document.
func (s *Session) Snapshot() ([]byte, error) {
	s.mu.Lock()
	root := s.root
	s.mu.Unlock()
	// Committed trees are immutable, so encoding can run unlocked.
	return s.codec.Serialize(root)
}

// Dirty reports whether the document differs from the last saved state.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root != s.saved
}

// MarkSaved records the current document as saved.
func (s *Session) MarkSaved() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = s.root
}
