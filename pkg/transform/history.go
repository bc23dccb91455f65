package transform

import (
	"time"

	"github.com/matzehuels/pagecraft/pkg/doc"
)

// DefaultHistoryDepth bounds the undo stack when no depth is configured.
const DefaultHistoryDepth = 100

// Record is one committed transaction: the tree before and after it. Undo
// restores Before, redo restores After.
type Record struct {
	Label  string
	Before *doc.Node
	After  *doc.Node
	At     time.Time
}

// History is an undo/redo stack of change records. It is not safe for
// concurrent use; the editing session serializes access.
type History struct {
	undo  []Record
	redo  []Record
	depth int
}

// NewHistory returns a history keeping at most depth records. A depth <= 0
// uses [DefaultHistoryDepth].
func NewHistory(depth int) *History {
	if depth <= 0 {
		depth = DefaultHistoryDepth
	}
	return &History{depth: depth}
}

// Push records a committed transaction and clears the redo stack.
func (h *History) Push(r Record) {
	h.undo = append(h.undo, r)
	if over := len(h.undo) - h.depth; over > 0 {
		h.undo = h.undo[over:]
	}
	h.redo = nil
}

// Undo pops the most recent record and moves it to the redo stack.
func (h *History) Undo() (Record, bool) {
	if len(h.undo) == 0 {
		return Record{}, false
	}
	r := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, r)
	return r, true
}

// Redo re-applies the most recently undone record.
func (h *History) Redo() (Record, bool) {
	if len(h.redo) == 0 {
		return Record{}, false
	}
	r := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, r)
	return r, true
}

// CanUndo reports whether Undo would succeed.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether Redo would succeed.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Len returns the number of undoable records.
func (h *History) Len() int { return len(h.undo) }

// Clear drops all records, e.g. after reloading the document from storage.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}
