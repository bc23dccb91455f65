package transform

import (
	stderrors "errors"

	"github.com/matzehuels/pagecraft/pkg/doc"
	"github.com/matzehuels/pagecraft/pkg/errors"
	"github.com/matzehuels/pagecraft/pkg/schema"
)

// Plugin observes every proposed transaction. Plugins derive all of their
// state from the tree they are handed, so a freshly loaded document needs no
// replay.
type Plugin interface {
	// Name identifies the plugin in logs and repair notes.
	Name() string

	// Filter runs before any step. It may return tx unchanged, a rewritten
	// transaction, nil to drop the edit silently, or an error to veto it.
	Filter(root *doc.Node, tx *Transaction) (*Transaction, error)

	// Repair runs on the tree produced by the steps, before validation.
	// It restores invariants in place and describes each repair made.
	Repair(root *doc.Node, tx *Transaction) []string
}

// Result is the outcome of a mediated transaction.
type Result struct {
	// Doc is the new tree. When Changed is false it is the input tree.
	Doc *doc.Node
	// Changed reports whether the committed tree differs from the input.
	Changed bool
	// Transaction is the transaction actually applied after filtering.
	Transaction *Transaction
	// Repairs lists silent repairs made by plugins.
	Repairs []string
}

// Mediator applies transactions through a fixed plugin chain. Every mutating
// command goes through a Mediator; nothing edits a committed tree directly.
type Mediator struct {
	Registry *schema.Registry
	Plugins  []Plugin
}

// NewMediator returns a mediator. A nil reg uses [schema.Default].
func NewMediator(reg *schema.Registry, plugins ...Plugin) *Mediator {
	if reg == nil {
		reg = schema.Default()
	}
	return &Mediator{Registry: reg, Plugins: plugins}
}

// Apply is shorthand for NewMediator(reg, plugins...).Apply(root, tx).
func Apply(reg *schema.Registry, root *doc.Node, tx *Transaction, plugins ...Plugin) (Result, error) {
	return NewMediator(reg, plugins...).Apply(root, tx)
}

// Apply runs tx against root and returns the resulting tree.
//
// The input tree is never modified. On error the caller keeps root as is:
// a veto from a plugin is returned unchanged (typically INVARIANT_VIOLATION),
// a step addressing a missing node fails with INVALID_ARGUMENT, and a result
// that breaks the schema fails with SCHEMA_VIOLATION.
func (m *Mediator) Apply(root *doc.Node, tx *Transaction) (Result, error) {
	unchanged := Result{Doc: root, Transaction: tx}
	if tx.Empty() {
		return unchanged, nil
	}

	for _, p := range m.Plugins {
		next, err := p.Filter(root, tx)
		if err != nil {
			return unchanged, err
		}
		if next.Empty() {
			return Result{Doc: root, Transaction: next}, nil
		}
		tx = next
	}

	out := root.Clone()
	for i, s := range tx.Steps {
		if err := s.Apply(out, m.Registry); err != nil {
			return unchanged, stepError(i, s, err)
		}
	}

	var repairs []string
	for _, p := range m.Plugins {
		for _, r := range p.Repair(out, tx) {
			repairs = append(repairs, p.Name()+": "+r)
		}
	}

	if err := m.Registry.Validate(out); err != nil {
		return unchanged, err
	}

	return Result{
		Doc:         out,
		Changed:     !out.Equal(root),
		Transaction: tx,
		Repairs:     repairs,
	}, nil
}

func stepError(i int, s Step, err error) error {
	var coded *errors.Error
	if stderrors.As(err, &coded) {
		return err
	}
	return errors.Wrap(errors.ErrCodeInvalidArgument, err, "step %d (%s)", i, s)
}
