package transform

import (
	"fmt"
	"strings"

	"github.com/matzehuels/pagecraft/pkg/doc"
)

// Transaction is an atomic, all-or-nothing group of steps. A committed
// transaction is one undo step no matter how many nodes it touches.
type Transaction struct {
	// Label names the edit for history and logs ("insertColumns").
	Label string
	Steps []Step
	// Meta carries intent that steps alone cannot express, such as whether a
	// deletion is an explicit column removal. Plugins read it.
	Meta map[string]any
	// Cursor, when set, is where the cursor lands after commit.
	Cursor doc.Path
}

// NewTransaction returns an empty transaction with the given label.
func NewTransaction(label string, steps ...Step) *Transaction {
	return &Transaction{Label: label, Steps: steps}
}

// Add appends steps and returns tx for chaining.
func (tx *Transaction) Add(steps ...Step) *Transaction {
	tx.Steps = append(tx.Steps, steps...)
	return tx
}

// SetMeta records a metadata value and returns tx for chaining.
func (tx *Transaction) SetMeta(key string, v any) *Transaction {
	if tx.Meta == nil {
		tx.Meta = make(map[string]any)
	}
	tx.Meta[key] = v
	return tx
}

// Flag reports whether the boolean metadata key is set to true.
func (tx *Transaction) Flag(key string) bool {
	v, _ := tx.Meta[key].(bool)
	return v
}

// WithCursor sets the post-commit cursor and returns tx for chaining.
func (tx *Transaction) WithCursor(p doc.Path) *Transaction {
	tx.Cursor = p.Clone()
	return tx
}

// Empty reports whether the transaction has no steps.
func (tx *Transaction) Empty() bool { return tx == nil || len(tx.Steps) == 0 }

func (tx *Transaction) String() string {
	parts := make([]string, len(tx.Steps))
	for i, s := range tx.Steps {
		parts[i] = s.String()
	}
	return fmt.Sprintf("%s: [%s]", tx.Label, strings.Join(parts, "; "))
}
