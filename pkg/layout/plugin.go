package layout

import (
	"fmt"

	"github.com/matzehuels/pagecraft/pkg/doc"
	"github.com/matzehuels/pagecraft/pkg/errors"
	"github.com/matzehuels/pagecraft/pkg/schema"
	"github.com/matzehuels/pagecraft/pkg/transform"
)

// MetaColumnRemoval marks a transaction as an explicit column removal.
const MetaColumnRemoval = "layout.columnRemoval"

// Repair rule names, the prefix of every repair note the plugin reports.
const (
	RuleCollapseEmpty = "collapse-empty-columns"
	RuleDefaultAlign  = "default-vertical-align"
)

// ColumnCount returns the number of columns in a columns node. The count is
// always derived from the children and never stored.
func ColumnCount(n *doc.Node) int {
	if n == nil || n.Type != doc.TypeColumns {
		return 0
	}
	return n.ChildCount()
}

// Plugin enforces the column layout invariants. It is stateless; one value
// can serve any number of sessions.
type Plugin struct {
	Registry *schema.Registry
}

// NewPlugin returns a layout plugin. A nil reg uses [schema.Default].
func NewPlugin(reg *schema.Registry) *Plugin {
	if reg == nil {
		reg = schema.Default()
	}
	return &Plugin{Registry: reg}
}

func (p *Plugin) Name() string { return "layout" }

// Filter replays tx on a scratch copy of root so that every step is judged
// against the tree it will actually see. Cross-column joins are dropped and a
// tagged removal of the last column is refused.
func (p *Plugin) Filter(root *doc.Node, tx *transform.Transaction) (*transform.Transaction, error) {
	removal := tx.Flag(MetaColumnRemoval)
	scratch := root.Clone()

	kept := make([]transform.Step, 0, len(tx.Steps))
	for _, s := range tx.Steps {
		switch s := s.(type) {
		case transform.Join:
			if p.crossesColumn(scratch, s.Target) {
				continue
			}
		case transform.Delete:
			if removal {
				if parent, err := scratch.At(s.Parent); err == nil &&
					parent.Type == doc.TypeColumns && s.Count() > 0 && s.Count() >= ColumnCount(parent) {
					return nil, errors.InvariantViolation("minimum column count").WithPath(s.Parent.String())
				}
			}
		}
		kept = append(kept, s)
		// Step errors are reported by the mediator.
		_ = s.Apply(scratch, p.Registry)
	}

	if len(kept) == len(tx.Steps) {
		return tx, nil
	}
	out := *tx
	out.Steps = kept
	return &out, nil
}

// crossesColumn reports whether joining the textblock at target backward
// would merge content out of, into or between columns.
func (p *Plugin) crossesColumn(root *doc.Node, target doc.Path) bool {
	prev, ok := transform.PreviousTextblock(p.Registry, root, target)
	if !ok {
		return false
	}
	from, inFrom := root.Ancestor(target, doc.TypeColumn)
	to, inTo := root.Ancestor(prev, doc.TypeColumn)
	if inFrom != inTo {
		return true
	}
	return inFrom && !from.Equal(to)
}

// Repair collapses columns nodes emptied by content deletion and defaults
// missing alignments.
func (p *Plugin) Repair(root *doc.Node, tx *transform.Transaction) []string {
	var repairs []string
	if !tx.Flag(MetaColumnRemoval) && removesContent(tx) {
		repairs = append(repairs, collapseEmpty(root)...)
	}
	repairs = append(repairs, defaultAlign(root)...)
	return repairs
}

func removesContent(tx *transform.Transaction) bool {
	for _, s := range tx.Steps {
		switch s.(type) {
		case transform.Delete, transform.Join:
			return true
		}
	}
	return false
}

// collapseEmpty removes every columns node without children. Removing one can
// never empty another columns node, since columns only hold column nodes, so
// a single pass in reverse document order is enough.
func collapseEmpty(root *doc.Node) []string {
	var empty []doc.Path
	root.Walk(func(n *doc.Node, at doc.Path) bool {
		if n.Type == doc.TypeColumns && n.ChildCount() == 0 && len(at) > 0 {
			empty = append(empty, at.Clone())
		}
		return true
	})

	var repairs []string
	for i := len(empty) - 1; i >= 0; i-- {
		parent, idx, err := root.Parent(empty[i])
		if err != nil {
			continue
		}
		parent.Content = append(parent.Content[:idx], parent.Content[idx+1:]...)
		if len(parent.Content) == 0 {
			parent.Content = nil
		}
		repairs = append(repairs, fmt.Sprintf("%s: removed empty columns at %s", RuleCollapseEmpty, empty[i]))
	}
	return repairs
}

func defaultAlign(root *doc.Node) []string {
	var repairs []string
	root.Walk(func(n *doc.Node, at doc.Path) bool {
		if n.Type == doc.TypeColumn && n.Attr(schema.AttrVerticalAlign) == nil {
			n.SetAttr(schema.AttrVerticalAlign, string(schema.AlignTop))
			repairs = append(repairs, fmt.Sprintf("%s: %s set to top", RuleDefaultAlign, at))
		}
		return true
	})
	return repairs
}
