package layout

import (
	"github.com/matzehuels/pagecraft/pkg/doc"
	"github.com/matzehuels/pagecraft/pkg/errors"
	"github.com/matzehuels/pagecraft/pkg/schema"
	"github.com/matzehuels/pagecraft/pkg/transform"
)

// Command builds the transaction for one editing verb. A nil transaction with
// a nil error means the command does not apply at cursor.
type Command interface {
	Kind() Kind
	Transaction(root *doc.Node, cursor doc.Path, reg *schema.Registry) (*transform.Transaction, error)
}

// Kind enumerates the editing commands.
type Kind string

const (
	KindInsertColumns          Kind = "insertColumns"
	KindSetColumnVerticalAlign Kind = "setColumnVerticalAlign"
	KindRemoveColumn           Kind = "removeColumn"
	KindDeleteContent          Kind = "deleteContent"
	KindJoinBackward           Kind = "joinBackward"
	KindInsertText             Kind = "insertText"
	KindInsertParagraph        Kind = "insertParagraph"
)

// Kinds lists every command kind in a stable order.
var Kinds = []Kind{
	KindInsertColumns,
	KindSetColumnVerticalAlign,
	KindRemoveColumn,
	KindDeleteContent,
	KindJoinBackward,
	KindInsertText,
	KindInsertParagraph,
}

// MaxColumns is the largest layout InsertColumns builds.
const MaxColumns = 12

// NewColumns returns a columns node holding count empty top-aligned columns.
// count must be between 1 and [MaxColumns].
func NewColumns(count int) *doc.Node {
	cols := make([]*doc.Node, count)
	for i := range cols {
		cols[i] = doc.NewNode(doc.TypeColumn, doc.Attrs{schema.AttrVerticalAlign: string(schema.AlignTop)})
	}
	return doc.NewNode(doc.TypeColumns, doc.Attrs{}, cols...)
}

// InsertColumns inserts a columns node with Count empty columns.
//
// At is the path the new node will occupy. When At is nil the layout goes
// after the top-level block holding the cursor, or at the end of the document
// when there is no cursor.
type InsertColumns struct {
	Count int
	At    doc.Path
}

func (InsertColumns) Kind() Kind { return KindInsertColumns }

func (c InsertColumns) Transaction(root *doc.Node, cursor doc.Path, _ *schema.Registry) (*transform.Transaction, error) {
	if c.Count <= 0 {
		return nil, errors.InvalidArgument("column count must be a positive integer, got %d", c.Count)
	}
	if c.Count > MaxColumns {
		return nil, errors.InvalidArgument("column count must be at most %d, got %d", MaxColumns, c.Count)
	}
	at := c.At
	switch {
	case at != nil:
	case len(cursor) > 0:
		at = doc.Path{cursor[0] + 1}
	default:
		at = doc.Path{root.ChildCount()}
	}
	if len(at) == 0 {
		return nil, errors.InvalidArgument("cannot insert columns at the document root")
	}

	parent, index := at.Split()
	tx := transform.NewTransaction(string(KindInsertColumns), transform.Insert{
		Parent: parent,
		Index:  index,
		Nodes:  []*doc.Node{NewColumns(c.Count)},
	})
	return tx.WithCursor(at.Child(0)), nil
}

// SetColumnVerticalAlign sets verticalAlign on the column containing Target,
// or containing the cursor when Target is nil.
type SetColumnVerticalAlign struct {
	Align  string
	Target doc.Path
}

func (SetColumnVerticalAlign) Kind() Kind { return KindSetColumnVerticalAlign }

func (c SetColumnVerticalAlign) Transaction(root *doc.Node, cursor doc.Path, _ *schema.Registry) (*transform.Transaction, error) {
	align, err := schema.ParseVerticalAlign(c.Align)
	if err != nil {
		return nil, err
	}
	col, ok, err := enclosing(root, c.Target, cursor, doc.TypeColumn)
	if err != nil || !ok {
		return nil, err
	}
	return transform.NewTransaction(string(KindSetColumnVerticalAlign), transform.SetAttr{
		Target: col,
		Key:    schema.AttrVerticalAlign,
		Value:  string(align),
	}), nil
}

// RemoveColumn removes the column containing Target (or the cursor). Removing
// the last column of a layout is refused; delete the whole layout instead.
type RemoveColumn struct {
	Target doc.Path
}

func (RemoveColumn) Kind() Kind { return KindRemoveColumn }

func (c RemoveColumn) Transaction(root *doc.Node, cursor doc.Path, _ *schema.Registry) (*transform.Transaction, error) {
	col, ok, err := enclosing(root, c.Target, cursor, doc.TypeColumn)
	if err != nil || !ok {
		return nil, err
	}
	parent, index := col.Split()
	tx := transform.NewTransaction(string(KindRemoveColumn), transform.Delete{
		Parent: parent,
		From:   index,
		To:     index + 1,
	})
	tx.SetMeta(MetaColumnRemoval, true)
	if index > 0 {
		tx.WithCursor(parent.Child(index - 1))
	} else {
		tx.WithCursor(parent.Child(0))
	}
	return tx, nil
}

// DeleteContent removes the children [From, To) of the node at Parent. It
// models the generic delete key over a selection of whole blocks.
type DeleteContent struct {
	Parent   doc.Path
	From, To int
}

func (DeleteContent) Kind() Kind { return KindDeleteContent }

func (c DeleteContent) Transaction(root *doc.Node, _ doc.Path, _ *schema.Registry) (*transform.Transaction, error) {
	parent, err := root.At(c.Parent)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidArgument, err, "delete content").WithPath(c.Parent.String())
	}
	if c.From < 0 || c.To > parent.ChildCount() || c.From > c.To {
		return nil, errors.InvalidArgument("delete range [%d, %d) outside 0..%d", c.From, c.To, parent.ChildCount())
	}
	if c.From == c.To {
		return nil, nil
	}
	return transform.NewTransaction(string(KindDeleteContent), transform.Delete{
		Parent: c.Parent.Clone(),
		From:   c.From,
		To:     c.To,
	}).WithCursor(c.Parent), nil
}

// JoinBackward is backspace at the very start of the textblock at Target (or
// the cursor): the block is merged into the previous one. Inside a column the
// edit never crosses the column boundary, so at the start of a column's first
// block it does not apply.
type JoinBackward struct {
	Target doc.Path
}

func (JoinBackward) Kind() Kind { return KindJoinBackward }

func (c JoinBackward) Transaction(root *doc.Node, cursor doc.Path, reg *schema.Registry) (*transform.Transaction, error) {
	target, err := resolve(root, c.Target, cursor)
	if err != nil || target == nil {
		return nil, err
	}
	node, _ := root.At(target)
	if !reg.IsTextblock(node.Type) {
		return nil, nil
	}
	prev, ok := transform.PreviousTextblock(reg, root, target)
	if !ok {
		return nil, nil
	}
	return transform.NewTransaction(string(KindJoinBackward), transform.Join{Target: target}).WithCursor(prev), nil
}

// InsertText types Text at rune Offset into the textblock at Target (or the
// cursor).
type InsertText struct {
	Target doc.Path
	Offset int
	Text   string
}

func (InsertText) Kind() Kind { return KindInsertText }

func (c InsertText) Transaction(root *doc.Node, cursor doc.Path, reg *schema.Registry) (*transform.Transaction, error) {
	target, err := resolve(root, c.Target, cursor)
	if err != nil || target == nil {
		return nil, err
	}
	node, _ := root.At(target)
	if !reg.IsTextblock(node.Type) || c.Text == "" {
		return nil, nil
	}
	return transform.NewTransaction(string(KindInsertText), transform.InsertText{
		Target: target,
		Offset: c.Offset,
		Text:   c.Text,
	}).WithCursor(target), nil
}

// InsertParagraph inserts a paragraph, optionally holding Text, so that At is
// its path. It is how content gets into a freshly inserted column.
type InsertParagraph struct {
	At   doc.Path
	Text string
}

func (InsertParagraph) Kind() Kind { return KindInsertParagraph }

func (c InsertParagraph) Transaction(_ *doc.Node, _ doc.Path, _ *schema.Registry) (*transform.Transaction, error) {
	if len(c.At) == 0 {
		return nil, errors.InvalidArgument("paragraph position required")
	}
	p := doc.NewNode(doc.TypeParagraph, nil)
	if c.Text != "" {
		p.Content = []*doc.Node{doc.NewText(c.Text)}
	}
	parent, index := c.At.Split()
	return transform.NewTransaction(string(KindInsertParagraph), transform.Insert{
		Parent: parent,
		Index:  index,
		Nodes:  []*doc.Node{p},
	}).WithCursor(c.At), nil
}

// resolve picks the explicit target or falls back to the cursor. A nil result
// with a nil error means neither is set. An explicit target that does not
// exist is an invalid argument; a stale cursor is simply not applicable.
func resolve(root *doc.Node, target, cursor doc.Path) (doc.Path, error) {
	if target != nil {
		if _, err := root.At(target); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidArgument, err, "target").WithPath(target.String())
		}
		return target, nil
	}
	if cursor == nil {
		return nil, nil
	}
	if _, err := root.At(cursor); err != nil {
		return nil, nil
	}
	return cursor, nil
}

// enclosing returns the nearest node of type typ containing the resolved
// target.
func enclosing(root *doc.Node, target, cursor doc.Path, typ string) (doc.Path, bool, error) {
	p, err := resolve(root, target, cursor)
	if err != nil || p == nil {
		return nil, false, err
	}
	at, ok := root.Ancestor(p, typ)
	return at, ok, nil
}
