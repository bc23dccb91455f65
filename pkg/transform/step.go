package transform

import (
	"errors"
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/matzehuels/pagecraft/pkg/doc"
	"github.com/matzehuels/pagecraft/pkg/schema"
)

var (
	// ErrIndexOutOfRange is returned when a step addresses a child index
	// outside its parent's content.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrNotTextblock is returned by text steps aimed at a node that does not
	// hold inline content.
	ErrNotTextblock = errors.New("target is not a textblock")

	// ErrNoJoinTarget is returned by [Join] when no textblock precedes the
	// target in document order.
	ErrNoJoinTarget = errors.New("nothing to join with")
)

// Step is one primitive mutation. Steps address nodes by path in the tree as
// it stands when the step runs, after all earlier steps of the same
// transaction.
type Step interface {
	Apply(root *doc.Node, reg *schema.Registry) error
	String() string
}

// Insert places copies of Nodes into the node at Parent, starting at Index.
type Insert struct {
	Parent doc.Path
	Index  int
	Nodes  []*doc.Node
}

func (s Insert) Apply(root *doc.Node, _ *schema.Registry) error {
	parent, err := root.At(s.Parent)
	if err != nil {
		return err
	}
	if parent.IsText() || s.Index < 0 || s.Index > len(parent.Content) {
		return ErrIndexOutOfRange
	}
	nodes := make([]*doc.Node, len(s.Nodes))
	for i, n := range s.Nodes {
		nodes[i] = n.Clone()
	}
	parent.Content = slices.Insert(parent.Content, s.Index, nodes...)
	return nil
}

func (s Insert) String() string {
	return fmt.Sprintf("insert %d node(s) at %s[%d]", len(s.Nodes), s.Parent, s.Index)
}

// Delete removes the children [From, To) of the node at Parent.
type Delete struct {
	Parent   doc.Path
	From, To int
}

func (s Delete) Apply(root *doc.Node, _ *schema.Registry) error {
	parent, err := root.At(s.Parent)
	if err != nil {
		return err
	}
	if s.From < 0 || s.To > len(parent.Content) || s.From > s.To {
		return ErrIndexOutOfRange
	}
	parent.Content = slices.Delete(parent.Content, s.From, s.To)
	if len(parent.Content) == 0 {
		parent.Content = nil
	}
	return nil
}

func (s Delete) String() string {
	return fmt.Sprintf("delete %s[%d:%d]", s.Parent, s.From, s.To)
}

// Count returns how many children the step removes.
func (s Delete) Count() int { return s.To - s.From }

// SetAttr sets one attribute on the node at Target.
type SetAttr struct {
	Target doc.Path
	Key    string
	Value  any
}

func (s SetAttr) Apply(root *doc.Node, _ *schema.Registry) error {
	n, err := root.At(s.Target)
	if err != nil {
		return err
	}
	n.SetAttr(s.Key, s.Value)
	return nil
}

func (s SetAttr) String() string {
	return fmt.Sprintf("set %s=%v on %s", s.Key, s.Value, s.Target)
}

// InsertText inserts Text into the textblock at Target at rune offset Offset.
// Inline leaves such as hard breaks count as one rune.
type InsertText struct {
	Target doc.Path
	Offset int
	Text   string
}

func (s InsertText) Apply(root *doc.Node, reg *schema.Registry) error {
	block, err := root.At(s.Target)
	if err != nil {
		return err
	}
	if !reg.IsTextblock(block.Type) {
		return ErrNotTextblock
	}
	if s.Text == "" {
		return nil
	}
	if s.Offset < 0 || s.Offset > inlineLen(block) {
		return ErrIndexOutOfRange
	}

	pos := 0
	for i, child := range block.Content {
		size := inlineSize(child)
		if child.IsText() && s.Offset <= pos+size {
			runes := []rune(child.Text)
			at := s.Offset - pos
			child.Text = string(runes[:at]) + s.Text + string(runes[at:])
			return nil
		}
		if s.Offset == pos {
			block.Content = slices.Insert(block.Content, i, doc.NewText(s.Text))
			return nil
		}
		pos += size
	}
	block.Content = append(block.Content, doc.NewText(s.Text))
	return nil
}

func (s InsertText) String() string {
	return fmt.Sprintf("insert text %q at %s+%d", s.Text, s.Target, s.Offset)
}

// Join merges the textblock at Target into the textblock preceding it in
// document order and removes Target. This is what backspace does at the very
// start of a block.
type Join struct {
	Target doc.Path
}

func (s Join) Apply(root *doc.Node, reg *schema.Registry) error {
	block, err := root.At(s.Target)
	if err != nil {
		return err
	}
	if !reg.IsTextblock(block.Type) {
		return ErrNotTextblock
	}
	prevPath, ok := PreviousTextblock(reg, root, s.Target)
	if !ok {
		return ErrNoJoinTarget
	}
	prev, _ := root.At(prevPath)
	prev.Content = append(prev.Content, block.Content...)
	mergeText(prev)

	parent, idx, err := root.Parent(s.Target)
	if err != nil {
		return err
	}
	parent.Content = slices.Delete(parent.Content, idx, idx+1)
	if len(parent.Content) == 0 {
		parent.Content = nil
	}
	return nil
}

func (s Join) String() string { return fmt.Sprintf("join %s backward", s.Target) }

// PreviousTextblock returns the path of the last textblock that precedes the
// node at p in document order and is not an ancestor of it.
func PreviousTextblock(reg *schema.Registry, root *doc.Node, p doc.Path) (doc.Path, bool) {
	var found doc.Path
	done := false
	root.Walk(func(n *doc.Node, at doc.Path) bool {
		if done {
			return false
		}
		if at.Equal(p) {
			done = true
			return false
		}
		if reg.IsTextblock(n.Type) && !p.HasPrefix(at) {
			found = at.Clone()
		}
		return true
	})
	return found, found != nil
}

func inlineSize(n *doc.Node) int {
	if n.IsText() {
		return utf8.RuneCountInString(n.Text)
	}
	return 1
}

func inlineLen(block *doc.Node) int {
	total := 0
	for _, c := range block.Content {
		total += inlineSize(c)
	}
	return total
}

// mergeText joins adjacent text nodes that carry identical marks.
func mergeText(block *doc.Node) {
	out := block.Content[:0]
	for _, c := range block.Content {
		if len(out) > 0 {
			last := out[len(out)-1]
			if last.IsText() && c.IsText() && slices.EqualFunc(last.Marks, c.Marks, doc.Mark.Equal) {
				last.Text += c.Text
				continue
			}
		}
		out = append(out, c)
	}
	block.Content = out
}
