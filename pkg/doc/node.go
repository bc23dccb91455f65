package doc

import (
	"errors"
	"maps"
	"reflect"
	"slices"
	"strings"
)

var (
	// ErrInvalidPath is returned by [Node.At] and related lookups when a path
	// walks past the end of a node's content or into a text node.
	ErrInvalidPath = errors.New("invalid node path")

	// ErrRootPath is returned when an operation needs a parent but was given
	// the root path, which has none.
	ErrRootPath = errors.New("root has no parent")
)

// Node type names shared by the schema, the serializer and the commands.
const (
	TypeDoc            = "doc"
	TypeText           = "text"
	TypeParagraph      = "paragraph"
	TypeHeading        = "heading"
	TypeBlockquote     = "blockquote"
	TypeBulletList     = "bulletList"
	TypeOrderedList    = "orderedList"
	TypeListItem       = "listItem"
	TypeImage          = "image"
	TypeMediaRef       = "mediaRef"
	TypeHorizontalRule = "horizontalRule"
	TypeHardBreak      = "hardBreak"
	TypeColumns        = "columns"
	TypeColumn         = "column"
)

// Attrs holds node or mark attributes. Values are JSON-compatible: strings,
// float64, bool, nil, or nested maps and slices thereof.
type Attrs map[string]any

// Clone returns a deep copy of a. A nil Attrs clones to nil.
func (a Attrs) Clone() Attrs {
	if a == nil {
		return nil
	}
	out := make(Attrs, len(a))
	for k, v := range a {
		out[k] = cloneValue(v)
	}
	return out
}

// String returns the attribute as a string and whether it was one.
func (a Attrs) String(key string) (string, bool) {
	s, ok := a[key].(string)
	return s, ok
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, vv := range t {
			m[k] = cloneValue(vv)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, vv := range t {
			s[i] = cloneValue(vv)
		}
		return s
	default:
		return v
	}
}

func attrsEqual(a, b Attrs) bool {
	if len(a) != len(b) {
		return false
	}
	return maps.EqualFunc(a, b, func(x, y any) bool { return reflect.DeepEqual(x, y) })
}

// Mark decorates a run of text (bold, link, ...).
type Mark struct {
	Type  string
	Attrs Attrs
}

// Equal reports whether two marks have the same type and attributes.
func (m Mark) Equal(o Mark) bool {
	return m.Type == o.Type && attrsEqual(m.Attrs, o.Attrs)
}

// Node is one element of a document tree.
//
// Text nodes (Type == TypeText) use Text and Marks and never have Content.
// All other nodes use Content and leave Text empty.
type Node struct {
	Type    string
	Attrs   Attrs
	Content []*Node
	Text    string
	Marks   []Mark
}

// New returns a "doc" root holding the given blocks.
func New(blocks ...*Node) *Node {
	return &Node{Type: TypeDoc, Content: blocks}
}

// NewNode returns a node of the given type with attrs and children.
func NewNode(typ string, attrs Attrs, content ...*Node) *Node {
	return &Node{Type: typ, Attrs: attrs, Content: content}
}

// NewText returns a text node, optionally marked.
func NewText(text string, marks ...Mark) *Node {
	return &Node{Type: TypeText, Text: text, Marks: marks}
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool { return n.Type == TypeText }

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int { return len(n.Content) }

// Child returns the i-th child, or nil when i is out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.Content) {
		return nil
	}
	return n.Content[i]
}

// Attr returns the attribute value for key, or nil.
func (n *Node) Attr(key string) any {
	if n.Attrs == nil {
		return nil
	}
	return n.Attrs[key]
}

// SetAttr sets an attribute, allocating the map when needed.
func (n *Node) SetAttr(key string, v any) {
	if n.Attrs == nil {
		n.Attrs = Attrs{}
	}
	n.Attrs[key] = v
}

// Clone returns a deep copy of the subtree rooted at n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		Type:  n.Type,
		Attrs: n.Attrs.Clone(),
		Text:  n.Text,
	}
	if n.Marks != nil {
		out.Marks = make([]Mark, len(n.Marks))
		for i, m := range n.Marks {
			out.Marks[i] = Mark{Type: m.Type, Attrs: m.Attrs.Clone()}
		}
	}
	if n.Content != nil {
		out.Content = make([]*Node, len(n.Content))
		for i, c := range n.Content {
			out.Content[i] = c.Clone()
		}
	}
	return out
}

// Equal reports structural equality: same type, attributes, text, marks and
// children, recursively. Nil and empty attribute maps compare equal, as do
// nil and empty child lists.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Type != o.Type || n.Text != o.Text || !attrsEqual(n.Attrs, o.Attrs) {
		return false
	}
	if !slices.EqualFunc(n.Marks, o.Marks, Mark.Equal) {
		return false
	}
	return slices.EqualFunc(n.Content, o.Content, (*Node).Equal)
}

// At returns the node addressed by p relative to n.
func (n *Node) At(p Path) (*Node, error) {
	cur := n
	for _, i := range p {
		if cur.IsText() || i < 0 || i >= len(cur.Content) {
			return nil, ErrInvalidPath
		}
		cur = cur.Content[i]
	}
	return cur, nil
}

// Parent returns the parent of the node addressed by p and the node's index
// within it.
func (n *Node) Parent(p Path) (*Node, int, error) {
	if len(p) == 0 {
		return nil, 0, ErrRootPath
	}
	parent, err := n.At(p[:len(p)-1])
	if err != nil {
		return nil, 0, err
	}
	idx := p[len(p)-1]
	if parent.IsText() || idx < 0 || idx >= len(parent.Content) {
		return nil, 0, ErrInvalidPath
	}
	return parent, idx, nil
}

// Walk visits the subtree rooted at n in pre-order. The path passed to fn is
// relative to n and must not be retained; clone it if needed. If fn returns
// false the node's children are skipped.
func (n *Node) Walk(fn func(node *Node, p Path) bool) {
	var walk func(node *Node, p Path)
	walk = func(node *Node, p Path) {
		if !fn(node, p) {
			return
		}
		for i, c := range node.Content {
			walk(c, append(p, i))
		}
	}
	walk(n, Path{})
}

// Ancestor returns the path of the nearest node of type typ on the way from
// n down to p, including the node at p itself. The second result is false
// when no such node exists or p is invalid.
func (n *Node) Ancestor(p Path, typ string) (Path, bool) {
	if _, err := n.At(p); err != nil {
		return nil, false
	}
	for depth := len(p); depth >= 0; depth-- {
		node, _ := n.At(p[:depth])
		if node.Type == typ {
			return p[:depth].Clone(), true
		}
	}
	return nil, false
}

// TextContent concatenates all text below n.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.Text
	}
	var b strings.Builder
	n.Walk(func(node *Node, _ Path) bool {
		if node.IsText() {
			b.WriteString(node.Text)
		}
		return true
	})
	return b.String()
}

// Count returns how many nodes of type typ exist in the subtree rooted at n.
func (n *Node) Count(typ string) int {
	count := 0
	n.Walk(func(node *Node, _ Path) bool {
		if node.Type == typ {
			count++
		}
		return true
	})
	return count
}
