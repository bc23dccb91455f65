// Package schema declares which node types a document may contain, which
// attributes they carry, and how they nest.
//
// The default registry ([Default]) holds the host block vocabulary
// (paragraphs, headings, lists, images, media references) plus the two layout
// nodes: "columns", whose content is one or more "column" nodes and nothing
// else, and "column", a block container with a verticalAlign attribute.
//
// Violations are reported as SCHEMA_VIOLATION errors carrying the path of the
// offending node. Callers repair or reject the document; the registry never
// coerces a tree into shape.
package schema

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/matzehuels/pagecraft/pkg/doc"
	"github.com/matzehuels/pagecraft/pkg/errors"
)

// AttrSpec describes one attribute of a node or mark.
type AttrSpec struct {
	// Default is filled in when the attribute is absent. Nil means the
	// attribute has no default and stays absent.
	Default any
	// Required attributes must be present; they never have a default.
	Required bool
	// Values, when set, restricts the attribute to these strings.
	Values []string
	// Check validates values that Values cannot express (numbers, ranges).
	Check func(v any) error
}

func (a AttrSpec) validate(v any) error {
	if len(a.Values) > 0 {
		s, ok := v.(string)
		if !ok || !slices.Contains(a.Values, s) {
			return fmt.Errorf("value %v not one of %s", v, strings.Join(a.Values, ", "))
		}
	}
	if a.Check != nil {
		return a.Check(v)
	}
	return nil
}

// NodeSpec describes a node type.
type NodeSpec struct {
	Name string
	// Group lists space-separated groups the type belongs to ("block", "inline").
	Group string
	// Content is a content expression such as "block*" or "column+". Empty
	// means the node is a leaf.
	Content string
	Attrs   map[string]AttrSpec
	// Inline marks inline nodes (text, hard breaks).
	Inline bool

	expr expr
}

// InGroup reports whether the type belongs to group g.
func (s *NodeSpec) InGroup(g string) bool {
	return slices.Contains(strings.Fields(s.Group), g)
}

// IsLeaf reports whether the type takes no content.
func (s *NodeSpec) IsLeaf() bool { return len(s.expr) == 0 }

// MarkSpec describes a text mark.
type MarkSpec struct {
	Name  string
	Attrs map[string]AttrSpec
}

// Registry is a set of node and mark specs. A Registry is immutable once
// built and safe for concurrent use.
type Registry struct {
	nodes map[string]*NodeSpec
	marks map[string]*MarkSpec
}

// NewRegistry builds a registry from node and mark specs. Content expressions
// are parsed eagerly, so a bad expression fails here rather than on first use.
func NewRegistry(nodes []NodeSpec, marks []MarkSpec) (*Registry, error) {
	r := &Registry{
		nodes: make(map[string]*NodeSpec, len(nodes)),
		marks: make(map[string]*MarkSpec, len(marks)),
	}
	for i := range nodes {
		spec := nodes[i]
		if spec.Name == "" {
			return nil, fmt.Errorf("node spec %d: empty name", i)
		}
		if _, dup := r.nodes[spec.Name]; dup {
			return nil, fmt.Errorf("node spec %s: duplicate name", spec.Name)
		}
		e, err := parseExpr(spec.Content)
		if err != nil {
			return nil, fmt.Errorf("node spec %s: %w", spec.Name, err)
		}
		spec.expr = e
		r.nodes[spec.Name] = &spec
	}
	for i := range marks {
		m := marks[i]
		r.marks[m.Name] = &m
	}
	for _, spec := range r.nodes {
		for _, t := range spec.expr {
			if _, ok := r.nodes[t.name]; !ok && !r.isGroup(t.name) {
				return nil, fmt.Errorf("node spec %s: content refers to unknown %q", spec.Name, t.name)
			}
		}
	}
	return r, nil
}

func (r *Registry) isGroup(name string) bool {
	for _, spec := range r.nodes {
		if spec.InGroup(name) {
			return true
		}
	}
	return false
}

// Node returns the spec for a node type.
func (r *Registry) Node(name string) (*NodeSpec, bool) {
	s, ok := r.nodes[name]
	return s, ok
}

// Mark returns the spec for a mark type.
func (r *Registry) Mark(name string) (*MarkSpec, bool) {
	m, ok := r.marks[name]
	return m, ok
}

// NodeNames returns all registered node type names, sorted.
func (r *Registry) NodeNames() []string {
	names := make([]string, 0, len(r.nodes))
	for n := range r.nodes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// IsTextblock reports whether nodes of type name hold inline content only.
func (r *Registry) IsTextblock(name string) bool {
	spec, ok := r.nodes[name]
	if !ok || spec.IsLeaf() {
		return false
	}
	for _, t := range spec.expr {
		if !r.matchesInline(t.name) {
			return false
		}
	}
	return true
}

func (r *Registry) matchesInline(name string) bool {
	if name == "inline" {
		return true
	}
	s, ok := r.nodes[name]
	return ok && s.Inline
}

// CheckNode validates a single node in isolation: its type is known, its
// attributes are declared, valid and complete, and text rules hold. Content
// is not inspected; see [Registry.CheckContent].
func (r *Registry) CheckNode(n *doc.Node, p doc.Path) error {
	spec, ok := r.nodes[n.Type]
	if !ok {
		return errors.SchemaViolation(p.String(), "unknown node type %q", n.Type)
	}
	if err := checkAttrs(n.Type, spec.Attrs, n.Attrs, p); err != nil {
		return err
	}
	if n.IsText() {
		if n.Text == "" {
			return errors.SchemaViolation(p.String(), "text node must not be empty")
		}
		for _, m := range n.Marks {
			ms, ok := r.marks[m.Type]
			if !ok {
				return errors.SchemaViolation(p.String(), "unknown mark %q", m.Type)
			}
			if err := checkAttrs("mark "+m.Type, ms.Attrs, m.Attrs, p); err != nil {
				return err
			}
		}
		return nil
	}
	if n.Text != "" {
		return errors.SchemaViolation(p.String(), "%s must not carry text", n.Type)
	}
	if len(n.Marks) > 0 {
		return errors.SchemaViolation(p.String(), "%s must not carry marks", n.Type)
	}
	return nil
}

func checkAttrs(owner string, specs map[string]AttrSpec, attrs doc.Attrs, p doc.Path) error {
	for k, v := range attrs {
		spec, ok := specs[k]
		if !ok {
			return errors.SchemaViolation(p.String(), "%s: unknown attribute %q", owner, k)
		}
		if err := spec.validate(v); err != nil {
			return errors.SchemaViolation(p.String(), "%s: attribute %q: %v", owner, k, err)
		}
	}
	for _, k := range sortedKeys(specs) {
		if !specs[k].Required {
			continue
		}
		if _, ok := attrs[k]; !ok {
			return errors.SchemaViolation(p.String(), "%s: missing required attribute %q", owner, k)
		}
	}
	return nil
}

// CheckContent validates that a node's direct children match its content
// expression.
func (r *Registry) CheckContent(n *doc.Node, p doc.Path) error {
	spec, ok := r.nodes[n.Type]
	if !ok {
		return errors.SchemaViolation(p.String(), "unknown node type %q", n.Type)
	}
	if n.IsText() {
		return nil
	}
	if spec.IsLeaf() {
		if len(n.Content) > 0 {
			return errors.SchemaViolation(p.String(), "%s is a leaf and takes no content", n.Type)
		}
		return nil
	}
	if idx, err := r.match(spec.expr, n.Content); err != nil {
		at := p
		if idx >= 0 && idx < len(n.Content) {
			at = p.Child(idx)
		}
		return errors.SchemaViolation(at.String(), "%s: %v", n.Type, err)
	}
	return nil
}

// Validate checks the whole subtree rooted at root, reporting the first
// violation in document order.
func (r *Registry) Validate(root *doc.Node) error {
	var err error
	root.Walk(func(n *doc.Node, p doc.Path) bool {
		if err != nil {
			return false
		}
		if err = r.CheckNode(n, p); err != nil {
			return false
		}
		if err = r.CheckContent(n, p); err != nil {
			return false
		}
		return true
	})
	return err
}

// ApplyDefaults fills missing defaulted attributes on every node of the
// subtree and returns the number of attributes written.
func (r *Registry) ApplyDefaults(root *doc.Node) int {
	written := 0
	root.Walk(func(n *doc.Node, _ doc.Path) bool {
		spec, ok := r.nodes[n.Type]
		if !ok {
			return true
		}
		for _, k := range sortedKeys(spec.Attrs) {
			a := spec.Attrs[k]
			if a.Default == nil {
				continue
			}
			if _, has := n.Attrs[k]; has {
				continue
			}
			n.SetAttr(k, a.Default)
			written++
		}
		return true
	})
	return written
}

func sortedKeys(m map[string]AttrSpec) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
