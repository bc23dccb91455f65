package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/pagecraft/pkg/doc"
	"github.com/matzehuels/pagecraft/pkg/errors"
)

// Deserialize decodes stored JSON into a tree using the default schema.
func Deserialize(data []byte) (*doc.Node, error) { return defaultCodec.Deserialize(data) }

// Deserialize decodes stored JSON into a tree.
//
// Deserialize returns a CORRUPT_DOCUMENT error if:
//   - The JSON is malformed or has fields other than type/attrs/content/text/marks
//   - A node or mark type is unknown
//   - An attribute is unknown, invalid, or required but missing
//   - A text node is empty or has children, or a non-text node carries text
//
// It returns a SCHEMA_VIOLATION error when every node is individually sound
// but the nesting breaks a content rule. Both carry the offending node path.
func (c *Codec) Deserialize(data []byte) (*doc.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var w node
	if err := dec.Decode(&w); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCorruptDocument, err, "decode").WithPath("/")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.CorruptDocument("/", "trailing data after document")
	}

	root, err := c.fromWire(w, doc.Path{})
	if err != nil {
		return nil, err
	}
	// Absent defaulted attributes (a column's verticalAlign) are filled on load.
	c.Registry.ApplyDefaults(root)
	if err := c.Registry.Validate(root); err != nil {
		return nil, err
	}
	return root, nil
}

func (c *Codec) fromWire(w node, p doc.Path) (*doc.Node, error) {
	if w.Type == "" {
		return nil, errors.CorruptDocument(p.String(), "node has no type")
	}
	n := &doc.Node{Type: w.Type, Text: w.Text}
	if len(w.Attrs) > 0 {
		n.Attrs = doc.Attrs(w.Attrs)
	}
	for _, m := range w.Marks {
		dm := doc.Mark{Type: m.Type}
		if len(m.Attrs) > 0 {
			dm.Attrs = doc.Attrs(m.Attrs)
		}
		n.Marks = append(n.Marks, dm)
	}
	if w.Type == doc.TypeText && len(w.Content) > 0 {
		return nil, errors.CorruptDocument(p.String(), "text node must not have content")
	}

	if err := c.Registry.CheckNode(n, p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCorruptDocument, err, "invalid %s node", w.Type).WithPath(p.String())
	}

	if len(w.Content) > 0 {
		n.Content = make([]*doc.Node, len(w.Content))
		for i, child := range w.Content {
			cn, err := c.fromWire(child, p.Child(i))
			if err != nil {
				return nil, err
			}
			n.Content[i] = cn
		}
	}
	return n, nil
}

// ReadJSON decodes a tree from r using the default schema.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*doc.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return Deserialize(data)
}

// ImportJSON reads a JSON file at path and returns the decoded tree.
// It returns the same errors as [Deserialize] for malformed documents.
func ImportJSON(path string) (*doc.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
