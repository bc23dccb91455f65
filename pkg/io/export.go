package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/natefinch/atomic"

	"github.com/matzehuels/pagecraft/pkg/doc"
	"github.com/matzehuels/pagecraft/pkg/schema"
)

type node struct {
	Type    string         `json:"type"`
	Attrs   map[string]any `json:"attrs,omitzero"`
	Content []node         `json:"content,omitempty"`
	Text    string         `json:"text,omitempty"`
	Marks   []mark         `json:"marks,omitempty"`
}

type mark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitzero"`
}

// Codec serializes trees against a schema registry.
type Codec struct {
	Registry *schema.Registry
}

// NewCodec returns a codec for reg. A nil reg uses [schema.Default].
func NewCodec(reg *schema.Registry) *Codec {
	if reg == nil {
		reg = schema.Default()
	}
	return &Codec{Registry: reg}
}

var defaultCodec = NewCodec(nil)

// Serialize encodes n in canonical form using the default schema.
func Serialize(n *doc.Node) ([]byte, error) { return defaultCodec.Serialize(n) }

// Serialize validates n and encodes it in canonical compact form.
func (c *Codec) Serialize(n *doc.Node) ([]byte, error) {
	if n == nil {
		return nil, fmt.Errorf("serialize: nil node")
	}
	if err := c.Registry.Validate(n); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := c.encode(&buf, n, ""); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func (c *Codec) encode(w io.Writer, n *doc.Node, indent string) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(c.toWire(n)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func (c *Codec) toWire(n *doc.Node) node {
	out := node{Type: n.Type, Text: n.Text}
	if spec, ok := c.Registry.Node(n.Type); ok && spec.Attrs != nil {
		out.Attrs = map[string]any(n.Attrs.Clone())
		if out.Attrs == nil {
			out.Attrs = map[string]any{}
		}
	}
	if len(n.Content) > 0 {
		out.Content = make([]node, len(n.Content))
		for i, child := range n.Content {
			out.Content[i] = c.toWire(child)
		}
	}
	for _, m := range n.Marks {
		wm := mark{Type: m.Type}
		if spec, ok := c.Registry.Mark(m.Type); ok && spec.Attrs != nil {
			wm.Attrs = map[string]any(m.Attrs.Clone())
			if wm.Attrs == nil {
				wm.Attrs = map[string]any{}
			}
		}
		out.Marks = append(out.Marks, wm)
	}
	return out
}

// WriteJSON validates n and writes it to w as indented JSON.
// Output re-imported with [ReadJSON] yields a structurally equal tree.
func WriteJSON(n *doc.Node, w io.Writer) error { return defaultCodec.WriteJSON(n, w) }

// WriteJSON validates n and writes it to w as indented JSON.
func (c *Codec) WriteJSON(n *doc.Node, w io.Writer) error {
	if err := c.Registry.Validate(n); err != nil {
		return err
	}
	return c.encode(w, n, "  ")
}

// ExportJSON writes n to a JSON file at path. The file is replaced
// atomically, so a crash never leaves a half-written document behind.
func ExportJSON(n *doc.Node, path string) error {
	var buf bytes.Buffer
	if err := WriteJSON(n, &buf); err != nil {
		return err
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
