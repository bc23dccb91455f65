package schema

import (
	"fmt"
	"sync"

	"github.com/matzehuels/pagecraft/pkg/doc"
	"github.com/matzehuels/pagecraft/pkg/errors"
)

// VerticalAlign is the alignment of a column's content within its row.
type VerticalAlign string

// Column alignments. AlignTop is the default.
const (
	AlignTop    VerticalAlign = "top"
	AlignCenter VerticalAlign = "center"
	AlignBottom VerticalAlign = "bottom"
)

// AttrVerticalAlign is the column attribute holding a [VerticalAlign].
const AttrVerticalAlign = "verticalAlign"

// VerticalAligns lists the accepted alignments in toolbar order.
var VerticalAligns = []VerticalAlign{AlignTop, AlignCenter, AlignBottom}

// ParseVerticalAlign validates s. Anything outside [VerticalAligns] fails with
// INVALID_ARGUMENT.
func ParseVerticalAlign(s string) (VerticalAlign, error) {
	switch a := VerticalAlign(s); a {
	case AlignTop, AlignCenter, AlignBottom:
		return a, nil
	default:
		return "", errors.InvalidArgument("vertical align must be top, center or bottom, got %q", s)
	}
}

func alignValues() []string {
	out := make([]string, len(VerticalAligns))
	for i, a := range VerticalAligns {
		out[i] = string(a)
	}
	return out
}

func headingLevel(v any) error {
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case int:
		n = float64(t)
	default:
		return fmt.Errorf("level must be a number, got %T", v)
	}
	if n != float64(int(n)) || n < 1 || n > 6 {
		return fmt.Errorf("level must be an integer 1..6, got %v", v)
	}
	return nil
}

func isString(v any) error {
	if _, ok := v.(string); !ok {
		return fmt.Errorf("must be a string, got %T", v)
	}
	return nil
}

func isStringOrNull(v any) error {
	if v == nil {
		return nil
	}
	return isString(v)
}

// DefaultNodes returns the node vocabulary used by [Default].
func DefaultNodes() []NodeSpec {
	return []NodeSpec{
		{Name: doc.TypeDoc, Content: "block*"},
		{Name: doc.TypeParagraph, Group: "block", Content: "inline*"},
		{
			Name: doc.TypeHeading, Group: "block", Content: "inline*",
			Attrs: map[string]AttrSpec{"level": {Default: float64(1), Check: headingLevel}},
		},
		{Name: doc.TypeBlockquote, Group: "block", Content: "block+"},
		{Name: doc.TypeBulletList, Group: "block", Content: "listItem+"},
		{
			Name: doc.TypeOrderedList, Group: "block", Content: "listItem+",
			Attrs: map[string]AttrSpec{"start": {Default: float64(1)}},
		},
		{Name: doc.TypeListItem, Content: "paragraph block*"},
		{
			Name: doc.TypeImage, Group: "block",
			Attrs: map[string]AttrSpec{
				"src":   {Required: true, Check: isString},
				"alt":   {Check: isStringOrNull},
				"title": {Check: isStringOrNull},
			},
		},
		{
			Name: doc.TypeMediaRef, Group: "block",
			Attrs: map[string]AttrSpec{
				"mediaId": {Required: true, Check: isString},
				"caption": {Check: isStringOrNull},
			},
		},
		{Name: doc.TypeHorizontalRule, Group: "block"},
		// Declared but empty: the column count is derived from the children
		// and never stored, so "attrs" serializes as {}.
		{Name: doc.TypeColumns, Group: "block", Content: "column+", Attrs: map[string]AttrSpec{}},
		{
			Name: doc.TypeColumn, Content: "block*",
			Attrs: map[string]AttrSpec{
				AttrVerticalAlign: {Default: string(AlignTop), Values: alignValues()},
			},
		},
		{Name: doc.TypeText, Group: "inline", Inline: true},
		{Name: doc.TypeHardBreak, Group: "inline", Inline: true},
	}
}

// DefaultMarks returns the mark vocabulary used by [Default].
func DefaultMarks() []MarkSpec {
	return []MarkSpec{
		{Name: "bold"},
		{Name: "italic"},
		{Name: "underline"},
		{Name: "code"},
		{
			Name: "link",
			Attrs: map[string]AttrSpec{
				"href":   {Required: true, Check: isString},
				"target": {Check: isStringOrNull},
			},
		},
	}
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r, err := NewRegistry(DefaultNodes(), DefaultMarks())
	if err != nil {
		panic(fmt.Sprintf("schema: default registry: %v", err))
	}
	return r
})

// Default returns the shared registry of the default vocabulary.
func Default() *Registry { return defaultRegistry() }
