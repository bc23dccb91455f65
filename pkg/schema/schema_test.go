package schema

import (
	"testing"

	"github.com/matzehuels/pagecraft/pkg/doc"
	"github.com/matzehuels/pagecraft/pkg/errors"
)

func column(align string, blocks ...*doc.Node) *doc.Node {
	return doc.NewNode(doc.TypeColumn, doc.Attrs{AttrVerticalAlign: align}, blocks...)
}

func para(text string) *doc.Node {
	if text == "" {
		return doc.NewNode(doc.TypeParagraph, nil)
	}
	return doc.NewNode(doc.TypeParagraph, nil, doc.NewText(text))
}

func TestValidate(t *testing.T) {
	reg := Default()

	tests := []struct {
		name     string
		root     *doc.Node
		wantCode errors.Code
		wantPath string
	}{
		{
			name: "empty document",
			root: doc.New(),
		},
		{
			name: "two columns",
			root: doc.New(doc.NewNode(doc.TypeColumns, nil, column("top", para("a")), column("center"))),
		},
		{
			name:     "columns without children",
			root:     doc.New(para("x"), doc.NewNode(doc.TypeColumns, nil)),
			wantCode: errors.ErrCodeSchemaViolation,
			wantPath: "/1",
		},
		{
			name:     "paragraph directly inside columns",
			root:     doc.New(doc.NewNode(doc.TypeColumns, nil, column("top"), para("stray"))),
			wantCode: errors.ErrCodeSchemaViolation,
			wantPath: "/0/1",
		},
		{
			name:     "orphan column",
			root:     doc.New(column("top")),
			wantCode: errors.ErrCodeSchemaViolation,
			wantPath: "/0",
		},
		{
			name:     "bad alignment",
			root:     doc.New(doc.NewNode(doc.TypeColumns, nil, column("middle"))),
			wantCode: errors.ErrCodeSchemaViolation,
			wantPath: "/0/0",
		},
		{
			name:     "unknown node type",
			root:     doc.New(doc.NewNode("video", nil)),
			wantCode: errors.ErrCodeSchemaViolation,
			wantPath: "/0",
		},
		{
			name:     "image without src",
			root:     doc.New(doc.NewNode(doc.TypeImage, doc.Attrs{"alt": "x"})),
			wantCode: errors.ErrCodeSchemaViolation,
			wantPath: "/0",
		},
		{
			name:     "unknown mark",
			root:     doc.New(doc.NewNode(doc.TypeParagraph, nil, doc.NewText("x", doc.Mark{Type: "strike"}))),
			wantCode: errors.ErrCodeSchemaViolation,
			wantPath: "/0/0",
		},
		{
			name:     "block inside paragraph",
			root:     doc.New(doc.NewNode(doc.TypeParagraph, nil, para("nested"))),
			wantCode: errors.ErrCodeSchemaViolation,
			wantPath: "/0/0",
		},
		{
			name: "list item starts with paragraph",
			root: doc.New(doc.NewNode(doc.TypeBulletList, nil,
				doc.NewNode(doc.TypeListItem, nil, para("one"), doc.NewNode(doc.TypeBulletList, nil,
					doc.NewNode(doc.TypeListItem, nil, para("nested")))))),
		},
		{
			name:     "heading level out of range",
			root:     doc.New(doc.NewNode(doc.TypeHeading, doc.Attrs{"level": float64(9)}, doc.NewText("h"))),
			wantCode: errors.ErrCodeSchemaViolation,
			wantPath: "/0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.Validate(tt.root)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantCode) {
				t.Fatalf("Validate() error = %v, want code %s", err, tt.wantCode)
			}
			if got := errors.GetPath(err); got != tt.wantPath {
				t.Errorf("error path = %q, want %q", got, tt.wantPath)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	reg := Default()
	root := doc.New(doc.NewNode(doc.TypeColumns, nil,
		doc.NewNode(doc.TypeColumn, nil),
		column("bottom"),
	))

	if n := reg.ApplyDefaults(root); n != 1 {
		t.Errorf("ApplyDefaults wrote %d attrs, want 1", n)
	}
	first, _ := root.At(doc.Path{0, 0})
	if got := first.Attr(AttrVerticalAlign); got != "top" {
		t.Errorf("defaulted align = %v, want top", got)
	}
	second, _ := root.At(doc.Path{0, 1})
	if got := second.Attr(AttrVerticalAlign); got != "bottom" {
		t.Errorf("existing align overwritten: %v", got)
	}
	if root.Child(0).Attrs != nil {
		t.Errorf("columns should not gain attributes: %v", root.Child(0).Attrs)
	}
}

func TestParseVerticalAlign(t *testing.T) {
	for _, s := range []string{"top", "center", "bottom"} {
		if _, err := ParseVerticalAlign(s); err != nil {
			t.Errorf("ParseVerticalAlign(%q) error: %v", s, err)
		}
	}
	for _, s := range []string{"", "middle", "TOP"} {
		_, err := ParseVerticalAlign(s)
		if !errors.Is(err, errors.ErrCodeInvalidArgument) {
			t.Errorf("ParseVerticalAlign(%q) error = %v, want INVALID_ARGUMENT", s, err)
		}
	}
}

func TestIsTextblock(t *testing.T) {
	reg := Default()
	tests := map[string]bool{
		doc.TypeParagraph: true,
		doc.TypeHeading:   true,
		doc.TypeColumn:    false,
		doc.TypeColumns:   false,
		doc.TypeImage:     false,
		"missing":         false,
	}
	for name, want := range tests {
		if got := reg.IsTextblock(name); got != want {
			t.Errorf("IsTextblock(%s) = %v, want %v", name, got, want)
		}
	}
}

func TestNewRegistryRejectsBadSpecs(t *testing.T) {
	tests := []struct {
		name  string
		nodes []NodeSpec
	}{
		{"unknown content reference", []NodeSpec{{Name: "doc", Content: "widget*"}}},
		{"duplicate name", []NodeSpec{{Name: "doc"}, {Name: "doc"}}},
		{"bad quantifier", []NodeSpec{{Name: "doc", Content: "(doc)*"}}},
		{"empty name", []NodeSpec{{Name: ""}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRegistry(tt.nodes, nil); err == nil {
				t.Error("NewRegistry should fail")
			}
		})
	}
}
