package transform

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/pagecraft/pkg/doc"
	"github.com/matzehuels/pagecraft/pkg/errors"
	"github.com/matzehuels/pagecraft/pkg/schema"
)

func para(text string) *doc.Node {
	if text == "" {
		return doc.NewNode(doc.TypeParagraph, nil)
	}
	return doc.NewNode(doc.TypeParagraph, nil, doc.NewText(text))
}

func column(blocks ...*doc.Node) *doc.Node {
	return doc.NewNode(doc.TypeColumn, doc.Attrs{schema.AttrVerticalAlign: "top"}, blocks...)
}

func TestStepsApply(t *testing.T) {
	reg := schema.Default()
	tests := []struct {
		name string
		in   *doc.Node
		step Step
		want *doc.Node
	}{
		{
			name: "insert",
			in:   doc.New(para("a")),
			step: Insert{Parent: nil, Index: 0, Nodes: []*doc.Node{para("b")}},
			want: doc.New(para("b"), para("a")),
		},
		{
			name: "delete range",
			in:   doc.New(para("a"), para("b"), para("c")),
			step: Delete{Parent: nil, From: 0, To: 2},
			want: doc.New(para("c")),
		},
		{
			name: "set attr",
			in:   doc.New(doc.NewNode(doc.TypeColumns, doc.Attrs{}, column())),
			step: SetAttr{Target: doc.Path{0, 0}, Key: schema.AttrVerticalAlign, Value: "bottom"},
			want: doc.New(doc.NewNode(doc.TypeColumns, doc.Attrs{},
				doc.NewNode(doc.TypeColumn, doc.Attrs{schema.AttrVerticalAlign: "bottom"}))),
		},
		{
			name: "insert text mid run",
			in:   doc.New(para("helo")),
			step: InsertText{Target: doc.Path{0}, Offset: 3, Text: "l"},
			want: doc.New(para("hello")),
		},
		{
			name: "insert text into empty block",
			in:   doc.New(para("")),
			step: InsertText{Target: doc.Path{0}, Offset: 0, Text: "x"},
			want: doc.New(para("x")),
		},
		{
			name: "insert text after hard break",
			in: doc.New(doc.NewNode(doc.TypeParagraph, nil,
				doc.NewText("a"), doc.NewNode(doc.TypeHardBreak, nil))),
			step: InsertText{Target: doc.Path{0}, Offset: 2, Text: "b"},
			want: doc.New(doc.NewNode(doc.TypeParagraph, nil,
				doc.NewText("a"), doc.NewNode(doc.TypeHardBreak, nil), doc.NewText("b"))),
		},
		{
			name: "join merges text",
			in:   doc.New(para("ab"), para("cd")),
			step: Join{Target: doc.Path{1}},
			want: doc.New(para("abcd")),
		},
		{
			name: "join keeps differently marked runs apart",
			in: doc.New(para("ab"), doc.NewNode(doc.TypeParagraph, nil,
				doc.NewText("cd", doc.Mark{Type: "bold"}))),
			step: Join{Target: doc.Path{1}},
			want: doc.New(doc.NewNode(doc.TypeParagraph, nil,
				doc.NewText("ab"), doc.NewText("cd", doc.Mark{Type: "bold"}))),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := tt.in.Clone()
			if err := tt.step.Apply(tree, reg); err != nil {
				t.Fatalf("Apply error: %v", err)
			}
			if !tree.Equal(tt.want) {
				t.Errorf("tree mismatch (-want +got):\n%s", cmp.Diff(tt.want, tree))
			}
		})
	}
}

func TestStepsErrors(t *testing.T) {
	reg := schema.Default()
	tests := []struct {
		name string
		step Step
	}{
		{"insert past end", Insert{Parent: nil, Index: 5, Nodes: []*doc.Node{para("x")}}},
		{"delete past end", Delete{Parent: nil, From: 0, To: 9}},
		{"missing target", SetAttr{Target: doc.Path{4}, Key: "k", Value: "v"}},
		{"text into non-textblock", InsertText{Target: nil, Offset: 0, Text: "x"}},
		{"text offset out of range", InsertText{Target: doc.Path{0}, Offset: 10, Text: "x"}},
		{"join first block", Join{Target: doc.Path{0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := doc.New(para("a"))
			if err := tt.step.Apply(tree, reg); err == nil {
				t.Fatal("Apply succeeded, want error")
			}
		})
	}
}

func TestPreviousTextblock(t *testing.T) {
	reg := schema.Default()
	tree := doc.New(
		para("a"),
		doc.NewNode(doc.TypeColumns, doc.Attrs{},
			column(para("b")),
			column(para("c"), para("d")),
		),
	)
	tests := []struct {
		at   doc.Path
		want doc.Path
		ok   bool
	}{
		{doc.Path{0}, nil, false},
		{doc.Path{1, 0, 0}, doc.Path{0}, true},
		{doc.Path{1, 1, 0}, doc.Path{1, 0, 0}, true},
		{doc.Path{1, 1, 1}, doc.Path{1, 1, 0}, true},
	}
	for _, tt := range tests {
		got, ok := PreviousTextblock(reg, tree, tt.at)
		if ok != tt.ok || !got.Equal(tt.want) {
			t.Errorf("PreviousTextblock(%s) = %s, %v; want %s, %v", tt.at, got, ok, tt.want, tt.ok)
		}
	}
}

// vetoPlugin refuses every transaction carrying the "veto" flag and records
// a repair note otherwise.
type vetoPlugin struct{ filtered, repaired int }

func (p *vetoPlugin) Name() string { return "veto" }

func (p *vetoPlugin) Filter(_ *doc.Node, tx *Transaction) (*Transaction, error) {
	p.filtered++
	if tx.Flag("veto") {
		return nil, errors.InvariantViolation("vetoed")
	}
	if tx.Flag("drop") {
		return nil, nil
	}
	return tx, nil
}

func (p *vetoPlugin) Repair(_ *doc.Node, _ *Transaction) []string {
	p.repaired++
	return []string{"checked"}
}

func TestMediatorApply(t *testing.T) {
	root := doc.New(para("a"))
	before := root.Clone()
	plugin := &vetoPlugin{}
	m := NewMediator(nil, plugin)

	res, err := m.Apply(root, NewTransaction("insert", Insert{Index: 1, Nodes: []*doc.Node{para("b")}}))
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if !res.Changed {
		t.Error("Changed = false, want true")
	}
	if res.Doc.ChildCount() != 2 {
		t.Errorf("child count = %d, want 2", res.Doc.ChildCount())
	}
	if !root.Equal(before) {
		t.Error("input tree was modified")
	}
	if diff := cmp.Diff([]string{"veto: checked"}, res.Repairs); diff != "" {
		t.Errorf("repairs (-want +got):\n%s", diff)
	}
}

func TestMediatorRejects(t *testing.T) {
	tests := []struct {
		name     string
		tx       *Transaction
		wantCode errors.Code
	}{
		{
			name:     "plugin veto",
			tx:       NewTransaction("x", Insert{Index: 0, Nodes: []*doc.Node{para("b")}}).SetMeta("veto", true),
			wantCode: errors.ErrCodeInvariantViolation,
		},
		{
			name:     "bad step",
			tx:       NewTransaction("x", Delete{From: 0, To: 3}),
			wantCode: errors.ErrCodeInvalidArgument,
		},
		{
			name:     "schema violation",
			tx:       NewTransaction("x", Insert{Index: 0, Nodes: []*doc.Node{doc.NewNode(doc.TypeColumns, doc.Attrs{})}}),
			wantCode: errors.ErrCodeSchemaViolation,
		},
		{
			name: "later step fails after earlier succeeds",
			tx: NewTransaction("x",
				Insert{Index: 0, Nodes: []*doc.Node{para("b")}},
				SetAttr{Target: doc.Path{7}, Key: "k", Value: 1},
			),
			wantCode: errors.ErrCodeInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := doc.New(para("a"))
			before := root.Clone()
			res, err := Apply(nil, root, tt.tx, &vetoPlugin{})
			if !errors.Is(err, tt.wantCode) {
				t.Fatalf("Apply error = %v, want %s", err, tt.wantCode)
			}
			if res.Doc != root || !root.Equal(before) {
				t.Error("rejected transaction changed the document")
			}
		})
	}
}

func TestMediatorDrop(t *testing.T) {
	root := doc.New(para("a"))
	tx := NewTransaction("x", Delete{From: 0, To: 1}).SetMeta("drop", true)
	res, err := Apply(nil, root, tx, &vetoPlugin{})
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if res.Changed || res.Doc != root {
		t.Error("dropped transaction changed the document")
	}
}

func TestHistory(t *testing.T) {
	h := NewHistory(2)
	if h.CanUndo() || h.CanRedo() {
		t.Fatal("new history should be empty")
	}
	for _, label := range []string{"a", "b", "c"} {
		h.Push(Record{Label: label})
	}
	if h.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (bounded)", h.Len())
	}

	r, ok := h.Undo()
	if !ok || r.Label != "c" {
		t.Fatalf("Undo = %q, %v; want c", r.Label, ok)
	}
	r, ok = h.Redo()
	if !ok || r.Label != "c" {
		t.Fatalf("Redo = %q, %v; want c", r.Label, ok)
	}

	h.Undo()
	h.Push(Record{Label: "d"})
	if h.CanRedo() {
		t.Error("Push should clear the redo stack")
	}

	h.Undo()
	r, _ = h.Undo()
	if r.Label != "b" {
		t.Errorf("second Undo = %q, want b", r.Label)
	}
	if _, ok := h.Undo(); ok {
		t.Error("Undo past the bounded depth succeeded")
	}
}
