package layout

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/pagecraft/pkg/doc"
	"github.com/matzehuels/pagecraft/pkg/errors"
	"github.com/matzehuels/pagecraft/pkg/io"
	"github.com/matzehuels/pagecraft/pkg/schema"
	"github.com/matzehuels/pagecraft/pkg/transform"
)

// run executes cmd and fails the test on error.
func run(t *testing.T, root *doc.Node, cmd Command) (*doc.Node, bool) {
	t.Helper()
	res, ok, err := Run(nil, root, nil, cmd)
	if err != nil {
		t.Fatalf("%s: %v", cmd.Kind(), err)
	}
	return res.Doc, ok
}

func alignments(t *testing.T, columns *doc.Node) []string {
	t.Helper()
	if columns == nil || columns.Type != doc.TypeColumns {
		t.Fatalf("node is not a columns node: %+v", columns)
	}
	out := make([]string, columns.ChildCount())
	for i, c := range columns.Content {
		out[i], _ = c.Attrs.String(schema.AttrVerticalAlign)
	}
	return out
}

func serialize(t *testing.T, n *doc.Node) string {
	t.Helper()
	data, err := io.Serialize(n)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	return string(data)
}

func TestInsertColumnsCount(t *testing.T) {
	for count := 1; count <= 6; count++ {
		t.Run(fmt.Sprint(count), func(t *testing.T) {
			tree, ok := run(t, doc.New(), InsertColumns{Count: count})
			if !ok {
				t.Fatal("insertColumns did not apply")
			}
			cols := tree.Child(0)
			if got := ColumnCount(cols); got != count {
				t.Errorf("ColumnCount = %d, want %d", got, count)
			}
			for i, a := range alignments(t, cols) {
				if a != "top" {
					t.Errorf("column %d verticalAlign = %q, want top", i, a)
				}
			}
		})
	}
}

func TestInsertColumnsRejectsOutOfRange(t *testing.T) {
	root := doc.New(doc.NewNode(doc.TypeParagraph, nil, doc.NewText("keep")))
	before := serialize(t, root)

	for _, count := range []int{0, -1, -100, MaxColumns + 1, math.MaxInt, math.MinInt} {
		res, ok, err := Run(nil, root, nil, InsertColumns{Count: count})
		if !errors.Is(err, errors.ErrCodeInvalidArgument) {
			t.Errorf("count %d: error = %v, want INVALID_ARGUMENT", count, err)
		}
		if ok {
			t.Errorf("count %d: reported applied", count)
		}
		if after := serialize(t, res.Doc); after != before {
			t.Errorf("count %d: document changed:\n got %s\nwant %s", count, after, before)
		}
	}
}

func TestInsertColumnsMax(t *testing.T) {
	tree, ok := run(t, doc.New(), InsertColumns{Count: MaxColumns})
	if !ok {
		t.Fatal("insertColumns did not apply")
	}
	if got := ColumnCount(tree.Child(0)); got != MaxColumns {
		t.Errorf("ColumnCount = %d, want %d", got, MaxColumns)
	}
}

func TestInsertColumnsPosition(t *testing.T) {
	root := doc.New(
		doc.NewNode(doc.TypeParagraph, nil, doc.NewText("a")),
		doc.NewNode(doc.TypeParagraph, nil, doc.NewText("b")),
	)

	res, _, err := Run(nil, root, doc.Path{0, 0}, InsertColumns{Count: 2})
	if err != nil {
		t.Fatal(err)
	}
	if res.Doc.Child(1).Type != doc.TypeColumns {
		t.Errorf("columns not inserted after the cursor block: %s", serialize(t, res.Doc))
	}
	if !res.Transaction.Cursor.Equal(doc.Path{1, 0}) {
		t.Errorf("cursor = %s, want /1/0", res.Transaction.Cursor)
	}

	if _, _, err := Run(nil, root, nil, InsertColumns{Count: 2, At: doc.Path{}}); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("insert at root: error = %v, want INVALID_ARGUMENT", err)
	}
	if _, _, err := Run(nil, root, nil, InsertColumns{Count: 2, At: doc.Path{9}}); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("insert past end: error = %v, want INVALID_ARGUMENT", err)
	}
	if _, _, err := Run(nil, root, nil, InsertColumns{Count: 2, At: doc.Path{0, 0}}); !errors.Is(err, errors.ErrCodeSchemaViolation) {
		t.Errorf("insert inside paragraph: error = %v, want SCHEMA_VIOLATION", err)
	}
}

func TestRemoveColumnsDownToOne(t *testing.T) {
	for n := 2; n <= 5; n++ {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			tree, _ := run(t, doc.New(), InsertColumns{Count: n})
			for remaining := n; remaining > 1; remaining-- {
				var ok bool
				tree, ok = run(t, tree, RemoveColumn{Target: doc.Path{0, remaining - 1}})
				if !ok {
					t.Fatalf("removal with %d columns did not apply", remaining)
				}
				if got := ColumnCount(tree.Child(0)); got != remaining-1 {
					t.Fatalf("ColumnCount = %d, want %d", got, remaining-1)
				}
			}

			before := serialize(t, tree)
			_, ok, err := Run(nil, tree, nil, RemoveColumn{Target: doc.Path{0, 0}})
			if !errors.Is(err, errors.ErrCodeInvariantViolation) {
				t.Fatalf("removing last column: error = %v, want INVARIANT_VIOLATION", err)
			}
			if !strings.Contains(err.Error(), "minimum column count") {
				t.Errorf("error %q does not name the minimum column count", err)
			}
			if ok || serialize(t, tree) != before {
				t.Error("failed removal changed the document")
			}
		})
	}
}

func TestDeleteLastColumnCollapsesLayout(t *testing.T) {
	intro := doc.NewNode(doc.TypeParagraph, nil, doc.NewText("intro"))
	tests := []struct {
		name   string
		layout *doc.Node
		del    DeleteContent
	}{
		{"single column", NewColumns(1), DeleteContent{Parent: doc.Path{1}, From: 0, To: 1}},
		{"all columns at once", NewColumns(3), DeleteContent{Parent: doc.Path{1}, From: 0, To: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := doc.New(intro, tt.layout)
			res, ok, err := Run(nil, root, nil, tt.del)
			if err != nil {
				t.Fatalf("Run error: %v", err)
			}
			if !ok {
				t.Fatal("deletion did not apply")
			}
			if !res.Doc.Equal(doc.New(intro)) {
				t.Errorf("columns node not removed: %s", serialize(t, res.Doc))
			}
			if len(res.Repairs) == 0 || !strings.Contains(res.Repairs[0], RuleCollapseEmpty) {
				t.Errorf("repairs = %v, want a %s repair", res.Repairs, RuleCollapseEmpty)
			}
		})
	}
}

func TestDeleteContentInsideColumn(t *testing.T) {
	root := doc.New(doc.NewNode(doc.TypeColumns, doc.Attrs{},
		doc.NewNode(doc.TypeColumn, doc.Attrs{schema.AttrVerticalAlign: "top"},
			doc.NewNode(doc.TypeParagraph, nil, doc.NewText("x")),
			doc.NewNode(doc.TypeParagraph, nil, doc.NewText("y")),
		),
	))
	tree, ok := run(t, root, DeleteContent{Parent: doc.Path{0, 0}, From: 0, To: 2})
	if !ok {
		t.Fatal("deletion did not apply")
	}
	if got := ColumnCount(tree.Child(0)); got != 1 {
		t.Errorf("emptying a column removed it: ColumnCount = %d", got)
	}

	if _, ok := run(t, root, DeleteContent{Parent: doc.Path{0, 0}, From: 1, To: 1}); ok {
		t.Error("empty range reported applied")
	}
	if _, _, err := Run(nil, root, nil, DeleteContent{Parent: doc.Path{0, 0}, From: 1, To: 5}); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("bad range: error = %v, want INVALID_ARGUMENT", err)
	}
}

func TestSetColumnVerticalAlign(t *testing.T) {
	tree, _ := run(t, doc.New(), InsertColumns{Count: 3})
	tree, _ = run(t, tree, InsertParagraph{At: doc.Path{0, 2, 0}, Text: "right"})
	before := tree.Clone()

	tree, ok := run(t, tree, SetColumnVerticalAlign{Align: "center", Target: doc.Path{0, 0}})
	if !ok {
		t.Fatal("setColumnVerticalAlign did not apply")
	}
	if diff := cmp.Diff([]string{"center", "top", "top"}, alignments(t, tree.Child(0))); diff != "" {
		t.Errorf("alignments (-want +got):\n%s", diff)
	}
	for i := 1; i < 3; i++ {
		if !tree.Child(0).Child(i).Equal(before.Child(0).Child(i)) {
			t.Errorf("sibling column %d changed", i)
		}
	}

	// A target inside the column resolves to the column.
	tree, _ = run(t, tree, SetColumnVerticalAlign{Align: "bottom", Target: doc.Path{0, 2, 0}})
	if diff := cmp.Diff([]string{"center", "top", "bottom"}, alignments(t, tree.Child(0))); diff != "" {
		t.Errorf("alignments (-want +got):\n%s", diff)
	}
}

func TestSetColumnVerticalAlignErrors(t *testing.T) {
	root := doc.New(
		doc.NewNode(doc.TypeParagraph, nil, doc.NewText("outside")),
		NewColumns(2),
	)
	before := serialize(t, root)

	res, ok, err := Run(nil, root, nil, SetColumnVerticalAlign{Align: "middle", Target: doc.Path{1, 0}})
	if !errors.Is(err, errors.ErrCodeInvalidArgument) || ok {
		t.Errorf("bad align: ok=%v err=%v, want INVALID_ARGUMENT", ok, err)
	}
	if serialize(t, res.Doc) != before {
		t.Error("bad align changed the document")
	}

	for name, cursor := range map[string]doc.Path{"outside column": {0}, "no cursor": nil, "stale cursor": {7}} {
		res, ok, err := Run(nil, root, cursor, SetColumnVerticalAlign{Align: "center"})
		if err != nil || ok {
			t.Errorf("%s: ok=%v err=%v, want not applicable", name, ok, err)
		}
		if serialize(t, res.Doc) != before {
			t.Errorf("%s: document changed", name)
		}
	}

	if _, _, err := Run(nil, root, nil, SetColumnVerticalAlign{Align: "top", Target: doc.Path{5}}); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("missing target: error = %v, want INVALID_ARGUMENT", err)
	}
}

func TestJoinBackwardStaysInColumn(t *testing.T) {
	para := func(s string) *doc.Node { return doc.NewNode(doc.TypeParagraph, nil, doc.NewText(s)) }
	col := func(blocks ...*doc.Node) *doc.Node {
		return doc.NewNode(doc.TypeColumn, doc.Attrs{schema.AttrVerticalAlign: "top"}, blocks...)
	}
	root := doc.New(
		para("before"),
		doc.NewNode(doc.TypeColumns, doc.Attrs{}, col(para("a1"), para("a2")), col(para("b1"))),
		para("after"),
	)

	tests := []struct {
		name    string
		target  doc.Path
		applied bool
	}{
		{"first block of first column", doc.Path{1, 0, 0}, false},
		{"first block of second column", doc.Path{1, 1, 0}, false},
		{"block after the layout", doc.Path{2}, false},
		{"within a column", doc.Path{1, 0, 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, ok, err := Run(nil, root, nil, JoinBackward{Target: tt.target})
			if err != nil {
				t.Fatalf("Run error: %v", err)
			}
			if ok != tt.applied {
				t.Fatalf("applied = %v, want %v", ok, tt.applied)
			}
			if !ok && !res.Doc.Equal(root) {
				t.Error("dropped join changed the document")
			}
		})
	}

	res, _, _ := Run(nil, root, nil, JoinBackward{Target: doc.Path{1, 0, 1}})
	if got := res.Doc.Child(1).Child(0).TextContent(); got != "a1a2" {
		t.Errorf("joined text = %q, want a1a2", got)
	}
}

func TestPluginFiltersOnlyCrossColumnJoins(t *testing.T) {
	reg := schema.Default()
	root := doc.New(doc.NewNode(doc.TypeColumns, doc.Attrs{},
		doc.NewNode(doc.TypeColumn, doc.Attrs{schema.AttrVerticalAlign: "top"}, doc.NewNode(doc.TypeParagraph, nil)),
		doc.NewNode(doc.TypeColumn, doc.Attrs{schema.AttrVerticalAlign: "top"}, doc.NewNode(doc.TypeParagraph, nil)),
	))
	tx := transform.NewTransaction("mixed",
		transform.Join{Target: doc.Path{0, 1, 0}},
		transform.SetAttr{Target: doc.Path{0, 1}, Key: schema.AttrVerticalAlign, Value: "bottom"},
	)

	res, err := transform.Apply(reg, root, tx, NewPlugin(reg))
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if len(res.Transaction.Steps) != 1 {
		t.Fatalf("steps after filter = %v, want only the attribute change", res.Transaction)
	}
	if len(tx.Steps) != 2 {
		t.Error("filter modified the proposed transaction")
	}
	if diff := cmp.Diff([]string{"top", "bottom"}, alignments(t, res.Doc.Child(0))); diff != "" {
		t.Errorf("alignments (-want +got):\n%s", diff)
	}
}

func TestPluginDefaultsAlignment(t *testing.T) {
	reg := schema.Default()
	root := doc.New(NewColumns(1))
	tx := transform.NewTransaction("raw insert", transform.Insert{
		Parent: doc.Path{0},
		Index:  1,
		Nodes:  []*doc.Node{doc.NewNode(doc.TypeColumn, nil)},
	})

	res, err := transform.Apply(reg, root, tx, NewPlugin(reg))
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if diff := cmp.Diff([]string{"top", "top"}, alignments(t, res.Doc.Child(0))); diff != "" {
		t.Errorf("alignments (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"layout: default-vertical-align: /0/1 set to top"}, res.Repairs); diff != "" {
		t.Errorf("repairs (-want +got):\n%s", diff)
	}
}

func TestPluginStatelessAcrossReload(t *testing.T) {
	tree, _ := run(t, doc.New(), InsertColumns{Count: 2})
	data := serialize(t, tree)

	reloaded, err := io.Deserialize([]byte(data))
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	reloaded, _ = run(t, reloaded, RemoveColumn{Target: doc.Path{0, 1}})
	if _, _, err := Run(nil, reloaded, nil, RemoveColumn{Target: doc.Path{0, 0}}); !errors.Is(err, errors.ErrCodeInvariantViolation) {
		t.Errorf("after reload: error = %v, want INVARIANT_VIOLATION", err)
	}
}

func TestRoundTripCommandBuiltTree(t *testing.T) {
	tree := doc.New()
	for _, cmd := range []Command{
		InsertParagraph{At: doc.Path{0}, Text: "Faculty"},
		InsertColumns{Count: 2},
		InsertParagraph{At: doc.Path{1, 0, 0}, Text: "Left"},
		InsertText{Target: doc.Path{1, 0, 0}, Offset: 4, Text: " side"},
		SetColumnVerticalAlign{Align: "center", Target: doc.Path{1, 1}},
	} {
		tree, _ = run(t, tree, cmd)
	}

	data := serialize(t, tree)
	back, err := io.Deserialize([]byte(data))
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if !back.Equal(tree) {
		t.Errorf("round trip mismatch (-want +got):\n%s", cmp.Diff(tree, back))
	}
	if again := serialize(t, back); again != data {
		t.Errorf("serialization not stable:\n got %s\nwant %s", again, data)
	}
}

func TestScenario(t *testing.T) {
	tree, _ := run(t, doc.New(), InsertColumns{Count: 3})
	cols := tree.Child(0)
	if ColumnCount(cols) != 3 {
		t.Fatalf("ColumnCount = %d, want 3", ColumnCount(cols))
	}
	if diff := cmp.Diff([]string{"top", "top", "top"}, alignments(t, cols)); diff != "" {
		t.Fatalf("alignments (-want +got):\n%s", diff)
	}

	tree, _ = run(t, tree, SetColumnVerticalAlign{Align: "bottom", Target: doc.Path{0, 1}})
	if diff := cmp.Diff([]string{"top", "bottom", "top"}, alignments(t, tree.Child(0))); diff != "" {
		t.Fatalf("alignments (-want +got):\n%s", diff)
	}

	// Author some content in column[2], then delete all of it.
	tree, _ = run(t, tree, InsertParagraph{At: doc.Path{0, 2, 0}, Text: "one"})
	tree, _ = run(t, tree, InsertParagraph{At: doc.Path{0, 2, 1}, Text: "two"})
	tree, _ = run(t, tree, DeleteContent{Parent: doc.Path{0, 2}, From: 0, To: 2})
	if n := tree.Child(0).Child(2).ChildCount(); n != 0 {
		t.Fatalf("column[2] still holds %d blocks", n)
	}

	tree, _ = run(t, tree, RemoveColumn{Target: doc.Path{0, 2}})
	tree, _ = run(t, tree, RemoveColumn{Target: doc.Path{0, 1}})
	if got := ColumnCount(tree.Child(0)); got != 1 {
		t.Fatalf("ColumnCount = %d, want 1", got)
	}

	if _, _, err := Run(nil, tree, nil, RemoveColumn{Target: doc.Path{0, 0}}); !errors.Is(err, errors.ErrCodeInvariantViolation) {
		t.Fatalf("further removal: error = %v, want INVARIANT_VIOLATION", err)
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		req      Request
		want     Command
		wantCode errors.Code
	}{
		{"insert columns", Request{Command: KindInsertColumns, Count: 2, At: "/1"}, InsertColumns{Count: 2, At: doc.Path{1}}, ""},
		{"align at cursor", Request{Command: KindSetColumnVerticalAlign, Align: "center"}, SetColumnVerticalAlign{Align: "center"}, ""},
		{"remove", Request{Command: KindRemoveColumn, At: "/0/1"}, RemoveColumn{Target: doc.Path{0, 1}}, ""},
		{"delete at root", Request{Command: KindDeleteContent, From: 0, To: 1}, DeleteContent{Parent: doc.Path{}, From: 0, To: 1}, ""},
		{"join", Request{Command: KindJoinBackward, At: "/2"}, JoinBackward{Target: doc.Path{2}}, ""},
		{"text", Request{Command: KindInsertText, At: "/0", Offset: 1, Text: "x"}, InsertText{Target: doc.Path{0}, Offset: 1, Text: "x"}, ""},
		{"paragraph", Request{Command: KindInsertParagraph, At: "/0", Text: "x"}, InsertParagraph{At: doc.Path{0}, Text: "x"}, ""},
		{"missing command", Request{}, nil, errors.ErrCodeInvalidArgument},
		{"unknown command", Request{Command: "splitColumn"}, nil, errors.ErrCodeInvalidArgument},
		{"bad path", Request{Command: KindRemoveColumn, At: "0/1"}, nil, errors.ErrCodeInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommand(tt.req)
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("ParseCommand error = %v, want %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCommand error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("command (-want +got):\n%s", diff)
			}
		})
	}
}
