// Package doc provides the in-memory rich-text document tree edited by
// pagecraft.
//
// # Overview
//
// A document is an ordered tree of typed nodes rooted at a single "doc" node.
// Block nodes (paragraphs, headings, images, column layouts) hold child nodes
// in Content; text nodes hold a string and an optional list of marks. The tree
// itself carries no policy: which node may contain which is decided by
// [github.com/matzehuels/pagecraft/pkg/schema], and how edits keep a layout
// well-formed is decided by the transaction mediator in
// [github.com/matzehuels/pagecraft/pkg/transform].
//
// # Addressing
//
// Nodes are addressed by [Path], the list of child indices walked from the
// root. The root is the empty path; "/0/2" is the third child of the first
// child of the root:
//
//	root := doc.New(
//	    doc.NewNode(doc.TypeParagraph, nil, doc.NewText("hello")),
//	)
//	n, err := root.At(doc.Path{0, 0})
//	// n.Text == "hello"
//
// # Ownership
//
// A tree is owned by exactly one editing session at a time. Trees returned to
// callers as snapshots are deep copies made with [Node.Clone]; mutating one
// never affects the session that produced it.
//
// # Concurrency
//
// Node is not safe for concurrent mutation. Readers may share a tree as long
// as nobody mutates it.
package doc
