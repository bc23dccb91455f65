package cli

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pagecraft/pkg/doc"
	"github.com/matzehuels/pagecraft/pkg/io"
)

// maxTextPreview bounds text shown per node in the tree outline.
const maxTextPreview = 40

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a document file against the schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger, args[0])

			root, err := io.ImportJSON(args[0])
			if err != nil {
				return err
			}
			prog.done("validated", root)

			printSuccess(c.out, "%s is valid", args[0])
			printDetail(c.out, "%d blocks · %d column layouts · %d columns",
				root.ChildCount(), root.Count(doc.TypeColumns), root.Count(doc.TypeColumn))
			return nil
		},
	}
}

// fmtCommand creates the fmt command.
func (c *CLI) fmtCommand() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "fmt FILE",
		Short: "Print a document in canonical form",
		Long:  `Fmt reads a document, fills in defaults such as column alignment, and prints it in canonical indented form. With --write the file is replaced instead.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog := newProgress(loggerFromContext(cmd.Context()), args[0])
			root, err := io.ImportJSON(args[0])
			if err != nil {
				return err
			}
			if !write {
				return io.WriteJSON(root, c.out)
			}
			if err := io.ExportJSON(root, args[0]); err != nil {
				return err
			}
			prog.done("formatted", root)
			printSuccess(c.out, "Formatted")
			printFile(c.out, args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write result to the file instead of stdout")
	return cmd
}

// treeCommand creates the tree command.
func (c *CLI) treeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tree FILE",
		Short: "Print the outline of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := io.ImportJSON(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, outline(root, doc.Path{}).String())
			return nil
		},
	}
}

// outline renders n and its block descendants as a lipgloss tree. Inline
// content is summarized on its block's line.
func outline(n *doc.Node, at doc.Path) *tree.Tree {
	t := tree.Root(label(n, at)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(StyleDim).
		RootStyle(StyleTitle)
	for i, child := range n.Content {
		if child.IsText() || child.Type == doc.TypeHardBreak {
			continue
		}
		p := at.Child(i)
		if len(child.Content) == 0 || isInline(child) {
			t.Child(label(child, p))
			continue
		}
		t.Child(outline(child, p))
	}
	return t
}

func isInline(n *doc.Node) bool {
	for _, c := range n.Content {
		if !c.IsText() && c.Type != doc.TypeHardBreak {
			return false
		}
	}
	return true
}

func label(n *doc.Node, at doc.Path) string {
	var b strings.Builder
	b.WriteString(StyleHighlight.Render(n.Type))
	if attrs := attrSummary(n); attrs != "" {
		b.WriteString(" " + StyleDim.Render(attrs))
	}
	if text := n.TextContent(); text != "" && isInline(n) {
		if utf8.RuneCountInString(text) > maxTextPreview {
			text = string([]rune(text)[:maxTextPreview]) + "…"
		}
		b.WriteString(" " + StyleValue.Render(fmt.Sprintf("%q", text)))
	}
	b.WriteString(" " + stylePath.Render(at.String()))
	return b.String()
}

func attrSummary(n *doc.Node) string {
	if len(n.Attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if v := n.Attrs[k]; v != nil {
			parts = append(parts, fmt.Sprintf("%s=%v", k, v))
		}
	}
	return strings.Join(parts, " ")
}
