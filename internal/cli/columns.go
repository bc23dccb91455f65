package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pagecraft/pkg/doc"
	"github.com/matzehuels/pagecraft/pkg/editor"
	"github.com/matzehuels/pagecraft/pkg/errors"
	"github.com/matzehuels/pagecraft/pkg/io"
	"github.com/matzehuels/pagecraft/pkg/layout"
)

// columnsFlags are shared by the columns subcommands.
type columnsFlags struct {
	at     string
	dryRun bool
}

func (f *columnsFlags) register(cmd *cobra.Command, atUsage string) {
	cmd.Flags().StringVar(&f.at, "at", "", atUsage)
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "print the result instead of writing the file")
}

// columnsCommand creates the columns command group.
func (c *CLI) columnsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "columns",
		Short: "Edit column layouts in a document file",
		Long: `Edit column layouts in a document file.

Every edit goes through the same checks as the editor: a layout keeps at
least one column, and a rejected edit leaves the file untouched.

Paths address nodes by child index from the root, e.g. /0 for the first
block and /0/1 for its second child.`,
	}

	cmd.AddCommand(c.columnsInsertCommand())
	cmd.AddCommand(c.columnsAlignCommand())
	cmd.AddCommand(c.columnsRemoveCommand())

	return cmd
}

func (c *CLI) columnsInsertCommand() *cobra.Command {
	var (
		flags columnsFlags
		count int
	)
	cmd := &cobra.Command{
		Use:   "insert FILE",
		Short: "Insert a layout of empty columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := parseAt(flags.at, false)
			if err != nil {
				return err
			}
			return c.editFile(cmd, args[0], flags.dryRun, layout.InsertColumns{Count: count, At: at},
				fmt.Sprintf("Inserted %d columns", count))
		},
	}
	flags.register(cmd, "path of the new layout (default: end of document)")
	cmd.Flags().IntVarP(&count, "count", "n", 2, "number of columns")
	return cmd
}

func (c *CLI) columnsAlignCommand() *cobra.Command {
	var (
		flags columnsFlags
		align string
	)
	cmd := &cobra.Command{
		Use:   "align FILE",
		Short: "Set the vertical alignment of a column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := parseAt(flags.at, true)
			if err != nil {
				return err
			}
			return c.editFile(cmd, args[0], flags.dryRun, layout.SetColumnVerticalAlign{Align: align, Target: at},
				fmt.Sprintf("Aligned %s %s", at, align))
		},
	}
	flags.register(cmd, "path of the column, or any node inside it")
	cmd.Flags().StringVar(&align, "align", "top", "top, center or bottom")
	return cmd
}

func (c *CLI) columnsRemoveCommand() *cobra.Command {
	var flags columnsFlags
	cmd := &cobra.Command{
		Use:   "remove FILE",
		Short: "Remove a column and its content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := parseAt(flags.at, true)
			if err != nil {
				return err
			}
			return c.editFile(cmd, args[0], flags.dryRun, layout.RemoveColumn{Target: at},
				fmt.Sprintf("Removed column %s", at))
		},
	}
	flags.register(cmd, "path of the column to remove")
	return cmd
}

func parseAt(s string, required bool) (doc.Path, error) {
	if s == "" {
		if required {
			return nil, errors.InvalidArgument("--at is required")
		}
		return nil, nil
	}
	p, err := doc.ParsePath(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidArgument, err, "--at")
	}
	return p, nil
}

// editFile runs one command on the document in path and writes the result
// back, or prints it with dryRun.
func (c *CLI) editFile(cmd *cobra.Command, path string, dryRun bool, command layout.Command, done string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	sess, err := editor.Load(data, editor.Options{Logger: logger})
	if err != nil {
		return err
	}

	applied, err := sess.Exec(ctx, command)
	if err != nil {
		return err
	}
	if !applied {
		printWarning(c.out, "%s does not apply here; %s unchanged", command.Kind(), path)
		return nil
	}

	if dryRun {
		return io.WriteJSON(sess.Doc(), c.out)
	}
	if err := io.ExportJSON(sess.Doc(), path); err != nil {
		return err
	}
	sess.MarkSaved()
	printSuccess(c.out, "%s", done)
	printFile(c.out, path)
	return nil
}
