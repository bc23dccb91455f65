package cli

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pagecraft/pkg/buildinfo"
)

// versionCommand creates the version command.
func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printKeyValue(c.out, "version", buildinfo.Version)
			printKeyValue(c.out, "commit", buildinfo.Commit)
			printKeyValue(c.out, "built", buildinfo.Date)
			printKeyValue(c.out, "go", runtime.Version())
		},
	}
}
