package cli

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pagecraft/internal/config"
	"github.com/matzehuels/pagecraft/pkg/server"
	"github.com/matzehuels/pagecraft/pkg/store"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		listen     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the admin API",
		Long: `Run the admin API.

Configuration is read from --config, or from ` + config.FileName + ` in the
working directory when present. PAGECRAFT_* environment variables override
the file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Listen = listen
			}
			if level, err := log.ParseLevel(cfg.LogLevel); err == nil && c.Logger.GetLevel() > level {
				c.SetLogLevel(level)
			}

			st, err := store.Open(ctx, cfg.Store)
			if err != nil {
				return err
			}
			defer func() {
				if err := st.Close(); err != nil {
					c.Logger.Warn("close store", "err", err)
				}
			}()

			printInfo(c.out, "Store: %s", StyleHighlight.Render(cfg.Store.Backend))
			printInfo(c.out, "Listening on %s", StyleHighlight.Render(cfg.Listen))

			srv := server.New(server.Options{
				Store:        st,
				HistoryDepth: cfg.Editor.HistoryDepth,
				Logger:       c.Logger,
			})
			return srv.Serve(ctx, cfg.Listen)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to "+config.FileName)
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides config)")
	return cmd
}
