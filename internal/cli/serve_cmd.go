package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/haytac/emoji-scrub/internal/cleaner"
	"github.com/haytac/emoji-scrub/internal/database"
	"github.com/haytac/emoji-scrub/internal/server"
	"github.com/haytac/emoji-scrub/pkg/interfaces"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the cleaner over HTTP",
		Long:  `Starts an HTTP server: POST a workbook to /v1/clean and receive the cleaned CSV. Metrics are exposed on /metrics.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if AppCfg == nil {
				return fmt.Errorf("configuration not loaded")
			}
			serveCfg := AppCfg.Serve
			if cmd.Flags().Changed("addr") {
				serveCfg.Addr = addr
			}

			var recorder interfaces.RunRecorder
			if db := openHistory(); db != nil {
				defer func() {
					if err := db.Close(); err != nil {
						log.Error().Err(err).Msg("Error closing database")
					}
				}()
				recorder = database.NewRunStore(db)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := server.New(serveCfg, cleaner.New(nil, AppCfg.Clean), AppCfg.CSV, recorder)
			return srv.ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
