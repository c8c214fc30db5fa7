package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/rosa/internal/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the assistant over HTTP",
		Long: `Start the HTTP API.

Endpoints:
  GET  /               Welcome message
  GET  /health         Liveness check
  POST /api/assistant  {"question": "..."} -> filter, SQL and data`,
		Example: `  rosa serve
  rosa serve --addr :8080 --allowed-origins http://localhost:5173`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (default 127.0.0.1:8000)")
	cmd.Flags().StringSlice("allowed-origins", nil, "CORS allowed origins")

	return cmd
}

func runServe(cmd *cobra.Command) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	cfg := cmdCtx.Cfg

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Config{
		Addr:              cfg.Server.Addr,
		AllowedOrigins:    cfg.Server.CORS.AllowedOrigins,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		Assistant:         cmdCtx.Assistant,
		Logger:            cmdCtx.Logger,
	})

	cmdCtx.Renderer.Success("Serving on http://" + srv.Addr())
	return srv.Serve(ctx)
}
