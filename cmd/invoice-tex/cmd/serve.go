package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-tex/internal/finalize"
	"github.com/rezonia/invoice-tex/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server for rendering invoices.

The API provides endpoints for:
  - POST /api/v1/render      - Render a TOML invoice to PDF
  - POST /api/v1/render/tex  - Render a TOML invoice to LaTeX source
  - POST /api/v1/validate    - Decode and check a TOML invoice
  - GET  /health             - Health check
  - GET  /metrics            - Prometheus metrics

Examples:
  # Start server on default port
  invoice-tex serve

  # Start on custom port with a render deadline
  invoice-tex serve --address :9090 --render-timeout 30s

  # Start in debug mode
  invoice-tex serve --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("address", ":8080", "Server listen address")
	serveCmd.Flags().Bool("debug", false, "Enable debug mode")
	serveCmd.Flags().Duration("read-timeout", 30*time.Second, "HTTP read timeout")
	serveCmd.Flags().Duration("write-timeout", 2*time.Minute, "HTTP write timeout")
	serveCmd.Flags().Duration("render-timeout", time.Minute, "Deadline for one render request")
}

func runServe(cmd *cobra.Command, args []string) error {
	if _, ok := finalize.Detect(cfg.Engine); !ok {
		log.Warn().Str("engine", cfg.Engine).Msg("typesetting engine not found, PDF rendering will fail")
	}

	config := &server.Config{
		Address:       cfg.Server.Address,
		ReadTimeout:   cfg.Server.ReadTimeout,
		WriteTimeout:  cfg.Server.WriteTimeout,
		RenderTimeout: cfg.Server.RenderTimeout,
		Debug:         cfg.Server.Debug,
		Logger:        log,
	}

	srv := server.NewServer(config, newPipeline())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}
