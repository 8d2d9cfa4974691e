package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thundertrack/frameapi/frame"
	"github.com/thundertrack/frameapi/internal/api"
	"github.com/thundertrack/frameapi/internal/logx"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the frame HTTP service",
	Long: `Serve the frame endpoints:

  GET /                  service description
  GET /api/test          liveness and environment
  GET /api/frame/diary   diary page with the mini app embed
  GET /api/frame/image   SVG summary image

Example:
  thunderframe serve --port 3000 --variant card`,
	RunE: runServe,
}

var (
	servePort     int
	serveVariant  string
	serveLogLevel string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (overrides config and PORT)")
	serveCmd.Flags().StringVar(&serveVariant, "variant", "", "diary body: redirect|card (overrides config)")
	serveCmd.Flags().StringVar(&serveLogLevel, "log-level", "", "log level: debug|info|warn|error|off")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}
	if serveVariant != "" {
		cfg.Server.Variant = serveVariant
	}
	if serveLogLevel != "" {
		cfg.Log.Level = serveLogLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log := logx.Init(os.Stdout, cfg.Log.Level, cfg.Log.Format)

	opts, err := cfg.ComposerOptions()
	if err != nil {
		return fmt.Errorf("composer options: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// request lines are info-level output
	var accessLog io.Writer = os.Stdout
	if logx.ParseLevel(cfg.Log.Level) > slog.LevelInfo {
		accessLog = nil
	}

	srv := api.NewServer(cfg, frame.NewComposer(opts), log, accessLog)
	if err := srv.Run(ctx); err != nil {
		log.Error("server stopped", "err", err)
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
