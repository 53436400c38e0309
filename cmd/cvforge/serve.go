package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/cv-forge/internal/observability"
	"github.com/jonathan/cv-forge/internal/polish"
	"github.com/jonathan/cv-forge/internal/rendering"
	"github.com/jonathan/cv-forge/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes session editing, polishing, previews and the NVIDIA API relay.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT and the config file)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	logger := observability.NewLogger("cvforge", cfg.Env, cfg.LogLevel)
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := newLLMClient(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	srvCfg := server.Config{
		Port:             cfg.Port,
		MaxPhotoBytes:    cfg.MaxPhotoBytes,
		SessionTTL:       cfg.SessionTTL.Duration,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		RelayUpstream:    cfg.RelayUpstream,
		RelayAPIKey:      cfg.NVIDIAAPIKey,
		Polisher: polish.New(client,
			polish.WithLogger(logger),
			polish.WithTimeout(cfg.PolishTimeout.Duration),
		),
		Logger: logger,
	}
	if cfg.PDFEnabled {
		srvCfg.Exporter = rendering.NewPDFExporter(cfg.ChromePath, logger)
	}

	srv, err := server.New(srvCfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("provider", cfg.Provider),
		zap.Bool("pdf", cfg.PDFEnabled),
	)
	return srv.Start(ctx)
}
