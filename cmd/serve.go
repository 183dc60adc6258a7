package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/bpmnav/internal/history"
	"github.com/ziadkadry99/bpmnav/internal/preview"
	"github.com/ziadkadry99/bpmnav/internal/server"
)

var (
	servePort       int
	serveNoOpen     bool
	serveSessionTTL  time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Preview the navigator document in a local server",
	Long: `Serves the document built from the current diagrams, the diagram and
resolver APIs, server-side navigation sessions over a websocket and, when
a catalog is configured, the export history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := loggerFromContext(cmd.Context())

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		store, err := loadStore(cfg)
		if err != nil {
			return err
		}
		opts, err := exportOptions(cfg)
		if err != nil {
			return err
		}

		database, catalog, err := openCatalog(cfg)
		if err != nil {
			return err
		}
		if database != nil {
			defer database.Close()
		}

		srv := server.New(server.Config{Port: cfg.Port, AllowAll: cfg.AllowAllOrigins}, database, logger)
		if catalog != nil {
			history.RegisterRoutes(srv.Router(), catalog)
		}
		pv := preview.New(store, opts, logger)
		pv.RegisterRoutes(srv.Router())

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		if serveSessionTTL > 0 {
			go pruneSessions(ctx, pv, serveSessionTTL)
		}

		url := fmt.Sprintf("http://localhost:%d", cfg.Port)
		logger.Info("serving", "url", url, "diagrams", store.Count(), "mode", opts.Mode)
		if cfg.OpenBrowser && !serveNoOpen {
			if err := preview.OpenBrowser(url); err != nil {
				logger.Warn("could not open browser", "err", err)
			}
		}
		return srv.Start()
	},
}

// pruneSessions closes sessions older than ttl until ctx ends.
func pruneSessions(ctx context.Context, pv *preview.Preview, ttl time.Duration) {
	ticker := time.NewTicker(ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := pv.Prune(now.Add(-ttl)); n > 0 {
				loggerFromContext(ctx).Debug("pruned sessions", "count", n)
			}
		}
	}
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to listen on (default from config)")
	serveCmd.Flags().BoolVar(&serveNoOpen, "no-open", false, "do not open a browser")
	serveCmd.Flags().DurationVar(&serveSessionTTL, "session-ttl", time.Hour, "close navigation sessions older than this (0 keeps them)")
	rootCmd.AddCommand(serveCmd)
}
