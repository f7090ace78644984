package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/spf13/cobra"

	"podcatch/api"
	"podcatch/api/types"
	"podcatch/internal/database"
	"podcatch/internal/services/episodes"
	"podcatch/internal/services/podcasts"
)

var (
	serveHost string
	servePort int
)

// serveCmd runs the status API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the status API server",
	Long: `Start the status API server. It exposes health and version endpoints,
the tracked podcasts with their episodes, and a sync trigger for driving
a long-lived deployment remotely.

Example:
  podcatch serve
  podcatch serve --port 9090`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	serverConfig := appConfig.Server
	if serveHost != "" {
		serverConfig.Host = serveHost
	}
	if servePort != 0 {
		serverConfig.Port = servePort
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	server := api.NewServer(serverConfig)
	server.SetDependencies(buildDependencies(db))
	if err := server.Initialize(); err != nil {
		return err
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	log.Printf("[INFO] serving on %s:%d", serverConfig.Host, serverConfig.Port)

	select {
	case <-stop:
		log.Printf("[INFO] shutting down")
	case <-cmd.Context().Done():
		log.Printf("[INFO] shutting down")
	case err := <-serverErr:
		return err
	}

	shutdownTimeout := serverConfig.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	log.Printf("[INFO] server stopped")
	return nil
}

// buildDependencies wires every handler dependency around one database
// handle. The sync runner is the same orchestrator the sync command uses.
func buildDependencies(db *database.DB) *types.Dependencies {
	fetcher := newFetcher(appConfig.Fetch)

	return &types.Dependencies{
		DB:       db,
		Podcasts: podcasts.NewService(podcasts.NewRepository(db.DB), fetcher, appConfig.Download.Directory),
		Episodes: episodes.NewRepository(db.DB),
		Sync:     newOrchestrator(db),
		Version:  Version,
		Commit:   GitCommit,
	}
}
