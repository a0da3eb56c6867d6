package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/kahina/internal/platform/httpapi"
	"github.com/vovakirdan/kahina/internal/platform/tui"
	"github.com/vovakirdan/kahina/internal/storage"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagHTTPAddr    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own session with the level picker menu.
Runs are stored per-server and tagged with the SSH user name.

With --http, a read-only JSON API is served as well:
  GET /health
  GET /api/v1/games | /levels | /stats
  GET /api/v1/runs?game=<id>&limit=<n>
  GET /api/v1/runs/<id>
  GET /api/v1/runs/<id>/verify

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.kahina/host_key

Examples:
  kahina serve                           # Listen on :23234 with auto-generated key
  kahina serve --ssh :2222               # Listen on port 2222
  kahina serve --host-key ./my_host_key  # Use specific host key
  kahina serve --db ./runs.db            # Use specific database
  kahina serve --http :8080              # Also serve the JSON API

Users can connect with:
  ssh localhost -p 23234`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP API address (disabled when empty)")
}

func runServe(_ *cobra.Command, _ []string) error {
	serverLog := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "kahina-ssh",
		Level:           logger.GetLevel(),
	})
	// The server reports sessions at info level.
	if serverLog.GetLevel() > log.InfoLevel {
		serverLog.SetLevel(log.InfoLevel)
	}

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.DBPath = flagDBPath
	cfg.LevelDir = flagLevels
	cfg.TickRate = flagFPS
	cfg.Difficulty = flagDifficulty
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.Logger = serverLog

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	if flagHTTPAddr != "" {
		stop, err := startHTTP(flagHTTPAddr, serverLog)
		if err != nil {
			return err
		}
		defer stop()
	}

	fmt.Printf("Starting Kahina SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}

// startHTTP serves the JSON API in the background and returns a function
// that shuts it down.
func startHTTP(addr string, logger *log.Logger) (func(), error) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return nil, fmt.Errorf("opening runs database for the HTTP API: %w", err)
	}

	api := httpapi.NewServer(store, flagLevels, logger.WithPrefix("kahina-http"))
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP API", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("HTTP shutdown", "error", err)
		}
		store.Close()
	}, nil
}
