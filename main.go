package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/adaptable-records/app"
	"github.com/danielhkuo/adaptable-records/cliparse"
	"github.com/danielhkuo/adaptable-records/logging"
	"github.com/danielhkuo/adaptable-records/middleware"
	"github.com/danielhkuo/adaptable-records/router"
)

func main() {
	var err error

	// Load .env when present
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	_, flush, err := logging.Setup(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		SeqURL: cfg.SeqURL,
	})
	if err != nil {
		slog.Error("logging setup failed", "error", err)
		os.Exit(1)
	}
	defer flush()

	server, closeApp, err := newServer(context.Background(), cfg)
	if err != nil {
		slog.Error("startup failed", "error", err)
		flush()
		os.Exit(1)
	}
	defer closeApp()

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

// newServer wires the application behind an http.Server. The returned
// function releases the database.
func newServer(ctx context.Context, cfg cliparse.Config) (*http.Server, func(), error) {
	a, err := app.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	mux := router.NewRouter(a.Records, a.Settings)

	server := &http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return server, func() { a.Close() }, nil
}
