package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stevemurr/simple-user-server/config"
	"github.com/stevemurr/simple-user-server/handler"
	"github.com/stevemurr/simple-user-server/logging"
	"github.com/stevemurr/simple-user-server/store"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// newServer opens the configured store and builds the HTTP server over it.
// The caller owns the returned store and must close it.
func newServer(cfg config.Config, log *slog.Logger) (*http.Server, store.Store, error) {
	s, err := store.New(cfg.Backend, cfg.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create store (backend=%s): %w", cfg.Backend, err)
	}
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler.Wrap(handler.New(s, log), log, cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelError),
	}
	return srv, s, nil
}

// serve runs the server until ctx is cancelled or SIGINT/SIGTERM arrives.
func serve(ctx context.Context, cfg config.Config) error {
	log := logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Format: logging.ParseFormat(cfg.Log.Format),
		Output: os.Stderr,
	})

	srv, s, err := newServer(cfg, log)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Simple User Server starting",
			"addr", srv.Addr, "store", cfg.Backend, "data", cfg.DataDir, "version", Version)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
