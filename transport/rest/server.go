package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

type uSession interface {
	Snapshot(ctx context.Context, sessionID string) (*entity.Snapshot, error)
}

// NewRouter wires routes and returns an http.Handler.
func NewRouter(logger *slog.Logger, uSession uSession) http.Handler {
	router := chi.NewRouter()

	router.Get("/ping", ping)
	router.Get("/sessions/{id}", newSessionHandler(logger, uSession).getSnapshot)

	return router
}

// Start - starts HTTP server and stops it once ctx is done.
func Start(ctx context.Context, logger *slog.Logger, port string, uSession uSession) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      NewRouter(logger, uSession),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shut down HTTP server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
