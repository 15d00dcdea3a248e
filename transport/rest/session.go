package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
)

type sessionHandler struct {
	logger   *slog.Logger
	uSession uSession
}

func newSessionHandler(logger *slog.Logger, uSession uSession) *sessionHandler {
	return &sessionHandler{
		logger:   logger.With("component", "rest"),
		uSession: uSession,
	}
}

// getSnapshot - returns the current board and status of a running session.
func (that *sessionHandler) getSnapshot(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "getSnapshot")
	sessionID := chi.URLParam(r, "id")

	snapshot, err := that.uSession.Snapshot(r.Context(), sessionID)
	if errors.Is(err, apperror.ErrNotFound) {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error("failed to get snapshot", "session", sessionID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(snapshot); err != nil {
		log.Error("failed to write snapshot", "error", err)
	}
}
