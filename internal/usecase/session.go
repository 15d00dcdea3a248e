package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-solo/internal/repository"
	"github.com/rocketscienceinc/tictactoe-solo/internal/tictactoe"
)

const storeTimeout = 2 * time.Second

type snapshotRepo interface {
	CreateOrUpdate(ctx context.Context, sessionID string, snapshot *entity.Snapshot) error
	GetByID(ctx context.Context, sessionID string) (*entity.Snapshot, error)
	DeleteByID(ctx context.Context, sessionID string) error
}

// SessionManager hosts one game controller per connected client.
type SessionManager struct {
	logger       *slog.Logger
	snapshotRepo snapshotRepo
	scheduler    tictactoe.Scheduler

	mu       sync.RWMutex
	sessions map[string]*tictactoe.Controller
}

// NewSessionManager - snapshotRepo may be nil, then snapshots only live in memory.
func NewSessionManager(logger *slog.Logger, snapshotRepo snapshotRepo, scheduler tictactoe.Scheduler) *SessionManager {
	return &SessionManager{
		logger:       logger,
		snapshotRepo: snapshotRepo,
		scheduler:    scheduler,

		sessions: make(map[string]*tictactoe.Controller),
	}
}

// Open starts a new game and returns its session ID with the initial snapshot.
func (that *SessionManager) Open(ctx context.Context, notifier tictactoe.Notifier) (string, entity.Snapshot) {
	log := that.logger.With("method", "Open")

	sessionID := uuid.NewString()

	notifiers := make([]tictactoe.Notifier, 0, 2)
	if notifier != nil {
		notifiers = append(notifiers, notifier)
	}

	var writer *snapshotWriter
	if that.snapshotRepo != nil {
		writer = &snapshotWriter{
			logger:    that.logger.With("component", "snapshotWriter", "session", sessionID),
			repo:      that.snapshotRepo,
			sessionID: sessionID,
		}
		notifiers = append(notifiers, writer)
	}

	controller := tictactoe.NewGameController(tictactoe.NewMultiNotifier(notifiers...), tictactoe.WithScheduler(that.scheduler))
	snapshot := controller.Snapshot()

	if writer != nil {
		writer.OnStateChanged(snapshot)
	}

	that.mu.Lock()
	that.sessions[sessionID] = controller
	that.mu.Unlock()

	log.InfoContext(ctx, "session opened", "session", sessionID)

	return sessionID, snapshot
}

// Select forwards the human's cell choice to the session's controller.
func (that *SessionManager) Select(ctx context.Context, sessionID string, cell int) error {
	log := that.logger.With("method", "Select", "session", sessionID)

	controller, err := that.getController(sessionID)
	if err != nil {
		return err
	}

	if err = controller.OnHumanSelect(cell); err != nil {
		return fmt.Errorf("failed to make turn: %w", err)
	}

	if log.Enabled(ctx, slog.LevelDebug) {
		state := controller.State()
		if state.Phase == entity.PhaseAwaitingComputer {
			log.DebugContext(ctx, "human move accepted", "cell", cell, "value", minimax.Score(state.Board, entity.ComputerMark))
		} else {
			log.DebugContext(ctx, "human move accepted", "cell", cell, "status", state.Status())
		}
	}

	return nil
}

func (that *SessionManager) Restart(ctx context.Context, sessionID string) error {
	controller, err := that.getController(sessionID)
	if err != nil {
		return err
	}

	controller.OnRestartRequested()
	that.logger.DebugContext(ctx, "game restarted", "session", sessionID)

	return nil
}

// Snapshot - returns the current view of a session, falling back to the snapshot store
// for sessions hosted elsewhere.
func (that *SessionManager) Snapshot(ctx context.Context, sessionID string) (*entity.Snapshot, error) {
	controller, err := that.getController(sessionID)
	if err == nil {
		snapshot := controller.Snapshot()
		return &snapshot, nil
	}

	if that.snapshotRepo == nil {
		return nil, err
	}

	snapshot, err := that.snapshotRepo.GetByID(ctx, sessionID)
	if errors.Is(err, repository.ErrSnapshotNotFound) {
		return nil, fmt.Errorf("session %s: %w", sessionID, apperror.ErrNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	return snapshot, nil
}

// Close stops the session's game and forgets it.
func (that *SessionManager) Close(ctx context.Context, sessionID string) {
	log := that.logger.With("method", "Close", "session", sessionID)

	that.mu.Lock()
	controller, ok := that.sessions[sessionID]
	delete(that.sessions, sessionID)
	that.mu.Unlock()

	if !ok {
		return
	}

	controller.Close()

	if that.snapshotRepo != nil {
		err := that.snapshotRepo.DeleteByID(ctx, sessionID)
		if err != nil && !errors.Is(err, repository.ErrSnapshotNotFound) {
			log.ErrorContext(ctx, "failed to delete snapshot", "error", err)
		}
	}

	log.InfoContext(ctx, "session closed")
}

// CloseAll closes every open session, used on shutdown.
func (that *SessionManager) CloseAll(ctx context.Context) {
	that.mu.RLock()
	ids := make([]string, 0, len(that.sessions))
	for id := range that.sessions {
		ids = append(ids, id)
	}
	that.mu.RUnlock()

	for _, id := range ids {
		that.Close(ctx, id)
	}
}

// Len returns the number of open sessions.
func (that *SessionManager) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.sessions)
}

func (that *SessionManager) getController(sessionID string) (*tictactoe.Controller, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	controller, ok := that.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, apperror.ErrNotFound)
	}

	return controller, nil
}

// snapshotWriter stores every snapshot of one session.
type snapshotWriter struct {
	logger    *slog.Logger
	repo      snapshotRepo
	sessionID string
}

func (that *snapshotWriter) OnStateChanged(snapshot entity.Snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := that.repo.CreateOrUpdate(ctx, that.sessionID, &snapshot); err != nil {
		that.logger.Error("failed to store snapshot", "error", err)
	}
}
