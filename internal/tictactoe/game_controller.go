package tictactoe

import (
	"fmt"
	"sync"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/minimax"
)

var (
	ErrCellOccupied = apperror.ErrCellOccupied
	ErrInvalidCell  = apperror.ErrInvalidCell
	ErrNotYourTurn  = apperror.ErrNotYourTurn
	ErrGameFinished = apperror.ErrGameFinished
)

type Option func(*Controller)

// WithScheduler makes the controller queue the computer's reply itself after every human move.
func WithScheduler(scheduler Scheduler) Option {
	return func(that *Controller) {
		that.scheduler = scheduler
	}
}

// Controller runs one game of a human (X) against the computer (O).
type Controller struct {
	mu sync.Mutex

	state    entity.GameState
	notifier Notifier

	scheduler Scheduler
	// turn identifies the computer reply that may still be applied; any older
	// scheduled reply is dropped.
	turn          uint64
	cancelPending func()
}

func NewGameController(notifier Notifier, opts ...Option) *Controller {
	if notifier == nil {
		notifier = nopNotifier{}
	}

	controller := &Controller{
		state:    entity.NewGameState(),
		notifier: notifier,
	}

	for _, opt := range opts {
		opt(controller)
	}

	return controller
}

// State - returns a copy of the current game state.
func (that *Controller) State() entity.GameState {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.state
}

func (that *Controller) Snapshot() entity.Snapshot {
	return that.State().Snapshot()
}

// OnHumanSelect places X on cell. A rejected move returns an error and changes nothing.
func (that *Controller) OnHumanSelect(cell int) error {
	that.mu.Lock()

	if err := validateMove(that.state, cell); err != nil {
		that.mu.Unlock()
		return fmt.Errorf("invalid turn: %w", err)
	}

	that.applyMove(entity.HumanMark, cell)
	that.turn++
	turn := that.turn
	awaitingComputer := that.state.Phase == entity.PhaseAwaitingComputer

	that.notifier.OnStateChanged(that.state.Snapshot())
	that.mu.Unlock()

	if awaitingComputer && that.scheduler != nil {
		that.schedule(turn)
	}

	return nil
}

// PlayComputerMove applies the computer's reply if one is due and reports whether it did.
func (that *Controller) PlayComputerMove() bool {
	that.mu.Lock()
	turn := that.turn
	that.mu.Unlock()

	return that.playComputerMove(turn)
}

// OnRestartRequested starts a new game and drops any pending computer reply.
func (that *Controller) OnRestartRequested() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.turn++
	that.stopPending()
	that.state = entity.NewGameState()

	that.notifier.OnStateChanged(that.state.Snapshot())
}

// Close drops any pending computer reply without touching the game.
func (that *Controller) Close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.turn++
	that.stopPending()
}

func (that *Controller) schedule(turn uint64) {
	cancel := that.scheduler.Schedule(func() {
		that.playComputerMove(turn)
	})

	that.mu.Lock()
	defer that.mu.Unlock()

	if turn != that.turn {
		cancel()
		return
	}
	that.cancelPending = cancel
}

func (that *Controller) playComputerMove(turn uint64) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if turn != that.turn || that.state.Phase != entity.PhaseAwaitingComputer {
		return false
	}

	that.stopPending()

	cell, err := minimax.BestMove(that.state.Board, entity.ComputerMark)
	if err != nil {
		// the computer is only asked to move on a board still in play
		panic(fmt.Errorf("tictactoe: computer move on %v: %w", that.state.Board, err))
	}

	that.applyMove(entity.ComputerMark, cell)
	that.notifier.OnStateChanged(that.state.Snapshot())

	return true
}

func (that *Controller) stopPending() {
	if that.cancelPending != nil {
		that.cancelPending()
		that.cancelPending = nil
	}
}

// applyMove - places the mark and moves the game to its next phase.
func (that *Controller) applyMove(mark entity.Mark, cell int) {
	that.state.Board[cell] = mark

	outcome := minimax.EvaluateOutcome(that.state.Board)
	that.state.Outcome = outcome

	switch {
	case outcome.IsTerminal():
		that.state.Phase = entity.PhaseFinished
		that.state.Turn = entity.EmptyCell
	case mark == entity.HumanMark:
		that.state.Phase = entity.PhaseAwaitingComputer
		that.state.Turn = entity.ComputerMark
	default:
		that.state.Phase = entity.PhaseAwaitingHuman
		that.state.Turn = entity.HumanMark
	}
}

// validateMove - checks if the human may play cell right now.
func validateMove(state entity.GameState, cell int) error {
	if cell < 0 || cell >= len(state.Board) {
		return fmt.Errorf("%w: cell %d", ErrInvalidCell, cell)
	}

	switch state.Phase {
	case entity.PhaseFinished:
		return ErrGameFinished
	case entity.PhaseAwaitingComputer:
		return ErrNotYourTurn
	}

	if !state.Board.IsEmptyAt(cell) {
		return ErrCellOccupied
	}

	return nil
}
