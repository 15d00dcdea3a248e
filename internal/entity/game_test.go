package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGameState(t *testing.T) {
	// Given: a new game state
	state := NewGameState()

	// Then: the board is empty, X moves first and the human is awaited
	expected := GameState{
		Board:   Board{},
		Turn:    PlayerX,
		Phase:   PhaseAwaitingHuman,
		Outcome: OutcomeInProgress,
	}

	require.Equal(t, expected, state)
	assert.True(t, state.IsActive())
	assert.Equal(t, StatusYourTurn, state.Status())
}

func TestGameState_Status(t *testing.T) {
	tests := []struct {
		name    string
		phase   Phase
		outcome Outcome
		want    StatusKind
	}{
		{name: "human to move", phase: PhaseAwaitingHuman, outcome: OutcomeInProgress, want: StatusYourTurn},
		{name: "computer to move", phase: PhaseAwaitingComputer, outcome: OutcomeInProgress, want: StatusComputerThinking},
		{name: "X won", phase: PhaseFinished, outcome: OutcomeXWon, want: StatusYouWon},
		{name: "O won", phase: PhaseFinished, outcome: OutcomeOWon, want: StatusYouLost},
		{name: "tie", phase: PhaseFinished, outcome: OutcomeTied, want: StatusTie},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := GameState{Phase: tt.phase, Outcome: tt.outcome}

			assert.Equal(t, tt.want, state.Status())
			assert.Equal(t, tt.phase != PhaseFinished, state.IsActive())
		})
	}
}

func TestStatusKind_Message(t *testing.T) {
	assert.Equal(t, "It's your turn", StatusYourTurn.Message())
	assert.Equal(t, "Computer is thinking...", StatusComputerThinking.Message())
	assert.Equal(t, "You won!", StatusYouWon.Message())
	assert.Equal(t, "You lost!", StatusYouLost.Message())
	assert.Equal(t, "It's a tie!", StatusTie.Message())
	assert.Empty(t, StatusKind("unknown").Message())
}

func TestBoard_Helpers(t *testing.T) {
	t.Run("Empty board", func(t *testing.T) {
		// Given: an empty board
		board := Board{}

		// Then: every cell is free and the board is not full
		assert.False(t, board.IsFull())
		assert.True(t, board.IsEmptyAt(4))
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, board.EmptyCells())
	})

	t.Run("Partially filled board", func(t *testing.T) {
		// Given: a board with two marks
		board := Board{PlayerX, "", "", "", PlayerO, "", "", "", ""}

		// Then: the occupied cells are reported as taken
		assert.False(t, board.IsEmptyAt(0))
		assert.Equal(t, []int{1, 2, 3, 5, 6, 7, 8}, board.EmptyCells())
		assert.Equal(t, 1, board.Count(PlayerX))
		assert.Equal(t, 1, board.Count(PlayerO))
	})

	t.Run("Full board", func(t *testing.T) {
		board := Board{PlayerX, PlayerO, PlayerX, PlayerO, PlayerX, PlayerO, PlayerO, PlayerX, PlayerO}

		assert.True(t, board.IsFull())
		assert.Empty(t, board.EmptyCells())
	})
}

func TestOutcome(t *testing.T) {
	assert.False(t, OutcomeInProgress.IsTerminal())
	assert.True(t, OutcomeTied.IsTerminal())

	assert.Equal(t, OutcomeXWon, OutcomeWon(PlayerX))
	assert.Equal(t, OutcomeOWon, OutcomeWon(PlayerO))

	assert.Equal(t, PlayerX, OutcomeXWon.Winner())
	assert.Equal(t, PlayerO, OutcomeOWon.Winner())
	assert.Equal(t, EmptyCell, OutcomeTied.Winner())
	assert.Equal(t, EmptyCell, OutcomeInProgress.Winner())
}

func TestOpponent(t *testing.T) {
	assert.Equal(t, PlayerO, Opponent(PlayerX))
	assert.Equal(t, PlayerX, Opponent(PlayerO))
	assert.True(t, PlayerX.IsPlayer())
	assert.False(t, EmptyCell.IsPlayer())
}

func TestSnapshot_JSON(t *testing.T) {
	// Given: a game where the computer is to move
	state := NewGameState()
	state.Board[4] = PlayerX
	state.Phase = PhaseAwaitingComputer
	state.Turn = PlayerO

	// When: the snapshot is encoded
	data, err := json.Marshal(state.Snapshot())
	require.NoError(t, err)

	// Then: the board is a flat array of cells and the status is readable
	expected := `{"board":["","","","","X","","","",""],"status":"computer_thinking","message":"Computer is thinking..."}`
	assert.JSONEq(t, expected, string(data))
}
