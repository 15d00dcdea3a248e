// Package minimax decides game results and picks optimal moves by searching the
// whole game tree. Scores are always taken from O's point of view.
package minimax

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

const (
	scoreOWins = 1
	scoreXWins = -1
	scoreTie   = 0
)

// EvaluateOutcome - reports whether someone completed a line, the board is full, or play goes on.
func EvaluateOutcome(board entity.Board) entity.Outcome {
	for _, combo := range entity.WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return entity.OutcomeWon(a)
		}
	}

	if board.IsFull() {
		return entity.OutcomeTied
	}

	return entity.OutcomeInProgress
}

// BestMove returns the cell an optimal player of side should take.
// O picks the highest score and X the lowest; ties go to the lowest index.
func BestMove(board entity.Board, side entity.Mark) (int, error) {
	if !side.IsPlayer() {
		return -1, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, side)
	}

	if outcome := EvaluateOutcome(board); outcome.IsTerminal() {
		return -1, fmt.Errorf("%w: %s", apperror.ErrGameFinished, outcome)
	}

	maximizing := side == entity.PlayerO
	bestCell, bestScore := -1, 0

	for cell := range board {
		if board[cell] != entity.EmptyCell {
			continue
		}

		board[cell] = side
		score := value(&board, entity.Opponent(side))
		board[cell] = entity.EmptyCell

		if bestCell == -1 || better(score, bestScore, maximizing) {
			bestCell, bestScore = cell, score
		}
	}

	return bestCell, nil
}

// Score returns the minimax value of the position with toMove to play.
func Score(board entity.Board, toMove entity.Mark) int {
	return value(&board, toMove)
}

// value walks the tree below board. The board is a private copy owned by the
// search: every placed mark is cleared before the loop moves on.
func value(board *entity.Board, toMove entity.Mark) int {
	switch EvaluateOutcome(*board) {
	case entity.OutcomeOWon:
		return scoreOWins
	case entity.OutcomeXWon:
		return scoreXWins
	case entity.OutcomeTied:
		return scoreTie
	}

	maximizing := toMove == entity.PlayerO
	best, found := 0, false

	for cell := range board {
		if board[cell] != entity.EmptyCell {
			continue
		}

		board[cell] = toMove
		score := value(board, entity.Opponent(toMove))
		board[cell] = entity.EmptyCell

		if !found || better(score, best, maximizing) {
			best, found = score, true
		}
	}

	return best
}

func better(score, best int, maximizing bool) bool {
	if maximizing {
		return score > best
	}
	return score < best
}
