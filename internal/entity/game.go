package entity

const BoardSize = 9

// Board is the 3x3 grid stored row-major: index = row*3 + col.
type Board [BoardSize]Mark

// WinCombos lists the rows, columns and diagonals that win the game.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

func (that Board) IsEmptyAt(cell int) bool {
	return that[cell] == EmptyCell
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}
	return true
}

// EmptyCells - returns indexes of the free cells in ascending order.
func (that Board) EmptyCells() []int {
	cells := make([]int, 0, BoardSize)
	for i, cell := range that {
		if cell == EmptyCell {
			cells = append(cells, i)
		}
	}
	return cells
}

// Count returns how many cells hold the given mark.
func (that Board) Count(mark Mark) int {
	n := 0
	for _, cell := range that {
		if cell == mark {
			n++
		}
	}
	return n
}

type Outcome int

const (
	OutcomeInProgress Outcome = iota
	OutcomeXWon
	OutcomeOWon
	OutcomeTied
)

// OutcomeWon - builds the outcome where the given player won.
func OutcomeWon(mark Mark) Outcome {
	if mark == PlayerX {
		return OutcomeXWon
	}
	return OutcomeOWon
}

func (that Outcome) IsTerminal() bool {
	return that != OutcomeInProgress
}

// Winner returns the winning mark, or EmptyCell for a tie or a game in progress.
func (that Outcome) Winner() Mark {
	switch that {
	case OutcomeXWon:
		return PlayerX
	case OutcomeOWon:
		return PlayerO
	default:
		return EmptyCell
	}
}

func (that Outcome) String() string {
	switch that {
	case OutcomeXWon:
		return "won(X)"
	case OutcomeOWon:
		return "won(O)"
	case OutcomeTied:
		return "tied"
	default:
		return "in_progress"
	}
}

type Phase string

const (
	PhaseAwaitingHuman    Phase = "awaiting_human"
	PhaseAwaitingComputer Phase = "awaiting_computer"
	PhaseFinished         Phase = "finished"
)

// GameState is the whole state of one game owned by a controller.
type GameState struct {
	Board   Board   `json:"board"`
	Turn    Mark    `json:"player_turn"`
	Phase   Phase   `json:"phase"`
	Outcome Outcome `json:"outcome"`
}

func NewGameState() GameState {
	return GameState{
		Turn:    HumanMark,
		Phase:   PhaseAwaitingHuman,
		Outcome: OutcomeInProgress,
	}
}

func (that GameState) IsActive() bool {
	return that.Phase != PhaseFinished
}

// Status - translates the state into what the human should be told.
func (that GameState) Status() StatusKind {
	switch that.Phase {
	case PhaseAwaitingComputer:
		return StatusComputerThinking
	case PhaseFinished:
		switch that.Outcome.Winner() {
		case HumanMark:
			return StatusYouWon
		case ComputerMark:
			return StatusYouLost
		default:
			return StatusTie
		}
	default:
		return StatusYourTurn
	}
}

// Snapshot - returns the state as it is shown to the UI.
func (that GameState) Snapshot() Snapshot {
	status := that.Status()

	return Snapshot{
		Board:   that.Board,
		Status:  status,
		Message: status.Message(),
	}
}
