package entity

type StatusKind string

const (
	StatusYourTurn         StatusKind = "your_turn"
	StatusComputerThinking StatusKind = "computer_thinking"
	StatusYouWon           StatusKind = "you_won"
	StatusYouLost          StatusKind = "you_lost"
	StatusTie              StatusKind = "tie"
)

// Message returns the status line displayed to the human.
func (that StatusKind) Message() string {
	switch that {
	case StatusYourTurn:
		return "It's your turn"
	case StatusComputerThinking:
		return "Computer is thinking..."
	case StatusYouWon:
		return "You won!"
	case StatusYouLost:
		return "You lost!"
	case StatusTie:
		return "It's a tie!"
	default:
		return ""
	}
}

// Snapshot is the declarative view of a game pushed to the UI after every change.
type Snapshot struct {
	Board   Board      `json:"board"`
	Status  StatusKind `json:"status"`
	Message string     `json:"message"`
}
