package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	gorilla "github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

const (
	actionSessionOpen = "session:open"
	actionGameSelect  = "game:select"
	actionGameRestart = "game:restart"
	actionGameState   = "game:state"
	actionError       = "error"

	writeTimeout = 10 * time.Second
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action" validate:"required"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type SelectPayload struct {
	Cell *int `json:"cell" validate:"required"`
}

type StatePayload struct {
	SessionID string          `json:"session_id,omitempty"`
	State     entity.Snapshot `json:"state"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// connection is one client socket. Writes come from the read loop and from the
// computer's timer, so they are serialized.
type connection struct {
	logger    *slog.Logger
	conn      *gorilla.Conn
	sessionID string

	writeMu sync.Mutex
}

func (that *connection) sendMessage(action string, payload any) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message, err := json.Marshal(Message{Action: action, Payload: payloadJSON})
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	if err = that.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err = that.conn.WriteMessage(gorilla.TextMessage, message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *connection) sendError(text string) error {
	return that.sendMessage(actionError, ErrorPayload{Error: text})
}

// OnStateChanged pushes every game change to the client.
func (that *connection) OnStateChanged(snapshot entity.Snapshot) {
	if err := that.sendMessage(actionGameState, StatePayload{State: snapshot}); err != nil {
		that.logger.Error("failed to push state", "error", err)
	}
}
