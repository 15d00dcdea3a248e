package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
)

// rejectedMove lists the errors of moves the UI should not have sent; they are dropped silently.
var rejectedMove = []error{
	apperror.ErrCellOccupied,
	apperror.ErrNotYourTurn,
	apperror.ErrGameFinished,
	apperror.ErrInvalidCell,
}

func (that *Server) handleSelect(ctx context.Context, conn *connection, msg *Message) error {
	log := conn.logger.With("method", "handleSelect")

	var payload SelectPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Warn("failed to unmarshal payload", "error", err)
		return conn.sendError("cell is required")
	}

	if err := validate.Struct(payload); err != nil {
		log.Warn("cell is missing in payload", "error", err)
		return conn.sendError("cell is required")
	}

	err := that.uSession.Select(ctx, conn.sessionID, *payload.Cell)
	if err == nil {
		return nil
	}

	for _, rejected := range rejectedMove {
		if errors.Is(err, rejected) {
			log.Debug("move rejected", "cell", *payload.Cell, "reason", err)
			return nil
		}
	}

	return fmt.Errorf("failed to select cell: %w", err)
}

func (that *Server) handleRestart(ctx context.Context, conn *connection, _ *Message) error {
	if err := that.uSession.Restart(ctx, conn.sessionID); err != nil {
		return fmt.Errorf("failed to restart game: %w", err)
	}

	return nil
}
