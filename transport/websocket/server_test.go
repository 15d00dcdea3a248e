package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-solo/internal/usecase"
)

func newTestServer(t *testing.T) (*gorilla.Conn, *usecase.SessionManager) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := usecase.NewSessionManager(logger, nil, tictactoe.DelayScheduler{})

	httpServer := httptest.NewServer(New(logger, manager).Handler(ctx))
	t.Cleanup(httpServer.Close)

	url := "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/ws"
	conn, _, err := gorilla.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn, manager
}

func send(t *testing.T, conn *gorilla.Conn, action string, payload any) {
	t.Helper()

	message := Message{Action: action}
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		message.Payload = data
	}

	require.NoError(t, conn.WriteJSON(message))
}

func receive(t *testing.T, conn *gorilla.Conn) Message {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var message Message
	require.NoError(t, conn.ReadJSON(&message))

	return message
}

func receiveState(t *testing.T, conn *gorilla.Conn, action string) StatePayload {
	t.Helper()

	message := receive(t, conn)
	require.Equal(t, action, message.Action)

	var payload StatePayload
	require.NoError(t, json.Unmarshal(message.Payload, &payload))

	return payload
}

func TestServer_Session(t *testing.T) {
	t.Run("Connect opens a session", func(t *testing.T) {
		// Given: a client connected to the server
		conn, manager := newTestServer(t)

		// Then: it receives its session with an empty board
		opened := receiveState(t, conn, actionSessionOpen)
		assert.NotEmpty(t, opened.SessionID)
		assert.Equal(t, entity.StatusYourTurn, opened.State.Status)
		assert.Equal(t, entity.Board{}, opened.State.Board)
		assert.Equal(t, 1, manager.Len())
	})

	t.Run("Select is answered by the computer", func(t *testing.T) {
		conn, _ := newTestServer(t)
		receiveState(t, conn, actionSessionOpen)

		// When: the human takes the center
		send(t, conn, actionGameSelect, map[string]int{"cell": 4})

		// Then: the client sees the thinking state, then the computer's reply
		thinking := receiveState(t, conn, actionGameState)
		assert.Equal(t, entity.StatusComputerThinking, thinking.State.Status)
		assert.Equal(t, entity.PlayerX, thinking.State.Board[4])

		answered := receiveState(t, conn, actionGameState)
		assert.Equal(t, entity.StatusYourTurn, answered.State.Status)
		assert.Equal(t, 1, answered.State.Board.Count(entity.PlayerO))
		assert.Equal(t, "It's your turn", answered.State.Message)
	})

	t.Run("Rejected move is silent and restart resets", func(t *testing.T) {
		conn, _ := newTestServer(t)
		receiveState(t, conn, actionSessionOpen)
		send(t, conn, actionGameSelect, map[string]int{"cell": 4})
		receiveState(t, conn, actionGameState)
		receiveState(t, conn, actionGameState)

		// When: the human clicks the occupied center, then restarts
		send(t, conn, actionGameSelect, map[string]int{"cell": 4})
		send(t, conn, actionGameRestart, nil)

		// Then: the next message is the fresh game, nothing was sent for the rejected move
		restarted := receiveState(t, conn, actionGameState)
		assert.Equal(t, entity.NewGameState().Snapshot(), restarted.State)
	})

	t.Run("Closing the socket closes the session", func(t *testing.T) {
		conn, manager := newTestServer(t)
		receiveState(t, conn, actionSessionOpen)

		require.NoError(t, conn.Close())

		assert.Eventually(t, func() bool { return manager.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
	})
}

func TestServer_BadMessages(t *testing.T) {
	t.Run("Unknown action", func(t *testing.T) {
		conn, _ := newTestServer(t)
		receiveState(t, conn, actionSessionOpen)

		send(t, conn, "game:undo", nil)

		message := receive(t, conn)
		require.Equal(t, actionError, message.Action)
		var payload ErrorPayload
		require.NoError(t, json.Unmarshal(message.Payload, &payload))
		assert.Equal(t, "unknown action: game:undo", payload.Error)
	})

	t.Run("Select without cell", func(t *testing.T) {
		conn, _ := newTestServer(t)
		receiveState(t, conn, actionSessionOpen)

		send(t, conn, actionGameSelect, map[string]string{})

		message := receive(t, conn)
		require.Equal(t, actionError, message.Action)
	})

	t.Run("Missing action", func(t *testing.T) {
		conn, _ := newTestServer(t)
		receiveState(t, conn, actionSessionOpen)

		require.NoError(t, conn.WriteMessage(gorilla.TextMessage, []byte(`{"payload":{"cell":1}}`)))

		message := receive(t, conn)
		require.Equal(t, actionError, message.Action)
		var payload ErrorPayload
		require.NoError(t, json.Unmarshal(message.Payload, &payload))
		assert.Equal(t, "action is required", payload.Error)
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		conn, _ := newTestServer(t)
		receiveState(t, conn, actionSessionOpen)

		require.NoError(t, conn.WriteMessage(gorilla.TextMessage, []byte("{not json")))

		message := receive(t, conn)
		require.Equal(t, actionError, message.Action)
	})
}
