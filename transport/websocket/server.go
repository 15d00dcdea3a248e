package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	gorilla "github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/tictactoe"
)

type uSession interface {
	Open(ctx context.Context, notifier tictactoe.Notifier) (string, entity.Snapshot)
	Select(ctx context.Context, sessionID string, cell int) error
	Restart(ctx context.Context, sessionID string) error
	Close(ctx context.Context, sessionID string)
}

type handlerFunc func(ctx context.Context, conn *connection, message *Message) error

type Server struct {
	logger   *slog.Logger
	uSession uSession
	upgrader gorilla.Upgrader

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, uSession uSession) *Server {
	server := &Server{
		logger:   logger.With("component", "websocket"),
		uSession: uSession,
		upgrader: gorilla.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// the UI is served from its own origin
			CheckOrigin: func(*http.Request) bool { return true },
		},

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionGameSelect] = server.handleSelect
	server.handlers[actionGameRestart] = server.handleRestart

	return server
}

// Handler - returns the HTTP handler serving the /ws endpoint.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveWebSocket(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server and stops it once ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveWebSocket - upgrades the connection and runs one game session on it.
func (that *Server) serveWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveWebSocket")

	ws, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	defer ws.Close()

	conn := &connection{
		logger: log,
		conn:   ws,
	}

	sessionID, snapshot := that.uSession.Open(ctx, conn)
	conn.sessionID = sessionID
	conn.logger = log.With("session", sessionID)

	defer that.uSession.Close(context.WithoutCancel(ctx), sessionID)

	if err = conn.sendMessage(actionSessionOpen, StatePayload{SessionID: sessionID, State: snapshot}); err != nil {
		log.Error("failed to send session", "error", err)
		return
	}

	log.Info("WebSocket connection established", "session", sessionID)

	if err = that.handleMessages(ctx, conn); err != nil {
		log.Info("connection finished", "session", sessionID, "reason", err)
	}
}

// handleMessages - processes messages from the client until the socket closes.
func (that *Server) handleMessages(ctx context.Context, conn *connection) error {
	log := conn.logger.With("method", "handleMessages")

	for {
		_, data, err := conn.conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("failed to read message: %w", err)
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			that.reply(conn, conn.sendError("malformed message"))
			continue
		}

		if err = validate.Struct(message); err != nil {
			log.Warn("invalid message", "error", err)
			that.reply(conn, conn.sendError("action is required"))
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			that.reply(conn, conn.sendError("unknown action: "+message.Action))
			continue
		}

		if err = handler(ctx, conn, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) reply(conn *connection, err error) {
	if err != nil {
		conn.logger.Error("failed to send reply", "error", err)
	}
}
