package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"ctchen222/tictactoe-solo/internal/events"
	"ctchen222/tictactoe-solo/internal/session"
	"ctchen222/tictactoe-solo/internal/validator"
	"ctchen222/tictactoe-solo/pkg/proto"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	heartbeatInterval = 10 * time.Second
	writeWait         = 5 * time.Second
)

// Server message types sent on a session websocket.
const (
	serverState    = "state"
	serverRejected = "rejected"
	serverError    = "error"
)

// watcher is one websocket client attached to a session. gorilla connections
// allow a single concurrent writer, so every write goes through mu.
type watcher struct {
	conn   *websocket.Conn
	holder *session.Holder
	mu     sync.Mutex
}

func (w *watcher) send(ctx context.Context, message proto.ServerMessage) error {
	data, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling message", "error", err)
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return w.conn.WriteMessage(websocket.TextMessage, data)
}

func (w *watcher) ping() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (w *watcher) reject(ctx context.Context, reason string) {
	view := w.holder.Snapshot()
	if err := w.send(ctx, proto.ServerMessage{Type: serverRejected, Reason: reason, Session: &view}); err != nil {
		slog.WarnContext(ctx, "failed to send rejection", "session.id", w.holder.ID, "error", err)
	}
}

// handleWebSocket attaches a watcher to a session. The client first gets
// the current view, then one message per session event.
func (s *Server) handleWebSocket(c *gin.Context) {
	holder, ok := s.lookup(c)
	if !ok {
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "Failed to upgrade connection", "session.id", holder.ID, "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx, span := tracer.Start(ctx, "server.watchSession", trace.WithAttributes(
		attribute.String("session.id", holder.ID),
	))
	defer span.End()

	// Subscribe before the first snapshot so no event falls in between.
	sub, err := s.bus.Subscribe(ctx, holder.ID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to subscribe to session events", "session.id", holder.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to subscribe to session events")
		return
	}
	defer sub.Close()

	w := &watcher{conn: conn, holder: holder}
	view := holder.Snapshot()
	if err := w.send(ctx, proto.ServerMessage{Type: serverState, Session: &view}); err != nil {
		slog.WarnContext(ctx, "Failed to send initial state", "session.id", holder.ID, "error", err)
		return
	}
	slog.InfoContext(ctx, "Watcher connected", "session.id", holder.ID)

	go s.writePump(ctx, cancel, w, sub)
	s.readPump(ctx, w)
	slog.InfoContext(ctx, "Watcher disconnected", "session.id", holder.ID)
}

// writePump forwards session events to the client and keeps the connection
// alive. It cancels the watcher when the stream ends or a write fails.
func (s *Server) writePump(ctx context.Context, cancel context.CancelFunc, w *watcher, sub *events.Subscription) {
	defer cancel()
	defer w.conn.Close()

	pingTicker := time.NewTicker(heartbeatInterval)
	defer pingTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-sub.C:
			if !ok {
				return
			}

			var view proto.SessionView
			if err := json.Unmarshal(event.Payload, &view); err != nil {
				slog.ErrorContext(ctx, "error decoding session event", "session.id", event.SessionID, "error", err)
				continue
			}
			if err := w.send(ctx, proto.ServerMessage{Type: event.Type, Session: &view}); err != nil {
				slog.WarnContext(ctx, "Failed to forward session event", "session.id", event.SessionID, "error", err)
				return
			}
			if event.Type == events.TypeSessionClosed {
				return
			}

		case <-pingTicker.C:
			if err := w.ping(); err != nil {
				slog.WarnContext(ctx, "Failed to send ping to watcher, assuming disconnect", "session.id", w.holder.ID, "error", err)
				return
			}
		}
	}
}

// readPump dispatches client messages to the session until the connection
// fails.
func (s *Server) readPump(ctx context.Context, w *watcher) {
	for {
		_, raw, err := w.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.WarnContext(ctx, "Watcher connection error", "session.id", w.holder.ID, "error", err)
			}
			return
		}
		s.handleMessage(ctx, w, raw)
	}
}

func (s *Server) handleMessage(ctx context.Context, w *watcher, raw []byte) {
	ctx, span := tracer.Start(ctx, "server.handleMessage", trace.WithAttributes(
		attribute.String("session.id", w.holder.ID),
	))
	defer span.End()

	var message proto.ClientMessage
	if err := json.Unmarshal(raw, &message); err != nil {
		slog.WarnContext(ctx, "error unmarshalling message", "session.id", w.holder.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error unmarshalling message")
		w.sendError(ctx, "malformed message")
		return
	}

	if err := validator.Struct(message); err != nil {
		slog.WarnContext(ctx, "invalid message from watcher", "session.id", w.holder.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid message format")
		w.sendError(ctx, err.Error())
		return
	}

	span.SetAttributes(attribute.String("message.type", message.Type))

	// Accepted actions reach the client through the event stream.
	switch message.Type {
	case proto.ClientSelect:
		if !w.holder.SelectCell(ctx, *message.Index) {
			w.reject(ctx, "move not allowed")
		}
	case proto.ClientReset:
		w.holder.Reset(ctx)
	case proto.ClientMode:
		w.holder.SetMode(ctx, session.Mode(message.Mode))
	}
}

func (w *watcher) sendError(ctx context.Context, reason string) {
	if err := w.send(ctx, proto.ServerMessage{Type: serverError, Reason: reason}); err != nil {
		slog.WarnContext(ctx, "failed to send error", "session.id", w.holder.ID, "error", err)
	}
}
