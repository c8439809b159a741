package hub

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"ctchen222/tictactoe-solo/internal/bot"
	"ctchen222/tictactoe-solo/internal/events"
	"ctchen222/tictactoe-solo/internal/game"
	"ctchen222/tictactoe-solo/internal/session"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("hub")

// ErrSessionNotFound is returned for unknown or reaped session IDs.
var ErrSessionNotFound = errors.New("session not found")

// Options configures the sessions a hub creates.
type Options struct {
	AutomatedMark game.PlayerMark
	BotDelay      time.Duration
	SessionTTL    time.Duration
	ReapInterval  time.Duration
}

// Hub manages all the live sessions of this process.
type Hub struct {
	mu        sync.RWMutex
	sessions  map[string]*session.Holder
	publisher events.Publisher
	opts      Options
}

// NewHub creates a new hub.
func NewHub(opts Options, publisher events.Publisher) *Hub {
	return &Hub{
		sessions:  make(map[string]*session.Holder),
		publisher: publisher,
		opts:      opts,
	}
}

// Create starts a new session in mode.
func (h *Hub) Create(ctx context.Context, mode session.Mode) *session.Holder {
	id := uuid.New().String()
	ctx, span := tracer.Start(ctx, "hub.Create", trace.WithAttributes(
		attribute.String("session.id", id),
		attribute.String("session.mode", string(mode)),
	))
	defer span.End()

	automaton := bot.NewAutomaton(h.opts.AutomatedMark, h.opts.BotDelay)
	holder := session.NewHolder(id, mode, automaton, h.publisher)

	h.mu.Lock()
	h.sessions[id] = holder
	h.mu.Unlock()

	slog.InfoContext(ctx, "Session created", "session.id", id, "session.mode", mode)
	return holder
}

// Get looks up a live session.
func (h *Hub) Get(id string) (*session.Holder, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	holder, ok := h.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return holder, nil
}

// Remove closes and forgets a session.
func (h *Hub) Remove(ctx context.Context, id string) error {
	h.mu.Lock()
	holder, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	holder.Close(ctx)
	slog.InfoContext(ctx, "Session removed", "session.id", id)
	return nil
}

// Len reports the number of live sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Run reaps idle sessions until ctx is done, then closes every session.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.opts.ReapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Hub stopping, closing sessions", "sessions", h.Len())
			h.closeAll(context.Background())
			return
		case now := <-ticker.C:
			if n := h.reap(ctx, now); n > 0 {
				slog.InfoContext(ctx, "Reaped idle sessions", "count", n)
			}
		}
	}
}

// reap removes sessions idle for longer than the TTL as of now.
func (h *Hub) reap(ctx context.Context, now time.Time) int {
	var idle []*session.Holder

	h.mu.Lock()
	for id, holder := range h.sessions {
		if now.Sub(holder.LastActive()) > h.opts.SessionTTL {
			idle = append(idle, holder)
			delete(h.sessions, id)
		}
	}
	h.mu.Unlock()

	for _, holder := range idle {
		holder.Close(ctx)
	}
	return len(idle)
}

func (h *Hub) closeAll(ctx context.Context) {
	h.mu.Lock()
	all := h.sessions
	h.sessions = make(map[string]*session.Holder)
	h.mu.Unlock()

	for _, holder := range all {
		holder.Close(ctx)
	}
}
