package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"ctchen222/tictactoe-solo/internal/bot"
	"ctchen222/tictactoe-solo/internal/events"
	"ctchen222/tictactoe-solo/internal/game"
	"ctchen222/tictactoe-solo/pkg/proto"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("session")

const (
	actorHuman     = "human"
	actorAutomated = "automated"
)

// Holder owns one live session. Every transition runs under mu, so the
// holder can be driven from HTTP handlers, websocket readers and its own
// automated-move timer at the same time.
//
// generation identifies the current board. It is bumped by every applied
// move, reset, mode switch and Close. A scheduled automated move captures
// the generation it was planned for and is dropped if it no longer matches.
type Holder struct {
	ID string

	mu         sync.Mutex
	state      State
	mode       Mode
	automaton  *bot.Automaton
	publisher  events.Publisher
	generation uint64
	pending    *time.Timer
	closed     bool
	lastActive time.Time
}

// NewHolder creates a session in its initial state. If the automaton
// moves first in mode, its move is scheduled immediately.
func NewHolder(id string, mode Mode, automaton *bot.Automaton, publisher events.Publisher) *Holder {
	h := &Holder{
		ID:         id,
		state:      New(),
		mode:       mode,
		automaton:  automaton,
		publisher:  publisher,
		lastActive: time.Now(),
	}

	h.mu.Lock()
	h.scheduleLocked()
	h.mu.Unlock()

	return h
}

// SelectCell places the human's mark at index. It reports false, leaving
// the session untouched, when the game is over, the cell is taken, the
// index is off the board or the automated player is to move.
func (h *Holder) SelectCell(ctx context.Context, index int) bool {
	ctx, span := tracer.Start(ctx, "session.SelectCell", trace.WithAttributes(
		attribute.String("session.id", h.ID),
		attribute.Int("cell.index", index),
	))
	defer span.End()

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		slog.WarnContext(ctx, "ignoring move on closed session", "session.id", h.ID)
		span.SetStatus(codes.Error, "Session closed")
		return false
	}

	if h.automatedTurnLocked() {
		slog.WarnContext(ctx, "ignoring human move during automated turn", "session.id", h.ID, "cell.index", index)
		instruments.rejected.Add(ctx, 1)
		span.SetAttributes(attribute.Bool("move.valid", false))
		return false
	}

	ok := h.applyLocked(ctx, index, actorHuman)
	span.SetAttributes(attribute.Bool("move.valid", ok))
	return ok
}

// SetMode switches the mode and starts a fresh game.
func (h *Holder) SetMode(ctx context.Context, mode Mode) {
	ctx, span := tracer.Start(ctx, "session.SetMode", trace.WithAttributes(
		attribute.String("session.id", h.ID),
		attribute.String("session.mode", string(mode)),
	))
	defer span.End()

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	h.mode = mode
	h.restartLocked(ctx, events.TypeModeChanged)
	slog.InfoContext(ctx, "Session mode changed", "session.id", h.ID, "session.mode", mode)
}

// Reset returns the session to its initial state regardless of progress.
func (h *Holder) Reset(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "session.Reset", trace.WithAttributes(
		attribute.String("session.id", h.ID),
	))
	defer span.End()

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	h.restartLocked(ctx, events.TypeSessionReset)
}

// Close cancels any pending automated move. Later actions are rejected.
func (h *Holder) Close(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	h.cancelPendingLocked()
	h.publishLocked(ctx, events.TypeSessionClosed)
}

// Snapshot returns the client view of the session.
func (h *Holder) Snapshot() proto.SessionView {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.viewLocked()
}

// State returns a copy of the current game state.
func (h *Holder) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Mode returns the current mode.
func (h *Holder) Mode() Mode {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.mode
}

// LastActive is the time of the last accepted change.
func (h *Holder) LastActive() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastActive
}

func (h *Holder) restartLocked(ctx context.Context, eventType string) {
	h.state = New()
	h.lastActive = time.Now()
	h.cancelPendingLocked()
	h.publishLocked(ctx, eventType)
	h.scheduleLocked()
}

// applyLocked runs the PlaceMark transition for the side to move.
func (h *Holder) applyLocked(ctx context.Context, index int, actor string) bool {
	next, ok := h.state.PlaceMark(index)
	if !ok {
		slog.WarnContext(ctx, "rejected move", "session.id", h.ID, "cell.index", index, "player.mark", h.state.Turn, "session.status", h.state.Status)
		instruments.rejected.Add(ctx, 1)
		return false
	}

	mark := h.state.Turn
	h.state = next
	h.lastActive = time.Now()
	h.cancelPendingLocked()
	instruments.moves.Add(ctx, 1, metricAttrs(attribute.String("player", actor)))
	slog.DebugContext(ctx, "mark placed", "session.id", h.ID, "cell.index", index, "player.mark", mark, "player", actor)

	eventType := events.TypeSessionUpdated
	if next.Status == StatusOver {
		eventType = events.TypeGameOver
		instruments.finished.Add(ctx, 1, metricAttrs(attribute.String("result", next.Outcome.Result.String())))
		slog.InfoContext(ctx, "Game over", "session.id", h.ID, "result", next.Outcome.Result.String(), "winner", next.Outcome.Winner)
	}
	h.publishLocked(ctx, eventType)
	h.scheduleLocked()
	return true
}

// cancelPendingLocked invalidates the current board identity and stops an
// outstanding automated move timer.
func (h *Holder) cancelPendingLocked() {
	h.generation++
	if h.pending != nil {
		h.pending.Stop()
		h.pending = nil
	}
}

func (h *Holder) automatedTurnLocked() bool {
	return h.mode == ModeHumanVsComputer && h.state.Turn == h.automaton.Mark
}

// scheduleLocked arms the single-shot automated move timer if the
// automaton is to move.
func (h *Holder) scheduleLocked() {
	if h.closed || h.state.Status != StatusPlaying || !h.automatedTurnLocked() {
		return
	}

	generation := h.generation
	h.pending = time.AfterFunc(h.automaton.Delay, func() {
		h.playAutomated(generation)
	})
}

func (h *Holder) playAutomated(generation uint64) {
	ctx, span := tracer.Start(context.Background(), "session.playAutomated", trace.WithAttributes(
		attribute.String("session.id", h.ID),
	))
	defer span.End()

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed || generation != h.generation {
		slog.DebugContext(ctx, "discarding stale automated move", "session.id", h.ID)
		span.SetAttributes(attribute.Bool("move.stale", true))
		return
	}
	h.pending = nil

	index, ok := h.automaton.NextMove(h.state.Board)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int("cell.index", index))
	h.applyLocked(ctx, index, actorAutomated)
}

func (h *Holder) publishLocked(ctx context.Context, eventType string) {
	if h.publisher == nil {
		return
	}

	event, err := events.New(eventType, h.ID, h.viewLocked())
	if err != nil {
		slog.ErrorContext(ctx, "error building session event", "session.id", h.ID, "error", err)
		return
	}
	if err := h.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "failed to publish session event", "session.id", h.ID, "event.type", eventType, "error", err)
		trace.SpanFromContext(ctx).RecordError(err)
	}
}

func (h *Holder) viewLocked() proto.SessionView {
	board := make([]game.PlayerMark, game.BoardSize)
	copy(board, h.state.Board[:])

	line := make([]int, len(h.state.Outcome.Line))
	copy(line, h.state.Outcome.Line)

	view := proto.SessionView{
		ID:            h.ID,
		Mode:          string(h.mode),
		Board:         board,
		Turn:          h.state.Turn,
		TurnAutomated: h.state.Status == StatusPlaying && h.automatedTurnLocked(),
		Status:        string(h.state.Status),
		Result:        h.state.Outcome.Result.String(),
		Winner:        h.state.Outcome.Winner,
		WinningLine:   line,
		Message:       h.state.StatusText(h.mode, h.automaton.Mark),
		Generation:    h.generation,
	}
	if h.mode == ModeHumanVsComputer {
		view.AutomatedMark = h.automaton.Mark
	}
	return view
}
