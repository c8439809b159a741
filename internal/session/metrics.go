package session

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

var meter = otel.Meter("session")

type sessionInstruments struct {
	moves    metric.Int64Counter
	rejected metric.Int64Counter
	finished metric.Int64Counter
}

// Instruments are created against the global provider, which forwards to
// whatever provider telemetry installs later.
var instruments = newInstruments()

func newInstruments() sessionInstruments {
	return sessionInstruments{
		moves:    counter("tictactoe.moves", "Marks placed, by player kind"),
		rejected: counter("tictactoe.moves.rejected", "Actions rejected as invalid"),
		finished: counter("tictactoe.games.finished", "Games that reached a terminal outcome, by result"),
	}
}

func counter(name, description string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		slog.Error("failed to create counter", "metric", name, "error", err)
		return noop.Int64Counter{}
	}
	return c
}

func metricAttrs(attrs ...attribute.KeyValue) metric.AddOption {
	return metric.WithAttributes(attrs...)
}
