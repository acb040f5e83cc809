package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

func TestThatLoggerIsStoredInContext(t *testing.T) {
	is := is.New(t)

	ctx, logger := NewLogger(context.Background(), "Sensor-Monitor", "1.0.0", "debug")
	is.Equal(logger.GetLevel(), zerolog.DebugLevel)

	fromCtx := GetLoggerFromContext(ctx)
	is.Equal(fromCtx.GetLevel(), zerolog.DebugLevel)
}

func TestThatInvalidLevelFallsBackToInfo(t *testing.T) {
	is := is.New(t)

	_, logger := NewLogger(context.Background(), "sensor-monitor", "1.0.0", "chatty")
	is.Equal(logger.GetLevel(), zerolog.InfoLevel)
}

func TestThatTraceIDIsAddedWhenValid(t *testing.T) {
	is := is.New(t)

	buf := &bytes.Buffer{}
	logger := zerolog.New(buf)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})
	span := trace.SpanFromContext(trace.ContextWithSpanContext(context.Background(), sc))

	id, ctx, l := AddTraceIDToLoggerAndStoreInContext(span, logger, context.Background())
	is.Equal(id, "4bf92f3577b34da6a3ce929d0e0e4736")

	l.Info().Msg("hello")
	is.True(strings.Contains(buf.String(), `"traceID":"4bf92f3577b34da6a3ce929d0e0e4736"`))

	fromCtx := GetLoggerFromContext(ctx)
	fromCtx.Info().Msg("again")
	is.Equal(strings.Count(buf.String(), "traceID"), 2)
}
