package otel_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"ofcoz/infras/otel"
)

func recordSpan(t *testing.T, run func(scope otel.Scope)) sdktrace.ReadOnlySpan {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	_, span := provider.Tracer("test").Start(context.Background(), "op")
	run(otel.NewScope(span))

	ended := recorder.Ended()
	require.Len(t, ended, 1)

	return ended[0]
}

func TestScope_TraceIfErrorSeesLateAssignment(t *testing.T) {
	work := func(scope otel.Scope) (err error) {
		defer scope.End()
		defer scope.TraceIfError(&err)

		err = errors.New("room double booked")

		return err
	}

	span := recordSpan(t, func(scope otel.Scope) { _ = work(scope) })

	assert.Equal(t, codes.Error, span.Status().Code)
	assert.Equal(t, "room double booked", span.Status().Description)
}

func TestScope_TraceIfErrorNil(t *testing.T) {
	span := recordSpan(t, func(scope otel.Scope) {
		var err error

		scope.TraceIfError(&err)
		scope.TraceIfError(nil)
		scope.End()
	})

	assert.Equal(t, codes.Unset, span.Status().Code)
}

func TestScope_SetAttributes(t *testing.T) {
	span := recordSpan(t, func(scope otel.Scope) {
		scope.SetAttributes(map[string]any{
			"room.id":    "2",
			"guests":     3,
			"projector":  true,
			"cost":       42.5,
			"roles":      []string{"admin"},
			"unexpected": struct{ A int }{1},
		})
		scope.End()
	})

	got := map[string]string{}
	for _, kv := range span.Attributes() {
		got[string(kv.Key)] = kv.Value.Emit()
	}

	assert.Equal(t, "2", got["room.id"])
	assert.Equal(t, "3", got["guests"])
	assert.Equal(t, "true", got["projector"])
	assert.Equal(t, "{1}", got["unexpected"])
}
