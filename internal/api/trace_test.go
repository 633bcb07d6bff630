package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func setupSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	return recorder
}

func TestStartRequestSpanContinuesCallerTrace(t *testing.T) {
	recorder := setupSpanRecorder(t)

	var fctx fasthttp.RequestCtx
	fctx.Request.Header.SetMethod(fasthttp.MethodGet)
	fctx.Request.SetRequestURI("/api/dashboard/real-time")
	fctx.Request.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")

	stdCtx, span := startRequestSpan(&fctx)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "GET /api/dashboard/real-time", ended[0].Name())
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", ended[0].SpanContext().TraceID().String())
	assert.Equal(t, trace.SpanKindServer, ended[0].SpanKind())
	assert.True(t, trace.SpanContextFromContext(stdCtx).IsValid())
}

func TestStartRequestSpanWithoutCallerTrace(t *testing.T) {
	recorder := setupSpanRecorder(t)

	var fctx fasthttp.RequestCtx
	fctx.Request.Header.SetMethod(fasthttp.MethodPost)
	fctx.Request.SetRequestURI("/api/workload/rebalance")

	stdCtx, span := startRequestSpan(&fctx)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "POST /api/workload/rebalance", ended[0].Name())
	assert.True(t, ended[0].SpanContext().TraceID().IsValid())
	assert.True(t, trace.SpanContextFromContext(stdCtx).IsValid())
}
