package emit

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestOTelEmitter_Emit(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)
	otel.SetTracerProvider(tp)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := otel.Tracer("test")
	emitter := NewOTelEmitter(tracer)

	emitter.Emit(Event{
		TurnID:  "turn-001",
		Stage:   "proposal",
		AgentID: "worker-analyst",
		Msg:     "agent_complete",
		Meta: map[string]interface{}{
			"model":      "gpt-4o",
			"tokens_out": 150,
		},
	})

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	span := spans[0]
	if span.Name != "agent_complete" {
		t.Errorf("span name = %q, want %q", span.Name, "agent_complete")
	}

	attrs := attributeMap(span.Attributes)
	if got := attrs["swarmcouncil.turn_id"]; got != "turn-001" {
		t.Errorf("turn_id = %v, want %q", got, "turn-001")
	}
	if got := attrs["swarmcouncil.stage"]; got != "proposal" {
		t.Errorf("stage = %v, want %q", got, "proposal")
	}
	if got := attrs["swarmcouncil.agent_id"]; got != "worker-analyst" {
		t.Errorf("agent_id = %v, want %q", got, "worker-analyst")
	}
	if got := attrs["swarmcouncil.llm.model"]; got != "gpt-4o" {
		t.Errorf("model = %v, want %q", got, "gpt-4o")
	}
	if got := attrs["swarmcouncil.llm.tokens_out"]; got != int64(150) {
		t.Errorf("tokens_out = %v, want %d", got, 150)
	}

	if !span.EndTime.After(span.StartTime) {
		t.Error("span was not ended")
	}
}

func TestOTelEmitter_EmitWithError(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)
	otel.SetTracerProvider(tp)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := otel.Tracer("test")
	emitter := NewOTelEmitter(tracer)

	emitter.Emit(Event{
		TurnID:  "turn-001",
		Stage:   "judging",
		AgentID: "judge-rigor",
		Msg:     "agent_failed",
		Meta: map[string]interface{}{
			"error": "rate limited",
		},
	})

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	span := spans[0]
	if span.Status.Code != codes.Error {
		t.Errorf("status code = %v, want %v", span.Status.Code, codes.Error)
	}
	if span.Status.Description != "rate limited" {
		t.Errorf("status description = %q, want %q", span.Status.Description, "rate limited")
	}
	if len(span.Events) == 0 {
		t.Error("expected recorded error event, got none")
	}
}

func TestOTelEmitter_Flush(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)
	otel.SetTracerProvider(tp)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	emitter := NewOTelEmitter(otel.Tracer("test"))
	emitter.Emit(Event{TurnID: "turn-002", Msg: "turn_complete"})

	if err := emitter.Flush(context.Background()); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
}

func attributeMap(attrs []attribute.KeyValue) map[string]interface{} {
	m := make(map[string]interface{})
	for _, kv := range attrs {
		m[string(kv.Key)] = kv.Value.AsInterface()
	}
	return m
}
