package emit

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"
)

func TestLogEmitter_TextOutput(t *testing.T) {
	t.Run("emits event with all fields", func(t *testing.T) {
		var buf bytes.Buffer
		emitter := NewLogEmitter(&buf, false)

		emitter.Emit(Event{
			TurnID:  "turn-001",
			Stage:   "proposal",
			AgentID: "worker-analyst",
			Msg:     "agent_complete",
			Meta: map[string]interface{}{
				"tokens_out": 240,
			},
		})

		output := buf.String()
		for _, want := range []string{"turn-001", "proposal", "worker-analyst", "agent_complete", "tokens_out"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q, got: %s", want, output)
			}
		}
	})

	t.Run("emits multiple events as separate lines", func(t *testing.T) {
		var buf bytes.Buffer
		emitter := NewLogEmitter(&buf, false)

		emitter.Emit(Event{TurnID: "turn-001", Stage: "proposal", Msg: "stage_start"})
		emitter.Emit(Event{TurnID: "turn-001", Stage: "proposal", Msg: "stage_end"})

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 2 {
			t.Errorf("expected 2 lines of output, got %d", len(lines))
		}
	})
}

func TestLogEmitter_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	emitter := NewLogEmitter(&buf, true)

	emitter.Emit(Event{
		TurnID:  "turn-002",
		Stage:   "judging",
		AgentID: "judge-rigor",
		Msg:     "agent_failed",
		Meta: map[string]interface{}{
			"error": "rate limited",
		},
	})

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput: %s", err, buf.String())
	}
	if decoded["turnID"] != "turn-002" {
		t.Errorf("turnID = %v, want turn-002", decoded["turnID"])
	}
	if decoded["stage"] != "judging" {
		t.Errorf("stage = %v, want judging", decoded["stage"])
	}
	meta, ok := decoded["meta"].(map[string]interface{})
	if !ok {
		t.Fatalf("meta missing or wrong type: %v", decoded["meta"])
	}
	if meta["error"] != "rate limited" {
		t.Errorf("meta.error = %v, want %q", meta["error"], "rate limited")
	}
}

func TestLogEmitter_NilWriterDefaultsToStdout(t *testing.T) {
	emitter := NewLogEmitter(nil, false)
	if emitter.writer == nil {
		t.Error("expected non-nil writer")
	}
}

func TestLogEmitter_ConcurrentEmit(t *testing.T) {
	var buf bytes.Buffer
	emitter := NewLogEmitter(&buf, true)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			emitter.Emit(Event{TurnID: "turn-003", Stage: "proposal", Msg: "agent_complete"})
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 16 {
		t.Fatalf("expected 16 lines, got %d", len(lines))
	}
	for _, line := range lines {
		var decoded map[string]interface{}
		if err := json.Unmarshal([]byte(line), &decoded); err != nil {
			t.Errorf("interleaved write produced invalid JSON line: %s", line)
		}
	}
}

func TestNullEmitter_DiscardsEvents(t *testing.T) {
	emitter := NewNullEmitter()
	// Must not panic regardless of content.
	emitter.Emit(Event{})
	emitter.Emit(Event{TurnID: "turn-004", Msg: "stage_start", Meta: map[string]interface{}{"x": 1}})
}
