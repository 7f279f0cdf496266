package council

import (
	"math"
	"sync"
	"testing"
)

func TestCostTracker_RecordAndSummary(t *testing.T) {
	tracker := NewCostTracker()

	tracker.Record("gpt-4o", 1000, 500)
	tracker.Record("claude-3-haiku-20240307", 2000, 100)

	summary := tracker.Summary()
	if summary.InputTokens != 3000 {
		t.Errorf("input tokens = %d, want 3000", summary.InputTokens)
	}
	if summary.OutputTokens != 600 {
		t.Errorf("output tokens = %d, want 600", summary.OutputTokens)
	}

	// gpt-4o: 1000/1M*2.50 + 500/1M*10.00; haiku: 2000/1M*0.25 + 100/1M*1.25.
	want := 0.0025 + 0.005 + 0.0005 + 0.000125
	if math.Abs(summary.CostUSD-want) > 1e-9 {
		t.Errorf("cost = %v, want %v", summary.CostUSD, want)
	}
}

func TestCostTracker_UnknownModelCountsTokensOnly(t *testing.T) {
	tracker := NewCostTracker()
	tracker.Record("mystery-model", 500, 500)

	summary := tracker.Summary()
	if summary.InputTokens != 500 || summary.OutputTokens != 500 {
		t.Errorf("tokens not counted: %+v", summary)
	}
	if summary.CostUSD != 0 {
		t.Errorf("unknown model should cost zero, got %v", summary.CostUSD)
	}
}

func TestCostTracker_CostByModel(t *testing.T) {
	tracker := NewCostTracker()
	tracker.Record("gpt-4o", 1000, 0)
	tracker.Record("gpt-4o", 1000, 0)
	tracker.Record("gemini-1.5-flash", 1000, 0)

	byModel := tracker.CostByModel()
	if len(byModel) != 2 {
		t.Fatalf("expected 2 models, got %d", len(byModel))
	}
	if byModel["gpt-4o"] <= byModel["gemini-1.5-flash"] {
		t.Errorf("unexpected breakdown: %v", byModel)
	}
}

func TestCostTracker_ConcurrentRecord(t *testing.T) {
	tracker := NewCostTracker()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Record("gpt-4o", 100, 100)
		}()
	}
	wg.Wait()

	summary := tracker.Summary()
	if summary.InputTokens != 3200 || summary.OutputTokens != 3200 {
		t.Errorf("lost concurrent records: %+v", summary)
	}
}
