package council

import "sync"

// ModelPricing is the input/output token cost of a model in USD per million
// tokens.
type ModelPricing struct {
	InputPer1M  float64
	OutputPer1M float64
}

// Static pricing for the models in the default roster. Unknown models are
// counted for tokens but contribute zero cost.
var defaultModelPricing = map[string]ModelPricing{
	"gpt-4o":                     {InputPer1M: 2.50, OutputPer1M: 10.00},
	"gpt-4o-mini":                {InputPer1M: 0.15, OutputPer1M: 0.60},
	"gpt-3.5-turbo":              {InputPer1M: 0.50, OutputPer1M: 1.50},
	"claude-3-5-sonnet-20241022": {InputPer1M: 3.00, OutputPer1M: 15.00},
	"claude-3-opus-20240229":     {InputPer1M: 15.00, OutputPer1M: 75.00},
	"claude-3-haiku-20240307":    {InputPer1M: 0.25, OutputPer1M: 1.25},
	"gemini-1.5-pro":             {InputPer1M: 1.25, OutputPer1M: 5.00},
	"gemini-1.5-flash":           {InputPer1M: 0.075, OutputPer1M: 0.30},
}

// CostTracker accumulates token usage and spend for one turn. Safe for
// concurrent use; every fan-out goroutine records into the same tracker.
type CostTracker struct {
	mu           sync.Mutex
	pricing      map[string]ModelPricing
	inputTokens  int64
	outputTokens int64
	costUSD      float64
	modelCosts   map[string]float64
}

// NewCostTracker creates a tracker with the default pricing table.
func NewCostTracker() *CostTracker {
	return &CostTracker{
		pricing:    defaultModelPricing,
		modelCosts: make(map[string]float64),
	}
}

// Record adds one gateway call's token usage.
func (t *CostTracker) Record(model string, inputTokens, outputTokens int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.inputTokens += int64(inputTokens)
	t.outputTokens += int64(outputTokens)

	pricing, ok := t.pricing[model]
	if !ok {
		return
	}
	cost := float64(inputTokens)/1e6*pricing.InputPer1M +
		float64(outputTokens)/1e6*pricing.OutputPer1M
	t.costUSD += cost
	t.modelCosts[model] += cost
}

// Summary reports the accumulated usage.
func (t *CostTracker) Summary() UsageReport {
	t.mu.Lock()
	defer t.mu.Unlock()
	return UsageReport{
		InputTokens:  t.inputTokens,
		OutputTokens: t.outputTokens,
		CostUSD:      t.costUSD,
	}
}

// CostByModel returns the per-model spend breakdown.
func (t *CostTracker) CostByModel() map[string]float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]float64, len(t.modelCosts))
	for model, cost := range t.modelCosts {
		out[model] = cost
	}
	return out
}
