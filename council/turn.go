package council

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/openquorum/swarmcouncil/emit"
	"github.com/openquorum/swarmcouncil/providers"
	"github.com/openquorum/swarmcouncil/roster"
	"github.com/openquorum/swarmcouncil/websearch"
)

// Stage names used in events and metrics.
const (
	stageProposal   = "proposal"
	stageDiscussion = "discussion"
	stageJudging    = "judging"
	stageFinalize   = "finalize"
	stageSearch     = "search"
)

const defaultMaxFindings = 5

// Orchestrator runs council turns. It holds only read-only collaborators
// and is safe for concurrent RunTurn calls.
type Orchestrator struct {
	completer   providers.Completer
	roster      *roster.Roster
	searcher    websearch.Searcher
	emitter     emit.Emitter
	metrics     *Metrics
	ceiling     time.Duration
	maxFindings int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithSearcher sets the web context searcher. Defaults to a searcher that
// returns no findings.
func WithSearcher(s websearch.Searcher) Option {
	return func(o *Orchestrator) { o.searcher = s }
}

// WithEmitter sets the observability emitter. Defaults to a null emitter.
func WithEmitter(e emit.Emitter) Option {
	return func(o *Orchestrator) { o.emitter = e }
}

// WithMetrics sets the Prometheus metrics collector. Defaults to a
// collector on a private registry.
func WithMetrics(m *Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithBudgetCeiling sets the pre-flight admission ceiling. Zero disables
// the gate.
func WithBudgetCeiling(d time.Duration) Option {
	return func(o *Orchestrator) { o.ceiling = d }
}

// WithMaxFindings caps how many web findings a turn fetches.
func WithMaxFindings(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxFindings = n
		}
	}
}

// NewOrchestrator creates an orchestrator over the given completion gateway
// and roster.
func NewOrchestrator(completer providers.Completer, r *roster.Roster, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		completer:   completer,
		roster:      r,
		searcher:    websearch.NullSearcher{},
		emitter:     emit.NewNullEmitter(),
		maxFindings: defaultMaxFindings,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.metrics == nil {
		o.metrics = NewMetrics(prometheus.NewRegistry())
	}
	return o
}

// RunTurn executes one complete council turn.
//
// Stages run strictly in sequence; calls within a stage run concurrently.
// The only error returned is *ConfigRejectedError from the pre-flight budget
// gate; every other failure is absorbed into degraded data inside the
// result. No per-call timeouts or retries are applied; ctx is propagated to
// every gateway call.
func (o *Orchestrator) RunTurn(ctx context.Context, req TurnRequest) (*TurnResult, error) {
	workers := o.roster.Select(req.WorkerCount)
	judges := o.roster.Judges()

	if err := CheckBudget(len(workers), req.Mode, req.DiscussionEnabled, o.ceiling); err != nil {
		o.metrics.RecordBudgetRejection()
		o.metrics.RecordTurn("rejected")
		o.emitter.Emit(emit.Event{
			Msg:  "turn_rejected",
			Meta: map[string]interface{}{"error": err.Error()},
		})
		return nil, err
	}

	turnID := uuid.NewString()
	start := time.Now()
	costs := NewCostTracker()

	o.emitter.Emit(emit.Event{
		TurnID: turnID,
		Msg:    "turn_start",
		Meta: map[string]interface{}{
			"workers":    len(workers),
			"judges":     len(judges),
			"mode":       string(req.Mode),
			"discussion": req.DiscussionEnabled,
		},
	})

	findings := o.fetchContext(ctx, turnID, req)
	findingsDigest := buildFindingsDigest(findings)

	candidates, err := o.runProposalStage(ctx, turnID, workers, req, findingsDigest, costs)
	if err != nil {
		// Unreachable through Select, which never returns an empty roster.
		return nil, err
	}

	if req.DiscussionEnabled {
		candidates = o.runDiscussionStage(ctx, turnID, candidates, req, costs)
	}

	votes := o.runJudgingStage(ctx, turnID, judges, req, candidates, findingsDigest, costs)
	voting := Aggregate(votes, candidates)
	finalAnswer, finalReasoning, title := o.runFinalizer(ctx, turnID, req, candidates, voting, findingsDigest, costs)

	result := &TurnResult{
		TurnID:         turnID,
		FinalAnswer:    finalAnswer,
		FinalReasoning: finalReasoning,
		Title:          title,
		Candidates:     candidates,
		Votes:          votes,
		Voting:         voting,
		Findings:       findings,
		Usage:          costs.Summary(),
		Elapsed:        time.Since(start),
	}

	o.metrics.RecordTurn("completed")
	o.emitter.Emit(emit.Event{
		TurnID: turnID,
		Msg:    "turn_end",
		Meta: map[string]interface{}{
			"duration_ms": result.Elapsed.Milliseconds(),
			"winner":      voting.WinnerID,
			"tokens_in":   result.Usage.InputTokens,
			"tokens_out":  result.Usage.OutputTokens,
			"cost_usd":    result.Usage.CostUSD,
		},
	})
	return result, nil
}

// fetchContext runs the optional single web search. Any failure resolves to
// no findings; it is logged and never surfaced.
func (o *Orchestrator) fetchContext(ctx context.Context, turnID string, req TurnRequest) []Finding {
	if !req.WebContextEnabled {
		return nil
	}

	stageStart := time.Now()
	findings, err := o.searcher.Search(ctx, req.Question, o.maxFindings)
	o.metrics.RecordStageDuration(stageSearch, time.Since(stageStart))
	if err != nil {
		o.emitter.Emit(emit.Event{
			TurnID: turnID,
			Stage:  stageSearch,
			Msg:    "search_failed",
			Meta:   map[string]interface{}{"error": err.Error()},
		})
		return nil
	}
	return findings
}

// complete issues one gateway call, recording latency, metrics, cost and
// events. The error is returned for the calling stage to absorb.
func (o *Orchestrator) complete(ctx context.Context, turnID, stage, agentID string, costs *CostTracker, req providers.Request) (string, time.Duration, error) {
	start := time.Now()
	completion, err := o.completer.Complete(ctx, req)
	elapsed := time.Since(start)

	if err != nil {
		o.metrics.RecordAgentCall(stage, "error")
		o.emitter.Emit(emit.Event{
			TurnID:  turnID,
			Stage:   stage,
			AgentID: agentID,
			Msg:     "agent_failed",
			Meta: map[string]interface{}{
				"error": err.Error(),
				"model": req.Model,
			},
		})
		return "", elapsed, err
	}

	costs.Record(completion.Model, completion.InputTokens, completion.OutputTokens)
	o.metrics.RecordAgentCall(stage, "success")
	o.emitter.Emit(emit.Event{
		TurnID:  turnID,
		Stage:   stage,
		AgentID: agentID,
		Msg:     "agent_complete",
		Meta: map[string]interface{}{
			"model":       req.Model,
			"tokens_in":   completion.InputTokens,
			"tokens_out":  completion.OutputTokens,
			"duration_ms": elapsed.Milliseconds(),
		},
	})
	return completion.Text, elapsed, nil
}

// trackStage emits stage_start and returns a func that records the stage
// duration and emits stage_end.
func (o *Orchestrator) trackStage(turnID, stage string) func() {
	start := time.Now()
	o.emitter.Emit(emit.Event{TurnID: turnID, Stage: stage, Msg: "stage_start"})
	return func() {
		elapsed := time.Since(start)
		o.metrics.RecordStageDuration(stage, elapsed)
		o.emitter.Emit(emit.Event{
			TurnID: turnID,
			Stage:  stage,
			Msg:    "stage_end",
			Meta:   map[string]interface{}{"duration_ms": elapsed.Milliseconds()},
		})
	}
}

// effortFor maps the turn mode to the gateway effort hint.
func effortFor(mode Mode) providers.Effort {
	if mode == ModeReasoning {
		return providers.EffortReasoning
	}
	return providers.EffortFast
}
