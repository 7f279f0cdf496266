// Package council implements the swarm council pipeline: parallel worker
// proposals, an optional peer-discussion round, a judge panel vote, a
// deterministic consensus over the ballots, and a finalizer that synthesizes
// the user-facing answer from the winner.
//
// All entities here are created fresh for a single turn and discarded after
// it. No entity is written by more than one stage concurrently: candidates
// are written sequentially by the proposal then discussion stages and are
// read-only during judging and aggregation.
package council

import (
	"time"

	"github.com/openquorum/swarmcouncil/providers"
	"github.com/openquorum/swarmcouncil/websearch"
)

// FileRef is an opaque reference to an uploaded file. The pipeline never
// reads file bytes; references are forwarded to the completion gateway as-is.
type FileRef = providers.FileRef

// Finding is a single piece of external web context.
type Finding = websearch.Finding

// Mode selects how much reasoning effort worker and judge calls request.
type Mode string

const (
	// ModeFast requests short, low-latency completions.
	ModeFast Mode = "fast"

	// ModeReasoning requests deeper completions with a larger token budget.
	ModeReasoning Mode = "reasoning"
)

// HistoryTurn is one prior question/answer pair from the conversation. The
// boundary layer supplies an already-bounded transcript; CondenseHistory
// clips it further.
type HistoryTurn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// TurnRequest carries everything needed to run one council turn.
type TurnRequest struct {
	// Question is the user's question.
	Question string `json:"question"`

	// WorkerCount is the requested number of workers; clamped by the roster.
	WorkerCount int `json:"worker_count"`

	// Files are opaque references forwarded to every worker call.
	Files []FileRef `json:"files,omitempty"`

	// History is the bounded recent conversation transcript.
	History []HistoryTurn `json:"history,omitempty"`

	// Mode selects fast or reasoning effort.
	Mode Mode `json:"mode"`

	// DiscussionEnabled turns on the peer-revision round.
	DiscussionEnabled bool `json:"discussion_enabled"`

	// WebContextEnabled turns on the single pre-flight web search.
	WebContextEnabled bool `json:"web_context_enabled"`
}

// CandidateAnswer is one worker's answer for a turn.
//
// Answer and Reasoning always reflect the most recent successful stage
// output and are never empty: a failed call writes a fixed placeholder, with
// the underlying error message kept in Error.
type CandidateAnswer struct {
	ID          string `json:"id"`
	WorkerID    string `json:"worker_id"`
	WorkerName  string `json:"worker_name"`
	WorkerRole  string `json:"worker_role"`
	Instruction string `json:"instruction"`
	Model       string `json:"model"`

	InitialAnswer    string `json:"initial_answer"`
	InitialReasoning string `json:"initial_reasoning"`

	// Discussion fields are set only when the discussion round runs.
	DiscussionAnswer    string `json:"discussion_answer,omitempty"`
	DiscussionReasoning string `json:"discussion_reasoning,omitempty"`

	Answer    string `json:"answer"`
	Reasoning string `json:"reasoning"`

	// Error holds the message of an absorbed call failure, if any.
	Error string `json:"error,omitempty"`

	Latency   time.Duration `json:"latency_ns"`
	CreatedAt time.Time     `json:"created_at"`
}

// JudgeVote is one judge's ballot for a turn.
//
// RankedIDs may omit candidates and may contain ids that match no candidate;
// unknown ids are dropped during aggregation, not here. A judge whose call
// failed abstains: empty RankedIDs and Scores with the failure message in
// Notes.
type JudgeVote struct {
	ID        string `json:"id"`
	JudgeID   string `json:"judge_id"`
	JudgeName string `json:"judge_name"`

	// RankedIDs lists candidate ids best-to-worst.
	RankedIDs []string `json:"ranked_ids"`

	// Scores is a sparse map from candidate id to a free-form numeric score.
	Scores map[string]float64 `json:"scores"`

	// Notes is a string, array, or object, rendered for display only.
	Notes interface{} `json:"notes"`

	// Error holds the message of an absorbed call failure, if any.
	Error string `json:"error,omitempty"`

	Latency time.Duration `json:"latency_ns"`
}

// RankedCandidate is one entry of the consensus ranking.
type RankedCandidate struct {
	CandidateID string  `json:"candidate_id"`
	Score       float64 `json:"score"`
}

// VotingResult is the outcome of aggregating all ballots.
//
// Totals has exactly one entry per candidate id and Ranking is a permutation
// of all candidate ids sorted descending by score. WinnerID is always a real
// candidate, falling back to the first candidate in roster order if every
// ballot abstained.
type VotingResult struct {
	WinnerID string             `json:"winner_id"`
	Totals   map[string]float64 `json:"totals"`
	Ranking  []RankedCandidate  `json:"ranking"`
}

// UsageReport summarizes token consumption and spend for one turn.
type UsageReport struct {
	InputTokens  int64   `json:"input_tokens"`
	OutputTokens int64   `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
}

// TurnResult is the complete outcome of one council turn.
type TurnResult struct {
	TurnID         string            `json:"turn_id"`
	FinalAnswer    string            `json:"final_answer"`
	FinalReasoning string            `json:"final_reasoning"`
	Title          string            `json:"title"`
	Candidates     []CandidateAnswer `json:"candidates"`
	Votes          []JudgeVote       `json:"votes"`
	Voting         VotingResult      `json:"voting"`
	Findings       []Finding         `json:"findings,omitempty"`
	Usage          UsageReport       `json:"usage"`
	Elapsed        time.Duration     `json:"elapsed_ns"`
}
