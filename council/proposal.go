package council

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openquorum/swarmcouncil/extract"
	"github.com/openquorum/swarmcouncil/providers"
	"github.com/openquorum/swarmcouncil/roster"
)

// failurePlaceholder replaces the answer and reasoning of a candidate whose
// gateway call failed. Candidates never carry empty answer text.
const failurePlaceholder = "No answer was produced; the worker call failed."

// answerPayload is the JSON shape demanded from worker calls.
type answerPayload struct {
	Answer    string `json:"answer"`
	Reasoning string `json:"reasoning"`
}

// runProposalStage fans out one gateway call per selected worker and
// produces exactly one candidate per worker.
//
// Call failures degrade to placeholder candidates carrying the error
// message; a single failed worker never aborts the turn. The stage result is
// assembled only after every call settles, in roster order.
func (o *Orchestrator) runProposalStage(ctx context.Context, turnID string, workers []roster.Worker, req TurnRequest, findingsDigest string, costs *CostTracker) ([]CandidateAnswer, error) {
	if len(workers) == 0 {
		return nil, errors.New("proposal stage requires at least one worker")
	}
	defer o.trackStage(turnID, stageProposal)()

	history := CondenseHistory(req.History, historyMaxTurns, historyCharBudget)
	prompt := buildProposalPrompt(req.Question, history, findingsDigest, len(req.Files))

	type workerResult struct {
		index     int
		candidate CandidateAnswer
	}

	results := make(chan workerResult, len(workers))
	var wg sync.WaitGroup

	for i, worker := range workers {
		wg.Add(1)
		go func(index int, w roster.Worker) {
			defer wg.Done()

			candidate := CandidateAnswer{
				ID:          uuid.NewString(),
				WorkerID:    w.ID,
				WorkerName:  w.Name,
				WorkerRole:  w.Role,
				Instruction: w.Instruction,
				Model:       w.Model,
				CreatedAt:   time.Now(),
			}

			text, latency, err := o.complete(ctx, turnID, stageProposal, w.ID, costs, providers.Request{
				Instruction: w.Instruction,
				Messages:    []providers.Message{{Role: providers.RoleUser, Content: prompt}},
				Files:       req.Files,
				Model:       w.Model,
				Effort:      effortFor(req.Mode),
			})
			candidate.Latency = latency

			if err != nil {
				candidate.InitialAnswer = failurePlaceholder
				candidate.InitialReasoning = failurePlaceholder
				candidate.Answer = failurePlaceholder
				candidate.Reasoning = failurePlaceholder
				candidate.Error = err.Error()
				results <- workerResult{index, candidate}
				return
			}

			payload := extract.Object(text, answerPayload{
				Answer:    failurePlaceholder,
				Reasoning: failurePlaceholder,
			})
			if payload.Answer == "" {
				payload.Answer = failurePlaceholder
			}
			if payload.Reasoning == "" {
				payload.Reasoning = failurePlaceholder
			}

			candidate.InitialAnswer = payload.Answer
			candidate.InitialReasoning = payload.Reasoning
			candidate.Answer = payload.Answer
			candidate.Reasoning = payload.Reasoning
			results <- workerResult{index, candidate}
		}(i, worker)
	}

	wg.Wait()
	close(results)

	candidates := make([]CandidateAnswer, len(workers))
	for r := range results {
		candidates[r.index] = r.candidate
	}
	return candidates, nil
}
