package council

import (
	"context"
	"sync"

	"github.com/openquorum/swarmcouncil/extract"
	"github.com/openquorum/swarmcouncil/providers"
)

// discussionDirective is appended to the worker's own instruction for the
// revision round.
const discussionDirective = "\n\nYou are in a revision round: you will see your peers' answers and must return a revised answer in the same JSON shape."

// runDiscussionStage fans out one revision call per candidate, each seeing a
// digest of every other candidate taken from the proposal-stage snapshot.
//
// On success the candidate's Answer/Reasoning are overwritten with the
// revision; on failure the prior answer stands (no regression) and the error
// message is recorded as DiscussionReasoning. Each task writes back only its
// own candidate, so no revision observes another mid-round.
func (o *Orchestrator) runDiscussionStage(ctx context.Context, turnID string, candidates []CandidateAnswer, req TurnRequest, costs *CostTracker) []CandidateAnswer {
	defer o.trackStage(turnID, stageDiscussion)()

	snapshot := make([]CandidateAnswer, len(candidates))
	copy(snapshot, candidates)

	revised := make([]CandidateAnswer, len(candidates))
	var wg sync.WaitGroup

	for i := range snapshot {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()

			candidate := snapshot[index]
			prompt := buildDiscussionPrompt(req.Question, candidate, snapshot)

			text, latency, err := o.complete(ctx, turnID, stageDiscussion, candidate.WorkerID, costs, providers.Request{
				Instruction: candidate.Instruction + discussionDirective,
				Messages:    []providers.Message{{Role: providers.RoleUser, Content: prompt}},
				Model:       candidate.Model,
				Effort:      effortFor(req.Mode),
			})
			candidate.Latency += latency

			if err != nil {
				candidate.DiscussionAnswer = candidate.Answer
				candidate.DiscussionReasoning = err.Error()
				revised[index] = candidate
				return
			}

			// An unparseable revision keeps the prior answer.
			payload := extract.Object(text, answerPayload{
				Answer:    candidate.Answer,
				Reasoning: candidate.Reasoning,
			})
			if payload.Answer == "" {
				payload.Answer = candidate.Answer
			}
			if payload.Reasoning == "" {
				payload.Reasoning = candidate.Reasoning
			}

			candidate.DiscussionAnswer = payload.Answer
			candidate.DiscussionReasoning = payload.Reasoning
			candidate.Answer = payload.Answer
			candidate.Reasoning = payload.Reasoning
			revised[index] = candidate
		}(i)
	}

	wg.Wait()
	return revised
}
