package council

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/openquorum/swarmcouncil/extract"
	"github.com/openquorum/swarmcouncil/providers"
	"github.com/openquorum/swarmcouncil/roster"
)

// unparseableBallotNote fills a ballot's notes when the judge's reply could
// not be parsed as JSON.
const unparseableBallotNote = "ballot could not be parsed from the judge's reply"

// ballotPayload is the JSON shape demanded from judge calls.
type ballotPayload struct {
	RankedIDs []string           `json:"ranked_ids"`
	Scores    map[string]float64 `json:"scores"`
	Notes     interface{}        `json:"notes"`
}

// runJudgingStage fans out one call per judge and produces one ballot per
// judge.
//
// Ranked ids are kept as returned; filtering against the candidate set
// happens at aggregation. A failed or unparseable call produces an
// abstaining ballot with the failure described in Notes, never an aborted
// turn.
func (o *Orchestrator) runJudgingStage(ctx context.Context, turnID string, judges []roster.Judge, req TurnRequest, candidates []CandidateAnswer, findingsDigest string, costs *CostTracker) []JudgeVote {
	defer o.trackStage(turnID, stageJudging)()

	prompt := buildJudgingPrompt(req.Question, findingsDigest, candidates)

	votes := make([]JudgeVote, len(judges))
	var wg sync.WaitGroup

	for i, judge := range judges {
		wg.Add(1)
		go func(index int, j roster.Judge) {
			defer wg.Done()

			vote := JudgeVote{
				ID:        uuid.NewString(),
				JudgeID:   j.ID,
				JudgeName: j.Name,
				RankedIDs: []string{},
				Scores:    map[string]float64{},
			}

			text, latency, err := o.complete(ctx, turnID, stageJudging, j.ID, costs, providers.Request{
				Instruction: j.Instruction,
				Messages:    []providers.Message{{Role: providers.RoleUser, Content: prompt}},
				Model:       j.Model,
				Effort:      effortFor(req.Mode),
			})
			vote.Latency = latency

			if err != nil {
				vote.Notes = err.Error()
				vote.Error = err.Error()
				votes[index] = vote
				return
			}

			payload := extract.Object(text, ballotPayload{Notes: unparseableBallotNote})
			if payload.RankedIDs != nil {
				vote.RankedIDs = payload.RankedIDs
			}
			if payload.Scores != nil {
				vote.Scores = payload.Scores
			}
			vote.Notes = normalizeNotes(payload.Notes)
			votes[index] = vote
		}(i, judge)
	}

	wg.Wait()
	return votes
}

// normalizeNotes keeps notes that are a string, array, or object and
// replaces any other shape with an empty string.
func normalizeNotes(notes interface{}) interface{} {
	switch notes.(type) {
	case string, []interface{}, map[string]interface{}:
		return notes
	default:
		return ""
	}
}
