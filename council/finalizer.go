package council

import (
	"context"
	"strings"

	"github.com/openquorum/swarmcouncil/extract"
	"github.com/openquorum/swarmcouncil/providers"
)

const (
	// finalizerRunnersUp is how many runner-up candidates the finalizer sees
	// beyond the winner.
	finalizerRunnersUp = 3

	// titleMaxWords caps the summary title.
	titleMaxWords = 12

	// fallbackRationale is the fixed rationale used when the finalizer's
	// reply could not be parsed and the winning answer is returned verbatim.
	fallbackRationale = "Fell back to the winning candidate's answer; the final synthesis could not be parsed."

	finalizerInstruction = "You are the finalizer of a council of specialist agents. You synthesize the council's winning answer into the response delivered to the user."
)

// finalPayload is the JSON shape demanded from the finalizer call.
type finalPayload struct {
	FinalAnswer    string `json:"final_answer"`
	ShortRationale string `json:"short_rationale"`
	SummaryTitle   string `json:"summary_title"`
}

// runFinalizer issues the single synthesis call and returns the final
// answer, rationale, and title.
//
// Failure here degrades rather than aborts: the winner's raw answer is
// returned verbatim with a fixed rationale and a title truncated from the
// question.
func (o *Orchestrator) runFinalizer(ctx context.Context, turnID string, req TurnRequest, candidates []CandidateAnswer, voting VotingResult, findingsDigest string, costs *CostTracker) (answer, rationale, title string) {
	defer o.trackStage(turnID, stageFinalize)()

	winner := candidates[0]
	for _, c := range candidates {
		if c.ID == voting.WinnerID {
			winner = c
			break
		}
	}

	byID := make(map[string]CandidateAnswer, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
	}
	runnersUp := make([]CandidateAnswer, 0, finalizerRunnersUp)
	for _, ranked := range voting.Ranking {
		if ranked.CandidateID == winner.ID {
			continue
		}
		if c, ok := byID[ranked.CandidateID]; ok {
			runnersUp = append(runnersUp, c)
		}
		if len(runnersUp) == finalizerRunnersUp {
			break
		}
	}

	prompt := buildFinalizerPrompt(req.Question, winner, runnersUp, voting, findingsDigest)

	text, _, err := o.complete(ctx, turnID, stageFinalize, "finalizer", costs, providers.Request{
		Instruction: finalizerInstruction,
		Messages:    []providers.Message{{Role: providers.RoleUser, Content: prompt}},
		Model:       winner.Model,
		Effort:      effortFor(req.Mode),
	})
	if err != nil {
		return winner.Answer, fallbackRationale, titleFromQuestion(req.Question)
	}

	payload := extract.Object(text, finalPayload{})
	if payload.FinalAnswer == "" {
		return winner.Answer, fallbackRationale, titleFromQuestion(req.Question)
	}

	rationale = payload.ShortRationale
	if rationale == "" {
		rationale = fallbackRationale
	}
	title = capWords(payload.SummaryTitle, titleMaxWords)
	if title == "" {
		title = titleFromQuestion(req.Question)
	}
	return payload.FinalAnswer, rationale, title
}

// titleFromQuestion derives a fallback title by truncating the question.
func titleFromQuestion(question string) string {
	return capWords(question, titleMaxWords)
}

// capWords truncates s to at most max words.
func capWords(s string, max int) string {
	words := strings.Fields(s)
	if len(words) <= max {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:max], " ")
}
