package council

import (
	"fmt"
	"strings"
)

// Prompt construction for each pipeline stage. Every stage demands a strict
// JSON reply; extract.Object absorbs anything the models return around it.

const (
	// historyMaxTurns and historyCharBudget bound the transcript snippet
	// included in worker prompts.
	historyMaxTurns   = 6
	historyCharBudget = 4000

	// reasoningExcerptLimit caps the reasoning excerpt shown to judges per
	// candidate.
	reasoningExcerptLimit = 400
)

const proposalFormat = `Respond with a single JSON object and nothing else:
{"answer": "<your complete answer>", "reasoning": "<how you arrived at it>"}`

const ballotFormat = `Respond with a single JSON object and nothing else:
{"ranked_ids": ["<best candidate id>", "..."], "scores": {"<candidate id>": <number>}, "notes": "<optional remarks>"}`

const finalFormat = `Respond with a single JSON object and nothing else:
{"final_answer": "<markdown>", "short_rationale": "<one or two sentences>", "summary_title": "<at most %d words>"}`

// buildProposalPrompt assembles the user message for one worker's proposal
// call.
func buildProposalPrompt(question, history, findingsDigest string, fileCount int) string {
	var b strings.Builder

	if history != "" {
		b.WriteString("Recent conversation:\n")
		b.WriteString(history)
		b.WriteString("\n\n")
	}
	if findingsDigest != "" {
		b.WriteString("Web context:\n")
		b.WriteString(findingsDigest)
		b.WriteString("\n\n")
	}
	if fileCount > 0 {
		b.WriteString(fmt.Sprintf("The user attached %d file(s); references follow the question.\n\n", fileCount))
	}

	b.WriteString("Question:\n")
	b.WriteString(question)
	b.WriteString("\n\n")
	b.WriteString(proposalFormat)
	return b.String()
}

// buildDiscussionPrompt assembles the revision call for one candidate,
// carrying a digest of every other candidate's proposal-stage answer.
func buildDiscussionPrompt(question string, self CandidateAnswer, peers []CandidateAnswer) string {
	var b strings.Builder

	b.WriteString("Your peers answered the same question. Review their answers, then revise your own. ")
	b.WriteString("Keep what holds up, correct what does not, and borrow better points when you find them.\n\n")

	b.WriteString("Peer answers:\n")
	for _, peer := range peers {
		if peer.ID == self.ID {
			continue
		}
		fmt.Fprintf(&b, "- %s (%s): %s\n  Reasoning: %s\n",
			peer.WorkerName, peer.WorkerRole, peer.Answer, truncate(peer.Reasoning, reasoningExcerptLimit))
	}

	b.WriteString("\nYour previous answer:\n")
	b.WriteString(self.Answer)
	b.WriteString("\n\nQuestion:\n")
	b.WriteString(question)
	b.WriteString("\n\n")
	b.WriteString(proposalFormat)
	return b.String()
}

// buildJudgingPrompt assembles the ballot call for one judge, enumerating
// every current candidate with a capped reasoning excerpt.
func buildJudgingPrompt(question, findingsDigest string, candidates []CandidateAnswer) string {
	var b strings.Builder

	b.WriteString("Rank the candidate answers to the question below from best to worst. ")
	b.WriteString("You may omit candidates you cannot rank, and you may assign numeric scores to any candidate.\n\n")

	if findingsDigest != "" {
		b.WriteString("Web context:\n")
		b.WriteString(findingsDigest)
		b.WriteString("\n\n")
	}

	b.WriteString("Question:\n")
	b.WriteString(question)
	b.WriteString("\n\nCandidates:\n")
	for i, c := range candidates {
		fmt.Fprintf(&b, "%d. id=%s author=%s\n   Answer: %s\n   Reasoning: %s\n",
			i+1, c.ID, c.WorkerName, c.Answer, truncate(c.Reasoning, reasoningExcerptLimit))
	}

	b.WriteString("\n")
	b.WriteString(ballotFormat)
	return b.String()
}

// buildFinalizerPrompt assembles the synthesis call from the winner, the top
// runners-up, and the vote totals.
func buildFinalizerPrompt(question string, winner CandidateAnswer, runnersUp []CandidateAnswer, voting VotingResult, findingsDigest string) string {
	var b strings.Builder

	b.WriteString("You are the final arbiter of a council of specialists. ")
	b.WriteString("Ground your answer in the winning candidate below; you may borrow stronger points from the runners-up. ")
	b.WriteString("Write the final answer as Markdown with exactly four sections: Summary, Recommendations, Risks, Next Actions.\n\n")

	if findingsDigest != "" {
		b.WriteString("Web context:\n")
		b.WriteString(findingsDigest)
		b.WriteString("\n\n")
	}

	b.WriteString("Question:\n")
	b.WriteString(question)

	fmt.Fprintf(&b, "\n\nWinning answer (by %s, total score %.2f):\n%s\nReasoning: %s\n",
		winner.WorkerName, voting.Totals[winner.ID], winner.Answer, winner.Reasoning)

	if len(runnersUp) > 0 {
		b.WriteString("\nRunners-up:\n")
		for _, c := range runnersUp {
			fmt.Fprintf(&b, "- %s (score %.2f): %s\n", c.WorkerName, voting.Totals[c.ID], c.Answer)
		}
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, finalFormat, titleMaxWords)
	return b.String()
}

// buildFindingsDigest renders web findings as a short bulleted list for
// inclusion in prompts. Empty when there are no findings.
func buildFindingsDigest(findings []Finding) string {
	if len(findings) == 0 {
		return ""
	}
	var b strings.Builder
	for _, f := range findings {
		fmt.Fprintf(&b, "- %s (%s): %s\n", f.Title, f.URL, f.Snippet)
	}
	return strings.TrimSpace(b.String())
}

// truncate caps s at limit bytes, marking the cut.
func truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
