package council

import (
	"math"
	"sort"
)

// Aggregate folds every ballot into a single ranking and winner.
//
// Scoring per ballot: the ranked id list is filtered to known candidates
// preserving order, and the candidate at position i of a filtered list of
// length k earns max(k-i-1, 0) Borda points. Every finite numeric score for
// a known candidate id is then added directly into the same total; rank
// points and raw scores share one scalar with no normalization between the
// scales, which is the documented behavior.
//
// The ranking sorts candidates descending by total with a stable sort, so
// ties keep the candidates' roster order. WinnerID is the ranking head; if
// the candidate list is empty the result carries no winner, but that cannot
// occur because the roster never selects zero workers.
//
// Pure and deterministic: the same votes and candidates always produce an
// identical VotingResult.
func Aggregate(votes []JudgeVote, candidates []CandidateAnswer) VotingResult {
	totals := make(map[string]float64, len(candidates))
	known := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		totals[c.ID] = 0
		known[c.ID] = true
	}

	for _, vote := range votes {
		ranked := make([]string, 0, len(vote.RankedIDs))
		for _, id := range vote.RankedIDs {
			if known[id] {
				ranked = append(ranked, id)
			}
		}
		k := len(ranked)
		for i, id := range ranked {
			points := float64(k - i - 1)
			if points < 0 {
				points = 0
			}
			totals[id] += points
		}

		for id, score := range vote.Scores {
			if !known[id] {
				continue
			}
			if math.IsNaN(score) || math.IsInf(score, 0) {
				continue
			}
			totals[id] += score
		}
	}

	ranking := make([]RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		ranking = append(ranking, RankedCandidate{CandidateID: c.ID, Score: totals[c.ID]})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Score > ranking[j].Score
	})

	result := VotingResult{Totals: totals, Ranking: ranking}
	if len(ranking) > 0 {
		result.WinnerID = ranking[0].CandidateID
	} else if len(candidates) > 0 {
		result.WinnerID = candidates[0].ID
	}
	return result
}
