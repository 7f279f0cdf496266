package council

import (
	"fmt"
	"strings"
)

// CondenseHistory renders the trailing maxTurns of a conversation as Q/A
// lines and clips the rendered text to its trailing charBudget characters
// when it runs over budget. Keeping the tail favors the most recent context.
//
// Returns "" for an empty history or non-positive limits.
func CondenseHistory(turns []HistoryTurn, maxTurns, charBudget int) string {
	if len(turns) == 0 || maxTurns <= 0 || charBudget <= 0 {
		return ""
	}

	if len(turns) > maxTurns {
		turns = turns[len(turns)-maxTurns:]
	}

	var b strings.Builder
	for _, turn := range turns {
		fmt.Fprintf(&b, "Q: %s\nA: %s\n", turn.Question, turn.Answer)
	}
	text := strings.TrimSpace(b.String())

	if len(text) > charBudget {
		text = text[len(text)-charBudget:]
	}
	return text
}
