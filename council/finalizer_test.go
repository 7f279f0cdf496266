package council

import (
	"strings"
	"testing"
)

func TestCapWords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"under limit", "short title", 12, "short title"},
		{"exactly limit", "a b c", 3, "a b c"},
		{"over limit", "one two three four five", 3, "one two three"},
		{"collapses whitespace", "  spaced   out  ", 12, "spaced out"},
		{"empty", "", 12, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := capWords(tt.in, tt.max); got != tt.want {
				t.Errorf("capWords(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestTitleFromQuestion(t *testing.T) {
	long := strings.Repeat("word ", 30)
	title := titleFromQuestion(long)
	if got := len(strings.Fields(title)); got != titleMaxWords {
		t.Errorf("derived title has %d words, want %d", got, titleMaxWords)
	}

	if got := titleFromQuestion("Why?"); got != "Why?" {
		t.Errorf("short question should pass through, got %q", got)
	}
}
