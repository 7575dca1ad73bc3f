package corrector

import (
	"strings"
)

// ICorrector normalizes a raw transcript against known-good command
// phrasings. Best effort: the input is returned unchanged when no close
// correction exists.
type ICorrector interface {
	SuggestCorrection(text string) string
}

type corrector struct {
	vocabulary []string
}

func New() ICorrector {
	return &corrector{
		vocabulary: []string{
			"miranda", "rights", "statute", "threat", "tactical",
			"assessment", "lookup", "spanish", "english", "french",
			"vietnamese", "mandarin", "backup", "perimeter", "pursuit",
			"suspect", "louisiana", "read", "assess",
		},
	}
}

// SuggestCorrection fixes per-word transcription slips (e.g. "mirander
// rites") by snapping each token to the closest vocabulary word within a
// small edit distance. Unknown words pass through untouched.
func (c *corrector) SuggestCorrection(text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}

	changed := false
	corrected := make([]string, len(words))
	for i, word := range words {
		replacement := c.closest(strings.ToLower(word))
		if replacement != "" && !strings.EqualFold(replacement, word) {
			corrected[i] = replacement
			changed = true
		} else {
			corrected[i] = word
		}
	}

	if !changed {
		return text
	}

	return strings.Join(corrected, " ")
}

func (c *corrector) closest(word string) string {
	if len(word) < 4 {
		return ""
	}

	best := ""
	bestDistance := 3
	for _, candidate := range c.vocabulary {
		distance := editDistance(word, candidate)
		if distance < bestDistance {
			best = candidate
			bestDistance = distance
		}
	}

	// Require the correction to be close relative to word length; short
	// words snap too eagerly otherwise.
	if best != "" && bestDistance*4 <= len(word) {
		return best
	}
	if best != "" && bestDistance <= 2 && len(word) >= 6 {
		return best
	}

	return ""
}

func editDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	previous := make([]int, len(s2)+1)
	current := make([]int, len(s2)+1)
	for j := range previous {
		previous[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		current[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}

			current[j] = previous[j] + 1
			if current[j-1]+1 < current[j] {
				current[j] = current[j-1] + 1
			}
			if previous[j-1]+cost < current[j] {
				current[j] = previous[j-1] + cost
			}
		}
		previous, current = current, previous
	}

	return previous[len(s2)]
}
