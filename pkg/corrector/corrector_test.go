package corrector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestCorrection(t *testing.T) {
	c := New()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "misheard miranda", input: "read mirander rights", expected: "read miranda rights"},
		{name: "misheard threat", input: "threet assessment", expected: "threat assessment"},
		{name: "misheard tactical", input: "tacticle advice", expected: "tactical advice"},
		{name: "misheard language", input: "miranda rights in spannish", expected: "miranda rights in spanish"},
		{name: "clean input untouched", input: "look up statute 14:67", expected: "look up statute 14:67"},
		{name: "unknown words pass through", input: "what is the weather", expected: "what is the weather"},
		{name: "short words never snap", input: "rs 14:67", expected: "rs 14:67"},
		{name: "empty input", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.SuggestCorrection(tt.input))
		})
	}
}

func TestEditDistance(t *testing.T) {
	assert.Equal(t, 0, editDistance("statute", "statute"))
	assert.Equal(t, 7, editDistance("statute", ""))
	assert.Equal(t, 1, editDistance("threet", "threat"))
	assert.Equal(t, 3, editDistance("kitten", "sitting"))
}
