package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ProjectLark/internal/entity"
)

func TestLocalMatch_ThreatAssessment(t *testing.T) {
	m := New()

	resolved := m.Match("threat assessment")
	require.NotNil(t, resolved)
	assert.Equal(t, entity.ActionThreat, resolved.Action)
	assert.Equal(t, entity.TierLocal, resolved.Tier)
	assert.GreaterOrEqual(t, resolved.Confidence, matchThreshold)
}

func TestLocalMatch_MirandaFuzzy(t *testing.T) {
	m := New()

	resolved := m.Match("mirandize the suspect")
	require.NotNil(t, resolved)
	assert.Equal(t, entity.ActionMiranda, resolved.Action)
}

func TestLocalMatch_StatuteWithoutNumber(t *testing.T) {
	m := New()

	resolved := m.Match("look up the statute")
	require.NotNil(t, resolved)
	assert.Equal(t, entity.ActionStatute, resolved.Action)
	assert.Empty(t, resolved.Parameters["statute"])
}

func TestLocalMatch_MissReturnsNil(t *testing.T) {
	m := New()

	assert.Nil(t, m.Match(""))
	assert.Nil(t, m.Match("what's the weather like"))
}

func TestExplain_ReportsEvidence(t *testing.T) {
	m := New()

	resolved, details := m.Explain("threat assessment")
	require.NotNil(t, resolved)
	require.NotEmpty(t, details)

	var sawExact bool
	for _, detail := range details {
		if detail.Type == "exact" && detail.Keyword == "threat" {
			sawExact = true
		}
	}
	assert.True(t, sawExact, "expected an exact keyword hit on 'threat'")
}

func TestExtractParameters(t *testing.T) {
	t.Run("statute colon form", func(t *testing.T) {
		params := extractParameters(entity.ActionStatute, "look up statute 14:67")
		assert.Equal(t, "14:67", params["statute"])
	})

	t.Run("statute bare number normalized", func(t *testing.T) {
		params := extractParameters(entity.ActionStatute, "what does 14.67 say")
		assert.Equal(t, "14:67", params["statute"])
	})

	t.Run("threat location and text", func(t *testing.T) {
		params := extractParameters(entity.ActionThreat, "threat assessment near the north alley")
		assert.Equal(t, "the north alley", params["location"])
		assert.Equal(t, "threat assessment near the north alley", params["threat"])
	})

	t.Run("miranda language", func(t *testing.T) {
		params := extractParameters(entity.ActionMiranda, "Miranda rights in French")
		assert.Equal(t, "french", params["language"])
	})

	t.Run("general query keeps transcript", func(t *testing.T) {
		params := extractParameters(entity.ActionGeneralQuery, "who owns this plate")
		assert.Equal(t, "who owns this plate", params["query"])
	})
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("statute", "statute"))
	assert.Equal(t, 7, levenshteinDistance("", "statute"))
	assert.Equal(t, 1, levenshteinDistance("statute", "statutes"))
	assert.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
}

func TestCleanText(t *testing.T) {
	m := New().(*localMatcher)

	assert.Equal(t, "look up statute 14:67", m.cleanText("  Look up, statute 14:67!  "))
	assert.Equal(t, "jose", m.cleanText("José"))
}
