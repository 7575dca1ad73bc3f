package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ProjectLark/internal/entity"
)

func TestOfflineMatch_Miranda(t *testing.T) {
	m := NewOffline()

	t.Run("with language", func(t *testing.T) {
		resolved := m.Match("read miranda rights in spanish")
		require.NotNil(t, resolved)
		assert.Equal(t, entity.ActionMiranda, resolved.Action)
		assert.Equal(t, entity.TierOffline, resolved.Tier)
		assert.Equal(t, 1.0, resolved.Confidence)
		assert.Equal(t, "spanish", resolved.Parameters["language"])
	})

	t.Run("pronoun phrasing without language", func(t *testing.T) {
		resolved := m.Match("read him his rights")
		require.NotNil(t, resolved)
		assert.Equal(t, entity.ActionMiranda, resolved.Action)
		assert.Empty(t, resolved.Parameters["language"])
	})
}

func TestOfflineMatch_Statute(t *testing.T) {
	m := NewOffline()

	tests := []struct {
		name       string
		transcript string
		statute    string
	}{
		{name: "colon separated", transcript: "look up statute 14:67", statute: "14:67"},
		{name: "dot separated rs", transcript: "what is rs 14.67", statute: "14:67"},
		{name: "subsection", transcript: "statute 32:58.1 please", statute: "32:58.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved := m.Match(tt.transcript)
			require.NotNil(t, resolved)
			assert.Equal(t, entity.ActionStatute, resolved.Action)
			assert.Equal(t, entity.TierOffline, resolved.Tier)
			assert.Equal(t, tt.statute, resolved.Parameters["statute"])
		})
	}
}

func TestOfflineMatch_Misses(t *testing.T) {
	m := NewOffline()

	assert.Nil(t, m.Match(""))
	assert.Nil(t, m.Match("   "))
	assert.Nil(t, m.Match("what's the weather like"))
	assert.Nil(t, m.Match("give me a threat assessment"))
}
