package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAction(t *testing.T) {
	assert.Equal(t, ActionMiranda, ParseAction("miranda"))
	assert.Equal(t, ActionGeneralQuery, ParseAction("general_query"))
	assert.Equal(t, ActionUnknown, ParseAction("make_coffee"))
	assert.Equal(t, ActionUnknown, ParseAction(""))
	assert.Equal(t, ActionUnknown, ParseAction("unknown"))
}

func TestActionValid(t *testing.T) {
	assert.True(t, ActionStatute.Valid())
	assert.False(t, ActionUnknown.Valid())
	assert.False(t, Action("make_coffee").Valid())
}

func TestResolvedCommandParam(t *testing.T) {
	cmd := &ResolvedCommand{Parameters: map[string]string{"statute": "14:67"}}
	assert.Equal(t, "14:67", cmd.Param("statute"))
	assert.Equal(t, "", cmd.Param("language"))

	empty := &ResolvedCommand{}
	assert.Equal(t, "", empty.Param("statute"))
}
