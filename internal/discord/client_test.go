package discord

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelEditParamsZeroUserLimit(t *testing.T) {
	// An explicit zero means "unlimited" and must reach the wire; a plain
	// int field would vanish behind omitempty.
	zero := 0
	body, err := json.Marshal(&ChannelEditParams{UserLimit: &zero})
	require.NoError(t, err)
	assert.JSONEq(t, `{"user_limit":0}`, string(body))
}

func TestChannelEditParamsOmitsUnsetFields(t *testing.T) {
	body, err := json.Marshal(&ChannelEditParams{Name: "Lounge"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Lounge"}`, string(body))

	body, err = json.Marshal(&ChannelEditParams{})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(body))
}
