package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discord-mcp/internal/apperr"
)

func TestExtractInviteCode(t *testing.T) {
	cases := []struct{ in, want string }{
		{"abc123", "abc123"},
		{"https://discord.gg/abc123", "abc123"},
		{"http://discord.gg/abc123", "abc123"},
		{"https://discord.com/invite/abc123", "abc123"},
		{"http://discord.com/invite/abc123", "abc123"},
		{"  https://discord.gg/abc123  ", "abc123"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, extractInviteCode(tc.in), "input %q", tc.in)
	}
}

func TestExtractInviteCodeIdempotent(t *testing.T) {
	for _, in := range []string{"abc123", "https://discord.gg/abc123", " xYz "} {
		once := extractInviteCode(in)
		assert.Equal(t, once, extractInviteCode(once), "input %q", in)
	}
}

func TestCreateInviteDefaults(t *testing.T) {
	fc := adminFixture()
	d := newDeps(fc)

	out, err := d.createInvite(context.Background(), callReq(map[string]any{
		"channelId": "c-text",
	}))
	require.NoError(t, err)
	require.NotNil(t, fc.createdInvite)
	assert.Equal(t, 86400, fc.createdInvite.MaxAge)
	assert.Equal(t, 0, fc.createdInvite.MaxUses)
	assert.False(t, fc.createdInvite.Temporary)
	assert.Contains(t, out, "https://discord.gg/abc123")
	assert.Contains(t, out, "Max uses: Unlimited")
}

func TestCreateInviteBounds(t *testing.T) {
	d := newDeps(adminFixture())

	_, err := d.createInvite(context.Background(), callReq(map[string]any{
		"channelId": "c-text", "maxAge": "604801",
	}))
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = d.createInvite(context.Background(), callReq(map[string]any{
		"channelId": "c-text", "maxUses": "101",
	}))
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestDeleteInviteAcceptsURL(t *testing.T) {
	fc := adminFixture()
	d := newDeps(fc)

	out, err := d.deleteInvite(context.Background(), callReq(map[string]any{
		"inviteCode": "https://discord.com/invite/abc123",
	}))
	require.NoError(t, err)
	assert.Equal(t, "abc123", fc.deletedInvite)
	assert.Contains(t, out, "abc123")
}
