package tools

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discord-mcp/internal/apperr"
)

func TestGetUserIDByNameReportsExactTotal(t *testing.T) {
	fc := adminFixture()
	fc.searchMatches = []*discordgo.Member{
		{User: &discordgo.User{ID: "u1", Username: "alice"}},
		{User: &discordgo.User{ID: "u2", Username: "alicia"}, Nick: "ally"},
	}
	d := newDeps(fc)

	out, err := d.getUserIDByName(context.Background(), callReq(map[string]any{
		"username": "ali",
	}))
	require.NoError(t, err)
	assert.Contains(t, out, "Retrieved 2 of 2 matching members")
	assert.Contains(t, out, "Nickname: ally")
}

func TestGetUserIDByNameFullPageDoesNotClaimTotal(t *testing.T) {
	// When the search page fills, the true match count is unknown and the
	// response must not present the page size as the total.
	fc := adminFixture()
	for i := 0; i < memberSearchLimit+5; i++ {
		fc.searchMatches = append(fc.searchMatches, &discordgo.Member{
			User: &discordgo.User{ID: fmt.Sprintf("u%d", i), Username: fmt.Sprintf("alice%d", i)},
		})
	}
	d := newDeps(fc)

	out, err := d.getUserIDByName(context.Background(), callReq(map[string]any{
		"username": "alice",
	}))
	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf("Retrieved first %d matching members", memberSearchLimit))
	assert.NotContains(t, out, "of 10 matching")
	assert.Contains(t, out, "more may exist")
}

func TestGetUserIDByNameNoMatch(t *testing.T) {
	d := newDeps(adminFixture())

	_, err := d.getUserIDByName(context.Background(), callReq(map[string]any{
		"username": "nobody",
	}))
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
