package tools

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discord-mcp/internal/apperr"
)

func TestFindChannelExactMatch(t *testing.T) {
	fc := adminFixture()
	d := newDeps(fc)

	out, err := d.findChannel(context.Background(), callReq(map[string]any{
		"channelName": "general",
	}))
	require.NoError(t, err)
	assert.Contains(t, out, "(ID: c-text)")

	// Voice channels with the same name do not count as text channels.
	_, err = d.findChannel(context.Background(), callReq(map[string]any{
		"channelName": "Lounge",
	}))
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCreateTextChannelUnderCategory(t *testing.T) {
	fc := adminFixture()
	fc.channels["c-cat"] = &discordgo.Channel{
		ID: "c-cat", GuildID: "g1", Name: "Admin", Type: discordgo.ChannelTypeGuildCategory,
	}
	d := newDeps(fc)

	out, err := d.createTextChannel(context.Background(), callReq(map[string]any{
		"name":       "rules",
		"categoryId": "c-cat",
		"topic":      "Read first",
	}))
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully created text channel")
	assert.Contains(t, out, "Topic: Read first")
	assert.Contains(t, out, "Category ID: c-cat")
}

func TestCreateTextChannelRejectsNonCategoryParent(t *testing.T) {
	d := newDeps(adminFixture())

	_, err := d.createTextChannel(context.Background(), callReq(map[string]any{
		"name":       "rules",
		"categoryId": "c-text",
	}))
	require.Error(t, err)
	assert.Equal(t, apperr.KindTypeMismatch, apperr.KindOf(err))
}

func TestListChannelsTruncates(t *testing.T) {
	fc := adminFixture()
	d := newDeps(fc)

	out, err := d.listChannels(context.Background(), callReq(map[string]any{
		"limit": "1",
	}))
	require.NoError(t, err)
	assert.Contains(t, out, "Retrieved 1 of 2 channels")
}
