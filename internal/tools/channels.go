package tools

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/mark3labs/mcp-go/mcp"

	"discord-mcp/internal/apperr"
	"discord-mcp/internal/discord"
	"discord-mcp/internal/param"
)

func (d *Deps) channelTools() []registration {
	return []registration{
		{
			tool: mcp.NewTool("create_text_channel",
				mcp.WithDescription("Create a new text channel, optionally under a category"),
				guildOption(),
				mcp.WithString("name", mcp.Required(), mcp.Description("Name of the new channel")),
				mcp.WithString("categoryId", mcp.Description("ID of the category to place the channel under")),
				mcp.WithString("topic", mcp.Description("Channel topic")),
			),
			handler: d.createTextChannel,
		},
		{
			tool: mcp.NewTool("delete_channel",
				mcp.WithDescription("Permanently delete a channel"),
				guildOption(),
				mcp.WithString("channelId", mcp.Required(), mcp.Description("ID of the channel to delete")),
			),
			handler: d.deleteChannel,
		},
		{
			tool: mcp.NewTool("find_channel",
				mcp.WithDescription("Find text channels matching a name and return their IDs"),
				guildOption(),
				mcp.WithString("channelName", mcp.Required(), mcp.Description("Exact name of the channel to find")),
			),
			handler: d.findChannel,
		},
		{
			tool: mcp.NewTool("list_channels",
				mcp.WithDescription("List channels on the server with their ID and type"),
				guildOption(),
				mcp.WithString("limit", mcp.Description("Maximum number of channels to return (default 100)")),
			),
			handler: d.listChannels,
		},
	}
}

func (d *Deps) createTextChannel(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guild, err := d.Resolve.Guild(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	name := req.GetString("name", "")
	if name == "" {
		return "", apperr.InvalidArgument("name cannot be empty")
	}

	data := discordgo.GuildChannelCreateData{
		Name:  name,
		Type:  discordgo.ChannelTypeGuildText,
		Topic: req.GetString("topic", ""),
	}
	if categoryID := req.GetString("categoryId", ""); categoryID != "" {
		category, err := d.Resolve.Category(guild.ID, categoryID)
		if err != nil {
			return "", err
		}
		data.ParentID = category.ID
	}

	ch, err := d.Client.GuildChannelCreate(guild.ID, data)
	if err != nil {
		return "", discord.Normalize(err)
	}
	out := fmt.Sprintf("Successfully created text channel: **%s** (ID: %s)", ch.Name, ch.ID)
	if ch.Topic != "" {
		out += fmt.Sprintf("\n  • Topic: %s", ch.Topic)
	}
	if ch.ParentID != "" {
		out += fmt.Sprintf("\n  • Category ID: %s", ch.ParentID)
	}
	return out, nil
}

func (d *Deps) deleteChannel(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guildID, err := d.Resolve.GuildID(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	ch, err := d.Resolve.Channel(guildID, req.GetString("channelId", ""))
	if err != nil {
		return "", err
	}

	if _, err := d.Client.ChannelDelete(ch.ID); err != nil {
		return "", discord.Normalize(err)
	}
	return fmt.Sprintf("Successfully deleted %s channel: **%s** (ID: %s)",
		channelTypeLabel(ch.Type), ch.Name, ch.ID), nil
}

func (d *Deps) findChannel(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guild, err := d.Resolve.Guild(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	name := req.GetString("channelName", "")
	if name == "" {
		return "", apperr.InvalidArgument("channelName cannot be empty")
	}

	channels, err := d.Client.GuildChannels(guild.ID)
	if err != nil {
		return "", discord.Normalize(err)
	}
	var matches []*discordgo.Channel
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildText && ch.Name == name {
			matches = append(matches, ch)
		}
	}
	if len(matches) == 0 {
		return "", apperr.NotFound("No text channel named **%s** found on this server", name)
	}

	lines := make([]string, 0, len(matches))
	for _, ch := range matches {
		lines = append(lines, fmt.Sprintf("- **%s** (ID: %s)", ch.Name, ch.ID))
	}
	return fmt.Sprintf("Retrieved %d of %d matching channels:\n", len(matches), len(matches)) + joinLines(lines), nil
}

func (d *Deps) listChannels(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guild, err := d.Resolve.Guild(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	v, err := param.Parse(args(req), []param.Rule{
		{Name: "limit", Type: param.Int, Default: int64(100), Positive: true},
	})
	if err != nil {
		return "", err
	}
	limit := int(v.Int("limit"))

	channels, err := d.Client.GuildChannels(guild.ID)
	if err != nil {
		return "", discord.Normalize(err)
	}
	total := len(channels)
	if total == 0 {
		return "No channels found on this server.", nil
	}
	if len(channels) > limit {
		channels = channels[:limit]
	}

	lines := make([]string, 0, len(channels))
	for _, ch := range channels {
		lines = append(lines, fmt.Sprintf("- **%s** (ID: %s) — %s", ch.Name, ch.ID, channelTypeLabel(ch.Type)))
	}
	return listHeader(len(channels), total, "channels") + joinLines(lines), nil
}
