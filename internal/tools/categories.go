package tools

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/mark3labs/mcp-go/mcp"

	"discord-mcp/internal/apperr"
	"discord-mcp/internal/discord"
)

func (d *Deps) categoryTools() []registration {
	return []registration{
		{
			tool: mcp.NewTool("create_category",
				mcp.WithDescription("Create a new channel category on the server"),
				guildOption(),
				mcp.WithString("name", mcp.Required(), mcp.Description("Name of the new category")),
			),
			handler: d.createCategory,
		},
		{
			tool: mcp.NewTool("delete_category",
				mcp.WithDescription("Permanently delete a category. Channels inside it are kept and become uncategorized."),
				guildOption(),
				mcp.WithString("categoryId", mcp.Required(), mcp.Description("ID of the category to delete")),
			),
			handler: d.deleteCategory,
		},
		{
			tool: mcp.NewTool("find_category",
				mcp.WithDescription("Find categories matching a name and return their IDs"),
				guildOption(),
				mcp.WithString("categoryName", mcp.Required(), mcp.Description("Exact name of the category to find")),
			),
			handler: d.findCategory,
		},
		{
			tool: mcp.NewTool("list_channels_in_category",
				mcp.WithDescription("List all channels placed under a category"),
				guildOption(),
				mcp.WithString("categoryId", mcp.Required(), mcp.Description("ID of the category")),
			),
			handler: d.listChannelsInCategory,
		},
	}
}

func (d *Deps) createCategory(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guild, err := d.Resolve.Guild(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	name := req.GetString("name", "")
	if name == "" {
		return "", apperr.InvalidArgument("name cannot be empty")
	}

	ch, err := d.Client.GuildChannelCreate(guild.ID, discordgo.GuildChannelCreateData{
		Name: name,
		Type: discordgo.ChannelTypeGuildCategory,
	})
	if err != nil {
		return "", discord.Normalize(err)
	}
	return fmt.Sprintf("Successfully created category: **%s** (ID: %s)", ch.Name, ch.ID), nil
}

func (d *Deps) deleteCategory(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guildID, err := d.Resolve.GuildID(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	category, err := d.Resolve.Category(guildID, req.GetString("categoryId", ""))
	if err != nil {
		return "", err
	}

	if _, err := d.Client.ChannelDelete(category.ID); err != nil {
		return "", discord.Normalize(err)
	}
	return fmt.Sprintf("Successfully deleted category: **%s** (ID: %s)", category.Name, category.ID), nil
}

func (d *Deps) findCategory(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guild, err := d.Resolve.Guild(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	name := req.GetString("categoryName", "")
	if name == "" {
		return "", apperr.InvalidArgument("categoryName cannot be empty")
	}

	channels, err := d.Client.GuildChannels(guild.ID)
	if err != nil {
		return "", discord.Normalize(err)
	}
	var matches []*discordgo.Channel
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildCategory && ch.Name == name {
			matches = append(matches, ch)
		}
	}
	if len(matches) == 0 {
		return "", apperr.NotFound("No category named **%s** found on this server", name)
	}

	lines := make([]string, 0, len(matches))
	for _, ch := range matches {
		lines = append(lines, fmt.Sprintf("- **%s** (ID: %s)", ch.Name, ch.ID))
	}
	return fmt.Sprintf("Retrieved %d of %d matching categories:\n", len(matches), len(matches)) + joinLines(lines), nil
}

func (d *Deps) listChannelsInCategory(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guildID, err := d.Resolve.GuildID(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	category, err := d.Resolve.Category(guildID, req.GetString("categoryId", ""))
	if err != nil {
		return "", err
	}

	channels, err := d.Client.GuildChannels(guildID)
	if err != nil {
		return "", discord.Normalize(err)
	}
	var members []*discordgo.Channel
	for _, ch := range channels {
		if ch.ParentID == category.ID {
			members = append(members, ch)
		}
	}
	if len(members) == 0 {
		return fmt.Sprintf("Category **%s** contains no channels.", category.Name), nil
	}

	lines := make([]string, 0, len(members))
	for _, ch := range members {
		lines = append(lines, fmt.Sprintf("- **%s** (ID: %s) — %s", ch.Name, ch.ID, channelTypeLabel(ch.Type)))
	}
	return fmt.Sprintf("Retrieved %d of %d channels in category **%s**:\n",
		len(members), len(members), category.Name) + joinLines(lines), nil
}
