package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"discord-mcp/internal/discord"
)

func (d *Deps) threadTools() []registration {
	return []registration{
		{
			tool: mcp.NewTool("list_active_threads",
				mcp.WithDescription("List all active (non-archived) threads on the server with their parent channel"),
				guildOption(),
			),
			handler: d.listActiveThreads,
		},
	}
}

func (d *Deps) listActiveThreads(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guild, err := d.Resolve.Guild(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	threads, err := d.Client.GuildThreadsActive(guild.ID)
	if err != nil {
		return "", discord.Normalize(err)
	}
	if threads == nil || len(threads.Threads) == 0 {
		return "No active threads found on this server.", nil
	}

	// Parent names come from the guild channel list; threads only carry the
	// parent ID.
	parentNames := map[string]string{}
	if channels, err := d.Client.GuildChannels(guild.ID); err == nil {
		for _, ch := range channels {
			parentNames[ch.ID] = ch.Name
		}
	}

	lines := make([]string, 0, len(threads.Threads))
	for _, t := range threads.Threads {
		parent := parentNames[t.ParentID]
		if parent == "" {
			parent = t.ParentID
		}
		line := fmt.Sprintf("- **%s** (ID: %s)\n  • Parent channel: %s", t.Name, t.ID, parent)
		if t.MemberCount > 0 {
			line += fmt.Sprintf("\n  • Members: %d", t.MemberCount)
		}
		lines = append(lines, line)
	}
	return listHeader(len(threads.Threads), len(threads.Threads), "active threads") + joinLines(lines), nil
}
