package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/mark3labs/mcp-go/mcp"

	"discord-mcp/internal/discord"
)

func (d *Deps) serverTools() []registration {
	return []registration{
		{
			tool: mcp.NewTool("get_server_info",
				mcp.WithDescription("Get detailed information about the server: counts, owner, boost status"),
				guildOption(),
			),
			handler: d.getServerInfo,
		},
	}
}

func (d *Deps) getServerInfo(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guild, err := d.Resolve.GuildWithCounts(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}

	channels, err := d.Client.GuildChannels(guild.ID)
	if err != nil {
		return "", discord.Normalize(err)
	}
	var text, voice, categories int
	for _, ch := range channels {
		switch ch.Type {
		case discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews:
			text++
		case discordgo.ChannelTypeGuildVoice, discordgo.ChannelTypeGuildStageVoice:
			voice++
		case discordgo.ChannelTypeGuildCategory:
			categories++
		}
	}

	members := guild.ApproximateMemberCount
	if members == 0 {
		members = guild.MemberCount
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Server: **%s** (ID: %s)\n", guild.Name, guild.ID)
	if guild.Description != "" {
		fmt.Fprintf(&b, "  • Description: %s\n", guild.Description)
	}
	fmt.Fprintf(&b, "  • Owner ID: %s\n", guild.OwnerID)
	fmt.Fprintf(&b, "  • Members: %d (online: %d)\n", members, guild.ApproximatePresenceCount)
	fmt.Fprintf(&b, "  • Channels: %d text, %d voice, %d categories\n", text, voice, categories)
	fmt.Fprintf(&b, "  • Roles: %d\n", len(guild.Roles))
	fmt.Fprintf(&b, "  • Boost tier: %d (%d boosts)", guild.PremiumTier, guild.PremiumSubscriptionCount)
	if created, err := discordgo.SnowflakeTimestamp(guild.ID); err == nil {
		fmt.Fprintf(&b, "\n  • Created: %s", created.UTC().Format("2006-01-02"))
	}
	return b.String(), nil
}
