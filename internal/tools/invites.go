package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/mark3labs/mcp-go/mcp"

	"discord-mcp/internal/apperr"
	"discord-mcp/internal/discord"
	"discord-mcp/internal/param"
)

const (
	defaultInviteMaxAge = 86400
	maxInviteMaxAge     = 604800
	maxInviteMaxUses    = 100
)

func (d *Deps) inviteTools() []registration {
	return []registration{
		{
			tool: mcp.NewTool("create_invite",
				mcp.WithDescription("Create an invite link for a channel"),
				guildOption(),
				mcp.WithString("channelId", mcp.Required(), mcp.Description("ID of the channel the invite points at")),
				mcp.WithString("maxAge", mcp.Description("Invite lifetime in seconds (default 86400 = 1 day, 0 = never expires, max 604800)")),
				mcp.WithString("maxUses", mcp.Description("Maximum number of uses (default 0 = unlimited, max 100)")),
				mcp.WithString("temporary", mcp.Description("Grant temporary membership (default false)")),
				mcp.WithString("unique", mcp.Description("Force a new invite instead of reusing an equivalent one (default false)")),
			),
			handler: d.createInvite,
		},
		{
			tool: mcp.NewTool("list_invites",
				mcp.WithDescription("List all active invites on the server"),
				guildOption(),
			),
			handler: d.listInvites,
		},
		{
			tool: mcp.NewTool("delete_invite",
				mcp.WithDescription("Revoke an invite by code or URL"),
				mcp.WithString("inviteCode", mcp.Required(), mcp.Description("Invite code or full invite URL")),
			),
			handler: d.deleteInvite,
		},
		{
			tool: mcp.NewTool("get_invite_details",
				mcp.WithDescription("Show details of an invite by code or URL"),
				mcp.WithString("inviteCode", mcp.Required(), mcp.Description("Invite code or full invite URL")),
				mcp.WithString("withCounts", mcp.Description("Include approximate member counts (default true)")),
			),
			handler: d.getInviteDetails,
		},
	}
}

// extractInviteCode reduces an invite reference to its bare code. Both full
// invite URLs and bare codes are accepted; a bare code passes through
// unchanged, so normalizing twice is a no-op.
func extractInviteCode(ref string) string {
	code := strings.TrimSpace(ref)
	for _, prefix := range []string{
		"https://discord.gg/",
		"http://discord.gg/",
		"https://discord.com/invite/",
		"http://discord.com/invite/",
	} {
		code = strings.TrimPrefix(code, prefix)
	}
	return code
}

func formatInvite(inv *discordgo.Invite) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- **https://discord.gg/%s**", inv.Code)
	if inv.Channel != nil {
		fmt.Fprintf(&b, "\n  • Channel: %s", inv.Channel.Name)
	}
	if inv.Inviter != nil {
		fmt.Fprintf(&b, "\n  • Created by: %s", inv.Inviter.Username)
	}
	fmt.Fprintf(&b, "\n  • Uses: %d / %s", inv.Uses, orUnlimited(inv.MaxUses))
	if inv.MaxAge > 0 {
		fmt.Fprintf(&b, "\n  • Expires after: %d seconds", inv.MaxAge)
	} else {
		b.WriteString("\n  • Expires: never")
	}
	if inv.Temporary {
		b.WriteString("\n  • Temporary membership")
	}
	return b.String()
}

func (d *Deps) createInvite(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guildID, err := d.Resolve.GuildID(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	ch, err := d.Resolve.InviteCapableChannel(guildID, req.GetString("channelId", ""))
	if err != nil {
		return "", err
	}
	v, err := param.Parse(args(req), []param.Rule{
		{Name: "maxAge", Type: param.Int, Default: int64(defaultInviteMaxAge), Bounded: true, Min: 0, Max: maxInviteMaxAge, Hint: "7 days"},
		{Name: "maxUses", Type: param.Int, Default: int64(0), Bounded: true, Min: 0, Max: maxInviteMaxUses},
		{Name: "temporary", Type: param.Bool, Default: false},
		{Name: "unique", Type: param.Bool, Default: false},
	})
	if err != nil {
		return "", err
	}

	inv, err := d.Client.ChannelInviteCreate(ch.ID, discordgo.Invite{
		MaxAge:    int(v.Int("maxAge")),
		MaxUses:   int(v.Int("maxUses")),
		Temporary: v.Bool("temporary"),
		Unique:    v.Bool("unique"),
	})
	if err != nil {
		return "", discord.Normalize(err)
	}
	return fmt.Sprintf("Successfully created invite for **%s**: https://discord.gg/%s\n  • Max uses: %s\n  • Max age: %d seconds",
		ch.Name, inv.Code, orUnlimited(inv.MaxUses), inv.MaxAge), nil
}

func (d *Deps) listInvites(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guild, err := d.Resolve.Guild(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	invites, err := d.Client.GuildInvites(guild.ID)
	if err != nil {
		return "", discord.Normalize(err)
	}
	if len(invites) == 0 {
		return "No active invites found on this server.", nil
	}

	lines := make([]string, 0, len(invites))
	for _, inv := range invites {
		lines = append(lines, formatInvite(inv))
	}
	return listHeader(len(invites), len(invites), "invites") + joinLines(lines), nil
}

func (d *Deps) deleteInvite(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	code := extractInviteCode(req.GetString("inviteCode", ""))
	if code == "" {
		return "", apperr.InvalidArgument("inviteCode cannot be empty")
	}
	if _, err := d.Client.InviteDelete(code); err != nil {
		return "", discord.Normalize(err)
	}
	return fmt.Sprintf("Successfully deleted invite **%s**", code), nil
}

func (d *Deps) getInviteDetails(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	code := extractInviteCode(req.GetString("inviteCode", ""))
	if code == "" {
		return "", apperr.InvalidArgument("inviteCode cannot be empty")
	}
	v, err := param.Parse(args(req), []param.Rule{
		{Name: "withCounts", Type: param.Bool, Default: true},
	})
	if err != nil {
		return "", err
	}

	inv, err := d.Client.Invite(code, v.Bool("withCounts"))
	if err != nil {
		return "", discord.Normalize(err)
	}
	out := "Invite details:\n" + formatInvite(inv)
	if inv.Guild != nil {
		out += fmt.Sprintf("\n  • Server: %s", inv.Guild.Name)
	}
	if v.Bool("withCounts") {
		out += fmt.Sprintf("\n  • Approximate members: %d (online: %d)",
			inv.ApproximateMemberCount, inv.ApproximatePresenceCount)
	}
	return out, nil
}
