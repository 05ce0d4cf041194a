package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"discord-mcp/internal/apperr"
	"discord-mcp/internal/discord"
	"discord-mcp/internal/param"
)

const (
	// Discord caps message deletion on ban at 7 days and timeouts at 28.
	maxBanDeleteSeconds = 604800
	maxTimeoutSeconds   = 2419200
)

func (d *Deps) moderationTools() []registration {
	return []registration{
		{
			tool: mcp.NewTool("list_members",
				mcp.WithDescription("List members of the server with their ID, username, and nickname"),
				guildOption(),
				mcp.WithString("limit", mcp.Description("Maximum number of members to return (default 100, max 1000)")),
			),
			handler: d.listMembers,
		},
		{
			tool: mcp.NewTool("kick_member",
				mcp.WithDescription("Kick a member from the server. The user can rejoin with a new invite."),
				guildOption(),
				mcp.WithString("userId", mcp.Required(), mcp.Description("ID of the user to kick")),
				mcp.WithString("reason", mcp.Description("Reason for kicking (visible in the audit log)")),
			),
			handler: d.kickMember,
		},
		{
			tool: mcp.NewTool("ban_member",
				mcp.WithDescription("Ban a user from the server, preventing them from rejoining. Optionally deletes their recent messages."),
				guildOption(),
				mcp.WithString("userId", mcp.Required(), mcp.Description("ID of the user to ban")),
				mcp.WithString("deleteMessageSeconds", mcp.Description("Seconds of message history to delete (max 604800 = 7 days, 0 = none)")),
				mcp.WithString("reason", mcp.Description("Reason for the ban (visible in the audit log)")),
			),
			handler: d.banMember,
		},
		{
			tool: mcp.NewTool("unban_member",
				mcp.WithDescription("Remove a ban from a user, allowing them to rejoin the server"),
				guildOption(),
				mcp.WithString("userId", mcp.Required(), mcp.Description("ID of the user to unban")),
				mcp.WithString("reason", mcp.Description("Reason for removing the ban")),
			),
			handler: d.unbanMember,
		},
		{
			tool: mcp.NewTool("timeout_member",
				mcp.WithDescription("Disable communication for a member for a duration (timeout). Max 28 days."),
				guildOption(),
				mcp.WithString("userId", mcp.Required(), mcp.Description("ID of the member to time out")),
				mcp.WithString("durationSeconds", mcp.Required(), mcp.Description("Timeout duration in seconds (max 2419200 = 28 days)")),
				mcp.WithString("reason", mcp.Description("Reason for the timeout (visible in the audit log)")),
			),
			handler: d.timeoutMember,
		},
		{
			tool: mcp.NewTool("remove_timeout",
				mcp.WithDescription("Remove a timeout from a member before it expires"),
				guildOption(),
				mcp.WithString("userId", mcp.Required(), mcp.Description("ID of the member to release")),
				mcp.WithString("reason", mcp.Description("Reason for removing the timeout")),
			),
			handler: d.removeTimeout,
		},
		{
			tool: mcp.NewTool("set_nickname",
				mcp.WithDescription("Change a member's nickname. An empty nick resets to the original username."),
				guildOption(),
				mcp.WithString("userId", mcp.Required(), mcp.Description("ID of the user")),
				mcp.WithString("nick", mcp.Description("New nickname; empty to reset")),
				mcp.WithString("reason", mcp.Description("Reason for the change")),
			),
			handler: d.setNickname,
		},
		{
			tool: mcp.NewTool("get_bans",
				mcp.WithDescription("List banned users on the server with their ban reasons"),
				guildOption(),
				mcp.WithString("limit", mcp.Description("Maximum number of results to return (default 50)")),
			),
			handler: d.getBans,
		},
	}
}

func (d *Deps) listMembers(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guild, err := d.Resolve.GuildWithCounts(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	v, err := param.Parse(args(req), []param.Rule{
		{Name: "limit", Type: param.Int, Default: int64(100), Bounded: true, Min: 1, Max: 1000},
	})
	if err != nil {
		return "", err
	}
	limit := int(v.Int("limit"))

	members, err := d.Client.GuildMembers(guild.ID, "", 1000)
	if err != nil {
		return "", discord.Normalize(err)
	}
	total := guild.ApproximateMemberCount
	if total < len(members) {
		total = len(members)
	}
	if len(members) == 0 {
		return "No members found on this server.", nil
	}
	if len(members) > limit {
		members = members[:limit]
	}

	lines := make([]string, 0, len(members))
	for _, m := range members {
		line := fmt.Sprintf("- %s", userLabel(m.User))
		if m.Nick != "" {
			line += fmt.Sprintf(" — Nickname: %s", m.Nick)
		}
		lines = append(lines, line)
	}
	return listHeader(len(members), total, "members") + joinLines(lines), nil
}

func (d *Deps) kickMember(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guild, err := d.Resolve.Guild(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	member, err := d.Resolve.Member(guild.ID, req.GetString("userId", ""))
	if err != nil {
		return "", err
	}
	if err := d.Resolve.EnsureAboveMember(guild, member, "kick"); err != nil {
		return "", err
	}

	reason := req.GetString("reason", "")
	if err := d.Client.GuildMemberKick(guild.ID, member.User.ID, reason); err != nil {
		return "", discord.Normalize(err)
	}
	return fmt.Sprintf("Successfully kicked user %s.%s", userLabel(member.User), reasonSuffix(reason)), nil
}

func (d *Deps) banMember(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guild, err := d.Resolve.Guild(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	userID := req.GetString("userId", "")
	if userID == "" {
		return "", apperr.InvalidArgument("userId cannot be empty")
	}
	v, err := param.Parse(args(req), []param.Rule{
		{Name: "deleteMessageSeconds", Type: param.Int, Default: int64(0), Bounded: true, Min: 0, Max: maxBanDeleteSeconds, Hint: "7 days"},
	})
	if err != nil {
		return "", err
	}

	// Bans may target users who already left, so the hierarchy check only
	// applies when the target still resolves as a member.
	if member, err := d.Resolve.Member(guild.ID, userID); err == nil {
		if err := d.Resolve.EnsureAboveMember(guild, member, "ban"); err != nil {
			return "", err
		}
	} else if apperr.KindOf(err) != apperr.KindNotFound {
		return "", err
	}

	deleteSeconds := v.Int("deleteMessageSeconds")
	deleteDays := int((deleteSeconds + 86399) / 86400)
	reason := req.GetString("reason", "")
	if err := d.Client.GuildBanCreate(guild.ID, userID, reason, deleteDays); err != nil {
		return "", discord.Normalize(err)
	}
	return fmt.Sprintf("Successfully banned user ID **%s**.%s", userID, reasonSuffix(reason)), nil
}

func (d *Deps) unbanMember(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guild, err := d.Resolve.Guild(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	userID := req.GetString("userId", "")
	if userID == "" {
		return "", apperr.InvalidArgument("userId cannot be empty")
	}
	reason := req.GetString("reason", "")
	if err := d.Client.GuildBanDelete(guild.ID, userID); err != nil {
		return "", discord.Normalize(err)
	}
	return fmt.Sprintf("Successfully unbanned user ID **%s**.%s", userID, reasonSuffix(reason)), nil
}

func (d *Deps) timeoutMember(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guild, err := d.Resolve.Guild(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	member, err := d.Resolve.Member(guild.ID, req.GetString("userId", ""))
	if err != nil {
		return "", err
	}
	v, err := param.Parse(args(req), []param.Rule{
		{Name: "durationSeconds", Type: param.Int, Required: true, Bounded: true, Min: 1, Max: maxTimeoutSeconds, Hint: "28 days"},
	})
	if err != nil {
		return "", err
	}
	if err := d.Resolve.EnsureAboveMember(guild, member, "timeout"); err != nil {
		return "", err
	}

	duration := v.Int("durationSeconds")
	until := time.Now().Add(time.Duration(duration) * time.Second)
	if err := d.Client.GuildMemberTimeout(guild.ID, member.User.ID, &until); err != nil {
		return "", discord.Normalize(err)
	}
	reason := req.GetString("reason", "")
	return fmt.Sprintf("Successfully timed out user %s for %d seconds.%s",
		userLabel(member.User), duration, reasonSuffix(reason)), nil
}

func (d *Deps) removeTimeout(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guild, err := d.Resolve.Guild(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	member, err := d.Resolve.Member(guild.ID, req.GetString("userId", ""))
	if err != nil {
		return "", err
	}
	if err := d.Resolve.EnsureAboveMember(guild, member, "remove the timeout from"); err != nil {
		return "", err
	}

	if err := d.Client.GuildMemberTimeout(guild.ID, member.User.ID, nil); err != nil {
		return "", discord.Normalize(err)
	}
	return fmt.Sprintf("Successfully removed timeout from user %s.%s",
		userLabel(member.User), reasonSuffix(req.GetString("reason", ""))), nil
}

func (d *Deps) setNickname(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guild, err := d.Resolve.Guild(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	member, err := d.Resolve.Member(guild.ID, req.GetString("userId", ""))
	if err != nil {
		return "", err
	}
	if err := d.Resolve.EnsureAboveMember(guild, member, "change the nickname of"); err != nil {
		return "", err
	}

	nick := req.GetString("nick", "")
	if err := d.Client.GuildMemberNickname(guild.ID, member.User.ID, nick); err != nil {
		return "", discord.Normalize(err)
	}
	verb := "set"
	if nick == "" {
		verb = "reset"
	}
	return fmt.Sprintf("Successfully %s nickname of user %s.%s",
		verb, userLabel(member.User), reasonSuffix(req.GetString("reason", ""))), nil
}

func (d *Deps) getBans(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guild, err := d.Resolve.Guild(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	v, err := param.Parse(args(req), []param.Rule{
		{Name: "limit", Type: param.Int, Default: int64(50), Positive: true},
	})
	if err != nil {
		return "", err
	}
	limit := int(v.Int("limit"))

	bans, err := d.Client.GuildBans(guild.ID, 1000)
	if err != nil {
		return "", discord.Normalize(err)
	}
	if len(bans) == 0 {
		return "No banned users found on this server.", nil
	}

	total := len(bans)
	if len(bans) > limit {
		bans = bans[:limit]
	}
	lines := make([]string, 0, len(bans))
	for _, ban := range bans {
		reason := ban.Reason
		if reason == "" {
			reason = "No reason provided"
		}
		lines = append(lines, fmt.Sprintf("- %s — Reason: %s", userLabel(ban.User), reason))
	}
	return listHeader(len(bans), total, "bans") + joinLines(lines), nil
}
