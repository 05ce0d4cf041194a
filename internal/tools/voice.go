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

const maxVoiceUserLimit = 99

func (d *Deps) voiceTools() []registration {
	return []registration{
		{
			tool: mcp.NewTool("create_voice_channel",
				mcp.WithDescription("Create a new voice channel, optionally under a category"),
				guildOption(),
				mcp.WithString("name", mcp.Required(), mcp.Description("Name of the new channel")),
				mcp.WithString("categoryId", mcp.Description("ID of the category to place the channel under")),
				mcp.WithString("userLimit", mcp.Description("Maximum members allowed in the channel (0-99, 0 = unlimited)")),
				mcp.WithString("bitrate", mcp.Description("Audio bitrate in bits per second")),
			),
			handler: d.createVoiceChannel,
		},
		{
			tool: mcp.NewTool("create_stage_channel",
				mcp.WithDescription("Create a new stage channel, optionally under a category"),
				guildOption(),
				mcp.WithString("name", mcp.Required(), mcp.Description("Name of the new channel")),
				mcp.WithString("categoryId", mcp.Description("ID of the category to place the channel under")),
				mcp.WithString("bitrate", mcp.Description("Audio bitrate in bits per second")),
			),
			handler: d.createStageChannel,
		},
		{
			tool: mcp.NewTool("edit_voice_channel",
				mcp.WithDescription("Update settings of a voice or stage channel; only supplied parameters change"),
				guildOption(),
				mcp.WithString("channelId", mcp.Required(), mcp.Description("ID of the channel to edit")),
				mcp.WithString("name", mcp.Description("New name")),
				mcp.WithString("bitrate", mcp.Description("New audio bitrate in bits per second")),
				mcp.WithString("userLimit", mcp.Description("New member limit (0-99, 0 = unlimited)")),
			),
			handler: d.editVoiceChannel,
		},
		{
			tool: mcp.NewTool("move_member",
				mcp.WithDescription("Move a member to another voice channel. The member must already be connected to voice."),
				guildOption(),
				mcp.WithString("userId", mcp.Required(), mcp.Description("ID of the member to move")),
				mcp.WithString("channelId", mcp.Required(), mcp.Description("ID of the destination voice channel")),
			),
			handler: d.moveMember,
		},
		{
			tool: mcp.NewTool("disconnect_member",
				mcp.WithDescription("Disconnect a member from voice. The member must be connected to voice."),
				guildOption(),
				mcp.WithString("userId", mcp.Required(), mcp.Description("ID of the member to disconnect")),
			),
			handler: d.disconnectMember,
		},
		{
			tool: mcp.NewTool("modify_voice_state",
				mcp.WithDescription("Server-mute or server-deafen a member connected to voice"),
				guildOption(),
				mcp.WithString("userId", mcp.Required(), mcp.Description("ID of the member")),
				mcp.WithString("mute", mcp.Description("Server mute on (true) or off (false)")),
				mcp.WithString("deafen", mcp.Description("Server deafen on (true) or off (false)")),
			),
			handler: d.modifyVoiceState,
		},
	}
}

var audioChannelRules = []param.Rule{
	{Name: "userLimit", Type: param.Int, Bounded: true, Min: 0, Max: maxVoiceUserLimit},
	{Name: "bitrate", Type: param.Int, Positive: true},
}

func (d *Deps) createAudioChannel(req mcp.CallToolRequest, chType discordgo.ChannelType, kind string) (string, error) {
	guild, err := d.Resolve.Guild(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	name := req.GetString("name", "")
	if name == "" {
		return "", apperr.InvalidArgument("name cannot be empty")
	}
	v, err := param.Parse(args(req), audioChannelRules)
	if err != nil {
		return "", err
	}

	data := discordgo.GuildChannelCreateData{
		Name:      name,
		Type:      chType,
		UserLimit: int(v.Int("userLimit")),
		Bitrate:   int(v.Int("bitrate")),
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
	out := fmt.Sprintf("Successfully created %s channel: **%s** (ID: %s)", kind, ch.Name, ch.ID)
	if chType == discordgo.ChannelTypeGuildVoice {
		out += fmt.Sprintf("\n  • User limit: %s", orUnlimited(ch.UserLimit))
	}
	if ch.Bitrate > 0 {
		out += fmt.Sprintf("\n  • Bitrate: %d", ch.Bitrate)
	}
	if ch.ParentID != "" {
		out += fmt.Sprintf("\n  • Category ID: %s", ch.ParentID)
	}
	return out, nil
}

func (d *Deps) createVoiceChannel(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	return d.createAudioChannel(req, discordgo.ChannelTypeGuildVoice, "voice")
}

func (d *Deps) createStageChannel(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	return d.createAudioChannel(req, discordgo.ChannelTypeGuildStageVoice, "stage")
}

func (d *Deps) editVoiceChannel(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guildID, err := d.Resolve.GuildID(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	ch, err := d.Resolve.AudioChannel(guildID, req.GetString("channelId", ""))
	if err != nil {
		return "", err
	}
	v, err := param.Parse(args(req), audioChannelRules)
	if err != nil {
		return "", err
	}

	edit := &discord.ChannelEditParams{
		Name: req.GetString("name", ""),
	}
	if v.Has("bitrate") {
		edit.Bitrate = int(v.Int("bitrate"))
	}
	if v.Has("userLimit") {
		// Pointer so an explicit 0 (unlimited) survives serialization.
		limit := int(v.Int("userLimit"))
		edit.UserLimit = &limit
	}

	updated, err := d.Client.ChannelEdit(ch.ID, edit)
	if err != nil {
		return "", discord.Normalize(err)
	}
	return fmt.Sprintf("Successfully updated %s channel: **%s** (ID: %s)\n  • Bitrate: %d\n  • User limit: %s",
		channelTypeLabel(updated.Type), updated.Name, updated.ID, updated.Bitrate, orUnlimited(updated.UserLimit)), nil
}

func (d *Deps) moveMember(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guild, err := d.Resolve.Guild(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	member, err := d.Resolve.Member(guild.ID, req.GetString("userId", ""))
	if err != nil {
		return "", err
	}
	if _, err := d.Resolve.VoiceState(guild.ID, member.User.ID); err != nil {
		return "", err
	}
	dest, err := d.Resolve.AudioChannel(guild.ID, req.GetString("channelId", ""))
	if err != nil {
		return "", err
	}

	if err := d.Client.GuildMemberMove(guild.ID, member.User.ID, &dest.ID); err != nil {
		return "", discord.Normalize(err)
	}
	return fmt.Sprintf("Successfully moved user %s to channel **%s**", userLabel(member.User), dest.Name), nil
}

func (d *Deps) disconnectMember(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guild, err := d.Resolve.Guild(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	member, err := d.Resolve.Member(guild.ID, req.GetString("userId", ""))
	if err != nil {
		return "", err
	}
	if _, err := d.Resolve.VoiceState(guild.ID, member.User.ID); err != nil {
		return "", err
	}

	if err := d.Client.GuildMemberMove(guild.ID, member.User.ID, nil); err != nil {
		return "", discord.Normalize(err)
	}
	return fmt.Sprintf("Successfully disconnected user %s from voice", userLabel(member.User)), nil
}

func (d *Deps) modifyVoiceState(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guild, err := d.Resolve.Guild(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	member, err := d.Resolve.Member(guild.ID, req.GetString("userId", ""))
	if err != nil {
		return "", err
	}
	v, err := param.Parse(args(req), []param.Rule{
		{Name: "mute", Type: param.Bool},
		{Name: "deafen", Type: param.Bool},
	})
	if err != nil {
		return "", err
	}
	if !v.Has("mute") && !v.Has("deafen") {
		return "", apperr.Validation("at least one of mute or deafen must be provided")
	}
	if _, err := d.Resolve.VoiceState(guild.ID, member.User.ID); err != nil {
		return "", err
	}

	var changes []string
	if v.Has("mute") {
		if err := d.Client.GuildMemberMute(guild.ID, member.User.ID, v.Bool("mute")); err != nil {
			return "", discord.Normalize(err)
		}
		changes = append(changes, fmt.Sprintf("mute=%t", v.Bool("mute")))
	}
	if v.Has("deafen") {
		if err := d.Client.GuildMemberDeafen(guild.ID, member.User.ID, v.Bool("deafen")); err != nil {
			return "", discord.Normalize(err)
		}
		changes = append(changes, fmt.Sprintf("deafen=%t", v.Bool("deafen")))
	}
	return fmt.Sprintf("Successfully updated voice state of user %s (%s)",
		userLabel(member.User), strings.Join(changes, ", ")), nil
}
