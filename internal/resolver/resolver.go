// Package resolver turns caller-supplied identifiers into live remote
// entities. Every lookup confirms existence and kind before a handler acts;
// nothing resolved here outlives the single call that asked for it.
package resolver

import (
	"github.com/bwmarrin/discordgo"

	"discord-mcp/internal/apperr"
	"discord-mcp/internal/discord"
)

type Resolver struct {
	c              discord.Client
	defaultGuildID string
}

// New builds a resolver. defaultGuildID is the process-wide scope fallback;
// empty means every call must name its server explicitly.
func New(c discord.Client, defaultGuildID string) *Resolver {
	return &Resolver{c: c, defaultGuildID: defaultGuildID}
}

// GuildID resolves the target server scope: the explicit argument wins,
// then the configured default. Purely local; no remote call.
func (r *Resolver) GuildID(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if r.defaultGuildID != "" {
		return r.defaultGuildID, nil
	}
	return "", apperr.MissingScope()
}

// Guild resolves the scope and fetches the live server.
func (r *Resolver) Guild(explicit string) (*discordgo.Guild, error) {
	guildID, err := r.GuildID(explicit)
	if err != nil {
		return nil, err
	}
	g, err := r.c.Guild(guildID)
	if err != nil {
		return nil, discord.Normalize(err)
	}
	return g, nil
}

// GuildWithCounts is Guild plus approximate member/presence counts.
func (r *Resolver) GuildWithCounts(explicit string) (*discordgo.Guild, error) {
	guildID, err := r.GuildID(explicit)
	if err != nil {
		return nil, err
	}
	g, err := r.c.GuildWithCounts(guildID)
	if err != nil {
		return nil, discord.Normalize(err)
	}
	return g, nil
}

// Member fetches a guild member. Member lists are not resident in gateway
// state, so this is always a REST round-trip.
func (r *Resolver) Member(guildID, userID string) (*discordgo.Member, error) {
	if userID == "" {
		return nil, apperr.InvalidArgument("userId cannot be empty")
	}
	m, err := r.c.GuildMember(guildID, userID)
	if err != nil {
		return nil, discord.Normalize(err)
	}
	return m, nil
}

// Role resolves a role within the guild's live role list.
func (r *Resolver) Role(guildID, roleID string) (*discordgo.Role, error) {
	if roleID == "" {
		return nil, apperr.InvalidArgument("roleId cannot be empty")
	}
	roles, err := r.c.GuildRoles(guildID)
	if err != nil {
		return nil, discord.Normalize(err)
	}
	for _, role := range roles {
		if role.ID == roleID {
			return role, nil
		}
	}
	return nil, apperr.NotFound("Role not found by roleId")
}

// Channel fetches a channel and confirms it belongs to the guild.
func (r *Resolver) Channel(guildID, channelID string) (*discordgo.Channel, error) {
	if channelID == "" {
		return nil, apperr.InvalidArgument("channelId cannot be empty")
	}
	ch, err := r.c.Channel(channelID)
	if err != nil {
		return nil, discord.Normalize(err)
	}
	if guildID != "" && ch.GuildID != guildID {
		return nil, apperr.NotFound("Channel not found in this server")
	}
	return ch, nil
}

// AudioChannel resolves a channel that members can occupy by voice.
func (r *Resolver) AudioChannel(guildID, channelID string) (*discordgo.Channel, error) {
	ch, err := r.Channel(guildID, channelID)
	if err != nil {
		return nil, err
	}
	if ch.Type != discordgo.ChannelTypeGuildVoice && ch.Type != discordgo.ChannelTypeGuildStageVoice {
		return nil, apperr.TypeMismatch("channel **%s** is not a voice or stage channel", ch.Name)
	}
	return ch, nil
}

// Category resolves a channel that must be a category.
func (r *Resolver) Category(guildID, categoryID string) (*discordgo.Channel, error) {
	if categoryID == "" {
		return nil, apperr.InvalidArgument("categoryId cannot be empty")
	}
	ch, err := r.c.Channel(categoryID)
	if err != nil {
		return nil, discord.Normalize(err)
	}
	if guildID != "" && ch.GuildID != guildID {
		return nil, apperr.NotFound("Category not found in this server")
	}
	if ch.Type != discordgo.ChannelTypeGuildCategory {
		return nil, apperr.TypeMismatch("channel **%s** is not a category", ch.Name)
	}
	return ch, nil
}

// InviteCapableChannel resolves a channel invites can point at. Categories
// and threads cannot hold invites.
func (r *Resolver) InviteCapableChannel(guildID, channelID string) (*discordgo.Channel, error) {
	ch, err := r.Channel(guildID, channelID)
	if err != nil {
		return nil, err
	}
	switch ch.Type {
	case discordgo.ChannelTypeGuildText,
		discordgo.ChannelTypeGuildNews,
		discordgo.ChannelTypeGuildVoice,
		discordgo.ChannelTypeGuildStageVoice,
		discordgo.ChannelTypeGuildForum:
		return ch, nil
	}
	return nil, apperr.TypeMismatch("channel **%s** does not support invites", ch.Name)
}

// ScheduledEvent fetches a scheduled event within the guild.
func (r *Resolver) ScheduledEvent(guildID, eventID string, withUserCount bool) (*discordgo.GuildScheduledEvent, error) {
	if eventID == "" {
		return nil, apperr.InvalidArgument("eventId cannot be empty")
	}
	ev, err := r.c.GuildScheduledEvent(guildID, eventID, withUserCount)
	if err != nil {
		return nil, discord.Normalize(err)
	}
	return ev, nil
}

// VoiceState returns the member's current voice state. Absence is a local
// precondition failure; no remote mutation is attempted for members who
// are not connected.
func (r *Resolver) VoiceState(guildID, userID string) (*discordgo.VoiceState, error) {
	vs, err := r.c.VoiceState(guildID, userID)
	if err != nil || vs == nil || vs.ChannelID == "" {
		return nil, apperr.Validation("user is not connected to any voice channel")
	}
	return vs, nil
}
