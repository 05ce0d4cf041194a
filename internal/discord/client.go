// Package discord wraps the discordgo session behind a narrow interface so
// resolvers and tool handlers can be exercised against fakes, and so every
// REST call flows through one pacer and one error normalizer.
package discord

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"
)

// Client is the remote surface the tools consume. Every method is a single
// synchronous REST call (VoiceState reads gateway state instead). The
// implementation never retries; a failed call is terminal for the
// invocation that issued it.
type Client interface {
	CurrentUser() (*discordgo.User, error)

	Guild(guildID string) (*discordgo.Guild, error)
	GuildWithCounts(guildID string) (*discordgo.Guild, error)
	GuildChannels(guildID string) ([]*discordgo.Channel, error)
	GuildRoles(guildID string) ([]*discordgo.Role, error)
	GuildMember(guildID, userID string) (*discordgo.Member, error)
	GuildMembers(guildID, after string, limit int) ([]*discordgo.Member, error)
	GuildMembersSearch(guildID, query string, limit int) ([]*discordgo.Member, error)
	VoiceState(guildID, userID string) (*discordgo.VoiceState, error)

	GuildMemberKick(guildID, userID, reason string) error
	GuildBanCreate(guildID, userID, reason string, deleteDays int) error
	GuildBanDelete(guildID, userID string) error
	GuildBans(guildID string, limit int) ([]*discordgo.GuildBan, error)
	GuildMemberTimeout(guildID, userID string, until *time.Time) error
	GuildMemberNickname(guildID, userID, nick string) error

	GuildRoleCreate(guildID string, params *discordgo.RoleParams) (*discordgo.Role, error)
	GuildRoleEdit(guildID, roleID string, params *discordgo.RoleParams) (*discordgo.Role, error)
	GuildRoleDelete(guildID, roleID string) error
	GuildMemberRoleAdd(guildID, userID, roleID string) error
	GuildMemberRoleRemove(guildID, userID, roleID string) error

	GuildChannelCreate(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error)
	Channel(channelID string) (*discordgo.Channel, error)
	ChannelEdit(channelID string, params *ChannelEditParams) (*discordgo.Channel, error)
	ChannelDelete(channelID string) (*discordgo.Channel, error)

	ChannelMessageSend(channelID, content string) (*discordgo.Message, error)
	ChannelMessageEdit(channelID, messageID, content string) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string) error
	ChannelMessages(channelID string, limit int, beforeID, afterID string) ([]*discordgo.Message, error)
	MessageReactionAdd(channelID, messageID, emoji string) error
	MessageReactionRemove(channelID, messageID, emoji, userID string) error
	UserChannelCreate(recipientID string) (*discordgo.Channel, error)
	User(userID string) (*discordgo.User, error)

	WebhookCreate(channelID, name string) (*discordgo.Webhook, error)
	GuildWebhooks(guildID string) ([]*discordgo.Webhook, error)
	WebhookDelete(webhookID string) error
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams) (*discordgo.Message, error)

	GuildThreadsActive(guildID string) (*discordgo.ThreadsList, error)

	GuildMemberMove(guildID, userID string, channelID *string) error
	GuildMemberMute(guildID, userID string, mute bool) error
	GuildMemberDeafen(guildID, userID string, deaf bool) error

	ChannelInviteCreate(channelID string, data discordgo.Invite) (*discordgo.Invite, error)
	GuildInvites(guildID string) ([]*discordgo.Invite, error)
	Invite(code string, withCounts bool) (*discordgo.Invite, error)
	InviteDelete(code string) (*discordgo.Invite, error)

	GuildScheduledEvents(guildID string, withUserCount bool) ([]*discordgo.GuildScheduledEvent, error)
	GuildScheduledEvent(guildID, eventID string, withUserCount bool) (*discordgo.GuildScheduledEvent, error)
	GuildScheduledEventCreate(guildID string, params *discordgo.GuildScheduledEventParams) (*discordgo.GuildScheduledEvent, error)
	GuildScheduledEventEdit(guildID, eventID string, params *discordgo.GuildScheduledEventParams) (*discordgo.GuildScheduledEvent, error)
	GuildScheduledEventDelete(guildID, eventID string) error
	GuildScheduledEventUsers(guildID, eventID string, limit int, withMember bool) ([]*discordgo.GuildScheduledEventUser, error)
}

// sessionClient backs Client with a live discordgo session. The pacer
// spaces REST calls out process-wide; Discord's per-route buckets and
// discordgo's own 429 handling still apply underneath.
type sessionClient struct {
	s   *discordgo.Session
	lim *rate.Limiter
}

// NewClient wraps an opened session. rps bounds outgoing REST calls per
// second; zero or negative disables local pacing.
func NewClient(s *discordgo.Session, rps float64) Client {
	var lim *rate.Limiter
	if rps > 0 {
		lim = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return &sessionClient{s: s, lim: lim}
}

func (c *sessionClient) wait() {
	if c.lim != nil {
		_ = c.lim.Wait(context.Background())
	}
}

func (c *sessionClient) CurrentUser() (*discordgo.User, error) {
	if c.s.State != nil && c.s.State.User != nil {
		return c.s.State.User, nil
	}
	c.wait()
	return c.s.User("@me")
}

func (c *sessionClient) Guild(guildID string) (*discordgo.Guild, error) {
	c.wait()
	return c.s.Guild(guildID)
}

func (c *sessionClient) GuildWithCounts(guildID string) (*discordgo.Guild, error) {
	c.wait()
	return c.s.GuildWithCounts(guildID)
}

func (c *sessionClient) GuildChannels(guildID string) ([]*discordgo.Channel, error) {
	c.wait()
	return c.s.GuildChannels(guildID)
}

func (c *sessionClient) GuildRoles(guildID string) ([]*discordgo.Role, error) {
	c.wait()
	return c.s.GuildRoles(guildID)
}

func (c *sessionClient) GuildMember(guildID, userID string) (*discordgo.Member, error) {
	c.wait()
	return c.s.GuildMember(guildID, userID)
}

func (c *sessionClient) GuildMembers(guildID, after string, limit int) ([]*discordgo.Member, error) {
	c.wait()
	return c.s.GuildMembers(guildID, after, limit)
}

func (c *sessionClient) GuildMembersSearch(guildID, query string, limit int) ([]*discordgo.Member, error) {
	c.wait()
	return c.s.GuildMembersSearch(guildID, query, limit)
}

// VoiceState reads the gateway cache; voice state has no REST lookup.
func (c *sessionClient) VoiceState(guildID, userID string) (*discordgo.VoiceState, error) {
	return c.s.State.VoiceState(guildID, userID)
}

func (c *sessionClient) GuildMemberKick(guildID, userID, reason string) error {
	c.wait()
	return c.s.GuildMemberDeleteWithReason(guildID, userID, reason)
}

func (c *sessionClient) GuildBanCreate(guildID, userID, reason string, deleteDays int) error {
	c.wait()
	return c.s.GuildBanCreateWithReason(guildID, userID, reason, deleteDays)
}

func (c *sessionClient) GuildBanDelete(guildID, userID string) error {
	c.wait()
	return c.s.GuildBanDelete(guildID, userID)
}

func (c *sessionClient) GuildBans(guildID string, limit int) ([]*discordgo.GuildBan, error) {
	c.wait()
	return c.s.GuildBans(guildID, limit, "", "")
}

func (c *sessionClient) GuildMemberTimeout(guildID, userID string, until *time.Time) error {
	c.wait()
	return c.s.GuildMemberTimeout(guildID, userID, until)
}

func (c *sessionClient) GuildMemberNickname(guildID, userID, nick string) error {
	c.wait()
	return c.s.GuildMemberNickname(guildID, userID, nick)
}

func (c *sessionClient) GuildRoleCreate(guildID string, params *discordgo.RoleParams) (*discordgo.Role, error) {
	c.wait()
	return c.s.GuildRoleCreate(guildID, params)
}

func (c *sessionClient) GuildRoleEdit(guildID, roleID string, params *discordgo.RoleParams) (*discordgo.Role, error) {
	c.wait()
	return c.s.GuildRoleEdit(guildID, roleID, params)
}

func (c *sessionClient) GuildRoleDelete(guildID, roleID string) error {
	c.wait()
	return c.s.GuildRoleDelete(guildID, roleID)
}

func (c *sessionClient) GuildMemberRoleAdd(guildID, userID, roleID string) error {
	c.wait()
	return c.s.GuildMemberRoleAdd(guildID, userID, roleID)
}

func (c *sessionClient) GuildMemberRoleRemove(guildID, userID, roleID string) error {
	c.wait()
	return c.s.GuildMemberRoleRemove(guildID, userID, roleID)
}

func (c *sessionClient) GuildChannelCreate(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
	c.wait()
	return c.s.GuildChannelCreateComplex(guildID, data)
}

func (c *sessionClient) Channel(channelID string) (*discordgo.Channel, error) {
	c.wait()
	return c.s.Channel(channelID)
}

// ChannelEditParams is the channel PATCH body. UserLimit is a pointer so an
// explicit zero (unlimited) still reaches the wire; discordgo's ChannelEdit
// drops it through omitempty.
type ChannelEditParams struct {
	Name      string `json:"name,omitempty"`
	Bitrate   int    `json:"bitrate,omitempty"`
	UserLimit *int   `json:"user_limit,omitempty"`
}

func (c *sessionClient) ChannelEdit(channelID string, params *ChannelEditParams) (*discordgo.Channel, error) {
	c.wait()
	body, err := c.s.RequestWithBucketID("PATCH", discordgo.EndpointChannel(channelID), params, discordgo.EndpointChannel(channelID))
	if err != nil {
		return nil, err
	}
	var ch discordgo.Channel
	if err := json.Unmarshal(body, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

func (c *sessionClient) ChannelDelete(channelID string) (*discordgo.Channel, error) {
	c.wait()
	return c.s.ChannelDelete(channelID)
}

func (c *sessionClient) ChannelMessageSend(channelID, content string) (*discordgo.Message, error) {
	c.wait()
	return c.s.ChannelMessageSend(channelID, content)
}

func (c *sessionClient) ChannelMessageEdit(channelID, messageID, content string) (*discordgo.Message, error) {
	c.wait()
	return c.s.ChannelMessageEdit(channelID, messageID, content)
}

func (c *sessionClient) ChannelMessageDelete(channelID, messageID string) error {
	c.wait()
	return c.s.ChannelMessageDelete(channelID, messageID)
}

func (c *sessionClient) ChannelMessages(channelID string, limit int, beforeID, afterID string) ([]*discordgo.Message, error) {
	c.wait()
	return c.s.ChannelMessages(channelID, limit, beforeID, afterID, "")
}

func (c *sessionClient) MessageReactionAdd(channelID, messageID, emoji string) error {
	c.wait()
	return c.s.MessageReactionAdd(channelID, messageID, emoji)
}

func (c *sessionClient) MessageReactionRemove(channelID, messageID, emoji, userID string) error {
	c.wait()
	return c.s.MessageReactionRemove(channelID, messageID, emoji, userID)
}

func (c *sessionClient) UserChannelCreate(recipientID string) (*discordgo.Channel, error) {
	c.wait()
	return c.s.UserChannelCreate(recipientID)
}

func (c *sessionClient) User(userID string) (*discordgo.User, error) {
	c.wait()
	return c.s.User(userID)
}

func (c *sessionClient) WebhookCreate(channelID, name string) (*discordgo.Webhook, error) {
	c.wait()
	return c.s.WebhookCreate(channelID, name, "")
}

func (c *sessionClient) GuildWebhooks(guildID string) ([]*discordgo.Webhook, error) {
	c.wait()
	return c.s.GuildWebhooks(guildID)
}

func (c *sessionClient) WebhookDelete(webhookID string) error {
	c.wait()
	return c.s.WebhookDelete(webhookID)
}

func (c *sessionClient) WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams) (*discordgo.Message, error) {
	c.wait()
	return c.s.WebhookExecute(webhookID, token, wait, data)
}

func (c *sessionClient) GuildThreadsActive(guildID string) (*discordgo.ThreadsList, error) {
	c.wait()
	return c.s.GuildThreadsActive(guildID)
}

func (c *sessionClient) GuildMemberMove(guildID, userID string, channelID *string) error {
	c.wait()
	return c.s.GuildMemberMove(guildID, userID, channelID)
}

func (c *sessionClient) GuildMemberMute(guildID, userID string, mute bool) error {
	c.wait()
	_, err := c.s.GuildMemberEdit(guildID, userID, &discordgo.GuildMemberParams{Mute: &mute})
	return err
}

func (c *sessionClient) GuildMemberDeafen(guildID, userID string, deaf bool) error {
	c.wait()
	_, err := c.s.GuildMemberEdit(guildID, userID, &discordgo.GuildMemberParams{Deaf: &deaf})
	return err
}

func (c *sessionClient) ChannelInviteCreate(channelID string, data discordgo.Invite) (*discordgo.Invite, error) {
	c.wait()
	return c.s.ChannelInviteCreate(channelID, data)
}

func (c *sessionClient) GuildInvites(guildID string) ([]*discordgo.Invite, error) {
	c.wait()
	return c.s.GuildInvites(guildID)
}

func (c *sessionClient) Invite(code string, withCounts bool) (*discordgo.Invite, error) {
	c.wait()
	if withCounts {
		return c.s.InviteWithCounts(code)
	}
	return c.s.Invite(code)
}

func (c *sessionClient) InviteDelete(code string) (*discordgo.Invite, error) {
	c.wait()
	return c.s.InviteDelete(code)
}

func (c *sessionClient) GuildScheduledEvents(guildID string, withUserCount bool) ([]*discordgo.GuildScheduledEvent, error) {
	c.wait()
	return c.s.GuildScheduledEvents(guildID, withUserCount)
}

func (c *sessionClient) GuildScheduledEvent(guildID, eventID string, withUserCount bool) (*discordgo.GuildScheduledEvent, error) {
	c.wait()
	return c.s.GuildScheduledEvent(guildID, eventID, withUserCount)
}

func (c *sessionClient) GuildScheduledEventCreate(guildID string, params *discordgo.GuildScheduledEventParams) (*discordgo.GuildScheduledEvent, error) {
	c.wait()
	return c.s.GuildScheduledEventCreate(guildID, params)
}

func (c *sessionClient) GuildScheduledEventEdit(guildID, eventID string, params *discordgo.GuildScheduledEventParams) (*discordgo.GuildScheduledEvent, error) {
	c.wait()
	return c.s.GuildScheduledEventEdit(guildID, eventID, params)
}

func (c *sessionClient) GuildScheduledEventDelete(guildID, eventID string) error {
	c.wait()
	return c.s.GuildScheduledEventDelete(guildID, eventID)
}

func (c *sessionClient) GuildScheduledEventUsers(guildID, eventID string, limit int, withMember bool) ([]*discordgo.GuildScheduledEventUser, error) {
	c.wait()
	return c.s.GuildScheduledEventUsers(guildID, eventID, limit, withMember, "", "")
}
