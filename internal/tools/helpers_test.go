package tools

import (
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"

	"discord-mcp/internal/discord"
	"discord-mcp/internal/resolver"
)

// fakeClient serves handlers from in-memory fixtures and records the
// mutations they issue. The embedded interface panics on anything a test
// did not stub.
type fakeClient struct {
	discord.Client

	self     *discordgo.User
	guilds   map[string]*discordgo.Guild
	members  map[string]*discordgo.Member
	channels map[string]*discordgo.Channel
	voice    map[string]*discordgo.VoiceState
	bans     []*discordgo.GuildBan
	events   map[string]*discordgo.GuildScheduledEvent

	eventUsers    []*discordgo.GuildScheduledEventUser
	createdEvent  *discordgo.GuildScheduledEventParams
	messages      []*discordgo.Message
	searchMatches []*discordgo.Member

	sentChannelID  string
	sentContent    string
	reactionUserID string
	channelEdit    *discord.ChannelEditParams

	bannedUserID     string
	bannedDeleteDays int
	timeoutUntil     *time.Time
	deletedRoleID    string
	addedRoleID      string
	removedRoleID    string
	deletedInvite    string
	createdInvite    *discordgo.Invite
	mutedValue       *bool
	deafenedValue    *bool
	movedChannelID   *string
	movedCalled      bool
}

func remoteNotFound() error {
	return &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusNotFound}}
}

func (f *fakeClient) CurrentUser() (*discordgo.User, error) { return f.self, nil }

func (f *fakeClient) Guild(guildID string) (*discordgo.Guild, error) {
	if g, ok := f.guilds[guildID]; ok {
		return g, nil
	}
	return nil, remoteNotFound()
}

func (f *fakeClient) GuildRoles(guildID string) ([]*discordgo.Role, error) {
	if g, ok := f.guilds[guildID]; ok {
		return g.Roles, nil
	}
	return nil, remoteNotFound()
}

func (f *fakeClient) GuildMember(guildID, userID string) (*discordgo.Member, error) {
	if m, ok := f.members[guildID+"/"+userID]; ok {
		return m, nil
	}
	return nil, remoteNotFound()
}

func (f *fakeClient) Channel(channelID string) (*discordgo.Channel, error) {
	if ch, ok := f.channels[channelID]; ok {
		return ch, nil
	}
	return nil, remoteNotFound()
}

func (f *fakeClient) VoiceState(guildID, userID string) (*discordgo.VoiceState, error) {
	if vs, ok := f.voice[guildID+"/"+userID]; ok {
		return vs, nil
	}
	return nil, discordgo.ErrStateNotFound
}

func (f *fakeClient) GuildBanCreate(guildID, userID, reason string, deleteDays int) error {
	f.bannedUserID = userID
	f.bannedDeleteDays = deleteDays
	return nil
}

func (f *fakeClient) GuildBans(guildID string, limit int) ([]*discordgo.GuildBan, error) {
	return f.bans, nil
}

func (f *fakeClient) GuildMemberTimeout(guildID, userID string, until *time.Time) error {
	f.timeoutUntil = until
	return nil
}

func (f *fakeClient) GuildRoleDelete(guildID, roleID string) error {
	f.deletedRoleID = roleID
	return nil
}

func (f *fakeClient) GuildMemberRoleAdd(guildID, userID, roleID string) error {
	f.addedRoleID = roleID
	return nil
}

func (f *fakeClient) GuildMemberRoleRemove(guildID, userID, roleID string) error {
	f.removedRoleID = roleID
	return nil
}

func (f *fakeClient) ChannelInviteCreate(channelID string, data discordgo.Invite) (*discordgo.Invite, error) {
	f.createdInvite = &data
	return &discordgo.Invite{Code: "abc123", MaxAge: data.MaxAge, MaxUses: data.MaxUses}, nil
}

func (f *fakeClient) InviteDelete(code string) (*discordgo.Invite, error) {
	f.deletedInvite = code
	return &discordgo.Invite{Code: code}, nil
}

func (f *fakeClient) GuildMemberMove(guildID, userID string, channelID *string) error {
	f.movedCalled = true
	f.movedChannelID = channelID
	return nil
}

func (f *fakeClient) GuildMemberMute(guildID, userID string, mute bool) error {
	f.mutedValue = &mute
	return nil
}

func (f *fakeClient) GuildMemberDeafen(guildID, userID string, deaf bool) error {
	f.deafenedValue = &deaf
	return nil
}

func (f *fakeClient) GuildMembersSearch(guildID, query string, limit int) ([]*discordgo.Member, error) {
	matches := f.searchMatches
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (f *fakeClient) GuildChannels(guildID string) ([]*discordgo.Channel, error) {
	var out []*discordgo.Channel
	for _, ch := range f.channels {
		if ch.GuildID == guildID {
			out = append(out, ch)
		}
	}
	return out, nil
}

func (f *fakeClient) GuildChannelCreate(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
	return &discordgo.Channel{
		ID:        "c-new",
		GuildID:   guildID,
		Name:      data.Name,
		Type:      data.Type,
		Topic:     data.Topic,
		ParentID:  data.ParentID,
		UserLimit: data.UserLimit,
		Bitrate:   data.Bitrate,
	}, nil
}

func (f *fakeClient) ChannelEdit(channelID string, params *discord.ChannelEditParams) (*discordgo.Channel, error) {
	f.channelEdit = params
	ch, ok := f.channels[channelID]
	if !ok {
		return nil, remoteNotFound()
	}
	updated := *ch
	if params.Name != "" {
		updated.Name = params.Name
	}
	if params.Bitrate != 0 {
		updated.Bitrate = params.Bitrate
	}
	if params.UserLimit != nil {
		updated.UserLimit = *params.UserLimit
	}
	return &updated, nil
}

func (f *fakeClient) ChannelMessageSend(channelID, content string) (*discordgo.Message, error) {
	f.sentChannelID = channelID
	f.sentContent = content
	return &discordgo.Message{ID: "m-new", ChannelID: channelID, Content: content}, nil
}

func (f *fakeClient) ChannelMessages(channelID string, limit int, beforeID, afterID string) ([]*discordgo.Message, error) {
	msgs := f.messages
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs, nil
}

func (f *fakeClient) MessageReactionRemove(channelID, messageID, emoji, userID string) error {
	f.reactionUserID = userID
	return nil
}

func (f *fakeClient) GuildScheduledEvent(guildID, eventID string, withUserCount bool) (*discordgo.GuildScheduledEvent, error) {
	if ev, ok := f.events[guildID+"/"+eventID]; ok {
		return ev, nil
	}
	return nil, remoteNotFound()
}

func (f *fakeClient) GuildScheduledEventCreate(guildID string, params *discordgo.GuildScheduledEventParams) (*discordgo.GuildScheduledEvent, error) {
	f.createdEvent = params
	ev := &discordgo.GuildScheduledEvent{
		ID:         "ev-new",
		GuildID:    guildID,
		Name:       params.Name,
		ChannelID:  params.ChannelID,
		EntityType: params.EntityType,
		Status:     discordgo.GuildScheduledEventStatusScheduled,
	}
	if params.ScheduledStartTime != nil {
		ev.ScheduledStartTime = *params.ScheduledStartTime
	}
	return ev, nil
}

func (f *fakeClient) GuildScheduledEventUsers(guildID, eventID string, limit int, withMember bool) ([]*discordgo.GuildScheduledEventUser, error) {
	users := f.eventUsers
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

// adminFixture is a guild where the bot holds the top role and u-mod holds
// a middle role.
func adminFixture() *fakeClient {
	guild := &discordgo.Guild{
		ID:      "g1",
		Name:    "Test Server",
		OwnerID: "owner",
		Roles: []*discordgo.Role{
			{ID: "g1", Name: "@everyone", Position: 0},
			{ID: "r-mod", Name: "Moderator", Position: 5},
			{ID: "r-bot", Name: "Bot", Position: 10},
		},
	}
	return &fakeClient{
		self:   &discordgo.User{ID: "bot", Username: "admin-bot"},
		guilds: map[string]*discordgo.Guild{"g1": guild},
		members: map[string]*discordgo.Member{
			"g1/bot":   {User: &discordgo.User{ID: "bot"}, Roles: []string{"r-bot"}},
			"g1/u-mod": {User: &discordgo.User{ID: "u-mod", Username: "mod"}, Roles: []string{"r-mod"}},
		},
		channels: map[string]*discordgo.Channel{
			"c-text":  {ID: "c-text", GuildID: "g1", Name: "general", Type: discordgo.ChannelTypeGuildText},
			"c-voice": {ID: "c-voice", GuildID: "g1", Name: "Lounge", Type: discordgo.ChannelTypeGuildVoice},
		},
	}
}

func newDeps(fc *fakeClient) *Deps {
	return &Deps{
		Client:  fc,
		Resolve: resolver.New(fc, "g1"),
		Log:     zerolog.Nop(),
	}
}

func resolverWithoutDefault(fc *fakeClient) *resolver.Resolver {
	return resolver.New(fc, "")
}

func callReq(arguments map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = arguments
	return req
}
