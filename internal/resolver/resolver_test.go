package resolver_test

import (
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discord-mcp/internal/apperr"
	"discord-mcp/internal/discord"
	"discord-mcp/internal/resolver"
)

// fakeClient backs the resolver with in-memory fixtures. The embedded
// interface panics on anything a test did not stub, which keeps accidental
// remote calls loud.
type fakeClient struct {
	discord.Client

	self     *discordgo.User
	guilds   map[string]*discordgo.Guild
	members  map[string]*discordgo.Member
	channels map[string]*discordgo.Channel
	events   map[string]*discordgo.GuildScheduledEvent
	voice    map[string]*discordgo.VoiceState
}

func notFound() error {
	return &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusNotFound}}
}

func (f *fakeClient) CurrentUser() (*discordgo.User, error) { return f.self, nil }

func (f *fakeClient) Guild(guildID string) (*discordgo.Guild, error) {
	if g, ok := f.guilds[guildID]; ok {
		return g, nil
	}
	return nil, notFound()
}

func (f *fakeClient) GuildMember(guildID, userID string) (*discordgo.Member, error) {
	if m, ok := f.members[guildID+"/"+userID]; ok {
		return m, nil
	}
	return nil, notFound()
}

func (f *fakeClient) GuildRoles(guildID string) ([]*discordgo.Role, error) {
	if g, ok := f.guilds[guildID]; ok {
		return g.Roles, nil
	}
	return nil, notFound()
}

func (f *fakeClient) Channel(channelID string) (*discordgo.Channel, error) {
	if ch, ok := f.channels[channelID]; ok {
		return ch, nil
	}
	return nil, notFound()
}

func (f *fakeClient) GuildScheduledEvent(guildID, eventID string, withUserCount bool) (*discordgo.GuildScheduledEvent, error) {
	if ev, ok := f.events[guildID+"/"+eventID]; ok {
		return ev, nil
	}
	return nil, notFound()
}

func (f *fakeClient) VoiceState(guildID, userID string) (*discordgo.VoiceState, error) {
	if vs, ok := f.voice[guildID+"/"+userID]; ok {
		return vs, nil
	}
	return nil, discordgo.ErrStateNotFound
}

func testGuild() *discordgo.Guild {
	return &discordgo.Guild{
		ID:      "g1",
		Name:    "Test Server",
		OwnerID: "owner",
		Roles: []*discordgo.Role{
			{ID: "g1", Name: "@everyone", Position: 0},
			{ID: "r-mod", Name: "Moderator", Position: 5},
			{ID: "r-bot", Name: "Bot", Position: 10},
		},
	}
}

func TestGuildIDScope(t *testing.T) {
	r := resolver.New(&fakeClient{}, "g-default")

	id, err := r.GuildID("g-explicit")
	require.NoError(t, err)
	assert.Equal(t, "g-explicit", id)

	id, err = r.GuildID("")
	require.NoError(t, err)
	assert.Equal(t, "g-default", id)
}

func TestGuildIDMissingScope(t *testing.T) {
	r := resolver.New(&fakeClient{}, "")

	_, err := r.GuildID("")
	require.Error(t, err)
	assert.Equal(t, apperr.KindMissingScope, apperr.KindOf(err))
}

func TestGuildNotFound(t *testing.T) {
	r := resolver.New(&fakeClient{guilds: map[string]*discordgo.Guild{}}, "")

	_, err := r.Guild("g-missing")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestMemberEmptyID(t *testing.T) {
	r := resolver.New(&fakeClient{}, "")

	_, err := r.Member("g1", "")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
}

func TestRoleLookup(t *testing.T) {
	fc := &fakeClient{guilds: map[string]*discordgo.Guild{"g1": testGuild()}}
	r := resolver.New(fc, "")

	role, err := r.Role("g1", "r-mod")
	require.NoError(t, err)
	assert.Equal(t, "Moderator", role.Name)

	_, err = r.Role("g1", "r-nope")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "Role not found by roleId", err.Error())
}

func TestChannelGuildMembership(t *testing.T) {
	fc := &fakeClient{channels: map[string]*discordgo.Channel{
		"c1": {ID: "c1", GuildID: "g1", Name: "general", Type: discordgo.ChannelTypeGuildText},
	}}
	r := resolver.New(fc, "")

	ch, err := r.Channel("g1", "c1")
	require.NoError(t, err)
	assert.Equal(t, "general", ch.Name)

	// Same channel through a different server scope is invisible.
	_, err = r.Channel("g2", "c1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestAudioChannelKind(t *testing.T) {
	fc := &fakeClient{channels: map[string]*discordgo.Channel{
		"c-text":  {ID: "c-text", GuildID: "g1", Name: "general", Type: discordgo.ChannelTypeGuildText},
		"c-voice": {ID: "c-voice", GuildID: "g1", Name: "Lounge", Type: discordgo.ChannelTypeGuildVoice},
		"c-stage": {ID: "c-stage", GuildID: "g1", Name: "Stage", Type: discordgo.ChannelTypeGuildStageVoice},
	}}
	r := resolver.New(fc, "")

	_, err := r.AudioChannel("g1", "c-voice")
	assert.NoError(t, err)
	_, err = r.AudioChannel("g1", "c-stage")
	assert.NoError(t, err)

	_, err = r.AudioChannel("g1", "c-text")
	require.Error(t, err)
	assert.Equal(t, apperr.KindTypeMismatch, apperr.KindOf(err))
}

func TestCategoryKind(t *testing.T) {
	fc := &fakeClient{channels: map[string]*discordgo.Channel{
		"c-cat":  {ID: "c-cat", GuildID: "g1", Name: "Admin", Type: discordgo.ChannelTypeGuildCategory},
		"c-text": {ID: "c-text", GuildID: "g1", Name: "general", Type: discordgo.ChannelTypeGuildText},
	}}
	r := resolver.New(fc, "")

	cat, err := r.Category("g1", "c-cat")
	require.NoError(t, err)
	assert.Equal(t, "Admin", cat.Name)

	_, err = r.Category("g1", "c-text")
	require.Error(t, err)
	assert.Equal(t, apperr.KindTypeMismatch, apperr.KindOf(err))
}

func TestInviteCapableChannel(t *testing.T) {
	fc := &fakeClient{channels: map[string]*discordgo.Channel{
		"c-text": {ID: "c-text", GuildID: "g1", Name: "general", Type: discordgo.ChannelTypeGuildText},
		"c-cat":  {ID: "c-cat", GuildID: "g1", Name: "Admin", Type: discordgo.ChannelTypeGuildCategory},
	}}
	r := resolver.New(fc, "")

	_, err := r.InviteCapableChannel("g1", "c-text")
	assert.NoError(t, err)

	_, err = r.InviteCapableChannel("g1", "c-cat")
	require.Error(t, err)
	assert.Equal(t, apperr.KindTypeMismatch, apperr.KindOf(err))
}

func TestVoiceStatePrecondition(t *testing.T) {
	fc := &fakeClient{voice: map[string]*discordgo.VoiceState{
		"g1/u-connected": {GuildID: "g1", UserID: "u-connected", ChannelID: "c-voice"},
	}}
	r := resolver.New(fc, "")

	vs, err := r.VoiceState("g1", "u-connected")
	require.NoError(t, err)
	assert.Equal(t, "c-voice", vs.ChannelID)

	_, err = r.VoiceState("g1", "u-idle")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "not connected to any voice channel")
}
