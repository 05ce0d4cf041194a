package resolver

import (
	"github.com/bwmarrin/discordgo"

	"discord-mcp/internal/apperr"
	"discord-mcp/internal/discord"
)

// Discord refuses privileged actions whose target outranks the actor, but
// only after the request is issued. These checks run client-side first so
// hierarchy violations surface as their own failure kind instead of a
// generic permission error.

// EnsureAboveMember verifies the bot's highest role sits strictly above the
// target member's. The guild owner outranks every role.
func (r *Resolver) EnsureAboveMember(guild *discordgo.Guild, target *discordgo.Member, action string) error {
	self, err := r.c.CurrentUser()
	if err != nil {
		return discord.Normalize(err)
	}
	if guild.OwnerID == self.ID {
		return nil
	}
	if guild.OwnerID == target.User.ID {
		return apperr.Hierarchy("cannot %s this user - they own the server", action)
	}

	botMember, err := r.Member(guild.ID, self.ID)
	if err != nil {
		return err
	}
	roles, err := r.guildRoles(guild)
	if err != nil {
		return err
	}
	if highestPosition(roles, botMember.Roles) <= highestPosition(roles, target.Roles) {
		return apperr.Hierarchy("cannot %s this user - they have a higher or equal role than the bot", action)
	}
	return nil
}

// EnsureAboveRole verifies the bot's highest role sits strictly above the
// given role, as required to manage or grant it.
func (r *Resolver) EnsureAboveRole(guild *discordgo.Guild, role *discordgo.Role, action string) error {
	self, err := r.c.CurrentUser()
	if err != nil {
		return discord.Normalize(err)
	}
	if guild.OwnerID == self.ID {
		return nil
	}

	botMember, err := r.Member(guild.ID, self.ID)
	if err != nil {
		return err
	}
	roles, err := r.guildRoles(guild)
	if err != nil {
		return err
	}
	if highestPosition(roles, botMember.Roles) <= role.Position {
		return apperr.Hierarchy("cannot %s this role - it is higher than or equal to the bot's highest role", action)
	}
	return nil
}

// guildRoles prefers the role list already attached to the fetched guild.
func (r *Resolver) guildRoles(guild *discordgo.Guild) ([]*discordgo.Role, error) {
	if len(guild.Roles) > 0 {
		return guild.Roles, nil
	}
	roles, err := r.c.GuildRoles(guild.ID)
	if err != nil {
		return nil, discord.Normalize(err)
	}
	return roles, nil
}

// highestPosition returns the top role position among memberRoles. Members
// holding only the implicit everyone role sit at position 0.
func highestPosition(roles []*discordgo.Role, memberRoles []string) int {
	held := make(map[string]bool, len(memberRoles))
	for _, id := range memberRoles {
		held[id] = true
	}
	top := 0
	for _, role := range roles {
		if held[role.ID] && role.Position > top {
			top = role.Position
		}
	}
	return top
}
