package tools

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/mark3labs/mcp-go/mcp"

	"discord-mcp/internal/apperr"
	"discord-mcp/internal/discord"
	"discord-mcp/internal/param"
)

func (d *Deps) roleTools() []registration {
	return []registration{
		{
			tool: mcp.NewTool("list_roles",
				mcp.WithDescription("List all roles on the server with their ID, name, color, position, and permissions"),
				guildOption(),
			),
			handler: d.listRoles,
		},
		{
			tool: mcp.NewTool("create_role",
				mcp.WithDescription("Create a new role on the server"),
				guildOption(),
				mcp.WithString("name", mcp.Required(), mcp.Description("Name of the new role")),
				mcp.WithString("color", mcp.Description("Color value as integer (e.g. 16711680 for red); 0 keeps the default")),
				mcp.WithString("hoist", mcp.Description("Whether the role is displayed separately in the sidebar (default false)")),
				mcp.WithString("mentionable", mcp.Description("Whether the role can be mentioned (default false)")),
				mcp.WithString("permissions", mcp.Description("Permission bitfield as integer (default 0)")),
			),
			handler: d.createRole,
		},
		{
			tool: mcp.NewTool("edit_role",
				mcp.WithDescription("Update settings of an existing role; only supplied parameters change"),
				guildOption(),
				mcp.WithString("roleId", mcp.Required(), mcp.Description("ID of the role to edit")),
				mcp.WithString("name", mcp.Description("New name")),
				mcp.WithString("color", mcp.Description("New color value as integer")),
				mcp.WithString("hoist", mcp.Description("New hoist setting")),
				mcp.WithString("mentionable", mcp.Description("New mentionable setting")),
				mcp.WithString("permissions", mcp.Description("New permission bitfield as integer")),
			),
			handler: d.editRole,
		},
		{
			tool: mcp.NewTool("delete_role",
				mcp.WithDescription("Permanently delete a role from the server"),
				guildOption(),
				mcp.WithString("roleId", mcp.Required(), mcp.Description("ID of the role to delete")),
			),
			handler: d.deleteRole,
		},
		{
			tool: mcp.NewTool("assign_role",
				mcp.WithDescription("Assign a role to a user"),
				guildOption(),
				mcp.WithString("userId", mcp.Required(), mcp.Description("ID of the user to receive the role")),
				mcp.WithString("roleId", mcp.Required(), mcp.Description("ID of the role to assign")),
			),
			handler: d.assignRole,
		},
		{
			tool: mcp.NewTool("remove_role",
				mcp.WithDescription("Remove a role from a user"),
				guildOption(),
				mcp.WithString("userId", mcp.Required(), mcp.Description("ID of the user to strip the role from")),
				mcp.WithString("roleId", mcp.Required(), mcp.Description("ID of the role to remove")),
			),
			handler: d.removeRole,
		},
	}
}

// The implicit everyone role shares its ID with the guild. Mutating or
// granting it is refused locally regardless of remote permission.
func ensureNotEveryone(guildID string, role *discordgo.Role, action string) error {
	if role.ID == guildID {
		return apperr.Policy("refusing to %s the @everyone role - every member holds it implicitly", action)
	}
	return nil
}

var roleParamRules = []param.Rule{
	{Name: "color", Type: param.Int},
	{Name: "hoist", Type: param.Bool},
	{Name: "mentionable", Type: param.Bool},
	{Name: "permissions", Type: param.Int},
}

func roleParamsFrom(v param.Values, name string) *discordgo.RoleParams {
	params := &discordgo.RoleParams{Name: name}
	if v.Has("color") {
		color := int(v.Int("color"))
		params.Color = &color
	}
	if v.Has("hoist") {
		hoist := v.Bool("hoist")
		params.Hoist = &hoist
	}
	if v.Has("mentionable") {
		mentionable := v.Bool("mentionable")
		params.Mentionable = &mentionable
	}
	if v.Has("permissions") {
		perms := v.Int("permissions")
		params.Permissions = &perms
	}
	return params
}

func formatRole(header string, role *discordgo.Role) string {
	return fmt.Sprintf("%s: **%s** (ID: %s)\n  • Color: %d\n  • Hoisted: %t\n  • Mentionable: %t\n  • Permissions: %d",
		header, role.Name, role.ID, role.Color, role.Hoist, role.Mentionable, role.Permissions)
}

func (d *Deps) listRoles(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guild, err := d.Resolve.Guild(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	roles := guild.Roles
	if len(roles) == 0 {
		if roles, err = d.Client.GuildRoles(guild.ID); err != nil {
			return "", discord.Normalize(err)
		}
	}
	if len(roles) == 0 {
		return "No roles found on this server.", nil
	}

	lines := make([]string, 0, len(roles))
	for _, role := range roles {
		lines = append(lines, fmt.Sprintf(
			"- **%s** (ID: %s)\n  • Color: #%06X (RGB: %d)\n  • Position: %d\n  • Hoisted: %t\n  • Mentionable: %t\n  • Permissions: %d",
			role.Name, role.ID, role.Color, role.Color, role.Position, role.Hoist, role.Mentionable, role.Permissions))
	}
	return listHeader(len(roles), len(roles), "roles") + joinLines(lines), nil
}

func (d *Deps) createRole(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guild, err := d.Resolve.Guild(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	name := req.GetString("name", "")
	if name == "" {
		return "", apperr.InvalidArgument("name cannot be empty")
	}
	v, err := param.Parse(args(req), roleParamRules)
	if err != nil {
		return "", err
	}

	role, err := d.Client.GuildRoleCreate(guild.ID, roleParamsFrom(v, name))
	if err != nil {
		return "", discord.Normalize(err)
	}
	return formatRole("Successfully created role", role), nil
}

func (d *Deps) editRole(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guild, err := d.Resolve.Guild(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	role, err := d.Resolve.Role(guild.ID, req.GetString("roleId", ""))
	if err != nil {
		return "", err
	}
	if err := ensureNotEveryone(guild.ID, role, "edit"); err != nil {
		return "", err
	}
	v, err := param.Parse(args(req), roleParamRules)
	if err != nil {
		return "", err
	}
	if err := d.Resolve.EnsureAboveRole(guild, role, "edit"); err != nil {
		return "", err
	}

	name := req.GetString("name", "")
	if name == "" {
		name = role.Name
	}
	updated, err := d.Client.GuildRoleEdit(guild.ID, role.ID, roleParamsFrom(v, name))
	if err != nil {
		return "", discord.Normalize(err)
	}
	return formatRole("Successfully updated role", updated), nil
}

func (d *Deps) deleteRole(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guild, err := d.Resolve.Guild(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	role, err := d.Resolve.Role(guild.ID, req.GetString("roleId", ""))
	if err != nil {
		return "", err
	}
	if err := ensureNotEveryone(guild.ID, role, "delete"); err != nil {
		return "", err
	}
	if err := d.Resolve.EnsureAboveRole(guild, role, "delete"); err != nil {
		return "", err
	}

	if err := d.Client.GuildRoleDelete(guild.ID, role.ID); err != nil {
		return "", discord.Normalize(err)
	}
	return fmt.Sprintf("Successfully deleted role: **%s** (ID: %s)", role.Name, role.ID), nil
}

func (d *Deps) assignRole(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	return d.memberRoleChange(req, "assign")
}

func (d *Deps) removeRole(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	return d.memberRoleChange(req, "remove")
}

func (d *Deps) memberRoleChange(req mcp.CallToolRequest, action string) (string, error) {
	guild, err := d.Resolve.Guild(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	member, err := d.Resolve.Member(guild.ID, req.GetString("userId", ""))
	if err != nil {
		return "", err
	}
	role, err := d.Resolve.Role(guild.ID, req.GetString("roleId", ""))
	if err != nil {
		return "", err
	}
	if err := ensureNotEveryone(guild.ID, role, action); err != nil {
		return "", err
	}
	if err := d.Resolve.EnsureAboveRole(guild, role, action); err != nil {
		return "", err
	}

	if action == "assign" {
		err = d.Client.GuildMemberRoleAdd(guild.ID, member.User.ID, role.ID)
	} else {
		err = d.Client.GuildMemberRoleRemove(guild.ID, member.User.ID, role.ID)
	}
	if err != nil {
		return "", discord.Normalize(err)
	}

	preposition := "to"
	verb := "assigned"
	if action == "remove" {
		preposition = "from"
		verb = "removed"
	}
	return fmt.Sprintf("Successfully %s role **%s** %s user %s",
		verb, role.Name, preposition, userLabel(member.User)), nil
}
