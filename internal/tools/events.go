package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/mark3labs/mcp-go/mcp"

	"discord-mcp/internal/apperr"
	"discord-mcp/internal/discord"
	"discord-mcp/internal/param"
)

func (d *Deps) eventTools() []registration {
	return []registration{
		{
			tool: mcp.NewTool("create_guild_scheduled_event",
				mcp.WithDescription("Create a scheduled event on the server"),
				guildOption(),
				mcp.WithString("name", mcp.Required(), mcp.Description("Name of the event")),
				mcp.WithString("scheduledStartTime", mcp.Required(), mcp.Description("Start time as ISO-8601 with offset, e.g. 2024-05-01T18:00:00+02:00")),
				mcp.WithString("entityType", mcp.Required(), mcp.Description("Where the event takes place: 1 (Stage), 2 (Voice), or 3 (External)")),
				mcp.WithString("channelId", mcp.Description("Stage or voice channel the event runs in (required for entityType 1 and 2)")),
				mcp.WithString("location", mcp.Description("External location text (required for entityType 3)")),
				mcp.WithString("scheduledEndTime", mcp.Description("End time as ISO-8601 with offset (required for entityType 3)")),
				mcp.WithString("description", mcp.Description("Event description")),
			),
			handler: d.createScheduledEvent,
		},
		{
			tool: mcp.NewTool("edit_guild_scheduled_event",
				mcp.WithDescription("Update a scheduled event; only supplied parameters change"),
				guildOption(),
				mcp.WithString("eventId", mcp.Required(), mcp.Description("ID of the event to edit")),
				mcp.WithString("name", mcp.Description("New name")),
				mcp.WithString("description", mcp.Description("New description")),
				mcp.WithString("scheduledStartTime", mcp.Description("New start time as ISO-8601 with offset")),
				mcp.WithString("location", mcp.Description("New external location (external events only)")),
				mcp.WithString("status", mcp.Description("New status: 1 (Scheduled), 2 (Active), 3 (Completed), or 4 (Canceled)")),
			),
			handler: d.editScheduledEvent,
		},
		{
			tool: mcp.NewTool("delete_guild_scheduled_event",
				mcp.WithDescription("Permanently delete a scheduled event"),
				guildOption(),
				mcp.WithString("eventId", mcp.Required(), mcp.Description("ID of the event to delete")),
			),
			handler: d.deleteScheduledEvent,
		},
		{
			tool: mcp.NewTool("list_guild_scheduled_events",
				mcp.WithDescription("List scheduled events on the server"),
				guildOption(),
				mcp.WithString("withUserCount", mcp.Description("Include interested-user counts (default true)")),
			),
			handler: d.listScheduledEvents,
		},
		{
			tool: mcp.NewTool("get_guild_scheduled_event_users",
				mcp.WithDescription("List users interested in a scheduled event"),
				guildOption(),
				mcp.WithString("eventId", mcp.Required(), mcp.Description("ID of the event")),
				mcp.WithString("limit", mcp.Description("Maximum number of users to return (default 100)")),
				mcp.WithString("withMember", mcp.Description("Include guild member data (default true)")),
			),
			handler: d.scheduledEventUsers,
		},
	}
}

func eventStatusLabel(s discordgo.GuildScheduledEventStatus) string {
	switch s {
	case discordgo.GuildScheduledEventStatusScheduled:
		return "Scheduled"
	case discordgo.GuildScheduledEventStatusActive:
		return "Active"
	case discordgo.GuildScheduledEventStatusCompleted:
		return "Completed"
	case discordgo.GuildScheduledEventStatusCanceled:
		return "Canceled"
	default:
		return fmt.Sprintf("status %d", s)
	}
}

func formatScheduledEvent(ev *discordgo.GuildScheduledEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- **%s** (ID: %s)", ev.Name, ev.ID)
	fmt.Fprintf(&b, "\n  • Status: %s", eventStatusLabel(ev.Status))
	fmt.Fprintf(&b, "\n  • Starts: %s", ev.ScheduledStartTime.Format(time.RFC3339))
	if ev.ScheduledEndTime != nil {
		fmt.Fprintf(&b, "\n  • Ends: %s", ev.ScheduledEndTime.Format(time.RFC3339))
	}
	switch ev.EntityType {
	case discordgo.GuildScheduledEventEntityTypeExternal:
		if ev.EntityMetadata.Location != "" {
			fmt.Fprintf(&b, "\n  • Location: %s", ev.EntityMetadata.Location)
		}
	default:
		if ev.ChannelID != "" {
			fmt.Fprintf(&b, "\n  • Channel ID: %s", ev.ChannelID)
		}
	}
	if ev.Description != "" {
		fmt.Fprintf(&b, "\n  • Description: %s", ev.Description)
	}
	return b.String()
}

func (d *Deps) createScheduledEvent(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guild, err := d.Resolve.Guild(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	v, err := param.Parse(args(req), []param.Rule{
		{Name: "name", Type: param.String, Required: true},
		{Name: "scheduledStartTime", Type: param.Timestamp, Required: true},
		{Name: "entityType", Type: param.IntEnum, Required: true,
			Enum: []int64{1, 2, 3}, EnumHint: "1 (Stage), 2 (Voice), or 3 (External)"},
		{Name: "channelId", Type: param.String, RequiredWhen: func(v param.Values) string {
			if t := v.Int("entityType"); t == 1 || t == 2 {
				return "for stage and voice events"
			}
			return ""
		}},
		{Name: "location", Type: param.String, RequiredWhen: func(v param.Values) string {
			if v.Int("entityType") == 3 {
				return "for external events"
			}
			return ""
		}},
		{Name: "scheduledEndTime", Type: param.Timestamp, RequiredWhen: func(v param.Values) string {
			if v.Int("entityType") == 3 {
				return "for external events"
			}
			return ""
		}},
	})
	if err != nil {
		return "", err
	}

	entityType := discordgo.GuildScheduledEventEntityType(v.Int("entityType"))
	start := v.Time("scheduledStartTime")
	params := &discordgo.GuildScheduledEventParams{
		Name:               v.Str("name"),
		Description:        req.GetString("description", ""),
		ScheduledStartTime: &start,
		EntityType:         entityType,
		PrivacyLevel:       discordgo.GuildScheduledEventPrivacyLevelGuildOnly,
	}
	switch entityType {
	case discordgo.GuildScheduledEventEntityTypeExternal:
		end := v.Time("scheduledEndTime")
		params.ScheduledEndTime = &end
		params.EntityMetadata = &discordgo.GuildScheduledEventEntityMetadata{
			Location: v.Str("location"),
		}
	default:
		ch, err := d.Resolve.AudioChannel(guild.ID, v.Str("channelId"))
		if err != nil {
			return "", err
		}
		params.ChannelID = ch.ID
	}

	ev, err := d.Client.GuildScheduledEventCreate(guild.ID, params)
	if err != nil {
		return "", discord.Normalize(err)
	}
	return "Successfully created scheduled event:\n" + formatScheduledEvent(ev), nil
}

func (d *Deps) editScheduledEvent(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guild, err := d.Resolve.Guild(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	ev, err := d.Resolve.ScheduledEvent(guild.ID, req.GetString("eventId", ""), false)
	if err != nil {
		return "", err
	}
	v, err := param.Parse(args(req), []param.Rule{
		{Name: "scheduledStartTime", Type: param.Timestamp},
		{Name: "status", Type: param.IntEnum,
			Enum: []int64{1, 2, 3, 4}, EnumHint: "1 (Scheduled), 2 (Active), 3 (Completed), or 4 (Canceled)"},
	})
	if err != nil {
		return "", err
	}

	params := &discordgo.GuildScheduledEventParams{
		Name:        req.GetString("name", ""),
		Description: req.GetString("description", ""),
	}
	if v.Has("scheduledStartTime") {
		start := v.Time("scheduledStartTime")
		params.ScheduledStartTime = &start
	}
	if v.Has("status") {
		params.Status = discordgo.GuildScheduledEventStatus(v.Int("status"))
	}
	if location := req.GetString("location", ""); location != "" {
		if ev.EntityType != discordgo.GuildScheduledEventEntityTypeExternal {
			return "", apperr.Validation("location can only be changed on external events")
		}
		params.EntityMetadata = &discordgo.GuildScheduledEventEntityMetadata{Location: location}
	}

	updated, err := d.Client.GuildScheduledEventEdit(guild.ID, ev.ID, params)
	if err != nil {
		return "", discord.Normalize(err)
	}
	return "Successfully updated scheduled event:\n" + formatScheduledEvent(updated), nil
}

func (d *Deps) deleteScheduledEvent(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guild, err := d.Resolve.Guild(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	ev, err := d.Resolve.ScheduledEvent(guild.ID, req.GetString("eventId", ""), false)
	if err != nil {
		return "", err
	}

	if err := d.Client.GuildScheduledEventDelete(guild.ID, ev.ID); err != nil {
		return "", discord.Normalize(err)
	}
	return fmt.Sprintf("Successfully deleted scheduled event: **%s** (ID: %s)", ev.Name, ev.ID), nil
}

func (d *Deps) listScheduledEvents(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guild, err := d.Resolve.Guild(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	v, err := param.Parse(args(req), []param.Rule{
		{Name: "withUserCount", Type: param.Bool, Default: true},
	})
	if err != nil {
		return "", err
	}

	events, err := d.Client.GuildScheduledEvents(guild.ID, v.Bool("withUserCount"))
	if err != nil {
		return "", discord.Normalize(err)
	}
	if len(events) == 0 {
		return "No scheduled events found on this server.", nil
	}

	lines := make([]string, 0, len(events))
	for _, ev := range events {
		line := formatScheduledEvent(ev)
		if v.Bool("withUserCount") {
			line += fmt.Sprintf("\n  • Interested users: %d", ev.UserCount)
		}
		lines = append(lines, line)
	}
	return listHeader(len(events), len(events), "scheduled events") + joinLines(lines), nil
}

func (d *Deps) scheduledEventUsers(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guild, err := d.Resolve.Guild(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	ev, err := d.Resolve.ScheduledEvent(guild.ID, req.GetString("eventId", ""), true)
	if err != nil {
		return "", err
	}
	v, err := param.Parse(args(req), []param.Rule{
		{Name: "limit", Type: param.Int, Default: int64(100), Positive: true},
		{Name: "withMember", Type: param.Bool, Default: true},
	})
	if err != nil {
		return "", err
	}

	users, err := d.Client.GuildScheduledEventUsers(guild.ID, ev.ID, int(v.Int("limit")), v.Bool("withMember"))
	if err != nil {
		return "", discord.Normalize(err)
	}
	total := ev.UserCount
	if total < len(users) {
		total = len(users)
	}
	if len(users) == 0 {
		return fmt.Sprintf("No users are interested in event **%s** yet.", ev.Name), nil
	}

	lines := make([]string, 0, len(users))
	for _, u := range users {
		line := fmt.Sprintf("- %s", userLabel(u.User))
		if u.Member != nil && u.Member.Nick != "" {
			line += fmt.Sprintf(" — Nickname: %s", u.Member.Nick)
		}
		lines = append(lines, line)
	}
	return fmt.Sprintf("Retrieved %d of %d interested users for event **%s**:\n",
		len(users), total, ev.Name) + joinLines(lines), nil
}
