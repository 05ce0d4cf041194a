package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"discord-mcp/internal/apperr"
	"discord-mcp/internal/discord"
	"discord-mcp/internal/param"
)

// memberSearchLimit caps the member search page; Discord reports no total
// match count.
const memberSearchLimit = 10

func (d *Deps) userTools() []registration {
	return []registration{
		{
			tool: mcp.NewTool("get_user_id_by_name",
				mcp.WithDescription("Look up a server member's user ID by username or nickname"),
				guildOption(),
				mcp.WithString("username", mcp.Required(), mcp.Description("Username or nickname to search for")),
			),
			handler: d.getUserIDByName,
		},
		{
			tool: mcp.NewTool("send_private_message",
				mcp.WithDescription("Send a direct message to a user"),
				mcp.WithString("userId", mcp.Required(), mcp.Description("ID of the recipient")),
				mcp.WithString("message", mcp.Required(), mcp.Description("Message content")),
			),
			handler: d.sendPrivateMessage,
		},
		{
			tool: mcp.NewTool("edit_private_message",
				mcp.WithDescription("Edit a direct message previously sent by the bot"),
				mcp.WithString("userId", mcp.Required(), mcp.Description("ID of the recipient")),
				mcp.WithString("messageId", mcp.Required(), mcp.Description("ID of the message to edit")),
				mcp.WithString("newMessage", mcp.Required(), mcp.Description("New message content")),
			),
			handler: d.editPrivateMessage,
		},
		{
			tool: mcp.NewTool("delete_private_message",
				mcp.WithDescription("Delete a direct message sent by the bot"),
				mcp.WithString("userId", mcp.Required(), mcp.Description("ID of the recipient")),
				mcp.WithString("messageId", mcp.Required(), mcp.Description("ID of the message to delete")),
			),
			handler: d.deletePrivateMessage,
		},
		{
			tool: mcp.NewTool("read_private_messages",
				mcp.WithDescription("Read recent messages from the direct message channel with a user"),
				mcp.WithString("userId", mcp.Required(), mcp.Description("ID of the user")),
				mcp.WithString("count", mcp.Description("Number of messages to fetch (default 100, max 100)")),
			),
			handler: d.readPrivateMessages,
		},
	}
}

// dmChannel opens (or reuses) the direct message channel with a user.
func (d *Deps) dmChannel(req mcp.CallToolRequest) (string, error) {
	userID := req.GetString("userId", "")
	if userID == "" {
		return "", apperr.InvalidArgument("userId cannot be empty")
	}
	ch, err := d.Client.UserChannelCreate(userID)
	if err != nil {
		return "", discord.Normalize(err)
	}
	return ch.ID, nil
}

func (d *Deps) getUserIDByName(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guild, err := d.Resolve.Guild(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	username := req.GetString("username", "")
	if username == "" {
		return "", apperr.InvalidArgument("username cannot be empty")
	}

	members, err := d.Client.GuildMembersSearch(guild.ID, username, memberSearchLimit)
	if err != nil {
		return "", discord.Normalize(err)
	}
	if len(members) == 0 {
		return "", apperr.NotFound("No member matching **%s** found on this server", username)
	}

	lines := make([]string, 0, len(members))
	for _, m := range members {
		line := fmt.Sprintf("- %s", userLabel(m.User))
		if m.Nick != "" {
			line += fmt.Sprintf(" — Nickname: %s", m.Nick)
		}
		lines = append(lines, line)
	}
	// A full page means the true match count is unknown.
	header := fmt.Sprintf("Retrieved %d of %d matching members:\n", len(members), len(members))
	if len(members) == memberSearchLimit {
		header = fmt.Sprintf("Retrieved first %d matching members (more may exist, refine the search):\n", memberSearchLimit)
	}
	return header + joinLines(lines), nil
}

func (d *Deps) sendPrivateMessage(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	content := req.GetString("message", "")
	if content == "" {
		return "", apperr.InvalidArgument("message cannot be empty")
	}
	channelID, err := d.dmChannel(req)
	if err != nil {
		return "", err
	}

	msg, err := d.Client.ChannelMessageSend(channelID, content)
	if err != nil {
		return "", discord.Normalize(err)
	}
	return fmt.Sprintf("Private message sent to user ID **%s**. Message ID: %s",
		req.GetString("userId", ""), msg.ID), nil
}

func (d *Deps) editPrivateMessage(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	messageID := req.GetString("messageId", "")
	if messageID == "" {
		return "", apperr.InvalidArgument("messageId cannot be empty")
	}
	content := req.GetString("newMessage", "")
	if content == "" {
		return "", apperr.InvalidArgument("newMessage cannot be empty")
	}
	channelID, err := d.dmChannel(req)
	if err != nil {
		return "", err
	}

	msg, err := d.Client.ChannelMessageEdit(channelID, messageID, content)
	if err != nil {
		return "", discord.Normalize(err)
	}
	return fmt.Sprintf("Successfully edited private message (ID: %s)", msg.ID), nil
}

func (d *Deps) deletePrivateMessage(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	messageID := req.GetString("messageId", "")
	if messageID == "" {
		return "", apperr.InvalidArgument("messageId cannot be empty")
	}
	channelID, err := d.dmChannel(req)
	if err != nil {
		return "", err
	}

	if err := d.Client.ChannelMessageDelete(channelID, messageID); err != nil {
		return "", discord.Normalize(err)
	}
	return fmt.Sprintf("Successfully deleted private message (ID: %s)", messageID), nil
}

func (d *Deps) readPrivateMessages(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	v, err := param.Parse(args(req), []param.Rule{
		{Name: "count", Type: param.Int, Default: int64(maxReadMessages), Bounded: true, Min: 1, Max: maxReadMessages},
	})
	if err != nil {
		return "", err
	}
	channelID, err := d.dmChannel(req)
	if err != nil {
		return "", err
	}

	messages, err := d.Client.ChannelMessages(channelID, int(v.Int("count")), "", "")
	if err != nil {
		return "", discord.Normalize(err)
	}
	if len(messages) == 0 {
		return "No private messages found with this user.", nil
	}

	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		author := "unknown"
		if m.Author != nil {
			author = m.Author.Username
		}
		lines = append(lines, fmt.Sprintf("- [%s] **%s**: %s (ID: %s)",
			m.Timestamp.Format("2006-01-02 15:04"), author, m.Content, m.ID))
	}
	return fmt.Sprintf("Retrieved %d of %d private messages:\n",
		len(messages), len(messages)) + joinLines(lines), nil
}
