package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"discord-mcp/internal/apperr"
	"discord-mcp/internal/discord"
	"discord-mcp/internal/param"
)

const maxReadMessages = 100

func (d *Deps) messageTools() []registration {
	return []registration{
		{
			tool: mcp.NewTool("send_message",
				mcp.WithDescription("Send a message to a channel"),
				guildOption(),
				mcp.WithString("channelId", mcp.Required(), mcp.Description("ID of the target channel")),
				mcp.WithString("message", mcp.Required(), mcp.Description("Message content")),
			),
			handler: d.sendMessage,
		},
		{
			tool: mcp.NewTool("edit_message",
				mcp.WithDescription("Edit a message previously sent by the bot"),
				guildOption(),
				mcp.WithString("channelId", mcp.Required(), mcp.Description("ID of the channel containing the message")),
				mcp.WithString("messageId", mcp.Required(), mcp.Description("ID of the message to edit")),
				mcp.WithString("newMessage", mcp.Required(), mcp.Description("New message content")),
			),
			handler: d.editMessage,
		},
		{
			tool: mcp.NewTool("delete_message",
				mcp.WithDescription("Delete a message from a channel"),
				guildOption(),
				mcp.WithString("channelId", mcp.Required(), mcp.Description("ID of the channel containing the message")),
				mcp.WithString("messageId", mcp.Required(), mcp.Description("ID of the message to delete")),
			),
			handler: d.deleteMessage,
		},
		{
			tool: mcp.NewTool("read_messages",
				mcp.WithDescription("Read recent messages from a channel, newest first"),
				guildOption(),
				mcp.WithString("channelId", mcp.Required(), mcp.Description("ID of the channel to read")),
				mcp.WithString("count", mcp.Description("Number of messages to fetch (default 100, max 100)")),
			),
			handler: d.readMessages,
		},
		{
			tool: mcp.NewTool("add_reaction",
				mcp.WithDescription("Add an emoji reaction to a message"),
				guildOption(),
				mcp.WithString("channelId", mcp.Required(), mcp.Description("ID of the channel containing the message")),
				mcp.WithString("messageId", mcp.Required(), mcp.Description("ID of the message to react to")),
				mcp.WithString("emoji", mcp.Required(), mcp.Description("Unicode emoji or custom emoji in name:id form")),
			),
			handler: d.addReaction,
		},
		{
			tool: mcp.NewTool("remove_reaction",
				mcp.WithDescription("Remove the bot's own emoji reaction from a message"),
				guildOption(),
				mcp.WithString("channelId", mcp.Required(), mcp.Description("ID of the channel containing the message")),
				mcp.WithString("messageId", mcp.Required(), mcp.Description("ID of the message")),
				mcp.WithString("emoji", mcp.Required(), mcp.Description("Emoji of the reaction to remove")),
			),
			handler: d.removeReaction,
		},
	}
}

// messageTarget resolves the channel plus the non-empty message ID shared by
// the edit/delete/reaction tools.
func (d *Deps) messageTarget(req mcp.CallToolRequest) (channelID, messageID string, err error) {
	guildID, err := d.Resolve.GuildID(req.GetString("guildId", ""))
	if err != nil {
		return "", "", err
	}
	ch, err := d.Resolve.Channel(guildID, req.GetString("channelId", ""))
	if err != nil {
		return "", "", err
	}
	messageID = req.GetString("messageId", "")
	if messageID == "" {
		return "", "", apperr.InvalidArgument("messageId cannot be empty")
	}
	return ch.ID, messageID, nil
}

func (d *Deps) sendMessage(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guildID, err := d.Resolve.GuildID(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	ch, err := d.Resolve.Channel(guildID, req.GetString("channelId", ""))
	if err != nil {
		return "", err
	}
	content := req.GetString("message", "")
	if content == "" {
		return "", apperr.InvalidArgument("message cannot be empty")
	}

	msg, err := d.Client.ChannelMessageSend(ch.ID, content)
	if err != nil {
		return "", discord.Normalize(err)
	}
	return fmt.Sprintf("Message sent to **%s**. Message ID: %s", ch.Name, msg.ID), nil
}

func (d *Deps) editMessage(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	channelID, messageID, err := d.messageTarget(req)
	if err != nil {
		return "", err
	}
	content := req.GetString("newMessage", "")
	if content == "" {
		return "", apperr.InvalidArgument("newMessage cannot be empty")
	}

	msg, err := d.Client.ChannelMessageEdit(channelID, messageID, content)
	if err != nil {
		return "", discord.Normalize(err)
	}
	return fmt.Sprintf("Successfully edited message (ID: %s)", msg.ID), nil
}

func (d *Deps) deleteMessage(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	channelID, messageID, err := d.messageTarget(req)
	if err != nil {
		return "", err
	}
	if err := d.Client.ChannelMessageDelete(channelID, messageID); err != nil {
		return "", discord.Normalize(err)
	}
	return fmt.Sprintf("Successfully deleted message (ID: %s)", messageID), nil
}

func (d *Deps) readMessages(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guildID, err := d.Resolve.GuildID(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	ch, err := d.Resolve.Channel(guildID, req.GetString("channelId", ""))
	if err != nil {
		return "", err
	}
	v, err := param.Parse(args(req), []param.Rule{
		{Name: "count", Type: param.Int, Default: int64(maxReadMessages), Bounded: true, Min: 1, Max: maxReadMessages},
	})
	if err != nil {
		return "", err
	}
	count := int(v.Int("count"))

	messages, err := d.Client.ChannelMessages(ch.ID, count, "", "")
	if err != nil {
		return "", discord.Normalize(err)
	}
	if len(messages) == 0 {
		return fmt.Sprintf("No messages found in channel **%s**.", ch.Name), nil
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
	return fmt.Sprintf("Retrieved %d of %d messages from **%s**:\n",
		len(messages), len(messages), ch.Name) + joinLines(lines), nil
}

func (d *Deps) addReaction(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	channelID, messageID, err := d.messageTarget(req)
	if err != nil {
		return "", err
	}
	emoji := req.GetString("emoji", "")
	if emoji == "" {
		return "", apperr.InvalidArgument("emoji cannot be empty")
	}
	if err := d.Client.MessageReactionAdd(channelID, messageID, emoji); err != nil {
		return "", discord.Normalize(err)
	}
	return fmt.Sprintf("Added reaction %s to message (ID: %s)", emoji, messageID), nil
}

func (d *Deps) removeReaction(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	channelID, messageID, err := d.messageTarget(req)
	if err != nil {
		return "", err
	}
	emoji := req.GetString("emoji", "")
	if emoji == "" {
		return "", apperr.InvalidArgument("emoji cannot be empty")
	}
	if err := d.Client.MessageReactionRemove(channelID, messageID, emoji, "@me"); err != nil {
		return "", discord.Normalize(err)
	}
	return fmt.Sprintf("Removed reaction %s from message (ID: %s)", emoji, messageID), nil
}
