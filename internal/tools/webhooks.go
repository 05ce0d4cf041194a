package tools

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/mark3labs/mcp-go/mcp"

	"discord-mcp/internal/apperr"
	"discord-mcp/internal/discord"
)

func (d *Deps) webhookTools() []registration {
	return []registration{
		{
			tool: mcp.NewTool("create_webhook",
				mcp.WithDescription("Create a webhook on a channel and return its URL"),
				guildOption(),
				mcp.WithString("channelId", mcp.Required(), mcp.Description("ID of the channel to attach the webhook to")),
				mcp.WithString("name", mcp.Required(), mcp.Description("Name of the webhook")),
			),
			handler: d.createWebhook,
		},
		{
			tool: mcp.NewTool("delete_webhook",
				mcp.WithDescription("Permanently delete a webhook"),
				mcp.WithString("webhookId", mcp.Required(), mcp.Description("ID of the webhook to delete")),
			),
			handler: d.deleteWebhook,
		},
		{
			tool: mcp.NewTool("list_webhooks",
				mcp.WithDescription("List all webhooks on the server"),
				guildOption(),
			),
			handler: d.listWebhooks,
		},
		{
			tool: mcp.NewTool("send_webhook_message",
				mcp.WithDescription("Send a message through a webhook URL"),
				mcp.WithString("webhookUrl", mcp.Required(), mcp.Description("Full Discord webhook URL")),
				mcp.WithString("message", mcp.Required(), mcp.Description("Message content")),
			),
			handler: d.sendWebhookMessage,
		},
	}
}

// parseWebhookURL extracts the webhook ID and token from a Discord webhook
// endpoint of the form https://discord.com/api/webhooks/<id>/<token>.
func parseWebhookURL(raw string) (id, token string, err error) {
	u, parseErr := url.Parse(strings.TrimSpace(raw))
	if parseErr != nil || u.Host == "" {
		return "", "", apperr.InvalidArgument("webhookUrl is not a valid URL")
	}
	switch strings.ToLower(u.Hostname()) {
	case "discord.com", "discordapp.com", "ptb.discord.com", "canary.discord.com":
	default:
		return "", "", apperr.InvalidArgument("webhookUrl is not a Discord webhook endpoint")
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, part := range parts {
		if part == "webhooks" && i+2 < len(parts) {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", apperr.InvalidArgument("webhookUrl is not a Discord webhook endpoint")
}

func webhookURL(w *discordgo.Webhook) string {
	return fmt.Sprintf("https://discord.com/api/webhooks/%s/%s", w.ID, w.Token)
}

func (d *Deps) createWebhook(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guildID, err := d.Resolve.GuildID(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	ch, err := d.Resolve.Channel(guildID, req.GetString("channelId", ""))
	if err != nil {
		return "", err
	}
	name := req.GetString("name", "")
	if name == "" {
		return "", apperr.InvalidArgument("name cannot be empty")
	}

	w, err := d.Client.WebhookCreate(ch.ID, name)
	if err != nil {
		return "", discord.Normalize(err)
	}
	return fmt.Sprintf("Successfully created webhook: **%s** (ID: %s)\n  • Channel: %s\n  • URL: %s",
		w.Name, w.ID, ch.Name, webhookURL(w)), nil
}

func (d *Deps) deleteWebhook(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	webhookID := req.GetString("webhookId", "")
	if webhookID == "" {
		return "", apperr.InvalidArgument("webhookId cannot be empty")
	}
	if err := d.Client.WebhookDelete(webhookID); err != nil {
		return "", discord.Normalize(err)
	}
	return fmt.Sprintf("Successfully deleted webhook (ID: %s)", webhookID), nil
}

func (d *Deps) listWebhooks(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	guild, err := d.Resolve.Guild(req.GetString("guildId", ""))
	if err != nil {
		return "", err
	}
	webhooks, err := d.Client.GuildWebhooks(guild.ID)
	if err != nil {
		return "", discord.Normalize(err)
	}
	if len(webhooks) == 0 {
		return "No webhooks found on this server.", nil
	}

	lines := make([]string, 0, len(webhooks))
	for _, w := range webhooks {
		lines = append(lines, fmt.Sprintf("- **%s** (ID: %s)\n  • Channel ID: %s\n  • URL: %s",
			w.Name, w.ID, w.ChannelID, webhookURL(w)))
	}
	return listHeader(len(webhooks), len(webhooks), "webhooks") + joinLines(lines), nil
}

func (d *Deps) sendWebhookMessage(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	id, token, err := parseWebhookURL(req.GetString("webhookUrl", ""))
	if err != nil {
		return "", err
	}
	content := req.GetString("message", "")
	if content == "" {
		return "", apperr.InvalidArgument("message cannot be empty")
	}

	msg, err := d.Client.WebhookExecute(id, token, true, &discordgo.WebhookParams{Content: content})
	if err != nil {
		return "", discord.Normalize(err)
	}
	return fmt.Sprintf("Webhook message sent. Message ID: %s", msg.ID), nil
}
