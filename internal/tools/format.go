package tools

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Response text aims for the same shape everywhere: a one-line outcome,
// then indented bullet details. List responses always state how many
// entries were returned out of how many exist.

func reasonSuffix(reason string) string {
	if reason == "" {
		return ""
	}
	return " Reason: " + reason
}

func userLabel(u *discordgo.User) string {
	if u == nil {
		return "unknown user"
	}
	return fmt.Sprintf("**%s** (ID: %s)", u.Username, u.ID)
}

func listHeader(returned, total int, what string) string {
	return fmt.Sprintf("Retrieved %d of %d %s:\n", returned, total, what)
}

func orUnlimited(n int) string {
	if n == 0 {
		return "Unlimited"
	}
	return fmt.Sprintf("%d", n)
}

func channelTypeLabel(t discordgo.ChannelType) string {
	switch t {
	case discordgo.ChannelTypeGuildText:
		return "text"
	case discordgo.ChannelTypeGuildVoice:
		return "voice"
	case discordgo.ChannelTypeGuildCategory:
		return "category"
	case discordgo.ChannelTypeGuildNews:
		return "announcement"
	case discordgo.ChannelTypeGuildStageVoice:
		return "stage"
	case discordgo.ChannelTypeGuildForum:
		return "forum"
	case discordgo.ChannelTypeGuildNewsThread, discordgo.ChannelTypeGuildPublicThread, discordgo.ChannelTypeGuildPrivateThread:
		return "thread"
	default:
		return fmt.Sprintf("type %d", t)
	}
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
