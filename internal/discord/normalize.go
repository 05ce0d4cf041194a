package discord

import (
	"errors"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"discord-mcp/internal/apperr"
)

// Discord JSON error codes this layer distinguishes. Kept local so the
// mapping is complete in one place even where discordgo lacks a constant.
const (
	codeUnknownChannel        = 10003
	codeUnknownGuild          = 10004
	codeUnknownInvite         = 10006
	codeUnknownMember         = 10007
	codeUnknownMessage        = 10008
	codeUnknownRole           = 10011
	codeUnknownUser           = 10013
	codeUnknownWebhook        = 10015
	codeUnknownBan            = 10026
	codeUnknownScheduledEvent = 10070
	codeMissingAccess         = 50001
	codeMissingPermissions    = 50013
	codeInvalidFormBody       = 50035
)

// Normalize maps a discordgo failure onto the apperr taxonomy. Errors that
// already carry a kind pass through untouched; everything unrecognized is
// wrapped with its remote message preserved.
func Normalize(err error) error {
	if err == nil {
		return nil
	}

	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}

	var rerr *discordgo.RESTError
	if errors.As(err, &rerr) {
		if rerr.Message != nil {
			switch rerr.Message.Code {
			case codeUnknownChannel:
				return apperr.NotFound("Channel not found")
			case codeUnknownGuild:
				return apperr.NotFound("Discord server not found")
			case codeUnknownInvite:
				return apperr.NotFound("Invite not found or expired")
			case codeUnknownMember:
				return apperr.NotFound("User not found in this server")
			case codeUnknownMessage:
				return apperr.NotFound("Message not found")
			case codeUnknownRole:
				return apperr.NotFound("Role not found")
			case codeUnknownUser:
				return apperr.NotFound("User not found")
			case codeUnknownWebhook:
				return apperr.NotFound("Webhook not found")
			case codeUnknownBan:
				return apperr.NotFound("User is not banned")
			case codeUnknownScheduledEvent:
				return apperr.NotFound("Scheduled event not found")
			case codeMissingAccess:
				return apperr.Permission("the bot does not have access to this resource")
			case codeMissingPermissions:
				return apperr.Permission("the bot lacks the permission required for this action")
			case codeInvalidFormBody:
				return apperr.Validation("Discord rejected the request: %s", rerr.Message.Message)
			}
		}
		if rerr.Response != nil {
			switch rerr.Response.StatusCode {
			case http.StatusForbidden:
				return apperr.Permission("the bot lacks the permission required for this action")
			case http.StatusNotFound:
				return apperr.NotFound("the requested resource does not exist")
			case http.StatusBadRequest:
				return apperr.InvalidArgument("Discord rejected the request as malformed")
			}
		}
	}

	return apperr.Internal(err, "Discord request failed")
}
