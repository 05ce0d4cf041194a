// Package tools declares every MCP tool and its handler. Each handler is a
// single request/response unit: resolve scope, resolve entities, parse
// parameters, issue exactly one remote call, format the result. Failures
// carry an apperr kind and are never retried here.
package tools

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"discord-mcp/internal/apperr"
	"discord-mcp/internal/discord"
	"discord-mcp/internal/param"
	"discord-mcp/internal/resolver"
)

type Deps struct {
	Client  discord.Client
	Resolve *resolver.Resolver
	Log     zerolog.Logger
}

type handlerFunc func(ctx context.Context, req mcp.CallToolRequest) (string, error)

type registration struct {
	tool    mcp.Tool
	handler handlerFunc
}

// Register adds every tool family to the MCP server.
func Register(s *server.MCPServer, d *Deps) {
	groups := [][]registration{
		d.serverTools(),
		d.moderationTools(),
		d.roleTools(),
		d.channelTools(),
		d.categoryTools(),
		d.messageTools(),
		d.userTools(),
		d.webhookTools(),
		d.threadTools(),
		d.voiceTools(),
		d.inviteTools(),
		d.eventTools(),
	}
	for _, group := range groups {
		for _, reg := range group {
			s.AddTool(reg.tool, d.wrap(reg.tool.Name, reg.handler))
		}
	}
}

func (d *Deps) wrap(name string, fn handlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		text, err := fn(ctx, req)
		if err != nil {
			d.Log.Warn().
				Str("tool", name).
				Str("kind", apperr.KindOf(err).String()).
				Dur("took", time.Since(start)).
				Msg(err.Error())
			return mcp.NewToolResultError(err.Error()), nil
		}
		d.Log.Info().Str("tool", name).Dur("took", time.Since(start)).Msg("ok")
		return mcp.NewToolResultText(text), nil
	}
}

// args adapts the MCP request to the parameter parser. Every argument is
// transmitted as a string or omitted.
func args(req mcp.CallToolRequest) param.Source {
	return param.SourceFunc(func(name string) string {
		return req.GetString(name, "")
	})
}

// guildOption is the shared optional scope parameter.
func guildOption() mcp.ToolOption {
	return mcp.WithString("guildId",
		mcp.Description("Discord server ID (optional when a default server is configured)"),
	)
}
