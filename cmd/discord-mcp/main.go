// cmd/discord-mcp/main.go
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/mark3labs/mcp-go/server"

	"discord-mcp/internal/config"
	"discord-mcp/internal/discord"
	"discord-mcp/internal/logging"
	"discord-mcp/internal/resolver"
	"discord-mcp/internal/tools"
	v "discord-mcp/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logging.Fallback()
		fallback.Fatal().Err(err).Msg("configuration")
	}
	log := logging.New(cfg)
	log.Info().Str("version", v.Version).Msgf("starting %s", v.AppName)

	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		log.Fatal().Err(err).Msg("create Discord session")
	}
	session.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMembers |
		discordgo.IntentGuildVoiceStates |
		discordgo.IntentGuildScheduledEvents
	session.StateEnabled = true

	if err := session.Open(); err != nil {
		log.Fatal().Err(err).Msg("open Discord gateway")
	}
	defer session.Close()
	log.Info().Str("user", session.State.User.Username).Msg("Discord gateway connected")

	client := discord.NewClient(session, cfg.RequestsPerSecond)
	deps := &tools.Deps{
		Client:  client,
		Resolve: resolver.New(client, cfg.GuildID),
		Log:     log,
	}

	mcpServer := server.NewMCPServer(v.AppName, v.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	tools.Register(mcpServer, deps)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ServeStdio(mcpServer)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("shutting down")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("MCP server stopped")
			os.Exit(1)
		}
		log.Info().Msg("MCP client disconnected")
	}
}
