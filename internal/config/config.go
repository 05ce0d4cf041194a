package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything read from the environment at startup. It is
// read-only afterwards, so concurrent tool calls may share it freely.
type Config struct {
	// DiscordToken authenticates the gateway session.
	DiscordToken string `env:"DISCORD_TOKEN,required"`

	// GuildID is the process-wide default server scope. When empty, every
	// tool call must carry an explicit guildId.
	GuildID string `env:"DISCORD_GUILD_ID"`

	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile      string `env:"LOG_FILE"`
	LogMaxSizeMB int    `env:"LOG_MAX_SIZE_MB" envDefault:"20"`

	// RequestsPerSecond paces outgoing REST calls. Discord's own per-route
	// buckets still apply on top of this.
	RequestsPerSecond float64 `env:"DISCORD_REQUESTS_PER_SECOND" envDefault:"25"`
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &cfg, nil
}
