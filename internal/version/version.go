package version

// Set at build time via -ldflags "-X discord-mcp/internal/version.Version=...".
var (
	AppName = "discord-mcp"
	Version = "dev"
)
