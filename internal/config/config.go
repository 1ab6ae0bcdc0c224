package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Settings are the user-facing archive defaults, applied when a request
// does not override them.
type Settings struct {
	RunPIIScan        bool
	AlwaysRedact      bool
	DefaultVisibility string
	DefaultShowAuthor bool
}

type Config struct {
	Port           int
	NatsURL        string
	NatsToken      string
	DatabaseURL    string
	ShareBaseURL   string
	LogLevel       string
	APIToken       string
	PIIPatternFile string
	Settings       Settings
}

func Load() Config {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	return Config{
		Port:           envInt("MNEMOLOG_PORT", 8760),
		NatsURL:        envStr("NATS_URL", ""),
		NatsToken:      envStr("NATS_TOKEN", ""),
		DatabaseURL:    envStr("DATABASE_URL", ""),
		ShareBaseURL:   envStr("SHARE_BASE_URL", "https://mnemolog.app"),
		LogLevel:       envStr("LOG_LEVEL", "info"),
		APIToken:       envStr("MNEMOLOG_API_TOKEN", ""),
		PIIPatternFile: envStr("PII_PATTERN_FILE", ""),
		Settings: Settings{
			RunPIIScan:        envBool("PII_SCAN_ENABLED", true),
			AlwaysRedact:      envBool("PII_ALWAYS_REDACT", false),
			DefaultVisibility: envStr("DEFAULT_VISIBILITY", "private"),
			DefaultShowAuthor: envBool("DEFAULT_SHOW_AUTHOR", false),
		},
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
