package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	BotToken       string
	StateFile      string
	DBDsn          string
	ServerPort     string
	BotAPIKey      string
	WebhookBaseURL string
	WebhookSecret  string

	PollTimeout     time.Duration
	RefreshInterval time.Duration
	DeleteAfter     time.Duration
	DefaultDays     int
}

func Load() *Config {
	return &Config{
		BotToken:       os.Getenv("BOT_TOKEN"),
		StateFile:      getEnv("STATE_FILE", "contest_state.json"),
		DBDsn:          os.Getenv("DB_DSN"),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		BotAPIKey:      getEnv("BOT_API_KEY", "bot-api-key-change-me"),
		WebhookBaseURL: os.Getenv("WEBHOOK_BASE_URL"),
		WebhookSecret:  os.Getenv("WEBHOOK_SECRET"),

		PollTimeout:     getEnvSeconds("POLL_TIMEOUT", 25),
		RefreshInterval: getEnvSeconds("REFRESH_INTERVAL", 60),
		DeleteAfter:     getEnvSeconds("DELETE_AFTER", 60),
		DefaultDays:     getEnvInt("DEFAULT_CONTEST_DAYS", 7),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvSeconds(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * time.Second
}
