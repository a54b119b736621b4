package config

import (
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const defaultPerMatchReward = 10

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	return Config{
		DBName: getEnv("DB_NAME"),
		Port:   getEnv("PORT"),
		Slack: SlackConfig{
			Token:         getEnvOrDefault("SLACK_BOT_TOKEN", ""),
			ChannelID:     getEnvOrDefault("SLACK_CHANNEL_ID", ""),
			SigningSecret: getEnvOrDefault("SLACK_SIGNING_SECRET", ""),
		},
		Turso: TursoConfig{
			PrimaryURL: getEnvOrDefault("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnvOrDefault("TURSO_AUTH_TOKEN", ""),
		},
		ProjectID: getEnvOrDefault("GCP_PROJECT", ""),
		Ledger: LedgerConfig{
			DefaultServiceFee:     getFloatOrDefault("DEFAULT_SERVICE_FEE", 0),
			DefaultPerMatchReward: getFloatOrDefault("DEFAULT_PER_MATCH_REWARD", defaultPerMatchReward),
		},
	}
}

func getEnvOrDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getFloatOrDefault(key string, fallback float64) float64 {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 {
		log.Warn("Ignoring invalid numeric environment variable", "key", key, "value", raw)
		return fallback
	}
	return value
}
