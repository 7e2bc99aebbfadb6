package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	HTTPAddr      string
	SessionSecret string

	DBUrl  string
	DBNs   string
	DBDb   string
	DBUser string
	DBPass string

	// PinSweepCron is the cron expression controlling how often the
	// pin-expiry sweeper runs. Defaults to every minute.
	PinSweepCron string

	// ModScriptDir points at the directory holding moderation filter
	// scripts. Empty disables the script filter.
	ModScriptDir string

	TracingEnabled bool
	ZipkinURL      string
}

// New loads configuration from environment variables.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		DBUrl:          os.Getenv("SURREAL_URL"),
		DBUser:         os.Getenv("SURREAL_USER"),
		DBPass:         os.Getenv("SURREAL_PASS"),
		DBNs:           os.Getenv("SURREAL_NS"),
		DBDb:           os.Getenv("SURREAL_DB"),
		PinSweepCron:   getEnv("PIN_SWEEP_CRON", "* * * * *"),
		ModScriptDir:   os.Getenv("MOD_SCRIPT_DIR"),
		TracingEnabled: os.Getenv("TRACING_ENABLED") == "true",
		ZipkinURL:      getEnv("ZIPKIN_URL", "http://localhost:9411/api/v2/spans"),
	}

	if cfg.DBUrl == "" || cfg.DBNs == "" || cfg.DBDb == "" {
		log.Fatal("Required environment variables SURREAL_URL, SURREAL_NS, or SURREAL_DB are not set.")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
