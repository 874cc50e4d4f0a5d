package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const defaultSessionTTL = 30 * 24 * time.Hour

// Config carries every environment-derived setting. It is built once in
// main and handed to the fx graph; nothing reads the environment after
// startup.
type Config struct {
	Port          string
	DatabaseURL   string
	SecretKey     string
	SessionTTL    time.Duration
	AdminUsername string
	AdminPassword string
	ContentDir    string
	Env           string
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	return &Config{
		Port:          envOr("PORT", "8080"),
		DatabaseURL:   envOr("DATABASE_URL", ""),
		SecretKey:     envOr("SECRET_KEY", "a-very-secret-key"),
		SessionTTL:    sessionTTL(),
		AdminUsername: envOr("ADMIN_USERNAME", "admin"),
		AdminPassword: envOr("ADMIN_PASSWORD", "password"),
		ContentDir:    envOr("CONTENT_DIR", "content"),
		Env:           envOr("APP_ENV", "dev"),
	}
}

func sessionTTL() time.Duration {
	raw := os.Getenv("SESSION_TTL")
	if raw == "" {
		return defaultSessionTTL
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return defaultSessionTTL
	}
	return time.Duration(seconds) * time.Second
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
