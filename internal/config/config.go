package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the server.
type Config struct {
	Port string
	Env  string

	// DatabaseURL selects the postgres stores; when empty the server runs
	// on the in-memory stores (development and tests).
	DatabaseURL string

	// ValkeyAddr selects the valkey OTP store; empty falls back to memory.
	ValkeyAddr string

	JWTSecret   string
	JWTValidity time.Duration

	AllowedOrigin string

	// SMTP settings for OTP mail. When SMTPHost is empty, codes are only
	// logged (development).
	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	MailFrom string
}

// Load reads configuration from environment variables, loading a .env
// file first when present.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "5000"),
		Env:           getEnv("ENV", "development"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		ValkeyAddr:    os.Getenv("VALKEY_ADDR"),
		JWTSecret:     getEnv("JWT_SECRET", "dev-only-secret"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://127.0.0.1:5173"),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPass:      os.Getenv("SMTP_PASSWORD"),
		MailFrom:      getEnv("MAIL_FROM", "ChatNest <no-reply@chatnest.local>"),
	}

	cfg.JWTValidity = 24 * time.Hour
	if v := os.Getenv("JWT_VALIDITY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.JWTValidity = d
		}
	}

	if cfg.Env == "production" {
		if cfg.DatabaseURL == "" {
			panic("DATABASE_URL is required in production")
		}
		if os.Getenv("JWT_SECRET") == "" {
			panic("JWT_SECRET is required in production")
		}
	}

	return cfg
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
