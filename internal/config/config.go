package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr string

	PostgresDB       string
	PostgresUser     string
	PostgresPassword string
	PostgresHost     string
	PostgresPort     string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	ConfirmTokenTTL time.Duration
	BcryptCost      int

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	AvatarDir     string
	AvatarBaseURL string
}

// Load reads configuration from the environment, with a best-effort .env
// file on top of it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:             envOr("ADDR", "0.0.0.0:8080"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresHost:     envOr("POSTGRES_HOST", "localhost"),
		PostgresPort:     envOr("POSTGRES_PORT", "5432"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPUsername:     os.Getenv("SMTP_USERNAME"),
		SMTPPassword:     os.Getenv("SMTP_PASSWORD"),
		MailFrom:         envOr("MAIL_FROM", "no-reply@localhost"),
		AvatarDir:        envOr("AVATAR_DIR", "./avatars"),
		AvatarBaseURL:    envOr("AVATAR_BASE_URL", "/avatars"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	var err error
	if cfg.AccessTokenTTL, err = durationOr("ACCESS_TOKEN_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.ConfirmTokenTTL, err = durationOr("CONFIRM_TOKEN_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.BcryptCost, err = intOr("BCRYPT_COST", 0); err != nil {
		return nil, err
	}
	if cfg.SMTPPort, err = intOr("SMTP_PORT", 587); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.PostgresUser, c.PostgresPassword, c.PostgresHost, c.PostgresPort, c.PostgresDB)
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func intOr(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}
