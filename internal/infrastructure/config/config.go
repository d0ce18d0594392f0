package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// TokenTTL is the session token lifetime.
	TokenTTL time.Duration `env:"TOKEN_TTL, default=24h"`

	Mongo MongoConfig
	Redis RedisConfig
	Email EmailConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=mercadito"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`

	// One-time-code issuance rate limit: CodeLimit codes per CodeWindow
	// per (purpose, email).
	CodeWindow time.Duration `env:"CODE_RATE_WINDOW, default=10m"`
	CodeLimit  int           `env:"CODE_RATE_LIMIT,  default=3"`
}

type EmailConfig struct {
	// Provider selects the transport: smtp, api, or disabled.
	Provider string `env:"EMAIL_PROVIDER, default=disabled"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT, default=587"`
	SMTPUsername string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASS"`
	SMTPUseTLS   bool   `env:"SMTP_TLS,  default=false"`

	APIBaseURL string `env:"EMAIL_API_URL"`
	APIKey     string `env:"EMAIL_API_KEY"`

	From     string `env:"EMAIL_FROM"`
	FromName string `env:"EMAIL_FROM_NAME, default=Mercadito"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
