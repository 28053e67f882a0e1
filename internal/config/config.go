package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppPort         string `env:"APP_PORT" envDefault:"8080"`
	GinMode         string `env:"GIN_MODE" envDefault:"debug"`
	DBDriver        string `env:"DB_DRIVER" envDefault:"postgres"`
	DBHost          string `env:"DB_HOST" envDefault:"localhost"`
	DBPort          string `env:"DB_PORT" envDefault:"5432"`
	DBUser          string `env:"DB_USER" envDefault:"teamdesk"`
	DBPassword      string `env:"DB_PASSWORD" envDefault:"teamdesk"`
	DBName          string `env:"DB_NAME" envDefault:"teamdesk"`
	DBSSLMode       string `env:"DB_SSL_MODE" envDefault:"disable"`
	DBPath          string `env:"DB_PATH" envDefault:"teamdesk.db"`
	RedisHost       string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort       string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword   string `env:"REDIS_PASSWORD"`
	SessionSecret   string `env:"SESSION_SECRET" envDefault:"default-secret-key-change-me"`
	RealtimeBackend string `env:"REALTIME_BACKEND" envDefault:"memory"`
	RealtimeChannel string `env:"REALTIME_CHANNEL" envDefault:"teamdesk_changes"`
	UploadDir       string `env:"UPLOAD_DIR" envDefault:"uploads"`
	PublicBaseURL   string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	OpenAIModel     string `env:"OPENAI_MODEL" envDefault:"gpt-4o"`
	SentryDSN       string `env:"SENTRY_DSN"`
	DefaultLanguage string `env:"DEFAULT_LANGUAGE" envDefault:"pt-BR"`
}

// Load reads .env (when present) and parses the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.DBDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	switch cfg.RealtimeBackend {
	case "memory", "redis", "postgres":
	default:
		return nil, fmt.Errorf("unsupported REALTIME_BACKEND %q", cfg.RealtimeBackend)
	}
	if cfg.RealtimeBackend == "postgres" && cfg.DBDriver != "postgres" {
		return nil, fmt.Errorf("REALTIME_BACKEND=postgres requires DB_DRIVER=postgres")
	}

	return cfg, nil
}

// RedisAddr returns host:port for the redis server.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// PostgresDSN builds a libpq-style DSN usable by both gorm and pgx.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost,
		c.DBPort,
		c.DBUser,
		c.DBPassword,
		c.DBName,
		c.DBSSLMode,
	)
}
