package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/atelier/marketplace-api/internal/core/domain"
	"github.com/atelier/marketplace-api/internal/core/security"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	UserStore string `env:"USER_STORE, default=mongo"`

	Auth     AuthConfig
	Mongo    MongoConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Activity ActivityConfig
}

type AuthConfig struct {
	SecretKey          string        `env:"SECRET_KEY"`
	TokenExpireMinutes int           `env:"ACCESS_TOKEN_EXPIRE_MINUTES, default=30"`
	BcryptCost         int           `env:"BCRYPT_COST,                 default=12"`
	LoginRateLimit     int           `env:"LOGIN_RATE_LIMIT,            default=10"`
	LoginRateWindow    time.Duration `env:"LOGIN_RATE_WINDOW,           default=1m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=atelier"`
}

type PostgresConfig struct {
	DSN string `env:"DATABASE_URL"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type ActivityConfig struct {
	Workers int `env:"ACTIVITY_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig and
// validates it. Every returned error is fatal at startup.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot express. It returns a
// *domain.ConfigurationError naming the offending key.
func (c *Config) Validate() error {
	switch c.Env {
	case "development", "staging", "production":
	default:
		return &domain.ConfigurationError{Field: "ENV", Reason: "must be development, staging or production"}
	}

	if err := security.ValidateSecret(c.Auth.SecretKey); err != nil {
		return err
	}
	if c.Auth.TokenExpireMinutes < 1 {
		return &domain.ConfigurationError{Field: "ACCESS_TOKEN_EXPIRE_MINUTES", Reason: "must be at least 1"}
	}

	switch c.UserStore {
	case StoreMongo:
	case StorePostgres:
		if c.Postgres.DSN == "" {
			return &domain.ConfigurationError{Field: "DATABASE_URL", Reason: "required when USER_STORE=postgres"}
		}
	default:
		return &domain.ConfigurationError{Field: "USER_STORE", Reason: "must be mongo or postgres"}
	}
	return nil
}

// TokenTTL returns the configured access token lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenExpireMinutes) * time.Minute
}

func (c *Config) IsDevelopment() bool { return c.Env == "development" }
func (c *Config) IsProduction() bool  { return c.Env == "production" }
