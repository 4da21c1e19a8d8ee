package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWTSecret   string        `env:"JWT_SECRET"`
	SessionTTL  time.Duration `env:"SESSION_TTL,  default=24h"`
	RememberTTL time.Duration `env:"REMEMBER_TTL, default=720h"`
	BcryptCost  int           `env:"BCRYPT_COST,  default=12"`

	Mongo MongoConfig
	Redis RedisConfig
	SMTP  SMTPConfig
	Admin AdminConfig
	Rate  RateConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=blog"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST,      default=localhost"`
	Port     int    `env:"SMTP_PORT,      default=587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"MAIL_FROM,      default=no-reply@localhost"`
	FromName string `env:"MAIL_FROM_NAME, default=Blog"`
	BaseURL  string `env:"MAIL_BASE_URL,  default=http://localhost:8080"`
	Workers  int    `env:"MAIL_WORKERS,   default=4"`
}

// AdminConfig bootstraps a pre-verified admin account at startup when both
// fields are set.
type AdminConfig struct {
	Handle   string `env:"ADMIN_HANDLE, default=admin"`
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
}

// RateConfig holds the per-route-class rate limits.
type RateConfig struct {
	LoginMax    int           `env:"RATE_LOGIN_MAX,    default=5"`
	LoginWindow time.Duration `env:"RATE_LOGIN_WINDOW, default=15m"`
	EmailMax    int           `env:"RATE_EMAIL_MAX,    default=3"`
	EmailWindow time.Duration `env:"RATE_EMAIL_WINDOW, default=1h"`
	APIMax      int           `env:"RATE_API_MAX,      default=100"`
	APIWindow   time.Duration `env:"RATE_API_WINDOW,   default=15m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
