package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type DatabaseOptions struct {
	Host        string `env:"DB_HOST" envDefault:"localhost"`
	Port        string `env:"DB_PORT" envDefault:"5432"`
	User        string `env:"DB_USER" envDefault:"postgres"`
	Password    string `env:"DB_PASSWORD"`
	Name        string `env:"DB_NAME" envDefault:"churchops"`
	SSLMode     string `env:"DB_SSLMODE" envDefault:"disable"`
	MaxRetries  uint   `env:"DB_MAX_RETRIES" envDefault:"5"`
	MaxOpenConn int    `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConn int    `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
}

func (d DatabaseOptions) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

type RedisOptions struct {
	Addr       string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	MaxRetries uint          `env:"REDIS_MAX_RETRIES" envDefault:"5"`
	CacheTTL   time.Duration `env:"CACHE_TTL" envDefault:"1h"`
}

type KafkaOptions struct {
	Broker        string        `env:"KAFKA_BROKER"`
	ConsumerGroup string        `env:"KAFKA_CONSUMER_GROUP" envDefault:"churchops-cache-invalidation"`
	PollInterval  time.Duration `env:"OUTBOX_POLL_INTERVAL" envDefault:"3s"`
	BatchSize     int           `env:"OUTBOX_BATCH_SIZE" envDefault:"50"`
}

type HTTPOptions struct {
	Port         string        `env:"PORT" envDefault:"3000"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"60s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
}

type AuthOptions struct {
	JWTSecret       string  `env:"JWT_SECRET"`
	RBACModelPath   string  `env:"RBAC_MODEL_PATH" envDefault:"configs/rbac/model.conf"`
	RBACPolicyPath  string  `env:"RBAC_POLICY_PATH" envDefault:"configs/rbac/policy.csv"`
	ImportRateLimit float64 `env:"IMPORT_RATE_LIMIT" envDefault:"0.2"`
	ImportBurst     int     `env:"IMPORT_RATE_BURST" envDefault:"2"`
}

type ImportOptions struct {
	MaxRows       int   `env:"IMPORT_MAX_ROWS" envDefault:"5000"`
	MaxUploadSize int64 `env:"IMPORT_MAX_UPLOAD_BYTES" envDefault:"16777216"`
}

type Config struct {
	Environment string `env:"APP_ENV" envDefault:"development"`
	HTTP        HTTPOptions
	Database    DatabaseOptions
	Redis       RedisOptions
	Kafka       KafkaOptions
	Auth        AuthOptions
	Import      ImportOptions
}

// Load reads the optional env files first and then parses the process
// environment into a Config.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	existing := make([]string, 0, len(envFiles))
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return nil, fmt.Errorf("load env files: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
