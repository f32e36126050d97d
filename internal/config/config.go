package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/court_booking/internal/scheduler"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Environment    string `envconfig:"ENV" default:"development"`
	LogLevel       string `envconfig:"LOG_LEVEL"`
	Storage        string `envconfig:"STORAGE" default:"postgres"`
	DBDSN          string `envconfig:"DB_DSN"`
	MigrationsPath string `envconfig:"MIGRATIONS_PATH" default:"migrations"`

	HTTPAddr  string        `envconfig:"HTTP_ADDR" default:":8080"`
	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"24h"`

	// Бот включается только при заданном токене
	TelegramToken string `envconfig:"TELEGRAM_TOKEN"`

	// События включаются только при заданном URL
	RabbitURL      string `envconfig:"RABBIT_URL"`
	EventsExchange string `envconfig:"EVENTS_EXCHANGE" default:"club.reservations"`

	AdminUsername string `envconfig:"ADMIN_USERNAME" default:"admin"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD" default:"admin123"`

	OpenHour   int           `envconfig:"OPEN_HOUR" default:"8"`
	CloseHour  int           `envconfig:"CLOSE_HOUR" default:"22"`
	SlotLength time.Duration `envconfig:"SLOT_DURATION" default:"1h"`
	Courts     []int         `envconfig:"COURTS" default:"1,2,3"`

	AuthRateRPS   float64 `envconfig:"AUTH_RATE_RPS" default:"1"`
	AuthRateBurst int     `envconfig:"AUTH_RATE_BURST" default:"5"`

	// EnvFileLoaded был ли найден .env (для лога при старте)
	EnvFileLoaded bool `ignored:"true"`
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	loaded := godotenv.Load(".env") == nil

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	cfg.EnvFileLoaded = loaded

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage {
	case StoragePostgres:
		if c.DBDSN == "" {
			return errors.New("DB_DSN is required when STORAGE=postgres")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE %q (expected postgres or memory)", c.Storage)
	}

	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.AuthRateRPS <= 0 || c.AuthRateBurst <= 0 {
		return errors.New("AUTH_RATE_RPS and AUTH_RATE_BURST must be positive")
	}

	if err := c.SchedulerConfig().Validate(); err != nil {
		return fmt.Errorf("club hours: %w", err)
	}
	return nil
}

// SchedulerConfig часы работы и корты клуба
func (c *Config) SchedulerConfig() scheduler.Config {
	return scheduler.Config{
		Courts:       append([]int(nil), c.Courts...),
		OpenHour:     c.OpenHour,
		CloseHour:    c.CloseHour,
		SlotDuration: c.SlotLength,
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
