package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"time"

	"real-estate-system/internal/core/domain"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type DBConfig struct {
	URL             string        `env:"DATABASE_URL,required"`
	MaxConns        int32         `env:"DATABASE_MAX_CONNS" envDefault:"10"`
	MinConns        int32         `env:"DATABASE_MIN_CONNS" envDefault:"1"`
	MaxConnLifetime time.Duration `env:"DATABASE_MAX_CONN_LIFETIME" envDefault:"30m"`
	ConnectTimeout  time.Duration `env:"DATABASE_CONNECT_TIMEOUT" envDefault:"5s"`
}

type RESTConfig struct {
	Port              string        `env:"PORT" envDefault:"8084"`
	AllowedOrigins    []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

type JWTConfig struct {
	Secret string        `env:"JWT_SECRET,required"`
	Issuer string        `env:"JWT_ISSUER" envDefault:"real-estate-system"`
	TTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`
}

type RabbitMQConfig struct {
	URL               string        `env:"RABBITMQ_URL,required"`
	ReconnectInterval time.Duration `env:"RABBITMQ_RECONNECT_INTERVAL" envDefault:"5s"`
	PrefetchCount     int           `env:"RABBITMQ_PREFETCH_COUNT" envDefault:"10"`
	MaxRetries        int           `env:"RABBITMQ_MAX_RETRIES" envDefault:"3"`
	RetryTTL          time.Duration `env:"RABBITMQ_RETRY_TTL" envDefault:"10s"`
}

// AgreementConfig - границы условий договора и часовой пояс отчетов.
type AgreementConfig struct {
	MinAmount       decimal.Decimal `env:"AGREEMENT_MIN_AMOUNT" envDefault:"10"`
	MaxAmount       decimal.Decimal `env:"AGREEMENT_MAX_AMOUNT" envDefault:"150000000"`
	MinStartDays    int             `env:"AGREEMENT_MIN_START_DAYS" envDefault:"1"`
	MaxStartDays    int             `env:"AGREEMENT_MAX_START_DAYS" envDefault:"30"`
	MinDurationDays int             `env:"AGREEMENT_MIN_DURATION_DAYS" envDefault:"1"`
	Timezone        string          `env:"AGREEMENT_TIMEZONE" envDefault:"UTC"`
	// 0 - случайное зерно при старте
	UniqueNumberSeed uint64 `env:"UNIQUE_NUMBER_SEED" envDefault:"0"`
}

type FluentBitConfig struct {
	Enabled bool   `env:"FLUENTBIT_ENABLED" envDefault:"false"`
	Host    string `env:"FLUENTBIT_HOST"`
	Port    int    `env:"FLUENTBIT_PORT" envDefault:"24224"`
	Level   string `env:"FLUENTBIT_LOG_LEVEL" envDefault:"info"`
	Async   bool   `env:"FLUENTBIT_ASYNC" envDefault:"true"`
}

type StdoutLogConfig struct {
	Level  string `env:"STDOUT_LOG_LEVEL" envDefault:"debug"`
	IsJSON bool   `env:"STDOUT_LOG_JSON" envDefault:"false"`
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName      string `env:"APP_NAME" envDefault:"agreement-service"`
	Database     DBConfig
	Rest         RESTConfig
	JWT          JWTConfig
	RabbitMQ     RabbitMQConfig
	Agreements   AgreementConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
}

// loadDotEnv подгружает .env, если он есть. Отсутствие файла не ошибка.
func loadDotEnv(envPath []string) error {
	if err := godotenv.Load(envPath...); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("Info: .env file not found (path: %v), using process environment.\n", envPath)
			return nil
		}
		return fmt.Errorf("could not load .env file (path: %v): %w", envPath, err)
	}
	return nil
}

// LoadConfig загружает конфигурацию из .env и переменных окружения.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	if err := loadDotEnv(envPath); err != nil {
		return nil, err
	}

	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.FluentBit.Enabled && cfg.FluentBit.Host == "" {
		log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
		cfg.FluentBit.Enabled = false
	}
	if err := cfg.Agreements.validate(); err != nil {
		return nil, err
	}
	if len(cfg.JWT.Secret) < 16 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 16 characters long")
	}

	return cfg, nil
}

// LoadDatabaseConfig читает только настройки БД. Нужна команде migrate.
func LoadDatabaseConfig(envPath ...string) (*DBConfig, error) {
	if err := loadDotEnv(envPath); err != nil {
		return nil, err
	}
	cfg := &DBConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

func (c AgreementConfig) validate() error {
	if !c.MinAmount.IsPositive() || c.MaxAmount.LessThan(c.MinAmount) {
		return fmt.Errorf("agreement amount bounds are invalid: min=%s max=%s", c.MinAmount, c.MaxAmount)
	}
	if c.MinStartDays < 0 || c.MaxStartDays < c.MinStartDays {
		return fmt.Errorf("agreement start window is invalid: %d..%d days", c.MinStartDays, c.MaxStartDays)
	}
	if c.MinDurationDays < 0 {
		return fmt.Errorf("AGREEMENT_MIN_DURATION_DAYS must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Rules переводит настройки в доменные правила проверки условий.
func (c AgreementConfig) Rules() domain.AgreementRules {
	return domain.AgreementRules{
		MinAmount:       c.MinAmount,
		MaxAmount:       c.MaxAmount,
		MinStartDays:    c.MinStartDays,
		MaxStartDays:    c.MaxStartDays,
		MinDurationDays: c.MinDurationDays,
	}
}

func (c AgreementConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown AGREEMENT_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}
