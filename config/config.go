package config

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Port     string         `mapstructure:"PORT" validate:"required"`
	CacheTTL time.Duration  `mapstructure:"CACHE_TTL"`
	Db       DbConfig       `mapstructure:",squash"`
	Jwt      JwtConfig      `mapstructure:",squash"`
	Redis    RedisConfig    `mapstructure:",squash"`
	Nats     NatsConfig     `mapstructure:",squash"`
	Queue    QueueConfig    `mapstructure:",squash"`
	Notifier NotifierConfig `mapstructure:",squash"`
}

type DbConfig struct {
	Host     string `mapstructure:"DB_HOST" validate:"required"`
	Port     string `mapstructure:"DB_PORT" validate:"required"`
	Username string `mapstructure:"DB_USERNAME" validate:"required"`
	Password string `mapstructure:"DB_PASSWORD" validate:"required"`
	DbName   string `mapstructure:"DB_DBNAME" validate:"required"`
	SSLMode  string `mapstructure:"DB_SSLMODE"`
	Migrate  bool   `mapstructure:"DB_MIGRATE"`
}

type JwtConfig struct {
	SecretKey string `mapstructure:"JWT_SECRETKEY" validate:"required"`
	Expire    int64  `mapstructure:"JWT_EXPIRE" validate:"required"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"REDIS_ADDR" validate:"required"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type NatsConfig struct {
	Url        string `mapstructure:"NATS_URL"`
	StreamName string `mapstructure:"NATS_STREAM_NAME"`
}

const (
	QueueDriverRedis  = "redis"
	QueueDriverMemory = "memory"
)

type QueueConfig struct {
	Driver              string        `mapstructure:"QUEUE_DRIVER" validate:"oneof=redis memory"`
	ProducerBuffer      int           `mapstructure:"PRODUCER_BUFFER" validate:"gte=1"`
	ProducerDispatchers int           `mapstructure:"PRODUCER_DISPATCHERS" validate:"gte=1"`
	WorkerCount         int           `mapstructure:"WORKER_COUNT" validate:"gte=1"`
	PollInterval        time.Duration `mapstructure:"WORKER_POLL_INTERVAL" validate:"gt=0"`
}

type NotifierConfig struct {
	Timeout time.Duration `mapstructure:"NOTIFY_TIMEOUT" validate:"gte=0"`
	LogFile string        `mapstructure:"NOTIFY_LOG_FILE"`
}

var envVars = []string{
	"PORT",
	"CACHE_TTL",
	"DB_HOST",
	"DB_PORT",
	"DB_USERNAME",
	"DB_PASSWORD",
	"DB_DBNAME",
	"DB_SSLMODE",
	"DB_MIGRATE",
	"JWT_SECRETKEY",
	"JWT_EXPIRE",
	"REDIS_ADDR",
	"REDIS_PASSWORD",
	"REDIS_DB",
	"NATS_URL",
	"NATS_STREAM_NAME",
	"QUEUE_DRIVER",
	"PRODUCER_BUFFER",
	"PRODUCER_DISPATCHERS",
	"WORKER_COUNT",
	"WORKER_POLL_INTERVAL",
	"NOTIFY_TIMEOUT",
	"NOTIFY_LOG_FILE",
}

func setDefaults() {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("CACHE_TTL", 300*time.Second)
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("JWT_EXPIRE", 3600)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("NATS_STREAM_NAME", "notifications")
	viper.SetDefault("QUEUE_DRIVER", QueueDriverRedis)
	viper.SetDefault("PRODUCER_BUFFER", 1024)
	viper.SetDefault("PRODUCER_DISPATCHERS", 1)
	viper.SetDefault("WORKER_COUNT", 1)
	viper.SetDefault("WORKER_POLL_INTERVAL", 500*time.Millisecond)
	viper.SetDefault("NOTIFY_TIMEOUT", 5*time.Second)
}

// InitConfig loads and validates the API server configuration.
func InitConfig(ctx context.Context) (*Config, error) {
	cfg, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if err := Validate(ctx, *cfg); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "[InitConfig] Config loaded successfully")
	return cfg, nil
}

// InitWorkerConfig is InitConfig for the queue workers, which never touch
// postgres or issue tokens.
func InitWorkerConfig(ctx context.Context) (*Config, error) {
	cfg, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if err := Validate(ctx, *cfg, "Db", "Jwt"); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "[InitWorkerConfig] Config loaded successfully")
	return cfg, nil
}

func load(ctx context.Context) (*Config, error) {
	var cfg Config

	// Reset viper to avoid any previous configuration
	viper.Reset()

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.SetConfigType("env")
	setDefaults()

	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}

	_, err := os.Stat(envFile)
	if !os.IsNotExist(err) {
		viper.SetConfigFile(envFile)

		if err := viper.ReadInConfig(); err != nil {
			slog.WarnContext(ctx, "[InitConfig] ReadInConfig warning, continuing with env vars only", "error", err)
		} else {
			slog.InfoContext(ctx, "[InitConfig] Successfully loaded config file", "file", envFile)
		}
	} else {
		slog.InfoContext(ctx, "[InitConfig] No config file found, using environment variables")
	}

	viper.AutomaticEnv()

	// Bind explicitly so Unmarshal sees env-only keys
	for _, key := range envVars {
		viper.BindEnv(key)
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		slog.ErrorContext(ctx, "[InitConfig] Unmarshal", "failed bind config", err)
		return nil, err
	}

	slog.InfoContext(ctx, "[InitConfig] Configuration after binding",
		"PORT", cfg.Port,
		"DB_HOST", cfg.Db.Host,
		"DB_PORT", cfg.Db.Port,
		"DB_DBNAME", cfg.Db.DbName,
		"REDIS_ADDR", cfg.Redis.Addr,
		"NATS_URL", cfg.Nats.Url,
		"QUEUE_DRIVER", cfg.Queue.Driver,
		"WORKER_COUNT", cfg.Queue.WorkerCount,
		"WORKER_POLL_INTERVAL", cfg.Queue.PollInterval)

	return &cfg, nil
}

// Validate checks cfg, skipping the named top level sections.
func Validate(ctx context.Context, cfg Config, except ...string) error {
	validate := validator.New()
	var err error
	if len(except) > 0 {
		err = validate.StructExcept(cfg, except...)
	} else {
		err = validate.Struct(cfg)
	}
	if err != nil {
		validationErrs, ok := err.(validator.ValidationErrors)
		if ok {
			for _, validationErr := range validationErrs {
				slog.ErrorContext(ctx, "[InitConfig] Validation error",
					"field", validationErr.Field(),
					"namespace", validationErr.Namespace(),
					"tag", validationErr.Tag(),
					"value", validationErr.Value())
			}
		} else {
			slog.ErrorContext(ctx, "[InitConfig] Validation", "error", err)
		}
		return err
	}
	return nil
}
