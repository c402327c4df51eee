package main

import (
	"errors"
	"io/fs"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	Environment string `mapstructure:"ENVIRONMENT"`
	Version     string `mapstructure:"VERSION"`

	// Secret signs and verifies bearer tokens.
	Secret string `mapstructure:"SECRET"`

	// Storage selects the store implementation: "postgres" or "memory".
	Storage    string `mapstructure:"STORAGE"`
	DBHost     string `mapstructure:"POSTGRES_HOST"`
	DBPort     string `mapstructure:"POSTGRES_PORT"`
	DBUser     string `mapstructure:"POSTGRES_USER"`
	DBPassword string `mapstructure:"POSTGRES_PASSWORD"`
	DBName     string `mapstructure:"POSTGRES_DB"`
	Migrations string `mapstructure:"MIGRATIONS"`

	MQHost     string `mapstructure:"RABBITMQ_HOST"`
	MQPort     string `mapstructure:"RABBITMQ_PORT"`
	MQUser     string `mapstructure:"RABBITMQ_USER"`
	MQPassword string `mapstructure:"RABBITMQ_PASSWORD"`

	// ActivityFeedSize is how many broker events GET /api/activity keeps.
	ActivityFeedSize int `mapstructure:"ACTIVITY_FEED_SIZE"`

	LimiterEnabled bool    `mapstructure:"LIMITER_ENABLED"`
	LimiterRPS     float64 `mapstructure:"LIMITER_RPS"`
	LimiterBurst   int     `mapstructure:"LIMITER_BURST"`
}

var (
	ErrMissingSecret  = errors.New("SECRET must be set")
	ErrUnknownStorage = errors.New("STORAGE must be either postgres or memory")
)

var configDefaults = map[string]any{
	"PORT":               "3003",
	"ENVIRONMENT":        "development",
	"VERSION":            "1.0.0",
	"SECRET":             "",
	"STORAGE":            "postgres",
	"POSTGRES_HOST":      "localhost",
	"POSTGRES_PORT":      "5432",
	"POSTGRES_USER":      "",
	"POSTGRES_PASSWORD":  "",
	"POSTGRES_DB":        "bloglist",
	"MIGRATIONS":         "",
	"RABBITMQ_HOST":      "",
	"RABBITMQ_PORT":      "5672",
	"RABBITMQ_USER":      "guest",
	"RABBITMQ_PASSWORD":  "guest",
	"ACTIVITY_FEED_SIZE": 50,
	"LIMITER_ENABLED":    true,
	"LIMITER_RPS":        2,
	"LIMITER_BURST":      4,
}

// loadConfig reads the .env file at path and lets environment variables override it. A
// missing file is not an error so the service can be configured from the environment alone.
func loadConfig(path string) (*Config, error) {
	v := viper.New()
	for key, value := range configDefaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	if c.Secret == "" {
		return ErrMissingSecret
	}

	switch c.Storage {
	case "postgres", "memory":
	default:
		return ErrUnknownStorage
	}

	return nil
}
