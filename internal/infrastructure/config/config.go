package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"

	"github.com/davidleathers/payment-risk-engine/internal/domain/risk"
)

type Config struct {
	Environment string `koanf:"environment"`
	LogLevel    string `koanf:"log_level"`

	Engine EngineConfig `koanf:"engine"`
	Redis  RedisConfig  `koanf:"redis"`
}

type EngineConfig struct {
	HistoryCap int            `koanf:"history_cap"`
	Velocity   VelocityConfig `koanf:"velocity"`
}

// VelocityConfig carries the default ceilings as decimal strings so config
// files never round through floats.
type VelocityConfig struct {
	DailyLimit       string `koanf:"daily_limit"`
	HourlyLimit      string `koanf:"hourly_limit"`
	TransactionLimit string `koanf:"transaction_limit"`
}

// Limits parses the configured ceilings.
func (v VelocityConfig) Limits() (risk.VelocityLimitConfig, error) {
	daily, err := decimal.NewFromString(v.DailyLimit)
	if err != nil {
		return risk.VelocityLimitConfig{}, fmt.Errorf("parsing daily limit: %w", err)
	}
	hourly, err := decimal.NewFromString(v.HourlyLimit)
	if err != nil {
		return risk.VelocityLimitConfig{}, fmt.Errorf("parsing hourly limit: %w", err)
	}
	perTxn, err := decimal.NewFromString(v.TransactionLimit)
	if err != nil {
		return risk.VelocityLimitConfig{}, fmt.Errorf("parsing transaction limit: %w", err)
	}
	return risk.VelocityLimitConfig{
		DailyLimit:       daily,
		HourlyLimit:      hourly,
		TransactionLimit: perTxn,
	}, nil
}

type RedisConfig struct {
	URL          string        `koanf:"url"`
	Password     string        `koanf:"password"`
	DB           int           `koanf:"db"`
	PoolSize     int           `koanf:"pool_size"`
	MinIdleConns int           `koanf:"min_idle_conns"`
	MaxRetries   int           `koanf:"max_retries"`
	DialTimeout  time.Duration `koanf:"dial_timeout"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

func Load() (*Config, error) {
	k := koanf.New(".")

	defaults := &Config{
		Environment: "development",
		LogLevel:    "info",
		Engine: EngineConfig{
			HistoryCap: 1000,
			Velocity: VelocityConfig{
				DailyLimit:       "500000",
				HourlyLimit:      "100000",
				TransactionLimit: "50000",
			},
		},
		Redis: RedisConfig{
			DB:           0,
			PoolSize:     10,
			MinIdleConns: 2,
			MaxRetries:   3,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
	}

	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	// Config file is optional; a present but malformed file is an error.
	if err := k.Load(file.Provider("configs/config.yaml"), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading config file: %w", err)
	}

	if err := k.Load(env.Provider("RISK_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "RISK_")), "_", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
