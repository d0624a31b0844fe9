package config

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
	LockTimeout     string
}

type AuthConfig struct {
	AccessSecret string
}

type BillingConfig struct {
	DepositLimitRatio  decimal.Decimal
	EnforceClientMatch bool
	SeedOnStart        bool
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Billing     BillingConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	v.SetDefault("BILLING_ENFORCE_CLIENT_MATCH", true)

	ratio, err := parseRatio(v.GetString("BILLING_DEPOSIT_LIMIT_RATIO"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
			LockTimeout:     v.GetString("DB_LOCK_TIMEOUT"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Billing: BillingConfig{
			DepositLimitRatio:  ratio,
			EnforceClientMatch: v.GetBool("BILLING_ENFORCE_CLIENT_MATCH"),
			SeedOnStart:        v.GetBool("SEED_ON_START"),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if cfg.DB.LockTimeout == "" {
		cfg.DB.LockTimeout = "5s"
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.Billing.DepositLimitRatio.IsNegative() {
		return fmt.Errorf("BILLING_DEPOSIT_LIMIT_RATIO must not be negative")
	}
	return nil
}

func parseRatio(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.NewFromFloat(0.25), nil
	}
	ratio, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("BILLING_DEPOSIT_LIMIT_RATIO is not a valid decimal: %w", err)
	}
	return ratio, nil
}
