package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type ProviderConfig struct {
	URL     string `mapstructure:"url" validate:"required"`
	AnonKey string `mapstructure:"anon_key" validate:"required"`
	// Origin is the public origin the web client is served from.
	Origin string `mapstructure:"origin"`
}

type MediaConfig struct {
	Bucket           string `mapstructure:"bucket" validate:"required"`
	Region           string `mapstructure:"region"`
	URLExpiryMinutes int    `mapstructure:"url_expiry_minutes"`
}

type BillingConfig struct {
	APIURL    string `mapstructure:"api_url"`
	SecretKey string `mapstructure:"secret_key"`
}

type PlanConfig struct {
	ID          string `mapstructure:"id"`
	Name        string `mapstructure:"name"`
	PriceID     string `mapstructure:"price_id"`
	Amount      int64  `mapstructure:"amount"`
	Currency    string `mapstructure:"currency"`
	Interval    string `mapstructure:"interval"`
	Description string `mapstructure:"description"`
}

type CacheConfig struct {
	Dir string `mapstructure:"dir"`
}

type CatalogConfig struct {
	DbPath string `mapstructure:"db_path"`
}

type AppConfig struct {
	Server   ServerConfig   `mapstructure:"server"`
	Provider ProviderConfig `mapstructure:"provider"`
	Media    MediaConfig    `mapstructure:"media"`
	Billing  BillingConfig  `mapstructure:"billing"`
	Plans    []PlanConfig   `mapstructure:"plans"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
}

// LoadAppConfig reads the application configuration from the given file.
// Environment variables prefixed with WELLFIT_ override file values.
func LoadAppConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("WELLFIT")
	v.AutomaticEnv()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("media.url_expiry_minutes", 15)
	v.SetDefault("billing.api_url", "https://api.stripe.com")
	v.SetDefault("catalog.db_path", "wellfit.db")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse app config: %w", err)
	}
	return &cfg, nil
}
