// Package config loads server settings from defaults, an optional YAML file,
// a .env file and ARMORY_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/erazemk/armory/internal/armor"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "ARMORY_"

// Config holds the server settings.
type Config struct {
	DBPath      string `yaml:"db_path" env:"DB_PATH" validate:"required"`
	Addr        string `yaml:"addr" env:"ADDR" validate:"required"`
	AdminUser   string `yaml:"admin_user" env:"ADMIN_USER" validate:"required"`
	LogPath     string `yaml:"log_path" env:"LOG_PATH"`
	CatalogPath string `yaml:"catalog_path" env:"CATALOG_PATH"`

	AccessTokenExpiry  time.Duration `yaml:"access_token_expiry" env:"ACCESS_TOKEN_EXPIRY" validate:"gt=0"`
	RefreshTokenExpiry time.Duration `yaml:"refresh_token_expiry" env:"REFRESH_TOKEN_EXPIRY" validate:"gtefield=AccessTokenExpiry"`

	NotPurchasedLabel string `yaml:"not_purchased_label" env:"NOT_PURCHASED_LABEL" validate:"required"`
	EnforceMaxLevel   bool   `yaml:"enforce_max_level" env:"ENFORCE_MAX_LEVEL"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		DBPath:             "armory.sqlite3",
		Addr:               ":8080",
		AdminUser:          "link@hyrule.gov",
		AccessTokenExpiry:  7 * 24 * time.Hour,
		RefreshTokenExpiry: 30 * 24 * time.Hour,
		NotPurchasedLabel:  armor.DefaultConfig().NotPurchasedLabel,
	}
}

// Load builds the configuration. file is an optional YAML settings file and
// dotenv an optional .env file; missing files are skipped unless file was
// named explicitly. The result is not validated, so callers can apply
// command-line overrides first.
func Load(file, dotenv string) (*Config, error) {
	cfg := Default()

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", dotenv, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Tracker returns the armor tracker settings.
func (c *Config) Tracker() armor.Config {
	return armor.Config{
		NotPurchasedLabel: c.NotPurchasedLabel,
		EnforceMaxLevel:   c.EnforceMaxLevel,
	}
}
