// Package config resolves CLI settings from a criteria.yaml file, .env
// files and CRITERIA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/roach88/criteria/internal/querybuilder"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "CRITERIA"

// Render targets.
const (
	TargetSQL   = "sql"
	TargetWhere = "where"
	TargetLDAP  = "ldap"
	TargetQuery = "query"
)

// ErrUnknownTarget is returned by Validate for unsupported render targets.
var ErrUnknownTarget = errors.New("unknown render target")

// Config holds all CLI configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Render   RenderConfig   `mapstructure:"render"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type RenderConfig struct {
	Dialect   string `mapstructure:"dialect"`
	Target    string `mapstructure:"target"`
	WhereMode string `mapstructure:"where_mode"`
}

// GetDefaults returns a Config with all default values.
func GetDefaults() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: "sqlite3",
			DSN:    "criteria.db",
		},
		Render: RenderConfig{
			Dialect: "sqlite",
			Target:  TargetSQL,
		},
	}
}

// Options controls where Load looks for its sources.
type Options struct {
	// ConfigFile is an explicit config path. It must exist when set.
	ConfigFile string

	// Dir is searched for criteria.yaml, .env and .env.local.
	// Defaults to the working directory.
	Dir string
}

// Load resolves configuration. Sources in decreasing priority:
// environment variables, .env.local, .env, the config file, defaults.
// Command-line flags are applied on top by the caller.
func Load(opts Options) (*Config, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}

	v := viper.New()
	setDefaults(v, GetDefaults())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config %s: %w", opts.ConfigFile, err)
		}
	} else {
		v.SetConfigName("criteria")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config: %w", err)
			}
		}
	}

	if err := applyDotenv(v, dir); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.dsn", d.Database.DSN)
	v.SetDefault("render.dialect", d.Render.Dialect)
	v.SetDefault("render.target", d.Render.Target)
	v.SetDefault("render.where_mode", d.Render.WhereMode)
}

// applyDotenv feeds values from .env and .env.local (the latter winning)
// into keys that the real environment leaves unset. The process
// environment itself is not modified.
func applyDotenv(v *viper.Viper, dir string) error {
	var files []string
	for _, name := range []string{".env", ".env.local"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			files = append(files, path)
		}
	}
	if len(files) == 0 {
		return nil
	}

	values, err := godotenv.Read(files...)
	if err != nil {
		return fmt.Errorf("error reading env files: %w", err)
	}

	for _, key := range v.AllKeys() {
		name := EnvName(key)
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if val, ok := values[name]; ok {
			v.Set(key, val)
		}
	}
	return nil
}

// EnvName returns the environment variable consulted for a config key,
// e.g. "database.dsn" -> "CRITERIA_DATABASE_DSN".
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if _, err := querybuilder.ParseDialect(c.Render.Dialect); err != nil {
		return fmt.Errorf("render.dialect: %w", err)
	}
	switch c.Render.Target {
	case TargetSQL, TargetWhere, TargetLDAP, TargetQuery:
	default:
		return fmt.Errorf("render.target: %w: %q", ErrUnknownTarget, c.Render.Target)
	}
	return nil
}
