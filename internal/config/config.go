// Package config loads service configuration from the environment (HEROES_
// prefix), an optional .env file, and an optional superheroes.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/joestump/superheroes/internal/heroes"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		Driver string
		DSN    string
	}
	DataSource struct {
		Kind    string
		Latency time.Duration
		BaseURL string
		Timeout time.Duration
	}
	Log struct {
		Level string
		Dev   bool
	}
	// Roster is the initial hero list, from roster.file when set.
	Roster []string

	SessionLifetime time.Duration
	NotifyDuration  time.Duration
	ConfirmTTL      time.Duration
}

// Load reads config from a .env file in the working directory (if any), the
// environment, and an optional superheroes.yaml.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return load(".")
}

func load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("HEROES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("superheroes")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	_ = v.ReadInConfig() // optional config file

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("datasource.kind", "mock")
	v.SetDefault("datasource.latency", "300ms")
	v.SetDefault("datasource.timeout", "10s")
	v.SetDefault("session.lifetime", "720h")
	v.SetDefault("log.level", "info")
	v.SetDefault("notify.duration", "4s")
	v.SetDefault("confirm.ttl", "2m")

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.DataSource.Kind = v.GetString("datasource.kind")
	cfg.DataSource.BaseURL = v.GetString("datasource.base_url")
	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Dev = v.GetBool("log.dev")

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"datasource.latency", &cfg.DataSource.Latency},
		{"datasource.timeout", &cfg.DataSource.Timeout},
		{"session.lifetime", &cfg.SessionLifetime},
		{"notify.duration", &cfg.NotifyDuration},
		{"confirm.ttl", &cfg.ConfirmTTL},
	}
	for _, d := range durations {
		val, err := time.ParseDuration(v.GetString(d.key))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", envName(d.key), err)
		}
		*d.dst = val
	}

	if path := v.GetString("roster.file"); path != "" {
		names, err := heroes.LoadRoster(path)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", envName("roster.file"), err)
		}
		cfg.Roster = names
	}

	if (cfg.DB.Driver == "") != (cfg.DB.DSN == "") {
		return nil, fmt.Errorf("HEROES_DB_DRIVER and HEROES_DB_DSN must be set together")
	}
	if cfg.DataSource.Kind == "sql" && cfg.DB.Driver == "" {
		return nil, fmt.Errorf("HEROES_DB_DRIVER is required (sqlite3, mysql, postgres) when HEROES_DATASOURCE_KIND=sql")
	}

	return cfg, nil
}

func envName(key string) string {
	return "HEROES_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
