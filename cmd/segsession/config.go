package main

import (
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/segsession/core/config"
	"github.com/dmitrymomot/segsession/core/cookie"
	"github.com/dmitrymomot/segsession/core/logger"
	"github.com/dmitrymomot/segsession/core/server"
	"github.com/dmitrymomot/segsession/core/sessionhost"
)

// Store backends selectable with SESSION_STORE.
const (
	storeMemory   = "memory"
	storeRedis    = "redis"
	storePostgres = "postgres"
)

// appConfig holds the settings of the demo application itself.
type appConfig struct {
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string        `env:"LOG_FORMAT" envDefault:"text"`
	Store         string        `env:"SESSION_STORE" envDefault:"memory"`
	AutoCommit    bool          `env:"SESSION_AUTO_COMMIT" envDefault:"true"`
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`
	AutoMigrate   bool          `env:"PG_AUTO_MIGRATE" envDefault:"true"`
}

// settings groups every configuration section used by serve.
type settings struct {
	App     appConfig
	Server  server.Config
	Session sessionhost.Config
	Cookie  cookie.Config
}

func loadSettings() (settings, error) {
	var s settings
	if err := config.Load(&s.App); err != nil {
		return s, err
	}
	if err := config.Load(&s.Server); err != nil {
		return s, err
	}
	if err := config.Load(&s.Session); err != nil {
		return s, err
	}
	if err := config.Load(&s.Cookie); err != nil {
		return s, err
	}
	s.App.Store = strings.ToLower(strings.TrimSpace(s.App.Store))
	return s, nil
}

func newLogger(cmd *cobra.Command, cfg appConfig) *slog.Logger {
	level := cfg.LogLevel
	if flag, _ := cmd.Flags().GetString("log-level"); flag != "" {
		level = flag
	}

	opts := []logger.Option{
		logger.WithLevelString(level),
		logger.WithAttr(slog.String("app", "segsession"), slog.String("version", version)),
	}
	if strings.EqualFold(cfg.LogFormat, "json") {
		opts = append(opts, logger.WithJSONFormatter())
	}
	return logger.New(opts...)
}
