package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DiscordToken             string        `yaml:"discord_token"`
	DatabasePath             string        `yaml:"database_path"`
	LogLevel                 string        `yaml:"log_level"`
	DefaultLanguage          string        `yaml:"default_language"`
	SchedulerIntervalSeconds int           `yaml:"scheduler_interval_seconds"`
	EventLogRetentionDays    int           `yaml:"event_log_retention_days"`
	Health                   HealthConfig  `yaml:"health"`
	Economy                  EconomyConfig `yaml:"economy"`
}

type HealthConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type EconomyConfig struct {
	WorkMin      int64 `yaml:"work_min"`
	WorkMax      int64 `yaml:"work_max"`
	StartBalance int64 `yaml:"start_balance"`
}

func DefaultConfig() Config {
	return Config{
		DatabasePath:             "/data/lumin.db",
		LogLevel:                 "info",
		DefaultLanguage:          "en",
		SchedulerIntervalSeconds: 5,
		EventLogRetentionDays:    30,
		Health:                   HealthConfig{Enabled: false, Addr: ":8080"},
		Economy:                  EconomyConfig{WorkMin: 50, WorkMax: 250, StartBalance: 0},
	}
}

func Load() (Config, error) {
	cfg := DefaultConfig()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	if cfg.DiscordToken == "" {
		return Config{}, errors.New("DISCORD_TOKEN is required")
	}
	if cfg.SchedulerIntervalSeconds <= 0 {
		cfg.SchedulerIntervalSeconds = 5
	}
	if cfg.Economy.WorkMax < cfg.Economy.WorkMin {
		cfg.Economy.WorkMax = cfg.Economy.WorkMin
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.DiscordToken = envString("DISCORD_TOKEN", cfg.DiscordToken)
	cfg.DatabasePath = envString("DATABASE_PATH", cfg.DatabasePath)
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)
	cfg.DefaultLanguage = envString("DEFAULT_LANGUAGE", cfg.DefaultLanguage)
	cfg.SchedulerIntervalSeconds = envInt("SCHEDULER_INTERVAL_SECONDS", cfg.SchedulerIntervalSeconds)
	cfg.EventLogRetentionDays = envInt("EVENT_LOG_RETENTION_DAYS", cfg.EventLogRetentionDays)
	cfg.Health.Enabled = envBool("HEALTH_ENABLED", cfg.Health.Enabled)
	cfg.Health.Addr = envString("HEALTH_ADDR", cfg.Health.Addr)
	cfg.Economy.WorkMin = envInt64("ECONOMY_WORK_MIN", cfg.Economy.WorkMin)
	cfg.Economy.WorkMax = envInt64("ECONOMY_WORK_MAX", cfg.Economy.WorkMax)
	cfg.Economy.StartBalance = envInt64("ECONOMY_START_BALANCE", cfg.Economy.StartBalance)
}

func BuildLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	lvl := strings.ToLower(level)
	switch lvl {
	case "debug", "info", "warn", "error":
		cfg.Level = zap.NewAtomicLevelAt(parseLevel(lvl))
	default:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	return cfg.Build()
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		lower := strings.ToLower(value)
		return lower == "1" || lower == "true" || lower == "yes"
	}
	return fallback
}
