package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}
	cfg, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("config file %q: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML content on top of the defaults and validates the result.
func Parse(content []byte) (*AppConfig, error) {
	cfg := defaultAppConfig()
	raw := rawAppConfig{}
	if len(bytes.TrimSpace(content)) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}
	}

	applyRawAppConfig(&cfg, raw)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *AppConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port %d, expected 1-65535", cfg.Port)
	}
	if cfg.Database.Port < 1 || cfg.Database.Port > 65535 {
		return fmt.Errorf("invalid database.port %d, expected 1-65535", cfg.Database.Port)
	}
	if cfg.Redis.Port < 1 || cfg.Redis.Port > 65535 {
		return fmt.Errorf("invalid redis.port %d, expected 1-65535", cfg.Redis.Port)
	}
	if cfg.Redis.DB < 0 {
		return fmt.Errorf("invalid redis.db %d, expected >= 0", cfg.Redis.DB)
	}
	if cfg.Insights.UnlockMonthDays < 0 || cfg.Insights.UnlockYearDays < 0 {
		return fmt.Errorf("invalid insights unlock days, expected >= 0")
	}
	if cfg.Insights.UnlockYearDays < cfg.Insights.UnlockMonthDays {
		return fmt.Errorf("insights.unlock_year_days (%d) must not be below unlock_month_days (%d)",
			cfg.Insights.UnlockYearDays, cfg.Insights.UnlockMonthDays)
	}
	if cfg.Insights.CacheTTLSeconds < 0 {
		return fmt.Errorf("invalid insights.cache_ttl_seconds %d, expected >= 0", cfg.Insights.CacheTTLSeconds)
	}
	if _, err := cfg.Location(); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	return nil
}

func defaultAppConfig() AppConfig {
	cfg := AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Database: DatabaseRuntimeConfig{
			Host:      defaultDBHost,
			Port:      defaultDBPort,
			User:      defaultDBUser,
			Password:  defaultDBPassword,
			Name:      defaultDBName,
			Charset:   defaultDBCharset,
			ParseTime: true,
			Loc:       defaultDBLoc,
		},
		Redis: RedisRuntimeConfig{
			Host: defaultRedisHost,
			Port: defaultRedisPort,
			DB:   defaultRedisDB,
		},
		Insights: InsightsConfig{
			UnlockMonthDays: defaultUnlockMonthDays,
			UnlockYearDays:  defaultUnlockYearDays,
			CacheTTLSeconds: defaultCacheTTLSeconds,
		},
	}
	cfg.Database = normalizeDatabaseConfig(cfg.Database)
	cfg.Redis = normalizeRedisConfig(cfg.Redis)
	cfg.DSN = cfg.Database.DSNValue()
	cfg.RedisURL = cfg.Redis.URLValue()
	return cfg
}

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) {
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	cfg.Database = applyRawDatabaseConfig(cfg.Database, raw)
	cfg.Redis = applyRawRedisConfig(cfg.Redis, raw)
	if v := strings.TrimSpace(raw.Env); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(raw.Paths.Logs); v != "" {
		cfg.Paths.Logs = v
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.Paths.Logs = v
	}
	if raw.AllowedOrigins != nil {
		cfg.AllowedOrigins = normalizeOrigins(raw.AllowedOrigins)
	}
	if v := strings.TrimSpace(raw.JWTSecret); v != "" {
		cfg.JWTSecret = v
	}
	if v := strings.TrimSpace(raw.Timezone); v != "" {
		cfg.Timezone = v
	}
	if v := strings.TrimSpace(raw.TZ); v != "" {
		cfg.Timezone = v
	}

	ins := cfg.Insights
	if raw.Insights.UnlockMonthDays != 0 {
		ins.UnlockMonthDays = raw.Insights.UnlockMonthDays
	}
	if raw.Insights.UnlockYearDays != 0 {
		ins.UnlockYearDays = raw.Insights.UnlockYearDays
	}
	if raw.Insights.CacheTTLSeconds != nil {
		ins.CacheTTLSeconds = *raw.Insights.CacheTTLSeconds
	}
	if raw.Insights.DisableCache != nil {
		ins.DisableCache = *raw.Insights.DisableCache
	}
	cfg.Insights = ins

	cfg.DSN = cfg.Database.DSNValue()
	if v := strings.TrimSpace(raw.DSN); v != "" {
		cfg.DSN = v
	}
	cfg.RedisURL = cfg.Redis.URLValue()
	if v := normalizeRedisRawURL(raw.RedisURL); v != "" {
		cfg.RedisURL = v
	}
	cfg.Paths = normalizeRuntimePaths(cfg.Paths)
	cfg.Env = normalizeEnv(cfg.Env)
}

func applyRawDatabaseConfig(current DatabaseRuntimeConfig, raw rawAppConfig) DatabaseRuntimeConfig {
	cfg := current
	db := raw.Database
	if v := strings.TrimSpace(db.DSN); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(db.Host); v != "" {
		cfg.Host = v
	}
	if db.Port != 0 {
		cfg.Port = db.Port
	}
	if v := strings.TrimSpace(db.User); v != "" {
		cfg.User = v
	}
	if v := strings.TrimSpace(db.Password); v != "" {
		cfg.Password = v
	}
	if v := strings.TrimSpace(db.Name); v != "" {
		cfg.Name = v
	}
	if v := strings.TrimSpace(db.Charset); v != "" {
		cfg.Charset = v
	}
	if db.ParseTime != nil {
		cfg.ParseTime = *db.ParseTime
	}
	if v := strings.TrimSpace(db.Loc); v != "" {
		cfg.Loc = v
	}
	if db.Params != nil {
		cfg.Params = db.Params
	}
	return normalizeDatabaseConfig(cfg)
}

func applyRawRedisConfig(current RedisRuntimeConfig, raw rawAppConfig) RedisRuntimeConfig {
	cfg := current
	rc := raw.Redis
	if v := strings.TrimSpace(rc.URL); v != "" {
		cfg.URL = v
	}
	if v := strings.TrimSpace(rc.Host); v != "" {
		cfg.Host = v
	}
	if rc.Port != 0 {
		cfg.Port = rc.Port
	}
	if v := strings.TrimSpace(rc.Username); v != "" {
		cfg.Username = v
	}
	if v := strings.TrimSpace(rc.Password); v != "" {
		cfg.Password = v
	}
	if rc.DB != nil {
		cfg.DB = *rc.DB
	}
	if rc.TLS != nil {
		cfg.TLS = *rc.TLS
	}
	return normalizeRedisConfig(cfg)
}

// IsDev reports whether the service runs in development mode.
func (c *AppConfig) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// LogDir returns the absolute native log directory.
func (c *AppConfig) LogDir() string {
	return ResolveRuntimePath(c.Paths.Logs, defaultLogsDir)
}

// Location resolves the configured zone. An empty timezone means time.Local.
func (c *AppConfig) Location() (*time.Location, error) {
	return ParseLocation(c.Timezone)
}

// CacheTTL returns how long computed insights stay cached.
func (c *AppConfig) CacheTTL() time.Duration {
	return time.Duration(c.Insights.CacheTTLSeconds) * time.Second
}
