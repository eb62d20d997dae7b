// Package config provides configuration management for the article service.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"antifraud/internal/models"
)

// Configuration validation errors.
var (
	ErrMissingAppID        = errors.New("feishu.app_id is required")
	ErrMissingAppSecret    = errors.New("feishu.app_secret is required")
	ErrMissingBaseID       = errors.New("feishu.base_id is required")
	ErrMissingTableID      = errors.New("feishu.table_id is required")
	ErrInvalidBaseURL      = errors.New("feishu.base_url must be an absolute http(s) URL")
	ErrInvalidPageSize     = errors.New("feishu.page_size must be between 1 and 500")
	ErrInvalidMaxPages     = errors.New("feishu.max_pages must be at least 1")
	ErrInvalidTimeout      = errors.New("feishu.timeout_sec must be at least 1")
	ErrInvalidRateLimit    = errors.New("feishu.requests_per_second must be non-negative")
	ErrInvalidCacheTTL     = errors.New("cache.ttl_sec must be at least 1")
	ErrInvalidCacheType    = errors.New("cache.type must be 'memory' or 'redis'")
	ErrMissingRedisAddr    = errors.New("cache.redis_addr is required when cache.type is 'redis'")
	ErrInvalidLogLevel     = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat    = errors.New("logging.format must be 'text' or 'json'")
	ErrInvalidFieldMapping = errors.New("fields mapping is invalid")
)

// Cache backends.
const (
	CacheTypeMemory = "memory"
	CacheTypeRedis  = "redis"
)

// Config represents the complete service configuration.
type Config struct {
	Feishu  FeishuConfig        `yaml:"feishu"`
	Fields  models.FieldMapping `yaml:"fields"`
	Cache   CacheConfig         `yaml:"cache"`
	Logging LoggingConfig       `yaml:"logging"`
	Server  ServerConfig        `yaml:"server"`
}

// FeishuConfig contains the credentials and table coordinates for the bitable API.
type FeishuConfig struct {
	AppID             string  `yaml:"app_id"`
	AppSecret         string  `yaml:"app_secret"`
	BaseURL           string  `yaml:"base_url"`
	BaseID            string  `yaml:"base_id"`
	TableID           string  `yaml:"table_id"`
	PageSize          int     `yaml:"page_size"`
	MaxPages          int     `yaml:"max_pages"`
	TimeoutSec        int     `yaml:"timeout_sec"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// CacheConfig defines the article snapshot cache.
type CacheConfig struct {
	Type      string `yaml:"type"`
	TTLSec    int    `yaml:"ttl_sec"`
	RedisAddr string `yaml:"redis_addr"`
	RedisDB   int    `yaml:"redis_db"`
	RedisKey  string `yaml:"redis_key"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig defines the JSON API listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns a configuration with every optional value filled in.
func Default() *Config {
	return &Config{
		Feishu: FeishuConfig{
			BaseURL:           "https://open.feishu.cn",
			PageSize:          100,
			MaxPages:          1000,
			TimeoutSec:        10,
			RequestsPerSecond: 10,
		},
		Fields: models.DefaultFieldMapping(),
		Cache: CacheConfig{
			Type:     CacheTypeMemory,
			TTLSec:   300,
			RedisKey: "antifraud:all_articles",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: ":5000",
		},
	}
}

// LoadConfig loads configuration from a YAML file layered over Default, then applies
// .env and environment overrides. An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	cfg.Fields = cfg.Fields.WithDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides values from the environment using the variable names of the
// original deployment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"FEISHU_APP_ID":     &c.Feishu.AppID,
		"FEISHU_APP_SECRET": &c.Feishu.AppSecret,
		"FEISHU_BASE_URL":   &c.Feishu.BaseURL,
		"BASE_ID":           &c.Feishu.BaseID,
		"TABLE_ID":          &c.Feishu.TableID,
		"CACHE_TYPE":        &c.Cache.Type,
		"REDIS_ADDR":        &c.Cache.RedisAddr,
		"LOG_LEVEL":         &c.Logging.Level,
		"LOG_FORMAT":        &c.Logging.Format,
		"SERVER_ADDR":       &c.Server.Addr,
	}

	for name, dst := range strs {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}

	// Flask-Caching names kept for existing deployments.
	switch c.Cache.Type {
	case "SimpleCache":
		c.Cache.Type = CacheTypeMemory
	case "RedisCache":
		c.Cache.Type = CacheTypeRedis
	}

	if v, ok := lookup("CACHE_DEFAULT_TIMEOUT"); ok && v != "" {
		ttl, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CACHE_DEFAULT_TIMEOUT: %w", err)
		}

		c.Cache.TTLSec = ttl
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Feishu.AppID == "" {
		return ErrMissingAppID
	}

	if c.Feishu.AppSecret == "" {
		return ErrMissingAppSecret
	}

	if c.Feishu.BaseID == "" {
		return ErrMissingBaseID
	}

	if c.Feishu.TableID == "" {
		return ErrMissingTableID
	}

	u, err := url.Parse(c.Feishu.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidBaseURL
	}

	if c.Feishu.PageSize < 1 || c.Feishu.PageSize > 500 {
		return ErrInvalidPageSize
	}

	if c.Feishu.MaxPages < 1 {
		return ErrInvalidMaxPages
	}

	if c.Feishu.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.Feishu.RequestsPerSecond < 0 {
		return ErrInvalidRateLimit
	}

	if err := c.Fields.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFieldMapping, err)
	}

	if c.Cache.TTLSec < 1 {
		return ErrInvalidCacheTTL
	}

	switch c.Cache.Type {
	case CacheTypeMemory:
	case CacheTypeRedis:
		if c.Cache.RedisAddr == "" {
			return ErrMissingRedisAddr
		}
	default:
		return ErrInvalidCacheType
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

// Timeout returns the per-request timeout for upstream calls.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Feishu.TimeoutSec) * time.Second
}

// TTL returns the snapshot lifetime.
func (c *Config) TTL() time.Duration {
	return time.Duration(c.Cache.TTLSec) * time.Second
}

// Presence reports which required credentials are configured, without exposing them.
func (c *Config) Presence() map[string]bool {
	return map[string]bool{
		"feishu_app_id":     c.Feishu.AppID != "",
		"feishu_app_secret": c.Feishu.AppSecret != "",
		"base_id":           c.Feishu.BaseID != "",
		"table_id":          c.Feishu.TableID != "",
	}
}

// String returns a string representation of the config with secrets redacted.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{BaseURL: %s, Table: %s/%s, PageSize: %d, Cache: %s/%ds}",
		c.Feishu.BaseURL,
		c.Feishu.BaseID,
		c.Feishu.TableID,
		c.Feishu.PageSize,
		c.Cache.Type,
		c.Cache.TTLSec,
	)
}
