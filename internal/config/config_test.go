package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// Helper to create a temp config file.
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}

	return configPath
}

// clearEnv blanks every variable ApplyEnv reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()

	for _, name := range []string{
		"FEISHU_APP_ID", "FEISHU_APP_SECRET", "FEISHU_BASE_URL", "BASE_ID", "TABLE_ID",
		"CACHE_TYPE", "CACHE_DEFAULT_TIMEOUT", "REDIS_ADDR", "LOG_LEVEL", "LOG_FORMAT", "SERVER_ADDR",
	} {
		t.Setenv(name, "")
	}
}

// validConfigYAML is a minimal valid configuration.
const validConfigYAML = `
feishu:
  app_id: "cli_test"
  app_secret: "secret"
  base_id: "bascnTest"
  table_id: "tblTest"
  page_size: 50
fields:
  title: "标题"
  summary: "摘要"
cache:
  ttl_sec: 60
logging:
  level: "debug"
`

func validConfig() *Config {
	cfg := Default()
	cfg.Feishu.AppID = "cli_test"
	cfg.Feishu.AppSecret = "secret"
	cfg.Feishu.BaseID = "bascnTest"
	cfg.Feishu.TableID = "tblTest"

	return cfg
}

func TestLoadConfig_Valid(t *testing.T) {
	clearEnv(t)

	configPath := createTempConfigFile(t, validConfigYAML)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Feishu.PageSize != 50 {
		t.Errorf("Expected page size 50, got %d", cfg.Feishu.PageSize)
	}

	if cfg.Feishu.BaseURL != "https://open.feishu.cn" {
		t.Errorf("Expected default base URL, got %s", cfg.Feishu.BaseURL)
	}

	if cfg.Fields.Address != "地址" {
		t.Errorf("Expected default address column, got %q", cfg.Fields.Address)
	}

	if cfg.TTL() != time.Minute {
		t.Errorf("Expected TTL 1m, got %v", cfg.TTL())
	}

	if cfg.Timeout() != 10*time.Second {
		t.Errorf("Expected default timeout 10s, got %v", cfg.Timeout())
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("Expected error for nonexistent file, got nil")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := createTempConfigFile(t, "invalid: yaml: content: [}")

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("Expected error for invalid YAML, got nil")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("FEISHU_APP_ID", "cli_env")
	t.Setenv("FEISHU_APP_SECRET", "env-secret")
	t.Setenv("BASE_ID", "bascnEnv")
	t.Setenv("TABLE_ID", "tblEnv")
	t.Setenv("CACHE_DEFAULT_TIMEOUT", "120")
	t.Setenv("CACHE_TYPE", "SimpleCache")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Feishu.AppID != "cli_env" || cfg.Feishu.TableID != "tblEnv" {
		t.Errorf("Expected env credentials, got %+v", cfg.Feishu)
	}

	if cfg.Cache.TTLSec != 120 {
		t.Errorf("Expected TTL 120, got %d", cfg.Cache.TTLSec)
	}

	if cfg.Cache.Type != CacheTypeMemory {
		t.Errorf("Expected SimpleCache to map to memory, got %s", cfg.Cache.Type)
	}
}

func TestApplyEnv_InvalidTimeout(t *testing.T) {
	cfg := validConfig()

	lookup := func(name string) (string, bool) {
		if name == "CACHE_DEFAULT_TIMEOUT" {
			return "five minutes", true
		}

		return "", false
	}

	if err := cfg.ApplyEnv(lookup); err == nil {
		t.Fatal("Expected error for non-numeric CACHE_DEFAULT_TIMEOUT")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"Valid", func(*Config) {}, nil},
		{"Missing app id", func(c *Config) { c.Feishu.AppID = "" }, ErrMissingAppID},
		{"Missing app secret", func(c *Config) { c.Feishu.AppSecret = "" }, ErrMissingAppSecret},
		{"Missing base id", func(c *Config) { c.Feishu.BaseID = "" }, ErrMissingBaseID},
		{"Missing table id", func(c *Config) { c.Feishu.TableID = "" }, ErrMissingTableID},
		{"Relative base URL", func(c *Config) { c.Feishu.BaseURL = "open.feishu.cn" }, ErrInvalidBaseURL},
		{"Page size too large", func(c *Config) { c.Feishu.PageSize = 501 }, ErrInvalidPageSize},
		{"Zero page cap", func(c *Config) { c.Feishu.MaxPages = 0 }, ErrInvalidMaxPages},
		{"Zero timeout", func(c *Config) { c.Feishu.TimeoutSec = 0 }, ErrInvalidTimeout},
		{"Negative rate", func(c *Config) { c.Feishu.RequestsPerSecond = -1 }, ErrInvalidRateLimit},
		{"Empty column", func(c *Config) { c.Fields.Summary = "" }, ErrInvalidFieldMapping},
		{"Zero TTL", func(c *Config) { c.Cache.TTLSec = 0 }, ErrInvalidCacheTTL},
		{"Unknown cache", func(c *Config) { c.Cache.Type = "memcached" }, ErrInvalidCacheType},
		{"Redis without address", func(c *Config) { c.Cache.Type = CacheTypeRedis }, ErrMissingRedisAddr},
		{"Bad log level", func(c *Config) { c.Logging.Level = "verbose" }, ErrInvalidLogLevel},
		{"Bad log format", func(c *Config) { c.Logging.Format = "xml" }, ErrInvalidLogFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}

				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfig_String_RedactsSecrets(t *testing.T) {
	cfg := validConfig()

	s := cfg.String()
	if strings.Contains(s, "secret") {
		t.Errorf("String() leaked the app secret: %s", s)
	}

	if !strings.Contains(s, "tblTest") {
		t.Errorf("String() should include the table id: %s", s)
	}
}

func TestConfig_Presence(t *testing.T) {
	cfg := validConfig()
	cfg.Feishu.TableID = ""

	p := cfg.Presence()
	if !p["feishu_app_id"] || p["table_id"] {
		t.Errorf("unexpected presence map: %v", p)
	}
}
