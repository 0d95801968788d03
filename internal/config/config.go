package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store"`
	Session  SessionConfig  `yaml:"session"`
	Activity ActivityConfig `yaml:"activity"`
	Security SecurityConfig `yaml:"security"`
	Log      LogConfig      `yaml:"log"`
	Notify   NotifyConfig   `yaml:"notify"`
}

type StoreConfig struct {
	Path        string `yaml:"path"`
	KeyPrefix   string `yaml:"key_prefix"`
	SlowQueryMs int    `yaml:"slow_query_ms"`
}

type SessionConfig struct {
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	MaxLifetime time.Duration `yaml:"max_lifetime"`
}

type ActivityConfig struct {
	Capacity int `yaml:"capacity"`
}

type SecurityConfig struct {
	BcryptCost int `yaml:"bcrypt_cost"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

type NotifyConfig struct {
	ResendAPIKey string   `yaml:"resend_api_key"`
	From         string   `yaml:"from"`
	To           []string `yaml:"to"`
	MinSeverity  string   `yaml:"min_severity"`
}

// Defaults for every setting.
const (
	DefaultStorePath      = "treasurecove.db"
	DefaultKeyPrefix      = "treasureCove_"
	DefaultSlowQueryMs    = 50
	DefaultSessionTimeout = 8 * time.Hour
	DefaultActivityCap    = 100
	DefaultBcryptCost     = 12
	MinBcryptCost         = 4
	MaxBcryptCost         = 31
)

// Default returns a config with every default applied.
func Default() Config {
	return Config{
		Store: StoreConfig{
			Path:        DefaultStorePath,
			KeyPrefix:   DefaultKeyPrefix,
			SlowQueryMs: DefaultSlowQueryMs,
		},
		Session: SessionConfig{
			IdleTimeout: DefaultSessionTimeout,
			MaxLifetime: DefaultSessionTimeout,
		},
		Activity: ActivityConfig{Capacity: DefaultActivityCap},
		Security: SecurityConfig{BcryptCost: DefaultBcryptCost},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Notify: NotifyConfig{MinSeverity: "warning"},
	}
}

// Load reads an optional YAML file over the defaults, then applies environment
// overrides and validates the result. An empty path skips the file.
// PRE: path is empty or names a readable YAML file
// POST: Returns a validated Config or an error
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("TREASURECOVE_DB_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := getenv("TREASURECOVE_KEY_PREFIX"); v != "" {
		c.Store.KeyPrefix = v
	}
	if v := getenv("TREASURECOVE_SLOW_QUERY_MS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TREASURECOVE_SLOW_QUERY_MS: %w", err)
		}
		c.Store.SlowQueryMs = n
	}
	if v := getenv("TREASURECOVE_SESSION_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TREASURECOVE_SESSION_TIMEOUT: %w", err)
		}
		c.Session.IdleTimeout = d
		c.Session.MaxLifetime = d
	}
	if v := getenv("TREASURECOVE_BCRYPT_COST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TREASURECOVE_BCRYPT_COST: %w", err)
		}
		c.Security.BcryptCost = n
	}
	if v := getenv("TREASURECOVE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("TREASURECOVE_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := getenv("TREASURECOVE_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := getenv("TREASURECOVE_RESEND_KEY"); v != "" {
		c.Notify.ResendAPIKey = v
	}
	if v := getenv("TREASURECOVE_NOTIFY_FROM"); v != "" {
		c.Notify.From = v
	}
	if v := getenv("TREASURECOVE_NOTIFY_TO"); v != "" {
		c.Notify.To = splitList(v)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks the config for values the rest of the program cannot work with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Store.Path) == "" {
		errs = append(errs, errors.New("store.path is required"))
	}
	if c.Store.KeyPrefix == "" {
		errs = append(errs, errors.New("store.key_prefix is required"))
	}
	if c.Session.IdleTimeout <= 0 || c.Session.MaxLifetime <= 0 {
		errs = append(errs, errors.New("session timeouts must be positive"))
	}
	if c.Activity.Capacity <= 0 {
		errs = append(errs, errors.New("activity.capacity must be positive"))
	}
	if c.Security.BcryptCost < MinBcryptCost || c.Security.BcryptCost > MaxBcryptCost {
		errs = append(errs, fmt.Errorf("security.bcrypt_cost must be between %d and %d", MinBcryptCost, MaxBcryptCost))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	if c.Notify.ResendAPIKey != "" && (c.Notify.From == "" || len(c.Notify.To) == 0) {
		errs = append(errs, errors.New("notify.from and notify.to are required when a Resend key is set"))
	}
	return errors.Join(errs...)
}
