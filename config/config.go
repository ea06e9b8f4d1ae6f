package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/brayner/brayner/pkg/timeutil"
)

// Environment represents the application environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Notification channels.
const (
	ChannelLog      = "log"
	ChannelConsole  = "console"
	ChannelTelegram = "telegram"
)

// Config holds all application configuration.
type Config struct {
	App           AppConfig           `yaml:"app"`
	Store         StoreConfig         `yaml:"store"`
	Coach         CoachConfig         `yaml:"coach"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Observability ObservabilityConfig `yaml:"observability"`

	// Flags overrides feature flags by name, e.g. "coach.chat: false".
	Flags map[string]bool `yaml:"features"`

	Features *FeatureFlags `yaml:"-"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string      `yaml:"name"`
	Environment Environment `yaml:"environment"`

	// Timezone for date keys (default: Asia/Dhaka)
	Timezone string         `yaml:"timezone"`
	Location *time.Location `yaml:"-"`

	// DataDir holds the file and sqlite stores.
	DataDir string `yaml:"data_dir"`
}

// StoreConfig selects and configures the document backend.
type StoreConfig struct {
	Driver string `yaml:"driver"`

	// Key names the document inside the backend.
	Key string `yaml:"key"`

	// Path overrides the sqlite database file.
	Path string `yaml:"path"`

	PostgresURL string `yaml:"postgres_url"`
	RedisURL    string `yaml:"redis_url"`

	// Resilient wraps network backends with retry and a circuit breaker.
	Resilient bool `yaml:"resilient"`
}

// CoachConfig holds the Gemini settings.
type CoachConfig struct {
	APIKey        string        `yaml:"api_key"`
	ChatModel     string        `yaml:"chat_model"`
	AnalysisModel string        `yaml:"analysis_model"`
	Timeout       time.Duration `yaml:"timeout"`
	MaxAttempts   int           `yaml:"max_attempts"`

	// RequestsPerMinute caps model calls.
	RequestsPerMinute float64 `yaml:"requests_per_minute"`
}

// NotificationsConfig holds delivery settings.
type NotificationsConfig struct {
	Channel string `yaml:"channel"`

	// Permission mirrors the platform notification permission.
	Permission        bool `yaml:"permission"`
	RespectQuietHours bool `yaml:"respect_quiet_hours"`

	TelegramToken  string `yaml:"telegram_token"`
	TelegramChatID int64  `yaml:"telegram_chat_id"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string `yaml:"log_level"`  // debug, info, warn, error
	LogFormat string `yaml:"log_format"` // json, console
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:        "brayner",
			Environment: EnvDevelopment,
			Timezone:    "Asia/Dhaka",
			DataDir:     defaultDataDir(),
		},
		Store: StoreConfig{
			Driver: DriverFile,
			Key:    "brayner_state_v2",
		},
		Coach: CoachConfig{
			ChatModel:         "gemini-2.5-flash",
			AnalysisModel:     "gemini-2.5-pro",
			Timeout:           30 * time.Second,
			MaxAttempts:       3,
			RequestsPerMinute: 15,
		},
		Notifications: NotificationsConfig{
			Channel:    ChannelConsole,
			Permission: true,
		},
		Observability: ObservabilityConfig{
			LogLevel:  "warn",
			LogFormat: "console",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (or
// $BRAYNER_CONFIG), then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = getEnv("BRAYNER_CONFIG", "")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	features, err := LoadFeatureFlags(cfg.Flags)
	if err != nil {
		return nil, err
	}
	cfg.Features = features

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides fields whose variables are set. Current values act as
// defaults.
func (c *Config) applyEnv() {
	c.App.Name = getEnv("APP_NAME", c.App.Name)
	c.App.Environment = Environment(getEnv("APP_ENV", string(c.App.Environment)))
	c.App.Timezone = getEnv("APP_TIMEZONE", c.App.Timezone)
	c.App.DataDir = getEnv("BRAYNER_DATA_DIR", c.App.DataDir)

	c.Store.Driver = strings.ToLower(getEnv("BRAYNER_STORE", c.Store.Driver))
	c.Store.Key = getEnv("BRAYNER_STORE_KEY", c.Store.Key)
	c.Store.Path = getEnv("BRAYNER_SQLITE_PATH", c.Store.Path)
	c.Store.PostgresURL = getEnv("DATABASE_URL", c.Store.PostgresURL)
	c.Store.RedisURL = getEnv("REDIS_URL", c.Store.RedisURL)
	c.Store.Resilient = getEnvBool("BRAYNER_STORE_RESILIENT", c.Store.Resilient)

	c.Coach.APIKey = getEnv("GEMINI_API_KEY", getEnv("API_KEY", c.Coach.APIKey))
	c.Coach.ChatModel = getEnv("GEMINI_CHAT_MODEL", c.Coach.ChatModel)
	c.Coach.AnalysisModel = getEnv("GEMINI_ANALYSIS_MODEL", c.Coach.AnalysisModel)
	c.Coach.Timeout = getEnvDuration("GEMINI_TIMEOUT", c.Coach.Timeout)
	c.Coach.MaxAttempts = getEnvInt("GEMINI_MAX_ATTEMPTS", c.Coach.MaxAttempts)

	c.Notifications.Channel = strings.ToLower(getEnv("NOTIFY_CHANNEL", c.Notifications.Channel))
	c.Notifications.Permission = getEnvBool("NOTIFY_PERMISSION", c.Notifications.Permission)
	c.Notifications.RespectQuietHours = getEnvBool("NOTIFY_QUIET_HOURS", c.Notifications.RespectQuietHours)
	c.Notifications.TelegramToken = getEnv("TELEGRAM_BOT_TOKEN", c.Notifications.TelegramToken)
	c.Notifications.TelegramChatID = getEnvInt64("TELEGRAM_CHAT_ID", c.Notifications.TelegramChatID)

	c.Observability.LogLevel = getEnv("LOG_LEVEL", c.Observability.LogLevel)
	c.Observability.LogFormat = getEnv("LOG_FORMAT", c.Observability.LogFormat)
}

// Validate checks the configuration and resolves the timezone.
func (c *Config) Validate() error {
	var errs []string

	loc, err := timeutil.LoadLocation(c.App.Timezone)
	if err != nil {
		errs = append(errs, fmt.Sprintf("unknown timezone %q", c.App.Timezone))
	} else {
		c.App.Location = loc
	}

	switch c.Store.Driver {
	case DriverMemory:
	case DriverFile, DriverSQLite:
		if c.App.DataDir == "" && c.Store.Path == "" {
			errs = append(errs, "BRAYNER_DATA_DIR is required for the "+c.Store.Driver+" store")
		}
	case DriverPostgres:
		if c.Store.PostgresURL == "" {
			errs = append(errs, "DATABASE_URL is required for the postgres store")
		}
	case DriverRedis:
		if c.Store.RedisURL == "" {
			errs = append(errs, "REDIS_URL is required for the redis store")
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown store driver %q", c.Store.Driver))
	}
	if c.Store.Key == "" {
		errs = append(errs, "store key must not be empty")
	}

	switch c.Notifications.Channel {
	case ChannelLog, ChannelConsole:
	case ChannelTelegram:
		if c.Notifications.TelegramToken == "" || c.Notifications.TelegramChatID == 0 {
			errs = append(errs, "TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID are required for the telegram channel")
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown notification channel %q", c.Notifications.Channel))
	}

	if c.Coach.MaxAttempts < 1 {
		errs = append(errs, "GEMINI_MAX_ATTEMPTS must be at least 1")
	}

	if len(errs) > 0 {
		return errors.New("configuration errors:\n  - " + strings.Join(errs, "\n  - "))
	}
	return nil
}

// CoachEnabled reports whether a key is set and any coach flag is on.
func (c *Config) CoachEnabled() bool {
	return c.Coach.APIKey != "" && c.Features.CoachFeaturesEnabled()
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir + string(os.PathSeparator) + "brayner"
	}
	return ".brayner"
}

// --- Helper functions for environment variable parsing ---

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}
