package config

import (
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Server settings
	ServerPort      string        `yaml:"server_port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	Debug           bool          `yaml:"debug"`

	LogDir string `yaml:"log_dir"`

	Provider ProviderConfig `yaml:"provider"`
	Summary  SummaryConfig  `yaml:"summary"`
	Fetch    FetchConfig    `yaml:"fetch"`

	RateLimit         int           `yaml:"rate_limit"`
	RateLimitInterval time.Duration `yaml:"rate_limit_interval"`

	CORS CORSConfig `yaml:"cors"`
}

// ProviderConfig points at the transcript provider API.
type ProviderConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// SummaryConfig points at the summarization service.
type SummaryConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// FetchConfig bounds the acquisition pipeline.
type FetchConfig struct {
	// BatchDelay is the pause applied after every batch item.
	BatchDelay time.Duration `yaml:"batch_delay"`
	// FilterDelay is the pause between date-filter metadata calls.
	FilterDelay time.Duration `yaml:"filter_delay"`
	// ScanLimit caps how many ids the date filter inspects per run.
	ScanLimit int `yaml:"scan_limit"`
	// DefaultMaxVideos is the batch size used when the request omits one.
	DefaultMaxVideos int `yaml:"default_max_videos"`
	// ChannelLimit is the listing size used when the request omits one.
	ChannelLimit int `yaml:"channel_limit"`
	// MetadataPreviewLimit caps the metadata preview endpoint.
	MetadataPreviewLimit int `yaml:"metadata_preview_limit"`
}

type CORSConfig struct {
	Enabled        bool     `yaml:"enabled"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// Load builds the configuration from defaults, an optional YAML file
// named by CONFIG_FILE, then environment variables, in that order.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read config file")
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse config file")
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		ServerPort:      "8080",
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		LogDir:          "./logs",
		Provider: ProviderConfig{
			BaseURL: "https://api.supadata.ai/v1/youtube",
			Timeout: 30 * time.Second,
		},
		Summary: SummaryConfig{
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4o-mini",
			Timeout: 2 * time.Minute,
		},
		Fetch: FetchConfig{
			BatchDelay:           300 * time.Millisecond,
			FilterDelay:          100 * time.Millisecond,
			ScanLimit:            50,
			DefaultMaxVideos:     10,
			ChannelLimit:         500,
			MetadataPreviewLimit: 10,
		},
		RateLimit:         5,
		RateLimitInterval: time.Second,
		CORS: CORSConfig{
			Enabled:        true,
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "x-api-key"},
		},
	}
}

func applyEnv(cfg *Config) {
	cfg.ServerPort = GetEnv("SERVER_PORT", cfg.ServerPort)
	cfg.ReadTimeout = getEnvAsDuration("READ_TIMEOUT", cfg.ReadTimeout)
	cfg.WriteTimeout = getEnvAsDuration("WRITE_TIMEOUT", cfg.WriteTimeout)
	cfg.IdleTimeout = getEnvAsDuration("IDLE_TIMEOUT", cfg.IdleTimeout)
	cfg.ShutdownTimeout = getEnvAsDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	cfg.Debug = getEnvAsBool("DEBUG", cfg.Debug)
	cfg.LogDir = GetEnv("LOG_DIR", cfg.LogDir)

	cfg.Provider.BaseURL = GetEnv("PROVIDER_BASE_URL", cfg.Provider.BaseURL)
	cfg.Provider.APIKey = GetEnv("PROVIDER_API_KEY", cfg.Provider.APIKey)
	cfg.Provider.Timeout = getEnvAsDuration("PROVIDER_TIMEOUT", cfg.Provider.Timeout)

	cfg.Summary.BaseURL = GetEnv("SUMMARY_BASE_URL", cfg.Summary.BaseURL)
	cfg.Summary.APIKey = GetEnv("SUMMARY_API_KEY", cfg.Summary.APIKey)
	cfg.Summary.Model = GetEnv("SUMMARY_MODEL", cfg.Summary.Model)
	cfg.Summary.Timeout = getEnvAsDuration("SUMMARY_TIMEOUT", cfg.Summary.Timeout)

	cfg.Fetch.BatchDelay = getEnvAsDuration("BATCH_DELAY", cfg.Fetch.BatchDelay)
	cfg.Fetch.FilterDelay = getEnvAsDuration("FILTER_DELAY", cfg.Fetch.FilterDelay)
	cfg.Fetch.ScanLimit = getEnvAsInt("FILTER_SCAN_LIMIT", cfg.Fetch.ScanLimit)
	cfg.Fetch.DefaultMaxVideos = getEnvAsInt("DEFAULT_MAX_VIDEOS", cfg.Fetch.DefaultMaxVideos)
	cfg.Fetch.ChannelLimit = getEnvAsInt("CHANNEL_LIMIT", cfg.Fetch.ChannelLimit)
	cfg.Fetch.MetadataPreviewLimit = getEnvAsInt("METADATA_PREVIEW_LIMIT", cfg.Fetch.MetadataPreviewLimit)

	cfg.RateLimit = getEnvAsInt("RATE_LIMIT", cfg.RateLimit)
	cfg.RateLimitInterval = getEnvAsDuration("RATE_LIMIT_INTERVAL", cfg.RateLimitInterval)
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid duration, using default")
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid integer, using default")
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
		logrus.WithFields(logrus.Fields{
			"key":   key,
			"value": value,
		}).Warn("Invalid boolean, using default")
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.ServerPort == "" {
		return errors.New("server port is required")
	}
	if c.Provider.BaseURL == "" {
		return errors.New("provider base URL is required")
	}
	if c.ReadTimeout <= 0 {
		return errors.New("read timeout must be greater than 0")
	}
	if c.WriteTimeout <= 0 {
		return errors.New("write timeout must be greater than 0")
	}
	if c.IdleTimeout <= 0 {
		return errors.New("idle timeout must be greater than 0")
	}
	if c.Fetch.ScanLimit <= 0 {
		return errors.New("filter scan limit must be greater than 0")
	}
	if c.Fetch.DefaultMaxVideos <= 0 {
		return errors.New("default max videos must be greater than 0")
	}
	if c.RateLimit <= 0 {
		return errors.New("rate limit must be greater than 0")
	}
	return nil
}
