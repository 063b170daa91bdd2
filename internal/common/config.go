package common

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Crawler     CrawlerConfig   `toml:"crawler"`
	AI          AIConfig        `toml:"ai"`
	Publisher   PublisherConfig `toml:"publisher"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
	Seeds       SeedsConfig     `toml:"seeds"`
	Logging     LoggingConfig   `toml:"logging"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"required,min=1,max=65535"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger     BadgerConfig     `toml:"badger"`
	Filesystem FilesystemConfig `toml:"filesystem"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required"`
	ResetOnStartup bool   `toml:"reset_on_startup"`
}

type FilesystemConfig struct {
	Images string `toml:"images"` // Public image directory served under /images/
}

// CrawlerConfig contains source-site fetch configuration
type CrawlerConfig struct {
	UserAgent         string `toml:"user_agent"`
	RequestTimeout    string `toml:"request_timeout"`     // e.g. "30s"
	PageDelay         string `toml:"page_delay"`          // Pause between listing page fetches (default "1s")
	MaxPages          int    `toml:"max_pages"`           // Safety cap per category crawl (0 = unlimited)
	ReparsePauseEvery int    `toml:"reparse_pause_every"` // Items between 1s pauses during bulk re-parsing
}

// AIConfig contains completion-service configuration. Values act as fallbacks;
// the KV parameter store is consulted first at call time.
type AIConfig struct {
	Provider       string  `toml:"provider"` // "claude" or "gemini"
	APIKey         string  `toml:"api_key"`
	BaseURL        string  `toml:"base_url"`
	Model          string  `toml:"model"`
	Timeout        string  `toml:"timeout"`
	MaxTokens      int     `toml:"max_tokens"`
	Temperature    float32 `toml:"temperature"`
	TargetLanguage string  `toml:"target_language"` // Outline title translation target
}

// PublisherConfig carries explicit publish defaults instead of implicit globals
type PublisherConfig struct {
	SourceType       string   `toml:"source_type" validate:"required"`
	DefaultAuthorID  string   `toml:"default_author_id"`
	CategoryKeywords []string `toml:"category_keywords"` // Final matcher fallback keywords
	ItemDelay        string   `toml:"item_delay"`        // Pause between batch publish items (default "3s")
	BatchPageSize    int      `toml:"batch_page_size"`
}

// SchedulerConfig enables cron-driven re-crawls of valid categories
type SchedulerConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // Cron expression
}

// SeedsConfig points at directories of TOML seed files loaded on startup
type SeedsConfig struct {
	Dir string `toml:"dir"` // Categories, authors and parameters (./seeds/*.toml)
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// DefaultConfig returns the baseline configuration before file and env overrides
func DefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8085,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/vendo",
			},
			Filesystem: FilesystemConfig{
				Images: "./data/images",
			},
		},
		Crawler: CrawlerConfig{
			UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			RequestTimeout:    "30s",
			PageDelay:         "1s",
			MaxPages:          0,
			ReparsePauseEvery: 10,
		},
		AI: AIConfig{
			Provider:       "claude",
			Model:          "claude-haiku-3-5-20241022",
			Timeout:        "5m",
			MaxTokens:      8192,
			Temperature:    0.2,
			TargetLanguage: "Simplified Chinese",
		},
		Publisher: PublisherConfig{
			SourceType:       "coursesite",
			DefaultAuthorID:  "author_default",
			CategoryKeywords: []string{"设计", "创意"},
			ItemDelay:        "3s",
			BatchPageSize:    20,
		},
		Scheduler: SchedulerConfig{
			Enabled:  false,
			Schedule: "0 3 * * *",
		},
		Seeds: SeedsConfig{
			Dir: "./seeds",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
	}
}

// LoadConfig builds configuration from defaults, then each file in order,
// then environment variables. Later sources override earlier ones.
func LoadConfig(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides applies VENDO_* environment variables over file values
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("VENDO_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("VENDO_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("VENDO_BADGER_PATH"); v != "" {
		cfg.Storage.Badger.Path = v
	}
	if v := os.Getenv("VENDO_AI_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("VENDO_AI_BASE_URL"); v != "" {
		cfg.AI.BaseURL = v
	}
	if v := os.Getenv("VENDO_AI_MODEL"); v != "" {
		cfg.AI.Model = v
	}
	if v := os.Getenv("VENDO_AI_PROVIDER"); v != "" {
		cfg.AI.Provider = v
	}
	if v := os.Getenv("VENDO_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks structural validity plus fields the validator tags cannot express
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Scheduler.Enabled {
		if _, err := cron.ParseStandard(c.Scheduler.Schedule); err != nil {
			return fmt.Errorf("invalid scheduler schedule %q: %w", c.Scheduler.Schedule, err)
		}
	}

	switch c.AI.Provider {
	case "claude", "gemini":
	default:
		return fmt.Errorf("invalid ai provider %q (expected claude or gemini)", c.AI.Provider)
	}

	return nil
}
