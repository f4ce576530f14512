package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"combinercli/internal/combiner"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "COMBINER"

// Config is the complete application configuration. Values come from an
// optional YAML file overridden by COMBINER_* environment variables.
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	WebSocket WebSocketConfig `yaml:"websocket" envconfig:"WEBSOCKET"`
	Combine   CombineConfig   `yaml:"combine" envconfig:"COMBINE"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

// SecurityConfig contains CORS and rate-limit configuration.
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// WebSocketConfig contains progress-socket configuration.
type WebSocketConfig struct {
	ReadBufferSize  int           `yaml:"read_buffer_size" envconfig:"READ_BUFFER_SIZE"`
	WriteBufferSize int           `yaml:"write_buffer_size" envconfig:"WRITE_BUFFER_SIZE"`
	PongWait        time.Duration `yaml:"pong_wait" envconfig:"PONG_WAIT"`
}

// CombineConfig exposes the merge policies and heuristic constants. Every
// heuristic the pipeline uses is named here so operators can override it
// without a rebuild.
type CombineConfig struct {
	IdentifierPolicy   string        `yaml:"identifier_policy" envconfig:"IDENTIFIER_POLICY" validate:"oneof=roll keyword"`
	ScorePolicy        string        `yaml:"score_policy" envconfig:"SCORE_POLICY" validate:"oneof=serial-aware first-numeric"`
	IdentifierKeywords []string      `yaml:"identifier_keywords" envconfig:"IDENTIFIER_KEYWORDS"`
	SerialKeywords     []string      `yaml:"serial_keywords" envconfig:"SERIAL_KEYWORDS"`
	RollPattern        string        `yaml:"roll_pattern" envconfig:"ROLL_PATTERN"`
	MatchThreshold     float64       `yaml:"match_threshold" envconfig:"MATCH_THRESHOLD" validate:"gt=0,lte=1"`
	ColumnWidthCap     int           `yaml:"column_width_cap" envconfig:"COLUMN_WIDTH_CAP" validate:"gte=1"`
	MaxFiles           int           `yaml:"max_files" envconfig:"MAX_FILES" validate:"gte=1"`
	MaxFileSizeMB      int           `yaml:"max_file_size_mb" envconfig:"MAX_FILE_SIZE_MB" validate:"gte=1"`
	ResultTTL          time.Duration `yaml:"result_ttl" envconfig:"RESULT_TTL"`
}

// Default returns the built-in configuration. Defaults live here rather
// than in envconfig default tags: envconfig re-applies tag defaults for
// every unset variable, which would silently revert file-loaded values.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     20,
				Burst:   10,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/combiner.log",
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			PongWait:        60 * time.Second,
		},
		Combine: CombineConfig{
			IdentifierPolicy: string(combiner.IdentifierRollNumber),
			ScorePolicy:      string(combiner.ScoreSerialAware),
			RollPattern:      `^\d{6}$`,
			MatchThreshold:   combiner.DefaultMatchThreshold,
			ColumnWidthCap:   20,
			MaxFiles:         31,
			MaxFileSizeMB:    10,
			ResultTTL:        15 * time.Minute,
		},
	}
}

// Load builds the configuration with explicit precedence: built-in
// defaults, then the optional YAML file (path taken from COMBINER_CONFIG,
// default "config.yaml"), then COMBINER_* environment variables. Each
// layer only overrides what it actually sets. The result is validated
// before use.
func Load() (*Config, error) {
	cfg := Default()

	path := os.Getenv(EnvPrefix + "_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := regexp.Compile(c.Combine.RollPattern); err != nil {
		return fmt.Errorf("invalid roll pattern %q: %w", c.Combine.RollPattern, err)
	}
	return nil
}

// CombinerOptions translates the config section into pipeline options,
// falling back to the built-in keyword lists when none are configured.
func (c *CombineConfig) CombinerOptions() (combiner.Options, error) {
	opts := combiner.DefaultOptions()
	if c.IdentifierPolicy == string(combiner.IdentifierKeyword) {
		opts = combiner.SimpleOptions()
	}

	switch c.ScorePolicy {
	case string(combiner.ScoreFirstNumeric):
		opts.Scores = combiner.ScoreFirstNumeric
		opts.Labels = combiner.LabelWeek
	case string(combiner.ScoreSerialAware):
		opts.Scores = combiner.ScoreSerialAware
		opts.Labels = combiner.LabelFile
	}

	if len(c.IdentifierKeywords) > 0 {
		opts.IdentifierKeywords = c.IdentifierKeywords
	}
	if len(c.SerialKeywords) > 0 {
		opts.SerialKeywords = c.SerialKeywords
	}
	if c.RollPattern != "" {
		pattern, err := regexp.Compile(c.RollPattern)
		if err != nil {
			return opts, fmt.Errorf("invalid roll pattern %q: %w", c.RollPattern, err)
		}
		opts.RollPattern = pattern
	}
	if c.MatchThreshold > 0 {
		opts.MatchThreshold = c.MatchThreshold
	}
	return opts, nil
}

// MaxUploadBytes returns the per-request upload ceiling in bytes.
func (c *CombineConfig) MaxUploadBytes() int64 {
	return int64(c.MaxFiles) * int64(c.MaxFileSizeMB) << 20
}
