package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Upload    UploadConfig    `yaml:"upload" envconfig:"UPLOAD"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"HOST"`
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"60s"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"20"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"40"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/claimsheet.log"`
}

// UploadConfig bounds uploads and names downloads.
type UploadConfig struct {
	MaxBytes        int64  `yaml:"max_bytes" envconfig:"MAX_BYTES" default:"33554432"`
	DefaultFilename string `yaml:"default_filename" envconfig:"DEFAULT_FILENAME" default:"Transformed_Claim_Data"`
	PreviewRows     int    `yaml:"preview_rows" envconfig:"PREVIEW_ROWS" default:"5"`
}

// TelemetryConfig selects OpenTelemetry exporters.
type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name" envconfig:"SERVICE_NAME" default:"claimsheet"`
	TracesExporter string `yaml:"traces_exporter" envconfig:"TRACES_EXPORTER" default:"none"`
	MetricsEnabled bool   `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED" default:"true"`
}

// Load loads configuration from environment variables and an optional YAML
// file. Environment variables that are set win over the file.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile := getConfigFilePath(); configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg, envSet)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func envSet(key string) bool {
	_, ok := os.LookupEnv(EnvPrefix + "_" + key)
	return ok
}

// mergeConfigs overlays file values onto the env config wherever the matching
// environment variable is unset. The file config starts from Default, so keys
// missing from the file keep their defaults.
func mergeConfigs(fileConfig, envConfig Config, isSet func(key string) bool) Config {
	f, e := &fileConfig, &envConfig

	pick(isSet, "SERVER_HOST", &e.Server.Host, f.Server.Host)
	pick(isSet, "SERVER_PORT", &e.Server.Port, f.Server.Port)
	pick(isSet, "SERVER_READ_TIMEOUT", &e.Server.ReadTimeout, f.Server.ReadTimeout)
	pick(isSet, "SERVER_WRITE_TIMEOUT", &e.Server.WriteTimeout, f.Server.WriteTimeout)
	pick(isSet, "SERVER_IDLE_TIMEOUT", &e.Server.IdleTimeout, f.Server.IdleTimeout)
	pick(isSet, "SERVER_MAX_HEADER_BYTES", &e.Server.MaxHeaderBytes, f.Server.MaxHeaderBytes)
	pick(isSet, "SERVER_SHUTDOWN_TIMEOUT", &e.Server.ShutdownTimeout, f.Server.ShutdownTimeout)
	pick(isSet, "SERVER_REQUEST_TIMEOUT", &e.Server.RequestTimeout, f.Server.RequestTimeout)

	pick(isSet, "SECURITY_ALLOWED_ORIGINS", &e.Security.AllowedOrigins, f.Security.AllowedOrigins)
	pick(isSet, "SECURITY_ENABLE_CORS", &e.Security.EnableCORS, f.Security.EnableCORS)
	pick(isSet, "SECURITY_RATE_LIMIT_ENABLED", &e.Security.RateLimit.Enabled, f.Security.RateLimit.Enabled)
	pick(isSet, "SECURITY_RATE_LIMIT_RPS", &e.Security.RateLimit.RPS, f.Security.RateLimit.RPS)
	pick(isSet, "SECURITY_RATE_LIMIT_BURST", &e.Security.RateLimit.Burst, f.Security.RateLimit.Burst)

	pick(isSet, "LOGGING_LEVEL", &e.Logging.Level, f.Logging.Level)
	pick(isSet, "LOGGING_FORMAT", &e.Logging.Format, f.Logging.Format)
	pick(isSet, "LOGGING_OUTPUT", &e.Logging.Output, f.Logging.Output)
	pick(isSet, "LOGGING_FILE_PATH", &e.Logging.FilePath, f.Logging.FilePath)

	pick(isSet, "UPLOAD_MAX_BYTES", &e.Upload.MaxBytes, f.Upload.MaxBytes)
	pick(isSet, "UPLOAD_DEFAULT_FILENAME", &e.Upload.DefaultFilename, f.Upload.DefaultFilename)
	pick(isSet, "UPLOAD_PREVIEW_ROWS", &e.Upload.PreviewRows, f.Upload.PreviewRows)

	pick(isSet, "TELEMETRY_SERVICE_NAME", &e.Telemetry.ServiceName, f.Telemetry.ServiceName)
	pick(isSet, "TELEMETRY_TRACES_EXPORTER", &e.Telemetry.TracesExporter, f.Telemetry.TracesExporter)
	pick(isSet, "TELEMETRY_METRICS_ENABLED", &e.Telemetry.MetricsEnabled, f.Telemetry.MetricsEnabled)

	return envConfig
}

func pick[T any](isSet func(key string) bool, key string, dst *T, v T) {
	if !isSet(key) {
		*dst = v
	}
}

var (
	validLevels    = []string{"debug", "info", "warn", "error"}
	validFormats   = []string{"json", "text"}
	validOutputs   = []string{"console", "file", "both"}
	validExporters = []string{"none", "stdout"}
)

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	if c.Security.RateLimit.Enabled && (c.Security.RateLimit.RPS <= 0 || c.Security.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit rps and burst must be positive")
	}

	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload max bytes must be positive")
	}

	if c.Upload.PreviewRows < 0 {
		return fmt.Errorf("preview rows must not be negative")
	}

	c.Logging.Level = strings.ToLower(c.Logging.Level)
	if !slices.Contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("invalid logging level: %q", c.Logging.Level)
	}

	if !slices.Contains(validFormats, c.Logging.Format) {
		c.Logging.Format = DefaultLogFormat
	}

	if !slices.Contains(validOutputs, c.Logging.Output) {
		return fmt.Errorf("invalid logging output: %q", c.Logging.Output)
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return fmt.Errorf("logging file path required for output %q", c.Logging.Output)
	}

	if !slices.Contains(validExporters, c.Telemetry.TracesExporter) {
		return fmt.Errorf("invalid traces exporter: %q", c.Telemetry.TracesExporter)
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if path := os.Getenv(ConfigFileEnv); path != "" {
		return path
	}

	locations := []string{
		"claimsheet.yaml",
		"configs/claimsheet.yaml",
		"../configs/claimsheet.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            DefaultPort,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			IdleTimeout:     DefaultIdleTimeout,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: DefaultShutdownTimeout,
			RequestTimeout:  DefaultRequestTimeout,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     DefaultRateLimitRPS,
				Burst:   DefaultRateLimitBurst,
			},
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "console",
			FilePath: "logs/claimsheet.log",
		},
		Upload: UploadConfig{
			MaxBytes:        DefaultMaxUploadBytes,
			DefaultFilename: DefaultDownloadName,
			PreviewRows:     DefaultPreviewRows,
		},
		Telemetry: TelemetryConfig{
			ServiceName:    DefaultTelemetryName,
			TracesExporter: DefaultTracesExporter,
			MetricsEnabled: true,
		},
	}
}
