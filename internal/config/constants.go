package config

import "time"

// Application constants
const (
	AppName = "Claimsheet"

	// EnvPrefix namespaces every environment variable, e.g. CLAIMSHEET_SERVER_PORT.
	EnvPrefix = "CLAIMSHEET"

	// ConfigFileEnv points at an explicit YAML configuration file.
	ConfigFileEnv = "CLAIMSHEET_CONFIG"

	DefaultPort            = 8080
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultRequestTimeout  = 60 * time.Second

	DefaultMaxUploadBytes  = 32 << 20 // 32MB per request
	DefaultDownloadName    = "Transformed_Claim_Data"
	DefaultPreviewRows     = 5
	DefaultRateLimitRPS    = 20
	DefaultRateLimitBurst  = 40
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
	DefaultTracesExporter  = "none"
	DefaultTelemetryName   = "claimsheet"
)

// Version information, overridden at build time with -ldflags.
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)
