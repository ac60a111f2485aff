// Package config provides centralized configuration management for the
// claimsheet service and CLI.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. A YAML file named by CLAIMSHEET_CONFIG, or claimsheet.yaml / configs/claimsheet.yaml
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern CLAIMSHEET_<SECTION>_<FIELD>:
//
//	CLAIMSHEET_SERVER_PORT=8080
//	CLAIMSHEET_UPLOAD_MAX_BYTES=33554432
//	CLAIMSHEET_UPLOAD_DEFAULT_FILENAME=Transformed_Claim_Data
//	CLAIMSHEET_LOGGING_LEVEL=debug
//	CLAIMSHEET_TELEMETRY_TRACES_EXPORTER=stdout
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Tests use config.Default(), which needs no environment.
package config
