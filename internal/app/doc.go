// Package app wires configuration, logging, telemetry, services and the
// HTTP router into a runnable server.
//
// # Initialization Flow
//
//	1. Load configuration from environment variables and an optional YAML file
//	2. Initialize the structured logger
//	3. Initialize OpenTelemetry tracing and the Prometheus-backed meter
//	4. Create the claims and health services
//	5. Build the chi router and middleware chain
//	6. Create the HTTP server
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    return err
//	}
//	return application.Run()
//
// Run blocks until SIGINT or SIGTERM and then drains in-flight requests
// within the configured shutdown timeout. Initialization errors are returned
// to the caller; the package never calls os.Exit.
package app
