// Package config provides 12-factor configuration management for the composition backend.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host, CORS origins)
//   - Engine: search limits and trace verbosity
//   - Data: dataset directory and autoload behavior
//   - Annotator: remote annotation service connection settings
//   - Logging: log level and output format
//   - RateLimit: per-IP rate limiting configuration
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST, CORS_ORIGINS
//   - ENGINE_MAX_EXPANSIONS, ENGINE_MAX_GREEDY_STEPS, ENGINE_TIMEOUT
//   - DATA_ROOT, DATA_AUTOLOAD
//   - ANNOTATOR_ADDR, ANNOTATOR_TIMEOUT, ANNOTATOR_RETRY_MAX
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package config
