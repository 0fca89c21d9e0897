// Package config provides configuration management for the NASA gateway.
//
// This package handles loading and validating server configuration from a
// YAML file, a .env file and environment variables.
//
// # Configuration Sources
//
// Later sources override earlier ones:
//
//   - Built-in defaults
//   - Configuration file ($NASA_CONFIG_PATH/nasa.yml, optional)
//   - Environment variables, including any loaded from .env
//
// # Key Configuration Options
//
//   - DATABASE_URL: Database connection (postgres:// or sqlite://)
//   - NASA_API_KEY: api.nasa.gov key
//   - PORT: Server listen port
//   - NASA_TOKEN_TTL: Bearer token lifetime
//   - LOG_LEVEL: Logging verbosity
package config
