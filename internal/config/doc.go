// Package config loads runtime configuration from multiple sources (YAML files,
// environment variables, CLI flags) with precedence: CLI flags > YAML config >
// Environment variables > Defaults. It tells the rest of the application where
// the product and container catalogs live and how the HTTP server behaves.
package config
