// Package config centralizes runtime configuration for the ingestion tool.
//
// Configuration is assembled from three layers, lowest precedence first:
// struct-tag defaults, an optional config.yaml file, and STOCKLENS_-prefixed
// environment variables. The loaded result is validated before use.
package config
