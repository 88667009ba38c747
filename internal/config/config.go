// Package config resolves the API base URL and loads optional .env overrides.
package config

import (
	"net"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Environment variables consulted by BaseURL.
const (
	EnvURL  = "LIME_API_URL"
	EnvHost = "LIME_API_HOST"
	EnvPort = "LIME_API_PORT"
)

const (
	defaultPort = "4000"
	defaultBase = "http://localhost:4000"
)

// Load reads a .env file from the working directory if one exists.
// Missing files are fine; real environment variables always win in godotenv.
func Load(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := godotenv.Load(".env"); err == nil {
		log.Debug("loaded .env")
	}
}

// BaseURL resolves the API base URL: an explicit override first, then
// LIME_API_URL, then LIME_API_HOST with a configurable port, then the
// localhost default.
func BaseURL(override string) string {
	if override != "" {
		return override
	}
	if v := os.Getenv(EnvURL); v != "" {
		return v
	}
	if host := os.Getenv(EnvHost); host != "" {
		if strings.Contains(host, "://") {
			return host
		}
		port := os.Getenv(EnvPort)
		if port == "" {
			port = defaultPort
		}
		return "http://" + net.JoinHostPort(host, port)
	}
	return defaultBase
}
