// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Search backends.
const (
	SearchBackendSQL   = "sql"
	SearchBackendBleve = "bleve"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Storage StorageConfig
	Server  ServerConfig
	Auth    AuthConfig
	Search  SearchConfig
	Listing ListingConfig
	Reviews ReviewConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// StorageConfig holds on-disk locations.
type StorageConfig struct {
	// DataPath holds the SQLite database, the search index and the auth key.
	DataPath string
}

// DatabasePath returns the SQLite database file location.
func (s StorageConfig) DatabasePath() string {
	return filepath.Join(s.DataPath, "catalog.db")
}

// IndexPath returns the bleve index directory.
func (s StorageConfig) IndexPath() string {
	return filepath.Join(s.DataPath, "search")
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port               string        // Server port (default: 8080)
	ReadTimeout        time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout       time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout        time.Duration // HTTP idle timeout (default: 60s)
	CORSAllowedOrigins []string      // empty allows any origin
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// PASETO v4 symmetric key for access tokens (32 bytes)
	AccessTokenKey      []byte
	AccessTokenDuration time.Duration
}

// SearchConfig selects the text/category resolver.
type SearchConfig struct {
	Backend string // sql or bleve
}

// ListingConfig holds assignment listing limits.
type ListingConfig struct {
	MaxPageSize int
}

// ReviewConfig holds review submission limits, applied per owner.
type ReviewConfig struct {
	RatePerMinute int
	RateBurst     int
}

// LoadConfig loads configuration from the process arguments and environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("catalog-server", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := fs.String("data-path", "", "Directory for the database, search index and auth key")

	accessTokenDuration := fs.String("access-token-duration", "", "Access token lifetime (e.g., 15m)")

	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-allowed-origins", "", "Comma-separated allowed CORS origins (default: any)")

	searchBackend := fs.String("search-backend", "", "Search resolver: sql or bleve (default: sql)")
	maxPageSize := fs.String("listing-max-page-size", "", "Maximum assignments per page (default: 100)")
	reviewRate := fs.String("review-rate-per-minute", "", "Review submissions per owner per minute (default: 30)")
	reviewBurst := fs.String("review-rate-burst", "", "Review submission burst per owner (default: 10)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Storage: StorageConfig{
			DataPath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Server: ServerConfig{
			Port:               getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			CORSAllowedOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ALLOWED_ORIGINS", "")),
		},
		Search: SearchConfig{
			Backend: strings.ToLower(getConfigValue(*searchBackend, "SEARCH_BACKEND", SearchBackendSQL)),
		},
	}

	var err error
	if cfg.Listing.MaxPageSize, err = getIntConfigValue(*maxPageSize, "LISTING_MAX_PAGE_SIZE", 100); err != nil {
		return nil, err
	}
	if cfg.Reviews.RatePerMinute, err = getIntConfigValue(*reviewRate, "REVIEW_RATE_PER_MINUTE", 30); err != nil {
		return nil, err
	}
	if cfg.Reviews.RateBurst, err = getIntConfigValue(*reviewBurst, "REVIEW_RATE_BURST", 10); err != nil {
		return nil, err
	}

	if cfg.Auth.AccessTokenDuration, err = getDurationConfigValue(*accessTokenDuration, "ACCESS_TOKEN_DURATION", "15m"); err != nil {
		return nil, err
	}
	if cfg.Server.ReadTimeout, err = getDurationConfigValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.WriteTimeout, err = getDurationConfigValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.IdleTimeout, err = getDurationConfigValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, err
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Storage.DataPath == "" {
		return errors.New("data path cannot be empty after expansion")
	}

	if port, err := strconv.Atoi(c.Server.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid server port: %s", c.Server.Port)
	}

	switch c.Search.Backend {
	case SearchBackendSQL, SearchBackendBleve:
	default:
		return fmt.Errorf("invalid search backend: %s (must be sql or bleve)", c.Search.Backend)
	}

	if c.Listing.MaxPageSize < 1 {
		return fmt.Errorf("listing max page size must be positive, got %d", c.Listing.MaxPageSize)
	}
	if c.Reviews.RatePerMinute < 1 || c.Reviews.RateBurst < 1 {
		return fmt.Errorf("review rate limits must be positive, got %d/min burst %d", c.Reviews.RatePerMinute, c.Reviews.RateBurst)
	}

	if c.Auth.AccessTokenDuration <= 0 {
		return fmt.Errorf("access token duration must be positive, got %s", c.Auth.AccessTokenDuration)
	}

	// Auth key is set by auth.LoadOrGenerateKey at startup.

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath defaults the data path to ~/CatalogServer/data.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "CatalogServer", "data")

	expanded, err := expandPath(c.Storage.DataPath, defaultPath)
	if err != nil {
		return err
	}
	c.Storage.DataPath = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) (int, error) {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue, nil
	}
	result, err := strconv.Atoi(strings.TrimSpace(strValue))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, strValue, err)
	}
	return result, nil
}

func getDurationConfigValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	strValue := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(strValue)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, strValue, err)
	}
	return d, nil
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Real environment variables win over the file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
