// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig holds all server-related settings
type ServerConfig struct {
	Port           int
	Host           string
	MetricsEnabled bool
}

// StorageConfig holds pin-snapshot and key-value storage settings.
// Type selects the backend: "file" (default), "mongo", or "none".
// "none" models platforms without a usable storage location: hydration is
// skipped entirely and the engine runs on seeded in-memory state.
type StorageConfig struct {
	Type          string
	DataDir       string
	MongoURI      string
	FlushDebounce time.Duration
}

// GeocodeConfig holds reverse-geocode settings
type GeocodeConfig struct {
	// Endpoint of the external reverse-geocode service. Empty disables
	// lookups; the cache then only serves entries persisted earlier.
	EndpointURL string
	// Maximum number of cached grid cells before oldest entries are evicted.
	CacheMax int
}

// Config holds the complete application configuration
type Config struct {
	Server         *ServerConfig
	Storage        *StorageConfig
	Geocode        *GeocodeConfig
	SessionSecret  string
	AllowedOrigins []string
	Debug          bool
}

// DefaultConfig provides default server settings
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Port:           8080,
		Host:           "0.0.0.0",
		MetricsEnabled: true,
	}
}

// DefaultStorageConfig provides default storage settings
func DefaultStorageConfig() *StorageConfig {
	return &StorageConfig{
		Type:          "file",
		DataDir:       defaultDataDir(),
		FlushDebounce: 400 * time.Millisecond,
	}
}

// DefaultGeocodeConfig provides default geocode settings
func DefaultGeocodeConfig() *GeocodeConfig {
	return &GeocodeConfig{
		CacheMax: 2048,
	}
}

// LoadConfig loads configuration from environment variables and applies defaults
func LoadConfig() (*Config, error) {
	// Try to load .env file from the usual locations; missing files are fine.
	envLocations := []string{
		".env",       // Current directory
		"../../.env", // Project root when running from cmd/engine
	}

	envLoaded := false
	for _, location := range envLocations {
		if err := godotenv.Load(location); err == nil {
			envLoaded = true
			break
		}
	}
	if !envLoaded {
		_ = godotenv.Load()
	}

	serverConfig := DefaultConfig()

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			serverConfig.Port = port
		}
	}
	if host := os.Getenv("HOST"); host != "" {
		serverConfig.Host = host
	}
	if metricsEnabled := os.Getenv("METRICS_ENABLED"); metricsEnabled != "" {
		serverConfig.MetricsEnabled = metricsEnabled == "true"
	}

	storageConfig := DefaultStorageConfig()

	if storageType := os.Getenv("STORAGE_TYPE"); storageType != "" {
		storageConfig.Type = storageType
	}
	switch storageConfig.Type {
	case "file":
		if dir := os.Getenv("DATA_DIR"); dir != "" {
			storageConfig.DataDir = dir
		}
	case "mongo":
		storageConfig.MongoURI = os.Getenv("MONGODB_URI")
		if storageConfig.MongoURI == "" {
			return nil, fmt.Errorf("MONGODB_URI environment variable is required when STORAGE_TYPE is mongo")
		}
	case "none":
		// In-memory only; nothing further to configure.
	default:
		return nil, fmt.Errorf("unsupported STORAGE_TYPE %q (want file, mongo, or none)", storageConfig.Type)
	}

	if debounceStr := os.Getenv("FLUSH_DEBOUNCE_MS"); debounceStr != "" {
		if ms, err := strconv.Atoi(debounceStr); err == nil && ms >= 0 {
			storageConfig.FlushDebounce = time.Duration(ms) * time.Millisecond
		}
	}

	geocodeConfig := DefaultGeocodeConfig()
	if url := os.Getenv("GEOCODER_URL"); url != "" {
		geocodeConfig.EndpointURL = url
	}
	if maxStr := os.Getenv("GEOCODE_CACHE_MAX"); maxStr != "" {
		if max, err := strconv.Atoi(maxStr); err == nil && max > 0 {
			geocodeConfig.CacheMax = max
		}
	}

	config := &Config{
		Server:         serverConfig,
		Storage:        storageConfig,
		Geocode:        geocodeConfig,
		SessionSecret:  getEnvOrDefault("SESSION_SECRET", "pindrop-dev-secret"),
		AllowedOrigins: []string{"*"}, // Default to allow all origins
		Debug:          false,
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		config.AllowedOrigins = strings.Split(origins, ",")
	}
	if debug := os.Getenv("DEBUG"); debug == "true" {
		config.Debug = true
	}

	return config, nil
}

// Helper function to get environment variable with default fallback
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// defaultDataDir picks a per-device location for persisted state, preferring
// the OS user config dir and falling back to the working directory.
func defaultDataDir() string {
	if base, err := os.UserConfigDir(); err == nil {
		return base + string(os.PathSeparator) + "pindrop"
	}
	return ".pindrop"
}
