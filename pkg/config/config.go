package config

import (
	"os"
	"strconv"
	"time"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Prefix string
}

// JWTConfig holds JWT configuration for the admin session
type JWTConfig struct {
	SigningKey      string
	ExpirationHours int
}

// GitHubConfig holds the content-store coordinates. Token, Owner and Repo
// are required for the push path and the order intake endpoint; when any is
// missing those paths report "not configured" instead of failing at startup.
type GitHubConfig struct {
	Token    string
	Owner    string
	Repo     string
	Branch   string
	DataPath string
}

// Configured reports whether all required content-store settings are present.
func (c *GitHubConfig) Configured() bool {
	return c.Token != "" && c.Owner != "" && c.Repo != ""
}

// SyncConfig holds remote sync settings. DataURL is the published snapshot
// URL the pull path fetches; empty disables pulling.
type SyncConfig struct {
	DataURL      string
	Interval     time.Duration
	PushAttempts int
}

// EmailConfig holds the order notification settings. Either field empty
// disables e-mail.
type EmailConfig struct {
	APIKey     string
	AdminEmail string
}

// StoreConfig holds the local data store settings
type StoreConfig struct {
	Dir string
}

// Config holds all configuration
type Config struct {
	ServiceName string
	Server      ServerConfig
	Log         LogConfig
	Metrics     MetricsConfig
	JWT         JWTConfig
	GitHub      GitHubConfig
	Sync        SyncConfig
	Email       EmailConfig
	Store       StoreConfig
	DebugOrders bool
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	config := &Config{
		ServiceName: serviceName,
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("APP_ENV", "development"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Prefix: getEnv("METRICS_PREFIX", serviceName),
		},
		JWT: JWTConfig{
			SigningKey:      getEnv("JWT_SIGNING_KEY", "defaultsecretkey"),
			ExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		},
		GitHub: GitHubConfig{
			Token:    getEnv("GITHUB_TOKEN", ""),
			Owner:    getEnv("GITHUB_OWNER", ""),
			Repo:     getEnv("GITHUB_REPO", ""),
			Branch:   getEnv("GITHUB_BRANCH", "main"),
			DataPath: getEnv("STORE_DATA_PATH", "data/store-data.json"),
		},
		Sync: SyncConfig{
			DataURL:      getEnv("STORE_DATA_URL", ""),
			Interval:     getEnvAsDuration("SYNC_INTERVAL", 45*time.Second),
			PushAttempts: getEnvAsInt("SYNC_PUSH_ATTEMPTS", 3),
		},
		Email: EmailConfig{
			APIKey:     getEnv("RESEND_API_KEY", ""),
			AdminEmail: getEnv("ADMIN_EMAIL", ""),
		},
		Store: StoreConfig{
			Dir: getEnv("STORE_DATA_DIR", "data"),
		},
		DebugOrders: getEnvAsBool("DEBUG_ORDERS", false),
	}

	if config.GitHub.Branch == "" {
		config.GitHub.Branch = "main"
	}

	return config, nil
}

// Helper function to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as integers
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as durations
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as booleans
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "1" || valueStr == "true" {
		return true
	}
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
