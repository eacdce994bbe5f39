package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	API       APIConfig
	Login     LoginConfig
	Retry     RetryConfig
	Storage   StorageConfig
	Sync      SyncConfig
	Reminders RemindersConfig
	Firebase  FirebaseConfig
	Telemetry TelemetryConfig
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// LoginConfig carries optional credentials for headless login on startup.
// Left empty, the agent reuses whatever credential pair is already stored.
type LoginConfig struct {
	Username string
	Password string
}

type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
}

type StorageConfig struct {
	Path       string
	Passphrase string
}

type SyncConfig struct {
	Collections  []string
	RunOnStartup bool
}

type RemindersConfig struct {
	Enabled     bool
	WorkerCount int
	JobDelay    time.Duration
	QueueSize   int
}

type FirebaseConfig struct {
	CredentialsFile string
	MessagesFile    string
	DeviceTokens    []string
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	OTLPEndpoint string
	MetricsPort  string
}

func Load() (*Config, error) {

	apiTimeout, err := time.ParseDuration(getEnv("SETU_API_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SETU_API_TIMEOUT: %w", err)
	}

	// Parse retry configuration. The delay is fixed per attempt, not
	// exponential: a predictable wait between retries of idempotent reads.
	retryAttempts, err := strconv.Atoi(getEnv("SETU_RETRY_ATTEMPTS", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid SETU_RETRY_ATTEMPTS: %w", err)
	}
	retryDelay, err := time.ParseDuration(getEnv("SETU_RETRY_DELAY", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SETU_RETRY_DELAY: %w", err)
	}

	// Parse reminder delivery configuration
	remindersEnabled := getBoolEnv("REMINDERS_ENABLED", true)
	reminderWorkers, err := strconv.Atoi(getEnv("REMINDER_WORKERS", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid REMINDER_WORKERS: %w", err)
	}
	reminderJobDelay, err := time.ParseDuration(getEnv("REMINDER_JOB_DELAY", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REMINDER_JOB_DELAY: %w", err)
	}
	reminderQueueSize, err := strconv.Atoi(getEnv("REMINDER_QUEUE_SIZE", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid REMINDER_QUEUE_SIZE: %w", err)
	}

	// Parse sync collections (comma-separated list)
	var collections []string
	for _, c := range strings.Split(getEnv("SYNC_COLLECTIONS", "documents,prescriptions,medication-reminders,health-metrics"), ",") {
		c = strings.TrimSpace(c)
		if c != "" {
			collections = append(collections, c)
		}
	}

	// Parse device tokens for reminder pushes (comma-separated list)
	var deviceTokens []string
	for _, tok := range strings.Split(getEnv("FIREBASE_DEVICE_TOKENS", ""), ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			deviceTokens = append(deviceTokens, tok)
		}
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL: getEnv("SETU_API_BASE_URL", "https://sanjeeveni-setu-backend.onrender.com/api"),
			Timeout: apiTimeout,
		},
		Login: LoginConfig{
			Username: getEnv("SETU_USERNAME", ""),
			Password: getEnv("SETU_PASSWORD", ""),
		},
		Retry: RetryConfig{
			MaxAttempts: retryAttempts,
			Delay:       retryDelay,
		},
		Storage: StorageConfig{
			Path:       getEnv("SETU_CREDENTIALS_PATH", defaultCredentialsPath()),
			Passphrase: getEnv("SETU_STORAGE_PASSPHRASE", ""),
		},
		Sync: SyncConfig{
			Collections:  collections,
			RunOnStartup: getBoolEnv("SYNC_RUN_ON_STARTUP", true),
		},
		Reminders: RemindersConfig{
			Enabled:     remindersEnabled,
			WorkerCount: reminderWorkers,
			JobDelay:    reminderJobDelay,
			QueueSize:   reminderQueueSize,
		},
		Firebase: FirebaseConfig{
			CredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
			MessagesFile:    getEnv("SETU_MESSAGES_FILE", "messages.json"),
			DeviceTokens:    deviceTokens,
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBoolEnv("OTEL_ENABLED", false),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "setu-agent"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", ""),
			MetricsPort:  getEnv("OTEL_METRICS_PORT", "9464"),
		},
	}

	// Validate required fields
	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("SETU_API_BASE_URL is required")
	}
	if cfg.Storage.Passphrase == "" {
		return nil, fmt.Errorf("SETU_STORAGE_PASSPHRASE is required")
	}
	if cfg.Retry.MaxAttempts < 1 {
		return nil, fmt.Errorf("SETU_RETRY_ATTEMPTS must be at least 1")
	}

	return cfg, nil
}

func defaultCredentialsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "credentials.json"
	}
	return filepath.Join(home, ".setu", "credentials.json")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept: true, false, 1, 0, yes, no (case-insensitive)
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}
