package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Storage backend selectors
const (
	BackendClickHouse = "clickhouse"
	BackendFile       = "file"
	BackendMock       = "mock"
)

// Config holds the application configuration
type Config struct {
	TelegramToken string
	OwnerID       int64

	// Timezone is the fixed zone receipts are timestamped and bucketed in
	Timezone *time.Location

	// Bot mode configuration
	WebhookMode bool   // If true, use webhook mode; if false, use polling mode
	WebhookURL  string // URL for webhook (required if WebhookMode is true)

	// Storage backend: clickhouse, file or mock
	StorageBackend string

	// ClickHouse configuration
	ClickHouseHost     string
	ClickHousePort     int
	ClickHouseDatabase string
	ClickHouseUser     string
	ClickHousePassword string
	ClickHouseUseTLS   bool

	// Path of the JSON document for the file backend
	ReceiptsFile string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	config := &Config{}

	// Telegram Bot Token (required)
	config.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if config.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	// Owner ID (required)
	ownerIDStr := os.Getenv("OWNER_ID")
	if ownerIDStr == "" {
		return nil, fmt.Errorf("OWNER_ID is required (numeric Telegram user ID of the bot owner)")
	}
	ownerID, err := strconv.ParseInt(ownerIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid OWNER_ID: %s", ownerIDStr)
	}
	config.OwnerID = ownerID

	// Fixed timezone (default: UTC)
	tzName := os.Getenv("TIMEZONE")
	if tzName == "" {
		tzName = "UTC"
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	config.Timezone = loc

	// Bot mode configuration
	config.WebhookMode = os.Getenv("WEBHOOK_MODE") == "true"
	if config.WebhookMode {
		config.WebhookURL = os.Getenv("WEBHOOK_URL")
		if config.WebhookURL == "" {
			return nil, fmt.Errorf("WEBHOOK_URL is required when WEBHOOK_MODE is true")
		}
	}

	// Storage backend (default: clickhouse)
	config.StorageBackend = os.Getenv("STORAGE_BACKEND")
	if config.StorageBackend == "" {
		config.StorageBackend = BackendClickHouse
	}

	switch config.StorageBackend {
	case BackendMock:
		// Nothing to configure

	case BackendFile:
		config.ReceiptsFile = os.Getenv("RECEIPTS_FILE")
		if config.ReceiptsFile == "" {
			config.ReceiptsFile = "receipts.json"
		}

	case BackendClickHouse:
		config.ClickHouseHost = os.Getenv("CLICKHOUSE_HOST")
		if config.ClickHouseHost == "" {
			return nil, fmt.Errorf("CLICKHOUSE_HOST is required when STORAGE_BACKEND is clickhouse")
		}

		portStr := os.Getenv("CLICKHOUSE_PORT")
		if portStr == "" {
			config.ClickHousePort = 9000 // Default ClickHouse native port
		} else {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return nil, fmt.Errorf("invalid CLICKHOUSE_PORT: %w", err)
			}
			config.ClickHousePort = port
		}

		config.ClickHouseDatabase = os.Getenv("CLICKHOUSE_DATABASE")
		if config.ClickHouseDatabase == "" {
			config.ClickHouseDatabase = "default"
		}

		config.ClickHouseUser = os.Getenv("CLICKHOUSE_USER")
		if config.ClickHouseUser == "" {
			config.ClickHouseUser = "default"
		}

		config.ClickHousePassword = os.Getenv("CLICKHOUSE_PASSWORD")
		// Password is optional, can be empty

		config.ClickHouseUseTLS = os.Getenv("CLICKHOUSE_USE_TLS") == "true"

	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND: %s (expected clickhouse, file or mock)", config.StorageBackend)
	}

	return config, nil
}
