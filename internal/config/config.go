package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration for the exchange service.
type Config struct {
	Port             int
	LogLevel         string
	FeeAccount       string
	FeePercent       int
	JournalPath      string
	CustodianURL     string
	CustodianTimeout time.Duration
	WebhookTimeout   time.Duration
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	ShutdownTimeout  time.Duration
}

// Load reads configuration from environment variables, applies defaults,
// and validates values. It returns an error for any invalid value.
func Load() (*Config, error) {
	port, err := getInt("PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	logLevel := getStr("LOG_LEVEL", "info")
	if !isValidLogLevel(logLevel) {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", logLevel)
	}

	feeAccount := getStr("FEE_ACCOUNT", "treasury")

	feePercent, err := getInt("FEE_PERCENT", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid FEE_PERCENT: %w", err)
	}
	if feePercent < 0 || feePercent > 100 {
		return nil, fmt.Errorf("invalid FEE_PERCENT: %d, must be between 0 and 100", feePercent)
	}

	journalPath := getStr("JOURNAL_PATH", "data/journal")

	// Empty means no external custodian; transfers are approved locally.
	custodianURL := getStr("CUSTODIAN_URL", "")

	custodianTimeout, err := getDuration("CUSTODIAN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid CUSTODIAN_TIMEOUT: %w", err)
	}

	webhookTimeout, err := getDuration("WEBHOOK_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid WEBHOOK_TIMEOUT: %w", err)
	}

	readTimeout, err := getDuration("READ_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := getDuration("WRITE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid WRITE_TIMEOUT: %w", err)
	}

	idleTimeout, err := getDuration("IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid IDLE_TIMEOUT: %w", err)
	}

	shutdownTimeout, err := getDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	return &Config{
		Port:             port,
		LogLevel:         logLevel,
		FeeAccount:       feeAccount,
		FeePercent:       feePercent,
		JournalPath:      journalPath,
		CustodianURL:     custodianURL,
		CustodianTimeout: custodianTimeout,
		WebhookTimeout:   webhookTimeout,
		ReadTimeout:      readTimeout,
		WriteTimeout:     writeTimeout,
		IdleTimeout:      idleTimeout,
		ShutdownTimeout:  shutdownTimeout,
	}, nil
}

func getStr(key, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(v)
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(v)
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
