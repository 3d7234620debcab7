package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

const (
	// ShippingLabelUS is the shipping abbreviation used for the en_US locale.
	ShippingLabelUS = "s/h"
	// ShippingLabelIntl is the abbreviation used for every other locale.
	ShippingLabelIntl = "p/p"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DatabaseURL        string
	RatesURL           string
	RatesRetryMax      int
	RatesRetryDelay    time.Duration
	RateStaleThreshold time.Duration
	RateWorkerInterval time.Duration
	BookWorkerInterval time.Duration
	HTTPPort           string
	AdminAPIKey        string
	Locale             string
	ShippingLabel      string
	EntriesFile        string
	EntriesSheet       string
	SpreadsheetID      string
	SpreadsheetRange   string
	GoogleCredentials  string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	locale := envOrDefault("BIDSUM_LOCALE", "en_US")
	return Config{
		DatabaseURL:        envOrDefaultWarn("DATABASE_URL", ""),
		RatesURL:           envOrDefault("RATES_URL", "https://open.er-api.com/v6"),
		RatesRetryMax:      envOrDefaultInt("RATES_RETRY_MAX", 3),
		RatesRetryDelay:    envOrDefaultDuration("RATES_RETRY_DELAY", 5*time.Second),
		RateStaleThreshold: envOrDefaultDuration("RATE_STALE_THRESHOLD", 48*time.Hour),
		RateWorkerInterval: envOrDefaultDuration("RATE_WORKER_INTERVAL", 12*time.Hour),
		BookWorkerInterval: envOrDefaultDuration("BOOK_WORKER_INTERVAL", 1*time.Minute),
		HTTPPort:           envOrDefault("HTTP_PORT", "8080"),
		AdminAPIKey:        envOrDefault("ADMIN_API_KEY", ""),
		Locale:             locale,
		ShippingLabel:      envOrDefault("SHIPPING_LABEL", ShippingLabelFor(locale)),
		EntriesFile:        envOrDefault("ENTRIES_FILE", ""),
		EntriesSheet:       envOrDefault("ENTRIES_SHEET", ""),
		SpreadsheetID:      envOrDefault("GOOGLE_SPREADSHEET_ID", ""),
		SpreadsheetRange:   envOrDefault("GOOGLE_SPREADSHEET_RANGE", ""),
		GoogleCredentials:  envOrDefault("GOOGLE_CREDENTIALS_JSON", ""),
	}
}

// ShippingLabelFor returns "s/h" for the US English locale and "p/p" otherwise.
// Accepts POSIX ("en_US.UTF-8") and BCP 47 ("en-US") spellings; the region must be explicit.
func ShippingLabelFor(locale string) string {
	name, _, _ := strings.Cut(locale, ".")
	name, _, _ = strings.Cut(name, "@")
	tag, err := language.Parse(name)
	if err != nil {
		return ShippingLabelIntl
	}
	if isAmericanEnglish(tag) {
		return ShippingLabelUS
	}
	return ShippingLabelIntl
}

func isAmericanEnglish(tag language.Tag) bool {
	usBase, _ := language.AmericanEnglish.Base()
	usRegion, _ := language.AmericanEnglish.Region()

	base, _ := tag.Base()
	region, conf := tag.Region()
	return base == usBase && region == usRegion && conf == language.Exact
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultWarn(key, defaultVal string) string {
	v := envOrDefault(key, defaultVal)
	if v == "" {
		slog.Warn("env var not set", "key", key)
	}
	return v
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return n
	}
	return defaultVal
}

func envOrDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}
