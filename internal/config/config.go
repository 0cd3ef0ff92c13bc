package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/cache"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/common"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/gmail"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/googleauth"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Defaults for file locations.
const (
	DefaultDatabasePath    = "$HOME/.local/share/finapp/finapp.db"
	DefaultGmailTokenFile  = "$HOME/.config/finapp/gmail_token.json"
	DefaultSheetsTokenFile = "$HOME/.config/finapp/sheets_token.json"
	DefaultDotEnvFile      = ".env"
)

// Shared OAuth client credentials, used when no service-specific value is set.
const (
	EnvClientID     = "GOOGLE_CLIENT_ID"
	EnvClientSecret = "GOOGLE_CLIENT_SECRET"
)

// LoadDotEnv loads variables from the given .env files (DefaultDotEnvFile when
// none are given) without overriding the existing environment. Missing files
// are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{DefaultDotEnvFile}
	}

	for _, file := range files {
		if err := godotenv.Load(ExpandPath(file)); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return nil
}

// SetDefaults registers default values for every key the application reads.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("gmail.token_file", DefaultGmailTokenFile)
	v.SetDefault("gmail.allowed_senders", gmail.DefaultAllowedSenders)
	v.SetDefault("gmail.max_results", gmail.DefaultMaxResults)
	v.SetDefault("gmail.concurrency", gmail.DefaultConcurrency)
	v.SetDefault("gmail.callback_addr", googleauth.DefaultCallbackAddr)
	v.SetDefault("cache.ttl", cache.DefaultTTL)
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", common.LogFormatConsole)
}

// GmailConfig holds everything needed to query Gmail.
type GmailConfig struct {
	OAuth          googleauth.Config
	AllowedSenders []string
	MaxResults     int64
	Concurrency    int
}

// LoadGmailConfig reads the gmail.* keys. Client credentials fall back to
// GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET.
func LoadGmailConfig(v *viper.Viper) (*GmailConfig, error) {
	cfg := &GmailConfig{
		OAuth: googleauth.Config{
			ClientID:     firstNonEmpty(v.GetString("gmail.client_id"), os.Getenv(EnvClientID)),
			ClientSecret: firstNonEmpty(v.GetString("gmail.client_secret"), os.Getenv(EnvClientSecret)),
			TokenFile:    ExpandPath(firstNonEmpty(v.GetString("gmail.token_file"), DefaultGmailTokenFile)),
			CallbackAddr: v.GetString("gmail.callback_addr"),
			Scopes:       []string{gmail.ReadonlyScope},
		},
		AllowedSenders: v.GetStringSlice("gmail.allowed_senders"),
		MaxResults:     v.GetInt64("gmail.max_results"),
		Concurrency:    v.GetInt("gmail.concurrency"),
	}

	if len(cfg.AllowedSenders) == 0 {
		cfg.AllowedSenders = gmail.DefaultAllowedSenders
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = gmail.DefaultMaxResults
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = gmail.DefaultConcurrency
	}

	if err := cfg.OAuth.Validate(); err != nil {
		return nil, fmt.Errorf("gmail: %w", err)
	}
	return cfg, nil
}

// CacheTTL returns cache.ttl, or cache.DefaultTTL when unset or not positive.
func CacheTTL(v *viper.Viper) time.Duration {
	if ttl := v.GetDuration("cache.ttl"); ttl > 0 {
		return ttl
	}
	return cache.DefaultTTL
}

// DatabasePath returns the expanded database.path.
func DatabasePath(v *viper.Viper) string {
	return ExpandPath(firstNonEmpty(v.GetString("database.path"), DefaultDatabasePath))
}

func firstNonEmpty(values ...string) string {
	for _, s := range values {
		if s != "" {
			return s
		}
	}
	return ""
}
