package config

import (
	"os"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/sheets"
	"github.com/spf13/viper"
)

// LoadSheetsConfig loads Google Sheets configuration. It follows this
// precedence:
// 1. viper configuration (config file or FINAPP_ env vars)
// 2. direct environment variables (GOOGLE_SHEETS_*)
// 3. the shared Google client credentials, for OAuth only
// 4. default values
func LoadSheetsConfig(v *viper.Viper) (*sheets.Config, error) {
	config := sheets.DefaultConfig()

	config.ServiceAccountPath = ExpandPath(firstNonEmpty(
		v.GetString("sheets.service_account_path"),
		os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH")))
	config.SpreadsheetID = firstNonEmpty(
		v.GetString("sheets.spreadsheet_id"),
		os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID"))
	config.SpreadsheetName = firstNonEmpty(
		v.GetString("sheets.spreadsheet_name"),
		os.Getenv("GOOGLE_SHEETS_SPREADSHEET_NAME"),
		config.SpreadsheetName)
	config.TimeZone = firstNonEmpty(v.GetString("sheets.time_zone"), config.TimeZone)

	config.ClientID = firstNonEmpty(v.GetString("sheets.client_id"), os.Getenv("GOOGLE_SHEETS_CLIENT_ID"))
	config.ClientSecret = firstNonEmpty(v.GetString("sheets.client_secret"), os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET"))
	config.TokenFile = ExpandPath(v.GetString("sheets.token_file"))

	if config.ServiceAccountPath == "" {
		config.ClientID = firstNonEmpty(config.ClientID, v.GetString("gmail.client_id"), os.Getenv(EnvClientID))
		config.ClientSecret = firstNonEmpty(config.ClientSecret, v.GetString("gmail.client_secret"), os.Getenv(EnvClientSecret))
		config.TokenFile = firstNonEmpty(config.TokenFile, ExpandPath(DefaultSheetsTokenFile))
	}

	if v.IsSet("sheets.batch_size") {
		config.BatchSize = v.GetInt("sheets.batch_size")
	}
	if v.IsSet("sheets.retry_attempts") {
		config.RetryAttempts = v.GetInt("sheets.retry_attempts")
	}
	if v.IsSet("sheets.retry_delay") {
		config.RetryDelay = v.GetDuration("sheets.retry_delay")
	}
	if v.IsSet("sheets.enable_formatting") {
		config.EnableFormatting = v.GetBool("sheets.enable_formatting")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
