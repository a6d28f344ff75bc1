package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server   ServerConfig
	WhatsApp WhatsAppConfig
	MongoDB  MongoDBConfig
	Sheets   SheetsConfig
	Digest   DigestConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// WhatsAppConfig contains credentials and options for the Meta WhatsApp Cloud API.
type WhatsAppConfig struct {
	AccessToken       string
	PhoneNumberID     string
	VerifyToken       string
	AppSecret         string
	BaseURL           string
	APIVersion        string
	BusinessAccountID string
}

// MongoDBConfig holds settings for the MongoDB message log.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SheetsConfig contains configuration required to export digests to Google
// Sheets. Both fields are optional; the export is disabled when they are
// empty.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether the Google Sheets export is configured.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

// DigestConfig holds scheduler-related settings for the daily traffic digest.
type DigestConfig struct {
	CronSchedule string
	Timezone     string
	AdminWaID    string
}

// LogConfig holds logging options.
type LogConfig struct {
	Level string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:       os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID:     os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			VerifyToken:       os.Getenv("META_VERIFY_TOKEN"),
			AppSecret:         os.Getenv("WHATSAPP_APP_SECRET"),
			BaseURL:           getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:        getenvWithDefault("WHATSAPP_API_VERSION", "v18.0"),
			BusinessAccountID: os.Getenv("WHATSAPP_BUSINESS_ACCOUNT_ID"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "pygwan"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DIGEST_ID"),
		},
		Digest: DigestConfig{
			CronSchedule: getenvWithDefault("DIGEST_CRON_SCHEDULE", "0 7 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "Africa/Harare"),
			AdminWaID:    os.Getenv("DIGEST_ADMIN_WA_ID"),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.WhatsApp.AccessToken == "":
		return errors.New("WHATSAPP_TOKEN must be provided")
	case c.WhatsApp.PhoneNumberID == "":
		return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided")
	case c.WhatsApp.VerifyToken == "":
		return errors.New("META_VERIFY_TOKEN must be provided")
	}

	if c.WhatsApp.BaseURL == "" {
		return errors.New("WHATSAPP_BASE_URL must not be empty")
	}

	if c.WhatsApp.APIVersion == "" {
		return errors.New("WHATSAPP_API_VERSION must not be empty")
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}

	if c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	// The sheets export is optional, but a half-configured one is a mistake.
	if c.Sheets.CredentialsPath != "" && c.Sheets.SpreadsheetID == "" {
		return errors.New("GOOGLE_SHEET_DIGEST_ID must be provided when GOOGLE_SHEETS_CREDENTIALS_PATH is set")
	}
	if c.Sheets.SpreadsheetID != "" && c.Sheets.CredentialsPath == "" {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided when GOOGLE_SHEET_DIGEST_ID is set")
	}

	if c.Digest.CronSchedule == "" {
		return errors.New("DIGEST_CRON_SCHEDULE must be provided")
	}

	if c.Digest.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	if c.Digest.AdminWaID == "" {
		return errors.New("DIGEST_ADMIN_WA_ID must be provided")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
