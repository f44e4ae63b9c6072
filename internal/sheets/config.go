// Package sheets provides the Google Sheets source reader and sink writer.
package sheets

import (
	"fmt"
	"time"

	"github.com/ebarrena/consolida/internal/common"
)

// DefaultCredentialsPath is the fixed local key file used when no other
// authentication method is configured. Deployments drop the service
// account key there so the scheduler can run the binary with no flags
// and no environment.
const DefaultCredentialsPath = "credentials/credentials.json"

// Config holds the configuration shared by the reader and the writer.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string
	ServiceAccountJSON string
	SpreadsheetID      string
	OutputTab          string
	TimeZone           string
	BatchSize          int
	RetryAttempts      int
	RetryDelay         time.Duration
	EnableFormatting   bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		OutputTab:        "Consolidacion",
		TimeZone:         "Europe/Madrid",
		BatchSize:        1000,
		RetryAttempts:    3,
		RetryDelay:       time.Second,
		EnableFormatting: true,
	}
}

// Validate checks if the configuration is valid. The key file is not
// required to exist yet; a bad path surfaces when the client reads it.
func (c *Config) Validate() error {
	hasOAuth := c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
	authMethods := 0
	if hasOAuth {
		authMethods++
	}
	if c.ServiceAccountPath != "" {
		authMethods++
	}
	if c.ServiceAccountJSON != "" {
		authMethods++
	}

	if authMethods == 0 {
		return fmt.Errorf("%w: no authentication method configured", common.ErrMissingConfig)
	}
	if authMethods > 1 {
		return fmt.Errorf("%w: multiple authentication methods configured; use service account JSON, a key file, or OAuth2", common.ErrInvalidConfig)
	}

	if c.SpreadsheetID == "" {
		return fmt.Errorf("%w: spreadsheet ID is required", common.ErrMissingConfig)
	}

	if c.OutputTab == "" {
		return fmt.Errorf("%w: output tab name is required", common.ErrMissingConfig)
	}

	if c.TimeZone != "" {
		if _, err := time.LoadLocation(c.TimeZone); err != nil {
			return fmt.Errorf("%w: unknown time zone %q", common.ErrInvalidConfig, c.TimeZone)
		}
	}

	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size must be positive", common.ErrInvalidConfig)
	}

	if c.RetryAttempts < 0 {
		return fmt.Errorf("%w: retry attempts cannot be negative", common.ErrInvalidConfig)
	}

	if c.RetryDelay < 0 {
		return fmt.Errorf("%w: retry delay cannot be negative", common.ErrInvalidConfig)
	}

	return nil
}

// Location resolves TimeZone. Snapshot months are anchored to this
// location so the month boundary matches the business's calendar.
func (c *Config) Location() *time.Location {
	if c.TimeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
