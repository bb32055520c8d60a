// Package config loads server configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

// ErrMissingToken indicates no access token was configured.
var ErrMissingToken = errors.New("YNAB_ACCESS_TOKEN is not set")

// Config holds server configuration.
type Config struct {
	// AccessToken is the YNAB personal access token.
	// Env: YNAB_ACCESS_TOKEN (required)
	AccessToken string

	// BudgetID selects the budget to operate on. When empty, the first
	// budget on the account is used.
	// Env: YNAB_BUDGET_ID
	BudgetID string

	// LogDir is the directory for rotating log files. When empty, logs go
	// to stderr only.
	// Env: YNAB_MCP_LOG_DIR
	LogDir string

	// Debug enables debug-level logging.
	// Env: YNAB_MCP_DEBUG=1
	Debug bool
}

// Load reads configuration from environment variables, after loading a .env
// file if one exists in the working directory. A missing .env is not an
// error.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AccessToken: os.Getenv("YNAB_ACCESS_TOKEN"),
		BudgetID:    os.Getenv("YNAB_BUDGET_ID"),
		LogDir:      os.Getenv("YNAB_MCP_LOG_DIR"),
		Debug:       os.Getenv("YNAB_MCP_DEBUG") == "1",
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.AccessToken == "" {
		return ErrMissingToken
	}
	return nil
}
