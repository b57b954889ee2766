package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFile loads the first readable .env file from the working directory.
// Variables already set in the process environment are not overwritten.
func loadEnvFile() error {
	var lastErr error
	for _, name := range envFiles {
		if _, err := os.Stat(name); err != nil {
			lastErr = err
			continue
		}
		if err := godotenv.Load(name); err != nil {
			lastErr = err
			continue
		}
		slog.Debug("Loaded environment variables", "file", name)
		return nil
	}
	return lastErr
}
