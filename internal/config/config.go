package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"

	"fjacquet/bilanci/internal/logging"
)

var once sync.Once

// LoadEnv loads environment variables from a .env file in the current or
// parent directory, if one exists. It only runs once per process.
func LoadEnv(logger logging.Logger) {
	logger = logging.OrDefault(logger)
	once.Do(func() {
		envFile := ".env"
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			envFile = filepath.Join("..", ".env")
			if _, err := os.Stat(envFile); os.IsNotExist(err) {
				logger.Debug("No .env file found, using environment variables")
				return
			}
		}

		if err := godotenv.Load(envFile); err != nil {
			logger.WithError(err).Warn("Error loading .env file")
			return
		}
		logger.Debug("Loaded environment variables", logging.Field{Key: logging.FieldFile, Value: envFile})
	})
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
