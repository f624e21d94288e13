package env

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

const EnvLocal = "local"

// LoadDotEnv loads environment variables from a .env file.
// ENV_PATH overrides defaultPath. A missing file is an error only when env is "local";
// variables already set in the process are never overwritten.
func LoadDotEnv(env string, defaultPath string) error {
	envPath := os.Getenv("ENV_PATH")
	if envPath == "" {
		slog.Debug("ENV_PATH is not set, using default path", "defaultPath", defaultPath)
		envPath = defaultPath
	}

	if err := godotenv.Load(envPath); err != nil {
		if env == EnvLocal {
			return fmt.Errorf("failed to load %s: %w", envPath, err)
		}
		slog.Debug("Skipping .env", "path", envPath, "error", err)
	}

	return nil
}
