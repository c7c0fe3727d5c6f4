package config

import (
	"errors"
	"io/fs"
	"os"

	pkglogger "github.com/ideafund/ideafund-backend/pkg/logger"
	"github.com/joho/godotenv"
)

// dotEnvFiles lists env files from highest to lowest precedence
func dotEnvFiles() []string {
	files := make([]string, 0, 3)
	if env := os.Getenv("APP_ENV"); env != "" && env != "local" {
		files = append(files, ".env."+env)
	}
	return append(files, ".env.local", ".env")
}

// LoadDotEnv fills unset environment variables from .env files in the
// working directory and returns the files it read.
// Variables already present in the process environment are never replaced.
func LoadDotEnv() []string {
	var loaded []string
	for _, name := range dotEnvFiles() {
		vars, err := godotenv.Read(name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			pkglogger.Warn("skipping %s: %v", name, err)
			continue
		}
		for k, v := range vars {
			if _, set := os.LookupEnv(k); !set {
				_ = os.Setenv(k, v)
			}
		}
		loaded = append(loaded, name)
	}
	return loaded
}
