package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"

	ferrors "github.com/anorak1709/research-usecase-generator/internal/foundation/errors"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads variables from .env and .env.local. Missing files are
// skipped and variables already present in the process environment win.
func loadEnvFiles() error {
	for _, path := range envFiles {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return ferrors.WrapError(err, ferrors.CategoryConfig, "failed to load env file").
				WithContext("path", path).Build()
		}
	}
	return nil
}
