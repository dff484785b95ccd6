package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// RequireEnv returns the value of the named environment variable or an
// error when it is unset or empty.
func RequireEnv(name string) (string, error) {
	v := os.Getenv(name)
	if v == "" {
		return "", fmt.Errorf("missing env var: %s", name)
	}
	return v, nil
}

// APIKey resolves the provider's API key from the environment. Providers
// that do not declare apiKeyEnv need no key and get "".
func (p ProviderConfig) APIKey() (string, error) {
	if p.APIKeyEnv == "" {
		return "", nil
	}
	return RequireEnv(p.APIKeyEnv)
}

// LoadDotEnv loads variables from a .env file without overriding ones
// already set. A missing file is ignored.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}
