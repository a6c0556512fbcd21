// Package config holds CLI-side settings: where the API lives and where the
// session token is cached between invocations.
package config

import (
	"os"
	"path/filepath"
)

const defaultAPIURL = "http://localhost:8080"

const tokenFileName = ".taskdeck_token"

// APIURL returns the base URL for the Taskdeck API.
// It can be overridden with the TASKDECK_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("TASKDECK_API_URL"); v != "" {
		return v
	}
	return defaultAPIURL
}

// SaveToken stores the session token in the user's home directory.
func SaveToken(token string) error {
	return os.WriteFile(tokenPath(), []byte(token), 0600)
}

// LoadToken reads the cached session token; an error means "not logged in".
func LoadToken() (string, error) {
	data, err := os.ReadFile(tokenPath())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ClearToken removes the cached token. Missing file is not an error.
func ClearToken() error {
	err := os.Remove(tokenPath())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func tokenPath() string {
	dir, _ := os.UserHomeDir()
	return filepath.Join(dir, tokenFileName)
}
