// Package settings provides centralized runtime settings for yaml-runner.
// It handles environment variables, default values, and test-friendly resets.
package settings

import (
	"os"
	"strconv"
	"sync"
)

// Settings holds tunables that apply to every run of the tool.
type Settings struct {
	// Shell is the program used to interpret command lines.
	Shell string

	// Verbose echoes each resolved command line to stderr before running it.
	Verbose bool
}

// Default values
const (
	DefaultShell = "sh"
)

var (
	globalSettings *Settings
	settingsOnce   sync.Once
)

// Get returns the global settings, loading from environment if not already loaded.
func Get() *Settings {
	settingsOnce.Do(func() {
		globalSettings = loadFromEnv()
	})
	return globalSettings
}

// Reset clears the global settings, forcing reload on next Get().
// This is primarily useful for testing.
func Reset() {
	settingsOnce = sync.Once{}
	globalSettings = nil
}

// loadFromEnv loads settings from environment variables.
func loadFromEnv() *Settings {
	return &Settings{
		Shell:   getEnv("YAML_RUNNER_SHELL", DefaultShell),
		Verbose: getEnvBool("YAML_RUNNER_VERBOSE", false),
	}
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
		// Also accept "1" as true
		if value == "1" {
			return true
		}
	}
	return defaultValue
}
