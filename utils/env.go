package utils

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// envLocations lists the .env files tried in order of preference
var envLocations = []string{
	".env",        // Current directory
	".env.local",  // Local override
	"config/.env", // Config directory
}

// LoadEnv loads environment variables from a .env file. Variables that are
// already set in the process environment keep their value. A missing file is
// not an error.
func LoadEnv(filename string) (bool, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return false, nil
	}

	if err := godotenv.Load(filename); err != nil {
		return false, errors.Wrapf(err, "error loading %s", filename)
	}

	log.Debug().Str("file", filename).Msg("Loaded environment variables")
	return true, nil
}

// LoadEnvWithFallback loads the first .env file found in the standard locations
func LoadEnvWithFallback() error {
	for _, location := range envLocations {
		loaded, err := LoadEnv(location)
		if err != nil {
			log.Warn().Err(err).Str("file", location).Msg("Could not load env file")
			continue
		}
		if loaded {
			return nil
		}
	}

	log.Debug().Msg("No .env files found in standard locations, using system environment only")
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Int("default", fallback).Msg("Invalid integer, using default")
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Float64("default", fallback).Msg("Invalid number, using default")
		return fallback
	}
	return f
}
