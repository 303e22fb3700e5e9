// Package config provides environment-based configuration helpers
// for classlens commands.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/classlens/go-classlens/internal/log"
)

// LoadDotenv loads a .env file from the working directory if present.
// Missing files are not an error; a malformed file is logged and skipped.
func LoadDotenv() {
	if _, err := os.Stat(".env"); err != nil {
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Warn("failed to load .env", "error", err)
	}
}

// String returns the value of the named env var, or def if unset.
func String(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

// Int returns the named env var parsed as an int, or def if unset
// or unparseable.
func Int(name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn("invalid int env var, using default", "name", name, "value", v)
		return def
	}
	return n
}

// Float returns the named env var parsed as a float64, or def if
// unset or unparseable.
func Float(name string, def float64) float64 {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Warn("invalid float env var, using default", "name", name, "value", v)
		return def
	}
	return f
}

// Duration returns the named env var parsed with time.ParseDuration,
// or def if unset or unparseable.
func Duration(name string, def time.Duration) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warn("invalid duration env var, using default", "name", name, "value", v)
		return def
	}
	return d
}
