package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/k1LoW/duration"
)

var (
	sizeRegexp  = regexp.MustCompile(`^\d+(B|KB|MB|GB|TB|PB)$`)
	colorRegexp = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)
)

// validateSize validates the size format (e.g., "10MB", "1GB")
func validateSize(fl validator.FieldLevel) bool {
	return sizeRegexp.MatchString(strings.ToUpper(fl.Field().String()))
}

// validateDuration validates human durations such as "180 days" or "6months"
func validateDuration(fl validator.FieldLevel) bool {
	d, err := duration.Parse(fl.Field().String())
	return err == nil && d > 0
}

// validateColorCode checks if the field contains a valid hex color code.
func validateColorCode(fl validator.FieldLevel) bool {
	return colorRegexp.MatchString(fl.Field().String())
}

// validateDirPath accepts a path that either does not exist yet or is a directory.
// The "dirpath" validator shipped with go-playground/validator rejects some
// valid Windows paths such as "C:\Users\name\.dir\", hence this one.
func validateDirPath(fl validator.FieldLevel) bool {
	path := strings.TrimSpace(fl.Field().String())
	if path == "" {
		return false
	}

	fi, err := os.Stat(filepath.Clean(path))
	switch {
	case err == nil:
		return fi.IsDir()
	case os.IsNotExist(err):
		return true
	default:
		return false
	}
}

// Deprecation contains metadata about field deprecation
type Deprecation struct {
	DeprecatedAt time.Time
	RemovalDate  time.Time
	Alternative  string
	StrictMode   bool
}

var deprecatedFields = map[string]Deprecation{
	"threshold_days": {
		DeprecatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		RemovalDate:  time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC),
		Alternative:  "scan.unused_after",
		StrictMode:   false,
	},
}

// validateDeprecated warns about (or rejects, in strict mode) deprecated fields
func validateDeprecated(fl validator.FieldLevel) bool {
	if fl.Field().IsZero() {
		return true
	}

	name := fl.FieldName()
	info, exists := deprecatedFields[name]
	if !exists {
		printDeprecated(name, nil)
		return true
	}

	printDeprecated(name, &info)
	return !info.StrictMode
}
