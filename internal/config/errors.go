package config

import (
	"errors"
	"strings"
)

// ErrConfigNotFound is returned when an explicitly named config file does
// not exist.
var ErrConfigNotFound = errors.New("config file not found")

// MissingKeysError lists every required key that has no value.
type MissingKeysError struct {
	Keys []string
}

func (e *MissingKeysError) Error() string {
	return "missing required configuration: " + strings.Join(e.Keys, ", ") +
		" (set them in askdb.yaml or as ASKDB_* environment variables)"
}
