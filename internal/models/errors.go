package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidProxyDescriptor = errors.New("invalid proxy descriptor")
	ErrNotEnoughArguments     = errors.New("not enough arguments")
	ErrIncompleteAccount      = errors.New("incomplete account triple")
)

// ConfigError marks a configuration problem. These are fatal and never retried.
type ConfigError struct {
	Field string
	Err   error
}

func NewConfigError(field string, err error) *ConfigError {
	return &ConfigError{Field: field, Err: err}
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("configuration error: %s", e.Err)
	}
	return fmt.Sprintf("configuration error in %s: %s", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}
