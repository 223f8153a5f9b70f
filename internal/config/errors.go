// Package config loads, derives and persists the project settings file
// (.wprelease.json). File values are shallow-merged over compiled defaults;
// a missing file is derived by inspecting the plugin directory.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wpforge/wprelease/internal/defs"
)

// Sentinel errors for configuration operations.
var (
	// ErrMissingConfig indicates required project identity fields are absent
	// and prompting was not allowed.
	ErrMissingConfig = errors.New("config: missing required project settings")

	// ErrInvalidConfig indicates the configuration is invalid.
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrInvalidJSON indicates the settings file is not valid JSON.
	ErrInvalidJSON = errors.New("config: invalid JSON syntax")

	// ErrNotInitialized indicates the Manager has not been initialized via Load().
	ErrNotInitialized = errors.New("config: manager not initialized, call Load() first")
)

// MissingFieldsError lists the required fields that could not be resolved.
type MissingFieldsError struct {
	Fields []string
}

// Error implements the error interface.
func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("%s: %s (run 'wprelease init' or edit .wprelease.json)",
		ErrMissingConfig.Error(), strings.Join(e.Fields, ", "))
}

// Unwrap returns ErrMissingConfig.
func (e *MissingFieldsError) Unwrap() error {
	return ErrMissingConfig
}

// ValidationError reports one bad field of .wprelease.json.
type ValidationError struct {
	Field   string
	Message string
	Value   any
	Wrapped error
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("%s: %s %s (got %v)", defs.SettingsJSON, e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s %s", defs.SettingsJSON, e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Wrapped
}

// ValidationErrors collects every bad field so init and release can
// report them in one message.
type ValidationErrors struct {
	Errors []ValidationError
}

func (e *ValidationErrors) Error() string {
	switch len(e.Errors) {
	case 0:
		return ErrInvalidConfig.Error()
	case 1:
		return e.Errors[0].Error()
	}
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d invalid settings: %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Is matches ErrInvalidConfig and any wrapped field error.
func (e *ValidationErrors) Is(target error) bool {
	if target == ErrInvalidConfig {
		return true
	}
	for _, ve := range e.Errors {
		if ve.Wrapped != nil && errors.Is(ve.Wrapped, target) {
			return true
		}
	}
	return false
}
