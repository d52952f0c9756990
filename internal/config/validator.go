package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/distribution/reference"
	"github.com/google/shlex"

	"github.com/schmitthub/relpub/internal/logger"
)

// Validator validates a Config for correctness
type Validator struct {
	errors   []error
	warnings []string
}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{
		errors:   []error{},
		warnings: []string{},
	}
}

// Validate checks the configuration for errors and returns all found issues
func (v *Validator) Validate(cfg *Config) error {
	v.errors = []error{}
	v.warnings = []string{}

	v.validateRegistry(cfg)
	v.validateServices(cfg)
	v.validateStore(cfg)
	v.validateLogging(cfg)

	if len(v.errors) > 0 {
		return &MultiValidationError{Errors: v.errors}
	}
	return nil
}

func (v *Validator) addError(field, message string, value interface{}) {
	v.errors = append(v.errors, &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	})
}

func (v *Validator) addWarning(field, message string) {
	warning := fmt.Sprintf("%s: %s", field, message)
	v.warnings = append(v.warnings, warning)
	logger.Warn().
		Str("field", field).
		Msg(message)
}

// Warnings returns the list of validation warnings
func (v *Validator) Warnings() []string {
	return v.warnings
}

func (v *Validator) validateRegistry(cfg *Config) {
	if cfg.Registry.LocalNamespace != "" {
		v.validateNamespace("registry.local_namespace", cfg.Registry.LocalNamespace)
	} else {
		v.addWarning("registry.local_namespace", "is empty; local images are referenced by bare service name")
	}

	if cfg.Registry.RemoteNamespace == "" {
		v.addError("registry.remote_namespace", "is required", nil)
		return
	}
	v.validateNamespace("registry.remote_namespace", cfg.Registry.RemoteNamespace)
}

// validateNamespace checks ns can prefix an image name. A placeholder
// repository component is appended so "docker.io/org" and "localhost:5000"
// both parse.
func (v *Validator) validateNamespace(field, ns string) {
	candidate := strings.TrimSuffix(ns, "/") + "/image"
	if _, err := reference.ParseNormalizedNamed(candidate); err != nil {
		v.addError(field, "must be a valid repository namespace", ns)
	}
}

func (v *Validator) validateServices(cfg *Config) {
	if len(cfg.Services) == 0 {
		v.addError("services", "at least one service is required", nil)
		return
	}

	seen := make(map[string]bool, len(cfg.Services))
	for i, svc := range cfg.Services {
		field := fmt.Sprintf("services[%d]", i)
		if svc == "" {
			v.addError(field, "is empty", nil)
			continue
		}
		if seen[svc] {
			v.addError(field, "duplicate service", svc)
			continue
		}
		seen[svc] = true

		// Both variants must be valid path components.
		for _, name := range []string{svc, svc + "_debug"} {
			if !reference.ReferenceRegexp.MatchString(name) || strings.Contains(name, "/") || strings.Contains(name, ":") {
				v.addError(field, "must be a valid image name component", svc)
				break
			}
		}
	}
}

func (v *Validator) validateStore(cfg *Config) {
	if !slices.Contains(Backends, cfg.Store.Backend) {
		v.addError("store.backend", fmt.Sprintf("must be one of %s", strings.Join(Backends, ", ")), cfg.Store.Backend)
		return
	}
	if cfg.Store.Backend != BackendCLI {
		return
	}

	argv, err := shlex.Split(cfg.Store.Command)
	if err != nil {
		v.addError("store.command", "cannot be parsed: "+err.Error(), cfg.Store.Command)
		return
	}
	if len(argv) == 0 {
		v.addError("store.command", "is required for the cli backend", nil)
	}
}

func (v *Validator) validateLogging(cfg *Config) {
	if cfg.Logging.MaxSizeMB < 0 {
		v.addError("logging.max_size_mb", "must not be negative", cfg.Logging.MaxSizeMB)
	}
	if cfg.Logging.MaxAgeDays < 0 {
		v.addError("logging.max_age_days", "must not be negative", cfg.Logging.MaxAgeDays)
	}
	if cfg.Logging.MaxBackups < 0 {
		v.addError("logging.max_backups", "must not be negative", cfg.Logging.MaxBackups)
	}
}

// ValidationError represents a single configuration problem
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// MultiValidationError holds multiple validation errors
type MultiValidationError struct {
	Errors []error
}

func (e *MultiValidationError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("found %d configuration errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidationErrors returns the individual errors
func (e *MultiValidationError) ValidationErrors() []error {
	return e.Errors
}
