package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sachi/sachi-go/internal/checkers"
	"github.com/sachi/sachi-go/internal/errors"
)

// ValidationResult holds validation results
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// AddError adds an error to the validation result
func (vr *ValidationResult) AddError(format string, args ...interface{}) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, fmt.Sprintf(format, args...))
}

// AddWarning adds a warning to the validation result
func (vr *ValidationResult) AddWarning(format string, args ...interface{}) {
	vr.Warnings = append(vr.Warnings, fmt.Sprintf(format, args...))
}

// HasErrors returns true if there are any errors
func (vr *ValidationResult) HasErrors() bool {
	return !vr.Valid || len(vr.Errors) > 0
}

// Error returns a formatted error message
func (vr *ValidationResult) Error() string {
	if !vr.HasErrors() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Configuration validation failed:\n")
	for _, err := range vr.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err))
	}

	if len(vr.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, warn := range vr.Warnings {
			sb.WriteString(fmt.Sprintf("  - %s\n", warn))
		}
	}

	return sb.String()
}

// Err returns the result as a configuration error, or nil when valid
func (vr *ValidationResult) Err() error {
	if !vr.HasErrors() {
		return nil
	}
	return errors.ConfigError(strings.TrimRight(vr.Error(), "\n"))
}

// FailOnLevels are the accepted values of fail_on
var FailOnLevels = []string{"never", "info", "warning", "error"}

// Validate checks the whole configuration
func (c *Config) Validate() *ValidationResult {
	result := &ValidationResult{Valid: true}

	c.validateAnalysis(result)
	c.validateWalk(result)
	c.validateCache(result)
	c.validateHistory(result)
	c.validateLog(result)

	return result
}

func (c *Config) validateAnalysis(result *ValidationResult) {
	if c.Renderer == "" {
		result.AddWarning("renderer is not set, will use raw")
	}

	if c.Workers < 0 {
		result.AddError("workers must be positive or 0 for one per CPU, got %d", c.Workers)
	}

	if len(c.Checkers) == 0 {
		result.AddError("at least one checker is required (available: %s)", strings.Join(checkers.Names(), ", "))
	}
	if _, err := checkers.ByName(c.Checkers, checkers.Options{}); err != nil && len(c.Checkers) > 0 {
		result.AddError("%v", err)
	}

	if c.Rules.MaxCalls <= 0 {
		result.AddError("rules.max_calls must be positive, got %d", c.Rules.MaxCalls)
	}
	if c.Rules.MaxLines <= 0 {
		result.AddError("rules.max_lines must be positive, got %d", c.Rules.MaxLines)
	}

	if !contains(FailOnLevels, c.FailOn) {
		result.AddError("fail_on must be one of %s, got %q", strings.Join(FailOnLevels, ", "), c.FailOn)
	}
}

func (c *Config) validateWalk(result *ValidationResult) {
	if len(c.Walk.Extensions) == 0 {
		result.AddWarning("walk.extensions is empty, will use .py, .pyi and .pyw")
	}
}

func (c *Config) validateCache(result *ValidationResult) {
	if !c.Cache.Enabled {
		return
	}
	if c.Cache.Path == "" {
		result.AddError("cache.path is required when the cache is enabled")
	}
	if c.Cache.TTL < 0 {
		result.AddError("cache.ttl must not be negative, got %s", c.Cache.TTL)
	}
}

func (c *Config) validateHistory(result *ValidationResult) {
	switch c.History.Type {
	case "sqlite":
		if c.History.LocalPath == "" {
			result.AddError("history.local_path is required for sqlite history")
		}
	case "postgres":
		if c.History.PostgresDSN == "" {
			result.AddError("history.postgres_dsn is required for postgres history")
		} else if !strings.HasPrefix(c.History.PostgresDSN, "postgres://") && !strings.HasPrefix(c.History.PostgresDSN, "postgresql://") {
			result.AddError("history.postgres_dsn must start with postgres:// or postgresql://")
		}
		if strings.Contains(c.History.PostgresDSN, "sslmode=disable") {
			result.AddWarning("history.postgres_dsn has sslmode=disable")
		}
	default:
		result.AddError("unknown history.type %q (expected sqlite or postgres)", c.History.Type)
	}
}

func (c *Config) validateLog(result *ValidationResult) {
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		result.AddError("log.level is invalid: %v", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		result.AddError("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Log.File != "" && c.Log.MaxSizeMB <= 0 {
		result.AddWarning("log.max_size_mb is not positive, log file will not be rotated")
	}
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
