package configloader

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yaklabco/htmlindent/pkg/config"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "backups.mode").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// knownBackupModes lists valid backup mode values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownBackupModes = map[string]bool{
	config.BackupModeSidecar: true,
	"none":                   true,
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Input != "" && !cfg.Input.IsValid() {
		result.addError("input", cfg.Input, "invalid input %q; must be one of: auto, html, markdown", cfg.Input)
	}
	if cfg.Flavor != "" && !cfg.Flavor.IsValid() {
		result.addError("flavor", cfg.Flavor, "invalid flavor %q; must be one of: commonmark, gfm", cfg.Flavor)
	}
	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.addError("format", cfg.Format, "invalid format %q; must be one of: text, json, diff", cfg.Format)
	}
	if cfg.Jobs < 0 {
		result.addError("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}
	if cfg.Backups.Mode != "" && !knownBackupModes[cfg.Backups.Mode] {
		result.addError("backups.mode", cfg.Backups.Mode, "invalid backup mode %q; must be one of: sidecar, none", cfg.Backups.Mode)
	}
	if cfg.Write && cfg.Check {
		result.addError("write", cfg.Write, "--write and --check are mutually exclusive")
	}

	validateIndentation(cfg, result)
	validateElements(cfg, result)
	validatePatterns(cfg, result)

	return result
}

func (r *ValidationResult) addError(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) addWarning(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func validateIndentation(cfg *config.Config, result *ValidationResult) {
	if strings.ContainsAny(cfg.Indentation, "\r\n") {
		result.addError("indentation", cfg.Indentation, "indentation must not contain line breaks")
		return
	}
	if strings.TrimSpace(cfg.Indentation) != "" {
		result.addWarning("indentation", cfg.Indentation,
			"indentation %q is not whitespace; re-indenting the output will not be stable", cfg.Indentation)
	}
}

func validateElements(cfg *config.Config, result *ValidationResult) {
	for i, name := range cfg.Inline {
		if !isElementName(name) {
			result.addError(fmt.Sprintf("inline[%d]", i), name, "invalid element name %q", name)
		}
	}
	for i, name := range cfg.Block {
		if !isElementName(name) {
			result.addError(fmt.Sprintf("block[%d]", i), name, "invalid element name %q", name)
			continue
		}
		if slices.ContainsFunc(cfg.Inline, func(s string) bool { return strings.EqualFold(s, name) }) {
			result.addWarning(fmt.Sprintf("block[%d]", i), name, "element %q is listed as both inline and block; block wins", name)
		}
	}
}

func validatePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		// filepath.Match returns an error only for malformed patterns
		if _, err := filepath.Match(pattern, ""); err != nil {
			result.addError(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}
	for i, ext := range cfg.Extensions {
		if strings.TrimSpace(ext) == "" || strings.ContainsAny(ext, `/\*`) {
			result.addError(fmt.Sprintf("extensions[%d]", i), ext, "invalid file extension %q", ext)
		}
	}
}

// isElementName reports whether name looks like an HTML or custom element name.
func isElementName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '-' || r == '_' || r == ':' || r == '.'):
		default:
			return false
		}
	}
	return true
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}

// IsValidBackupMode returns true if the backup mode is valid.
func IsValidBackupMode(mode string) bool {
	return knownBackupModes[mode]
}
