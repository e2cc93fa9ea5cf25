package config

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}

	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errors ValidationErrors

	errors = append(errors, c.validateSource()...)
	errors = append(errors, c.validateDiscovery()...)
	errors = append(errors, c.validateReport()...)
	errors = append(errors, c.validateLogging()...)

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateSource() ValidationErrors {
	var errors ValidationErrors
	src := &c.Source

	switch src.Type {
	case SourceCSV, "":
		if src.Path == "" {
			errors = append(errors, ValidationError{
				Field:   "source.path",
				Message: "path is required for csv sources",
			})
		}
		if utf8.RuneCountInString(src.Delimiter) > 1 {
			errors = append(errors, ValidationError{
				Field:   "source.delimiter",
				Message: "delimiter must be a single character",
			})
		}
		if src.MaxRows < 0 {
			errors = append(errors, ValidationError{
				Field:   "source.max_rows",
				Message: "max_rows cannot be negative",
			})
		}
		return errors
	case SourceSQLite:
		if src.Path == "" && src.Database == "" {
			errors = append(errors, ValidationError{
				Field:   "source.path",
				Message: "path is required for sqlite sources",
			})
		}
	case SourceMySQL, SourcePostgres, SourceMSSQL:
		if src.Host == "" {
			errors = append(errors, ValidationError{
				Field:   "source.host",
				Message: "host is required",
			})
		}
		if src.Port <= 0 || src.Port > 65535 {
			errors = append(errors, ValidationError{
				Field:   "source.port",
				Message: "port must be between 1 and 65535",
			})
		}
		if src.User == "" {
			errors = append(errors, ValidationError{
				Field:   "source.user",
				Message: "user is required",
			})
		}
		if src.Database == "" {
			errors = append(errors, ValidationError{
				Field:   "source.database",
				Message: "database name is required",
			})
		}
		validTLS := map[string]bool{"disable": true, "preferred": true, "required": true, "": true}
		if !validTLS[src.TLS] {
			errors = append(errors, ValidationError{
				Field:   "source.tls",
				Message: "tls must be 'disable', 'preferred', or 'required'",
			})
		}
	default:
		errors = append(errors, ValidationError{
			Field:   "source.type",
			Message: "type must be 'csv', 'mysql', 'postgres', 'sqlite', or 'sqlserver'",
		})
		return errors
	}

	if src.Table == "" && src.Query == "" {
		errors = append(errors, ValidationError{
			Field:   "source.table",
			Message: "table or query is required for sql sources",
		})
	}
	if src.MaxRows < 0 {
		errors = append(errors, ValidationError{
			Field:   "source.max_rows",
			Message: "max_rows cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateDiscovery() ValidationErrors {
	var errors ValidationErrors

	// max_key_len <= 0 is not an error: discovery yields an empty verdict list.
	if c.Discovery.Workers < 0 {
		errors = append(errors, ValidationError{
			Field:   "discovery.workers",
			Message: "workers cannot be negative",
		})
	}
	if c.Discovery.ChunkSize < 0 {
		errors = append(errors, ValidationError{
			Field:   "discovery.chunk_size",
			Message: "chunk_size cannot be negative",
		})
	}
	if c.Discovery.TimeoutSeconds < 0 {
		errors = append(errors, ValidationError{
			Field:   "discovery.timeout_seconds",
			Message: "timeout_seconds cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateReport() ValidationErrors {
	var errors ValidationErrors

	validFormats := map[string]bool{"text": true, "json": true, "yaml": true, "": true}
	if !validFormats[c.Report.Format] {
		errors = append(errors, ValidationError{
			Field:   "report.format",
			Message: "format must be 'text', 'json', or 'yaml'",
		})
	}
	if c.Report.SampleRows < 0 {
		errors = append(errors, ValidationError{
			Field:   "report.sample_rows",
			Message: "sample_rows cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}
