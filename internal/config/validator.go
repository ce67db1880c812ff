package config

import (
	"slices"
	"strconv"
	"strings"
)

// MaxPanes bounds the number of panes opened at startup.
const MaxPanes = 16

// ValidLogLevels returns the list of valid log levels.
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidLogFormats returns the list of valid log formats.
func ValidLogFormats() []string {
	return []string{"text", "json"}
}

// ValidLockModes returns the list of valid document lock modes.
func ValidLockModes() []string {
	return []string{"rw", "exclusive"}
}

// ValidDispatchModes returns the list of valid dispatch modes.
func ValidDispatchModes() []string {
	return []string{"table", "chain"}
}

// Validate checks the Config for invalid values and returns all validation errors found.
func (c *Config) Validate() ValidationErrors {
	var errs ValidationErrors

	oneOf := func(field, value string, valid []string) {
		if !slices.Contains(valid, strings.ToLower(value)) {
			errs = append(errs, ValidationError{
				Field:   field,
				Value:   value,
				Message: "must be one of: " + strings.Join(valid, ", "),
			})
		}
	}
	atLeast := func(field string, value, min int) {
		if value < min {
			errs = append(errs, ValidationError{
				Field:   field,
				Value:   value,
				Message: "must be at least " + strconv.Itoa(min),
			})
		}
	}

	oneOf("log.level", c.Log.Level, ValidLogLevels())
	oneOf("log.format", c.Log.Format, ValidLogFormats())
	oneOf("document.lock", c.Document.Lock, ValidLockModes())
	atLeast("document.history_size", c.Document.HistorySize, 1)
	oneOf("dispatch.mode", c.Dispatch.Mode, ValidDispatchModes())
	atLeast("ui.queue_size", c.UI.QueueSize, 1)

	if mode, err := c.Storage.FileMode(); err != nil || mode > 0o777 {
		errs = append(errs, ValidationError{
			Field:   "storage.perm",
			Value:   c.Storage.Perm,
			Message: "must be an octal permission such as 0644",
		})
	}

	atLeast("panes", c.Panes, 1)
	if c.Panes > MaxPanes {
		errs = append(errs, ValidationError{
			Field:   "panes",
			Value:   c.Panes,
			Message: "must be at most " + strconv.Itoa(MaxPanes),
		})
	}

	return errs
}
