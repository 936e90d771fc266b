package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "api.timeout_seconds")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// MaxHistoryLimit is the server-side cap on stored searches.
const MaxHistoryLimit = 10

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidLocales returns the languages the client ships bundles for.
// Kept in sync with i18n.Supported.
func ValidLocales() []string {
	return []string{"zh", "en"}
}

// ValidThemes returns the built-in TUI themes.
// Kept in sync with styles.BuiltinThemes.
func ValidThemes() []string {
	return []string{"default", "nord", "dracula", "solarized-light"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateAPI()...)
	errors = append(errors, c.validateLocale()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateHistory()...)
	errors = append(errors, c.validateDevServer()...)
	errors = append(errors, c.validateTUI()...)

	return errors
}

// validateAPI validates the APIConfig
func (c *Config) validateAPI() []ValidationError {
	var errors []ValidationError

	if c.API.BaseURL == "" {
		errors = append(errors, ValidationError{
			Field:   "api.base_url",
			Value:   c.API.BaseURL,
			Message: "must not be empty",
		})
	} else if u, err := url.Parse(c.API.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "api.base_url",
			Value:   c.API.BaseURL,
			Message: "must be an absolute http(s) URL",
		})
	}

	const maxTimeout = 600
	if c.API.TimeoutSeconds <= 0 {
		errors = append(errors, ValidationError{
			Field:   "api.timeout_seconds",
			Value:   c.API.TimeoutSeconds,
			Message: "must be positive",
		})
	}
	if c.API.TimeoutSeconds > maxTimeout {
		errors = append(errors, ValidationError{
			Field:   "api.timeout_seconds",
			Value:   c.API.TimeoutSeconds,
			Message: fmt.Sprintf("exceeds maximum of %d seconds", maxTimeout),
		})
	}

	return errors
}

// validateLocale validates the LocaleConfig
func (c *Config) validateLocale() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidLocales(), strings.ToLower(c.Locale.Default)) {
		errors = append(errors, ValidationError{
			Field:   "locale.default",
			Value:   c.Locale.Default,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLocales(), ", ")),
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}

// validateHistory validates the HistoryConfig
func (c *Config) validateHistory() []ValidationError {
	var errors []ValidationError

	if c.History.Limit < 1 {
		errors = append(errors, ValidationError{
			Field:   "history.limit",
			Value:   c.History.Limit,
			Message: "must be at least 1",
		})
	}
	if c.History.Limit > MaxHistoryLimit {
		errors = append(errors, ValidationError{
			Field:   "history.limit",
			Value:   c.History.Limit,
			Message: fmt.Sprintf("exceeds maximum of %d", MaxHistoryLimit),
		})
	}

	return errors
}

// validateDevServer validates the DevServerConfig
func (c *Config) validateDevServer() []ValidationError {
	var errors []ValidationError

	if c.DevServer.Addr == "" {
		errors = append(errors, ValidationError{
			Field:   "devserver.addr",
			Value:   c.DevServer.Addr,
			Message: "must not be empty",
		})
	}
	for i, origin := range c.DevServer.CORSOrigins {
		if strings.TrimSpace(origin) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("devserver.cors_origins[%d]", i),
				Value:   origin,
				Message: "must not be empty",
			})
		}
	}

	return errors
}

// validateTUI validates the TUIConfig
func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	if c.TUI.Theme != "" && !slices.Contains(ValidThemes(), c.TUI.Theme) {
		errors = append(errors, ValidationError{
			Field:   "tui.theme",
			Value:   c.TUI.Theme,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidThemes(), ", ")),
		})
	}

	return errors
}
