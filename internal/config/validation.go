// validation.go - Startup validation of the parsed configuration.
//
// Collects every problem before failing so an operator sees the full list
// in one run instead of fixing variables one at a time.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// reservedRoutes are served by the operational endpoints and cannot host uploads.
var reservedRoutes = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// ValidationError represents a single configuration problem.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation failed for %s: %s", e.Field, e.Message)
}

// Validator accumulates validation errors.
type Validator struct {
	errors []ValidationError
}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{
		errors: make([]ValidationError, 0),
	}
}

// AddError adds a validation error.
func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors.
func (v *Validator) Errors() []ValidationError {
	return v.errors
}

// ErrorString returns a formatted string of all errors.
func (v *Validator) ErrorString() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Configuration validation failed with %d error(s):\n", len(v.errors)))
	for i, err := range v.errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidateRequired records an error when value is empty.
func (v *Validator) ValidateRequired(key, value string) {
	if value == "" {
		v.AddError(key, "required value not set")
	}
}

// ValidateURL validates that a value is an absolute http(s) URL.
func (v *Validator) ValidateURL(key, value string) {
	if value == "" {
		return
	}

	parsed, err := url.Parse(value)
	if err != nil {
		v.AddError(key, fmt.Sprintf("invalid URL format: %v", err))
		return
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		v.AddError(key, "URL must use http or https scheme")
		return
	}

	if parsed.Host == "" {
		v.AddError(key, "URL must include a host")
	}
}

// ValidatePort validates that a value is a valid port number.
func (v *Validator) ValidatePort(key, value string) {
	if value == "" {
		v.AddError(key, "port must not be empty")
		return
	}

	port, err := strconv.Atoi(strings.TrimPrefix(value, ":"))
	if err != nil {
		v.AddError(key, "port must be a number")
		return
	}

	if port < 1 || port > 65535 {
		v.AddError(key, "port must be between 1 and 65535")
	}
}

// ValidateEnum validates that a value is one of allowed options.
func (v *Validator) ValidateEnum(key, value string, allowed []string) {
	for _, opt := range allowed {
		if value == opt {
			return
		}
	}

	v.AddError(key, fmt.Sprintf("must be one of: %s (got: %s)", strings.Join(allowed, ", "), value))
}

// ValidatePositive validates that a number is greater than zero.
func (v *Validator) ValidatePositive(key string, value int64) {
	if value <= 0 {
		v.AddError(key, "must be a positive integer")
	}
}

// ValidateBcryptHash validates that a value looks like a bcrypt hash.
func (v *Validator) ValidateBcryptHash(key, value string) {
	if value == "" {
		return
	}

	if !strings.HasPrefix(value, "$2a$") &&
		!strings.HasPrefix(value, "$2b$") &&
		!strings.HasPrefix(value, "$2y$") {
		v.AddError(key, "must be a valid bcrypt hash (starts with $2a$, $2b$, or $2y$)")
	}

	// Bcrypt hashes are 60 characters
	if len(value) != 60 {
		v.AddError(key, "bcrypt hash must be exactly 60 characters")
	}
}

// ValidateRoute checks that an upload route is a plain absolute path that
// does not shadow an operational endpoint.
func (v *Validator) ValidateRoute(key, value string) {
	if !strings.HasPrefix(value, "/") {
		v.AddError(key, "route must start with /")
		return
	}

	if strings.ContainsAny(value, " {}") {
		v.AddError(key, "route must be a plain path")
		return
	}

	if reservedRoutes[value] {
		v.AddError(key, fmt.Sprintf("route %s is reserved", value))
	}
}

// ValidateDirectory checks that path exists and is a directory.
// The service never creates its upload directory.
func (v *Validator) ValidateDirectory(key, path string) {
	if path == "" {
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		v.AddError(key, fmt.Sprintf("cannot access directory: %v", err))
		return
	}

	if !info.IsDir() {
		v.AddError(key, "not a directory")
	}
}

// Validate checks the whole configuration and returns every problem at once.
func (c *Config) Validate() error {
	v := NewValidator()

	v.ValidateRequired("HOST_URL", c.HTTP.HostURL)
	v.ValidateURL("HOST_URL", c.HTTP.HostURL)
	v.ValidatePort("PORT", c.HTTP.Port)
	v.ValidateRoute("UPLOAD_ROUTE", c.HTTP.UploadRoute)

	v.ValidateRequired("BA_USERNAME", c.Auth.Username)
	if c.Auth.Password == "" && c.Auth.PasswordHash == "" {
		v.AddError("BA_PASSWORD", "either BA_PASSWORD or BA_PASSWORD_HASH must be set")
	}
	v.ValidateBcryptHash("BA_PASSWORD_HASH", c.Auth.PasswordHash)

	v.ValidateRequired("UPLOAD_PATH", c.Storage.UploadPath)
	v.ValidateDirectory("UPLOAD_PATH", c.Storage.UploadPath)
	v.ValidatePositive("MAX_UPLOAD_BYTES", c.Storage.MaxUploadBytes)

	v.ValidateEnum("LOG_LEVEL", c.Log.Level, []string{"debug", "info", "warn", "error"})
	v.ValidateEnum("LOG_FORMAT", c.Log.Format, []string{"text", "json"})

	if v.HasErrors() {
		return fmt.Errorf("%s", v.ErrorString())
	}

	return nil
}
