// Package clierr defines the error types shared by the slack-cli packages.
// The cmd layer inspects them with errors.As to decide how to report a failure.
package clierr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrProfileNotFound is wrapped by every "profile does not exist" failure.
var ErrProfileNotFound = errors.New("profile not found")

// ConfigurationError reports a missing or unusable profile or settings file.
type ConfigurationError struct {
	Msg string
	Err error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil && e.Msg == "" {
		return e.Err.Error()
	}
	return e.Msg
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// NoConfig builds the error returned when a profile has no stored token.
func NoConfig(profile string) *ConfigurationError {
	return &ConfigurationError{
		Msg: fmt.Sprintf(`No configuration found for profile "%s". Use "slack-cli config set --token <token> --profile %s" to set up.`, profile, profile),
		Err: ErrProfileNotFound,
	}
}

// ChannelNotFoundError is returned when a channel name cannot be resolved.
// Suggestions holds names of other channels containing the query.
type ChannelNotFoundError struct {
	Channel     string
	Suggestions []string
}

func (e *ChannelNotFoundError) Error() string {
	if len(e.Suggestions) > 0 {
		return fmt.Sprintf("Channel '%s' not found. Did you mean one of these? %s",
			e.Channel, strings.Join(e.Suggestions, ", "))
	}
	return fmt.Sprintf("Channel '%s' not found. Make sure you are a member of this channel.", e.Channel)
}

// CryptoError reports a malformed or undecryptable token envelope.
type CryptoError struct {
	Op  string
	Err error
}

func (e *CryptoError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("failed to %s token", e.Op)
	}
	return fmt.Sprintf("failed to %s token: %v", e.Op, e.Err)
}

func (e *CryptoError) Unwrap() error { return e.Err }

// APIError wraps a failed remote call. RateLimited is set when the server
// rejected the call because of rate limiting.
type APIError struct {
	Op          string
	RateLimited bool
	Err         error
}

func (e *APIError) Error() string {
	if e.RateLimited {
		return fmt.Sprintf("API Error: %s: rate limit exceeded: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("API Error: %s: %v", e.Op, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

// IsRateLimited reports whether err carries a rate-limited APIError.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.RateLimited
}

// FileError reports a local file that could not be read.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("Error reading file %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// ValidationError reports malformed user input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf formats a ValidationError.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
