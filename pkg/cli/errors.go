package cli

import "fmt"

// ConfigError represents an error in configuration.
type ConfigError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("config error: %s", e.Message)
	}
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// WrapConfigError creates a ConfigError carrying the error that caused it.
func WrapConfigError(field string, cause error) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: cause.Error(),
		Cause:   cause,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}
