package common

import "fmt"

type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("Configuration Error: %s", e.Message)
}

type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("Server Error: %s", e.Message)
}

func NewConfigError(message string) error {
	return &ConfigError{Message: message}
}

func NewServerError(message string) error {
	return &ServerError{Message: message}
}
