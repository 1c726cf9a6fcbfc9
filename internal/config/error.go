package config

import "fmt"

// Error reports an invalid configuration value.
type Error struct {
	Key string
	msg string
}

func (e *Error) Error() string {
	if e.Key == "" {
		return "config: " + e.msg
	}
	return fmt.Sprintf("config: %s: %s", e.Key, e.msg)
}

func invalid(key, format string, args ...any) *Error {
	return &Error{Key: key, msg: fmt.Sprintf(format, args...)}
}
