package errors

import (
	"context"
	"errors"
)

// IsInputError determines if an error was caused by malformed snapshot input,
// as opposed to a failure of the environment (storage, configuration, context).
func IsInputError(err error) bool {
	if err == nil {
		return false
	}

	switch CodeOf(err) {
	case ERR_TRUNCATED_INPUT,
		ERR_BAD_MAGIC,
		ERR_UNSUPPORTED_VERSION,
		ERR_SCRIPT_TOO_LONG,
		ERR_POINT_NOT_ON_CURVE,
		ERR_VALUE_OVERFLOW,
		ERR_TRAILING_DATA:
		return true
	}

	return false
}

// IsHeaderError reports whether err was raised while validating the snapshot
// header, before any record was read.
func IsHeaderError(err error) bool {
	code := CodeOf(err)
	return code == ERR_BAD_MAGIC || code == ERR_UNSUPPORTED_VERSION
}

// IsContextError determines if an error is related to context cancellation or deadline.
func IsContextError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	return CodeOf(err) == ERR_CONTEXT_CANCELED
}

// GetErrorCategory returns a string representing the category of the error.
// This is used as a metrics label.
func GetErrorCategory(err error) string {
	if err == nil {
		return "none"
	}

	if IsContextError(err) {
		return "context"
	}

	code := CodeOf(err)

	switch {
	case code >= 10 && code <= 19:
		return "input"
	case code >= 50 && code <= 59:
		return "service"
	case code >= 60 && code <= 69:
		return "storage"
	case code == ERR_CONFIGURATION:
		return "configuration"
	}

	return "unknown"
}
