package scheduling

import (
	"errors"
	"fmt"
)

// Engine error codes. CapacityExhausted is deliberately absent: a day with
// no remaining slots is a successful query result carrying a message, not
// an error.
const (
	CodeConfiguration   = "configurationError"
	CodeInputValidation = "inputValidationError"
	CodeNoBucket        = "noBucketError"
	CodeConcurrency     = "concurrencyAnomaly"
)

type EngineError struct {
	Code    string
	Message string
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewConfigurationError flags missing setup (no store row, no providers, no
// calendar settings). Unrecoverable without operator action; never retried.
func NewConfigurationError(format string, args ...interface{}) error {
	return &EngineError{Code: CodeConfiguration, Message: fmt.Sprintf(format, args...)}
}

// NewInputValidationError rejects malformed input before any store mutation.
func NewInputValidationError(format string, args ...interface{}) error {
	return &EngineError{Code: CodeInputValidation, Message: fmt.Sprintf(format, args...)}
}

// NewNoBucketError indicates the requested duration exceeds every configured
// duration bucket.
func NewNoBucketError(format string, args ...interface{}) error {
	return &EngineError{Code: CodeNoBucket, Message: fmt.Sprintf(format, args...)}
}

// NewConcurrencyAnomalyError surfaces an optimistic-write failure: the store
// changed since it was read. Callers must retry with a fresh read.
func NewConcurrencyAnomalyError(format string, args ...interface{}) error {
	return &EngineError{Code: CodeConcurrency, Message: fmt.Sprintf(format, args...)}
}

// HasCode reports whether err carries the given engine error code.
func HasCode(err error, code string) bool {
	var ee *EngineError
	return errors.As(err, &ee) && ee.Code == code
}
