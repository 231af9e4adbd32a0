package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a structured error code
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigLoad    ErrorCode = "CONFIG_LOAD"
	ErrCodeConfigParse   ErrorCode = "CONFIG_PARSE"
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"

	// Widget errors
	ErrCodeWidgetNotFound ErrorCode = "WIDGET_NOT_FOUND"
	ErrCodeWidgetInit     ErrorCode = "WIDGET_INIT"
	ErrCodeWidgetRender   ErrorCode = "WIDGET_RENDER"
	ErrCodeAPIUnsupported ErrorCode = "API_UNSUPPORTED"

	// Acquisition errors
	ErrCodeScrapeFetch    ErrorCode = "SCRAPE_FETCH"
	ErrCodeScrapeParse    ErrorCode = "SCRAPE_PARSE"
	ErrCodeSelectorLoad   ErrorCode = "SELECTOR_LOAD"
	ErrCodeBrowserSession ErrorCode = "BROWSER_SESSION"
	ErrCodeBrowserTimeout ErrorCode = "BROWSER_TIMEOUT"

	// Generic errors
	ErrCodeInternal     ErrorCode = "INTERNAL"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Error represents a structured speculo error
type Error struct {
	Code       ErrorCode
	Message    string
	Underlying error
	Context    map[string]any
	Retryable  bool
}

// New creates a new structured error
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// Wrap wraps an existing error with speculo error context
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:       code,
		Message:    message,
		Underlying: err,
		Context:    make(map[string]any),
	}
}

// WithContext adds context key-value pairs to the error
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// WithRetryable marks the error as retryable
func (e *Error) WithRetryable(retryable bool) *Error {
	e.Retryable = retryable
	return e
}

// Error implements the error interface
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if len(e.Context) > 0 {
		sb.WriteString(" {")
		first := true
		for k, v := range e.Context {
			if !first {
				sb.WriteString(", ")
			}
			sb.WriteString(fmt.Sprintf("%s: %v", k, v))
			first = false
		}
		sb.WriteString("}")
	}

	if e.Underlying != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Underlying))
	}

	return sb.String()
}

// Unwrap returns the underlying error for errors.Is/As
func (e *Error) Unwrap() error {
	return e.Underlying
}

// IsRetryable returns whether this error is retryable
func (e *Error) IsRetryable() bool {
	return e.Retryable
}

// IsCode checks if an error has a specific error code
func IsCode(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}
	specErr, ok := err.(*Error)
	if !ok {
		return false
	}
	return specErr.Code == code
}

// GetCode extracts the error code, returning ErrCodeInternal for plain errors
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}
	specErr, ok := err.(*Error)
	if !ok {
		return ErrCodeInternal
	}
	return specErr.Code
}
