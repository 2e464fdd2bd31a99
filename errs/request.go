package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	Unauthorized = NewApiErr(http.StatusUnauthorized, "Access denied. Please login first.")
)

// Request & Input-Validation Errors
var (
	ErrMalformedPayload = errors.New("malformed payload")
	ErrInvalidInput     = errors.New("invalid input")
	ErrValidation       = errors.New("Invalid data")
)

// Authentication & Authorization Errors
var (
	ErrInsufficientRole = errors.New("insufficient role")
)

func NewMalformedPayloadError(payloadType string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrMalformedPayload,
		Details:    fmt.Sprintf("Malformed %s payload", payloadType),
		Cause:      cause,
		Field:      "payload",
	}
}

// NewInvalidInputError is the 400 used for values that parse but make no sense,
// such as a link that is not a recognised video URL.
func NewInvalidInputError(message string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        labeled{message, ErrInvalidInput},
	}
}

// NewValidationError reports every field that failed validation at once.
func NewValidationError(fields []FieldError) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrValidation,
		Fields:     fields,
	}
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

func NewInsufficientRoleError(requiredRole string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		err:        ErrInsufficientRole,
		Details:    fmt.Sprintf("Access denied. %s role required.", requiredRole),
		Field:      "authorization",
	}
}

func IsInvalidInputError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
