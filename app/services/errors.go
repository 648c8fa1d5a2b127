// Package services holds the business rules between the HTTP controllers
// and the repositories. Services accept small interfaces over the
// repositories so tests can swap in mocks.
package services

import "errors"

// Domain errors the controllers translate into HTTP responses.
var (
	// ErrEmptyCart rejects a checkout with no items.
	ErrEmptyCart = errors.New("your cart is empty")

	// ErrInvalidCredentials covers both unknown email and wrong password,
	// so login failures never reveal which one it was.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken means registration hit the unique email index.
	ErrEmailTaken = errors.New("email is already registered")

	// ErrForbidden means the caller is authenticated but not allowed to
	// touch this resource.
	ErrForbidden = errors.New("access denied")

	// ErrInvalidStatus means the requested order status is not one of the
	// five known statuses.
	ErrInvalidStatus = errors.New("invalid order status")

	// ErrInvalidTransition means the status change is not admissible from
	// the order's current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidRole means the requested account role is unknown.
	ErrInvalidRole = errors.New("invalid role")
)

// ValidationError carries per-field messages for a 422 response.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "validation failed" }

// NewValidationError builds a ValidationError from field messages.
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// AsValidation unwraps err into a ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
