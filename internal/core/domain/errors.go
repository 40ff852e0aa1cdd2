package domain

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is deactivated")
	ErrTooManyAttempts    = errors.New("too many login attempts")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrForbidden          = errors.New("access forbidden")

	ErrUserNotFound     = errors.New("user not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrServiceNotFound  = errors.New("service not found")
	ErrBookingNotFound  = errors.New("booking not found")

	ErrEmailTaken    = errors.New("email already registered")
	ErrUsernameTaken = errors.New("username already taken")
	ErrCategoryTaken = errors.New("category name already taken")

	ErrInvalidTransition = errors.New("invalid status transition")
)

// validationError carries a user-correctable message while still matching
// ErrInvalidInput under errors.Is.
type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Is(target error) bool { return target == ErrInvalidInput }

// NewValidationError returns an input validation error with a caller-facing
// message.
func NewValidationError(msg string) error {
	return &validationError{msg: msg}
}

// forbiddenError carries an ownership message while still matching
// ErrForbidden under errors.Is.
type forbiddenError struct {
	msg string
}

func (e *forbiddenError) Error() string { return e.msg }

func (e *forbiddenError) Is(target error) bool { return target == ErrForbidden }

// NewForbiddenError returns an authorization error with a caller-facing
// message.
func NewForbiddenError(msg string) error {
	return &forbiddenError{msg: msg}
}
