package service

import "errors"

// Common service errors
var (
	// ErrPermissionDenied is returned when a user doesn't have permission for an action
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials is returned when a login attempt fails
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrWrongPassword is returned when a profile update carries the
	// wrong current password. It is the one recoverable failure in the
	// profile flow and surfaces as a retryable form error.
	ErrWrongPassword = errors.New("current password is incorrect")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned when an email is already registered
	ErrEmailTaken = errors.New("email is already in use")

	// ErrCategoryInUse is returned when deleting a category that still
	// has catalog items referencing it
	ErrCategoryInUse = errors.New("category has items and cannot be deleted")

	// ErrSelfDelete is returned when a user tries to delete their own account
	ErrSelfDelete = errors.New("users cannot delete their own account")

	// ErrInvalidStage is returned when an unknown job stage is submitted
	ErrInvalidStage = errors.New("invalid job stage")

	// ErrTooManyPayments is returned when a save carries more than the
	// allowed number of payment records
	ErrTooManyPayments = errors.New("too many payment records")
)
