package internal

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEventNotFound = errors.New("event not found")
	ErrEventNotOwned = errors.New("event belongs to another user")
)

// BadRequestError is returned before any query runs when a required
// field is missing.
type BadRequestError struct {
	Field string
}

func (e *BadRequestError) Error() string {
	return fmt.Sprintf("Required field - %s - missing from request body.", e.Field)
}

var ErrAccountNotFound = errors.New("account not found")
