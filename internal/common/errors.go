// Package common holds errors, logging and retry helpers shared by every
// package.
package common

import (
	"errors"
)

var (
	// ErrNotFound is returned by lookups that found no row.
	ErrNotFound = errors.New("not found")
	// ErrDatabaseCorrupted marks stored data that can no longer be decoded.
	ErrDatabaseCorrupted = errors.New("database corrupted")

	ErrAppUnavailable = errors.New("finance application unavailable")
	ErrNoCategories   = errors.New("no categories in catalog")
	ErrNoTransactions = errors.New("no transactions to categorize")
	ErrSuggestFailed  = errors.New("suggestion request failed")

	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError pairs an internal error with a message fit for the terminal.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err == nil {
		return e.UserMessage
	}
	return e.UserMessage + ": " + e.Err.Error()
}

func (e *UserError) Unwrap() error { return e.Err }

// NewUserError wraps err with a message for the user. err may be nil.
func NewUserError(userMessage string, err error) error {
	return &UserError{Err: err, UserMessage: userMessage}
}

// UserMessage returns the message of the first UserError in err's chain.
func UserMessage(err error) (string, bool) {
	var ue *UserError
	if !errors.As(err, &ue) {
		return "", false
	}
	return ue.UserMessage, true
}
