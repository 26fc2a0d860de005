package store

import "errors"

var (
	// ErrRecordNotFound wraps GORM's not found error for consistency
	ErrRecordNotFound = errors.New("record not found")

	// ErrAccountConflict is returned when a new account's mailbox and domain
	// are already mapped to a different local id.
	ErrAccountConflict = errors.New("mail address already mapped to another account")
)
