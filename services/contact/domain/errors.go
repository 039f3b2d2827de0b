package domain

import "errors"

// Sentinel errors for the contact domain. Use errors.Is() to check these.
var (
	// ErrContactNotFound indicates the contact does not exist for the caller.
	// Deliberately also covers contacts owned by someone else.
	ErrContactNotFound = errors.New("contact not found")

	// ErrAccountExists indicates the account name is already taken. Account
	// names are unique across the whole store, not per owner.
	ErrAccountExists = errors.New("account name already exists")
)
