package domain

import "errors"

// Sentinel errors for the item domain. Use errors.Is() to check these.
var (
	// ErrItemNotFound indicates the item does not exist for the caller.
	// Deliberately also covers items owned by someone else.
	ErrItemNotFound = errors.New("item not found")
)
