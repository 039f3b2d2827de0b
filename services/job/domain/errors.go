package domain

import "errors"

var (
	// ErrJobNotFound covers absent ids and ids owned by another caller alike.
	ErrJobNotFound = errors.New("job not found")

	// ErrReferenceExists reports a duplicate (reference, owner) pair.
	ErrReferenceExists = errors.New("a job with this reference already exists")

	// Referential-check failures. Each names the reference that failed to
	// resolve to an entity owned by the caller; the whole write is aborted.
	ErrSupplierNotFound = errors.New("supplier contact not found")
	ErrCustomerNotFound = errors.New("customer contact not found")
	ErrLineItemNotFound = errors.New("line item not found")
)
