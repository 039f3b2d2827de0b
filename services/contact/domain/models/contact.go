package models

import (
	"time"

	"github.com/google/uuid"
)

// Type tags a contact as the buying or selling side of a job.
type Type string

const (
	TypeSupplier Type = "supplier"
	TypeCustomer Type = "customer"
)

// Contact is the core aggregate of this service. OwnerID scopes all access
// and is never exposed on the wire or accepted from input.
type Contact struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   string    `json:"-"`
	Account   string    `json:"account"`
	Company   string    `json:"company"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	Type      Type      `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
