package models

import (
	"time"

	"github.com/google/uuid"
)

// LineInput is one line entry on a create or update request.
// Quantity defaults to 1 when omitted or zero.
type LineInput struct {
	ItemID   uuid.UUID `json:"itemId" validate:"required"`
	Price    float64   `json:"price" validate:"required,gte=0"`
	Quantity int       `json:"quantity" validate:"omitempty,gte=1"`
}

// CreateJobInput is the request body for job creation. Supplier, customer,
// and every line item must resolve to entities owned by the caller before
// anything is persisted.
type CreateJobInput struct {
	Reference  string      `json:"reference" validate:"required,max=100"`
	SupplierID uuid.UUID   `json:"supplierId" validate:"required"`
	CustomerID uuid.UUID   `json:"customerId" validate:"required"`
	Date       time.Time   `json:"date" validate:"required"`
	Lines      []LineInput `json:"items" validate:"omitempty,dive"`
}

// UpdateJobInput carries a partial update; nil fields are left unchanged.
// A non-nil Lines replaces the line list wholesale.
type UpdateJobInput struct {
	Reference  *string      `json:"reference" validate:"omitempty,max=100"`
	SupplierID *uuid.UUID   `json:"supplierId" validate:"omitempty"`
	CustomerID *uuid.UUID   `json:"customerId" validate:"omitempty"`
	Date       *time.Time   `json:"date" validate:"omitempty"`
	Lines      *[]LineInput `json:"items" validate:"omitempty,dive"`
}
