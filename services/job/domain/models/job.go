package models

import (
	"time"

	"github.com/google/uuid"

	contactmodels "github.com/ghuser/jobdesk/services/contact/domain/models"
	itemmodels "github.com/ghuser/jobdesk/services/item/domain/models"
)

// Line is one stored line entry: an item reference plus price and quantity.
// Lines live inside the job record; the item reference is checked at write
// time but not enforced structurally afterward.
type Line struct {
	ItemID   uuid.UUID `json:"itemId"`
	Price    float64   `json:"price"`
	Quantity int       `json:"quantity"`
}

// Job is the stored aggregate. Supplier, customer, and line item references
// are ids only; resolution to full records happens in the application layer.
// OwnerID scopes all access and is never exposed on the wire.
type Job struct {
	ID         uuid.UUID `json:"id"`
	OwnerID    string    `json:"-"`
	Reference  string    `json:"reference"`
	SupplierID uuid.UUID `json:"supplierId"`
	CustomerID uuid.UUID `json:"customerId"`
	Date       time.Time `json:"date"`
	Lines      []Line    `json:"items"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ResolvedLine is a line entry with its item expanded to the full record.
type ResolvedLine struct {
	Item     *itemmodels.Item `json:"item"`
	Price    float64          `json:"price"`
	Quantity int              `json:"quantity"`
}

// ResolvedJob is the read model: supplier, customer, and line items expanded
// to full sub-records. A referenced contact that no longer resolves is left
// nil; line entries whose item no longer resolves are dropped from Lines.
type ResolvedJob struct {
	ID        uuid.UUID              `json:"id"`
	Reference string                 `json:"reference"`
	Supplier  *contactmodels.Contact `json:"supplier"`
	Customer  *contactmodels.Contact `json:"customer"`
	Date      time.Time              `json:"date"`
	Lines     []ResolvedLine         `json:"items"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
}
