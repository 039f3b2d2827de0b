package models

import (
	"time"

	"github.com/google/uuid"
)

// Availability tags whether an item can currently be put on a job.
type Availability string

const (
	AvailableYes Availability = "yes"
	AvailableNo  Availability = "no"
)

// Weight bounds in kilograms.
const (
	MinWeight = 0.1
	MaxWeight = 5000
)

// Item is the core aggregate of this service. OwnerID scopes all access and
// is never exposed on the wire or accepted from input.
type Item struct {
	ID        uuid.UUID    `json:"id"`
	OwnerID   string       `json:"-"`
	Name      string       `json:"name"`
	Code      string       `json:"code"`
	Available Availability `json:"available"`
	Weight    float64      `json:"weight"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}
