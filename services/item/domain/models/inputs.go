package models

// CreateItemInput is the request body for item creation.
type CreateItemInput struct {
	Name      string       `json:"name" validate:"required,max=20"`
	Code      string       `json:"code" validate:"required,max=20"`
	Available Availability `json:"available" validate:"required,oneof=yes no"`
	Weight    float64      `json:"weight" validate:"required,gte=0.1,lte=5000"`
}

// UpdateItemInput carries a partial update; nil fields are left unchanged.
type UpdateItemInput struct {
	Name      *string       `json:"name" validate:"omitempty,max=20"`
	Code      *string       `json:"code" validate:"omitempty,max=20"`
	Available *Availability `json:"available" validate:"omitempty,oneof=yes no"`
	Weight    *float64      `json:"weight" validate:"omitempty,gte=0.1,lte=5000"`
}
