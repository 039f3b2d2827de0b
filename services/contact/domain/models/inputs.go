package models

// CreateContactInput is the request body for contact creation. The owner is
// always injected from the verified caller, never taken from input.
type CreateContactInput struct {
	Account   string `json:"account" validate:"required,max=100"`
	Company   string `json:"company" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"omitempty,phone"`
	FirstName string `json:"firstName" validate:"omitempty,max=100"`
	LastName  string `json:"lastName" validate:"omitempty,max=100"`
	// Defaults to customer when omitted.
	Type Type `json:"type" validate:"omitempty,oneof=supplier customer"`
}

// UpdateContactInput carries a partial update; nil fields are left unchanged.
type UpdateContactInput struct {
	Account   *string `json:"account" validate:"omitempty,max=100"`
	Company   *string `json:"company" validate:"omitempty,max=100"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone" validate:"omitempty,phone"`
	FirstName *string `json:"firstName" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,max=100"`
	Type      *Type   `json:"type" validate:"omitempty,oneof=supplier customer"`
}
