package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/jobdesk/pkg/auth"
	"github.com/ghuser/jobdesk/pkg/errhttp"
	"github.com/ghuser/jobdesk/pkg/httpx"
	pkgvalidator "github.com/ghuser/jobdesk/pkg/validator"
	appsvcs "github.com/ghuser/jobdesk/services/contact/application/services"
	contactdomain "github.com/ghuser/jobdesk/services/contact/domain"
	"github.com/ghuser/jobdesk/services/contact/domain/models"
)

// ContactHandler serves the contact operations: list (with optional search),
// get, create, update, and delete.
type ContactHandler struct {
	svc *appsvcs.ContactService
}

// NewContactHandler returns a ContactHandler backed by the given service.
func NewContactHandler(svc *appsvcs.ContactService) *ContactHandler {
	return &ContactHandler{svc: svc}
}

// List handles GET /contacts?q=
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	contacts, err := h.svc.List(r.Context(), id.Subject, r.URL.Query().Get("q"))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	if contacts == nil {
		contacts = []*models.Contact{}
	}
	httpx.JSON(w, http.StatusOK, contacts)
}

// Get handles GET /contacts/{id}
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	contactID, ok := parseID(w, r)
	if !ok {
		return
	}

	contact, err := h.svc.Get(r.Context(), id.Subject, contactID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, contact)
}

// Create handles POST /contacts
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	in, ok := pkgvalidator.ValidateRequest[models.CreateContactInput](w, r)
	if !ok {
		return
	}

	contact, err := h.svc.Create(r.Context(), id.Subject, in)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, contact)
}

// Update handles PUT /contacts/{id}
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	contactID, ok := parseID(w, r)
	if !ok {
		return
	}

	in, ok := pkgvalidator.ValidateRequest[models.UpdateContactInput](w, r)
	if !ok {
		return
	}

	contact, err := h.svc.Update(r.Context(), id.Subject, contactID, in)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, contact)
}

// Delete handles DELETE /contacts/{id}. Responds with the deleted entity's id.
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	contactID, ok := parseID(w, r)
	if !ok {
		return
	}

	deletedID, err := h.svc.Delete(r.Context(), id.Subject, contactID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]uuid.UUID{"id": deletedID})
}

// parseID reads the {id} URL parameter. A malformed id cannot resolve to an
// owned contact, so it reports the same NotFound as a missing one.
func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		errhttp.WriteError(w, contactdomain.ErrContactNotFound)
		return uuid.Nil, false
	}
	return id, true
}
