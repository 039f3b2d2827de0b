package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/jobdesk/pkg/auth"
	"github.com/ghuser/jobdesk/pkg/errhttp"
	"github.com/ghuser/jobdesk/pkg/httpx"
	pkgvalidator "github.com/ghuser/jobdesk/pkg/validator"
	appsvcs "github.com/ghuser/jobdesk/services/item/application/services"
	itemdomain "github.com/ghuser/jobdesk/services/item/domain"
	"github.com/ghuser/jobdesk/services/item/domain/models"
)

// ItemHandler serves the item operations: list (with optional search), get,
// create, update, and delete.
type ItemHandler struct {
	svc *appsvcs.ItemService
}

// NewItemHandler returns an ItemHandler backed by the given service.
func NewItemHandler(svc *appsvcs.ItemService) *ItemHandler {
	return &ItemHandler{svc: svc}
}

// List handles GET /items?q=
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	items, err := h.svc.List(r.Context(), id.Subject, r.URL.Query().Get("q"))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	if items == nil {
		items = []*models.Item{}
	}
	httpx.JSON(w, http.StatusOK, items)
}

// Get handles GET /items/{id}
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	itemID, ok := parseID(w, r)
	if !ok {
		return
	}

	item, err := h.svc.Get(r.Context(), id.Subject, itemID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

// Create handles POST /items
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	in, ok := pkgvalidator.ValidateRequest[models.CreateItemInput](w, r)
	if !ok {
		return
	}

	item, err := h.svc.Create(r.Context(), id.Subject, in)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

// Update handles PUT /items/{id}
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	itemID, ok := parseID(w, r)
	if !ok {
		return
	}

	in, ok := pkgvalidator.ValidateRequest[models.UpdateItemInput](w, r)
	if !ok {
		return
	}

	item, err := h.svc.Update(r.Context(), id.Subject, itemID, in)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

// Delete handles DELETE /items/{id}. Responds with the deleted entity's id.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	itemID, ok := parseID(w, r)
	if !ok {
		return
	}

	deletedID, err := h.svc.Delete(r.Context(), id.Subject, itemID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]uuid.UUID{"id": deletedID})
}

// parseID reads the {id} URL parameter. A malformed id cannot resolve to an
// owned item, so it reports the same NotFound as a missing one.
func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		errhttp.WriteError(w, itemdomain.ErrItemNotFound)
		return uuid.Nil, false
	}
	return id, true
}
