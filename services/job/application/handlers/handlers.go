package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/jobdesk/pkg/auth"
	"github.com/ghuser/jobdesk/pkg/errhttp"
	"github.com/ghuser/jobdesk/pkg/httpx"
	pkgvalidator "github.com/ghuser/jobdesk/pkg/validator"
	appsvcs "github.com/ghuser/jobdesk/services/job/application/services"
	jobdomain "github.com/ghuser/jobdesk/services/job/domain"
	"github.com/ghuser/jobdesk/services/job/domain/models"
)

// JobHandler serves the job operations: list, get, create, update, and
// delete. All responses carry the resolved representation with supplier,
// customer, and line items expanded.
type JobHandler struct {
	svc *appsvcs.JobService
}

// NewJobHandler returns a JobHandler backed by the given service.
func NewJobHandler(svc *appsvcs.JobService) *JobHandler {
	return &JobHandler{svc: svc}
}

// List handles GET /jobs
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	jobs, err := h.svc.List(r.Context(), id.Subject)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	if jobs == nil {
		jobs = []*models.ResolvedJob{}
	}
	httpx.JSON(w, http.StatusOK, jobs)
}

// Get handles GET /jobs/{id}
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	jobID, ok := parseID(w, r)
	if !ok {
		return
	}

	job, err := h.svc.Get(r.Context(), id.Subject, jobID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, job)
}

// Create handles POST /jobs
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	in, ok := pkgvalidator.ValidateRequest[models.CreateJobInput](w, r)
	if !ok {
		return
	}

	job, err := h.svc.Create(r.Context(), id.Subject, in)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, job)
}

// Update handles PUT /jobs/{id}
func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	jobID, ok := parseID(w, r)
	if !ok {
		return
	}

	in, ok := pkgvalidator.ValidateRequest[models.UpdateJobInput](w, r)
	if !ok {
		return
	}

	job, err := h.svc.Update(r.Context(), id.Subject, jobID, in)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, job)
}

// Delete handles DELETE /jobs/{id}. Unlike contacts and items, the response
// body is the deleted job itself, resolved.
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	jobID, ok := parseID(w, r)
	if !ok {
		return
	}

	job, err := h.svc.Delete(r.Context(), id.Subject, jobID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, job)
}

// parseID reads the {id} URL parameter. A malformed id cannot resolve to an
// owned job, so it reports the same NotFound as a missing one.
func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		errhttp.WriteError(w, jobdomain.ErrJobNotFound)
		return uuid.Nil, false
	}
	return id, true
}
