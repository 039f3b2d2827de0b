package auth

import (
	"net/http"

	"github.com/ghuser/jobdesk/pkg/httpx"
)

// currentUser is the response body of the current-user endpoint.
type currentUser struct {
	Subject string         `json:"sub"`
	Claims  map[string]any `json:"claims"`
}

// MeHandler serves the current-user endpoint: the verified caller's subject
// and full token claims. Mount behind RequireAuth.
func MeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := IdentityFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	httpx.JSON(w, http.StatusOK, currentUser{Subject: id.Subject, Claims: id.Claims})
}
