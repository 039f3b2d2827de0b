// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/jobdesk/pkg/auth"
	"github.com/ghuser/jobdesk/pkg/httpx"
	contactdomain "github.com/ghuser/jobdesk/services/contact/domain"
	itemdomain "github.com/ghuser/jobdesk/services/item/domain"
	jobdomain "github.com/ghuser/jobdesk/services/job/domain"
)

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
// Defaults to 500 Internal Server Error for unrecognized errors.
func WriteError(w http.ResponseWriter, err error) {
	status := mapErrorToStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	httpx.JSONError(w, status, msg)
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, auth.ErrIdentityNotFound),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized // 401
	case errors.Is(err, contactdomain.ErrContactNotFound),
		errors.Is(err, itemdomain.ErrItemNotFound),
		errors.Is(err, jobdomain.ErrJobNotFound),
		errors.Is(err, jobdomain.ErrSupplierNotFound),
		errors.Is(err, jobdomain.ErrCustomerNotFound),
		errors.Is(err, jobdomain.ErrLineItemNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, contactdomain.ErrAccountExists),
		errors.Is(err, jobdomain.ErrReferenceExists):
		return http.StatusConflict // 409
	default:
		return http.StatusInternalServerError // 500
	}
}
