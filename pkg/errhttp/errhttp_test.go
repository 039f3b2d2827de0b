package errhttp_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ghuser/jobdesk/pkg/auth"
	"github.com/ghuser/jobdesk/pkg/errhttp"
	contactdomain "github.com/ghuser/jobdesk/services/contact/domain"
	itemdomain "github.com/ghuser/jobdesk/services/item/domain"
	jobdomain "github.com/ghuser/jobdesk/services/job/domain"
)

// TestWriteError_StatusMapping verifies each domain sentinel maps to its
// taxonomy status, including wrapped forms.
func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"missing token", auth.ErrMissingToken, http.StatusUnauthorized},
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"no identity", auth.ErrIdentityNotFound, http.StatusUnauthorized},
		{"contact not found", contactdomain.ErrContactNotFound, http.StatusNotFound},
		{"item not found", itemdomain.ErrItemNotFound, http.StatusNotFound},
		{"job not found", jobdomain.ErrJobNotFound, http.StatusNotFound},
		{"supplier not found", jobdomain.ErrSupplierNotFound, http.StatusNotFound},
		{"customer not found", jobdomain.ErrCustomerNotFound, http.StatusNotFound},
		{"line item not found", jobdomain.ErrLineItemNotFound, http.StatusNotFound},
		{"duplicate account", contactdomain.ErrAccountExists, http.StatusConflict},
		{"duplicate reference", jobdomain.ErrReferenceExists, http.StatusConflict},
		{"wrapped sentinel", fmt.Errorf("create job: %w", jobdomain.ErrReferenceExists), http.StatusConflict},
		{"unknown error", errors.New("pg connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			errhttp.WriteError(w, tt.err)
			if w.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, w.Code)
			}
		})
	}
}

// TestWriteError_HidesInternalDetail verifies unrecognized errors never leak
// their message to the client.
func TestWriteError_HidesInternalDetail(t *testing.T) {
	w := httptest.NewRecorder()
	errhttp.WriteError(w, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != http.StatusText(http.StatusInternalServerError) {
		t.Errorf("internal detail leaked: %q", body["error"])
	}
}

// TestWriteError_SentinelMessagePreserved verifies taxonomy errors keep their
// descriptive message.
func TestWriteError_SentinelMessagePreserved(t *testing.T) {
	w := httptest.NewRecorder()
	errhttp.WriteError(w, jobdomain.ErrSupplierNotFound)

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != jobdomain.ErrSupplierNotFound.Error() {
		t.Errorf("expected sentinel message, got %q", body["error"])
	}
}
