package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/jobdesk/pkg/app"
	"github.com/ghuser/jobdesk/services/stream/application/handlers"
)

// StreamRoutes registers the WebSocket endpoint. It lives outside the
// bearer-header middleware group: connection auth runs inside the handler so
// browser clients can pass the token as a query parameter.
func StreamRoutes(r chi.Router, a *app.Application, originPatterns []string) {
	h := handlers.NewStreamHandler(a.Verifier, a.Notifier, a.Logger, originPatterns)
	r.Get("/ws", h.Serve)
}
