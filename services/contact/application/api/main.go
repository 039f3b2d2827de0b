package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/jobdesk/pkg/app"
	"github.com/ghuser/jobdesk/services/contact/application/handlers"
	appsvcs "github.com/ghuser/jobdesk/services/contact/application/services"
	"github.com/ghuser/jobdesk/services/contact/infrastructure/persistence/postgres"
)

// ContactRoutes registers contact endpoints on the provided chi router.
func ContactRoutes(r chi.Router, a *app.Application) {
	repo := postgres.NewContactRepository(a.Db)
	svc := appsvcs.NewContactService(repo, a.Notifier, a.Logger)
	h := handlers.NewContactHandler(svc)

	r.Route("/contacts", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}
