package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/jobdesk/pkg/app"
	contactpg "github.com/ghuser/jobdesk/services/contact/infrastructure/persistence/postgres"
	itempg "github.com/ghuser/jobdesk/services/item/infrastructure/persistence/postgres"
	"github.com/ghuser/jobdesk/services/job/application/handlers"
	appsvcs "github.com/ghuser/jobdesk/services/job/application/services"
	"github.com/ghuser/jobdesk/services/job/infrastructure/persistence/postgres"
)

// JobRoutes registers job endpoints on the provided chi router. The service
// reads the contact and item repositories directly for referential checks
// and reference resolution.
func JobRoutes(r chi.Router, a *app.Application) {
	repo := postgres.NewJobRepository(a.Db)
	contacts := contactpg.NewContactRepository(a.Db)
	items := itempg.NewItemRepository(a.Db)

	svc := appsvcs.NewJobService(repo, contacts, items, a.Notifier, a.Logger)
	h := handlers.NewJobHandler(svc)

	r.Route("/jobs", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}
