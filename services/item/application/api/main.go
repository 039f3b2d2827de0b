package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/jobdesk/pkg/app"
	"github.com/ghuser/jobdesk/pkg/cache"
	"github.com/ghuser/jobdesk/services/item/application/handlers"
	appsvcs "github.com/ghuser/jobdesk/services/item/application/services"
	"github.com/ghuser/jobdesk/services/item/infrastructure/persistence/postgres"
)

// ItemRoutes registers item endpoints on the provided chi router. Redis is
// optional; without it the service reads straight from Postgres.
func ItemRoutes(r chi.Router, a *app.Application) {
	repo := postgres.NewItemRepository(a.Db)

	var itemCache *cache.ItemCache
	if a.Redis != nil {
		itemCache = cache.NewItemCache(a.Redis)
	}

	svc := appsvcs.NewItemService(repo, a.Notifier, itemCache, a.Logger)
	h := handlers.NewItemHandler(svc)

	r.Route("/items", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}
