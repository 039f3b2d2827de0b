package app

import (
	"github.com/ghuser/jobdesk/pkg/auth"
	"github.com/ghuser/jobdesk/pkg/cache"
	"github.com/ghuser/jobdesk/pkg/database"
	"github.com/ghuser/jobdesk/pkg/logger"
	"github.com/ghuser/jobdesk/pkg/notifier"
)

// Application holds shared infrastructure dependencies for all services.
// Pass to all service Routes calls during server initialization.
//
// Logging: app.Logger is backed by a trace-aware handler; use slog's context
// methods and trace_id, span_id, and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "creating job", "job_id", id)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
type Application struct {
	Db       *database.Database
	Logger   logger.Logger
	Notifier *notifier.Notifier
	Redis    *cache.RedisClient // nil disables the item read-through cache
	Verifier *auth.Verifier
}
