// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"

	"github.com/dalemusser/blueprinthub/internal/app/blueprint"
	blueprintsfeature "github.com/dalemusser/blueprinthub/internal/app/features/blueprints"
	healthfeature "github.com/dalemusser/blueprinthub/internal/app/features/health"
	"github.com/dalemusser/blueprinthub/internal/app/store/audit"
	"github.com/dalemusser/blueprinthub/internal/app/store/courses"
	"github.com/dalemusser/blueprinthub/internal/app/store/subscriptions"
	"github.com/dalemusser/blueprinthub/internal/app/store/templates"
	"github.com/dalemusser/blueprinthub/internal/app/system/auditlog"
	"github.com/dalemusser/blueprinthub/internal/app/system/auth"
	"github.com/dalemusser/blueprinthub/internal/app/system/txn"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. BlueprintHub wires the association
// engine over the Mongo stores, applies session middleware, and mounts
// the health and template API routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase
	runTx := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return txn.WithTransaction(ctx, deps.MongoClient, fn)
	}
	engine := blueprint.NewEngine(
		coursestore.New(db),
		substore.New(db),
		templatestore.New(db),
		runTx,
		logger,
	)

	auditLogger := auditlog.New(audit.New(db), logger, auditlog.Config{
		Admin: appCfg.AuditLogAdmin,
	})

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Blueprint template API
	blueprintsHandler := blueprintsfeature.NewHandler(db, engine, auditLogger, logger)
	r.Mount("/api/v1/courses", blueprintsfeature.Routes(blueprintsHandler, sessionMgr))

	return r, nil
}
