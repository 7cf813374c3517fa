// internal/app/features/blueprints/handler.go
package blueprints

import (
	"github.com/dalemusser/blueprinthub/internal/app/blueprint"
	"github.com/dalemusser/blueprinthub/internal/app/store/courses"
	"github.com/dalemusser/blueprinthub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the blueprint template API handlers (template lookup,
// association listing, association reconciliation, course conversion).
//
// It is constructed once at startup in bootstrap, using the shared
// Mongo database handle, the association engine, and the logger.
type Handler struct {
	DB       *mongo.Database
	Engine   *blueprint.Engine
	Courses  *coursestore.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

// NewHandler constructs a Handler bound to the given database, engine,
// audit logger, and logger.
func NewHandler(db *mongo.Database, eng *blueprint.Engine, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Engine:   eng,
		Courses:  coursestore.New(db),
		AuditLog: audit,
		Log:      logger,
	}
}
