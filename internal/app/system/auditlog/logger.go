// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/blueprinthub/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Admin controls logging for blueprint management events (template
	// creation, association updates).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only),
	// "off" (disabled).
	Admin string
}

// Logger records blueprint management events to MongoDB (via audit.Store)
// and to structured logs (via zap), according to Config.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.TemplateID != nil {
		fields = append(fields, zap.String("template_id", event.TemplateID.Hex()))
	}
	if event.CourseID != nil {
		fields = append(fields, zap.String("course_id", event.CourseID.Hex()))
	}
	if len(event.AddedCourseIDs) > 0 {
		fields = append(fields, zap.Int("added", len(event.AddedCourseIDs)))
	}
	if len(event.RemovedCourseIDs) > 0 {
		fields = append(fields, zap.Int("removed", len(event.RemovedCourseIDs)))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	l.zapLog.Info("audit event", fields...)
}

func (l *Logger) record(ctx context.Context, event audit.Event) {
	mode := l.config.Admin
	if mode == "" {
		mode = "all"
	}
	if mode == "off" {
		return
	}
	if mode == "all" || mode == "log" {
		l.logToZap(event)
	}
	if mode == "all" || mode == "db" {
		if _, err := l.store.Record(ctx, event); err != nil {
			// Audit persistence failures must not fail the request.
			l.zapLog.Warn("audit event persist failed", zap.Error(err))
		}
	}
}

// TemplateCreated records a course-to-blueprint conversion.
func (l *Logger) TemplateCreated(ctx context.Context, r *http.Request, actorID primitive.ObjectID, actorName string, templateID, courseID primitive.ObjectID) {
	l.record(ctx, audit.Event{
		Category:   audit.CategoryBlueprint,
		EventType:  audit.EventTemplateCreated,
		Success:    true,
		ActorID:    &actorID,
		ActorName:  actorName,
		TemplateID: &templateID,
		CourseID:   &courseID,
		IP:         getClientIP(r),
	})
}

// AssociationsUpdated records a successful reconciliation with the ids that
// were actually added and removed.
func (l *Logger) AssociationsUpdated(ctx context.Context, r *http.Request, actorID primitive.ObjectID, actorName string, templateID primitive.ObjectID, added, removed []primitive.ObjectID) {
	l.record(ctx, audit.Event{
		Category:         audit.CategoryBlueprint,
		EventType:        audit.EventAssociationsUpdated,
		Success:          true,
		ActorID:          &actorID,
		ActorName:        actorName,
		TemplateID:       &templateID,
		AddedCourseIDs:   added,
		RemovedCourseIDs: removed,
		IP:               getClientIP(r),
	})
}

// AssociationsRejected records a reconciliation that failed validation.
func (l *Logger) AssociationsRejected(ctx context.Context, r *http.Request, actorID primitive.ObjectID, actorName string, templateID primitive.ObjectID, reason string) {
	l.record(ctx, audit.Event{
		Category:      audit.CategoryBlueprint,
		EventType:     audit.EventAssociationsUpdated,
		Success:       false,
		ActorID:       &actorID,
		ActorName:     actorName,
		TemplateID:    &templateID,
		FailureReason: reason,
		IP:            getClientIP(r),
	})
}
