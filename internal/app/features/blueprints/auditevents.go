// internal/app/features/blueprints/auditevents.go
package blueprints

import (
	"context"
	"net/http"

	"github.com/dalemusser/blueprinthub/internal/app/store/audit"
	"github.com/dalemusser/blueprinthub/internal/app/system/authz"
	"github.com/dalemusser/blueprinthub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// auditEventsLimit caps how many recent events one request returns.
const auditEventsLimit = 100

// ServeAuditEvents returns the recent audit trail for a template on
// GET /api/v1/courses/{courseID}/blueprint_templates/{templateID}/audit_events.
// Admin only.
func (h *Handler) ServeAuditEvents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if !authz.IsAdmin(r) {
		writeError(w, http.StatusForbidden, "forbidden", "admin access required")
		return
	}

	course, ok := h.courseFromRequest(ctx, w, r)
	if !ok {
		return
	}
	tmpl, err := h.Engine.ResolveTemplate(ctx, course.ID, chi.URLParam(r, "templateID"))
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	events, err := audit.New(h.DB).ListByTemplate(ctx, tmpl.ID, auditEventsLimit)
	if err != nil {
		h.Log.Error("list audit events", zap.String("template_id", tmpl.ID.Hex()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}
