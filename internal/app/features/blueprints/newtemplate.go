// internal/app/features/blueprints/newtemplate.go
package blueprints

import (
	"context"
	"net/http"

	"github.com/dalemusser/blueprinthub/internal/app/system/authz"
	"github.com/dalemusser/blueprinthub/internal/app/system/timeouts"
)

// HandleConvertCourse makes a course a blueprint master for
// POST /api/v1/courses/{courseID}/blueprint_templates. The course gets
// its default full-course template and its master flag set.
func (h *Handler) HandleConvertCourse(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	course, ok := h.courseFromRequest(ctx, w, r)
	if !ok {
		return
	}

	tmpl, err := h.Engine.ConvertToBlueprint(ctx, course.ID)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	if h.AuditLog != nil {
		_, actorName, actorID, _ := authz.UserCtx(r)
		h.AuditLog.TemplateCreated(ctx, r, actorID, actorName, tmpl.ID, course.ID)
	}
	writeJSON(w, http.StatusCreated, toTemplateResponse(tmpl))
}
