// internal/app/features/blueprints/gettemplate.go
package blueprints

import (
	"context"
	"net/http"

	"github.com/dalemusser/blueprinthub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// ServeTemplate returns the template descriptor for
// GET /api/v1/courses/{courseID}/blueprint_templates/{templateID}.
// {templateID} may be the literal "default".
func (h *Handler) ServeTemplate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	course, ok := h.courseFromRequest(ctx, w, r)
	if !ok {
		return
	}

	tmpl, err := h.Engine.ResolveTemplate(ctx, course.ID, chi.URLParam(r, "templateID"))
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTemplateResponse(tmpl))
}
