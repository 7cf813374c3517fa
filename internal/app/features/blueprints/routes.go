// internal/app/features/blueprints/routes.go
package blueprints

import (
	"github.com/dalemusser/blueprinthub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the template API under /api/v1/courses.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Everything under /courses requires authentication
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		// CONVERT a course to a blueprint
		pr.Post("/{courseID}/blueprint_templates", h.HandleConvertCourse)

		// TEMPLATE lookup ({templateID} may be the literal "default")
		pr.Get("/{courseID}/blueprint_templates/{templateID}", h.ServeTemplate)

		// ASSOCIATED COURSES listing
		pr.Get("/{courseID}/blueprint_templates/{templateID}/associated_courses", h.ServeAssociatedCourses)

		// RECONCILE associations
		pr.Put("/{courseID}/blueprint_templates/{templateID}/update_associations", h.HandleUpdateAssociations)

		// AUDIT trail (admins)
		pr.Get("/{courseID}/blueprint_templates/{templateID}/audit_events", h.ServeAuditEvents)
	})

	return r
}
