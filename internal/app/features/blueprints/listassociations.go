// internal/app/features/blueprints/listassociations.go
package blueprints

import (
	"context"
	"net/http"

	"github.com/dalemusser/blueprinthub/internal/app/system/authz"
	"github.com/dalemusser/blueprinthub/internal/app/system/paging"
	"github.com/dalemusser/blueprinthub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// ServeAssociatedCourses returns one page of the template's associated
// child courses for
// GET /api/v1/courses/{courseID}/blueprint_templates/{templateID}/associated_courses.
// Pages are keyset-paginated via ?after= and ordered by course id, so a
// client walking pages sees every course exactly once even while the
// association set is being edited.
func (h *Handler) ServeAssociatedCourses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
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

	page, err := h.Engine.ListAssociatedCourses(ctx, tmpl, paging.ParseAfter(r), paging.ParsePageSize(r))
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	showSIS := authz.CanViewSISData(r)
	resp := associationsResponse{
		Courses:    make([]courseSummary, 0, len(page.Courses)),
		Total:      page.Total,
		HasNext:    page.HasNext,
		NextCursor: page.NextCursor,
	}
	for _, c := range page.Courses {
		row := courseSummary{
			ID:           c.ID.Hex(),
			Name:         c.Name,
			CourseCode:   c.CourseCode,
			TermName:     c.TermName,
			TeacherNames: c.TeacherNames,
		}
		if showSIS {
			row.SISCourseID = c.SISCourseID
		}
		resp.Courses = append(resp.Courses, row)
	}
	writeJSON(w, http.StatusOK, resp)
}
