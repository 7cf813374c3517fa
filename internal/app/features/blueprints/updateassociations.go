// internal/app/features/blueprints/updateassociations.go
package blueprints

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/blueprinthub/internal/app/system/authz"
	"github.com/dalemusser/blueprinthub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleUpdateAssociations reconciles the add/remove diff for
// PUT /api/v1/courses/{courseID}/blueprint_templates/{templateID}/update_associations.
// The whole request succeeds or nothing is written.
func (h *Handler) HandleUpdateAssociations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	course, ok := h.courseFromRequest(ctx, w, r)
	if !ok {
		return
	}

	var req updateAssociationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	add, bad := parseIDList(req.CourseIDsToAdd)
	remove, alsoBad := parseIDList(req.CourseIDsToRemove)
	if bad = append(bad, alsoBad...); len(bad) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":              "invalid_targets",
			"message":            "malformed course ids",
			"unknown_course_ids": bad,
		})
		return
	}

	tmpl, err := h.Engine.ResolveTemplate(ctx, course.ID, chi.URLParam(r, "templateID"))
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	_, actorName, actorID, _ := authz.UserCtx(r)

	res, err := h.Engine.ApplyAssociationDiff(ctx, tmpl, add, remove)
	if err != nil {
		if h.AuditLog != nil {
			h.AuditLog.AssociationsRejected(ctx, r, actorID, actorName, tmpl.ID, err.Error())
		}
		h.writeEngineError(w, err)
		return
	}

	if h.AuditLog != nil {
		h.AuditLog.AssociationsUpdated(ctx, r, actorID, actorName, tmpl.ID, add, remove)
	}
	writeJSON(w, http.StatusOK, res)
}

// parseIDList converts hex ids to ObjectIDs, collecting malformed
// entries instead of failing on the first.
func parseIDList(raw []string) ([]primitive.ObjectID, []string) {
	var (
		ids []primitive.ObjectID
		bad []string
	)
	for _, s := range raw {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			bad = append(bad, s)
			continue
		}
		ids = append(ids, id)
	}
	return ids, bad
}
