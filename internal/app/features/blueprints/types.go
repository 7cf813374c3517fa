// internal/app/features/blueprints/types.go
package blueprints

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/blueprinthub/internal/app/blueprint"
	"github.com/dalemusser/blueprinthub/internal/app/policy/blueprintpolicy"
	"github.com/dalemusser/blueprinthub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// templateResponse is the JSON descriptor for a blueprint template.
type templateResponse struct {
	ID                    string     `json:"id"`
	CourseID              string     `json:"course_id"`
	FullCourse            bool       `json:"full_course"`
	LastExportCompletedAt *time.Time `json:"last_export_completed_at,omitempty"`
}

func toTemplateResponse(t models.BlueprintTemplate) templateResponse {
	return templateResponse{
		ID:                    t.ID.Hex(),
		CourseID:              t.CourseID.Hex(),
		FullCourse:            t.FullCourse,
		LastExportCompletedAt: t.LastExportCompletedAt,
	}
}

// courseSummary is one row of an associated-courses listing. SISCourseID
// is only populated for callers allowed to see SIS data.
type courseSummary struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	CourseCode   string   `json:"course_code"`
	TermName     string   `json:"term_name,omitempty"`
	TeacherNames []string `json:"teacher_names,omitempty"`
	SISCourseID  string   `json:"sis_course_id,omitempty"`
}

type associationsResponse struct {
	Courses    []courseSummary `json:"courses"`
	Total      int64           `json:"total"`
	HasNext    bool            `json:"has_next"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

type updateAssociationsRequest struct {
	CourseIDsToAdd    []string `json:"course_ids_to_add"`
	CourseIDsToRemove []string `json:"course_ids_to_remove"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, kind, message string) {
	writeJSON(w, code, map[string]any{"error": kind, "message": message})
}

// writeEngineError maps an engine failure to an HTTP response carrying
// the structured detail each kind defines.
func (h *Handler) writeEngineError(w http.ResponseWriter, err error) {
	var engErr *blueprint.Error
	if !errors.As(err, &engErr) {
		h.Log.Error("blueprint operation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	switch engErr.Kind {
	case blueprint.KindNotFound:
		writeError(w, http.StatusNotFound, "not_found", engErr.Error())
	case blueprint.KindConflictingRequest:
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":      "conflicting_request",
			"message":    engErr.Error(),
			"course_ids": hexIDs(engErr.CourseIDs),
		})
	case blueprint.KindInvalidTargets:
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":              "invalid_targets",
			"message":            engErr.Error(),
			"unknown_course_ids": hexIDs(engErr.CourseIDs),
		})
	case blueprint.KindAlreadyAssociated:
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":   "already_associated",
			"message": engErr.Error(),
			"pairs":   engErr.Pairs,
		})
	case blueprint.KindConflict:
		writeError(w, http.StatusConflict, "conflict", engErr.Error())
	default:
		h.Log.Error("blueprint operation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func hexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Hex()
	}
	return out
}

// courseFromRequest parses {courseID}, loads the course, and runs the
// association policy check. On failure it has already written the
// response and returns ok=false.
func (h *Handler) courseFromRequest(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Course, bool) {
	courseID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "courseID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "course not found")
		return models.Course{}, false
	}

	course, err := h.Courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			writeError(w, http.StatusNotFound, "not_found", "course not found")
		} else {
			h.Log.Error("load course", zap.String("course_id", courseID.Hex()), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal", "internal error")
		}
		return models.Course{}, false
	}

	allowed, err := blueprintpolicy.CanManageAssociations(ctx, h.DB, r, course.AccountID)
	if err != nil {
		h.Log.Error("association policy check", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
		return models.Course{}, false
	}
	if !allowed {
		writeError(w, http.StatusForbidden, "forbidden", "not allowed to manage blueprint associations")
		return models.Course{}, false
	}
	return course, true
}
