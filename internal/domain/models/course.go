// internal/domain/models/course.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Course workflow states. The association engine only distinguishes deleted
// from everything else; the remaining states exist for display and for the
// course lifecycle collaborators.
const (
	CourseUnpublished = "unpublished"
	CourseAvailable   = "available"
	CourseCompleted   = "completed"
	CourseDeleted     = "deleted"
)

// Course is the course directory's view of a course, as consumed by the
// association engine and the listing API.
//
// It models a document in the `courses` collection. This service treats the
// collection as read-mostly: course CRUD belongs to the platform's course
// management service. The one field written here is IsMaster, flipped when a
// course is converted to a blueprint.
//
// AccountPathIDs is the materialized ancestor chain of the owning account
// (root first, own account last). It makes "is this course inside account
// A's subtree" a single equality match instead of a recursive walk.
type Course struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	AccountID primitive.ObjectID `bson:"account_id" json:"account_id"`

	AccountPathIDs []primitive.ObjectID `bson:"account_path_ids" json:"-"`

	Name       string `bson:"name" json:"name"`
	CourseCode string `bson:"course_code" json:"course_code"`

	WorkflowState string `bson:"workflow_state" json:"workflow_state"`

	// IsMaster is true when the course hosts a BlueprintTemplate. A master
	// course can never itself be associated as a child.
	IsMaster bool `bson:"is_master" json:"is_master"`

	// Display enrichment for association listings. Maintained by the course
	// management collaborators; read-only here.
	TermName     string   `bson:"term_name,omitempty" json:"term_name,omitempty"`
	TeacherNames []string `bson:"teacher_names,omitempty" json:"teacher_names,omitempty"`
	SISCourseID  string   `bson:"sis_course_id,omitempty" json:"sis_course_id,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}
