// internal/domain/models/template.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BlueprintTemplate is the blueprint configuration attached to a master
// course. Child courses subscribe to a template and receive synced content
// from it (the sync pipeline lives outside this service).
//
// It models a document in the `blueprint_templates` collection.
//
// NOTE:
//   - A course has at most one active full-course template; that template is
//     what the API's "default" selector resolves to.
//   - LastExportCompletedAt is written by the external export worker after
//     each completed sync. This service only reads it.
//   - Templates are soft-deleted via Status; deletion itself is handled by
//     the course-deletion pipeline, not here.
type BlueprintTemplate struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CourseID primitive.ObjectID `bson:"course_id" json:"course_id"`

	// FullCourse marks the template that covers the whole course (the
	// "default" template). Selective-content templates leave this false.
	FullCourse bool `bson:"full_course" json:"full_course"`

	Status string `bson:"status" json:"status"`

	LastExportCompletedAt *time.Time `bson:"last_export_completed_at,omitempty" json:"last_export_completed_at,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}
