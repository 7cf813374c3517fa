// internal/domain/models/subscription.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubscriptionState is the lifecycle state of a ChildSubscription.
//
// It is a string enum rather than a bool because export auditing may need
// states beyond active/deleted later (e.g. "suspended") without a schema
// migration.
type SubscriptionState string

const (
	SubscriptionActive  SubscriptionState = "active"
	SubscriptionDeleted SubscriptionState = "deleted"
)

// ChildSubscription links a child course to the blueprint template it
// receives updates from.
//
// It models a document in the `child_subscriptions` collection.
//
// NOTE:
//   - At most one subscription with state "active" may exist per child
//     course across the whole system. The subscriptions store enforces this
//     with a partial unique index on child_course_id.
//   - Subscriptions are never physically removed. A remove transitions the
//     document to SubscriptionDeleted so the export/audit collaborators keep
//     their history; re-adding the same pair reactivates the document.
type ChildSubscription struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TemplateID    primitive.ObjectID `bson:"template_id" json:"template_id"`
	ChildCourseID primitive.ObjectID `bson:"child_course_id" json:"child_course_id"`

	State SubscriptionState `bson:"state" json:"state"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// IsActive reports whether the subscription currently delivers updates.
func (s *ChildSubscription) IsActive() bool {
	return s.State == SubscriptionActive
}
