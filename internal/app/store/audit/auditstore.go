// internal/app/store/audit/auditstore.go
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event categories.
const (
	CategoryBlueprint = "blueprint"
)

// Event types recorded by this service.
const (
	EventTemplateCreated     = "template_created"
	EventAssociationsUpdated = "associations_updated"
)

// Event is one audit record in the `audit_events` collection.
//
// EventID is a UUID so events can be correlated with the export pipeline's
// own logs, which do not share our ObjectIDs.
type Event struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID string             `bson:"event_id" json:"event_id"`

	Category  string `bson:"category" json:"category"`
	EventType string `bson:"event_type" json:"event_type"`
	Success   bool   `bson:"success" json:"success"`

	ActorID    *primitive.ObjectID `bson:"actor_id,omitempty" json:"actor_id,omitempty"`
	ActorName  string              `bson:"actor_name,omitempty" json:"actor_name,omitempty"`
	TemplateID *primitive.ObjectID `bson:"template_id,omitempty" json:"template_id,omitempty"`
	CourseID   *primitive.ObjectID `bson:"course_id,omitempty" json:"course_id,omitempty"`

	AddedCourseIDs   []primitive.ObjectID `bson:"added_course_ids,omitempty" json:"added_course_ids,omitempty"`
	RemovedCourseIDs []primitive.ObjectID `bson:"removed_course_ids,omitempty" json:"removed_course_ids,omitempty"`

	FailureReason string `bson:"failure_reason,omitempty" json:"failure_reason,omitempty"`
	IP            string `bson:"ip,omitempty" json:"ip,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_events")}
}

// Record inserts an audit event. If EventID or CreatedAt are unset they are
// filled in here.
func (s *Store) Record(ctx context.Context, e Event) (Event, error) {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	res, err := s.c.InsertOne(ctx, e)
	if err != nil {
		return e, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		e.ID = oid
	}
	return e, nil
}

// ListByTemplate returns events for a template, newest first.
func (s *Store) ListByTemplate(ctx context.Context, templateID primitive.ObjectID, limit int64) ([]Event, error) {
	find := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		find.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, bson.M{"template_id": templateID}, find)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []Event
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
