// internal/app/store/templates/templatestore.go
package templatestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/blueprinthub/internal/app/system/status"
	"github.com/dalemusser/blueprinthub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

// ErrDefaultTemplateExists is returned when creating a full-course template
// for a course that already has an active one (unique partial index).
var ErrDefaultTemplateExists = errors.New("course already has an active full-course template")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("blueprint_templates")}
}

// GetActive returns the active template with the given id owned by courseID.
// Returns mongo.ErrNoDocuments when absent or owned by another course.
func (s *Store) GetActive(ctx context.Context, courseID, id primitive.ObjectID) (models.BlueprintTemplate, error) {
	var t models.BlueprintTemplate
	err := s.c.FindOne(ctx, bson.M{
		"_id":       id,
		"course_id": courseID,
		"status":    status.Active,
	}).Decode(&t)
	if err != nil {
		return models.BlueprintTemplate{}, err
	}
	return t, nil
}

// DefaultForCourse returns the course's active full-course template.
//
// Upstream invariants guarantee at most one; if the data ever holds more,
// the lowest _id wins so resolution stays deterministic.
func (s *Store) DefaultForCourse(ctx context.Context, courseID primitive.ObjectID) (models.BlueprintTemplate, error) {
	var t models.BlueprintTemplate
	err := s.c.FindOne(ctx, bson.M{
		"course_id":   courseID,
		"full_course": true,
		"status":      status.Active,
	}, options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})).Decode(&t)
	if err != nil {
		return models.BlueprintTemplate{}, err
	}
	return t, nil
}

// Create inserts a new template. If ID is zero a new ObjectID is assigned;
// Status defaults to active.
func (s *Store) Create(ctx context.Context, t models.BlueprintTemplate) (models.BlueprintTemplate, error) {
	now := time.Now().UTC()
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	if t.Status == "" {
		t.Status = status.Active
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		if wafflemongo.IsDup(err) {
			return models.BlueprintTemplate{}, ErrDefaultTemplateExists
		}
		return models.BlueprintTemplate{}, err
	}
	return t, nil
}
