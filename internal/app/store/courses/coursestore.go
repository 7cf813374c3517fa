// internal/app/store/courses/coursestore.go
package coursestore

import (
	"context"
	"time"

	"github.com/dalemusser/blueprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store is the Mongo-backed course directory. The reconciliation engine
// reads eligibility through it; the only write it performs is the is_master
// flip when a course is converted to a blueprint.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("courses")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Course, error) {
	var c models.Course
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return models.Course{}, err
	}
	return c, nil
}

// FindEligibleChildren returns the courses among ids that may be associated
// as children under a template owned by accountID's subtree: inside the
// subtree, not deleted, and not themselves master courses.
func (s *Store) FindEligibleChildren(ctx context.Context, accountID primitive.ObjectID, ids []primitive.ObjectID) ([]models.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{
		"_id":              bson.M{"$in": ids},
		"account_path_ids": accountID,
		"workflow_state":   bson.M{"$ne": models.CourseDeleted},
		"is_master":        bson.M{"$ne": true},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Course
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindByIDs returns the courses with the given ids, in no particular order.
// Used to enrich association listings; callers re-order by their own key.
func (s *Store) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Course
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetMaster flips the course's is_master flag. Reports whether a course
// document was matched.
func (s *Store) SetMaster(ctx context.Context, id primitive.ObjectID, master bool) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"is_master":  master,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
