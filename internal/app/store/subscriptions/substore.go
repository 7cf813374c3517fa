// internal/app/store/subscriptions/substore.go
package substore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/blueprinthub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrActiveSubscriptionExists is returned when activating a subscription
// for a child course that already has an active subscription under some
// template. It is the storage-level surface of the one-active-template-per-
// child-course invariant, raised by the partial unique index when two
// reconciliations race.
var ErrActiveSubscriptionExists = errors.New("child course already has an active subscription")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("child_subscriptions")}
}

// Activate creates the active subscription for (templateID, childCourseID),
// reactivating a soft-deleted document for the pair if one exists. It
// reports whether a state transition happened: an already-active pair is a
// no-op with created=false, never an error.
//
// The upsert runs against the pair's unique index; the partial unique index
// on child_course_id rejects the write when a different template holds the
// child actively, which comes back as ErrActiveSubscriptionExists.
func (s *Store) Activate(ctx context.Context, templateID, childCourseID primitive.ObjectID) (created bool, err error) {
	now := time.Now().UTC()
	// Pipeline update so an already-active pair leaves the document
	// untouched (ModifiedCount 0): updated_at only moves on a real
	// state transition, and created_at is preserved on reactivation.
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"state":      models.SubscriptionActive,
			"created_at": bson.M{"$ifNull": bson.A{"$created_at", now}},
			"updated_at": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$state", models.SubscriptionActive}},
				"$updated_at",
				now,
			}},
		}}},
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"template_id": templateID, "child_course_id": childCourseID},
		update,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return false, ErrActiveSubscriptionExists
		}
		return false, err
	}
	return res.ModifiedCount > 0 || res.UpsertedCount > 0, nil
}

// Deactivate transitions the template's active subscription for the child
// course to deleted. Reports whether a document actually transitioned; a
// missing or already-deleted pair is a no-op (removal is idempotent).
func (s *Store) Deactivate(ctx context.Context, templateID, childCourseID primitive.ObjectID) (removed bool, err error) {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"template_id":     templateID,
			"child_course_id": childCourseID,
			"state":           models.SubscriptionActive,
		},
		bson.M{"$set": bson.M{"state": models.SubscriptionDeleted, "updated_at": now}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// ActiveForChildCourses returns every active subscription whose child course
// is in ids, across all templates. The reconciliation engine uses this to
// detect children already claimed by another template.
func (s *Store) ActiveForChildCourses(ctx context.Context, ids []primitive.ObjectID) ([]models.ChildSubscription, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{
		"child_course_id": bson.M{"$in": ids},
		"state":           models.SubscriptionActive,
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.ChildSubscription
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ActiveByTemplate returns one page of the template's active subscriptions
// ordered ascending by child_course_id, resuming strictly after the given
// cursor (NilObjectID starts from the beginning). Fetch limit rows; callers
// pass pageSize+1 for look-ahead pagination.
func (s *Store) ActiveByTemplate(ctx context.Context, templateID, after primitive.ObjectID, limit int64) ([]models.ChildSubscription, error) {
	filter := bson.M{
		"template_id": templateID,
		"state":       models.SubscriptionActive,
	}
	if !after.IsZero() {
		filter["child_course_id"] = bson.M{"$gt": after}
	}
	find := options.Find().
		SetSort(bson.D{{Key: "child_course_id", Value: 1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, filter, find)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.ChildSubscription
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountActiveByTemplate returns the number of active subscriptions under a
// template.
func (s *Store) CountActiveByTemplate(ctx context.Context, templateID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"template_id": templateID,
		"state":       models.SubscriptionActive,
	})
}

// GetPair returns the subscription document for (templateID, childCourseID)
// in any state. Returns mongo.ErrNoDocuments when the pair has no history.
func (s *Store) GetPair(ctx context.Context, templateID, childCourseID primitive.ObjectID) (models.ChildSubscription, error) {
	var sub models.ChildSubscription
	err := s.c.FindOne(ctx, bson.M{
		"template_id":     templateID,
		"child_course_id": childCourseID,
	}).Decode(&sub)
	if err != nil {
		return models.ChildSubscription{}, err
	}
	return sub, nil
}
