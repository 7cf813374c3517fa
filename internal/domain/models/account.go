// internal/domain/models/account.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account is a node in the institution's account hierarchy.
//
// It models a document in the `accounts` collection. PathIDs is the
// materialized ancestor chain including the account itself (root first), so
// subtree checks are array-containment matches rather than recursive walks.
// Courses denormalize the same chain into account_path_ids on creation.
type Account struct {
	ID       primitive.ObjectID  `bson:"_id" json:"id"`
	Name     string              `bson:"name" json:"name"`
	ParentID *primitive.ObjectID `bson:"parent_id,omitempty" json:"parent_id,omitempty"`

	PathIDs []primitive.ObjectID `bson:"path_ids" json:"-"`

	Status string `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// InSubtreeOf reports whether the account sits at or below ancestorID.
func (a *Account) InSubtreeOf(ancestorID primitive.ObjectID) bool {
	for _, id := range a.PathIDs {
		if id == ancestorID {
			return true
		}
	}
	return false
}
