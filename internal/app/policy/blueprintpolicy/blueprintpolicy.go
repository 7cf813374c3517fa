// internal/app/policy/blueprintpolicy/blueprintpolicy.go
package blueprintpolicy

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/blueprinthub/internal/app/store/accounts"
	"github.com/dalemusser/blueprinthub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CanManageAssociations reports whether the current request user may read
// and modify blueprint associations for a template whose master course
// belongs to accountID:
// - Admins always can
// - Coordinators can if the account sits inside the subtree of any of
//   their assigned accounts
// Everyone else cannot. Returns an error only on a database failure, so
// callers can distinguish "not authorized" (false, nil) from "check
// failed" (false, err).
func CanManageAssociations(ctx context.Context, db *mongo.Database, r *http.Request, accountID primitive.ObjectID) (bool, error) {
	if authz.IsAdmin(r) {
		return true, nil
	}
	if !authz.IsCoordinator(r) {
		return false, nil
	}

	assigned := authz.UserAccountIDs(r)
	if len(assigned) == 0 {
		return false, nil
	}
	account, err := accountstore.New(db).GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	for _, id := range assigned {
		if account.InSubtreeOf(id) {
			return true, nil
		}
	}
	return false, nil
}
