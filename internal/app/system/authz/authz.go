// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/blueprinthub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role (lowercased), name, Mongo ObjectID, and a
// found flag. If no user is present in context or the user ID is malformed,
// it returns "visitor", "", NilObjectID, false. This ensures callers can
// trust that ok=true means a valid, authenticated user with a valid
// ObjectID.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session - fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// IsAdmin reports whether the current request's user is an admin.
// Superadmins count as admins for permission purposes.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && (role == "admin" || role == "superadmin")
}

// IsCoordinator reports whether the current request's user is an account
// coordinator.
func IsCoordinator(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "coordinator"
}

// UserAccountIDs returns the coordinator's assigned account IDs.
// Returns nil if the user is not logged in or has no assignments.
func UserAccountIDs(r *http.Request) []primitive.ObjectID {
	user, ok := auth.CurrentUser(r)
	if !ok || len(user.AccountIDs) == 0 {
		return nil
	}
	out := make([]primitive.ObjectID, 0, len(user.AccountIDs))
	for _, idHex := range user.AccountIDs {
		if oid, err := primitive.ObjectIDFromHex(idHex); err == nil {
			out = append(out, oid)
		}
	}
	return out
}

// CanViewSISData reports whether the current user may see SIS identifiers
// in association listings. Admin-level visibility only.
func CanViewSISData(r *http.Request) bool {
	return IsAdmin(r)
}
