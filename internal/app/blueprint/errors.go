// internal/app/blueprint/errors.go
package blueprint

import (
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrorKind classifies engine failures so the HTTP layer can map each
// one to a status code without string matching.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindNotFound: the template (or the course being converted) does
	// not exist or is not visible to this course.
	KindNotFound
	// KindConflictingRequest: the same course id appears in both the
	// add and the remove set.
	KindConflictingRequest
	// KindInvalidTargets: some add ids are outside the owning account's
	// subtree, deleted, master courses, or simply unknown.
	KindInvalidTargets
	// KindAlreadyAssociated: a course in the add set already has an
	// active subscription under a different template.
	KindAlreadyAssociated
	// KindConflict: the operation lost a race or violated a storage
	// uniqueness rule (e.g. converting an already-converted course).
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflictingRequest:
		return "conflicting_request"
	case KindInvalidTargets:
		return "invalid_targets"
	case KindAlreadyAssociated:
		return "already_associated"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Pair identifies an active subscription that blocks an add: the course
// and the template it is already subscribed to.
type Pair struct {
	TemplateID primitive.ObjectID `json:"template_id"`
	CourseID   primitive.ObjectID `json:"course_id"`
}

// Error is the engine's failure value. CourseIDs is populated for
// KindConflictingRequest and KindInvalidTargets; Pairs for
// KindAlreadyAssociated.
type Error struct {
	Kind      ErrorKind
	CourseIDs []primitive.ObjectID
	Pairs     []Pair
	msg       string
}

func (e *Error) Error() string {
	if e.msg != "" {
		return e.msg
	}
	return e.Kind.String()
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the ErrorKind from err, or KindUnknown when err is
// not an engine error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func joinIDs(ids []primitive.ObjectID) string {
	hexes := make([]string, len(ids))
	for i, id := range ids {
		hexes[i] = id.Hex()
	}
	return strings.Join(hexes, ", ")
}
