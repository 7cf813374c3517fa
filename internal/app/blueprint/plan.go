// internal/app/blueprint/plan.go
package blueprint

import (
	"context"
	"sort"

	"github.com/dalemusser/blueprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// changePlan is the validated outcome of a diff request: the add set
// with no-ops removed, and the remove set as given. Validation is pure
// reads; only the apply phase writes.
type changePlan struct {
	add    []primitive.ObjectID
	remove []primitive.ObjectID
}

func (p changePlan) empty() bool { return len(p.add) == 0 && len(p.remove) == 0 }

// planDiff runs the validation sequence. Order matters: a request that
// is internally contradictory fails before target resolution, and
// unresolvable targets fail before cross-template conflicts, so the
// caller always sees the earliest applicable failure.
func (e *Engine) planDiff(ctx context.Context, tmpl models.BlueprintTemplate, master models.Course, add, remove []primitive.ObjectID) (changePlan, error) {
	add = dedupe(add)
	remove = dedupe(remove)

	if both := intersect(add, remove); len(both) > 0 {
		return changePlan{}, &Error{
			Kind:      KindConflictingRequest,
			CourseIDs: both,
			msg:       "courses requested for both add and remove: " + joinIDs(both),
		}
	}

	if len(add) > 0 {
		eligible, err := e.courses.FindEligibleChildren(ctx, master.AccountID, add)
		if err != nil {
			return changePlan{}, err
		}
		found := make(map[primitive.ObjectID]bool, len(eligible))
		for _, c := range eligible {
			found[c.ID] = true
		}
		var missing []primitive.ObjectID
		for _, id := range add {
			if !found[id] {
				missing = append(missing, id)
			}
		}
		if len(missing) > 0 {
			return changePlan{}, &Error{
				Kind:      KindInvalidTargets,
				CourseIDs: missing,
				msg:       "courses not available as association targets: " + joinIDs(missing),
			}
		}

		active, err := e.subs.ActiveForChildCourses(ctx, add)
		if err != nil {
			return changePlan{}, err
		}
		var taken []Pair
		skip := make(map[primitive.ObjectID]bool)
		for _, sub := range active {
			if sub.TemplateID == tmpl.ID {
				// Already ours: adding again is a no-op.
				skip[sub.ChildCourseID] = true
				continue
			}
			taken = append(taken, Pair{TemplateID: sub.TemplateID, CourseID: sub.ChildCourseID})
		}
		if len(taken) > 0 {
			sort.Slice(taken, func(i, j int) bool {
				return taken[i].CourseID.Hex() < taken[j].CourseID.Hex()
			})
			return changePlan{}, &Error{
				Kind:  KindAlreadyAssociated,
				Pairs: taken,
				msg:   "courses already associated to another blueprint",
			}
		}
		if len(skip) > 0 {
			kept := make([]primitive.ObjectID, 0, len(add))
			for _, id := range add {
				if !skip[id] {
					kept = append(kept, id)
				}
			}
			add = kept
		}
	}

	return changePlan{add: add, remove: remove}, nil
}

// dedupe returns a fresh slice; the caller's slice is never written to,
// since callers hold on to their id lists (audit logging records the
// request as received).
func dedupe(ids []primitive.ObjectID) []primitive.ObjectID {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[primitive.ObjectID]bool, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func intersect(a, b []primitive.ObjectID) []primitive.ObjectID {
	inA := make(map[primitive.ObjectID]bool, len(a))
	for _, id := range a {
		inA[id] = true
	}
	var both []primitive.ObjectID
	for _, id := range b {
		if inA[id] {
			both = append(both, id)
		}
	}
	return both
}
