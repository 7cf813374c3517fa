// internal/app/blueprint/fakes_test.go
package blueprint

import (
	"context"
	"sort"

	"github.com/dalemusser/blueprinthub/internal/app/store/subscriptions"
	"github.com/dalemusser/blueprinthub/internal/app/store/templates"
	"github.com/dalemusser/blueprinthub/internal/app/system/status"
	"github.com/dalemusser/blueprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// In-memory stand-ins for the Mongo stores, mirroring their filter and
// uniqueness behavior closely enough to exercise the engine.

type fakeDirectory struct {
	courses map[primitive.ObjectID]models.Course
}

func newFakeDirectory(courses ...models.Course) *fakeDirectory {
	d := &fakeDirectory{courses: make(map[primitive.ObjectID]models.Course)}
	for _, c := range courses {
		d.courses[c.ID] = c
	}
	return d
}

func (d *fakeDirectory) GetByID(_ context.Context, id primitive.ObjectID) (models.Course, error) {
	c, ok := d.courses[id]
	if !ok {
		return models.Course{}, mongo.ErrNoDocuments
	}
	return c, nil
}

func (d *fakeDirectory) FindEligibleChildren(_ context.Context, accountID primitive.ObjectID, ids []primitive.ObjectID) ([]models.Course, error) {
	var out []models.Course
	for _, id := range ids {
		c, ok := d.courses[id]
		if !ok || c.IsMaster || c.WorkflowState == models.CourseDeleted {
			continue
		}
		inSubtree := false
		for _, p := range c.AccountPathIDs {
			if p == accountID {
				inSubtree = true
				break
			}
		}
		if inSubtree {
			out = append(out, c)
		}
	}
	return out, nil
}

func (d *fakeDirectory) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Course, error) {
	var out []models.Course
	for _, id := range ids {
		if c, ok := d.courses[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (d *fakeDirectory) SetMaster(_ context.Context, id primitive.ObjectID, master bool) error {
	c, ok := d.courses[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	c.IsMaster = master
	d.courses[id] = c
	return nil
}

type subPair struct {
	template primitive.ObjectID
	child    primitive.ObjectID
}

type fakeSubs struct {
	rows map[subPair]models.ChildSubscription
	// failActivateFor simulates losing the unique-index race for a
	// specific child course during apply.
	failActivateFor map[primitive.ObjectID]bool
	activateCalls   int
	deactivateCalls int
}

func newFakeSubs() *fakeSubs {
	return &fakeSubs{
		rows:            make(map[subPair]models.ChildSubscription),
		failActivateFor: make(map[primitive.ObjectID]bool),
	}
}

func (f *fakeSubs) seed(templateID, childID primitive.ObjectID, state models.SubscriptionState) {
	f.rows[subPair{templateID, childID}] = models.ChildSubscription{
		ID:            primitive.NewObjectID(),
		TemplateID:    templateID,
		ChildCourseID: childID,
		State:         state,
	}
}

func (f *fakeSubs) Activate(_ context.Context, templateID, childCourseID primitive.ObjectID) (bool, error) {
	f.activateCalls++
	if f.failActivateFor[childCourseID] {
		return false, substore.ErrActiveSubscriptionExists
	}
	for p, row := range f.rows {
		if p.child == childCourseID && p.template != templateID && row.IsActive() {
			return false, substore.ErrActiveSubscriptionExists
		}
	}
	key := subPair{templateID, childCourseID}
	if row, ok := f.rows[key]; ok {
		if row.IsActive() {
			return false, nil
		}
		row.State = models.SubscriptionActive
		f.rows[key] = row
		return true, nil
	}
	f.seed(templateID, childCourseID, models.SubscriptionActive)
	return true, nil
}

func (f *fakeSubs) Deactivate(_ context.Context, templateID, childCourseID primitive.ObjectID) (bool, error) {
	f.deactivateCalls++
	key := subPair{templateID, childCourseID}
	row, ok := f.rows[key]
	if !ok || !row.IsActive() {
		return false, nil
	}
	row.State = models.SubscriptionDeleted
	f.rows[key] = row
	return true, nil
}

func (f *fakeSubs) ActiveForChildCourses(_ context.Context, ids []primitive.ObjectID) ([]models.ChildSubscription, error) {
	var out []models.ChildSubscription
	for _, id := range ids {
		for p, row := range f.rows {
			if p.child == id && row.IsActive() {
				out = append(out, row)
			}
		}
	}
	return out, nil
}

func (f *fakeSubs) ActiveByTemplate(_ context.Context, templateID, after primitive.ObjectID, limit int64) ([]models.ChildSubscription, error) {
	var out []models.ChildSubscription
	for p, row := range f.rows {
		if p.template != templateID || !row.IsActive() {
			continue
		}
		if !after.IsZero() && row.ChildCourseID.Hex() <= after.Hex() {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ChildCourseID.Hex() < out[j].ChildCourseID.Hex()
	})
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeSubs) CountActiveByTemplate(_ context.Context, templateID primitive.ObjectID) (int64, error) {
	var n int64
	for p, row := range f.rows {
		if p.template == templateID && row.IsActive() {
			n++
		}
	}
	return n, nil
}

func (f *fakeSubs) activeCount() int {
	var n int
	for _, row := range f.rows {
		if row.IsActive() {
			n++
		}
	}
	return n
}

type fakeTemplates struct {
	templates map[primitive.ObjectID]models.BlueprintTemplate
}

func newFakeTemplates(ts ...models.BlueprintTemplate) *fakeTemplates {
	f := &fakeTemplates{templates: make(map[primitive.ObjectID]models.BlueprintTemplate)}
	for _, t := range ts {
		f.templates[t.ID] = t
	}
	return f
}

func (f *fakeTemplates) GetActive(_ context.Context, courseID, id primitive.ObjectID) (models.BlueprintTemplate, error) {
	t, ok := f.templates[id]
	if !ok || t.CourseID != courseID || t.Status != status.Active {
		return models.BlueprintTemplate{}, mongo.ErrNoDocuments
	}
	return t, nil
}

func (f *fakeTemplates) DefaultForCourse(_ context.Context, courseID primitive.ObjectID) (models.BlueprintTemplate, error) {
	var best models.BlueprintTemplate
	found := false
	for _, t := range f.templates {
		if t.CourseID != courseID || !t.FullCourse || t.Status != status.Active {
			continue
		}
		if !found || t.ID.Hex() < best.ID.Hex() {
			best = t
			found = true
		}
	}
	if !found {
		return models.BlueprintTemplate{}, mongo.ErrNoDocuments
	}
	return best, nil
}

func (f *fakeTemplates) Create(_ context.Context, t models.BlueprintTemplate) (models.BlueprintTemplate, error) {
	if t.FullCourse {
		for _, ex := range f.templates {
			if ex.CourseID == t.CourseID && ex.FullCourse && ex.Status == status.Active {
				return models.BlueprintTemplate{}, templatestore.ErrDefaultTemplateExists
			}
		}
	}
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	if t.Status == "" {
		t.Status = status.Active
	}
	f.templates[t.ID] = t
	return t, nil
}
