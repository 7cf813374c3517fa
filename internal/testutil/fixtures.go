package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/blueprinthub/internal/app/system/status"
	"github.com/dalemusser/blueprinthub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
// Repeated calls accumulate parameters on the same route context.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateAccount creates an account under parent (nil for a root) with
// its ancestor path materialized.
func (f *Fixtures) CreateAccount(ctx context.Context, name string, parent *models.Account) models.Account {
	f.t.Helper()

	now := time.Now().UTC()
	a := models.Account{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Status:    status.Active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if parent != nil {
		a.ParentID = &parent.ID
		a.PathIDs = append(a.PathIDs, parent.PathIDs...)
	}
	a.PathIDs = append(a.PathIDs, a.ID)

	if _, err := f.db.Collection("accounts").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test account: %v", err)
	}
	return a
}

// CreateCourse creates an available (published) course in the account.
func (f *Fixtures) CreateCourse(ctx context.Context, name string, account models.Account) models.Course {
	f.t.Helper()

	c := models.Course{
		ID:             primitive.NewObjectID(),
		AccountID:      account.ID,
		AccountPathIDs: account.PathIDs,
		Name:           name,
		CourseCode:     name,
		WorkflowState:  models.CourseAvailable,
		CreatedAt:      time.Now().UTC(),
	}
	if _, err := f.db.Collection("courses").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test course: %v", err)
	}
	return c
}

// CreateMasterCourse creates a master (blueprint) course in the account.
func (f *Fixtures) CreateMasterCourse(ctx context.Context, name string, account models.Account) models.Course {
	f.t.Helper()

	c := f.CreateCourse(ctx, name, account)
	c.IsMaster = true
	if _, err := f.db.Collection("courses").ReplaceOne(ctx, bson.M{"_id": c.ID}, c); err != nil {
		f.t.Fatalf("failed to flag master course: %v", err)
	}
	return c
}

// CreateDeletedCourse creates a course with workflow_state deleted.
func (f *Fixtures) CreateDeletedCourse(ctx context.Context, name string, account models.Account) models.Course {
	f.t.Helper()

	c := f.CreateCourse(ctx, name, account)
	c.WorkflowState = models.CourseDeleted
	if _, err := f.db.Collection("courses").ReplaceOne(ctx, bson.M{"_id": c.ID}, c); err != nil {
		f.t.Fatalf("failed to mark course deleted: %v", err)
	}
	return c
}

// CreateTemplate creates an active blueprint template for the course.
func (f *Fixtures) CreateTemplate(ctx context.Context, courseID primitive.ObjectID, fullCourse bool) models.BlueprintTemplate {
	f.t.Helper()

	tmpl := models.BlueprintTemplate{
		ID:         primitive.NewObjectID(),
		CourseID:   courseID,
		FullCourse: fullCourse,
		Status:     status.Active,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := f.db.Collection("blueprint_templates").InsertOne(ctx, tmpl); err != nil {
		f.t.Fatalf("failed to create test template: %v", err)
	}
	return tmpl
}

// CreateSubscription creates a child subscription row in the given state.
func (f *Fixtures) CreateSubscription(ctx context.Context, templateID, childCourseID primitive.ObjectID, state models.SubscriptionState) models.ChildSubscription {
	f.t.Helper()

	s := models.ChildSubscription{
		ID:            primitive.NewObjectID(),
		TemplateID:    templateID,
		ChildCourseID: childCourseID,
		State:         state,
		CreatedAt:     time.Now().UTC(),
	}
	if _, err := f.db.Collection("child_subscriptions").InsertOne(ctx, s); err != nil {
		f.t.Fatalf("failed to create test subscription: %v", err)
	}
	return s
}
