// internal/app/store/templates/templatestore_test.go
package templatestore_test

import (
	"errors"
	"testing"

	"github.com/dalemusser/blueprinthub/internal/app/store/templates"
	"github.com/dalemusser/blueprinthub/internal/app/system/status"
	"github.com/dalemusser/blueprinthub/internal/domain/models"
	"github.com/dalemusser/blueprinthub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestGetActiveScoping(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	store := templatestore.New(db)
	fx := testutil.NewFixtures(t, db)
	courseID := primitive.NewObjectID()
	otherCourseID := primitive.NewObjectID()

	tmpl := fx.CreateTemplate(ctx, courseID, true)
	otherTmpl := fx.CreateTemplate(ctx, otherCourseID, true)

	got, err := store.GetActive(ctx, courseID, tmpl.ID)
	if err != nil {
		t.Fatalf("GetActive: %v", err)
	}
	if got.ID != tmpl.ID {
		t.Errorf("got template %s, want %s", got.ID.Hex(), tmpl.ID.Hex())
	}

	// A template is only visible through its own course.
	if _, err := store.GetActive(ctx, courseID, otherTmpl.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("cross-course lookup: err = %v, want ErrNoDocuments", err)
	}

	// Soft-deleted templates are invisible.
	if _, err := db.Collection("blueprint_templates").UpdateByID(ctx, tmpl.ID,
		bson.M{"$set": bson.M{"status": status.Deleted}}); err != nil {
		t.Fatalf("mark deleted: %v", err)
	}
	if _, err := store.GetActive(ctx, courseID, tmpl.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("deleted template lookup: err = %v, want ErrNoDocuments", err)
	}
}

func TestDefaultForCourse(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	store := templatestore.New(db)
	fx := testutil.NewFixtures(t, db)
	courseID := primitive.NewObjectID()

	// Only a partial (non-full-course) template: no default.
	fx.CreateTemplate(ctx, courseID, false)
	if _, err := store.DefaultForCourse(ctx, courseID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Fatalf("no full-course template: err = %v, want ErrNoDocuments", err)
	}

	full := fx.CreateTemplate(ctx, courseID, true)
	got, err := store.DefaultForCourse(ctx, courseID)
	if err != nil {
		t.Fatalf("DefaultForCourse: %v", err)
	}
	if got.ID != full.ID {
		t.Errorf("default = %s, want %s", got.ID.Hex(), full.ID.Hex())
	}
}

func TestCreateEnforcesSingleDefault(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	store := templatestore.New(db)
	courseID := primitive.NewObjectID()

	first, err := store.Create(ctx, models.BlueprintTemplate{CourseID: courseID, FullCourse: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.ID.IsZero() || first.Status != status.Active {
		t.Errorf("created template = %+v, want generated id and active status", first)
	}

	_, err = store.Create(ctx, models.BlueprintTemplate{CourseID: courseID, FullCourse: true})
	if !errors.Is(err, templatestore.ErrDefaultTemplateExists) {
		t.Fatalf("second full-course Create: err = %v, want ErrDefaultTemplateExists", err)
	}

	// A partial template may still be added alongside the default.
	if _, err := store.Create(ctx, models.BlueprintTemplate{CourseID: courseID, FullCourse: false}); err != nil {
		t.Errorf("partial Create: %v", err)
	}
}
