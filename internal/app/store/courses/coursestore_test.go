// internal/app/store/courses/coursestore_test.go
package coursestore_test

import (
	"testing"

	"github.com/dalemusser/blueprinthub/internal/app/store/courses"
	"github.com/dalemusser/blueprinthub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFindEligibleChildren(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	store := coursestore.New(db)
	fx := testutil.NewFixtures(t, db)

	root := fx.CreateAccount(ctx, "District", nil)
	school := fx.CreateAccount(ctx, "School", &root)
	other := fx.CreateAccount(ctx, "Other District", nil)

	inRoot := fx.CreateCourse(ctx, "in-root", root)
	inSchool := fx.CreateCourse(ctx, "in-school", school)
	master := fx.CreateMasterCourse(ctx, "master", root)
	deleted := fx.CreateDeletedCourse(ctx, "deleted", root)
	outside := fx.CreateCourse(ctx, "outside", other)

	ids := []primitive.ObjectID{inRoot.ID, inSchool.ID, master.ID, deleted.ID, outside.ID}
	got, err := store.FindEligibleChildren(ctx, root.ID, ids)
	if err != nil {
		t.Fatalf("FindEligibleChildren: %v", err)
	}

	want := map[primitive.ObjectID]bool{inRoot.ID: true, inSchool.ID: true}
	if len(got) != len(want) {
		t.Fatalf("got %d eligible courses, want %d", len(got), len(want))
	}
	for _, c := range got {
		if !want[c.ID] {
			t.Errorf("unexpected eligible course %s (%s)", c.ID.Hex(), c.Name)
		}
	}

	// Subtree scoping: from the school account, the root course is out.
	got, err = store.FindEligibleChildren(ctx, school.ID, ids)
	if err != nil {
		t.Fatalf("FindEligibleChildren (school): %v", err)
	}
	if len(got) != 1 || got[0].ID != inSchool.ID {
		t.Errorf("school scope returned %v, want only %s", got, inSchool.ID.Hex())
	}

	if got, err := store.FindEligibleChildren(ctx, root.ID, nil); err != nil || got != nil {
		t.Errorf("empty id set: got (%v, %v), want (nil, nil)", got, err)
	}
}

func TestSetMaster(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	store := coursestore.New(db)
	fx := testutil.NewFixtures(t, db)
	account := fx.CreateAccount(ctx, "District", nil)
	course := fx.CreateCourse(ctx, "course", account)

	if err := store.SetMaster(ctx, course.ID, true); err != nil {
		t.Fatalf("SetMaster: %v", err)
	}
	got, err := store.GetByID(ctx, course.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.IsMaster {
		t.Error("course not flagged master")
	}
	if got.UpdatedAt == nil {
		t.Error("UpdatedAt not set by SetMaster")
	}

	if err := store.SetMaster(ctx, primitive.NewObjectID(), true); err == nil {
		t.Error("SetMaster on unknown course should error")
	}
}
