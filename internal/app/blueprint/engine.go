// internal/app/blueprint/engine.go
//
// Package blueprint implements the association engine for blueprint
// course templates: resolving a template for a master course, listing
// its associated child courses, and reconciling an add/remove diff of
// associations with all-or-nothing semantics.
package blueprint

import (
	"context"
	"errors"

	"github.com/dalemusser/blueprinthub/internal/app/store/subscriptions"
	"github.com/dalemusser/blueprinthub/internal/app/store/templates"
	"github.com/dalemusser/blueprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// CourseDirectory is the slice of the course catalog the engine needs.
// *coursestore.Store satisfies it; tests use in-memory fakes.
type CourseDirectory interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Course, error)
	FindEligibleChildren(ctx context.Context, accountID primitive.ObjectID, ids []primitive.ObjectID) ([]models.Course, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Course, error)
	SetMaster(ctx context.Context, id primitive.ObjectID, master bool) error
}

// SubscriptionStore is satisfied by *substore.Store.
type SubscriptionStore interface {
	Activate(ctx context.Context, templateID, childCourseID primitive.ObjectID) (created bool, err error)
	Deactivate(ctx context.Context, templateID, childCourseID primitive.ObjectID) (removed bool, err error)
	ActiveForChildCourses(ctx context.Context, ids []primitive.ObjectID) ([]models.ChildSubscription, error)
	ActiveByTemplate(ctx context.Context, templateID, after primitive.ObjectID, limit int64) ([]models.ChildSubscription, error)
	CountActiveByTemplate(ctx context.Context, templateID primitive.ObjectID) (int64, error)
}

// TemplateStore is satisfied by *templatestore.Store.
type TemplateStore interface {
	GetActive(ctx context.Context, courseID, id primitive.ObjectID) (models.BlueprintTemplate, error)
	DefaultForCourse(ctx context.Context, courseID primitive.ObjectID) (models.BlueprintTemplate, error)
	Create(ctx context.Context, t models.BlueprintTemplate) (models.BlueprintTemplate, error)
}

// TxRunner executes fn atomically when the server supports it. In
// production this is a closure over txn.WithTransaction; tests pass a
// plain passthrough.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Engine struct {
	courses   CourseDirectory
	subs      SubscriptionStore
	templates TemplateStore
	runTx     TxRunner
	log       *zap.Logger
}

func NewEngine(courses CourseDirectory, subs SubscriptionStore, templates TemplateStore, runTx TxRunner, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if runTx == nil {
		runTx = func(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }
	}
	return &Engine{courses: courses, subs: subs, templates: templates, runTx: runTx, log: log}
}

// Result reports how many subscriptions actually changed state. No-op
// members of the request (already-added, already-removed) do not count.
type Result struct {
	Added   int `json:"added_count"`
	Removed int `json:"removed_count"`
}

// ApplyAssociationDiff validates the requested add/remove sets against
// the template's owning course and the system-wide subscription state,
// then applies the surviving changes in one transaction. On any
// validation failure nothing is written.
func (e *Engine) ApplyAssociationDiff(ctx context.Context, tmpl models.BlueprintTemplate, add, remove []primitive.ObjectID) (Result, error) {
	master, err := e.courses.GetByID(ctx, tmpl.CourseID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Result{}, newError(KindNotFound, "course %s for template %s not found", tmpl.CourseID.Hex(), tmpl.ID.Hex())
		}
		return Result{}, err
	}

	plan, err := e.planDiff(ctx, tmpl, master, add, remove)
	if err != nil {
		return Result{}, err
	}
	if plan.empty() {
		return Result{}, nil
	}

	var res Result
	err = e.runTx(ctx, func(ctx context.Context) error {
		res = Result{}
		for _, id := range plan.add {
			created, err := e.subs.Activate(ctx, tmpl.ID, id)
			if err != nil {
				return err
			}
			if created {
				res.Added++
			}
		}
		for _, id := range plan.remove {
			removed, err := e.subs.Deactivate(ctx, tmpl.ID, id)
			if err != nil {
				return err
			}
			if removed {
				res.Removed++
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, substore.ErrActiveSubscriptionExists) {
			// Lost a race: another caller claimed one of the courses
			// between validation and apply. The unique index held.
			return Result{}, newError(KindAlreadyAssociated, "a course was associated concurrently")
		}
		return Result{}, err
	}

	e.log.Info("association diff applied",
		zap.String("template_id", tmpl.ID.Hex()),
		zap.Int("added", res.Added),
		zap.Int("removed", res.Removed))
	return res, nil
}

// ConvertToBlueprint makes courseID a master course with a default
// full-course template. A course that is deleted, already a master, or
// itself actively subscribed as a child cannot be converted.
func (e *Engine) ConvertToBlueprint(ctx context.Context, courseID primitive.ObjectID) (models.BlueprintTemplate, error) {
	course, err := e.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.BlueprintTemplate{}, newError(KindNotFound, "course %s not found", courseID.Hex())
		}
		return models.BlueprintTemplate{}, err
	}
	if course.WorkflowState == models.CourseDeleted {
		return models.BlueprintTemplate{}, newError(KindNotFound, "course %s is deleted", courseID.Hex())
	}
	if course.IsMaster {
		return models.BlueprintTemplate{}, newError(KindConflict, "course %s is already a blueprint", courseID.Hex())
	}

	subs, err := e.subs.ActiveForChildCourses(ctx, []primitive.ObjectID{courseID})
	if err != nil {
		return models.BlueprintTemplate{}, err
	}
	if len(subs) > 0 {
		return models.BlueprintTemplate{}, &Error{
			Kind:  KindAlreadyAssociated,
			Pairs: []Pair{{TemplateID: subs[0].TemplateID, CourseID: courseID}},
			msg:   "course is associated to a blueprint and cannot become one",
		}
	}

	var created models.BlueprintTemplate
	err = e.runTx(ctx, func(ctx context.Context) error {
		t, err := e.templates.Create(ctx, models.BlueprintTemplate{
			CourseID:   courseID,
			FullCourse: true,
		})
		if err != nil {
			return err
		}
		created = t
		return e.courses.SetMaster(ctx, courseID, true)
	})
	if err != nil {
		if errors.Is(err, templatestore.ErrDefaultTemplateExists) {
			return models.BlueprintTemplate{}, newError(KindConflict, "course %s already has a blueprint template", courseID.Hex())
		}
		return models.BlueprintTemplate{}, err
	}

	e.log.Info("course converted to blueprint",
		zap.String("course_id", courseID.Hex()),
		zap.String("template_id", created.ID.Hex()))
	return created, nil
}
