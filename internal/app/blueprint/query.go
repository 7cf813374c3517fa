// internal/app/blueprint/query.go
package blueprint

import (
	"context"
	"errors"

	"github.com/dalemusser/blueprinthub/internal/app/system/paging"
	"github.com/dalemusser/blueprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// DefaultTemplateSelector is the literal clients may pass in place of a
// template id to mean "the course's full-course template".
const DefaultTemplateSelector = "default"

// ResolveTemplate looks up an active template of courseID by selector:
// either the literal "default" or a template id in hex. Any miss —
// unknown id, deleted template, template owned by another course —
// resolves to KindNotFound.
func (e *Engine) ResolveTemplate(ctx context.Context, courseID primitive.ObjectID, selector string) (models.BlueprintTemplate, error) {
	var (
		tmpl models.BlueprintTemplate
		err  error
	)
	if selector == DefaultTemplateSelector {
		tmpl, err = e.templates.DefaultForCourse(ctx, courseID)
	} else {
		id, hexErr := primitive.ObjectIDFromHex(selector)
		if hexErr != nil {
			return models.BlueprintTemplate{}, newError(KindNotFound, "template %q not found for course %s", selector, courseID.Hex())
		}
		tmpl, err = e.templates.GetActive(ctx, courseID, id)
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.BlueprintTemplate{}, newError(KindNotFound, "template %q not found for course %s", selector, courseID.Hex())
		}
		return models.BlueprintTemplate{}, err
	}
	return tmpl, nil
}

// AssociatedPage is one page of a template's associated child courses,
// ordered ascending by course id so pages are stable while the
// association set churns.
type AssociatedPage struct {
	Courses    []models.Course
	Total      int64
	HasNext    bool
	NextCursor string
}

// ListAssociatedCourses returns the page of child courses after the
// given cursor. Courses that have vanished from the directory since
// their subscription was created are returned as bare ids (zero-valued
// fields) rather than dropped, so counts and cursors stay consistent.
func (e *Engine) ListAssociatedCourses(ctx context.Context, tmpl models.BlueprintTemplate, after primitive.ObjectID, size int) (AssociatedPage, error) {
	subs, err := e.subs.ActiveByTemplate(ctx, tmpl.ID, after, paging.LimitPlusOne(size))
	if err != nil {
		return AssociatedPage{}, err
	}
	hasNext := paging.TrimPage(&subs, size)

	ids := make([]primitive.ObjectID, len(subs))
	for i, s := range subs {
		ids[i] = s.ChildCourseID
	}
	courses, err := e.courses.FindByIDs(ctx, ids)
	if err != nil {
		return AssociatedPage{}, err
	}
	byID := make(map[primitive.ObjectID]models.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}

	page := AssociatedPage{HasNext: hasNext}
	page.Courses = make([]models.Course, 0, len(subs))
	for _, s := range subs {
		c, ok := byID[s.ChildCourseID]
		if !ok {
			c = models.Course{ID: s.ChildCourseID}
		}
		page.Courses = append(page.Courses, c)
	}
	if hasNext {
		page.NextCursor = paging.NextCursor(subs, func(s models.ChildSubscription) primitive.ObjectID {
			return s.ChildCourseID
		})
	}

	total, err := e.subs.CountActiveByTemplate(ctx, tmpl.ID)
	if err != nil {
		return AssociatedPage{}, err
	}
	page.Total = total
	return page, nil
}
