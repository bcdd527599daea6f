// internal/app/workflow/sprints.go
package workflow

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/sprinthub/internal/app/policy/projectpolicy"
	"github.com/dalemusser/sprinthub/internal/app/policy/sprintpolicy"
	"github.com/dalemusser/sprinthub/internal/app/system/authz"
	"github.com/dalemusser/sprinthub/internal/app/system/errs"
	"github.com/dalemusser/sprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateSprintInput carries the fields for a new sprint.
type CreateSprintInput struct {
	ProjectID primitive.ObjectID
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

// CreateSprint creates a time-boxed sprint in a project. The end date
// must be strictly after the start date; a violating payload is
// rejected before any write.
func (e *Engine) CreateSprint(ctx context.Context, id authz.Identity, in CreateSprintInput) (models.Sprint, error) {
	project, err := e.projects.GetByID(ctx, in.ProjectID)
	if err != nil {
		return models.Sprint{}, errs.FromStore(err)
	}
	ok, err := sprintpolicy.CanManage(ctx, e.db, id, project)
	if err != nil {
		return models.Sprint{}, errs.FromStore(err)
	}
	if !ok {
		return models.Sprint{}, errs.Unauthorizedf("not this project's management")
	}
	if strings.TrimSpace(in.Name) == "" {
		return models.Sprint{}, errs.Validationf("sprint name is required")
	}
	if !in.EndDate.After(in.StartDate) {
		return models.Sprint{}, errs.Validationf("sprint end date must be after its start date")
	}

	sprint, err := e.sprints.Create(ctx, models.Sprint{
		Name:      in.Name,
		ProjectID: in.ProjectID,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
	})
	if err != nil {
		return models.Sprint{}, errs.FromStore(err)
	}
	return sprint, nil
}

// UpdateSprint changes a sprint's name and window. Zero times keep
// the current dates; the resulting window must still satisfy
// endDate > startDate or the whole edit is rejected.
func (e *Engine) UpdateSprint(ctx context.Context, id authz.Identity, sprintID primitive.ObjectID, name string, start, end time.Time) error {
	sprint, err := e.sprints.GetByID(ctx, sprintID)
	if err != nil {
		return errs.FromStore(err)
	}
	project, err := e.projects.GetByIDAny(ctx, sprint.ProjectID)
	if err != nil {
		return errs.FromStore(err)
	}
	ok, err := sprintpolicy.CanManage(ctx, e.db, id, project)
	if err != nil {
		return errs.FromStore(err)
	}
	if !ok {
		return errs.Unauthorizedf("not this project's management")
	}

	newStart := sprint.StartDate
	if !start.IsZero() {
		newStart = start
	}
	newEnd := sprint.EndDate
	if !end.IsZero() {
		newEnd = end
	}
	if !newEnd.After(newStart) {
		return errs.Validationf("sprint end date must be after its start date")
	}
	return errs.FromStore(e.sprints.UpdateInfo(ctx, sprintID, name, start, end))
}

// UpdateSprintStatus moves the sprint to the named lifecycle status.
// Free transition, like completion statuses.
func (e *Engine) UpdateSprintStatus(ctx context.Context, id authz.Identity, sprintID primitive.ObjectID, status string) error {
	parsed, err := models.ParseSprintStatus(status)
	if err != nil {
		return errs.Validation(err)
	}
	sprint, err := e.sprints.GetByID(ctx, sprintID)
	if err != nil {
		return errs.FromStore(err)
	}
	project, err := e.projects.GetByIDAny(ctx, sprint.ProjectID)
	if err != nil {
		return errs.FromStore(err)
	}
	ok, err := sprintpolicy.CanManage(ctx, e.db, id, project)
	if err != nil {
		return errs.FromStore(err)
	}
	if !ok {
		return errs.Unauthorizedf("not this project's management")
	}
	return errs.FromStore(e.sprints.SetStatus(ctx, sprintID, parsed))
}

// SoftDeleteSprint marks the sprint deleted. Tasks keep their scalar
// sprint reference; a dangling reference is tolerated until the task
// is reassigned.
func (e *Engine) SoftDeleteSprint(ctx context.Context, id authz.Identity, sprintID primitive.ObjectID) error {
	return e.setSprintDeleted(ctx, id, sprintID, true)
}

// RestoreSprint clears the deleted flag. Idempotent.
func (e *Engine) RestoreSprint(ctx context.Context, id authz.Identity, sprintID primitive.ObjectID) error {
	return e.setSprintDeleted(ctx, id, sprintID, false)
}

func (e *Engine) setSprintDeleted(ctx context.Context, id authz.Identity, sprintID primitive.ObjectID, deleted bool) error {
	sprint, err := e.sprints.GetByIDAny(ctx, sprintID)
	if err != nil {
		return errs.FromStore(err)
	}
	project, err := e.projects.GetByIDAny(ctx, sprint.ProjectID)
	if err != nil {
		return errs.FromStore(err)
	}
	ok, err := sprintpolicy.CanManage(ctx, e.db, id, project)
	if err != nil {
		return errs.FromStore(err)
	}
	if !ok {
		return errs.Unauthorizedf("not this project's management")
	}
	return errs.FromStore(e.sprints.SetDeleted(ctx, sprintID, deleted))
}

// VisibleSprints returns the sprints of every project the identity can
// see.
func (e *Engine) VisibleSprints(ctx context.Context, id authz.Identity) ([]models.Sprint, error) {
	projectIDs, err := projectpolicy.VisibleProjectIDs(ctx, e.db, id)
	if err != nil {
		return nil, errs.FromStore(err)
	}
	sprints, err := e.sprints.ListByProjects(ctx, projectIDs)
	if err != nil {
		return nil, errs.FromStore(err)
	}
	return sprints, nil
}
