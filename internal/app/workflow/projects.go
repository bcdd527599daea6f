// internal/app/workflow/projects.go
package workflow

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/sprinthub/internal/app/policy/projectpolicy"
	grantstore "github.com/dalemusser/sprinthub/internal/app/store/grants"
	projectstore "github.com/dalemusser/sprinthub/internal/app/store/projects"
	"github.com/dalemusser/sprinthub/internal/app/system/authz"
	"github.com/dalemusser/sprinthub/internal/app/system/errs"
	"github.com/dalemusser/sprinthub/internal/app/system/txn"
	"github.com/dalemusser/sprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CreateProjectInput carries the fields for a new project.
type CreateProjectInput struct {
	Name        string
	Summary     string
	Description string
	OwnerTeamID primitive.ObjectID
	ManagerID   *primitive.ObjectID
	Deadline    *time.Time
}

// CreateProject creates a project owned by a team. The owner team's
// access grant is written in the same transaction; the owner always
// holds a grant and it can never be revoked.
func (e *Engine) CreateProject(ctx context.Context, id authz.Identity, in CreateProjectInput) (models.Project, error) {
	ok, err := projectpolicy.CanCreateIn(ctx, e.db, id, in.OwnerTeamID)
	if err != nil {
		return models.Project{}, errs.FromStore(err)
	}
	if !ok {
		return models.Project{}, errs.Unauthorizedf("not the owner team's manager")
	}
	if strings.TrimSpace(in.Name) == "" {
		return models.Project{}, errs.Validationf("project name is required")
	}
	team, err := e.teams.GetByID(ctx, in.OwnerTeamID)
	if err != nil {
		return models.Project{}, errs.FromStore(err)
	}

	managerID := in.ManagerID
	if managerID == nil {
		managerID = team.ManagerID
	}

	var project models.Project
	err = txn.WithTransaction(ctx, e.client, func(ctx context.Context) error {
		var err error
		project, err = e.projects.Create(ctx, models.Project{
			Name:        in.Name,
			Summary:     in.Summary,
			Description: in.Description,
			OwnerTeamID: in.OwnerTeamID,
			ManagerID:   managerID,
			Deadline:    in.Deadline,
		})
		if err != nil {
			return conflict(err, projectstore.ErrDuplicateProjectName)
		}
		if _, err := e.grants.Add(ctx, in.OwnerTeamID, project.ID); err != nil {
			return errs.FromStore(err)
		}
		return nil
	})
	if err != nil {
		return models.Project{}, err
	}

	e.log.Info("project created",
		zap.String("project_id", project.ID.Hex()),
		zap.String("owner_team_id", in.OwnerTeamID.Hex()))
	return project, nil
}

// UpdateProject changes a project's descriptive fields and deadline.
func (e *Engine) UpdateProject(ctx context.Context, id authz.Identity, projectID primitive.ObjectID, name, summary, description string, deadline *time.Time) error {
	project, err := e.projects.GetByID(ctx, projectID)
	if err != nil {
		return errs.FromStore(err)
	}
	ok, err := projectpolicy.CanManage(ctx, e.db, id, project)
	if err != nil {
		return errs.FromStore(err)
	}
	if !ok {
		return errs.Unauthorizedf("not this project's management")
	}
	if err := e.projects.UpdateInfo(ctx, projectID, name, summary, description, deadline); err != nil {
		return conflict(err, projectstore.ErrDuplicateProjectName)
	}
	return nil
}

// GrantProjectAccess shares the project with another team.
func (e *Engine) GrantProjectAccess(ctx context.Context, id authz.Identity, projectID, teamID primitive.ObjectID) error {
	project, err := e.projects.GetByID(ctx, projectID)
	if err != nil {
		return errs.FromStore(err)
	}
	ok, err := projectpolicy.CanManage(ctx, e.db, id, project)
	if err != nil {
		return errs.FromStore(err)
	}
	if !ok {
		return errs.Unauthorizedf("not this project's management")
	}
	if _, err := e.teams.GetByID(ctx, teamID); err != nil {
		return errs.FromStore(err)
	}
	if _, err := e.grants.Add(ctx, teamID, projectID); err != nil {
		return conflict(err, grantstore.ErrDuplicateGrant)
	}
	return nil
}

// RevokeProjectAccess removes a team's grant. The owner team's grant
// is irrevocable.
func (e *Engine) RevokeProjectAccess(ctx context.Context, id authz.Identity, projectID, teamID primitive.ObjectID) error {
	project, err := e.projects.GetByID(ctx, projectID)
	if err != nil {
		return errs.FromStore(err)
	}
	ok, err := projectpolicy.CanManage(ctx, e.db, id, project)
	if err != nil {
		return errs.FromStore(err)
	}
	if !ok {
		return errs.Unauthorizedf("not this project's management")
	}
	if project.OwnerTeamID == teamID {
		return errs.Validationf("the owner team's grant cannot be revoked")
	}
	return errs.FromStore(e.grants.Remove(ctx, teamID, projectID))
}

// SoftDeleteProject marks the project deleted. Its tasks, sprints and
// grants keep their own flags (no cascade).
func (e *Engine) SoftDeleteProject(ctx context.Context, id authz.Identity, projectID primitive.ObjectID) error {
	project, err := e.projects.GetByIDAny(ctx, projectID)
	if err != nil {
		return errs.FromStore(err)
	}
	ok, err := projectpolicy.CanManage(ctx, e.db, id, project)
	if err != nil {
		return errs.FromStore(err)
	}
	if !ok {
		return errs.Unauthorizedf("not this project's management")
	}
	return errs.FromStore(e.projects.SetDeleted(ctx, projectID, true))
}

// RestoreProject clears the deleted flag. Idempotent; the project
// comes back field-for-field identical except the flag.
func (e *Engine) RestoreProject(ctx context.Context, id authz.Identity, projectID primitive.ObjectID) error {
	project, err := e.projects.GetByIDAny(ctx, projectID)
	if err != nil {
		return errs.FromStore(err)
	}
	ok, err := projectpolicy.CanManage(ctx, e.db, id, project)
	if err != nil {
		return errs.FromStore(err)
	}
	if !ok {
		return errs.Unauthorizedf("not this project's management")
	}
	return errs.FromStore(e.projects.SetDeleted(ctx, projectID, false))
}

// Progress summarizes task completion within one project.
type Progress struct {
	Total     int
	Completed int
	Percent   float64
	ByStatus  map[models.CompletionStatus]int
}

// ProjectProgress reports task totals and completion percentage for a
// project the identity can see.
func (e *Engine) ProjectProgress(ctx context.Context, id authz.Identity, projectID primitive.ObjectID) (Progress, error) {
	project, err := e.projects.GetByID(ctx, projectID)
	if err != nil {
		return Progress{}, errs.FromStore(err)
	}
	ok, err := projectpolicy.CanView(ctx, e.db, id, project)
	if err != nil {
		return Progress{}, errs.FromStore(err)
	}
	if !ok {
		return Progress{}, errs.Unauthorizedf("project not reachable")
	}

	counts, err := e.tasks.CountByStatus(ctx, projectID)
	if err != nil {
		return Progress{}, errs.FromStore(err)
	}

	p := Progress{ByStatus: make(map[models.CompletionStatus]int)}
	for _, status := range models.CompletionStatuses() {
		p.ByStatus[status] = counts[status]
		p.Total += counts[status]
	}
	p.Completed = counts[models.StatusCompleted]
	if p.Total > 0 {
		p.Percent = float64(p.Completed) / float64(p.Total) * 100
	}
	return p, nil
}

// VisibleProjects returns the projects the identity can see,
// de-duplicated. Result order is unspecified.
func (e *Engine) VisibleProjects(ctx context.Context, id authz.Identity) ([]models.Project, error) {
	ids, err := projectpolicy.VisibleProjectIDs(ctx, e.db, id)
	if err != nil {
		return nil, errs.FromStore(err)
	}
	projects, err := e.projects.ListByIDs(ctx, ids)
	if err != nil {
		return nil, errs.FromStore(err)
	}
	return projects, nil
}
