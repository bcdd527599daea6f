// Package taskpolicy provides authorization checks for task access.
package taskpolicy

import (
	"context"

	"github.com/dalemusser/sprinthub/internal/app/policy/projectpolicy"
	"github.com/dalemusser/sprinthub/internal/app/system/authz"
	"github.com/dalemusser/sprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// CanView reports whether the user can see the task: its assignee, or
// anyone who can see the task's project.
func CanView(ctx context.Context, db *mongo.Database, id authz.Identity, task models.Task, project models.Project) (bool, error) {
	if id.IsAdmin() {
		return true, nil
	}
	if task.AssigneeID != nil && *task.AssigneeID == id.UserID {
		return true, nil
	}
	return projectpolicy.Reachable(ctx, db, id.UserID, project)
}

// CanCreateIn reports whether the user can create a task in the given
// project. Project managers create freely; developers create tasks in
// reachable projects for themselves.
func CanCreateIn(ctx context.Context, db *mongo.Database, id authz.Identity, project models.Project) (bool, error) {
	if id.IsAdmin() {
		return true, nil
	}
	manages, err := projectpolicy.CanManage(ctx, db, id, project)
	if err != nil {
		return false, err
	}
	if manages {
		return true, nil
	}
	if id.IsDeveloper() {
		return projectpolicy.Reachable(ctx, db, id.UserID, project)
	}
	return false, nil
}

// CanUpdate reports whether the user can edit the task's descriptive
// fields, soft-delete it, or restore it.
func CanUpdate(ctx context.Context, db *mongo.Database, id authz.Identity, project models.Project) (bool, error) {
	if id.IsAdmin() {
		return true, nil
	}
	return projectpolicy.CanManage(ctx, db, id, project)
}

// CanUpdateStatus reports whether the user can move the task between
// completion statuses. The assignee may, as may anyone who can manage
// the project.
func CanUpdateStatus(ctx context.Context, db *mongo.Database, id authz.Identity, task models.Task, project models.Project) (bool, error) {
	if id.IsAdmin() {
		return true, nil
	}
	if task.AssigneeID != nil && *task.AssigneeID == id.UserID {
		return true, nil
	}
	return projectpolicy.CanManage(ctx, db, id, project)
}
