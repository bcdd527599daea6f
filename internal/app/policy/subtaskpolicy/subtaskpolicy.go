// Package subtaskpolicy provides authorization checks for sub-task
// access. Sub-task visibility and mutation follow the parent task.
package subtaskpolicy

import (
	"context"

	"github.com/dalemusser/sprinthub/internal/app/policy/projectpolicy"
	"github.com/dalemusser/sprinthub/internal/app/system/authz"
	"github.com/dalemusser/sprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// CanView reports whether the user can see sub-tasks of the parent
// task, which reduces to project reachability.
func CanView(ctx context.Context, db *mongo.Database, id authz.Identity, project models.Project) (bool, error) {
	if id.IsAdmin() {
		return true, nil
	}
	return projectpolicy.Reachable(ctx, db, id.UserID, project)
}

// CanCreate reports whether the user can add a sub-task under the
// parent task: the project's manager, or the parent task's assignee.
func CanCreate(ctx context.Context, db *mongo.Database, id authz.Identity, parent models.Task, project models.Project) (bool, error) {
	if id.IsAdmin() {
		return true, nil
	}
	if parent.AssigneeID != nil && *parent.AssigneeID == id.UserID {
		return true, nil
	}
	return projectpolicy.CanManage(ctx, db, id, project)
}

// CanUpdateStatus reports whether the user can move the sub-task
// between statuses. Same authority as creating one.
func CanUpdateStatus(ctx context.Context, db *mongo.Database, id authz.Identity, parent models.Task, project models.Project) (bool, error) {
	return CanCreate(ctx, db, id, parent, project)
}

// CanDelete reports whether the user can soft-delete or restore the
// sub-task.
func CanDelete(ctx context.Context, db *mongo.Database, id authz.Identity, project models.Project) (bool, error) {
	if id.IsAdmin() {
		return true, nil
	}
	return projectpolicy.CanManage(ctx, db, id, project)
}
