// Package sprintpolicy provides authorization checks for sprint
// access. Sprints are visible to anyone who can reach the project and
// mutable only by its management.
package sprintpolicy

import (
	"context"

	"github.com/dalemusser/sprinthub/internal/app/policy/projectpolicy"
	"github.com/dalemusser/sprinthub/internal/app/system/authz"
	"github.com/dalemusser/sprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// CanView reports whether the user can see sprints of the project.
func CanView(ctx context.Context, db *mongo.Database, id authz.Identity, project models.Project) (bool, error) {
	if id.IsAdmin() {
		return true, nil
	}
	return projectpolicy.Reachable(ctx, db, id.UserID, project)
}

// CanManage reports whether the user can create, edit, soft-delete or
// restore sprints in the project.
func CanManage(ctx context.Context, db *mongo.Database, id authz.Identity, project models.Project) (bool, error) {
	if id.IsAdmin() {
		return true, nil
	}
	return projectpolicy.CanManage(ctx, db, id, project)
}
