// Package notepolicy provides authorization checks for notes on
// tasks.
//
// Authorization rules:
//   - Admins can do anything
//   - Developers create notes on reachable tasks and edit or delete
//     only their own
//   - Managers resolve notes on tasks in projects they manage
//   - Visitors read only
package notepolicy

import (
	"context"

	"github.com/dalemusser/sprinthub/internal/app/policy/projectpolicy"
	"github.com/dalemusser/sprinthub/internal/app/system/authz"
	"github.com/dalemusser/sprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// CanView reports whether the user can read notes on the task, which
// reduces to project reachability.
func CanView(ctx context.Context, db *mongo.Database, id authz.Identity, project models.Project) (bool, error) {
	if id.IsAdmin() {
		return true, nil
	}
	return projectpolicy.Reachable(ctx, db, id.UserID, project)
}

// CanCreate reports whether the user can attach a note to the task.
// Visitors cannot write.
func CanCreate(ctx context.Context, db *mongo.Database, id authz.Identity, project models.Project) (bool, error) {
	if id.IsAdmin() {
		return true, nil
	}
	if id.IsVisitor() {
		return false, nil
	}
	return projectpolicy.Reachable(ctx, db, id.UserID, project)
}

// CanEdit reports whether the user can change or soft-delete the note.
// Only the author (or an admin) may.
func CanEdit(id authz.Identity, note models.Note) bool {
	if id.IsAdmin() {
		return true
	}
	return note.AuthorID == id.UserID
}

// CanResolve reports whether the user can flip the note's resolved
// flag: admins and the task's project management.
func CanResolve(ctx context.Context, db *mongo.Database, id authz.Identity, project models.Project) (bool, error) {
	if id.IsAdmin() {
		return true, nil
	}
	return projectpolicy.CanManage(ctx, db, id, project)
}
