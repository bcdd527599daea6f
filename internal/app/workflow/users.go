// internal/app/workflow/users.go
package workflow

import (
	"context"

	membershipstore "github.com/dalemusser/sprinthub/internal/app/store/memberships"
	userstore "github.com/dalemusser/sprinthub/internal/app/store/users"
	"github.com/dalemusser/sprinthub/internal/app/system/authz"
	"github.com/dalemusser/sprinthub/internal/app/system/errs"
	"github.com/dalemusser/sprinthub/internal/app/system/txn"
	"github.com/dalemusser/sprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ApproveUser marks a pending account approved and sends the approval
// email after the write commits. Approving an approved account is a
// no-op and does not email again.
func (e *Engine) ApproveUser(ctx context.Context, id authz.Identity, userID primitive.ObjectID) error {
	if !id.IsAdmin() {
		return errs.Unauthorizedf("only admins approve accounts")
	}
	user, err := e.users.GetByID(ctx, userID)
	if err != nil {
		return errs.FromStore(err)
	}
	if user.Approved {
		return nil
	}
	if err := e.users.SetApproved(ctx, userID, true); err != nil {
		return errs.FromStore(err)
	}

	user.Approved = true
	e.dispatch.EmailUserApproved(ctx, user)
	e.log.Info("user approved", zap.String("user_id", userID.Hex()))
	return nil
}

// ApproveVisitor approves a visitor account for one project: the
// approval flag and a visitor membership in the project's owner team
// commit together, then the visitor-approval email goes out.
func (e *Engine) ApproveVisitor(ctx context.Context, id authz.Identity, userID, projectID primitive.ObjectID) error {
	if !id.IsAdmin() {
		return errs.Unauthorizedf("only admins approve visitors")
	}
	user, err := e.users.GetByID(ctx, userID)
	if err != nil {
		return errs.FromStore(err)
	}
	if user.Role != models.RoleVisitor {
		return errs.Validationf("user %s is not a visitor", user.Username)
	}
	project, err := e.projects.GetByID(ctx, projectID)
	if err != nil {
		return errs.FromStore(err)
	}

	err = txn.WithTransaction(ctx, e.client, func(ctx context.Context) error {
		if err := e.users.SetApproved(ctx, userID, true); err != nil {
			return errs.FromStore(err)
		}
		_, err := e.memberships.Add(ctx, userID, project.OwnerTeamID, models.TeamRoleVisitor)
		if err != nil && err != membershipstore.ErrDuplicateMembership {
			return errs.FromStore(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	user.Approved = true
	e.dispatch.EmailVisitorApproved(ctx, user, project.Name)
	e.log.Info("visitor approved",
		zap.String("user_id", userID.Hex()),
		zap.String("project_id", projectID.Hex()))
	return nil
}

// UpdateUserAccount changes a user's username and/or global role.
// Empty strings leave the field untouched.
func (e *Engine) UpdateUserAccount(ctx context.Context, id authz.Identity, userID primitive.ObjectID, username, role string) error {
	if !id.IsAdmin() {
		return errs.Unauthorizedf("only admins edit accounts")
	}
	if _, err := e.users.GetByID(ctx, userID); err != nil {
		return errs.FromStore(err)
	}
	var parsed models.GlobalRole
	if role != "" {
		var err error
		parsed, err = models.ParseGlobalRole(role)
		if err != nil {
			return errs.Validation(err)
		}
	}
	if err := e.users.UpdateInfo(ctx, userID, username, parsed); err != nil {
		return conflict(err, userstore.ErrDuplicateUsername)
	}
	return nil
}

// SoftDeleteUser marks the account deleted. Memberships, tasks and
// notes referencing the user keep their weak references.
func (e *Engine) SoftDeleteUser(ctx context.Context, id authz.Identity, userID primitive.ObjectID) error {
	if !id.IsAdmin() {
		return errs.Unauthorizedf("only admins delete accounts")
	}
	if _, err := e.users.GetByIDAny(ctx, userID); err != nil {
		return errs.FromStore(err)
	}
	return errs.FromStore(e.users.SetDeleted(ctx, userID, true))
}

// RestoreUser clears the deleted flag. Idempotent.
func (e *Engine) RestoreUser(ctx context.Context, id authz.Identity, userID primitive.ObjectID) error {
	if !id.IsAdmin() {
		return errs.Unauthorizedf("only admins restore accounts")
	}
	if _, err := e.users.GetByIDAny(ctx, userID); err != nil {
		return errs.FromStore(err)
	}
	return errs.FromStore(e.users.SetDeleted(ctx, userID, false))
}

// MarkNotificationRead flips the read flag on one of the identity's
// notifications. Notifications only ever move unread to read.
func (e *Engine) MarkNotificationRead(ctx context.Context, id authz.Identity, notificationID primitive.ObjectID) error {
	n, err := e.notifications.GetByID(ctx, notificationID)
	if err != nil {
		return errs.FromStore(err)
	}
	if n.UserID != id.UserID && !id.IsAdmin() {
		return errs.Unauthorizedf("not this notification's recipient")
	}
	return errs.FromStore(e.notifications.MarkRead(ctx, notificationID))
}

// ListNotifications returns a user's notifications, newest first.
// Users list their own; admins may list anyone's.
func (e *Engine) ListNotifications(ctx context.Context, id authz.Identity, userID primitive.ObjectID, unreadOnly bool) ([]models.Notification, error) {
	if userID != id.UserID && !id.IsAdmin() {
		return nil, errs.Unauthorizedf("cannot read another user's notifications")
	}
	list, err := e.notifications.ListByUser(ctx, userID, unreadOnly)
	if err != nil {
		return nil, errs.FromStore(err)
	}
	return list, nil
}
