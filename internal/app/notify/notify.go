// Package notify turns hierarchy events into notification rows and
// best-effort email.
//
// Row creation runs inside the caller's transaction so the row commits
// or rolls back with the triggering mutation. Email goes out after the
// transaction commits and never affects the mutation's result.
package notify

import (
	"context"
	"fmt"

	notificationstore "github.com/dalemusser/sprinthub/internal/app/store/notifications"
	profilestore "github.com/dalemusser/sprinthub/internal/app/store/profiles"
	"github.com/dalemusser/sprinthub/internal/app/system/mailer"
	"github.com/dalemusser/sprinthub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Notifier delivers one outbound message. Implementations must treat
// delivery as best-effort; the dispatcher logs and drops failures.
type Notifier interface {
	Send(ctx context.Context, to, subject, textBody, htmlBody string) error
}

// Dispatcher applies the notification rule table.
type Dispatcher struct {
	notifications *notificationstore.Store
	profiles      *profilestore.Store
	notifier      Notifier
	log           *zap.Logger
	siteName      string
	baseURL       string
}

// New constructs a Dispatcher. notifier may be nil, in which case
// email side effects are skipped entirely. baseURL is the public URL
// used for sign-in links in outbound email; empty omits the link.
func New(db *mongo.Database, notifier Notifier, logger *zap.Logger, siteName, baseURL string) *Dispatcher {
	return &Dispatcher{
		notifications: notificationstore.New(db),
		profiles:      profilestore.New(db),
		notifier:      notifier,
		log:           logger,
		siteName:      siteName,
		baseURL:       baseURL,
	}
}

// TaskAssigned records a task_assigned notification for the assignee.
// Called in-transaction when a task is created with an assignee.
func (d *Dispatcher) TaskAssigned(ctx context.Context, assigneeID primitive.ObjectID, task models.Task) (models.Notification, error) {
	return d.notifications.Create(ctx, models.Notification{
		UserID:        assigneeID,
		Kind:          models.NotifyTaskAssigned,
		Description:   fmt.Sprintf("You have been assigned the task %q", task.Name),
		RelatedTaskID: &task.ID,
		EventKey:      uuid.NewString(),
	})
}

// NoteRaised records a {kind}_raised notification for the task's
// manager when a query or issue note lands on the task. Comment notes
// never reach here.
func (d *Dispatcher) NoteRaised(ctx context.Context, managerID primitive.ObjectID, task models.Task, kind models.NoteKind) (models.Notification, error) {
	var nk string
	switch kind {
	case models.NoteQuery:
		nk = models.NotifyQueryRaised
	case models.NoteIssue:
		nk = models.NotifyIssueRaised
	default:
		return models.Notification{}, fmt.Errorf("note kind %q does not raise a notification", kind)
	}
	return d.notifications.Create(ctx, models.Notification{
		UserID:        managerID,
		Kind:          nk,
		Description:   fmt.Sprintf("A %s was raised on the task %q", kind, task.Name),
		RelatedTaskID: &task.ID,
		EventKey:      uuid.NewString(),
	})
}

// NoteResolved records a query_resolved notification for the note's
// author.
func (d *Dispatcher) NoteResolved(ctx context.Context, authorID primitive.ObjectID, task models.Task) (models.Notification, error) {
	return d.notifications.Create(ctx, models.Notification{
		UserID:        authorID,
		Kind:          models.NotifyQueryResolved,
		Description:   fmt.Sprintf("Your note on the task %q was resolved", task.Name),
		RelatedTaskID: &task.ID,
		EventKey:      uuid.NewString(),
	})
}

// EmailUserApproved sends the account-approval email. Call after the
// approving transaction commits; failures are logged, never returned.
func (d *Dispatcher) EmailUserApproved(ctx context.Context, user models.User) {
	if d.notifier == nil {
		return
	}
	profile, err := d.profiles.GetByUserID(ctx, user.ID)
	if err != nil {
		d.log.Warn("approval email skipped, no profile",
			zap.String("user_id", user.ID.Hex()), zap.Error(err))
		return
	}
	email := mailer.BuildApprovalEmail(mailer.ApprovalEmailData{
		SiteName: d.siteName,
		Username: user.Username,
		BaseURL:  d.baseURL,
	})
	if err := d.notifier.Send(ctx, profile.Email, email.Subject, email.TextBody, email.HTMLBody); err != nil {
		d.log.Warn("approval email failed",
			zap.String("to", profile.Email), zap.Error(err))
	}
}

// EmailVisitorApproved sends the visitor-approval email naming the
// project the visitor was approved for. Best-effort, after commit.
func (d *Dispatcher) EmailVisitorApproved(ctx context.Context, user models.User, projectName string) {
	if d.notifier == nil {
		return
	}
	profile, err := d.profiles.GetByUserID(ctx, user.ID)
	if err != nil {
		d.log.Warn("visitor approval email skipped, no profile",
			zap.String("user_id", user.ID.Hex()), zap.Error(err))
		return
	}
	email := mailer.BuildVisitorApprovalEmail(mailer.VisitorApprovalEmailData{
		SiteName:    d.siteName,
		Username:    user.Username,
		ProjectName: projectName,
		BaseURL:     d.baseURL,
	})
	if err := d.notifier.Send(ctx, profile.Email, email.Subject, email.TextBody, email.HTMLBody); err != nil {
		d.log.Warn("visitor approval email failed",
			zap.String("to", profile.Email), zap.Error(err))
	}
}
