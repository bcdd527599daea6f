// internal/app/workflow/subtasks.go
package workflow

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/sprinthub/internal/app/policy/subtaskpolicy"
	"github.com/dalemusser/sprinthub/internal/app/system/authz"
	"github.com/dalemusser/sprinthub/internal/app/system/errs"
	"github.com/dalemusser/sprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateSubTaskInput carries the fields for a new sub-task. Type is
// the raw request string.
type CreateSubTaskInput struct {
	ParentTaskID primitive.ObjectID
	Name         string
	Type         string
	DueDate      *time.Time
}

// CreateSubTask adds a typed sub-task under a parent task.
func (e *Engine) CreateSubTask(ctx context.Context, id authz.Identity, in CreateSubTaskInput) (models.SubTask, error) {
	parent, err := e.tasks.GetByID(ctx, in.ParentTaskID)
	if err != nil {
		return models.SubTask{}, errs.FromStore(err)
	}
	project, err := e.projects.GetByIDAny(ctx, parent.ProjectID)
	if err != nil {
		return models.SubTask{}, errs.FromStore(err)
	}
	ok, err := subtaskpolicy.CanCreate(ctx, e.db, id, parent, project)
	if err != nil {
		return models.SubTask{}, errs.FromStore(err)
	}
	if !ok {
		return models.SubTask{}, errs.Unauthorizedf("not the parent task's assignee or project management")
	}
	if strings.TrimSpace(in.Name) == "" {
		return models.SubTask{}, errs.Validationf("sub-task name is required")
	}
	typ, err := models.ParseSubTaskType(in.Type)
	if err != nil {
		return models.SubTask{}, errs.Validation(err)
	}

	sub, err := e.subtasks.Create(ctx, models.SubTask{
		ParentTaskID: in.ParentTaskID,
		Name:         in.Name,
		Type:         typ,
		DueDate:      in.DueDate,
	})
	if err != nil {
		return models.SubTask{}, errs.FromStore(err)
	}
	return sub, nil
}

// UpdateSubTaskStatus moves the sub-task to the named status. Free
// transition, same as tasks.
func (e *Engine) UpdateSubTaskStatus(ctx context.Context, id authz.Identity, subTaskID primitive.ObjectID, status string) error {
	parsed, err := models.ParseCompletionStatus(status)
	if err != nil {
		return errs.Validation(err)
	}
	sub, err := e.subtasks.GetByID(ctx, subTaskID)
	if err != nil {
		return errs.FromStore(err)
	}
	parent, err := e.tasks.GetByIDAny(ctx, sub.ParentTaskID)
	if err != nil {
		return errs.FromStore(err)
	}
	project, err := e.projects.GetByIDAny(ctx, parent.ProjectID)
	if err != nil {
		return errs.FromStore(err)
	}
	ok, err := subtaskpolicy.CanUpdateStatus(ctx, e.db, id, parent, project)
	if err != nil {
		return errs.FromStore(err)
	}
	if !ok {
		return errs.Unauthorizedf("not the parent task's assignee or project management")
	}
	return errs.FromStore(e.subtasks.SetStatus(ctx, subTaskID, parsed))
}

// SoftDeleteSubTask marks the sub-task deleted.
func (e *Engine) SoftDeleteSubTask(ctx context.Context, id authz.Identity, subTaskID primitive.ObjectID) error {
	return e.setSubTaskDeleted(ctx, id, subTaskID, true)
}

// RestoreSubTask clears the deleted flag. Idempotent.
func (e *Engine) RestoreSubTask(ctx context.Context, id authz.Identity, subTaskID primitive.ObjectID) error {
	return e.setSubTaskDeleted(ctx, id, subTaskID, false)
}

func (e *Engine) setSubTaskDeleted(ctx context.Context, id authz.Identity, subTaskID primitive.ObjectID, deleted bool) error {
	sub, err := e.subtasks.GetByIDAny(ctx, subTaskID)
	if err != nil {
		return errs.FromStore(err)
	}
	parent, err := e.tasks.GetByIDAny(ctx, sub.ParentTaskID)
	if err != nil {
		return errs.FromStore(err)
	}
	project, err := e.projects.GetByIDAny(ctx, parent.ProjectID)
	if err != nil {
		return errs.FromStore(err)
	}
	ok, err := subtaskpolicy.CanDelete(ctx, e.db, id, project)
	if err != nil {
		return errs.FromStore(err)
	}
	if !ok {
		return errs.Unauthorizedf("not this project's management")
	}
	return errs.FromStore(e.subtasks.SetDeleted(ctx, subTaskID, deleted))
}

// SubTaskBoard groups a task's sub-tasks into completion-status
// columns. Every status appears as a key even when its column is
// empty.
func (e *Engine) SubTaskBoard(ctx context.Context, id authz.Identity, parentTaskID primitive.ObjectID) (map[models.CompletionStatus][]models.SubTask, error) {
	parent, err := e.tasks.GetByID(ctx, parentTaskID)
	if err != nil {
		return nil, errs.FromStore(err)
	}
	project, err := e.projects.GetByIDAny(ctx, parent.ProjectID)
	if err != nil {
		return nil, errs.FromStore(err)
	}
	ok, err := subtaskpolicy.CanView(ctx, e.db, id, project)
	if err != nil {
		return nil, errs.FromStore(err)
	}
	if !ok {
		return nil, errs.Unauthorizedf("sub-tasks not reachable")
	}

	subs, err := e.subtasks.ListByParent(ctx, parentTaskID)
	if err != nil {
		return nil, errs.FromStore(err)
	}

	board := make(map[models.CompletionStatus][]models.SubTask)
	for _, status := range models.CompletionStatuses() {
		board[status] = nil
	}
	for _, sub := range subs {
		board[sub.Status] = append(board[sub.Status], sub)
	}
	return board, nil
}
