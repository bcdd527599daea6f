// internal/app/workflow/tasks.go
package workflow

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/sprinthub/internal/app/policy/projectpolicy"
	"github.com/dalemusser/sprinthub/internal/app/policy/taskpolicy"
	"github.com/dalemusser/sprinthub/internal/app/system/authz"
	"github.com/dalemusser/sprinthub/internal/app/system/errs"
	"github.com/dalemusser/sprinthub/internal/app/system/txn"
	"github.com/dalemusser/sprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CreateTaskInput carries the fields for a new task. Priority is the
// raw request string; empty means the default.
type CreateTaskInput struct {
	Name        string
	Summary     string
	Description string
	ProjectID   primitive.ObjectID
	ManagerID   *primitive.ObjectID
	AssigneeID  *primitive.ObjectID
	Priority    string
	DueDate     *time.Time
}

// CreateTask creates a task in a project. Managers create freely
// within their projects; developers create tasks in reachable projects
// assigned to themselves. When the task lands with an assignee, the
// task_assigned notification row commits in the same transaction.
func (e *Engine) CreateTask(ctx context.Context, id authz.Identity, in CreateTaskInput) (models.Task, error) {
	project, err := e.projects.GetByID(ctx, in.ProjectID)
	if err != nil {
		return models.Task{}, errs.FromStore(err)
	}
	ok, err := taskpolicy.CanCreateIn(ctx, e.db, id, project)
	if err != nil {
		return models.Task{}, errs.FromStore(err)
	}
	if !ok {
		return models.Task{}, errs.Unauthorizedf("cannot create tasks in this project")
	}
	if strings.TrimSpace(in.Name) == "" {
		return models.Task{}, errs.Validationf("task name is required")
	}

	var priority models.Priority
	if in.Priority != "" {
		priority, err = models.ParsePriority(in.Priority)
		if err != nil {
			return models.Task{}, errs.Validation(err)
		}
	}

	// Developers without management rights only create work for
	// themselves.
	manages, err := projectpolicy.CanManage(ctx, e.db, id, project)
	if err != nil {
		return models.Task{}, errs.FromStore(err)
	}
	if !manages {
		if in.AssigneeID == nil || *in.AssigneeID != id.UserID {
			return models.Task{}, errs.Unauthorizedf("developers create tasks assigned to themselves")
		}
	}

	if in.AssigneeID != nil {
		if _, err := e.users.GetByID(ctx, *in.AssigneeID); err != nil {
			return models.Task{}, errs.FromStore(err)
		}
	}

	managerID := in.ManagerID
	if managerID == nil {
		managerID = project.ManagerID
	}

	var task models.Task
	err = txn.WithTransaction(ctx, e.client, func(ctx context.Context) error {
		var err error
		task, err = e.tasks.Create(ctx, models.Task{
			Name:        in.Name,
			Summary:     in.Summary,
			Description: in.Description,
			ProjectID:   in.ProjectID,
			ManagerID:   managerID,
			AssigneeID:  in.AssigneeID,
			Priority:    priority,
			DueDate:     in.DueDate,
		})
		if err != nil {
			return errs.FromStore(err)
		}
		if in.AssigneeID != nil {
			if _, err := e.dispatch.TaskAssigned(ctx, *in.AssigneeID, task); err != nil {
				return errs.FromStore(err)
			}
		}
		return nil
	})
	if err != nil {
		return models.Task{}, err
	}

	e.log.Info("task created",
		zap.String("task_id", task.ID.Hex()),
		zap.String("project_id", in.ProjectID.Hex()))
	return task, nil
}

// UpdateTask changes a task's descriptive fields. Priority is the raw
// request string; empty keeps the current value.
func (e *Engine) UpdateTask(ctx context.Context, id authz.Identity, taskID primitive.ObjectID, name, summary, description, priority string, dueDate *time.Time) error {
	task, err := e.tasks.GetByID(ctx, taskID)
	if err != nil {
		return errs.FromStore(err)
	}
	project, err := e.projects.GetByIDAny(ctx, task.ProjectID)
	if err != nil {
		return errs.FromStore(err)
	}
	ok, err := taskpolicy.CanUpdate(ctx, e.db, id, project)
	if err != nil {
		return errs.FromStore(err)
	}
	if !ok {
		return errs.Unauthorizedf("not this project's management")
	}

	var p models.Priority
	if priority != "" {
		p, err = models.ParsePriority(priority)
		if err != nil {
			return errs.Validation(err)
		}
	}
	return errs.FromStore(e.tasks.UpdateInfo(ctx, taskID, name, summary, description, p, dueDate))
}

// UpdateTaskStatus moves the task to the named completion status. Any
// enum member may follow any other; there is no transition graph.
// Concurrent updates resolve last-write-wins with no version check.
func (e *Engine) UpdateTaskStatus(ctx context.Context, id authz.Identity, taskID primitive.ObjectID, status string) error {
	parsed, err := models.ParseCompletionStatus(status)
	if err != nil {
		return errs.Validation(err)
	}
	task, err := e.tasks.GetByID(ctx, taskID)
	if err != nil {
		return errs.FromStore(err)
	}
	project, err := e.projects.GetByIDAny(ctx, task.ProjectID)
	if err != nil {
		return errs.FromStore(err)
	}
	ok, err := taskpolicy.CanUpdateStatus(ctx, e.db, id, task, project)
	if err != nil {
		return errs.FromStore(err)
	}
	if !ok {
		return errs.Unauthorizedf("not the assignee or project management")
	}
	return errs.FromStore(e.tasks.SetStatus(ctx, taskID, parsed))
}

// AssignTaskToSprint moves the task into a sprint, or out of sprints
// entirely when sprintID is nil. A task is in at most one sprint;
// moving overwrites the reference.
func (e *Engine) AssignTaskToSprint(ctx context.Context, id authz.Identity, taskID primitive.ObjectID, sprintID *primitive.ObjectID) error {
	task, err := e.tasks.GetByID(ctx, taskID)
	if err != nil {
		return errs.FromStore(err)
	}
	project, err := e.projects.GetByIDAny(ctx, task.ProjectID)
	if err != nil {
		return errs.FromStore(err)
	}
	ok, err := taskpolicy.CanUpdate(ctx, e.db, id, project)
	if err != nil {
		return errs.FromStore(err)
	}
	if !ok {
		return errs.Unauthorizedf("not this project's management")
	}
	if sprintID != nil {
		sprint, err := e.sprints.GetByID(ctx, *sprintID)
		if err != nil {
			return errs.FromStore(err)
		}
		if sprint.ProjectID != task.ProjectID {
			return errs.Validationf("sprint belongs to a different project")
		}
	}
	return errs.FromStore(e.tasks.SetSprint(ctx, taskID, sprintID))
}

// SoftDeleteTask marks the task deleted. Sub-tasks and notes keep
// their own flags.
func (e *Engine) SoftDeleteTask(ctx context.Context, id authz.Identity, taskID primitive.ObjectID) error {
	return e.setTaskDeleted(ctx, id, taskID, true)
}

// RestoreTask clears the deleted flag. Idempotent.
func (e *Engine) RestoreTask(ctx context.Context, id authz.Identity, taskID primitive.ObjectID) error {
	return e.setTaskDeleted(ctx, id, taskID, false)
}

func (e *Engine) setTaskDeleted(ctx context.Context, id authz.Identity, taskID primitive.ObjectID, deleted bool) error {
	task, err := e.tasks.GetByIDAny(ctx, taskID)
	if err != nil {
		return errs.FromStore(err)
	}
	project, err := e.projects.GetByIDAny(ctx, task.ProjectID)
	if err != nil {
		return errs.FromStore(err)
	}
	ok, err := taskpolicy.CanUpdate(ctx, e.db, id, project)
	if err != nil {
		return errs.FromStore(err)
	}
	if !ok {
		return errs.Unauthorizedf("not this project's management")
	}
	return errs.FromStore(e.tasks.SetDeleted(ctx, taskID, deleted))
}

// VisibleTasks returns the tasks the identity can see: every task in
// a visible project plus tasks assigned to the identity, de-duplicated.
func (e *Engine) VisibleTasks(ctx context.Context, id authz.Identity) ([]models.Task, error) {
	projectIDs, err := projectpolicy.VisibleProjectIDs(ctx, e.db, id)
	if err != nil {
		return nil, errs.FromStore(err)
	}
	inProjects, err := e.tasks.ListByProjects(ctx, projectIDs)
	if err != nil {
		return nil, errs.FromStore(err)
	}
	assigned, err := e.tasks.ListByAssignee(ctx, id.UserID)
	if err != nil {
		return nil, errs.FromStore(err)
	}

	seen := make(map[primitive.ObjectID]bool, len(inProjects))
	tasks := make([]models.Task, 0, len(inProjects)+len(assigned))
	for _, t := range inProjects {
		seen[t.ID] = true
		tasks = append(tasks, t)
	}
	for _, t := range assigned {
		if !seen[t.ID] {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}
