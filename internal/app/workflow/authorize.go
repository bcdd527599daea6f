// internal/app/workflow/authorize.go
package workflow

import (
	"context"

	"github.com/dalemusser/sprinthub/internal/app/policy/notepolicy"
	"github.com/dalemusser/sprinthub/internal/app/policy/projectpolicy"
	"github.com/dalemusser/sprinthub/internal/app/policy/sprintpolicy"
	"github.com/dalemusser/sprinthub/internal/app/policy/subtaskpolicy"
	"github.com/dalemusser/sprinthub/internal/app/policy/taskpolicy"
	"github.com/dalemusser/sprinthub/internal/app/policy/teampolicy"
	"github.com/dalemusser/sprinthub/internal/app/system/authz"
	"github.com/dalemusser/sprinthub/internal/app/system/errs"
	"github.com/dalemusser/sprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResourceKind names an entity kind for authorization queries.
type ResourceKind string

const (
	KindTeam    ResourceKind = "team"
	KindProject ResourceKind = "project"
	KindTask    ResourceKind = "task"
	KindSubTask ResourceKind = "sub_task"
	KindSprint  ResourceKind = "sprint"
	KindNote    ResourceKind = "note"
)

// Operation names what the caller wants to do to a resource.
type Operation string

const (
	OpView         Operation = "view"
	OpUpdate       Operation = "update"
	OpUpdateStatus Operation = "update_status"
	OpDelete       Operation = "delete"
	OpRestore      Operation = "restore"
)

// ResourceRef points at one existing resource.
type ResourceRef struct {
	Kind ResourceKind
	ID   primitive.ObjectID
}

// Decision is an explicit allow/deny answer. Denials carry a reason so
// the caller can render it; they are never silently filtered.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision        { return Decision{Allowed: true} }
func deny(r string) Decision { return Decision{Allowed: false, Reason: r} }

// Authorize answers whether the identity may perform op on the
// referenced resource. NotFound is returned for absent or soft-deleted
// targets (restore looks at deleted rows); policy failures surface as
// a Deny decision, not an error.
func (e *Engine) Authorize(ctx context.Context, id authz.Identity, ref ResourceRef, op Operation) (Decision, error) {
	if !id.Valid() {
		return deny("invalid identity"), nil
	}

	switch ref.Kind {
	case KindTeam:
		return e.authorizeTeam(ctx, id, ref.ID, op)
	case KindProject:
		return e.authorizeProject(ctx, id, ref.ID, op)
	case KindTask:
		return e.authorizeTask(ctx, id, ref.ID, op)
	case KindSubTask:
		return e.authorizeSubTask(ctx, id, ref.ID, op)
	case KindSprint:
		return e.authorizeSprint(ctx, id, ref.ID, op)
	case KindNote:
		return e.authorizeNote(ctx, id, ref.ID, op)
	}
	return Decision{}, errs.Validationf("unknown resource kind %q", ref.Kind)
}

func (e *Engine) authorizeTeam(ctx context.Context, id authz.Identity, teamID primitive.ObjectID, op Operation) (Decision, error) {
	if op == OpRestore {
		if _, err := e.teams.GetByIDAny(ctx, teamID); err != nil {
			return Decision{}, errs.FromStore(err)
		}
		return boolDecision(teampolicy.CanAdminister(id), "only admins restore teams"), nil
	}

	if _, err := e.teams.GetByID(ctx, teamID); err != nil {
		return Decision{}, errs.FromStore(err)
	}
	switch op {
	case OpView:
		ok, err := teampolicy.CanView(ctx, e.db, id, teamID)
		if err != nil {
			return Decision{}, errs.FromStore(err)
		}
		return boolDecision(ok, "not a member of this team"), nil
	case OpUpdate:
		ok, err := teampolicy.CanManageRoster(ctx, e.db, id, teamID)
		if err != nil {
			return Decision{}, errs.FromStore(err)
		}
		return boolDecision(ok, "not this team's manager"), nil
	case OpDelete:
		return boolDecision(teampolicy.CanAdminister(id), "only admins delete teams"), nil
	}
	return Decision{}, errs.Validationf("unknown operation %q", op)
}

func (e *Engine) authorizeProject(ctx context.Context, id authz.Identity, projectID primitive.ObjectID, op Operation) (Decision, error) {
	project, err := e.loadProjectFor(ctx, projectID, op)
	if err != nil {
		return Decision{}, err
	}
	switch op {
	case OpView:
		ok, err := projectpolicy.CanView(ctx, e.db, id, project)
		if err != nil {
			return Decision{}, errs.FromStore(err)
		}
		return boolDecision(ok, "project not reachable"), nil
	case OpUpdate, OpDelete, OpRestore:
		ok, err := projectpolicy.CanManage(ctx, e.db, id, project)
		if err != nil {
			return Decision{}, errs.FromStore(err)
		}
		return boolDecision(ok, "not this project's management"), nil
	}
	return Decision{}, errs.Validationf("unknown operation %q", op)
}

func (e *Engine) authorizeTask(ctx context.Context, id authz.Identity, taskID primitive.ObjectID, op Operation) (Decision, error) {
	var task models.Task
	var err error
	if op == OpRestore {
		task, err = e.tasks.GetByIDAny(ctx, taskID)
	} else {
		task, err = e.tasks.GetByID(ctx, taskID)
	}
	if err != nil {
		return Decision{}, errs.FromStore(err)
	}
	project, err := e.projects.GetByIDAny(ctx, task.ProjectID)
	if err != nil {
		return Decision{}, errs.FromStore(err)
	}

	switch op {
	case OpView:
		ok, err := taskpolicy.CanView(ctx, e.db, id, task, project)
		if err != nil {
			return Decision{}, errs.FromStore(err)
		}
		return boolDecision(ok, "task not reachable"), nil
	case OpUpdateStatus:
		ok, err := taskpolicy.CanUpdateStatus(ctx, e.db, id, task, project)
		if err != nil {
			return Decision{}, errs.FromStore(err)
		}
		return boolDecision(ok, "not the assignee or project management"), nil
	case OpUpdate, OpDelete, OpRestore:
		ok, err := taskpolicy.CanUpdate(ctx, e.db, id, project)
		if err != nil {
			return Decision{}, errs.FromStore(err)
		}
		return boolDecision(ok, "not this project's management"), nil
	}
	return Decision{}, errs.Validationf("unknown operation %q", op)
}

func (e *Engine) authorizeSubTask(ctx context.Context, id authz.Identity, subTaskID primitive.ObjectID, op Operation) (Decision, error) {
	var sub models.SubTask
	var err error
	if op == OpRestore {
		sub, err = e.subtasks.GetByIDAny(ctx, subTaskID)
	} else {
		sub, err = e.subtasks.GetByID(ctx, subTaskID)
	}
	if err != nil {
		return Decision{}, errs.FromStore(err)
	}
	parent, err := e.tasks.GetByIDAny(ctx, sub.ParentTaskID)
	if err != nil {
		return Decision{}, errs.FromStore(err)
	}
	project, err := e.projects.GetByIDAny(ctx, parent.ProjectID)
	if err != nil {
		return Decision{}, errs.FromStore(err)
	}

	switch op {
	case OpView:
		ok, err := subtaskpolicy.CanView(ctx, e.db, id, project)
		if err != nil {
			return Decision{}, errs.FromStore(err)
		}
		return boolDecision(ok, "sub-task not reachable"), nil
	case OpUpdateStatus, OpUpdate:
		ok, err := subtaskpolicy.CanUpdateStatus(ctx, e.db, id, parent, project)
		if err != nil {
			return Decision{}, errs.FromStore(err)
		}
		return boolDecision(ok, "not the parent task's assignee or project management"), nil
	case OpDelete, OpRestore:
		ok, err := subtaskpolicy.CanDelete(ctx, e.db, id, project)
		if err != nil {
			return Decision{}, errs.FromStore(err)
		}
		return boolDecision(ok, "not this project's management"), nil
	}
	return Decision{}, errs.Validationf("unknown operation %q", op)
}

func (e *Engine) authorizeSprint(ctx context.Context, id authz.Identity, sprintID primitive.ObjectID, op Operation) (Decision, error) {
	var sprint models.Sprint
	var err error
	if op == OpRestore {
		sprint, err = e.sprints.GetByIDAny(ctx, sprintID)
	} else {
		sprint, err = e.sprints.GetByID(ctx, sprintID)
	}
	if err != nil {
		return Decision{}, errs.FromStore(err)
	}
	project, err := e.projects.GetByIDAny(ctx, sprint.ProjectID)
	if err != nil {
		return Decision{}, errs.FromStore(err)
	}

	switch op {
	case OpView:
		ok, err := sprintpolicy.CanView(ctx, e.db, id, project)
		if err != nil {
			return Decision{}, errs.FromStore(err)
		}
		return boolDecision(ok, "sprint not reachable"), nil
	case OpUpdate, OpUpdateStatus, OpDelete, OpRestore:
		ok, err := sprintpolicy.CanManage(ctx, e.db, id, project)
		if err != nil {
			return Decision{}, errs.FromStore(err)
		}
		return boolDecision(ok, "not this project's management"), nil
	}
	return Decision{}, errs.Validationf("unknown operation %q", op)
}

func (e *Engine) authorizeNote(ctx context.Context, id authz.Identity, noteID primitive.ObjectID, op Operation) (Decision, error) {
	var note models.Note
	var err error
	if op == OpRestore {
		note, err = e.notes.GetByIDAny(ctx, noteID)
	} else {
		note, err = e.notes.GetByID(ctx, noteID)
	}
	if err != nil {
		return Decision{}, errs.FromStore(err)
	}
	task, err := e.tasks.GetByIDAny(ctx, note.TaskID)
	if err != nil {
		return Decision{}, errs.FromStore(err)
	}
	project, err := e.projects.GetByIDAny(ctx, task.ProjectID)
	if err != nil {
		return Decision{}, errs.FromStore(err)
	}

	switch op {
	case OpView:
		ok, err := notepolicy.CanView(ctx, e.db, id, project)
		if err != nil {
			return Decision{}, errs.FromStore(err)
		}
		return boolDecision(ok, "note not reachable"), nil
	case OpUpdate, OpDelete, OpRestore:
		return boolDecision(notepolicy.CanEdit(id, note), "not the note's author"), nil
	case OpUpdateStatus:
		ok, err := notepolicy.CanResolve(ctx, e.db, id, project)
		if err != nil {
			return Decision{}, errs.FromStore(err)
		}
		return boolDecision(ok, "not this project's management"), nil
	}
	return Decision{}, errs.Validationf("unknown operation %q", op)
}

func (e *Engine) loadProjectFor(ctx context.Context, projectID primitive.ObjectID, op Operation) (models.Project, error) {
	var project models.Project
	var err error
	if op == OpRestore {
		project, err = e.projects.GetByIDAny(ctx, projectID)
	} else {
		project, err = e.projects.GetByID(ctx, projectID)
	}
	if err != nil {
		return models.Project{}, errs.FromStore(err)
	}
	return project, nil
}

func boolDecision(ok bool, reason string) Decision {
	if ok {
		return allow()
	}
	return deny(reason)
}

// require converts a Deny decision into the Unauthorized error the
// mutation paths fail closed with.
func require(d Decision, err error) error {
	if err != nil {
		return err
	}
	if !d.Allowed {
		return errs.Unauthorizedf("%s", d.Reason)
	}
	return nil
}
