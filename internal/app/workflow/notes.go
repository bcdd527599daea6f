// internal/app/workflow/notes.go
package workflow

import (
	"context"
	"strings"

	"github.com/dalemusser/sprinthub/internal/app/policy/notepolicy"
	"github.com/dalemusser/sprinthub/internal/app/system/authz"
	"github.com/dalemusser/sprinthub/internal/app/system/errs"
	"github.com/dalemusser/sprinthub/internal/app/system/txn"
	"github.com/dalemusser/sprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateNoteInput carries the fields for a new note. Kind is the raw
// request string.
type CreateNoteInput struct {
	TaskID       primitive.ObjectID
	Kind         string
	Content      string
	ParentNoteID *primitive.ObjectID
}

// CreateNote attaches a note to a task. A query or issue note on a
// task with a manager writes the {kind}_raised notification row in the
// same transaction; comments never notify. Replies must point at an
// existing note on the same task, which keeps the thread a tree.
func (e *Engine) CreateNote(ctx context.Context, id authz.Identity, in CreateNoteInput) (models.Note, error) {
	kind, err := models.ParseNoteKind(in.Kind)
	if err != nil {
		return models.Note{}, errs.Validation(err)
	}
	task, err := e.tasks.GetByID(ctx, in.TaskID)
	if err != nil {
		return models.Note{}, errs.FromStore(err)
	}
	project, err := e.projects.GetByIDAny(ctx, task.ProjectID)
	if err != nil {
		return models.Note{}, errs.FromStore(err)
	}
	ok, err := notepolicy.CanCreate(ctx, e.db, id, project)
	if err != nil {
		return models.Note{}, errs.FromStore(err)
	}
	if !ok {
		return models.Note{}, errs.Unauthorizedf("cannot write notes on this task")
	}
	if strings.TrimSpace(in.Content) == "" {
		return models.Note{}, errs.Validationf("note content is required")
	}
	if in.ParentNoteID != nil {
		parent, err := e.notes.GetByID(ctx, *in.ParentNoteID)
		if err != nil {
			return models.Note{}, errs.FromStore(err)
		}
		if parent.TaskID != in.TaskID {
			return models.Note{}, errs.Validationf("reply must target a note on the same task")
		}
	}

	var note models.Note
	err = txn.WithTransaction(ctx, e.client, func(ctx context.Context) error {
		var err error
		note, err = e.notes.Create(ctx, models.Note{
			TaskID:       in.TaskID,
			AuthorID:     id.UserID,
			ParentNoteID: in.ParentNoteID,
			Kind:         kind,
			Content:      in.Content,
		})
		if err != nil {
			return errs.FromStore(err)
		}
		if (kind == models.NoteQuery || kind == models.NoteIssue) && task.ManagerID != nil {
			if _, err := e.dispatch.NoteRaised(ctx, *task.ManagerID, task, kind); err != nil {
				return errs.FromStore(err)
			}
		}
		return nil
	})
	if err != nil {
		return models.Note{}, err
	}
	return note, nil
}

// UpdateNote changes the note's content. Authors edit their own notes.
func (e *Engine) UpdateNote(ctx context.Context, id authz.Identity, noteID primitive.ObjectID, content string) error {
	note, err := e.notes.GetByID(ctx, noteID)
	if err != nil {
		return errs.FromStore(err)
	}
	if !notepolicy.CanEdit(id, note) {
		return errs.Unauthorizedf("not the note's author")
	}
	if strings.TrimSpace(content) == "" {
		return errs.Validationf("note content is required")
	}
	return errs.FromStore(e.notes.UpdateContent(ctx, noteID, content))
}

// ResolveNote marks the note resolved and writes the query_resolved
// notification for its author in the same transaction. Resolving an
// already-resolved note is a no-op and does not notify again.
func (e *Engine) ResolveNote(ctx context.Context, id authz.Identity, noteID primitive.ObjectID) error {
	note, err := e.notes.GetByID(ctx, noteID)
	if err != nil {
		return errs.FromStore(err)
	}
	task, err := e.tasks.GetByIDAny(ctx, note.TaskID)
	if err != nil {
		return errs.FromStore(err)
	}
	project, err := e.projects.GetByIDAny(ctx, task.ProjectID)
	if err != nil {
		return errs.FromStore(err)
	}
	ok, err := notepolicy.CanResolve(ctx, e.db, id, project)
	if err != nil {
		return errs.FromStore(err)
	}
	if !ok {
		return errs.Unauthorizedf("not this project's management")
	}
	if note.Resolved {
		return nil
	}

	return txn.WithTransaction(ctx, e.client, func(ctx context.Context) error {
		if err := e.notes.SetResolved(ctx, noteID, true); err != nil {
			return errs.FromStore(err)
		}
		if _, err := e.dispatch.NoteResolved(ctx, note.AuthorID, task); err != nil {
			return errs.FromStore(err)
		}
		return nil
	})
}

// SoftDeleteNote marks the note deleted. Authors delete their own
// notes; replies keep their parent reference.
func (e *Engine) SoftDeleteNote(ctx context.Context, id authz.Identity, noteID primitive.ObjectID) error {
	note, err := e.notes.GetByID(ctx, noteID)
	if err != nil {
		return errs.FromStore(err)
	}
	if !notepolicy.CanEdit(id, note) {
		return errs.Unauthorizedf("not the note's author")
	}
	return errs.FromStore(e.notes.SetDeleted(ctx, noteID, true))
}

// RestoreNote clears the note's deleted flag. Same authority class as
// delete: the author or an admin.
func (e *Engine) RestoreNote(ctx context.Context, id authz.Identity, noteID primitive.ObjectID) error {
	note, err := e.notes.GetByIDAny(ctx, noteID)
	if err != nil {
		return errs.FromStore(err)
	}
	if !notepolicy.CanEdit(id, note) {
		return errs.Unauthorizedf("not the note's author")
	}
	return errs.FromStore(e.notes.SetDeleted(ctx, noteID, false))
}

// TaskNotes returns the non-deleted notes on a task, oldest first.
func (e *Engine) TaskNotes(ctx context.Context, id authz.Identity, taskID primitive.ObjectID) ([]models.Note, error) {
	task, err := e.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, errs.FromStore(err)
	}
	project, err := e.projects.GetByIDAny(ctx, task.ProjectID)
	if err != nil {
		return nil, errs.FromStore(err)
	}
	ok, err := notepolicy.CanView(ctx, e.db, id, project)
	if err != nil {
		return nil, errs.FromStore(err)
	}
	if !ok {
		return nil, errs.Unauthorizedf("notes not reachable")
	}
	notes, err := e.notes.ListByTask(ctx, taskID)
	if err != nil {
		return nil, errs.FromStore(err)
	}
	return notes, nil
}
