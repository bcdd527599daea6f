// internal/domain/models/note.go
package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NoteKind classifies a note on a task. Raising a query or issue
// notifies the task's manager; plain comments do not.
type NoteKind string

const (
	NoteQuery   NoteKind = "query"
	NoteIssue   NoteKind = "issue"
	NoteComment NoteKind = "comment"
)

// ParseNoteKind converts a request string into a NoteKind, rejecting
// unknown values.
func ParseNoteKind(s string) (NoteKind, error) {
	switch NoteKind(s) {
	case NoteQuery, NoteIssue, NoteComment:
		return NoteKind(s), nil
	}
	return "", fmt.Errorf("unknown note kind %q", s)
}

// Note is a threaded comment, query or issue attached to a task.
// ParentNoteID threads replies into a tree; replies always point at an
// existing note on the same task, so the structure cannot cycle.
type Note struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	TaskID       primitive.ObjectID  `bson:"task_id" json:"task_id"`
	AuthorID     primitive.ObjectID  `bson:"author_id" json:"author_id"`
	ParentNoteID *primitive.ObjectID `bson:"parent_note_id,omitempty" json:"parent_note_id,omitempty"`
	Kind         NoteKind            `bson:"kind" json:"kind"`
	Content      string              `bson:"content" json:"content"`
	Resolved     bool                `bson:"resolved" json:"resolved"`
	Deleted      bool                `bson:"deleted" json:"deleted"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
