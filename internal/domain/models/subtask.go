// internal/domain/models/subtask.go
package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubTaskType classifies a sub-task.
type SubTaskType string

const (
	SubTaskBug     SubTaskType = "bug"
	SubTaskUpdate  SubTaskType = "update"
	SubTaskFeature SubTaskType = "feature"
	SubTaskTest    SubTaskType = "test"
)

// ParseSubTaskType converts a request string into a SubTaskType,
// rejecting unknown values.
func ParseSubTaskType(s string) (SubTaskType, error) {
	switch SubTaskType(s) {
	case SubTaskBug, SubTaskUpdate, SubTaskFeature, SubTaskTest:
		return SubTaskType(s), nil
	}
	return "", fmt.Errorf("unknown sub-task type %q", s)
}

// SubTask is a child unit of work under a task, with its own status
// and type. ParentTaskID is a strong reference; deleting the parent
// does not touch the child's own deleted flag (no cascade).
type SubTask struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ParentTaskID primitive.ObjectID `bson:"parent_task_id" json:"parent_task_id"`
	Name         string             `bson:"name" json:"name"`
	Status       CompletionStatus   `bson:"status" json:"status"`
	Type         SubTaskType        `bson:"type" json:"type"`
	DueDate      *time.Time         `bson:"due_date,omitempty" json:"due_date,omitempty"`
	Deleted      bool               `bson:"deleted" json:"deleted"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
