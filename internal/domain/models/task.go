// internal/domain/models/task.go
package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CompletionStatus is the shared status enum for tasks and sub-tasks.
// There is no enforced transition graph: any member may follow any
// other, including completed back to to_do.
type CompletionStatus string

const (
	StatusToDo       CompletionStatus = "to_do"
	StatusInProgress CompletionStatus = "in_progress"
	StatusCompleted  CompletionStatus = "completed"
	StatusFailed     CompletionStatus = "failed"
)

// ParseCompletionStatus converts a request string into a
// CompletionStatus, rejecting unknown values.
func ParseCompletionStatus(s string) (CompletionStatus, error) {
	switch CompletionStatus(s) {
	case StatusToDo, StatusInProgress, StatusCompleted, StatusFailed:
		return CompletionStatus(s), nil
	}
	return "", fmt.Errorf("unknown completion status %q", s)
}

// CompletionStatuses lists the enum members in board-column order.
func CompletionStatuses() []CompletionStatus {
	return []CompletionStatus{StatusToDo, StatusInProgress, StatusCompleted, StatusFailed}
}

// Priority classifies a task's urgency.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// ParsePriority converts a request string into a Priority, rejecting
// unknown values.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return Priority(s), nil
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

// Task is a unit of work inside exactly one project.
//
// NOTE:
//   - ProjectID is a strong reference; ManagerID, AssigneeID and
//     SprintID are weak references that survive deletion of their
//     targets.
//   - SprintID is scalar: a task is in at most one sprint, and moving
//     it between sprints overwrites the field.
type Task struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string              `bson:"name" json:"name"`
	NameCI      string              `bson:"name_ci" json:"name_ci"`
	Summary     string              `bson:"summary,omitempty" json:"summary,omitempty"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	ProjectID   primitive.ObjectID  `bson:"project_id" json:"project_id"`
	ManagerID   *primitive.ObjectID `bson:"manager_id,omitempty" json:"manager_id,omitempty"`
	AssigneeID  *primitive.ObjectID `bson:"assignee_id,omitempty" json:"assignee_id,omitempty"`
	SprintID    *primitive.ObjectID `bson:"sprint_id,omitempty" json:"sprint_id,omitempty"`
	Priority    Priority            `bson:"priority" json:"priority"`
	Status      CompletionStatus    `bson:"status" json:"status"`
	DueDate     *time.Time          `bson:"due_date,omitempty" json:"due_date,omitempty"`
	Deleted     bool                `bson:"deleted" json:"deleted"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
