// internal/domain/models/sprint.go
package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SprintStatus is the sprint lifecycle enum. Like CompletionStatus it
// has no enforced transition graph.
type SprintStatus string

const (
	SprintPlanning  SprintStatus = "planning"
	SprintActive    SprintStatus = "active"
	SprintCompleted SprintStatus = "completed"
	SprintArchived  SprintStatus = "archived"
)

// ParseSprintStatus converts a request string into a SprintStatus,
// rejecting unknown values.
func ParseSprintStatus(s string) (SprintStatus, error) {
	switch SprintStatus(s) {
	case SprintPlanning, SprintActive, SprintCompleted, SprintArchived:
		return SprintStatus(s), nil
	}
	return "", fmt.Errorf("unknown sprint status %q", s)
}

// Sprint is a time-boxed container of tasks within a project.
// EndDate must be strictly after StartDate; the workflow engine
// enforces this on create and edit, not the store.
type Sprint struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	ProjectID primitive.ObjectID `bson:"project_id" json:"project_id"`
	Status    SprintStatus       `bson:"status" json:"status"`
	StartDate time.Time          `bson:"start_date" json:"start_date"`
	EndDate   time.Time          `bson:"end_date" json:"end_date"`
	Deleted   bool               `bson:"deleted" json:"deleted"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
