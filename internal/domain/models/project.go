// internal/domain/models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project belongs to exactly one owning team. The ownership link is
// also materialized as a TeamProjectGrant row at creation time, so the
// owner team always appears among the project's grants.
//
// ManagerID is a weak reference to the user managing the project
// (normally the owning team's manager).
type Project struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string              `bson:"name" json:"name"`
	NameCI      string              `bson:"name_ci" json:"name_ci"`
	Summary     string              `bson:"summary,omitempty" json:"summary,omitempty"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	OwnerTeamID primitive.ObjectID  `bson:"owner_team_id" json:"owner_team_id"`
	ManagerID   *primitive.ObjectID `bson:"manager_id,omitempty" json:"manager_id,omitempty"`
	Deadline    *time.Time          `bson:"deadline,omitempty" json:"deadline,omitempty"`
	Deleted     bool                `bson:"deleted" json:"deleted"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
