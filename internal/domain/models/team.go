// internal/domain/models/team.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Team owns zero or more projects and carries a roster of memberships.
//
// NOTE:
//   - The roster is not embedded here; it lives in the team_memberships
//     collection, one document per (user, team).
//   - ManagerID is a weak reference: the team survives its manager's
//     account being soft-deleted.
//   - Name is unique among non-deleted teams (partial unique index).
type Team struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string              `bson:"name" json:"name"`
	NameCI      string              `bson:"name_ci" json:"name_ci"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	ManagerID   *primitive.ObjectID `bson:"manager_id,omitempty" json:"manager_id,omitempty"`
	Deleted     bool                `bson:"deleted" json:"deleted"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
