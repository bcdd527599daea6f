// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account record. Authentication happens outside the core;
// the engine only ever sees a user's id and roles.
//
// NOTE:
//   - Team membership is not embedded on User.
//     Use the team_memberships collection to discover a user's teams.
//   - Approved gates what an account may do at all: unapproved users
//     (fresh registrations, pending visitors) are invisible to the
//     evaluator until an admin approves them.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username   string             `bson:"username" json:"username"`
	UsernameCI string             `bson:"username_ci" json:"username_ci"` // lowercase, diacritics-stripped
	Role       GlobalRole         `bson:"role" json:"role"`
	Approved   bool               `bson:"approved" json:"approved"`
	Deleted    bool               `bson:"deleted" json:"deleted"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
