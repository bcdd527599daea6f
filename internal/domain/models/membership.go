// internal/domain/models/membership.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TeamMembership is the authoritative join between users and teams.
// Exactly one document per (user_id, team_id); the team role is a
// scalar and independent of the user's global role.
type TeamMembership struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	TeamID primitive.ObjectID `bson:"team_id" json:"team_id"`
	Role   TeamRole           `bson:"role" json:"role"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
