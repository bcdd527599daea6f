// internal/domain/models/grant.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TeamProjectGrant is the access edge letting a team's members view and
// collaborate on a project. Exactly one document per (team_id,
// project_id). The owner team's grant is created with the project and
// is never revocable.
type TeamProjectGrant struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TeamID    primitive.ObjectID `bson:"team_id" json:"team_id"`
	ProjectID primitive.ObjectID `bson:"project_id" json:"project_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
