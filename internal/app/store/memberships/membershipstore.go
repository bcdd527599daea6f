// internal/app/store/memberships/membershipstore.go
package membershipstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/sprinthub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateMembership = errors.New("user is already a member of this team")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("team_memberships")}
}

// Add creates a membership for (userID, teamID). One membership per
// pair (unique index); the team role lives on the membership, not the
// user.
func (s *Store) Add(ctx context.Context, userID, teamID primitive.ObjectID, role models.TeamRole) (models.TeamMembership, error) {
	m := models.TeamMembership{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		TeamID:    teamID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.c.InsertOne(ctx, m)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.TeamMembership{}, ErrDuplicateMembership
		}
		return models.TeamMembership{}, err
	}
	return m, nil
}

// Remove deletes the membership document for (userID, teamID).
func (s *Store) Remove(ctx context.Context, userID, teamID primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"user_id": userID, "team_id": teamID})
	return err
}

// RemoveByTeam deletes every membership of a team. Returns the number
// of documents deleted.
func (s *Store) RemoveByTeam(ctx context.Context, teamID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"team_id": teamID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Get returns the membership for (userID, teamID).
func (s *Store) Get(ctx context.Context, userID, teamID primitive.ObjectID) (models.TeamMembership, error) {
	var m models.TeamMembership
	filter := bson.M{"user_id": userID, "team_id": teamID}
	if err := s.c.FindOne(ctx, filter).Decode(&m); err != nil {
		return models.TeamMembership{}, err
	}
	return m, nil
}

// Exists checks whether (userID, teamID) has a membership.
func (s *Store) Exists(ctx context.Context, userID, teamID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"user_id": userID, "team_id": teamID}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListByTeam returns all memberships of a team, optionally filtered by
// role.
func (s *Store) ListByTeam(ctx context.Context, teamID primitive.ObjectID, role models.TeamRole) ([]models.TeamMembership, error) {
	filter := bson.M{"team_id": teamID}
	if role != "" {
		filter["role"] = role
	}
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var memberships []models.TeamMembership
	if err := cur.All(ctx, &memberships); err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListByUser returns all memberships of a user.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.TeamMembership, error) {
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var memberships []models.TeamMembership
	if err := cur.All(ctx, &memberships); err != nil {
		return nil, err
	}
	return memberships, nil
}

// TeamIDsForUser returns the ids of every team the user belongs to.
func (s *Store) TeamIDsForUser(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	memberships, err := s.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.TeamID)
	}
	return ids, nil
}
