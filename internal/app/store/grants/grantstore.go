// internal/app/store/grants/grantstore.go
package grantstore

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

var ErrDuplicateGrant = errors.New("team already has access to this project")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("team_project_grants")}
}

// Add creates an access grant for (teamID, projectID). One grant per
// pair (unique index).
func (s *Store) Add(ctx context.Context, teamID, projectID primitive.ObjectID) (models.TeamProjectGrant, error) {
	g := models.TeamProjectGrant{
		ID:        primitive.NewObjectID(),
		TeamID:    teamID,
		ProjectID: projectID,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.c.InsertOne(ctx, g)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.TeamProjectGrant{}, ErrDuplicateGrant
		}
		return models.TeamProjectGrant{}, err
	}
	return g, nil
}

// Remove deletes the grant for (teamID, projectID).
func (s *Store) Remove(ctx context.Context, teamID, projectID primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"team_id": teamID, "project_id": projectID})
	return err
}

// Exists checks whether (teamID, projectID) has a grant.
func (s *Store) Exists(ctx context.Context, teamID, projectID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"team_id": teamID, "project_id": projectID}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListByProject returns all grants on a project.
func (s *Store) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.TeamProjectGrant, error) {
	cur, err := s.c.Find(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var grants []models.TeamProjectGrant
	if err := cur.All(ctx, &grants); err != nil {
		return nil, err
	}
	return grants, nil
}

// ProjectIDsForTeams returns the distinct project ids granted to any
// of the given teams.
func (s *Store) ProjectIDsForTeams(ctx context.Context, teamIDs []primitive.ObjectID) ([]primitive.ObjectID, error) {
	if len(teamIDs) == 0 {
		return nil, nil
	}
	cur, err := s.c.Aggregate(ctx, []bson.M{
		{"$match": bson.M{"team_id": bson.M{"$in": teamIDs}}},
		{"$group": bson.M{"_id": "$project_id"}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.ID)
	}
	return ids, cur.Err()
}
