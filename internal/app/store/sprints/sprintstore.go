// internal/app/store/sprints/sprintstore.go
package sprintstore

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/sprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("sprints")}
}

func (s *Store) Create(ctx context.Context, sp models.Sprint) (models.Sprint, error) {
	now := time.Now().UTC()
	sp.ID = primitive.NewObjectID()
	if sp.Status == "" {
		sp.Status = models.SprintPlanning
	}
	sp.CreatedAt = now
	sp.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, sp); err != nil {
		return models.Sprint{}, err
	}
	return sp, nil
}

// GetByID returns a non-deleted sprint.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Sprint, error) {
	var sp models.Sprint
	if err := s.c.FindOne(ctx, bson.M{"_id": id, "deleted": false}).Decode(&sp); err != nil {
		return models.Sprint{}, err
	}
	return sp, nil
}

// GetByIDAny returns a sprint regardless of its deleted flag.
func (s *Store) GetByIDAny(ctx context.Context, id primitive.ObjectID) (models.Sprint, error) {
	var sp models.Sprint
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sp); err != nil {
		return models.Sprint{}, err
	}
	return sp, nil
}

// UpdateInfo changes the name and window of a sprint. Zero times leave
// the window untouched; date-order validation happens in the workflow
// layer before calling here.
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, name string, start, end time.Time) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if strings.TrimSpace(name) != "" {
		set["name"] = name
	}
	if !start.IsZero() {
		set["start_date"] = start
	}
	if !end.IsZero() {
		set["end_date"] = end
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// SetStatus replaces the sprint's status. Last write wins.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status models.SprintStatus) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// SetDeleted flips the soft-delete flag. Tasks keep their sprint_id
// references (no cascade); a dangling reference is tolerated.
func (s *Store) SetDeleted(ctx context.Context, id primitive.ObjectID, deleted bool) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"deleted":    deleted,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// ListByProject returns the non-deleted sprints of a project.
func (s *Store) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Sprint, error) {
	cur, err := s.c.Find(ctx, bson.M{"project_id": projectID, "deleted": false})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var sprints []models.Sprint
	if err := cur.All(ctx, &sprints); err != nil {
		return nil, err
	}
	return sprints, nil
}

// ListByProjects returns the non-deleted sprints across the given
// projects.
func (s *Store) ListByProjects(ctx context.Context, projectIDs []primitive.ObjectID) ([]models.Sprint, error) {
	if len(projectIDs) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"project_id": bson.M{"$in": projectIDs}, "deleted": false})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var sprints []models.Sprint
	if err := cur.All(ctx, &sprints); err != nil {
		return nil, err
	}
	return sprints, nil
}
