// internal/app/store/projects/projectstore.go
package projectstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/sprinthub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateProjectName = errors.New("a project with this name already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("projects")}
}

func (s *Store) Create(ctx context.Context, p models.Project) (models.Project, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.NameCI = text.Fold(p.Name)
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, p)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Project{}, ErrDuplicateProjectName
		}
		return models.Project{}, err
	}
	return p, nil
}

// GetByID returns a non-deleted project.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Project, error) {
	var p models.Project
	if err := s.c.FindOne(ctx, bson.M{"_id": id, "deleted": false}).Decode(&p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// GetByIDAny returns a project regardless of its deleted flag.
func (s *Store) GetByIDAny(ctx context.Context, id primitive.ObjectID) (models.Project, error) {
	var p models.Project
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// UpdateInfo changes the descriptive fields of a project. Summary and
// description can be cleared; a nil deadline clears the deadline.
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, name, summary, desc string, deadline *time.Time) error {
	set := bson.M{
		"updated_at":  time.Now().UTC(),
		"summary":     summary,
		"description": desc,
	}
	if strings.TrimSpace(name) != "" {
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	update := bson.M{"$set": set}
	if deadline == nil {
		update["$unset"] = bson.M{"deadline": ""}
	} else {
		set["deadline"] = *deadline
	}
	_, err := s.c.UpdateByID(ctx, id, update)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateProjectName
		}
		return err
	}
	return nil
}

// SetManager replaces the project's manager reference. A nil managerID
// clears it.
func (s *Store) SetManager(ctx context.Context, id primitive.ObjectID, managerID *primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"updated_at": time.Now().UTC()}}
	if managerID == nil {
		update["$unset"] = bson.M{"manager_id": ""}
	} else {
		update["$set"].(bson.M)["manager_id"] = *managerID
	}
	_, err := s.c.UpdateByID(ctx, id, update)
	return err
}

// SetDeleted flips the soft-delete flag. Tasks, sprints and grants of
// the project are untouched (no cascade).
func (s *Store) SetDeleted(ctx context.Context, id primitive.ObjectID, deleted bool) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"deleted":    deleted,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// ListByIDs returns the non-deleted projects among the given ids.
func (s *Store) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Project, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}, "deleted": false})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var projects []models.Project
	if err := cur.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// ListByManager returns the non-deleted projects managed by the given
// user.
func (s *Store) ListByManager(ctx context.Context, managerID primitive.ObjectID) ([]models.Project, error) {
	cur, err := s.c.Find(ctx, bson.M{"manager_id": managerID, "deleted": false})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var projects []models.Project
	if err := cur.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// List returns all non-deleted projects.
func (s *Store) List(ctx context.Context) ([]models.Project, error) {
	cur, err := s.c.Find(ctx, bson.M{"deleted": false})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var projects []models.Project
	if err := cur.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}
