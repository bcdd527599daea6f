// internal/app/store/subtasks/subtaskstore.go
package subtaskstore

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
	return &Store{c: db.Collection("sub_tasks")}
}

func (s *Store) Create(ctx context.Context, st models.SubTask) (models.SubTask, error) {
	now := time.Now().UTC()
	st.ID = primitive.NewObjectID()
	if st.Status == "" {
		st.Status = models.StatusToDo
	}
	st.CreatedAt = now
	st.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, st); err != nil {
		return models.SubTask{}, err
	}
	return st, nil
}

// GetByID returns a non-deleted sub-task.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.SubTask, error) {
	var st models.SubTask
	if err := s.c.FindOne(ctx, bson.M{"_id": id, "deleted": false}).Decode(&st); err != nil {
		return models.SubTask{}, err
	}
	return st, nil
}

// GetByIDAny returns a sub-task regardless of its deleted flag.
func (s *Store) GetByIDAny(ctx context.Context, id primitive.ObjectID) (models.SubTask, error) {
	var st models.SubTask
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&st); err != nil {
		return models.SubTask{}, err
	}
	return st, nil
}

// UpdateInfo changes the descriptive fields of a sub-task. A nil
// dueDate clears the due date.
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, name string, typ models.SubTaskType, dueDate *time.Time) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if strings.TrimSpace(name) != "" {
		set["name"] = name
	}
	if typ != "" {
		set["type"] = typ
	}
	update := bson.M{"$set": set}
	if dueDate == nil {
		update["$unset"] = bson.M{"due_date": ""}
	} else {
		set["due_date"] = *dueDate
	}
	_, err := s.c.UpdateByID(ctx, id, update)
	return err
}

// SetStatus replaces the sub-task's status. Last write wins.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status models.CompletionStatus) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// SetDeleted flips the soft-delete flag.
func (s *Store) SetDeleted(ctx context.Context, id primitive.ObjectID, deleted bool) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"deleted":    deleted,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// ListByParent returns the non-deleted sub-tasks under a task.
func (s *Store) ListByParent(ctx context.Context, parentTaskID primitive.ObjectID) ([]models.SubTask, error) {
	cur, err := s.c.Find(ctx, bson.M{"parent_task_id": parentTaskID, "deleted": false})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var subs []models.SubTask
	if err := cur.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}
