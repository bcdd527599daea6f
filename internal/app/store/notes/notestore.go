// internal/app/store/notes/notestore.go
package notestore

import (
	"context"
	"time"

	"github.com/dalemusser/sprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("notes")}
}

func (s *Store) Create(ctx context.Context, n models.Note) (models.Note, error) {
	now := time.Now().UTC()
	n.ID = primitive.NewObjectID()
	n.CreatedAt = now
	n.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, n); err != nil {
		return models.Note{}, err
	}
	return n, nil
}

// GetByID returns a non-deleted note.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Note, error) {
	var n models.Note
	if err := s.c.FindOne(ctx, bson.M{"_id": id, "deleted": false}).Decode(&n); err != nil {
		return models.Note{}, err
	}
	return n, nil
}

// GetByIDAny returns a note regardless of its deleted flag. Restore
// paths need to see soft-deleted rows.
func (s *Store) GetByIDAny(ctx context.Context, id primitive.ObjectID) (models.Note, error) {
	var n models.Note
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&n); err != nil {
		return models.Note{}, err
	}
	return n, nil
}

// UpdateContent replaces the note's body text.
func (s *Store) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"content":    content,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// SetResolved flips the resolved flag.
func (s *Store) SetResolved(ctx context.Context, id primitive.ObjectID, resolved bool) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"resolved":   resolved,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// SetDeleted flips the soft-delete flag. Replies that point at the
// deleted note keep their parent reference.
func (s *Store) SetDeleted(ctx context.Context, id primitive.ObjectID, deleted bool) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"deleted":    deleted,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// ListByTask returns the non-deleted notes on a task, oldest first so
// threads read in order.
func (s *Store) ListByTask(ctx context.Context, taskID primitive.ObjectID) ([]models.Note, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"task_id": taskID, "deleted": false}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var notes []models.Note
	if err := cur.All(ctx, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}
