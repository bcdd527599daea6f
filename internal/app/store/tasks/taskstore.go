// internal/app/store/tasks/taskstore.go
package taskstore

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/sprinthub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tasks")}
}

func (s *Store) Create(ctx context.Context, t models.Task) (models.Task, error) {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.NameCI = text.Fold(t.Name)
	if t.Status == "" {
		t.Status = models.StatusToDo
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// GetByID returns a non-deleted task.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Task, error) {
	var t models.Task
	if err := s.c.FindOne(ctx, bson.M{"_id": id, "deleted": false}).Decode(&t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// GetByIDAny returns a task regardless of its deleted flag.
func (s *Store) GetByIDAny(ctx context.Context, id primitive.ObjectID) (models.Task, error) {
	var t models.Task
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// UpdateInfo changes the descriptive fields of a task. A nil dueDate
// clears the due date.
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, name, summary, desc string, priority models.Priority, dueDate *time.Time) error {
	set := bson.M{
		"updated_at":  time.Now().UTC(),
		"summary":     summary,
		"description": desc,
	}
	if strings.TrimSpace(name) != "" {
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if priority != "" {
		set["priority"] = priority
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

// SetStatus replaces the task's status. Writes are last-write-wins;
// concurrent updates race without error.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status models.CompletionStatus) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// SetAssignee replaces the task's assignee. A nil assigneeID clears
// it.
func (s *Store) SetAssignee(ctx context.Context, id primitive.ObjectID, assigneeID *primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"updated_at": time.Now().UTC()}}
	if assigneeID == nil {
		update["$unset"] = bson.M{"assignee_id": ""}
	} else {
		update["$set"].(bson.M)["assignee_id"] = *assigneeID
	}
	_, err := s.c.UpdateByID(ctx, id, update)
	return err
}

// SetSprint moves the task into a sprint, overwriting any previous
// sprint reference. A nil sprintID pulls the task out of its sprint.
func (s *Store) SetSprint(ctx context.Context, id primitive.ObjectID, sprintID *primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"updated_at": time.Now().UTC()}}
	if sprintID == nil {
		update["$unset"] = bson.M{"sprint_id": ""}
	} else {
		update["$set"].(bson.M)["sprint_id"] = *sprintID
	}
	_, err := s.c.UpdateByID(ctx, id, update)
	return err
}

// SetDeleted flips the soft-delete flag. Sub-tasks and notes of the
// task are untouched (no cascade).
func (s *Store) SetDeleted(ctx context.Context, id primitive.ObjectID, deleted bool) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"deleted":    deleted,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// ListByProject returns the non-deleted tasks of a project.
func (s *Store) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	return s.list(ctx, bson.M{"project_id": projectID, "deleted": false})
}

// ListByProjects returns the non-deleted tasks across the given
// projects.
func (s *Store) ListByProjects(ctx context.Context, projectIDs []primitive.ObjectID) ([]models.Task, error) {
	if len(projectIDs) == 0 {
		return nil, nil
	}
	return s.list(ctx, bson.M{"project_id": bson.M{"$in": projectIDs}, "deleted": false})
}

// ListByAssignee returns the non-deleted tasks assigned to a user.
func (s *Store) ListByAssignee(ctx context.Context, assigneeID primitive.ObjectID) ([]models.Task, error) {
	return s.list(ctx, bson.M{"assignee_id": assigneeID, "deleted": false})
}

// ListBySprint returns the non-deleted tasks in a sprint.
func (s *Store) ListBySprint(ctx context.Context, sprintID primitive.ObjectID) ([]models.Task, error) {
	return s.list(ctx, bson.M{"sprint_id": sprintID, "deleted": false})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Task, error) {
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var tasks []models.Task
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// HasAssignedTask reports whether the user has at least one non-deleted
// task in the project. Project reachability uses this.
func (s *Store) HasAssignedTask(ctx context.Context, userID, projectID primitive.ObjectID) (bool, error) {
	filter := bson.M{"assignee_id": userID, "project_id": projectID, "deleted": false}
	err := s.c.FindOne(ctx, filter).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ProjectIDsForAssignee returns the distinct project ids in which the
// user holds at least one non-deleted task.
func (s *Store) ProjectIDsForAssignee(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Aggregate(ctx, []bson.M{
		{"$match": bson.M{"assignee_id": userID, "deleted": false}},
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

// CountByStatus returns a map of status to the number of non-deleted
// tasks in that status within the project. Progress reports use this.
func (s *Store) CountByStatus(ctx context.Context, projectID primitive.ObjectID) (map[models.CompletionStatus]int, error) {
	result := make(map[models.CompletionStatus]int)

	cur, err := s.c.Aggregate(ctx, []bson.M{
		{"$match": bson.M{"project_id": projectID, "deleted": false}},
		{"$group": bson.M{"_id": "$status", "n": bson.M{"$sum": 1}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row struct {
			ID models.CompletionStatus `bson:"_id"`
			N  int                     `bson:"n"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		result[row.ID] = row.N
	}
	return result, cur.Err()
}
