// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.

The unique indexes are what turns duplicate writes into conflicts the
stores can report: team name and username are unique among non-deleted
rows (soft-deleted rows keep their name without blocking reuse), and
profile emails, memberships and grants are unique outright.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureProfiles(ctx, db); err != nil {
		problems = append(problems, "user_profiles: "+err.Error())
	}
	if err := ensureTeams(ctx, db); err != nil {
		problems = append(problems, "teams: "+err.Error())
	}
	if err := ensureMemberships(ctx, db); err != nil {
		problems = append(problems, "team_memberships: "+err.Error())
	}
	if err := ensureProjects(ctx, db); err != nil {
		problems = append(problems, "projects: "+err.Error())
	}
	if err := ensureGrants(ctx, db); err != nil {
		problems = append(problems, "team_project_grants: "+err.Error())
	}
	if err := ensureTasks(ctx, db); err != nil {
		problems = append(problems, "tasks: "+err.Error())
	}
	if err := ensureSubTasks(ctx, db); err != nil {
		problems = append(problems, "sub_tasks: "+err.Error())
	}
	if err := ensureSprints(ctx, db); err != nil {
		problems = append(problems, "sprints: "+err.Error())
	}
	if err := ensureNotes(ctx, db); err != nil {
		problems = append(problems, "notes: "+err.Error())
	}
	if err := ensureNotifications(ctx, db); err != nil {
		problems = append(problems, "notifications: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// notDeleted scopes a unique index to active rows so a soft-deleted
// row does not block its name from being reused.
var notDeleted = bson.M{"deleted": bson.M{"$eq": false}}

func create(ctx context.Context, db *mongo.Database, coll string, idx []mongo.IndexModel) error {
	_, err := db.Collection(coll).Indexes().CreateMany(ctx, idx)
	return err
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "users", []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "username_ci", Value: 1}},
			Options: options.Index().
				SetName("uniq_username_ci_active").
				SetUnique(true).
				SetPartialFilterExpression(notDeleted),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}, {Key: "approved", Value: 1}},
			Options: options.Index().SetName("role_approved"),
		},
	})
}

func ensureProfiles(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "user_profiles", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("uniq_user").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniq_email").SetUnique(true),
		},
	})
}

func ensureTeams(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "teams", []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().
				SetName("uniq_name_ci_active").
				SetUnique(true).
				SetPartialFilterExpression(notDeleted),
		},
		{
			Keys:    bson.D{{Key: "manager_id", Value: 1}},
			Options: options.Index().SetName("manager"),
		},
	})
}

func ensureMemberships(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "team_memberships", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "team_id", Value: 1}},
			Options: options.Index().SetName("uniq_user_team").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "team_id", Value: 1}},
			Options: options.Index().SetName("team"),
		},
	})
}

func ensureProjects(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "projects", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner_team_id", Value: 1}},
			Options: options.Index().SetName("owner_team"),
		},
		{
			Keys:    bson.D{{Key: "manager_id", Value: 1}},
			Options: options.Index().SetName("manager"),
		},
	})
}

func ensureGrants(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "team_project_grants", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "team_id", Value: 1}, {Key: "project_id", Value: 1}},
			Options: options.Index().SetName("uniq_team_project").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}},
			Options: options.Index().SetName("project"),
		},
	})
}

func ensureTasks(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "tasks", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}},
			Options: options.Index().SetName("project"),
		},
		{
			Keys:    bson.D{{Key: "assignee_id", Value: 1}},
			Options: options.Index().SetName("assignee"),
		},
		{
			Keys:    bson.D{{Key: "sprint_id", Value: 1}},
			Options: options.Index().SetName("sprint"),
		},
	})
}

func ensureSubTasks(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "sub_tasks", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "parent_task_id", Value: 1}},
			Options: options.Index().SetName("parent_task"),
		},
	})
}

func ensureSprints(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "sprints", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}},
			Options: options.Index().SetName("project"),
		},
	})
}

func ensureNotes(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "notes", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "task_id", Value: 1}},
			Options: options.Index().SetName("task"),
		},
		{
			Keys:    bson.D{{Key: "parent_note_id", Value: 1}},
			Options: options.Index().SetName("parent_note"),
		},
	})
}

func ensureNotifications(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "notifications", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("recipient_recent"),
		},
		{
			Keys:    bson.D{{Key: "event_key", Value: 1}},
			Options: options.Index().SetName("event_key"),
		},
	})
}
