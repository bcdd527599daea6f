// Package projectpolicy provides authorization checks for project
// access, built around the reachability union.
//
// A project p is reachable for user u iff any of:
//   - u is p's manager
//   - u has a non-deleted task in p assigned to them
//   - u holds a membership in a team that has an access grant on p
//     (the owner team always holds a grant)
//
// The union is recomputed per query, never cached, so it holds
// immediately after a grant or membership change.
package projectpolicy

import (
	"context"

	"github.com/dalemusser/sprinthub/internal/app/policy/teampolicy"
	"github.com/dalemusser/sprinthub/internal/app/system/authz"
	"github.com/dalemusser/sprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Reachable reports whether the user can reach the given project.
func Reachable(ctx context.Context, db *mongo.Database, userID primitive.ObjectID, project models.Project) (bool, error) {
	if project.ManagerID != nil && *project.ManagerID == userID {
		return true, nil
	}

	n, err := db.Collection("tasks").CountDocuments(ctx, bson.M{
		"project_id":  project.ID,
		"assignee_id": userID,
		"deleted":     false,
	})
	if err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}

	return hasGrantThroughMembership(ctx, db, userID, project.ID)
}

// hasGrantThroughMembership checks the membership → grant join for one
// specific project.
func hasGrantThroughMembership(ctx context.Context, db *mongo.Database, userID, projectID primitive.ObjectID) (bool, error) {
	pipe := mongo.Pipeline{
		// Start from the user's memberships
		bson.D{{Key: "$match", Value: bson.M{"user_id": userID}}},
		// Join to grants on team_id
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "team_project_grants",
			"localField":   "team_id",
			"foreignField": "team_id",
			"as":           "grant",
		}}},
		bson.D{{Key: "$unwind", Value: "$grant"}},
		// Filter to the specific project
		bson.D{{Key: "$match", Value: bson.M{"grant.project_id": projectID}}},
		bson.D{{Key: "$limit", Value: 1}},
	}

	cur, err := db.Collection("team_memberships").Aggregate(ctx, pipe)
	if err != nil {
		return false, err
	}
	defer cur.Close(ctx)

	return cur.Next(ctx), cur.Err()
}

// CanView reports whether the user can see the project.
func CanView(ctx context.Context, db *mongo.Database, id authz.Identity, project models.Project) (bool, error) {
	if id.IsAdmin() {
		return true, nil
	}
	return Reachable(ctx, db, id.UserID, project)
}

// CanManage reports whether the user can mutate the project: update
// it, soft-delete, restore, and grant or revoke team access. Admins,
// the project's own manager, and the owner team's manager qualify.
func CanManage(ctx context.Context, db *mongo.Database, id authz.Identity, project models.Project) (bool, error) {
	if id.IsAdmin() {
		return true, nil
	}
	if project.ManagerID != nil && *project.ManagerID == id.UserID {
		return true, nil
	}
	return teampolicy.IsManager(ctx, db, project.OwnerTeamID, id.UserID)
}

// CanCreateIn reports whether the user can create a project owned by
// the given team.
func CanCreateIn(ctx context.Context, db *mongo.Database, id authz.Identity, ownerTeamID primitive.ObjectID) (bool, error) {
	if id.IsAdmin() {
		return true, nil
	}
	return teampolicy.IsManager(ctx, db, ownerTeamID, id.UserID)
}

// VisibleProjectIDs returns the de-duplicated union of project ids the
// user can see. Order within the result is unspecified.
func VisibleProjectIDs(ctx context.Context, db *mongo.Database, id authz.Identity) ([]primitive.ObjectID, error) {
	if id.IsAdmin() {
		return allProjectIDs(ctx, db)
	}

	var ids []primitive.ObjectID
	seen := make(map[primitive.ObjectID]bool)
	add := func(more []primitive.ObjectID) {
		for _, pid := range more {
			if !seen[pid] {
				seen[pid] = true
				ids = append(ids, pid)
			}
		}
	}

	managed, err := managedProjectIDs(ctx, db, id.UserID)
	if err != nil {
		return nil, err
	}
	add(managed)

	assigned, err := assignedProjectIDs(ctx, db, id.UserID)
	if err != nil {
		return nil, err
	}
	add(assigned)

	granted, err := grantedProjectIDs(ctx, db, id.UserID)
	if err != nil {
		return nil, err
	}
	add(granted)

	return ids, nil
}

func allProjectIDs(ctx context.Context, db *mongo.Database) ([]primitive.ObjectID, error) {
	cur, err := db.Collection("projects").Find(ctx, bson.M{"deleted": false})
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

func managedProjectIDs(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := db.Collection("projects").Find(ctx, bson.M{"manager_id": userID, "deleted": false})
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

func assignedProjectIDs(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := db.Collection("tasks").Aggregate(ctx, []bson.M{
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

// grantedProjectIDs walks membership → grant for every team the user
// belongs to.
func grantedProjectIDs(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	pipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"user_id": userID}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "team_project_grants",
			"localField":   "team_id",
			"foreignField": "team_id",
			"as":           "grant",
		}}},
		bson.D{{Key: "$unwind", Value: "$grant"}},
		bson.D{{Key: "$group", Value: bson.M{"_id": "$grant.project_id"}}},
	}

	cur, err := db.Collection("team_memberships").Aggregate(ctx, pipe)
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
