// Package teampolicy provides authorization checks for team access.
//
// Authorization rules:
//   - Admins can view and manage any team
//   - A team's manager can view it and manage its roster
//   - Developer members can view their own teams
//   - Visitor members cannot see the team itself, only the projects
//     their membership reaches
package teampolicy

import (
	"context"

	"github.com/dalemusser/sprinthub/internal/app/system/authz"
	"github.com/dalemusser/sprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// IsManager returns true if the given user manages the given team,
// either through the team's manager field or a manager membership in
// the authoritative team_memberships collection.
func IsManager(ctx context.Context, db *mongo.Database, teamID, userID primitive.ObjectID) (bool, error) {
	var team models.Team
	err := db.Collection("teams").FindOne(ctx, bson.M{"_id": teamID, "deleted": false}).Decode(&team)
	if err != nil && err != mongo.ErrNoDocuments {
		return false, err
	}
	if err == nil && team.ManagerID != nil && *team.ManagerID == userID {
		return true, nil
	}

	n, err := db.Collection("team_memberships").CountDocuments(ctx, bson.M{
		"team_id": teamID,
		"user_id": userID,
		"role":    models.TeamRoleManager,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CanView reports whether the user can see the team. Visitor
// memberships grant project reachability, not team visibility.
func CanView(ctx context.Context, db *mongo.Database, id authz.Identity, teamID primitive.ObjectID) (bool, error) {
	if id.IsAdmin() {
		return true, nil
	}
	n, err := db.Collection("team_memberships").CountDocuments(ctx, bson.M{
		"team_id": teamID,
		"user_id": id.UserID,
		"role":    bson.M{"$in": []models.TeamRole{models.TeamRoleDeveloper, models.TeamRoleManager}},
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CanManageRoster reports whether the user can change the team's
// membership list.
func CanManageRoster(ctx context.Context, db *mongo.Database, id authz.Identity, teamID primitive.ObjectID) (bool, error) {
	if id.IsAdmin() {
		return true, nil
	}
	return IsManager(ctx, db, teamID, id.UserID)
}

// CanAdminister reports whether the user can create, soft-delete or
// restore teams. Only admins hold that authority.
func CanAdminister(id authz.Identity) bool {
	return id.IsAdmin()
}

// VisibleTeamIDs returns the ids of teams the user can see: all
// non-deleted teams for admins, otherwise the teams where the user
// holds a developer or manager membership.
func VisibleTeamIDs(ctx context.Context, db *mongo.Database, id authz.Identity) ([]primitive.ObjectID, error) {
	if id.IsAdmin() {
		cur, err := db.Collection("teams").Find(ctx, bson.M{"deleted": false})
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

	cur, err := db.Collection("team_memberships").Find(ctx, bson.M{
		"user_id": id.UserID,
		"role":    bson.M{"$in": []models.TeamRole{models.TeamRoleDeveloper, models.TeamRoleManager}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	seen := make(map[primitive.ObjectID]bool)
	for cur.Next(ctx) {
		var m models.TeamMembership
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		if !seen[m.TeamID] {
			seen[m.TeamID] = true
			ids = append(ids, m.TeamID)
		}
	}
	return ids, cur.Err()
}
