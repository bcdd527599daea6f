// internal/app/workflow/teams.go
package workflow

import (
	"context"
	"strings"

	"github.com/dalemusser/sprinthub/internal/app/policy/teampolicy"
	membershipstore "github.com/dalemusser/sprinthub/internal/app/store/memberships"
	teamstore "github.com/dalemusser/sprinthub/internal/app/store/teams"
	"github.com/dalemusser/sprinthub/internal/app/system/authz"
	"github.com/dalemusser/sprinthub/internal/app/system/errs"
	"github.com/dalemusser/sprinthub/internal/app/system/txn"
	"github.com/dalemusser/sprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CreateTeamInput carries the fields for a new team.
type CreateTeamInput struct {
	Name        string
	Description string
	ManagerID   *primitive.ObjectID
}

// CreateTeam creates a team. When a manager is named, the manager
// reference and a manager membership are written in the same
// transaction as the team itself.
func (e *Engine) CreateTeam(ctx context.Context, id authz.Identity, in CreateTeamInput) (models.Team, error) {
	if !teampolicy.CanAdminister(id) {
		return models.Team{}, errs.Unauthorizedf("only admins create teams")
	}
	if strings.TrimSpace(in.Name) == "" {
		return models.Team{}, errs.Validationf("team name is required")
	}
	if in.ManagerID != nil {
		if _, err := e.users.GetByID(ctx, *in.ManagerID); err != nil {
			return models.Team{}, errs.FromStore(err)
		}
	}

	var team models.Team
	err := txn.WithTransaction(ctx, e.client, func(ctx context.Context) error {
		var err error
		team, err = e.teams.Create(ctx, models.Team{
			Name:        in.Name,
			Description: in.Description,
			ManagerID:   in.ManagerID,
		})
		if err != nil {
			return conflict(err, teamstore.ErrDuplicateTeamName)
		}
		if in.ManagerID != nil {
			if _, err := e.memberships.Add(ctx, *in.ManagerID, team.ID, models.TeamRoleManager); err != nil {
				return errs.FromStore(err)
			}
		}
		return nil
	})
	if err != nil {
		return models.Team{}, err
	}

	e.log.Info("team created",
		zap.String("team_id", team.ID.Hex()),
		zap.String("name", team.Name))
	return team, nil
}

// UpdateTeamInfo changes a team's name and description. Admin only;
// managers hold roster authority, not naming authority.
func (e *Engine) UpdateTeamInfo(ctx context.Context, id authz.Identity, teamID primitive.ObjectID, name, description string) error {
	if !teampolicy.CanAdminister(id) {
		return errs.Unauthorizedf("only admins edit team info")
	}
	if _, err := e.teams.GetByID(ctx, teamID); err != nil {
		return errs.FromStore(err)
	}
	if err := e.teams.UpdateInfo(ctx, teamID, name, description); err != nil {
		return conflict(err, teamstore.ErrDuplicateTeamName)
	}
	return nil
}

// SetTeamRoster reconciles the team's developer roster against the
// given user list: missing users gain developer memberships, members
// not in the list are removed. The team's manager membership is never
// removed by reconciliation.
func (e *Engine) SetTeamRoster(ctx context.Context, id authz.Identity, teamID primitive.ObjectID, userIDs []primitive.ObjectID) error {
	ok, err := teampolicy.CanManageRoster(ctx, e.db, id, teamID)
	if err != nil {
		return errs.FromStore(err)
	}
	if !ok {
		return errs.Unauthorizedf("not this team's manager")
	}
	team, err := e.teams.GetByID(ctx, teamID)
	if err != nil {
		return errs.FromStore(err)
	}

	want := make(map[primitive.ObjectID]bool, len(userIDs))
	for _, uid := range userIDs {
		want[uid] = true
	}

	return txn.WithTransaction(ctx, e.client, func(ctx context.Context) error {
		current, err := e.memberships.ListByTeam(ctx, teamID, "")
		if err != nil {
			return errs.FromStore(err)
		}

		have := make(map[primitive.ObjectID]models.TeamMembership, len(current))
		for _, m := range current {
			have[m.UserID] = m
		}

		for uid := range want {
			if _, ok := have[uid]; ok {
				continue
			}
			if _, err := e.users.GetByID(ctx, uid); err != nil {
				return errs.FromStore(err)
			}
			if _, err := e.memberships.Add(ctx, uid, teamID, models.TeamRoleDeveloper); err != nil {
				return errs.FromStore(err)
			}
		}

		for uid, m := range have {
			if want[uid] {
				continue
			}
			if m.Role == models.TeamRoleManager {
				continue
			}
			if team.ManagerID != nil && *team.ManagerID == uid {
				continue
			}
			if err := e.memberships.Remove(ctx, uid, teamID); err != nil {
				return errs.FromStore(err)
			}
		}
		return nil
	})
}

// AddMember adds one user to the team with the given role.
func (e *Engine) AddMember(ctx context.Context, id authz.Identity, userID, teamID primitive.ObjectID, role models.TeamRole) error {
	ok, err := teampolicy.CanManageRoster(ctx, e.db, id, teamID)
	if err != nil {
		return errs.FromStore(err)
	}
	if !ok {
		return errs.Unauthorizedf("not this team's manager")
	}
	if _, err := e.teams.GetByID(ctx, teamID); err != nil {
		return errs.FromStore(err)
	}
	if _, err := e.users.GetByID(ctx, userID); err != nil {
		return errs.FromStore(err)
	}
	if _, err := e.memberships.Add(ctx, userID, teamID, role); err != nil {
		return conflict(err, membershipstore.ErrDuplicateMembership)
	}
	return nil
}

// RemoveMember removes one user from the team. The team's manager
// cannot be removed this way; reassign the manager first.
func (e *Engine) RemoveMember(ctx context.Context, id authz.Identity, userID, teamID primitive.ObjectID) error {
	ok, err := teampolicy.CanManageRoster(ctx, e.db, id, teamID)
	if err != nil {
		return errs.FromStore(err)
	}
	if !ok {
		return errs.Unauthorizedf("not this team's manager")
	}
	team, err := e.teams.GetByID(ctx, teamID)
	if err != nil {
		return errs.FromStore(err)
	}
	if team.ManagerID != nil && *team.ManagerID == userID {
		return errs.Validationf("the team's manager cannot be removed from the roster")
	}
	return errs.FromStore(e.memberships.Remove(ctx, userID, teamID))
}

// SoftDeleteTeam marks the team deleted. Projects the team owns, its
// memberships and its grants are untouched; each resource's flag is
// independent.
func (e *Engine) SoftDeleteTeam(ctx context.Context, id authz.Identity, teamID primitive.ObjectID) error {
	if !teampolicy.CanAdminister(id) {
		return errs.Unauthorizedf("only admins delete teams")
	}
	if _, err := e.teams.GetByIDAny(ctx, teamID); err != nil {
		return errs.FromStore(err)
	}
	return errs.FromStore(e.teams.SetDeleted(ctx, teamID, true))
}

// RestoreTeam clears the deleted flag. Idempotent.
func (e *Engine) RestoreTeam(ctx context.Context, id authz.Identity, teamID primitive.ObjectID) error {
	if !teampolicy.CanAdminister(id) {
		return errs.Unauthorizedf("only admins restore teams")
	}
	if _, err := e.teams.GetByIDAny(ctx, teamID); err != nil {
		return errs.FromStore(err)
	}
	return errs.FromStore(e.teams.SetDeleted(ctx, teamID, false))
}

// VisibleTeams returns the teams the identity can see.
func (e *Engine) VisibleTeams(ctx context.Context, id authz.Identity) ([]models.Team, error) {
	ids, err := teampolicy.VisibleTeamIDs(ctx, e.db, id)
	if err != nil {
		return nil, errs.FromStore(err)
	}
	teams, err := e.teams.ListByIDs(ctx, ids)
	if err != nil {
		return nil, errs.FromStore(err)
	}
	return teams, nil
}
