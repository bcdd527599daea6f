package workflow_test

import (
	"errors"
	"testing"

	"github.com/dalemusser/sprinthub/internal/app/system/errs"
	"github.com/dalemusser/sprinthub/internal/app/workflow"
	"github.com/dalemusser/sprinthub/internal/domain/models"
	"github.com/dalemusser/sprinthub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateTeam_WithManager(t *testing.T) {
	db := testutil.SetupTestDB(t)
	engine := newTestEngine(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateAdmin(ctx, "root")
	manager := fixtures.CreateManager(ctx, "mgr")

	team, err := engine.CreateTeam(ctx, testutil.Identity(admin), workflow.CreateTeamInput{
		Name:      "Platform Crew",
		ManagerID: &manager.ID,
	})
	if err != nil {
		t.Fatalf("CreateTeam failed: %v", err)
	}
	if team.ManagerID == nil || *team.ManagerID != manager.ID {
		t.Error("expected manager reference on the team")
	}

	// The manager membership committed with the team.
	var m models.TeamMembership
	err = db.Collection("team_memberships").FindOne(ctx, bson.M{
		"user_id": manager.ID,
		"team_id": team.ID,
	}).Decode(&m)
	if err != nil {
		t.Fatalf("manager membership missing: %v", err)
	}
	if m.Role != models.TeamRoleManager {
		t.Errorf("membership role: got %q", m.Role)
	}
}

func TestCreateTeam_NonAdminDenied(t *testing.T) {
	db := testutil.SetupTestDB(t)
	engine := newTestEngine(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	manager := fixtures.CreateManager(ctx, "mgr")

	_, err := engine.CreateTeam(ctx, testutil.Identity(manager), workflow.CreateTeamInput{Name: "Rogue"})
	if !errors.Is(err, errs.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestSetTeamRoster_ReconcilesWithoutTouchingManager(t *testing.T) {
	db := testutil.SetupTestDB(t)
	engine := newTestEngine(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	manager := fixtures.CreateManager(ctx, "mgr")
	d1 := fixtures.CreateDeveloper(ctx, "d1")
	d2 := fixtures.CreateDeveloper(ctx, "d2")
	d3 := fixtures.CreateDeveloper(ctx, "d3")
	team := fixtures.CreateTeam(ctx, "Team", &manager.ID)
	fixtures.CreateMembership(ctx, manager.ID, team.ID, models.TeamRoleManager)
	fixtures.CreateMembership(ctx, d1.ID, team.ID, models.TeamRoleDeveloper)
	fixtures.CreateMembership(ctx, d2.ID, team.ID, models.TeamRoleDeveloper)

	// Keep d1, drop d2, add d3.
	err := engine.SetTeamRoster(ctx, testutil.Identity(manager), team.ID, []primitive.ObjectID{d1.ID, d3.ID})
	if err != nil {
		t.Fatalf("SetTeamRoster failed: %v", err)
	}

	count, err := db.Collection("team_memberships").CountDocuments(ctx, bson.M{"team_id": team.ID})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	// manager + d1 + d3
	if count != 3 {
		t.Errorf("expected 3 memberships, got %d", count)
	}

	for _, probe := range []struct {
		userID primitive.ObjectID
		want   bool
		label  string
	}{
		{manager.ID, true, "manager"},
		{d1.ID, true, "kept developer"},
		{d2.ID, false, "dropped developer"},
		{d3.ID, true, "added developer"},
	} {
		n, err := db.Collection("team_memberships").CountDocuments(ctx, bson.M{
			"team_id": team.ID,
			"user_id": probe.userID,
		})
		if err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if (n > 0) != probe.want {
			t.Errorf("%s: membership present=%v, want %v", probe.label, n > 0, probe.want)
		}
	}
}

func TestRemoveMember_ManagerGuard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	engine := newTestEngine(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateAdmin(ctx, "root")
	manager := fixtures.CreateManager(ctx, "mgr")
	team := fixtures.CreateTeam(ctx, "Team", &manager.ID)
	fixtures.CreateMembership(ctx, manager.ID, team.ID, models.TeamRoleManager)

	err := engine.RemoveMember(ctx, testutil.Identity(admin), manager.ID, team.ID)
	if !errors.Is(err, errs.ErrValidation) {
		t.Errorf("removing the manager should fail validation, got %v", err)
	}
}

func TestSoftDeleteTeam_NoCascadeAndIdempotentRestore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	engine := newTestEngine(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateAdmin(ctx, "root")
	team := fixtures.CreateTeam(ctx, "Team", nil)
	project := fixtures.CreateProject(ctx, "Orion", team.ID, nil)

	if err := engine.SoftDeleteTeam(ctx, testutil.Identity(admin), team.ID); err != nil {
		t.Fatalf("SoftDeleteTeam failed: %v", err)
	}

	// The owned project keeps its own flag.
	var p models.Project
	if err := db.Collection("projects").FindOne(ctx, bson.M{"_id": project.ID}).Decode(&p); err != nil {
		t.Fatalf("project lookup failed: %v", err)
	}
	if p.Deleted {
		t.Error("deleting a team must not cascade to its projects")
	}

	// Restore twice; the second is a no-op.
	if err := engine.RestoreTeam(ctx, testutil.Identity(admin), team.ID); err != nil {
		t.Fatalf("RestoreTeam failed: %v", err)
	}
	if err := engine.RestoreTeam(ctx, testutil.Identity(admin), team.ID); err != nil {
		t.Fatalf("second RestoreTeam failed: %v", err)
	}

	var restored models.Team
	if err := db.Collection("teams").FindOne(ctx, bson.M{"_id": team.ID}).Decode(&restored); err != nil {
		t.Fatalf("team lookup failed: %v", err)
	}
	if restored.Deleted {
		t.Error("expected team restored")
	}
	if restored.Name != team.Name || restored.Description != team.Description {
		t.Error("restore must preserve all fields except the deleted flag")
	}
}

func TestAuthorize_TeamOperations(t *testing.T) {
	db := testutil.SetupTestDB(t)
	engine := newTestEngine(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	dev := fixtures.CreateDeveloper(ctx, "dev")
	outsider := fixtures.CreateDeveloper(ctx, "outsider")
	team := fixtures.CreateTeam(ctx, "Team", nil)
	fixtures.CreateMembership(ctx, dev.ID, team.ID, models.TeamRoleDeveloper)

	ref := workflow.ResourceRef{Kind: workflow.KindTeam, ID: team.ID}

	d, err := engine.Authorize(ctx, testutil.Identity(dev), ref, workflow.OpView)
	if err != nil {
		t.Fatalf("Authorize failed: %v", err)
	}
	if !d.Allowed {
		t.Errorf("member view should be allowed, denied with %q", d.Reason)
	}

	d, err = engine.Authorize(ctx, testutil.Identity(outsider), ref, workflow.OpView)
	if err != nil {
		t.Fatalf("Authorize failed: %v", err)
	}
	if d.Allowed {
		t.Error("outsider view should be denied")
	}
	if d.Reason == "" {
		t.Error("denials must carry a reason")
	}
}
