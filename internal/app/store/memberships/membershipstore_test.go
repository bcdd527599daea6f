package membershipstore_test

import (
	"testing"

	membershipstore "github.com/dalemusser/sprinthub/internal/app/store/memberships"
	"github.com/dalemusser/sprinthub/internal/app/system/indexes"
	"github.com/dalemusser/sprinthub/internal/domain/models"
	"github.com/dalemusser/sprinthub/internal/testutil"
)

func TestStore_Add(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateDeveloper(ctx, "dev1")
	team := fixtures.CreateTeam(ctx, "Platform Crew", nil)

	m, err := store.Add(ctx, user.ID, team.ID, models.TeamRoleDeveloper)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if m.Role != models.TeamRoleDeveloper {
		t.Errorf("Role: got %q", m.Role)
	}

	exists, err := store.Exists(ctx, user.ID, team.ID)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("expected membership to exist")
	}
}

func TestStore_Add_Duplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	user := fixtures.CreateDeveloper(ctx, "dev1")
	team := fixtures.CreateTeam(ctx, "Platform Crew", nil)

	if _, err := store.Add(ctx, user.ID, team.ID, models.TeamRoleDeveloper); err != nil {
		t.Fatalf("first Add failed: %v", err)
	}

	// Same pair again, even with a different role, is a duplicate.
	_, err := store.Add(ctx, user.ID, team.ID, models.TeamRoleManager)
	if err != membershipstore.ErrDuplicateMembership {
		t.Errorf("expected ErrDuplicateMembership, got %v", err)
	}
}

func TestStore_Remove(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateDeveloper(ctx, "dev1")
	team := fixtures.CreateTeam(ctx, "Platform Crew", nil)
	fixtures.CreateMembership(ctx, user.ID, team.ID, models.TeamRoleDeveloper)

	if err := store.Remove(ctx, user.ID, team.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	exists, err := store.Exists(ctx, user.ID, team.ID)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("expected membership to be gone")
	}

	// Removing an absent membership is a no-op.
	if err := store.Remove(ctx, user.ID, team.ID); err != nil {
		t.Errorf("second Remove should not error: %v", err)
	}
}

func TestStore_TeamIDsForUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateDeveloper(ctx, "dev1")
	team1 := fixtures.CreateTeam(ctx, "Team One", nil)
	team2 := fixtures.CreateTeam(ctx, "Team Two", nil)
	fixtures.CreateMembership(ctx, user.ID, team1.ID, models.TeamRoleDeveloper)
	fixtures.CreateMembership(ctx, user.ID, team2.ID, models.TeamRoleVisitor)

	ids, err := store.TeamIDsForUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("TeamIDsForUser failed: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("expected 2 team ids, got %d", len(ids))
	}
}
