package grantstore_test

import (
	"testing"

	grantstore "github.com/dalemusser/sprinthub/internal/app/store/grants"
	"github.com/dalemusser/sprinthub/internal/app/system/indexes"
	"github.com/dalemusser/sprinthub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_AddRemove(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := grantstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateTeam(ctx, "Owner Team", nil)
	other := fixtures.CreateTeam(ctx, "Other Team", nil)
	project := fixtures.CreateProject(ctx, "Orion", owner.ID, nil)

	if _, err := store.Add(ctx, other.ID, project.ID); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	exists, err := store.Exists(ctx, other.ID, project.ID)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("expected grant to exist")
	}

	if err := store.Remove(ctx, other.ID, project.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	exists, err = store.Exists(ctx, other.ID, project.ID)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("expected grant to be gone")
	}
}

func TestStore_Add_Duplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := grantstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	owner := fixtures.CreateTeam(ctx, "Owner Team", nil)
	project := fixtures.CreateProject(ctx, "Orion", owner.ID, nil)

	// The fixture already created the owner grant.
	_, err := store.Add(ctx, owner.ID, project.ID)
	if err != grantstore.ErrDuplicateGrant {
		t.Errorf("expected ErrDuplicateGrant, got %v", err)
	}
}

func TestStore_ProjectIDsForTeams(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := grantstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	team1 := fixtures.CreateTeam(ctx, "Team One", nil)
	team2 := fixtures.CreateTeam(ctx, "Team Two", nil)
	p1 := fixtures.CreateProject(ctx, "P One", team1.ID, nil)
	p2 := fixtures.CreateProject(ctx, "P Two", team2.ID, nil)

	// Both teams granted on p2: distinct ids, no double count.
	fixtures.CreateGrant(ctx, team1.ID, p2.ID)

	ids, err := store.ProjectIDsForTeams(ctx, []primitive.ObjectID{team1.ID, team2.ID})
	if err != nil {
		t.Fatalf("ProjectIDsForTeams failed: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("expected 2 distinct project ids, got %d", len(ids))
	}
	seen := map[string]bool{}
	for _, id := range ids {
		seen[id.Hex()] = true
	}
	if !seen[p1.ID.Hex()] || !seen[p2.ID.Hex()] {
		t.Error("expected both projects in the result")
	}
}
