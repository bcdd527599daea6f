package workflow_test

import (
	"errors"
	"testing"

	"github.com/dalemusser/sprinthub/internal/app/system/errs"
	"github.com/dalemusser/sprinthub/internal/app/workflow"
	"github.com/dalemusser/sprinthub/internal/domain/models"
	"github.com/dalemusser/sprinthub/internal/testutil"
)

func TestCreateSubTask_AssigneeAllowed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	engine := newTestEngine(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	dev := fixtures.CreateDeveloper(ctx, "dev")
	other := fixtures.CreateDeveloper(ctx, "other")
	team := fixtures.CreateTeam(ctx, "Team", nil)
	fixtures.CreateMembership(ctx, dev.ID, team.ID, models.TeamRoleDeveloper)
	fixtures.CreateMembership(ctx, other.ID, team.ID, models.TeamRoleDeveloper)
	project := fixtures.CreateProject(ctx, "Orion", team.ID, nil)
	task := fixtures.CreateTask(ctx, "Parent", project.ID, &dev.ID)

	sub, err := engine.CreateSubTask(ctx, testutil.Identity(dev), workflow.CreateSubTaskInput{
		ParentTaskID: task.ID,
		Name:         "Write the fixture",
		Type:         "feature",
	})
	if err != nil {
		t.Fatalf("CreateSubTask failed: %v", err)
	}
	if sub.Status != models.StatusToDo {
		t.Errorf("status: got %q, want %q", sub.Status, models.StatusToDo)
	}

	// A teammate who is not the assignee cannot break the task down.
	_, err = engine.CreateSubTask(ctx, testutil.Identity(other), workflow.CreateSubTaskInput{
		ParentTaskID: task.ID,
		Name:         "Sneaky",
		Type:         "feature",
	})
	if !errors.Is(err, errs.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCreateSubTask_UnknownType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	engine := newTestEngine(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateAdmin(ctx, "root")
	team := fixtures.CreateTeam(ctx, "Team", nil)
	project := fixtures.CreateProject(ctx, "Orion", team.ID, nil)
	task := fixtures.CreateTask(ctx, "Parent", project.ID, nil)

	_, err := engine.CreateSubTask(ctx, testutil.Identity(admin), workflow.CreateSubTaskInput{
		ParentTaskID: task.ID,
		Name:         "Mystery",
		Type:         "yak-shaving",
	})
	if !errors.Is(err, errs.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestSubTaskBoard_AllColumnsPresent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	engine := newTestEngine(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateAdmin(ctx, "root")
	team := fixtures.CreateTeam(ctx, "Team", nil)
	project := fixtures.CreateProject(ctx, "Orion", team.ID, nil)
	task := fixtures.CreateTask(ctx, "Parent", project.ID, nil)

	s1 := fixtures.CreateSubTask(ctx, "One", task.ID, models.SubTaskFeature)
	fixtures.CreateSubTask(ctx, "Two", task.ID, models.SubTaskTest)
	if err := engine.UpdateSubTaskStatus(ctx, testutil.Identity(admin), s1.ID, "in_progress"); err != nil {
		t.Fatalf("UpdateSubTaskStatus failed: %v", err)
	}

	board, err := engine.SubTaskBoard(ctx, testutil.Identity(admin), task.ID)
	if err != nil {
		t.Fatalf("SubTaskBoard failed: %v", err)
	}

	for _, status := range models.CompletionStatuses() {
		if _, ok := board[status]; !ok {
			t.Errorf("board missing column %q", status)
		}
	}
	if len(board[models.StatusInProgress]) != 1 {
		t.Errorf("in_progress column: got %d, want 1", len(board[models.StatusInProgress]))
	}
	if len(board[models.StatusToDo]) != 1 {
		t.Errorf("to_do column: got %d, want 1", len(board[models.StatusToDo]))
	}
	if len(board[models.StatusCompleted]) != 0 {
		t.Errorf("completed column should be empty")
	}
}

func TestSoftDeleteSubTask_ManagementOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	engine := newTestEngine(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateAdmin(ctx, "root")
	dev := fixtures.CreateDeveloper(ctx, "dev")
	team := fixtures.CreateTeam(ctx, "Team", nil)
	fixtures.CreateMembership(ctx, dev.ID, team.ID, models.TeamRoleDeveloper)
	project := fixtures.CreateProject(ctx, "Orion", team.ID, nil)
	task := fixtures.CreateTask(ctx, "Parent", project.ID, &dev.ID)
	sub := fixtures.CreateSubTask(ctx, "One", task.ID, models.SubTaskFeature)

	// The assignee works the sub-task but does not delete it.
	err := engine.SoftDeleteSubTask(ctx, testutil.Identity(dev), sub.ID)
	if !errors.Is(err, errs.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}

	if err := engine.SoftDeleteSubTask(ctx, testutil.Identity(admin), sub.ID); err != nil {
		t.Fatalf("SoftDeleteSubTask failed: %v", err)
	}
	if err := engine.RestoreSubTask(ctx, testutil.Identity(admin), sub.ID); err != nil {
		t.Fatalf("RestoreSubTask failed: %v", err)
	}
	if err := engine.UpdateSubTaskStatus(ctx, testutil.Identity(dev), sub.ID, "completed"); err != nil {
		t.Fatalf("restored sub-task should accept updates: %v", err)
	}
}
