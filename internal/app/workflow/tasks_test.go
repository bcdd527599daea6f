package workflow_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/dalemusser/sprinthub/internal/app/system/errs"
	"github.com/dalemusser/sprinthub/internal/app/workflow"
	"github.com/dalemusser/sprinthub/internal/domain/models"
	"github.com/dalemusser/sprinthub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestCreateTask_AssigneeNotified(t *testing.T) {
	db := testutil.SetupTestDB(t)
	engine := newTestEngine(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	manager := fixtures.CreateManager(ctx, "mgr")
	dev := fixtures.CreateDeveloper(ctx, "dev")
	team := fixtures.CreateTeam(ctx, "Team", &manager.ID)
	project := fixtures.CreateProject(ctx, "Orion", team.ID, &manager.ID)

	task, err := engine.CreateTask(ctx, testutil.Identity(manager), workflow.CreateTaskInput{
		Name:       "Wire the listener",
		ProjectID:  project.ID,
		AssigneeID: &dev.ID,
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if task.ManagerID == nil || *task.ManagerID != manager.ID {
		t.Error("expected task manager to default to the project manager")
	}
	if task.Status != models.StatusToDo {
		t.Errorf("status: got %q, want %q", task.Status, models.StatusToDo)
	}
	if task.Priority != models.PriorityMedium {
		t.Errorf("priority: got %q, want %q", task.Priority, models.PriorityMedium)
	}

	rows, err := engine.ListNotifications(ctx, testutil.Identity(dev), dev.ID, false)
	if err != nil {
		t.Fatalf("ListNotifications failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected exactly one notification, got %d", len(rows))
	}
	if rows[0].Kind != models.NotifyTaskAssigned {
		t.Errorf("kind: got %q, want %q", rows[0].Kind, models.NotifyTaskAssigned)
	}
	if rows[0].RelatedTaskID == nil || *rows[0].RelatedTaskID != task.ID {
		t.Error("notification should reference the task")
	}
	if rows[0].EventKey == "" {
		t.Error("notification rows carry an event key")
	}

	// The same event key never duplicates.
	n, err := db.Collection("notifications").CountDocuments(ctx, bson.M{"event_key": rows[0].EventKey})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("event key appears %d times, want 1", n)
	}
}

func TestCreateTask_UnassignedNoNotification(t *testing.T) {
	db := testutil.SetupTestDB(t)
	engine := newTestEngine(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	manager := fixtures.CreateManager(ctx, "mgr")
	team := fixtures.CreateTeam(ctx, "Team", &manager.ID)
	project := fixtures.CreateProject(ctx, "Orion", team.ID, &manager.ID)

	_, err := engine.CreateTask(ctx, testutil.Identity(manager), workflow.CreateTaskInput{
		Name:      "Backlog item",
		ProjectID: project.ID,
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	n, err := db.Collection("notifications").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("unassigned tasks must not notify, found %d rows", n)
	}
}

func TestCreateTask_DeveloperMustSelfAssign(t *testing.T) {
	db := testutil.SetupTestDB(t)
	engine := newTestEngine(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	dev := fixtures.CreateDeveloper(ctx, "dev")
	other := fixtures.CreateDeveloper(ctx, "other")
	team := fixtures.CreateTeam(ctx, "Team", nil)
	fixtures.CreateMembership(ctx, dev.ID, team.ID, models.TeamRoleDeveloper)
	project := fixtures.CreateProject(ctx, "Orion", team.ID, nil)

	_, err := engine.CreateTask(ctx, testutil.Identity(dev), workflow.CreateTaskInput{
		Name:       "For someone else",
		ProjectID:  project.ID,
		AssigneeID: &other.ID,
	})
	if !errors.Is(err, errs.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}

	task, err := engine.CreateTask(ctx, testutil.Identity(dev), workflow.CreateTaskInput{
		Name:       "For me",
		ProjectID:  project.ID,
		AssigneeID: &dev.ID,
	})
	if err != nil {
		t.Fatalf("self-assigned create failed: %v", err)
	}
	if task.AssigneeID == nil || *task.AssigneeID != dev.ID {
		t.Error("expected the developer assigned to their own task")
	}
}

func TestUpdateTaskStatus_BadValue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	engine := newTestEngine(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateAdmin(ctx, "root")
	team := fixtures.CreateTeam(ctx, "Team", nil)
	project := fixtures.CreateProject(ctx, "Orion", team.ID, nil)
	task := fixtures.CreateTask(ctx, "T", project.ID, nil)

	err := engine.UpdateTaskStatus(ctx, testutil.Identity(admin), task.ID, "done-ish")
	if !errors.Is(err, errs.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestAssignTaskToSprint_Scalar(t *testing.T) {
	db := testutil.SetupTestDB(t)
	engine := newTestEngine(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateAdmin(ctx, "root")
	team := fixtures.CreateTeam(ctx, "Team", nil)
	project := fixtures.CreateProject(ctx, "Orion", team.ID, nil)
	other := fixtures.CreateProject(ctx, "Vega", team.ID, nil)
	s1 := fixtures.CreateSprint(ctx, "Sprint 1", project.ID)
	s2 := fixtures.CreateSprint(ctx, "Sprint 2", project.ID)
	foreign := fixtures.CreateSprint(ctx, "Elsewhere", other.ID)
	task := fixtures.CreateTask(ctx, "T", project.ID, nil)

	if err := engine.AssignTaskToSprint(ctx, testutil.Identity(admin), task.ID, &s1.ID); err != nil {
		t.Fatalf("assign to sprint 1 failed: %v", err)
	}
	// Moving overwrites; a task is in at most one sprint.
	if err := engine.AssignTaskToSprint(ctx, testutil.Identity(admin), task.ID, &s2.ID); err != nil {
		t.Fatalf("assign to sprint 2 failed: %v", err)
	}

	var got models.Task
	if err := db.Collection("tasks").FindOne(ctx, bson.M{"_id": task.ID}).Decode(&got); err != nil {
		t.Fatalf("task lookup failed: %v", err)
	}
	if got.SprintID == nil || *got.SprintID != s2.ID {
		t.Error("expected the task in sprint 2 only")
	}

	err := engine.AssignTaskToSprint(ctx, testutil.Identity(admin), task.ID, &foreign.ID)
	if !errors.Is(err, errs.ErrValidation) {
		t.Errorf("cross-project sprint should fail validation, got %v", err)
	}

	if err := engine.AssignTaskToSprint(ctx, testutil.Identity(admin), task.ID, nil); err != nil {
		t.Fatalf("clearing the sprint failed: %v", err)
	}
	if err := db.Collection("tasks").FindOne(ctx, bson.M{"_id": task.ID}).Decode(&got); err != nil {
		t.Fatalf("task lookup failed: %v", err)
	}
	if got.SprintID != nil {
		t.Error("expected the sprint reference cleared")
	}
}

func TestSoftDeleteTask_HiddenAndRestorable(t *testing.T) {
	db := testutil.SetupTestDB(t)
	engine := newTestEngine(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateAdmin(ctx, "root")
	team := fixtures.CreateTeam(ctx, "Team", nil)
	project := fixtures.CreateProject(ctx, "Orion", team.ID, nil)
	task := fixtures.CreateTask(ctx, "T", project.ID, nil)

	if err := engine.SoftDeleteTask(ctx, testutil.Identity(admin), task.ID); err != nil {
		t.Fatalf("SoftDeleteTask failed: %v", err)
	}

	err := engine.UpdateTaskStatus(ctx, testutil.Identity(admin), task.ID, "completed")
	if !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("deleted task should be invisible to updates, got %v", err)
	}

	if err := engine.RestoreTask(ctx, testutil.Identity(admin), task.ID); err != nil {
		t.Fatalf("RestoreTask failed: %v", err)
	}
	if err := engine.UpdateTaskStatus(ctx, testutil.Identity(admin), task.ID, "completed"); err != nil {
		t.Fatalf("restored task should accept updates: %v", err)
	}
}

func TestVisibleTasks_AssignedOutsideVisibleProjects(t *testing.T) {
	db := testutil.SetupTestDB(t)
	engine := newTestEngine(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	dev := fixtures.CreateDeveloper(ctx, "dev")
	team := fixtures.CreateTeam(ctx, "Team", nil)
	project := fixtures.CreateProject(ctx, "Orion", team.ID, nil)
	assigned := fixtures.CreateTask(ctx, "Mine", project.ID, &dev.ID)
	fixtures.CreateTask(ctx, "Not mine", project.ID, nil)

	tasks, err := engine.VisibleTasks(ctx, testutil.Identity(dev))
	if err != nil {
		t.Fatalf("VisibleTasks failed: %v", err)
	}

	// The assignment makes the project reachable, so both of its
	// tasks come back, each exactly once.
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	seen := map[string]int{}
	for _, task := range tasks {
		seen[task.ID.Hex()]++
	}
	if seen[assigned.ID.Hex()] != 1 {
		t.Errorf("assigned task listed %d times, want 1", seen[assigned.ID.Hex()])
	}
}

// Two near-simultaneous status updates both succeed; the stored status
// is whichever write landed last. No error, no merge.
func TestUpdateTaskStatus_ConcurrentLastWriteWins(t *testing.T) {
	db := testutil.SetupTestDB(t)
	engine := newTestEngine(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	manager := fixtures.CreateManager(ctx, "mgr")
	team := fixtures.CreateTeam(ctx, "Team", &manager.ID)
	project := fixtures.CreateProject(ctx, "Orion", team.ID, &manager.ID)
	task := fixtures.CreateTask(ctx, "Contended", project.ID, nil)

	var wg sync.WaitGroup
	errA := make(chan error, 1)
	errB := make(chan error, 1)
	wg.Add(2)
	go func() {
		defer wg.Done()
		errA <- engine.UpdateTaskStatus(ctx, testutil.Identity(manager), task.ID, "completed")
	}()
	go func() {
		defer wg.Done()
		errB <- engine.UpdateTaskStatus(ctx, testutil.Identity(manager), task.ID, "failed")
	}()
	wg.Wait()

	if err := <-errA; err != nil {
		t.Errorf("completed writer failed: %v", err)
	}
	if err := <-errB; err != nil {
		t.Errorf("failed writer failed: %v", err)
	}

	var stored models.Task
	if err := db.Collection("tasks").FindOne(ctx, bson.M{"_id": task.ID}).Decode(&stored); err != nil {
		t.Fatalf("task lookup failed: %v", err)
	}
	if stored.Status != models.StatusCompleted && stored.Status != models.StatusFailed {
		t.Errorf("status: got %q, want one of the two written values", stored.Status)
	}
}
