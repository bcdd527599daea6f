package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/sprinthub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates an approved test user with the given username and
// global role. Returns the created user with its generated ID.
func (f *Fixtures) CreateUser(ctx context.Context, username string, role models.GlobalRole) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		Username:   username,
		UsernameCI: text.Fold(username),
		Role:       role,
		Approved:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateAdmin creates a test admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, username string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, username, models.RoleAdmin)
}

// CreateManager creates a test manager user.
func (f *Fixtures) CreateManager(ctx context.Context, username string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, username, models.RoleManager)
}

// CreateDeveloper creates a test developer user.
func (f *Fixtures) CreateDeveloper(ctx context.Context, username string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, username, models.RoleDeveloper)
}

// CreateVisitor creates a test visitor user.
func (f *Fixtures) CreateVisitor(ctx context.Context, username string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, username, models.RoleVisitor)
}

// CreatePendingUser creates a test user awaiting admin approval.
func (f *Fixtures) CreatePendingUser(ctx context.Context, username string, role models.GlobalRole) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		Username:   username,
		UsernameCI: text.Fold(username),
		Role:       role,
		Approved:   false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create pending test user: %v", err)
	}

	return user
}

// CreateProfile creates a profile record for the given user.
func (f *Fixtures) CreateProfile(ctx context.Context, userID primitive.ObjectID, fullName, email string) models.UserProfile {
	f.t.Helper()

	now := time.Now().UTC()
	profile := models.UserProfile{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := f.db.Collection("user_profiles").InsertOne(ctx, profile)
	if err != nil {
		f.t.Fatalf("failed to create test profile: %v", err)
	}

	return profile
}

// CreateTeam creates a test team, optionally with a manager.
func (f *Fixtures) CreateTeam(ctx context.Context, name string, managerID *primitive.ObjectID) models.Team {
	f.t.Helper()

	now := time.Now().UTC()
	team := models.Team{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		Description: "Test team description",
		ManagerID:   managerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := f.db.Collection("teams").InsertOne(ctx, team)
	if err != nil {
		f.t.Fatalf("failed to create test team: %v", err)
	}

	return team
}

// CreateMembership creates a membership record linking a user to a team.
func (f *Fixtures) CreateMembership(ctx context.Context, userID, teamID primitive.ObjectID, role models.TeamRole) models.TeamMembership {
	f.t.Helper()

	membership := models.TeamMembership{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		TeamID:    teamID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}

	_, err := f.db.Collection("team_memberships").InsertOne(ctx, membership)
	if err != nil {
		f.t.Fatalf("failed to create test membership: %v", err)
	}

	return membership
}

// CreateProject creates a test project owned by the given team. The
// owner team's access grant is created alongside, matching how the
// engine creates projects.
func (f *Fixtures) CreateProject(ctx context.Context, name string, ownerTeamID primitive.ObjectID, managerID *primitive.ObjectID) models.Project {
	f.t.Helper()

	now := time.Now().UTC()
	project := models.Project{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		Summary:     "Test project summary",
		OwnerTeamID: ownerTeamID,
		ManagerID:   managerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := f.db.Collection("projects").InsertOne(ctx, project)
	if err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}

	f.CreateGrant(ctx, ownerTeamID, project.ID)

	return project
}

// CreateGrant creates an access grant linking a team to a project.
func (f *Fixtures) CreateGrant(ctx context.Context, teamID, projectID primitive.ObjectID) models.TeamProjectGrant {
	f.t.Helper()

	grant := models.TeamProjectGrant{
		ID:        primitive.NewObjectID(),
		TeamID:    teamID,
		ProjectID: projectID,
		CreatedAt: time.Now().UTC(),
	}

	_, err := f.db.Collection("team_project_grants").InsertOne(ctx, grant)
	if err != nil {
		f.t.Fatalf("failed to create test grant: %v", err)
	}

	return grant
}

// CreateTask creates a test task in the given project, optionally
// assigned to a user.
func (f *Fixtures) CreateTask(ctx context.Context, name string, projectID primitive.ObjectID, assigneeID *primitive.ObjectID) models.Task {
	f.t.Helper()

	now := time.Now().UTC()
	task := models.Task{
		ID:         primitive.NewObjectID(),
		Name:       name,
		NameCI:     text.Fold(name),
		ProjectID:  projectID,
		AssigneeID: assigneeID,
		Priority:   models.PriorityMedium,
		Status:     models.StatusToDo,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := f.db.Collection("tasks").InsertOne(ctx, task)
	if err != nil {
		f.t.Fatalf("failed to create test task: %v", err)
	}

	return task
}

// CreateSubTask creates a test sub-task under the given parent task.
func (f *Fixtures) CreateSubTask(ctx context.Context, name string, parentTaskID primitive.ObjectID, typ models.SubTaskType) models.SubTask {
	f.t.Helper()

	now := time.Now().UTC()
	sub := models.SubTask{
		ID:           primitive.NewObjectID(),
		ParentTaskID: parentTaskID,
		Name:         name,
		Status:       models.StatusToDo,
		Type:         typ,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := f.db.Collection("sub_tasks").InsertOne(ctx, sub)
	if err != nil {
		f.t.Fatalf("failed to create test sub-task: %v", err)
	}

	return sub
}

// CreateSprint creates a test sprint in the given project spanning two
// weeks from now.
func (f *Fixtures) CreateSprint(ctx context.Context, name string, projectID primitive.ObjectID) models.Sprint {
	f.t.Helper()

	now := time.Now().UTC()
	sprint := models.Sprint{
		ID:        primitive.NewObjectID(),
		Name:      name,
		ProjectID: projectID,
		Status:    models.SprintPlanning,
		StartDate: now,
		EndDate:   now.Add(14 * 24 * time.Hour),
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := f.db.Collection("sprints").InsertOne(ctx, sprint)
	if err != nil {
		f.t.Fatalf("failed to create test sprint: %v", err)
	}

	return sprint
}

// CreateNote creates a test note on the given task.
func (f *Fixtures) CreateNote(ctx context.Context, taskID, authorID primitive.ObjectID, kind models.NoteKind, content string) models.Note {
	f.t.Helper()

	now := time.Now().UTC()
	note := models.Note{
		ID:        primitive.NewObjectID(),
		TaskID:    taskID,
		AuthorID:  authorID,
		Kind:      kind,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := f.db.Collection("notes").InsertOne(ctx, note)
	if err != nil {
		f.t.Fatalf("failed to create test note: %v", err)
	}

	return note
}
