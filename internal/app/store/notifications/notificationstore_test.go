package notificationstore_test

import (
	"testing"

	notificationstore "github.com/dalemusser/sprinthub/internal/app/store/notifications"
	"github.com/dalemusser/sprinthub/internal/domain/models"
	"github.com/dalemusser/sprinthub/internal/testutil"
	"github.com/google/uuid"
)

func TestStore_CreateAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateDeveloper(ctx, "dev1")

	created, err := store.Create(ctx, models.Notification{
		UserID:      user.ID,
		Kind:        models.NotifyTaskAssigned,
		Description: "You have been assigned a task",
		EventKey:    uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Read {
		t.Error("new notification should be unread")
	}

	list, err := store.ListByUser(ctx, user.ID, true)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 unread notification, got %d", len(list))
	}
}

func TestStore_MarkRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateDeveloper(ctx, "dev1")
	created, err := store.Create(ctx, models.Notification{
		UserID:      user.ID,
		Kind:        models.NotifyQueryRaised,
		Description: "A query was raised",
		EventKey:    uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.MarkRead(ctx, created.ID); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}

	unread, err := store.ListByUser(ctx, user.ID, true)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(unread) != 0 {
		t.Errorf("expected 0 unread, got %d", len(unread))
	}

	all, err := store.ListByUser(ctx, user.ID, false)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(all) != 1 || !all[0].Read {
		t.Error("expected one read notification")
	}

	// Marking twice is a no-op.
	if err := store.MarkRead(ctx, created.ID); err != nil {
		t.Errorf("second MarkRead should not error: %v", err)
	}
}
