package workflow_test

import (
	"context"
	"testing"

	"github.com/dalemusser/sprinthub/internal/app/notify"
	"github.com/dalemusser/sprinthub/internal/app/system/indexes"
	"github.com/dalemusser/sprinthub/internal/app/workflow"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestEngine(t *testing.T, db *mongo.Database) *workflow.Engine {
	t.Helper()
	dispatcher := notify.New(db, nil, zap.NewNop(), "SprintHub", "")
	return workflow.New(db, dispatcher, zap.NewNop())
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	return indexes.EnsureAll(ctx, db)
}
