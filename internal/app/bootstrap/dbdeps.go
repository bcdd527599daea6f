// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/sprinthub/internal/app/workflow"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
// Extend this struct as the app evolves.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Engine is the assembled workflow engine, wired with the SMTP
	// notifier. Embedding callers reach the domain through it.
	Engine *workflow.Engine
}
