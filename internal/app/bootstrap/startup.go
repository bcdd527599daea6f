// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/sprinthub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.BootstrapAdminUsername != "" {
		if err := ensureAdmin(ctx, deps, appCfg.BootstrapAdminUsername, logger); err != nil {
			return fmt.Errorf("admin bootstrap: %w", err)
		}
	}
	return nil
}

// ensureAdmin guarantees an approved admin account exists for the given
// username. An existing account is promoted and approved in place; a
// missing one is created. Idempotent across restarts.
func ensureAdmin(ctx context.Context, deps DBDeps, username string, logger *zap.Logger) error {
	coll := deps.MongoDatabase.Collection("users")
	usernameCI := text.Fold(username)
	now := time.Now().UTC()

	var existing models.User
	err := coll.FindOne(ctx, bson.M{"username_ci": usernameCI, "deleted": false}).Decode(&existing)
	switch {
	case err == nil:
		if existing.Role == models.RoleAdmin && existing.Approved {
			return nil
		}
		_, err = coll.UpdateByID(ctx, existing.ID, bson.M{"$set": bson.M{
			"role":       models.RoleAdmin,
			"approved":   true,
			"updated_at": now,
		}})
		if err != nil {
			return err
		}
		logger.Info("promoted existing user to admin",
			zap.String("username", username))
		return nil

	case err == mongo.ErrNoDocuments:
		user := models.User{
			ID:         primitive.NewObjectID(),
			Username:   username,
			UsernameCI: usernameCI,
			Role:       models.RoleAdmin,
			Approved:   true,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if _, err := coll.InsertOne(ctx, user); err != nil {
			return err
		}
		logger.Info("created admin user", zap.String("username", username))
		return nil

	default:
		return err
	}
}
