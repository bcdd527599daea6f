// internal/app/workflow/engine.go
//
// Package workflow is the mutation surface of the engine. Every
// operation takes an explicit identity, authorizes it against the
// policy layer before touching business logic, applies its writes in
// one transaction, and hands resulting events to the notification
// dispatcher. Callers (web handlers, CLI, RPC) consume these
// in-process contracts; no wire protocol is mandated here.
package workflow

import (
	"errors"

	"github.com/dalemusser/sprinthub/internal/app/notify"
	grantstore "github.com/dalemusser/sprinthub/internal/app/store/grants"
	membershipstore "github.com/dalemusser/sprinthub/internal/app/store/memberships"
	notestore "github.com/dalemusser/sprinthub/internal/app/store/notes"
	notificationstore "github.com/dalemusser/sprinthub/internal/app/store/notifications"
	profilestore "github.com/dalemusser/sprinthub/internal/app/store/profiles"
	projectstore "github.com/dalemusser/sprinthub/internal/app/store/projects"
	sprintstore "github.com/dalemusser/sprinthub/internal/app/store/sprints"
	subtaskstore "github.com/dalemusser/sprinthub/internal/app/store/subtasks"
	taskstore "github.com/dalemusser/sprinthub/internal/app/store/tasks"
	teamstore "github.com/dalemusser/sprinthub/internal/app/store/teams"
	userstore "github.com/dalemusser/sprinthub/internal/app/store/users"
	"github.com/dalemusser/sprinthub/internal/app/system/errs"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Engine applies authorized mutations to the hierarchy.
type Engine struct {
	client *mongo.Client
	db     *mongo.Database

	users         *userstore.Store
	profiles      *profilestore.Store
	teams         *teamstore.Store
	memberships   *membershipstore.Store
	projects      *projectstore.Store
	grants        *grantstore.Store
	tasks         *taskstore.Store
	subtasks      *subtaskstore.Store
	sprints       *sprintstore.Store
	notes         *notestore.Store
	notifications *notificationstore.Store

	dispatch *notify.Dispatcher
	log      *zap.Logger
}

// New constructs an Engine over the given database. The dispatcher
// owns notification rows and email side effects.
func New(db *mongo.Database, dispatcher *notify.Dispatcher, logger *zap.Logger) *Engine {
	return &Engine{
		client:        db.Client(),
		db:            db,
		users:         userstore.New(db),
		profiles:      profilestore.New(db),
		teams:         teamstore.New(db),
		memberships:   membershipstore.New(db),
		projects:      projectstore.New(db),
		grants:        grantstore.New(db),
		tasks:         taskstore.New(db),
		subtasks:      subtaskstore.New(db),
		sprints:       sprintstore.New(db),
		notes:         notestore.New(db),
		notifications: notificationstore.New(db),
		dispatch:      dispatcher,
		log:           logger,
	}
}

// conflict maps a store's duplicate-key sentinel into the taxonomy,
// falling back to FromStore for everything else.
func conflict(err error, sentinels ...error) error {
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return errs.Conflictf("%v", err)
		}
	}
	return errs.FromStore(err)
}
