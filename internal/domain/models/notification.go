// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification kinds emitted by the dispatcher rule table.
const (
	NotifyTaskAssigned  = "task_assigned"
	NotifyQueryRaised   = "query_raised"
	NotifyIssueRaised   = "issue_raised"
	NotifyQueryResolved = "query_resolved"
)

// Notification is an append-only record for a single recipient. Rows
// are created once by the dispatcher and only ever change by the read
// flag flipping false to true; the core never deletes them.
//
// EventKey is a per-trigger idempotency key so a retried mutation can
// be traced to the notification it already produced.
type Notification struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID  `bson:"user_id" json:"user_id"`
	Kind          string              `bson:"kind" json:"kind"`
	Description   string              `bson:"description,omitempty" json:"description,omitempty"`
	RelatedTaskID *primitive.ObjectID `bson:"related_task_id,omitempty" json:"related_task_id,omitempty"`
	EventKey      string              `bson:"event_key" json:"event_key"`
	Read          bool                `bson:"read" json:"read"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
