// internal/app/system/timeouts/timeouts.go
//
// Package timeouts centralizes the context deadlines used for store
// and health-check calls so they are tuned in one place.
package timeouts

import "time"

// Ping bounds liveness checks against the database.
func Ping() time.Duration { return 2 * time.Second }

// Query bounds a single read path (lookups, visible-set computation).
func Query() time.Duration { return 10 * time.Second }

// Mutation bounds one transactional write, including the notification
// rows written with it.
func Mutation() time.Duration { return 15 * time.Second }
