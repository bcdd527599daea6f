// internal/app/system/authz/authz.go
//
// Package authz carries the authenticated-actor descriptor through the
// engine. Authentication happens outside the core; the surrounding
// layer builds an Identity per request and threads it explicitly
// through every policy and workflow call. There is no ambient
// "current user".
package authz

import (
	"github.com/dalemusser/sprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Identity describes one authenticated actor: the user id and the
// global role the authenticator resolved for it. The global role is
// advisory for most resources; policies combine it with per-team roles
// from the store.
type Identity struct {
	UserID primitive.ObjectID
	Role   models.GlobalRole
}

// Valid reports whether the identity names a real user. Policies fail
// closed on invalid identities.
func (id Identity) Valid() bool {
	return id.UserID != primitive.NilObjectID
}

// IsAdmin reports whether the actor holds the global admin role.
func (id Identity) IsAdmin() bool {
	return id.Valid() && id.Role == models.RoleAdmin
}

// IsManager reports whether the actor holds the global manager role.
func (id Identity) IsManager() bool {
	return id.Valid() && id.Role == models.RoleManager
}

// IsDeveloper reports whether the actor holds the global developer role.
func (id Identity) IsDeveloper() bool {
	return id.Valid() && id.Role == models.RoleDeveloper
}

// IsVisitor reports whether the actor holds the global visitor role.
func (id Identity) IsVisitor() bool {
	return id.Valid() && id.Role == models.RoleVisitor
}

// HasAnyRole reports whether the actor's global role is one of the
// given roles.
func (id Identity) HasAnyRole(roles ...models.GlobalRole) bool {
	if !id.Valid() {
		return false
	}
	for _, want := range roles {
		if id.Role == want {
			return true
		}
	}
	return false
}
