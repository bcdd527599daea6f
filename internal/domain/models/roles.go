// internal/domain/models/roles.go
package models

import "fmt"

// GlobalRole is a user's system-wide classification. It is advisory:
// real authorization also depends on the user's per-team role.
type GlobalRole string

const (
	RoleAdmin     GlobalRole = "admin"
	RoleManager   GlobalRole = "manager"
	RoleDeveloper GlobalRole = "developer"
	RoleVisitor   GlobalRole = "visitor"
)

// ParseGlobalRole converts a request string into a GlobalRole,
// rejecting unknown values.
func ParseGlobalRole(s string) (GlobalRole, error) {
	switch GlobalRole(s) {
	case RoleAdmin, RoleManager, RoleDeveloper, RoleVisitor:
		return GlobalRole(s), nil
	}
	return "", fmt.Errorf("unknown global role %q", s)
}

// TeamRole is a user's classification within one team, independent of
// their global role.
type TeamRole string

const (
	TeamRoleDeveloper TeamRole = "developer"
	TeamRoleManager   TeamRole = "manager"
	TeamRoleVisitor   TeamRole = "visitor"
)

// ParseTeamRole converts a request string into a TeamRole, rejecting
// unknown values.
func ParseTeamRole(s string) (TeamRole, error) {
	switch TeamRole(s) {
	case TeamRoleDeveloper, TeamRoleManager, TeamRoleVisitor:
		return TeamRole(s), nil
	}
	return "", fmt.Errorf("unknown team role %q", s)
}
