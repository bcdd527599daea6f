package testutil

import (
	"github.com/dalemusser/sprinthub/internal/app/system/authz"
	"github.com/dalemusser/sprinthub/internal/domain/models"
)

// Identity builds an authz.Identity for the given user, the way the
// outer surface would after authenticating a request.
func Identity(user models.User) authz.Identity {
	return authz.Identity{UserID: user.ID, Role: user.Role}
}
