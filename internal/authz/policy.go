// Package authz is the single authorization decision point. Every
// mutating operation consults one of these predicates; they are pure
// and always return a definite allow/deny. A role outside the closed
// set carries no privileges.
package authz

import (
	"github.com/google/uuid"

	"content-review/internal/data/entity"
)

// Actor is the authenticated (or anonymous) caller of a request.
type Actor struct {
	ID            uuid.UUID
	Role          entity.UserRole
	IsSuperuser   bool
	Authenticated bool
}

// Anonymous is the zero actor used for unauthenticated requests.
var Anonymous = Actor{}

func (a Actor) isModerator() bool {
	return a.Authenticated && a.Role == entity.RoleModerator
}

func (a Actor) isAdmin() bool {
	return a.Authenticated && (a.Role == entity.RoleAdmin || a.IsSuperuser)
}

// CanModifyOwned decides mutations on an owned sub-resource (review,
// comment): the author, a moderator, an admin, or a superuser.
// Anonymous actors are always denied.
func CanModifyOwned(actor Actor, ownerID uuid.UUID) bool {
	if !actor.Authenticated {
		return false
	}
	if actor.ID == ownerID {
		return true
	}
	return actor.isModerator() || actor.isAdmin()
}

// CanManageCatalog decides create/update/delete on categories, genres
// and titles. These have no owner; only admins and superusers qualify.
func CanManageCatalog(actor Actor) bool {
	return actor.isAdmin()
}

// CanManageUsers decides access to the user administration surface.
func CanManageUsers(actor Actor) bool {
	return actor.isAdmin()
}

// CanAssignRole decides whether the actor may change a role field. A
// non-privileged actor submitting a role is silently overridden back
// to the default by the caller; this predicate tells it to do so.
func CanAssignRole(actor Actor) bool {
	return actor.isAdmin()
}
