package authz

import (
	"testing"

	"github.com/google/uuid"

	"content-review/internal/data/entity"
)

func actorWithRole(role entity.UserRole) Actor {
	return Actor{ID: uuid.New(), Role: role, Authenticated: true}
}

func TestCanModifyOwned(t *testing.T) {
	ownerID := uuid.New()
	owner := Actor{ID: ownerID, Role: entity.RoleUser, Authenticated: true}

	tests := []struct {
		name  string
		actor Actor
		want  bool
	}{
		{"anonymous denied", Anonymous, false},
		{"owner allowed", owner, true},
		{"other user denied", actorWithRole(entity.RoleUser), false},
		{"moderator allowed", actorWithRole(entity.RoleModerator), true},
		{"admin allowed", actorWithRole(entity.RoleAdmin), true},
		{"superuser with user role allowed", Actor{ID: uuid.New(), Role: entity.RoleUser, IsSuperuser: true, Authenticated: true}, true},
		{"unknown role denied", actorWithRole(entity.UserRole("owner")), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanModifyOwned(tt.actor, ownerID); got != tt.want {
				t.Fatalf("CanModifyOwned() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanModifyOwnedAnonymousNeverOwns(t *testing.T) {
	// An unauthenticated actor whose zero ID happens to equal the
	// owner ID must still be denied.
	fake := Actor{ID: uuid.Nil}
	if CanModifyOwned(fake, uuid.Nil) {
		t.Fatal("anonymous actor with matching zero ID must be denied")
	}
}

func TestAdminOnlyPredicates(t *testing.T) {
	predicates := map[string]func(Actor) bool{
		"CanManageCatalog": CanManageCatalog,
		"CanManageUsers":   CanManageUsers,
		"CanAssignRole":    CanAssignRole,
	}

	tests := []struct {
		name  string
		actor Actor
		want  bool
	}{
		{"anonymous", Anonymous, false},
		{"plain user", actorWithRole(entity.RoleUser), false},
		{"moderator", actorWithRole(entity.RoleModerator), false},
		{"admin", actorWithRole(entity.RoleAdmin), true},
		{"superuser", Actor{ID: uuid.New(), Role: entity.RoleUser, IsSuperuser: true, Authenticated: true}, true},
		{"unknown role", actorWithRole(entity.UserRole("root")), false},
		{"unauthenticated admin claims", Actor{ID: uuid.New(), Role: entity.RoleAdmin}, false},
	}

	for predName, pred := range predicates {
		for _, tt := range tests {
			t.Run(predName+"/"+tt.name, func(t *testing.T) {
				if got := pred(tt.actor); got != tt.want {
					t.Fatalf("%s() = %v, want %v", predName, got, tt.want)
				}
			})
		}
	}
}
