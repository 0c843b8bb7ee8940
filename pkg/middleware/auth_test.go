package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"content-review/internal/authz"
	"content-review/internal/data/entity"
	"content-review/pkg/utils"
)

func gateStatus(t *testing.T, gate func(http.Handler) http.Handler, actor *authz.Actor) int {
	t.Helper()

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/categories", nil)
	if actor != nil {
		req = req.WithContext(utils.SetActorContext(req.Context(), *actor))
	}

	rec := httptest.NewRecorder()
	gate(next).ServeHTTP(rec, req)
	return rec.Code
}

func TestCatalogAdminGate(t *testing.T) {
	gate := CatalogAdmin(zap.NewNop())

	if status := gateStatus(t, gate, nil); status != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d, want %d", status, http.StatusUnauthorized)
	}

	user := authz.Actor{ID: uuid.New(), Role: entity.RoleUser, Authenticated: true}
	if status := gateStatus(t, gate, &user); status != http.StatusForbidden {
		t.Fatalf("plain user status = %d, want %d", status, http.StatusForbidden)
	}

	// Moderators curate reviews and comments, not the catalog.
	moderator := authz.Actor{ID: uuid.New(), Role: entity.RoleModerator, Authenticated: true}
	if status := gateStatus(t, gate, &moderator); status != http.StatusForbidden {
		t.Fatalf("moderator status = %d, want %d", status, http.StatusForbidden)
	}

	admin := authz.Actor{ID: uuid.New(), Role: entity.RoleAdmin, Authenticated: true}
	if status := gateStatus(t, gate, &admin); status != http.StatusNoContent {
		t.Fatalf("admin status = %d, want %d", status, http.StatusNoContent)
	}

	superuser := authz.Actor{ID: uuid.New(), Role: entity.RoleUser, IsSuperuser: true, Authenticated: true}
	if status := gateStatus(t, gate, &superuser); status != http.StatusNoContent {
		t.Fatalf("superuser status = %d, want %d", status, http.StatusNoContent)
	}
}

func TestAdminGate(t *testing.T) {
	gate := Admin(zap.NewNop())

	if status := gateStatus(t, gate, nil); status != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d, want %d", status, http.StatusUnauthorized)
	}

	moderator := authz.Actor{ID: uuid.New(), Role: entity.RoleModerator, Authenticated: true}
	if status := gateStatus(t, gate, &moderator); status != http.StatusForbidden {
		t.Fatalf("moderator status = %d, want %d", status, http.StatusForbidden)
	}

	admin := authz.Actor{ID: uuid.New(), Role: entity.RoleAdmin, Authenticated: true}
	if status := gateStatus(t, gate, &admin); status != http.StatusNoContent {
		t.Fatalf("admin status = %d, want %d", status, http.StatusNoContent)
	}
}
