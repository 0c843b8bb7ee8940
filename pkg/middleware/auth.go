package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"content-review/internal/authz"
	"content-review/internal/data/entity"
	"content-review/pkg/token"
	"content-review/pkg/utils"
)

// Auth validates the bearer token and puts the actor on the context.
// It rejects requests without a valid token; use OptionalAuth for
// routes that are readable anonymously.
func Auth(tokens *token.Manager, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := actorFromHeader(r, tokens, logger)
			if !ok {
				utils.ResponseUnauthorized(w, "Missing or invalid authorization token")
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.SetActorContext(r.Context(), actor)))
		})
	}
}

// OptionalAuth resolves the actor when a token is present but lets
// anonymous requests through. Handlers decide per action whether an
// anonymous actor is acceptable.
func OptionalAuth(tokens *token.Manager, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if actor, ok := actorFromHeader(r, tokens, logger); ok {
				ctx = utils.SetActorContext(ctx, actor)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Admin gates the user-administration surface. Must run after Auth.
func Admin(logger *zap.Logger) func(http.Handler) http.Handler {
	return requirePolicy(authz.CanManageUsers, "user admin", logger)
}

// CatalogAdmin gates category, genre and title writes. Must run after
// Auth.
func CatalogAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return requirePolicy(authz.CanManageCatalog, "catalog admin", logger)
}

func requirePolicy(allowed func(authz.Actor) bool, surface string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := utils.GetActorFromContext(r.Context())
			if !actor.Authenticated {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if !allowed(actor) {
				logger.Warn("Policy check: access denied",
					zap.String("surface", surface),
					zap.String("user_id", actor.ID.String()),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func actorFromHeader(r *http.Request, tokens *token.Manager, logger *zap.Logger) (authz.Actor, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return authz.Anonymous, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return authz.Anonymous, false
	}

	claims, err := tokens.Validate(parts[1])
	if err != nil {
		logger.Warn("Token validation failed", zap.Error(err))
		return authz.Anonymous, false
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		logger.Warn("Token carries malformed user ID", zap.String("user_id", claims.UserID))
		return authz.Anonymous, false
	}

	return authz.Actor{
		ID:            userID,
		Role:          entity.UserRole(claims.Role),
		IsSuperuser:   claims.IsSuperuser,
		Authenticated: true,
	}, true
}
