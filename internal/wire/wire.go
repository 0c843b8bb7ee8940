package wire

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"content-review/internal/adaptor"
	"content-review/internal/data/repository"
	"content-review/internal/usecase"
	"content-review/pkg/middleware"
	"content-review/pkg/token"
	"content-review/pkg/utils"
)

type App struct {
	Router *chi.Mux
}

// Wiring builds the full dependency graph: services, handlers and the
// routed HTTP surface.
func Wiring(repo *repository.Repository, config *utils.Config, logger *zap.Logger) *App {
	tokens := token.NewManager(config.JWT.Secret, config.JWT.ExpiryHours)

	var mailer usecase.Mailer = usecase.NewLogMailer(logger)
	if config.Email.Host != "" {
		mailer = usecase.NewSMTPMailer(config.Email, logger)
	}

	service := usecase.NewService(repo, config, tokens, mailer, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, tokens, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(handler *adaptor.Handler, tokens *token.Manager, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	wireAuth(r, handler.Auth)
	wireUser(r, handler.User, tokens, logger)
	wireCatalog(r, handler.Category, handler.Genre, handler.Title, tokens, logger)
	wireReview(r, handler.Review, handler.Comment, tokens, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
