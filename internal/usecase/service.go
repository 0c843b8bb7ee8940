package usecase

import (
	"go.uber.org/zap"

	"content-review/internal/data/repository"
	"content-review/pkg/token"
	"content-review/pkg/utils"
)

type Service struct {
	Auth     AuthService
	User     UserService
	Category CategoryService
	Genre    GenreService
	Title    TitleService
	Review   ReviewService
	Comment  CommentService
}

func NewService(repo *repository.Repository, config *utils.Config, tokens *token.Manager, mailer Mailer, log *zap.Logger) *Service {
	return &Service{
		Auth:     NewAuthService(repo, config, tokens, mailer, log),
		User:     NewUserService(repo.User, log),
		Category: NewCategoryService(repo.Category, log),
		Genre:    NewGenreService(repo.Genre, log),
		Title:    NewTitleService(repo, log),
		Review:   NewReviewService(repo, log),
		Comment:  NewCommentService(repo, log),
	}
}
