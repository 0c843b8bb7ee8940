package repository

import (
	"go.uber.org/zap"

	"content-review/pkg/database"
)

type Repository struct {
	User             UserRepository
	ConfirmationCode ConfirmationCodeRepository
	Category         CategoryRepository
	Genre            GenreRepository
	Title            TitleRepository
	Review           ReviewRepository
	Comment          CommentRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:             NewUserRepository(db, log),
		ConfirmationCode: NewConfirmationCodeRepository(db, log),
		Category:         NewCategoryRepository(db, log),
		Genre:            NewGenreRepository(db, log),
		Title:            NewTitleRepository(db, log),
		Review:           NewReviewRepository(db, log),
		Comment:          NewCommentRepository(db, log),
	}
}
