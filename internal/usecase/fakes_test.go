package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"content-review/internal/apperr"
	"content-review/internal/data/entity"
	"content-review/internal/data/repository"
	"content-review/pkg/token"
	"content-review/pkg/utils"
)

// In-memory repository fakes. They reproduce the behavior the real
// repositories promise: nil for missing rows and validation errors for
// unique conflicts.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*entity.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == user.Username {
			return apperr.ValidationFields("user already exists",
				map[string]string{"username": "Username is already taken"})
		}
		if existing.Email == user.Email {
			return apperr.ValidationFields("user already exists",
				map[string]string{"email": "Email is already registered"})
		}
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(_ context.Context, search string, limit, offset int) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.User
	for _, user := range r.users {
		if search == "" || strings.Contains(strings.ToLower(user.Username), strings.ToLower(search)) {
			clone := *user
			out = append(out, &clone)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeUserRepo) CountAll(_ context.Context, search string) (int64, error) {
	users, _ := r.FindAll(context.Background(), search, 1<<30, 0)
	return int64(len(users)), nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

type fakeCodeRepo struct {
	mu    sync.Mutex
	codes []*entity.ConfirmationCode
}

func (r *fakeCodeRepo) Create(_ context.Context, code *entity.ConfirmationCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *code
	r.codes = append(r.codes, &clone)
	return nil
}

func (r *fakeCodeRepo) FindActiveByUser(_ context.Context, userID uuid.UUID) (*entity.ConfirmationCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var newest *entity.ConfirmationCode
	for _, code := range r.codes {
		if code.UserID != userID || code.IsUsed || time.Now().After(code.ExpiresAt) {
			continue
		}
		if newest == nil || code.CreatedAt.After(newest.CreatedAt) {
			newest = code
		}
	}
	if newest == nil {
		return nil, nil
	}
	clone := *newest
	return &clone, nil
}

func (r *fakeCodeRepo) MarkUsed(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, code := range r.codes {
		if code.ID == id {
			code.IsUsed = true
		}
	}
	return nil
}

func (r *fakeCodeRepo) InvalidatePending(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, code := range r.codes {
		if code.UserID == userID && !code.IsUsed {
			code.IsUsed = true
		}
	}
	return nil
}

type fakeCategoryRepo struct {
	mu         sync.Mutex
	categories []*entity.Category
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.categories {
		if existing.Slug == category.Slug {
			return apperr.ValidationFields("category already exists",
				map[string]string{"slug": "Slug is already in use"})
		}
	}
	clone := *category
	r.categories = append(r.categories, &clone)
	return nil
}

func (r *fakeCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, category := range r.categories {
		if category.ID == id {
			clone := *category
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) FindBySlug(_ context.Context, slug string) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, category := range r.categories {
		if category.Slug == slug {
			clone := *category
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) FindAll(_ context.Context, search string, limit, offset int) ([]*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Category
	for _, category := range r.categories {
		if search == "" || strings.Contains(strings.ToLower(category.Name), strings.ToLower(search)) {
			clone := *category
			out = append(out, &clone)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeCategoryRepo) CountAll(_ context.Context, search string) (int64, error) {
	all, _ := r.FindAll(context.Background(), search, 1<<30, 0)
	return int64(len(all)), nil
}

func (r *fakeCategoryRepo) DeleteBySlug(_ context.Context, slug string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, category := range r.categories {
		if category.Slug == slug {
			r.categories = append(r.categories[:i], r.categories[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("category " + slug + " not found")
}

type fakeGenreRepo struct {
	mu     sync.Mutex
	genres []*entity.Genre
	links  *fakeTitleLinks
}

func (r *fakeGenreRepo) Create(_ context.Context, genre *entity.Genre) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.genres {
		if existing.Slug == genre.Slug {
			return apperr.ValidationFields("genre already exists",
				map[string]string{"slug": "Slug is already in use"})
		}
	}
	clone := *genre
	r.genres = append(r.genres, &clone)
	return nil
}

func (r *fakeGenreRepo) FindBySlug(_ context.Context, slug string) (*entity.Genre, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, genre := range r.genres {
		if genre.Slug == slug {
			clone := *genre
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeGenreRepo) FindBySlugs(_ context.Context, slugs []string) ([]*entity.Genre, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Genre
	for _, genre := range r.genres {
		for _, slug := range slugs {
			if genre.Slug == slug {
				clone := *genre
				out = append(out, &clone)
			}
		}
	}
	return out, nil
}

func (r *fakeGenreRepo) FindByTitleID(_ context.Context, titleID uuid.UUID) ([]*entity.Genre, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.links == nil {
		return nil, nil
	}
	var out []*entity.Genre
	for _, genreID := range r.links.genres(titleID) {
		for _, genre := range r.genres {
			if genre.ID == genreID {
				clone := *genre
				out = append(out, &clone)
			}
		}
	}
	return out, nil
}

func (r *fakeGenreRepo) FindAll(_ context.Context, search string, limit, offset int) ([]*entity.Genre, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Genre
	for _, genre := range r.genres {
		if search == "" || strings.Contains(strings.ToLower(genre.Name), strings.ToLower(search)) {
			clone := *genre
			out = append(out, &clone)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeGenreRepo) CountAll(_ context.Context, search string) (int64, error) {
	all, _ := r.FindAll(context.Background(), search, 1<<30, 0)
	return int64(len(all)), nil
}

func (r *fakeGenreRepo) DeleteBySlug(_ context.Context, slug string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, genre := range r.genres {
		if genre.Slug == slug {
			r.genres = append(r.genres[:i], r.genres[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("genre " + slug + " not found")
}

// fakeTitleLinks is the shared in-memory title_genres table, read by
// the genre fake and written by the title fake.
type fakeTitleLinks struct {
	mu    sync.Mutex
	byTit map[uuid.UUID][]uuid.UUID
}

func newFakeTitleLinks() *fakeTitleLinks {
	return &fakeTitleLinks{byTit: map[uuid.UUID][]uuid.UUID{}}
}

func (r *fakeTitleLinks) replace(titleID uuid.UUID, genreIDs []uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byTit[titleID] = append([]uuid.UUID(nil), genreIDs...)
}

func (r *fakeTitleLinks) genres(titleID uuid.UUID) []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uuid.UUID(nil), r.byTit[titleID]...)
}

type fakeTitleRepo struct {
	mu     sync.Mutex
	titles map[uuid.UUID]*entity.Title
	links  *fakeTitleLinks

	// linkErr makes UpdateWithGenres fail before touching any state,
	// like a rolled-back transaction.
	linkErr error
}

func newFakeTitleRepo(links *fakeTitleLinks) *fakeTitleRepo {
	return &fakeTitleRepo{titles: map[uuid.UUID]*entity.Title{}, links: links}
}

func (r *fakeTitleRepo) Create(_ context.Context, title *entity.Title, genreIDs []uuid.UUID) error {
	r.mu.Lock()
	clone := *title
	r.titles[title.ID] = &clone
	r.mu.Unlock()
	r.links.replace(title.ID, genreIDs)
	return nil
}

func (r *fakeTitleRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Title, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if title, ok := r.titles[id]; ok {
		clone := *title
		return &clone, nil
	}
	return nil, nil
}

func (r *fakeTitleRepo) FindAll(_ context.Context, _ repository.TitleFilter, limit, offset int) ([]*entity.Title, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Title
	for _, title := range r.titles {
		clone := *title
		out = append(out, &clone)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeTitleRepo) CountAll(_ context.Context, _ repository.TitleFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.titles)), nil
}

func (r *fakeTitleRepo) Update(_ context.Context, title *entity.Title) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *title
	r.titles[title.ID] = &clone
	return nil
}

func (r *fakeTitleRepo) UpdateWithGenres(ctx context.Context, title *entity.Title, genreIDs []uuid.UUID) error {
	if r.linkErr != nil {
		return r.linkErr
	}
	if err := r.Update(ctx, title); err != nil {
		return err
	}
	r.links.replace(title.ID, genreIDs)
	return nil
}

func (r *fakeTitleRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.titles, id)
	return nil
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews map[uuid.UUID]*entity.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: map[uuid.UUID]*entity.Review{}}
}

func (r *fakeReviewRepo) Create(_ context.Context, review *entity.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reviews {
		if existing.AuthorID == review.AuthorID && existing.TitleID == review.TitleID {
			return repository.ErrDuplicateReview()
		}
	}
	clone := *review
	r.reviews[review.ID] = &clone
	return nil
}

func (r *fakeReviewRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if review, ok := r.reviews[id]; ok {
		clone := *review
		return &clone, nil
	}
	return nil, nil
}

func (r *fakeReviewRepo) FindByTitleID(_ context.Context, titleID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Review
	for _, review := range r.reviews {
		if review.TitleID == titleID {
			clone := *review
			out = append(out, &clone)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeReviewRepo) FindByAuthorAndTitle(_ context.Context, authorID, titleID uuid.UUID) (*entity.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, review := range r.reviews {
		if review.AuthorID == authorID && review.TitleID == titleID {
			clone := *review
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeReviewRepo) CountByTitleID(_ context.Context, titleID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, review := range r.reviews {
		if review.TitleID == titleID {
			count++
		}
	}
	return count, nil
}

func (r *fakeReviewRepo) Update(_ context.Context, review *entity.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *review
	r.reviews[review.ID] = &clone
	return nil
}

func (r *fakeReviewRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.reviews, id)
	return nil
}

func (r *fakeReviewRepo) ScoreStats(_ context.Context, titleID uuid.UUID) (float64, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum, count int64
	for _, review := range r.reviews {
		if review.TitleID == titleID {
			sum += int64(review.Score)
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments map[uuid.UUID]*entity.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[uuid.UUID]*entity.Comment{}}
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *entity.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *comment
	r.comments[comment.ID] = &clone
	return nil
}

func (r *fakeCommentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if comment, ok := r.comments[id]; ok {
		clone := *comment
		return &clone, nil
	}
	return nil, nil
}

func (r *fakeCommentRepo) FindByReviewID(_ context.Context, reviewID uuid.UUID, limit, offset int) ([]*entity.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Comment
	for _, comment := range r.comments {
		if comment.ReviewID == reviewID {
			clone := *comment
			out = append(out, &clone)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeCommentRepo) CountByReviewID(_ context.Context, reviewID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, comment := range r.comments {
		if comment.ReviewID == reviewID {
			count++
		}
	}
	return count, nil
}

func (r *fakeCommentRepo) Update(_ context.Context, comment *entity.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *comment
	r.comments[comment.ID] = &clone
	return nil
}

func (r *fakeCommentRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.comments, id)
	return nil
}

// captureMailer records outgoing codes so tests can complete the flow
// the way a real user reading their email would.
type captureMailer struct {
	mu    sync.Mutex
	codes map[string]string
}

func newCaptureMailer() *captureMailer {
	return &captureMailer{codes: map[string]string{}}
}

func (m *captureMailer) SendConfirmationCode(_ context.Context, email, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[email] = code
	return nil
}

func (m *captureMailer) lastCode(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[email]
}

func newTestRepo() *repository.Repository {
	links := newFakeTitleLinks()
	return &repository.Repository{
		User:             newFakeUserRepo(),
		ConfirmationCode: &fakeCodeRepo{},
		Category:         &fakeCategoryRepo{},
		Genre:            &fakeGenreRepo{links: links},
		Title:            newFakeTitleRepo(links),
		Review:           newFakeReviewRepo(),
		Comment:          newFakeCommentRepo(),
	}
}

func newTestConfig() *utils.Config {
	return &utils.Config{
		JWT:  utils.JWTConfig{Secret: "test-secret", ExpiryHours: 1},
		Code: utils.CodeConfig{ExpiryMinutes: 15},
	}
}

func newTestService(repo *repository.Repository, mailer Mailer) *Service {
	if mailer == nil {
		mailer = newCaptureMailer()
	}
	return NewService(repo, newTestConfig(), token.NewManager("test-secret", 1), mailer, zap.NewNop())
}

func seedUser(repo *repository.Repository, username string, role entity.UserRole) *entity.User {
	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
	}
	_ = repo.User.Create(context.Background(), user)
	return user
}

func seedTitle(repo *repository.Repository, name string, year int) *entity.Title {
	now := time.Now()
	title := &entity.Title{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name: name,
		Year: year,
	}
	_ = repo.Title.Create(context.Background(), title, nil)
	return title
}
