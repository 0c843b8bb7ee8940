package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"content-review/internal/apperr"
	"content-review/internal/data/entity"
	"content-review/internal/data/repository"
	"content-review/internal/dto/request"
)

func seedCategory(repo repository.CategoryRepository, name, slug string) *entity.Category {
	category := &entity.Category{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		Name:       name,
		Slug:       slug,
	}
	_ = repo.Create(context.Background(), category)
	return category
}

func seedGenre(repo repository.GenreRepository, name, slug string) *entity.Genre {
	genre := &entity.Genre{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		Name:       name,
		Slug:       slug,
	}
	_ = repo.Create(context.Background(), genre)
	return genre
}

func TestCreateTitleWithCatalogRefs(t *testing.T) {
	repo := newTestRepo()
	service := newTestService(repo, nil)
	ctx := context.Background()

	seedCategory(repo.Category, "Movies", "movies")
	seedGenre(repo.Genre, "Drama", "drama")
	seedGenre(repo.Genre, "Comedy", "comedy")

	category := "movies"
	title, err := service.Title.Create(ctx, &request.CreateTitleRequest{
		Name:     "Some Film",
		Year:     1999,
		Category: &category,
		Genre:    []string{"drama", "comedy"},
	})
	if err != nil {
		t.Fatalf("create title failed: %v", err)
	}

	if title.Category == nil || title.Category.Slug != "movies" {
		t.Fatalf("category = %+v, want movies", title.Category)
	}
	if len(title.Genre) != 2 {
		t.Fatalf("genres = %d, want 2", len(title.Genre))
	}
	if title.Rating != nil {
		t.Fatalf("fresh title rating = %v, want null", *title.Rating)
	}
}

func TestCreateTitleRejectsFutureYear(t *testing.T) {
	service := newTestService(newTestRepo(), nil)

	_, err := service.Title.Create(context.Background(), &request.CreateTitleRequest{
		Name: "From The Future",
		Year: time.Now().Year() + 1,
	})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("future year must be rejected, got %v", err)
	}

	// The current year is still allowed.
	if _, err := service.Title.Create(context.Background(), &request.CreateTitleRequest{
		Name: "This Year",
		Year: time.Now().Year(),
	}); err != nil {
		t.Fatalf("current-year title failed: %v", err)
	}
}

func TestCreateTitleRejectsUnknownRefs(t *testing.T) {
	repo := newTestRepo()
	service := newTestService(repo, nil)
	ctx := context.Background()

	category := "ghost"
	_, err := service.Title.Create(ctx, &request.CreateTitleRequest{
		Name: "X", Year: 2000, Category: &category,
	})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("unknown category must be rejected, got %v", err)
	}

	_, err = service.Title.Create(ctx, &request.CreateTitleRequest{
		Name: "X", Year: 2000, Genre: []string{"ghost"},
	})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("unknown genre must be rejected, got %v", err)
	}
}

func TestTitleRatingDerivation(t *testing.T) {
	repo := newTestRepo()
	service := newTestService(repo, nil)
	ctx := context.Background()

	title := seedTitle(repo, "Some Film", 2001)

	got, err := service.Title.GetByID(ctx, title.ID)
	if err != nil {
		t.Fatalf("get title failed: %v", err)
	}
	if got.Rating != nil {
		t.Fatalf("rating without reviews = %v, want null", *got.Rating)
	}

	// Scores 7 and 8 average to 7.5 exactly.
	for i, score := range []int{7, 8} {
		user := seedUser(repo, []string{"alice", "bob"}[i], entity.RoleUser)
		if _, err := service.Review.Create(ctx, actorFor(user), title.ID, &request.CreateReviewRequest{
			Text: "x", Score: score,
		}); err != nil {
			t.Fatalf("review failed: %v", err)
		}
	}

	got, err = service.Title.GetByID(ctx, title.ID)
	if err != nil {
		t.Fatalf("get title failed: %v", err)
	}
	if got.Rating == nil || *got.Rating != 7.5 {
		t.Fatalf("rating = %v, want 7.5", got.Rating)
	}

	// A third score of 7 gives 22/3 = 7.333..., rounded to one decimal.
	carol := seedUser(repo, "carol", entity.RoleUser)
	if _, err := service.Review.Create(ctx, actorFor(carol), title.ID, &request.CreateReviewRequest{
		Text: "x", Score: 7,
	}); err != nil {
		t.Fatalf("review failed: %v", err)
	}

	got, err = service.Title.GetByID(ctx, title.ID)
	if err != nil {
		t.Fatalf("get title failed: %v", err)
	}
	if got.Rating == nil || *got.Rating != 7.3 {
		t.Fatalf("rating = %v, want 7.3", got.Rating)
	}
}

func TestUpdateTitleReplacesGenres(t *testing.T) {
	repo := newTestRepo()
	service := newTestService(repo, nil)
	ctx := context.Background()

	seedGenre(repo.Genre, "Drama", "drama")
	seedGenre(repo.Genre, "Comedy", "comedy")

	created, err := service.Title.Create(ctx, &request.CreateTitleRequest{
		Name: "Some Film", Year: 2000, Genre: []string{"drama"},
	})
	if err != nil {
		t.Fatalf("create title failed: %v", err)
	}

	updated, err := service.Title.Update(ctx, uuid.MustParse(created.ID), &request.UpdateTitleRequest{
		Genre: []string{"comedy"},
	})
	if err != nil {
		t.Fatalf("update title failed: %v", err)
	}
	if len(updated.Genre) != 1 || updated.Genre[0].Slug != "comedy" {
		t.Fatalf("genres after replace = %+v, want [comedy]", updated.Genre)
	}
}

func TestUpdateTitleIsAtomicOnGenreFailure(t *testing.T) {
	repo := newTestRepo()
	service := newTestService(repo, nil)
	ctx := context.Background()

	seedGenre(repo.Genre, "Drama", "drama")
	seedGenre(repo.Genre, "Comedy", "comedy")

	created, err := service.Title.Create(ctx, &request.CreateTitleRequest{
		Name: "Old Name", Year: 2000, Genre: []string{"drama"},
	})
	if err != nil {
		t.Fatalf("create title failed: %v", err)
	}
	titleID := uuid.MustParse(created.ID)

	repo.Title.(*fakeTitleRepo).linkErr = errors.New("title_genres insert failed")

	name := "New Name"
	if _, err := service.Title.Update(ctx, titleID, &request.UpdateTitleRequest{
		Name:  &name,
		Genre: []string{"comedy"},
	}); err == nil {
		t.Fatal("update must fail when the genre swap fails")
	}

	// The failed update must leave no trace: the name and the genre
	// set both stay as they were.
	repo.Title.(*fakeTitleRepo).linkErr = nil
	got, err := service.Title.GetByID(ctx, titleID)
	if err != nil {
		t.Fatalf("get title failed: %v", err)
	}
	if got.Name != "Old Name" {
		t.Fatalf("name after failed update = %q, want %q", got.Name, "Old Name")
	}
	if len(got.Genre) != 1 || got.Genre[0].Slug != "drama" {
		t.Fatalf("genres after failed update = %+v, want [drama]", got.Genre)
	}
}

func TestDeleteTitleNotFound(t *testing.T) {
	service := newTestService(newTestRepo(), nil)

	if err := service.Title.Delete(context.Background(), uuid.New()); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("missing title delete must be not-found, got %v", err)
	}
}
