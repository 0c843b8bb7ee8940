package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"content-review/internal/apperr"
	"content-review/internal/authz"
	"content-review/internal/data/entity"
	"content-review/internal/dto/request"
)

func actorFor(user *entity.User) authz.Actor {
	return authz.Actor{
		ID:            user.ID,
		Role:          user.Role,
		IsSuperuser:   user.IsSuperuser,
		Authenticated: true,
	}
}

func TestCreateReview(t *testing.T) {
	repo := newTestRepo()
	service := newTestService(repo, nil)
	ctx := context.Background()

	author := seedUser(repo, "alice", entity.RoleUser)
	title := seedTitle(repo, "Some Film", 2001)

	review, err := service.Review.Create(ctx, actorFor(author), title.ID, &request.CreateReviewRequest{
		Text:  "great",
		Score: 9,
	})
	if err != nil {
		t.Fatalf("create review failed: %v", err)
	}
	if review.Author != "alice" {
		t.Fatalf("author = %q, want alice", review.Author)
	}
	if review.Score != 9 {
		t.Fatalf("score = %d, want 9", review.Score)
	}
}

func TestCreateReviewUnknownTitleIsNotFound(t *testing.T) {
	repo := newTestRepo()
	service := newTestService(repo, nil)

	author := seedUser(repo, "alice", entity.RoleUser)

	_, err := service.Review.Create(context.Background(), actorFor(author), uuid.New(), &request.CreateReviewRequest{
		Text:  "great",
		Score: 9,
	})
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestCreateReviewEnforcesOnePerAuthor(t *testing.T) {
	repo := newTestRepo()
	service := newTestService(repo, nil)
	ctx := context.Background()

	author := seedUser(repo, "alice", entity.RoleUser)
	other := seedUser(repo, "bob", entity.RoleUser)
	title := seedTitle(repo, "Some Film", 2001)

	if _, err := service.Review.Create(ctx, actorFor(author), title.ID, &request.CreateReviewRequest{
		Text: "first", Score: 8,
	}); err != nil {
		t.Fatalf("first review failed: %v", err)
	}

	_, err := service.Review.Create(ctx, actorFor(author), title.ID, &request.CreateReviewRequest{
		Text: "second", Score: 2,
	})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("duplicate review must be a validation error, got %v", err)
	}

	// A different author may still review the same title.
	if _, err := service.Review.Create(ctx, actorFor(other), title.ID, &request.CreateReviewRequest{
		Text: "mine", Score: 5,
	}); err != nil {
		t.Fatalf("second author review failed: %v", err)
	}
}

func TestCreateReviewScoreBounds(t *testing.T) {
	repo := newTestRepo()
	service := newTestService(repo, nil)
	ctx := context.Background()

	author := seedUser(repo, "alice", entity.RoleUser)
	title := seedTitle(repo, "Some Film", 2001)

	for _, score := range []int{0, 11, -3} {
		_, err := service.Review.Create(ctx, actorFor(author), title.ID, &request.CreateReviewRequest{
			Text:  "x",
			Score: score,
		})
		if !apperr.IsKind(err, apperr.KindValidation) {
			t.Fatalf("score %d must be rejected, got %v", score, err)
		}
	}
}

func TestReviewUnderWrongTitleIsNotFound(t *testing.T) {
	repo := newTestRepo()
	service := newTestService(repo, nil)
	ctx := context.Background()

	author := seedUser(repo, "alice", entity.RoleUser)
	titleA := seedTitle(repo, "Film A", 2001)
	titleB := seedTitle(repo, "Film B", 2002)

	review, err := service.Review.Create(ctx, actorFor(author), titleA.ID, &request.CreateReviewRequest{
		Text: "on A", Score: 7,
	})
	if err != nil {
		t.Fatalf("create review failed: %v", err)
	}

	_, err = service.Review.GetByID(ctx, titleB.ID, uuid.MustParse(review.ID))
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("review addressed through the wrong title must be not-found, got %v", err)
	}
}

func TestReviewMutationAuthorization(t *testing.T) {
	repo := newTestRepo()
	service := newTestService(repo, nil)
	ctx := context.Background()

	author := seedUser(repo, "alice", entity.RoleUser)
	stranger := seedUser(repo, "bob", entity.RoleUser)
	moderator := seedUser(repo, "mod", entity.RoleModerator)
	title := seedTitle(repo, "Some Film", 2001)

	created, err := service.Review.Create(ctx, actorFor(author), title.ID, &request.CreateReviewRequest{
		Text: "original", Score: 6,
	})
	if err != nil {
		t.Fatalf("create review failed: %v", err)
	}
	reviewID := uuid.MustParse(created.ID)

	newText := "edited"

	// Anonymous callers must be told to authenticate.
	_, err = service.Review.Update(ctx, authz.Anonymous, title.ID, reviewID, &request.UpdateReviewRequest{Text: &newText})
	if !apperr.IsKind(err, apperr.KindUnauthenticated) {
		t.Fatalf("anonymous update must be unauthenticated, got %v", err)
	}

	// A stranger is forbidden.
	_, err = service.Review.Update(ctx, actorFor(stranger), title.ID, reviewID, &request.UpdateReviewRequest{Text: &newText})
	if !apperr.IsKind(err, apperr.KindPermissionDenied) {
		t.Fatalf("foreign update must be forbidden, got %v", err)
	}

	// The author may edit their own review.
	updated, err := service.Review.Update(ctx, actorFor(author), title.ID, reviewID, &request.UpdateReviewRequest{Text: &newText})
	if err != nil {
		t.Fatalf("author update failed: %v", err)
	}
	if updated.Text != "edited" {
		t.Fatalf("text = %q, want edited", updated.Text)
	}

	// A moderator may delete someone else's review.
	if err := service.Review.Delete(ctx, actorFor(moderator), title.ID, reviewID); err != nil {
		t.Fatalf("moderator delete failed: %v", err)
	}

	if _, err := service.Review.GetByID(ctx, title.ID, reviewID); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("deleted review must be gone, got %v", err)
	}
}

func TestListReviews(t *testing.T) {
	repo := newTestRepo()
	service := newTestService(repo, nil)
	ctx := context.Background()

	title := seedTitle(repo, "Some Film", 2001)
	for _, name := range []string{"alice", "bob", "carol"} {
		user := seedUser(repo, name, entity.RoleUser)
		if _, err := service.Review.Create(ctx, actorFor(user), title.ID, &request.CreateReviewRequest{
			Text: "by " + name, Score: 5,
		}); err != nil {
			t.Fatalf("review by %s failed: %v", name, err)
		}
	}

	page := &request.PaginatedRequest{Page: 1, PerPage: 2}
	resp, err := service.Review.List(ctx, title.ID, page)
	if err != nil {
		t.Fatalf("list reviews failed: %v", err)
	}
	if resp.Pagination.Total != 3 {
		t.Fatalf("total = %d, want 3", resp.Pagination.Total)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("page size = %d, want 2", len(resp.Data))
	}
}
