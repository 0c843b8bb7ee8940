package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"content-review/internal/apperr"
	"content-review/internal/data/entity"
	"content-review/pkg/database"
)

// TitleFilter narrows title listings. Zero values mean "no filter".
type TitleFilter struct {
	CategorySlug string
	GenreSlug    string
	Name         string
	Year         *int
}

type TitleRepository interface {
	// Create inserts the title and its genre links in one transaction.
	Create(ctx context.Context, title *entity.Title, genreIDs []uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Title, error)
	FindAll(ctx context.Context, filter TitleFilter, limit, offset int) ([]*entity.Title, error)
	CountAll(ctx context.Context, filter TitleFilter) (int64, error)
	Update(ctx context.Context, title *entity.Title) error
	// UpdateWithGenres updates the title row and swaps its genre set in
	// one transaction. Either both land or neither does.
	UpdateWithGenres(ctx context.Context, title *entity.Title, genreIDs []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type titleRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTitleRepository(db database.PgxIface, log *zap.Logger) TitleRepository {
	return &titleRepository{
		db:  db,
		log: log.With(zap.String("repository", "title")),
	}
}

func (r *titleRepository) Create(ctx context.Context, title *entity.Title, genreIDs []uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create title tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO titles (id, name, year, description, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = tx.Exec(ctx, query,
		title.ID,
		title.Name,
		title.Year,
		title.Description,
		title.CategoryID,
		title.CreatedAt,
		title.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create title",
			zap.Error(err),
			zap.String("name", title.Name),
		)
		return fmt.Errorf("create title %s: %w", title.Name, err)
	}

	if err := r.linkGenres(ctx, tx, title.ID, genreIDs); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create title tx: %w", err)
	}

	return nil
}

// linkGenres inserts the genre links inside the caller's transaction.
func (r *titleRepository) linkGenres(ctx context.Context, tx pgx.Tx, titleID uuid.UUID, genreIDs []uuid.UUID) error {
	for _, genreID := range genreIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO title_genres (title_id, genre_id) VALUES ($1, $2)`,
			titleID, genreID,
		)
		if err != nil {
			r.log.Error("Failed to link title genre",
				zap.Error(err),
				zap.String("title_id", titleID.String()),
				zap.String("genre_id", genreID.String()),
			)
			return fmt.Errorf("link genre %s to title %s: %w", genreID.String(), titleID.String(), err)
		}
	}
	return nil
}

func (r *titleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Title, error) {
	query := `
		SELECT id, name, year, description, category_id, created_at, updated_at
		FROM titles
		WHERE id = $1
	`

	var title entity.Title
	err := r.db.QueryRow(ctx, query, id).Scan(
		&title.ID,
		&title.Name,
		&title.Year,
		&title.Description,
		&title.CategoryID,
		&title.CreatedAt,
		&title.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find title by ID",
			zap.Error(err),
			zap.String("title_id", id.String()),
		)
		return nil, fmt.Errorf("find title by ID %s: %w", id.String(), err)
	}

	return &title, nil
}

// filterClause builds the WHERE tail and argument list shared by
// FindAll and CountAll.
func (r *titleRepository) filterClause(filter TitleFilter) (string, []any) {
	conditions := []string{"TRUE"}
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.CategorySlug != "" {
		conditions = append(conditions, fmt.Sprintf(
			"t.category_id = (SELECT id FROM categories WHERE slug = %s)", arg(filter.CategorySlug)))
	}
	if filter.GenreSlug != "" {
		conditions = append(conditions, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM title_genres tg
			         INNER JOIN genres g ON g.id = tg.genre_id
			         WHERE tg.title_id = t.id AND g.slug = %s)`, arg(filter.GenreSlug)))
	}
	if filter.Name != "" {
		conditions = append(conditions, fmt.Sprintf("t.name ILIKE '%%' || %s || '%%'", arg(filter.Name)))
	}
	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("t.year = %s", arg(*filter.Year)))
	}

	return strings.Join(conditions, " AND "), args
}

func (r *titleRepository) FindAll(ctx context.Context, filter TitleFilter, limit, offset int) ([]*entity.Title, error) {
	where, args := r.filterClause(filter)
	query := fmt.Sprintf(`
		SELECT t.id, t.name, t.year, t.description, t.category_id,
		       t.created_at, t.updated_at
		FROM titles t
		WHERE %s
		ORDER BY t.year DESC, t.name
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list titles", zap.Error(err))
		return nil, fmt.Errorf("list titles: %w", err)
	}
	defer rows.Close()

	var titles []*entity.Title
	for rows.Next() {
		var title entity.Title
		err := rows.Scan(
			&title.ID,
			&title.Name,
			&title.Year,
			&title.Description,
			&title.CategoryID,
			&title.CreatedAt,
			&title.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan title row", zap.Error(err))
			return nil, fmt.Errorf("scan title row: %w", err)
		}
		titles = append(titles, &title)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate title rows: %w", err)
	}

	return titles, nil
}

func (r *titleRepository) CountAll(ctx context.Context, filter TitleFilter) (int64, error) {
	where, args := r.filterClause(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM titles t WHERE %s`, where)

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count titles", zap.Error(err))
		return 0, fmt.Errorf("count titles: %w", err)
	}

	return count, nil
}

func (r *titleRepository) Update(ctx context.Context, title *entity.Title) error {
	query := `
		UPDATE titles
		SET name = $2, year = $3, description = $4, category_id = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		title.ID,
		title.Name,
		title.Year,
		title.Description,
		title.CategoryID,
		title.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update title",
			zap.Error(err),
			zap.String("title_id", title.ID.String()),
		)
		return fmt.Errorf("update title %s: %w", title.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("title not found")
	}

	return nil
}

func (r *titleRepository) UpdateWithGenres(ctx context.Context, title *entity.Title, genreIDs []uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update title tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE titles
		SET name = $2, year = $3, description = $4, category_id = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := tx.Exec(ctx, query,
		title.ID,
		title.Name,
		title.Year,
		title.Description,
		title.CategoryID,
		title.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update title",
			zap.Error(err),
			zap.String("title_id", title.ID.String()),
		)
		return fmt.Errorf("update title %s: %w", title.ID.String(), err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("title not found")
	}

	if _, err := tx.Exec(ctx, `DELETE FROM title_genres WHERE title_id = $1`, title.ID); err != nil {
		r.log.Error("Failed to clear title genres",
			zap.Error(err),
			zap.String("title_id", title.ID.String()),
		)
		return fmt.Errorf("clear genres for title %s: %w", title.ID.String(), err)
	}

	if err := r.linkGenres(ctx, tx, title.ID, genreIDs); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit update title tx: %w", err)
	}

	return nil
}

func (r *titleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Reviews and their comments go with the title (ON DELETE CASCADE).
	query := `DELETE FROM titles WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete title",
			zap.Error(err),
			zap.String("title_id", id.String()),
		)
		return fmt.Errorf("delete title %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("title not found")
	}

	r.log.Info("Title deleted", zap.String("title_id", id.String()))
	return nil
}
