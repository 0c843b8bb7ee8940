package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"content-review/internal/data/entity"
	"content-review/pkg/database"
)

type ConfirmationCodeRepository interface {
	Create(ctx context.Context, code *entity.ConfirmationCode) error
	// FindActiveByUser returns the newest unused, unexpired code for
	// the user, or nil when none is pending.
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*entity.ConfirmationCode, error)
	MarkUsed(ctx context.Context, id uuid.UUID) error
	// InvalidatePending marks every pending code of the user as used,
	// so a re-issued code is the only live credential.
	InvalidatePending(ctx context.Context, userID uuid.UUID) error
}

type confirmationCodeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewConfirmationCodeRepository(db database.PgxIface, log *zap.Logger) ConfirmationCodeRepository {
	return &confirmationCodeRepository{
		db:  db,
		log: log.With(zap.String("repository", "confirmation_code")),
	}
}

func (r *confirmationCodeRepository) Create(ctx context.Context, code *entity.ConfirmationCode) error {
	query := `
		INSERT INTO confirmation_codes (id, user_id, code_hash, expires_at, is_used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		code.ID,
		code.UserID,
		code.CodeHash,
		code.ExpiresAt,
		code.IsUsed,
		code.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create confirmation code",
			zap.Error(err),
			zap.String("user_id", code.UserID.String()),
		)
		return fmt.Errorf("create confirmation code for user %s: %w", code.UserID.String(), err)
	}

	return nil
}

func (r *confirmationCodeRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*entity.ConfirmationCode, error) {
	query := `
		SELECT id, user_id, code_hash, expires_at, is_used, created_at
		FROM confirmation_codes
		WHERE user_id = $1 AND is_used = FALSE AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
	`

	var code entity.ConfirmationCode
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&code.ID,
		&code.UserID,
		&code.CodeHash,
		&code.ExpiresAt,
		&code.IsUsed,
		&code.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find active confirmation code",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find active confirmation code for user %s: %w", userID.String(), err)
	}

	return &code, nil
}

func (r *confirmationCodeRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE confirmation_codes SET is_used = TRUE WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to mark confirmation code used",
			zap.Error(err),
			zap.String("code_id", id.String()),
		)
		return fmt.Errorf("mark confirmation code %s used: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("confirmation code %s not found", id.String())
	}

	return nil
}

func (r *confirmationCodeRepository) InvalidatePending(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE confirmation_codes SET is_used = TRUE WHERE user_id = $1 AND is_used = FALSE`

	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		r.log.Error("Failed to invalidate pending confirmation codes",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("invalidate pending codes for user %s: %w", userID.String(), err)
	}

	return nil
}
