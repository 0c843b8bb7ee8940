package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE 23505, unique_violation. Raced inserts that slip past a
// service pre-check land here and must surface as the same validation
// error the pre-check produces.
const uniqueViolationCode = "23505"

// uniqueViolation reports whether err is a unique-constraint conflict
// and returns the violated constraint name.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return pgErr.ConstraintName, true
	}
	return "", false
}
