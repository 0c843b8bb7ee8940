package entity

import (
	"time"

	"github.com/google/uuid"
)

// ConfirmationCode is a pending login credential. Only the bcrypt hash
// of the code is stored; the plaintext leaves the system through the
// mailer and is never persisted.
type ConfirmationCode struct {
	BaseSimple
	UserID    uuid.UUID `db:"user_id"`
	CodeHash  string    `db:"code_hash"`
	ExpiresAt time.Time `db:"expires_at"`
	IsUsed    bool      `db:"is_used"`
}
