package entity

import (
	"github.com/google/uuid"
)

// Review holds at most one row per (author, title) pair, enforced by a
// unique index in addition to the service pre-check.
type Review struct {
	BaseSimple
	TitleID  uuid.UUID `db:"title_id"`
	AuthorID uuid.UUID `db:"author_id"`
	Text     string    `db:"text"`
	Score    int       `db:"score"` // 1-10
}
