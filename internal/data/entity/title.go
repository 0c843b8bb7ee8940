package entity

import (
	"github.com/google/uuid"
)

// Title is a catalogued work. CategoryID is a weak reference: deleting
// a category nulls it, it never cascades. Reviews cascade with the
// title.
type Title struct {
	BaseNoDelete
	Name        string     `db:"name"`
	Year        int        `db:"year"`
	Description *string    `db:"description"`
	CategoryID  *uuid.UUID `db:"category_id"`
}
