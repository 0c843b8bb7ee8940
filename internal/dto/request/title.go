package request

// CreateTitleRequest references category and genres by slug; responses
// expand them into full objects. The two shapes are deliberately
// separate.
type CreateTitleRequest struct {
	Name        string   `json:"name" validate:"required,max=256"`
	Year        int      `json:"year" validate:"required"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,max=50"`
	Genre       []string `json:"genre,omitempty" validate:"omitempty,dive,max=50"`
}

type UpdateTitleRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,max=256"`
	Year        *int     `json:"year,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,max=50"`
	Genre       []string `json:"genre,omitempty" validate:"omitempty,dive,max=50"`
}

// TitleListFilter carries the query-string filters for title listings.
type TitleListFilter struct {
	Category string
	Genre    string
	Name     string
	Year     *int
}
