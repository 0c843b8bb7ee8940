package response

import (
	"content-review/internal/data/entity"
)

// TitleResponse carries the derived rating: rounded to one decimal,
// null when the title has no reviews.
type TitleResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Rating      *float64          `json:"rating"`
	Description *string           `json:"description,omitempty"`
	Genre       []GenreResponse   `json:"genre"`
	Category    *CategoryResponse `json:"category"`
}

func TitleToResponse(title *entity.Title, rating *float64, genres []*entity.Genre, category *entity.Category) TitleResponse {
	resp := TitleResponse{
		ID:          title.ID.String(),
		Name:        title.Name,
		Year:        title.Year,
		Rating:      rating,
		Description: title.Description,
		Genre:       GenresToResponse(genres),
	}

	if category != nil {
		c := CategoryToResponse(category)
		resp.Category = &c
	}

	return resp
}
