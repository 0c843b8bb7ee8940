package response

import (
	"content-review/internal/data/entity"
)

type GenreResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func GenreToResponse(genre *entity.Genre) GenreResponse {
	return GenreResponse{
		Name: genre.Name,
		Slug: genre.Slug,
	}
}

func GenresToResponse(genres []*entity.Genre) []GenreResponse {
	out := make([]GenreResponse, len(genres))
	for i, genre := range genres {
		out[i] = GenreToResponse(genre)
	}
	return out
}
