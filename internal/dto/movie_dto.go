package dto

import (
	"encoding/json"
	"time"

	"reelog/internal/models"
)

type GenreDTO struct {
	ID   int64  `json:"id" binding:"required"`
	Name string `json:"name" binding:"required"`
}

type CastMemberDTO struct {
	ID        int64  `json:"id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Character string `json:"character"`
	Order     int    `json:"order"`
}

// UpsertMovieRequest carries the full metadata snapshot for one catalog
// item. Used for POST /api/movies.
type UpsertMovieRequest struct {
	TMDBID       int64           `json:"tmdb_id" binding:"required,gt=0"`
	Title        string          `json:"title" binding:"required"`
	ReleaseDate  *string         `json:"release_date,omitempty"`
	Runtime      *int            `json:"runtime,omitempty"`
	Overview     *string         `json:"overview,omitempty"`
	PosterPath   *string         `json:"poster_path,omitempty"`
	BackdropPath *string         `json:"backdrop_path,omitempty"`
	VoteAverage  *float64        `json:"vote_average,omitempty"`
	Genres       []GenreDTO      `json:"genres,omitempty"`
	Cast         []CastMemberDTO `json:"cast,omitempty"`
	RawPayload   json.RawMessage `json:"raw_payload,omitempty"`
}

// MovieResponse DTO for responses
type MovieResponse struct {
	ID           int64               `json:"id"`
	TMDBID       int64               `json:"tmdb_id"`
	Title        string              `json:"title"`
	ReleaseDate  *string             `json:"release_date,omitempty"`
	Runtime      *int                `json:"runtime,omitempty"`
	Overview     *string             `json:"overview,omitempty"`
	PosterPath   *string             `json:"poster_path,omitempty"`
	BackdropPath *string             `json:"backdrop_path,omitempty"`
	VoteAverage  *float64            `json:"vote_average,omitempty"`
	Genres       []models.MovieGenre `json:"genres,omitempty"`
	Cast         []models.CastMember `json:"cast,omitempty"`
	LastSyncedAt time.Time           `json:"last_synced_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// Converters
func (d UpsertMovieRequest) ToModel() *models.Movie {
	m := &models.Movie{
		TMDBID:       d.TMDBID,
		Title:        d.Title,
		ReleaseDate:  d.ReleaseDate,
		Runtime:      d.Runtime,
		Overview:     d.Overview,
		PosterPath:   d.PosterPath,
		BackdropPath: d.BackdropPath,
		VoteAverage:  d.VoteAverage,
		RawPayload:   d.RawPayload,
	}
	if d.Genres != nil {
		m.Genres = make(models.GenreList, 0, len(d.Genres))
		for _, g := range d.Genres {
			m.Genres = append(m.Genres, models.MovieGenre{ID: g.ID, Name: g.Name})
		}
	}
	if d.Cast != nil {
		m.Cast = make(models.CastList, 0, len(d.Cast))
		for _, c := range d.Cast {
			m.Cast = append(m.Cast, models.CastMember{
				ID:        c.ID,
				Name:      c.Name,
				Character: c.Character,
				Order:     c.Order,
			})
		}
	}
	return m
}

func FromMovieModel(m models.Movie) MovieResponse {
	return MovieResponse{
		ID:           m.ID,
		TMDBID:       m.TMDBID,
		Title:        m.Title,
		ReleaseDate:  m.ReleaseDate,
		Runtime:      m.Runtime,
		Overview:     m.Overview,
		PosterPath:   m.PosterPath,
		BackdropPath: m.BackdropPath,
		VoteAverage:  m.VoteAverage,
		Genres:       m.Genres,
		Cast:         m.Cast,
		LastSyncedAt: m.LastSyncedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
