package dto

import (
	"time"

	"reelog/internal/models"
	"reelog/internal/service"
)

// CreateWatchLogRequest: payload for one watch-log submission. The movie
// must have been upserted first; MovieID is the reference the upsert
// returned.
type CreateWatchLogRequest struct {
	MovieID          int64    `json:"movie_id" binding:"required,gt=0"`
	TMDBID           int64    `json:"tmdb_id" binding:"required,gt=0"`
	WatchedAt        string   `json:"watched_at" binding:"required"`
	Rating           *float64 `json:"rating,omitempty"`
	ReviewText       *string  `json:"review_text,omitempty"`
	IsRewatch        bool     `json:"is_rewatch"`
	WatchedInTheater bool     `json:"watched_in_theater"`
	TheaterName      *string  `json:"theater_name,omitempty"`
	TheaterCity      *string  `json:"theater_city,omitempty"`
	TheaterFormat    *string  `json:"theater_format,omitempty"`
	Visibility       string   `json:"visibility" binding:"required"`
}

func (d CreateWatchLogRequest) ToNewWatchLog() service.NewWatchLog {
	entry := service.NewWatchLog{
		MovieID:          d.MovieID,
		TMDBID:           d.TMDBID,
		WatchedAt:        d.WatchedAt,
		Rating:           d.Rating,
		ReviewText:       d.ReviewText,
		IsRewatch:        d.IsRewatch,
		WatchedInTheater: d.WatchedInTheater,
		TheaterName:      d.TheaterName,
		TheaterCity:      d.TheaterCity,
		Visibility:       models.Visibility(d.Visibility),
	}
	if d.TheaterFormat != nil {
		format := models.TheaterFormat(*d.TheaterFormat)
		entry.TheaterFormat = &format
	}
	return entry
}

// WatchLogResponse: one stored log entry
type WatchLogResponse struct {
	ID               int64     `json:"id"`
	MovieID          int64     `json:"movie_id"`
	TMDBID           int64     `json:"tmdb_id"`
	WatchedAt        string    `json:"watched_at"`
	Rating           *float64  `json:"rating,omitempty"`
	ReviewText       *string   `json:"review_text,omitempty"`
	IsRewatch        bool      `json:"is_rewatch"`
	WatchedInTheater bool      `json:"watched_in_theater"`
	TheaterName      *string   `json:"theater_name,omitempty"`
	TheaterCity      *string   `json:"theater_city,omitempty"`
	TheaterFormat    *string   `json:"theater_format,omitempty"`
	Visibility       string    `json:"visibility"`
	CreatedAt        time.Time `json:"created_at"`
}

func FromWatchLogModel(log models.WatchLog) WatchLogResponse {
	resp := WatchLogResponse{
		ID:               log.ID,
		MovieID:          log.MovieID,
		TMDBID:           log.TMDBID,
		WatchedAt:        log.WatchedAt,
		Rating:           log.Rating,
		ReviewText:       log.ReviewText,
		IsRewatch:        log.IsRewatch,
		WatchedInTheater: log.WatchedInTheater,
		TheaterName:      log.TheaterName,
		TheaterCity:      log.TheaterCity,
		Visibility:       string(log.Visibility),
		CreatedAt:        log.CreatedAt,
	}
	if log.TheaterFormat != nil {
		format := string(*log.TheaterFormat)
		resp.TheaterFormat = &format
	}
	return resp
}

// UserLogResponse: a log entry with live movie summary fields
type UserLogResponse struct {
	WatchLogResponse
	MovieTitle       *string `json:"movie_title,omitempty"`
	MoviePoster      *string `json:"movie_poster,omitempty"`
	MovieReleaseDate *string `json:"movie_release_date,omitempty"`
}

func FromUserLogEntry(entry service.UserLogEntry) UserLogResponse {
	return UserLogResponse{
		WatchLogResponse: FromWatchLogModel(entry.WatchLog),
		MovieTitle:       entry.MovieTitle,
		MoviePoster:      entry.MoviePoster,
		MovieReleaseDate: entry.MovieReleaseDate,
	}
}

// WatchLogListResponse: list of log entries
type WatchLogListResponse struct {
	Items []WatchLogResponse `json:"items"`
	Total int                `json:"total"`
}

type UserLogListResponse struct {
	Items []UserLogResponse `json:"items"`
	Total int               `json:"total"`
}
