package service

import (
	"context"
	"errors"
	"time"

	"reelog/internal/models"
	"reelog/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrMovieNotFound = errors.New("movie not found")
	ErrInvalidTMDBID = errors.New("tmdb id must be a positive integer")
)

type MovieService interface {
	// Upsert looks the movie up by its catalog id, overwrites all mutable
	// fields if found, inserts otherwise. Repeated calls with the same
	// catalog id converge to a single stored record.
	Upsert(ctx context.Context, incoming *models.Movie) (*models.Movie, error)
	GetByTMDBID(ctx context.Context, tmdbID int64) (*models.Movie, error)
}

type movieService struct {
	repo repository.MovieRepository
}

func NewMovieService(repo repository.MovieRepository) MovieService {
	return &movieService{repo: repo}
}

func (s *movieService) Upsert(ctx context.Context, incoming *models.Movie) (*models.Movie, error) {
	if incoming.TMDBID <= 0 {
		return nil, ErrInvalidTMDBID
	}

	now := time.Now().UTC()

	existing, err := s.repo.FindByTMDBID(ctx, incoming.TMDBID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if existing != nil {
		return s.patchExisting(ctx, existing, incoming, now)
	}

	incoming.LastSyncedAt = now
	incoming.UpdatedAt = now
	if err := s.repo.Create(ctx, incoming); err != nil {
		// a concurrent upsert may have won the insert; re-read and patch
		if errors.Is(err, repository.ErrDuplicateMovie) {
			winner, findErr := s.repo.FindByTMDBID(ctx, incoming.TMDBID)
			if findErr != nil {
				return nil, findErr
			}
			return s.patchExisting(ctx, winner, incoming, now)
		}
		return nil, err
	}
	return incoming, nil
}

func (s *movieService) patchExisting(ctx context.Context, existing, incoming *models.Movie, now time.Time) (*models.Movie, error) {
	existing.Title = incoming.Title
	existing.ReleaseDate = incoming.ReleaseDate
	existing.Runtime = incoming.Runtime
	existing.Overview = incoming.Overview
	existing.PosterPath = incoming.PosterPath
	existing.BackdropPath = incoming.BackdropPath
	existing.VoteAverage = incoming.VoteAverage
	existing.Genres = incoming.Genres
	existing.Cast = incoming.Cast
	existing.RawPayload = incoming.RawPayload
	existing.LastSyncedAt = now
	existing.UpdatedAt = now
	if err := s.repo.Save(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *movieService) GetByTMDBID(ctx context.Context, tmdbID int64) (*models.Movie, error) {
	if tmdbID <= 0 {
		return nil, ErrInvalidTMDBID
	}
	movie, err := s.repo.FindByTMDBID(ctx, tmdbID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return movie, nil
}
