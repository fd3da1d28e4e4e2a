package repository

import (
	"context"
	"errors"
	"fmt"

	"reelog/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicateMovie is returned when an insert trips the unique index on
// movies.tmdb_id. Two concurrent upserts for a new catalog id can both pass
// the lookup-before-insert check; the index is the backstop and the loser of
// the race gets this error.
var ErrDuplicateMovie = errors.New("movie already stored")

type MovieRepository interface {
	Create(ctx context.Context, movie *models.Movie) error
	Save(ctx context.Context, movie *models.Movie) error
	FindByID(ctx context.Context, id int64) (*models.Movie, error)
	FindByTMDBID(ctx context.Context, tmdbID int64) (*models.Movie, error)
}

type movieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) MovieRepository {
	return &movieRepository{db: db}
}

func (r *movieRepository) Create(ctx context.Context, movie *models.Movie) error {
	if err := r.db.WithContext(ctx).Create(movie).Error; err != nil {
		var pgErr *pgconn.PgError
		// 23505 = unique_violation
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateMovie
		}
		return fmt.Errorf("create movie: %w", err)
	}
	// GORM populates movie.ID
	return nil
}

// Save overwrites all fields of an existing row. Callers set the primary key.
func (r *movieRepository) Save(ctx context.Context, movie *models.Movie) error {
	if err := r.db.WithContext(ctx).Save(movie).Error; err != nil {
		return fmt.Errorf("save movie: %w", err)
	}
	return nil
}

func (r *movieRepository) FindByID(ctx context.Context, id int64) (*models.Movie, error) {
	var m models.Movie
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *movieRepository) FindByTMDBID(ctx context.Context, tmdbID int64) (*models.Movie, error) {
	var m models.Movie
	if err := r.db.WithContext(ctx).Where("tmdb_id = ?", tmdbID).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}
