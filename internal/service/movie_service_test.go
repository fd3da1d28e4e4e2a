package service

import (
	"context"
	"errors"
	"testing"

	"reelog/internal/models"
	"reelog/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// --- HELPER FUNCTIONS FOR POINTERS ---
func stringPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }
func formatPtr(f models.TheaterFormat) *models.TheaterFormat { return &f }

// --- MOCK REPOSITORY ---

type MockMovieRepository struct {
	mock.Mock
}

func (m *MockMovieRepository) Create(ctx context.Context, movie *models.Movie) error {
	args := m.Called(ctx, movie)
	return args.Error(0)
}

func (m *MockMovieRepository) Save(ctx context.Context, movie *models.Movie) error {
	args := m.Called(ctx, movie)
	return args.Error(0)
}

func (m *MockMovieRepository) FindByID(ctx context.Context, id int64) (*models.Movie, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Movie), args.Error(1)
}

func (m *MockMovieRepository) FindByTMDBID(ctx context.Context, tmdbID int64) (*models.Movie, error) {
	args := m.Called(ctx, tmdbID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Movie), args.Error(1)
}

// --- TESTS ---

func TestMovieService_Upsert(t *testing.T) {
	t.Run("InsertsWhenMissing", func(t *testing.T) {
		mockRepo := new(MockMovieRepository)
		svc := NewMovieService(mockRepo)

		incoming := &models.Movie{
			TMDBID: 603,
			Title:  "The Matrix",
		}

		mockRepo.On("FindByTMDBID", mock.Anything, int64(603)).Return(nil, gorm.ErrRecordNotFound).Once()
		mockRepo.On("Create", mock.Anything, incoming).Return(nil).Once()

		stored, err := svc.Upsert(context.Background(), incoming)

		assert.NoError(t, err)
		assert.Equal(t, "The Matrix", stored.Title)
		assert.False(t, stored.LastSyncedAt.IsZero())
		mockRepo.AssertExpectations(t)
	})

	t.Run("UpdatesInPlaceWhenPresent", func(t *testing.T) {
		mockRepo := new(MockMovieRepository)
		svc := NewMovieService(mockRepo)

		existing := &models.Movie{
			ID:     42,
			TMDBID: 603,
			Title:  "The Matrix",
		}
		incoming := &models.Movie{
			TMDBID:      603,
			Title:       "The Matrix Remastered",
			VoteAverage: floatPtr(8.7),
		}

		mockRepo.On("FindByTMDBID", mock.Anything, int64(603)).Return(existing, nil).Once()
		mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(m *models.Movie) bool {
			return m.ID == 42 && m.Title == "The Matrix Remastered"
		})).Return(nil).Once()

		stored, err := svc.Upsert(context.Background(), incoming)

		assert.NoError(t, err)
		// same row, refreshed fields
		assert.Equal(t, int64(42), stored.ID)
		assert.Equal(t, "The Matrix Remastered", stored.Title)
		assert.Equal(t, 8.7, *stored.VoteAverage)
		mockRepo.AssertExpectations(t)
	})

	t.Run("RepeatedUpsertsConverge", func(t *testing.T) {
		mockRepo := new(MockMovieRepository)
		svc := NewMovieService(mockRepo)

		existing := &models.Movie{ID: 42, TMDBID: 603, Title: "The Matrix"}
		incoming := &models.Movie{TMDBID: 603, Title: "The Matrix"}

		mockRepo.On("FindByTMDBID", mock.Anything, int64(603)).Return(existing, nil).Twice()
		mockRepo.On("Save", mock.Anything, mock.Anything).Return(nil).Twice()

		first, err := svc.Upsert(context.Background(), incoming)
		assert.NoError(t, err)
		second, err := svc.Upsert(context.Background(), incoming)
		assert.NoError(t, err)

		// both calls resolve to the same stored row, never a second insert
		assert.Equal(t, first.ID, second.ID)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("ConvergesWhenConcurrentInsertWins", func(t *testing.T) {
		mockRepo := new(MockMovieRepository)
		svc := NewMovieService(mockRepo)

		winner := &models.Movie{ID: 42, TMDBID: 603, Title: "The Matrix"}
		incoming := &models.Movie{TMDBID: 603, Title: "The Matrix Remastered"}

		// lookup misses, insert loses the race, re-read hits the winner's row
		mockRepo.On("FindByTMDBID", mock.Anything, int64(603)).Return(nil, gorm.ErrRecordNotFound).Once()
		mockRepo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicateMovie).Once()
		mockRepo.On("FindByTMDBID", mock.Anything, int64(603)).Return(winner, nil).Once()
		mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(m *models.Movie) bool {
			return m.ID == 42 && m.Title == "The Matrix Remastered"
		})).Return(nil).Once()

		stored, err := svc.Upsert(context.Background(), incoming)

		assert.NoError(t, err)
		assert.Equal(t, int64(42), stored.ID)
		assert.Equal(t, "The Matrix Remastered", stored.Title)
		mockRepo.AssertExpectations(t)
	})

	t.Run("RejectsNonPositiveID", func(t *testing.T) {
		mockRepo := new(MockMovieRepository)
		svc := NewMovieService(mockRepo)

		_, err := svc.Upsert(context.Background(), &models.Movie{TMDBID: 0})
		assert.ErrorIs(t, err, ErrInvalidTMDBID)

		_, err = svc.Upsert(context.Background(), &models.Movie{TMDBID: -5})
		assert.ErrorIs(t, err, ErrInvalidTMDBID)

		mockRepo.AssertNotCalled(t, "FindByTMDBID", mock.Anything, mock.Anything)
	})

	t.Run("PropagatesLookupError", func(t *testing.T) {
		mockRepo := new(MockMovieRepository)
		svc := NewMovieService(mockRepo)

		dbErr := errors.New("connection reset")
		mockRepo.On("FindByTMDBID", mock.Anything, int64(603)).Return(nil, dbErr).Once()

		_, err := svc.Upsert(context.Background(), &models.Movie{TMDBID: 603})
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestMovieService_GetByTMDBID(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockMovieRepository)
		svc := NewMovieService(mockRepo)

		expected := &models.Movie{ID: 1, TMDBID: 550, Title: "Fight Club"}
		mockRepo.On("FindByTMDBID", mock.Anything, int64(550)).Return(expected, nil).Once()

		movie, err := svc.GetByTMDBID(context.Background(), 550)
		assert.NoError(t, err)
		assert.Equal(t, "Fight Club", movie.Title)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockRepo := new(MockMovieRepository)
		svc := NewMovieService(mockRepo)

		mockRepo.On("FindByTMDBID", mock.Anything, int64(999)).Return(nil, gorm.ErrRecordNotFound).Once()

		_, err := svc.GetByTMDBID(context.Background(), 999)
		assert.ErrorIs(t, err, ErrMovieNotFound)
	})

	t.Run("RejectsNonPositiveID", func(t *testing.T) {
		mockRepo := new(MockMovieRepository)
		svc := NewMovieService(mockRepo)

		_, err := svc.GetByTMDBID(context.Background(), 0)
		assert.ErrorIs(t, err, ErrInvalidTMDBID)
	})
}
