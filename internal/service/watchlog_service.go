package service

import (
	"context"
	"errors"

	"reelog/internal/models"
	"reelog/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrMissingMovieRef      = errors.New("watch log requires a movie reference")
	ErrMissingWatchedAt     = errors.New("watch log requires a watched date")
	ErrInvalidRating        = errors.New("rating must be greater than 0 and at most 10")
	ErrInvalidVisibility    = errors.New("invalid visibility")
	ErrInvalidTheaterFormat = errors.New("invalid theater format")
)

// NewWatchLog carries a single watch-log submission.
type NewWatchLog struct {
	MovieID          int64
	TMDBID           int64
	WatchedAt        string
	Rating           *float64
	ReviewText       *string
	IsRewatch        bool
	WatchedInTheater bool
	TheaterName      *string
	TheaterCity      *string
	TheaterFormat    *models.TheaterFormat
	Visibility       models.Visibility
}

// UserLogEntry is a watch log augmented with the referenced movie's summary
// fields, re-resolved at query time.
type UserLogEntry struct {
	models.WatchLog
	MovieTitle       *string `json:"movie_title,omitempty"`
	MoviePoster      *string `json:"movie_poster,omitempty"`
	MovieReleaseDate *string `json:"movie_release_date,omitempty"`
}

type UserStats struct {
	TotalLogs     int `json:"total_logs"`
	UniqueMovies  int `json:"unique_movies"`
	Rewatches     int `json:"rewatches"`
	TheaterVisits int `json:"theater_visits"`
}

type UserSummary struct {
	DisplayName     *string `json:"display_name,omitempty"`
	Username        *string `json:"username,omitempty"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
}

type MovieSummary struct {
	Title       string  `json:"title"`
	PosterPath  *string `json:"poster_path,omitempty"`
	ReleaseDate *string `json:"release_date,omitempty"`
}

type ActivityItem struct {
	models.WatchLog
	User  UserSummary  `json:"user"`
	Movie MovieSummary `json:"movie"`
}

type ActivityPage struct {
	Items   []ActivityItem `json:"items"`
	HasMore bool           `json:"has_more"`
}

// ActivityNotifier is told about every new watch log so subscribed readers
// can re-fetch. Implemented by the notify hub.
type ActivityNotifier interface {
	ActivityLogged(log *models.WatchLog)
}

type WatchLogService interface {
	Create(ctx context.Context, subject string, entry NewWatchLog) (*models.WatchLog, error)
	ListByUserAndMovie(ctx context.Context, subject string, tmdbID int64) ([]models.WatchLog, error)
	ListByUser(ctx context.Context, subject string) ([]UserLogEntry, error)
	GetUserStats(ctx context.Context, subject string) (UserStats, error)
	PublicActivityFeed(ctx context.Context, limit, offset int) (ActivityPage, error)
}

type watchLogService struct {
	repo      repository.WatchLogRepository
	userRepo  repository.UserRepository
	movieRepo repository.MovieRepository
	notifier  ActivityNotifier
}

func NewWatchLogService(
	repo repository.WatchLogRepository,
	userRepo repository.UserRepository,
	movieRepo repository.MovieRepository,
	notifier ActivityNotifier,
) WatchLogService {
	return &watchLogService{
		repo:      repo,
		userRepo:  userRepo,
		movieRepo: movieRepo,
		notifier:  notifier,
	}
}

func validateNewWatchLog(entry NewWatchLog) error {
	if entry.MovieID <= 0 || entry.TMDBID <= 0 {
		return ErrMissingMovieRef
	}
	if entry.WatchedAt == "" {
		return ErrMissingWatchedAt
	}
	if entry.Rating != nil && (*entry.Rating <= 0 || *entry.Rating > 10) {
		return ErrInvalidRating
	}
	if !entry.Visibility.Valid() {
		return ErrInvalidVisibility
	}
	if entry.TheaterFormat != nil && !entry.TheaterFormat.Valid() {
		return ErrInvalidTheaterFormat
	}
	return nil
}

func (s *watchLogService) Create(ctx context.Context, subject string, entry NewWatchLog) (*models.WatchLog, error) {
	if err := validateNewWatchLog(entry); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	log := &models.WatchLog{
		UserID:           user.ID,
		MovieID:          entry.MovieID,
		TMDBID:           entry.TMDBID,
		WatchedAt:        entry.WatchedAt,
		Rating:           entry.Rating,
		ReviewText:       entry.ReviewText,
		IsRewatch:        entry.IsRewatch,
		WatchedInTheater: entry.WatchedInTheater,
		TheaterName:      entry.TheaterName,
		TheaterCity:      entry.TheaterCity,
		TheaterFormat:    entry.TheaterFormat,
		Visibility:       entry.Visibility,
	}
	if err := s.repo.Create(ctx, log); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.ActivityLogged(log)
	}
	return log, nil
}

// ListByUserAndMovie returns the empty list when either the user or the
// movie does not resolve. A user with no prior logs and a movie never
// cached both mean "no logs", not an error.
func (s *watchLogService) ListByUserAndMovie(ctx context.Context, subject string, tmdbID int64) ([]models.WatchLog, error) {
	user, err := s.userRepo.FindBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []models.WatchLog{}, nil
		}
		return nil, err
	}

	movie, err := s.movieRepo.FindByTMDBID(ctx, tmdbID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []models.WatchLog{}, nil
		}
		return nil, err
	}

	return s.repo.ListByUserAndMovie(ctx, user.ID, movie.ID)
}

func (s *watchLogService) ListByUser(ctx context.Context, subject string) ([]UserLogEntry, error) {
	user, err := s.userRepo.FindBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []UserLogEntry{}, nil
		}
		return nil, err
	}

	logs, err := s.repo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	entries := make([]UserLogEntry, 0, len(logs))
	for _, log := range logs {
		entry := UserLogEntry{WatchLog: log}
		// point lookup per row keeps the movie fields live, not snapshotted
		movie, err := s.movieRepo.FindByID(ctx, log.MovieID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if movie != nil {
			entry.MovieTitle = &movie.Title
			entry.MoviePoster = movie.PosterPath
			entry.MovieReleaseDate = movie.ReleaseDate
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *watchLogService) GetUserStats(ctx context.Context, subject string) (UserStats, error) {
	user, err := s.userRepo.FindBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserStats{}, nil
		}
		return UserStats{}, err
	}

	logs, err := s.repo.ListByUser(ctx, user.ID)
	if err != nil {
		return UserStats{}, err
	}

	uniqueMovies := make(map[int64]struct{}, len(logs))
	stats := UserStats{TotalLogs: len(logs)}
	for _, log := range logs {
		uniqueMovies[log.MovieID] = struct{}{}
		if log.IsRewatch {
			stats.Rewatches++
		}
		if log.WatchedInTheater {
			stats.TheaterVisits++
		}
	}
	stats.UniqueMovies = len(uniqueMovies)
	return stats, nil
}

func (s *watchLogService) PublicActivityFeed(ctx context.Context, limit, offset int) (ActivityPage, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	// fetch one extra row to learn whether another page exists
	logs, err := s.repo.ListPublic(ctx, limit+1, offset)
	if err != nil {
		return ActivityPage{}, err
	}

	hasMore := len(logs) > limit
	if hasMore {
		logs = logs[:limit]
	}

	items := make([]ActivityItem, 0, len(logs))
	for _, log := range logs {
		user, err := s.userRepo.FindByID(ctx, log.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue // dangling join, drop the row
			}
			return ActivityPage{}, err
		}
		movie, err := s.movieRepo.FindByID(ctx, log.MovieID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return ActivityPage{}, err
		}

		items = append(items, ActivityItem{
			WatchLog: log,
			User: UserSummary{
				DisplayName:     user.DisplayName,
				Username:        user.Username,
				ProfileImageURL: user.ProfileImageURL,
			},
			Movie: MovieSummary{
				Title:       movie.Title,
				PosterPath:  movie.PosterPath,
				ReleaseDate: movie.ReleaseDate,
			},
		})
	}

	return ActivityPage{Items: items, HasMore: hasMore}, nil
}
