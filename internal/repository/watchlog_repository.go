package repository

import (
	"context"
	"fmt"

	"reelog/internal/models"

	"gorm.io/gorm"
)

type WatchLogRepository interface {
	Create(ctx context.Context, log *models.WatchLog) error
	ListByUser(ctx context.Context, userID string) ([]models.WatchLog, error)
	ListByUserAndMovie(ctx context.Context, userID string, movieID int64) ([]models.WatchLog, error)
	ListPublic(ctx context.Context, limit, offset int) ([]models.WatchLog, error)
}

type watchLogRepository struct {
	db *gorm.DB
}

func NewWatchLogRepository(db *gorm.DB) WatchLogRepository {
	return &watchLogRepository{db: db}
}

func (r *watchLogRepository) Create(ctx context.Context, log *models.WatchLog) error {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("create watch log: %w", err)
	}
	return nil
}

// Rows come back most recent watch first. Equal watched_at dates fall back
// to id DESC, i.e. creation order with the newest insert first.
func (r *watchLogRepository) ListByUser(ctx context.Context, userID string) ([]models.WatchLog, error) {
	var logs []models.WatchLog
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("watched_at DESC").
		Order("id DESC").
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list watch logs by user: %w", err)
	}
	return logs, nil
}

func (r *watchLogRepository) ListByUserAndMovie(ctx context.Context, userID string, movieID int64) ([]models.WatchLog, error) {
	var logs []models.WatchLog
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Order("watched_at DESC").
		Order("id DESC").
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list watch logs by user and movie: %w", err)
	}
	return logs, nil
}

func (r *watchLogRepository) ListPublic(ctx context.Context, limit, offset int) ([]models.WatchLog, error) {
	var logs []models.WatchLog
	if err := r.db.WithContext(ctx).
		Where("visibility = ?", models.VisibilityPublic).
		Order("watched_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list public watch logs: %w", err)
	}
	return logs, nil
}
