package repository

import (
	"context"
	"errors"
	"fmt"

	"reelog/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicateEmail is returned when an insert trips the unique index on
// users.email. Two concurrent first-logins with the same email can both pass
// the lookup-before-insert check; the index is the backstop and the loser of
// the race gets this error.
var ErrDuplicateEmail = errors.New("email already registered")

// ErrDuplicateUsername is returned when a profile update trips the unique
// index on users.username.
var ErrDuplicateUsername = errors.New("username already taken")

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindBySubject(ctx context.Context, subject string) (*models.User, error)
	UpdateBySubject(ctx context.Context, subject string, updates map[string]interface{}) (int64, error)
}

// userRepository is the GORM implementation of UserRepository.
type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		var pgErr *pgconn.PgError
		// 23505 = unique_violation
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		// return nil on miss so callers never act on a zero-value user
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindBySubject(ctx context.Context, subject string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("subject = ?", subject).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateBySubject applies a partial update and reports how many rows matched.
// Zero means no user with that subject exists.
func (r *userRepository) UpdateBySubject(ctx context.Context, subject string, updates map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("subject = ?", subject).
		Updates(updates)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		// the only unique column a partial update can write is username
		if errors.As(result.Error, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrDuplicateUsername
		}
		return 0, fmt.Errorf("update user: %w", result.Error)
	}
	return result.RowsAffected, nil
}
