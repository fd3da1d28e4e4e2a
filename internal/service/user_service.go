package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"reelog/internal/assets"
	"reelog/internal/models"
	"reelog/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailInUse    = errors.New("email already in use")
	ErrUsernameTaken = errors.New("username already taken")
)

// ProfileUpdate carries a partial profile edit. Only non-nil fields are
// written; omitted fields retain their prior values.
type ProfileUpdate struct {
	Username    *string
	DisplayName *string
	Bio         *string
}

// UserProfile is a user record with the profile image resolved through the
// asset store. ResolvedImageURL falls back to the raw stored URL when the
// asset reference resolves to nothing.
type UserProfile struct {
	models.User
	ResolvedImageURL *string `json:"resolved_image_url,omitempty"`
}

type UserService interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetBySubject(ctx context.Context, subject string) (*UserProfile, error)
	Create(ctx context.Context, subject, email, imageURL string) (*models.User, error)
	// EnsureUser is the first-login provisioning path: lookup by email,
	// create when missing.
	EnsureUser(ctx context.Context, subject, email, imageURL string) (*models.User, error)
	// Update and UpdateProfileImage return the refreshed profile with the
	// image resolved, matching what a plain read would serve.
	Update(ctx context.Context, subject string, upd ProfileUpdate) (*UserProfile, error)
	UpdateProfileImage(ctx context.Context, subject, assetKey string) (*UserProfile, error)
	GenerateUploadURL(ctx context.Context) (url string, key string, err error)
}

type userService struct {
	repo   repository.UserRepository
	assets assets.Store
	logger *slog.Logger
}

func NewUserService(repo repository.UserRepository, assetStore assets.Store, logger *slog.Logger) UserService {
	return &userService{repo: repo, assets: assetStore, logger: logger}
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetBySubject(ctx context.Context, subject string) (*UserProfile, error) {
	user, err := s.repo.FindBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	profile := &UserProfile{User: *user, ResolvedImageURL: user.ProfileImageURL}
	if user.ProfileImageKey != nil {
		resolved, err := s.assets.Resolve(ctx, *user.ProfileImageKey)
		if err != nil {
			// asset store trouble is not a profile read failure
			s.logger.Warn("resolve profile image failed", "subject", subject, "error", err)
		} else if resolved != "" {
			profile.ResolvedImageURL = &resolved
		}
	}
	return profile, nil
}

func (s *userService) Create(ctx context.Context, subject, email, imageURL string) (*models.User, error) {
	user := &models.User{
		Subject:        subject,
		Email:          email,
		PrivacySetting: models.PrivacyPublic,
	}
	if imageURL != "" {
		user.ProfileImageURL = &imageURL
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) EnsureUser(ctx context.Context, subject, email, imageURL string) (*models.User, error) {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user, err := s.Create(ctx, subject, email, imageURL)
	if err != nil {
		// a concurrent first-login may have won the insert; re-read
		if errors.Is(err, ErrEmailInUse) {
			return s.GetByEmail(ctx, email)
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, subject string, upd ProfileUpdate) (*UserProfile, error) {
	updates := map[string]interface{}{
		"updated_at": time.Now().UTC(),
	}
	if upd.Username != nil {
		updates["username"] = *upd.Username
	}
	if upd.DisplayName != nil {
		updates["display_name"] = *upd.DisplayName
	}
	if upd.Bio != nil {
		updates["bio"] = *upd.Bio
	}

	rows, err := s.repo.UpdateBySubject(ctx, subject, updates)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	if rows == 0 {
		return nil, ErrUserNotFound
	}

	return s.GetBySubject(ctx, subject)
}

func (s *userService) UpdateProfileImage(ctx context.Context, subject, assetKey string) (*UserProfile, error) {
	user, err := s.repo.FindBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// best-effort cleanup of the replaced asset, not transactional with the
	// record update
	if user.ProfileImageKey != nil {
		if err := s.assets.Delete(ctx, *user.ProfileImageKey); err != nil {
			s.logger.Warn("delete previous profile image failed", "subject", subject, "error", err)
		}
	}

	updates := map[string]interface{}{
		"profile_image_key": assetKey,
		"updated_at":        time.Now().UTC(),
	}
	if _, err := s.repo.UpdateBySubject(ctx, subject, updates); err != nil {
		return nil, err
	}

	return s.GetBySubject(ctx, subject)
}

func (s *userService) GenerateUploadURL(ctx context.Context) (string, string, error) {
	return s.assets.GenerateUploadURL(ctx)
}
