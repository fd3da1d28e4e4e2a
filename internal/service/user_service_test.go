package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"reelog/internal/models"
	"reelog/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// --- MOCK ASSET STORE ---

type MockAssetStore struct {
	mock.Mock
}

func (m *MockAssetStore) GenerateUploadURL(ctx context.Context) (string, string, error) {
	args := m.Called(ctx)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockAssetStore) Resolve(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockAssetStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func newUserService(t *testing.T) (UserService, *MockUserRepository, *MockAssetStore) {
	t.Helper()
	repo := new(MockUserRepository)
	store := new(MockAssetStore)
	svc := NewUserService(repo, store, slog.Default())
	return svc, repo, store
}

// --- TESTS ---

func TestUserService_EnsureUser(t *testing.T) {
	t.Run("ReturnsExistingByEmail", func(t *testing.T) {
		svc, repo, _ := newUserService(t)

		existing := &models.User{ID: "u-1", Subject: "sub-1", Email: "a@example.com"}
		repo.On("FindByEmail", mock.Anything, "a@example.com").Return(existing, nil).Once()

		user, err := svc.EnsureUser(context.Background(), "sub-1", "a@example.com", "")

		assert.NoError(t, err)
		assert.Equal(t, "u-1", user.ID)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("ProvisionsOnFirstLogin", func(t *testing.T) {
		svc, repo, _ := newUserService(t)

		repo.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound).Once()
		repo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.Subject == "sub-2" &&
				u.Email == "new@example.com" &&
				u.PrivacySetting == models.PrivacyPublic &&
				*u.ProfileImageURL == "https://img.example.com/p.png"
		})).Return(nil).Once()

		user, err := svc.EnsureUser(context.Background(), "sub-2", "new@example.com", "https://img.example.com/p.png")

		assert.NoError(t, err)
		assert.Equal(t, "new@example.com", user.Email)
		repo.AssertExpectations(t)
	})

	t.Run("ReReadsWhenConcurrentInsertWins", func(t *testing.T) {
		svc, repo, _ := newUserService(t)

		winner := &models.User{ID: "u-9", Email: "race@example.com"}

		// first lookup misses, insert loses the race, second lookup hits
		repo.On("FindByEmail", mock.Anything, "race@example.com").Return(nil, gorm.ErrRecordNotFound).Once()
		repo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicateEmail).Once()
		repo.On("FindByEmail", mock.Anything, "race@example.com").Return(winner, nil).Once()

		user, err := svc.EnsureUser(context.Background(), "sub-3", "race@example.com", "")

		assert.NoError(t, err)
		assert.Equal(t, "u-9", user.ID)
		repo.AssertExpectations(t)
	})
}

func TestUserService_GetBySubject(t *testing.T) {
	t.Run("ResolvesProfileImageThroughStore", func(t *testing.T) {
		svc, repo, store := newUserService(t)

		user := &models.User{
			ID:              "u-1",
			Subject:         "sub-1",
			ProfileImageURL: stringPtr("https://idp.example.com/pic.png"),
			ProfileImageKey: stringPtr("abc-key"),
		}
		repo.On("FindBySubject", mock.Anything, "sub-1").Return(user, nil).Once()
		store.On("Resolve", mock.Anything, "abc-key").Return("http://localhost:8080/assets/abc-key", nil).Once()

		profile, err := svc.GetBySubject(context.Background(), "sub-1")

		assert.NoError(t, err)
		assert.Equal(t, "http://localhost:8080/assets/abc-key", *profile.ResolvedImageURL)
	})

	t.Run("FallsBackToStoredURLOnMiss", func(t *testing.T) {
		svc, repo, store := newUserService(t)

		user := &models.User{
			ID:              "u-1",
			Subject:         "sub-1",
			ProfileImageURL: stringPtr("https://idp.example.com/pic.png"),
			ProfileImageKey: stringPtr("gone-key"),
		}
		repo.On("FindBySubject", mock.Anything, "sub-1").Return(user, nil).Once()
		store.On("Resolve", mock.Anything, "gone-key").Return("", nil).Once()

		profile, err := svc.GetBySubject(context.Background(), "sub-1")

		assert.NoError(t, err)
		assert.Equal(t, "https://idp.example.com/pic.png", *profile.ResolvedImageURL)
	})

	t.Run("NotFound", func(t *testing.T) {
		svc, repo, _ := newUserService(t)

		repo.On("FindBySubject", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound).Once()

		_, err := svc.GetBySubject(context.Background(), "ghost")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUserService_Update(t *testing.T) {
	t.Run("WritesOnlyProvidedFields", func(t *testing.T) {
		svc, repo, _ := newUserService(t)

		updated := &models.User{ID: "u-1", Subject: "sub-1", Username: stringPtr("alice")}

		repo.On("UpdateBySubject", mock.Anything, "sub-1", mock.MatchedBy(func(updates map[string]interface{}) bool {
			_, hasUsername := updates["username"]
			_, hasBio := updates["bio"]
			_, hasDisplay := updates["display_name"]
			return hasUsername && !hasBio && !hasDisplay
		})).Return(int64(1), nil).Once()
		repo.On("FindBySubject", mock.Anything, "sub-1").Return(updated, nil).Once()

		profile, err := svc.Update(context.Background(), "sub-1", ProfileUpdate{Username: stringPtr("alice")})

		assert.NoError(t, err)
		assert.Equal(t, "alice", *profile.Username)
		repo.AssertExpectations(t)
	})

	t.Run("UsernameTakenByAnotherUser", func(t *testing.T) {
		svc, repo, _ := newUserService(t)

		repo.On("UpdateBySubject", mock.Anything, "sub-1", mock.Anything).
			Return(int64(0), repository.ErrDuplicateUsername).Once()

		_, err := svc.Update(context.Background(), "sub-1", ProfileUpdate{Username: stringPtr("taken")})
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("NotFoundWhenNoRowMatches", func(t *testing.T) {
		svc, repo, _ := newUserService(t)

		repo.On("UpdateBySubject", mock.Anything, "ghost", mock.Anything).Return(int64(0), nil).Once()

		_, err := svc.Update(context.Background(), "ghost", ProfileUpdate{Bio: stringPtr("hi")})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUserService_UpdateProfileImage(t *testing.T) {
	t.Run("DeletesReplacedAsset", func(t *testing.T) {
		svc, repo, store := newUserService(t)

		user := &models.User{ID: "u-1", Subject: "sub-1", ProfileImageKey: stringPtr("old-key")}
		updated := &models.User{ID: "u-1", Subject: "sub-1", ProfileImageKey: stringPtr("new-key")}

		repo.On("FindBySubject", mock.Anything, "sub-1").Return(user, nil).Once()
		store.On("Delete", mock.Anything, "old-key").Return(nil).Once()
		repo.On("UpdateBySubject", mock.Anything, "sub-1", mock.MatchedBy(func(updates map[string]interface{}) bool {
			return updates["profile_image_key"] == "new-key"
		})).Return(int64(1), nil).Once()
		repo.On("FindBySubject", mock.Anything, "sub-1").Return(updated, nil).Once()
		store.On("Resolve", mock.Anything, "new-key").Return("http://localhost:8080/assets/new-key", nil).Once()

		result, err := svc.UpdateProfileImage(context.Background(), "sub-1", "new-key")

		assert.NoError(t, err)
		assert.Equal(t, "new-key", *result.ProfileImageKey)
		// the write returns the same resolved shape a plain read would
		assert.Equal(t, "http://localhost:8080/assets/new-key", *result.ResolvedImageURL)
		store.AssertExpectations(t)
	})

	t.Run("CleanupFailureDoesNotBlockUpdate", func(t *testing.T) {
		svc, repo, store := newUserService(t)

		user := &models.User{ID: "u-1", Subject: "sub-1", ProfileImageKey: stringPtr("old-key")}

		repo.On("FindBySubject", mock.Anything, "sub-1").Return(user, nil).Once()
		store.On("Delete", mock.Anything, "old-key").Return(errors.New("disk unhappy")).Once()
		repo.On("UpdateBySubject", mock.Anything, "sub-1", mock.Anything).Return(int64(1), nil).Once()
		repo.On("FindBySubject", mock.Anything, "sub-1").Return(user, nil).Once()
		store.On("Resolve", mock.Anything, "old-key").Return("", nil).Once()

		_, err := svc.UpdateProfileImage(context.Background(), "sub-1", "new-key")
		assert.NoError(t, err)
	})
}
