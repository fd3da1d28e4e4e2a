package dto

import (
	"time"

	"reelog/internal/service"
)

// UpdateProfileRequest: partial profile edit (only present fields change)
type UpdateProfileRequest struct {
	Username    *string `json:"username,omitempty" binding:"omitempty,min=3,max=50"`
	DisplayName *string `json:"display_name,omitempty" binding:"omitempty,max=100"`
	Bio         *string `json:"bio,omitempty" binding:"omitempty,max=500"`
}

func (d UpdateProfileRequest) ToProfileUpdate() service.ProfileUpdate {
	return service.ProfileUpdate{
		Username:    d.Username,
		DisplayName: d.DisplayName,
		Bio:         d.Bio,
	}
}

// UserResponse: profile payload with the asset-resolved image URL
type UserResponse struct {
	ID               string    `json:"id"`
	Subject          string    `json:"subject"`
	Email            string    `json:"email"`
	Username         *string   `json:"username,omitempty"`
	DisplayName      *string   `json:"display_name,omitempty"`
	Bio              *string   `json:"bio,omitempty"`
	ProfileImageURL  *string   `json:"profile_image_url,omitempty"`
	ResolvedImageURL *string   `json:"resolved_image_url,omitempty"`
	PrivacySetting   string    `json:"privacy_setting"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func FromUserProfile(p service.UserProfile) UserResponse {
	return UserResponse{
		ID:               p.ID,
		Subject:          p.Subject,
		Email:            p.Email,
		Username:         p.Username,
		DisplayName:      p.DisplayName,
		Bio:              p.Bio,
		ProfileImageURL:  p.ProfileImageURL,
		ResolvedImageURL: p.ResolvedImageURL,
		PrivacySetting:   string(p.PrivacySetting),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// UploadURLResponse: signed avatar upload target
type UploadURLResponse struct {
	UploadURL string `json:"upload_url"`
	AssetKey  string `json:"asset_key"`
}

// CommitAvatarRequest: records an uploaded asset as the profile image
type CommitAvatarRequest struct {
	AssetKey string `json:"asset_key" binding:"required"`
}

// StatsResponse mirrors service.UserStats for the wire
type StatsResponse struct {
	TotalLogs     int `json:"total_logs"`
	UniqueMovies  int `json:"unique_movies"`
	Rewatches     int `json:"rewatches"`
	TheaterVisits int `json:"theater_visits"`
}
