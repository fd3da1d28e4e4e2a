package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"reelog/internal/dto"
	"reelog/internal/middleware"
	"reelog/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc service.UserService
}

func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// RegisterRoutes registers profile routes; all require an authenticated
// identity.
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.Me)
	rg.PATCH("/me", h.Update)
	rg.POST("/me/avatar-upload", h.AvatarUploadURL)
	rg.PUT("/me/avatar", h.CommitAvatar)
}

// Me returns the caller's profile, provisioning it on first login. The
// identity provider already verified the email, so lookup-by-email followed
// by create mirrors the first-authentication flow.
// GET /api/users/me
func (h *UserHandler) Me(c *gin.Context) {
	subject, ok := middleware.Subject(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	email := c.GetString("email")
	imageURL := c.GetString("imageURL")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.svc.EnsureUser(ctx, subject, email, imageURL); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.svc.GetBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.FromUserProfile(*profile))
}

// Update applies a partial profile edit
// PATCH /api/users/me
func (h *UserHandler) Update(c *gin.Context) {
	subject, ok := middleware.Subject(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	profile, err := h.svc.Update(ctx, subject, req.ToProfileUpdate())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, service.ErrUsernameTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, dto.FromUserProfile(*profile))
}

// AvatarUploadURL hands out a signed upload target
// POST /api/users/me/avatar-upload
func (h *UserHandler) AvatarUploadURL(c *gin.Context) {
	if _, ok := middleware.Subject(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	url, key, err := h.svc.GenerateUploadURL(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.UploadURLResponse{UploadURL: url, AssetKey: key})
}

// CommitAvatar records an uploaded asset as the caller's profile image,
// replacing and cleaning up the previous one
// PUT /api/users/me/avatar
func (h *UserHandler) CommitAvatar(c *gin.Context) {
	subject, ok := middleware.Subject(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.CommitAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	profile, err := h.svc.UpdateProfileImage(ctx, subject, req.AssetKey)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.FromUserProfile(*profile))
}
