package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"reelog/internal/dto"
	"reelog/internal/middleware"
	"reelog/internal/service"

	"github.com/gin-gonic/gin"
)

type WatchLogHandler struct {
	svc service.WatchLogService
}

func NewWatchLogHandler(svc service.WatchLogService) *WatchLogHandler {
	return &WatchLogHandler{svc: svc}
}

// RegisterRoutes wires the log routes under /api/logs and the per-user
// reads under /api/users/me. All require auth.
func (h *WatchLogHandler) RegisterRoutes(logs *gin.RouterGroup, users *gin.RouterGroup) {
	logs.POST("", h.Create)
	logs.GET("", h.ListByMovie)
	users.GET("/me/logs", h.ListMine)
	users.GET("/me/stats", h.Stats)
}

func isValidationErr(err error) bool {
	return errors.Is(err, service.ErrMissingMovieRef) ||
		errors.Is(err, service.ErrMissingWatchedAt) ||
		errors.Is(err, service.ErrInvalidRating) ||
		errors.Is(err, service.ErrInvalidVisibility) ||
		errors.Is(err, service.ErrInvalidTheaterFormat)
}

// Create records one watch of one movie
// POST /api/logs
func (h *WatchLogHandler) Create(c *gin.Context) {
	subject, ok := middleware.Subject(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.CreateWatchLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	log, err := h.svc.Create(ctx, subject, req.ToNewWatchLog())
	if err != nil {
		if isValidationErr(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, dto.FromWatchLogModel(*log))
}

// ListByMovie returns the caller's logs for one movie, newest watch first
// GET /api/logs?tmdb_id=603
func (h *WatchLogHandler) ListByMovie(c *gin.Context) {
	subject, ok := middleware.Subject(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	tmdbID, err := strconv.ParseInt(c.Query("tmdb_id"), 10, 64)
	if err != nil || tmdbID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tmdb_id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	logs, err := h.svc.ListByUserAndMovie(ctx, subject, tmdbID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]dto.WatchLogResponse, 0, len(logs))
	for _, log := range logs {
		items = append(items, dto.FromWatchLogModel(log))
	}

	c.JSON(http.StatusOK, dto.WatchLogListResponse{Items: items, Total: len(items)})
}

// ListMine returns all of the caller's logs with live movie summaries
// GET /api/users/me/logs
func (h *WatchLogHandler) ListMine(c *gin.Context) {
	subject, ok := middleware.Subject(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	entries, err := h.svc.ListByUser(ctx, subject)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]dto.UserLogResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.FromUserLogEntry(entry))
	}

	c.JSON(http.StatusOK, dto.UserLogListResponse{Items: items, Total: len(items)})
}

// Stats returns the caller's aggregate numbers; all zeros when the caller
// has no profile yet
// GET /api/users/me/stats
func (h *WatchLogHandler) Stats(c *gin.Context) {
	subject, ok := middleware.Subject(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	stats, err := h.svc.GetUserStats(ctx, subject)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.StatsResponse{
		TotalLogs:     stats.TotalLogs,
		UniqueMovies:  stats.UniqueMovies,
		Rewatches:     stats.Rewatches,
		TheaterVisits: stats.TheaterVisits,
	})
}
