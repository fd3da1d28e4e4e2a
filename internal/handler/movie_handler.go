package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"reelog/internal/dto"
	"reelog/internal/service"

	"github.com/gin-gonic/gin"
)

type MovieHandler struct {
	svc service.MovieService
}

func NewMovieHandler(svc service.MovieService) *MovieHandler {
	return &MovieHandler{svc: svc}
}

// RegisterRoutes registers movie cache routes. Upsert requires auth; the
// point lookup is public.
func (h *MovieHandler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	rg.POST("", auth, h.Upsert)
	rg.GET("/:tmdb_id", h.Get)
}

// Upsert stores or refreshes the local copy of one catalog item
// POST /api/movies
func (h *MovieHandler) Upsert(c *gin.Context) {
	var req dto.UpsertMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	movie, err := h.svc.Upsert(ctx, req.ToModel())
	if err != nil {
		if errors.Is(err, service.ErrInvalidTMDBID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.FromMovieModel(*movie))
}

// Get returns the cached copy for one catalog id
// GET /api/movies/:tmdb_id
func (h *MovieHandler) Get(c *gin.Context) {
	tmdbID, err := strconv.ParseInt(c.Param("tmdb_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tmdb id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	movie, err := h.svc.GetByTMDBID(ctx, tmdbID)
	if err != nil {
		if errors.Is(err, service.ErrMovieNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "movie not found"})
			return
		}
		if errors.Is(err, service.ErrInvalidTMDBID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.FromMovieModel(*movie))
}
