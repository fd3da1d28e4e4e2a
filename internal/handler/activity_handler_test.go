package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"reelog/internal/dto"
	"reelog/internal/handler"
	"reelog/internal/models"
	"reelog/internal/notify"
	"reelog/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupActivityRouter(mockService *MockWatchLogService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewActivityHandler(mockService, notify.NewHub(4))
	h.RegisterRoutes(r.Group("/api/activity"))
	return r
}

func TestActivityHandler_Feed(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockWatchLogService)
		r := setupActivityRouter(mockService)

		page := service.ActivityPage{
			Items: []service.ActivityItem{
				{
					WatchLog: models.WatchLog{ID: 3, TMDBID: 603, WatchedAt: "2026-08-20", Visibility: models.VisibilityPublic},
					User:     service.UserSummary{Username: stringPtr("alice")},
					Movie:    service.MovieSummary{Title: "The Matrix"},
				},
				{
					WatchLog: models.WatchLog{ID: 2, TMDBID: 550, WatchedAt: "2026-08-18", Visibility: models.VisibilityPublic},
					User:     service.UserSummary{DisplayName: stringPtr("Bob")},
					Movie:    service.MovieSummary{Title: "Fight Club"},
				},
			},
			HasMore: true,
		}
		mockService.On("PublicActivityFeed", mock.Anything, 2, 0).Return(page, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/activity?limit=2", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ActivityPageResponse
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Len(t, response.Items, 2)
		assert.True(t, response.HasMore)
		assert.Equal(t, 2, response.Limit)
		assert.Equal(t, "alice", *response.Items[0].User.Username)
		assert.Equal(t, "The Matrix", response.Items[0].Movie.Title)
	})

	t.Run("ClampsBadPagination", func(t *testing.T) {
		mockService := new(MockWatchLogService)
		r := setupActivityRouter(mockService)

		mockService.On("PublicActivityFeed", mock.Anything, 20, 0).
			Return(service.ActivityPage{}, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/activity?limit=5000&offset=-2", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("EmptyFeed", func(t *testing.T) {
		mockService := new(MockWatchLogService)
		r := setupActivityRouter(mockService)

		mockService.On("PublicActivityFeed", mock.Anything, 20, 0).
			Return(service.ActivityPage{Items: []service.ActivityItem{}}, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/activity", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ActivityPageResponse
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Empty(t, response.Items)
		assert.False(t, response.HasMore)
	})
}
