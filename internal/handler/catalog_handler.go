package handler

import (
	"net/http"
	"strconv"

	"reelog/internal/tmdb"

	"github.com/gin-gonic/gin"
)

// CatalogHandler passes search and trending through to the external
// catalog. The catalog fails soft, so these endpoints never surface a
// provider error; a failed fetch looks like an empty result set.
type CatalogHandler struct {
	catalog *tmdb.Catalog
}

func NewCatalogHandler(catalog *tmdb.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.Search)
	rg.GET("/trending", h.Trending)
}

// Search proxies a title search
// GET /api/search?query=&page=
func (h *CatalogHandler) Search(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	results := h.catalog.Search(c.Request.Context(), query, page)
	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"total":   len(results),
	})
}

// Trending proxies the trending list
// GET /api/trending?window=week&page=1
func (h *CatalogHandler) Trending(c *gin.Context) {
	window := c.DefaultQuery("window", "week")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	results := h.catalog.Trending(c.Request.Context(), window, page)
	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"total":   len(results),
	})
}
