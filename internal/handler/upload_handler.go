package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"reelog/internal/assets"

	"github.com/gin-gonic/gin"
)

// UploadHandler accepts the PUT a client performs against a signed upload
// URL. It lives outside the /api group because the URL is self-authorizing.
type UploadHandler struct {
	store    *assets.DiskStore
	maxBytes int64
}

func NewUploadHandler(store *assets.DiskStore, maxBytes int64) *UploadHandler {
	return &UploadHandler{store: store, maxBytes: maxBytes}
}

func (h *UploadHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.PUT("/:key", h.Put)
}

// Put stores the uploaded body under the signed key.
// PUT /uploads/:key?exp=...&sig=...
func (h *UploadHandler) Put(c *gin.Context) {
	key := c.Param("key")
	sig := c.Query("sig")
	exp, err := strconv.ParseInt(c.Query("exp"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid exp parameter"})
		return
	}

	if err := h.store.VerifyUpload(key, exp, sig); err != nil {
		switch {
		case errors.Is(err, assets.ErrExpiredUploadURL):
			c.JSON(http.StatusForbidden, gin.H{"error": "upload url expired"})
		case errors.Is(err, assets.ErrBadSignature):
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid upload signature"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	body := http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload exceeds size limit"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload body"})
		return
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty upload body"})
		return
	}

	if err := h.store.Put(key, data); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"key": key})
}
