package handler

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"reelog/internal/dto"
	"reelog/internal/notify"
	"reelog/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	defaultFeedLimit = 20
	maxFeedLimit     = 100
)

type ActivityHandler struct {
	svc service.WatchLogService
	hub *notify.Hub
}

func NewActivityHandler(svc service.WatchLogService, hub *notify.Hub) *ActivityHandler {
	return &ActivityHandler{svc: svc, hub: hub}
}

// RegisterRoutes wires the public activity feed. No auth; the feed only
// ever contains publicly visible rows.
func (h *ActivityHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Feed)
	rg.GET("/stream", h.Stream)
}

// Feed returns one page of public activity
// GET /api/activity?limit=20&offset=0
func (h *ActivityHandler) Feed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultFeedLimit)))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	if limit < 1 || limit > maxFeedLimit {
		limit = defaultFeedLimit
	}
	if offset < 0 {
		offset = 0
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	page, err := h.svc.PublicActivityFeed(ctx, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.FromActivityPage(page, limit, offset))
}

// Stream pushes a server-sent event every time the public record set
// changes. Clients re-fetch the feed on each event instead of trusting the
// event payload.
// GET /api/activity/stream
func (h *ActivityHandler) Stream(c *gin.Context) {
	id, events := h.hub.Subscribe()
	defer h.hub.Unsubscribe(id)

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	// heartbeat keeps intermediaries from closing an idle stream
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(event.Kind, event)
			return true
		case <-heartbeat.C:
			c.SSEvent("heartbeat", time.Now().UTC())
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
