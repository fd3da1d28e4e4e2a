package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Catalog is the fail-soft surface the rest of the service talks to. Any
// transport or parse error is logged and converted to an empty or nil
// result; callers never see a catalog exception. Read results are cached in
// Redis for a configurable TTL when a client is available.
type Catalog struct {
	client *Client
	cache  *redis.Client // nil disables caching
	ttl    time.Duration
	logger *slog.Logger
}

func NewCatalog(client *Client, cache *redis.Client, ttl time.Duration, logger *slog.Logger) *Catalog {
	return &Catalog{client: client, cache: cache, ttl: ttl, logger: logger}
}

// Search returns matching summaries, empty on any failure.
func (c *Catalog) Search(ctx context.Context, query string, page int) []MovieSummary {
	if query == "" {
		return []MovieSummary{}
	}

	key := fmt.Sprintf("tmdb:search:%s:%d", query, page)
	var cached SearchResponse
	if c.readCache(ctx, key, &cached) {
		return cached.Results
	}

	resp, err := c.client.SearchMovies(ctx, query, page)
	if err != nil {
		c.logger.Error("tmdb search failed", "query", query, "error", err)
		return []MovieSummary{}
	}
	c.writeCache(ctx, key, resp)
	return resp.Results
}

// Trending returns the trending page, empty on any failure.
func (c *Catalog) Trending(ctx context.Context, timeWindow string, page int) []MovieSummary {
	key := fmt.Sprintf("tmdb:trending:%s:%d", timeWindow, page)
	var cached SearchResponse
	if c.readCache(ctx, key, &cached) {
		return cached.Results
	}

	resp, err := c.client.GetTrending(ctx, timeWindow, page)
	if err != nil {
		c.logger.Error("tmdb trending fetch failed", "window", timeWindow, "error", err)
		return []MovieSummary{}
	}
	c.writeCache(ctx, key, resp)
	return resp.Results
}

// DetailWithCredits fetches the detail record plus cast. Detail failure
// yields nil; a credits failure alone yields the detail with a nil cast,
// matching the partial result the rest of the submission flow expects.
func (c *Catalog) DetailWithCredits(ctx context.Context, id int64) (*MovieDetail, []CastMember) {
	key := fmt.Sprintf("tmdb:detail:%d", id)
	var cached struct {
		Detail *MovieDetail `json:"detail"`
		Cast   []CastMember `json:"cast"`
	}
	if c.readCache(ctx, key, &cached) && cached.Detail != nil {
		return cached.Detail, cached.Cast
	}

	detail, err := c.client.GetDetail(ctx, id)
	if err != nil {
		c.logger.Error("tmdb detail fetch failed", "id", id, "error", err)
		return nil, nil
	}

	var cast []CastMember
	credits, err := c.client.GetCredits(ctx, id)
	if err != nil {
		c.logger.Error("tmdb credits fetch failed", "id", id, "error", err)
	} else {
		cast = credits.Cast
	}

	cached.Detail = detail
	cached.Cast = cast
	c.writeCache(ctx, key, &cached)
	return detail, cast
}

func (c *Catalog) readCache(ctx context.Context, key string, out interface{}) bool {
	if c.cache == nil {
		return false
	}
	data, err := c.cache.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false
	}
	return true
}

func (c *Catalog) writeCache(ctx context.Context, key string, value interface{}) {
	if c.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("tmdb cache write failed", "key", key, "error", err)
	}
}
