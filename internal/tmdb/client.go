package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	imageBaseURL   = "https://image.tmdb.org/t/p"

	// TMDB tolerates ~50 req/s; stay well under it
	rateLimit = 20
	rateBurst = 40

	// Retry configuration
	maxRetries   = 4
	initialDelay = 1 * time.Second
	maxDelay     = 16 * time.Second
)

// Client handles TMDB API requests with rate limiting and retry logic.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	rateLimiter *rate.Limiter

	retryDelay    time.Duration
	maxRetryDelay time.Duration
}

// NewClient creates a new TMDB API client. accessToken is the v4 read
// access token sent as a bearer credential.
func NewClient(baseURL, accessToken string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:       baseURL,
		accessToken:   accessToken,
		retryDelay:    initialDelay,
		maxRetryDelay: maxDelay,
		rateLimiter:   rate.NewLimiter(rate.Limit(rateLimit), rateBurst),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// SearchMovies runs a title search.
func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*SearchResponse, error) {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("language", "en-US")
	params.Set("page", fmt.Sprintf("%d", page))

	var response SearchResponse
	if err := c.doRequest(ctx, http.MethodGet, "/search/movie", params, &response); err != nil {
		return nil, fmt.Errorf("failed to search movies: %w", err)
	}
	return &response, nil
}

// GetTrending fetches trending movies for the given window ("day"/"week").
func (c *Client) GetTrending(ctx context.Context, timeWindow string, page int) (*SearchResponse, error) {
	if timeWindow != "day" {
		timeWindow = "week"
	}
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("language", "en-US")
	params.Set("page", fmt.Sprintf("%d", page))

	var response SearchResponse
	endpoint := fmt.Sprintf("/trending/movie/%s", timeWindow)
	if err := c.doRequest(ctx, http.MethodGet, endpoint, params, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch trending movies: %w", err)
	}
	return &response, nil
}

// GetDetail fetches the full record for one movie.
func (c *Client) GetDetail(ctx context.Context, id int64) (*MovieDetail, error) {
	params := url.Values{}
	params.Set("language", "en-US")

	var detail MovieDetail
	endpoint := fmt.Sprintf("/movie/%d", id)
	if err := c.doRequest(ctx, http.MethodGet, endpoint, params, &detail); err != nil {
		return nil, fmt.Errorf("failed to fetch movie %d: %w", id, err)
	}
	return &detail, nil
}

// GetCredits fetches the cast list for one movie.
func (c *Client) GetCredits(ctx context.Context, id int64) (*Credits, error) {
	params := url.Values{}
	params.Set("language", "en-US")

	var credits Credits
	endpoint := fmt.Sprintf("/movie/%d/credits", id)
	if err := c.doRequest(ctx, http.MethodGet, endpoint, params, &credits); err != nil {
		return nil, fmt.Errorf("failed to fetch credits for movie %d: %w", id, err)
	}
	return &credits, nil
}

// doRequest performs an HTTP request with rate limiting and retry logic.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, params url.Values, result interface{}) error {
	fullURL := c.baseURL + endpoint
	if params != nil {
		fullURL += "?" + params.Encode()
	}

	var lastErr error
	delay := c.retryDelay

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.accessToken != "" {
			req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.accessToken))
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if attempt < maxRetries {
				log.Printf("[TMDB] Request failed (attempt %d/%d): %v, retrying in %v...",
					attempt+1, maxRetries, err, delay)
				time.Sleep(delay)
				delay = minDuration(delay*2, c.maxRetryDelay)
				continue
			}
			return fmt.Errorf("request failed after %d attempts: %w", maxRetries, err)
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return fmt.Errorf("failed to read response body: %w", readErr)
		}

		if resp.StatusCode != http.StatusOK {
			if shouldRetry(resp.StatusCode) && attempt < maxRetries {
				lastErr = fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
				log.Printf("[TMDB] HTTP %d (attempt %d/%d), retrying in %v...",
					resp.StatusCode, attempt+1, maxRetries, delay)
				time.Sleep(delay)
				delay = minDuration(delay*2, c.maxRetryDelay)
				continue
			}
			return fmt.Errorf("TMDB API error: HTTP %d: %s", resp.StatusCode, string(body))
		}

		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}

	return fmt.Errorf("request failed: %w", lastErr)
}

// shouldRetry reports whether the status code warrants another attempt.
func shouldRetry(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}

// PosterURL builds a full image URL for a poster path. Empty path yields "".
func PosterURL(path, size string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = "w342"
	}
	return fmt.Sprintf("%s/%s%s", imageBaseURL, size, path)
}

// BackdropURL builds a full image URL for a backdrop path.
func BackdropURL(path, size string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = "w1280"
	}
	return fmt.Sprintf("%s/%s%s", imageBaseURL, size, path)
}
