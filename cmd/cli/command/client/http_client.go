package client

// http_client.go wraps the reelog API endpoints the CLI talks to.

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"reelog/pkg/feed"
)

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// SearchResult is one catalog hit as the search endpoint returns it.
type SearchResult struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  *string `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
}

type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Total   int            `json:"total"`
}

// StatsResponse mirrors the user stats endpoint.
type StatsResponse struct {
	TotalLogs     int `json:"total_logs"`
	UniqueMovies  int `json:"unique_movies"`
	Rewatches     int `json:"rewatches"`
	TheaterVisits int `json:"theater_visits"`
}

// UserLogResponse is one of the caller's own log entries.
type UserLogResponse struct {
	ID               int64     `json:"id"`
	TMDBID           int64     `json:"tmdb_id"`
	WatchedAt        string    `json:"watched_at"`
	Rating           *float64  `json:"rating,omitempty"`
	ReviewText       *string   `json:"review_text,omitempty"`
	IsRewatch        bool      `json:"is_rewatch"`
	WatchedInTheater bool      `json:"watched_in_theater"`
	Visibility       string    `json:"visibility"`
	CreatedAt        time.Time `json:"created_at"`
	MovieTitle       *string   `json:"movie_title,omitempty"`
	MovieReleaseDate *string   `json:"movie_release_date,omitempty"`
}

type UserLogListResponse struct {
	Items []UserLogResponse `json:"items"`
	Total int               `json:"total"`
}

func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: apiURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetToken attaches the identity provider's session token to later requests.
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// ActivityPage fetches one page of the public feed. It satisfies
// feed.Fetcher.
func (c *HTTPClient) ActivityPage(ctx context.Context, limit, offset int) (feed.Page, error) {
	endpoint := fmt.Sprintf("%s/api/activity?limit=%d&offset=%d", c.baseURL, limit, offset)

	var page feed.Page
	if err := c.get(ctx, endpoint, false, &page); err != nil {
		return feed.Page{}, fmt.Errorf("fetch activity page: %w", err)
	}
	return page, nil
}

// Search queries the movie catalog.
func (c *HTTPClient) Search(ctx context.Context, query string, page int) (*SearchResponse, error) {
	endpoint := fmt.Sprintf("%s/api/search?query=%s&page=%d", c.baseURL, url.QueryEscape(query), page)

	var result SearchResponse
	if err := c.get(ctx, endpoint, false, &result); err != nil {
		return nil, fmt.Errorf("search catalog: %w", err)
	}
	return &result, nil
}

// Trending fetches the trending list.
func (c *HTTPClient) Trending(ctx context.Context, window string) (*SearchResponse, error) {
	endpoint := c.baseURL + "/api/trending?window=" + url.QueryEscape(window)

	var result SearchResponse
	if err := c.get(ctx, endpoint, false, &result); err != nil {
		return nil, fmt.Errorf("fetch trending: %w", err)
	}
	return &result, nil
}

// MyStats fetches the caller's aggregate watch statistics.
func (c *HTTPClient) MyStats(ctx context.Context) (*StatsResponse, error) {
	var stats StatsResponse
	if err := c.get(ctx, c.baseURL+"/api/users/me/stats", true, &stats); err != nil {
		return nil, fmt.Errorf("fetch stats: %w", err)
	}
	return &stats, nil
}

// MyLogs fetches the caller's full watch history.
func (c *HTTPClient) MyLogs(ctx context.Context) (*UserLogListResponse, error) {
	var logs UserLogListResponse
	if err := c.get(ctx, c.baseURL+"/api/users/me/logs", true, &logs); err != nil {
		return nil, fmt.Errorf("fetch logs: %w", err)
	}
	return &logs, nil
}

func (c *HTTPClient) get(ctx context.Context, endpoint string, authed bool, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if authed {
		if c.token == "" {
			return fmt.Errorf("no session token, pass --token")
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request failed with status: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
