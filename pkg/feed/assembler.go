// Package feed accumulates pages of the public activity feed into one
// de-duplicated, reverse-chronological list. It is the client-side half of
// the feed: the server returns raw pages at growing offsets, and this
// package merges them so overlapping pages never surface the same entry
// twice.
package feed

import (
	"context"
	"time"
)

// UserSummary is the author half of a feed entry.
type UserSummary struct {
	DisplayName     *string `json:"display_name,omitempty"`
	Username        *string `json:"username,omitempty"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
}

// MovieSummary is the logged movie half of a feed entry.
type MovieSummary struct {
	Title       string  `json:"title"`
	PosterPath  *string `json:"poster_path,omitempty"`
	ReleaseDate *string `json:"release_date,omitempty"`
}

// Entry is one public watch log joined with its author and movie. The
// shape mirrors the activity endpoint's items.
type Entry struct {
	ID         int64        `json:"id"`
	TMDBID     int64        `json:"tmdb_id"`
	WatchedAt  string       `json:"watched_at"`
	Rating     *float64     `json:"rating,omitempty"`
	ReviewText *string      `json:"review_text,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	User       UserSummary  `json:"user"`
	Movie      MovieSummary `json:"movie"`
}

// Page is one server response: the items at the requested offset plus
// whether more rows exist past them.
type Page struct {
	Items   []Entry `json:"items"`
	HasMore bool    `json:"has_more"`
}

// Fetcher retrieves one page of the feed at the given offset.
type Fetcher func(ctx context.Context, limit, offset int) (Page, error)

const defaultPageSize = 20

// Assembler merges successive feed pages into a stable accumulated list.
// Loading more is an explicit call, never automatic. Not safe for
// concurrent use.
type Assembler struct {
	fetch     Fetcher
	limit     int
	offset    int
	seen      map[int64]struct{}
	entries   []Entry
	exhausted bool
}

func NewAssembler(fetch Fetcher, pageSize int) *Assembler {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Assembler{
		fetch: fetch,
		limit: pageSize,
		seen:  make(map[int64]struct{}),
	}
}

// LoadMore fetches the next page and merges it in. It returns only the
// entries that were actually new. Entries whose identity was already
// accumulated are skipped; inserts between fetches shift offsets, so
// overlapping pages are expected rather than exceptional. Once the server
// reports no further rows the assembler is exhausted and LoadMore becomes
// a no-op.
func (a *Assembler) LoadMore(ctx context.Context) ([]Entry, error) {
	if a.exhausted {
		return nil, nil
	}

	page, err := a.fetch(ctx, a.limit, a.offset)
	if err != nil {
		return nil, err
	}

	// The offset advances by what the server returned, duplicates
	// included, so the next fetch starts where this page ended.
	a.offset += len(page.Items)

	var added []Entry
	for _, entry := range page.Items {
		if _, ok := a.seen[entry.ID]; ok {
			continue
		}
		a.seen[entry.ID] = struct{}{}
		a.entries = append(a.entries, entry)
		added = append(added, entry)
	}

	if !page.HasMore {
		a.exhausted = true
	}
	return added, nil
}

// Entries returns the accumulated list in the order it was assembled.
func (a *Assembler) Entries() []Entry {
	return a.entries
}

// Exhausted reports whether the server has no further pages. It is
// terminal; a fresh Assembler is needed to re-read the feed.
func (a *Assembler) Exhausted() bool {
	return a.exhausted
}

// Len returns the number of accumulated entries.
func (a *Assembler) Len() int {
	return len(a.entries)
}
