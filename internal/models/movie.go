package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// MovieGenre is one {id, name} genre record from the external catalog.
type MovieGenre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CastMember is one billed cast credit. Order is the billing position.
type CastMember struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Character string `json:"character"`
	Order     int    `json:"order"`
}

// GenreList and CastList are stored as jsonb columns.
type GenreList []MovieGenre

func (g GenreList) Value() (driver.Value, error) {
	if g == nil {
		return nil, nil
	}
	return json.Marshal(g)
}

func (g *GenreList) Scan(value interface{}) error {
	if value == nil {
		*g = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			b = []byte(s)
		} else {
			return fmt.Errorf("unsupported type for GenreList: %T", value)
		}
	}
	return json.Unmarshal(b, g)
}

type CastList []CastMember

func (c CastList) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	return json.Marshal(c)
}

func (c *CastList) Scan(value interface{}) error {
	if value == nil {
		*c = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			b = []byte(s)
		} else {
			return fmt.Errorf("unsupported type for CastList: %T", value)
		}
	}
	return json.Unmarshal(b, c)
}

// Movie is the locally cached, denormalized copy of one external catalog
// item. Natural key is TMDBID; at most one row per catalog id, enforced by
// upsert semantics plus the unique index.
type Movie struct {
	ID           int64           `json:"id" gorm:"primaryKey;autoIncrement"`
	TMDBID       int64           `json:"tmdb_id" gorm:"column:tmdb_id;uniqueIndex;not null"`
	Title        string          `json:"title" gorm:"not null"`
	ReleaseDate  *string         `json:"release_date,omitempty"`
	Runtime      *int            `json:"runtime,omitempty"`
	Overview     *string         `json:"overview,omitempty"`
	PosterPath   *string         `json:"poster_path,omitempty"`
	BackdropPath *string         `json:"backdrop_path,omitempty"`
	VoteAverage  *float64        `json:"vote_average,omitempty" gorm:"type:decimal(4,2)"`
	Genres       GenreList       `json:"genres,omitempty" gorm:"type:jsonb"`
	Cast         CastList        `json:"cast,omitempty" gorm:"type:jsonb"`
	RawPayload   json.RawMessage `json:"-" gorm:"column:raw_payload;type:jsonb"`
	LastSyncedAt time.Time       `json:"last_synced_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (Movie) TableName() string {
	return "movies"
}
