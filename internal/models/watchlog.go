package models

import "time"

// Visibility controls who can see a watch log entry.
// Closed value set: "public", "friends", "private".
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityFriends Visibility = "friends"
	VisibilityPrivate Visibility = "private"
)

func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityFriends, VisibilityPrivate:
		return true
	}
	return false
}

// TheaterFormat is the projection format of a theater viewing. Nullable on
// the log row; when present it must be one of the closed value set.
type TheaterFormat string

const (
	FormatStandard TheaterFormat = "standard"
	FormatIMAX     TheaterFormat = "imax"
	FormatDolby    TheaterFormat = "dolby"
	Format3D       TheaterFormat = "3d"
	Format70mm     TheaterFormat = "70mm"
	Format35mm     TheaterFormat = "35mm"
)

func (f TheaterFormat) Valid() bool {
	switch f {
	case FormatStandard, FormatIMAX, FormatDolby, Format3D, Format70mm, Format35mm:
		return true
	}
	return false
}

// WatchLog is one user's record of having watched one movie on one
// occasion. Rewatches are additional rows, never mutations of an existing
// row. Rows are inserted once and never updated or deleted.
type WatchLog struct {
	ID      int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID  string `json:"user_id" gorm:"type:uuid;not null;index;index:idx_watch_logs_user_movie"`
	MovieID int64  `json:"movie_id" gorm:"not null;index;index:idx_watch_logs_user_movie"`
	// TMDBID is denormalized from the movie row so log queries can be keyed
	// by catalog id without a join.
	TMDBID           int64          `json:"tmdb_id" gorm:"column:tmdb_id;not null"`
	WatchedAt        string         `json:"watched_at" gorm:"not null;index"`
	Rating           *float64       `json:"rating,omitempty" gorm:"type:decimal(3,1)"`
	ReviewText       *string        `json:"review_text,omitempty"`
	IsRewatch        bool           `json:"is_rewatch" gorm:"not null;default:false"`
	WatchedInTheater bool           `json:"watched_in_theater" gorm:"not null;default:false"`
	TheaterName      *string        `json:"theater_name,omitempty"`
	TheaterCity      *string        `json:"theater_city,omitempty"`
	TheaterFormat    *TheaterFormat `json:"theater_format,omitempty"`
	Visibility       Visibility     `json:"visibility" gorm:"not null;index"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`

	// Associations
	User  *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Movie *Movie `json:"movie,omitempty" gorm:"foreignKey:MovieID"`
}

func (WatchLog) TableName() string {
	return "watch_logs"
}
