package dto

import (
	"reelog/internal/service"
)

// ActivityItemResponse: one public log joined with user and movie summaries
type ActivityItemResponse struct {
	WatchLogResponse
	User  UserSummaryDTO  `json:"user"`
	Movie MovieSummaryDTO `json:"movie"`
}

type UserSummaryDTO struct {
	DisplayName     *string `json:"display_name,omitempty"`
	Username        *string `json:"username,omitempty"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
}

type MovieSummaryDTO struct {
	Title       string  `json:"title"`
	PosterPath  *string `json:"poster_path,omitempty"`
	ReleaseDate *string `json:"release_date,omitempty"`
}

// ActivityPageResponse: one page of the public feed
type ActivityPageResponse struct {
	Items   []ActivityItemResponse `json:"items"`
	HasMore bool                   `json:"has_more"`
	Limit   int                    `json:"limit"`
	Offset  int                    `json:"offset"`
}

func FromActivityPage(page service.ActivityPage, limit, offset int) ActivityPageResponse {
	items := make([]ActivityItemResponse, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, ActivityItemResponse{
			WatchLogResponse: FromWatchLogModel(item.WatchLog),
			User: UserSummaryDTO{
				DisplayName:     item.User.DisplayName,
				Username:        item.User.Username,
				ProfileImageURL: item.User.ProfileImageURL,
			},
			Movie: MovieSummaryDTO{
				Title:       item.Movie.Title,
				PosterPath:  item.Movie.PosterPath,
				ReleaseDate: item.Movie.ReleaseDate,
			},
		})
	}
	return ActivityPageResponse{
		Items:   items,
		HasMore: page.HasMore,
		Limit:   limit,
		Offset:  offset,
	}
}
