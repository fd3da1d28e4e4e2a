package command

import (
	"context"
	"fmt"
	"strings"

	"reelog/cmd/cli/command/client"

	"github.com/spf13/cobra"
)

var searchPage int
var trendingWindow string

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the movie catalog",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		httpClient := client.NewHTTPClient(apiURL)
		result, err := httpClient.Search(context.Background(), query, searchPage)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		if len(result.Results) == 0 {
			fmt.Println("No results.")
			return nil
		}

		printResults(result.Results)
		return nil
	},
}

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Show trending movies",
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient := client.NewHTTPClient(apiURL)
		result, err := httpClient.Trending(context.Background(), trendingWindow)
		if err != nil {
			return fmt.Errorf("failed to fetch trending: %w", err)
		}

		if len(result.Results) == 0 {
			fmt.Println("Nothing trending right now.")
			return nil
		}

		printResults(result.Results)
		return nil
	},
}

func printResults(results []client.SearchResult) {
	for _, movie := range results {
		fmt.Printf("TMDB ID: %d\n", movie.ID)
		fmt.Printf("Title: %s\n", movie.Title)
		if movie.ReleaseDate != "" {
			fmt.Printf("Released: %s\n", movie.ReleaseDate)
		}
		if movie.VoteAverage > 0 {
			fmt.Printf("Score: %.1f\n", movie.VoteAverage)
		}
		fmt.Println(strings.Repeat("-", 50))
	}
}

func init() {
	searchCmd.Flags().IntVar(&searchPage, "page", 1, "result page")
	trendingCmd.Flags().StringVar(&trendingWindow, "window", "week", "trending window (day or week)")
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(trendingCmd)
}
