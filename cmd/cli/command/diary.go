package command

import (
	"context"
	"fmt"
	"strings"

	"reelog/cmd/cli/command/client"

	"github.com/spf13/cobra"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "List your watch history",
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient := client.NewHTTPClient(apiURL)
		httpClient.SetToken(token)

		logs, err := httpClient.MyLogs(context.Background())
		if err != nil {
			return fmt.Errorf("failed to get watch history: %w", err)
		}

		if logs.Total == 0 {
			fmt.Println("No watch logs yet.")
			return nil
		}

		fmt.Printf("Found %d logs:\n\n", logs.Total)
		for _, entry := range logs.Items {
			title := fmt.Sprintf("TMDB %d", entry.TMDBID)
			if entry.MovieTitle != nil {
				title = *entry.MovieTitle
			}
			fmt.Printf("%s on %s", title, entry.WatchedAt)
			if entry.IsRewatch {
				fmt.Print(" (rewatch)")
			}
			if entry.WatchedInTheater {
				fmt.Print(" (theater)")
			}
			fmt.Println()
			if entry.Rating != nil {
				fmt.Printf("  Rating: %.1f/10\n", *entry.Rating)
			}
			if entry.ReviewText != nil && *entry.ReviewText != "" {
				fmt.Printf("  %s\n", *entry.ReviewText)
			}
			fmt.Println(strings.Repeat("-", 50))
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show your watch statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient := client.NewHTTPClient(apiURL)
		httpClient.SetToken(token)

		stats, err := httpClient.MyStats(context.Background())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		fmt.Printf("Total logs: %d\n", stats.TotalLogs)
		fmt.Printf("Unique movies: %d\n", stats.UniqueMovies)
		fmt.Printf("Rewatches: %d\n", stats.Rewatches)
		fmt.Printf("Theater visits: %d\n", stats.TheaterVisits)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(statsCmd)
}
