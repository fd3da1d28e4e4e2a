package command

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"reelog/cmd/cli/command/client"
	"reelog/pkg/feed"

	"github.com/spf13/cobra"
)

var activityPageSize int

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Browse the public activity feed",
	Long: `Browse the public activity feed page by page. After each page you are
asked whether to load more; the feed never advances on its own.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient := client.NewHTTPClient(apiURL)
		assembler := feed.NewAssembler(httpClient.ActivityPage, activityPageSize)
		reader := bufio.NewReader(os.Stdin)

		for {
			added, err := assembler.LoadMore(context.Background())
			if err != nil {
				return fmt.Errorf("failed to load feed: %w", err)
			}

			if len(added) == 0 && assembler.Len() == 0 {
				fmt.Println("No public activity yet.")
				return nil
			}

			for _, entry := range added {
				printEntry(entry)
			}

			if assembler.Exhausted() {
				fmt.Printf("End of feed (%d entries).\n", assembler.Len())
				return nil
			}

			fmt.Print("Load more? [y/N] ")
			line, err := reader.ReadString('\n')
			if err != nil || strings.ToLower(strings.TrimSpace(line)) != "y" {
				return nil
			}
		}
	},
}

func printEntry(entry feed.Entry) {
	name := "someone"
	if entry.User.DisplayName != nil && *entry.User.DisplayName != "" {
		name = *entry.User.DisplayName
	} else if entry.User.Username != nil && *entry.User.Username != "" {
		name = *entry.User.Username
	}

	fmt.Printf("%s watched %s", name, entry.Movie.Title)
	if entry.Movie.ReleaseDate != nil && len(*entry.Movie.ReleaseDate) >= 4 {
		fmt.Printf(" (%s)", (*entry.Movie.ReleaseDate)[:4])
	}
	fmt.Printf(" on %s\n", entry.WatchedAt)

	if entry.Rating != nil {
		fmt.Printf("  Rating: %.1f/10\n", *entry.Rating)
	}
	if entry.ReviewText != nil && *entry.ReviewText != "" {
		fmt.Printf("  %s\n", *entry.ReviewText)
	}
	fmt.Println(strings.Repeat("-", 50))
}

func init() {
	activityCmd.Flags().IntVar(&activityPageSize, "limit", 20, "entries per page")
	rootCmd.AddCommand(activityCmd)
}
