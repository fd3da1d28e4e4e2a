package command

// root.go defines the root command for the reelog CLI.
// Global flags live here.

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	apiURL string // API server URL, shared by all subcommands
	token  string // bearer token issued by the identity provider
)

var rootCmd = &cobra.Command{
	Use:   "reelog",
	Short: "reelog - movie diary command line interface",
	Long: `reelog is a tool for interacting with the reelog API from the terminal.
You can use it to:
- Browse the public activity feed
- Search the movie catalog
- Review your own watch history and stats

Authenticated commands need a session token from the identity provider,
passed with --token.

Use "reelog [command] -h" to see the flags of each command.`,
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "session token for authenticated commands")
}
