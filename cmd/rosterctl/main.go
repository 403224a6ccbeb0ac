// rosterctl is a command-line client for the staff registry API.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/amirhossein-jamali/staff-registry/internal/client"
)

var (
	// Global flags
	baseURL string
	timeout time.Duration
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rosterctl",
		Short: "rosterctl - Upload and query staff records",
		Long: `rosterctl talks to a staff registry server.

Upload CSV files in chunks, apply them, and page through the stored records.

Configuration:
  Set SR_URL or pass --url.

Examples:
  rosterctl upload staff.csv --ingest
  rosterctl list --min 1000 --sort +salary
  rosterctl status`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", envOr("SR_URL", "http://localhost:8080"), "Server URL (or SR_URL env)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", time.Minute, "Per-request timeout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(uploadCmd())
	rootCmd.AddCommand(ingestCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(getCmd())
	rootCmd.AddCommand(statusCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newClient() (*client.Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("server URL is required (use --url or SR_URL environment variable)")
	}
	return client.New(client.Config{BaseURL: baseURL, Timeout: timeout})
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
