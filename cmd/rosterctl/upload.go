package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/amirhossein-jamali/staff-registry/internal/client"
)

func uploadCmd() *cobra.Command {
	var (
		chunkSize   int
		sessionID   string
		ingest      bool
		at          string
		busyRetries int
		busyDelay   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a CSV file in chunks",
		Long: `Upload a CSV file as a sequence of base64 chunks.

Only one upload runs at a time on the server; when another client holds the
slot the first chunk is retried --busy-retries times.

Examples:
  rosterctl upload staff.csv
  rosterctl upload staff.csv --chunk-size 65536 --ingest --time 2024-03-01`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}

			createdAt, err := parseTime(at)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			opts := &client.UploadOptions{
				ChunkSize:   chunkSize,
				SessionID:   sessionID,
				BusyRetries: busyRetries,
				BusyDelay:   busyDelay,
			}
			if verbose {
				opts.OnProgress = func(sent, total int) {
					fmt.Fprintf(os.Stderr, "\rChunks: %d/%d", sent, total)
					if sent == total {
						fmt.Fprintln(os.Stderr)
					}
				}
			}

			name, err := c.UploadFile(ctx, args[0], opts)
			if err != nil {
				return err
			}
			fmt.Printf("Uploaded: %s\n", name)

			if !ingest {
				return nil
			}
			return runIngest(ctx, c, name, createdAt)
		},
	}

	cmd.Flags().IntVar(&chunkSize, "chunk-size", client.DefaultChunkSize, "Decoded bytes per chunk")
	cmd.Flags().StringVar(&sessionID, "session", "", "Upload session id (random when empty)")
	cmd.Flags().BoolVar(&ingest, "ingest", false, "Apply the file once it is uploaded")
	cmd.Flags().StringVar(&at, "time", "", "Creation time for new records (RFC 3339 or YYYY-MM-DD)")
	cmd.Flags().IntVar(&busyRetries, "busy-retries", 10, "Retries while another upload holds the slot")
	cmd.Flags().DurationVar(&busyDelay, "busy-delay", time.Second, "Wait between busy retries")

	return cmd
}

func ingestCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "ingest <file-name>",
		Short: "Apply an uploaded file",
		Long: `Apply a previously uploaded file. Either every row is stored or none is.

Example:
  rosterctl ingest staff.csv --time 2024-03-01T09:00:00Z`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}

			createdAt, err := parseTime(at)
			if err != nil {
				return err
			}

			return runIngest(context.Background(), c, args[0], createdAt)
		},
	}

	cmd.Flags().StringVar(&at, "time", "", "Creation time for new records (RFC 3339 or YYYY-MM-DD)")

	return cmd
}

func runIngest(ctx context.Context, c *client.Client, name string, createdAt time.Time) error {
	result, err := c.Ingest(ctx, name, createdAt)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	fmt.Printf("Ingested: %s\n", result.FileName)
	fmt.Printf("  Created: %d\n", result.Created)
	fmt.Printf("  Updated: %d\n", result.Updated)
	fmt.Printf("  Skipped: %d\n", result.Skipped)
	return nil
}

func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --time %q: use RFC 3339 or YYYY-MM-DD", raw)
}
