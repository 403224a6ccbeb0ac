package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show who holds the upload slot",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}

			status, err := c.Status(context.Background())
			if err != nil {
				return err
			}

			if !status.Uploading {
				fmt.Println("Upload slot: free")
				return nil
			}

			fmt.Println("Upload slot: held")
			fmt.Printf("  Owner:   %s\n", status.Owner)
			fmt.Printf("  Since:   %s\n", status.UpdatedAt.Format("2006-01-02 15:04:05"))
			if status.Stale {
				fmt.Println("  Stale:   yes, the next upload will take it over")
			}
			return nil
		},
	}
}
