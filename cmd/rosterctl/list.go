package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amirhossein-jamali/staff-registry/internal/client"
	"github.com/amirhossein-jamali/staff-registry/internal/infrastructure/adapter/api/dto"
)

func listCmd() *cobra.Command {
	var (
		minSalary float64
		maxSalary float64
		offset    int
		limit     int
		sort      string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List staff records",
		Long: `List staff records filtered by salary range.

Sort takes a sign and a column: id, login, name or salary.

Examples:
  rosterctl list
  rosterctl list --min 1000 --max 5000 --sort=-salary --limit 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}

			opts := client.ListOptions{Offset: offset, Limit: limit, Sort: sort}
			if cmd.Flags().Changed("min") {
				opts.MinSalary = &minSalary
			}
			if cmd.Flags().Changed("max") {
				opts.MaxSalary = &maxSalary
			}

			page, err := c.List(context.Background(), opts)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(page)
			}

			if len(page.Data) == 0 {
				fmt.Printf("No records found (total %d).\n", page.Count)
				return nil
			}

			fmt.Printf("Records (offset %d, showing %d of %d):\n", offset, len(page.Data), page.Count)
			fmt.Println(strings.Repeat("=", 72))
			for _, r := range page.Data {
				printRecord(r)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&minSalary, "min", 0, "Minimum salary, inclusive")
	cmd.Flags().Float64Var(&maxSalary, "max", 0, "Maximum salary, inclusive")
	cmd.Flags().IntVarP(&offset, "offset", "o", 0, "Number of records to skip")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Page size (server default when zero)")
	cmd.Flags().StringVarP(&sort, "sort", "s", "", "Sort column with sign, e.g. +name")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw JSON page")

	return cmd
}

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one staff record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}

			record, err := c.Get(context.Background(), args[0])
			if err != nil {
				return err
			}
			if record == nil {
				return fmt.Errorf("record %q not found", args[0])
			}

			printRecord(*record)
			return nil
		},
	}
}

func printRecord(r dto.RecordResponse) {
	fmt.Printf("%-10s %s\n", "ID:", r.ID)
	fmt.Printf("%-10s %s\n", "Login:", r.Login)
	fmt.Printf("%-10s %s\n", "Name:", r.Name)
	fmt.Printf("%-10s %.2f\n", "Salary:", r.Salary)
	fmt.Printf("%-10s %s\n", "Created:", r.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Println(strings.Repeat("-", 72))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
