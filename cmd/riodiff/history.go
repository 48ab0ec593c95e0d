package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/riodiff/internal/config"
	"github.com/nao1215/riodiff/internal/database"
	"github.com/nao1215/riodiff/internal/report"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List comparisons saved with diff --save",
		Long: `History lists the comparisons saved with 'riodiff diff --save', newest first.

Examples:
  # List the latest saved comparisons
  riodiff history

  # List the latest five
  riodiff history --limit 5

  # Print one saved comparison as JSON
  riodiff history --show 0b3f5c2e-8f36-4a5e-9d55-0f7c1d8c4e21`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", config.DefaultHistoryLimit,
		"Maximum number of comparisons to list (0 lists all)")
	cmd.Flags().StringP("show", "s", "",
		"Print the saved comparison with this ID as JSON")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	if limit < 0 {
		return fmt.Errorf("invalid limit %d: must not be negative", limit)
	}
	showID, err := cmd.Flags().GetString("show")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false})
	if errors.Is(err, database.ErrDatabaseNotFound) && showID == "" {
		fmt.Fprintln(out, "No saved comparisons found.")
		fmt.Fprintln(out, "\nUse 'riodiff diff --save' to save a comparison.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if showID != "" {
		return showDiff(ctx, out, db, showID)
	}
	return listDiffs(ctx, out, db, limit)
}

// listDiffs prints a table of saved comparisons.
func listDiffs(ctx context.Context, out io.Writer, db *database.HistoryDB, limit int) error {
	records, err := db.ListDiffs(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list comparisons: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, "No saved comparisons found.")
		fmt.Fprintln(out, "\nUse 'riodiff diff --save' to save a comparison.")
		return nil
	}

	fmt.Fprintf(out, "Saved comparisons (%d):\n\n", len(records))
	fmt.Fprintf(out, "  %-36s  %-19s  %-9s  %s\n", "ID", "Date", "Result", "Rasters")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 90))

	for _, rec := range records {
		fmt.Fprintf(out, "  %-36s  %-19s  %-9s  %s %s\n",
			rec.ID,
			rec.Timestamp.Format("2006-01-02 15:04:05"),
			resultLabel(rec),
			rec.BasePath,
			rec.TestPath,
		)
	}

	fmt.Fprintln(out, "\nUse 'riodiff history --show <id>' to print a saved comparison.")
	return nil
}

// resultLabel summarizes a record in one word.
func resultLabel(rec database.DiffRecord) string {
	switch {
	case rec.Identical:
		return "identical"
	case rec.Differs:
		return "differs"
	default:
		return "equal"
	}
}

// showDiff prints one saved comparison as JSON.
func showDiff(ctx context.Context, out io.Writer, db *database.HistoryDB, id string) error {
	diff, err := db.GetDiff(ctx, id)
	if err != nil {
		return err
	}
	_, err = report.NewJSONWriter(out, report.WithPrettyPrint()).Write(diff)
	return err
}
