package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for riodiff.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "riodiff",
		Short: "Compare two rasters",
		Long: `riodiff compares a base raster with a test raster and prints the differences.

Structural properties (size, bands, data type, nodata, bounding box, CRS,
transform, metadata and statistics) are compared first. When the rasters are
compatible, pixel values are compared band by band within a tolerance and an
optional difference raster (base - test) can be written.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewDiffCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		// The report has already told the user what differs.
		if !errors.Is(err, ErrDifferencesFound) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}
