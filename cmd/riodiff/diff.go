package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/riodiff/internal/compare"
	"github.com/nao1215/riodiff/internal/config"
	"github.com/nao1215/riodiff/internal/database"
	"github.com/nao1215/riodiff/internal/log"
	"github.com/nao1215/riodiff/internal/model"
	"github.com/nao1215/riodiff/internal/pixeldiff"
	"github.com/nao1215/riodiff/internal/raster"
	"github.com/nao1215/riodiff/internal/raster/gdal"
	"github.com/nao1215/riodiff/internal/report"
)

// ErrDifferencesFound is returned by the diff command with --exit-code when
// the report shows differences.
var ErrDifferencesFound = errors.New("differences found")

// driverFactory builds the raster driver used by one diff run.
type driverFactory func(logger *slog.Logger) raster.Driver

// gdalDriver is the production driverFactory.
func gdalDriver(logger *slog.Logger) raster.Driver {
	return gdal.NewDriver(logger)
}

// ignoreHelp describes each --ignore-<name> flag.
var ignoreHelp = map[string]string{
	config.PropHeight:      "Ignore the raster height",
	config.PropWidth:       "Ignore the raster width",
	config.PropBands:       "Ignore the number of bands",
	config.PropDataType:    "Ignore the data type",
	config.PropNodata:      "Ignore the nodata value",
	config.PropBBox:        "Ignore the bounding box",
	config.PropCRS:         "Ignore the coordinate reference system",
	config.PropTransform:   "Ignore the affine transform",
	config.PropMetadata:    "Ignore dataset and band metadata",
	config.PropStats:       "Ignore band statistics",
	config.PropPixelValues: "Ignore pixel values",
	config.PropChecksum:    "Ignore the file checksum",
}

// NewDiffCmd creates the diff command.
func NewDiffCmd() *cobra.Command {
	return newDiffCmd(gdalDriver)
}

// newDiffCmd creates the diff command with the given raster driver.
func newDiffCmd(newDriver driverFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff BASE_RASTER TEST_RASTER",
		Short: "Compare two rasters",
		Long: `Diff compares TEST_RASTER against BASE_RASTER.

When both files have the same checksum nothing is printed. Otherwise every
property that differs is printed as a pair of lines, the base value marked
with "<" and the test value with ">". When the rasters have the same size,
band count, transform and CRS, pixel values are compared band by band and
the count, percentage, maximum difference and RMSE of differing pixels are
reported.

Two cells are equal when |base - test| <= atol + rtol * |test|. Cells that
hold the nodata value in both rasters are equal; nodata on one side only is
a difference.

Examples:
  # Compare two rasters
  riodiff diff base.tif test.tif

  # Allow small differences and write the difference raster
  riodiff diff --atol 0.001 -o diff.tif base.tif test.tif

  # Only look at pixel values
  riodiff diff --ignore-checksum --ignore-metadata --ignore-stats base.tif test.tif

  # Machine-readable report, exit status 1 when the rasters differ
  riodiff diff --json --exit-code base.tif test.tif`,
		Args: diffArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiffCmd(cmd, args, newDriver)
		},
	}

	// Ignore flags, one per reported property
	for _, name := range config.PropertyNames {
		cmd.Flags().Bool("ignore-"+name, false, ignoreHelp[name])
	}

	// Tolerance flags
	cmd.Flags().Float64("rtol", pixeldiff.DefaultTolerance.RTol,
		"Relative tolerance for pixel values")
	cmd.Flags().Float64("atol", pixeldiff.DefaultTolerance.ATol,
		"Absolute tolerance for pixel values")
	cmd.Flags().Bool("equal-nan", pixeldiff.DefaultTolerance.EqualNaN,
		"Treat NaN cells (and nodata cells) in both rasters as equal")

	// Output flags
	cmd.Flags().StringP("output", "o", "",
		"Write the difference raster (base - test, Float32) to this path")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().String("report-file", "",
		"Write the report to this file instead of stdout (creates directories if needed)")
	cmd.Flags().Bool("no-color", false,
		"Disable colored text output")

	// Behaviour flags
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .riodiff in the current, base raster or home directory)")
	cmd.Flags().Bool("save", false,
		"Save the comparison to the history database")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")
	cmd.Flags().Bool("exit-code", false,
		"Exit with status 1 when differences are reported")
	cmd.Flags().Bool("version", false,
		"Print the version and exit")

	return cmd
}

// diffArgs validates the positional arguments. --version needs none.
func diffArgs(cmd *cobra.Command, args []string) error {
	if v, err := cmd.Flags().GetBool("version"); err == nil && v {
		return nil
	}
	if err := cobra.ExactArgs(2)(cmd, args); err != nil {
		return err
	}
	for _, path := range args {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("invalid raster path %q: %w", path, err)
		}
		if info.IsDir() {
			return fmt.Errorf("invalid raster path %q: is a directory", path)
		}
	}
	return nil
}

// runDiffCmd executes the diff command.
func runDiffCmd(cmd *cobra.Command, args []string, newDriver driverFactory) error {
	if v, err := cmd.Flags().GetBool("version"); err == nil && v {
		fmt.Fprintln(cmd.OutOrStdout(), getVersion())
		return nil
	}

	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.New(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	// Cancel the comparison between windows on interrupt
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runDiff(ctx, cmd, cfg, newDriver(logger), logger)
}

// buildConfig creates a Config from cobra command flags and the
// configuration file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.BaseRaster, cfg.TestRaster = args[0], args[1]
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	flags := cmd.Flags()

	for _, name := range config.PropertyNames {
		v, err := flags.GetBool("ignore-" + name)
		if err != nil {
			return nil, err
		}
		*cfg.Ignore.Field(name) = v
	}

	if cfg.Tolerance.RTol, err = flags.GetFloat64("rtol"); err != nil {
		return nil, err
	}
	if cfg.Tolerance.ATol, err = flags.GetFloat64("atol"); err != nil {
		return nil, err
	}
	if cfg.Tolerance.EqualNaN, err = flags.GetBool("equal-nan"); err != nil {
		return nil, err
	}
	if cfg.OutputPath, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("report-file"); err != nil {
		return nil, err
	}
	if cfg.NoColor, err = flags.GetBool("no-color"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	if cfg.SaveHistory, err = flags.GetBool("save"); err != nil {
		return nil, err
	}
	if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
		return nil, err
	}
	if cfg.ExitCode, err = flags.GetBool("exit-code"); err != nil {
		return nil, err
	}

	if err := applyConfigFile(cmd, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyConfigFile merges the matching profile of the configuration file.
// If the user explicitly specified a config file path, it must exist.
// If no path is specified and no file is found, nothing is applied.
func applyConfigFile(cmd *cobra.Command, cfg *config.Config) error {
	configPath := config.FindConfigFile(cfg.ConfigFilePath, cfg.BaseRaster)
	if configPath == "" {
		if cfg.ConfigFilePath != "" {
			return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
		}
		return nil
	}

	cf, err := config.LoadConfigFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}

	profile := cf.GetProfile(cfg.BaseRaster)
	if err := cfg.ApplyProfile(profile, cmd.Flags().Changed); err != nil {
		return fmt.Errorf("config file %s: %w", configPath, err)
	}
	return nil
}

// runDiff compares the rasters, prints the report and optionally saves it.
func runDiff(ctx context.Context, cmd *cobra.Command, cfg *config.Config, driver raster.Driver, logger *slog.Logger) error {
	logger.Debug("starting comparison",
		"base", cfg.BaseRaster,
		"test", cfg.TestRaster,
		"rtol", cfg.Tolerance.RTol,
		"atol", cfg.Tolerance.ATol,
		"equal_nan", cfg.Tolerance.EqualNaN,
		"output", cfg.OutputPath,
	)

	comparer := compare.New(driver, compare.WithLogger(logger))
	diff, err := comparer.Compare(ctx, cfg.BaseRaster, cfg.TestRaster, compare.Options{
		Tolerance:  cfg.Tolerance,
		OutputPath: cfg.OutputPath,
	})
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	if err := outputReport(cmd.OutOrStdout(), cfg, diff); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	differs := report.HasDifferences(diff, cfg.Ignore)

	if cfg.SaveHistory {
		if err := saveDiff(ctx, cmd.ErrOrStderr(), cfg, diff, differs, logger); err != nil {
			logger.Error("failed to save comparison", "error", err)
		}
	}

	if cfg.ExitCode && differs {
		return ErrDifferencesFound
	}
	return nil
}

// outputReport writes the report in the requested format to stdout or to
// cfg.ReportFile.
func outputReport(stdout io.Writer, cfg *config.Config, diff *model.RasterDiff) error {
	output := stdout
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	_, err := newReportWriter(output, cfg).Write(diff)
	return err
}

// newReportWriter selects the writer for the configured format.
func newReportWriter(output io.Writer, cfg *config.Config) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output, cfg.Ignore)
	default:
		var opts []report.TextWriterOption
		if cfg.NoColor || cfg.ReportFile != "" {
			opts = append(opts, report.WithColor(false))
		}
		return report.NewTextWriter(output, cfg.Ignore, opts...)
	}
}

// saveDiff stores the comparison in the history database and tells the
// user its id on stderr, keeping stdout for the report.
func saveDiff(ctx context.Context, stderr io.Writer, cfg *config.Config, diff *model.RasterDiff, differs bool, logger *slog.Logger) error {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := db.SaveDiff(ctx, diff, differs)
	if err != nil {
		return err
	}

	logger.Info("comparison saved", "id", id, "db", db.Path())
	fmt.Fprintf(stderr, "Saved comparison %s\n", id)
	return nil
}
