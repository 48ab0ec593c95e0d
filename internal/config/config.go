package config

import (
	"math"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/nao1215/riodiff/internal/pixeldiff"
)

const (
	// AppName is the application name used for XDG directory paths.
	AppName = "riodiff"

	// DefaultHistoryLimit is the number of stored comparisons listed by
	// "riodiff history" when --limit is not given.
	DefaultHistoryLimit = 20
)

// Config holds all configuration options for one riodiff run.
// It is populated from CLI flags, optionally completed from a .riodiff
// file, and passed through the application rather than kept in globals.
type Config struct {
	// BaseRaster is the path of the reference raster.
	BaseRaster string

	// TestRaster is the path of the raster compared against the base.
	TestRaster string

	// Tolerance decides when two pixel values are equal.
	// Defaults to exact comparison with NaN equality.
	Tolerance pixeldiff.Tolerance

	// Ignore selects report sections to suppress.
	Ignore Ignore

	// OutputPath is where the difference raster (base - test) is written.
	// Empty means no difference raster.
	OutputPath string

	// JSONReport enables JSON report output instead of colored text.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of colored text.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// NoColor disables colored text output. Color is also off when the
	// report goes to a file or stdout is not a terminal.
	NoColor bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .riodiff in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// SaveHistory stores the comparison in the history database.
	SaveHistory bool

	// DBDir is the directory of the history database.
	// Defaults to XDG data directory (~/.local/share/riodiff on Linux).
	DBDir string

	// ExitCode makes the diff command exit with status 1 when differences
	// were reported, like diff(1).
	ExitCode bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Tolerance: pixeldiff.DefaultTolerance,
		DBDir:     XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for riodiff.
// On Linux: ~/.local/share/riodiff
// On macOS: ~/Library/Application Support/riodiff
// On Windows: %LOCALAPPDATA%\riodiff
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if c.BaseRaster == "" || c.TestRaster == "" {
		return ErrNoRasters
	}

	if err := ValidateTolerance(c.Tolerance); err != nil {
		return err
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.OutputPath != "" && (samePath(c.OutputPath, c.BaseRaster) || samePath(c.OutputPath, c.TestRaster)) {
		return ErrOutputIsInput
	}

	return nil
}

// ValidateTolerance returns ErrInvalidTolerance unless rtol and atol are
// finite and non-negative.
func ValidateTolerance(t pixeldiff.Tolerance) error {
	if !validTolerance(t.RTol) || !validTolerance(t.ATol) {
		return ErrInvalidTolerance
	}
	return nil
}

func validTolerance(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// samePath compares two paths after making them absolute.
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
