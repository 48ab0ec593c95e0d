package main

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/nao1215/riodiff/internal/config"
	"github.com/nao1215/riodiff/internal/pixeldiff"
)

//go:embed templates/riodiff.yaml
var templateFS embed.FS

// configTemplate renders a .riodiff file from templateData.
var configTemplate = template.Must(template.New("riodiff.yaml").
	Funcs(template.FuncMap{"join": strings.Join}).
	ParseFS(templateFS, "templates/riodiff.yaml"))

// templateData holds the defaults written into a new configuration file.
type templateData struct {
	RTol     string
	ATol     string
	EqualNaN bool
	Ignore   []string
}

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new riodiff configuration file",
		Long: `Initialize creates a new .riodiff configuration file in the current directory.

The defaults block of the generated file takes its tolerances and ignored
properties from the flags below, so a project's comparison settings can be
captured once and picked up by every later 'riodiff diff'. Commented
examples of per-raster profiles follow.

Examples:
  # Create .riodiff with exact comparison
  riodiff init

  # Settle on a tolerance for a DEM project and skip re-encoding noise
  riodiff init --atol 0.001 --ignore checksum,metadata

  # Create next to the rasters, overwriting an existing file
  riodiff init -o data/.riodiff -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")
	cmd.Flags().Float64("rtol", pixeldiff.DefaultTolerance.RTol,
		"Default relative tolerance")
	cmd.Flags().Float64("atol", pixeldiff.DefaultTolerance.ATol,
		"Default absolute tolerance")
	cmd.Flags().Bool("equal-nan", pixeldiff.DefaultTolerance.EqualNaN,
		"Treat NaN cells in both rasters as equal by default")
	cmd.Flags().StringSlice("ignore", nil,
		"Properties to ignore by default ("+strings.Join(config.PropertyNames, ", ")+")")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	outputPath, err := flags.GetString("output")
	if err != nil {
		return err
	}
	force, err := flags.GetBool("force")
	if err != nil {
		return err
	}

	content, err := renderConfig(cmd)
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to set:")
	fmt.Fprintln(out, "  - Pixel tolerances")
	fmt.Fprintln(out, "  - Properties to ignore in reports")
	fmt.Fprintln(out, "  - Profiles for rasters matching a file name pattern")

	return nil
}

// renderConfig fills the template from the init flags and checks that the
// result loads as a configuration file.
func renderConfig(cmd *cobra.Command) ([]byte, error) {
	flags := cmd.Flags()
	rtol, err := flags.GetFloat64("rtol")
	if err != nil {
		return nil, err
	}
	atol, err := flags.GetFloat64("atol")
	if err != nil {
		return nil, err
	}
	equalNaN, err := flags.GetBool("equal-nan")
	if err != nil {
		return nil, err
	}
	ignore, err := flags.GetStringSlice("ignore")
	if err != nil {
		return nil, err
	}

	if err := config.ValidateTolerance(pixeldiff.Tolerance{RTol: rtol, ATol: atol}); err != nil {
		return nil, err
	}

	data := templateData{
		RTol:     strconv.FormatFloat(rtol, 'g', -1, 64),
		ATol:     strconv.FormatFloat(atol, 'g', -1, 64),
		EqualNaN: equalNaN,
	}
	for _, name := range ignore {
		data.Ignore = append(data.Ignore, strings.ToLower(strings.TrimSpace(name)))
	}

	var buf bytes.Buffer
	if err := configTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render config template: %w", err)
	}
	if _, err := config.ParseConfigFile(bytes.NewReader(buf.Bytes())); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
