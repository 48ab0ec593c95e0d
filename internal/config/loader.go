package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file name looked up next to the
// base raster and in the current and home directories.
const DefaultConfigFile = ".riodiff"

// xdgConfigFile is the name of the per-user file under $XDG_CONFIG_HOME/riodiff.
const xdgConfigFile = "config.yaml"

// XDGConfigFile returns the per-user configuration path,
// ~/.config/riodiff/config.yaml on Linux.
func XDGConfigFile() string {
	return filepath.Join(xdg.ConfigHome, AppName, xdgConfigFile)
}

// LoadConfigFile reads and validates the configuration file at path.
// A missing file yields ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided config path is intentional
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseConfigFile(f)
}

// ParseConfigFile decodes defaults and profiles from YAML. Unknown keys are
// rejected, so "a_tol: 1" fails instead of leaving the tolerance at zero.
// An empty document is a valid file without settings.
func ParseConfigFile(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cf File
	if err := dec.Decode(&cf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfigFile, err)
	}
	if cf.Profiles == nil {
		cf.Profiles = make(map[string]Profile)
	}
	if err := cf.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfigFile, err)
	}
	return &cf, nil
}

// FindConfigFile returns the configuration file that applies to a
// comparison of baseRaster. An explicit configPath is used as is when it
// exists. Otherwise the first existing candidate wins:
//
//  1. .riodiff in the current directory
//  2. .riodiff in the directory of baseRaster
//  3. .riodiff in the home directory
//  4. config.yaml under $XDG_CONFIG_HOME/riodiff
//
// It returns an empty string when nothing is found.
func FindConfigFile(configPath, baseRaster string) string {
	if configPath != "" {
		if isFile(configPath) {
			return configPath
		}
		return ""
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if baseRaster != "" {
		if dir, err := filepath.Abs(filepath.Dir(baseRaster)); err == nil {
			candidates = append(candidates, filepath.Join(dir, DefaultConfigFile))
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, XDGConfigFile())

	for _, c := range candidates {
		if isFile(c) {
			return c
		}
	}
	return ""
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
