package config

import (
	"fmt"
	"path/filepath"
	"slices"
)

// Profile holds comparison settings from the configuration file.
// Pointer fields distinguish "not set" from a zero value.
type Profile struct {
	// RTol is the relative tolerance.
	RTol *float64 `yaml:"rtol,omitempty"`

	// ATol is the absolute tolerance.
	ATol *float64 `yaml:"atol,omitempty"`

	// EqualNaN makes two NaN (or two nodata) cells equal.
	EqualNaN *bool `yaml:"equal_nan,omitempty"`

	// Ignore lists properties to leave out of the report, using the
	// --ignore-<name> flag names ("crs", "stats", "pixel-values", ...).
	Ignore []string `yaml:"ignore,omitempty"`
}

// File represents the structure of the .riodiff configuration file.
type File struct {
	// Defaults apply to every comparison.
	Defaults Profile `yaml:"defaults,omitempty"`

	// Profiles maps glob patterns, matched against the base raster's file
	// name, to settings that override the defaults.
	Profiles map[string]Profile `yaml:"profiles,omitempty"`
}

// GetProfile returns the settings for a base raster path. It starts from the
// defaults and applies every matching profile in lexical pattern order, so a
// later pattern overrides an earlier one. Ignore lists are accumulated.
func (cf *File) GetProfile(baseRaster string) Profile {
	result := cf.Defaults
	result.Ignore = slices.Clone(cf.Defaults.Ignore)

	name := filepath.Base(baseRaster)
	patterns := make([]string, 0, len(cf.Profiles))
	for pattern := range cf.Profiles {
		patterns = append(patterns, pattern)
	}
	slices.Sort(patterns)

	for _, pattern := range patterns {
		if ok, err := filepath.Match(pattern, name); err != nil || !ok {
			continue
		}
		p := cf.Profiles[pattern]
		if p.RTol != nil {
			result.RTol = p.RTol
		}
		if p.ATol != nil {
			result.ATol = p.ATol
		}
		if p.EqualNaN != nil {
			result.EqualNaN = p.EqualNaN
		}
		for _, name := range p.Ignore {
			if !slices.Contains(result.Ignore, name) {
				result.Ignore = append(result.Ignore, name)
			}
		}
	}

	return result
}

// validate rejects malformed patterns and unknown ignore entries.
func (cf *File) validate() error {
	var ig Ignore
	check := func(where string, p Profile) error {
		for _, name := range p.Ignore {
			if ig.Field(name) == nil {
				return fmt.Errorf("%s: %w: %q", where, ErrUnknownProperty, name)
			}
		}
		return nil
	}
	if err := check("defaults", cf.Defaults); err != nil {
		return err
	}
	for pattern, p := range cf.Profiles {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("profile %q: %w", pattern, err)
		}
		if err := check("profile "+pattern, p); err != nil {
			return err
		}
	}
	return nil
}

// ApplyProfile copies the settings of p into c. Settings for which changed
// returns true were given explicitly on the command line and are kept.
// changed receives the flag name ("rtol", "atol" or "equal-nan"). Ignore
// entries only ever turn switches on.
func (c *Config) ApplyProfile(p Profile, changed func(flag string) bool) error {
	if p.RTol != nil && !changed("rtol") {
		c.Tolerance.RTol = *p.RTol
	}
	if p.ATol != nil && !changed("atol") {
		c.Tolerance.ATol = *p.ATol
	}
	if p.EqualNaN != nil && !changed("equal-nan") {
		c.Tolerance.EqualNaN = *p.EqualNaN
	}
	for _, name := range p.Ignore {
		if err := c.Ignore.Set(name); err != nil {
			return err
		}
	}
	return nil
}
