// Package report renders a model.RasterDiff for people and tools.
//
// This package contains writers for different output formats:
//   - TextWriter: the terminal diff, base values in red and test values in green
//   - JSONWriter: the complete comparison as JSON
//   - MarkdownWriter: tables suitable for pull requests and issue trackers
//
// The ignore switches of config.Ignore only shape what the text and
// Markdown writers show. JSON always carries every property.
package report
