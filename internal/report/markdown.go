package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/riodiff/internal/config"
	"github.com/nao1215/riodiff/internal/model"
)

// MarkdownWriter outputs the comparison as a Markdown document.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, ignore config.Ignore) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output, ignore),
	}
}

// Write outputs the comparison in Markdown format.
func (w *MarkdownWriter) Write(diff *model.RasterDiff) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, diff)

	if !diff.Identical {
		w.writeProperties(md, diff)
		if !w.ignore.PixelValues {
			w.writePixelValues(md, diff)
		}
	}

	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the title, the compared paths and the verdict.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, diff *model.RasterDiff) {
	md.H1("Raster Comparison")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Raster", "Path"},
		Rows: [][]string{
			{"Base", "`" + diff.BasePath + "`"},
			{"Test", "`" + diff.TestPath + "`"},
		},
	})
	md.PlainText("")

	switch {
	case diff.Identical:
		md.Tip("Rasters are identical (same checksum).")
	case !HasDifferences(diff, w.ignore):
		md.Note("No differences outside the ignored properties.")
	case !diff.Compatible && !w.ignore.PixelValues:
		md.Caution("Rasters are incompatible; pixel values were not compared.")
	default:
		md.Warning("Rasters differ.")
	}
	md.PlainText("")
}

// writeProperties writes a table of the unequal structural properties.
func (w *MarkdownWriter) writeProperties(md *markdown.Markdown, diff *model.RasterDiff) {
	sections := propertySections(diff, w.ignore)

	md.H2("Properties")
	md.PlainText("")

	if len(sections) == 0 {
		md.PlainText("All compared properties are equal.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(sections))
	for i, s := range sections {
		rows[i] = []string{s.Label, "`" + s.Base + "`", "`" + s.Test + "`"}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Base", "Test"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writePixelValues writes the per-band pixel statistics.
func (w *MarkdownWriter) writePixelValues(md *markdown.Markdown, diff *model.RasterDiff) {
	md.H2("Pixel Values")
	md.PlainText("")

	if !diff.Compatible {
		md.PlainText("Rasters are incompatible.")
		md.PlainText("")
		return
	}

	bands := pixelSections(diff)
	if len(bands) == 0 {
		md.PlainText("No differing pixels.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(bands))
	for i, bd := range bands {
		rows[i] = []string{
			strconv.Itoa(bd.Band),
			strconv.Itoa(bd.Stats.DiffCount),
			formatPercent(bd.Stats.DiffPercent),
			formatFloat(bd.Stats.MaxDiff),
			formatFloat(bd.Stats.RMSE),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Band", "Different pixels", "Percent", "Max diff", "RMSE"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, bd := range bands {
		w.writePieChart(md, bd)
	}
}

// writePieChart writes a mermaid pie chart of differing versus equal pixels.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, bd bandDifference) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle(fmt.Sprintf("Band %d", bd.Band)),
		piechart.WithShowData(true),
	)
	chart.LabelAndIntValue("Different", uint64(bd.Stats.DiffCount))
	chart.LabelAndIntValue("Equal", uint64(bd.Stats.TotalCount-bd.Stats.DiffCount))

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [riodiff](https://github.com/nao1215/riodiff)*")
}
