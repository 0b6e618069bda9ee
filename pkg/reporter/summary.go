package reporter

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/yaklabco/razorparse/internal/ui/pretty"
	"github.com/yaklabco/razorparse/pkg/analysis"
)

// Table layout constants for summary output.
// Both tables use the same width for visual consistency.
const (
	defaultTableWidth = 90  // Width used when the writer is not a terminal.
	maxTableWidth     = 140 // Widest table drawn on large terminals.
	idColWidth        = 10  // Width of the diagnostic ID column.
	severityColWidth  = 9   // Width of the severity column.
	numColWidth       = 7   // Width of numeric columns.
	warnColWidth      = 8   // Width of warnings column.
	minFileColWidth   = 20  // Narrowest file column.
)

// padRight pads a string to the given width with spaces on the right.
// This must be called BEFORE applying ANSI styles.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// padLeft pads a string to the given width with spaces on the left.
// This must be called BEFORE applying ANSI styles.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// tableWidth sizes the tables to the terminal behind writer.
func tableWidth(writer io.Writer) int {
	if f, ok := writer.(interface{ Fd() uintptr }); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > 0 {
			return min(width, maxTableWidth)
		}
	}
	return defaultTableWidth
}

// SummaryRenderer formats results as aggregated summary tables.
type SummaryRenderer struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
	width  int
}

// NewSummaryRenderer creates a new summary renderer.
func NewSummaryRenderer(opts Options) *SummaryRenderer {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryRenderer{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
		width:  tableWidth(opts.Writer),
	}
}

// Render implements Renderer.
func (r *SummaryRenderer) Render(_ context.Context, report *analysis.Report) error {
	if report.Totals.Issues == 0 {
		fmt.Fprintln(r.out, r.styles.Success.Render("No diagnostics found"))
		return nil
	}

	if r.opts.SummaryOrder == SummaryOrderFiles {
		r.renderFileTable(report.ByFile)
		fmt.Fprintln(r.out)
		r.renderIDTable(report.ByID)
	} else {
		r.renderIDTable(report.ByID)
		fmt.Fprintln(r.out)
		r.renderFileTable(report.ByFile)
	}

	fmt.Fprintln(r.out)
	r.renderTotals(report.Totals)

	return nil
}

func (r *SummaryRenderer) separator() {
	fmt.Fprintln(r.out, r.styles.TableSeparator.Render(strings.Repeat("─", r.width)))
}

func (r *SummaryRenderer) renderIDTable(ids []analysis.IDAnalysis) {
	if len(ids) == 0 {
		return
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Diagnostics Summary"))
	r.separator()

	fmt.Fprintf(r.out, "%s %s %s %s  %s\n",
		r.styles.TableHeader.Render(padRight("ID", idColWidth)),
		r.styles.TableHeader.Render(padRight("Severity", severityColWidth)),
		r.styles.TableHeader.Render(padLeft("Count", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Files", numColWidth)),
		r.styles.TableHeader.Render("Stage"),
	)
	r.separator()

	for _, entry := range ids {
		paddedID := padRight(entry.ID, idColWidth)
		var styledID string
		switch {
		case entry.Errors > 0:
			styledID = r.styles.TableErrorRow.Render(paddedID)
		case entry.Warnings > 0:
			styledID = r.styles.TableWarnRow.Render(paddedID)
		default:
			styledID = paddedID
		}

		category := entry.Category
		if category == "" {
			category = analysis.Category(entry.ID)
		}
		fmt.Fprintf(r.out, "%s %s %s %s  %s\n",
			styledID,
			padRight(entry.Severity, severityColWidth),
			padLeft(strconv.Itoa(entry.Issues), numColWidth),
			padLeft(strconv.Itoa(len(entry.Files)), numColWidth),
			r.styles.Dim.Render(category),
		)
	}
}

func (r *SummaryRenderer) renderFileTable(files []analysis.FileAnalysis) {
	if len(files) == 0 {
		return
	}

	fileColWidth := max(r.width-2*numColWidth-warnColWidth-3, minFileColWidth)
	maxPathLength := fileColWidth - 2

	fmt.Fprintln(r.out, r.styles.Bold.Render("Files Summary"))
	r.separator()

	fmt.Fprintf(r.out, "%s %s %s %s\n",
		r.styles.TableHeader.Render(padRight("File", fileColWidth)),
		r.styles.TableHeader.Render(padLeft("Count", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Errors", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Warnings", warnColWidth)),
	)
	r.separator()

	for _, file := range files {
		path := file.Path
		if len(path) > maxPathLength {
			path = "…" + path[len(path)-(maxPathLength-1):]
		}

		paddedPath := padRight(path, fileColWidth)
		var styledPath string
		switch {
		case file.Errors > 0:
			styledPath = r.styles.TableErrorRow.Render(paddedPath)
		case file.Warnings > 0:
			styledPath = r.styles.TableWarnRow.Render(paddedPath)
		default:
			styledPath = paddedPath
		}

		fmt.Fprintf(r.out, "%s %s %s %s\n",
			styledPath,
			padLeft(strconv.Itoa(file.Issues), numColWidth),
			padLeft(strconv.Itoa(file.Errors), numColWidth),
			padLeft(strconv.Itoa(file.Warnings), warnColWidth),
		)
	}
}

func (r *SummaryRenderer) renderTotals(totals analysis.Totals) {
	word := "diagnostics"
	if totals.Issues == 1 {
		word = "diagnostic"
	}
	line := fmt.Sprintf("%d %s", totals.Issues, word)

	var severityParts []string
	if totals.Errors > 0 {
		severityParts = append(severityParts, r.styles.Error.Render(fmt.Sprintf("%d errors", totals.Errors)))
	}
	if totals.Warnings > 0 {
		severityParts = append(severityParts, r.styles.Warning.Render(fmt.Sprintf("%d warnings", totals.Warnings)))
	}
	if len(severityParts) > 0 {
		line += " (" + strings.Join(severityParts, ", ") + ")"
	}

	fileWord := "files"
	if totals.FilesWithIssues == 1 {
		fileWord = "file"
	}
	line += fmt.Sprintf(" in %d %s", totals.FilesWithIssues, fileWord)

	fmt.Fprintln(r.out, r.styles.Bold.Render("Total: ")+line)
}
