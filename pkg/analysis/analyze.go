// Package analysis aggregates the diagnostics of a run into per-file and
// per-ID views shared by the reporters.
package analysis

import (
	"cmp"
	"path/filepath"
	"slices"
	"time"

	"github.com/yaklabco/razorparse/pkg/diagnostic"
	"github.com/yaklabco/razorparse/pkg/runner"
	"github.com/yaklabco/razorparse/pkg/source"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

// RelativePath converts path to a path relative to workDir.
// If workDir is empty or conversion fails, returns the original path.
func RelativePath(path, workDir string) string {
	if workDir == "" {
		return path
	}
	relPath, err := filepath.Rel(workDir, path)
	if err != nil {
		return path
	}
	return relPath
}

// analysisContext holds temporary state during analysis.
type analysisContext struct {
	idMap   map[string]*IDAnalysis
	fileMap map[string]*FileAnalysis
	idFiles map[string]map[string]bool
	fileIDs map[string]map[string]bool
}

func newAnalysisContext() *analysisContext {
	return &analysisContext{
		idMap:   make(map[string]*IDAnalysis),
		fileMap: make(map[string]*FileAnalysis),
		idFiles: make(map[string]map[string]bool),
		fileIDs: make(map[string]map[string]bool),
	}
}

func (ctx *analysisContext) file(path string) *FileAnalysis {
	if _, ok := ctx.fileMap[path]; !ok {
		ctx.fileMap[path] = &FileAnalysis{Path: path}
		ctx.fileIDs[path] = make(map[string]bool)
	}
	return ctx.fileMap[path]
}

func (ctx *analysisContext) id(diag diagnostic.Diagnostic) *IDAnalysis {
	if _, ok := ctx.idMap[diag.ID]; !ok {
		ctx.idMap[diag.ID] = &IDAnalysis{ID: diag.ID, Severity: string(diag.Severity), Category: Category(diag.ID)}
		ctx.idFiles[diag.ID] = make(map[string]bool)
	}
	return ctx.idMap[diag.ID]
}

// count bumps the error or warning counter matching severity.
func count(severity diagnostic.Severity, errs, warnings *int) {
	switch severity {
	case diagnostic.SeverityError:
		*errs++
	case diagnostic.SeverityWarning:
		*warnings++
	}
}

// NewEntry builds a DiagnosticEntry, resolving the end position against doc
// when it is known.
func NewEntry(path string, doc *source.Document, diag diagnostic.Diagnostic) DiagnosticEntry {
	entry := DiagnosticEntry{
		FilePath: path,
		ID:       diag.ID,
		Severity: string(diag.Severity),
		Message:  diag.Message,
		Offset:   diag.Span.AbsoluteIndex,
		Length:   diag.Span.Length,
	}
	if diag.Span.IsUndefined() {
		return entry
	}

	entry.StartLine = diag.Span.LineIndex + 1
	entry.StartColumn = diag.Span.CharacterIndex + 1
	entry.EndLine, entry.EndColumn = entry.StartLine, entry.StartColumn+diag.Span.Length
	if doc != nil {
		if line, col := doc.LineAt(diag.Span.End()); line > 0 {
			entry.EndLine, entry.EndColumn = line, col
		}
	}
	return entry
}

func (ctx *analysisContext) buildByID(opts Options) []IDAnalysis {
	result := make([]IDAnalysis, 0, len(ctx.idMap))
	for id, ia := range ctx.idMap {
		for f := range ctx.idFiles[id] {
			ia.Files = append(ia.Files, f)
		}
		slices.Sort(ia.Files)
		result = append(result, *ia)
	}
	slices.SortFunc(result, func(left, right IDAnalysis) int {
		return compareCounts(opts, left.ID, right.ID,
			counts{left.Issues, left.Errors, left.Warnings},
			counts{right.Issues, right.Errors, right.Warnings})
	})
	return result
}

func (ctx *analysisContext) buildByFile(opts Options) []FileAnalysis {
	var result []FileAnalysis
	for path, fa := range ctx.fileMap {
		if fa.Issues == 0 {
			continue
		}
		for id := range ctx.fileIDs[path] {
			fa.IDs = append(fa.IDs, id)
		}
		slices.Sort(fa.IDs)
		result = append(result, *fa)
	}
	slices.SortFunc(result, func(left, right FileAnalysis) int {
		return compareCounts(opts, left.Path, right.Path,
			counts{left.Issues, left.Errors, left.Warnings},
			counts{right.Issues, right.Errors, right.Warnings})
	})
	return result
}

// Analyze transforms a runner.Result into a Report.
// It performs a single pass through diagnostics to compute all views.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{
		Version:   ReportVersion,
		Timestamp: time.Now(),
	}

	if result == nil {
		return report
	}

	ctx := newAnalysisContext()

	for _, file := range result.Files {
		report.Totals.Files++
		if file.Error != nil {
			report.Totals.FilesErrored++
			continue
		}
		diags := file.Diagnostics()
		if len(diags) == 0 {
			continue
		}
		report.Totals.FilesWithIssues++

		var doc *source.Document
		if file.Result.Tree != nil {
			doc = file.Result.Source()
		}

		displayPath := RelativePath(file.Path, opts.WorkingDir)
		fa := ctx.file(displayPath)

		for _, diag := range diags {
			report.Totals.Issues++
			count(diag.Severity, &report.Totals.Errors, &report.Totals.Warnings)

			fa.Issues++
			count(diag.Severity, &fa.Errors, &fa.Warnings)
			ctx.fileIDs[displayPath][diag.ID] = true

			ia := ctx.id(diag)
			ia.Issues++
			count(diag.Severity, &ia.Errors, &ia.Warnings)
			ctx.idFiles[diag.ID][displayPath] = true

			if opts.IncludeDiagnostics {
				report.Diagnostics = append(report.Diagnostics, NewEntry(displayPath, doc, diag))
			}
		}
	}

	if opts.IncludeByID {
		report.ByID = ctx.buildByID(opts)
	}
	if opts.IncludeByFile {
		report.ByFile = ctx.buildByFile(opts)
	}

	return report
}

type counts struct {
	issues, errors, warnings int
}

// compareCounts orders two groups. Ties fall back to the key so output is
// stable across runs.
func compareCounts(opts Options, leftKey, rightKey string, left, right counts) int {
	var result int
	switch opts.SortBy {
	case SortByAlpha:
		// Alphabetical sorting is always ascending (A-Z)
		return cmp.Compare(leftKey, rightKey)
	case SortBySeverity:
		// Errors first, then warnings (always descending by severity)
		result = cmp.Or(
			cmp.Compare(right.errors, left.errors),
			cmp.Compare(right.warnings, left.warnings),
			cmp.Compare(right.issues, left.issues),
		)
	case SortByCategory:
		// Stage order first, then the most frequent IDs of each stage.
		result = cmp.Or(
			cmp.Compare(categoryRank(leftKey), categoryRank(rightKey)),
			cmp.Compare(right.issues, left.issues),
		)
	default: // SortByCount
		result = cmp.Compare(left.issues, right.issues)
		if opts.SortDesc {
			result = -result
		}
	}
	if result == 0 {
		result = cmp.Compare(leftKey, rightKey)
	}
	return result
}
