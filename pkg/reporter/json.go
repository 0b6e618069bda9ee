package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/razorparse/pkg/analysis"
	"github.com/yaklabco/razorparse/pkg/runner"
	"github.com/yaklabco/razorparse/pkg/source"
)

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path        string           `json:"path"`
	FileKind    string           `json:"fileKind,omitempty"`
	ClassName   string           `json:"className,omitempty"`
	Diagnostics []JSONDiagnostic `json:"diagnostics"`
	Generated   bool             `json:"generated,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// JSONDiagnostic represents a single diagnostic.
type JSONDiagnostic struct {
	ID          string `json:"id"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	Offset      int    `json:"offset"`
	Length      int    `json:"length"`
	StartLine   int    `json:"startLine"`
	StartColumn int    `json:"startColumn"`
	EndLine     int    `json:"endLine"`
	EndColumn   int    `json:"endColumn"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesParsed      int            `json:"filesParsed"`
	FilesWithIssues  int            `json:"filesWithIssues"`
	FilesGenerated   int            `json:"filesGenerated"`
	FilesErrored     int            `json:"filesErrored"`
	TotalDiagnostics int            `json:"totalDiagnostics"`
	BySeverity       map[string]int `json:"bySeverity"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.TotalDiagnostics, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: analysis.ReportVersion,
		Files:   make([]JSONFileResult, 0),
		Summary: JSONSummary{
			BySeverity: make(map[string]int),
		},
	}

	if result == nil {
		return output
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))

	for _, file := range result.Files {
		path := analysis.RelativePath(file.Path, r.opts.WorkingDir)
		fileResult := JSONFileResult{
			Path:        path,
			Diagnostics: make([]JSONDiagnostic, 0),
		}

		if file.Error != nil {
			fileResult.Error = file.Error.Error()
			output.Summary.FilesErrored++
		}

		if res := file.Result; res != nil {
			var doc *source.Document
			if res.Tree != nil {
				doc = res.Source()
				fileResult.FileKind = res.Tree.Options.FileKind.String()
			}
			if res.Generated != nil {
				fileResult.Generated = true
				fileResult.ClassName = res.Generated.ClassName
				output.Summary.FilesGenerated++
			}

			for _, diag := range res.Diagnostics {
				entry := analysis.NewEntry(path, doc, diag)
				fileResult.Diagnostics = append(fileResult.Diagnostics, JSONDiagnostic{
					ID:          entry.ID,
					Severity:    entry.Severity,
					Message:     entry.Message,
					Offset:      entry.Offset,
					Length:      entry.Length,
					StartLine:   entry.StartLine,
					StartColumn: entry.StartColumn,
					EndLine:     entry.EndLine,
					EndColumn:   entry.EndColumn,
				})
				output.Summary.TotalDiagnostics++
				output.Summary.BySeverity[entry.Severity]++
			}
		}

		if len(fileResult.Diagnostics) > 0 {
			output.Summary.FilesWithIssues++
		}

		output.Files = append(output.Files, fileResult)
		output.Summary.FilesParsed++
	}

	return output
}
