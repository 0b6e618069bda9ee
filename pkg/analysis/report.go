package analysis

import "time"

// Report contains pre-computed views of a parse run.
// Computed once by Analyze, used by all renderers.
type Report struct {
	// Diagnostics is the flat list for detailed output.
	Diagnostics []DiagnosticEntry `json:"diagnostics,omitempty"`

	// ByFile groups diagnostics by file path.
	ByFile []FileAnalysis `json:"byFile,omitempty"`

	// ByID groups diagnostics by descriptor ID.
	ByID []IDAnalysis `json:"byId,omitempty"`

	// Totals contains aggregate statistics.
	Totals Totals `json:"summary"`

	// Version is the report format version.
	Version string `json:"version"`

	// Timestamp is when the analysis was performed.
	Timestamp time.Time `json:"timestamp"`
}

// DiagnosticEntry represents a single diagnostic in the report. Lines and
// columns are 1-based; the end position is exclusive.
type DiagnosticEntry struct {
	FilePath    string `json:"filePath"`
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

// Totals contains aggregate statistics for the report.
type Totals struct {
	Files           int `json:"filesParsed"`
	FilesWithIssues int `json:"filesWithIssues"`
	FilesErrored    int `json:"filesErrored"`
	Issues          int `json:"totalDiagnostics"`
	Errors          int `json:"errors"`
	Warnings        int `json:"warnings"`
}

// HasIssues returns true if there are any diagnostics.
func (t Totals) HasIssues() bool {
	return t.Issues > 0
}

// HasErrors returns true if there are any error diagnostics.
func (t Totals) HasErrors() bool {
	return t.Errors > 0
}

// FileAnalysis contains aggregated data for a single file.
type FileAnalysis struct {
	Path     string   `json:"path"`
	Issues   int      `json:"diagnostics"`
	Errors   int      `json:"errors"`
	Warnings int      `json:"warnings"`
	IDs      []string `json:"ids,omitempty"`
}

// IDAnalysis contains aggregated data for a single diagnostic ID.
type IDAnalysis struct {
	ID       string   `json:"id"`
	Severity string   `json:"severity"`
	Category string   `json:"category"`
	Issues   int      `json:"diagnostics"`
	Errors   int      `json:"errors"`
	Warnings int      `json:"warnings"`
	Files    []string `json:"files,omitempty"`
}
