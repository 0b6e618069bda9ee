package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/razorparse/pkg/diagnostic"
	"github.com/yaklabco/razorparse/pkg/engine"
	"github.com/yaklabco/razorparse/pkg/reporter"
	"github.com/yaklabco/razorparse/pkg/runner"
	"github.com/yaklabco/razorparse/pkg/source"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{name: "empty defaults to text", input: "", want: reporter.FormatText},
		{name: "text", input: "text", want: reporter.FormatText},
		{name: "json", input: "json", want: reporter.FormatJSON},
		{name: "sarif", input: "sarif", want: reporter.FormatSARIF},
		{name: "summary", input: "summary", want: reporter.FormatSummary},
		{name: "case insensitive", input: "SARIF", want: reporter.FormatSARIF},
		{name: "unknown format", input: "xml", wantErr: true},
		{name: "diff is not a format", input: "diff", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatNames(t *testing.T) {
	assert.Equal(t, "text, json, sarif, summary", reporter.FormatNames())
	for _, f := range reporter.Formats() {
		got, err := reporter.ParseFormat(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
}

func TestFormat_IsValid(t *testing.T) {
	tests := []struct {
		format reporter.Format
		want   bool
	}{
		{reporter.FormatText, true},
		{reporter.FormatJSON, true},
		{reporter.FormatSARIF, true},
		{reporter.FormatSummary, true},
		{reporter.Format("unknown"), false},
		{reporter.Format(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.format.IsValid())
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		format  reporter.Format
		wantErr bool
	}{
		{name: "text reporter", format: reporter.FormatText},
		{name: "json reporter", format: reporter.FormatJSON},
		{name: "sarif reporter", format: reporter.FormatSARIF},
		{name: "summary reporter", format: reporter.FormatSummary},
		{name: "empty defaults to text", format: ""},
		{name: "unknown format", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			rep, err := reporter.New(reporter.Options{Writer: &buf, Format: tt.format, Color: "never"})
			if tt.wantErr {
				require.Error(t, err)
				require.Nil(t, rep)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, rep)
		})
	}
}

func TestReporter_SummaryReturnsCount(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep, err := reporter.New(reporter.Options{Writer: &buf, Format: reporter.FormatSummary, Color: "never"})
	require.NoError(t, err)

	count, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Contains(t, buf.String(), "Diagnostics Summary")
}

func TestTextReporter_NilResult(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true})

	count, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Contains(t, buf.String(), "No files to parse")
}

func TestTextReporter_WithDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowSummary: true,
		GroupByFile: true,
	})

	count, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	output := buf.String()
	assert.Contains(t, output, "Views/Index.cshtml (2 diagnostics)")
	assert.Contains(t, output, "Views/Index.cshtml:5:1")
	assert.Contains(t, output, "(RZ1006)")
	assert.Contains(t, output, "error")
	assert.Contains(t, output, "Missing.cshtml: error: read failed")
	assert.Contains(t, output, "2 diagnostics") // One-line summary format
}

func TestTextReporter_SourceContext(t *testing.T) {
	eng := engine.New(nil)
	eng.SkipCodegen = true
	res, err := eng.Process(context.Background(), source.NewDocumentString("/app/Index.cshtml", "<p>hi</p>\n@functions{"))
	require.NoError(t, err)
	require.NotEmpty(t, res.Diagnostics)

	var buf bytes.Buffer
	opts := reporter.DefaultOptions()
	opts.Writer = &buf
	opts.Color = "never"
	opts.ShowSummary = false
	opts.WorkingDir = "/app"

	rep := reporter.NewTextReporter(opts)
	_, err = rep.Report(context.Background(), &runner.Result{
		Files: []runner.FileOutcome{{Path: "/app/Index.cshtml", Result: res}},
	})
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Index.cshtml:2:")
	assert.Contains(t, output, "@functions{")
	assert.Contains(t, output, "^")
	assert.NotContains(t, output, "/app/")
}

func TestJSONReporter_NilResult(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf})

	count, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Should still produce valid JSON
	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	assert.Equal(t, "1.0.0", output.Version)
	assert.Empty(t, output.Files)
}

func TestJSONReporter_WithDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf})

	count, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))

	require.Len(t, output.Files, 2)
	assert.Len(t, output.Files[0].Diagnostics, 2)
	assert.Equal(t, "RZ1006", output.Files[0].Diagnostics[0].ID)
	assert.Equal(t, 5, output.Files[0].Diagnostics[0].StartLine)
	assert.Equal(t, "read failed", output.Files[1].Error)
	assert.Equal(t, 2, output.Summary.TotalDiagnostics)
	assert.Equal(t, 1, output.Summary.FilesWithIssues)
	assert.Equal(t, 1, output.Summary.FilesErrored)
	assert.Equal(t, map[string]int{"error": 1, "warning": 1}, output.Summary.BySeverity)
}

func TestJSONReporter_Generated(t *testing.T) {
	eng := engine.New(nil)
	res, err := eng.Process(context.Background(), source.NewDocumentString("Counter.razor", "<p>@count</p>"))
	require.NoError(t, err)

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf})
	_, err = rep.Report(context.Background(), &runner.Result{
		Files: []runner.FileOutcome{{Path: "Counter.razor", Result: res}},
	})
	require.NoError(t, err)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	require.Len(t, output.Files, 1)
	assert.True(t, output.Files[0].Generated)
	assert.Equal(t, "Counter", output.Files[0].ClassName)
	assert.Equal(t, "component", output.Files[0].FileKind)
	assert.Equal(t, 1, output.Summary.FilesGenerated)
}

func TestJSONReporter_Compact(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf, Compact: true})

	_, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)

	// Compact output should be a single line
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 1)
}

func TestSARIFReporter(t *testing.T) {
	var buf bytes.Buffer
	opts := reporter.DefaultOptions()
	opts.Writer = &buf
	opts.ToolVersion = "1.2.3"

	count, err := reporter.NewSARIFReporter(opts).Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var output reporter.SARIFOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	require.Len(t, output.Runs, 1)

	run := output.Runs[0]
	assert.Equal(t, "razorparse", run.Tool.Driver.Name)
	assert.Equal(t, "1.2.3", run.Tool.Driver.Version)
	assert.Len(t, run.AutomationDetails.GUID, 36)
	assert.Len(t, run.Tool.Driver.Rules, 2)

	require.Len(t, run.Results, 2)
	assert.Equal(t, "RZ1006", run.Results[0].RuleID)
	assert.Equal(t, "error", run.Results[0].Level)
	assert.Equal(t, "warning", run.Results[1].Level)
	assert.Equal(t, "Views/Index.cshtml", run.Results[0].Locations[0].PhysicalLocation.ArtifactLocation.URI)
	require.NotNil(t, run.Results[0].Locations[0].PhysicalLocation.Region)
	assert.Equal(t, 5, run.Results[0].Locations[0].PhysicalLocation.Region.StartLine)

	require.Len(t, run.Invocations, 1)
	assert.False(t, run.Invocations[0].ExecutionSuccessful)
	assert.Len(t, run.Invocations[0].ToolExecutionNotifications, 1)
}

func TestSARIFReporter_UniqueRunGUID(t *testing.T) {
	guids := make(map[string]bool)
	for range 3 {
		var buf bytes.Buffer
		_, err := reporter.NewSARIFReporter(reporter.Options{Writer: &buf}).Report(context.Background(), nil)
		require.NoError(t, err)

		var output reporter.SARIFOutput
		require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
		guids[output.Runs[0].AutomationDetails.GUID] = true
	}
	assert.Len(t, guids, 3)
}

func TestDefaultOptions(t *testing.T) {
	opts := reporter.DefaultOptions()

	assert.NotNil(t, opts.Writer)
	assert.NotNil(t, opts.ErrorWriter)
	assert.Equal(t, reporter.FormatText, opts.Format)
	assert.Equal(t, "auto", opts.Color)
	assert.True(t, opts.ShowContext)
	assert.True(t, opts.ShowSummary)
	assert.True(t, opts.GroupByFile)
	assert.False(t, opts.Compact)
	assert.Equal(t, reporter.SummaryOrderIDs, opts.SummaryOrder)
}

// createTestResult creates a runner.Result with one file holding two
// diagnostics and one unreadable file.
func createTestResult() *runner.Result {
	return &runner.Result{
		Files: []runner.FileOutcome{
			{
				Path: "Views/Index.cshtml",
				Result: &engine.Result{
					Diagnostics: []diagnostic.Diagnostic{
						diagnostic.UnterminatedBlock.New(
							source.Span{FilePath: "Views/Index.cshtml", AbsoluteIndex: 40, Length: 1, LineIndex: 4},
							"functions", "}", "}", "{", "}"),
						{
							ID:       "RZ2007",
							Severity: diagnostic.SeverityWarning,
							Message:  "Unexpected content",
							Span:     source.Span{FilePath: "Views/Index.cshtml", AbsoluteIndex: 80, Length: 3, LineIndex: 9, CharacterIndex: 2},
						},
					},
				},
			},
			{Path: "Missing.cshtml", Error: errors.New("read failed")},
		},
		Stats: runner.Stats{
			FilesDiscovered:       2,
			FilesProcessed:        1,
			FilesErrored:          1,
			FilesWithIssues:       1,
			DiagnosticsTotal:      2,
			DiagnosticsBySeverity: map[string]int{"error": 1, "warning": 1},
		},
	}
}
