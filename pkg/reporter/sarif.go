package reporter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/yaklabco/razorparse/pkg/analysis"
	"github.com/yaklabco/razorparse/pkg/diagnostic"
	"github.com/yaklabco/razorparse/pkg/runner"
	"github.com/yaklabco/razorparse/pkg/source"
)

// SARIF version used by this reporter.
const sarifVersion = "2.1.0"

// SARIF schema URI.
const sarifSchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"

// SARIFOutput represents the root SARIF document.
type SARIFOutput struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun represents a single analysis run.
type SARIFRun struct {
	Tool              SARIFTool              `json:"tool"`
	AutomationDetails SARIFAutomationDetails `json:"automationDetails"`
	Invocations       []SARIFInvocation      `json:"invocations,omitempty"`
	Results           []SARIFResult          `json:"results"`
}

// SARIFAutomationDetails identifies the run.
type SARIFAutomationDetails struct {
	GUID string `json:"guid"`
}

// SARIFInvocation records whether the run completed and why files failed.
type SARIFInvocation struct {
	ExecutionSuccessful        bool                `json:"executionSuccessful"`
	ToolExecutionNotifications []SARIFNotification `json:"toolExecutionNotifications,omitempty"`
}

// SARIFNotification reports a file that could not be processed.
type SARIFNotification struct {
	Level     string          `json:"level"`
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations,omitempty"`
}

// SARIFTool describes the analysis tool.
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver contains tool metadata and rules.
type SARIFDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []SARIFRule `json:"rules"`
}

// SARIFRule describes one diagnostic descriptor.
type SARIFRule struct {
	ID               string               `json:"id"`
	ShortDescription SARIFMultiformatText `json:"shortDescription"`
	DefaultConfig    *SARIFRuleConfig     `json:"defaultConfiguration,omitempty"`
}

// SARIFMultiformatText contains text in multiple formats.
type SARIFMultiformatText struct {
	Text string `json:"text"`
}

// SARIFRuleConfig contains rule configuration.
type SARIFRuleConfig struct {
	Level string `json:"level"`
}

// SARIFResult represents a single diagnostic result.
type SARIFResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations"`
}

// SARIFMessage contains the result message.
type SARIFMessage struct {
	Text string `json:"text"`
}

// SARIFLocation describes a code location.
type SARIFLocation struct {
	PhysicalLocation SARIFPhysicalLocation `json:"physicalLocation"`
}

// SARIFPhysicalLocation contains file path and region.
type SARIFPhysicalLocation struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Region           *SARIFRegion          `json:"region,omitempty"`
}

// SARIFArtifactLocation contains the file URI.
type SARIFArtifactLocation struct {
	URI string `json:"uri"`
}

// SARIFRegion describes the affected text region. Columns are 1-based byte
// columns; the end column is exclusive.
type SARIFRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
	EndLine     int `json:"endLine,omitempty"`
	EndColumn   int `json:"endColumn,omitempty"`
	CharOffset  int `json:"charOffset"`
	CharLength  int `json:"charLength"`
}

// SARIFReporter formats results as SARIF.
type SARIFReporter struct {
	opts Options
	out  io.Writer
}

// NewSARIFReporter creates a new SARIF reporter.
func NewSARIFReporter(opts Options) *SARIFReporter {
	return &SARIFReporter{
		opts: opts,
		out:  opts.Writer,
	}
}

// Report implements Reporter.
func (r *SARIFReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.out)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode SARIF: %w", err)
	}

	return len(output.Runs[0].Results), nil
}

func (r *SARIFReporter) buildOutput(result *runner.Result) *SARIFOutput {
	version := r.opts.ToolVersion
	if version == "" {
		version = "dev"
	}

	run := SARIFRun{
		Tool: SARIFTool{
			Driver: SARIFDriver{
				Name:           "razorparse",
				Version:        version,
				InformationURI: "https://github.com/yaklabco/razorparse",
				Rules:          make([]SARIFRule, 0),
			},
		},
		AutomationDetails: SARIFAutomationDetails{GUID: uuid.NewString()},
		Results:           make([]SARIFResult, 0),
	}

	if result != nil {
		r.addResults(&run, result)
	}

	return &SARIFOutput{
		Schema:  sarifSchemaURI,
		Version: sarifVersion,
		Runs:    []SARIFRun{run},
	}
}

func (r *SARIFReporter) addResults(run *SARIFRun, result *runner.Result) {
	// Track descriptors we've already added
	rulesSeen := make(map[string]bool)
	invocation := SARIFInvocation{ExecutionSuccessful: true}

	for _, file := range result.Files {
		uri := filepath.ToSlash(analysis.RelativePath(file.Path, r.opts.WorkingDir))

		if file.Error != nil {
			invocation.ExecutionSuccessful = false
			invocation.ToolExecutionNotifications = append(invocation.ToolExecutionNotifications, SARIFNotification{
				Level:   "error",
				Message: SARIFMessage{Text: file.Error.Error()},
				Locations: []SARIFLocation{{
					PhysicalLocation: SARIFPhysicalLocation{ArtifactLocation: SARIFArtifactLocation{URI: uri}},
				}},
			})
			continue
		}
		if file.Result == nil {
			continue
		}

		var doc *source.Document
		if file.Result.Tree != nil {
			doc = file.Result.Source()
		}

		for _, diag := range file.Result.Diagnostics {
			if !rulesSeen[diag.ID] {
				run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, SARIFRule{
					ID:               diag.ID,
					ShortDescription: SARIFMultiformatText{Text: diag.Message},
					DefaultConfig:    &SARIFRuleConfig{Level: severityToSARIFLevel(diag.Severity)},
				})
				rulesSeen[diag.ID] = true
			}

			location := SARIFPhysicalLocation{ArtifactLocation: SARIFArtifactLocation{URI: uri}}
			if !diag.Span.IsUndefined() {
				entry := analysis.NewEntry(uri, doc, diag)
				location.Region = &SARIFRegion{
					StartLine:   entry.StartLine,
					StartColumn: entry.StartColumn,
					EndLine:     entry.EndLine,
					EndColumn:   entry.EndColumn,
					CharOffset:  entry.Offset,
					CharLength:  entry.Length,
				}
			}

			run.Results = append(run.Results, SARIFResult{
				RuleID:    diag.ID,
				Level:     severityToSARIFLevel(diag.Severity),
				Message:   SARIFMessage{Text: diag.Message},
				Locations: []SARIFLocation{{PhysicalLocation: location}},
			})
		}
	}

	run.Invocations = []SARIFInvocation{invocation}
}

// severityToSARIFLevel converts a diagnostic severity to a SARIF level.
func severityToSARIFLevel(severity diagnostic.Severity) string {
	switch severity {
	case diagnostic.SeverityError:
		return "error"
	case diagnostic.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}
