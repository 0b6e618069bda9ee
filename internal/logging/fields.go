// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Parser fields.
	FieldFileKind  = "file_kind"
	FieldVersion   = "language_version"
	FieldTokenizer = "tokenizer"
	FieldJobs      = "jobs"

	// Statistics fields.
	FieldFilesDiscovered  = "files_discovered"
	FieldFilesProcessed   = "files_processed"
	FieldFilesWithErrors  = "files_with_errors"
	FieldDiagnosticsTotal = "diagnostics_total"
	FieldFilesWritten     = "files_written"
	FieldDuration         = "duration"

	// Build fields.
	FieldBuildVersion = "version"
	FieldCommit       = "commit"
	FieldBuilt        = "built"

	// Directive and tag helper fields.
	FieldDirective = "directive"
	FieldTagHelper = "tag_helper"
	FieldCount     = "count"
)
