package cli

import "github.com/yaklabco/razorparse/pkg/runner"

// Exit codes for razorparse.
const (
	// ExitSuccess indicates successful execution with no diagnostics.
	ExitSuccess = 0

	// ExitDiagnosticErrors indicates parsing completed but reported errors.
	ExitDiagnosticErrors = 1

	// ExitDiagnosticWarnings indicates parsing completed but reported
	// warnings (when strict mode).
	ExitDiagnosticWarnings = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ExitCodeFromResult determines the exit code based on result and strict mode.
// Unreadable files count as errors.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	if result == nil {
		return ExitSuccess
	}

	if result.Stats.Errors() > 0 || result.Stats.FilesErrored > 0 {
		return ExitDiagnosticErrors
	}

	if strict && result.Stats.Warnings() > 0 {
		return ExitDiagnosticWarnings
	}

	return ExitSuccess
}
