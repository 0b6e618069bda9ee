package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/razorparse/internal/cli"
	"github.com/yaklabco/razorparse/pkg/reporter"
)

const (
	cleanView     = "@model App.Item\n<div>\n    <h1>@Model.Name</h1>\n</div>\n"
	brokenView    = "<p>before</p>\n@functions{\n"
	cleanCounter  = "<p>@count</p>\n@code {\n    int count;\n}\n"
	regionView    = "@region Intro\n<p>hello</p>\n"
	tagHelperView = "<a asp-page=\"/About\">about</a>\n"
)

const regionConfig = `directives:
  - name: region
    usage: single_line
    tokens:
      - kind: member
        name: Name
`

const tagHelperConfig = `tag_helpers:
  - name: LinkTagHelper
    type: App.LinkTagHelper
    rules:
      - tag: a
        attributes:
          - name: asp-page
    attributes:
      - name: asp-page
        property: Page
        type: string
`

// writeFile creates name under dir with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// runCLI executes the root command with an explicit config file so the
// result does not depend on configuration found around the test.
func runCLI(t *testing.T, configYAML string, args ...string) (string, string, error) {
	t.Helper()

	cfgFile := writeFile(t, t.TempDir(), ".razorparse.yml", "language_version: latest\n"+configYAML)

	cmd := cli.NewRootCommand(testInfo())

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--config", cfgFile, "--color", "never"))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestIntegration_ParseClean(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "Views/Index.cshtml", cleanView)

	stdout, _, err := runCLI(t, "", "parse", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No diagnostics")
}

func TestIntegration_ParseReportsDiagnostics(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "Index.cshtml", cleanView)
	writeFile(t, dir, "Broken.cshtml", brokenView)

	stdout, _, err := runCLI(t, "", "parse", dir)
	require.ErrorIs(t, err, cli.ErrDiagnosticsFound)
	assert.Contains(t, stdout, "Broken.cshtml")
	assert.Contains(t, stdout, "RZ1006")
	assert.NotContains(t, stdout, "Index.cshtml")
	assert.Contains(t, stdout, "@functions{", "source context is shown")
}

func TestIntegration_ParseNoContext(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "Broken.cshtml", brokenView)

	stdout, _, err := runCLI(t, "", "parse", "--no-context", path)
	require.ErrorIs(t, err, cli.ErrDiagnosticsFound)
	assert.Contains(t, stdout, "RZ1006")
	assert.NotContains(t, stdout, "^")
}

func TestIntegration_ParseJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "Counter.razor", cleanCounter)
	writeFile(t, dir, "Broken.cshtml", brokenView)

	stdout, _, err := runCLI(t, "", "parse", "--format", "json", dir)
	require.ErrorIs(t, err, cli.ErrDiagnosticsFound)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &output))
	require.Len(t, output.Files, 2)

	// Outcomes are ordered by path.
	broken, counter := output.Files[0], output.Files[1]
	assert.Equal(t, "legacy", broken.FileKind)
	require.NotEmpty(t, broken.Diagnostics)
	assert.Equal(t, "RZ1006", broken.Diagnostics[0].ID)
	assert.Equal(t, 2, broken.Diagnostics[0].StartLine)

	assert.Equal(t, "component", counter.FileKind)
	assert.Equal(t, "Counter", counter.ClassName)
	assert.True(t, counter.Generated)
	assert.Empty(t, counter.Diagnostics)

	assert.Equal(t, 2, output.Summary.FilesParsed)
	assert.Positive(t, output.Summary.TotalDiagnostics)
}

func TestIntegration_ParseSARIF(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "Broken.cshtml", brokenView)

	stdout, _, err := runCLI(t, "", "parse", "--format", "sarif", path)
	require.ErrorIs(t, err, cli.ErrDiagnosticsFound)

	var output reporter.SARIFOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &output))
	assert.Equal(t, "2.1.0", output.Version)
	require.Len(t, output.Runs, 1)
	assert.Equal(t, "razorparse", output.Runs[0].Tool.Driver.Name)
	assert.Equal(t, "test", output.Runs[0].Tool.Driver.Version)
	require.NotEmpty(t, output.Runs[0].Results)
	assert.Equal(t, "RZ1006", output.Runs[0].Results[0].RuleID)
}

func TestIntegration_ParseSummary(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "Broken.cshtml", brokenView)

	stdout, _, err := runCLI(t, "", "parse", "--format", "summary", "--sort", "category", path)
	require.ErrorIs(t, err, cli.ErrDiagnosticsFound)
	assert.Contains(t, stdout, "Diagnostics Summary")
	assert.Contains(t, stdout, "RZ1006")
	assert.Contains(t, stdout, "parsing")
}

func TestIntegration_InvalidSort(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "Index.cshtml", cleanView)

	_, _, err := runCLI(t, "", "parse", "--sort", "rule", path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, cli.ErrDiagnosticsFound)
	assert.Contains(t, err.Error(), "invalid sort")
}

func TestIntegration_InvalidFormat(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "Index.cshtml", cleanView)

	_, _, err := runCLI(t, "", "parse", "--format", "table", path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, cli.ErrDiagnosticsFound)
}

func TestIntegration_CustomDirective(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "Index.cshtml", regionView)

	stdout, _, err := runCLI(t, regionConfig, "tree", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "directive=region")

	stdout, _, err = runCLI(t, "", "tree", path)
	require.NoError(t, err)
	assert.NotContains(t, stdout, "directive=region")
}

func TestIntegration_InvalidDirectiveConfig(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "Index.cshtml", cleanView)
	badConfig := "directives:\n  - name: region\n    usage: sideways\n"

	_, _, err := runCLI(t, badConfig, "parse", path)
	require.Error(t, err)
}

func TestIntegration_Tokens(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "Index.cshtml", "<p>@name</p>")

	stdout, _, err := runCLI(t, "", "tokens", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "1:4")
	assert.Contains(t, stdout, "Transition")
	assert.Contains(t, stdout, `"name"`)
}

func TestIntegration_InspectSeveralFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := writeFile(t, dir, "A.cshtml", "<p></p>")
	second := writeFile(t, dir, "B.razor", "<p></p>")

	stdout, _, err := runCLI(t, "", "tree", first, second)
	require.NoError(t, err)
	assert.Contains(t, stdout, "==> "+first+" <==")
	assert.Contains(t, stdout, "==> "+second+" <==")
}

func TestIntegration_GenerateWritesNextToSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "Index.cshtml", cleanView)

	_, _, err := runCLI(t, "", "generate", path)
	require.NoError(t, err)

	content, err := os.ReadFile(path + ".g.cs")
	require.NoError(t, err)
	assert.Contains(t, string(content), "public partial class Index")
	assert.Contains(t, string(content), "Write(Model.Name);")
}

func TestIntegration_GenerateSkipsErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := writeFile(t, dir, "Index.cshtml", cleanView)
	bad := writeFile(t, dir, "Broken.cshtml", brokenView)

	_, stderr, err := runCLI(t, "", "generate", dir)
	require.ErrorIs(t, err, cli.ErrDiagnosticsFound)
	assert.Contains(t, stderr, "RZ1006")

	assert.FileExists(t, good+".g.cs")
	assert.NoFileExists(t, bad+".g.cs")
}

func TestIntegration_GenerateDryRun(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "Index.cshtml", cleanView)

	_, _, err := runCLI(t, "", "generate", "--dry-run", path)
	require.NoError(t, err)
	assert.NoFileExists(t, path+".g.cs")
}

func TestIntegration_GenerateStdoutWithTagHelpers(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "Links.cshtml", tagHelperView)

	stdout, _, err := runCLI(t, tagHelperConfig, "generate", "--stdout", "--namespace", "App.Views", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "namespace App.Views")
	assert.Contains(t, stdout, "CreateTagHelper<global::App.LinkTagHelper>()")
	assert.NoFileExists(t, path+".g.cs")

	stdout, _, err = runCLI(t, "", "generate", "--stdout", path)
	require.NoError(t, err)
	assert.NotContains(t, stdout, "CreateTagHelper")
}

func TestIntegration_Directives(t *testing.T) {
	t.Parallel()

	stdout, _, err := runCLI(t, "", "directives")
	require.NoError(t, err)
	assert.Contains(t, stdout, "@model")
	assert.NotContains(t, stdout, "@code")

	stdout, _, err = runCLI(t, regionConfig, "directives", "--file-kind", "component", "--format", "json")
	require.NoError(t, err)

	var infos []struct {
		Name   string   `json:"name"`
		Usage  string   `json:"usage"`
		Tokens []string `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &infos))

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
		if info.Name == "region" {
			assert.Equal(t, "SingleLine", info.Usage)
			assert.Equal(t, []string{"Member"}, info.Tokens)
		}
	}
	assert.Contains(t, names, "code")
	assert.Contains(t, names, "region")
	assert.IsIncreasing(t, names)
}

func TestIntegration_Init(t *testing.T) {
	t.Parallel()

	output := filepath.Join(t.TempDir(), "custom.yml")

	_, _, err := runCLI(t, "", "init", "--full", "--output", output)
	require.NoError(t, err)

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(content), "language_version: latest")
	assert.Contains(t, string(content), "tag_helpers:")

	_, _, err = runCLI(t, "", "init", "--output", output)
	require.Error(t, err, "existing file is not overwritten without --force")

	_, _, err = runCLI(t, "", "init", "--force", "--format", "json", "--output", output)
	require.NoError(t, err)
	content, err = os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, json.Valid(content))
}
