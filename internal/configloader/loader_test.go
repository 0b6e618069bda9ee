package configloader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yaklabco/razorparse/pkg/config"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func isolated(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), isolated(t.TempDir()))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config == nil {
		t.Fatal("Load() returned nil config")
	}
	if result.Config.LanguageVersion != "latest" {
		t.Errorf("expected language_version %q, got %q", "latest", result.Config.LanguageVersion)
	}
	if !result.Config.LinePragmasEnabled() {
		t.Error("expected line pragmas enabled by default")
	}
	if len(result.LoadedFrom) != 0 {
		t.Errorf("expected no loaded files, got %v", result.LoadedFrom)
	}
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, ".razorparse.yml", `
language_version: "3.0"
line_pragmas: false
directives:
  - name: region
    tokens:
      - kind: member
`)

	// Discovery searches upward from nested directories.
	nested := filepath.Join(tmpDir, "Views", "Home")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	result, err := Load(context.Background(), isolated(nested))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.LanguageVersion != "3.0" {
		t.Errorf("expected language_version %q, got %q", "3.0", result.Config.LanguageVersion)
	}
	if result.Config.LinePragmasEnabled() {
		t.Error("expected line pragmas disabled")
	}
	if len(result.Config.Directives) != 1 {
		t.Errorf("expected 1 directive, got %d", len(result.Config.Directives))
	}
	if len(result.LoadedFrom) != 1 {
		t.Errorf("expected 1 loaded file, got %d", len(result.LoadedFrom))
	}
}

func TestLoad_ExplicitConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, ".razorparse.yml", "tokenizer: legacy\nnamespace: Project\n")
	customPath := writeConfig(t, tmpDir, "custom.yml", "tokenizer: host\n")

	opts := isolated(tmpDir)
	opts.ExplicitPath = customPath

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Tokenizer != "host" {
		t.Errorf("expected tokenizer %q, got %q", "host", result.Config.Tokenizer)
	}
	if result.Config.Namespace != "Project" {
		t.Errorf("expected namespace from project config, got %q", result.Config.Namespace)
	}
	if len(result.LoadedFrom) != 2 || result.LoadedFrom[1] != customPath {
		t.Errorf("expected explicit config loaded last, got %v", result.LoadedFrom)
	}
}

func TestLoad_CLIOverrides(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, ".razorparse.yml", "language_version: \"2.1\"\n")

	opts := isolated(tmpDir)
	opts.CLIConfig = &config.Config{
		LanguageVersion: "8.0",
		Format:          config.FormatJSON,
		Jobs:            8,
		DesignTime:      true,
	}

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.LanguageVersion != "8.0" {
		t.Errorf("expected language_version %q (CLI override), got %q", "8.0", result.Config.LanguageVersion)
	}
	if result.Config.Format != config.FormatJSON {
		t.Errorf("expected format %q, got %q", config.FormatJSON, result.Config.Format)
	}
	if result.Config.Jobs != 8 {
		t.Errorf("expected jobs 8 (CLI override), got %d", result.Config.Jobs)
	}
	if !result.Config.DesignTime {
		t.Error("expected design_time true (CLI override)")
	}
}

//nolint:paralleltest // Uses t.Setenv.
func TestLoad_Environment(t *testing.T) {
	t.Setenv("RAZORPARSE_TOKENIZER", "host")
	t.Setenv("RAZORPARSE_LINE_PRAGMAS", "false")
	t.Setenv("RAZORPARSE_IGNORE", "bin/**, obj/**")

	opts := isolated(t.TempDir())
	opts.IgnoreEnv = false

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Tokenizer != "host" {
		t.Errorf("expected tokenizer from environment, got %q", result.Config.Tokenizer)
	}
	if result.Config.LinePragmasEnabled() {
		t.Error("expected line pragmas disabled from environment")
	}
	if len(result.Config.Ignore) != 2 || result.Config.Ignore[1] != "obj/**" {
		t.Errorf("unexpected ignore patterns %v", result.Config.Ignore)
	}
}

//nolint:paralleltest // Uses t.Setenv.
func TestLoad_InvalidEnvironment(t *testing.T) {
	t.Setenv("RAZORPARSE_JOBS", "many")

	opts := isolated(t.TempDir())
	opts.IgnoreEnv = false

	_, err := Load(context.Background(), opts)
	if err == nil || !strings.Contains(err.Error(), "RAZORPARSE_JOBS") {
		t.Fatalf("expected error naming RAZORPARSE_JOBS, got %v", err)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown version", "language_version: \"4.0\"\n", "language_version"},
		{"unknown tokenizer", "tokenizer: roslyn\n", "tokenizer"},
		{"bad extension", "extensions: [cshtml]\n", "extensions[0]"},
		{"bad glob", "ignore: [\"bin/[\"]\n", "ignore[0]"},
		{"bad directive", "directives:\n  - name: region\n    usage: inline\n", "directives"},
		{"bad tag helper", "tag_helpers:\n  - name: Foo\n", "tag_helpers"},
		{"unknown key", "flavor: gfm\n", "flavor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tmpDir := t.TempDir()
			writeConfig(t, tmpDir, ".razorparse.yml", tt.content)

			_, err := Load(context.Background(), isolated(tmpDir))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoad_Warnings(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, ".razorparse.yml", `
directives:
  - name: model
    tokens:
      - kind: type
`)

	result, err := Load(context.Background(), isolated(tmpDir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "built-in") && strings.Contains(w, ".razorparse.yml") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected warning about replacing a built-in directive, got %v", result.Warnings)
	}
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, isolated(t.TempDir()))
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	base := &config.Config{
		Namespace: "Base",
		Directives: []config.DirectiveConfig{
			{Name: "region", Description: "base"},
			{Name: "keep"},
		},
	}
	override := &config.Config{
		Directives: []config.DirectiveConfig{
			{Name: "region", Description: "override"},
			{Name: "added"},
		},
	}

	merged := MergeAll(base, override)
	if merged.Namespace != "Base" {
		t.Errorf("expected namespace kept, got %q", merged.Namespace)
	}

	names := make([]string, 0, len(merged.Directives))
	for _, d := range merged.Directives {
		names = append(names, d.Name)
	}
	if strings.Join(names, ",") != "region,keep,added" {
		t.Errorf("unexpected directive order %v", names)
	}
	if merged.Directives[0].Description != "override" {
		t.Errorf("expected override to replace region, got %q", merged.Directives[0].Description)
	}

	if MergeAll() != nil {
		t.Error("expected nil for no configs")
	}
}
