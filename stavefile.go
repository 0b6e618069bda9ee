//go:build stave

package main

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const binary = "bin/razorparse"

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":   Build,
	"t":   Test.Default,
	"l":   Lint.Default,
	"c":   Check,
	"fmt": Lint.Fmt,
	"bp":  Bench.Parser,
	"fz":  Fuzz.All,
	"sm":  Smoke,
}

// Namespace types group related targets.
type (
	Test  st.Namespace
	Lint  st.Namespace
	CI    st.Namespace
	Bench st.Namespace
	Fuzz  st.Namespace
)

// Build compiles razorparse with version info, skipping the build when no
// source changed.
func Build() error {
	rebuild, err := target.Dir(binary, "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println(binary, "is up to date")
		return nil
	}
	fmt.Println("Building razorparse...")
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binary, "./cmd/razorparse")
}

// Check runs format, lint, and test sequentially.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default)
}

// Clean removes build, coverage and profile artifacts.
func Clean() error {
	for _, path := range []string{"bin", "bench", "coverage.out"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Install installs razorparse to $GOBIN or $GOPATH/bin.
func Install() error {
	return sh.RunV("go", "install", "-ldflags", ldflags(), "./cmd/razorparse")
}

// Smoke builds the binary, then parses and dry-run generates the Razor files
// under testdata/.
func Smoke() error {
	st.Deps(Build)
	if _, err := os.Stat("testdata"); errors.Is(err, fs.ErrNotExist) {
		fmt.Println("no testdata directory, nothing to parse")
		return nil
	}
	if err := sh.RunV(binary, "parse", "--format", "summary", "--sort", "category", "testdata"); err != nil {
		return err
	}
	return sh.RunV(binary, "generate", "--dry-run", "--allow-errors", "testdata")
}

// Default runs all tests with race detection and coverage.
func (Test) Default() error {
	return gotestsum("pkgname-and-test-fails", "-race", "./...", "-coverprofile=coverage.out", "-covermode=atomic")
}

// Short skips the allocation and scaling tests.
func (Test) Short() error {
	return gotestsum("pkgname", "-short", "./...")
}

// Default runs golangci-lint with auto-fix.
func (Lint) Default() error {
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// Fmt formats all Go code.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", ".")
}

// FmtCheck fails when a file is not gofmt-clean.
func (Lint) FmtCheck() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return fmt.Errorf("gofmt check failed: %w", err)
	}
	if out != "" {
		return fmt.Errorf("unformatted files:\n%s\nRun 'stave lint:fmt' to fix", out)
	}
	return nil
}

// Gate runs every CI check; the fuzz targets only replay their seeds.
func (CI) Gate() error {
	st.SerialDeps(
		Lint.FmtCheck,
		CI.Lint,
		Build,
		Test.Default,
		CI.ModTidy,
	)
	fmt.Println("✓ CI gate passed")
	return nil
}

// Lint runs go vet and golangci-lint without auto-fix.
func (CI) Lint() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	return sh.RunV("golangci-lint", "run", "./...")
}

// ModTidy fails when go mod tidy changes go.mod or go.sum.
func (CI) ModTidy() error {
	before, err := modFiles()
	if err != nil {
		return err
	}
	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}
	after, err := modFiles()
	if err != nil {
		return err
	}
	if before != after {
		return errors.New("go.mod or go.sum changed after 'go mod tidy'; commit the changes")
	}
	return nil
}

// Default runs every benchmark.
func (Bench) Default() error {
	return gotestsum("pkgname-and-test-fails", "-run=^$", "-bench=.", "-benchmem", "./...")
}

// Parser benchmarks Process and Reparse on the engine with a CPU profile
// written to bench/cpu.out.
func (Bench) Parser() error {
	if err := os.MkdirAll("bench", 0o755); err != nil {
		return fmt.Errorf("create bench directory: %w", err)
	}
	return sh.RunV("go", "test",
		"-run=^$", "-bench=.", "-benchmem",
		"-cpuprofile=bench/cpu.out",
		"./pkg/engine",
	)
}

// Parser fuzzes the block parser for lossless trees. The duration comes
// from FUZZ_TIME (default 30s).
func (Fuzz) Parser() error {
	return fuzz("FuzzParse", "./pkg/parser")
}

// Tokenizer fuzzes the legacy and host C# tokenizers against each other.
func (Fuzz) Tokenizer() error {
	return fuzz("FuzzCSharpStrategiesAgree", "./pkg/tokenizer")
}

// All runs every fuzz target in turn.
func (Fuzz) All() {
	st.SerialDeps(Fuzz.Tokenizer, Fuzz.Parser)
}

func fuzz(name, pkg string) error {
	duration := cmp.Or(os.Getenv("FUZZ_TIME"), "30s")
	fmt.Printf("Fuzzing %s for %s...\n", name, duration)
	return sh.RunV("go", "test", "-run=^$", "-fuzz=^"+name+"$", "-fuzztime="+duration, pkg)
}

// gotestsum runs go test through gotestsum with the given output format.
func gotestsum(format string, args ...string) error {
	nCores := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	cmdArgs := []string{"tool", "gotestsum", "-f", format, "--", "-p", nCores, "-parallel", nCores}
	return sh.RunV("go", append(cmdArgs, args...)...)
}

func modFiles() (string, error) {
	var sb strings.Builder
	for _, name := range []string{"go.mod", "go.sum"} {
		data, err := os.ReadFile(name)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("read %s: %w", name, err)
		}
		sb.Write(data)
	}
	return sb.String(), nil
}

// gitOutput runs a git command and returns trimmed stdout, or empty on error.
func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// ldflags returns the linker flags for version injection.
func ldflags() string {
	version := cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev")
	commit := cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none")
	date := time.Now().UTC().Format(time.RFC3339)
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s", version, commit, date)
}
