package runner_test

import (
	"context"
	"path/filepath"
	"slices"
	"testing"

	"github.com/spf13/afero"

	"github.com/yaklabco/razorparse/pkg/runner"
)

const root = "/app"

func memFs(t *testing.T, files ...string) afero.Fs {
	t.Helper()

	fsys := afero.NewMemMapFs()
	for _, f := range files {
		path := filepath.Join(root, f)
		if err := afero.WriteFile(fsys, path, []byte("<p>"+f+"</p>\n"), 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
	return fsys
}

func relPaths(t *testing.T, files []string) []string {
	t.Helper()

	out := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil {
			t.Fatalf("rel: %v", err)
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	all := []string{
		"Views/Home/Index.cshtml",
		"Views/Shared/_Layout.cshtml",
		"Pages/Counter.razor",
		"Pages/_Imports.razor",
		"Program.cs",
		"README.md",
		".hidden/Secret.cshtml",
		"node_modules/pkg/Demo.cshtml",
		"Areas/Admin/Edit.cshtml",
	}

	tests := []struct {
		name string
		opts runner.Options
		want []string
	}{
		{
			name: "default extensions skip hidden and vendored",
			opts: runner.Options{},
			want: []string{
				"Areas/Admin/Edit.cshtml",
				"Pages/Counter.razor",
				"Pages/_Imports.razor",
				"Views/Home/Index.cshtml",
				"Views/Shared/_Layout.cshtml",
			},
		},
		{
			name: "exclude globs",
			opts: runner.Options{ExcludeGlobs: []string{"Areas/**", "_*.cshtml"}},
			want: []string{
				"Pages/Counter.razor",
				"Pages/_Imports.razor",
				"Views/Home/Index.cshtml",
			},
		},
		{
			name: "include globs",
			opts: runner.Options{IncludeGlobs: []string{"Pages/**"}},
			want: []string{"Pages/Counter.razor", "Pages/_Imports.razor"},
		},
		{
			name: "extensions",
			opts: runner.Options{Extensions: []string{".RAZOR"}},
			want: []string{"Pages/Counter.razor", "Pages/_Imports.razor"},
		},
		{
			name: "vendored included on request",
			opts: runner.Options{Paths: []string{"node_modules"}, IncludeVendored: true},
			want: []string{"node_modules/pkg/Demo.cshtml"},
		},
		{
			name: "explicit file and duplicates",
			opts: runner.Options{Paths: []string{"Pages/Counter.razor", "Pages", "README.md"}},
			want: []string{"Pages/Counter.razor", "Pages/_Imports.razor"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := tt.opts
			opts.Fs = memFs(t, all...)
			opts.WorkingDir = root

			files, err := runner.Discover(context.Background(), opts)
			if err != nil {
				t.Fatalf("Discover() error = %v", err)
			}

			got := relPaths(t, files)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Discover() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDiscover_MissingPath(t *testing.T) {
	t.Parallel()

	opts := runner.Options{Fs: memFs(t), WorkingDir: root, Paths: []string{"missing"}}
	if _, err := runner.Discover(context.Background(), opts); err == nil {
		t.Fatal("expected error for missing path")
	}
}

func TestDiscover_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := runner.Options{Fs: memFs(t, "a.cshtml"), WorkingDir: root}
	if _, err := runner.Discover(ctx, opts); err == nil {
		t.Fatal("expected cancellation error")
	}
}
