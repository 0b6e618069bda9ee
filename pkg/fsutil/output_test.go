package fsutil_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/yaklabco/razorparse/pkg/fsutil"
)

func TestGeneratedPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		source    string
		root      string
		outputDir string
		want      string
		wantErr   error
	}{
		{
			name:   "next to source",
			source: filepath.FromSlash("site/Views/Index.cshtml"),
			root:   "site",
			want:   filepath.FromSlash("site/Views/Index.cshtml.g.cs"),
		},
		{
			name:      "mirrored under output directory",
			source:    filepath.FromSlash("site/Views/Home/Index.cshtml"),
			root:      "site",
			outputDir: "gen",
			want:      filepath.FromSlash("gen/Views/Home/Index.cshtml.g.cs"),
		},
		{
			name:      "component",
			source:    filepath.FromSlash("app/Counter.razor"),
			root:      "app",
			outputDir: filepath.FromSlash("obj/razor"),
			want:      filepath.FromSlash("obj/razor/Counter.razor.g.cs"),
		},
		{
			name:      "outside root",
			source:    filepath.FromSlash("other/Index.cshtml"),
			root:      "site",
			outputDir: "gen",
			wantErr:   fsutil.ErrOutsideRoot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fsutil.GeneratedPath(tt.source, tt.root, tt.outputDir)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("GeneratedPath() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("GeneratedPath() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("GeneratedPath() = %q, want %q", got, tt.want)
			}
		})
	}
}
