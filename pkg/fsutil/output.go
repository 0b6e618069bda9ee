package fsutil

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// GeneratedExtension is appended to a Razor file name to name its C# output.
const GeneratedExtension = ".g.cs"

// ErrOutsideRoot is returned when a source file is not below the root its
// output layout is computed against.
var ErrOutsideRoot = errors.New("source path is outside the root directory")

// GeneratedPath returns where the C# output of source is written.
//
// With an empty outputDir the file is written next to its source,
// "Views/Index.cshtml" becoming "Views/Index.cshtml.g.cs". Otherwise the
// path of source relative to root is recreated under outputDir.
func GeneratedPath(source, root, outputDir string) (string, error) {
	if outputDir == "" {
		return source + GeneratedExtension, nil
	}

	rel, err := filepath.Rel(root, source)
	if err != nil {
		return "", fmt.Errorf("relative path of %s: %w", source, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", source, ErrOutsideRoot)
	}
	return filepath.Join(outputDir, rel) + GeneratedExtension, nil
}
