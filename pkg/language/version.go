// Package language holds the knobs that select which Razor constructs a
// parse accepts: the language version, the kind of file and the options
// derived from them.
package language

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnknownVersion is returned by ParseVersion.
var ErrUnknownVersion = errors.New("unknown Razor language version")

// Version is an ordered Razor language version. Each version only adds
// constructs to the previous one.
type Version uint8

// Language versions.
const (
	Version1_0 Version = iota + 1
	Version1_1
	Version2_0
	Version2_1
	Version3_0
	Version5_0
	Version6_0
	Version7_0
	Version8_0
	VersionExperimental

	Latest = Version8_0
)

//nolint:gochecknoglobals // Read-only lookup table.
var versionNames = map[Version]string{
	Version1_0:          "1.0",
	Version1_1:          "1.1",
	Version2_0:          "2.0",
	Version2_1:          "2.1",
	Version3_0:          "3.0",
	Version5_0:          "5.0",
	Version6_0:          "6.0",
	Version7_0:          "7.0",
	Version8_0:          "8.0",
	VersionExperimental: "experimental",
}

func (v Version) String() string {
	if name, ok := versionNames[v]; ok {
		return name
	}
	return fmt.Sprintf("Version(%d)", uint8(v))
}

// AtLeast reports whether v is other or newer.
func (v Version) AtLeast(other Version) bool {
	return v >= other
}

// Compare returns -1, 0 or +1.
func (v Version) Compare(other Version) int {
	switch {
	case v < other:
		return -1
	case v > other:
		return 1
	default:
		return 0
	}
}

// ParseVersion parses "3.0", "8", "latest" or "experimental".
func ParseVersion(text string) (Version, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	switch text {
	case "latest", "":
		return Latest, nil
	case "experimental":
		return VersionExperimental, nil
	}
	if !strings.Contains(text, ".") {
		text += ".0"
	}
	for version, name := range versionNames {
		if name == text {
			return version, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVersion, text)
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// FileKind is the kind of document being parsed.
type FileKind uint8

// File kinds.
const (
	// FileKindLegacy is an MVC view or Razor page (.cshtml).
	FileKindLegacy FileKind = iota
	// FileKindComponent is a component (.razor).
	FileKindComponent
	// FileKindComponentImport is a component imports file (_Imports.razor).
	FileKindComponentImport
)

// ComponentImportsFileName is the name of component import files.
const ComponentImportsFileName = "_Imports.razor"

func (k FileKind) String() string {
	switch k {
	case FileKindLegacy:
		return "legacy"
	case FileKindComponent:
		return "component"
	case FileKindComponentImport:
		return "componentImport"
	default:
		return fmt.Sprintf("FileKind(%d)", uint8(k))
	}
}

// IsComponent reports whether k is a component or component import.
func (k FileKind) IsComponent() bool {
	return k == FileKindComponent || k == FileKindComponentImport
}

// ParseFileKind parses the String form of a file kind.
func ParseFileKind(text string) (FileKind, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "legacy", "mvc", "":
		return FileKindLegacy, nil
	case "component":
		return FileKindComponent, nil
	case "componentimport", "import":
		return FileKindComponentImport, nil
	default:
		return 0, fmt.Errorf("unknown file kind %q", text)
	}
}

// FileKindFromPath infers the file kind from a document path.
func FileKindFromPath(path string) FileKind {
	base := filepath.Base(path)
	if strings.EqualFold(base, ComponentImportsFileName) {
		return FileKindComponentImport
	}
	if strings.EqualFold(filepath.Ext(base), ".razor") {
		return FileKindComponent
	}
	return FileKindLegacy
}
