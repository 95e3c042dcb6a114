// Package layout holds the canonical file and directory names of a Sway
// project and of the forc installation itself.
//
// A Layout is a plain value: construct it once with Default and pass it to
// whatever needs to build paths. There are no setters.
package layout

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EntryKind selects which entry file a package compiles from.
type EntryKind int

const (
	// EntryMain is the entry file of contracts, scripts and predicates.
	EntryMain EntryKind = iota
	// EntryLib is the entry file of libraries.
	EntryLib
)

// String returns the string representation of an EntryKind.
func (k EntryKind) String() string {
	switch k {
	case EntryMain:
		return "main"
	case EntryLib:
		return "lib"
	default:
		return "unknown"
	}
}

// ErrNoProject is returned by FindProjectRoot when no manifest is found.
var ErrNoProject = errors.New("no project manifest found")

// Layout is the registry of canonical project and toolchain names.
type Layout struct {
	ManifestFile          string
	LockFile              string
	TestManifestFile      string
	TestDir               string
	SourceDir             string
	LibEntry              string
	MainEntry             string
	SourceExtension       string
	StorageKeyPrefix      string
	LanguageName          string
	DefaultNodeURL        string
	UserDir               string
	ToolchainManifestFile string
}

var defaultLayout = Layout{
	ManifestFile:          "Forc.toml",
	LockFile:              "Forc.lock",
	TestManifestFile:      "Cargo.toml",
	TestDir:               "tests",
	SourceDir:             "src",
	LibEntry:              "lib.sw",
	MainEntry:             "main.sw",
	SourceExtension:       "sw",
	StorageKeyPrefix:      "storage_",
	LanguageName:          "Sway",
	DefaultNodeURL:        "127.0.0.1:4000",
	UserDir:               ".forc",
	ToolchainManifestFile: "toolchain.toml",
}

// Default returns the canonical layout. Every call returns an equal value.
func Default() Layout {
	return defaultLayout
}

// ManifestPath returns the project manifest path under root.
func (l Layout) ManifestPath(root string) string {
	return filepath.Join(root, l.ManifestFile)
}

// LockPath returns the lock file path under root.
func (l Layout) LockPath(root string) string {
	return filepath.Join(root, l.LockFile)
}

// SourcePath returns the source directory under root.
func (l Layout) SourcePath(root string) string {
	return filepath.Join(root, l.SourceDir)
}

// TestPath returns the test directory under root.
func (l Layout) TestPath(root string) string {
	return filepath.Join(root, l.TestDir)
}

// EntryPath returns the entry file of the given kind under root.
func (l Layout) EntryPath(root string, kind EntryKind) string {
	name := l.MainEntry
	if kind == EntryLib {
		name = l.LibEntry
	}
	return filepath.Join(l.SourcePath(root), name)
}

// ToolchainManifestPath returns the path of forc's own manifest inside its
// installation root.
func (l Layout) ToolchainManifestPath(installRoot string) string {
	return filepath.Join(installRoot, l.ToolchainManifestFile)
}

// UserDirPath returns the per-user forc directory under home.
func (l Layout) UserDirPath(home string) string {
	return filepath.Join(home, l.UserDir)
}

// IsSourceFile reports whether name carries the source extension.
func (l Layout) IsSourceFile(name string) bool {
	return strings.TrimPrefix(filepath.Ext(name), ".") == l.SourceExtension
}

// StorageKey prefixes a storage field name with the reserved domain separator.
func (l Layout) StorageKey(field string) string {
	return l.StorageKeyPrefix + field
}

// FindProjectRoot walks up from startDir until it finds a directory holding
// the project manifest.
func (l Layout) FindProjectRoot(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	currentDir := absDir
	for {
		if fileExists(l.ManifestPath(currentDir)) {
			return currentDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", fmt.Errorf("%w in %s or any parent directory", ErrNoProject, absDir)
		}
		currentDir = parentDir
	}
}

// fileExists checks if a regular file exists.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
