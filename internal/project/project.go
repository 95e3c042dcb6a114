// Package project resolves a Sway package on disk using the canonical layout.
package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	ferrors "github.com/swaylang/forc/internal/errors"
	"github.com/swaylang/forc/internal/layout"
)

// Project describes a resolved package.
type Project struct {
	Root     string
	Manifest string

	// Lock is the lock file path, or "" if the package has not been locked yet.
	Lock string

	Entry string
	Kind  layout.EntryKind

	// Sources are source files relative to Root, sorted.
	Sources []string

	HasTests bool
}

// Resolve finds the package containing start and describes it.
func Resolve(l layout.Layout, start string) (*Project, error) {
	root, err := l.FindProjectRoot(start)
	if err != nil {
		return nil, ferrors.New(ferrors.ErrCodeProjectNotFound, err.Error(), err).
			WithDetail("path", start).
			WithSuggestion(fmt.Sprintf("run forc inside a %s package (a directory containing %s)", l.LanguageName, l.ManifestFile))
	}

	p := &Project{
		Root:     root,
		Manifest: l.ManifestPath(root),
	}

	if isFile(l.LockPath(root)) {
		p.Lock = l.LockPath(root)
	}

	switch {
	case isFile(l.EntryPath(root, layout.EntryMain)):
		p.Entry, p.Kind = l.EntryPath(root, layout.EntryMain), layout.EntryMain
	case isFile(l.EntryPath(root, layout.EntryLib)):
		p.Entry, p.Kind = l.EntryPath(root, layout.EntryLib), layout.EntryLib
	default:
		return nil, ferrors.New(ferrors.ErrCodeEntryNotFound,
			fmt.Sprintf("package %s has neither %s nor %s in %s/", root, l.MainEntry, l.LibEntry, l.SourceDir), nil).
			WithDetail("path", l.SourcePath(root))
	}

	sources, err := collectSources(l, root)
	if err != nil {
		return nil, err
	}
	p.Sources = sources

	if info, err := os.Stat(l.TestPath(root)); err == nil && info.IsDir() {
		p.HasTests = true
	}

	return p, nil
}

// collectSources lists source files under the source directory.
func collectSources(l layout.Layout, root string) ([]string, error) {
	var sources []string
	err := filepath.WalkDir(l.SourcePath(root), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !l.IsSourceFile(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		sources = append(sources, rel)
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("scan %s: %w", l.SourcePath(root), err)
	}
	sort.Strings(sources)
	return sources, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
