// Package scan lists the files and directories under a root, honoring
// .gitignore patterns the way git does.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/repoyank/repoyank/pick"
)

// Ignorer answers whether a path is excluded by the repository's
// .gitignore files (all of them, nested included).
type Ignorer struct {
	matcher gitignore.Matcher
	root    string
}

// NewIgnorer reads every .gitignore under root.
func NewIgnorer(root string) (*Ignorer, error) {
	patterns, err := gitignore.ReadPatterns(osfs.New(root), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read gitignore patterns: %w", err)
	}
	return &Ignorer{matcher: gitignore.NewMatcher(patterns), root: root}, nil
}

// IsIgnored reports whether path (absolute or root-relative) is excluded.
// The .git directory is always excluded.
func (ig *Ignorer) IsIgnored(path string, isDir bool) (bool, error) {
	if isDir && filepath.Base(path) == ".git" {
		return true, nil
	}
	rel := path
	if filepath.IsAbs(path) {
		var err error
		rel, err = filepath.Rel(ig.root, path)
		if err != nil {
			return false, err
		}
	}
	if rel == "." {
		return false, nil
	}
	parts := strings.Split(rel, string(os.PathSeparator))
	return ig.matcher.Match(parts, isDir), nil
}

// Scan walks root and returns its entries sorted by path, the root itself
// first. Gitignored subtrees are skipped unless includeIgnored is set; the
// .git directory is always skipped. When types is non-empty, files must
// carry one of the given extensions (without the dot); directories are
// kept regardless.
func Scan(root string, types []string, includeIgnored bool) ([]pick.Entry, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot scan %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("cannot scan %s: not a directory", root)
	}

	var ig *Ignorer
	if !includeIgnored {
		ig, err = NewIgnorer(root)
		if err != nil {
			return nil, err
		}
	}

	wanted := make(map[string]bool, len(types))
	for _, t := range types {
		wanted[strings.ToLower(strings.TrimPrefix(t, "."))] = true
	}

	var entries []pick.Entry
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		isDir := d.IsDir()

		if isDir && filepath.Base(path) == ".git" {
			return filepath.SkipDir
		}
		if ig != nil && rel != "." {
			ignored, err := ig.IsIgnored(rel, isDir)
			if err != nil {
				return err
			}
			if ignored {
				if isDir {
					return filepath.SkipDir
				}
				return nil
			}
		}
		if !isDir && len(wanted) > 0 {
			ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
			if !wanted[ext] {
				return nil
			}
		}

		entries = append(entries, pick.Entry{Path: rel, IsDir: isDir})
		return nil
	})
	if err != nil {
		return nil, err
	}
	// WalkDir visits lexically within each directory and recurses in
	// place, so parents precede their children and the order is
	// deterministic. Keep it; the tree labeler depends on it.
	return entries, nil
}
