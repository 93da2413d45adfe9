package source

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ResolveFiles expands glob patterns to the regular files they match.
// Relative patterns are resolved against root. Supports both single-level
// wildcards (*) and recursive wildcards (**).
//
// Examples:
//   - "ontologies/*.nt" → every N-Triples file directly under ontologies
//   - "**/*.jsonld" → every JSON-LD file below root
//   - "core.nt" → the file itself, which must exist
//
// The result is sorted and free of duplicates.
func ResolveFiles(root string, patterns []string) ([]string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var resolved []string

	for _, pattern := range patterns {
		paths, err := resolvePattern(root, pattern)
		if err != nil {
			return nil, fmt.Errorf("resolve pattern %q: %w", pattern, err)
		}

		for _, p := range paths {
			if !seen[p] {
				seen[p] = true
				resolved = append(resolved, p)
			}
		}
	}

	slices.Sort(resolved)
	return resolved, nil
}

// resolvePattern expands a single glob pattern to files. A glob that
// matches nothing is not an error; a literal path that does not exist is.
func resolvePattern(root, pattern string) ([]string, error) {
	if !filepath.IsAbs(pattern) {
		pattern = filepath.Join(root, filepath.FromSlash(pattern))
	}

	// Check if the pattern contains glob characters
	if !containsGlob(pattern) {
		info, err := os.Stat(pattern)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return nil, fmt.Errorf("path is a directory: %s", pattern)
		}
		return []string{pattern}, nil
	}

	// Use doublestar for ** support
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob error: %w", err)
	}
	return matches, nil
}

// containsGlob checks if a pattern contains glob characters.
func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
