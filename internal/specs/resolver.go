// Package specs discovers the spec files a run should execute.
package specs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Query describes which spec files to select.
type Query struct {
	// Root is the directory discovery starts from.
	Root string
	// TestFiles is a glob relative to Root ("**" crosses directories).
	TestFiles string
	// Identifiers are case-insensitive substrings; a spec is kept when its path
	// contains at least one of them. Empty keeps every spec.
	Identifiers []string
	// Exclude patterns drop specs. Patterns without '/' match the base name,
	// patterns with '/' match the full or root-relative path. Dot files
	// match '*'.
	Exclude []string
}

// Resolve returns the spec files selected by q, in file-system enumeration
// order and without duplicates.
//
// A missing root yields a *ResolutionError of kind NotFound; an empty
// selection yields kind EmptyResult. Both are meant to be reported as
// warnings by the caller.
func Resolve(ctx context.Context, q Query) ([]string, error) {
	if ctx == nil {
		return nil, errors.New("context is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(q.Root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ResolutionError{Kind: NotFound, Root: q.Root, Identifiers: q.Identifiers, Err: ErrRootNotFound}
		}
		return nil, fmt.Errorf("stat spec root %s: %w", q.Root, err)
	}
	if !info.IsDir() {
		return nil, &ResolutionError{Kind: NotFound, Root: q.Root, Identifiers: q.Identifiers, Err: fmt.Errorf("%w: not a directory", ErrRootNotFound)}
	}

	testFiles := strings.TrimSpace(q.TestFiles)
	if testFiles == "" {
		testFiles = "**/*"
	}
	if !doublestar.ValidatePattern(testFiles) {
		return nil, fmt.Errorf("invalid test files glob %q", testFiles)
	}
	for _, p := range q.Exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q", p)
		}
	}

	matches, err := doublestar.Glob(os.DirFS(q.Root), testFiles, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %s in %s: %w", testFiles, q.Root, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	needles := lowerAll(q.Identifiers)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, rel := range matches {
		full := filepath.Join(q.Root, filepath.FromSlash(rel))
		if _, dup := seen[full]; dup {
			continue
		}
		seen[full] = struct{}{}

		slashed := filepath.ToSlash(full)
		if !containsAny(strings.ToLower(slashed), needles) {
			continue
		}
		if matchesAnyExclude(q.Exclude, slashed, rel) {
			continue
		}
		out = append(out, full)
	}

	if len(out) == 0 {
		return nil, &ResolutionError{Kind: EmptyResult, Root: q.Root, Identifiers: q.Identifiers}
	}
	return out, nil
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func containsAny(haystack string, needles []string) bool {
	if len(needles) == 0 {
		return true
	}
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func matchesAnyExclude(patterns []string, slashed, rel string) bool {
	for _, p := range patterns {
		if matchExclude(p, slashed, rel) {
			return true
		}
	}
	return false
}

// matchExclude matches bare patterns like "*.hot-update.js" against the base
// name wherever the file lives. Patterns with a directory component match
// either the full path or the path relative to the spec root.
func matchExclude(pattern, slashed, rel string) bool {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return false
	}
	if !strings.Contains(pattern, "/") {
		matched, _ := doublestar.Match(pattern, path.Base(slashed))
		return matched
	}
	if matched, _ := doublestar.Match(pattern, slashed); matched {
		return true
	}
	matched, _ := doublestar.Match(pattern, rel)
	return matched
}
