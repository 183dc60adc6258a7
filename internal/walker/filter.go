package walker

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExcludes are directory names never descended into.
var DefaultExcludes = []string{
	".git",
	"node_modules",
	".bpmnav",
	".svelte-kit",
	".idea",
	".vscode",
}

// Filter selects diagram files by slash-separated path relative to the walk
// root. A pattern without a slash also matches the base name alone, so
// "main.svg" finds the file at any depth.
type Filter struct {
	include []string
	exclude []string
}

// NewFilter validates the patterns up front so a typo in the config fails
// the export instead of silently selecting nothing. An empty include list
// means DefaultInclude.
func NewFilter(include, exclude []string) (*Filter, error) {
	if len(include) == 0 {
		include = DefaultInclude
	}
	f := &Filter{}
	var err error
	if f.include, err = normalizePatterns(include); err != nil {
		return nil, err
	}
	if f.exclude, err = normalizePatterns(exclude); err != nil {
		return nil, err
	}
	return f, nil
}

func normalizePatterns(patterns []string) ([]string, error) {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(filepath.ToSlash(p))
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("walker: invalid pattern %q", p)
		}
		out = append(out, p)
	}
	return out, nil
}

// Match reports whether relPath is included and not excluded.
func (f *Filter) Match(relPath string) bool {
	rel := filepath.ToSlash(relPath)
	return matchesAny(rel, f.include) && !matchesAny(rel, f.exclude)
}

// SkipDir reports whether a directory is pruned from the walk.
func (f *Filter) SkipDir(name string) bool {
	for _, excl := range DefaultExcludes {
		if strings.EqualFold(name, excl) {
			return true
		}
	}
	return false
}

func matchesAny(rel string, patterns []string) bool {
	base := path.Base(rel)
	for _, p := range patterns {
		if doublestar.MatchUnvalidated(p, rel) {
			return true
		}
		if !strings.Contains(p, "/") && doublestar.MatchUnvalidated(p, base) {
			return true
		}
	}
	return false
}
