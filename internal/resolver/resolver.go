// Package resolver maps a clicked sub-process shape to the diagram that
// renders it.
//
// The exporter gives no structural link between a shape and a diagram, so
// matching is a best-effort text heuristic. It is deterministic: entries are
// tried in ascending index order starting at 1 (the main process is never a
// target), the filename test runs before the title test, and the first hit
// wins. When nothing matches the first sub-process diagram is returned,
// because a static document cannot ask the viewer to disambiguate.
package resolver

import (
	"strings"

	"github.com/ziadkadry99/bpmnav/internal/diagram"
)

// TitleKeyword marks a diagram as a sub-process by its title.
const TitleKeyword = "subprocess"

// Rule names the step of the heuristic that produced a match.
type Rule string

const (
	RuleFilename Rule = "filename"
	RuleTitle    Rule = "title"
	RuleFallback Rule = "fallback"
	RuleNone     Rule = "none"
)

// Catalog is the read side of the diagram store.
type Catalog interface {
	Count() int
	Get(index int) (diagram.Entry, error)
}

// Match is the outcome of one resolution.
type Match struct {
	Index int  `json:"index"`
	Rule  Rule `json:"rule"`
}

// Found reports whether the match points at a diagram.
func (m Match) Found() bool { return m.Rule != RuleNone }

// Resolver resolves shape identifiers against a catalog.
type Resolver struct {
	catalog Catalog
}

// New returns a Resolver over catalog.
func New(catalog Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve returns the index of the diagram for shapeID, or false when the
// catalog holds no sub-process diagrams at all.
func (r *Resolver) Resolve(shapeID string) (int, bool) {
	m := r.Explain(shapeID)
	return m.Index, m.Found()
}

// Explain is Resolve plus the rule that decided the result.
func (r *Resolver) Explain(shapeID string) Match {
	n := r.catalog.Count()
	needle := strings.ToLower(shapeID)
	for i := 1; i < n; i++ {
		e, err := r.catalog.Get(i)
		if err != nil {
			continue
		}
		if needle != "" && strings.Contains(strings.ToLower(e.Filename), needle) {
			return Match{Index: i, Rule: RuleFilename}
		}
		if strings.Contains(strings.ToLower(e.Title), TitleKeyword) {
			return Match{Index: i, Rule: RuleTitle}
		}
	}
	if n > 1 {
		return Match{Index: 1, Rule: RuleFallback}
	}
	return Match{Index: -1, Rule: RuleNone}
}
