package reviewer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nsxbet/migration-linter/pkg/types"
)

// ReviewResult contains the results of a review operation.
type ReviewResult struct {
	// Violations contains all findings ordered by start offset.
	// Empty if no issues were found.
	Violations []*types.Violation

	// Summary provides aggregate statistics about the findings.
	Summary Summary
}

// Summary provides aggregate statistics about review findings.
type Summary struct {
	// Total number of violations.
	Total int

	// ByKind counts violations per rule name.
	ByKind map[string]int
}

// HasViolations returns true if the review found anything.
//
// This is useful for CI/CD pipelines that should fail on violations:
//
//	if result.HasViolations() {
//	    os.Exit(1)
//	}
func (r *ReviewResult) HasViolations() bool {
	return r.Summary.Total > 0
}

// IsClean returns true if the review found no violations.
func (r *ReviewResult) IsClean() bool {
	return r.Summary.Total == 0
}

// String returns a human-readable summary of the review results.
//
// Example output:
//
//	Review Results: 3 total (prefer-robust-stmts: 2, renaming-column: 1)
func (r *ReviewResult) String() string {
	if r.Summary.Total == 0 {
		return "Review Results: 0 total"
	}

	kinds := make([]string, 0, len(r.Summary.ByKind))
	for kind := range r.Summary.ByKind {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	parts := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		parts = append(parts, fmt.Sprintf("%s: %d", kind, r.Summary.ByKind[kind]))
	}
	return fmt.Sprintf("Review Results: %d total (%s)", r.Summary.Total, strings.Join(parts, ", "))
}

// FilterByKind returns a new slice containing only violations of the named rule.
//
//	renames := result.FilterByKind("renaming-column")
func (r *ReviewResult) FilterByKind(kind string) []*types.Violation {
	filtered := make([]*types.Violation, 0)
	for _, v := range r.Violations {
		if v.Kind == kind {
			filtered = append(filtered, v)
		}
	}
	return filtered
}
