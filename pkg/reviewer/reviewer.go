// Package reviewer provides a high-level API for linting PostgreSQL migrations.
//
// The engine parses the migration once, runs every enabled rule of a rule
// table against the parsed statements and returns the merged violations
// ordered by their start offset.
//
// # Quick Start
//
//	violations, err := reviewer.Check(sql, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, v := range violations {
//	    fmt.Printf("%s at %d\n", v.Kind, v.Span.Start)
//	}
//
// # Excluding Rules
//
//	violations, err := reviewer.Check(sql, []string{"prefer-robust-stmts"})
//
// # Using Custom Configuration
//
//	r := reviewer.New()
//	if err := r.WithConfig(".migration-linter.yaml"); err != nil {
//	    log.Fatal(err)
//	}
//	result, err := r.Review(sql)
package reviewer

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/nsxbet/migration-linter/pkg/advisor"
	"github.com/nsxbet/migration-linter/pkg/config"
	"github.com/nsxbet/migration-linter/pkg/pgparser"
	"github.com/nsxbet/migration-linter/pkg/rules/postgres"
	"github.com/nsxbet/migration-linter/pkg/types"
)

// Reviewer runs a rule table against migration source text.
//
// Reviewer is safe for concurrent use by multiple goroutines as long as its
// configuration is not changed while checks are running.
type Reviewer struct {
	config *config.Config
	table  *advisor.Table
}

// Option configures a Reviewer.
type Option func(*Reviewer)

// WithTable makes the reviewer use the given rule table instead of the
// default PostgreSQL table.
func WithTable(table *advisor.Table) Option {
	return func(r *Reviewer) {
		r.table = table
	}
}

// New creates a Reviewer using the default rule table and an empty configuration.
//
// Example:
//
//	r := reviewer.New()
//	result, err := r.Review("CREATE INDEX idx ON users (email);")
func New(opts ...Option) *Reviewer {
	r := &Reviewer{
		config: config.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.table == nil {
		r.table = postgres.DefaultTable()
	}
	return r
}

// WithConfig loads the configuration from a YAML or JSON file.
// This replaces the current configuration.
func (r *Reviewer) WithConfig(filename string) error {
	cfg, err := config.LoadFromFile(filename)
	if err != nil {
		return fmt.Errorf("failed to load config from %s: %w", filename, err)
	}
	r.config = cfg
	return nil
}

// WithConfigObject sets a configuration object directly.
// This replaces the current configuration.
//
// Returns the Reviewer for method chaining.
func (r *Reviewer) WithConfigObject(cfg *config.Config) *Reviewer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	r.config = cfg
	return r
}

// Table returns the rule table used by the reviewer.
func (r *Reviewer) Table() *advisor.Table {
	return r.table
}

// Check lints sql with the default rule table, skipping the rules named in
// excluded. Unknown names in excluded are ignored.
//
// A parse failure is returned as a *pgparser.SyntaxError and no rule runs.
func Check(sql string, excluded []string) ([]*types.Violation, error) {
	return New().Check(sql, excluded)
}

// Check lints sql with the reviewer's rule table, skipping the rules named in
// excluded. The configuration's excluded rules are not applied; use Review
// for that.
//
// The result is ordered by span start. Violations that start at the same
// offset keep the rule table order, then the order in which the rule emitted
// them. The returned slice is never nil when err is nil.
func (r *Reviewer) Check(sql string, excluded []string) ([]*types.Violation, error) {
	parseResult, err := pgparser.ParsePostgreSQL(sql)
	if err != nil {
		return nil, err
	}

	skip, unknown := advisor.ResolveKinds(excluded)
	if len(unknown) > 0 {
		slog.Debug("ignoring unknown excluded rules", "rules", unknown)
	}

	violations := []*types.Violation{}
	for _, rule := range r.table.Rules() {
		if skip[rule.Kind] {
			continue
		}
		violations = append(violations, rule.Check(parseResult.Statements)...)
	}

	sort.SliceStable(violations, func(i, j int) bool {
		return violations[i].Span.Start < violations[j].Span.Start
	})

	slog.Debug("checked migration",
		"statements", len(parseResult.Statements),
		"violations", len(violations),
	)
	return violations, nil
}

// Review lints sql and summarizes the findings. The configuration's excluded
// rules and the ones given through options are both skipped.
//
//	result, err := r.Review(sql, reviewer.WithExcludedRules("prefer-robust-stmts"))
//	if err != nil {
//	    return err
//	}
//	if result.HasViolations() {
//	    fmt.Println(result)
//	}
func (r *Reviewer) Review(sql string, opts ...ReviewOption) (*ReviewResult, error) {
	reviewOpts := &reviewOptions{}
	for _, opt := range opts {
		opt(reviewOpts)
	}

	excluded := make([]string, 0, len(r.config.ExcludedRules)+len(reviewOpts.excludedRules))
	excluded = append(excluded, r.config.ExcludedRules...)
	excluded = append(excluded, reviewOpts.excludedRules...)

	violations, err := r.Check(sql, excluded)
	if err != nil {
		return nil, err
	}

	return &ReviewResult{
		Violations: violations,
		Summary:    calculateSummary(violations),
	}, nil
}

// calculateSummary computes aggregate statistics from violations
func calculateSummary(violations []*types.Violation) Summary {
	summary := Summary{ByKind: make(map[string]int)}
	for _, v := range violations {
		summary.Total++
		summary.ByKind[v.Kind]++
	}
	return summary
}
