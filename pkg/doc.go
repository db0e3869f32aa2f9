// Package pkg provides a linter for PostgreSQL schema migrations.
//
// The linter parses a migration once, runs an ordered table of rules over the
// parsed statements and reports every statement that is known to be risky to
// run against a live database.
//
// # Package Structure
//
//   - reviewer: High-level API for checking migrations (recommended starting point)
//   - advisor: Rule kinds, rules and the ordered rule table
//   - rules/postgres: The built-in PostgreSQL rules and the default table
//   - pgparser: ANTLR-based PostgreSQL parser and statement splitting
//   - types: Violations, messages, spans and positions
//   - config: Configuration loading
//   - report: Text, JSON, YAML and table reports
//   - watcher: Directory watcher used by the watch command
//   - logger: Logging setup
//
// # Getting Started
//
//	violations, err := reviewer.Check(sql, nil)
//	if err != nil {
//	    var syntaxErr *pgparser.SyntaxError
//	    if errors.As(err, &syntaxErr) {
//	        // the migration does not parse
//	    }
//	    return err
//	}
//	for _, v := range violations {
//	    fmt.Println(v.Kind, v.Span.Text(sql))
//	}
//
// # Rules
//
// Rules are evaluated in a fixed order. Violations are returned sorted by the
// byte offset where the offending statement starts; violations starting at
// the same offset keep the rule order.
//
//   - require-concurrent-index-creation
//   - renaming-column
//   - renaming-table
//   - changing-column-type
//   - adding-not-nullable-field
//   - adding-field-with-default
//   - disallowed-unique-constraint
//   - constraint-missing-not-valid
//   - ban-drop-database
//   - prefer-text-field
//   - prefer-robust-stmts
//   - ban-char-field
//
// Any rule can be skipped by passing its name in the exclusion list. Names
// that match no rule are ignored.
//
// # Thread Safety
//
// All public APIs are safe for concurrent use by multiple goroutines.
// The default rule table is built once and never modified.
package pkg
