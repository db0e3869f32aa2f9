// Package advisor defines the rule kinds, the rule capability and the ordered
// rule table consulted by the check engine.
package advisor

import (
	"github.com/pkg/errors"

	"github.com/nsxbet/migration-linter/pkg/pgparser"
	"github.com/nsxbet/migration-linter/pkg/types"
)

// Advisor is the interface for advisor.
//
// Analyze returns the spans of the offending statements, in emission order.
// It must not modify the statements and must handle any tree the parser accepts.
type Advisor interface {
	Analyze(stmts []*pgparser.Statement) []types.Span
}

// AdvisorFunc adapts an ordinary function to the Advisor interface.
type AdvisorFunc func(stmts []*pgparser.Statement) []types.Span

// Analyze calls f(stmts).
func (f AdvisorFunc) Analyze(stmts []*pgparser.Statement) []types.Span {
	return f(stmts)
}

// Rule binds a kind to its advisor and its fixed explanatory messages.
type Rule struct {
	Kind     Kind
	Advisor  Advisor
	Messages []types.Message
}

// Check runs the rule's advisor and converts every span into a violation.
// All violations of one call share the rule's message slice.
func (r *Rule) Check(stmts []*pgparser.Statement) []*types.Violation {
	spans := r.Advisor.Analyze(stmts)
	if len(spans) == 0 {
		return nil
	}
	name := r.Kind.String()
	violations := make([]*types.Violation, 0, len(spans))
	for _, span := range spans {
		violations = append(violations, &types.Violation{
			Kind:     name,
			Span:     span,
			Messages: r.Messages,
		})
	}
	return violations
}

func (r *Rule) clone() Rule {
	c := *r
	c.Messages = make([]types.Message, len(r.Messages))
	copy(c.Messages, r.Messages)
	return c
}

// Table is an ordered, immutable list of rules. The order is the tie-break
// order used for violations that start at the same offset.
type Table struct {
	rules  []*Rule
	byKind map[Kind]*Rule
}

// Rules returns copies of the rules in registration order. Changing a
// returned rule does not change the table.
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	for i, r := range t.rules {
		out[i] = r.clone()
	}
	return out
}

// Lookup returns a copy of the rule registered for kind.
func (t *Table) Lookup(kind Kind) (Rule, bool) {
	r, ok := t.byKind[kind]
	if !ok {
		return Rule{}, false
	}
	return r.clone(), true
}

// Len returns the number of rules.
func (t *Table) Len() int {
	return len(t.rules)
}

// Builder collects rules for a Table.
type Builder struct {
	rules []*Rule
	errs  []error
	seen  map[Kind]bool
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{seen: make(map[Kind]bool)}
}

// Register appends a rule. Validation errors are reported by Build.
func (b *Builder) Register(kind Kind, adv Advisor, messages ...types.Message) *Builder {
	switch {
	case !kind.Valid():
		b.errs = append(b.errs, errors.Errorf("advisor: unknown rule kind %d", int(kind)))
		return b
	case adv == nil:
		b.errs = append(b.errs, errors.Errorf("advisor: advisor for %v is nil", kind))
		return b
	case len(messages) == 0:
		b.errs = append(b.errs, errors.Errorf("advisor: rule %v has no messages", kind))
		return b
	case b.seen[kind]:
		b.errs = append(b.errs, errors.Errorf("advisor: Register called twice for rule %v", kind))
		return b
	}
	b.seen[kind] = true

	msgs := make([]types.Message, len(messages))
	copy(msgs, messages)
	b.rules = append(b.rules, &Rule{Kind: kind, Advisor: adv, Messages: msgs})
	return b
}

// Build returns the table, or the first registration error.
func (b *Builder) Build() (*Table, error) {
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}
	t := &Table{
		rules:  make([]*Rule, len(b.rules)),
		byKind: make(map[Kind]*Rule, len(b.rules)),
	}
	copy(t.rules, b.rules)
	for _, r := range t.rules {
		t.byKind[r.Kind] = r
	}
	return t, nil
}

// MustBuild is like Build but panics on a registration error.
func (b *Builder) MustBuild() *Table {
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}
