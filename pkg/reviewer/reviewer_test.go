package reviewer

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsxbet/migration-linter/pkg/advisor"
	"github.com/nsxbet/migration-linter/pkg/config"
	"github.com/nsxbet/migration-linter/pkg/pgparser"
	"github.com/nsxbet/migration-linter/pkg/types"
)

const sampleMigration = `ALTER TABLE "table_name" RENAME COLUMN "column_name" TO "new_column_name";
CREATE INDEX "field_name_idx" ON "table_name" ("field_name");`

const richMigration = `CREATE TABLE accounts (id INT, code CHAR(4), name VARCHAR(100));
ALTER TABLE users ADD COLUMN age INT NOT NULL;
ALTER TABLE users ALTER COLUMN email TYPE TEXT;
CREATE INDEX idx_users_age ON users (age);
ALTER TABLE users RENAME TO customers;
DROP DATABASE legacy;`

// spyAdvisor returns fixed spans and counts how often it runs.
type spyAdvisor struct {
	spans []types.Span
	calls atomic.Int32
}

func (s *spyAdvisor) Analyze([]*pgparser.Statement) []types.Span {
	s.calls.Add(1)
	return s.spans
}

func spyTable(t *testing.T, advisors ...*spyAdvisor) *advisor.Table {
	t.Helper()
	b := advisor.NewBuilder()
	for i, adv := range advisors {
		b.Register(advisor.AllKinds()[i], adv, types.Note("spy"))
	}
	table, err := b.Build()
	require.NoError(t, err)
	return table
}

func kindsOf(violations []*types.Violation) []string {
	kinds := make([]string, 0, len(violations))
	for _, v := range violations {
		kinds = append(kinds, v.Kind)
	}
	return kinds
}

func TestCheck_SampleMigration(t *testing.T) {
	violations, err := Check(sampleMigration, []string{"prefer-robust-stmts"})
	require.NoError(t, err)
	require.Len(t, violations, 2)

	assert.Equal(t, []string{"renaming-column", "require-concurrent-index-creation"}, kindsOf(violations))

	indexStart := strings.Index(sampleMigration, "CREATE INDEX")
	assert.Equal(t, 0, violations[0].Span.Start)
	assert.Equal(t, indexStart, violations[1].Span.Start)
	assert.Less(t, violations[0].Span.Start, violations[1].Span.Start)
	assert.Equal(t, `CREATE INDEX "field_name_idx" ON "table_name" ("field_name")`, violations[1].Span.Text(sampleMigration))

	assert.Equal(t, []types.Message{
		types.Note("Creating an index blocks writes."),
		types.Help("Create the index CONCURRENTLY."),
	}, violations[1].Messages)
}

func TestCheck_SortedByStart(t *testing.T) {
	violations, err := Check(richMigration, nil)
	require.NoError(t, err)
	require.NotEmpty(t, violations)

	for i := 1; i < len(violations); i++ {
		assert.LessOrEqual(t, violations[i-1].Span.Start, violations[i].Span.Start)
	}
	for _, v := range violations {
		assert.True(t, v.Span.Valid(len(richMigration)), "%v out of range", v)
		_, ok := advisor.LookupKind(v.Kind)
		assert.True(t, ok, "unknown kind %q", v.Kind)
		assert.NotEmpty(t, v.Messages)
	}
}

func TestCheck_ExclusionLaw(t *testing.T) {
	all, err := Check(richMigration, nil)
	require.NoError(t, err)

	for _, kind := range advisor.AllKinds() {
		t.Run(kind.String(), func(t *testing.T) {
			got, err := Check(richMigration, []string{kind.String()})
			require.NoError(t, err)

			want := []*types.Violation{}
			for _, v := range all {
				if v.Kind != kind.String() {
					want = append(want, v)
				}
			}
			assert.Equal(t, want, got)
		})
	}

	var names []string
	for _, kind := range advisor.AllKinds() {
		names = append(names, kind.String())
	}
	got, err := Check(richMigration, names)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCheck_UnknownExclusionsAreIgnored(t *testing.T) {
	want, err := Check(richMigration, nil)
	require.NoError(t, err)

	got, err := Check(richMigration, []string{"not-a-rule", "", "Renaming-Table"})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCheck_Empty(t *testing.T) {
	tests := []struct {
		name string
		sql  string
	}{
		{"empty", ""},
		{"whitespace", "  \n\t\n"},
		{"comment only", "-- nothing to see here\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			violations, err := Check(tc.sql, nil)
			require.NoError(t, err)
			assert.NotNil(t, violations)
			assert.Empty(t, violations)
		})
	}
}

func TestCheck_ParseFailureShortCircuits(t *testing.T) {
	spy := &spyAdvisor{spans: []types.Span{{Start: 0, End: 1}}}
	r := New(WithTable(spyTable(t, spy)))

	violations, err := r.Check("CREATE INVALID SYNTAX;", nil)
	require.Error(t, err)
	assert.Nil(t, violations)

	var syntaxErr *pgparser.SyntaxError
	assert.True(t, errors.As(err, &syntaxErr))
	assert.Equal(t, int32(0), spy.calls.Load())
}

func TestCheck_TieBreakFollowsTableOrder(t *testing.T) {
	first := &spyAdvisor{spans: []types.Span{{Start: 5, End: 8}, {Start: 0, End: 3}}}
	second := &spyAdvisor{spans: []types.Span{{Start: 0, End: 9}, {Start: 5, End: 6}}}
	r := New(WithTable(spyTable(t, first, second)))

	violations, err := r.Check("SELECT 1;", nil)
	require.NoError(t, err)
	require.Len(t, violations, 4)

	firstKind := advisor.AllKinds()[0].String()
	secondKind := advisor.AllKinds()[1].String()
	assert.Equal(t, []string{firstKind, secondKind, firstKind, secondKind}, kindsOf(violations))
	assert.Equal(t, types.Span{Start: 0, End: 3}, violations[0].Span)
	assert.Equal(t, types.Span{Start: 0, End: 9}, violations[1].Span)
	assert.Equal(t, types.Span{Start: 5, End: 8}, violations[2].Span)
	assert.Equal(t, types.Span{Start: 5, End: 6}, violations[3].Span)
}

func TestCheck_ExcludedRuleDoesNotRun(t *testing.T) {
	excluded := &spyAdvisor{spans: []types.Span{{Start: 0, End: 1}}}
	kept := &spyAdvisor{}
	r := New(WithTable(spyTable(t, excluded, kept)))

	_, err := r.Check("SELECT 1;", []string{advisor.AllKinds()[0].String()})
	require.NoError(t, err)
	assert.Equal(t, int32(0), excluded.calls.Load())
	assert.Equal(t, int32(1), kept.calls.Load())
}

func TestCheck_Concurrent(t *testing.T) {
	want, err := Check(richMigration, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := Check(richMigration, nil)
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}

func TestReview(t *testing.T) {
	r := New().WithConfigObject(&config.Config{ExcludedRules: []string{"prefer-robust-stmts"}})

	result, err := r.Review(sampleMigration)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Summary.Total)
	assert.Equal(t, map[string]int{
		"renaming-column":                   1,
		"require-concurrent-index-creation": 1,
	}, result.Summary.ByKind)
	assert.True(t, result.HasViolations())

	result, err = r.Review(sampleMigration, WithExcludedRules("renaming-column", "require-concurrent-index-creation"))
	require.NoError(t, err)
	assert.True(t, result.IsClean())
	assert.Empty(t, result.Violations)
}

func TestReview_SyntaxError(t *testing.T) {
	result, err := New().Review("CREATE TABLE users (id INT")
	require.Error(t, err)
	assert.Nil(t, result)
}
