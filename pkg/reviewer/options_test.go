package reviewer

import (
	"testing"
)

func TestWithExcludedRules(t *testing.T) {
	opts := &reviewOptions{}
	WithExcludedRules("prefer-robust-stmts")(opts)
	WithExcludedRules("ban-char-field", "renaming-table")(opts)

	want := []string{"prefer-robust-stmts", "ban-char-field", "renaming-table"}
	if len(opts.excludedRules) != len(want) {
		t.Fatalf("excludedRules = %v, want %v", opts.excludedRules, want)
	}
	for i := range want {
		if opts.excludedRules[i] != want[i] {
			t.Errorf("excludedRules[%d] = %q, want %q", i, opts.excludedRules[i], want[i])
		}
	}
}

func TestWithTable(t *testing.T) {
	table := spyTable(t, &spyAdvisor{})
	r := New(WithTable(table))
	if r.Table() != table {
		t.Error("WithTable() did not set the table")
	}

	if New().Table() == nil {
		t.Error("New() without options has no table")
	}
}
