// Package postgres implements the PostgreSQL migration rules and the default
// rule table.
package postgres

import (
	"sync"

	"github.com/nsxbet/migration-linter/pkg/advisor"
	"github.com/nsxbet/migration-linter/pkg/types"
)

// DefaultTable returns the process-wide rule table. It is built on first use
// and shared by every caller afterwards.
var DefaultTable = sync.OnceValue(func() *advisor.Table {
	return NewBuilder().MustBuild()
})

// NewBuilder returns a builder preloaded with every PostgreSQL rule, in the
// order used to break ties between violations that start at the same offset.
func NewBuilder() *advisor.Builder {
	return advisor.NewBuilder().
		Register(advisor.RequireConcurrentIndexCreation, &IndexConcurrentlyAdvisor{},
			types.Note("Creating an index blocks writes."),
			types.Help("Create the index CONCURRENTLY."),
		).
		Register(advisor.RenamingColumn, &RenamingColumnAdvisor{},
			types.Note("Renaming a column may break existing clients."),
		).
		Register(advisor.RenamingTable, &RenamingTableAdvisor{},
			types.Note("Renaming a table may break existing clients."),
		).
		Register(advisor.ChangingColumnType, &ColumnDisallowChangeTypeAdvisor{},
			types.Note("Requires an ACCESS EXCLUSIVE lock on the table which blocks reads."),
			types.Note("Changing the type may break existing clients."),
		).
		Register(advisor.AddingNotNullableField, &AddingNotNullableFieldAdvisor{},
			types.Note("Adding a NOT NULL field requires exclusive locks and table rewrites."),
			types.Help("Make the field nullable."),
		).
		Register(advisor.AddingFieldWithDefault, &AddingFieldWithDefaultAdvisor{},
			types.Note("In Postgres versions <11 adding a field with a DEFAULT requires a table rewrite with an ACCESS EXCLUSIVE lock."),
			types.Help("Add the field as nullable, then set a default, backfill, and remove nullabilty."),
		).
		Register(advisor.DisallowedUniqueConstraint, &DisallowedUniqueConstraintAdvisor{},
			types.Note("Adding a UNIQUE constraint requires an ACCESS EXCLUSIVE lock which blocks reads."),
			types.Help("Create an index CONCURRENTLY and create the constraint using the index."),
		).
		Register(advisor.ConstraintMissingNotValid, &ConstraintMissingNotValidAdvisor{},
			types.Note("Requires a table scan to verify constraint and an ACCESS EXCLUSIVE lock which blocks reads."),
			types.Help("Add NOT VALID to the constraint and then VALIDATE the constraint."),
		).
		Register(advisor.BanDropDatabase, &BanDropDatabaseAdvisor{},
			types.Note("Dropping a database may break existing clients."),
		).
		Register(advisor.PreferTextField, &PreferTextFieldAdvisor{},
			types.Note("Changing the size of a varchar field requires an ACCESS EXCLUSIVE lock."),
			types.Help("Use a text field with a check constraint."),
		).
		Register(advisor.PreferRobustStmts, &PreferRobustStmtsAdvisor{},
			types.Help("Consider wrapping in a transaction or adding a IF NOT EXISTS clause."),
		).
		Register(advisor.BanCharField, &BanCharFieldAdvisor{},
			types.Help("Use text or varchar instead."),
		)
}
