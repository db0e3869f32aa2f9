package postgres

import (
	parser "github.com/bytebase/parser/postgresql"

	"github.com/nsxbet/migration-linter/pkg/advisor"
	"github.com/nsxbet/migration-linter/pkg/pgparser"
	"github.com/nsxbet/migration-linter/pkg/types"
)

var _ advisor.Advisor = (*RenamingColumnAdvisor)(nil)

// RenamingColumnAdvisor flags ALTER TABLE ... RENAME [COLUMN] a TO b.
type RenamingColumnAdvisor struct{}

func (*RenamingColumnAdvisor) Analyze(stmts []*pgparser.Statement) []types.Span {
	return walkStatements(stmts, &renamingColumnChecker{statementChecker: newStatementChecker()})
}

type renamingColumnChecker struct {
	statementChecker
}

func (c *renamingColumnChecker) EnterRenamestmt(ctx *parser.RenamestmtContext) {
	if !isTopLevel(ctx.GetParent()) {
		return
	}

	if isColumnRename(ctx) {
		c.report()
	}
}

// isColumnRename reports whether ctx renames a column of a table.
// The COLUMN keyword is optional, so a bare RENAME a TO b is recognized by
// its two names.
func isColumnRename(ctx *parser.RenamestmtContext) bool {
	if ctx.TABLE() == nil || ctx.CONSTRAINT() != nil || ctx.TO() == nil {
		return false
	}
	if ctx.Opt_column() != nil {
		return true
	}
	return len(ctx.AllName()) >= 2
}
