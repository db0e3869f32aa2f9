package postgres

import (
	parser "github.com/bytebase/parser/postgresql"

	"github.com/nsxbet/migration-linter/pkg/advisor"
	"github.com/nsxbet/migration-linter/pkg/pgparser"
	"github.com/nsxbet/migration-linter/pkg/types"
)

var _ advisor.Advisor = (*RenamingTableAdvisor)(nil)

// RenamingTableAdvisor flags ALTER TABLE ... RENAME TO x.
type RenamingTableAdvisor struct{}

func (*RenamingTableAdvisor) Analyze(stmts []*pgparser.Statement) []types.Span {
	return walkStatements(stmts, &renamingTableChecker{statementChecker: newStatementChecker()})
}

type renamingTableChecker struct {
	statementChecker
}

func (c *renamingTableChecker) EnterRenamestmt(ctx *parser.RenamestmtContext) {
	if !isTopLevel(ctx.GetParent()) {
		return
	}

	if ctx.TABLE() != nil && ctx.TO() != nil && ctx.CONSTRAINT() == nil && !isColumnRename(ctx) {
		c.report()
	}
}
