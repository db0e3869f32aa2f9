package postgres

import (
	parser "github.com/bytebase/parser/postgresql"

	"github.com/nsxbet/migration-linter/pkg/advisor"
	"github.com/nsxbet/migration-linter/pkg/pgparser"
	"github.com/nsxbet/migration-linter/pkg/types"
)

var _ advisor.Advisor = (*PreferRobustStmtsAdvisor)(nil)

// PreferRobustStmtsAdvisor flags statements that fail when a partially
// applied migration is re-run: CREATE TABLE and CREATE INDEX without
// IF NOT EXISTS, DROP without IF EXISTS, and ALTER TABLE commands without
// IF [NOT] EXISTS. Statements inside an explicit transaction are not flagged.
type PreferRobustStmtsAdvisor struct{}

func (*PreferRobustStmtsAdvisor) Analyze(stmts []*pgparser.Statement) []types.Span {
	return walkStatements(stmts, &preferRobustStmtsChecker{statementChecker: newStatementChecker()})
}

type preferRobustStmtsChecker struct {
	statementChecker

	inTransaction bool
}

func (c *preferRobustStmtsChecker) EnterTransactionstmt(ctx *parser.TransactionstmtContext) {
	if !isTopLevel(ctx.GetParent()) {
		return
	}

	switch {
	case ctx.BEGIN_P() != nil, ctx.START() != nil:
		c.inTransaction = true
	case ctx.COMMIT() != nil && ctx.PREPARED() == nil,
		ctx.ROLLBACK() != nil && ctx.TO() == nil && ctx.PREPARED() == nil,
		ctx.END_P() != nil,
		ctx.ABORT_P() != nil,
		ctx.PREPARE() != nil:
		c.inTransaction = false
	}
}

func (c *preferRobustStmtsChecker) EnterAltertablestmt(ctx *parser.AltertablestmtContext) {
	if c.inTransaction {
		return
	}
	for _, cmd := range alterTableCommands(ctx) {
		if cmd.IF_P() == nil {
			c.report()
		}
	}
}

func (c *preferRobustStmtsChecker) EnterCreatestmt(ctx *parser.CreatestmtContext) {
	if c.inTransaction || !isTopLevel(ctx.GetParent()) {
		return
	}
	if ctx.IF_P() == nil {
		c.report()
	}
}

func (c *preferRobustStmtsChecker) EnterIndexstmt(ctx *parser.IndexstmtContext) {
	if c.inTransaction || !isTopLevel(ctx.GetParent()) {
		return
	}
	if ctx.IF_P() == nil {
		c.report()
	}
}

func (c *preferRobustStmtsChecker) EnterDropstmt(ctx *parser.DropstmtContext) {
	if c.inTransaction || !isTopLevel(ctx.GetParent()) {
		return
	}
	if ctx.IF_P() == nil {
		c.report()
	}
}
