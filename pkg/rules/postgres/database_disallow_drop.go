package postgres

import (
	parser "github.com/bytebase/parser/postgresql"

	"github.com/nsxbet/migration-linter/pkg/advisor"
	"github.com/nsxbet/migration-linter/pkg/pgparser"
	"github.com/nsxbet/migration-linter/pkg/types"
)

var _ advisor.Advisor = (*BanDropDatabaseAdvisor)(nil)

// BanDropDatabaseAdvisor flags DROP DATABASE.
type BanDropDatabaseAdvisor struct{}

func (*BanDropDatabaseAdvisor) Analyze(stmts []*pgparser.Statement) []types.Span {
	return walkStatements(stmts, &banDropDatabaseChecker{statementChecker: newStatementChecker()})
}

type banDropDatabaseChecker struct {
	statementChecker
}

func (c *banDropDatabaseChecker) EnterDropdbstmt(ctx *parser.DropdbstmtContext) {
	if !isTopLevel(ctx.GetParent()) {
		return
	}
	c.report()
}
