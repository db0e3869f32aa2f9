package postgres

import (
	parser "github.com/bytebase/parser/postgresql"

	"github.com/nsxbet/migration-linter/pkg/advisor"
	"github.com/nsxbet/migration-linter/pkg/pgparser"
	"github.com/nsxbet/migration-linter/pkg/types"
)

var _ advisor.Advisor = (*AddingFieldWithDefaultAdvisor)(nil)

// AddingFieldWithDefaultAdvisor flags ADD COLUMN ... DEFAULT.
type AddingFieldWithDefaultAdvisor struct{}

func (*AddingFieldWithDefaultAdvisor) Analyze(stmts []*pgparser.Statement) []types.Span {
	return walkStatements(stmts, &addingFieldWithDefaultChecker{statementChecker: newStatementChecker()})
}

type addingFieldWithDefaultChecker struct {
	statementChecker
}

func (c *addingFieldWithDefaultChecker) EnterAltertablestmt(ctx *parser.AltertablestmtContext) {
	for _, cmd := range alterTableCommands(ctx) {
		if isAddColumn(cmd) && inspectColumnDef(cmd.ColumnDef()).hasDefault {
			c.report()
		}
	}
}
