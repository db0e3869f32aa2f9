package postgres

import (
	parser "github.com/bytebase/parser/postgresql"

	"github.com/nsxbet/migration-linter/pkg/advisor"
	"github.com/nsxbet/migration-linter/pkg/pgparser"
	"github.com/nsxbet/migration-linter/pkg/types"
)

var _ advisor.Advisor = (*ColumnDisallowChangeTypeAdvisor)(nil)

// ColumnDisallowChangeTypeAdvisor flags every ALTER COLUMN ... [SET DATA] TYPE command.
type ColumnDisallowChangeTypeAdvisor struct{}

func (*ColumnDisallowChangeTypeAdvisor) Analyze(stmts []*pgparser.Statement) []types.Span {
	return walkStatements(stmts, &columnDisallowChangeTypeChecker{statementChecker: newStatementChecker()})
}

type columnDisallowChangeTypeChecker struct {
	statementChecker
}

func (c *columnDisallowChangeTypeChecker) EnterAltertablestmt(ctx *parser.AltertablestmtContext) {
	for _, cmd := range alterTableCommands(ctx) {
		if cmd.ALTER() != nil && cmd.TYPE_P() != nil {
			c.report()
		}
	}
}
