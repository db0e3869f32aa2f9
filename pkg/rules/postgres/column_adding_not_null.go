package postgres

import (
	parser "github.com/bytebase/parser/postgresql"

	"github.com/nsxbet/migration-linter/pkg/advisor"
	"github.com/nsxbet/migration-linter/pkg/pgparser"
	"github.com/nsxbet/migration-linter/pkg/types"
)

var _ advisor.Advisor = (*AddingNotNullableFieldAdvisor)(nil)

// AddingNotNullableFieldAdvisor flags ALTER COLUMN ... SET NOT NULL and
// ADD COLUMN ... NOT NULL without a DEFAULT.
type AddingNotNullableFieldAdvisor struct{}

func (*AddingNotNullableFieldAdvisor) Analyze(stmts []*pgparser.Statement) []types.Span {
	return walkStatements(stmts, &addingNotNullableFieldChecker{statementChecker: newStatementChecker()})
}

type addingNotNullableFieldChecker struct {
	statementChecker
}

func (c *addingNotNullableFieldChecker) EnterAltertablestmt(ctx *parser.AltertablestmtContext) {
	for _, cmd := range alterTableCommands(ctx) {
		if cmd.ALTER() != nil && cmd.SET() != nil && cmd.NOT() != nil && cmd.NULL_P() != nil {
			c.report()
			continue
		}
		if isAddColumn(cmd) {
			cc := inspectColumnDef(cmd.ColumnDef())
			if cc.notNull && !cc.hasDefault {
				c.report()
			}
		}
	}
}
