package postgres

import (
	parser "github.com/bytebase/parser/postgresql"

	"github.com/nsxbet/migration-linter/pkg/advisor"
	"github.com/nsxbet/migration-linter/pkg/pgparser"
	"github.com/nsxbet/migration-linter/pkg/types"
)

var _ advisor.Advisor = (*DisallowedUniqueConstraintAdvisor)(nil)

// DisallowedUniqueConstraintAdvisor flags UNIQUE constraints added to an
// existing table, unless they are built with USING INDEX.
type DisallowedUniqueConstraintAdvisor struct{}

func (*DisallowedUniqueConstraintAdvisor) Analyze(stmts []*pgparser.Statement) []types.Span {
	return walkStatements(stmts, &disallowedUniqueConstraintChecker{statementChecker: newStatementChecker()})
}

type disallowedUniqueConstraintChecker struct {
	statementChecker
}

func (c *disallowedUniqueConstraintChecker) EnterAltertablestmt(ctx *parser.AltertablestmtContext) {
	for _, cmd := range alterTableCommands(ctx) {
		switch {
		case isAddConstraint(cmd):
			elem := cmd.Tableconstraint().Constraintelem()
			if elem.UNIQUE() != nil && elem.Existingindex() == nil {
				c.report()
			}
		case isAddColumn(cmd):
			if inspectColumnDef(cmd.ColumnDef()).unique {
				c.report()
			}
		}
	}
}
