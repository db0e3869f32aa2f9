package postgres

import (
	parser "github.com/bytebase/parser/postgresql"

	"github.com/nsxbet/migration-linter/pkg/advisor"
	"github.com/nsxbet/migration-linter/pkg/pgparser"
	"github.com/nsxbet/migration-linter/pkg/types"
)

var _ advisor.Advisor = (*ConstraintMissingNotValidAdvisor)(nil)

// ConstraintMissingNotValidAdvisor flags CHECK and FOREIGN KEY constraints
// added to an existing table without NOT VALID.
type ConstraintMissingNotValidAdvisor struct{}

func (*ConstraintMissingNotValidAdvisor) Analyze(stmts []*pgparser.Statement) []types.Span {
	return walkStatements(stmts, &constraintMissingNotValidChecker{statementChecker: newStatementChecker()})
}

type constraintMissingNotValidChecker struct {
	statementChecker
}

func (c *constraintMissingNotValidChecker) EnterAltertablestmt(ctx *parser.AltertablestmtContext) {
	for _, cmd := range alterTableCommands(ctx) {
		if !isAddConstraint(cmd) {
			continue
		}
		elem := cmd.Tableconstraint().Constraintelem()
		if elem.CHECK() == nil && elem.FOREIGN() == nil {
			continue
		}
		if !hasNotValid(elem) {
			c.report()
		}
	}
}
