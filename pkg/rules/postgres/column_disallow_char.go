package postgres

import (
	parser "github.com/bytebase/parser/postgresql"

	"github.com/nsxbet/migration-linter/pkg/advisor"
	"github.com/nsxbet/migration-linter/pkg/pgparser"
	"github.com/nsxbet/migration-linter/pkg/types"
)

var _ advisor.Advisor = (*BanCharFieldAdvisor)(nil)

// BanCharFieldAdvisor flags columns declared as char, character, nchar or bpchar.
type BanCharFieldAdvisor struct{}

func (*BanCharFieldAdvisor) Analyze(stmts []*pgparser.Statement) []types.Span {
	return walkStatements(stmts, &banCharFieldChecker{statementChecker: newStatementChecker()})
}

type banCharFieldChecker struct {
	statementChecker
}

func (c *banCharFieldChecker) EnterColumnDef(ctx *parser.ColumnDefContext) {
	if !inTopLevelStatement(ctx) {
		return
	}
	if kind, _ := classifyCharacterType(ctx.Typename()); kind == characterFixed {
		c.report()
	}
}
