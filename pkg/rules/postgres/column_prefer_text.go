package postgres

import (
	parser "github.com/bytebase/parser/postgresql"

	"github.com/nsxbet/migration-linter/pkg/advisor"
	"github.com/nsxbet/migration-linter/pkg/pgparser"
	"github.com/nsxbet/migration-linter/pkg/types"
)

var _ advisor.Advisor = (*PreferTextFieldAdvisor)(nil)

// PreferTextFieldAdvisor flags varchar(n) columns, whether created with the
// table, added later or set by ALTER COLUMN ... TYPE.
type PreferTextFieldAdvisor struct{}

func (*PreferTextFieldAdvisor) Analyze(stmts []*pgparser.Statement) []types.Span {
	return walkStatements(stmts, &preferTextFieldChecker{statementChecker: newStatementChecker()})
}

type preferTextFieldChecker struct {
	statementChecker
}

func (c *preferTextFieldChecker) EnterColumnDef(ctx *parser.ColumnDefContext) {
	if !inTopLevelStatement(ctx) {
		return
	}
	if isBoundedVarchar(ctx.Typename()) {
		c.report()
	}
}

func (c *preferTextFieldChecker) EnterAltertablestmt(ctx *parser.AltertablestmtContext) {
	for _, cmd := range alterTableCommands(ctx) {
		if cmd.ALTER() != nil && cmd.TYPE_P() != nil && isBoundedVarchar(cmd.Typename()) {
			c.report()
		}
	}
}

func isBoundedVarchar(typename parser.ITypenameContext) bool {
	kind, hasLength := classifyCharacterType(typename)
	return kind == characterVarying && hasLength
}
