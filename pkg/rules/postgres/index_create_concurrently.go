package postgres

import (
	parser "github.com/bytebase/parser/postgresql"

	"github.com/nsxbet/migration-linter/pkg/advisor"
	"github.com/nsxbet/migration-linter/pkg/pgparser"
	"github.com/nsxbet/migration-linter/pkg/types"
)

var _ advisor.Advisor = (*IndexConcurrentlyAdvisor)(nil)

// IndexConcurrentlyAdvisor flags CREATE INDEX without CONCURRENTLY.
// Indexes on tables created earlier in the same migration are allowed,
// since nothing else can be writing to them yet.
type IndexConcurrentlyAdvisor struct{}

func (*IndexConcurrentlyAdvisor) Analyze(stmts []*pgparser.Statement) []types.Span {
	checker := &indexCreateConcurrentlyChecker{
		statementChecker:   newStatementChecker(),
		newlyCreatedTables: make(map[string]bool),
	}
	return walkStatements(stmts, checker)
}

type indexCreateConcurrentlyChecker struct {
	statementChecker

	newlyCreatedTables map[string]bool
}

func (c *indexCreateConcurrentlyChecker) EnterCreatestmt(ctx *parser.CreatestmtContext) {
	if !isTopLevel(ctx.GetParent()) {
		return
	}

	qualifiedNames := ctx.AllQualified_name()
	if len(qualifiedNames) > 0 {
		if key := qualifiedTableKey(qualifiedNames[0]); key != "" {
			c.newlyCreatedTables[key] = true
		}
	}
}

func (c *indexCreateConcurrentlyChecker) EnterIndexstmt(ctx *parser.IndexstmtContext) {
	if !isTopLevel(ctx.GetParent()) {
		return
	}

	if ctx.Opt_concurrently() != nil && ctx.Opt_concurrently().CONCURRENTLY() != nil {
		return
	}

	if ctx.Relation_expr() != nil && ctx.Relation_expr().Qualified_name() != nil {
		if c.newlyCreatedTables[qualifiedTableKey(ctx.Relation_expr().Qualified_name())] {
			return
		}
	}

	c.report()
}
