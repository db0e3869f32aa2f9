package postgres

import (
	"github.com/antlr4-go/antlr/v4"
	parser "github.com/bytebase/parser/postgresql"

	"github.com/nsxbet/migration-linter/pkg/pgparser"
	"github.com/nsxbet/migration-linter/pkg/types"
)

// checker is a parse tree listener that reports statement spans.
type checker interface {
	antlr.ParseTreeListener

	enterStatement(stmt *pgparser.Statement)
	findings() []types.Span
}

// statementChecker is the base listener for PostgreSQL rule checkers.
// It remembers the top-level statement being walked so that rules can report
// the whole statement as the offending span.
type statementChecker struct {
	*parser.BasePostgreSQLParserListener

	current *pgparser.Statement
	spans   []types.Span
}

func newStatementChecker() statementChecker {
	return statementChecker{
		BasePostgreSQLParserListener: &parser.BasePostgreSQLParserListener{},
	}
}

func (c *statementChecker) enterStatement(stmt *pgparser.Statement) {
	c.current = stmt
}

func (c *statementChecker) findings() []types.Span {
	return c.spans
}

// report records the current statement as offending.
func (c *statementChecker) report() {
	c.spans = append(c.spans, c.current.Span)
}

// walkStatements walks every statement in order with the same checker, so
// that checkers may carry state from one statement to the next.
func walkStatements(stmts []*pgparser.Statement, c checker) []types.Span {
	for _, stmt := range stmts {
		if stmt == nil || stmt.Tree == nil {
			continue
		}
		c.enterStatement(stmt)
		antlr.ParseTreeWalkerDefault.Walk(c, stmt.Tree)
	}
	return c.findings()
}

// isTopLevel checks if the context is at the top level of the parse tree.
// This is used to filter out nested statements that should not be checked.
func isTopLevel(ctx antlr.Tree) bool {
	if ctx == nil {
		return true
	}

	switch ctx := ctx.(type) {
	case *parser.RootContext, *parser.StmtblockContext:
		return true
	case *parser.StmtmultiContext, *parser.StmtContext:
		return isTopLevel(ctx.GetParent())
	default:
		return false
	}
}

// inTopLevelStatement reports whether ctx belongs to a top-level statement
// rather than to a statement nested in another one.
func inTopLevelStatement(ctx antlr.Tree) bool {
	for parent := ctx.GetParent(); parent != nil; parent = parent.GetParent() {
		if stmt, ok := parent.(*parser.StmtContext); ok {
			return isTopLevel(stmt.GetParent())
		}
	}
	return false
}

// alterTableCommands returns the commands of a top-level ALTER TABLE.
func alterTableCommands(ctx *parser.AltertablestmtContext) []parser.IAlter_table_cmdContext {
	if !isTopLevel(ctx.GetParent()) || ctx.Alter_table_cmds() == nil {
		return nil
	}
	return ctx.Alter_table_cmds().AllAlter_table_cmd()
}
