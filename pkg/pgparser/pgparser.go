// Package pgparser provides PostgreSQL SQL parsing functionality.
//
// This package wraps the Bytebase PostgreSQL parser and splits the parse tree
// into top-level statements with byte-offset spans, which is what the rule
// engine consumes.
package pgparser

import (
	"fmt"
	"strings"

	"github.com/antlr4-go/antlr/v4"
	parser "github.com/bytebase/parser/postgresql"
	"github.com/nsxbet/migration-linter/pkg/types"
)

// ParseResult contains the parsed SQL statement tree and tokens.
type ParseResult struct {
	Tree   antlr.Tree
	Tokens *antlr.CommonTokenStream

	// Statements holds the top-level statements in source order.
	Statements []*Statement
}

// Statement is a single top-level statement of the parsed source.
type Statement struct {
	Tree parser.IStmtContext
	// Span covers the statement text, without the terminating semicolon.
	Span types.Span
	Text string
}

// SyntaxError represents a SQL syntax error with position information.
type SyntaxError struct {
	Message  string
	Position *types.Position
	// Offset is the byte offset of the offending character, -1 when unknown.
	Offset int
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.Position != nil {
		return fmt.Sprintf("syntax error at line %d, column %d: %s",
			e.Position.Line, e.Position.Column, e.Message)
	}
	return fmt.Sprintf("syntax error: %s", e.Message)
}

// syntaxErrorListener collects syntax errors during parsing.
type syntaxErrorListener struct {
	*antlr.DefaultErrorListener
	offsets *offsetTable
	err     *SyntaxError
}

// SyntaxError is called when a syntax error is encountered.
func (l *syntaxErrorListener) SyntaxError(
	_ antlr.Recognizer,
	offendingSymbol interface{},
	line, column int,
	msg string,
	_ antlr.RecognitionException,
) {
	if l.err != nil {
		return
	}
	offset := -1
	if token, ok := offendingSymbol.(antlr.Token); ok && token.GetStart() >= 0 {
		offset = l.offsets.byteOffset(token.GetStart())
	}
	l.err = &SyntaxError{
		Message: msg,
		Position: &types.Position{
			Line:   int32(line),
			Column: int32(column),
		},
		Offset: offset,
	}
}

// ParsePostgreSQL parses PostgreSQL SQL statements and returns the parse tree.
// Source text that holds no statements (empty, whitespace) parses to an
// empty statement list.
//
// Example:
//
//	result, err := pgparser.ParsePostgreSQL("CREATE TABLE users (id INT);")
//	if err != nil {
//	    // Handle syntax error
//	}
//	for _, stmt := range result.Statements {
//	    fmt.Println(stmt.Span, stmt.Text)
//	}
func ParsePostgreSQL(sql string) (*ParseResult, error) {
	if strings.TrimSpace(sql) == "" {
		return &ParseResult{Statements: []*Statement{}}, nil
	}

	offsets := newOffsetTable(sql)

	// Create lexer
	inputStream := antlr.NewInputStream(sql)
	lexer := parser.NewPostgreSQLLexer(inputStream)

	// Setup error listener for lexer
	lexerErrorListener := &syntaxErrorListener{offsets: offsets}
	lexer.RemoveErrorListeners()
	lexer.AddErrorListener(lexerErrorListener)

	// Create token stream
	stream := antlr.NewCommonTokenStream(lexer, antlr.TokenDefaultChannel)

	// Create parser
	p := parser.NewPostgreSQLParser(stream)
	p.BuildParseTrees = true

	// Setup error listener for parser
	parserErrorListener := &syntaxErrorListener{offsets: offsets}
	p.RemoveErrorListeners()
	p.AddErrorListener(parserErrorListener)

	// Parse the input
	tree := p.Root()

	// Check for lexer errors
	if lexerErrorListener.err != nil {
		return nil, lexerErrorListener.err
	}

	// Check for parser errors
	if parserErrorListener.err != nil {
		return nil, parserErrorListener.err
	}

	// Check if parse tree is nil
	if tree == nil {
		return nil, &SyntaxError{
			Message: "failed to parse SQL statement",
			Offset:  -1,
		}
	}

	return &ParseResult{
		Tree:       tree,
		Tokens:     stream,
		Statements: splitStatements(sql, tree, offsets),
	}, nil
}

// splitStatements collects the top-level statements below root.
func splitStatements(sql string, root parser.IRootContext, offsets *offsetTable) []*Statement {
	statements := []*Statement{}
	if root.Stmtblock() == nil || root.Stmtblock().Stmtmulti() == nil {
		return statements
	}

	for _, stmt := range root.Stmtblock().Stmtmulti().AllStmt() {
		start, stop := stmt.GetStart(), stmt.GetStop()
		if stmt.GetChildCount() == 0 || start == nil || stop == nil || stop.GetStop() < start.GetStart() {
			continue
		}
		span := types.Span{
			Start: offsets.byteOffset(start.GetStart()),
			End:   offsets.byteOffset(stop.GetStop() + 1),
		}
		statements = append(statements, &Statement{
			Tree: stmt,
			Span: span,
			Text: span.Text(sql),
		})
	}
	return statements
}

// offsetTable maps the character indexes used by the ANTLR input stream to
// byte offsets into the original source.
type offsetTable struct {
	bytes []int
}

func newOffsetTable(sql string) *offsetTable {
	offsets := make([]int, 0, len(sql)+1)
	for i := range sql {
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(sql))
	return &offsetTable{bytes: offsets}
}

func (t *offsetTable) byteOffset(charIndex int) int {
	if charIndex < 0 {
		return 0
	}
	if charIndex >= len(t.bytes) {
		return t.bytes[len(t.bytes)-1]
	}
	return t.bytes[charIndex]
}

// Normalization functions for PostgreSQL identifiers

// NormalizePostgreSQLQualifiedName normalizes a qualified name (schema.table).
// Returns a slice of name parts (e.g., ["schema", "table"]).
func NormalizePostgreSQLQualifiedName(ctx parser.IQualified_nameContext) []string {
	if ctx == nil {
		return []string{}
	}

	res := []string{NormalizePostgreSQLColid(ctx.Colid())}

	if ctx.Indirection() != nil {
		res = append(res, normalizePostgreSQLIndirection(ctx.Indirection())...)
	}
	return res
}

// normalizePostgreSQLIndirection normalizes indirection elements.
func normalizePostgreSQLIndirection(ctx parser.IIndirectionContext) []string {
	if ctx == nil {
		return []string{}
	}

	var res []string
	for _, child := range ctx.AllIndirection_el() {
		res = append(res, normalizePostgreSQLIndirectionEl(child))
	}
	return res
}

func normalizePostgreSQLIndirectionEl(ctx parser.IIndirection_elContext) string {
	if ctx == nil {
		return ""
	}

	if ctx.DOT() != nil {
		if ctx.STAR() != nil {
			return "*"
		}
		return normalizePostgreSQLCollabel(ctx.Attr_name().Collabel())
	}
	return ctx.GetText()
}

func normalizePostgreSQLCollabel(ctx parser.ICollabelContext) string {
	if ctx == nil {
		return ""
	}
	if ctx.Identifier() != nil {
		return normalizePostgreSQLIdentifier(ctx.Identifier())
	}
	return strings.ToLower(ctx.GetText())
}

// NormalizePostgreSQLColid normalizes a column identifier.
func NormalizePostgreSQLColid(ctx parser.IColidContext) string {
	if ctx == nil {
		return ""
	}

	if ctx.Identifier() != nil {
		return normalizePostgreSQLIdentifier(ctx.Identifier())
	}

	// For non-quote identifier, we just return the lower string for PostgreSQL.
	return strings.ToLower(ctx.GetText())
}

// normalizePostgreSQLIdentifier handles quoted and unquoted identifiers
// according to PostgreSQL rules.
func normalizePostgreSQLIdentifier(ctx parser.IIdentifierContext) string {
	if ctx == nil {
		return ""
	}

	if ctx.QuotedIdentifier() != nil {
		return normalizePostgreSQLQuotedIdentifier(ctx.QuotedIdentifier().GetText())
	}

	if ctx.UnicodeQuotedIdentifier() != nil {
		return normalizePostgreSQLUnicodeQuotedIdentifier(ctx.UnicodeQuotedIdentifier().GetText())
	}

	// Unquoted identifiers are folded to lowercase
	return strings.ToLower(ctx.GetText())
}

// normalizePostgreSQLQuotedIdentifier removes quotes and unescapes doubled quotes.
func normalizePostgreSQLQuotedIdentifier(s string) string {
	if len(s) < 2 {
		return s
	}
	return strings.ReplaceAll(s[1:len(s)-1], `""`, `"`)
}

// normalizePostgreSQLUnicodeQuotedIdentifier handles U&"..." identifiers.
func normalizePostgreSQLUnicodeQuotedIdentifier(s string) string {
	if len(s) > 3 && (s[0] == 'U' || s[0] == 'u') && s[1] == '&' && s[2] == '"' {
		return normalizePostgreSQLQuotedIdentifier(s[2:])
	}
	return s
}

// NormalizeSchemaName normalizes a schema name, returning "public" for empty schemas.
func NormalizeSchemaName(schemaName string) string {
	if schemaName == "" {
		return "public"
	}
	return schemaName
}
