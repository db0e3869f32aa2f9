package postgres

import (
	"strings"

	parser "github.com/bytebase/parser/postgresql"

	"github.com/nsxbet/migration-linter/pkg/pgparser"
)

// extractTableName extracts the table name from a qualified name context.
func extractTableName(ctx parser.IQualified_nameContext) string {
	if ctx == nil {
		return ""
	}

	parts := pgparser.NormalizePostgreSQLQualifiedName(ctx)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

// extractSchemaName extracts the schema name from a qualified name context.
func extractSchemaName(ctx parser.IQualified_nameContext) string {
	if ctx == nil {
		return ""
	}

	parts := pgparser.NormalizePostgreSQLQualifiedName(ctx)
	if len(parts) <= 1 {
		return ""
	}
	return parts[len(parts)-2]
}

// qualifiedTableKey returns "schema.table" with the schema defaulting to public.
func qualifiedTableKey(ctx parser.IQualified_nameContext) string {
	table := extractTableName(ctx)
	if table == "" {
		return ""
	}
	return pgparser.NormalizeSchemaName(extractSchemaName(ctx)) + "." + table
}

// columnConstraints summarizes the constraints written inline on a column definition.
type columnConstraints struct {
	notNull    bool
	hasDefault bool
	unique     bool
}

func inspectColumnDef(colDef parser.IColumnDefContext) columnConstraints {
	var cc columnConstraints
	if colDef == nil || colDef.Colquallist() == nil {
		return cc
	}
	for _, constraint := range colDef.Colquallist().AllColconstraint() {
		elem := constraint.Colconstraintelem()
		if elem == nil {
			continue
		}
		if elem.NOT() != nil && elem.NULL_P() != nil {
			cc.notNull = true
		}
		if elem.DEFAULT() != nil {
			cc.hasDefault = true
		}
		if elem.UNIQUE() != nil {
			cc.unique = true
		}
	}
	return cc
}

// isAddColumn reports whether cmd is ADD [COLUMN] [IF NOT EXISTS] column_def.
func isAddColumn(cmd parser.IAlter_table_cmdContext) bool {
	return cmd.ADD_P() != nil && cmd.ColumnDef() != nil
}

// isAddConstraint reports whether cmd is ADD table_constraint.
func isAddConstraint(cmd parser.IAlter_table_cmdContext) bool {
	return cmd.ADD_P() != nil && cmd.Tableconstraint() != nil && cmd.Tableconstraint().Constraintelem() != nil
}

// hasNotValid reports whether the constraint carries NOT VALID.
func hasNotValid(elem parser.IConstraintelemContext) bool {
	if elem == nil || elem.Constraintattributespec() == nil {
		return false
	}
	for _, attr := range elem.Constraintattributespec().AllConstraintattributeElem() {
		if attr.NOT() != nil && attr.VALID() != nil {
			return true
		}
	}
	return false
}

// characterType classifies the character types of interest.
type characterType int

const (
	characterOther characterType = iota
	// characterFixed is char(n), character(n), nchar(n) or bpchar.
	characterFixed
	// characterVarying is varchar or character varying.
	characterVarying
)

// classifyCharacterType classifies a type name and reports whether it has a length modifier.
func classifyCharacterType(typename parser.ITypenameContext) (characterType, bool) {
	if typename == nil {
		return characterOther, false
	}

	simpleType := typename.Simpletypename()
	if simpleType == nil {
		return characterOther, false
	}

	if character := simpleType.Character(); character != nil && character.Character_c() != nil {
		characterC := character.Character_c()
		hasLength := character.Iconst() != nil
		if characterC.VARCHAR() != nil || characterC.Opt_varying() != nil {
			return characterVarying, hasLength
		}
		if characterC.CHARACTER() != nil || characterC.CHAR_P() != nil || characterC.NCHAR() != nil {
			return characterFixed, hasLength
		}
		return characterOther, hasLength
	}

	// bpchar has no keyword of its own and parses as a generic type.
	text := strings.ToLower(simpleType.GetText())
	if text == "bpchar" || strings.HasPrefix(text, "bpchar(") || strings.HasPrefix(text, `"bpchar"`) {
		return characterFixed, strings.Contains(text, "(")
	}
	return characterOther, false
}
