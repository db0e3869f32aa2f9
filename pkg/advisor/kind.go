package advisor

import (
	"fmt"
	"log/slog"
)

// Kind identifies one lint rule. The set of kinds is closed.
type Kind int

const (
	// RequireConcurrentIndexCreation requires creating indexes concurrently.
	RequireConcurrentIndexCreation Kind = iota
	// RenamingColumn flags column renames.
	RenamingColumn
	// RenamingTable flags table renames.
	RenamingTable
	// ChangingColumnType flags ALTER COLUMN ... TYPE.
	ChangingColumnType
	// AddingNotNullableField flags new NOT NULL constraints on existing tables.
	AddingNotNullableField
	// AddingFieldWithDefault flags ADD COLUMN with a DEFAULT.
	AddingFieldWithDefault
	// DisallowedUniqueConstraint flags UNIQUE constraints not built from an existing index.
	DisallowedUniqueConstraint
	// ConstraintMissingNotValid flags CHECK and FOREIGN KEY constraints added without NOT VALID.
	ConstraintMissingNotValid
	// BanDropDatabase flags DROP DATABASE.
	BanDropDatabase
	// PreferTextField flags bounded varchar columns.
	PreferTextField
	// PreferRobustStmts flags statements that fail when re-run outside a transaction.
	PreferRobustStmts
	// BanCharField flags fixed-length char columns.
	BanCharField
)

var allKinds = []Kind{
	RequireConcurrentIndexCreation,
	RenamingColumn,
	RenamingTable,
	ChangingColumnType,
	AddingNotNullableField,
	AddingFieldWithDefault,
	DisallowedUniqueConstraint,
	ConstraintMissingNotValid,
	BanDropDatabase,
	PreferTextField,
	PreferRobustStmts,
	BanCharField,
}

// AllKinds returns every rule kind in declaration order.
func AllKinds() []Kind {
	out := make([]Kind, len(allKinds))
	copy(out, allKinds)
	return out
}

// String returns the canonical lowercase-hyphenated name of the kind.
func (k Kind) String() string {
	switch k {
	case RequireConcurrentIndexCreation:
		return "require-concurrent-index-creation"
	case RenamingColumn:
		return "renaming-column"
	case RenamingTable:
		return "renaming-table"
	case ChangingColumnType:
		return "changing-column-type"
	case AddingNotNullableField:
		return "adding-not-nullable-field"
	case AddingFieldWithDefault:
		return "adding-field-with-default"
	case DisallowedUniqueConstraint:
		return "disallowed-unique-constraint"
	case ConstraintMissingNotValid:
		return "constraint-missing-not-valid"
	case BanDropDatabase:
		return "ban-drop-database"
	case PreferTextField:
		return "prefer-text-field"
	case PreferRobustStmts:
		return "prefer-robust-stmts"
	case BanCharField:
		return "ban-char-field"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k belongs to the closed set of kinds.
func (k Kind) Valid() bool {
	return k >= RequireConcurrentIndexCreation && k <= BanCharField
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(allKinds))
	for _, k := range allKinds {
		m[k.String()] = k
	}
	return m
}()

// LookupKind returns the kind with the given canonical name.
// Names are matched exactly; there is no fallback for unknown names.
func LookupKind(name string) (Kind, bool) {
	k, ok := kindsByName[name]
	return k, ok
}

// ResolveKinds resolves a list of canonical names. Names that do not match any
// kind are returned in unknown, in input order.
func ResolveKinds(names []string) (map[Kind]bool, []string) {
	set := make(map[Kind]bool, len(names))
	var unknown []string
	for _, name := range names {
		k, ok := LookupKind(name)
		if !ok {
			slog.Debug("unknown rule name", "name", name)
			unknown = append(unknown, name)
			continue
		}
		set[k] = true
	}
	return set, unknown
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("unknown rule kind: %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, ok := LookupKind(string(text))
	if !ok {
		return fmt.Errorf("unknown rule kind: %q", string(text))
	}
	*k = parsed
	return nil
}
