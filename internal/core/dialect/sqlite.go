package dialect

import (
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/prismaquery/core/internal/core/query/ast"
)

// SQLite targets the json1 extension (bundled in modern SQLite builds):
// json_group_array/json_object instead of Postgres's json_agg/row_to_json,
// no RETURNING before 3.35 so it is reported unsupported to stay
// conservative (spec §4.14, SPEC_FULL §C).
type SQLite struct{}

var _ Dialect = SQLite{}

func (SQLite) Name() string { return "sqlite" }

func (SQLite) QuoteIdentifier(name string) string { return quoteWith(name, '"') }

func (SQLite) Render(sql string) (string, error) { return renderWith(squirrel.Question, sql) }

func (SQLite) SupportsReturning() bool { return false }

func (SQLite) LikeOperator(insensitive bool) string {
	// SQLite's LIKE is case-insensitive for ASCII by default; there is
	// no separate ILIKE keyword.
	return "LIKE"
}

func (SQLite) WrapLike(op ast.Operator, raw string) string { return wrapLikeValue(op, raw) }

func (SQLite) JSONArrayAgg(rowAlias string) string {
	return fmt.Sprintf("COALESCE(json_group_array(json(%s.doc)), '[]')", rowAlias)
}

func (SQLite) JSONRowObject(rowAlias string) string {
	return fmt.Sprintf("json(%s.doc)", rowAlias)
}

func (SQLite) CastJSON(placeholder string) string { return "json(" + placeholder + ")" }

func (SQLite) ArrayLiteral(placeholder string) string { return "json(" + placeholder + ")" }

// WrapArrayValue serializes vals as a JSON array string for json1's
// functions to operate on.
func (SQLite) WrapArrayValue(vals []interface{}) interface{} {
	b, err := json.Marshal(vals)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// json1 has no built-in containment/overlap function, so these compare
// via a correlated json_each scan over both sides.
func (SQLite) ArrayContainsExpr(col, placeholder string) string {
	return fmt.Sprintf(
		"NOT EXISTS (SELECT 1 FROM json_each(%s) WHERE value NOT IN (SELECT value FROM json_each(%s)))",
		placeholder, col)
}

func (SQLite) ArrayOverlapExpr(col, placeholder string) string {
	return fmt.Sprintf(
		"EXISTS (SELECT 1 FROM json_each(%s) WHERE value IN (SELECT value FROM json_each(%s)))",
		placeholder, col)
}

func (SQLite) WrapArrayAny(placeholder string) string {
	return "(SELECT value FROM json_each(" + placeholder + "))"
}

func (SQLite) CursorOperator(dir ast.SortDirection) string {
	if dir == ast.Desc {
		return "<"
	}
	return ">"
}

func (SQLite) ArrayEmptyExpr(column string, empty bool) string {
	if empty {
		return fmt.Sprintf("json_array_length(%s) = 0", column)
	}
	return fmt.Sprintf("json_array_length(%s) > 0", column)
}

func (SQLite) JSONPathExpr(column string, path []string) string {
	return fmt.Sprintf("json_extract(%s, '$.%s')", column, dottedPath(path))
}

// SQLite has no DISTINCT ON either; same whole-row fallback as MySQL.
func (SQLite) DistinctOption(cols []string) string { return "DISTINCT" }
