package dialect

import (
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/prismaquery/core/internal/core/query/ast"
)

// Postgres is the reference adapter (spec §4.14: "its semantics are the
// default where this spec is ambiguous").
type Postgres struct{}

var _ Dialect = Postgres{}

func (Postgres) Name() string { return "postgres" }

func (Postgres) QuoteIdentifier(name string) string { return pq.QuoteIdentifier(name) }

func (Postgres) Render(sql string) (string, error) { return renderWith(squirrel.Dollar, sql) }

func (Postgres) SupportsReturning() bool { return true }

func (Postgres) LikeOperator(insensitive bool) string {
	if insensitive {
		return "ILIKE"
	}
	return "LIKE"
}

func (Postgres) WrapLike(op ast.Operator, raw string) string { return wrapLikeValue(op, raw) }

func (Postgres) JSONArrayAgg(rowAlias string) string {
	return fmt.Sprintf("COALESCE(json_agg(row_to_json(%s)), '[]'::json)", rowAlias)
}

func (Postgres) JSONRowObject(rowAlias string) string {
	return fmt.Sprintf("row_to_json(%s)", rowAlias)
}

func (Postgres) CastJSON(placeholder string) string { return placeholder + "::jsonb" }

func (Postgres) ArrayLiteral(placeholder string) string { return "ARRAY[" + placeholder + "]" }

// WrapArrayValue lets database/sql bind vals as a native Postgres array
// parameter instead of splicing one placeholder per element.
func (Postgres) WrapArrayValue(vals []interface{}) interface{} { return pq.Array(vals) }

func (Postgres) ArrayContainsExpr(col, placeholder string) string {
	return fmt.Sprintf("%s @> %s", col, placeholder)
}

func (Postgres) ArrayOverlapExpr(col, placeholder string) string {
	return fmt.Sprintf("%s && %s", col, placeholder)
}

func (Postgres) WrapArrayAny(placeholder string) string { return "ANY(" + placeholder + ")" }

func (Postgres) CursorOperator(dir ast.SortDirection) string {
	if dir == ast.Desc {
		return "<"
	}
	return ">"
}

func (Postgres) ArrayEmptyExpr(column string, empty bool) string {
	if empty {
		return fmt.Sprintf("array_length(%s, 1) IS NULL", column)
	}
	return fmt.Sprintf("array_length(%s, 1) IS NOT NULL", column)
}

func (Postgres) JSONPathExpr(column string, path []string) string {
	return fmt.Sprintf("%s#>'{%s}'", column, joinPath(path))
}

func (Postgres) DistinctOption(cols []string) string {
	return "DISTINCT ON (" + joinCols(cols) + ")"
}
