package dialect

import (
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/prismaquery/core/internal/core/query/ast"
)

// MySQL targets MySQL 8+: JSON functions instead of a native json type,
// no array type (arrays are stored as JSON and compared via JSON_CONTAINS),
// and no RETURNING clause (spec §4.14, SPEC_FULL §C).
type MySQL struct{}

var _ Dialect = MySQL{}

func (MySQL) Name() string { return "mysql" }

func (MySQL) QuoteIdentifier(name string) string { return quoteWith(name, '`') }

func (MySQL) Render(sql string) (string, error) { return renderWith(squirrel.Question, sql) }

func (MySQL) SupportsReturning() bool { return false }

func (MySQL) LikeOperator(insensitive bool) string {
	// MySQL's default collation is already case-insensitive; there is no
	// dedicated ILIKE, so both modes render the same operator.
	return "LIKE"
}

func (MySQL) WrapLike(op ast.Operator, raw string) string { return wrapLikeValue(op, raw) }

func (MySQL) JSONArrayAgg(rowAlias string) string {
	return fmt.Sprintf("JSON_ARRAYAGG(%s.doc)", rowAlias)
}

func (MySQL) JSONRowObject(rowAlias string) string {
	return fmt.Sprintf("%s.doc", rowAlias)
}

func (MySQL) CastJSON(placeholder string) string { return "CAST(" + placeholder + " AS JSON)" }

func (MySQL) ArrayLiteral(placeholder string) string { return "CAST(" + placeholder + " AS JSON)" }

// WrapArrayValue serializes vals as a JSON array string, the
// driver-level representation MySQL's JSON functions expect.
func (MySQL) WrapArrayValue(vals []interface{}) interface{} {
	b, err := json.Marshal(vals)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// MySQL has no array containment operator; JSON_CONTAINS/JSON_OVERLAPS
// are functions, not infix operators.
func (MySQL) ArrayContainsExpr(col, placeholder string) string {
	return fmt.Sprintf("JSON_CONTAINS(%s, %s)", col, placeholder)
}

func (MySQL) ArrayOverlapExpr(col, placeholder string) string {
	return fmt.Sprintf("JSON_OVERLAPS(%s, %s)", col, placeholder)
}

func (MySQL) WrapArrayAny(placeholder string) string {
	return "(SELECT 1 FROM JSON_TABLE(" + placeholder + ", '$[*]' COLUMNS (v JSON PATH '$')) AS _any)"
}

func (MySQL) CursorOperator(dir ast.SortDirection) string {
	if dir == ast.Desc {
		return "<"
	}
	return ">"
}

func (MySQL) ArrayEmptyExpr(column string, empty bool) string {
	if empty {
		return fmt.Sprintf("JSON_LENGTH(%s) = 0", column)
	}
	return fmt.Sprintf("JSON_LENGTH(%s) > 0", column)
}

func (MySQL) JSONPathExpr(column string, path []string) string {
	return fmt.Sprintf("JSON_EXTRACT(%s, '$.%s')", column, dottedPath(path))
}

// MySQL has no DISTINCT ON; the named columns are ignored and the
// statement falls back to whole-row DISTINCT (SPEC_FULL §C).
func (MySQL) DistinctOption(cols []string) string { return "DISTINCT" }
