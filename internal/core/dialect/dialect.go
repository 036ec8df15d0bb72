// Package dialect implements the Dialect Adapter (spec §4.14): a
// stateless, pure value-producing strategy the AST Emitter calls for
// every syntactic primitive that differs across target databases.
package dialect

import (
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/prismaquery/core/internal/core/query/ast"
)

// Dialect is the narrow interface the emitter calls (spec §4.14, §6.4).
// An implementation must be stateless and safe for concurrent use
// (spec §5) — it returns strings and never performs I/O.
type Dialect interface {
	// Name identifies the dialect for diagnostics.
	Name() string

	// QuoteIdentifier quotes a single identifier (table, column, alias).
	QuoteIdentifier(name string) string

	// Render rewrites emitter-internal "?" placeholders into the
	// dialect's positional parameter syntax (spec §6.4: "adapters may
	// remap to $n or ? as required").
	Render(sql string) (string, error)

	// SupportsReturning reports whether mutation statements may carry a
	// RETURNING clause (spec SPEC_FULL §C).
	SupportsReturning() bool

	// LikeOperator returns "LIKE" or the dialect's case-insensitive
	// variant when insensitive is true (spec §6.4).
	LikeOperator(insensitive bool) string

	// WrapLike pads a raw contains/startsWith/endsWith operand with the
	// appropriate '%' wildcards (spec §4.13 "value rendering").
	WrapLike(op ast.Operator, raw string) string

	// JSONArrayAgg wraps a row-producing subquery alias into a
	// nested-to-many aggregation expression, e.g.
	// COALESCE(json_agg(row_to_json(t)), '[]'::json) (spec §4.13, §6.4).
	JSONArrayAgg(rowAlias string) string

	// JSONRowObject renders the single-row JSON projection used by
	// to-one nested subqueries, e.g. row_to_json(t) (spec §4.13).
	JSONRowObject(rowAlias string) string

	// CastJSON wraps a serialized JSON literal placeholder with the
	// dialect's JSON cast, e.g. ?::jsonb (spec §6.4).
	CastJSON(placeholder string) string

	// ArrayLiteral renders an array-typed parameter placeholder built
	// from a single scalar argument, e.g. ARRAY[?] for Postgres's
	// array-push expression (spec §4.13, §6.4).
	ArrayLiteral(placeholder string) string

	// WrapArrayValue converts a decoded element slice into the
	// driver-level value bound to a single "?" placeholder when
	// comparing against a whole array column (has/hasEvery/hasSome and
	// the JSON array_* operators), e.g. pq.Array for Postgres (spec
	// SPEC_FULL §B).
	WrapArrayValue(vals []interface{}) interface{}

	// ArrayContainsExpr / ArrayOverlapExpr render the full containment /
	// overlap comparison between col and a single "?" placeholder bound
	// via WrapArrayValue. Taken as whole expressions, not bare infix
	// operators, because MySQL/SQLite express these as function calls
	// (JSON_CONTAINS(col, ?)) while Postgres uses a true operator
	// (col @> ?) (spec §6.4: "@>", "&&", "= ANY(...)").
	ArrayContainsExpr(col, placeholder string) string
	ArrayOverlapExpr(col, placeholder string) string
	WrapArrayAny(placeholder string) string

	// CursorOperator renders the comparison operator a cursor condition
	// uses, which depends on the outer ordering direction (spec §4.14).
	CursorOperator(dir ast.SortDirection) string

	// ArrayEmptyExpr renders the isEmpty condition for an array column
	// (spec §4.4 "isEmpty"). empty selects the emptiness test vs. its
	// negation.
	ArrayEmptyExpr(column string, empty bool) string

	// JSONPathExpr navigates into a JSON column by path segments (spec
	// §4.4 JSON bundle "path").
	JSONPathExpr(column string, path []string) string

	// DistinctOption renders the SELECT-level option word(s) for a
	// `distinct` clause over cols (already qualified column
	// expressions). PostgreSQL can target specific columns with
	// DISTINCT ON (...); MySQL/SQLite only have whole-row DISTINCT, so
	// cols is ignored there (SPEC_FULL §C).
	DistinctOption(cols []string) string
}

// quoteWith quotes name with the given quote rune, doubling any
// embedded occurrence of it (the universal SQL identifier-escaping
// rule; differs only in which character each dialect quotes with).
func quoteWith(name string, quote byte) string {
	var b strings.Builder
	b.WriteByte(quote)
	for i := 0; i < len(name); i++ {
		if name[i] == quote {
			b.WriteByte(quote)
		}
		b.WriteByte(name[i])
	}
	b.WriteByte(quote)
	return b.String()
}

func wrapLikeValue(op ast.Operator, raw string) string {
	switch op {
	case ast.OpContains:
		return fmt.Sprintf("%%%s%%", raw)
	case ast.OpStartsWith:
		return fmt.Sprintf("%s%%", raw)
	case ast.OpEndsWith:
		return fmt.Sprintf("%%%s", raw)
	default:
		return raw
	}
}

// joinPath renders a JSON path's segments as one comma-separated string;
// any surrounding braces or dialect-specific path syntax are added by the
// caller that interpolates it.
func joinPath(path []string) string {
	out := ""
	for i, p := range path {
		if i > 0 {
			out += ","
		}
		out += p
	}
	return out
}

// dottedPath renders a JSON path's segments dot-joined, the form
// MySQL/SQLite's $.a.b path syntax expects.
func dottedPath(path []string) string {
	out := ""
	for i, p := range path {
		if i > 0 {
			out += "."
		}
		out += p
	}
	return out
}

// joinCols comma-joins already-qualified column expressions.
func joinCols(cols []string) string {
	return strings.Join(cols, ", ")
}

// renderWith remaps "?" placeholders using a squirrel PlaceholderFormat
// (spec SPEC_FULL §B: squirrel supplies the $n/?-remapping primitive).
func renderWith(pf squirrel.PlaceholderFormat, sql string) (string, error) {
	return pf.ReplacePlaceholders(sql)
}
