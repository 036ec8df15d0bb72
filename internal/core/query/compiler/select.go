package compiler

import (
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/prismaquery/core/internal/core/query/ast"
)

// compileFind renders findUnique/findUniqueOrThrow/findFirst/
// findFirstOrThrow/findMany (spec §4.13). The "OrThrow" distinction is
// enforced by the caller around the driver call (spec §6.3) and does not
// change the SQL; findUnique and findUniqueOrThrow additionally get
// LIMIT 1.
func (e *Emitter) compileFind(q *ast.Query, aliases *aliasSet) (string, []interface{}, error) {
	model := q.ModelRef.Model
	alias := aliases.next()
	args := q.Args

	cols, colArgs, err := e.compileColumns(model, args.Select, args.Include, alias, aliases)
	if err != nil {
		return "", nil, err
	}

	sb := squirrel.
		Select().
		Column(squirrel.Expr(strings.Join(cols, ", "), colArgs...)).
		From(e.tableAs(model.Table(), alias))

	whereSQL, whereArgs, err := e.compileCondition(args.Where, alias, aliases)
	if err != nil {
		return "", nil, err
	}

	if args.Cursor != nil {
		op := e.dialect.CursorOperator(args.Cursor.Direction)
		cursorSQL := fmt.Sprintf("%s %s ?", e.qualify(alias, args.Cursor.Field.Field.Column()), op)
		if whereSQL != "" {
			whereSQL = "(" + whereSQL + ") AND " + cursorSQL
		} else {
			whereSQL = cursorSQL
		}
		whereArgs = append(whereArgs, args.Cursor.Value.Raw)
	}
	if whereSQL != "" {
		sb = sb.Where(whereSQL, whereArgs...)
	}

	if len(args.Distinct) > 0 {
		distCols := make([]string, len(args.Distinct))
		for i, d := range args.Distinct {
			distCols[i] = e.qualify(alias, d.Field.Column())
		}
		sb = sb.Options(e.dialect.DistinctOption(distCols))
	}

	if len(args.OrderBy) > 0 {
		orderClauses, err := e.compileOrderBy(args.OrderBy, alias, aliases)
		if err != nil {
			return "", nil, err
		}
		sb = sb.OrderBy(orderClauses...)
	}
	if args.Take != nil && *args.Take >= 0 {
		sb = sb.Limit(uint64(*args.Take))
	}
	if q.Operation == ast.FindUnique || q.Operation == ast.FindUniqueOrThrow {
		sb = sb.Limit(1)
	}
	if args.Skip != nil {
		sb = sb.Offset(uint64(*args.Skip))
	}

	sql, sqlArgs, err := sb.ToSql()
	if err != nil {
		return "", nil, err
	}
	rendered, err := e.render(sql)
	if err != nil {
		return "", nil, err
	}
	return rendered, sqlArgs, nil
}
