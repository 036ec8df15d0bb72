package compiler

import (
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/prismaquery/core/internal/core/query/ast"
)

// compileCount renders a `count` operation: a bare `SELECT COUNT(*)`
// when no per-field breakdown was requested (spec E1, E2), or a SELECT
// of the requested `_count` fields otherwise (spec §4.8, §4.13).
func (e *Emitter) compileCount(q *ast.Query, aliases *aliasSet) (string, []interface{}, error) {
	return e.compileAggregateQuery(q, aliases, nil, true)
}

// compileAggregate renders an `aggregate` operation (spec §4.8, §4.13).
func (e *Emitter) compileAggregate(q *ast.Query, aliases *aliasSet) (string, []interface{}, error) {
	return e.compileAggregateQuery(q, aliases, nil, false)
}

// compileGroupBy renders a `groupBy` operation: the group-by fields
// plus any requested aggregations, grouped and optionally filtered by
// `having` (spec §4.8, §4.13).
func (e *Emitter) compileGroupBy(q *ast.Query, aliases *aliasSet) (string, []interface{}, error) {
	return e.compileAggregateQuery(q, aliases, q.Args.GroupBy, false)
}

// compileAggregateQuery renders count/aggregate/groupBy, which all
// share the same SELECT-over-aggregations shape. bareCount requests the
// unaliased `COUNT(*)` form the `count` operation uses when it carries
// no per-field breakdown (spec E1, E2) — once count names specific
// fields, or more than one aggregation is present, each column still
// needs its own alias to stay addressable.
func (e *Emitter) compileAggregateQuery(q *ast.Query, aliases *aliasSet, groupBy []ast.GroupBy, bareCount bool) (string, []interface{}, error) {
	model := q.ModelRef.Model
	alias := aliases.next()

	agg := q.Args.Aggregate
	bareSingleCount := bareCount && len(groupBy) == 0 &&
		agg != nil && len(agg.Aggregations) == 1 && agg.Aggregations[0].Field == nil

	var cols []string
	for _, g := range groupBy {
		cols = append(cols, e.qualify(alias, g.Field.Field.Column())+" AS "+e.quote(g.Field.Name))
	}
	if agg != nil {
		for _, af := range agg.Aggregations {
			if af.Field == nil {
				if bareSingleCount {
					cols = append(cols, "COUNT(*)")
					continue
				}
				colAlias := af.Alias
				if colAlias == "" {
					colAlias = string(ast.AggCount)
				}
				cols = append(cols, fmt.Sprintf("COUNT(*) AS %s", e.quote(colAlias)))
				continue
			}
			col := e.qualify(alias, af.Field.Field.Column())
			cols = append(cols, fmt.Sprintf("%s(%s) AS %s", aggSQLFunc(af.Op), col, e.quote(af.Alias)))
		}
	}
	if len(cols) == 0 {
		if bareCount {
			cols = []string{"COUNT(*)"}
		} else {
			cols = []string{"COUNT(*) AS " + e.quote(string(ast.AggCount))}
		}
	}

	sb := squirrel.Select(cols...).From(e.tableAs(model.Table(), alias))

	whereSQL, whereArgs, err := e.compileCondition(q.Args.Where, alias, aliases)
	if err != nil {
		return "", nil, err
	}
	if whereSQL != "" {
		sb = sb.Where(whereSQL, whereArgs...)
	}

	if len(groupBy) > 0 {
		groupCols := make([]string, len(groupBy))
		for i, g := range groupBy {
			groupCols[i] = e.qualify(alias, g.Field.Field.Column())
		}
		sb = sb.GroupBy(groupCols...)
	}

	havingSQL, havingArgs, err := e.compileCondition(q.Args.Having, alias, aliases)
	if err != nil {
		return "", nil, err
	}
	if havingSQL != "" {
		sb = sb.Having(havingSQL, havingArgs...)
	}

	if len(q.Args.OrderBy) > 0 {
		orderClauses, err := e.compileOrderBy(q.Args.OrderBy, alias, aliases)
		if err != nil {
			return "", nil, err
		}
		sb = sb.OrderBy(orderClauses...)
	}

	sql, args, err := sb.ToSql()
	if err != nil {
		return "", nil, err
	}
	rendered, err := e.render(sql)
	if err != nil {
		return "", nil, err
	}
	return rendered, args, nil
}
