package compiler

import (
	"fmt"
	"strings"

	"github.com/prismaquery/core/internal/core/perror"
	"github.com/prismaquery/core/internal/core/query/ast"
)

// compileOrderBy renders an ORDER BY clause list against alias (spec
// §4.13, §4.7). Relation orderings become correlated scalar subqueries;
// aggregate orderings render as AGG(column) or COUNT(*); field
// orderings are plain column/alias references.
func (e *Emitter) compileOrderBy(orderings []ast.Ordering, alias string, aliases *aliasSet) ([]string, error) {
	out := make([]string, 0, len(orderings))
	for _, o := range orderings {
		clause, err := e.compileOrdering(o, alias, aliases)
		if err != nil {
			return nil, err
		}
		out = append(out, clause)
	}
	return out, nil
}

func (e *Emitter) compileOrdering(o ast.Ordering, alias string, aliases *aliasSet) (string, error) {
	dir := strings.ToUpper(string(o.Direction))
	if dir == "" {
		dir = "ASC"
	}
	nulls := ""
	switch o.Nulls {
	case ast.NullsFirst:
		nulls = " NULLS FIRST"
	case ast.NullsLast:
		nulls = " NULLS LAST"
	}

	switch o.TargetKind {
	case ast.OrderField:
		return fmt.Sprintf("%s %s%s", e.qualify(alias, o.Field.Field.Column()), dir, nulls), nil

	case ast.OrderAggregate:
		if o.AggregateOver.Field != nil {
			return fmt.Sprintf("%s(%s) %s", aggSQLFunc(o.Aggregate), e.qualify(alias, o.AggregateOver.Field.Column()), dir), nil
		}
		return fmt.Sprintf("COUNT(*) %s", dir), nil

	case ast.OrderRelation:
		target, err := e.reg.TargetModel(o.Relation.Owner, o.Relation.Relation)
		if err != nil {
			return "", err
		}
		childAlias := aliases.next()
		join, _, err := e.relationJoinPredicate(o.Relation, target, alias, childAlias, aliases)
		if err != nil {
			return "", err
		}
		if o.Nested != nil && o.Nested.TargetKind == ast.OrderField {
			return fmt.Sprintf("(SELECT %s FROM %s %s WHERE %s LIMIT 1) %s",
				e.qualify(childAlias, o.Nested.Field.Field.Column()), e.quote(target.Table()), e.quote(childAlias), join, dir), nil
		}
		return fmt.Sprintf("(SELECT COUNT(*) FROM %s %s WHERE %s) %s",
			e.quote(target.Table()), e.quote(childAlias), join, dir), nil

	default:
		return "", perror.Internal("emitter: unhandled ordering target kind %q", o.TargetKind)
	}
}

func aggSQLFunc(fn ast.AggregateFunc) string {
	switch fn {
	case ast.AggAvg:
		return "AVG"
	case ast.AggSum:
		return "SUM"
	case ast.AggMin:
		return "MIN"
	case ast.AggMax:
		return "MAX"
	default:
		return "COUNT"
	}
}
