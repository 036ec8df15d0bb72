package compiler

import (
	"fmt"
	"strings"

	"github.com/prismaquery/core/internal/core/query/ast"
	"github.com/prismaquery/core/internal/core/schema/domain"
)

// compileColumns renders a SELECT column list for model aliased alias:
// either the fields/relations an explicit select/include clause names,
// or every scalar field by default, plus whatever include adds on top
// (spec §4.6, §4.13).
func (e *Emitter) compileColumns(model *domain.Model, sel *ast.Selection, inc *ast.Inclusion, alias string, aliases *aliasSet) ([]string, []interface{}, error) {
	var cols []string
	var args []interface{}

	switch {
	case sel != nil:
		for _, f := range sel.Fields {
			if f.Nested != nil {
				expr, a, err := e.compileNestedRelation(f.Nested, alias, aliases)
				if err != nil {
					return nil, nil, err
				}
				cols = append(cols, expr+" AS "+e.quote(f.Nested.Relation.Name))
				args = append(args, a...)
				continue
			}
			cols = append(cols, e.qualify(alias, f.Field.Field.Column())+" AS "+e.quote(f.Field.Name))
		}
	default:
		for i := range model.Fields {
			f := &model.Fields[i]
			cols = append(cols, e.qualify(alias, f.Column())+" AS "+e.quote(f.Name))
		}
	}

	if inc != nil {
		for _, ir := range inc.Relations {
			nested := ir.Nested
			if nested == nil {
				nested = &ast.NestedSelection{Relation: ir.Relation}
			}
			expr, a, err := e.compileNestedRelation(nested, alias, aliases)
			if err != nil {
				return nil, nil, err
			}
			cols = append(cols, expr+" AS "+e.quote(ir.Relation.Name))
			args = append(args, a...)
		}
	}

	if len(cols) == 0 {
		cols = []string{"*"}
	}
	return cols, args, nil
}

// compileNestedRelation renders a single relation as a correlated JSON
// subquery expression: a row object for to-one relations, a JSON array
// for to-many (spec §4.13, §6.4).
func (e *Emitter) compileNestedRelation(nested *ast.NestedSelection, parentAlias string, aliases *aliasSet) (string, []interface{}, error) {
	rref := nested.Relation
	target, err := e.reg.TargetModel(rref.Owner, rref.Relation)
	if err != nil {
		return "", nil, err
	}

	childAlias := aliases.next()
	join, joinArgs, err := e.relationJoinPredicate(rref, target, parentAlias, childAlias, aliases)
	if err != nil {
		return "", nil, err
	}

	innerCols, innerArgs, err := e.compileColumns(target, nested.Args.Select, nested.Args.Include, childAlias, aliases)
	if err != nil {
		return "", nil, err
	}

	where := join
	var whereArgs []interface{}
	if nested.Args.Where != nil {
		whereSQL, wa, err := e.compileCondition(nested.Args.Where, childAlias, aliases)
		if err != nil {
			return "", nil, err
		}
		if whereSQL != "" {
			where = where + " AND " + whereSQL
			whereArgs = wa
		}
	}

	rowSQL := fmt.Sprintf("SELECT %s FROM %s %s WHERE %s",
		strings.Join(innerCols, ", "), e.quote(target.Table()), e.quote(childAlias), where)

	if len(nested.Args.OrderBy) > 0 {
		orderClauses, err := e.compileOrderBy(nested.Args.OrderBy, childAlias, aliases)
		if err != nil {
			return "", nil, err
		}
		rowSQL += " ORDER BY " + strings.Join(orderClauses, ", ")
	}
	if rref.Relation.Kind.ToMany() {
		if nested.Args.Take != nil {
			rowSQL += fmt.Sprintf(" LIMIT %d", *nested.Args.Take)
		}
		if nested.Args.Skip != nil {
			rowSQL += fmt.Sprintf(" OFFSET %d", *nested.Args.Skip)
		}
	}

	args := append(append(append([]interface{}{}, innerArgs...), joinArgs...), whereArgs...)

	var expr string
	if rref.Relation.Kind.ToMany() {
		expr = fmt.Sprintf("(SELECT %s FROM (%s) %s)", e.dialect.JSONArrayAgg(childAlias), rowSQL, e.quote(childAlias))
	} else {
		expr = fmt.Sprintf("(SELECT %s FROM (%s) %s LIMIT 1)", e.dialect.JSONRowObject(childAlias), rowSQL, e.quote(childAlias))
	}
	return expr, args, nil
}
