package compiler

import (
	"fmt"
	"strings"

	"github.com/prismaquery/core/internal/core/perror"
	"github.com/prismaquery/core/internal/core/query/ast"
	"github.com/prismaquery/core/internal/core/schema/domain"
	"github.com/prismaquery/core/internal/core/schema/registry"
)

// compileCondition walks a Condition tree rooted at a table aliased
// alias and returns a "?"-parameterized SQL fragment plus its
// positional arguments (spec §4.13).
func (e *Emitter) compileCondition(cond *ast.Condition, alias string, aliases *aliasSet) (string, []interface{}, error) {
	if cond == nil {
		return "", nil, nil
	}
	switch cond.TargetKind {
	case ast.TargetField:
		return e.compileFieldCondition(cond, alias)
	case ast.TargetLogical:
		return e.compileLogicalCondition(cond, alias, aliases)
	case ast.TargetRelation:
		return e.compileRelationCondition(cond, alias, aliases)
	default:
		return "", nil, perror.Internal("emitter: condition has unknown target kind %q", cond.TargetKind)
	}
}

func (e *Emitter) compileLogicalCondition(cond *ast.Condition, alias string, aliases *aliasSet) (string, []interface{}, error) {
	if cond.LogicalOperator == ast.LogicalNot {
		if len(cond.Nested) != 1 {
			return "", nil, perror.Internal("emitter: NOT condition must have exactly one child, got %d", len(cond.Nested))
		}
		inner, args, err := e.compileCondition(&cond.Nested[0], alias, aliases)
		if err != nil {
			return "", nil, err
		}
		if inner == "" {
			return "", nil, nil
		}
		return "NOT (" + inner + ")", args, nil
	}

	if len(cond.Nested) == 0 {
		// An explicit AND/OR with no children is vacuously true (spec
		// §4.4 edge case: `AND: []` stays a truthy, non-nil node).
		return "(1 = 1)", nil, nil
	}

	joiner := " AND "
	if cond.LogicalOperator == ast.LogicalOr {
		joiner = " OR "
	}

	parts := make([]string, 0, len(cond.Nested))
	var args []interface{}
	for i := range cond.Nested {
		frag, a, err := e.compileCondition(&cond.Nested[i], alias, aliases)
		if err != nil {
			return "", nil, err
		}
		if frag == "" {
			continue
		}
		parts = append(parts, frag)
		args = append(args, a...)
	}
	if len(parts) == 0 {
		return "(1 = 1)", nil, nil
	}
	return "(" + strings.Join(parts, joiner) + ")", args, nil
}

func (e *Emitter) compileFieldCondition(cond *ast.Condition, alias string) (string, []interface{}, error) {
	fref := cond.TargetField
	col := e.qualify(alias, fref.Field.Column())
	v := cond.Value

	switch cond.Operator {
	case ast.OpEquals:
		return col + " = ?", []interface{}{scalarArg(v)}, nil
	case ast.OpNot:
		return col + " <> ?", []interface{}{scalarArg(v)}, nil
	case ast.OpLt:
		return col + " < ?", []interface{}{scalarArg(v)}, nil
	case ast.OpLte:
		return col + " <= ?", []interface{}{scalarArg(v)}, nil
	case ast.OpGt:
		return col + " > ?", []interface{}{scalarArg(v)}, nil
	case ast.OpGte:
		return col + " >= ?", []interface{}{scalarArg(v)}, nil

	case ast.OpIn, ast.OpNotIn:
		elems := arrayArgs(v)
		if len(elems) == 0 {
			// An empty IN-list is never satisfied; NOT IN is vacuously true.
			if cond.Operator == ast.OpIn {
				return "(1 = 0)", nil, nil
			}
			return "(1 = 1)", nil, nil
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(elems)), ",")
		op := "IN"
		if cond.Operator == ast.OpNotIn {
			op = "NOT IN"
		}
		return fmt.Sprintf("%s %s (%s)", col, op, placeholders), elems, nil

	case ast.OpContains, ast.OpStartsWith, ast.OpEndsWith:
		insensitive := v != nil && v.Options != nil && v.Options.Mode == ast.ModeInsensitive
		raw, _ := scalarArg(v).(string)
		like := e.dialect.LikeOperator(insensitive)
		return fmt.Sprintf("%s %s ?", col, like), []interface{}{e.dialect.WrapLike(cond.Operator, raw)}, nil

	case ast.OpIsNull:
		return col + " IS NULL", nil, nil
	case ast.OpIsNotNull:
		return col + " IS NOT NULL", nil, nil

	case ast.OpHas:
		return fmt.Sprintf("? = %s", e.dialect.WrapArrayAny(col)), []interface{}{scalarArg(v)}, nil
	case ast.OpHasEvery:
		return e.dialect.ArrayContainsExpr(col, "?"), []interface{}{e.dialect.WrapArrayValue(arrayArgs(v))}, nil
	case ast.OpHasSome:
		return e.dialect.ArrayOverlapExpr(col, "?"), []interface{}{e.dialect.WrapArrayValue(arrayArgs(v))}, nil
	case ast.OpIsEmpty:
		empty, _ := scalarArg(v).(bool)
		return e.dialect.ArrayEmptyExpr(col, empty), nil, nil

	case ast.OpJSONPath, ast.OpJSONContains, ast.OpJSONStartsWith, ast.OpJSONEndsWith,
		ast.OpArrayContains, ast.OpArrayStartsWith, ast.OpArrayEndsWith:
		return e.compileJSONCondition(cond, col)

	default:
		return "", nil, perror.Internal("emitter: unhandled operator %q", cond.Operator)
	}
}

func (e *Emitter) compileJSONCondition(cond *ast.Condition, col string) (string, []interface{}, error) {
	v := cond.Value
	target := col
	if v != nil && v.Options != nil && v.Options.JSON != nil && len(v.Options.JSON.Path) > 0 {
		target = e.dialect.JSONPathExpr(col, v.Options.JSON.Path)
	}

	switch cond.Operator {
	case ast.OpJSONPath:
		return target + " = " + e.dialect.CastJSON("?"), []interface{}{scalarArg(v)}, nil
	case ast.OpJSONContains, ast.OpJSONStartsWith, ast.OpJSONEndsWith:
		like := e.dialect.LikeOperator(false)
		raw, _ := scalarArg(v).(string)
		return fmt.Sprintf("%s %s ?", target, like), []interface{}{e.dialect.WrapLike(likeOpFor(cond.Operator), raw)}, nil
	case ast.OpArrayContains:
		return e.dialect.ArrayContainsExpr(target, "?"), []interface{}{e.dialect.WrapArrayValue(arrayArgs(v))}, nil
	case ast.OpArrayStartsWith, ast.OpArrayEndsWith:
		return e.dialect.ArrayOverlapExpr(target, "?"), []interface{}{e.dialect.WrapArrayValue(arrayArgs(v))}, nil
	default:
		return "", nil, perror.Internal("emitter: unhandled JSON operator %q", cond.Operator)
	}
}

func likeOpFor(op ast.Operator) ast.Operator {
	switch op {
	case ast.OpJSONStartsWith:
		return ast.OpStartsWith
	case ast.OpJSONEndsWith:
		return ast.OpEndsWith
	default:
		return ast.OpContains
	}
}

// compileRelationCondition renders a some/every/none/is/isNot predicate
// as a correlated (NOT) EXISTS subquery (spec §4.13).
func (e *Emitter) compileRelationCondition(cond *ast.Condition, alias string, aliases *aliasSet) (string, []interface{}, error) {
	rref := cond.TargetRelation
	target, err := e.reg.TargetModel(rref.Owner, rref.Relation)
	if err != nil {
		return "", nil, err
	}

	childAlias := aliases.next()
	join, joinArgs, err := e.relationJoinPredicate(rref, target, alias, childAlias, aliases)
	if err != nil {
		return "", nil, err
	}

	var nestedSQL string
	var nestedArgs []interface{}
	if len(cond.Nested) > 0 {
		synthetic := ast.Condition{TargetKind: ast.TargetLogical, LogicalOperator: ast.LogicalAnd, Nested: cond.Nested}
		nestedSQL, nestedArgs, err = e.compileCondition(&synthetic, childAlias, aliases)
		if err != nil {
			return "", nil, err
		}
	}

	where := join
	args := joinArgs
	negateInner := false
	switch cond.RelOp {
	case ast.RelSome, ast.RelIs:
		if nestedSQL != "" {
			where = where + " AND " + nestedSQL
			args = append(args, nestedArgs...)
		}
	case ast.RelNone, ast.RelIsNot:
		if nestedSQL != "" {
			where = where + " AND " + nestedSQL
			args = append(args, nestedArgs...)
		}
		negateInner = true
	case ast.RelEvery:
		// "every" holds iff no related row fails the predicate.
		if nestedSQL != "" {
			where = where + " AND NOT (" + nestedSQL + ")"
			args = append(args, nestedArgs...)
		} else {
			where = where + " AND (1 = 0)"
		}
		negateInner = true
	default:
		return "", nil, perror.Internal("emitter: unhandled relation op %q", cond.RelOp)
	}

	sub := fmt.Sprintf("SELECT 1 FROM %s %s WHERE %s",
		e.quote(target.Table()), e.quote(childAlias), where)
	if negateInner {
		return "NOT EXISTS (" + sub + ")", args, nil
	}
	return "EXISTS (" + sub + ")", args, nil
}

// relationJoinPredicate builds the predicate correlating the parent row
// (alias) to the candidate related row (childAlias), branching on
// cardinality (spec §4.13). manyToOne/oneToOne assume the FK lives on
// the relation's owning side (rel.OnField); oneToMany assumes it lives
// on the many side (childAlias); manyToMany goes through the junction
// table, deriving the non-owning side's FK column by convention when
// the schema builder didn't name it explicitly.
func (e *Emitter) relationJoinPredicate(rref registry.RelationRef, target *domain.Model, alias, childAlias string, aliases *aliasSet) (string, []interface{}, error) {
	rel := rref.Relation
	refField := rel.RefField
	if refField == "" {
		refField = "id"
	}

	switch rel.Kind {
	case domain.ManyToOne, domain.OneToOne:
		return e.qualify(alias, rel.OnField) + " = " + e.qualify(childAlias, refField), nil, nil

	case domain.OneToMany:
		return e.qualify(childAlias, rel.OnField) + " = " + e.qualify(alias, refField), nil, nil

	case domain.ManyToMany:
		ownSide := rel.JunctionField
		if ownSide == "" {
			ownSide = strings.ToLower(rref.Owner.Name) + "_id"
		}
		otherSide := strings.ToLower(target.Name) + "_id"
		jAlias := aliases.next()
		sql := fmt.Sprintf("EXISTS (SELECT 1 FROM %s %s WHERE %s = %s AND %s = %s)",
			e.quote(rel.JunctionTable), e.quote(jAlias),
			e.qualify(jAlias, ownSide), e.qualify(alias, "id"),
			e.qualify(jAlias, otherSide), e.qualify(childAlias, "id"))
		return sql, nil, nil

	default:
		return "", nil, perror.Internal("emitter: unhandled relation kind %q", rel.Kind)
	}
}

func scalarArg(v *ast.Value) interface{} {
	if v == nil {
		return nil
	}
	return v.Raw
}

func arrayArgs(v *ast.Value) []interface{} {
	if v == nil {
		return nil
	}
	if len(v.Elements) > 0 {
		out := make([]interface{}, len(v.Elements))
		for i, el := range v.Elements {
			out[i] = el.Raw
		}
		return out
	}
	if arr, ok := v.Raw.([]interface{}); ok {
		return arr
	}
	return nil
}
