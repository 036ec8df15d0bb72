package parser

import (
	"fmt"

	"github.com/prismaquery/core/internal/core/perror"
	"github.com/prismaquery/core/internal/core/query/ast"
	"github.com/prismaquery/core/internal/core/query/resolver"
	"github.com/prismaquery/core/internal/core/schema/domain"
	"github.com/prismaquery/core/internal/core/schema/registry"
)

var orderAggregateKeys = map[string]ast.AggregateFunc{
	"_count": ast.AggCount,
	"_avg":   ast.AggAvg,
	"_sum":   ast.AggSum,
	"_min":   ast.AggMin,
	"_max":   ast.AggMax,
}

// ParseOrderBy parses an `orderBy` clause, accepting either a single
// object or an array of objects (spec §4.7).
func ParseOrderBy(reg *registry.Registry, res *resolver.Resolver, model *domain.Model, raw interface{}) ([]ast.Ordering, error) {
	switch v := raw.(type) {
	case []interface{}:
		var out []ast.Ordering
		for i, el := range v {
			m, err := object(el, fmt.Sprintf("orderBy[%d]", i))
			if err != nil {
				return nil, err
			}
			entries, err := parseOrderingEntries(reg, res, model, m)
			if err != nil {
				return nil, err
			}
			out = append(out, entries...)
		}
		return out, nil
	case map[string]interface{}:
		return parseOrderingEntries(reg, res, model, v)
	default:
		return nil, perror.InvalidObject("orderBy", raw)
	}
}

func parseOrderingEntries(reg *registry.Registry, res *resolver.Resolver, model *domain.Model, m map[string]interface{}) ([]ast.Ordering, error) {
	out := make([]ast.Ordering, 0, len(m))
	for _, k := range keys(m) {
		v := m[k]
		if fn, ok := orderAggregateKeys[k]; ok {
			ord, err := parseAggregateOrdering(res, model, fn, v)
			if err != nil {
				return nil, err
			}
			out = append(out, ord)
			continue
		}

		resn, err := res.ResolveFieldOrRelation(model, k)
		if err != nil {
			return nil, wrapPath(err, "orderBy")
		}
		if resn.IsRelation {
			ord, err := parseRelationOrdering(reg, res, resn.Relation, v)
			if err != nil {
				return nil, err
			}
			out = append(out, ord)
		} else {
			ord, err := parseFieldOrdering(resn.Field, v)
			if err != nil {
				return nil, err
			}
			out = append(out, ord)
		}
	}
	return out, nil
}

func parseAggregateOrdering(res *resolver.Resolver, model *domain.Model, fn ast.AggregateFunc, raw interface{}) (ast.Ordering, error) {
	switch v := raw.(type) {
	case string:
		dir, err := parseDirection(v)
		if err != nil {
			return ast.Ordering{}, err
		}
		return ast.Ordering{TargetKind: ast.OrderAggregate, Aggregate: fn, Direction: dir}, nil
	case map[string]interface{}:
		if len(v) != 1 {
			return ast.Ordering{}, perror.WrongCardinality("aggregate orderBy field", len(v), 1)
		}
		for fname, fv := range v {
			dirStr, err := str(fv, "orderBy."+fname)
			if err != nil {
				return ast.Ordering{}, err
			}
			dir, err := parseDirection(dirStr)
			if err != nil {
				return ast.Ordering{}, err
			}
			fref, err := res.ResolveField(model, fname)
			if err != nil {
				return ast.Ordering{}, wrapPath(err, "orderBy")
			}
			return ast.Ordering{TargetKind: ast.OrderAggregate, Aggregate: fn, AggregateOver: fref, Direction: dir}, nil
		}
		panic("unreachable")
	default:
		return ast.Ordering{}, perror.InvalidObject("orderBy", raw)
	}
}

func parseFieldOrdering(fref registry.FieldRef, raw interface{}) (ast.Ordering, error) {
	switch v := raw.(type) {
	case string:
		dir, err := parseDirection(v)
		if err != nil {
			return ast.Ordering{}, err
		}
		return ast.Ordering{TargetKind: ast.OrderField, Field: fref, Direction: dir}, nil
	case map[string]interface{}:
		sortRaw, ok := v["sort"]
		if !ok {
			return ast.Ordering{}, perror.WrongOperatorShape(fref.Name, "sort", `"asc" or "desc"`)
		}
		sortStr, err := str(sortRaw, "orderBy."+fref.Name+".sort")
		if err != nil {
			return ast.Ordering{}, err
		}
		dir, err := parseDirection(sortStr)
		if err != nil {
			return ast.Ordering{}, err
		}
		nulls := ast.NullsUnspecified
		if nv, ok := v["nulls"]; ok {
			ns, err := str(nv, "orderBy."+fref.Name+".nulls")
			if err != nil {
				return ast.Ordering{}, err
			}
			if ns != "first" && ns != "last" {
				return ast.Ordering{}, perror.WrongOperatorShape(fref.Name, "nulls", `"first" or "last"`)
			}
			nulls = ast.NullsOrder(ns)
		}
		return ast.Ordering{TargetKind: ast.OrderField, Field: fref, Direction: dir, Nulls: nulls}, nil
	default:
		return ast.Ordering{}, perror.InvalidObject(fref.Name, raw)
	}
}

func parseRelationOrdering(reg *registry.Registry, res *resolver.Resolver, rref registry.RelationRef, raw interface{}) (ast.Ordering, error) {
	m, err := object(raw, rref.Name)
	if err != nil {
		return ast.Ordering{}, err
	}

	if cv, ok := m["_count"]; ok && len(m) == 1 {
		dirStr, err := str(cv, "orderBy."+rref.Name+"._count")
		if err != nil {
			return ast.Ordering{}, err
		}
		dir, err := parseDirection(dirStr)
		if err != nil {
			return ast.Ordering{}, err
		}
		return ast.Ordering{TargetKind: ast.OrderRelation, Relation: rref, Aggregate: ast.AggCount, Direction: dir}, nil
	}

	target, err := reg.TargetModel(rref.Owner, rref.Relation)
	if err != nil {
		return ast.Ordering{}, err
	}
	entries, err := parseOrderingEntries(reg, res, target, m)
	if err != nil {
		return ast.Ordering{}, err
	}
	if len(entries) != 1 {
		return ast.Ordering{}, perror.WrongCardinality("relation orderBy", len(entries), 1)
	}
	inner := entries[0]
	return ast.Ordering{TargetKind: ast.OrderRelation, Relation: rref, Nested: &inner, Direction: inner.Direction}, nil
}

func parseDirection(s string) (ast.SortDirection, error) {
	switch s {
	case "asc":
		return ast.Asc, nil
	case "desc":
		return ast.Desc, nil
	default:
		return "", perror.WrongOperatorShape("orderBy", s, `"asc" or "desc"`)
	}
}
