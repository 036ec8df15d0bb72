package parser

import (
	"github.com/prismaquery/core/internal/core/perror"
	"github.com/prismaquery/core/internal/core/query/ast"
	"github.com/prismaquery/core/internal/core/query/resolver"
	"github.com/prismaquery/core/internal/core/schema/domain"
	"github.com/prismaquery/core/internal/core/schema/registry"
)

// ParseSelect parses a `select` object (spec §4.6). A relation key's
// value may be `true` (select it with default nested args) or a nested
// args object; a field key's value is included iff truthy.
func ParseSelect(reg *registry.Registry, res *resolver.Resolver, model *domain.Model, raw interface{}) (*ast.Selection, error) {
	m, err := object(raw, "select")
	if err != nil {
		return nil, err
	}

	fields := make([]ast.SelectionField, 0, len(m))
	for _, k := range keys(m) {
		resn, err := res.ResolveFieldOrRelation(model, k)
		if err != nil {
			return nil, wrapPath(err, "select")
		}
		if resn.IsRelation {
			nested, include, err := parseRelationInclusion(reg, res, resn.Relation, m[k])
			if err != nil {
				return nil, err
			}
			if include {
				fields = append(fields, ast.SelectionField{Nested: nested})
			}
			continue
		}
		if truthy(m[k]) {
			fields = append(fields, ast.SelectionField{Field: resn.Field})
		}
	}
	return &ast.Selection{Fields: fields}, nil
}

// ParseInclude parses an `include` object, which names relations
// exclusively (spec §4.6).
func ParseInclude(reg *registry.Registry, res *resolver.Resolver, model *domain.Model, raw interface{}) (*ast.Inclusion, error) {
	m, err := object(raw, "include")
	if err != nil {
		return nil, err
	}

	relations := make([]ast.InclusionRelation, 0, len(m))
	for _, k := range keys(m) {
		rref, err := res.ResolveRelation(model, k)
		if err != nil {
			return nil, wrapPath(err, "include")
		}
		nested, include, err := parseRelationInclusion(reg, res, rref, m[k])
		if err != nil {
			return nil, err
		}
		if include {
			relations = append(relations, ast.InclusionRelation{Relation: rref, Nested: nested})
		}
	}
	return &ast.Inclusion{Relations: relations}, nil
}

func parseRelationInclusion(reg *registry.Registry, res *resolver.Resolver, rref registry.RelationRef, raw interface{}) (*ast.NestedSelection, bool, error) {
	switch v := raw.(type) {
	case bool:
		if !v {
			return nil, false, nil
		}
		return &ast.NestedSelection{Relation: rref}, true, nil
	case map[string]interface{}:
		target, err := reg.TargetModel(rref.Owner, rref.Relation)
		if err != nil {
			return nil, false, err
		}
		args, err := parseNestedArgs(reg, res, target, v)
		if err != nil {
			return nil, false, err
		}
		return &ast.NestedSelection{Relation: rref, Args: args}, true, nil
	default:
		return nil, false, perror.InvalidObject(rref.Name, raw)
	}
}

// parseNestedArgs parses the subset of QueryArgs a nested relation's
// select/include value may carry (spec §4.6): select, include, where,
// orderBy, take, skip, distinct, cursor, groupBy, having, and the
// aggregation operators.
func parseNestedArgs(reg *registry.Registry, res *resolver.Resolver, model *domain.Model, m map[string]interface{}) (ast.QueryArgs, error) {
	var args ast.QueryArgs
	var err error

	if v, ok := m["where"]; ok {
		if args.Where, err = ParseWhere(reg, res, model, v); err != nil {
			return args, err
		}
	}
	if v, ok := m["select"]; ok {
		if args.Select, err = ParseSelect(reg, res, model, v); err != nil {
			return args, err
		}
	}
	if v, ok := m["include"]; ok {
		if args.Include, err = ParseInclude(reg, res, model, v); err != nil {
			return args, err
		}
	}
	if v, ok := m["orderBy"]; ok {
		if args.OrderBy, err = ParseOrderBy(reg, res, model, v); err != nil {
			return args, err
		}
	}
	if v, ok := m["take"]; ok {
		t, err := intArg(v, "take")
		if err != nil {
			return args, err
		}
		args.Take = &t
	}
	if v, ok := m["skip"]; ok {
		s, err := intArg(v, "skip")
		if err != nil {
			return args, err
		}
		args.Skip = &s
	}
	if v, ok := m["distinct"]; ok {
		if args.Distinct, err = parseDistinct(res, model, v); err != nil {
			return args, err
		}
	}
	if v, ok := m["cursor"]; ok {
		if args.Cursor, err = ParseCursor(res, model, v); err != nil {
			return args, err
		}
	}
	if v, ok := m["groupBy"]; ok {
		if args.GroupBy, err = ParseGroupBy(res, model, v); err != nil {
			return args, err
		}
	}
	if v, ok := m["having"]; ok {
		if args.Having, err = ParseHaving(reg, res, model, v); err != nil {
			return args, err
		}
	}
	if hasAggregateKeys(m) {
		if args.Aggregate, err = ParseAggregate(res, model, m); err != nil {
			return args, err
		}
	}
	return args, nil
}

func parseDistinct(res *resolver.Resolver, model *domain.Model, raw interface{}) ([]registry.FieldRef, error) {
	arr, err := array(raw, "distinct")
	if err != nil {
		return nil, err
	}
	out := make([]registry.FieldRef, 0, len(arr))
	for _, el := range arr {
		name, err := str(el, "distinct")
		if err != nil {
			return nil, err
		}
		fref, err := res.ResolveField(model, name)
		if err != nil {
			return nil, wrapPath(err, "distinct")
		}
		out = append(out, fref)
	}
	return out, nil
}
