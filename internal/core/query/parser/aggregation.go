package parser

import (
	"github.com/prismaquery/core/internal/core/perror"
	"github.com/prismaquery/core/internal/core/query/ast"
	"github.com/prismaquery/core/internal/core/query/resolver"
	"github.com/prismaquery/core/internal/core/schema/domain"
)

var numericAggKeys = map[string]ast.AggregateFunc{
	"_avg": ast.AggAvg,
	"_sum": ast.AggSum,
	"_min": ast.AggMin,
	"_max": ast.AggMax,
}

// hasAggregateKeys reports whether m carries any of the aggregation
// operator keys (spec §4.8), used by the nested-args and top-level
// parsers to decide whether an Aggregation node is present at all.
func hasAggregateKeys(m map[string]interface{}) bool {
	if _, ok := m["_count"]; ok {
		return true
	}
	for k := range numericAggKeys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}

// ParseAggregate parses the `_count`/`_sum`/`_avg`/`_min`/`_max` keys of
// m into an Aggregation node, emitted in that fixed order regardless of
// the input object's own key order (spec §4.8, E3).
func ParseAggregate(res *resolver.Resolver, model *domain.Model, m map[string]interface{}) (*ast.Aggregation, error) {
	var aggs []ast.AggField

	if cv, ok := m["_count"]; ok {
		fields, err := parseCountSpec(res, model, cv)
		if err != nil {
			return nil, err
		}
		aggs = append(aggs, fields...)
	}

	for _, key := range []string{"_sum", "_avg", "_min", "_max"} {
		v, ok := m[key]
		if !ok {
			continue
		}
		fields, err := parseNumericAggSpec(res, model, key, numericAggKeys[key], v)
		if err != nil {
			return nil, err
		}
		aggs = append(aggs, fields...)
	}

	return &ast.Aggregation{ModelName: model.Name, Aggregations: aggs}, nil
}

// ParseCount is the sugared form of `_count` used directly by the
// top-level `count` operation (spec §4.8, §4.12).
func ParseCount(res *resolver.Resolver, model *domain.Model, raw interface{}) (*ast.Aggregation, error) {
	if raw == nil {
		return &ast.Aggregation{ModelName: model.Name, Aggregations: []ast.AggField{{Op: ast.AggCount}}}, nil
	}
	fields, err := parseCountSpec(res, model, raw)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		fields = []ast.AggField{{Op: ast.AggCount}}
	}
	return &ast.Aggregation{ModelName: model.Name, Aggregations: fields}, nil
}

func parseCountSpec(res *resolver.Resolver, model *domain.Model, raw interface{}) ([]ast.AggField, error) {
	switch v := raw.(type) {
	case bool:
		if !v {
			return nil, nil
		}
		return []ast.AggField{{Op: ast.AggCount}}, nil
	case map[string]interface{}:
		var out []ast.AggField
		for _, k := range keys(v) {
			if k == "_all" {
				if truthy(v[k]) {
					out = append(out, ast.AggField{Op: ast.AggCount})
				}
				continue
			}
			if !truthy(v[k]) {
				continue
			}
			fref, err := res.ResolveField(model, k)
			if err != nil {
				return nil, wrapPath(err, "_count")
			}
			out = append(out, ast.AggField{Op: ast.AggCount, Field: &fref, Alias: "_count_" + k})
		}
		return out, nil
	default:
		return nil, perror.InvalidObject("_count", raw)
	}
}

func parseNumericAggSpec(res *resolver.Resolver, model *domain.Model, key string, fn ast.AggregateFunc, raw interface{}) ([]ast.AggField, error) {
	m, err := object(raw, key)
	if err != nil {
		return nil, err
	}
	var out []ast.AggField
	for _, fname := range keys(m) {
		if !truthy(m[fname]) {
			continue
		}
		fref, err := res.ResolveField(model, fname)
		if err != nil {
			return nil, wrapPath(err, key)
		}
		if !fref.Field.Type.Numeric() {
			return nil, perror.TypeMismatch(fname, key, string(fref.Field.Type))
		}
		out = append(out, ast.AggField{Op: fn, Field: &fref, Alias: key + "_" + fname})
	}
	return out, nil
}

// ParseGroupBy parses the `by` array of field names into a []GroupBy
// (spec §4.8).
func ParseGroupBy(res *resolver.Resolver, model *domain.Model, raw interface{}) ([]ast.GroupBy, error) {
	arr, err := array(raw, "groupBy")
	if err != nil {
		return nil, err
	}
	out := make([]ast.GroupBy, 0, len(arr))
	for _, el := range arr {
		name, err := str(el, "groupBy")
		if err != nil {
			return nil, err
		}
		fref, err := res.ResolveField(model, name)
		if err != nil {
			return nil, wrapPath(err, "groupBy")
		}
		out = append(out, ast.GroupBy{Field: fref})
	}
	return out, nil
}
