package parser

import (
	"fmt"

	"github.com/prismaquery/core/internal/core/perror"
	"github.com/prismaquery/core/internal/core/query/ast"
	"github.com/prismaquery/core/internal/core/query/encoder"
	"github.com/prismaquery/core/internal/core/query/resolver"
	"github.com/prismaquery/core/internal/core/schema/domain"
	"github.com/prismaquery/core/internal/core/schema/registry"
)

// scalarOperatorKeys maps a where-object key to its Operator, for every
// operator that isn't a JSON-bundle key.
var scalarOperatorKeys = map[string]ast.Operator{
	"equals":     ast.OpEquals,
	"not":        ast.OpNot,
	"in":         ast.OpIn,
	"notIn":      ast.OpNotIn,
	"lt":         ast.OpLt,
	"lte":        ast.OpLte,
	"gt":         ast.OpGt,
	"gte":        ast.OpGte,
	"contains":   ast.OpContains,
	"startsWith": ast.OpStartsWith,
	"endsWith":   ast.OpEndsWith,
	"isNull":     ast.OpIsNull,
	"isNotNull":  ast.OpIsNotNull,
	"has":        ast.OpHas,
	"hasEvery":   ast.OpHasEvery,
	"hasSome":    ast.OpHasSome,
	"isEmpty":    ast.OpIsEmpty,
}

// jsonBundleKeys are the sibling keys that together describe a JSON
// operator condition (spec §4.4 rule 2).
var jsonBundleKeys = map[string]bool{
	"path":               true,
	"string_contains":    true,
	"string_starts_with": true,
	"string_ends_with":   true,
	"array_contains":     true,
	"array_starts_with":  true,
	"array_ends_with":    true,
}

// allowedOperatorsFor is the per-(type_tag, is_array) operator table
// (spec §9 "polymorphic per-type operator tables").
func allowedOperatorsFor(f *domain.Field) map[ast.Operator]bool {
	allowed := map[ast.Operator]bool{
		ast.OpEquals: true, ast.OpNot: true, ast.OpIn: true, ast.OpNotIn: true,
		ast.OpIsNull: true, ast.OpIsNotNull: true,
	}
	if f.Type.Orderable() && !f.IsArray {
		allowed[ast.OpLt] = true
		allowed[ast.OpLte] = true
		allowed[ast.OpGt] = true
		allowed[ast.OpGte] = true
	}
	if f.Type == domain.TypeString && !f.IsArray {
		allowed[ast.OpContains] = true
		allowed[ast.OpStartsWith] = true
		allowed[ast.OpEndsWith] = true
	}
	if f.IsArray {
		allowed[ast.OpHas] = true
		allowed[ast.OpHasEvery] = true
		allowed[ast.OpHasSome] = true
		allowed[ast.OpIsEmpty] = true
	}
	if f.Type == domain.TypeJSON {
		allowed[ast.OpJSONPath] = true
		allowed[ast.OpJSONContains] = true
		allowed[ast.OpJSONStartsWith] = true
		allowed[ast.OpJSONEndsWith] = true
		allowed[ast.OpArrayContains] = true
		allowed[ast.OpArrayStartsWith] = true
		allowed[ast.OpArrayEndsWith] = true
	}
	return allowed
}

func knownOperatorNames(f *domain.Field) []string {
	allowed := allowedOperatorsFor(f)
	out := make([]string, 0, len(allowed))
	for k, v := range scalarOperatorKeys {
		if allowed[v] {
			out = append(out, k)
		}
	}
	return out
}

// ParseWhere parses a `where` object into a single Condition tree, or
// nil if raw is nil or contributes no conditions (spec §4.4, §8
// property 9).
func ParseWhere(reg *registry.Registry, res *resolver.Resolver, model *domain.Model, raw interface{}) (*ast.Condition, error) {
	return parseTopLevelConditions(reg, res, model, raw, "where")
}

// ParseHaving parses a `having` object the same way ParseWhere does —
// having is syntactically identical to where, just evaluated after
// groupBy (spec §4.4, §4.12).
func ParseHaving(reg *registry.Registry, res *resolver.Resolver, model *domain.Model, raw interface{}) (*ast.Condition, error) {
	return parseTopLevelConditions(reg, res, model, raw, "having")
}

func parseTopLevelConditions(reg *registry.Registry, res *resolver.Resolver, model *domain.Model, raw interface{}, path string) (*ast.Condition, error) {
	if raw == nil {
		return nil, nil
	}
	conds, err := parseConditionsObject(reg, res, model, raw, path)
	if err != nil {
		return nil, err
	}
	return combineImplicitAnd(conds), nil
}

// combineImplicitAnd collapses a flat list of sibling conditions into a
// single node: nil for zero, the node itself for one, an implicit AND
// wrapper for more than one.
func combineImplicitAnd(conds []ast.Condition) *ast.Condition {
	switch len(conds) {
	case 0:
		return nil
	case 1:
		c := conds[0]
		return &c
	default:
		return &ast.Condition{TargetKind: ast.TargetLogical, LogicalOperator: ast.LogicalAnd, Nested: conds}
	}
}

func parseConditionsObject(reg *registry.Registry, res *resolver.Resolver, model *domain.Model, raw interface{}, path string) ([]ast.Condition, error) {
	m, err := object(raw, path)
	if err != nil {
		return nil, err
	}

	var out []ast.Condition
	for _, k := range keys(m) {
		v := m[k]
		switch k {
		case "AND":
			c, err := parseLogicalArray(reg, res, model, v, ast.LogicalAnd, path+".AND")
			if err != nil {
				return nil, err
			}
			out = append(out, *c)
		case "OR":
			c, err := parseLogicalArray(reg, res, model, v, ast.LogicalOr, path+".OR")
			if err != nil {
				return nil, err
			}
			out = append(out, *c)
		case "NOT":
			c, err := parseLogicalNot(reg, res, model, v, path+".NOT")
			if err != nil {
				return nil, err
			}
			out = append(out, *c)
		default:
			resn, err := res.ResolveFieldOrRelation(model, k)
			if err != nil {
				return nil, wrapPath(err, path)
			}
			if resn.IsRelation {
				c, err := parseRelationCondition(reg, res, resn.Relation, v, path+"."+k)
				if err != nil {
					return nil, err
				}
				out = append(out, *c)
			} else {
				conds, err := parseFieldValue(resn.Field, v, path+"."+k)
				if err != nil {
					return nil, err
				}
				out = append(out, conds...)
			}
		}
	}
	return out, nil
}

func parseLogicalArray(reg *registry.Registry, res *resolver.Resolver, model *domain.Model, raw interface{}, op ast.LogicalOp, path string) (*ast.Condition, error) {
	arr, err := array(raw, path)
	if err != nil {
		return nil, err
	}
	children := make([]ast.Condition, 0, len(arr))
	for i, el := range arr {
		conds, err := parseConditionsObject(reg, res, model, el, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		if c := combineImplicitAnd(conds); c != nil {
			children = append(children, *c)
		}
	}
	// An explicit `AND: []` keeps its empty Nested slice — a truthy
	// logical node, not nil (spec §4.4 edge-case policy).
	return &ast.Condition{TargetKind: ast.TargetLogical, LogicalOperator: op, Nested: children}, nil
}

func parseLogicalNot(reg *registry.Registry, res *resolver.Resolver, model *domain.Model, raw interface{}, path string) (*ast.Condition, error) {
	conds, err := parseConditionsObject(reg, res, model, raw, path)
	if err != nil {
		return nil, err
	}
	inner := combineImplicitAnd(conds)
	if inner == nil {
		inner = &ast.Condition{TargetKind: ast.TargetLogical, LogicalOperator: ast.LogicalAnd, Nested: []ast.Condition{}}
	}
	return &ast.Condition{TargetKind: ast.TargetLogical, LogicalOperator: ast.LogicalNot, Nested: []ast.Condition{*inner}, Negated: true}, nil
}

func parseRelationCondition(reg *registry.Registry, res *resolver.Resolver, rref registry.RelationRef, raw interface{}, path string) (*ast.Condition, error) {
	m, err := object(raw, path)
	if err != nil {
		return nil, err
	}

	var found string
	for _, k := range []string{"some", "every", "none", "is", "isNot"} {
		if _, ok := m[k]; ok {
			if found != "" {
				return nil, perror.WrongOperatorShape(rref.Name, k, "exactly one of some|every|none|is|isNot")
			}
			found = k
		}
	}
	if found == "" {
		return nil, perror.WrongOperatorShape(rref.Name, "", "one of some|every|none|is|isNot")
	}

	target, err := reg.TargetModel(rref.Owner, rref.Relation)
	if err != nil {
		return nil, err
	}
	nested, err := parseConditionsObject(reg, res, target, m[found], path+"."+found)
	if err != nil {
		return nil, err
	}

	return &ast.Condition{
		TargetKind:     ast.TargetRelation,
		TargetRelation: rref,
		RelOp:          ast.RelationOp(found),
		Nested:         nested,
	}, nil
}

func parseFieldValue(fref registry.FieldRef, raw interface{}, path string) ([]ast.Condition, error) {
	if m, ok := raw.(map[string]interface{}); ok && isOperatorObject(m) {
		if fref.Field.Type == domain.TypeJSON && hasJSONBundleKey(m) {
			cond, err := parseJSONCondition(fref, m, path)
			if err != nil {
				return nil, err
			}
			return []ast.Condition{*cond}, nil
		}
		return parseScalarOperatorObject(fref, m, path)
	}
	cond, err := buildScalarCondition(fref, ast.OpEquals, raw, ast.ModeDefault, path)
	if err != nil {
		return nil, err
	}
	return []ast.Condition{*cond}, nil
}

func isOperatorObject(m map[string]interface{}) bool {
	for k := range m {
		if k == "mode" {
			continue
		}
		if _, ok := scalarOperatorKeys[k]; ok {
			return true
		}
		if jsonBundleKeys[k] {
			return true
		}
	}
	return false
}

func hasJSONBundleKey(m map[string]interface{}) bool {
	for k := range m {
		if jsonBundleKeys[k] {
			return true
		}
	}
	return false
}

func parseScalarOperatorObject(fref registry.FieldRef, m map[string]interface{}, path string) ([]ast.Condition, error) {
	mode := ast.ModeDefault
	if mv, ok := m["mode"]; ok {
		ms, err := str(mv, path+".mode")
		if err != nil {
			return nil, err
		}
		if ms != "default" && ms != "insensitive" {
			return nil, perror.WrongOperatorShape(fref.Name, "mode", `"default" or "insensitive"`)
		}
		mode = ast.FilterMode(ms)
	}

	allowed := allowedOperatorsFor(fref.Field)
	var conds []ast.Condition
	for _, k := range keys(m) {
		if k == "mode" {
			continue
		}
		op, known := scalarOperatorKeys[k]
		if !known {
			return nil, perror.UnknownOperator(fref.Name, k, knownOperatorNames(fref.Field))
		}
		if !allowed[op] {
			return nil, perror.TypeMismatch(fref.Name, k, string(fref.Field.Type))
		}
		cond, err := buildScalarCondition(fref, op, m[k], mode, path+"."+k)
		if err != nil {
			return nil, err
		}
		conds = append(conds, *cond)
	}
	return conds, nil
}

func buildScalarCondition(fref registry.FieldRef, op ast.Operator, raw interface{}, mode ast.FilterMode, path string) (*ast.Condition, error) {
	switch op {
	case ast.OpIsNull, ast.OpIsNotNull:
		b, err := boolArg(raw, path)
		if err != nil {
			return nil, err
		}
		effective := op
		if !b {
			if op == ast.OpIsNull {
				effective = ast.OpIsNotNull
			} else {
				effective = ast.OpIsNull
			}
		}
		return &ast.Condition{TargetKind: ast.TargetField, TargetField: fref, Operator: effective}, nil

	case ast.OpIn, ast.OpNotIn:
		// in/notIn always compare against the field's scalar element
		// type, one value at a time, regardless of whether the field
		// itself is declared array — so the encoding context is forced
		// to is_array=true here rather than reusing fref directly.
		elemRef := registry.FieldRef{Name: fref.Name, Owner: fref.Owner, Field: &domain.Field{Name: fref.Field.Name, Type: fref.Field.Type, IsArray: true}}
		v, err := encoder.Encode(raw, &elemRef)
		if err != nil {
			return nil, err
		}
		if !v.IsArray {
			return nil, perror.InNotInRequiresArray(fref.Name, string(op))
		}
		return &ast.Condition{TargetKind: ast.TargetField, TargetField: fref, Operator: op, Value: v}, nil

	case ast.OpContains, ast.OpStartsWith, ast.OpEndsWith:
		v, err := encoder.Encode(raw, &fref)
		if err != nil {
			return nil, err
		}
		v.Options = &ast.ValueOptions{Mode: mode}
		return &ast.Condition{TargetKind: ast.TargetField, TargetField: fref, Operator: op, Value: v}, nil

	case ast.OpHas:
		elemRef := registry.FieldRef{Name: fref.Name, Owner: fref.Owner, Field: &domain.Field{Name: fref.Field.Name, Type: fref.Field.Type}}
		v, err := encoder.Encode(raw, &elemRef)
		if err != nil {
			return nil, err
		}
		return &ast.Condition{TargetKind: ast.TargetField, TargetField: fref, Operator: op, Value: v}, nil

	case ast.OpHasEvery, ast.OpHasSome:
		v, err := encoder.Encode(raw, &fref)
		if err != nil {
			return nil, err
		}
		if !v.IsArray {
			return nil, perror.InvalidArray(path, raw)
		}
		return &ast.Condition{TargetKind: ast.TargetField, TargetField: fref, Operator: op, Value: v}, nil

	case ast.OpIsEmpty:
		b, err := boolArg(raw, path)
		if err != nil {
			return nil, err
		}
		return &ast.Condition{TargetKind: ast.TargetField, TargetField: fref, Operator: op, Value: &ast.Value{Raw: b, TypeTag: domain.TypeBoolean}}, nil

	default: // equals, not, lt, lte, gt, gte
		v, err := encoder.Encode(raw, &fref)
		if err != nil {
			return nil, err
		}
		return &ast.Condition{TargetKind: ast.TargetField, TargetField: fref, Operator: op, Value: v}, nil
	}
}

// parseJSONCondition builds the single "equals-shaped" JSON condition
// from whichever bundle keys are present (spec §4.4 rule 2).
func parseJSONCondition(fref registry.FieldRef, m map[string]interface{}, path string) (*ast.Condition, error) {
	opts := &ast.JSONOptions{}
	if pv, ok := m["path"]; ok {
		parr, err := array(pv, path+".path")
		if err != nil {
			return nil, err
		}
		segs := make([]string, len(parr))
		for i, s := range parr {
			ss, err := str(s, fmt.Sprintf("%s.path[%d]", path, i))
			if err != nil {
				return nil, err
			}
			segs[i] = ss
		}
		opts.Path = segs
	}

	var op ast.Operator
	var raw interface{}
	var hasOp bool

	takeString := func(key string) (*string, bool, error) {
		v, ok := m[key]
		if !ok {
			return nil, false, nil
		}
		s, err := str(v, path+"."+key)
		if err != nil {
			return nil, false, err
		}
		return &s, true, nil
	}

	if s, ok, err := takeString("string_contains"); err != nil {
		return nil, err
	} else if ok {
		op, raw, hasOp = ast.OpJSONContains, *s, true
		opts.StringContains = s
	} else if s, ok, err := takeString("string_starts_with"); err != nil {
		return nil, err
	} else if ok {
		op, raw, hasOp = ast.OpJSONStartsWith, *s, true
		opts.StringStartsWith = s
	} else if s, ok, err := takeString("string_ends_with"); err != nil {
		return nil, err
	} else if ok {
		op, raw, hasOp = ast.OpJSONEndsWith, *s, true
		opts.StringEndsWith = s
	} else if v, ok := m["array_contains"]; ok {
		op, raw, hasOp = ast.OpArrayContains, v, true
		opts.ArrayContains = v
	} else if v, ok := m["array_starts_with"]; ok {
		op, raw, hasOp = ast.OpArrayStartsWith, v, true
		opts.ArrayStartsWith = v
	} else if v, ok := m["array_ends_with"]; ok {
		op, raw, hasOp = ast.OpArrayEndsWith, v, true
		opts.ArrayEndsWith = v
	} else if v, ok := m["equals"]; ok {
		op, raw, hasOp = ast.OpJSONPath, v, true
	}

	if !hasOp {
		return nil, perror.WrongOperatorShape(fref.Name, "path", "a comparison key alongside path (equals, string_contains, array_contains, ...)")
	}

	v, err := encoder.Encode(raw, &fref)
	if err != nil {
		return nil, err
	}
	v.Options = &ast.ValueOptions{JSON: opts}

	return &ast.Condition{TargetKind: ast.TargetField, TargetField: fref, Operator: op, Value: v}, nil
}

func wrapPath(err error, path string) error {
	if err == nil {
		return nil
	}
	if pe, ok := err.(*perror.ParseError); ok {
		return pe.WithPath(path)
	}
	return err
}
