package parser

import (
	"github.com/prismaquery/core/internal/core/perror"
	"github.com/prismaquery/core/internal/core/query/ast"
	"github.com/prismaquery/core/internal/core/query/resolver"
	"github.com/prismaquery/core/internal/core/schema/domain"
	"github.com/prismaquery/core/internal/core/schema/registry"
)

// ParseUpsert parses an `upsert` payload: `create` and `update` are
// required; `conflictTarget` is inferred from `create` when omitted
// (spec §4.11).
func ParseUpsert(reg *registry.Registry, res *resolver.Resolver, model *domain.Model, raw interface{}) (*ast.Upsert, error) {
	m, err := object(raw, "upsert")
	if err != nil {
		return nil, err
	}

	createRaw, ok := m["create"]
	if !ok {
		return nil, perror.MissingRequired("upsert", "create")
	}
	updateRaw, ok := m["update"]
	if !ok {
		return nil, perror.MissingRequired("upsert", "update")
	}

	createData, err := ParseData(res, model, createRaw)
	if err != nil {
		return nil, err
	}
	updateData, err := ParseData(res, model, updateRaw)
	if err != nil {
		return nil, err
	}

	var target ast.ConflictTarget
	if ctRaw, ok := m["conflictTarget"]; ok {
		target, err = parseConflictTarget(res, model, ctRaw)
	} else {
		target, err = inferConflictTarget(model, createData)
	}
	if err != nil {
		return nil, err
	}

	var where *ast.Condition
	if wv, ok := m["where"]; ok {
		where, err = ParseWhere(reg, res, model, wv)
		if err != nil {
			return nil, err
		}
	}

	return &ast.Upsert{
		ModelName:      model.Name,
		ConflictTarget: target,
		CreateData:     *createData,
		UpdateData:     *updateData,
		Where:          where,
	}, nil
}

func parseConflictTarget(res *resolver.Resolver, model *domain.Model, raw interface{}) (ast.ConflictTarget, error) {
	switch v := raw.(type) {
	case string:
		fref, err := res.ResolveField(model, v)
		if err != nil {
			return ast.ConflictTarget{}, wrapPath(err, "conflictTarget")
		}
		return ast.ConflictTarget{Kind: ast.ConflictFields, Fields: []registry.FieldRef{fref}}, nil

	case []interface{}:
		frefs, err := resolveFieldNames(res, model, v, "conflictTarget")
		if err != nil {
			return ast.ConflictTarget{}, err
		}
		return ast.ConflictTarget{Kind: ast.ConflictFields, Fields: frefs}, nil

	case map[string]interface{}:
		if fv, ok := v["fields"]; ok {
			arr, err := array(fv, "conflictTarget.fields")
			if err != nil {
				return ast.ConflictTarget{}, err
			}
			frefs, err := resolveFieldNames(res, model, arr, "conflictTarget.fields")
			if err != nil {
				return ast.ConflictTarget{}, err
			}
			return ast.ConflictTarget{Kind: ast.ConflictFields, Fields: frefs}, nil
		}
		if iv, ok := v["index"]; ok {
			name, err := str(iv, "conflictTarget.index")
			if err != nil {
				return ast.ConflictTarget{}, err
			}
			return ast.ConflictTarget{Kind: ast.ConflictIndexName, Name: name}, nil
		}
		if cv, ok := v["constraint"]; ok {
			name, err := str(cv, "conflictTarget.constraint")
			if err != nil {
				return ast.ConflictTarget{}, err
			}
			return ast.ConflictTarget{Kind: ast.ConflictConstraint, Name: name}, nil
		}
		return ast.ConflictTarget{}, perror.BadConflictTarget(model.Name, raw)

	default:
		return ast.ConflictTarget{}, perror.BadConflictTarget(model.Name, raw)
	}
}

func resolveFieldNames(res *resolver.Resolver, model *domain.Model, arr []interface{}, path string) ([]registry.FieldRef, error) {
	out := make([]registry.FieldRef, 0, len(arr))
	for _, el := range arr {
		name, err := str(el, path)
		if err != nil {
			return nil, err
		}
		fref, err := res.ResolveField(model, name)
		if err != nil {
			return nil, wrapPath(err, path)
		}
		out = append(out, fref)
	}
	return out, nil
}

// inferConflictTarget scans create's fields for the first one marked
// is_id, then any marked is_unique (spec §4.11).
func inferConflictTarget(model *domain.Model, createData *ast.Data) (ast.ConflictTarget, error) {
	var unique *registry.FieldRef
	for i := range createData.Fields {
		df := createData.Fields[i]
		if df.TargetKind != ast.DataTargetField {
			continue
		}
		if df.Field.Field.IsID {
			return ast.ConflictTarget{Kind: ast.ConflictFields, Fields: []registry.FieldRef{df.Field}}, nil
		}
		if df.Field.Field.IsUnique && unique == nil {
			f := df.Field
			unique = &f
		}
	}
	if unique != nil {
		return ast.ConflictTarget{Kind: ast.ConflictFields, Fields: []registry.FieldRef{*unique}}, nil
	}
	return ast.ConflictTarget{}, perror.NoConflictTarget(model.Name)
}
