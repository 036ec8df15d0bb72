package parser

import (
	"github.com/prismaquery/core/internal/core/perror"
	"github.com/prismaquery/core/internal/core/query/ast"
	"github.com/prismaquery/core/internal/core/query/encoder"
	"github.com/prismaquery/core/internal/core/query/resolver"
	"github.com/prismaquery/core/internal/core/schema/domain"
	"github.com/prismaquery/core/internal/core/schema/registry"
)

var numericDataOps = map[string]ast.DataOp{
	"increment": ast.DataIncrement,
	"decrement": ast.DataDecrement,
	"multiply":  ast.DataMultiply,
	"divide":    ast.DataDivide,
}

// relationDataOpOrder is the fixed precedence "first recognized
// operation key" checks in (spec §4.5).
var relationDataOpOrder = []string{"connect", "create", "connectOrCreate", "disconnect", "delete", "update", "upsert"}

var relationDataOps = map[string]ast.DataOp{
	"connect":         ast.DataConnect,
	"create":          ast.DataCreate,
	"connectOrCreate": ast.DataConnectOrCreate,
	"disconnect":      ast.DataDisconnect,
	"delete":          ast.DataDelete,
	"update":          ast.DataUpdate,
	"upsert":          ast.DataUpsert,
}

// ParseData parses a `data` object into a flat list of DataFields (spec
// §4.5). One DataField is produced per key; nested relation payloads are
// carried opaquely, not recursively expanded here.
func ParseData(res *resolver.Resolver, model *domain.Model, raw interface{}) (*ast.Data, error) {
	m, err := object(raw, "data")
	if err != nil {
		return nil, err
	}

	fields := make([]ast.DataField, 0, len(m))
	for _, k := range keys(m) {
		resn, err := res.ResolveFieldOrRelation(model, k)
		if err != nil {
			return nil, wrapPath(err, "data")
		}
		var df ast.DataField
		if resn.IsRelation {
			df, err = parseRelationDataField(resn.Relation, m[k])
		} else {
			df, err = parseFieldDataField(resn.Field, m[k], "data."+k)
		}
		if err != nil {
			return nil, err
		}
		fields = append(fields, df)
	}
	return &ast.Data{ModelName: model.Name, Fields: fields}, nil
}

func parseFieldDataField(fref registry.FieldRef, raw interface{}, path string) (ast.DataField, error) {
	if m, ok := raw.(map[string]interface{}); ok && len(m) == 1 {
		for key, op := range numericDataOps {
			if v, ok := m[key]; ok {
				val, err := encoder.Encode(v, &fref)
				if err != nil {
					return ast.DataField{}, err
				}
				return ast.DataField{TargetKind: ast.DataTargetField, Field: fref, Op: op, Value: val}, nil
			}
		}
		if v, ok := m["push"]; ok {
			if !fref.Field.IsArray {
				return ast.DataField{}, perror.WrongOperatorShape(fref.Name, "push", "an array field")
			}
			val, err := encoder.Encode(v, &fref)
			if err != nil {
				return ast.DataField{}, err
			}
			return ast.DataField{TargetKind: ast.DataTargetField, Field: fref, Op: ast.DataPush, Value: val}, nil
		}
	}

	val, err := encoder.Encode(raw, &fref)
	if err != nil {
		return ast.DataField{}, err
	}
	return ast.DataField{TargetKind: ast.DataTargetField, Field: fref, Op: ast.DataSet, Value: val}, nil
}

func parseRelationDataField(rref registry.RelationRef, raw interface{}) (ast.DataField, error) {
	if m, ok := raw.(map[string]interface{}); ok {
		for _, key := range relationDataOpOrder {
			if v, ok := m[key]; ok {
				return ast.DataField{
					TargetKind:         ast.DataTargetRelation,
					Relation:           rref,
					Op:                 relationDataOps[key],
					RawRelationPayload: v,
				}, nil
			}
		}
	}
	// No recognized operation key (or not an object at all, e.g. a bare
	// id/array-of-ids): default to connect (spec §4.5).
	return ast.DataField{
		TargetKind:         ast.DataTargetRelation,
		Relation:           rref,
		Op:                 ast.DataConnect,
		RawRelationPayload: raw,
	}, nil
}
