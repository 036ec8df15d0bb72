package parser

import (
	"github.com/prismaquery/core/internal/core/perror"
	"github.com/prismaquery/core/internal/core/query/ast"
	"github.com/prismaquery/core/internal/core/query/encoder"
	"github.com/prismaquery/core/internal/core/query/resolver"
	"github.com/prismaquery/core/internal/core/schema/domain"
)

// ParseCursor parses a `cursor` object, which must have exactly one
// entry naming an orderable field (spec §4.10, §8 property 11).
func ParseCursor(res *resolver.Resolver, model *domain.Model, raw interface{}) (*ast.Cursor, error) {
	m, err := object(raw, "cursor")
	if err != nil {
		return nil, err
	}
	if len(m) != 1 {
		return nil, perror.WrongCardinality("cursor", len(m), 1)
	}

	for name, v := range m {
		fref, err := res.ResolveField(model, name)
		if err != nil {
			return nil, wrapPath(err, "cursor")
		}
		if !fref.Field.Type.Orderable() {
			return nil, perror.NotOrderableCursorField(name, string(fref.Field.Type))
		}
		val, err := encoder.Encode(v, &fref)
		if err != nil {
			return nil, err
		}
		return &ast.Cursor{Field: fref, Value: val}, nil
	}
	panic("unreachable: len(m) == 1")
}
