package parser

import (
	"github.com/hashicorp/go-multierror"

	"github.com/prismaquery/core/internal/core/perror"
	"github.com/prismaquery/core/internal/core/query/ast"
	"github.com/prismaquery/core/internal/core/query/resolver"
	"github.com/prismaquery/core/internal/core/schema/domain"
)

// ParseCreateMany parses a `createMany` payload: every item is
// data-parsed individually. Rather than failing fast on the first bad
// item, all items are attempted and their failures collected into one
// multierror so a caller can report every malformed row at once (spec
// §4.9, §7).
func ParseCreateMany(res *resolver.Resolver, model *domain.Model, raw interface{}) (*ast.BatchData, error) {
	m, err := object(raw, "createMany")
	if err != nil {
		return nil, err
	}
	dataRaw, ok := m["data"]
	if !ok {
		return nil, perror.MissingRequired("createMany", "data")
	}
	arr, err := array(dataRaw, "createMany.data")
	if err != nil {
		return nil, err
	}

	var errs *multierror.Error
	items := make([]ast.Data, 0, len(arr))
	for i, el := range arr {
		d, err := ParseData(res, model, el)
		if err != nil {
			errs = multierror.Append(errs, perror.BatchItem(i, err))
			continue
		}
		items = append(items, *d)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	var skipDuplicates bool
	if sv, ok := m["skipDuplicates"]; ok {
		skipDuplicates, err = boolArg(sv, "createMany.skipDuplicates")
		if err != nil {
			return nil, err
		}
	}

	return &ast.BatchData{
		ModelName: model.Name,
		Op:        ast.BatchCreateMany,
		Items:     items,
		Options:   ast.BatchOptions{SkipDuplicates: skipDuplicates},
	}, nil
}

// ParseUpdateMany wraps a single `data` object as a batch update applied
// to every row the query's `where` matches (spec §4.9).
func ParseUpdateMany(res *resolver.Resolver, model *domain.Model, dataRaw interface{}) (*ast.BatchData, error) {
	d, err := ParseData(res, model, dataRaw)
	if err != nil {
		return nil, err
	}
	return &ast.BatchData{ModelName: model.Name, Op: ast.BatchUpdateMany, Items: []ast.Data{*d}}, nil
}

// ParseDeleteMany carries no data payload; only `where` matters (spec §4.9).
func ParseDeleteMany(model *domain.Model) *ast.BatchData {
	return &ast.BatchData{ModelName: model.Name, Op: ast.BatchDeleteMany}
}
