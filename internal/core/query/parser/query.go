// Package parser's query.go is the orchestrator (spec §4.12): it maps
// (model_name, operation, args) to one of the per-operation parse
// plans, dispatching to the sub-parsers and assembling the root Query.
package parser

import (
	"github.com/prismaquery/core/internal/core/perror"
	"github.com/prismaquery/core/internal/core/query/ast"
	"github.com/prismaquery/core/internal/core/query/resolver"
	"github.com/prismaquery/core/internal/core/schema/domain"
	"github.com/prismaquery/core/internal/core/schema/registry"
)

var allOperations = []ast.Operation{
	ast.FindUnique, ast.FindUniqueOrThrow, ast.FindFirst, ast.FindFirstOrThrow, ast.FindMany,
	ast.Create, ast.CreateMany, ast.Update, ast.UpdateMany, ast.Upsert,
	ast.Delete, ast.DeleteMany, ast.Count, ast.Aggregate, ast.GroupByOp,
}

func knownOperationNames() []string {
	out := make([]string, len(allOperations))
	for i, op := range allOperations {
		out[i] = string(op)
	}
	return out
}

func isKnownOperation(op ast.Operation) bool {
	for _, o := range allOperations {
		if o == op {
			return true
		}
	}
	return false
}

// Parse is the public entry point (spec §6.2): it resolves model_name
// against reg, dispatches operation to its parse plan, and returns the
// root Query AST.
func Parse(reg *registry.Registry, modelName string, operation string, raw interface{}) (*ast.Query, error) {
	model, err := reg.GetModel(modelName)
	if err != nil {
		return nil, err
	}

	op := ast.Operation(operation)
	if !isKnownOperation(op) {
		return nil, perror.UnknownOperator("operation", operation, knownOperationNames())
	}

	var m map[string]interface{}
	if raw == nil {
		m = map[string]interface{}{}
	} else {
		m, err = object(raw, "args")
		if err != nil {
			return nil, err
		}
	}

	res := resolver.New(reg)

	var args ast.QueryArgs
	switch op {
	case ast.FindUnique, ast.FindUniqueOrThrow, ast.FindFirst, ast.FindFirstOrThrow, ast.FindMany:
		args, err = parseFindArgs(reg, res, model, op, m)
	case ast.Create:
		args, err = parseCreateArgs(reg, res, model, m)
	case ast.CreateMany:
		args, err = parseCreateManyArgs(res, model, m)
	case ast.Update:
		args, err = parseUpdateArgs(reg, res, model, m)
	case ast.UpdateMany:
		args, err = parseUpdateManyArgs(reg, res, model, m)
	case ast.Upsert:
		args, err = parseUpsertArgs(reg, res, model, m)
	case ast.Delete:
		args, err = parseDeleteArgs(reg, res, model, m)
	case ast.DeleteMany:
		args, err = parseDeleteManyArgs(reg, res, model, m)
	case ast.Count:
		args, err = parseCountArgs(reg, res, model, m)
	case ast.Aggregate:
		args, err = parseAggregateArgs(reg, res, model, m)
	case ast.GroupByOp:
		args, err = parseGroupByArgs(reg, res, model, m)
	}
	if err != nil {
		return nil, wrapOperation(err, string(op))
	}

	return &ast.Query{
		Operation:       op,
		ModelRef:        ast.ModelRef{Name: modelName, Model: model},
		Args:            args,
		ThrowIfNotFound: op.ThrowsIfNotFound(),
	}, nil
}

func wrapOperation(err error, op string) error {
	if pe, ok := err.(*perror.ParseError); ok {
		return pe.WithOperation(op)
	}
	return err
}

func parseFindArgs(reg *registry.Registry, res *resolver.Resolver, model *domain.Model, op ast.Operation, m map[string]interface{}) (ast.QueryArgs, error) {
	var args ast.QueryArgs
	var err error

	if v, ok := m["where"]; ok {
		if args.Where, err = ParseWhere(reg, res, model, v); err != nil {
			return args, err
		}
	}
	if op.RequiresWhere() && args.Where == nil {
		return args, perror.MissingRequired(string(op), "where")
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
		if len(args.OrderBy) > 0 {
			args.Cursor.Direction = args.OrderBy[0].Direction
		} else {
			args.Cursor.Direction = ast.Asc
		}
	}

	return args, nil
}

func parseCreateArgs(reg *registry.Registry, res *resolver.Resolver, model *domain.Model, m map[string]interface{}) (ast.QueryArgs, error) {
	var args ast.QueryArgs
	var err error

	dv, ok := m["data"]
	if !ok {
		return args, perror.MissingRequired("create", "data")
	}
	if args.Data, err = ParseData(res, model, dv); err != nil {
		return args, err
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
	return args, nil
}

func parseCreateManyArgs(res *resolver.Resolver, model *domain.Model, m map[string]interface{}) (ast.QueryArgs, error) {
	var args ast.QueryArgs
	batch, err := ParseCreateMany(res, model, m)
	if err != nil {
		return args, err
	}
	args.Batch = batch
	return args, nil
}

func parseUpdateArgs(reg *registry.Registry, res *resolver.Resolver, model *domain.Model, m map[string]interface{}) (ast.QueryArgs, error) {
	var args ast.QueryArgs
	var err error

	if v, ok := m["where"]; ok {
		if args.Where, err = ParseWhere(reg, res, model, v); err != nil {
			return args, err
		}
	}
	if args.Where == nil {
		return args, perror.MissingRequired("update", "where")
	}
	dv, ok := m["data"]
	if !ok {
		return args, perror.MissingRequired("update", "data")
	}
	if args.Data, err = ParseData(res, model, dv); err != nil {
		return args, err
	}
	if v, ok := m["select"]; ok {
		if args.Select, err = ParseSelect(reg, res, model, v); err != nil {
			return args, err
		}
	}
	return args, nil
}

func parseUpdateManyArgs(reg *registry.Registry, res *resolver.Resolver, model *domain.Model, m map[string]interface{}) (ast.QueryArgs, error) {
	var args ast.QueryArgs
	var err error

	dv, ok := m["data"]
	if !ok {
		return args, perror.MissingRequired("updateMany", "data")
	}
	batch, err := ParseUpdateMany(res, model, dv)
	if err != nil {
		return args, err
	}
	args.Batch = batch

	if v, ok := m["where"]; ok {
		if args.Where, err = ParseWhere(reg, res, model, v); err != nil {
			return args, err
		}
	}
	return args, nil
}

func parseUpsertArgs(reg *registry.Registry, res *resolver.Resolver, model *domain.Model, m map[string]interface{}) (ast.QueryArgs, error) {
	var args ast.QueryArgs
	up, err := ParseUpsert(reg, res, model, m)
	if err != nil {
		return args, err
	}
	if up.Where == nil {
		return args, perror.MissingRequired("upsert", "where")
	}
	args.UpsertNode = up
	return args, nil
}

func parseDeleteArgs(reg *registry.Registry, res *resolver.Resolver, model *domain.Model, m map[string]interface{}) (ast.QueryArgs, error) {
	var args ast.QueryArgs
	var err error

	if v, ok := m["where"]; ok {
		if args.Where, err = ParseWhere(reg, res, model, v); err != nil {
			return args, err
		}
	}
	if args.Where == nil {
		return args, perror.MissingRequired("delete", "where")
	}
	if v, ok := m["select"]; ok {
		if args.Select, err = ParseSelect(reg, res, model, v); err != nil {
			return args, err
		}
	}
	return args, nil
}

func parseDeleteManyArgs(reg *registry.Registry, res *resolver.Resolver, model *domain.Model, m map[string]interface{}) (ast.QueryArgs, error) {
	var args ast.QueryArgs
	var err error

	args.Batch = ParseDeleteMany(model)
	if v, ok := m["where"]; ok {
		if args.Where, err = ParseWhere(reg, res, model, v); err != nil {
			return args, err
		}
	}
	return args, nil
}

func parseCountArgs(reg *registry.Registry, res *resolver.Resolver, model *domain.Model, m map[string]interface{}) (ast.QueryArgs, error) {
	var args ast.QueryArgs
	var err error

	if v, ok := m["where"]; ok {
		if args.Where, err = ParseWhere(reg, res, model, v); err != nil {
			return args, err
		}
	}

	var countRaw interface{}
	if sel, ok := m["select"].(map[string]interface{}); ok {
		if cv, ok := sel["_count"]; ok {
			countRaw = cv
		}
	}
	if countRaw == nil {
		if cv, ok := m["_count"]; ok {
			countRaw = cv
		}
	}
	if args.Aggregate, err = ParseCount(res, model, countRaw); err != nil {
		return args, err
	}
	return args, nil
}

func parseAggregateArgs(reg *registry.Registry, res *resolver.Resolver, model *domain.Model, m map[string]interface{}) (ast.QueryArgs, error) {
	var args ast.QueryArgs
	var err error

	if v, ok := m["where"]; ok {
		if args.Where, err = ParseWhere(reg, res, model, v); err != nil {
			return args, err
		}
	}
	if args.Aggregate, err = ParseAggregate(res, model, m); err != nil {
		return args, err
	}
	return args, nil
}

func parseGroupByArgs(reg *registry.Registry, res *resolver.Resolver, model *domain.Model, m map[string]interface{}) (ast.QueryArgs, error) {
	var args ast.QueryArgs
	var err error

	byRaw, ok := m["by"]
	if !ok {
		return args, perror.MissingRequired("groupBy", "by")
	}
	if args.GroupBy, err = ParseGroupBy(res, model, byRaw); err != nil {
		return args, err
	}
	if hasAggregateKeys(m) {
		if args.Aggregate, err = ParseAggregate(res, model, m); err != nil {
			return args, err
		}
	}
	if v, ok := m["where"]; ok {
		if args.Where, err = ParseWhere(reg, res, model, v); err != nil {
			return args, err
		}
	}
	if v, ok := m["having"]; ok {
		if args.Having, err = ParseHaving(reg, res, model, v); err != nil {
			return args, err
		}
	}
	if v, ok := m["orderBy"]; ok {
		if args.OrderBy, err = ParseOrderBy(reg, res, model, v); err != nil {
			return args, err
		}
	}
	return args, nil
}
