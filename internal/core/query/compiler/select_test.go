package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prismaquery/core/internal/core/dialect"
	"github.com/prismaquery/core/internal/core/query/ast"
	"github.com/prismaquery/core/internal/core/schema/registry"
)

func TestEmitFindManySimpleWhere(t *testing.T) {
	reg := newTestRegistry()
	user := mustModel(reg, "User")
	e := New(dialect.Postgres{}, reg)

	take := 10
	q := &ast.Query{
		Operation: ast.FindMany,
		ModelRef:  ast.ModelRef{Name: "User", Model: user},
		Args: ast.QueryArgs{
			Where: &ast.Condition{
				TargetKind:  ast.TargetField,
				TargetField: mustField(reg, "User", "age"),
				Operator:    ast.OpGte,
				Value:       &ast.Value{Raw: 18},
			},
			Take: &take,
		},
	}

	sql, args, err := e.Emit(q)
	require.NoError(t, err)
	require.Equal(t, []interface{}{18}, args)
	require.Contains(t, sql, `FROM "users" AS "t0"`)
	require.Contains(t, sql, `"t0"."age" >= $1`)
	require.Contains(t, sql, "LIMIT 10")
}

func TestEmitFindUniqueForcesLimitOne(t *testing.T) {
	reg := newTestRegistry()
	user := mustModel(reg, "User")
	e := New(dialect.MySQL{}, reg)

	q := &ast.Query{
		Operation: ast.FindUnique,
		ModelRef:  ast.ModelRef{Name: "User", Model: user},
		Args: ast.QueryArgs{
			Where: &ast.Condition{
				TargetKind:  ast.TargetField,
				TargetField: mustField(reg, "User", "id"),
				Operator:    ast.OpEquals,
				Value:       &ast.Value{Raw: 1},
			},
		},
	}

	sql, args, err := e.Emit(q)
	require.NoError(t, err)
	require.Equal(t, []interface{}{1}, args)
	require.Contains(t, sql, "LIMIT 1")
	require.Contains(t, sql, "`t0`.`id` = ?")
}

func TestEmitFindManyDistinctPostgres(t *testing.T) {
	reg := newTestRegistry()
	user := mustModel(reg, "User")
	e := New(dialect.Postgres{}, reg)

	q := &ast.Query{
		Operation: ast.FindMany,
		ModelRef:  ast.ModelRef{Name: "User", Model: user},
		Args: ast.QueryArgs{
			Distinct: []registry.FieldRef{mustField(reg, "User", "name")},
		},
	}
	sql, _, err := e.Emit(q)
	require.NoError(t, err)
	require.Contains(t, sql, `DISTINCT ON ("t0"."name")`)
}

func TestEmitFindManyLogicalAndOr(t *testing.T) {
	reg := newTestRegistry()
	user := mustModel(reg, "User")
	e := New(dialect.Postgres{}, reg)

	q := &ast.Query{
		Operation: ast.FindMany,
		ModelRef:  ast.ModelRef{Name: "User", Model: user},
		Args: ast.QueryArgs{
			Where: &ast.Condition{
				TargetKind:      ast.TargetLogical,
				LogicalOperator: ast.LogicalOr,
				Nested: []ast.Condition{
					{TargetKind: ast.TargetField, TargetField: mustField(reg, "User", "age"), Operator: ast.OpLt, Value: &ast.Value{Raw: 13}},
					{TargetKind: ast.TargetField, TargetField: mustField(reg, "User", "age"), Operator: ast.OpGt, Value: &ast.Value{Raw: 65}},
				},
			},
		},
	}
	sql, args, err := e.Emit(q)
	require.NoError(t, err)
	require.Equal(t, []interface{}{13, 65}, args)
	require.Contains(t, sql, " OR ")
}

func TestEmitFindManyRelationSome(t *testing.T) {
	reg := newTestRegistry()
	user := mustModel(reg, "User")
	e := New(dialect.Postgres{}, reg)

	q := &ast.Query{
		Operation: ast.FindMany,
		ModelRef:  ast.ModelRef{Name: "User", Model: user},
		Args: ast.QueryArgs{
			Where: &ast.Condition{
				TargetKind:     ast.TargetRelation,
				TargetRelation: mustRelation(reg, "User", "posts"),
				RelOp:          ast.RelSome,
				Nested: []ast.Condition{
					{TargetKind: ast.TargetField, TargetField: mustField(reg, "Post", "published"), Operator: ast.OpEquals, Value: &ast.Value{Raw: true}},
				},
			},
		},
	}
	sql, args, err := e.Emit(q)
	require.NoError(t, err)
	require.Equal(t, []interface{}{true}, args)
	require.Contains(t, sql, "EXISTS (SELECT 1 FROM")
	require.Contains(t, sql, `"t1"."authorId" = "t0"."id"`)
}

func TestEmitFindManyRelationEveryNegatesPredicate(t *testing.T) {
	reg := newTestRegistry()
	user := mustModel(reg, "User")
	e := New(dialect.Postgres{}, reg)

	q := &ast.Query{
		Operation: ast.FindMany,
		ModelRef:  ast.ModelRef{Name: "User", Model: user},
		Args: ast.QueryArgs{
			Where: &ast.Condition{
				TargetKind:     ast.TargetRelation,
				TargetRelation: mustRelation(reg, "User", "posts"),
				RelOp:          ast.RelEvery,
				Nested: []ast.Condition{
					{TargetKind: ast.TargetField, TargetField: mustField(reg, "Post", "published"), Operator: ast.OpEquals, Value: &ast.Value{Raw: true}},
				},
			},
		},
	}
	sql, _, err := e.Emit(q)
	require.NoError(t, err)
	require.Contains(t, sql, "NOT EXISTS")
	require.Contains(t, sql, "AND NOT (")
}

func TestEmitHasEveryBindsSingleArrayParam(t *testing.T) {
	reg := newTestRegistry()
	user := mustModel(reg, "User")
	e := New(dialect.Postgres{}, reg)

	q := &ast.Query{
		Operation: ast.FindMany,
		ModelRef:  ast.ModelRef{Name: "User", Model: user},
		Args: ast.QueryArgs{
			Where: &ast.Condition{
				TargetKind:  ast.TargetField,
				TargetField: mustField(reg, "User", "tags"),
				Operator:    ast.OpHasEvery,
				Value:       &ast.Value{IsArray: true, Elements: []ast.Value{{Raw: "a"}, {Raw: "b"}}},
			},
		},
	}
	sql, args, err := e.Emit(q)
	require.NoError(t, err)
	require.Len(t, args, 1)
	require.Contains(t, sql, `"t0"."tags" @> $1`)
}
