package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prismaquery/core/internal/core/dialect"
	"github.com/prismaquery/core/internal/core/query/ast"
)

func TestEmitCreateReturningPostgres(t *testing.T) {
	reg := newTestRegistry()
	user := mustModel(reg, "User")
	e := New(dialect.Postgres{}, reg)

	q := &ast.Query{
		Operation: ast.Create,
		ModelRef:  ast.ModelRef{Name: "User", Model: user},
		Args: ast.QueryArgs{
			Data: &ast.Data{
				ModelName: "User",
				Fields: []ast.DataField{
					{TargetKind: ast.DataTargetField, Field: mustField(reg, "User", "email"), Op: ast.DataSet, Value: &ast.Value{Raw: "a@b.com"}},
				},
			},
		},
	}

	sql, args, err := e.Emit(q)
	require.NoError(t, err)
	require.Equal(t, []interface{}{"a@b.com"}, args)
	require.Contains(t, sql, `INSERT INTO "users"`)
	require.Contains(t, sql, "RETURNING *")
}

func TestEmitCreateNoReturningMySQL(t *testing.T) {
	reg := newTestRegistry()
	user := mustModel(reg, "User")
	e := New(dialect.MySQL{}, reg)

	q := &ast.Query{
		Operation: ast.Create,
		ModelRef:  ast.ModelRef{Name: "User", Model: user},
		Args: ast.QueryArgs{
			Data: &ast.Data{
				Fields: []ast.DataField{
					{TargetKind: ast.DataTargetField, Field: mustField(reg, "User", "email"), Op: ast.DataSet, Value: &ast.Value{Raw: "a@b.com"}},
				},
			},
		},
	}

	sql, _, err := e.Emit(q)
	require.NoError(t, err)
	require.NotContains(t, sql, "RETURNING")
}

func TestEmitCreateManyMultiRow(t *testing.T) {
	reg := newTestRegistry()
	user := mustModel(reg, "User")
	e := New(dialect.Postgres{}, reg)

	mkData := func(email string) ast.Data {
		return ast.Data{Fields: []ast.DataField{
			{TargetKind: ast.DataTargetField, Field: mustField(reg, "User", "email"), Op: ast.DataSet, Value: &ast.Value{Raw: email}},
		}}
	}

	q := &ast.Query{
		Operation: ast.CreateMany,
		ModelRef:  ast.ModelRef{Name: "User", Model: user},
		Args: ast.QueryArgs{
			Batch: &ast.BatchData{
				ModelName: "User",
				Op:        ast.BatchCreateMany,
				Items:     []ast.Data{mkData("a@b.com"), mkData("c@d.com")},
				Options:   ast.BatchOptions{SkipDuplicates: true},
			},
		},
	}

	sql, args, err := e.Emit(q)
	require.NoError(t, err)
	require.Equal(t, []interface{}{"a@b.com", "c@d.com"}, args)
	require.Contains(t, sql, "ON CONFLICT DO NOTHING")
}

func TestEmitUpdateIncrementUsesColumnSelfReference(t *testing.T) {
	reg := newTestRegistry()
	user := mustModel(reg, "User")
	e := New(dialect.Postgres{}, reg)

	q := &ast.Query{
		Operation: ast.Update,
		ModelRef:  ast.ModelRef{Name: "User", Model: user},
		Args: ast.QueryArgs{
			Where: &ast.Condition{TargetKind: ast.TargetField, TargetField: mustField(reg, "User", "id"), Operator: ast.OpEquals, Value: &ast.Value{Raw: 1}},
			Data: &ast.Data{Fields: []ast.DataField{
				{TargetKind: ast.DataTargetField, Field: mustField(reg, "User", "age"), Op: ast.DataIncrement, Value: &ast.Value{Raw: 1}},
			}},
		},
	}

	sql, args, err := e.Emit(q)
	require.NoError(t, err)
	require.Equal(t, []interface{}{1, 1}, args)
	require.Contains(t, sql, "age")
	require.Contains(t, sql, `"t0"."age" +`)
	require.Contains(t, sql, "RETURNING *")
}

func TestEmitDeleteMany(t *testing.T) {
	reg := newTestRegistry()
	user := mustModel(reg, "User")
	e := New(dialect.SQLite{}, reg)

	q := &ast.Query{
		Operation: ast.DeleteMany,
		ModelRef:  ast.ModelRef{Name: "User", Model: user},
		Args: ast.QueryArgs{
			Where: &ast.Condition{TargetKind: ast.TargetField, TargetField: mustField(reg, "User", "age"), Operator: ast.OpLt, Value: &ast.Value{Raw: 13}},
		},
	}

	sql, args, err := e.Emit(q)
	require.NoError(t, err)
	require.Equal(t, []interface{}{13}, args)
	require.Contains(t, sql, "DELETE FROM")
	require.NotContains(t, sql, "RETURNING")
}
