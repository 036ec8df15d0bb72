package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prismaquery/core/internal/core/query/ast"
	"github.com/prismaquery/core/internal/core/query/parser"
)

func TestParseFindManyWithWhereAndTake(t *testing.T) {
	reg := newTestRegistry()

	args := map[string]interface{}{
		"where": map[string]interface{}{
			"age": map[string]interface{}{"gte": float64(18)},
		},
		"take": float64(10),
	}
	q, err := parser.Parse(reg, "User", "findMany", args)
	require.NoError(t, err)
	require.Equal(t, ast.FindMany, q.Operation)
	require.NotNil(t, q.Args.Where)
	require.Equal(t, ast.TargetField, q.Args.Where.TargetKind)
	require.Equal(t, ast.OpGte, q.Args.Where.Operator)
	require.NotNil(t, q.Args.Take)
	require.Equal(t, 10, *q.Args.Take)
}

func TestParseFindUniqueRequiresWhere(t *testing.T) {
	reg := newTestRegistry()
	_, err := parser.Parse(reg, "User", "findUnique", map[string]interface{}{})
	require.Error(t, err)
}

func TestParseFindUniqueOrThrowSetsFlag(t *testing.T) {
	reg := newTestRegistry()
	args := map[string]interface{}{"where": map[string]interface{}{"id": float64(1)}}
	q, err := parser.Parse(reg, "User", "findUniqueOrThrow", args)
	require.NoError(t, err)
	require.True(t, q.ThrowIfNotFound)
}

func TestParseImplicitAndAcrossSiblingKeys(t *testing.T) {
	reg := newTestRegistry()
	args := map[string]interface{}{
		"where": map[string]interface{}{
			"age":  map[string]interface{}{"gte": float64(18)},
			"name": "bob",
		},
	}
	q, err := parser.Parse(reg, "User", "findMany", args)
	require.NoError(t, err)
	require.Equal(t, ast.TargetLogical, q.Args.Where.TargetKind)
	require.Equal(t, ast.LogicalAnd, q.Args.Where.LogicalOperator)
	require.Len(t, q.Args.Where.Nested, 2)
}

func TestParseUnknownOperatorFails(t *testing.T) {
	reg := newTestRegistry()
	args := map[string]interface{}{
		"where": map[string]interface{}{
			"age": map[string]interface{}{"bogus": float64(1)},
		},
	}
	_, err := parser.Parse(reg, "User", "findMany", args)
	require.Error(t, err)
}

func TestParseInRequiresArray(t *testing.T) {
	reg := newTestRegistry()
	args := map[string]interface{}{
		"where": map[string]interface{}{
			"age": map[string]interface{}{"in": float64(1)},
		},
	}
	_, err := parser.Parse(reg, "User", "findMany", args)
	require.Error(t, err)
}

func TestParseRelationSomeCondition(t *testing.T) {
	reg := newTestRegistry()
	args := map[string]interface{}{
		"where": map[string]interface{}{
			"posts": map[string]interface{}{
				"some": map[string]interface{}{
					"published": true,
				},
			},
		},
	}
	q, err := parser.Parse(reg, "User", "findMany", args)
	require.NoError(t, err)
	require.Equal(t, ast.TargetRelation, q.Args.Where.TargetKind)
	require.Equal(t, ast.RelSome, q.Args.Where.RelOp)
}

func TestParseCreateRequiresData(t *testing.T) {
	reg := newTestRegistry()
	_, err := parser.Parse(reg, "User", "create", map[string]interface{}{})
	require.Error(t, err)
}

func TestParseCreateAssignsFields(t *testing.T) {
	reg := newTestRegistry()
	args := map[string]interface{}{
		"data": map[string]interface{}{
			"email": "a@b.com",
			"age":   float64(30),
		},
	}
	q, err := parser.Parse(reg, "User", "create", args)
	require.NoError(t, err)
	require.NotNil(t, q.Args.Data)
	require.Len(t, q.Args.Data.Fields, 2)
}

func TestParseCreateManyAggregatesEveryItemFailure(t *testing.T) {
	reg := newTestRegistry()
	args := map[string]interface{}{
		"data": []interface{}{
			map[string]interface{}{"age": map[string]interface{}{"bogus": 1}},
			map[string]interface{}{"email": "ok@b.com"},
			map[string]interface{}{"age": map[string]interface{}{"bogus": 1}},
		},
	}
	_, err := parser.Parse(reg, "User", "createMany", args)
	require.Error(t, err)
	require.Contains(t, err.Error(), "data[0]")
	require.Contains(t, err.Error(), "data[2]")
}

func TestParseUpdateRequiresWhereAndData(t *testing.T) {
	reg := newTestRegistry()
	_, err := parser.Parse(reg, "User", "update", map[string]interface{}{
		"data": map[string]interface{}{"age": float64(1)},
	})
	require.Error(t, err)
}

func TestParseDeleteManyNoWhereMatchesEverything(t *testing.T) {
	reg := newTestRegistry()
	q, err := parser.Parse(reg, "User", "deleteMany", map[string]interface{}{})
	require.NoError(t, err)
	require.Nil(t, q.Args.Where)
	require.NotNil(t, q.Args.Batch)
}

func TestParseUnknownOperation(t *testing.T) {
	reg := newTestRegistry()
	_, err := parser.Parse(reg, "User", "findEverything", map[string]interface{}{})
	require.Error(t, err)
}

func TestParseUnknownModel(t *testing.T) {
	reg := newTestRegistry()
	_, err := parser.Parse(reg, "Nope", "findMany", map[string]interface{}{})
	require.Error(t, err)
}
