package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prismaquery/core/internal/core/query/ast"
	"github.com/prismaquery/core/internal/core/query/parser"
	"github.com/prismaquery/core/internal/core/query/resolver"
)

func TestParseWhereNilReturnsNilCondition(t *testing.T) {
	reg := newTestRegistry()
	user, err := reg.GetModel("User")
	require.NoError(t, err)
	res := resolver.New(reg)

	c, err := parser.ParseWhere(reg, res, user, nil)
	require.NoError(t, err)
	require.Nil(t, c)
}

func TestParseWhereExplicitAndKeepsEmptyNested(t *testing.T) {
	reg := newTestRegistry()
	user, err := reg.GetModel("User")
	require.NoError(t, err)
	res := resolver.New(reg)

	c, err := parser.ParseWhere(reg, res, user, map[string]interface{}{
		"AND": []interface{}{},
	})
	require.NoError(t, err)
	require.NotNil(t, c)
	require.Equal(t, ast.TargetLogical, c.TargetKind)
	require.Equal(t, ast.LogicalAnd, c.LogicalOperator)
	require.Empty(t, c.Nested)
}

func TestParseWhereNotWrapsNegated(t *testing.T) {
	reg := newTestRegistry()
	user, err := reg.GetModel("User")
	require.NoError(t, err)
	res := resolver.New(reg)

	c, err := parser.ParseWhere(reg, res, user, map[string]interface{}{
		"NOT": map[string]interface{}{"age": float64(5)},
	})
	require.NoError(t, err)
	require.Equal(t, ast.LogicalNot, c.LogicalOperator)
	require.True(t, c.Negated)
	require.Len(t, c.Nested, 1)
}

func TestParseWhereOrArray(t *testing.T) {
	reg := newTestRegistry()
	user, err := reg.GetModel("User")
	require.NoError(t, err)
	res := resolver.New(reg)

	c, err := parser.ParseWhere(reg, res, user, map[string]interface{}{
		"OR": []interface{}{
			map[string]interface{}{"age": float64(1)},
			map[string]interface{}{"age": float64(2)},
		},
	})
	require.NoError(t, err)
	require.Equal(t, ast.LogicalOr, c.LogicalOperator)
	require.Len(t, c.Nested, 2)
}

func TestParseWhereCaseInsensitiveMode(t *testing.T) {
	reg := newTestRegistry()
	user, err := reg.GetModel("User")
	require.NoError(t, err)
	res := resolver.New(reg)

	c, err := parser.ParseWhere(reg, res, user, map[string]interface{}{
		"email": map[string]interface{}{
			"contains": "BOB",
			"mode":     "insensitive",
		},
	})
	require.NoError(t, err)
	require.Equal(t, ast.OpContains, c.Operator)
	require.Equal(t, ast.ModeInsensitive, c.Value.Options.Mode)
}

func TestParseWhereInvalidModeRejected(t *testing.T) {
	reg := newTestRegistry()
	user, err := reg.GetModel("User")
	require.NoError(t, err)
	res := resolver.New(reg)

	_, err = parser.ParseWhere(reg, res, user, map[string]interface{}{
		"email": map[string]interface{}{
			"contains": "bob",
			"mode":     "loud",
		},
	})
	require.Error(t, err)
}

func TestParseWhereContainsOnIntFieldRejected(t *testing.T) {
	reg := newTestRegistry()
	user, err := reg.GetModel("User")
	require.NoError(t, err)
	res := resolver.New(reg)

	_, err = parser.ParseWhere(reg, res, user, map[string]interface{}{
		"age": map[string]interface{}{"contains": "x"},
	})
	require.Error(t, err)
}

func TestParseWhereIsNullFalseNegatesOperator(t *testing.T) {
	reg := newTestRegistry()
	user, err := reg.GetModel("User")
	require.NoError(t, err)
	res := resolver.New(reg)

	c, err := parser.ParseWhere(reg, res, user, map[string]interface{}{
		"name": map[string]interface{}{"isNull": false},
	})
	require.NoError(t, err)
	require.Equal(t, ast.OpIsNotNull, c.Operator)
}

func TestParseWhereHasEveryRequiresArrayValue(t *testing.T) {
	reg := newTestRegistry()
	user, err := reg.GetModel("User")
	require.NoError(t, err)
	res := resolver.New(reg)

	_, err = parser.ParseWhere(reg, res, user, map[string]interface{}{
		"tags": map[string]interface{}{"hasEvery": "not-an-array"},
	})
	require.Error(t, err)
}

func TestParseRelationConditionRejectsMultipleKeys(t *testing.T) {
	reg := newTestRegistry()
	user, err := reg.GetModel("User")
	require.NoError(t, err)
	res := resolver.New(reg)

	_, err = parser.ParseWhere(reg, res, user, map[string]interface{}{
		"posts": map[string]interface{}{
			"some":  map[string]interface{}{"published": true},
			"every": map[string]interface{}{"published": false},
		},
	})
	require.Error(t, err)
}

func TestParseRelationConditionRequiresOneKey(t *testing.T) {
	reg := newTestRegistry()
	user, err := reg.GetModel("User")
	require.NoError(t, err)
	res := resolver.New(reg)

	_, err = parser.ParseWhere(reg, res, user, map[string]interface{}{
		"posts": map[string]interface{}{},
	})
	require.Error(t, err)
}

func TestParseRelationConditionEveryNestsAgainstTargetModel(t *testing.T) {
	reg := newTestRegistry()
	user, err := reg.GetModel("User")
	require.NoError(t, err)
	res := resolver.New(reg)

	c, err := parser.ParseWhere(reg, res, user, map[string]interface{}{
		"posts": map[string]interface{}{
			"every": map[string]interface{}{"published": true},
		},
	})
	require.NoError(t, err)
	require.Equal(t, ast.RelEvery, c.RelOp)
	require.Len(t, c.Nested, 1)
	require.Equal(t, "published", c.Nested[0].TargetField.Name)
}

func TestParseHavingMirrorsWhere(t *testing.T) {
	reg := newTestRegistry()
	user, err := reg.GetModel("User")
	require.NoError(t, err)
	res := resolver.New(reg)

	c, err := parser.ParseHaving(reg, res, user, map[string]interface{}{
		"age": map[string]interface{}{"gt": float64(5)},
	})
	require.NoError(t, err)
	require.Equal(t, ast.OpGt, c.Operator)
}

func TestParseWhereUnknownFieldNameRejected(t *testing.T) {
	reg := newTestRegistry()
	user, err := reg.GetModel("User")
	require.NoError(t, err)
	res := resolver.New(reg)

	_, err = parser.ParseWhere(reg, res, user, map[string]interface{}{
		"doesNotExist": "x",
	})
	require.Error(t, err)
}
