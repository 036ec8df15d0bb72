package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prismaquery/core/internal/core/query/ast"
	"github.com/prismaquery/core/internal/core/query/parser"
	"github.com/prismaquery/core/internal/core/query/resolver"
)

func TestParseOrderBySingleObject(t *testing.T) {
	reg := newTestRegistry()
	user, err := reg.GetModel("User")
	require.NoError(t, err)
	res := resolver.New(reg)

	ords, err := parser.ParseOrderBy(reg, res, user, map[string]interface{}{"age": "desc"})
	require.NoError(t, err)
	require.Len(t, ords, 1)
	require.Equal(t, ast.Desc, ords[0].Direction)
}

func TestParseOrderByArrayOfObjects(t *testing.T) {
	reg := newTestRegistry()
	user, err := reg.GetModel("User")
	require.NoError(t, err)
	res := resolver.New(reg)

	ords, err := parser.ParseOrderBy(reg, res, user, []interface{}{
		map[string]interface{}{"age": "asc"},
		map[string]interface{}{"name": "desc"},
	})
	require.NoError(t, err)
	require.Len(t, ords, 2)
}

func TestParseOrderByWithNullsPlacement(t *testing.T) {
	reg := newTestRegistry()
	user, err := reg.GetModel("User")
	require.NoError(t, err)
	res := resolver.New(reg)

	ords, err := parser.ParseOrderBy(reg, res, user, map[string]interface{}{
		"name": map[string]interface{}{"sort": "asc", "nulls": "last"},
	})
	require.NoError(t, err)
	require.Equal(t, ast.NullsLast, ords[0].Nulls)
}

func TestParseOrderByRelationCount(t *testing.T) {
	reg := newTestRegistry()
	user, err := reg.GetModel("User")
	require.NoError(t, err)
	res := resolver.New(reg)

	ords, err := parser.ParseOrderBy(reg, res, user, map[string]interface{}{
		"posts": map[string]interface{}{"_count": "desc"},
	})
	require.NoError(t, err)
	require.Equal(t, ast.OrderRelation, ords[0].TargetKind)
	require.Equal(t, ast.AggCount, ords[0].Aggregate)
}

func TestParseOrderByInvalidDirectionRejected(t *testing.T) {
	reg := newTestRegistry()
	user, err := reg.GetModel("User")
	require.NoError(t, err)
	res := resolver.New(reg)

	_, err = parser.ParseOrderBy(reg, res, user, map[string]interface{}{"age": "upward"})
	require.Error(t, err)
}

func TestParseCursorRequiresExactlyOneField(t *testing.T) {
	reg := newTestRegistry()
	user, err := reg.GetModel("User")
	require.NoError(t, err)
	res := resolver.New(reg)

	_, err = parser.ParseCursor(res, user, map[string]interface{}{
		"id": float64(1), "age": float64(2),
	})
	require.Error(t, err)
}

func TestParseCursorOnOrderableField(t *testing.T) {
	reg := newTestRegistry()
	user, err := reg.GetModel("User")
	require.NoError(t, err)
	res := resolver.New(reg)

	c, err := parser.ParseCursor(res, user, map[string]interface{}{"id": float64(5)})
	require.NoError(t, err)
	require.Equal(t, "id", c.Field.Name)
}
