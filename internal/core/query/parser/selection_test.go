package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prismaquery/core/internal/core/query/parser"
	"github.com/prismaquery/core/internal/core/query/resolver"
)

func TestParseSelectTruthyFieldsOnly(t *testing.T) {
	reg := newTestRegistry()
	user, err := reg.GetModel("User")
	require.NoError(t, err)
	res := resolver.New(reg)

	sel, err := parser.ParseSelect(reg, res, user, map[string]interface{}{
		"email": true,
		"name":  false,
	})
	require.NoError(t, err)
	require.Len(t, sel.Fields, 1)
	require.Equal(t, "email", sel.Fields[0].Field.Name)
}

func TestParseSelectRelationTrueUsesDefaultArgs(t *testing.T) {
	reg := newTestRegistry()
	user, err := reg.GetModel("User")
	require.NoError(t, err)
	res := resolver.New(reg)

	sel, err := parser.ParseSelect(reg, res, user, map[string]interface{}{
		"posts": true,
	})
	require.NoError(t, err)
	require.Len(t, sel.Fields, 1)
	require.NotNil(t, sel.Fields[0].Nested)
	require.Equal(t, "posts", sel.Fields[0].Nested.Relation.Name)
}

func TestParseSelectRelationFalseOmitsIt(t *testing.T) {
	reg := newTestRegistry()
	user, err := reg.GetModel("User")
	require.NoError(t, err)
	res := resolver.New(reg)

	sel, err := parser.ParseSelect(reg, res, user, map[string]interface{}{
		"posts": false,
	})
	require.NoError(t, err)
	require.Empty(t, sel.Fields)
}

func TestParseSelectNestedRelationArgs(t *testing.T) {
	reg := newTestRegistry()
	user, err := reg.GetModel("User")
	require.NoError(t, err)
	res := resolver.New(reg)

	sel, err := parser.ParseSelect(reg, res, user, map[string]interface{}{
		"posts": map[string]interface{}{
			"where": map[string]interface{}{"published": true},
			"take":  float64(3),
		},
	})
	require.NoError(t, err)
	require.NotNil(t, sel.Fields[0].Nested.Args.Where)
	require.NotNil(t, sel.Fields[0].Nested.Args.Take)
}

func TestParseIncludeNamesRelationsOnly(t *testing.T) {
	reg := newTestRegistry()
	user, err := reg.GetModel("User")
	require.NoError(t, err)
	res := resolver.New(reg)

	inc, err := parser.ParseInclude(reg, res, user, map[string]interface{}{
		"posts": true,
	})
	require.NoError(t, err)
	require.Len(t, inc.Relations, 1)
	require.Equal(t, "posts", inc.Relations[0].Relation.Name)
}

func TestParseIncludeRejectsFieldName(t *testing.T) {
	reg := newTestRegistry()
	user, err := reg.GetModel("User")
	require.NoError(t, err)
	res := resolver.New(reg)

	_, err = parser.ParseInclude(reg, res, user, map[string]interface{}{
		"email": true,
	})
	require.Error(t, err)
}
