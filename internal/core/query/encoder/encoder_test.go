package encoder_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prismaquery/core/internal/core/query/encoder"
	"github.com/prismaquery/core/internal/core/schema/domain"
	"github.com/prismaquery/core/internal/core/schema/registry"
)

func TestEncodeInferredScalars(t *testing.T) {
	cases := []struct {
		raw     interface{}
		wantTag domain.TypeTag
	}{
		{"hello", domain.TypeString},
		{true, domain.TypeBoolean},
		{42, domain.TypeInt},
		{3.14, domain.TypeFloat},
		{nil, domain.TypeNull},
	}
	for _, c := range cases {
		v, err := encoder.Encode(c.raw, nil)
		require.NoError(t, err)
		require.Equal(t, c.wantTag, v.TypeTag)
	}
}

func TestEncodeInferredArray(t *testing.T) {
	v, err := encoder.Encode([]interface{}{"a", "b", "c"}, nil)
	require.NoError(t, err)
	require.True(t, v.IsArray)
	require.Equal(t, domain.TypeString, v.TypeTag)
	require.Len(t, v.Elements, 3)
}

func TestEncodeInferredRejectsMixedArrayTypes(t *testing.T) {
	_, err := encoder.Encode([]interface{}{"a", 1}, nil)
	require.Error(t, err)
}

func TestEncodeInferredObjectBecomesJSON(t *testing.T) {
	v, err := encoder.Encode(map[string]interface{}{"a": 1}, nil)
	require.NoError(t, err)
	require.Equal(t, domain.TypeJSON, v.TypeTag)
}

func TestEncodeTypedHonorsDeclaredFieldType(t *testing.T) {
	model := &domain.Model{Name: "M", Fields: []domain.Field{
		{Name: "amount", Type: domain.TypeFloat},
	}}
	reg := registry.New()
	reg.RegisterModel(model)
	require.NoError(t, reg.Finalize())

	fr, err := reg.FieldRef(model, "amount")
	require.NoError(t, err)

	v, err := encoder.Encode(1, &fr)
	require.NoError(t, err)
	require.Equal(t, domain.TypeFloat, v.TypeTag)
}

func TestEncodeTypedArrayField(t *testing.T) {
	model := &domain.Model{Name: "M", Fields: []domain.Field{
		{Name: "tags", Type: domain.TypeString, IsArray: true},
	}}
	reg := registry.New()
	reg.RegisterModel(model)
	require.NoError(t, reg.Finalize())

	fr, err := reg.FieldRef(model, "tags")
	require.NoError(t, err)

	v, err := encoder.Encode([]interface{}{"x", "y"}, &fr)
	require.NoError(t, err)
	require.True(t, v.IsArray)
	require.Len(t, v.Elements, 2)
}
