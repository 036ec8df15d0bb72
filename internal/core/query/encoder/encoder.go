// Package encoder implements the Value Encoder (spec §4.2): it maps a
// host Go value, optionally in the context of a declared schema field,
// to a tagged ast.Value with an inferred type and array-ness.
package encoder

import (
	"math/big"
	"time"

	"github.com/prismaquery/core/internal/core/perror"
	"github.com/prismaquery/core/internal/core/query/ast"
	"github.com/prismaquery/core/internal/core/schema/domain"
	"github.com/prismaquery/core/internal/core/schema/registry"
)

// Encode maps raw into an ast.Value. If field is non-nil, the field's
// declared type_tag/is_array win over host-type inference (spec §4.2
// rule 1). Otherwise host types are mapped per rule 2.
func Encode(raw interface{}, field *registry.FieldRef) (*ast.Value, error) {
	if field != nil {
		return encodeTyped(raw, field.Field)
	}
	return encodeInferred(raw)
}

func encodeTyped(raw interface{}, f *domain.Field) (*ast.Value, error) {
	if raw == nil {
		return &ast.Value{TypeTag: domain.TypeNull}, nil
	}

	if f.IsArray {
		items, ok := asSlice(raw)
		if !ok {
			// A scalar given where an array field was declared is still
			// encoded as a single-element value; callers that require an
			// array (has/hasEvery/...) validate arity themselves.
			v, err := encodeTyped(raw, &domain.Field{Type: f.Type})
			if err != nil {
				return nil, err
			}
			return v, nil
		}
		elems := make([]ast.Value, len(items))
		for i, it := range items {
			v, err := encodeTyped(it, &domain.Field{Type: f.Type})
			if err != nil {
				return nil, err
			}
			elems[i] = *v
		}
		return &ast.Value{Raw: raw, TypeTag: f.Type, IsArray: true, Elements: elems}, nil
	}

	return &ast.Value{Raw: raw, TypeTag: f.Type}, nil
}

func encodeInferred(raw interface{}) (*ast.Value, error) {
	if raw == nil {
		return &ast.Value{TypeTag: domain.TypeNull}, nil
	}

	switch v := raw.(type) {
	case string:
		return &ast.Value{Raw: v, TypeTag: domain.TypeString}, nil
	case bool:
		return &ast.Value{Raw: v, TypeTag: domain.TypeBoolean}, nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return &ast.Value{Raw: v, TypeTag: domain.TypeInt}, nil
	case *big.Int:
		return &ast.Value{Raw: v, TypeTag: domain.TypeBigInt}, nil
	case float32, float64:
		return &ast.Value{Raw: v, TypeTag: domain.TypeFloat}, nil
	case time.Time:
		return &ast.Value{Raw: v, TypeTag: domain.TypeDateTime}, nil
	case []byte:
		return &ast.Value{Raw: v, TypeTag: domain.TypeBlob}, nil
	}

	if items, ok := asSlice(raw); ok {
		return encodeArrayInferred(raw, items)
	}

	// Any other object (map[string]interface{}, struct) is treated as JSON.
	return &ast.Value{Raw: raw, TypeTag: domain.TypeJSON}, nil
}

func encodeArrayInferred(raw interface{}, items []interface{}) (*ast.Value, error) {
	if len(items) == 0 {
		return &ast.Value{Raw: raw, TypeTag: domain.TypeString, IsArray: true}, nil
	}

	elems := make([]ast.Value, len(items))
	var tag domain.TypeTag
	for i, it := range items {
		v, err := encodeInferred(it)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			tag = v.TypeTag
		} else if v.TypeTag != domain.TypeNull && tag != domain.TypeNull && v.TypeTag != tag {
			return nil, perror.MixedArrayTypes("")
		} else if tag == domain.TypeNull {
			tag = v.TypeTag
		}
		elems[i] = *v
	}

	return &ast.Value{Raw: raw, TypeTag: tag, IsArray: true, Elements: elems}, nil
}

// asSlice reports whether raw is a plain array/slice and returns its
// elements as []interface{}. []byte is intentionally excluded — it is
// encoded as blob, not an array of ints (spec §4.2).
func asSlice(raw interface{}) ([]interface{}, bool) {
	if _, isBytes := raw.([]byte); isBytes {
		return nil, false
	}
	if items, ok := raw.([]interface{}); ok {
		return items, true
	}
	return reflectSlice(raw)
}
