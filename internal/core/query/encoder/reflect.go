package encoder

import "reflect"

// reflectSlice handles concretely-typed host slices (e.g. []string,
// []int) that don't match the []interface{} fast path, so callers
// building args in native Go (rather than from a decoded JSON tree)
// still get correct array coherence checks.
func reflectSlice(raw interface{}) ([]interface{}, bool) {
	rv := reflect.ValueOf(raw)
	if !rv.IsValid() {
		return nil, false
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil, false // []byte handled as blob
		}
		out := make([]interface{}, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	default:
		return nil, false
	}
}
