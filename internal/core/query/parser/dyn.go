// Package parser turns the loosely-typed argument trees accepted at the
// public boundary (plain map[string]interface{}/[]interface{}, the same
// shape encoding/json produces) into the typed ast.Query. Each clause
// gets its own file; query.go dispatches by operation.
package parser

import (
	"sort"

	"github.com/prismaquery/core/internal/core/perror"
)

// object narrows raw to a JSON-object-shaped map, failing with
// invalid-object otherwise. This is the parsers' one boundary with the
// untyped input tree (spec §9 "input typing").
func object(raw interface{}, path string) (map[string]interface{}, error) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, perror.InvalidObject(path, raw)
	}
	return m, nil
}

// array narrows raw to a JSON-array-shaped slice.
func array(raw interface{}, path string) ([]interface{}, error) {
	a, ok := raw.([]interface{})
	if !ok {
		return nil, perror.InvalidArray(path, raw)
	}
	return a, nil
}

// str narrows raw to a string.
func str(raw interface{}, path string) (string, error) {
	s, ok := raw.(string)
	if !ok {
		return "", perror.InvalidObject(path, raw)
	}
	return s, nil
}

// truthy reports whether raw is a non-zero, non-false, non-nil value —
// the "include iff value is truthy" rule used by select/include parsing.
func truthy(raw interface{}) bool {
	switch v := raw.(type) {
	case nil:
		return false
	case bool:
		return v
	default:
		return true
	}
}

// intArg narrows raw (typically a float64 from a decoded JSON number, or
// a native Go int) to an int.
func intArg(raw interface{}, path string) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, perror.InvalidObject(path, raw)
	}
}

// boolArg narrows raw to a bool.
func boolArg(raw interface{}, path string) (bool, error) {
	b, ok := raw.(bool)
	if !ok {
		return false, perror.InvalidObject(path, raw)
	}
	return b, nil
}

// keys returns m's keys in sorted order. Go map iteration is randomized
// per-process; sorting here is what makes parsing the same input twice
// yield structurally equal ASTs (spec §8 property 7) instead of
// AND-children in a different order each run.
func keys(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
