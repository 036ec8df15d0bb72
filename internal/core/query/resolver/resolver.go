// Package resolver implements the Field Resolver (spec §4.3): turning
// single names and dotted relation paths into schema references.
package resolver

import (
	"strings"

	"github.com/prismaquery/core/internal/core/perror"
	"github.com/prismaquery/core/internal/core/schema/domain"
	"github.com/prismaquery/core/internal/core/schema/registry"
)

// Resolver resolves names against one Registry.
type Resolver struct {
	reg *registry.Registry
}

// New builds a Resolver over reg.
func New(reg *registry.Registry) *Resolver {
	return &Resolver{reg: reg}
}

// ResolveField resolves name to a field on model.
func (r *Resolver) ResolveField(model *domain.Model, name string) (registry.FieldRef, error) {
	return r.reg.FieldRef(model, name)
}

// ResolveRelation resolves name to a relation on model.
func (r *Resolver) ResolveRelation(model *domain.Model, name string) (registry.RelationRef, error) {
	return r.reg.RelationRef(model, name)
}

// Resolution is the outcome of resolving a single name: either a field
// or a relation reference, discriminated by IsRelation.
type Resolution struct {
	IsRelation bool
	Field      registry.FieldRef
	Relation   registry.RelationRef
}

// ResolveFieldOrRelation implements the spec §4.4 policy: resolve as a
// field first, then as a relation; if neither exists, fail with
// unknown-field-or-relation.
func (r *Resolver) ResolveFieldOrRelation(model *domain.Model, name string) (Resolution, error) {
	if f, err := r.reg.FieldRef(model, name); err == nil {
		return Resolution{Field: f}, nil
	}
	if rel, err := r.reg.RelationRef(model, name); err == nil {
		return Resolution{IsRelation: true, Relation: rel}, nil
	}
	return Resolution{}, perror.UnknownFieldOrRelation(model.Name, name)
}

// ResolvePath walks a dotted path through relations, returning the
// final segment's resolution. Intermediate segments must each resolve
// to a relation; the last segment may be a field or a relation. An
// empty path is rejected (spec §4.3).
func (r *Resolver) ResolvePath(model *domain.Model, segments []string) (Resolution, error) {
	if len(segments) == 0 {
		return Resolution{}, perror.WrongCardinality("field path", 0, 1)
	}
	for _, s := range segments {
		if s == "" {
			return Resolution{}, perror.WrongCardinality("field path segment", 0, 1)
		}
	}

	cur := model
	for _, seg := range segments[:len(segments)-1] {
		rel, err := r.reg.RelationRef(cur, seg)
		if err != nil {
			return Resolution{}, err
		}
		target, err := r.reg.TargetModel(cur, rel.Relation)
		if err != nil {
			return Resolution{}, err
		}
		cur = target
	}

	return r.ResolveFieldOrRelation(cur, segments[len(segments)-1])
}

// SplitPath is a small convenience that splits a dotted-path string
// (e.g. "author.name") into segments; ResolvePath itself takes segments
// directly so callers that already have a []string (JSON object keys)
// don't pay a join+split round trip.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}
