// Package registry implements the Schema Registry: the final,
// authoritative map from model names to resolved models used by every
// later compiler stage (spec §4.1). A Registry is immutable after
// Finalize and is safe to share across parse calls and across
// goroutines without further synchronization (spec §5).
package registry

import (
	"sort"
	"sync"

	"github.com/go-openapi/inflect"

	"github.com/prismaquery/core/internal/core/perror"
	"github.com/prismaquery/core/internal/core/schema/domain"
)

// FieldRef is a lightweight, non-owning handle to a field plus the
// model that owns it (spec §3.2 glossary "Reference").
type FieldRef struct {
	Name  string
	Field *domain.Field
	Owner *domain.Model
}

// RelationRef is the relation analogue of FieldRef.
type RelationRef struct {
	Name     string
	Relation *domain.Relation
	Owner    *domain.Model
}

// relationTarget memoizes a relation's lazily-resolved target model,
// guarded by sync.Once so concurrent first-use from multiple parse
// calls only dereferences the target getter once (spec §4.1 "resolved
// lazily on first use and memoized").
type relationTarget struct {
	once   sync.Once
	model  *domain.Model
	err    error
}

// Registry owns every Model, Field, and Relation for the process
// lifetime (spec §3.2 "Ownership"). AST nodes never hold the registry's
// data directly; they hold Refs.
type Registry struct {
	models map[string]*domain.Model
	order  []string // registration order, used for deterministic default naming

	finalized bool
	targets   map[string]*relationTarget  // keyed by "Model.Relation"
	fieldIdx  map[string]map[string]int   // model name -> field name -> index
	relIdx    map[string]map[string]int   // model name -> relation name -> index
}

// New creates an empty, unfinalized registry.
func New() *Registry {
	return &Registry{
		models:   make(map[string]*domain.Model),
		targets:  make(map[string]*relationTarget),
		fieldIdx: make(map[string]map[string]int),
		relIdx:   make(map[string]map[string]int),
	}
}

// RegisterModel adds a model to the registry. Must be called before
// Finalize. Panics on a duplicate name — this is a programming error in
// the schema-construction caller, not a runtime ParseError, since it
// can only happen while wiring the schema builder's output (spec §1
// treats the builder as an external collaborator with its own
// validation).
func (r *Registry) RegisterModel(m *domain.Model) {
	if r.finalized {
		panic("registry: RegisterModel called after Finalize")
	}
	if _, exists := r.models[m.Name]; exists {
		panic("registry: duplicate model name " + m.Name)
	}
	r.models[m.Name] = m
	r.order = append(r.order, m.Name)
}

// Finalize builds field/relation name indexes, assigns default table
// and junction table names, and locks the registry against further
// registration (spec §3.1 invariants). Relation target getters stay
// lazy (spec §4.1), except for manyToMany relations without an explicit
// junction table, whose target Finalize resolves to derive the default
// junction name.
func (r *Registry) Finalize() error {
	if r.finalized {
		return nil
	}

	for _, name := range r.order {
		m := r.models[name]
		if m.TableName == "" {
			m.TableName = inflect.Underscore(inflect.Pluralize(m.Name))
		}

		m.Fields = append([]domain.Field(nil), m.Fields...)
		m.Relations = append([]domain.Relation(nil), m.Relations...)

		fieldIdx := make(map[string]int, len(m.Fields))
		for i, f := range m.Fields {
			if f.IsID && (f.IsNullable || f.IsArray) {
				return perror.Internal("model %q field %q marked is_id must be non-nullable and non-array", m.Name, f.Name)
			}
			fieldIdx[f.Name] = i
		}

		relIdx := make(map[string]int, len(m.Relations))
		for i := range m.Relations {
			rel := &m.Relations[i]
			if _, dup := fieldIdx[rel.Name]; dup {
				return perror.Internal("model %q: field and relation names must be disjoint, both have %q", m.Name, rel.Name)
			}
			relIdx[rel.Name] = i
			r.targets[m.Name+"."+rel.Name] = &relationTarget{}
		}

		r.fieldIdx[m.Name] = fieldIdx
		r.relIdx[m.Name] = relIdx
	}

	// Default manyToMany junction table names are derived from both
	// models' names, so this pass runs after every model is indexed.
	for _, name := range r.order {
		m := r.models[name]
		for i := range m.Relations {
			rel := &m.Relations[i]
			if rel.Kind != domain.ManyToMany || rel.JunctionTable != "" {
				continue
			}
			target, err := r.resolveTarget(m.Name, rel)
			if err != nil {
				// A target that cannot be resolved fails Finalize;
				// resolveTarget calls the lazy getter once and memoizes it.
				return err
			}
			pair := []string{m.Name, target.Name}
			sort.Strings(pair)
			rel.JunctionTable = inflect.Underscore(pair[0] + "_" + pair[1])
		}
	}

	r.finalized = true
	return nil
}

// GetModel resolves a model by name.
func (r *Registry) GetModel(name string) (*domain.Model, error) {
	m, ok := r.models[name]
	if !ok {
		return nil, perror.ModelNotFound(name)
	}
	return m, nil
}

// GetField resolves a field by name on model.
func (r *Registry) GetField(model *domain.Model, name string) (*domain.Field, error) {
	if i, ok := r.fieldIdx[model.Name][name]; ok {
		return &model.Fields[i], nil
	}
	return nil, perror.FieldNotFound(model.Name, name)
}

// GetRelation resolves a relation by name on model.
func (r *Registry) GetRelation(model *domain.Model, name string) (*domain.Relation, error) {
	if i, ok := r.relIdx[model.Name][name]; ok {
		return &model.Relations[i], nil
	}
	return nil, perror.RelationNotFound(model.Name, name)
}

// FieldRef builds a FieldRef for model.name.
func (r *Registry) FieldRef(model *domain.Model, name string) (FieldRef, error) {
	f, err := r.GetField(model, name)
	if err != nil {
		return FieldRef{}, err
	}
	return FieldRef{Name: name, Field: f, Owner: model}, nil
}

// RelationRef builds a RelationRef for model.name.
func (r *Registry) RelationRef(model *domain.Model, name string) (RelationRef, error) {
	rel, err := r.GetRelation(model, name)
	if err != nil {
		return RelationRef{}, err
	}
	return RelationRef{Name: name, Relation: rel, Owner: model}, nil
}

// TargetModel resolves (and memoizes) the target model of a relation
// owned by model. Safe for concurrent use (spec §4.1, §5).
func (r *Registry) TargetModel(model *domain.Model, rel *domain.Relation) (*domain.Model, error) {
	return r.resolveTarget(model.Name, rel)
}

func (r *Registry) resolveTarget(ownerModel string, rel *domain.Relation) (*domain.Model, error) {
	key := ownerModel + "." + rel.Name
	t, ok := r.targets[key]
	if !ok {
		// Relation registered but Finalize hasn't indexed it yet (we're
		// inside Finalize itself, resolving manyToMany junction names).
		t = &relationTarget{}
		r.targets[key] = t
	}
	t.once.Do(func() {
		if rel.TargetGetter == nil {
			t.err = perror.TargetModelUnavailable(ownerModel, rel.Name, "<nil getter>")
			return
		}
		m, err := rel.TargetGetter()
		if err != nil {
			t.err = perror.TargetModelUnavailable(ownerModel, rel.Name, err.Error())
			return
		}
		if m == nil {
			t.err = perror.TargetModelUnavailable(ownerModel, rel.Name, "<nil model>")
			return
		}
		t.model = m
	})
	return t.model, t.err
}
