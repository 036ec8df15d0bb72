package compiler

import (
	"github.com/prismaquery/core/internal/core/schema/domain"
	"github.com/prismaquery/core/internal/core/schema/registry"
)

// newTestRegistry builds a small User/Post/Tag schema shared across the
// emitter tests: User 1:N Post (manyToOne Post.author / oneToMany
// User.posts), Post M:N Tag through a junction table.
func newTestRegistry() *registry.Registry {
	reg := registry.New()

	user := &domain.Model{
		Name: "User",
		Fields: []domain.Field{
			{Name: "id", Type: domain.TypeInt, IsID: true},
			{Name: "email", Type: domain.TypeString, IsUnique: true},
			{Name: "name", Type: domain.TypeString, IsNullable: true},
			{Name: "age", Type: domain.TypeInt},
			{Name: "tags", Type: domain.TypeString, IsArray: true},
		},
	}
	post := &domain.Model{
		Name: "Post",
		Fields: []domain.Field{
			{Name: "id", Type: domain.TypeInt, IsID: true},
			{Name: "title", Type: domain.TypeString},
			{Name: "authorId", Type: domain.TypeInt},
			{Name: "published", Type: domain.TypeBoolean},
		},
	}
	tag := &domain.Model{
		Name: "Tag",
		Fields: []domain.Field{
			{Name: "id", Type: domain.TypeInt, IsID: true},
			{Name: "label", Type: domain.TypeString},
		},
	}

	user.Relations = []domain.Relation{
		{Name: "posts", Kind: domain.OneToMany, OnField: "authorId", RefField: "id",
			TargetGetter: func() (*domain.Model, error) { return post, nil }},
	}
	post.Relations = []domain.Relation{
		{Name: "author", Kind: domain.ManyToOne, OnField: "authorId", RefField: "id",
			TargetGetter: func() (*domain.Model, error) { return user, nil }},
		{Name: "tags", Kind: domain.ManyToMany, JunctionTable: "post_tags", JunctionField: "post_id",
			TargetGetter: func() (*domain.Model, error) { return tag, nil }},
	}

	reg.RegisterModel(user)
	reg.RegisterModel(post)
	reg.RegisterModel(tag)
	if err := reg.Finalize(); err != nil {
		panic(err)
	}
	return reg
}

func mustField(reg *registry.Registry, modelName, field string) registry.FieldRef {
	m, err := reg.GetModel(modelName)
	if err != nil {
		panic(err)
	}
	fr, err := reg.FieldRef(m, field)
	if err != nil {
		panic(err)
	}
	return fr
}

func mustModel(reg *registry.Registry, name string) *domain.Model {
	m, err := reg.GetModel(name)
	if err != nil {
		panic(err)
	}
	return m
}

func mustRelation(reg *registry.Registry, modelName, rel string) registry.RelationRef {
	m, err := reg.GetModel(modelName)
	if err != nil {
		panic(err)
	}
	rr, err := reg.RelationRef(m, rel)
	if err != nil {
		panic(err)
	}
	return rr
}
