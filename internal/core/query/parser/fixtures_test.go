package parser_test

import (
	"github.com/prismaquery/core/internal/core/schema/domain"
	"github.com/prismaquery/core/internal/core/schema/registry"
)

// newTestRegistry mirrors the compiler package's fixture: User has a
// posts relation to Post (oneToMany/manyToOne), keeping the two test
// suites exercising the same shapes.
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

	user.Relations = []domain.Relation{
		{Name: "posts", Kind: domain.OneToMany, OnField: "authorId", RefField: "id",
			TargetGetter: func() (*domain.Model, error) { return post, nil }},
	}
	post.Relations = []domain.Relation{
		{Name: "author", Kind: domain.ManyToOne, OnField: "authorId", RefField: "id",
			TargetGetter: func() (*domain.Model, error) { return user, nil }},
	}

	reg.RegisterModel(user)
	reg.RegisterModel(post)
	if err := reg.Finalize(); err != nil {
		panic(err)
	}
	return reg
}
