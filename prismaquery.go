// Package prismaquery is the library's facade: Parse turns a model
// name, operation name, and raw argument tree into an AST; Compile
// turns that AST into a parameterized SQL statement for a target
// dialect. Mirrors the teacher's two-stage builder/compiler split
// (v3/internal/core/query/compiler.SQLCompiler), collapsed into one
// entry point since this module has no runtime/executor layer.
package prismaquery

import (
	"github.com/prismaquery/core/internal/core/dialect"
	"github.com/prismaquery/core/internal/core/query/ast"
	"github.com/prismaquery/core/internal/core/query/compiler"
	"github.com/prismaquery/core/internal/core/query/parser"
	"github.com/prismaquery/core/internal/core/schema/registry"
)

// Parse resolves modelName against reg and parses raw into the Query
// AST for operation (spec §6.2).
func Parse(reg *registry.Registry, modelName, operation string, raw interface{}) (*ast.Query, error) {
	return parser.Parse(reg, modelName, operation, raw)
}

// Compiler emits SQL for one target dialect. It holds no per-query
// state and is safe to share across goroutines (spec §5).
type Compiler struct {
	emitter *compiler.Emitter
}

// NewCompiler builds a Compiler targeting the named provider
// ("postgres", "mysql", or "sqlite"), resolving relation targets
// through reg.
func NewCompiler(provider string, reg *registry.Registry) (*Compiler, error) {
	d, err := dialect.New(provider)
	if err != nil {
		return nil, err
	}
	return &Compiler{emitter: compiler.New(d, reg)}, nil
}

// Compile emits q as a SQL statement plus its positional parameters (spec §6.3).
func (c *Compiler) Compile(q *ast.Query) (string, []interface{}, error) {
	return c.emitter.Emit(q)
}

// CompileQuery is the one-shot convenience form of Parse+Compile for
// callers that don't need to reuse a Compiler across queries.
func CompileQuery(reg *registry.Registry, provider, modelName, operation string, raw interface{}) (string, []interface{}, error) {
	q, err := Parse(reg, modelName, operation, raw)
	if err != nil {
		return "", nil, err
	}
	c, err := NewCompiler(provider, reg)
	if err != nil {
		return "", nil, err
	}
	return c.Compile(q)
}
