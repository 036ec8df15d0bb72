// Package compiler implements the AST Emitter (spec §4.13): it walks a
// parsed ast.Query once and produces a single parameterized SQL
// statement plus its positional arguments, via a dialect.Dialect.
package compiler

import (
	"fmt"

	"github.com/prismaquery/core/internal/core/dialect"
	"github.com/prismaquery/core/internal/core/perror"
	"github.com/prismaquery/core/internal/core/query/ast"
	"github.com/prismaquery/core/internal/core/schema/registry"
)

// Emitter walks one Query at a time. It carries no query-specific state
// between calls; each Emit call builds a fresh aliasSet, so alias
// numbering restarts per call and an Emitter is safe to reuse and to share across
// goroutines (spec §5). reg is used only to resolve relation targets
// through the registry's memoized TargetModel rather than re-invoking a
// relation's raw TargetGetter on every reference.
type Emitter struct {
	dialect dialect.Dialect
	reg     *registry.Registry
}

// New returns an Emitter targeting d, resolving relation targets through reg.
func New(d dialect.Dialect, reg *registry.Registry) *Emitter {
	return &Emitter{dialect: d, reg: reg}
}

// aliasSet is the per-Emit monotonic alias allocator (spec §4.13 "t0,
// t1, ... for every table reference introduced while walking").
type aliasSet struct {
	n int
}

func (a *aliasSet) next() string {
	alias := fmt.Sprintf("t%d", a.n)
	a.n++
	return alias
}

// Emit compiles q into a SQL statement and its positional parameters.
func (e *Emitter) Emit(q *ast.Query) (string, []interface{}, error) {
	aliases := &aliasSet{}

	switch q.Operation {
	case ast.FindUnique, ast.FindUniqueOrThrow, ast.FindFirst, ast.FindFirstOrThrow, ast.FindMany:
		return e.compileFind(q, aliases)
	case ast.Create:
		return e.compileCreate(q)
	case ast.CreateMany:
		return e.compileCreateMany(q)
	case ast.Update:
		return e.compileUpdate(q, aliases)
	case ast.UpdateMany:
		return e.compileUpdateMany(q, aliases)
	case ast.Upsert:
		return e.compileUpsert(q)
	case ast.Delete:
		return e.compileDelete(q, aliases)
	case ast.DeleteMany:
		return e.compileDeleteMany(q, aliases)
	case ast.Count:
		return e.compileCount(q, aliases)
	case ast.Aggregate:
		return e.compileAggregate(q, aliases)
	case ast.GroupByOp:
		return e.compileGroupBy(q, aliases)
	default:
		return "", nil, perror.Internal("emitter: unhandled operation %q", q.Operation)
	}
}

func (e *Emitter) quote(name string) string { return e.dialect.QuoteIdentifier(name) }

func (e *Emitter) qualify(alias, column string) string {
	return e.quote(alias) + "." + e.quote(column)
}

// tableAs renders a table reference with its alias, e.g. `"user" AS "t0"`.
func (e *Emitter) tableAs(table, alias string) string {
	return e.quote(table) + " AS " + e.quote(alias)
}

func (e *Emitter) render(sql string) (string, error) { return e.dialect.Render(sql) }
