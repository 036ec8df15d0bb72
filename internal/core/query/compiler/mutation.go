package compiler

import (
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/prismaquery/core/internal/core/perror"
	"github.com/prismaquery/core/internal/core/query/ast"
	"github.com/prismaquery/core/internal/core/schema/domain"
)

// compileCreate renders a single-row INSERT (spec §4.13).
func (e *Emitter) compileCreate(q *ast.Query) (string, []interface{}, error) {
	model := q.ModelRef.Model
	cols, vals, err := e.insertRow(q.Args.Data)
	if err != nil {
		return "", nil, err
	}

	ib := squirrel.Insert(e.quote(model.Table())).Columns(cols...).Values(vals...)
	if e.dialect.SupportsReturning() {
		ib = ib.Suffix("RETURNING *")
	}
	sql, args, err := ib.ToSql()
	if err != nil {
		return "", nil, err
	}
	rendered, err := e.render(sql)
	if err != nil {
		return "", nil, err
	}
	return rendered, args, nil
}

// compileCreateMany renders a multi-row INSERT (spec §4.9, §4.13).
func (e *Emitter) compileCreateMany(q *ast.Query) (string, []interface{}, error) {
	model := q.ModelRef.Model
	batch := q.Args.Batch
	if batch == nil || len(batch.Items) == 0 {
		return "", nil, perror.Internal("emitter: createMany has no items")
	}

	firstCols, firstVals, err := e.insertRow(&batch.Items[0])
	if err != nil {
		return "", nil, err
	}
	ib := squirrel.Insert(e.quote(model.Table())).Columns(firstCols...).Values(firstVals...)
	for i := 1; i < len(batch.Items); i++ {
		_, vals, err := e.insertRow(&batch.Items[i])
		if err != nil {
			return "", nil, err
		}
		ib = ib.Values(vals...)
	}
	// ON CONFLICT DO NOTHING / INSERT IGNORE syntax differs per dialect;
	// Postgres gets the real clause, MySQL/SQLite fall back to a plain
	// insert.
	if batch.Options.SkipDuplicates && e.dialect.Name() == "postgres" {
		ib = ib.Suffix("ON CONFLICT DO NOTHING")
	}
	if e.dialect.SupportsReturning() {
		ib = ib.Suffix("RETURNING *")
	}

	sql, args, err := ib.ToSql()
	if err != nil {
		return "", nil, err
	}
	rendered, err := e.render(sql)
	if err != nil {
		return "", nil, err
	}
	return rendered, args, nil
}

// insertRow renders one Data node's field assignments as a parallel
// column/value pair (spec §4.5: every field assignment contributes its
// column and encoded value whatever its op, and a relation write
// contributes only as a simple `connect` by a scalar key; deeper nested
// writes are out of scope for a single INSERT).
func (e *Emitter) insertRow(data *ast.Data) ([]string, []interface{}, error) {
	if data == nil {
		return nil, nil, perror.Internal("emitter: create requires data")
	}
	var cols []string
	var vals []interface{}
	for _, df := range data.Fields {
		switch df.TargetKind {
		case ast.DataTargetField:
			cols = append(cols, df.Field.Field.Column())
			vals = append(vals, scalarArg(df.Value))
		case ast.DataTargetRelation:
			col, val, ok := connectColumnValue(df)
			if !ok {
				continue
			}
			cols = append(cols, col)
			vals = append(vals, val)
		}
	}
	return cols, vals, nil
}

// connectColumnValue extracts the FK column/value pair for a simple
// `connect: { <uniqueField>: <value> }` relation write on a
// manyToOne/oneToOne relation, the only relation write shape an INSERT
// can satisfy inline.
func connectColumnValue(df ast.DataField) (string, interface{}, bool) {
	if df.Op != ast.DataConnect {
		return "", nil, false
	}
	if k := df.Relation.Relation.Kind; k != domain.ManyToOne && k != domain.OneToOne {
		return "", nil, false
	}
	m, ok := df.RawRelationPayload.(map[string]interface{})
	if !ok || len(m) == 0 {
		return "", nil, false
	}
	for _, v := range m {
		return df.Relation.Relation.OnField, v, true
	}
	return "", nil, false
}

// compileUpdate renders a single-row UPDATE by where (spec §4.13).
func (e *Emitter) compileUpdate(q *ast.Query, aliases *aliasSet) (string, []interface{}, error) {
	model := q.ModelRef.Model
	alias := aliases.next()

	ub := squirrel.Update(e.tableAs(model.Table(), alias))
	ub, err := e.applySetClauses(ub, q.Args.Data, alias)
	if err != nil {
		return "", nil, err
	}

	whereSQL, whereArgs, err := e.compileCondition(q.Args.Where, alias, aliases)
	if err != nil {
		return "", nil, err
	}
	if whereSQL != "" {
		ub = ub.Where(whereSQL, whereArgs...)
	}
	if e.dialect.SupportsReturning() {
		ub = ub.Suffix("RETURNING *")
	}

	sql, args, err := ub.ToSql()
	if err != nil {
		return "", nil, err
	}
	rendered, err := e.render(sql)
	if err != nil {
		return "", nil, err
	}
	return rendered, args, nil
}

// compileUpdateMany renders an UPDATE applying one Data node to every
// row the where clause matches (spec §4.9).
func (e *Emitter) compileUpdateMany(q *ast.Query, aliases *aliasSet) (string, []interface{}, error) {
	model := q.ModelRef.Model
	alias := aliases.next()
	batch := q.Args.Batch
	if batch == nil || len(batch.Items) != 1 {
		return "", nil, perror.Internal("emitter: updateMany requires exactly one data item")
	}

	ub := squirrel.Update(e.tableAs(model.Table(), alias))
	ub, err := e.applySetClauses(ub, &batch.Items[0], alias)
	if err != nil {
		return "", nil, err
	}

	whereSQL, whereArgs, err := e.compileCondition(q.Args.Where, alias, aliases)
	if err != nil {
		return "", nil, err
	}
	if whereSQL != "" {
		ub = ub.Where(whereSQL, whereArgs...)
	}
	if e.dialect.SupportsReturning() {
		ub = ub.Suffix("RETURNING *")
	}

	sql, args, err := ub.ToSql()
	if err != nil {
		return "", nil, err
	}
	rendered, err := e.render(sql)
	if err != nil {
		return "", nil, err
	}
	return rendered, args, nil
}

// applySetClauses renders a Data node's field assignments as SET
// clauses, handling the increment/decrement/multiply/divide/push
// operators in terms of the column's own current value (spec §4.5).
func (e *Emitter) applySetClauses(ub squirrel.UpdateBuilder, data *ast.Data, alias string) (squirrel.UpdateBuilder, error) {
	if data == nil {
		return ub, perror.Internal("emitter: update requires data")
	}
	for _, df := range data.Fields {
		if df.TargetKind != ast.DataTargetField {
			continue
		}
		col := df.Field.Field.Column()
		qcol := e.qualify(alias, col)
		switch df.Op {
		case ast.DataSet:
			ub = ub.Set(col, scalarArg(df.Value))
		case ast.DataIncrement:
			ub = ub.Set(col, squirrel.Expr(fmt.Sprintf("%s + ?", qcol), scalarArg(df.Value)))
		case ast.DataDecrement:
			ub = ub.Set(col, squirrel.Expr(fmt.Sprintf("%s - ?", qcol), scalarArg(df.Value)))
		case ast.DataMultiply:
			ub = ub.Set(col, squirrel.Expr(fmt.Sprintf("%s * ?", qcol), scalarArg(df.Value)))
		case ast.DataDivide:
			ub = ub.Set(col, squirrel.Expr(fmt.Sprintf("%s / ?", qcol), scalarArg(df.Value)))
		case ast.DataPush:
			ub = ub.Set(col, squirrel.Expr(fmt.Sprintf("%s || %s", qcol, e.dialect.ArrayLiteral("?")), scalarArg(df.Value)))
		default:
			return ub, perror.Internal("emitter: unsupported data op %q on field %q", df.Op, df.Field.Name)
		}
	}
	return ub, nil
}

// compileDelete renders a single-row DELETE by where (spec §4.13).
func (e *Emitter) compileDelete(q *ast.Query, aliases *aliasSet) (string, []interface{}, error) {
	model := q.ModelRef.Model
	alias := aliases.next()

	db := squirrel.Delete(e.tableAs(model.Table(), alias))
	whereSQL, whereArgs, err := e.compileCondition(q.Args.Where, alias, aliases)
	if err != nil {
		return "", nil, err
	}
	if whereSQL != "" {
		db = db.Where(whereSQL, whereArgs...)
	}
	if e.dialect.SupportsReturning() {
		db = db.Suffix("RETURNING *")
	}

	sql, args, err := db.ToSql()
	if err != nil {
		return "", nil, err
	}
	rendered, err := e.render(sql)
	if err != nil {
		return "", nil, err
	}
	return rendered, args, nil
}

// compileDeleteMany renders a DELETE matching where with no row limit (spec §4.9).
func (e *Emitter) compileDeleteMany(q *ast.Query, aliases *aliasSet) (string, []interface{}, error) {
	return e.compileDelete(q, aliases)
}
