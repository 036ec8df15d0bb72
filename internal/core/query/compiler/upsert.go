package compiler

import (
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/prismaquery/core/internal/core/perror"
	"github.com/prismaquery/core/internal/core/query/ast"
)

// compileUpsert renders an INSERT ... ON CONFLICT <target> DO UPDATE SET
// ... statement (spec §4.11, §4.13). This is the one mutation form that
// is genuinely Postgres-shaped; the same ON CONFLICT form is emitted for
// every dialect, and MySQL's ON DUPLICATE KEY UPDATE is not produced.
func (e *Emitter) compileUpsert(q *ast.Query) (string, []interface{}, error) {
	up := q.Args.UpsertNode
	if up == nil {
		return "", nil, perror.Internal("emitter: upsert requires an Upsert node")
	}
	model := q.ModelRef.Model

	cols, vals, err := e.insertRow(&up.CreateData)
	if err != nil {
		return "", nil, err
	}

	ib := squirrel.Insert(e.quote(model.Table())).Columns(cols...).Values(vals...)

	target, err := e.conflictTargetSQL(up.ConflictTarget)
	if err != nil {
		return "", nil, err
	}

	setParts, setArgs, err := e.upsertSetParts(&up.UpdateData)
	if err != nil {
		return "", nil, err
	}

	suffix := fmt.Sprintf("ON CONFLICT %s DO UPDATE SET %s", target, strings.Join(setParts, ", "))
	if e.dialect.SupportsReturning() {
		suffix += " RETURNING *"
	}
	ib = ib.Suffix(suffix, setArgs...)

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

func (e *Emitter) conflictTargetSQL(ct ast.ConflictTarget) (string, error) {
	switch ct.Kind {
	case ast.ConflictFields:
		cols := make([]string, len(ct.Fields))
		for i, f := range ct.Fields {
			cols[i] = e.quote(f.Field.Column())
		}
		return "(" + strings.Join(cols, ", ") + ")", nil
	case ast.ConflictIndexName, ast.ConflictConstraint:
		return "ON CONSTRAINT " + e.quote(ct.Name), nil
	default:
		return "", perror.Internal("emitter: unhandled conflict target kind %q", ct.Kind)
	}
}

func (e *Emitter) upsertSetParts(data *ast.Data) ([]string, []interface{}, error) {
	var parts []string
	var args []interface{}
	for _, df := range data.Fields {
		if df.TargetKind != ast.DataTargetField {
			continue
		}
		col := e.quote(df.Field.Field.Column())
		switch df.Op {
		case ast.DataSet:
			parts = append(parts, col+" = ?")
			args = append(args, scalarArg(df.Value))
		case ast.DataIncrement:
			parts = append(parts, fmt.Sprintf("%s = %s + ?", col, col))
			args = append(args, scalarArg(df.Value))
		case ast.DataDecrement:
			parts = append(parts, fmt.Sprintf("%s = %s - ?", col, col))
			args = append(args, scalarArg(df.Value))
		case ast.DataMultiply:
			parts = append(parts, fmt.Sprintf("%s = %s * ?", col, col))
			args = append(args, scalarArg(df.Value))
		case ast.DataDivide:
			parts = append(parts, fmt.Sprintf("%s = %s / ?", col, col))
			args = append(args, scalarArg(df.Value))
		default:
			return nil, nil, perror.Internal("emitter: unsupported upsert data op %q", df.Op)
		}
	}
	return parts, args, nil
}
