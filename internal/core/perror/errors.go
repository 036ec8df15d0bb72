// Package perror defines the single structured error type returned by
// every stage of the query compiler: schema registry, resolver,
// sub-parsers, and the orchestrator.
package perror

import "fmt"

// Category groups ParseErrors the way a caller is expected to switch on
// them. There is one error type; Category is the only discriminator.
type Category string

const (
	// Schema errors.
	CategoryModelNotFound          Category = "model-not-found"
	CategoryFieldNotFound          Category = "field-not-found"
	CategoryRelationNotFound       Category = "relation-not-found"
	CategoryTargetModelUnavailable Category = "target-model-unavailable"
	CategoryUnknownFieldOrRelation Category = "unknown-field-or-relation"

	// Shape errors.
	CategoryInvalidObject    Category = "invalid-object"
	CategoryInvalidArray     Category = "invalid-array"
	CategoryMissingRequired  Category = "missing-required"
	CategoryWrongCardinality Category = "wrong-cardinality"

	// Operator errors.
	CategoryUnknownOperator     Category = "unknown-operator"
	CategoryWrongOperatorShape  Category = "wrong-operator-shape"
	CategoryInNotInRequireArray Category = "in-notIn-requires-array"

	// Type errors.
	CategoryTypeMismatch          Category = "type-mismatch"
	CategoryMixedArrayTypes       Category = "mixed-array-types"
	CategoryNotOrderableCursorKey Category = "not-orderable-cursor-field"

	// Upsert errors.
	CategoryNoConflictTarget  Category = "no-conflict-target"
	CategoryBadConflictTarget Category = "bad-conflict-target"

	// Emitter-side invariant violation: the AST was malformed in a way
	// the parsers should never have accepted. It is reported as a
	// *ParseError like every other error; only this Category sets it apart.
	CategoryInternalInvariant Category = "internal-invariant-violation"
)

// ParseError is the one error kind the core ever returns from a parse
// or emit call. Context fields are optional; zero value means "not
// applicable to this error".
type ParseError struct {
	Category  Category
	Model     string
	Field     string
	Operation string
	Path      string
	Message   string
	Cause     error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Category, e.Message)
	if e.Model != "" {
		msg += fmt.Sprintf(" (model=%s", e.Model)
		if e.Field != "" {
			msg += fmt.Sprintf(", field=%s", e.Field)
		}
		if e.Path != "" {
			msg += fmt.Sprintf(", path=%s", e.Path)
		}
		msg += ")"
	} else if e.Path != "" {
		msg += fmt.Sprintf(" (path=%s)", e.Path)
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Cause }

// WithPath returns a copy of e with Path prefixed by segment, used by
// the orchestrator and nested parsers to build up a dotted context path
// as an error re-propagates out through recursive calls.
func (e *ParseError) WithPath(segment string) *ParseError {
	cp := *e
	if cp.Path == "" {
		cp.Path = segment
	} else {
		cp.Path = segment + "." + cp.Path
	}
	return &cp
}

// WithOperation returns a copy of e annotated with the operation it
// occurred under, if not already set.
func (e *ParseError) WithOperation(op string) *ParseError {
	if e.Operation != "" {
		return e
	}
	cp := *e
	cp.Operation = op
	return &cp
}

func newf(cat Category, format string, args ...interface{}) *ParseError {
	return &ParseError{Category: cat, Message: fmt.Sprintf(format, args...)}
}

// ModelNotFound reports a reference to an unregistered model name.
func ModelNotFound(model string) *ParseError {
	e := newf(CategoryModelNotFound, "model %q is not registered", model)
	e.Model = model
	return e
}

// FieldNotFound reports a reference to a field that doesn't exist on model.
func FieldNotFound(model, field string) *ParseError {
	e := newf(CategoryFieldNotFound, "field %q not found on model %q", field, model)
	e.Model, e.Field = model, field
	return e
}

// RelationNotFound reports a reference to a relation that doesn't exist on model.
func RelationNotFound(model, relation string) *ParseError {
	e := newf(CategoryRelationNotFound, "relation %q not found on model %q", relation, model)
	e.Model, e.Field = model, relation
	return e
}

// UnknownFieldOrRelation reports that name resolves to neither a field
// nor a relation on model (spec §4.3 resolve-as-field-then-relation policy).
func UnknownFieldOrRelation(model, name string) *ParseError {
	e := newf(CategoryUnknownFieldOrRelation, "%q is neither a field nor a relation on model %q", name, model)
	e.Model, e.Field = model, name
	return e
}

// TargetModelUnavailable reports that a relation's lazy target getter
// resolved to a model name the registry never finalized.
func TargetModelUnavailable(model, relation, target string) *ParseError {
	e := newf(CategoryTargetModelUnavailable, "relation %q on model %q targets unregistered model %q", relation, model, target)
	e.Model, e.Field = model, relation
	return e
}

// InvalidObject reports that a node expected an object and got something else.
func InvalidObject(path string, got interface{}) *ParseError {
	e := newf(CategoryInvalidObject, "expected an object, got %T", got)
	e.Path = path
	return e
}

// InvalidArray reports that a node expected an array and got something else.
func InvalidArray(path string, got interface{}) *ParseError {
	e := newf(CategoryInvalidArray, "expected an array, got %T", got)
	e.Path = path
	return e
}

// MissingRequired reports a required clause absent from args (e.g. where, data).
func MissingRequired(operation, clause string) *ParseError {
	e := newf(CategoryMissingRequired, "operation %q requires %q", operation, clause)
	e.Operation = operation
	return e
}

// WrongCardinality reports an arity mismatch (FK length, cursor key count, ...).
func WrongCardinality(context string, got, want int) *ParseError {
	return newf(CategoryWrongCardinality, "%s: expected %d, got %d", context, want, got)
}

// UnknownOperator reports an operator key the parser doesn't recognize,
// including the set of known operators for that position.
func UnknownOperator(field string, op string, known []string) *ParseError {
	e := newf(CategoryUnknownOperator, "unknown operator %q for field %q (known: %v)", op, field, known)
	e.Field = field
	return e
}

// WrongOperatorShape reports an operator object with the wrong value shape.
func WrongOperatorShape(field, op string, want string) *ParseError {
	e := newf(CategoryWrongOperatorShape, "operator %q on field %q requires %s", op, field, want)
	e.Field = field
	return e
}

// InNotInRequiresArray reports `in`/`notIn` given a non-array value.
func InNotInRequiresArray(field, op string) *ParseError {
	e := newf(CategoryInNotInRequireArray, "%q requires an array value", op)
	e.Field = field
	return e
}

// TypeMismatch reports an operator/value combination incompatible with
// the field's declared type tag.
func TypeMismatch(field, op, tag string) *ParseError {
	e := newf(CategoryTypeMismatch, "operator %q is not valid for field %q of type %s", op, field, tag)
	e.Field = field
	return e
}

// MixedArrayTypes reports an array literal whose elements don't share a
// coherent inferred type tag.
func MixedArrayTypes(field string) *ParseError {
	e := newf(CategoryMixedArrayTypes, "array elements have incompatible types")
	e.Field = field
	return e
}

// NotOrderableCursorField reports a cursor field whose type tag isn't orderable.
func NotOrderableCursorField(field, tag string) *ParseError {
	e := newf(CategoryNotOrderableCursorKey, "field %q of type %s cannot be used as a cursor", field, tag)
	e.Field = field
	return e
}

// NoConflictTarget reports an upsert whose conflict target could not be
// inferred (no `is_id` or `is_unique` field in create data).
func NoConflictTarget(model string) *ParseError {
	e := newf(CategoryNoConflictTarget, "could not infer a conflict target for upsert on %q", model)
	e.Model = model
	return e
}

// BadConflictTarget reports a malformed conflictTarget shape.
func BadConflictTarget(model string, got interface{}) *ParseError {
	e := newf(CategoryBadConflictTarget, "invalid conflictTarget shape: %T", got)
	e.Model = model
	return e
}

// Internal reports an emitter-side invariant violation: the AST was
// malformed in a way the parsers should never have produced.
func Internal(format string, args ...interface{}) *ParseError {
	return newf(CategoryInternalInvariant, format, args...)
}

// BatchItem wraps err with the index of the createMany item it came
// from, per spec §7 "per-item failures are wrapped with the item index prefix".
func BatchItem(index int, err error) error {
	if pe, ok := err.(*ParseError); ok {
		return pe.WithPath(fmt.Sprintf("data[%d]", index))
	}
	return fmt.Errorf("data[%d]: %w", index, err)
}
