// Package ast defines the query AST produced by the parsers and
// consumed by the emitter (spec §3.2). Every node carries a
// discriminator tag and references (never owns) schema entities via
// registry.FieldRef/RelationRef. Nodes are built in a single pass,
// walked once by the emitter, and then discarded (spec §3.2
// "Lifecycle").
package ast

import (
	"github.com/prismaquery/core/internal/core/schema/domain"
	"github.com/prismaquery/core/internal/core/schema/registry"
)

// Operation is the root query's kind (spec §3.2).
type Operation string

const (
	FindUnique        Operation = "findUnique"
	FindUniqueOrThrow Operation = "findUniqueOrThrow"
	FindFirst         Operation = "findFirst"
	FindFirstOrThrow  Operation = "findFirstOrThrow"
	FindMany          Operation = "findMany"
	Create            Operation = "create"
	CreateMany        Operation = "createMany"
	Update            Operation = "update"
	UpdateMany        Operation = "updateMany"
	Upsert            Operation = "upsert"
	Delete            Operation = "delete"
	DeleteMany        Operation = "deleteMany"
	Count             Operation = "count"
	Aggregate         Operation = "aggregate"
	GroupByOp         Operation = "groupBy"
)

// ThrowsIfNotFound reports whether op is one of the "OrThrow" variants
// (spec SPEC_FULL §C).
func (op Operation) ThrowsIfNotFound() bool {
	return op == FindUniqueOrThrow || op == FindFirstOrThrow
}

// RequiresWhere reports whether op has "unique" semantics and therefore
// requires a where clause (spec §4.12).
func (op Operation) RequiresWhere() bool {
	switch op {
	case FindUnique, FindUniqueOrThrow, Update, Delete:
		return true
	default:
		return false
	}
}

// Query is the AST root (spec §3.2).
type Query struct {
	Operation       Operation
	ModelRef        ModelRef
	Args            QueryArgs
	ThrowIfNotFound bool
}

// ModelRef names the model a Query operates on, resolved against the
// registry by the orchestrator before any sub-parser runs.
type ModelRef struct {
	Name  string
	Model *domain.Model
}

// QueryArgs holds every optional clause a query may carry (spec §3.2).
type QueryArgs struct {
	Where      *Condition
	Data       *Data
	Select     *Selection
	Include    *Inclusion
	OrderBy    []Ordering
	GroupBy    []GroupBy
	Having     *Condition
	Take       *int
	Skip       *int
	Cursor     *Cursor
	Distinct   []registry.FieldRef
	Aggregate  *Aggregation
	Batch      *BatchData
	UpsertNode *Upsert
}

// ---- Conditions (where / having) ----

// ConditionTargetKind discriminates what a Condition applies to.
type ConditionTargetKind string

const (
	TargetField    ConditionTargetKind = "field"
	TargetRelation ConditionTargetKind = "relation"
	TargetLogical  ConditionTargetKind = "logical"
)

// RelationOp is a relation-predicate operator (spec §3.2 RelationTarget).
type RelationOp string

const (
	RelSome   RelationOp = "some"
	RelEvery  RelationOp = "every"
	RelNone   RelationOp = "none"
	RelIs     RelationOp = "is"
	RelIsNot  RelationOp = "isNot"
)

// LogicalOp combines nested conditions.
type LogicalOp string

const (
	LogicalAnd LogicalOp = "AND"
	LogicalOr  LogicalOp = "OR"
	LogicalNot LogicalOp = "NOT"
)

// Operator is the closed set of comparison/string/null/array/JSON
// operators a field Condition may carry (spec §3.2).
type Operator string

const (
	OpEquals     Operator = "equals"
	OpNot        Operator = "not"
	OpIn         Operator = "in"
	OpNotIn      Operator = "notIn"
	OpLt         Operator = "lt"
	OpLte        Operator = "lte"
	OpGt         Operator = "gt"
	OpGte        Operator = "gte"
	OpContains   Operator = "contains"
	OpStartsWith Operator = "startsWith"
	OpEndsWith   Operator = "endsWith"
	OpIsNull     Operator = "isNull"
	OpIsNotNull  Operator = "isNotNull"

	OpHas      Operator = "has"
	OpHasEvery Operator = "hasEvery"
	OpHasSome  Operator = "hasSome"
	OpIsEmpty  Operator = "isEmpty"

	OpJSONPath         Operator = "jsonPath"
	OpJSONContains     Operator = "jsonContains"
	OpJSONStartsWith   Operator = "jsonStartsWith"
	OpJSONEndsWith     Operator = "jsonEndsWith"
	OpArrayContains    Operator = "arrayContains"
	OpArrayStartsWith  Operator = "arrayStartsWith"
	OpArrayEndsWith    Operator = "arrayEndsWith"
)

// Condition is a single node in a where/having tree (spec §3.2).
type Condition struct {
	TargetKind ConditionTargetKind

	// TargetField is set when TargetKind == TargetField.
	TargetField registry.FieldRef

	// TargetRelation/RelationOp are set when TargetKind == TargetRelation.
	TargetRelation registry.RelationRef
	RelOp          RelationOp

	// LogicalOperator is set when TargetKind == TargetLogical.
	LogicalOperator LogicalOp

	Operator Operator
	Value    *Value
	Nested   []Condition // logical children, or the relation predicate's parsed body
	Negated  bool
}

// FilterMode modifies a string operator's case sensitivity.
type FilterMode string

const (
	ModeDefault     FilterMode = "default"
	ModeInsensitive FilterMode = "insensitive"
)

// JSONOptions carries the JSON-operator payload attached to a Value
// (spec §3.2 Value.options).
type JSONOptions struct {
	Path            []string
	StringContains  *string
	StringStartsWith *string
	StringEndsWith  *string
	ArrayContains   interface{}
	ArrayStartsWith interface{}
	ArrayEndsWith   interface{}
}

// ValueOptions carries the sibling modifiers a Value may need to render
// correctly: case mode and JSON operator payloads (spec §3.2).
type ValueOptions struct {
	Mode FilterMode
	JSON *JSONOptions
}

// Value is an encoded, type-tagged scalar or array (spec §3.2, §4.2).
type Value struct {
	Raw      interface{}
	TypeTag  domain.TypeTag
	IsArray  bool
	Elements []Value // set when IsArray and Raw holds a decomposed slice
	Options  *ValueOptions
}

// ---- Selection / Inclusion ----

// Selection is a parsed `select` clause (spec §3.2).
type Selection struct {
	Fields []SelectionField
}

// SelectionField is one field chosen by a select clause, or a relation
// promoted into it via a nested selection.
type SelectionField struct {
	Field   registry.FieldRef
	Nested  *NestedSelection // set if this entry is actually a relation
}

// Inclusion is a parsed `include` clause (spec §3.2).
type Inclusion struct {
	Relations []InclusionRelation
}

// InclusionRelation is one relation included via `include`.
type InclusionRelation struct {
	Relation registry.RelationRef
	Nested   *NestedSelection
}

// NestedSelection is the recursively parsed argument tree for an
// included/selected relation (spec §4.6).
type NestedSelection struct {
	Relation registry.RelationRef
	Args     QueryArgs
}

// ---- Data (create/update payloads) ----

// DataOp is the assignment/update operator for one DataField (spec §3.2).
type DataOp string

const (
	DataSet             DataOp = "set"
	DataIncrement       DataOp = "increment"
	DataDecrement       DataOp = "decrement"
	DataMultiply        DataOp = "multiply"
	DataDivide          DataOp = "divide"
	DataPush            DataOp = "push"
	DataConnect         DataOp = "connect"
	DataDisconnect      DataOp = "disconnect"
	DataConnectOrCreate DataOp = "connectOrCreate"
	DataCreate          DataOp = "create"
	DataUpdate          DataOp = "update"
	DataUpsert          DataOp = "upsert"
	DataDelete          DataOp = "delete"
)

// DataTargetKind discriminates a DataField's target (spec §3.2 DataTarget).
type DataTargetKind string

const (
	DataTargetField    DataTargetKind = "field"
	DataTargetRelation DataTargetKind = "relation"
)

// DataField is one key of a `data` object after parsing (spec §4.5).
type DataField struct {
	TargetKind DataTargetKind

	Field    registry.FieldRef
	Relation registry.RelationRef

	Op    DataOp
	Value *Value

	// RawRelationPayload carries the relation operation's raw argument
	// tree opaquely (spec §4.5: "nested create/update values are not
	// recursively expanded in the data parser"). The owning operation's
	// parser re-parses it against the relation's target model at
	// emission time if it needs to.
	RawRelationPayload interface{}
}

// Data is a parsed `data` object (spec §3.2).
type Data struct {
	ModelName string
	Fields    []DataField
}

// BatchOp is the batch operation kind (spec §3.2).
type BatchOp string

const (
	BatchCreateMany BatchOp = "createMany"
	BatchUpdateMany BatchOp = "updateMany"
	BatchDeleteMany BatchOp = "deleteMany"
)

// BatchOptions carries batch-level flags (spec §4.9).
type BatchOptions struct {
	SkipDuplicates bool
}

// BatchData is a parsed createMany/updateMany/deleteMany payload (spec §3.2).
type BatchData struct {
	ModelName string
	Op        BatchOp
	Items     []Data
	Options   BatchOptions
}

// ---- Ordering ----

// OrderTargetKind discriminates what an Ordering sorts by (spec §3.2).
type OrderTargetKind string

const (
	OrderField     OrderTargetKind = "field"
	OrderRelation  OrderTargetKind = "relation"
	OrderAggregate OrderTargetKind = "aggregate"
)

// SortDirection is asc/desc.
type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

// NullsOrder controls null placement, left to the adapter when unset.
type NullsOrder string

const (
	NullsUnspecified NullsOrder = ""
	NullsFirst       NullsOrder = "first"
	NullsLast        NullsOrder = "last"
)

// Ordering is one entry of an `orderBy` clause (spec §3.2, §4.7).
type Ordering struct {
	TargetKind OrderTargetKind
	Field      registry.FieldRef    // OrderField
	Relation   registry.RelationRef // OrderRelation
	Nested     *Ordering            // relation ordering's inner clause

	Aggregate     AggregateFunc // OrderAggregate, or relation "_count"
	AggregateOver registry.FieldRef

	Direction SortDirection
	Nulls     NullsOrder
}

// ---- Aggregation / GroupBy ----

// AggregateFunc is one of the five Prisma-style aggregate functions (spec §3.2).
type AggregateFunc string

const (
	AggCount AggregateFunc = "_count"
	AggAvg   AggregateFunc = "_avg"
	AggSum   AggregateFunc = "_sum"
	AggMin   AggregateFunc = "_min"
	AggMax   AggregateFunc = "_max"
)

// AggField is one aggregation entry (spec §3.2).
type AggField struct {
	Op    AggregateFunc
	Field *registry.FieldRef // nil for a countless _count (COUNT(*))
	Alias string
}

// Aggregation is a parsed aggregate clause (spec §3.2, §4.8).
type Aggregation struct {
	ModelName    string
	Aggregations []AggField
}

// GroupBy is one `groupBy` field (spec §3.2).
type GroupBy struct {
	Field registry.FieldRef
}

// ---- Cursor ----

// Cursor is a parsed cursor-pagination clause (spec §3.2, §4.10).
type Cursor struct {
	Field     registry.FieldRef
	Value     *Value
	Direction SortDirection
}

// ---- Upsert ----

// ConflictTargetKind discriminates a ConflictTarget variant (spec §3.2).
type ConflictTargetKind string

const (
	ConflictFields     ConflictTargetKind = "fields"
	ConflictIndexName  ConflictTargetKind = "index"
	ConflictConstraint ConflictTargetKind = "constraint"
)

// ConflictTarget names the ON CONFLICT target for an upsert (spec §3.2, §4.11).
type ConflictTarget struct {
	Kind   ConflictTargetKind
	Fields []registry.FieldRef // ConflictFields
	Name   string              // ConflictIndexName / ConflictConstraint
}

// Upsert is a parsed upsert clause (spec §3.2).
type Upsert struct {
	ModelName      string
	ConflictTarget ConflictTarget
	CreateData     Data
	UpdateData     Data
	Where          *Condition
}
