package docstore

import (
	"reflect"
	"slices"
)

/***** Operator *****/

// Operator is the comparison a Condition applies to a field.
type Operator string

const (
	OpEq        Operator = "eq"
	OpGt        Operator = "gt"
	OpGte       Operator = "gte"
	OpLt        Operator = "lt"
	OpLte       Operator = "lte"
	OpExists    Operator = "exists"
	OpNotExists Operator = "not_exists"
)

// IsComparison reports whether the operator orders values (gt, gte, lt, lte).
func (o Operator) IsComparison() bool {
	switch o {
	case OpGt, OpGte, OpLt, OpLte:
		return true
	default:
		return false
	}
}

/***** Condition *****/

// Condition is a single predicate on a (dotted) field path.
type Condition struct {
	field string
	op    Operator
	value any
}

// Eq matches documents whose field equals value, or whose array field contains value.
func Eq(field string, value any) Condition {
	return Condition{field: field, op: OpEq, value: value}
}

// Gt matches documents whose field is greater than value.
func Gt(field string, value any) Condition {
	return Condition{field: field, op: OpGt, value: value}
}

// Gte matches documents whose field is greater than or equal to value.
func Gte(field string, value any) Condition {
	return Condition{field: field, op: OpGte, value: value}
}

// Lt matches documents whose field is less than value.
func Lt(field string, value any) Condition {
	return Condition{field: field, op: OpLt, value: value}
}

// Lte matches documents whose field is less than or equal to value.
func Lte(field string, value any) Condition {
	return Condition{field: field, op: OpLte, value: value}
}

// Exists matches documents that have the field, whatever its value.
func Exists(field string) Condition {
	return Condition{field: field, op: OpExists}
}

// NotExists matches documents that lack the field.
func NotExists(field string) Condition {
	return Condition{field: field, op: OpNotExists}
}

func (c Condition) Field() string {
	return c.field
}

func (c Condition) Operator() Operator {
	return c.op
}

func (c Condition) Value() any {
	return c.value
}

/***** Filter *****/

// Filter is a conjunction of conditions. The empty Filter matches every document.
type Filter struct {
	conditions []Condition
}

func (f Filter) Conditions() []Condition {
	return f.conditions
}

func (f Filter) IsEmpty() bool {
	return len(f.conditions) == 0
}

/***** FilterBuilder *****/

// FilterBuilder builds a generic document filter to be translated by the engines into their own
// query language (BSON for MongoDB, jsonpath predicates for PostgreSQL) or evaluated in memory.
//
// All conditions are ANDed:
//
//   - empty filter -> MatchingAnyDocument()
//   - (condition)
//   - (condition AND condition...)
type FilterBuilder interface {
	// Matching starts the filter with one or multiple Condition(s).
	Matching(condition Condition, conditions ...Condition) CompletedFilterBuilder

	// MatchingAnyDocument directly creates an empty Filter.
	MatchingAnyDocument() Filter
}

type CompletedFilterBuilder interface {
	// And adds one or multiple Condition(s) to the filter.
	And(condition Condition, conditions ...Condition) CompletedFilterBuilder

	// Finalize returns the Filter.
	Finalize() Filter
}

// filterBuilder implements all the interfaces of FilterBuilder
type filterBuilder struct {
	filter Filter
}

// BuildFilter creates a FilterBuilder which must eventually be finalized with Finalize() or MatchingAnyDocument().
func BuildFilter() FilterBuilder {
	return filterBuilder{}
}

// Matching starts the filter with one or multiple Condition(s).
//
// It sanitizes the input:
//   - removing conditions with an empty field
//   - removing comparison conditions without a value
//   - removing duplicate conditions
func (fb filterBuilder) Matching(condition Condition, conditions ...Condition) CompletedFilterBuilder {
	fb.filter.conditions = fb.sanitizeConditions(nil, condition, conditions...)

	return fb
}

// And adds one or multiple Condition(s) to the filter, sanitized like in Matching.
func (fb filterBuilder) And(condition Condition, conditions ...Condition) CompletedFilterBuilder {
	fb.filter.conditions = fb.sanitizeConditions(fb.filter.conditions, condition, conditions...)

	return fb
}

func (fb filterBuilder) sanitizeConditions(
	existing []Condition,
	condition Condition,
	conditions ...Condition,
) []Condition {

	allConditions := slices.Clone(existing)
	allConditions = append(allConditions, condition)
	allConditions = append(allConditions, conditions...)

	allConditions = slices.DeleteFunc(allConditions, func(c Condition) bool {
		return c.field == "" || (c.op.IsComparison() && c.value == nil)
	})

	sanitized := make([]Condition, 0, len(allConditions))
	for _, c := range allConditions {
		duplicate := slices.ContainsFunc(sanitized, func(s Condition) bool {
			return s.field == c.field && s.op == c.op && reflect.DeepEqual(s.value, c.value)
		})

		if !duplicate {
			sanitized = append(sanitized, c)
		}
	}

	return slices.Clip(sanitized)
}

// MatchingAnyDocument directly creates an empty filter.
func (fb filterBuilder) MatchingAnyDocument() Filter {
	return Filter{}
}

// Finalize returns the Filter.
func (fb filterBuilder) Finalize() Filter {
	return fb.filter
}
