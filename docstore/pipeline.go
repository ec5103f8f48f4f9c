package docstore

import (
	"errors"
	"fmt"
)

const (
	StageMatch   = "match"
	StageGroup   = "group"
	StageLookup  = "lookup"
	StageUnwind  = "unwind"
	StageProject = "project"
)

// Stage is one transformation step of a Pipeline.
type Stage interface {
	StageName() string
	validate() error
}

// Pipeline is an ordered sequence of stages applied to the documents of one collection.
type Pipeline []Stage

// Validate checks every stage and returns ErrInvalidPipeline joined with the first problem found.
func (p Pipeline) Validate() error {
	for i, stage := range p {
		if stage == nil {
			return errors.Join(ErrInvalidPipeline, fmt.Errorf("stage %d is nil", i))
		}

		if err := stage.validate(); err != nil {
			return errors.Join(ErrInvalidPipeline, fmt.Errorf("stage %d (%s): %w", i, stage.StageName(), err))
		}
	}

	return nil
}

/***** Match *****/

// MatchStage keeps the documents matching Filter.
type MatchStage struct {
	Filter Filter
}

func Match(filter Filter) MatchStage {
	return MatchStage{Filter: filter}
}

func (s MatchStage) StageName() string {
	return StageMatch
}

func (s MatchStage) validate() error {
	return nil
}

/***** Group *****/

// AccumulatorOp is the reduction a group Accumulator applies.
type AccumulatorOp string

const (
	AccumulatorAvg AccumulatorOp = "avg"
	AccumulatorSum AccumulatorOp = "sum"
)

// Accumulator reduces Field over the documents of a group into the output field As.
type Accumulator struct {
	As    string
	Op    AccumulatorOp
	Field string
}

// Avg computes the arithmetic mean of the numeric values of field. Non-numeric and missing values are ignored.
func Avg(as, field string) Accumulator {
	return Accumulator{As: as, Op: AccumulatorAvg, Field: field}
}

// Sum adds up the numeric values of field.
func Sum(as, field string) Accumulator {
	return Accumulator{As: as, Op: AccumulatorSum, Field: field}
}

// GroupStage groups documents by the value of Key. An empty Key groups all documents under a null IDField.
type GroupStage struct {
	Key          string
	Accumulators []Accumulator
}

// GroupAll groups all input documents into a single output document with a null IDField.
func GroupAll(accumulator Accumulator, accumulators ...Accumulator) GroupStage {
	return GroupStage{Accumulators: append([]Accumulator{accumulator}, accumulators...)}
}

// GroupBy groups the input documents by the value of key.
func GroupBy(key string, accumulator Accumulator, accumulators ...Accumulator) GroupStage {
	return GroupStage{Key: key, Accumulators: append([]Accumulator{accumulator}, accumulators...)}
}

func (s GroupStage) StageName() string {
	return StageGroup
}

func (s GroupStage) validate() error {
	for _, acc := range s.Accumulators {
		if acc.As == "" || acc.Field == "" {
			return errors.New("accumulator needs an output name and a field")
		}

		if acc.As == IDField {
			return errors.New("accumulator must not write the identifier field")
		}

		if acc.Op != AccumulatorAvg && acc.Op != AccumulatorSum {
			return fmt.Errorf("unsupported accumulator %q", acc.Op)
		}
	}

	return nil
}

/***** Lookup *****/

// LookupStage left-outer-joins documents of collection From whose ForeignField equals LocalField,
// storing the matches as an array under As.
type LookupStage struct {
	From         string
	LocalField   string
	ForeignField string
	As           string
}

func Lookup(from, localField, foreignField, as string) LookupStage {
	return LookupStage{From: from, LocalField: localField, ForeignField: foreignField, As: as}
}

func (s LookupStage) StageName() string {
	return StageLookup
}

func (s LookupStage) validate() error {
	if s.From == "" || s.LocalField == "" || s.ForeignField == "" || s.As == "" {
		return errors.New("lookup needs from, localField, foreignField and as")
	}

	return nil
}

/***** Unwind *****/

// UnwindStage emits one document per element of the array at Path, replacing the array with the element.
// Documents whose array is missing, null, or empty are dropped.
type UnwindStage struct {
	Path string
}

func Unwind(path string) UnwindStage {
	return UnwindStage{Path: path}
}

func (s UnwindStage) StageName() string {
	return StageUnwind
}

func (s UnwindStage) validate() error {
	if s.Path == "" {
		return errors.New("unwind needs a path")
	}

	return nil
}

/***** Project *****/

// Expression is a computed projection value.
type Expression interface {
	expression()
}

// FieldRef evaluates to the value at a dotted path of the input document.
type FieldRef struct {
	Path string
}

func Ref(path string) FieldRef {
	return FieldRef{Path: path}
}

func (FieldRef) expression() {}

// Literal evaluates to a constant.
type Literal struct {
	Value any
}

func Lit(value any) Literal {
	return Literal{Value: value}
}

func (Literal) expression() {}

// MultiplyExpr evaluates to the product of its operands.
// A missing or null operand yields null; a non-numeric operand is an evaluation error.
type MultiplyExpr struct {
	Operands []Expression
}

func Multiply(operand Expression, operands ...Expression) MultiplyExpr {
	return MultiplyExpr{Operands: append([]Expression{operand}, operands...)}
}

func (MultiplyExpr) expression() {}

// Projection is one output field of a ProjectStage. A nil Expr includes the input field unchanged.
type Projection struct {
	Field string
	Expr  Expression
}

// Include keeps the (top-level) field.
func Include(field string) Projection {
	return Projection{Field: field}
}

// Computed sets field to the value of expr.
func Computed(field string, expr Expression) Projection {
	return Projection{Field: field, Expr: expr}
}

// ProjectStage reshapes documents: the IDField (unless excluded) followed by Fields in order.
type ProjectStage struct {
	ExcludeID bool
	Fields    []Projection
}

func Project(projection Projection, projections ...Projection) ProjectStage {
	return ProjectStage{Fields: append([]Projection{projection}, projections...)}
}

// WithoutID excludes the IDField from the output.
func (s ProjectStage) WithoutID() ProjectStage {
	s.ExcludeID = true
	return s
}

func (s ProjectStage) StageName() string {
	return StageProject
}

func (s ProjectStage) validate() error {
	for _, projection := range s.Fields {
		if projection.Field == "" {
			return errors.New("projection needs a field name")
		}

		if err := validateExpression(projection.Expr); err != nil {
			return err
		}
	}

	return nil
}

func validateExpression(expr Expression) error {
	switch e := expr.(type) {
	case nil, Literal:
		return nil

	case FieldRef:
		if e.Path == "" {
			return errors.New("field reference needs a path")
		}
		return nil

	case MultiplyExpr:
		for _, operand := range e.Operands {
			if operand == nil {
				return errors.New("multiply operand is nil")
			}
			if err := validateExpression(operand); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("unsupported expression %T", expr)
	}
}
