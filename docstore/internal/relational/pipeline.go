package relational

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/seriescatalog/catalog-reports/docstore"
)

// CollectionLoader loads all documents of a collection, used by lookup stages to read the joined side.
type CollectionLoader func(ctx context.Context, collection string) (docstore.Documents, error)

// Run applies the pipeline stages in order to the input documents.
// The input is not modified; output documents are copies.
func Run(
	ctx context.Context,
	input docstore.Documents,
	pipeline docstore.Pipeline,
	load CollectionLoader,
) (docstore.Documents, error) {

	if err := pipeline.Validate(); err != nil {
		return nil, err
	}

	docs := docstore.CloneDocuments(input)

	for _, stage := range pipeline {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var stageErr error

		switch s := stage.(type) {
		case docstore.MatchStage:
			docs = Filter(docs, s.Filter)

		case docstore.GroupStage:
			docs = group(docs, s)

		case docstore.LookupStage:
			docs, stageErr = lookupWithLoader(ctx, docs, s, load)

		case docstore.UnwindStage:
			docs = unwind(docs, s)

		case docstore.ProjectStage:
			docs, stageErr = project(docs, s)

		default:
			stageErr = fmt.Errorf("unsupported stage %s", stage.StageName())
		}

		if stageErr != nil {
			return nil, errors.Join(docstore.ErrEvaluatingPipelineFailed, stageErr)
		}
	}

	return docs, nil
}

func lookupWithLoader(
	ctx context.Context,
	docs docstore.Documents,
	stage docstore.LookupStage,
	load CollectionLoader,
) (docstore.Documents, error) {

	if load == nil {
		return nil, fmt.Errorf("no collection loader for lookup from %q", stage.From)
	}

	foreign, err := load(ctx, stage.From)
	if err != nil {
		return nil, err
	}

	return Lookup(docs, foreign, stage), nil
}

/***** lookup: hash join *****/

// Lookup joins every document with the foreign documents whose ForeignField equals its LocalField.
// Missing and null keys join with each other; array keys match element-wise.
func Lookup(docs, foreign docstore.Documents, stage docstore.LookupStage) docstore.Documents {
	index := make(map[string][]int)

	for i, foreignDoc := range foreign {
		for _, key := range joinKeys(foreignDoc, stage.ForeignField) {
			index[key] = append(index[key], i)
		}
	}

	joined := make(docstore.Documents, 0, len(docs))
	for _, doc := range docs {
		positions := make([]int, 0)
		seen := make(map[int]bool)

		for _, key := range joinKeys(doc, stage.LocalField) {
			for _, pos := range index[key] {
				if !seen[pos] {
					seen[pos] = true
					positions = append(positions, pos)
				}
			}
		}

		slices.Sort(positions)
		matches := make([]any, 0, len(positions))
		for _, pos := range positions {
			matches = append(matches, foreign[pos].Clone())
		}

		joined = append(joined, doc.Clone().Set(stage.As, matches))
	}

	return joined
}

// joinKeys returns the distinct hash keys a document exposes for a join field.
func joinKeys(doc docstore.Document, field string) []string {
	value, exists := doc.Lookup(field)
	if !exists || value == nil {
		return []string{hashKey(nil)}
	}

	elements, isArray := docstore.ToArray(value)
	if !isArray {
		return []string{hashKey(value)}
	}

	keys := make([]string, 0, len(elements))
	seen := make(map[string]bool)
	for _, element := range elements {
		key := hashKey(element)
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}

	return keys
}

/***** unwind: flatten *****/

func unwind(docs docstore.Documents, stage docstore.UnwindStage) docstore.Documents {
	segments := strings.Split(stage.Path, ".")
	flattened := make(docstore.Documents, 0, len(docs))

	for _, doc := range docs {
		value, exists := doc.Lookup(stage.Path)
		if !exists || value == nil {
			continue
		}

		elements, isArray := docstore.ToArray(value)
		if !isArray {
			flattened = append(flattened, doc)
			continue
		}

		for _, element := range elements {
			flattened = append(flattened, setPath(doc.Clone(), segments, docstore.CloneValue(element)))
		}
	}

	return flattened
}

// setPath sets a dotted path, creating or replacing intermediate documents as needed.
func setPath(doc docstore.Document, segments []string, value any) docstore.Document {
	if len(segments) == 1 {
		return doc.Set(segments[0], value)
	}

	current, _ := doc.Get(segments[0])
	nested, isDoc := docstore.ToDocument(current)
	if !isDoc {
		nested = docstore.Document{}
	}

	return doc.Set(segments[0], setPath(nested.Clone(), segments[1:], value))
}

/***** group: group-by with accumulators *****/

type groupState struct {
	key    any
	sums   []float64
	counts []int
	allInt []bool
}

func group(docs docstore.Documents, stage docstore.GroupStage) docstore.Documents {
	order := make([]string, 0)
	groups := make(map[string]*groupState)

	for _, doc := range docs {
		var key any
		if stage.Key != "" {
			key, _ = doc.Lookup(stage.Key)
		}

		hash := hashKey(key)
		state, ok := groups[hash]
		if !ok {
			state = &groupState{
				key:    key,
				sums:   make([]float64, len(stage.Accumulators)),
				counts: make([]int, len(stage.Accumulators)),
				allInt: make([]bool, len(stage.Accumulators)),
			}
			for i := range state.allInt {
				state.allInt[i] = true
			}
			groups[hash] = state
			order = append(order, hash)
		}

		for i, acc := range stage.Accumulators {
			value, exists := doc.Lookup(acc.Field)
			if !exists {
				continue
			}

			number, isNumber := docstore.ToFloat(value)
			if !isNumber {
				continue
			}

			state.sums[i] += number
			state.counts[i]++
			state.allInt[i] = state.allInt[i] && docstore.IsInteger(value)
		}
	}

	grouped := make(docstore.Documents, 0, len(order))
	for _, hash := range order {
		state := groups[hash]
		out := docstore.BuildDocument(docstore.F(docstore.IDField, state.key))

		for i, acc := range stage.Accumulators {
			out = out.Set(acc.As, accumulate(acc.Op, state.sums[i], state.counts[i], state.allInt[i]))
		}

		grouped = append(grouped, out)
	}

	return grouped
}

func accumulate(op docstore.AccumulatorOp, sum float64, count int, allInt bool) any {
	switch op {
	case docstore.AccumulatorAvg:
		if count == 0 {
			return nil
		}
		return sum / float64(count)

	case docstore.AccumulatorSum:
		if allInt {
			return int64(sum)
		}
		return sum

	default:
		return nil
	}
}

/***** project *****/

func project(docs docstore.Documents, stage docstore.ProjectStage) (docstore.Documents, error) {
	projected := make(docstore.Documents, 0, len(docs))

	for _, doc := range docs {
		out := docstore.Document{}

		if !stage.ExcludeID {
			if id, ok := doc.ID(); ok {
				out = out.Set(docstore.IDField, id)
			}
		}

		for _, projection := range stage.Fields {
			if projection.Expr == nil {
				if value, exists := doc.Lookup(projection.Field); exists {
					out = setPath(out, strings.Split(projection.Field, "."), value)
				}
				continue
			}

			value, err := evaluate(doc, projection.Expr)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", projection.Field, err)
			}

			out = setPath(out, strings.Split(projection.Field, "."), value)
		}

		projected = append(projected, out)
	}

	return projected, nil
}

func evaluate(doc docstore.Document, expr docstore.Expression) (any, error) {
	switch e := expr.(type) {
	case docstore.Literal:
		return e.Value, nil

	case docstore.FieldRef:
		value, _ := doc.Lookup(e.Path)
		return value, nil

	case docstore.MultiplyExpr:
		return multiply(doc, e)

	default:
		return nil, fmt.Errorf("unsupported expression %T", expr)
	}
}

// multiply keeps integer arithmetic while all operands are integers, like document stores do.
func multiply(doc docstore.Document, expr docstore.MultiplyExpr) (any, error) {
	intProduct := int64(1)
	floatProduct := 1.0
	allInt := true

	for _, operand := range expr.Operands {
		value, err := evaluate(doc, operand)
		if err != nil {
			return nil, err
		}

		if value == nil {
			return nil, nil
		}

		number, isNumber := docstore.ToFloat(value)
		if !isNumber {
			return nil, fmt.Errorf("multiply only supports numeric types, not %T", value)
		}

		if allInt && docstore.IsInteger(value) {
			intProduct *= int64(number)
			continue
		}

		if allInt {
			floatProduct = float64(intProduct)
			allInt = false
		}
		floatProduct *= number
	}

	if allInt {
		return intProduct, nil
	}

	return floatProduct, nil
}
