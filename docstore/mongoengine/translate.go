package mongoengine

import (
	"errors"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/seriescatalog/catalog-reports/docstore"
)

var operatorNames = map[docstore.Operator]string{
	docstore.OpEq:  "$eq",
	docstore.OpGt:  "$gt",
	docstore.OpGte: "$gte",
	docstore.OpLt:  "$lt",
	docstore.OpLte: "$lte",
}

// FilterToBSON translates a filter into a MongoDB query document.
//
// Conditions on the same field are merged into one operator document, e.g.
// {puntuacion: {$exists: true, $gt: 8}}. A lone equality uses the short form {field: value}.
// When one field repeats an operator, the conditions are combined with $and instead.
func FilterToBSON(filter docstore.Filter) (bson.D, error) {
	conditions := filter.Conditions()
	if len(conditions) == 0 {
		return bson.D{}, nil
	}

	fields := make([]string, 0, len(conditions))
	byField := make(map[string][]docstore.Condition)
	repeatedOperator := false

	for _, c := range conditions {
		existing, seen := byField[c.Field()]
		if !seen {
			fields = append(fields, c.Field())
		}

		for _, e := range existing {
			if e.Operator() == c.Operator() {
				repeatedOperator = true
			}
		}

		byField[c.Field()] = append(existing, c)
	}

	if repeatedOperator {
		clauses := make(bson.A, 0, len(conditions))
		for _, c := range conditions {
			clause, err := fieldClause([]docstore.Condition{c})
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, bson.D{{Key: c.Field(), Value: clause}})
		}

		return bson.D{{Key: "$and", Value: clauses}}, nil
	}

	query := make(bson.D, 0, len(fields))
	for _, field := range fields {
		clause, err := fieldClause(byField[field])
		if err != nil {
			return nil, err
		}
		query = append(query, bson.E{Key: field, Value: clause})
	}

	return query, nil
}

func fieldClause(conditions []docstore.Condition) (any, error) {
	if len(conditions) == 1 && conditions[0].Operator() == docstore.OpEq {
		return ToBSONValue(conditions[0].Value()), nil
	}

	clause := make(bson.D, 0, len(conditions))
	for _, c := range conditions {
		switch c.Operator() {
		case docstore.OpExists:
			clause = append(clause, bson.E{Key: "$exists", Value: true})

		case docstore.OpNotExists:
			clause = append(clause, bson.E{Key: "$exists", Value: false})

		default:
			name, ok := operatorNames[c.Operator()]
			if !ok {
				return nil, errors.Join(docstore.ErrInvalidFilter, fmt.Errorf("unsupported operator %q", c.Operator()))
			}
			clause = append(clause, bson.E{Key: name, Value: ToBSONValue(c.Value())})
		}
	}

	return clause, nil
}

// PipelineToBSON translates a validated pipeline into MongoDB aggregation stages.
func PipelineToBSON(pipeline docstore.Pipeline) (mongo.Pipeline, error) {
	if err := pipeline.Validate(); err != nil {
		return nil, err
	}

	stages := make(mongo.Pipeline, 0, len(pipeline))

	for _, stage := range pipeline {
		var translated bson.D

		switch s := stage.(type) {
		case docstore.MatchStage:
			query, err := FilterToBSON(s.Filter)
			if err != nil {
				return nil, err
			}
			translated = bson.D{{Key: "$match", Value: query}}

		case docstore.GroupStage:
			translated = bson.D{{Key: "$group", Value: groupToBSON(s)}}

		case docstore.LookupStage:
			translated = bson.D{{Key: "$lookup", Value: bson.D{
				{Key: "from", Value: s.From},
				{Key: "localField", Value: s.LocalField},
				{Key: "foreignField", Value: s.ForeignField},
				{Key: "as", Value: s.As},
			}}}

		case docstore.UnwindStage:
			translated = bson.D{{Key: "$unwind", Value: "$" + s.Path}}

		case docstore.ProjectStage:
			translated = bson.D{{Key: "$project", Value: projectToBSON(s)}}

		default:
			return nil, errors.Join(docstore.ErrInvalidPipeline, fmt.Errorf("unsupported stage %s", stage.StageName()))
		}

		stages = append(stages, translated)
	}

	return stages, nil
}

func groupToBSON(stage docstore.GroupStage) bson.D {
	var key any
	if stage.Key != "" {
		key = "$" + stage.Key
	}

	group := bson.D{{Key: docstore.IDField, Value: key}}
	for _, acc := range stage.Accumulators {
		group = append(group, bson.E{Key: acc.As, Value: bson.D{{Key: "$" + string(acc.Op), Value: "$" + acc.Field}}})
	}

	return group
}

func projectToBSON(stage docstore.ProjectStage) bson.D {
	projection := make(bson.D, 0, len(stage.Fields)+1)
	if stage.ExcludeID {
		projection = append(projection, bson.E{Key: docstore.IDField, Value: 0})
	}

	for _, p := range stage.Fields {
		if p.Expr == nil {
			projection = append(projection, bson.E{Key: p.Field, Value: 1})
			continue
		}
		projection = append(projection, bson.E{Key: p.Field, Value: expressionToBSON(p.Expr)})
	}

	return projection
}

func expressionToBSON(expr docstore.Expression) any {
	switch e := expr.(type) {
	case docstore.FieldRef:
		return "$" + e.Path

	case docstore.Literal:
		return bson.D{{Key: "$literal", Value: ToBSONValue(e.Value)}}

	case docstore.MultiplyExpr:
		operands := make(bson.A, len(e.Operands))
		for i, operand := range e.Operands {
			operands[i] = expressionToBSON(operand)
		}
		return bson.D{{Key: "$multiply", Value: operands}}

	default:
		return nil
	}
}

// ToBSONValue converts documents and arrays into their BSON representations, recursively.
func ToBSONValue(value any) any {
	if doc, ok := value.(docstore.Document); ok {
		return DocumentToBSON(doc)
	}

	if elements, ok := value.([]any); ok {
		array := make(bson.A, len(elements))
		for i, element := range elements {
			array[i] = ToBSONValue(element)
		}
		return array
	}

	return value
}

// DocumentToBSON converts a Document into an ordered bson.D.
func DocumentToBSON(doc docstore.Document) bson.D {
	d := make(bson.D, len(doc))
	for i, field := range doc {
		d[i] = bson.E{Key: field.Key, Value: ToBSONValue(field.Value)}
	}

	return d
}

// FromBSONValue converts decoded BSON documents and arrays into Documents and []any, recursively.
// Scalars keep their BSON Go types (int32, int64, float64, primitive.ObjectID, ...).
func FromBSONValue(value any) any {
	switch v := value.(type) {
	case bson.D:
		return DocumentFromBSON(v)

	case bson.M:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		doc := make(docstore.Document, len(keys))
		for i, k := range keys {
			doc[i] = docstore.F(k, FromBSONValue(v[k]))
		}
		return doc

	case bson.A:
		elements := make([]any, len(v))
		for i, element := range v {
			elements[i] = FromBSONValue(element)
		}
		return elements

	default:
		return value
	}
}

// DocumentFromBSON converts a decoded bson.D into a Document.
func DocumentFromBSON(d bson.D) docstore.Document {
	doc := make(docstore.Document, len(d))
	for i, e := range d {
		doc[i] = docstore.F(e.Key, FromBSONValue(e.Value))
	}

	return doc
}
