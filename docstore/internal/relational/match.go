package relational

import (
	"github.com/seriescatalog/catalog-reports/docstore"
)

// Filter returns the documents matching the filter, keeping their order.
func Filter(docs docstore.Documents, filter docstore.Filter) docstore.Documents {
	matching := make(docstore.Documents, 0, len(docs))
	for _, doc := range docs {
		if Matches(doc, filter) {
			matching = append(matching, doc)
		}
	}

	return matching
}

// Matches reports whether the document satisfies all conditions of the filter.
func Matches(doc docstore.Document, filter docstore.Filter) bool {
	for _, condition := range filter.Conditions() {
		if !matchesCondition(doc, condition) {
			return false
		}
	}

	return true
}

func matchesCondition(doc docstore.Document, condition docstore.Condition) bool {
	value, exists := doc.Lookup(condition.Field())

	switch condition.Operator() {
	case docstore.OpExists:
		return exists

	case docstore.OpNotExists:
		return !exists

	case docstore.OpEq:
		return matchesEquality(value, exists, condition.Value())

	default:
		return matchesComparison(value, exists, condition.Operator(), condition.Value())
	}
}

// matchesEquality: a null target matches missing and null fields; an array field matches when
// the whole array or any element equals the target.
func matchesEquality(value any, exists bool, target any) bool {
	if target == nil {
		return !exists || value == nil
	}

	if !exists {
		return false
	}

	if equalValues(value, target) {
		return true
	}

	if elements, isArray := docstore.ToArray(value); isArray {
		for _, element := range elements {
			if equalValues(element, target) {
				return true
			}
		}
	}

	return false
}

func matchesComparison(value any, exists bool, op docstore.Operator, target any) bool {
	if !exists {
		return false
	}

	if elements, isArray := docstore.ToArray(value); isArray {
		for _, element := range elements {
			if compareSatisfies(element, op, target) {
				return true
			}
		}
		return false
	}

	return compareSatisfies(value, op, target)
}

func compareSatisfies(value any, op docstore.Operator, target any) bool {
	cmp, comparable := compareValues(value, target)
	if !comparable {
		return false
	}

	switch op {
	case docstore.OpGt:
		return cmp > 0
	case docstore.OpGte:
		return cmp >= 0
	case docstore.OpLt:
		return cmp < 0
	case docstore.OpLte:
		return cmp <= 0
	default:
		return false
	}
}
