package docstore

import (
	"math"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
)

// ToDocument converts the nested document representations the engines produce into a Document.
// Map keys have no order, so they are sorted.
func ToDocument(value any) (Document, bool) {
	switch v := value.(type) {
	case Document:
		return v, true

	case bson.D:
		doc := make(Document, len(v))
		for i, e := range v {
			doc[i] = F(e.Key, e.Value)
		}
		return doc, true

	case bson.M:
		return mapToDocument(v), true

	case map[string]any:
		return mapToDocument(v), true

	default:
		return nil, false
	}
}

func mapToDocument(m map[string]any) Document {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	doc := make(Document, len(keys))
	for i, k := range keys {
		doc[i] = F(k, m[k])
	}

	return doc
}

// ToArray converts the array representations the engines produce into []any.
func ToArray(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true

	case bson.A:
		return v, true

	case []string:
		return toAnySlice(v), true

	case []int:
		return toAnySlice(v), true

	case []int64:
		return toAnySlice(v), true

	case []float64:
		return toAnySlice(v), true

	case []Document:
		return toAnySlice(v), true

	default:
		return nil, false
	}
}

func toAnySlice[T any](values []T) []any {
	result := make([]any, len(values))
	for i, v := range values {
		result[i] = v
	}

	return result
}

// ToFloat converts any Go numeric type to float64.
func ToFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

// ToInt converts integer types and integral floats to int.
func ToInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		if v == math.Trunc(v) {
			return int(v), true
		}
		return 0, false
	default:
		if IsInteger(value) {
			f, _ := ToFloat(value)
			return int(f), true
		}
		return 0, false
	}
}

// IsNumber reports whether the value is of a Go numeric type.
func IsNumber(value any) bool {
	_, ok := ToFloat(value)
	return ok
}

// IsInteger reports whether the value is of a Go integer type.
func IsInteger(value any) bool {
	switch value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}
