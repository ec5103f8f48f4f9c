package relational

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/seriescatalog/catalog-reports/docstore"
)

// equalValues compares two values with document store semantics: numbers compare by value across
// Go types, nested documents compare field by field in order, arrays element by element.
func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if fa, ok := docstore.ToFloat(a); ok {
		fb, isNumber := docstore.ToFloat(b)
		return isNumber && fa == fb
	}

	if da, ok := docstore.ToDocument(a); ok {
		db, isDoc := docstore.ToDocument(b)
		if !isDoc || len(da) != len(db) {
			return false
		}
		for i := range da {
			if da[i].Key != db[i].Key || !equalValues(da[i].Value, db[i].Value) {
				return false
			}
		}
		return true
	}

	if aa, ok := docstore.ToArray(a); ok {
		ab, isArray := docstore.ToArray(b)
		if !isArray || len(aa) != len(ab) {
			return false
		}
		for i := range aa {
			if !equalValues(aa[i], ab[i]) {
				return false
			}
		}
		return true
	}

	return reflect.DeepEqual(a, b)
}

// compareValues orders two values of the same type class (numbers or strings).
// The second result is false when the values are not comparable.
func compareValues(a, b any) (int, bool) {
	if fa, ok := docstore.ToFloat(a); ok {
		fb, isNumber := docstore.ToFloat(b)
		if !isNumber {
			return 0, false
		}
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		default:
			return 0, true
		}
	}

	if sa, ok := a.(string); ok {
		sb, isString := b.(string)
		if !isString {
			return 0, false
		}
		return strings.Compare(sa, sb), true
	}

	return 0, false
}

// hashKey builds a canonical key so that values equal under equalValues share a key.
func hashKey(value any) string {
	if value == nil {
		return "null"
	}

	if f, ok := docstore.ToFloat(value); ok {
		return "n:" + strconv.FormatFloat(f, 'g', -1, 64)
	}

	switch v := value.(type) {
	case string:
		return "s:" + v

	case bool:
		return "b:" + strconv.FormatBool(v)

	case primitive.ObjectID:
		return "o:" + v.Hex()
	}

	if doc, ok := docstore.ToDocument(value); ok {
		parts := make([]string, len(doc))
		for i, field := range doc {
			parts[i] = strconv.Quote(field.Key) + "=" + hashKey(field.Value)
		}
		return "d:{" + strings.Join(parts, ",") + "}"
	}

	if elements, ok := docstore.ToArray(value); ok {
		parts := make([]string, len(elements))
		for i, element := range elements {
			parts[i] = hashKey(element)
		}
		return "a:[" + strings.Join(parts, ",") + "]"
	}

	return fmt.Sprintf("x:%T:%v", value, value)
}
