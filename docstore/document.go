package docstore

import (
	"strings"
)

/***** Field *****/

// Field is one key/value pair of a Document.
type Field struct {
	Key   string
	Value any
}

// F is a short factory for Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

/***** Document *****/

// Documents is an alias type for a slice of Document.
type Documents = []Document

// Document is an ordered set of fields. Nested documents are Document values, arrays are []any.
//
// Key order is preserved from construction through storage (where the engine allows) to export.
type Document []Field

// BuildDocument creates a Document from the given fields. Later fields replace earlier ones with the same key.
func BuildDocument(fields ...Field) Document {
	doc := make(Document, 0, len(fields))
	for _, field := range fields {
		doc = doc.Set(field.Key, field.Value)
	}

	return doc
}

// Get returns the top-level value stored under key.
func (d Document) Get(key string) (any, bool) {
	for _, field := range d {
		if field.Key == key {
			return field.Value, true
		}
	}

	return nil, false
}

// Lookup resolves a dotted path like "serie_info.puntuacion".
//
// When an intermediate value is an array, the remaining path is resolved against each element and
// the found values are returned as []any, the way document stores traverse arrays.
func (d Document) Lookup(path string) (any, bool) {
	return lookupPath(d, strings.Split(path, "."))
}

func lookupPath(doc Document, segments []string) (any, bool) {
	value, ok := doc.Get(segments[0])
	if !ok {
		return nil, false
	}

	if len(segments) == 1 {
		return value, true
	}

	if nested, isDoc := ToDocument(value); isDoc {
		return lookupPath(nested, segments[1:])
	}

	elements, isArray := ToArray(value)
	if !isArray {
		return nil, false
	}

	found := make([]any, 0, len(elements))
	for _, element := range elements {
		nested, isDoc := ToDocument(element)
		if !isDoc {
			continue
		}

		if v, exists := lookupPath(nested, segments[1:]); exists {
			found = append(found, v)
		}
	}

	if len(found) == 0 {
		return nil, false
	}

	return found, true
}

// Has reports whether the dotted path resolves to a value.
func (d Document) Has(path string) bool {
	_, ok := d.Lookup(path)
	return ok
}

// Set returns the document with key set to value, replacing in place or appending.
// Like append, it may reuse the receiver's backing array.
func (d Document) Set(key string, value any) Document {
	for i := range d {
		if d[i].Key == key {
			d[i].Value = value
			return d
		}
	}

	return append(d, F(key, value))
}

// Without returns a copy of the document without the given top-level keys.
func (d Document) Without(keys ...string) Document {
	result := make(Document, 0, len(d))

outer:
	for _, field := range d {
		for _, key := range keys {
			if field.Key == key {
				continue outer
			}
		}
		result = append(result, field)
	}

	return result
}

// Keys returns the top-level keys in order.
func (d Document) Keys() []string {
	keys := make([]string, len(d))
	for i, field := range d {
		keys[i] = field.Key
	}

	return keys
}

// ID returns the value of the IDField.
func (d Document) ID() (any, bool) {
	return d.Get(IDField)
}

// Clone returns a deep copy of the document. Nested documents and arrays are copied, scalars are shared.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}

	clone := make(Document, len(d))
	for i, field := range d {
		clone[i] = F(field.Key, CloneValue(field.Value))
	}

	return clone
}

// CloneValue deep-copies nested documents and arrays.
func CloneValue(value any) any {
	switch v := value.(type) {
	case Document:
		return v.Clone()

	case []any:
		clone := make([]any, len(v))
		for i, element := range v {
			clone[i] = CloneValue(element)
		}
		return clone

	default:
		if doc, ok := ToDocument(value); ok {
			return doc.Clone()
		}
		if elements, ok := ToArray(value); ok {
			return CloneValue(elements)
		}
		return value
	}
}

// CloneDocuments deep-copies a slice of documents.
func CloneDocuments(docs Documents) Documents {
	clones := make(Documents, len(docs))
	for i, doc := range docs {
		clones[i] = doc.Clone()
	}

	return clones
}
