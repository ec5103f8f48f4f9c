package jsoncodec

import (
	"errors"
	"io"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/seriescatalog/catalog-reports/docstore"
)

var ErrMalformedJSON = errors.New("malformed JSON")

// ObjectConverter may replace a decoded object, e.g. an extended JSON wrapper, by a native value.
type ObjectConverter func(doc docstore.Document) (any, bool)

// UnmarshalDocument parses a JSON object into a Document.
func UnmarshalDocument(data []byte, convert ObjectConverter) (docstore.Document, error) {
	iter := jsoniter.ParseBytes(compact, data)

	if iter.WhatIsNext() != jsoniter.ObjectValue {
		return nil, errors.Join(ErrMalformedJSON, errors.New("top-level value is not an object"))
	}

	value := readValue(iter, convert)
	if iter.Error != nil && !errors.Is(iter.Error, io.EOF) {
		return nil, errors.Join(ErrMalformedJSON, iter.Error)
	}

	doc, ok := value.(docstore.Document)
	if !ok {
		return nil, errors.Join(ErrMalformedJSON, errors.New("top-level object was converted"))
	}

	return doc, nil
}

func readValue(iter *jsoniter.Iterator, convert ObjectConverter) any {
	switch iter.WhatIsNext() {
	case jsoniter.ObjectValue:
		doc := make(docstore.Document, 0)
		iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
			doc = append(doc, docstore.F(key, readValue(it, convert)))
			return it.Error == nil
		})

		if convert != nil {
			if replacement, ok := convert(doc); ok {
				return replacement
			}
		}

		return doc

	case jsoniter.ArrayValue:
		elements := make([]any, 0)
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			elements = append(elements, readValue(it, convert))
			return it.Error == nil
		})

		return elements

	case jsoniter.StringValue:
		return iter.ReadString()

	case jsoniter.NumberValue:
		return parseNumber(iter)

	case jsoniter.BoolValue:
		return iter.ReadBool()

	case jsoniter.NilValue:
		iter.ReadNil()
		return nil

	default:
		iter.ReportError("readValue", "unexpected token")
		return nil
	}
}

func parseNumber(iter *jsoniter.Iterator) any {
	text := string(iter.ReadNumber())

	if !strings.ContainsAny(text, ".eE") {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return i
		}
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		iter.ReportError("parseNumber", err.Error())
		return nil
	}

	return f
}
