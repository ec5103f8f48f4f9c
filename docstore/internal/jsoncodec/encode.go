package jsoncodec

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"github.com/seriescatalog/catalog-reports/docstore"
)

var ErrUnsupportedValue = errors.New("value has no JSON representation")

// Converter maps a value the encoder does not know into one it does.
// It reports false when it cannot handle the value either.
type Converter func(value any) (any, bool)

var compact = jsoniter.Config{EscapeHTML: false}.Froze()

// maxExactFloat is the largest magnitude below which integral floats are printed in fixed notation.
const maxExactFloat = 1e16

// Encode writes the value to the stream.
func Encode(stream *jsoniter.Stream, value any, convert Converter) error {
	if err := writeValue(stream, value, convert); err != nil {
		return err
	}

	return stream.Error
}

// Marshal encodes the value into a compact JSON byte slice.
func Marshal(value any, convert Converter) ([]byte, error) {
	stream := compact.BorrowStream(nil)
	defer compact.ReturnStream(stream)

	if err := Encode(stream, value, convert); err != nil {
		return nil, err
	}

	return append([]byte(nil), stream.Buffer()...), nil
}

func writeValue(stream *jsoniter.Stream, value any, convert Converter) error {
	switch v := value.(type) {
	case nil:
		stream.WriteNil()

	case docstore.Document:
		return writeDocument(stream, v, convert)

	case []any:
		return writeArray(stream, v, convert)

	case string:
		stream.WriteString(v)

	case bool:
		stream.WriteBool(v)

	case int:
		stream.WriteInt(v)
	case int8:
		stream.WriteInt8(v)
	case int16:
		stream.WriteInt16(v)
	case int32:
		stream.WriteInt32(v)
	case int64:
		stream.WriteInt64(v)
	case uint:
		stream.WriteUint(v)
	case uint8:
		stream.WriteUint8(v)
	case uint16:
		stream.WriteUint16(v)
	case uint32:
		stream.WriteUint32(v)
	case uint64:
		stream.WriteUint64(v)

	case float32:
		return writeFloat(stream, float64(v))
	case float64:
		return writeFloat(stream, v)

	default:
		if doc, ok := docstore.ToDocument(value); ok {
			return writeDocument(stream, doc, convert)
		}

		if elements, ok := docstore.ToArray(value); ok {
			return writeArray(stream, elements, convert)
		}

		if convert != nil {
			if replacement, ok := convert(value); ok {
				return writeValue(stream, replacement, nil)
			}
		}

		return errors.Join(ErrUnsupportedValue, fmt.Errorf("type %T", value))
	}

	return nil
}

func writeDocument(stream *jsoniter.Stream, doc docstore.Document, convert Converter) error {
	if len(doc) == 0 {
		stream.WriteEmptyObject()
		return nil
	}

	stream.WriteObjectStart()
	for i, field := range doc {
		if i > 0 {
			stream.WriteMore()
		}

		stream.WriteObjectField(field.Key)
		if err := writeValue(stream, field.Value, convert); err != nil {
			return err
		}
	}
	stream.WriteObjectEnd()

	return nil
}

func writeArray(stream *jsoniter.Stream, elements []any, convert Converter) error {
	if len(elements) == 0 {
		stream.WriteEmptyArray()
		return nil
	}

	stream.WriteArrayStart()
	for i, element := range elements {
		if i > 0 {
			stream.WriteMore()
		}

		if err := writeValue(stream, element, convert); err != nil {
			return err
		}
	}
	stream.WriteArrayEnd()

	return nil
}

func writeFloat(stream *jsoniter.Stream, f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return errors.Join(ErrUnsupportedValue, fmt.Errorf("float %v", f))
	}

	if f == math.Trunc(f) && math.Abs(f) < maxExactFloat {
		stream.WriteRaw(strconv.FormatFloat(f, 'f', 1, 64))
		return nil
	}

	stream.WriteFloat64(f)

	return nil
}
