package jsonexport

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/seriescatalog/catalog-reports/docstore"
	"github.com/seriescatalog/catalog-reports/docstore/internal/jsoncodec"
)

const (
	indentionStep = 2
	filePerm      = 0o644
)

var (
	ErrWritingFileFailed = errors.New("writing export file failed")
	ErrUnsupportedValue  = jsoncodec.ErrUnsupportedValue
)

var indented = jsoniter.Config{EscapeHTML: false, IndentionStep: indentionStep}.Froze()

// ToJSON serializes the documents as a JSON array and writes it to filePath unless filePath is empty.
// The serialized text is returned in both cases.
func ToJSON(docs docstore.Documents, filePath string) (string, error) {
	stream := indented.BorrowStream(nil)
	defer indented.ReturnStream(stream)

	if err := jsoncodec.Encode(stream, withStringIDs(docs), exportValue); err != nil {
		return "", err
	}

	jsonData := string(stream.Buffer())

	if filePath != "" {
		if err := os.WriteFile(filePath, []byte(jsonData), filePerm); err != nil {
			return "", errors.Join(ErrWritingFileFailed, err)
		}
	}

	return jsonData, nil
}

// WithoutID returns copies of the documents without their identifier field.
func WithoutID(docs docstore.Documents) docstore.Documents {
	stripped := make(docstore.Documents, len(docs))
	for i, doc := range docs {
		stripped[i] = doc.Without(docstore.IDField)
	}

	return stripped
}

// withStringIDs returns the documents as an array with every top-level identifier rendered as text.
func withStringIDs(docs docstore.Documents) []any {
	elements := make([]any, len(docs))

	for i, doc := range docs {
		id, ok := doc.ID()
		if !ok {
			elements[i] = doc
			continue
		}

		elements[i] = doc.Clone().Set(docstore.IDField, identifierString(id))
	}

	return elements
}

func identifierString(id any) string {
	switch v := id.(type) {
	case string:
		return v
	case primitive.ObjectID:
		return v.Hex()
	default:
		return fmt.Sprint(v)
	}
}

// exportValue is the fallback for values the JSON encoder has no representation for.
func exportValue(value any) (any, bool) {
	switch v := value.(type) {
	case primitive.ObjectID:
		return v.Hex(), true

	case primitive.DateTime:
		return v.Time().UTC().Format(time.RFC3339Nano), true

	case time.Time:
		return v.UTC().Format(time.RFC3339Nano), true

	case primitive.Decimal128:
		return v.String(), true

	case primitive.Binary:
		return base64.StdEncoding.EncodeToString(v.Data), true

	case fmt.Stringer:
		return v.String(), true

	default:
		return fmt.Sprint(v), true
	}
}
