package postgresengine

import (
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/seriescatalog/catalog-reports/docstore"
	"github.com/seriescatalog/catalog-reports/docstore/internal/jsoncodec"
)

// extendedObjectID wraps ObjectIDs in stored JSON, following MongoDB extended JSON.
const extendedObjectID = "$oid"

// encodeDocument renders the document as JSON for the doc column.
func encodeDocument(doc docstore.Document) (string, error) {
	raw, err := jsoncodec.Marshal(doc, toStorableValue)
	if err != nil {
		return "", errors.Join(docstore.ErrEncodingDocumentFailed, err)
	}

	return string(raw), nil
}

// decodeDocument parses the doc column back into a Document.
func decodeDocument(raw string) (docstore.Document, error) {
	doc, err := jsoncodec.UnmarshalDocument([]byte(raw), fromStoredObject)
	if err != nil {
		return nil, errors.Join(docstore.ErrDecodingDocumentFailed, err)
	}

	return doc, nil
}

func toStorableValue(value any) (any, bool) {
	switch v := value.(type) {
	case primitive.ObjectID:
		return docstore.BuildDocument(docstore.F(extendedObjectID, v.Hex())), true

	case primitive.DateTime:
		return v.Time().UTC().Format(time.RFC3339Nano), true

	case time.Time:
		return v.UTC().Format(time.RFC3339Nano), true

	default:
		return nil, false
	}
}

func fromStoredObject(doc docstore.Document) (any, bool) {
	if len(doc) != 1 || doc[0].Key != extendedObjectID {
		return nil, false
	}

	hex, ok := doc[0].Value.(string)
	if !ok {
		return nil, false
	}

	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil, false
	}

	return id, true
}

// identifierText renders an identifier value for the doc_id column.
func identifierText(value any) (string, bool) {
	switch v := value.(type) {
	case primitive.ObjectID:
		return v.Hex(), true

	case string:
		return v, true

	case nil:
		return "", false

	default:
		if docstore.IsNumber(v) {
			return fmt.Sprint(v), true
		}
		return "", false
	}
}
