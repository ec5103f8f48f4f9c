package docstore

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IDField is the name of the identifier field every stored document carries.
const IDField = "_id"

var (
	ErrConnectionFailed         = errors.New("connecting to the document store failed")
	ErrNilDatabaseConnection    = errors.New("database connection is nil")
	ErrEmptyCollectionName      = errors.New("empty collection name supplied")
	ErrInvalidFilter            = errors.New("invalid filter")
	ErrInvalidPipeline          = errors.New("invalid aggregation pipeline")
	ErrEvaluatingPipelineFailed = errors.New("evaluating aggregation pipeline failed")
	ErrBuildingQueryFailed      = errors.New("building query failed")
	ErrQueryingDocumentsFailed  = errors.New("querying documents failed")
	ErrInsertingDocumentsFailed = errors.New("inserting documents failed")
	ErrDroppingCollectionFailed = errors.New("dropping collection failed")
	ErrScanningDBRowFailed      = errors.New("scanning db row failed")
	ErrDecodingDocumentFailed   = errors.New("decoding document failed")
	ErrEncodingDocumentFailed   = errors.New("encoding document failed")
)

// NewID returns a fresh store-native identifier.
func NewID() primitive.ObjectID {
	return primitive.NewObjectID()
}

// EnsureID returns the document unchanged if it carries an IDField, otherwise a copy with a new
// identifier prepended.
func EnsureID(doc Document) Document {
	if _, ok := doc.Get(IDField); ok {
		return doc
	}

	withID := make(Document, 0, len(doc)+1)
	withID = append(withID, F(IDField, NewID()))

	return append(withID, doc...)
}

// ValidateCollectionName returns ErrEmptyCollectionName for an empty name.
func ValidateCollectionName(name string) error {
	if name == "" {
		return ErrEmptyCollectionName
	}

	return nil
}
