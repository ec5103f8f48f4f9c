package jsonexport_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/seriescatalog/catalog-reports/docstore"
	"github.com/seriescatalog/catalog-reports/docstore/jsonexport"
)

func Test_ToJSON_RendersIndentedArrayWithStringIDs(t *testing.T) {
	id, err := primitive.ObjectIDFromHex("65f1c2a9e4b0a1b2c3d4e5f6")
	require.NoError(t, err)

	docs := docstore.Documents{
		docstore.BuildDocument(
			docstore.F(docstore.IDField, id),
			docstore.F("titulo", "Fantasía: épica"),
			docstore.F("temporadas", 6),
			docstore.F("genero", []any{"Drama", "Acción"}),
			docstore.F("puntuacion", 9.0),
		),
	}

	jsonData, err := jsonexport.ToJSON(docs, "")

	require.NoError(t, err)
	expected := `[
  {
    "_id": "65f1c2a9e4b0a1b2c3d4e5f6",
    "titulo": "Fantasía: épica",
    "temporadas": 6,
    "genero": [
      "Drama",
      "Acción"
    ],
    "puntuacion": 9.0
  }
]`
	assert.Equal(t, expected, jsonData)
}

func Test_ToJSON_EmptyResult(t *testing.T) {
	jsonData, err := jsonexport.ToJSON(docstore.Documents{}, "")

	require.NoError(t, err)
	assert.Equal(t, "[]", jsonData)
}

func Test_ToJSON_DoesNotModifyInput(t *testing.T) {
	id := primitive.NewObjectID()
	doc := docstore.BuildDocument(docstore.F(docstore.IDField, id), docstore.F("titulo", "A"))

	_, err := jsonexport.ToJSON(docstore.Documents{doc}, "")

	require.NoError(t, err)
	assert.Equal(t, id, doc[0].Value)
}

func Test_ToJSON_IsIdempotentForStringIDs(t *testing.T) {
	docs := docstore.Documents{
		docstore.BuildDocument(docstore.F(docstore.IDField, primitive.NewObjectID()), docstore.F("titulo", "A")),
		docstore.BuildDocument(docstore.F("titulo", "sin id")),
	}

	first, err := jsonexport.ToJSON(docs, "")
	require.NoError(t, err)

	var reparsed []map[string]any
	require.NoError(t, jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal([]byte(first), &reparsed))

	roundTripped := make(docstore.Documents, 0, len(docs))
	for _, doc := range docs {
		roundTripped = append(roundTripped, doc.Clone())
	}
	roundTripped[0] = roundTripped[0].Set(docstore.IDField, reparsed[0][docstore.IDField])

	second, err := jsonexport.ToJSON(roundTripped, "")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func Test_ToJSON_RoundTripKeepsValuesExceptIdentifiers(t *testing.T) {
	id := primitive.NewObjectID()
	original := docstore.BuildDocument(
		docstore.F(docstore.IDField, id),
		docstore.F("titulo", "Ñu"),
		docstore.F("finalizada", true),
		docstore.F("puntuacion", 7.5),
		docstore.F("serie_info", docstore.BuildDocument(docstore.F("temporadas", 2))),
	)

	jsonData, err := jsonexport.ToJSON(docstore.Documents{original}, "")
	require.NoError(t, err)

	var parsed []map[string]any
	require.NoError(t, jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal([]byte(jsonData), &parsed))
	require.Len(t, parsed, 1)

	expected := map[string]any{
		"_id":        id.Hex(),
		"titulo":     "Ñu",
		"finalizada": true,
		"puntuacion": 7.5,
		"serie_info": map[string]any{"temporadas": float64(2)},
	}
	if diff := cmp.Diff(expected, parsed[0]); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func Test_ToJSON_StringifiesStoreSpecificValues(t *testing.T) {
	nested := primitive.NewObjectID()
	decimal, err := primitive.ParseDecimal128("1.50")
	require.NoError(t, err)

	doc := docstore.BuildDocument(
		docstore.F("ref", nested),
		docstore.F("fecha", primitive.NewDateTimeFromTime(time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC))),
		docstore.F("importe", decimal),
		docstore.F("datos", primitive.Binary{Data: []byte("hola")}),
	)

	jsonData, err := jsonexport.ToJSON(docstore.Documents{doc}, "")

	require.NoError(t, err)
	assert.Contains(t, jsonData, `"ref": "`+nested.Hex()+`"`)
	assert.Contains(t, jsonData, `"fecha": "2023-05-01T10:00:00Z"`)
	assert.Contains(t, jsonData, `"importe": "1.50"`)
	assert.Contains(t, jsonData, `"datos": "aG9sYQ=="`)
}

func Test_ToJSON_RejectsNaN(t *testing.T) {
	doc := docstore.BuildDocument(docstore.F("coste_total", math.NaN()))

	_, err := jsonexport.ToJSON(docstore.Documents{doc}, "")

	assert.ErrorIs(t, err, jsonexport.ErrUnsupportedValue)
}

func Test_ToJSON_WritesAndOverwritesFile(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "series_netflix.json")
	require.NoError(t, os.WriteFile(filePath, []byte("old content that is longer than the new one"), 0o644))

	jsonData, err := jsonexport.ToJSON(docstore.Documents{docstore.BuildDocument(docstore.F("titulo", "Él"))}, filePath)
	require.NoError(t, err)

	written, err := os.ReadFile(filePath)
	require.NoError(t, err)
	assert.Equal(t, jsonData, string(written))
	assert.Contains(t, string(written), "Él")
}

func Test_ToJSON_ReportsWriteFailure(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "missing", "out.json")

	_, err := jsonexport.ToJSON(docstore.Documents{}, filePath)

	assert.ErrorIs(t, err, jsonexport.ErrWritingFileFailed)
}

func Test_WithoutID(t *testing.T) {
	docs := docstore.Documents{
		docstore.BuildDocument(docstore.F(docstore.IDField, 1), docstore.F("titulo", "A"), docstore.F("coste_total", 24.0)),
	}

	stripped := jsonexport.WithoutID(docs)

	assert.Equal(t, []string{"titulo", "coste_total"}, stripped[0].Keys())
	assert.Equal(t, []string{docstore.IDField, "titulo", "coste_total"}, docs[0].Keys())
}
