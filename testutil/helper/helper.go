package helper

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seriescatalog/catalog-reports/docstore"
)

// GivenUniqueCollectionName returns a collection name that does not clash between test runs
// sharing one database.
func GivenUniqueCollectionName(t testing.TB, prefix string) string {
	id, err := uuid.NewV7()
	require.NoError(t, err, "error in arranging test data")

	return prefix + "_" + strings.ReplaceAll(id.String(), "-", "")
}

// FixtureSeries builds a series document with the wire keys of the catalog.
// A negative rating leaves the puntuacion field out.
func FixtureSeries(title, platform string, seasons int, genres []string, finished bool, year int, rating float64) docstore.Document {
	genreValues := make([]any, len(genres))
	for i, genre := range genres {
		genreValues[i] = genre
	}

	doc := docstore.BuildDocument(
		docstore.F("titulo", title),
		docstore.F("plataforma", platform),
		docstore.F("temporadas", seasons),
		docstore.F("genero", genreValues),
		docstore.F("finalizada", finished),
		docstore.F("año_estreno", year),
	)

	if rating >= 0 {
		doc = doc.Set("puntuacion", rating)
	}

	return doc
}

// FixtureProductionDetail builds a production detail document with the wire keys of the catalog.
func FixtureProductionDetail(title, country string, budget float64, cast ...string) docstore.Document {
	castValues := make([]any, len(cast))
	for i, name := range cast {
		castValues[i] = name
	}

	return docstore.BuildDocument(
		docstore.F("titulo", title),
		docstore.F("pais_origen", country),
		docstore.F("reparto_principal", castValues),
		docstore.F("presupuesto_por_episodio", budget),
	)
}

// GivenDocumentsWereInserted inserts the documents and asserts they were all stored.
func GivenDocumentsWereInserted(t testing.TB, ctx context.Context, store docstore.Store, collection string, docs ...docstore.Document) {
	inserted, err := store.InsertMany(ctx, collection, docs)
	require.NoError(t, err, "error in arranging test data")
	assert.Equal(t, len(docs), inserted, "error in arranging test data")
}

// CleanUp drops the collections, reporting but not failing on errors.
func CleanUp(t testing.TB, ctx context.Context, store docstore.Store, collections ...string) {
	for _, collection := range collections {
		if err := store.DropCollection(ctx, collection); err != nil {
			t.Logf("cleanup of collection %s failed: %v", collection, err)
		}
	}
}

// Titles extracts the titulo values of the documents in order.
func Titles(docs docstore.Documents) []string {
	titles := make([]string, 0, len(docs))
	for _, doc := range docs {
		if title, ok := doc.Get("titulo"); ok {
			if s, isString := title.(string); isString {
				titles = append(titles, s)
			}
		}
	}

	return titles
}
