package postgresengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/seriescatalog/catalog-reports/docstore"
)

func Test_BuildSelectQuery(t *testing.T) {
	id := primitive.NewObjectID()

	tests := []struct {
		name      string
		filter    docstore.Filter
		fragments []string
	}{
		{
			name:   "no_conditions",
			filter: docstore.BuildFilter().MatchingAnyDocument(),
			fragments: []string{
				`SELECT "doc_id", "doc"::text FROM "series"`,
				`ORDER BY "seq" ASC`,
			},
		},
		{
			name: "comparisons",
			filter: docstore.BuildFilter().
				Matching(docstore.Gt("temporadas", 5), docstore.Gte("puntuacion", 9.0)).
				Finalize(),
			fragments: []string{
				`jsonb_path_exists("doc"::jsonb, '$."temporadas" ? (@ > $v)'::jsonpath, '{"v":5}'::jsonb)`,
				`jsonb_path_exists("doc"::jsonb, '$."puntuacion" ? (@ >= $v)'::jsonpath, '{"v":9.0}'::jsonb)`,
			},
		},
		{
			name:   "equality_on_nested_path",
			filter: docstore.BuildFilter().Matching(docstore.Eq("serie_info.finalizada", true)).Finalize(),
			fragments: []string{
				`jsonb_path_exists("doc"::jsonb, '$."serie_info"."finalizada" ? (@ == $v)'::jsonpath, '{"v":true}'::jsonb)`,
			},
		},
		{
			name:   "string_values_are_escaped",
			filter: docstore.BuildFilter().Matching(docstore.Eq("titulo", "L'Ombre")).Finalize(),
			fragments: []string{
				`'{"v":"L''Ombre"}'::jsonb`,
			},
		},
		{
			name: "existence",
			filter: docstore.BuildFilter().
				Matching(docstore.Exists("puntuacion"), docstore.NotExists("año_estreno"), docstore.Lt("a", 1), docstore.Lte("b", 2)).
				Finalize(),
			fragments: []string{
				`jsonb_path_exists("doc"::jsonb, '$."puntuacion"'::jsonpath)`,
				`NOT jsonb_path_exists("doc"::jsonb, '$."año_estreno"'::jsonpath)`,
				`'$."a" ? (@ < $v)'::jsonpath`,
				`'$."b" ? (@ <= $v)'::jsonpath`,
			},
		},
		{
			name:   "equality_with_null",
			filter: docstore.BuildFilter().Matching(docstore.Eq("puntuacion", nil)).Finalize(),
			fragments: []string{
				`NOT jsonb_path_exists("doc"::jsonb, '$."puntuacion" ? (@ != null)'::jsonpath)`,
			},
		},
		{
			name:   "identifier_uses_column",
			filter: docstore.BuildFilter().Matching(docstore.Eq("_id", id)).Finalize(),
			fragments: []string{
				`"doc_id" = '` + id.Hex() + `'`,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sqlQuery, err := buildSelectQuery("series", tc.filter)

			require.NoError(t, err)
			for _, fragment := range tc.fragments {
				assert.Contains(t, sqlQuery, fragment)
			}
		})
	}
}

func Test_BuildSelectQuery_RejectsUnencodableValues(t *testing.T) {
	_, err := buildSelectQuery("series", docstore.BuildFilter().Matching(docstore.Eq("x", struct{}{})).Finalize())

	assert.ErrorIs(t, err, docstore.ErrBuildingQueryFailed)
}

func Test_BuildInsertQuery(t *testing.T) {
	sqlQuery, err := buildInsertQuery("detalles_produccion", []insertRow{
		{docID: "a1", doc: `{"_id":"a1","titulo":"Uno"}`},
		{docID: "b2", doc: `{"_id":"b2","titulo":"D'os"}`},
	})

	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `INSERT INTO "detalles_produccion" ("doc_id", "doc") VALUES`)
	assert.Contains(t, sqlQuery, `('a1', '{"_id":"a1","titulo":"Uno"}'::json)`)
	assert.Contains(t, sqlQuery, `('b2', '{"_id":"b2","titulo":"D''os"}'::json)`)
}

func Test_TableStatements_QuoteIdentifiers(t *testing.T) {
	assert.Equal(
		t,
		`CREATE TABLE IF NOT EXISTS "my""table" (seq BIGSERIAL PRIMARY KEY, doc_id TEXT NOT NULL, doc JSON NOT NULL)`,
		buildCreateTableQuery(`my"table`),
	)
	assert.Equal(t, `DROP TABLE IF EXISTS "series"`, buildDropTableQuery("series"))
}

func Test_JSONPath_EscapesSegments(t *testing.T) {
	assert.Equal(t, `$."a"."b"`, jsonPath("a.b"))
	assert.Equal(t, `$."say \"hi\""`, jsonPath(`say "hi"`))
	assert.Equal(t, `$."back\\slash"`, jsonPath(`back\slash`))
}

func Test_DocumentCodec_RoundTrip(t *testing.T) {
	id := primitive.NewObjectID()
	doc := docstore.BuildDocument(
		docstore.F("_id", id),
		docstore.F("titulo", "Ñandú"),
		docstore.F("temporadas", 3),
		docstore.F("puntuacion", 9.0),
		docstore.F("genero", []any{"Drama"}),
	)

	encoded, err := encodeDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"_id":{"$oid":"`+id.Hex()+`"},"titulo":"Ñandú","temporadas":3,"puntuacion":9.0,"genero":["Drama"]}`, encoded)

	decoded, err := decodeDocument(encoded)
	require.NoError(t, err)
	assert.Equal(t, docstore.Document{
		docstore.F("_id", id),
		docstore.F("titulo", "Ñandú"),
		docstore.F("temporadas", int64(3)),
		docstore.F("puntuacion", 9.0),
		docstore.F("genero", []any{"Drama"}),
	}, decoded)
}

func Test_DecodeDocument_KeepsInvalidObjectIDWrapper(t *testing.T) {
	decoded, err := decodeDocument(`{"x":{"$oid":"nothex"}}`)

	require.NoError(t, err)
	assert.Equal(t, docstore.Document{docstore.F("x", docstore.Document{docstore.F("$oid", "nothex")})}, decoded)
}

func Test_DecodeDocument_Malformed(t *testing.T) {
	_, err := decodeDocument(`{"x":`)

	assert.ErrorIs(t, err, docstore.ErrDecodingDocumentFailed)
}

func Test_FirstMatchStage(t *testing.T) {
	_, ok := firstMatchStage(nil)
	assert.False(t, ok)

	filter := docstore.BuildFilter().Matching(docstore.Eq("a", 1)).Finalize()
	match, ok := firstMatchStage(docstore.Pipeline{docstore.Match(filter), docstore.Unwind("a")})
	assert.True(t, ok)
	assert.Equal(t, filter, match.Filter)

	_, ok = firstMatchStage(docstore.Pipeline{docstore.Unwind("a"), docstore.Match(filter)})
	assert.False(t, ok)
}
