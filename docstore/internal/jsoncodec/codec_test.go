package jsoncodec_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/seriescatalog/catalog-reports/docstore"
	"github.com/seriescatalog/catalog-reports/docstore/internal/jsoncodec"
)

func Test_Marshal_KeepsOrderAndNumberKinds(t *testing.T) {
	doc := docstore.BuildDocument(
		docstore.F("titulo", "Señales <del> Mañana"),
		docstore.F("temporadas", 3),
		docstore.F("puntuacion", 9.0),
		docstore.F("presupuesto", 2.35),
		docstore.F("genero", []any{"Drama", "Comedia"}),
		docstore.F("finalizada", false),
		docstore.F("nada", nil),
		docstore.F("vacio", docstore.Document{}),
		docstore.F("lista_vacia", []any{}),
		docstore.F("bson", bson.D{{Key: "z", Value: int32(1)}, {Key: "a", Value: bson.A{int64(2)}}}),
	)

	raw, err := jsoncodec.Marshal(doc, nil)

	require.NoError(t, err)
	assert.Equal(
		t,
		`{"titulo":"Señales <del> Mañana","temporadas":3,"puntuacion":9.0,"presupuesto":2.35,`+
			`"genero":["Drama","Comedia"],"finalizada":false,"nada":null,"vacio":{},"lista_vacia":[],`+
			`"bson":{"z":1,"a":[2]}}`,
		string(raw),
	)
}

func Test_Marshal_RejectsNaNAndUnknownTypes(t *testing.T) {
	_, err := jsoncodec.Marshal(docstore.BuildDocument(docstore.F("x", math.NaN())), nil)
	assert.ErrorIs(t, err, jsoncodec.ErrUnsupportedValue)

	_, err = jsoncodec.Marshal(docstore.BuildDocument(docstore.F("x", struct{}{})), nil)
	assert.ErrorIs(t, err, jsoncodec.ErrUnsupportedValue)
}

func Test_Marshal_UsesConverter(t *testing.T) {
	type custom struct{ name string }

	raw, err := jsoncodec.Marshal(
		docstore.BuildDocument(docstore.F("x", custom{name: "n"})),
		func(value any) (any, bool) {
			if c, ok := value.(custom); ok {
				return docstore.BuildDocument(docstore.F("$custom", c.name)), true
			}
			return nil, false
		},
	)

	require.NoError(t, err)
	assert.Equal(t, `{"x":{"$custom":"n"}}`, string(raw))
}

func Test_UnmarshalDocument_RoundTrip(t *testing.T) {
	doc := docstore.BuildDocument(
		docstore.F("_id", "abc"),
		docstore.F("año_estreno", int64(2021)),
		docstore.F("puntuacion", 8.0),
		docstore.F("reparto", []any{"Ana", "Luis"}),
		docstore.F("info", docstore.BuildDocument(docstore.F("b", true), docstore.F("a", nil))),
		docstore.F("grande", 1.5e300),
	)

	raw, err := jsoncodec.Marshal(doc, nil)
	require.NoError(t, err)

	decoded, err := jsoncodec.UnmarshalDocument(raw, nil)

	require.NoError(t, err)
	if diff := cmp.Diff(doc, decoded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func Test_UnmarshalDocument_ObjectConverter(t *testing.T) {
	decoded, err := jsoncodec.UnmarshalDocument(
		[]byte(`{"_id":{"$oid":"x"},"n":{"m":1}}`),
		func(doc docstore.Document) (any, bool) {
			if value, ok := doc.Get("$oid"); ok && len(doc) == 1 {
				return "oid:" + value.(string), true
			}
			return nil, false
		},
	)

	require.NoError(t, err)
	assert.Equal(t, docstore.Document{
		docstore.F("_id", "oid:x"),
		docstore.F("n", docstore.Document{docstore.F("m", int64(1))}),
	}, decoded)
}

func Test_UnmarshalDocument_Malformed(t *testing.T) {
	for _, input := range []string{``, `[1]`, `{"a":`, `{"a":tru}`} {
		_, err := jsoncodec.UnmarshalDocument([]byte(input), nil)
		assert.ErrorIs(t, err, jsoncodec.ErrMalformedJSON, "input %q", input)
	}
}
