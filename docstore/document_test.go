package docstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/seriescatalog/catalog-reports/docstore"
)

func Test_Document_Lookup(t *testing.T) {
	doc := docstore.BuildDocument(
		docstore.F("titulo", "X"),
		docstore.F("serie_info", docstore.BuildDocument(docstore.F("puntuacion", 9.1))),
		docstore.F("raw", bson.D{{Key: "k", Value: "v"}}),
		docstore.F("detalles", []any{
			docstore.BuildDocument(docstore.F("pais", "España")),
			docstore.BuildDocument(docstore.F("otro", 1)),
			docstore.BuildDocument(docstore.F("pais", "EE.UU.")),
		}),
	)

	value, ok := doc.Lookup("serie_info.puntuacion")
	assert.True(t, ok)
	assert.Equal(t, 9.1, value)

	value, ok = doc.Lookup("raw.k")
	assert.True(t, ok)
	assert.Equal(t, "v", value)

	value, ok = doc.Lookup("detalles.pais")
	assert.True(t, ok)
	assert.Equal(t, []any{"España", "EE.UU."}, value)

	_, ok = doc.Lookup("serie_info.missing")
	assert.False(t, ok)

	_, ok = doc.Lookup("titulo.deeper")
	assert.False(t, ok)
}

func Test_Document_SetWithoutAndKeys(t *testing.T) {
	doc := docstore.BuildDocument(docstore.F("a", 1), docstore.F("b", 2), docstore.F("a", 3))

	assert.Equal(t, []string{"a", "b"}, doc.Keys())
	a, _ := doc.Get("a")
	assert.Equal(t, 3, a)

	doc = doc.Set("c", 4)
	assert.Equal(t, []string{"a", "b", "c"}, doc.Keys())
	assert.Equal(t, []string{"b"}, doc.Without("a", "c").Keys())
	assert.Equal(t, []string{"a", "b", "c"}, doc.Keys())
}

func Test_Document_CloneIsDeep(t *testing.T) {
	nested := docstore.BuildDocument(docstore.F("n", 1))
	doc := docstore.BuildDocument(docstore.F("nested", nested), docstore.F("list", []any{"x"}))

	clone := doc.Clone()
	clonedNested, _ := clone.Get("nested")
	clonedNested.(docstore.Document)[0].Value = 2
	clonedList, _ := clone.Get("list")
	clonedList.([]any)[0] = "y"

	original, _ := doc.Lookup("nested.n")
	assert.Equal(t, 1, original)
	list, _ := doc.Get("list")
	assert.Equal(t, []any{"x"}, list)
}

func Test_EnsureID(t *testing.T) {
	doc := docstore.BuildDocument(docstore.F("titulo", "X"))

	withID := docstore.EnsureID(doc)
	require.Equal(t, []string{"_id", "titulo"}, withID.Keys())
	id, _ := withID.ID()
	assert.IsType(t, primitive.ObjectID{}, id)

	again := docstore.EnsureID(withID)
	assert.Equal(t, withID, again)
}

func Test_NumericConversions(t *testing.T) {
	for _, v := range []any{int(5), int32(5), int64(5), 5.0, uint8(5)} {
		i, ok := docstore.ToInt(v)
		assert.True(t, ok, "%T", v)
		assert.Equal(t, 5, i)

		f, ok := docstore.ToFloat(v)
		assert.True(t, ok)
		assert.Equal(t, 5.0, f)
	}

	_, ok := docstore.ToInt(5.5)
	assert.False(t, ok)
	_, ok = docstore.ToFloat("5")
	assert.False(t, ok)
	assert.True(t, docstore.IsInteger(int32(1)))
	assert.False(t, docstore.IsInteger(1.0))
}

func Test_ToDocument_FromMapSortsKeys(t *testing.T) {
	doc, ok := docstore.ToDocument(bson.M{"b": 1, "a": 2})

	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, doc.Keys())
}

func Test_Pipeline_Validate(t *testing.T) {
	valid := docstore.Pipeline{
		docstore.Match(docstore.BuildFilter().MatchingAnyDocument()),
		docstore.Lookup("a", "b", "c", "d"),
		docstore.Unwind("d"),
		docstore.GroupAll(docstore.Avg("avg", "n")),
		docstore.Project(docstore.Computed("x", docstore.Multiply(docstore.Ref("n"), docstore.Lit(2)))).WithoutID(),
	}
	assert.NoError(t, valid.Validate())

	invalid := []docstore.Pipeline{
		{nil},
		{docstore.Unwind("")},
		{docstore.Lookup("a", "", "c", "d")},
		{docstore.GroupAll(docstore.Avg("", "n"))},
		{docstore.GroupAll(docstore.Avg("_id", "n"))},
		{docstore.Project(docstore.Include(""))},
		{docstore.Project(docstore.Computed("x", docstore.Ref("")))},
		{docstore.Project(docstore.Computed("x", docstore.Multiply(docstore.Ref("a"), nil)))},
	}
	for _, p := range invalid {
		assert.ErrorIs(t, p.Validate(), docstore.ErrInvalidPipeline)
	}
}
