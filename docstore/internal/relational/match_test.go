package relational_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seriescatalog/catalog-reports/docstore"
	"github.com/seriescatalog/catalog-reports/docstore/internal/relational"
)

func Test_Matches(t *testing.T) {
	doc := docstore.BuildDocument(
		docstore.F("titulo", "Sinergia"),
		docstore.F("temporadas", int32(6)),
		docstore.F("genero", []any{"Drama", "Comedia"}),
		docstore.F("finalizada", true),
		docstore.F("puntuacion", 8.4),
		docstore.F("nested", docstore.BuildDocument(docstore.F("n", int64(3)))),
		docstore.F("empty", nil),
	)

	tests := []struct {
		name      string
		condition docstore.Condition
		expected  bool
	}{
		{name: "eq_string", condition: docstore.Eq("titulo", "Sinergia"), expected: true},
		{name: "eq_string_other", condition: docstore.Eq("titulo", "Otra"), expected: false},
		{name: "eq_array_element", condition: docstore.Eq("genero", "Comedia"), expected: true},
		{name: "eq_array_missing_element", condition: docstore.Eq("genero", "Crimen"), expected: false},
		{name: "eq_bool", condition: docstore.Eq("finalizada", true), expected: true},
		{name: "eq_number_across_types", condition: docstore.Eq("temporadas", 6.0), expected: true},
		{name: "eq_null_matches_missing", condition: docstore.Eq("missing", nil), expected: true},
		{name: "eq_null_matches_null", condition: docstore.Eq("empty", nil), expected: true},
		{name: "eq_null_rejects_present", condition: docstore.Eq("titulo", nil), expected: false},
		{name: "gt_number", condition: docstore.Gt("temporadas", 5), expected: true},
		{name: "gt_number_equal", condition: docstore.Gt("temporadas", 6), expected: false},
		{name: "gte_number_equal", condition: docstore.Gte("temporadas", 6), expected: true},
		{name: "lt_float", condition: docstore.Lt("puntuacion", 9.0), expected: true},
		{name: "lte_float", condition: docstore.Lte("puntuacion", 8.4), expected: true},
		{name: "gt_missing", condition: docstore.Gt("missing", 1), expected: false},
		{name: "gt_type_mismatch", condition: docstore.Gt("titulo", 1), expected: false},
		{name: "gt_string", condition: docstore.Gt("titulo", "A"), expected: true},
		{name: "gt_nested_path", condition: docstore.Gt("nested.n", 2), expected: true},
		{name: "exists", condition: docstore.Exists("puntuacion"), expected: true},
		{name: "exists_null_value", condition: docstore.Exists("empty"), expected: true},
		{name: "exists_missing", condition: docstore.Exists("missing"), expected: false},
		{name: "not_exists", condition: docstore.NotExists("missing"), expected: true},
		{name: "not_exists_present", condition: docstore.NotExists("titulo"), expected: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			filter := docstore.BuildFilter().Matching(tc.condition).Finalize()
			assert.Equal(t, tc.expected, relational.Matches(doc, filter))
		})
	}
}

func Test_Matches_EmptyFilterMatchesEverything(t *testing.T) {
	assert.True(t, relational.Matches(docstore.Document{}, docstore.BuildFilter().MatchingAnyDocument()))
}

func Test_Filter_KeepsOrder(t *testing.T) {
	docs := docstore.Documents{
		docstore.BuildDocument(docstore.F("n", 1)),
		docstore.BuildDocument(docstore.F("n", 5)),
		docstore.BuildDocument(docstore.F("n", 3)),
		docstore.BuildDocument(docstore.F("n", 9)),
	}

	result := relational.Filter(docs, docstore.BuildFilter().Matching(docstore.Gt("n", 2)).Finalize())

	assert.Equal(t, docstore.Documents{docs[1], docs[2], docs[3]}, result)
}
