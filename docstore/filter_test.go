package docstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seriescatalog/catalog-reports/docstore"
)

func Test_FilterBuilder_ValidCombinations(t *testing.T) {
	tests := []struct {
		name     string
		build    func() docstore.Filter
		validate func(t *testing.T, filter docstore.Filter)
	}{
		{
			name: "matching_any_document_creates_empty_filter",
			build: func() docstore.Filter {
				return docstore.BuildFilter().MatchingAnyDocument()
			},
			validate: func(t *testing.T, f docstore.Filter) {
				assert.True(t, f.IsEmpty())
				assert.Empty(t, f.Conditions())
			},
		},
		{
			name: "single_condition",
			build: func() docstore.Filter {
				return docstore.BuildFilter().Matching(docstore.Eq("plataforma", "Netflix")).Finalize()
			},
			validate: func(t *testing.T, f docstore.Filter) {
				assert.Len(t, f.Conditions(), 1)
				assert.Equal(t, "plataforma", f.Conditions()[0].Field())
				assert.Equal(t, docstore.OpEq, f.Conditions()[0].Operator())
				assert.Equal(t, "Netflix", f.Conditions()[0].Value())
			},
		},
		{
			name: "conditions_keep_their_order",
			build: func() docstore.Filter {
				return docstore.BuildFilter().
					Matching(docstore.Gt("temporadas", 5)).
					And(docstore.Gt("puntuacion", 8.0), docstore.Exists("titulo")).
					Finalize()
			},
			validate: func(t *testing.T, f docstore.Filter) {
				assert.Len(t, f.Conditions(), 3)
				assert.Equal(t, "temporadas", f.Conditions()[0].Field())
				assert.Equal(t, "puntuacion", f.Conditions()[1].Field())
				assert.Equal(t, docstore.OpExists, f.Conditions()[2].Operator())
				assert.Nil(t, f.Conditions()[2].Value())
			},
		},
		{
			name: "same_field_with_different_operators_is_kept",
			build: func() docstore.Filter {
				return docstore.BuildFilter().
					Matching(docstore.Exists("puntuacion"), docstore.Gt("puntuacion", 8)).
					Finalize()
			},
			validate: func(t *testing.T, f docstore.Filter) {
				assert.Len(t, f.Conditions(), 2)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.validate(t, tc.build())
		})
	}
}

func Test_FilterBuilder_Sanitizing(t *testing.T) {
	t.Run("removes_empty_fields", func(t *testing.T) {
		f := docstore.BuildFilter().Matching(docstore.Eq("", "x"), docstore.Eq("a", 1)).Finalize()
		assert.Len(t, f.Conditions(), 1)
		assert.Equal(t, "a", f.Conditions()[0].Field())
	})

	t.Run("removes_comparisons_without_value", func(t *testing.T) {
		f := docstore.BuildFilter().Matching(docstore.Gt("a", nil), docstore.Eq("b", nil)).Finalize()
		assert.Len(t, f.Conditions(), 1)
		assert.Equal(t, "b", f.Conditions()[0].Field())
	})

	t.Run("removes_duplicates_across_calls", func(t *testing.T) {
		f := docstore.BuildFilter().
			Matching(docstore.Eq("genero", []any{"Drama"})).
			And(docstore.Eq("genero", []any{"Drama"}), docstore.Gt("n", 1), docstore.Gt("n", 1)).
			Finalize()
		assert.Len(t, f.Conditions(), 2)
	})
}

func Test_FilterBuilder_IsImmutable(t *testing.T) {
	base := docstore.BuildFilter().Matching(docstore.Eq("a", 1))

	first := base.And(docstore.Eq("b", 2)).Finalize()
	second := base.And(docstore.Eq("c", 3)).Finalize()

	assert.Equal(t, "b", first.Conditions()[1].Field())
	assert.Equal(t, "c", second.Conditions()[1].Field())
}
