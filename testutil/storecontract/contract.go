package storecontract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seriescatalog/catalog-reports/docstore"
	"github.com/seriescatalog/catalog-reports/testutil/helper"
)

// StoreFactory creates the store under test.
type StoreFactory func(t *testing.T) docstore.Store

// Run executes the contract suite against stores created by newStore.
// Each subtest works on its own uniquely named collections and drops them afterward.
func Run(t *testing.T, newStore StoreFactory) {
	t.Run("insert_assigns_identifiers", func(t *testing.T) {
		ctx, store, series, _ := arrange(t, newStore)

		inserted, err := store.InsertMany(ctx, series, docstore.Documents{
			helper.FixtureSeries("Sin ID", "HBO", 2, []string{"Drama"}, true, 2010, 7.5),
		})
		require.NoError(t, err)
		assert.Equal(t, 1, inserted)

		found, err := store.Find(ctx, series, docstore.BuildFilter().MatchingAnyDocument())
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, docstore.IDField, found[0][0].Key)
		assert.Equal(t, "Sin ID", must(found[0].Get("titulo")))
	})

	t.Run("insert_keeps_field_order", func(t *testing.T) {
		ctx, store, series, _ := arrange(t, newStore)

		helper.GivenDocumentsWereInserted(t, ctx, store, series,
			helper.FixtureSeries("Orden", "Netflix", 3, []string{"Comedia", "Drama"}, false, 2021, 8.1),
		)

		found, err := store.Find(ctx, series, docstore.BuildFilter().MatchingAnyDocument())
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(
			t,
			[]string{"_id", "titulo", "plataforma", "temporadas", "genero", "finalizada", "año_estreno", "puntuacion"},
			found[0].Keys(),
		)

		genres, _ := docstore.ToArray(must(found[0].Get("genero")))
		assert.Equal(t, []any{"Comedia", "Drama"}, genres)
	})

	t.Run("find_with_conditions", func(t *testing.T) {
		ctx, store, series, _ := arrange(t, newStore)
		givenCatalog(t, ctx, store, series)

		tests := []struct {
			name     string
			filter   docstore.Filter
			expected []string
		}{
			{
				name: "long_and_good",
				filter: docstore.BuildFilter().
					Matching(docstore.Gt("temporadas", 5), docstore.Gt("puntuacion", 8.0)).
					Finalize(),
				expected: []string{"Larga Buena"},
			},
			{
				name: "array_contains",
				filter: docstore.BuildFilter().
					Matching(docstore.Eq("genero", "Comedia"), docstore.Gt("año_estreno", 2020)).
					Finalize(),
				expected: []string{"Comedia Nueva"},
			},
			{
				name:     "boolean",
				filter:   docstore.BuildFilter().Matching(docstore.Eq("finalizada", true)).Finalize(),
				expected: []string{"Larga Buena", "Joya Apple"},
			},
			{
				name:     "string_equality",
				filter:   docstore.BuildFilter().Matching(docstore.Eq("plataforma", "Apple TV+")).Finalize(),
				expected: []string{"Joya Apple"},
			},
			{
				name: "greater_or_equal",
				filter: docstore.BuildFilter().
					Matching(docstore.Eq("plataforma", "Apple TV+"), docstore.Gte("puntuacion", 9.0)).
					Finalize(),
				expected: []string{"Joya Apple"},
			},
			{
				name:     "not_exists",
				filter:   docstore.BuildFilter().Matching(docstore.NotExists("puntuacion")).Finalize(),
				expected: []string{"Incompleta"},
			},
			{
				name:     "type_mismatch_matches_nothing",
				filter:   docstore.BuildFilter().Matching(docstore.Gt("titulo", 5)).Finalize(),
				expected: []string{},
			},
			{
				name:     "lower_than",
				filter:   docstore.BuildFilter().Matching(docstore.Lt("temporadas", 2), docstore.Lte("año_estreno", 2005)).Finalize(),
				expected: []string{"Incompleta"},
			},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				found, err := store.Find(ctx, series, tc.filter)
				require.NoError(t, err)
				assert.ElementsMatch(t, tc.expected, helper.Titles(found))
			})
		}
	})

	t.Run("drop_removes_documents_and_tolerates_missing", func(t *testing.T) {
		ctx, store, series, details := arrange(t, newStore)
		givenCatalog(t, ctx, store, series)

		require.NoError(t, store.DropCollection(ctx, series))
		require.NoError(t, store.DropCollection(ctx, details))

		found, err := store.Find(ctx, series, docstore.BuildFilter().MatchingAnyDocument())
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("empty_collection_name_is_rejected", func(t *testing.T) {
		ctx, store, _, _ := arrange(t, newStore)

		_, err := store.Find(ctx, "", docstore.BuildFilter().MatchingAnyDocument())
		assert.ErrorIs(t, err, docstore.ErrEmptyCollectionName)
	})

	t.Run("aggregate_average_rating", func(t *testing.T) {
		ctx, store, series, _ := arrange(t, newStore)
		helper.GivenDocumentsWereInserted(t, ctx, store, series,
			helper.FixtureSeries("A", "HBO", 1, []string{"Drama"}, true, 2001, 7.0),
			helper.FixtureSeries("B", "HBO", 1, []string{"Drama"}, true, 2001, 8.0),
			helper.FixtureSeries("C", "HBO", 1, []string{"Drama"}, true, 2001, 9.0),
			helper.FixtureSeries("D", "HBO", 1, []string{"Drama"}, true, 2001, -1),
		)

		result, err := store.Aggregate(ctx, series, docstore.Pipeline{
			docstore.Match(docstore.BuildFilter().Matching(docstore.Exists("puntuacion")).Finalize()),
			docstore.GroupAll(docstore.Avg("puntuacion_media", "puntuacion")),
		})
		require.NoError(t, err)
		require.Len(t, result, 1)

		avg, ok := docstore.ToFloat(must(result[0].Get("puntuacion_media")))
		require.True(t, ok)
		assert.InDelta(t, 8.0, avg, 1e-9)
	})

	t.Run("aggregate_join_and_filter", func(t *testing.T) {
		ctx, store, series, details := arrange(t, newStore)
		givenCatalog(t, ctx, store, series)
		helper.GivenDocumentsWereInserted(t, ctx, store, details,
			helper.FixtureProductionDetail("Larga Buena", "EE.UU.", 2.5, "Ana", "Luis", "Eva"),
			helper.FixtureProductionDetail("Joya Apple", "España", 4, "Ana", "Luis", "Eva"),
			helper.FixtureProductionDetail("Comedia Nueva", "EE.UU.", 1, "Ana", "Luis", "Eva"),
		)

		result, err := store.Aggregate(ctx, details, docstore.Pipeline{
			docstore.Lookup(series, "titulo", "titulo", "serie_info"),
			docstore.Unwind("serie_info"),
			docstore.Match(docstore.BuildFilter().
				Matching(
					docstore.Eq("serie_info.finalizada", true),
					docstore.Exists("serie_info.puntuacion"),
					docstore.Gt("serie_info.puntuacion", 8),
					docstore.Eq("pais_origen", "EE.UU."),
				).
				Finalize()),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Larga Buena"}, helper.Titles(result))

		info, ok := docstore.ToDocument(must(result[0].Get("serie_info")))
		require.True(t, ok)
		assert.Equal(t, "Netflix", must(info.Get("plataforma")))
	})

	t.Run("aggregate_computed_projection", func(t *testing.T) {
		ctx, store, series, details := arrange(t, newStore)
		helper.GivenDocumentsWereInserted(t, ctx, store, series,
			helper.FixtureSeries("Coste", "HBO", 2, []string{"Drama"}, true, 2001, 7.0),
			helper.FixtureSeries("Sin Detalles", "HBO", 2, []string{"Drama"}, true, 2001, 7.0),
		)
		helper.GivenDocumentsWereInserted(t, ctx, store, details,
			helper.FixtureProductionDetail("Coste", "Reino Unido", 1.5, "Ana", "Luis", "Eva"),
		)

		result, err := store.Aggregate(ctx, series, docstore.Pipeline{
			docstore.Lookup(details, "titulo", "titulo", "detalles"),
			docstore.Unwind("detalles"),
			docstore.Project(
				docstore.Include("titulo"),
				docstore.Computed("coste_total", docstore.Multiply(
					docstore.Ref("temporadas"),
					docstore.Lit(8),
					docstore.Ref("detalles.presupuesto_por_episodio"),
				)),
			).WithoutID(),
		})
		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, []string{"titulo", "coste_total"}, result[0].Keys())

		cost, ok := docstore.ToFloat(must(result[0].Get("coste_total")))
		require.True(t, ok)
		assert.InDelta(t, 24.0, cost, 1e-9)
	})

	t.Run("invalid_pipeline_is_rejected", func(t *testing.T) {
		ctx, store, series, _ := arrange(t, newStore)

		_, err := store.Aggregate(ctx, series, docstore.Pipeline{docstore.Unwind("")})
		assert.ErrorIs(t, err, docstore.ErrInvalidPipeline)
	})
}

func arrange(t *testing.T, newStore StoreFactory) (context.Context, docstore.Store, string, string) {
	ctx := context.Background()
	store := newStore(t)
	series := helper.GivenUniqueCollectionName(t, "series")
	details := helper.GivenUniqueCollectionName(t, "detalles")

	t.Cleanup(func() {
		helper.CleanUp(t, context.Background(), store, series, details)
	})

	return ctx, store, series, details
}

func givenCatalog(t *testing.T, ctx context.Context, store docstore.Store, collection string) {
	helper.GivenDocumentsWereInserted(t, ctx, store, collection,
		helper.FixtureSeries("Larga Buena", "Netflix", 6, []string{"Drama", "Thriller"}, true, 2015, 8.6),
		helper.FixtureSeries("Comedia Nueva", "HBO", 2, []string{"Comedia"}, false, 2022, 7.2),
		helper.FixtureSeries("Comedia Vieja", "HBO", 3, []string{"Comedia", "Drama"}, false, 2019, 7.9),
		helper.FixtureSeries("Joya Apple", "Apple TV+", 4, []string{"Sci-Fi"}, true, 2021, 9.1),
		helper.FixtureSeries("Incompleta", "Disney+", 1, []string{"Fantasía"}, false, 2003, -1),
	)
}

func must(value any, _ bool) any {
	return value
}
