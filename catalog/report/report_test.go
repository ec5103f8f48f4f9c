package report_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seriescatalog/catalog-reports/catalog"
	"github.com/seriescatalog/catalog-reports/catalog/report"
	"github.com/seriescatalog/catalog-reports/docstore"
	"github.com/seriescatalog/catalog-reports/docstore/memoryengine"
	"github.com/seriescatalog/catalog-reports/testutil/helper"
)

func givenStore(t *testing.T) *memoryengine.DocumentStore {
	t.Helper()

	store, err := memoryengine.NewDocumentStore()
	require.NoError(t, err)

	return store
}

func givenRunner(t *testing.T, options ...report.Option) *report.Runner {
	t.Helper()

	runner, err := report.NewRunner(options...)
	require.NoError(t, err)

	return runner
}

func givenSeries(t *testing.T, ctx context.Context, store docstore.Store, docs ...docstore.Document) {
	helper.GivenDocumentsWereInserted(t, ctx, store, catalog.SeriesCollection, docs...)
}

func givenDetails(t *testing.T, ctx context.Context, store docstore.Store, docs ...docstore.Document) {
	helper.GivenDocumentsWereInserted(t, ctx, store, catalog.DetailsCollection, docs...)
}

func Test_Catalog_HasTheFixedReportSequence(t *testing.T) {
	defs := report.Catalog(report.DefaultCollections(), report.DefaultEpisodesPerSeason)

	names := make([]string, 0, len(defs))
	files := make([]string, 0, len(defs))
	for _, def := range defs {
		names = append(names, def.Name)
		if def.OutputFile != "" {
			files = append(files, def.OutputFile)
		}
	}

	assert.Equal(t, []string{
		"maratones", "comedias_recientes", "series_finalizadas", "series_netflix",
		"joyas_apple", "puntuacion_media", "series_exitosas_eeuu", "gasto_financiero_series",
	}, names)
	assert.Equal(t, []string{
		"maratones.json", "comedias_recientes.json", "series_finalizadas.json", "series_netflix.json",
		"joyas_apple.json", "series_exitosas_eeuu.json", "gasto_financiero_series.json",
	}, files)
	assert.Len(t, defs.SeriesOnly(), 6)
	assert.Len(t, defs.WithDetails(), 2)

	for _, def := range defs {
		if def.IsAggregation() {
			assert.NoError(t, def.Pipeline.Validate(), def.Name)
		}
	}
}

func Test_FindReports_SelectTheExpectedSeries(t *testing.T) {
	ctx := context.Background()
	store := givenStore(t)
	givenSeries(t, ctx, store,
		helper.FixtureSeries("Larga Buena", "Netflix", 6, []string{"Drama"}, true, 2015, 8.6),
		helper.FixtureSeries("Larga Justa", "HBO", 6, []string{"Drama"}, true, 2015, 8.0),
		helper.FixtureSeries("Corta Buena", "HBO", 5, []string{"Crimen"}, false, 2016, 9.0),
		helper.FixtureSeries("Comedia Nueva", "Netflix", 2, []string{"Drama", "Comedia"}, false, 2021, 7.2),
		helper.FixtureSeries("Comedia 2020", "HBO", 2, []string{"Comedia"}, true, 2020, 7.2),
		helper.FixtureSeries("Joya Apple", "Apple TV+", 4, []string{"Sci-Fi"}, true, 2021, 9.0),
		helper.FixtureSeries("Casi Joya", "Apple TV+", 4, []string{"Sci-Fi"}, false, 2021, 8.9),
		helper.FixtureSeries("Sin Nota", "Apple TV+", 6, []string{"Misterio"}, true, 2022, -1),
	)

	tests := []struct {
		name     string
		expected []string
	}{
		{name: report.NameLongMarathons, expected: []string{"Larga Buena"}},
		{name: report.NameRecentComedies, expected: []string{"Comedia Nueva"}},
		{name: report.NameCompletedSeries, expected: []string{"Larga Buena", "Larga Justa", "Comedia 2020", "Joya Apple", "Sin Nota"}},
		{name: report.NameNetflixCatalog, expected: []string{"Larga Buena", "Comedia Nueva"}},
		{name: report.NameAppleGems, expected: []string{"Joya Apple"}},
	}

	defs := report.Catalog(report.DefaultCollections(), report.DefaultEpisodesPerSeason)
	runner := givenRunner(t)

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			def, ok := defs.Find(tc.name)
			require.True(t, ok)
			def.OutputFile = ""

			result, err := runner.Run(ctx, store, def)

			require.NoError(t, err)
			assert.Equal(t, tc.expected, helper.Titles(result.Documents))
			assert.Empty(t, result.File)
		})
	}
}

func Test_AverageRatingReport_IgnoresUnratedSeries(t *testing.T) {
	ctx := context.Background()
	store := givenStore(t)
	givenSeries(t, ctx, store,
		helper.FixtureSeries("Siete", "HBO", 1, []string{"Drama"}, true, 2001, 7.0),
		helper.FixtureSeries("Ocho", "HBO", 1, []string{"Drama"}, true, 2002, 8.0),
		helper.FixtureSeries("Nueve", "HBO", 1, []string{"Drama"}, true, 2003, 9.0),
		helper.FixtureSeries("Sin Nota", "HBO", 1, []string{"Drama"}, true, 2004, -1),
	)

	var out bytes.Buffer
	result, err := givenRunner(t, report.WithOutput(&out)).Run(ctx, store, report.AverageRatingReport(report.DefaultCollections()))

	require.NoError(t, err)
	average, ok := report.AverageRating(result.Documents)
	require.True(t, ok)
	assert.Equal(t, 8.0, average)
	assert.Contains(t, out.String(), "Puntuación media de todas las series: 8.0")
	assert.Empty(t, result.File)
}

func Test_AverageRating(t *testing.T) {
	_, ok := report.AverageRating(nil)
	assert.False(t, ok)

	_, ok = report.AverageRating(docstore.Documents{docstore.BuildDocument(docstore.F(report.FieldAverageRating, nil))})
	assert.False(t, ok)

	average, ok := report.AverageRating(docstore.Documents{
		docstore.BuildDocument(docstore.F(docstore.IDField, nil), docstore.F(report.FieldAverageRating, 7.856)),
	})
	assert.True(t, ok)
	assert.Equal(t, 7.86, average)
}

func Test_SuccessfulUSShows_JoinsOnTitle(t *testing.T) {
	tests := []struct {
		name     string
		country  string
		expected []string
	}{
		{name: "us_production", country: catalog.CountryUS, expected: []string{"X"}},
		{name: "other_country", country: catalog.CountrySpain, expected: []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			store := givenStore(t)
			givenSeries(t, ctx, store,
				helper.FixtureSeries("X", "HBO", 3, []string{"Drama"}, true, 2010, 9.0),
				helper.FixtureSeries("Y", "HBO", 3, []string{"Drama"}, false, 2010, 9.0),
			)
			givenDetails(t, ctx, store,
				helper.FixtureProductionDetail("X", tc.country, 2.0, "A", "B", "C"),
				helper.FixtureProductionDetail("Y", catalog.CountryUS, 2.0, "D", "E", "F"),
			)

			result, err := givenRunner(t).Run(ctx, store, noFile(report.SuccessfulUSShows(report.DefaultCollections())))

			require.NoError(t, err)
			assert.Equal(t, tc.expected, helper.Titles(result.Documents))
			for _, doc := range result.Documents {
				rating, _ := doc.Lookup("serie_info.puntuacion")
				assert.Equal(t, 9.0, rating)
			}
		})
	}
}

func Test_FinancialCost_MultipliesSeasonsEpisodesAndBudget(t *testing.T) {
	tests := []struct {
		name              string
		episodesPerSeason int
		expected          float64
	}{
		{name: "default_episode_count", episodesPerSeason: report.DefaultEpisodesPerSeason, expected: 24.0},
		{name: "configured_episode_count", episodesPerSeason: 10, expected: 30.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			store := givenStore(t)
			givenSeries(t, ctx, store, helper.FixtureSeries("Coste", "HBO", 2, []string{"Drama"}, true, 2010, 7.0))
			givenDetails(t, ctx, store, helper.FixtureProductionDetail("Coste", catalog.CountryUS, 1.5, "A", "B", "C"))

			result, err := givenRunner(t).Run(ctx, store, noFile(report.FinancialCost(report.DefaultCollections(), tc.episodesPerSeason)))

			require.NoError(t, err)
			require.Len(t, result.Documents, 1)
			assert.Equal(t, []string{catalog.KeyTitle, report.FieldTotalCost}, result.Documents[0].Keys())
			cost, _ := result.Documents[0].Get(report.FieldTotalCost)
			assert.InDelta(t, tc.expected, cost, 1e-9)
		})
	}
}

func Test_FinancialCost_SkipsSeriesWithoutDetails(t *testing.T) {
	ctx := context.Background()
	store := givenStore(t)
	givenSeries(t, ctx, store,
		helper.FixtureSeries("Con Detalle", "HBO", 1, []string{"Drama"}, true, 2010, 7.0),
		helper.FixtureSeries("Sin Detalle", "HBO", 1, []string{"Drama"}, true, 2010, 7.0),
	)
	givenDetails(t, ctx, store, helper.FixtureProductionDetail("Con Detalle", catalog.CountrySpain, 1.0, "A", "B", "C"))

	result, err := givenRunner(t).Run(ctx, store, noFile(report.FinancialCost(report.DefaultCollections(), 8)))

	require.NoError(t, err)
	assert.Equal(t, []string{"Con Detalle"}, helper.Titles(result.Documents))
}

func Test_Runner_PrintsAndExports(t *testing.T) {
	ctx := context.Background()
	store := givenStore(t)
	givenSeries(t, ctx, store,
		helper.FixtureSeries("Maratón", "Netflix", 6, []string{"Drama", "Acción"}, true, 2015, 8.6),
	)

	dir := t.TempDir()
	var out bytes.Buffer
	logger, logHandler := helper.NewTestLogger()
	runner := givenRunner(t, report.WithOutput(&out), report.WithOutputDir(dir), report.WithLogger(logger))

	result, err := runner.Run(ctx, store, report.LongMarathons(report.DefaultCollections()))

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "maratones.json"), result.File)
	assert.Contains(t, out.String(), "- Maratón (6 temporadas, Puntuación: 8.6)")
	assert.Contains(t, out.String(), "Archivo 'maratones.json' generado.")

	written, err := os.ReadFile(result.File)
	require.NoError(t, err)
	assert.Equal(t, result.JSON, string(written))
	assert.Contains(t, string(written), `"titulo": "Maratón"`)
	assert.Contains(t, string(written), `"_id": "`)

	assert.True(t, logHandler.HasInfoLogWithMessage("report completed").WithAttr("report", "maratones").WithDocumentCount(1).Assert())
}

func Test_Runner_CostReportExportsWithoutIdentifiers(t *testing.T) {
	ctx := context.Background()
	store := givenStore(t)
	givenSeries(t, ctx, store, helper.FixtureSeries("Coste", "HBO", 2, []string{"Drama"}, true, 2010, 7.0))
	givenDetails(t, ctx, store, helper.FixtureProductionDetail("Coste", catalog.CountryUS, 1.5, "A", "B", "C"))

	var out bytes.Buffer
	runner := givenRunner(t, report.WithOutput(&out), report.WithOutputDir(t.TempDir()))

	result, err := runner.Run(ctx, store, report.FinancialCost(report.DefaultCollections(), 8))

	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"titulo\": \"Coste\",\n    \"coste_total\": 24.0\n  }\n]", result.JSON)
	assert.Contains(t, out.String(), "- Coste: $24.00 millones")
}

func Test_Runner_RunAllStopsAtFirstFailure(t *testing.T) {
	ctx := context.Background()
	store := givenStore(t)
	broken := report.Definition{Name: "roto", Collection: catalog.SeriesCollection, Pipeline: docstore.Pipeline{docstore.Unwind("")}}

	results, err := givenRunner(t).RunAll(ctx, store, report.Definitions{
		noFile(report.CompletedSeries(report.DefaultCollections())),
		broken,
		noFile(report.NetflixCatalog(report.DefaultCollections())),
	})

	assert.ErrorIs(t, err, report.ErrReportFailed)
	assert.ErrorIs(t, err, docstore.ErrInvalidPipeline)
	assert.Len(t, results, 1)
}

func Test_Runner_RejectsNilStore(t *testing.T) {
	_, err := givenRunner(t).Run(context.Background(), nil, report.CompletedSeries(report.DefaultCollections()))

	assert.ErrorIs(t, err, report.ErrNilStore)
}

func Test_Runner_ReportsExportFailure(t *testing.T) {
	runner := givenRunner(t, report.WithOutputDir(filepath.Join(t.TempDir(), "missing")))

	_, err := runner.Run(context.Background(), givenStore(t), report.CompletedSeries(report.DefaultCollections()))

	assert.ErrorIs(t, err, report.ErrReportFailed)
}

func Test_NewRunner_RejectsInvalidOptions(t *testing.T) {
	_, err := report.NewRunner(report.WithOutput(nil))
	assert.ErrorIs(t, err, report.ErrNilOutput)

	_, err = report.NewRunner(report.WithOutputDir(""))
	assert.ErrorIs(t, err, report.ErrEmptyOutputDir)
}

func noFile(def report.Definition) report.Definition {
	def.OutputFile = ""
	return def
}
