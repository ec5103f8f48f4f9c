package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/seriescatalog/catalog-reports/catalog"
	"github.com/seriescatalog/catalog-reports/docstore"
	"github.com/seriescatalog/catalog-reports/docstore/jsonexport"
)

const (
	NameLongMarathons     = "maratones"
	NameRecentComedies    = "comedias_recientes"
	NameCompletedSeries   = "series_finalizadas"
	NameNetflixCatalog    = "series_netflix"
	NameAppleGems         = "joyas_apple"
	NameAverageRating     = "puntuacion_media"
	NameSuccessfulUSShows = "series_exitosas_eeuu"
	NameFinancialCost     = "gasto_financiero_series"

	DefaultEpisodesPerSeason = 8

	FieldAverageRating = "puntuacion_media"
	FieldSeriesInfo    = "serie_info"
	FieldDetails       = "detalles"
	FieldTotalCost     = "coste_total"

	jsonSuffix = ".json"
	notRated   = "N/A"
)

// Collections names the two collections the reports read.
type Collections struct {
	Series  string
	Details string
}

// DefaultCollections returns the collection names used when nothing else is configured.
func DefaultCollections() Collections {
	return Collections{Series: catalog.SeriesCollection, Details: catalog.DetailsCollection}
}

// Catalog returns the eight catalog reports in their fixed order.
// episodesPerSeason is the per-season episode count assumed by the cost report.
func Catalog(collections Collections, episodesPerSeason int) Definitions {
	return Definitions{
		LongMarathons(collections),
		RecentComedies(collections),
		CompletedSeries(collections),
		NetflixCatalog(collections),
		AppleGems(collections),
		AverageRatingReport(collections),
		SuccessfulUSShows(collections),
		FinancialCost(collections, episodesPerSeason),
	}
}

func LongMarathons(collections Collections) Definition {
	return Definition{
		Name:       NameLongMarathons,
		Heading:    "Series para maratones largas (más de 5 temporadas, puntuación > 8.0):",
		Collection: collections.Series,
		Filter: docstore.BuildFilter().
			Matching(docstore.Gt(catalog.KeySeasons, 5)).
			And(docstore.Gt(catalog.KeyRating, 8.0)).
			Finalize(),
		OutputFile: NameLongMarathons + jsonSuffix,
		FormatLine: func(doc docstore.Document) string {
			return fmt.Sprintf("- %s (%s temporadas, Puntuación: %s)",
				text(doc, catalog.KeyTitle), text(doc, catalog.KeySeasons), textOr(doc, catalog.KeyRating, notRated))
		},
	}
}

func RecentComedies(collections Collections) Definition {
	return Definition{
		Name:       NameRecentComedies,
		Heading:    "Joyas de la comedia (estrenadas después de 2020):",
		Collection: collections.Series,
		Filter: docstore.BuildFilter().
			Matching(docstore.Eq(catalog.KeyGenres, catalog.GenreComedy)).
			And(docstore.Gt(catalog.KeyReleaseYear, 2020)).
			Finalize(),
		OutputFile: NameRecentComedies + jsonSuffix,
		FormatLine: func(doc docstore.Document) string {
			return fmt.Sprintf("- %s (Año de estreno: %s, Género: %s)",
				text(doc, catalog.KeyTitle), text(doc, catalog.KeyReleaseYear), text(doc, catalog.KeyGenres))
		},
	}
}

func CompletedSeries(collections Collections) Definition {
	return Definition{
		Name:       NameCompletedSeries,
		Heading:    "Series finalizadas:",
		Collection: collections.Series,
		Filter:     docstore.BuildFilter().Matching(docstore.Eq(catalog.KeyCompleted, true)).Finalize(),
		OutputFile: NameCompletedSeries + jsonSuffix,
		FormatLine: func(doc docstore.Document) string {
			return fmt.Sprintf("- %s (Finalizada: %s)", text(doc, catalog.KeyTitle), text(doc, catalog.KeyCompleted))
		},
	}
}

func NetflixCatalog(collections Collections) Definition {
	return Definition{
		Name:       NameNetflixCatalog,
		Heading:    "Series disponibles en Netflix:",
		Collection: collections.Series,
		Filter:     docstore.BuildFilter().Matching(docstore.Eq(catalog.KeyPlatform, catalog.PlatformNetflix)).Finalize(),
		OutputFile: NameNetflixCatalog + jsonSuffix,
		FormatLine: func(doc docstore.Document) string {
			return fmt.Sprintf("- %s (Plataforma: %s)", text(doc, catalog.KeyTitle), text(doc, catalog.KeyPlatform))
		},
	}
}

func AppleGems(collections Collections) Definition {
	return Definition{
		Name:       NameAppleGems,
		Heading:    "Joyas en Apple TV+ (puntuación >= 9.0):",
		Collection: collections.Series,
		Filter: docstore.BuildFilter().
			Matching(docstore.Eq(catalog.KeyPlatform, catalog.PlatformAppleTVPlus)).
			And(docstore.Gte(catalog.KeyRating, 9.0)).
			Finalize(),
		OutputFile: NameAppleGems + jsonSuffix,
		FormatLine: func(doc docstore.Document) string {
			return fmt.Sprintf("- %s (Puntuación: %s)", text(doc, catalog.KeyTitle), textOr(doc, catalog.KeyRating, notRated))
		},
	}
}

// AverageRatingReport averages the rating of all rated series. It prints a single line and writes no file.
func AverageRatingReport(collections Collections) Definition {
	return Definition{
		Name:       NameAverageRating,
		Collection: collections.Series,
		Pipeline: docstore.Pipeline{
			docstore.Match(docstore.BuildFilter().Matching(docstore.Exists(catalog.KeyRating)).Finalize()),
			docstore.GroupAll(docstore.Avg(FieldAverageRating, catalog.KeyRating)),
		},
		FormatLine: func(doc docstore.Document) string {
			average, ok := AverageRating(docstore.Documents{doc})
			if !ok {
				return ""
			}
			return "Puntuación media de todas las series: " + formatNumber(average)
		},
	}
}

func SuccessfulUSShows(collections Collections) Definition {
	seriesInfo := func(key string) string {
		return FieldSeriesInfo + "." + key
	}

	return Definition{
		Name:       NameSuccessfulUSShows,
		Heading:    "Series exitosas finalizadas de EE.UU. con puntuación > 8:",
		Collection: collections.Details,
		Pipeline: docstore.Pipeline{
			docstore.Lookup(collections.Series, catalog.KeyTitle, catalog.KeyTitle, FieldSeriesInfo),
			docstore.Unwind(FieldSeriesInfo),
			docstore.Match(docstore.BuildFilter().
				Matching(docstore.Eq(seriesInfo(catalog.KeyCompleted), true)).
				And(
					docstore.Exists(seriesInfo(catalog.KeyRating)),
					docstore.Gt(seriesInfo(catalog.KeyRating), 8),
					docstore.Eq(catalog.KeyOriginCountry, catalog.CountryUS),
				).
				Finalize()),
		},
		OutputFile: NameSuccessfulUSShows + jsonSuffix,
		FormatLine: func(doc docstore.Document) string {
			return fmt.Sprintf("- %s (Puntuación: %s)", text(doc, catalog.KeyTitle), text(doc, seriesInfo(catalog.KeyRating)))
		},
		NeedsDetails: true,
	}
}

// FinancialCost estimates the total cost of every series as seasons × episodesPerSeason × budget per episode.
func FinancialCost(collections Collections, episodesPerSeason int) Definition {
	return Definition{
		Name:       NameFinancialCost,
		Heading:    "Gasto financiero estimado por serie:",
		Collection: collections.Series,
		Pipeline: docstore.Pipeline{
			docstore.Lookup(collections.Details, catalog.KeyTitle, catalog.KeyTitle, FieldDetails),
			docstore.Unwind(FieldDetails),
			docstore.Project(
				docstore.Include(catalog.KeyTitle),
				docstore.Computed(FieldTotalCost, docstore.Multiply(
					docstore.Ref(catalog.KeySeasons),
					docstore.Lit(episodesPerSeason),
					docstore.Ref(FieldDetails+"."+catalog.KeyBudgetPerEpisode),
				)),
			).WithoutID(),
		},
		OutputFile: NameFinancialCost + jsonSuffix,
		FormatLine: func(doc docstore.Document) string {
			value, _ := doc.Get(FieldTotalCost)
			cost, _ := docstore.ToFloat(value)
			return fmt.Sprintf("- %s: $%.2f millones", text(doc, catalog.KeyTitle), cost)
		},
		Transform:    jsonexport.WithoutID,
		NeedsDetails: true,
	}
}

// AverageRating extracts the mean rating, rounded to two decimals, from the result of the average report.
func AverageRating(docs docstore.Documents) (float64, bool) {
	if len(docs) == 0 {
		return 0, false
	}

	value, ok := docs[0].Get(FieldAverageRating)
	if !ok {
		return 0, false
	}

	average, ok := docstore.ToFloat(value)
	if !ok {
		return 0, false
	}

	return math.Round(average*100) / 100, true
}

func text(doc docstore.Document, path string) string {
	return textOr(doc, path, "")
}

func textOr(doc docstore.Document, path, fallback string) string {
	value, ok := doc.Lookup(path)
	if !ok || value == nil {
		return fallback
	}

	if elements, isArray := docstore.ToArray(value); isArray {
		parts := make([]string, 0, len(elements))
		for _, element := range elements {
			parts = append(parts, fmt.Sprint(element))
		}
		return strings.Join(parts, ", ")
	}

	if f, isFloat := value.(float64); isFloat {
		return formatNumber(f)
	}

	return fmt.Sprint(value)
}

// formatNumber prints floats the way the reports show them: integral values keep one decimal.
func formatNumber(f float64) string {
	if f == math.Trunc(f) {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}
