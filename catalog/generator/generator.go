package generator

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/seriescatalog/catalog-reports/catalog"
)

const (
	DefaultMaxTitleAttempts = 1000

	seedStreamMix = 0x9e3779b97f4a7c15
)

// ErrTitleVocabularyExhausted is returned when the phrase source keeps repeating titles already used.
var ErrTitleVocabularyExhausted = errors.New("title vocabulary exhausted")

// Generator creates random catalog records. It is not safe for concurrent use.
type Generator struct {
	rng              *rand.Rand
	phrases          PhraseSource
	names            NameSource
	maxTitleAttempts int
}

// New creates a Generator with Spanish vocabularies and a randomly seeded source unless options say otherwise.
func New(options ...Option) (*Generator, error) {
	g := &Generator{
		rng:              rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		phrases:          SpanishCatchPhrase,
		names:            SpanishName,
		maxTitleAttempts: DefaultMaxTitleAttempts,
	}

	for _, option := range options {
		if err := option(g); err != nil {
			return nil, err
		}
	}

	return g, nil
}

func newSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^seedStreamMix))
}

// Series generates count series with titles unique within this call.
// Incomplete series carry no rating.
func (g *Generator) Series(count int, incomplete bool) ([]catalog.Series, error) {
	series := make([]catalog.Series, 0, max(count, 0))
	usedTitles := make(map[string]struct{}, max(count, 0))
	duplicates := 0

	for len(series) < count {
		title := g.phrases(g.rng)
		if _, used := usedTitles[title]; used {
			duplicates++
			if duplicates >= g.maxTitleAttempts {
				return nil, errors.Join(
					ErrTitleVocabularyExhausted,
					fmt.Errorf("%d of %d titles generated, %d consecutive duplicates", len(series), count, duplicates),
				)
			}

			continue
		}

		duplicates = 0
		usedTitles[title] = struct{}{}

		s := catalog.Series{
			Title:       title,
			Seasons:     g.intBetween(catalog.MinSeasons, catalog.MaxSeasons),
			ReleaseYear: g.intBetween(catalog.MinReleaseYear, catalog.MaxReleaseYear),
			Completed:   g.rng.IntN(2) == 1,
			Platform:    pick(g.rng, catalog.Platforms()),
			Genres:      g.sample(catalog.Genres(), g.intBetween(catalog.MinGenres, catalog.MaxGenres)),
		}

		if !incomplete {
			rating := roundTo(g.floatBetween(catalog.MinRating, catalog.MaxRating), 1)
			s.Rating = &rating
		}

		series = append(series, s)
	}

	return series, nil
}

// ProductionDetails builds one detail per series, joined by title.
func (g *Generator) ProductionDetails(series []catalog.Series) []catalog.ProductionDetail {
	details := make([]catalog.ProductionDetail, 0, len(series))

	for _, s := range series {
		cast := make([]string, catalog.MainCastSize)
		country := pick(g.rng, catalog.Countries())
		for i := range cast {
			cast[i] = g.names(g.rng)
		}

		details = append(details, catalog.ProductionDetail{
			Title:            s.Title,
			OriginCountry:    country,
			MainCast:         cast,
			BudgetPerEpisode: roundTo(g.floatBetween(catalog.MinBudget, catalog.MaxBudget), 2),
		})
	}

	return details
}

// intBetween returns an int in [lo, hi].
func (g *Generator) intBetween(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}

// floatBetween returns a float in [lo, hi].
func (g *Generator) floatBetween(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

// sample draws k distinct values, keeping the draw order.
func (g *Generator) sample(values []string, k int) []string {
	picked := make([]string, 0, k)
	for _, i := range g.rng.Perm(len(values))[:k] {
		picked = append(picked, values[i])
	}

	return picked
}

func roundTo(value float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(value*factor) / factor
}
