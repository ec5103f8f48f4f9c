package generator

import (
	"errors"
	"math/rand/v2"
)

var (
	ErrNilRandomSource         = errors.New("random source is nil")
	ErrNilPhraseSource         = errors.New("phrase source is nil")
	ErrNilNameSource           = errors.New("name source is nil")
	ErrInvalidMaxTitleAttempts = errors.New("max title attempts must be positive")
)

// Option defines a functional option for configuring a Generator.
type Option func(*Generator) error

// WithRandomSource sets the random number generator all draws are taken from.
func WithRandomSource(r *rand.Rand) Option {
	return func(g *Generator) error {
		if r == nil {
			return ErrNilRandomSource
		}

		g.rng = r

		return nil
	}
}

// WithSeed makes the generator deterministic. A zero seed keeps the random default.
func WithSeed(seed uint64) Option {
	return func(g *Generator) error {
		if seed != 0 {
			g.rng = newSeededRand(seed)
		}

		return nil
	}
}

// WithPhraseSource replaces the title phrase source.
func WithPhraseSource(source PhraseSource) Option {
	return func(g *Generator) error {
		if source == nil {
			return ErrNilPhraseSource
		}

		g.phrases = source

		return nil
	}
}

// WithNameSource replaces the cast name source.
func WithNameSource(source NameSource) Option {
	return func(g *Generator) error {
		if source == nil {
			return ErrNilNameSource
		}

		g.names = source

		return nil
	}
}

// WithMaxTitleAttempts sets how many consecutive duplicate titles are tolerated before giving up.
func WithMaxTitleAttempts(attempts int) Option {
	return func(g *Generator) error {
		if attempts <= 0 {
			return ErrInvalidMaxTitleAttempts
		}

		g.maxTitleAttempts = attempts

		return nil
	}
}
