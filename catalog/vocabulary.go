package catalog

const (
	SeriesCollection  = "series"
	DetailsCollection = "detalles_produccion"
)

// Document keys of a series.
const (
	KeyTitle       = "titulo"
	KeyPlatform    = "plataforma"
	KeySeasons     = "temporadas"
	KeyGenres      = "genero"
	KeyCompleted   = "finalizada"
	KeyReleaseYear = "año_estreno"
	KeyRating      = "puntuacion"
)

// Document keys of a production detail.
const (
	KeyOriginCountry    = "pais_origen"
	KeyMainCast         = "reparto_principal"
	KeyBudgetPerEpisode = "presupuesto_por_episodio"
)

const (
	PlatformNetflix     = "Netflix"
	PlatformHBO         = "HBO"
	PlatformAmazonPrime = "Amazon Prime"
	PlatformDisneyPlus  = "Disney+"
	PlatformAppleTVPlus = "Apple TV+"
)

const (
	GenreDrama    = "Drama"
	GenreComedy   = "Comedia"
	GenreThriller = "Thriller"
	GenreSciFi    = "Sci-Fi"
	GenreFantasy  = "Fantasía"
	GenreAction   = "Acción"
	GenreCrime    = "Crimen"
	GenreMystery  = "Misterio"
)

const (
	CountryUS            = "EE.UU."
	CountrySouthKorea    = "Corea del Sur"
	CountrySpain         = "España"
	CountryUnitedKingdom = "Reino Unido"
)

// Value ranges of generated records.
const (
	MinSeasons     = 1
	MaxSeasons     = 6
	MinReleaseYear = 2000
	MaxReleaseYear = 2023
	MinRating      = 6.0
	MaxRating      = 9.5
	MinGenres      = 1
	MaxGenres      = 2
	MinBudget      = 0.5
	MaxBudget      = 10.0
	MainCastSize   = 3
)

// Platforms returns the streaming platforms in their canonical order.
func Platforms() []string {
	return []string{PlatformNetflix, PlatformHBO, PlatformAmazonPrime, PlatformDisneyPlus, PlatformAppleTVPlus}
}

// Genres returns the eight genres in their canonical order.
func Genres() []string {
	return []string{
		GenreDrama, GenreComedy, GenreThriller, GenreSciFi,
		GenreFantasy, GenreAction, GenreCrime, GenreMystery,
	}
}

// Countries returns the production countries in their canonical order.
func Countries() []string {
	return []string{CountryUS, CountrySouthKorea, CountrySpain, CountryUnitedKingdom}
}
