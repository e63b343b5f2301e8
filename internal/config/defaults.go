package config

const (
	DefaultHost        = "0.0.0.0"
	DefaultPort        = 8000
	DefaultEnvironment = "development"
	DefaultAPIPrefix   = "/api/v1"
	DefaultLogLevel    = "info"

	DefaultRateLimitPerMinute = 60
	DefaultMaxQueryLength     = 2000

	DefaultSearchProvider = "duckduckgo"
	DefaultSearchTimeout  = 15 // seconds

	DefaultElasticsearchHost       = "localhost"
	DefaultElasticsearchPort       = 9200
	DefaultElasticsearchScheme     = "http"
	DefaultElasticsearchMaxRetries = 3
	DefaultElasticsearchIndex      = "knowledge"

	DefaultGenerativeProvider  = "openai"
	DefaultGenerativeMaxTokens = 150
	DefaultGenerativeMaxChars  = 2000

	DefaultCORSMaxAge = 300

	DefaultMetricsPath = "/metrics"
)

var DefaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8080",
}

// DefaultEntities are named entities that mark a query as a fact lookup even
// without a question word.
var DefaultEntities = []string{
	"Tom Cruise",
}

// DefaultFactTriggers are fact nouns that route a query to web lookup, such
// as the subject of "France population multiplied by 2".
var DefaultFactTriggers = []string{
	"population",
	"capital",
}
