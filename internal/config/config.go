package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Host        string `mapstructure:"host" json:"host"`
	Port        int    `mapstructure:"port" json:"port"`
	Environment string `mapstructure:"environment" json:"environment"`
	APIPrefix   string `mapstructure:"api_prefix" json:"api_prefix"`
	LogLevel    string `mapstructure:"log_level" json:"log_level"`

	// CORS
	CORSOrigins []string `mapstructure:"cors_origins" json:"cors_origins"`

	// Auth
	APIKeyHeader string   `mapstructure:"api_key_header" json:"api_key_header"`
	APIKeys      []string `mapstructure:"api_keys" json:"api_keys"`
	EnableAuth   bool     `mapstructure:"enable_auth" json:"enable_auth"`

	// Limits
	RateLimitPerMinute int `mapstructure:"rate_limit_per_minute" json:"rate_limit_per_minute"`
	MaxQueryLength     int `mapstructure:"max_query_length" json:"max_query_length"`

	EnableAuditLogging bool `mapstructure:"enable_audit_logging" json:"enable_audit_logging"`

	// Metrics
	EnableMetrics bool   `mapstructure:"enable_metrics" json:"enable_metrics"`
	MetricsPath   string `mapstructure:"metrics_path" json:"metrics_path"`

	// Classifier
	Entities     []string `mapstructure:"entities" json:"entities"`
	FactTriggers []string `mapstructure:"fact_triggers" json:"fact_triggers"`

	// Web lookup
	SearchProvider     string `mapstructure:"search_provider" json:"search_provider"` // duckduckgo | google | elasticsearch
	SearchTimeout      int    `mapstructure:"search_timeout" json:"search_timeout"`   // seconds
	DuckDuckGoEndpoint string `mapstructure:"duckduckgo_endpoint" json:"duckduckgo_endpoint"`
	GoogleAPIKey       string `mapstructure:"google_api_key" json:"google_api_key"`
	GoogleCSEID        string `mapstructure:"google_cse_id" json:"google_cse_id"`
	GoogleEndpoint     string `mapstructure:"google_endpoint" json:"google_endpoint"`

	// Elasticsearch lookup backend
	ElasticsearchHost         string `mapstructure:"elasticsearch_host" json:"elasticsearch_host"`
	ElasticsearchPort         int    `mapstructure:"elasticsearch_port" json:"elasticsearch_port"`
	ElasticsearchScheme       string `mapstructure:"elasticsearch_scheme" json:"elasticsearch_scheme"`
	ElasticsearchUser         string `mapstructure:"elasticsearch_user" json:"elasticsearch_user"`
	ElasticsearchPassword     string `mapstructure:"elasticsearch_password" json:"elasticsearch_password"`
	ElasticsearchVerifyCerts  bool   `mapstructure:"elasticsearch_verify_certs" json:"elasticsearch_verify_certs"`
	ElasticsearchMaxRetries   int    `mapstructure:"elasticsearch_max_retries" json:"elasticsearch_max_retries"`
	ElasticsearchIndex        string `mapstructure:"elasticsearch_index" json:"elasticsearch_index"`
	ElasticsearchTitleField   string `mapstructure:"elasticsearch_title_field" json:"elasticsearch_title_field"`
	ElasticsearchURLField     string `mapstructure:"elasticsearch_url_field" json:"elasticsearch_url_field"`
	ElasticsearchContentField string `mapstructure:"elasticsearch_content_field" json:"elasticsearch_content_field"`

	// Generative text
	GenerativeProvider  string `mapstructure:"generative_provider" json:"generative_provider"` // openai | anthropic
	GenerativeModel     string `mapstructure:"generative_model" json:"generative_model"`
	GenerativeBaseURL   string `mapstructure:"generative_base_url" json:"generative_base_url"`
	GenerativeMaxTokens int    `mapstructure:"generative_max_tokens" json:"generative_max_tokens"`
	GenerativeMaxChars  int    `mapstructure:"generative_max_chars" json:"generative_max_chars"`
	OpenAIAPIKey        string `mapstructure:"openai_api_key" json:"openai_api_key"`
	AnthropicAPIKey     string `mapstructure:"anthropic_api_key" json:"anthropic_api_key"`
}

// envAliases maps config keys to the well-known variables also accepted for
// them, in addition to the IGS_ prefixed form.
var envAliases = map[string][]string{
	"openai_api_key":         {"OPENAI_API_KEY"},
	"anthropic_api_key":      {"ANTHROPIC_API_KEY"},
	"generative_base_url":    {"ANTHROPIC_BASE_URL", "OPENAI_BASE_URL"},
	"google_api_key":         {"GOOGLE_API_KEY"},
	"google_cse_id":          {"GOOGLE_CSE_ID"},
	"elasticsearch_host":     {"ELASTICSEARCH_HOST"},
	"elasticsearch_port":     {"ELASTICSEARCH_PORT"},
	"elasticsearch_scheme":   {"ELASTICSEARCH_SCHEME"},
	"elasticsearch_user":     {"ELASTICSEARCH_USER"},
	"elasticsearch_password": {"ELASTICSEARCH_PASSWORD"},
	"elasticsearch_index":    {"ELASTICSEARCH_INDEX"},
	"rate_limit_per_minute":  {"RATE_LIMIT_PER_MINUTE"},
	"enable_auth":            {"ENABLE_AUTH"},
}

// Load builds the configuration. Precedence, highest first:
//  1. Environment variables (IGS_<KEY> or a well-known alias such as OPENAI_API_KEY)
//  2. The config file at path, or at $IGS_CONFIG when path is empty (JSON or YAML)
//  3. Built-in defaults
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		path = os.Getenv("IGS_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config from %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("IGS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, aliases := range envAliases {
		names := append([]string{"IGS_" + strings.ToUpper(key)}, aliases...)
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the server cannot start with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("rate_limit_per_minute must be positive, got %d", c.RateLimitPerMinute)
	}
	if c.MaxQueryLength <= 0 {
		return fmt.Errorf("max_query_length must be positive, got %d", c.MaxQueryLength)
	}
	if c.EnableMetrics && !strings.HasPrefix(c.MetricsPath, "/") {
		return fmt.Errorf("metrics_path must start with /, got %q", c.MetricsPath)
	}
	if c.SearchTimeout <= 0 {
		return fmt.Errorf("search_timeout must be positive, got %d", c.SearchTimeout)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", DefaultHost)
	v.SetDefault("port", DefaultPort)
	v.SetDefault("environment", DefaultEnvironment)
	v.SetDefault("api_prefix", DefaultAPIPrefix)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("cors_origins", DefaultCORSOrigins)

	v.SetDefault("api_key_header", "X-API-Key")
	v.SetDefault("api_keys", []string{})
	v.SetDefault("enable_auth", true)

	v.SetDefault("rate_limit_per_minute", DefaultRateLimitPerMinute)
	v.SetDefault("max_query_length", DefaultMaxQueryLength)
	v.SetDefault("enable_audit_logging", true)

	v.SetDefault("enable_metrics", true)
	v.SetDefault("metrics_path", DefaultMetricsPath)

	v.SetDefault("entities", DefaultEntities)
	v.SetDefault("fact_triggers", DefaultFactTriggers)

	v.SetDefault("search_provider", DefaultSearchProvider)
	v.SetDefault("search_timeout", DefaultSearchTimeout)
	v.SetDefault("duckduckgo_endpoint", "")
	v.SetDefault("google_api_key", "")
	v.SetDefault("google_cse_id", "")
	v.SetDefault("google_endpoint", "")

	v.SetDefault("elasticsearch_host", DefaultElasticsearchHost)
	v.SetDefault("elasticsearch_port", DefaultElasticsearchPort)
	v.SetDefault("elasticsearch_scheme", DefaultElasticsearchScheme)
	v.SetDefault("elasticsearch_user", "")
	v.SetDefault("elasticsearch_password", "")
	v.SetDefault("elasticsearch_verify_certs", true)
	v.SetDefault("elasticsearch_max_retries", DefaultElasticsearchMaxRetries)
	v.SetDefault("elasticsearch_index", DefaultElasticsearchIndex)
	v.SetDefault("elasticsearch_title_field", "title")
	v.SetDefault("elasticsearch_url_field", "url")
	v.SetDefault("elasticsearch_content_field", "content")

	v.SetDefault("generative_provider", DefaultGenerativeProvider)
	v.SetDefault("generative_model", "")
	v.SetDefault("generative_base_url", "")
	v.SetDefault("generative_max_tokens", DefaultGenerativeMaxTokens)
	v.SetDefault("generative_max_chars", DefaultGenerativeMaxChars)
	v.SetDefault("openai_api_key", "")
	v.SetDefault("anthropic_api_key", "")
}
