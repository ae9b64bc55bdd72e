package model

import "time"

// Config is the full runtime configuration, resolved from defaults,
// the config file, environment variables, and flags (in ascending priority)
type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	Search  SearchConfig  `yaml:"search"`
	HTTP    HTTPConfig    `yaml:"http"`
	Extract ExtractConfig `yaml:"extract"`
	Cache   CacheConfig   `yaml:"cache"`
	Output  OutputConfig  `yaml:"output"`
}

// LLMConfig configures the LLM provider
type LLMConfig struct {
	Provider    string  `yaml:"provider"` // openai, ollama
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"api_key,omitempty"`
	BaseURL     string  `yaml:"base_url,omitempty"`
	Timeout     int     `yaml:"timeout_seconds"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// SearchConfig configures source discovery
type SearchConfig struct {
	TavilyAPIKey       string   `yaml:"tavily_api_key,omitempty"`
	SerperAPIKey       string   `yaml:"serper_api_key,omitempty"`
	MaxResultsPerQuery int      `yaml:"max_results_per_query"`
	MaxPerQuestion     int      `yaml:"max_per_question"`
	MaxTotalSources    int      `yaml:"max_total_sources"`
	ExcludeDomains     []string `yaml:"exclude_domains,omitempty"`
}

// HTTPConfig configures page fetching
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	UserAgent     string        `yaml:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots"`
	RatePerDomain float64       `yaml:"rate_per_domain"` // requests/second
	HTTPProxy     string        `yaml:"http_proxy,omitempty"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty"`
}

// ExtractConfig configures content and claim extraction
type ExtractConfig struct {
	Workers          int `yaml:"workers"`
	MaxContentLength int `yaml:"max_content_length"`
	PreviewLength    int `yaml:"preview_length"`
	MaxClaimSources  int `yaml:"max_claim_sources"` // Sources sent to the LLM for claims
}

// CacheConfig configures the fetched-page cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// OutputConfig controls console output
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			Timeout:     60,
			MaxTokens:   2000,
			Temperature: 0.7,
		},
		Search: SearchConfig{
			MaxResultsPerQuery: 7,
			MaxPerQuestion:     5,
			MaxTotalSources:    30,
			ExcludeDomains: []string{
				"pinterest.com", "quora.com", "reddit.com",
				"facebook.com", "twitter.com", "x.com",
				"medium.com",
			},
		},
		HTTP: HTTPConfig{
			Timeout:       15 * time.Second,
			UserAgent:     "decisive/0.1 (+https://github.com/mkarev/decisive)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: false,
			RatePerDomain: 2.0,
		},
		Extract: ExtractConfig{
			Workers:          5,
			MaxContentLength: 15000,
			PreviewLength:    400,
			MaxClaimSources:  10,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     time.Hour,
		},
		Output: OutputConfig{
			Verbose: false,
		},
	}
}
