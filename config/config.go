package config

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v2"
)

const (
	// DefaultUserAgent identifies the service to arXiv.
	DefaultUserAgent = "paperoutline/1.0 (arxiv outline extractor; +https://github.com/joeychilson/paperoutline)"

	// DefaultArxivBaseURL is the arXiv metadata API endpoint.
	DefaultArxivBaseURL = "https://export.arxiv.org/api/query"

	// DefaultArxivInterval is the polite delay between arXiv API requests.
	DefaultArxivInterval = 3 * time.Second
)

// Config is the top-level configuration for the outline service.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Retry   RetryConfig   `yaml:"retry"`
	Extract ExtractConfig `yaml:"extract"`
	Cache   CacheConfig   `yaml:"cache"`
	Arxiv   ArxivConfig   `yaml:"arxiv"`
}

// New returns a Config with sensible defaults.
func New() *Config {
	return &Config{}
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr              string        `yaml:"addr,omitempty"`
	RateLimitRequests int           `yaml:"rate_limit_requests,omitempty"`
	RateLimitWindow   time.Duration `yaml:"rate_limit_window,omitempty"`
}

// GetAddr returns the listen address with a default of ":8080".
func (s *ServerConfig) GetAddr() string {
	if s.Addr != "" {
		return s.Addr
	}
	return ":8080"
}

// GetRateLimitRequests returns the per-IP request limit with a default of 60.
func (s *ServerConfig) GetRateLimitRequests() int {
	if s.RateLimitRequests > 0 {
		return s.RateLimitRequests
	}
	return 60
}

// GetRateLimitWindow returns the rate limit window with a default of 1 minute.
func (s *ServerConfig) GetRateLimitWindow() time.Duration {
	if s.RateLimitWindow > 0 {
		return s.RateLimitWindow
	}
	return time.Minute
}

// FetchConfig holds HTTP client settings for PDF downloads.
type FetchConfig struct {
	Timeout      time.Duration `yaml:"timeout,omitempty"`
	UserAgent    string        `yaml:"user_agent,omitempty"`
	MaxRedirects int           `yaml:"max_redirects,omitempty"`
}

// GetTimeout returns the request timeout with a default of 60 seconds.
func (f *FetchConfig) GetTimeout() time.Duration {
	if f.Timeout > 0 {
		return f.Timeout
	}
	return 60 * time.Second
}

// GetUserAgent returns the User-Agent header value.
func (f *FetchConfig) GetUserAgent() string {
	if f.UserAgent != "" {
		return f.UserAgent
	}
	return DefaultUserAgent
}

// GetMaxRedirects returns the redirect cap with a default of 10.
func (f *FetchConfig) GetMaxRedirects() int {
	if f.MaxRedirects > 0 {
		return f.MaxRedirects
	}
	return 10
}

// RetryConfig defines retry and exponential backoff behavior for downloads.
type RetryConfig struct {
	MaxRetries   int           `yaml:"max_retries,omitempty"`
	InitialDelay time.Duration `yaml:"initial_delay,omitempty"`
	MaxDelay     time.Duration `yaml:"max_delay,omitempty"`
	Multiplier   float64       `yaml:"multiplier,omitempty"`
}

// GetMaxRetries returns the max retries with a default of 2.
func (r *RetryConfig) GetMaxRetries() int {
	if r.MaxRetries > 0 {
		return r.MaxRetries
	}
	return 2
}

// GetInitialDelay returns the initial backoff delay with a default of 1 second.
func (r *RetryConfig) GetInitialDelay() time.Duration {
	if r.InitialDelay > 0 {
		return r.InitialDelay
	}
	return time.Second
}

// GetMaxDelay returns the max backoff delay with a default of 30 seconds.
func (r *RetryConfig) GetMaxDelay() time.Duration {
	if r.MaxDelay > 0 {
		return r.MaxDelay
	}
	return 30 * time.Second
}

// GetMultiplier returns the backoff multiplier with a default of 2.0.
func (r *RetryConfig) GetMultiplier() float64 {
	if r.Multiplier > 0 {
		return r.Multiplier
	}
	return 2.0
}

// ExtractConfig controls the heuristic heading extractor and the renumbering
// pass. The knobs exist because source behavior for these cases is genuinely
// ambiguous; see the extractor and renumberer docs.
type ExtractConfig struct {
	MaxPages                int  `yaml:"max_pages,omitempty"`
	RequireIntroduction     bool `yaml:"require_introduction,omitempty"`
	KeepDuplicates          bool `yaml:"keep_duplicates,omitempty"`
	ConclusionNumber        int  `yaml:"conclusion_number,omitempty"`
	ComputeConclusionNumber bool `yaml:"compute_conclusion_number,omitempty"`
	MaxStyleDepth           int  `yaml:"max_style_depth,omitempty"`
}

// GetMaxPages returns the page scan bound with a default of 7.
func (e *ExtractConfig) GetMaxPages() int {
	if e.MaxPages > 0 {
		return e.MaxPages
	}
	return 7
}

// GetMaxStyleDepth returns the deepest styled heading level, default 6.
func (e *ExtractConfig) GetMaxStyleDepth() int {
	if e.MaxStyleDepth > 0 {
		return e.MaxStyleDepth
	}
	return 6
}

// CacheConfig defines caching of extracted outlines.
type CacheConfig struct {
	TTL time.Duration `yaml:"ttl,omitempty"`
}

// GetTTL returns the cache TTL with a default of 24 hours. Published papers
// do not change often.
func (c *CacheConfig) GetTTL() time.Duration {
	if c.TTL > 0 {
		return c.TTL
	}
	return 24 * time.Hour
}

// ArxivConfig holds arXiv API settings.
type ArxivConfig struct {
	BaseURL         string        `yaml:"base_url,omitempty"`
	RequestInterval time.Duration `yaml:"request_interval,omitempty"`
}

// GetBaseURL returns the metadata API endpoint.
func (a *ArxivConfig) GetBaseURL() string {
	if a.BaseURL != "" {
		return a.BaseURL
	}
	return DefaultArxivBaseURL
}

// GetRequestInterval returns the minimum delay between API requests.
func (a *ArxivConfig) GetRequestInterval() time.Duration {
	if a.RequestInterval > 0 {
		return a.RequestInterval
	}
	return DefaultArxivInterval
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Fetch.Timeout < 0 {
		return fmt.Errorf("fetch: 'timeout' must be >= 0")
	}
	if c.Fetch.MaxRedirects < 0 {
		return fmt.Errorf("fetch: 'max_redirects' must be >= 0")
	}
	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry: 'max_retries' must be >= 0")
	}
	if c.Retry.Multiplier > 0 && c.Retry.Multiplier < 1.0 {
		return fmt.Errorf("retry: 'multiplier' must be >= 1.0 (got %.2f)", c.Retry.Multiplier)
	}
	if c.Retry.MaxDelay > 0 && c.Retry.InitialDelay > c.Retry.MaxDelay {
		return fmt.Errorf("retry: 'initial_delay' (%s) cannot be greater than 'max_delay' (%s)",
			c.Retry.InitialDelay, c.Retry.MaxDelay)
	}
	if c.Extract.MaxPages < 0 {
		return fmt.Errorf("extract: 'max_pages' must be >= 0")
	}
	if c.Extract.ConclusionNumber < 0 {
		return fmt.Errorf("extract: 'conclusion_number' must be >= 0")
	}
	if c.Extract.MaxStyleDepth < 0 {
		return fmt.Errorf("extract: 'max_style_depth' must be >= 0")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache: 'ttl' must be >= 0")
	}
	if c.Arxiv.RequestInterval < 0 {
		return fmt.Errorf("arxiv: 'request_interval' must be >= 0")
	}
	if c.Server.RateLimitRequests < 0 {
		return fmt.Errorf("server: 'rate_limit_requests' must be >= 0")
	}
	return nil
}
