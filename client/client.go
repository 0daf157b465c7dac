package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/joeychilson/paperoutline/arxiv"
	"github.com/joeychilson/paperoutline/cache"
	"github.com/joeychilson/paperoutline/config"
	"github.com/joeychilson/paperoutline/fetcher"
	"github.com/joeychilson/paperoutline/heading"
	"github.com/joeychilson/paperoutline/logger"
	"github.com/joeychilson/paperoutline/outline"
	"github.com/joeychilson/paperoutline/pdfsource"
	"github.com/joeychilson/paperoutline/render"
	"github.com/joeychilson/paperoutline/retry"
)

// Outline sources reported in results.
const (
	SourceEmbedded  = "embedded"
	SourceHeuristic = "heuristic"
	SourceNone      = "none"
)

// Result is the extracted outline of one paper.
type Result struct {
	ArxivID  string        `json:"arxiv_id"`
	Title    string        `json:"title,omitempty"`
	Abstract string        `json:"abstract,omitempty"`
	Source   string        `json:"source"`
	Markdown string        `json:"markdown"`
	Outline  []render.Node `json:"outline,omitempty"`
	HTML     string        `json:"html,omitempty"`
	CachedAt time.Time     `json:"cached_at,omitzero"`
}

// Client orchestrates metadata lookup, PDF download and outline extraction.
type Client struct {
	config  *config.Config
	arxiv   *arxiv.Client
	retrier *retry.Retrier
	cache   cache.Cache
	logger  logger.Logger
}

// New creates a Client with the given configuration, an in-memory cache and
// no logging.
func New(cfg *config.Config) (*Client, error) {
	if cfg == nil {
		cfg = config.New()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	f := fetcher.New(cfg.Fetch)

	return &Client{
		config:  cfg,
		arxiv:   arxiv.New(cfg.Arxiv, cfg.Fetch.GetUserAgent()),
		retrier: retry.New(f, cfg.Retry),
		cache:   cache.NewMemoryCache(cache.Config{TTL: cfg.Cache.GetTTL()}),
		logger:  logger.Noop(),
	}, nil
}

// NewFromFile creates a Client by loading configuration from a YAML file.
func NewFromFile(path string) (*Client, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return New(cfg)
}

// WithCache replaces the result cache.
func (c *Client) WithCache(cc cache.Cache) *Client {
	c.cache = cc
	return c
}

// WithLogger sets the logger.
func (c *Client) WithLogger(log logger.Logger) *Client {
	c.logger = log
	return c
}

// Close releases resources held by the client.
func (c *Client) Close() error {
	return c.cache.Close()
}

// Outline resolves an arXiv URL, downloads the paper's PDF and extracts its
// numbered outline. Results are cached by paper ID. A paper with no
// detectable headings is not an error; it yields a Result with an empty
// outline and Source set to "none".
func (c *Client) Outline(ctx context.Context, rawURL string) (*Result, error) {
	id, err := arxiv.IDFromURL(rawURL)
	if err != nil {
		return nil, err
	}

	if cached := c.lookupCache(ctx, id); cached != nil {
		return cached, nil
	}

	paper, err := c.arxiv.Metadata(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch metadata for %s: %w", id, err)
	}

	c.logger.Info("downloading pdf", "arxiv_id", id, "url", paper.PDFURL)
	resp, err := c.retrier.Fetch(ctx, paper.PDFURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download pdf for %s: %w", id, err)
	}

	doc, err := pdfsource.Open(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pdf for %s: %w", id, err)
	}

	result := c.Extract(doc)
	result.ArxivID = id
	result.Title = paper.Title
	result.Abstract = paper.Abstract

	c.storeCache(ctx, id, result)
	return result, nil
}

// Extract runs the outline pipeline over an already-parsed PDF source: the
// embedded outline when present, heuristic heading detection otherwise, then
// formatting, renumbering and display rendering.
func (c *Client) Extract(src pdfsource.Source) *Result {
	var candidates []heading.Candidate
	source := SourceEmbedded

	if entries := src.EmbeddedOutline(); len(entries) > 0 {
		for _, e := range entries {
			candidates = append(candidates, heading.Candidate{Level: e.Level, Text: e.Title, Page: e.Page})
		}
	} else {
		c.logger.Info("embedded outline not found; attempting heuristic extraction")
		source = SourceHeuristic
		candidates = heading.Extract(pdfsource.PageTexts(src, c.config.Extract.GetMaxPages()), heading.Options{
			MaxPages:            c.config.Extract.GetMaxPages(),
			RequireIntroduction: c.config.Extract.RequireIntroduction,
			Dedupe:              !c.config.Extract.KeepDuplicates,
		})
	}

	if len(candidates) == 0 {
		c.logger.Info("no headings found")
		return &Result{Source: SourceNone}
	}

	numbered := outline.Renumber(outline.Format(candidates), outline.RenumberOptions{
		ConclusionNumber:        c.config.Extract.ConclusionNumber,
		ComputeConclusionNumber: c.config.Extract.ComputeConclusionNumber,
	})

	maxDepth := c.config.Extract.GetMaxStyleDepth()
	return &Result{
		Source:   source,
		Markdown: numbered.Markdown(),
		Outline:  render.TreeMaxDepth(numbered, maxDepth),
		HTML:     render.HTMLMaxDepth(numbered, maxDepth),
	}
}

// lookupCache returns a cached result for the paper ID, or nil.
func (c *Client) lookupCache(ctx context.Context, id string) *Result {
	entry, err := c.cache.Get(ctx, id)
	if err != nil {
		c.logger.Warn("cache get failed", "arxiv_id", id, "error", err)
		return nil
	}
	if entry == nil {
		return nil
	}

	var result Result
	if err := json.Unmarshal(entry.Data, &result); err != nil {
		c.logger.Warn("cache entry corrupt, dropping", "arxiv_id", id, "error", err)
		_ = c.cache.Delete(ctx, id)
		return nil
	}
	result.CachedAt = entry.StoredAt

	c.logger.Info("cache hit", "arxiv_id", id)
	return &result
}

// storeCache stores a result; failures are logged, never fatal.
func (c *Client) storeCache(ctx context.Context, id string, result *Result) {
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn("failed to marshal result for cache", "arxiv_id", id, "error", err)
		return
	}
	if err := c.cache.Set(ctx, &cache.Entry{Key: id, Data: data}); err != nil {
		c.logger.Warn("cache set failed", "arxiv_id", id, "error", err)
	}
}
