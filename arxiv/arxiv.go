package arxiv

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/joeychilson/paperoutline/config"
)

// ErrNotFound is returned when arXiv has no paper for the requested ID.
var ErrNotFound = errors.New("arxiv: paper not found")

// idPattern extracts the paper identifier from abs/ and pdf/ URLs.
var idPattern = regexp.MustCompile(`arxiv\.org/(?:abs|pdf)/([^\s?#/]+)`)

// Paper holds the metadata the outline pipeline needs.
type Paper struct {
	ID       string
	Title    string
	Abstract string
	PDFURL   string
}

// IDFromURL resolves an arXiv paper identifier from an abstract or PDF URL.
func IDFromURL(rawURL string) (string, error) {
	m := idPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", fmt.Errorf("could not extract arXiv ID from %q", rawURL)
	}
	return strings.TrimSuffix(m[1], ".pdf"), nil
}

// Client looks up paper metadata from the arXiv Atom API. A single shared
// limiter paces requests; arXiv asks clients to stay around one request every
// three seconds.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
}

// New creates an arXiv metadata client.
func New(cfg config.ArxivConfig, userAgent string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    cfg.GetBaseURL(),
		userAgent:  userAgent,
		limiter:    rate.NewLimiter(rate.Every(cfg.GetRequestInterval()), 1),
	}
}

// atom feed shapes, only the fields the lookup needs.
type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID      string     `xml:"id"`
	Title   string     `xml:"title"`
	Summary string     `xml:"summary"`
	Links   []atomLink `xml:"link"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

// Metadata fetches title, abstract and PDF location for a paper ID.
func (c *Client) Metadata(ctx context.Context, id string) (*Paper, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	reqURL := c.baseURL + "?id_list=" + url.QueryEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("metadata request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("metadata request failed: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var feed atomFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("failed to parse atom feed: %w", err)
	}

	if len(feed.Entries) == 0 {
		return nil, ErrNotFound
	}

	entry := feed.Entries[0]
	title := collapseWhitespace(entry.Title)
	// The API reports unknown IDs as an entry titled "Error".
	if title == "Error" || strings.Contains(entry.ID, "api/errors") {
		return nil, ErrNotFound
	}

	paper := &Paper{
		ID:       id,
		Title:    title,
		Abstract: collapseWhitespace(entry.Summary),
		PDFURL:   pdfLink(entry.Links),
	}
	if paper.PDFURL == "" {
		paper.PDFURL = "https://arxiv.org/pdf/" + id
	}
	return paper, nil
}

// pdfLink picks the PDF link out of an entry's link list.
func pdfLink(links []atomLink) string {
	for _, l := range links {
		if l.Title == "pdf" || l.Type == "application/pdf" {
			return l.Href
		}
	}
	return ""
}

// collapseWhitespace flattens the newline-wrapped text arXiv returns in
// titles and abstracts.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
