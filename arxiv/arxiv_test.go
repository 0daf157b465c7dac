package arxiv

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeychilson/paperoutline/config"
)

// TestIDFromURL verifies identifier extraction from abs and pdf URLs.
func TestIDFromURL(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{"https://arxiv.org/abs/2301.00001", "2301.00001", false},
		{"https://arxiv.org/abs/2301.00001v2", "2301.00001v2", false},
		{"https://arxiv.org/pdf/2301.00001", "2301.00001", false},
		{"https://arxiv.org/pdf/2301.00001.pdf", "2301.00001", false},
		{"http://arxiv.org/abs/2301.00001?context=cs", "2301.00001", false},
		{"https://example.com/paper.pdf", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := IDFromURL(tt.url)
		if tt.wantErr {
			assert.Error(t, err, "url: %s", tt.url)
			continue
		}
		require.NoError(t, err, "url: %s", tt.url)
		assert.Equal(t, tt.want, got, "url: %s", tt.url)
	}
}

const feedTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2301.00001v1</id>
    <title>Attention Is
    All You Need</title>
    <summary>  We propose a new
    architecture.  </summary>
    <link href="http://arxiv.org/abs/2301.00001v1" rel="alternate" type="text/html"/>
    <link title="pdf" href="http://arxiv.org/pdf/2301.00001v1" rel="related" type="application/pdf"/>
  </entry>
</feed>`

const emptyFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom"></feed>`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	return New(config.ArxivConfig{
		BaseURL:         ts.URL,
		RequestInterval: time.Millisecond,
	}, "paperoutline-test/1.0")
}

// TestMetadata verifies title/abstract whitespace collapsing and PDF link
// selection.
func TestMetadata(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("id_list")
		w.Write([]byte(feedTemplate))
	})

	paper, err := c.Metadata(context.Background(), "2301.00001")

	require.NoError(t, err)
	assert.Equal(t, "2301.00001", gotQuery)
	assert.Equal(t, "Attention Is All You Need", paper.Title)
	assert.Equal(t, "We propose a new architecture.", paper.Abstract)
	assert.Equal(t, "http://arxiv.org/pdf/2301.00001v1", paper.PDFURL)
}

// TestMetadataNotFound verifies an empty feed maps to ErrNotFound.
func TestMetadataNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(emptyFeed))
	})

	_, err := c.Metadata(context.Background(), "9999.99999")

	assert.ErrorIs(t, err, ErrNotFound)
}

// TestMetadataServerError verifies non-200 responses surface as errors.
func TestMetadataServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Metadata(context.Background(), "2301.00001")

	assert.Error(t, err)
}

// TestMetadataPDFURLFallback verifies the canonical PDF URL is derived when
// the feed carries no pdf link.
func TestMetadataPDFURLFallback(t *testing.T) {
	const noLinkFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2301.00001v1</id>
    <title>Some Paper</title>
    <summary>Abstract.</summary>
  </entry>
</feed>`

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(noLinkFeed))
	})

	paper, err := c.Metadata(context.Background(), "2301.00001")

	require.NoError(t, err)
	assert.Equal(t, "https://arxiv.org/pdf/2301.00001", paper.PDFURL)
}
