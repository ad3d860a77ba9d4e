// Package scraper fetches external URLs and extracts the semantic text used
// by similarity queries: page title, description and canonical URL.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/clearfact/artidex/internal/usecase/listarticles"
)

// ErrNoContent signals a page with nothing extractable. Callers treat it as
// an empty scrape and drop the URL.
var ErrNoContent = errors.New("scraper: no extractable content")

// urlPattern matches http(s) URLs embedded in free text.
var urlPattern = regexp.MustCompile(`https?://[^\s"'<>]+`)

// Config holds scraper settings.
type Config struct {
	Timeout      time.Duration
	MaxBodyBytes int64
	UserAgent    string
}

// Scraper fetches pages over HTTP and parses their metadata.
type Scraper struct {
	http      *http.Client
	maxBody   int64
	userAgent string
}

// New creates a scraper.
func New(cfg Config) *Scraper {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "artidex-scraper/1.0"
	}
	return &Scraper{
		http:      &http.Client{Timeout: cfg.Timeout},
		maxBody:   cfg.MaxBodyBytes,
		userAgent: cfg.UserAgent,
	}
}

// ExtractURLs returns every http(s) URL found in the given free text.
func (s *Scraper) ExtractURLs(text string) []string {
	return urlPattern.FindAllString(text, -1)
}

// Fetch retrieves one URL and extracts its semantic text. The reported URL
// is the final one after redirects; Canonical is the page's own declared
// canonical location, when present.
func (s *Scraper) Fetch(ctx context.Context, url string) (listarticles.ScrapeResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return listarticles.ScrapeResult{}, fmt.Errorf("scrape %s: %w", url, err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.http.Do(req)
	if err != nil {
		return listarticles.ScrapeResult{}, fmt.Errorf("scrape %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return listarticles.ScrapeResult{}, fmt.Errorf("scrape %s: status %d", url, resp.StatusCode)
	}

	meta, err := parsePage(io.LimitReader(resp.Body, s.maxBody))
	if err != nil {
		return listarticles.ScrapeResult{}, fmt.Errorf("scrape %s: %w", url, err)
	}

	result := listarticles.ScrapeResult{
		Title:     meta.title,
		Summary:   meta.summary,
		URL:       resp.Request.URL.String(),
		Canonical: meta.canonical,
	}
	if result.Title == "" && result.Summary == "" {
		return listarticles.ScrapeResult{}, ErrNoContent
	}
	return result, nil
}

// pageMeta is the metadata extracted from one HTML document.
type pageMeta struct {
	title     string
	summary   string
	canonical string
}

// parsePage walks the HTML tree once, collecting title, description and
// canonical link. Open Graph values win over plain meta tags.
func parsePage(r io.Reader) (pageMeta, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return pageMeta{}, fmt.Errorf("parse html: %w", err)
	}

	var meta pageMeta
	var metaDescription string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if meta.title == "" && n.FirstChild != nil {
					meta.title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				name := attr(n, "name")
				property := attr(n, "property")
				content := strings.TrimSpace(attr(n, "content"))
				switch {
				case property == "og:title" && content != "":
					meta.title = content
				case property == "og:description" && content != "":
					meta.summary = content
				case name == "description" && content != "":
					metaDescription = content
				}
			case "link":
				if attr(n, "rel") == "canonical" && attr(n, "href") != "" {
					meta.canonical = attr(n, "href")
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if meta.summary == "" {
		meta.summary = metaDescription
	}
	return meta, nil
}

// attr returns an attribute value from an HTML node, or "".
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
