// Package scraper fetches documentation pages and extracts their content.
//
// This package offers two fetchers behind a common interface: a headless
// browser fetcher that sees pages the way a reader does (client-side
// rendering included) and a plain HTTP fetcher for sites that serve their
// content statically. Both return a Page holding the full document and the
// HTML of the configured content region.
package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/tesh254/pbdocs/internal/site"
)

// Config holds configuration options for the fetchers.
type Config struct {
	// UserAgent is the User-Agent header value sent with every request
	UserAgent string
	// Timeout bounds a single page navigation, including rendering
	Timeout time.Duration
	// ContentSelector is the CSS selector of the page's content region
	ContentSelector string
}

// DefaultConfig returns a default configuration with reasonable values.
//
// Returns:
//   - A Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		UserAgent:       "Mozilla/5.0 (compatible; PbdocsScraper/1.0)",
		Timeout:         30 * time.Second,
		ContentSelector: ".page-content",
	}
}

// Page is one fetched documentation page.
type Page struct {
	// URL is the address the page was requested from
	URL string
	// Title is the content of the <title> tag
	Title string
	// Document is the full HTML of the page
	Document string
	// Content is the inner HTML of the content region, empty if the
	// region was not found
	Content string
}

// HasContent reports whether the page's content region was found and is
// not empty.
func (p *Page) HasContent() bool {
	return p != nil && strings.TrimSpace(p.Content) != ""
}

// Fetcher loads a page by URL. A page without a content region is not an
// error; callers check HasContent. A nil page with a nil error counts as
// a page without content.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}

// NewPage parses a fetched document and extracts its content region.
//
// Parameters:
//   - pageURL: The URL the document was fetched from
//   - document: The full HTML of the page
//   - selector: CSS selector of the content region
//
// Returns:
//   - The Page, or an error if the document cannot be parsed
func NewPage(pageURL, document, selector string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	page := &Page{
		URL:      pageURL,
		Title:    strings.TrimSpace(doc.Find("title").First().Text()),
		Document: document,
	}

	region := doc.Find(selector).First()
	if region.Length() == 0 {
		return page, nil
	}
	content, err := region.Html()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize content region: %w", err)
	}
	page.Content = content
	return page, nil
}

// DiscoverLinks returns the documentation pages linked from page.
//
// Every href is resolved against the page URL and stripped of its
// fragment. Only pages of s are kept, the entry page is excluded, and
// duplicates (a trailing slash does not count) are dropped while keeping
// the order links first appear in.
//
// Parameters:
//   - page: The fetched page to scan
//   - s: The documentation site the links must belong to
//
// Returns:
//   - The discovered absolute URLs
func DiscoverLinks(page *Page, s site.Site) []string {
	if page == nil || page.Document == "" {
		return nil
	}
	base, err := url.Parse(page.URL)
	if err != nil {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.Document))
	if err != nil {
		return nil
	}

	entry := normalizeURL(s.EntryURL())
	seen := make(map[string]bool)
	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)
		resolved.Fragment = ""
		resolved.RawFragment = ""
		full := resolved.String()
		key := normalizeURL(full)
		if !s.IsPageURL(full) || key == entry || seen[key] {
			return
		}
		seen[key] = true
		links = append(links, full)
	})
	return links
}

// normalizeURL treats "/docs/js-overview" and "/docs/js-overview/" as the
// same page.
func normalizeURL(u string) string {
	return strings.TrimSuffix(u, "/")
}
