// Package site describes the documentation website being crawled: where
// its pages live, how page slugs are derived from URLs, and the canonical
// titles and order used when pages are bundled into one document.
package site

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// Site holds the fixed facts about a documentation site.
type Site struct {
	// Scheme and Host locate the site, e.g. "https" and "pocketbase.io".
	Scheme string
	Host   string
	// DocsPath is the path prefix of every documentation page, with
	// leading and trailing slashes.
	DocsPath string
	// SlugPrefix is the prefix every crawled page slug starts with.
	SlugPrefix string
	// EntrySlug is the page the crawl starts from.
	EntrySlug string
}

// Section is one page of the bundled document.
type Section struct {
	ID    string
	Title string
}

// PocketBaseJS returns the PocketBase JavaScript documentation site.
func PocketBaseJS() Site {
	return Site{
		Scheme:     "https",
		Host:       "pocketbase.io",
		DocsPath:   "/docs/",
		SlugPrefix: "js-",
		EntrySlug:  "js-overview",
	}
}

var titles = map[string]string{
	"js-overview":              "JavaScript SDK Overview",
	"js-event-hooks":           "Event Hooks",
	"js-routing":               "Routing",
	"js-database":              "Database",
	"js-records":               "Record Operations",
	"js-collections":           "Collection Operations",
	"js-migrations":            "Migrations",
	"js-jobs-scheduling":       "Jobs Scheduling",
	"js-sending-emails":        "Sending Emails",
	"js-rendering-templates":   "Rendering Templates",
	"js-console-commands":      "Console Commands",
	"js-sending-http-requests": "Sending HTTP Requests",
	"js-realtime":              "Realtime Messaging",
	"js-filesystem":            "Filesystem",
	"js-logging":               "Logging",
}

var order = []string{
	"js-overview",
	"js-event-hooks",
	"js-routing",
	"js-database",
	"js-records",
	"js-collections",
	"js-migrations",
	"js-jobs-scheduling",
	"js-sending-emails",
	"js-rendering-templates",
	"js-console-commands",
	"js-sending-http-requests",
	"js-realtime",
	"js-filesystem",
	"js-logging",
}

// EntryURL returns the URL of the entry page.
func (s Site) EntryURL() string {
	return s.PageURL(s.EntrySlug)
}

// PageURL returns the absolute URL of the page with the given slug.
func (s Site) PageURL(slug string) string {
	return s.Scheme + "://" + s.Host + s.DocsPath + slug + "/"
}

// pagePrefix is the path prefix shared by all crawled pages.
func (s Site) pagePrefix() string {
	return s.DocsPath + s.SlugPrefix
}

func (s Site) slugPattern() *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(s.pagePrefix()) + `[^/]*`)
}

// SlugFromURL extracts the page slug from a documentation URL. The query
// and fragment are ignored.
func (s Site) SlugFromURL(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	m := s.slugPattern().FindString(u.Path)
	if m == "" {
		return "", false
	}
	return strings.TrimPrefix(m, s.DocsPath), true
}

// IsPageURL reports whether rawURL points at a crawlable page of this
// site. Relative URLs count as same-host.
func (s Site) IsPageURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Host != "" && !strings.EqualFold(u.Host, s.Host) {
		return false
	}
	return strings.Contains(u.Path, s.pagePrefix())
}

// Title returns the catalog title for a slug, or the slug itself.
func (s Site) Title(slug string) string {
	if t, ok := titles[slug]; ok {
		return t
	}
	return slug
}

// Rank returns the position of slug in the canonical order.
func (s Site) Rank(slug string) (int, bool) {
	for i, id := range order {
		if id == slug {
			return i, true
		}
	}
	return 0, false
}

// SortSections orders sections canonically. Sections not in the catalog
// go after the known ones, not before them, and keep their relative
// order, so a page new to the site never pushes the overview off the top.
func (s Site) SortSections(sections []Section) {
	sort.SliceStable(sections, func(i, j int) bool {
		ri, oki := s.Rank(sections[i].ID)
		rj, okj := s.Rank(sections[j].ID)
		switch {
		case oki && okj:
			return ri < rj
		case oki:
			return true
		default:
			return false
		}
	})
}
