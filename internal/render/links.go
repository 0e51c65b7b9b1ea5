package render

import (
	"regexp"
	"strings"

	"github.com/tesh254/pbdocs/internal/site"
)

// LinkKind classifies an anchor's href.
type LinkKind int

const (
	// LinkExternal is anything that is not a documentation page or a
	// same-page anchor. It is never rewritten.
	LinkExternal LinkKind = iota
	// LinkAbsoluteDoc is a full URL of a documentation page.
	LinkAbsoluteDoc
	// LinkRelativeDoc is a root-relative path of a documentation page.
	LinkRelativeDoc
	// LinkAnchor is a fragment-only reference such as "#install".
	LinkAnchor
)

func (k LinkKind) String() string {
	switch k {
	case LinkAbsoluteDoc:
		return "absolute-doc-link"
	case LinkRelativeDoc:
		return "relative-doc-link"
	case LinkAnchor:
		return "same-page-anchor"
	default:
		return "external"
	}
}

// Links classifies and rewrites hrefs for one site.
type Links struct {
	absolute *regexp.Regexp
	relative *regexp.Regexp
}

// NewLinks compiles the documentation-page patterns for s.
func NewLinks(s site.Site) *Links {
	slug := "(" + regexp.QuoteMeta(s.SlugPrefix) + `[^/#]*)`
	return &Links{
		absolute: regexp.MustCompile(`^https?://` + regexp.QuoteMeta(s.Host+s.DocsPath) + slug),
		relative: regexp.MustCompile(`^` + regexp.QuoteMeta(s.DocsPath) + slug),
	}
}

// Classify returns the kind of href and, for documentation links, the
// slug of the target page.
func (l *Links) Classify(href string) (LinkKind, string) {
	if m := l.absolute.FindStringSubmatch(href); m != nil {
		return LinkAbsoluteDoc, m[1]
	}
	if m := l.relative.FindStringSubmatch(href); m != nil {
		return LinkRelativeDoc, m[1]
	}
	if strings.HasPrefix(href, "#") {
		return LinkAnchor, ""
	}
	return LinkExternal, ""
}

// Rewrite returns the Markdown link target for href. Documentation links
// point at the page's file when sectionID is empty, and at the page's
// anchor in the bundled document otherwise. Same-page anchors are left
// as they are; NamespaceAnchors has already prefixed them in bundle mode.
func (l *Links) Rewrite(href, sectionID string) string {
	kind, slug := l.Classify(href)
	switch kind {
	case LinkAbsoluteDoc, LinkRelativeDoc:
		if sectionID == "" {
			return "./" + slug + ".md"
		}
		return "#" + slug
	default:
		return href
	}
}
