package render

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tesh254/pbdocs/internal/site"
)

// Env is what a rule may know about the render call besides the node.
type Env struct {
	Site  site.Site
	Links *Links
	// SectionID is empty when rendering a standalone page and holds the
	// page slug when rendering a section of the bundled document.
	SectionID string
}

// Rule renders one node shape.
type Rule struct {
	Name string
	// Tag is the element name the rule applies to.
	Tag string
	// Block marks Tag as a block element for the converter.
	Block bool
	// Verbatim rules run on the parsed DOM before conversion and their
	// output is kept byte for byte. Their content argument is always "".
	Verbatim bool
	Match    func(n *html.Node) bool
	// Render returns the Markdown for n. content is n's children already
	// rendered by the full rule set.
	Render func(n *html.Node, content string, env Env) string
}

// Rules is an ordered rule table. For a given node the first matching rule
// wins.
type Rules []Rule

// ErrRuleOrder is returned by Validate when a code wrapper rule comes after
// a rule for preformatted elements.
var ErrRuleOrder = errors.New("render: code-wrapper rule must precede pre rules")

// DefaultRules returns the built-in table: code blocks first, the
// code-wrapper ahead of both pre shapes, then documentation links.
func DefaultRules() Rules {
	return Rules{
		{
			Name:     "code-wrapper",
			Tag:      "div",
			Block:    true,
			Verbatim: true,
			Match:    func(n *html.Node) bool { return hasClass(n, "code-wrapper") },
			Render: func(n *html.Node, _ string, env Env) string {
				if code := firstDescendant(n, atom.Code); code != nil {
					return renderCode(code, "", env)
				}
				return renderCode(n, "", env)
			},
		},
		{
			Name:     "pre-code",
			Tag:      "pre",
			Block:    true,
			Verbatim: true,
			Match:    func(n *html.Node) bool { return soleCodeChild(n) != nil },
			Render: func(n *html.Node, _ string, env Env) string {
				return renderCode(soleCodeChild(n), "", env)
			},
		},
		{
			Name:     "pre",
			Tag:      "pre",
			Block:    true,
			Verbatim: true,
			Match:    func(*html.Node) bool { return true },
			Render:   renderCode,
		},
		{
			Name: "doc-link",
			Tag:  "a",
			Match: func(n *html.Node) bool {
				href, ok := attr(n, "href")
				return ok && href != ""
			},
			Render: renderLink,
		},
	}
}

// Validate checks that every rule is complete and that the code-wrapper
// rule, if present, is tried before any rule for pre elements.
func (rs Rules) Validate() error {
	wrapper, firstPre := -1, -1
	for i, r := range rs {
		if r.Tag == "" || r.Match == nil || r.Render == nil {
			return fmt.Errorf("render: rule %d (%q) is incomplete", i, r.Name)
		}
		if r.Name == "code-wrapper" && wrapper < 0 {
			wrapper = i
		}
		if r.Tag == "pre" && firstPre < 0 {
			firstPre = i
		}
	}
	if wrapper >= 0 && firstPre >= 0 && wrapper > firstPre {
		return ErrRuleOrder
	}
	return nil
}

// match returns the first rule matching n.
func (rs Rules) match(n *html.Node) (Rule, bool) {
	if n.Type != html.ElementNode {
		return Rule{}, false
	}
	for _, r := range rs {
		if r.Tag == n.Data && r.Match(n) {
			return r, true
		}
	}
	return Rule{}, false
}

type tagRule struct {
	tag   string
	block bool
}

// converterTags lists, in table order, the tags that have at least one
// rule applied during conversion.
func (rs Rules) converterTags() []tagRule {
	var tags []tagRule
	seen := make(map[string]bool)
	for _, r := range rs {
		if r.Verbatim || seen[r.Tag] {
			continue
		}
		seen[r.Tag] = true
		tags = append(tags, tagRule{tag: r.Tag, block: r.Block})
	}
	return tags
}

func renderCode(n *html.Node, _ string, _ Env) string {
	return indentCode(innerText(n))
}

func renderLink(n *html.Node, content string, env Env) string {
	href, _ := attr(n, "href")
	return "[" + strings.TrimSpace(content) + "](" + env.Links.Rewrite(href, env.SectionID) + ")"
}

// soleCodeChild returns the code element if it is the only element child
// of a pre, ignoring whitespace between tags.
func soleCodeChild(pre *html.Node) *html.Node {
	var code *html.Node
	for c := pre.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			if c.DataAtom != atom.Code || code != nil {
				return nil
			}
			code = c
		case html.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				return nil
			}
		}
	}
	return code
}

// firstDescendant returns the first element under n, in document order,
// with the given tag.
func firstDescendant(n *html.Node, a atom.Atom) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			return c
		}
		if d := firstDescendant(c, a); d != nil {
			return d
		}
	}
	return nil
}
