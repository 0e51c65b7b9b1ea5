// Package render converts documentation HTML fragments to Markdown.
//
// Rendering is driven by an ordered, immutable rule table (see Rules).
// Code blocks become four-space indented blocks, documentation links are
// rewritten to point at the generated Markdown, and anything no rule
// claims is handled by html-to-markdown's CommonMark conversion.
//
// A Renderer holds no mutable state and may be used from several
// goroutines at once.
package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tesh254/pbdocs/internal/site"
)

// Renderer renders HTML fragments of one documentation site.
type Renderer struct {
	site  site.Site
	links *Links
	rules Rules
}

// New returns a Renderer using DefaultRules.
func New(s site.Site) *Renderer {
	return &Renderer{site: s, links: NewLinks(s), rules: DefaultRules()}
}

// NewWithRules returns a Renderer using a custom rule table.
func NewWithRules(s site.Site, rules Rules) (*Renderer, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	own := make(Rules, len(rules))
	copy(own, rules)
	return &Renderer{site: s, links: NewLinks(s), rules: own}, nil
}

// Render converts fragment to Markdown. A non-empty sectionID selects
// bundle mode: anchors are namespaced with it, every heading with an id is
// preceded by an HTML anchor of that id, and documentation links point
// into the bundled document instead of at sibling files.
func (r *Renderer) Render(fragment, sectionID string) (string, error) {
	env := Env{Site: r.site, Links: r.links, SectionID: sectionID}

	body, err := parseFragment(fragment)
	if err != nil {
		return "", fmt.Errorf("parse fragment: %w", err)
	}
	NamespaceAnchors(body, sectionID)

	p := &pass{}
	if sectionID != "" {
		p.headingAnchors(body)
	}
	p.extract(body, r.rules, env)

	var buf bytes.Buffer
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("serialize fragment: %w", err)
		}
	}

	md, err := r.converter(env).ConvertString(buf.String())
	if err != nil {
		return "", fmt.Errorf("convert to markdown: %w", err)
	}
	return p.restore(strings.TrimSpace(md)), nil
}

// converter builds a converter for one render call. Each tag with
// conversion-time rules gets an early renderer that tries those rules in
// table order and otherwise defers to the CommonMark defaults.
func (r *Renderer) converter(env Env) *converter.Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithHeadingStyle(commonmark.HeadingStyleATX),
			),
			table.NewTablePlugin(),
		),
	)

	for _, t := range r.rules.converterTags() {
		tagType := converter.TagTypeInline
		if t.block {
			tagType = converter.TagTypeBlock
		}
		tag := t.tag
		conv.Register.RendererFor(tag, tagType, func(ctx converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
			for _, rule := range r.rules {
				if rule.Verbatim || rule.Tag != tag || !rule.Match(n) {
					continue
				}
				var content bytes.Buffer
				ctx.RenderChildNodes(ctx, &content, n)
				w.WriteString(rule.Render(n, content.String(), env))
				return converter.RenderSuccess
			}
			return converter.RenderTryNext
		}, converter.PriorityEarly)
	}
	return conv
}

func parseFragment(fragment string) (*html.Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}
	return body, nil
}

// pass holds the verbatim blocks of a single render call.
type pass struct {
	blocks []string
}

func placeholder(i int) string {
	return fmt.Sprintf("PBDOCSVERBATIM%dEND", i)
}

var (
	// placeholderLine matches a placeholder alone on its line, behind
	// optional quote/indent prefix and an optional list marker.
	placeholderLine = regexp.MustCompile(`(?m)^([ \t>]*)(?:([-*+]|\d{1,9}[.)])[ \t]+)?PBDOCSVERBATIM(\d+)END[ \t]*$`)
	placeholderAny  = regexp.MustCompile(`PBDOCSVERBATIM(\d+)END`)
)

// insert puts a placeholder paragraph for out before c.
func (p *pass) insert(parent, c *html.Node, out string) {
	ph := &html.Node{Type: html.ElementNode, Data: "p", DataAtom: atom.P}
	ph.AppendChild(&html.Node{Type: html.TextNode, Data: placeholder(len(p.blocks))})
	p.blocks = append(p.blocks, out)
	parent.InsertBefore(ph, c)
}

// headingAnchors places an HTML anchor carrying the heading's id before
// every heading under root. Markdown headings have no ids of their own.
func (p *pass) headingAnchors(root *html.Node) {
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && headingTags[c.DataAtom] {
			if id, ok := attr(c, "id"); ok && id != "" {
				p.insert(root, c, `<a id="`+html.EscapeString(id)+`"></a>`)
			}
			continue
		}
		p.headingAnchors(c)
	}
}

// extract applies verbatim rules to the DOM under root. A matched node is
// replaced by a placeholder paragraph, or removed when the rule renders
// nothing; its subtree is not visited.
func (p *pass) extract(root *html.Node, rules Rules, env Env) {
	for c := root.FirstChild; c != nil; {
		next := c.NextSibling
		rule, ok := rules.match(c)
		if !ok || !rule.Verbatim {
			p.extract(c, rules, env)
			c = next
			continue
		}

		out := strings.Trim(rule.Render(c, "", env), "\n")
		if strings.TrimSpace(out) != "" {
			p.insert(root, c, out)
		}
		root.RemoveChild(c)
		c = next
	}
}

func (p *pass) block(index string) (string, bool) {
	i, err := strconv.Atoi(index)
	if err != nil || i >= len(p.blocks) {
		return "", false
	}
	return p.blocks[i], true
}

// restore puts the verbatim blocks back. A placeholder on its own line
// keeps the line's quote or list indentation on every line of the block;
// after a list marker the block continues at the item's content column.
func (p *pass) restore(md string) string {
	if len(p.blocks) == 0 {
		return md
	}
	md = placeholderLine.ReplaceAllStringFunc(md, func(m string) string {
		sub := placeholderLine.FindStringSubmatch(m)
		block, ok := p.block(sub[3])
		if !ok {
			return m
		}
		prefix, marker := sub[1], sub[2]
		if marker == "" {
			if prefix == "" {
				return block
			}
			return prefix + strings.ReplaceAll(block, "\n", "\n"+prefix)
		}
		indent := prefix + strings.Repeat(" ", len(marker)+1)
		return prefix + marker + " " + strings.ReplaceAll(block, "\n", "\n"+indent)
	})
	return placeholderAny.ReplaceAllStringFunc(md, func(m string) string {
		if block, ok := p.block(placeholderAny.FindStringSubmatch(m)[1]); ok {
			return block
		}
		return m
	})
}
