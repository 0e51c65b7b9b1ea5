package render

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var headingTags = map[atom.Atom]bool{
	atom.H1: true,
	atom.H2: true,
	atom.H3: true,
	atom.H4: true,
	atom.H5: true,
	atom.H6: true,
}

// NamespaceAnchors prefixes heading ids and fragment-only link targets
// under root (root included) with sectionID, so that anchors from several
// pages stay unique once the pages are concatenated. A bare "#" is left
// alone.
func NamespaceAnchors(root *html.Node, sectionID string) {
	if sectionID == "" {
		return
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case headingTags[n.DataAtom]:
				if id, ok := attr(n, "id"); ok && id != "" {
					setAttr(n, "id", sectionID+"-"+id)
				}
			case n.DataAtom == atom.A:
				if href, ok := attr(n, "href"); ok && strings.HasPrefix(href, "#") && len(href) > 1 {
					setAttr(n, "href", "#"+sectionID+"-"+href[1:])
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
}
