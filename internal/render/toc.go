package render

import (
	"fmt"
	"strings"

	"github.com/tesh254/pbdocs/internal/site"
)

// TableOfContents lists sections as Markdown links to their anchors. The
// first entry is unindented, the rest are nested one level under it.
func TableOfContents(sections []site.Section) string {
	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("  ")
		}
		fmt.Fprintf(&b, "- [%s](#%s)\n", s.Title, s.ID)
	}
	return b.String()
}
