package crawl

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tesh254/pbdocs/internal/render"
	"github.com/tesh254/pbdocs/internal/site"
)

// Bundle crawls the site and writes every page into a single document
// named name, headed by title and a table of contents. Sections follow
// the site's canonical order.
func (c *Crawler) Bundle(ctx context.Context, name, title string) (*Report, error) {
	report, log, pacer := c.start(ModeBundle)
	c.displayCrawlStart(report)
	defer c.finish(report)

	entry, links, err := c.fetchEntry(ctx, log, pacer)
	if err != nil {
		return report, err
	}

	sections := []site.Section{{ID: c.Site.EntrySlug, Title: c.Site.Title(c.Site.EntrySlug)}}
	urls := map[string]string{c.Site.EntrySlug: entry.URL}
	for _, link := range links {
		slug, ok := c.Site.SlugFromURL(link)
		if !ok {
			continue
		}
		if _, dup := urls[slug]; dup {
			continue
		}
		urls[slug] = link
		sections = append(sections, site.Section{ID: slug, Title: c.Site.Title(slug)})
	}
	c.Site.SortSections(sections)

	var doc strings.Builder
	fmt.Fprintf(&doc, "# %s\n\n", title)
	doc.WriteString("# Table of Contents\n\n")
	doc.WriteString(render.TableOfContents(sections))
	doc.WriteString("\n---\n\n")

	for _, sec := range sections {
		pageLog := log.WithFields(logrus.Fields{"url": urls[sec.ID], "slug": sec.ID})

		page := entry
		res := PageResult{URL: entry.URL, Slug: sec.ID, Title: sec.Title}
		if sec.ID != c.Site.EntrySlug {
			page, res, err = c.fetch(ctx, pageLog, pacer, urls[sec.ID], sec.ID)
			if err != nil {
				return report, err
			}
			if res.Status != statusPending {
				report.add(res)
				continue
			}
		}

		if md := c.renderPage(pageLog, page, sec.ID, &res); md != "" {
			writeSection(&doc, sec, md)
		}
		report.add(res)
	}

	if err := c.Store.Write(name, doc.String()); err != nil {
		return report, fmt.Errorf("failed to save bundle: %w", err)
	}
	report.Output = name
	log.WithFields(logrus.Fields{
		"file":     name,
		"sections": report.Saved(),
		"skipped":  report.Skipped(),
		"failed":   report.Failed(),
	}).Info("saved complete documentation")
	return report, nil
}

func writeSection(doc *strings.Builder, sec site.Section, md string) {
	fmt.Fprintf(doc, "<a id=\"%s\"></a>\n\n", sec.ID)
	fmt.Fprintf(doc, "# %s\n\n", sec.Title)
	doc.WriteString(md)
	doc.WriteString("\n\n---\n\n")
}
