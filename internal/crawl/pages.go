package crawl

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/tesh254/pbdocs/internal/scraper"
)

// Pages crawls the site and writes one "<slug>.md" file per page.
func (c *Crawler) Pages(ctx context.Context) (*Report, error) {
	report, log, pacer := c.start(ModePages)
	c.displayCrawlStart(report)
	defer c.finish(report)

	entry, links, err := c.fetchEntry(ctx, log, pacer)
	if err != nil {
		return report, err
	}
	report.add(c.savePage(log, entry, c.Site.EntrySlug))

	for _, link := range links {
		slug, ok := c.Site.SlugFromURL(link)
		if !ok || slug == c.Site.EntrySlug {
			continue
		}
		pageLog := log.WithFields(logrus.Fields{"url": link, "slug": slug})
		page, res, err := c.fetch(ctx, pageLog, pacer, link, slug)
		if err != nil {
			return report, err
		}
		if res.Status != statusPending {
			report.add(res)
			continue
		}
		report.add(c.savePage(pageLog, page, slug))
	}

	log.WithFields(logrus.Fields{
		"saved":   report.Saved(),
		"skipped": report.Skipped(),
		"failed":  report.Failed(),
	}).Info("crawling completed")
	return report, nil
}

// savePage renders page as a standalone document and writes it.
func (c *Crawler) savePage(log *logrus.Entry, page *scraper.Page, slug string) PageResult {
	res := PageResult{URL: page.URL, Slug: slug, Title: c.Site.Title(slug)}
	md := c.renderPage(log, page, "", &res)
	if res.Status != StatusSaved {
		return res
	}

	name := slug + ".md"
	if err := c.Store.Write(name, md); err != nil {
		log.WithError(err).Error("failed to save page")
		res.Status = StatusFailed
		res.Err = err
		return res
	}
	log.WithField("file", name).Info("saved page")
	return res
}
