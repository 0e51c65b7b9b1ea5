// Package crawl drives a documentation crawl: it fetches the entry page,
// discovers the linked pages, renders each one and writes the Markdown,
// either as one file per page or as a single bundled document.
//
// Pages are processed one at a time with a fixed delay between fetches.
// A page that fails to load, has no content or cannot be written is
// logged and skipped; only a failure to load the entry page ends the run.
package crawl

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/tesh254/pbdocs/internal/scraper"
	"github.com/tesh254/pbdocs/internal/site"
	"github.com/tesh254/pbdocs/internal/storage"
)

// DefaultDelay is the pause between two page fetches.
const DefaultDelay = 500 * time.Millisecond

// Renderer converts a page's content HTML to Markdown. sectionID is empty
// for standalone pages.
type Renderer interface {
	Render(fragment, sectionID string) (string, error)
}

// Crawler holds the collaborators of a crawl run.
type Crawler struct {
	Site     site.Site
	Fetcher  scraper.Fetcher
	Renderer Renderer
	Store    storage.Writer
	// Delay is the minimum time between two fetches; zero means no pause.
	Delay time.Duration
	Log   logrus.FieldLogger
	// Out receives the console summary; nil disables it.
	Out io.Writer
}

func (c *Crawler) start(mode Mode) (*Report, *logrus.Entry, *rate.Limiter) {
	report := &Report{
		RunID:   uuid.New().String(),
		Mode:    mode,
		Started: time.Now(),
	}

	log := c.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	entry := log.WithFields(logrus.Fields{"run_id": report.RunID, "mode": mode})

	limit := rate.Inf
	if c.Delay > 0 {
		limit = rate.Every(c.Delay)
	}
	return report, entry, rate.NewLimiter(limit, 1)
}

func (c *Crawler) finish(report *Report) {
	report.Finished = time.Now()
	c.displayCrawlEnd(report)
}

// fetchEntry loads the entry page and the links it points to.
func (c *Crawler) fetchEntry(ctx context.Context, log *logrus.Entry, pacer *rate.Limiter) (*scraper.Page, []string, error) {
	entryURL := c.Site.EntryURL()
	if err := pace(ctx, pacer); err != nil {
		return nil, nil, err
	}
	log.WithField("url", entryURL).Info("crawling entry page")
	page, err := c.Fetcher.Fetch(ctx, entryURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch entry page %s: %w", entryURL, err)
	}
	if page == nil {
		page = &scraper.Page{URL: entryURL}
	}

	links := scraper.DiscoverLinks(page, c.Site)
	log.Infof("found %d documentation pages", len(links))
	return page, links, nil
}

// fetch loads one page. The result stays pending when the page is ready
// to render; otherwise its status is final and the page is nil.
func (c *Crawler) fetch(ctx context.Context, log *logrus.Entry, pacer *rate.Limiter, pageURL, slug string) (*scraper.Page, PageResult, error) {
	res := PageResult{URL: pageURL, Slug: slug, Title: c.Site.Title(slug)}
	if err := pace(ctx, pacer); err != nil {
		return nil, res, err
	}

	log.Info("crawling page")
	page, err := c.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, res, ctx.Err()
		}
		log.WithError(err).Error("failed to crawl page")
		res.Status = StatusFailed
		res.Err = err
		return nil, res, nil
	}
	if page == nil {
		log.Warn("no content found")
		res.Status = StatusSkipped
		return nil, res, nil
	}
	return page, res, nil
}

// renderPage renders a fetched page. A page without content is marked
// skipped and yields "".
func (c *Crawler) renderPage(log *logrus.Entry, page *scraper.Page, sectionID string, res *PageResult) string {
	if !page.HasContent() {
		log.Warn("no content found")
		res.Status = StatusSkipped
		return ""
	}
	md, err := c.Renderer.Render(page.Content, sectionID)
	if err != nil {
		log.WithError(err).Error("failed to render page")
		res.Status = StatusFailed
		res.Err = err
		return ""
	}
	res.Bytes = len(md)
	res.Status = StatusSaved
	return md
}

func pace(ctx context.Context, pacer *rate.Limiter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return pacer.Wait(ctx)
}
