package crawl

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const rule = "=============================================================================="

func (c *Crawler) displayCrawlStart(r *Report) {
	if c.Out == nil {
		return
	}
	green := color.New(color.FgGreen).SprintFunc()
	banner := rule + "\n"
	banner += "        " + green("Starting Documentation Crawl") + "\n"
	banner += rule + "\n"
	banner += fmt.Sprintf("Entry URL: %s\n", c.Site.EntryURL())
	banner += fmt.Sprintf("Mode: %s\n", r.Mode)
	banner += fmt.Sprintf("Request Delay: %s\n", c.Delay)
	banner += fmt.Sprintf("Run ID: %s\n", r.RunID)
	banner += rule
	fmt.Fprintln(c.Out, banner)
}

func (c *Crawler) displayCrawlEnd(r *Report) {
	if c.Out == nil {
		return
	}
	green := color.New(color.FgGreen).SprintFunc()
	banner := rule + "\n"
	banner += "         " + green("Crawl Complete") + "\n"
	banner += rule + "\n"
	banner += fmt.Sprintf("Saved: %d  Skipped: %d  Failed: %d\n", r.Saved(), r.Skipped(), r.Failed())
	if r.Output != "" {
		banner += fmt.Sprintf("Output: %s\n", r.Output)
	}
	banner += fmt.Sprintf("Duration: %s\n", r.Finished.Sub(r.Started).Round(time.Millisecond))
	banner += rule
	fmt.Fprintln(c.Out, banner)

	if len(r.Results) > 0 {
		c.displayResults(r)
	}
}

func (c *Crawler) displayResults(r *Report) {
	t := table.NewWriter()
	t.SetOutputMirror(c.Out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Page", "Status", "Markdown Length", "Error"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignLeft, WidthMax: 60},
	})

	for _, res := range r.Results {
		errText := ""
		if res.Err != nil {
			errText = res.Err.Error()
		}
		t.AppendRow(table.Row{res.Slug, statusText(res.Status), strconv.Itoa(res.Bytes), errText})
	}
	t.Render()
}

func statusText(s Status) string {
	switch s {
	case StatusSaved:
		return color.GreenString(s.String())
	case StatusSkipped:
		return color.YellowString(s.String())
	default:
		return color.RedString(s.String())
	}
}
