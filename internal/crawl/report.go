package crawl

import "time"

// Mode names the kind of output a run produces.
type Mode string

const (
	ModePages  Mode = "pages"
	ModeBundle Mode = "bundle"
)

// Status is the outcome for one page.
type Status int

const (
	// statusPending marks a page still being processed.
	statusPending Status = iota
	StatusSaved
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case statusPending:
		return "pending"
	case StatusSaved:
		return "saved"
	case StatusSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// PageResult records what happened to one page.
type PageResult struct {
	URL    string
	Slug   string
	Title  string
	Status Status
	// Bytes is the size of the rendered Markdown.
	Bytes int
	Err   error
}

// Report summarizes a run.
type Report struct {
	RunID    string
	Mode     Mode
	Started  time.Time
	Finished time.Time
	Results  []PageResult
	// Output is the bundled file name in bundle mode.
	Output string
}

func (r *Report) add(res PageResult) {
	r.Results = append(r.Results, res)
}

func (r *Report) count(s Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}

// Saved returns the number of pages written (pages mode) or included
// (bundle mode).
func (r *Report) Saved() int { return r.count(StatusSaved) }

// Skipped returns the number of pages without content.
func (r *Report) Skipped() int { return r.count(StatusSkipped) }

// Failed returns the number of pages that could not be fetched, rendered
// or written.
func (r *Report) Failed() int { return r.count(StatusFailed) }
