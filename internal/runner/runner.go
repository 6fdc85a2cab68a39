// Package runner executes availability-test cases against a DAIA endpoint,
// strictly one request at a time.
package runner

import (
	"context"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jbalzer/daiacheck/internal/daia"
	"github.com/jbalzer/daiacheck/internal/report"
	"github.com/jbalzer/daiacheck/internal/suite"
)

// Fetcher retrieves the body behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Runner issues one DAIA query per case and records the outcome.
type Runner struct {
	fetcher Fetcher
	base    string
	rep     *report.Reporter
	limiter *rate.Limiter
}

// New creates a Runner against the given base endpoint. delay is the pause
// between consecutive batch requests; a non-positive delay disables pacing.
func New(fetcher Fetcher, base string, delay time.Duration, rep *report.Reporter) *Runner {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if delay > 0 {
		// One request per delay interval, no bursting. The first Wait
		// consumes the initial token, so pacing only shows between requests.
		limiter = rate.NewLimiter(rate.Every(delay), 1)
	}
	return &Runner{
		fetcher: fetcher,
		base:    base,
		rep:     rep,
		limiter: limiter,
	}
}

// QueryURL builds the DAIA request URL for a case. A full ISIL/PPN pair
// queries the per-library endpoint; a full identifier goes against the base
// query endpoint directly.
func QueryURL(base string, c suite.Case) string {
	base = strings.TrimRight(base, "/")
	if c.ISIL != "" && c.PPN != "" {
		return base + "/isil/" + c.ISIL + "?id=ppn:" + url.QueryEscape(c.PPN) + "&format=json"
	}
	return base + "/?id=" + url.QueryEscape(c.FullID) + "&format=json"
}

// RunCase checks a single case and records exactly one assertion. Fetch
// errors, malformed JSON and missing items all count as one ordinary
// failure; nothing here aborts the run.
func (r *Runner) RunCase(ctx context.Context, c suite.Case) {
	target := QueryURL(r.base, c)

	body, err := r.fetcher.Fetch(ctx, target)
	if err != nil {
		r.rep.Fail(target)
		return
	}

	resp, _ := daia.Parse(body)
	if resp.FirstItem().Stated() {
		r.rep.Pass(target)
		return
	}
	r.rep.Fail(target)
}

// RunAll checks every case in order, pausing between requests per the
// configured delay. It stops early only when ctx is cancelled.
func (r *Runner) RunAll(ctx context.Context, cases []suite.Case) error {
	for _, c := range cases {
		if err := r.limiter.Wait(ctx); err != nil {
			return err
		}
		r.RunCase(ctx, c)
	}
	return nil
}
