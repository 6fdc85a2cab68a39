// Package report aggregates assertion results and renders them in a
// TAP-flavoured line protocol. All run state lives in the Reporter so tests
// can run checks side by side without touching globals.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Reporter tracks assertion counters and writes result lines.
//
// In the default mode only failing assertions are printed, one
// "not ok <n> - <label>" line each. In TAP mode every assertion is printed
// and Summary emits a trailing plan line.
type Reporter struct {
	out      io.Writer
	tap      bool
	useColor bool

	total  int
	failed int
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithTAP switches the reporter to full TAP output.
func WithTAP(tap bool) Option {
	return func(r *Reporter) {
		r.tap = tap
	}
}

// WithColor enables colored result lines. Callers decide based on TTY
// detection; the reporter itself never inspects file descriptors.
func WithColor(useColor bool) Option {
	return func(r *Reporter) {
		r.useColor = useColor
	}
}

// New creates a Reporter writing to out.
func New(out io.Writer, opts ...Option) *Reporter {
	r := &Reporter{out: out}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

var (
	passColor = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
)

// Pass records a passing assertion. The line is only printed in TAP mode.
func (r *Reporter) Pass(label string) {
	r.total++
	if !r.tap {
		return
	}
	r.printLine(passColor, "ok %d - %s\n", r.total, label)
}

// Fail records a failing assertion and prints its line in every mode.
func (r *Reporter) Fail(label string) {
	r.total++
	r.failed++
	r.printLine(failColor, "not ok %d - %s\n", r.total, label)
}

// Summary writes the trailing plan line in TAP mode: "1..N # ok" when all
// assertions passed, "1..N # failed K" otherwise. The default mode stays
// silent so its output remains exactly the failing lines.
func (r *Reporter) Summary() {
	if !r.tap {
		return
	}
	if r.failed > 0 {
		fmt.Fprintf(r.out, "1..%d # failed %d\n", r.total, r.failed)
		return
	}
	fmt.Fprintf(r.out, "1..%d # ok\n", r.total)
}

func (r *Reporter) printLine(c *color.Color, format string, args ...interface{}) {
	if r.useColor {
		c.Fprintf(r.out, format, args...)
		return
	}
	fmt.Fprintf(r.out, format, args...)
}

// Total returns the number of assertions recorded so far.
func (r *Reporter) Total() int {
	return r.total
}

// Failed returns the number of failed assertions recorded so far.
func (r *Reporter) Failed() int {
	return r.failed
}

// ExitCode maps the run outcome to a process exit code. A failCode of 0
// disables failure signalling entirely.
func (r *Reporter) ExitCode(failCode int) int {
	if r.failed > 0 && failCode != 0 {
		return failCode
	}
	return 0
}
