// Package selftest runs the board's functional scenario against a private
// in-memory instance of the HTTP API and reports per-step results.
package selftest

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/itchan-dev/msgboard/shared/logger"
)

const (
	StatusRunning  = "running"
	StatusFinished = "finished"

	StatePassed = "passed"
	StateFailed = "failed"

	suiteTitle   = "Functional Tests"
	defaultBoard = "general"
)

type Stats struct {
	Tests    int   `json:"tests"`
	Passes   int   `json:"passes"`
	Failures int   `json:"failures"`
	Duration int64 `json:"duration"` // ms
}

type Result struct {
	Title     string `json:"title"`
	FullTitle string `json:"fullTitle"`
	State     string `json:"state"`
	Duration  int64  `json:"duration"` // ms
	Err       string `json:"err,omitempty"`
}

type Report struct {
	Status string   `json:"status"`
	Stats  *Stats   `json:"stats,omitempty"`
	Tests  []Result `json:"tests,omitempty"`
}

// TargetFactory builds a fresh handler to test and a func releasing it.
type TargetFactory func() (http.Handler, func(), error)

// Runner allows one run at a time per process.
type Runner struct {
	running   atomic.Bool
	newTarget TargetFactory
	board     string
}

func New(newTarget TargetFactory) *Runner {
	return &Runner{newTarget: newTarget, board: defaultBoard}
}

func (r *Runner) Running() bool {
	return r.running.Load()
}

// Run executes the suite. If a run is already in progress it returns a
// report with StatusRunning straight away.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	if !r.running.CompareAndSwap(false, true) {
		return Report{Status: StatusRunning}, nil
	}
	defer r.running.Store(false)

	target, release, err := r.newTarget()
	if err != nil {
		return Report{}, fmt.Errorf("failed to build test target: %w", err)
	}
	defer release()

	s := &session{ctx: ctx, target: target, board: r.board}
	report := Report{Status: StatusFinished, Stats: &Stats{}, Tests: make([]Result, 0, len(steps))}
	started := time.Now()

	for _, st := range steps {
		result := Result{Title: st.title, FullTitle: suiteTitle + " " + st.title}
		stepStart := time.Now()
		err := ctx.Err()
		if err == nil {
			err = st.run(s)
		}
		result.Duration = time.Since(stepStart).Milliseconds()

		report.Stats.Tests++
		if err != nil {
			result.State = StateFailed
			result.Err = err.Error()
			report.Stats.Failures++
		} else {
			result.State = StatePassed
			report.Stats.Passes++
		}
		report.Tests = append(report.Tests, result)
	}
	report.Stats.Duration = time.Since(started).Milliseconds()

	logger.Log.Info("self-test finished",
		"tests", report.Stats.Tests,
		"passes", report.Stats.Passes,
		"failures", report.Stats.Failures,
	)
	return report, nil
}
