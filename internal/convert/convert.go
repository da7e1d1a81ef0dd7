// Package convert runs the external document-to-markup converter over a
// batch of independent jobs.
package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/starford/folio/internal/apperr"
)

// Job converts one source document into one destination file.
type Job struct {
	Source      string
	Destination string
}

// Result is the outcome of a single Job. Err is nil on success.
type Result struct {
	Job Job
	Err error
}

// Runner executes an external process and reports whether it exited cleanly.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs the converter through os/exec.
type ExecRunner struct{}

// Run starts name with args and waits for it. Combined output is attached to
// the error on a non-zero exit.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		if msg := bytes.TrimSpace(out); len(msg) > 0 {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

// Scheduler fans jobs out over a bounded worker pool.
type Scheduler struct {
	binary   string
	args     []string
	workers  int
	runner   Runner
	lookPath func(string) (string, error)
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithWorkers bounds the number of concurrent converter processes.
func WithWorkers(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithRunner replaces process execution, mainly for tests.
func WithRunner(r Runner) Option {
	return func(s *Scheduler) {
		s.runner = r
	}
}

// WithLookPath replaces the converter lookup used by Check.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(s *Scheduler) {
		s.lookPath = fn
	}
}

// NewScheduler returns a Scheduler invoking binary as
// "<binary> <source> -o <destination> <args...>".
func NewScheduler(binary string, args []string, opts ...Option) *Scheduler {
	s := &Scheduler{
		binary:   binary,
		args:     args,
		workers:  runtime.NumCPU(),
		runner:   ExecRunner{},
		lookPath: exec.LookPath,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check verifies that the converter binary can be located.
func (s *Scheduler) Check() error {
	path, err := s.lookPath(s.binary)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", apperr.ErrConverterMissing, s.binary, err)
	}
	s.binary = path
	return nil
}

// Run executes every job and blocks until all of them have finished. A failed
// job never stops the others; results[i] belongs to jobs[i].
func (s *Scheduler) Run(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			results[i] = Result{Job: job, Err: s.convert(ctx, job)}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (s *Scheduler) convert(ctx context.Context, job Job) error {
	if err := os.MkdirAll(filepath.Dir(job.Destination), 0o755); err != nil {
		return apperr.WithPath(job.Source, fmt.Errorf("%w: %v", apperr.ErrConversion, err))
	}
	args := append([]string{job.Source, "-o", job.Destination}, s.args...)
	if err := s.runner.Run(ctx, s.binary, args...); err != nil {
		return apperr.WithPath(job.Source, fmt.Errorf("%w: %v", apperr.ErrConversion, err))
	}
	return nil
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}
