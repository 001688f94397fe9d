// Copyright (C) 2025 The diffkemp-scripts authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package runner orchestrates a full evaluation: discover the benchmark
// suite, build snapshots of every source pair, compare them, classify each
// outcome, and append one result row per case.
//
// The run is two-phased: every build completes before the first comparison
// starts, and cases are processed in suite order (all Eq cases, then all
// Neq cases). Rows land in the results file in that order even when the
// phases fan out over multiple workers.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/PLukas2018/diffkemp-scripts/pkg/logging"
	"github.com/PLukas2018/diffkemp-scripts/services/eqbench/diffkemp"
	"github.com/PLukas2018/diffkemp-scripts/services/eqbench/report"
	"github.com/PLukas2018/diffkemp-scripts/services/eqbench/results"
	"github.com/PLukas2018/diffkemp-scripts/services/eqbench/suite"
	"github.com/PLukas2018/diffkemp-scripts/services/eqbench/telemetry"
	"github.com/PLukas2018/diffkemp-scripts/services/eqbench/verdict"
)

var (
	// ErrCasesFailed is returned by a keep-going run in which at least one
	// case produced no row.
	ErrCasesFailed = errors.New("cases failed")

	// ErrMissingSnapshot is returned under SkipBuild when a case's snapshot
	// document is not on disk.
	ErrMissingSnapshot = errors.New("snapshot not found")
)

// Config is a run's explicit configuration. There are no ambient defaults:
// everything the run touches is named here.
type Config struct {
	// SourceDir is the benchmark suite root.
	SourceDir string

	// OutputDir receives all run artifacts: per-case snapshot and diff
	// directories plus the results file.
	OutputDir string

	// ResultsFile is the results file name, joined under OutputDir when
	// relative.
	ResultsFile string

	// DiffkempBin is the tool executable name or path.
	DiffkempBin string

	// SkipBuild reuses snapshots from a previous run instead of building.
	// Documents on disk win; staleness is the caller's concern.
	SkipBuild bool

	// KeepGoing continues past failing cases instead of aborting on the
	// first failure. A failed case produces no row.
	KeepGoing bool

	// Workers bounds per-phase parallelism. Values below 2 run the
	// reference sequential schedule.
	Workers int
}

// DefaultConfig returns the conventional source and output locations.
func DefaultConfig() Config {
	return Config{
		SourceDir:   "eqbench",
		OutputDir:   "eqbench-results",
		ResultsFile: "results.csv",
		DiffkempBin: diffkemp.DefaultBin,
		Workers:     1,
	}
}

// Summary aggregates one run's outcome.
type Summary struct {
	// RunID is a short random identifier correlating this run's log lines.
	RunID string

	// Cases is the number of discovered cases.
	Cases int

	// Correct and Incorrect count written rows by their correctness flag.
	Correct   int
	Incorrect int

	// Failed counts cases that produced no row (keep-going runs only).
	Failed int

	// Duration is the wall-clock time of the whole run.
	Duration time.Duration

	// ResultsPath is the absolute or joined path of the results file.
	ResultsPath string
}

// Option configures a Runner.
type Option func(*Runner)

// WithClient injects the tool client. Tests inject a client backed by a
// mock process runner.
func WithClient(c *diffkemp.Client) Option {
	return func(r *Runner) { r.client = c }
}

// WithLogger injects the logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// WithMetrics injects the metrics instruments. A nil value disables
// recording.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithSink mirrors every written row to a secondary destination.
func WithSink(s results.Sink) Option {
	return func(r *Runner) { r.sink = s }
}

// WithProgress registers a callback invoked once per written row, in row
// order. Keep it fast: it runs inside the ordered flush.
func WithProgress(fn func(results.Row)) Option {
	return func(r *Runner) { r.progress = fn }
}

// Runner executes evaluation runs.
type Runner struct {
	cfg      Config
	client   *diffkemp.Client
	log      *logging.Logger
	metrics  *telemetry.Metrics
	sink     results.Sink
	progress func(results.Row)
}

// New creates a Runner, filling unset config fields from DefaultConfig.
func New(cfg Config, opts ...Option) *Runner {
	defaults := DefaultConfig()
	if cfg.SourceDir == "" {
		cfg.SourceDir = defaults.SourceDir
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = defaults.OutputDir
	}
	if cfg.ResultsFile == "" {
		cfg.ResultsFile = defaults.ResultsFile
	}
	if cfg.DiffkempBin == "" {
		cfg.DiffkempBin = defaults.DiffkempBin
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	r := &Runner{cfg: cfg}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logging.Default()
	}
	if r.client == nil {
		r.client = diffkemp.NewClient(diffkemp.Config{
			Bin:    cfg.DiffkempBin,
			Logger: r.log,
		})
	}
	return r
}

// casePaths locates one case's artifacts under the output directory.
type casePaths struct {
	oldSnapshot string
	newSnapshot string
	diff        string
}

// caseState tracks one case through both phases. done and row are written
// by the case's worker and read by the ordered flush under the flush mutex.
type caseState struct {
	c     suite.Case
	paths casePaths
	row   results.Row
	err   error
	done  bool
}

// Run executes the evaluation.
//
// # Description
//
// Discovers the suite, creates the results file, builds every snapshot
// (phase 1), then compares, classifies, and records every case (phase 2).
// By default the first failing case aborts the run; rows written before the
// failure remain on disk. Under KeepGoing, failing cases are logged and
// skipped, and the run ends with an error wrapping ErrCasesFailed.
//
// # Outputs
//
//   - *Summary: non-nil whenever rows were processed, including alongside
//     an ErrCasesFailed error. Nil on setup or aborted runs.
//   - error: nil only for a run in which every case produced a row.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	runID := uuid.NewString()[:8]
	log := r.log.With("run_id", runID)

	cases, err := suite.Discover(r.cfg.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("discover cases: %w", err)
	}
	log.Info("suite discovered",
		"source", r.cfg.SourceDir,
		"cases", len(cases),
		"workers", r.cfg.Workers)

	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	resultsPath := r.cfg.ResultsFile
	if !filepath.IsAbs(resultsPath) {
		resultsPath = filepath.Join(r.cfg.OutputDir, r.cfg.ResultsFile)
	}
	file, err := os.Create(resultsPath)
	if err != nil {
		return nil, fmt.Errorf("create results file: %w", err)
	}
	defer file.Close()

	writer := results.NewWriter(file)
	if err := writer.WriteHeader(); err != nil {
		return nil, err
	}

	states := make([]*caseState, len(cases))
	for i, c := range cases {
		states[i] = &caseState{c: c, paths: r.pathsFor(c)}
	}

	if r.cfg.SkipBuild {
		err = r.verifySnapshots(log, states)
	} else {
		err = r.buildAll(ctx, log, states)
	}
	if err != nil {
		return nil, err
	}

	summary := &Summary{RunID: runID, Cases: len(cases), ResultsPath: resultsPath}
	if err := r.compareAll(ctx, log, states, writer, summary); err != nil {
		return nil, err
	}

	for _, st := range states {
		if st.err != nil {
			summary.Failed++
		}
	}
	summary.Duration = time.Since(start)

	log.Info("run complete",
		"cases", summary.Cases,
		"correct", summary.Correct,
		"incorrect", summary.Incorrect,
		"failed", summary.Failed,
		"duration", summary.Duration,
		"results", resultsPath)

	if summary.Failed > 0 {
		return summary, fmt.Errorf("%w: %d of %d", ErrCasesFailed, summary.Failed, summary.Cases)
	}
	return summary, nil
}

func (r *Runner) pathsFor(c suite.Case) casePaths {
	base := filepath.Join(r.cfg.OutputDir, c.Benchmark, c.Program, string(c.Label))
	return casePaths{
		oldSnapshot: filepath.Join(base, "old"),
		newSnapshot: filepath.Join(base, "new"),
		diff:        filepath.Join(base, "diff"),
	}
}

// buildAll builds both snapshots of every case. The whole phase completes
// before any comparison starts.
func (r *Runner) buildAll(ctx context.Context, log *logging.Logger, states []*caseState) error {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)

	for _, st := range states {
		st := st
		g.Go(func() error {
			if gCtx.Err() != nil {
				return gCtx.Err()
			}
			if err := r.buildCase(gCtx, st); err != nil {
				st.err = err
				if !r.cfg.KeepGoing {
					return err
				}
				log.Error("case build failed", "case", caseName(st.c), "error", err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (r *Runner) buildCase(ctx context.Context, st *caseState) error {
	builds := []struct {
		source string
		dir    string
	}{
		{st.c.OldSource, st.paths.oldSnapshot},
		{st.c.NewSource, st.paths.newSnapshot},
	}

	for _, b := range builds {
		if err := os.MkdirAll(b.dir, 0o755); err != nil {
			return fmt.Errorf("case %s: create snapshot dir: %w", caseName(st.c), err)
		}

		start := time.Now()
		err := r.client.Build(ctx, b.source, b.dir)
		r.recordBuild(ctx, time.Since(start), err)
		if err != nil {
			return fmt.Errorf("case %s: build %s: %w", caseName(st.c), filepath.Base(b.source), err)
		}
	}
	return nil
}

// verifySnapshots replaces the build phase under SkipBuild: both snapshot
// documents must already be on disk.
func (r *Runner) verifySnapshots(log *logging.Logger, states []*caseState) error {
	for _, st := range states {
		var missing error
		for _, dir := range []string{st.paths.oldSnapshot, st.paths.newSnapshot} {
			doc := filepath.Join(dir, report.SnapshotFile)
			if _, err := os.Stat(doc); err != nil {
				missing = fmt.Errorf("case %s: %w: %s", caseName(st.c), ErrMissingSnapshot, doc)
				break
			}
		}
		if missing == nil {
			continue
		}
		st.err = missing
		if !r.cfg.KeepGoing {
			return missing
		}
		log.Error("case skipped", "case", caseName(st.c), "error", missing)
	}
	return nil
}

// compareAll runs phase 2: compare, classify, and record every buildable
// case. Rows are flushed strictly in case order; a worker finishing early
// parks its row until all earlier cases have flushed.
func (r *Runner) compareAll(ctx context.Context, log *logging.Logger, states []*caseState, writer *results.Writer, summary *Summary) error {
	var mu sync.Mutex
	next := 0

	// Callers hold mu. Any error returned here is fatal to the run: a
	// results file that cannot be appended to has no keep-going mode.
	flush := func(flushCtx context.Context) error {
		for next < len(states) {
			st := states[next]
			if !st.done {
				return nil
			}
			if st.err == nil {
				if err := writer.Write(st.row); err != nil {
					return err
				}
				if r.sink != nil {
					if err := r.sink.Record(flushCtx, st.row); err != nil {
						if !r.cfg.KeepGoing {
							return err
						}
						log.Warn("sink write failed", "case", caseName(st.c), "error", err)
					}
				}
				if st.row.Correct {
					summary.Correct++
				} else {
					summary.Incorrect++
				}
				if r.progress != nil {
					r.progress(st.row)
				}
			}
			next++
		}
		return nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)

	for _, st := range states {
		st := st
		g.Go(func() error {
			if gCtx.Err() != nil {
				return gCtx.Err()
			}
			if st.err == nil {
				row, err := r.processCase(gCtx, log, st)
				if err != nil {
					st.err = err
					if !r.cfg.KeepGoing {
						return err
					}
					log.Error("case failed", "case", caseName(st.c), "error", err)
				} else {
					st.row = row
				}
			}

			mu.Lock()
			st.done = true
			err := flush(gCtx)
			mu.Unlock()
			return err
		})
	}
	return g.Wait()
}

// processCase runs one comparison and classifies its outcome.
func (r *Runner) processCase(ctx context.Context, log *logging.Logger, st *caseState) (results.Row, error) {
	c := st.c
	if err := os.MkdirAll(st.paths.diff, 0o755); err != nil {
		return results.Row{}, fmt.Errorf("case %s: create diff dir: %w", caseName(c), err)
	}

	start := time.Now()
	reportText, err := r.client.Compare(ctx, st.paths.oldSnapshot, st.paths.newSnapshot, st.paths.diff, c.TargetFunction())
	r.recordCompare(ctx, time.Since(start), err)
	if err != nil {
		return results.Row{}, fmt.Errorf("case %s: compare: %w", caseName(c), err)
	}

	stats, err := report.ParseStats(reportText)
	if err != nil {
		return results.Row{}, fmt.Errorf("case %s: %w", caseName(c), err)
	}

	// Function lists are loaded lazily: only a mixed outcome reads them.
	docs := &report.CaseDocuments{
		SnapshotPath: filepath.Join(st.paths.oldSnapshot, report.SnapshotFile),
		ResultPath:   filepath.Join(st.paths.diff, report.ResultFile),
	}
	v, err := verdict.Classify(stats, docs)
	if err != nil {
		return results.Row{}, fmt.Errorf("case %s: classify: %w", caseName(c), err)
	}

	rendered := v.Render()
	correct := v.Matches(string(c.Label))
	r.recordCase(ctx, v.Kind.String(), correct)
	log.Debug("case classified",
		"case", caseName(c),
		"verdict", rendered,
		"correct", correct,
		"total", stats.TotalSymbols,
		"equal", stats.EqualSymbols,
		"not_equal", stats.NotEqualSymbols)

	return results.Row{
		Type:      c.Kind().String(),
		Benchmark: c.Benchmark,
		Program:   c.Program,
		Expected:  string(c.Label),
		Actual:    rendered,
		Correct:   correct,
	}, nil
}

func (r *Runner) recordBuild(ctx context.Context, d time.Duration, err error) {
	if r.metrics == nil {
		return
	}
	r.metrics.BuildsTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("status", statusOf(err))))
	r.metrics.BuildDuration.Record(ctx, d.Seconds())
	if err != nil {
		r.metrics.ErrorsTotal.Add(ctx, 1,
			metric.WithAttributes(attribute.String("stage", "build")))
	}
}

func (r *Runner) recordCompare(ctx context.Context, d time.Duration, err error) {
	if r.metrics == nil {
		return
	}
	r.metrics.ComparesTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("status", statusOf(err))))
	r.metrics.CompareDuration.Record(ctx, d.Seconds())
	if err != nil {
		r.metrics.ErrorsTotal.Add(ctx, 1,
			metric.WithAttributes(attribute.String("stage", "compare")))
	}
}

func (r *Runner) recordCase(ctx context.Context, kind string, correct bool) {
	if r.metrics == nil {
		return
	}
	r.metrics.CasesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("verdict", kind),
		attribute.Bool("correct", correct)))
}

func statusOf(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// caseName identifies a case in logs and errors: benchmark/program/label.
func caseName(c suite.Case) string {
	return fmt.Sprintf("%s/%s", c.Name(), c.Label)
}
