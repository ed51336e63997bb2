package scenario

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/networkteam/flightsearch/browser"
	"github.com/networkteam/flightsearch/pages"
	"github.com/networkteam/flightsearch/report"
)

// Status is the outcome of a step.
type Status string

const (
	StatusPassed    Status = "passed"
	StatusFailed    Status = "failed"
	StatusUndefined Status = "undefined"
	StatusSkipped   Status = "skipped"
)

// StepResult is the outcome of one step.
type StepResult struct {
	Step     Step
	Status   Status
	Err      error
	Duration time.Duration
}

// Result is the outcome of one scenario.
type Result struct {
	Feature  string
	Scenario string
	Steps    []StepResult
	// Err is the first step error, or the error preparing the scenario.
	Err      error
	Duration time.Duration
	// Reports lists the failure artifacts written for the scenario.
	Reports []string
}

func (r Result) Passed() bool {
	return r.Err == nil
}

// PageFactory opens a fresh page for a scenario. The returned func closes it.
type PageFactory func(ctx context.Context) (browser.Page, func() error, error)

// Runner executes feature scenarios against pages from a PageFactory.
type Runner struct {
	registry    *Registry
	newPage     PageFactory
	pageOptions []pages.Option
	reporter    *report.Reporter
	logger      *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithPageOptions passes options to the page objects of every scenario.
func WithPageOptions(opts ...pages.Option) RunnerOption {
	return func(r *Runner) {
		r.pageOptions = append(r.pageOptions, opts...)
	}
}

// WithReporter captures failure artifacts for failed scenarios.
func WithReporter(reporter *report.Reporter) RunnerOption {
	return func(r *Runner) {
		r.reporter = reporter
	}
}

// WithLogger sets the logger for run progress and page objects.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func NewRunner(registry *Registry, newPage PageFactory, opts ...RunnerOption) *Runner {
	r := &Runner{
		registry: registry,
		newPage:  newPage,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the scenarios of feature one after another, each on its own
// page. A scenario stops at its first failing step; the remaining steps are
// skipped and the next scenario starts.
func (r *Runner) Run(ctx context.Context, feature *Feature) []Result {
	results := make([]Result, 0, len(feature.Scenarios))
	for _, sc := range feature.Scenarios {
		results = append(results, r.runScenario(ctx, feature, sc))
	}
	return results
}

func (r *Runner) runScenario(ctx context.Context, feature *Feature, sc Scenario) (result Result) {
	start := time.Now()
	// runAttr tells this run's journal lines apart from other scenarios
	runAttr := slog.String("run", uuid.Must(uuid.NewV4()).String())
	logger := r.logger.With(slog.String("feature", feature.Name), slog.String("scenario", sc.Name), runAttr)
	result = Result{Feature: feature.Name, Scenario: sc.Name}
	defer func() {
		result.Duration = time.Since(start)
		if result.Err != nil {
			logger.Error("Scenario failed", slog.Any("error", result.Err), slog.Duration("duration", result.Duration))
		} else {
			logger.Info("Scenario passed", slog.Duration("duration", result.Duration))
		}
	}()

	// Undefined steps fail the scenario before a browser page is opened
	for _, step := range sc.Steps {
		if _, _, err := r.registry.Match(step.Text); err != nil {
			result.Err = fmt.Errorf("line %d: %w", step.Line, err)
			result.Steps = skipFrom(sc.Steps, step, err)
			return result
		}
	}

	page, closePage, err := r.newPage(ctx)
	if err != nil {
		result.Err = fmt.Errorf("opening page: %w", err)
		return result
	}
	defer func() {
		if err := closePage(); err != nil {
			logger.Warn("Failed to close page", slog.Any("error", err))
		}
	}()

	world := NewWorld(page, logger, r.pageOptions...)
	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			result.Err = err
			result.Steps = append(result.Steps, skipped(sc.Steps[i:])...)
			return result
		}

		stepStart := time.Now()
		fn, args, _ := r.registry.Match(step.Text)
		err := fn(ctx, world, args)
		stepResult := StepResult{Step: step, Status: StatusPassed, Duration: time.Since(stepStart)}
		if err != nil {
			stepResult.Status = StatusFailed
			stepResult.Err = err
			result.Err = fmt.Errorf("step %q (line %d): %w", step.String(), step.Line, err)
			result.Steps = append(result.Steps, stepResult)
			result.Steps = append(result.Steps, skipped(sc.Steps[i+1:])...)
			if r.reporter != nil {
				result.Reports = r.reporter.CaptureFailure(page, feature.Name+"_"+sc.Name, result.Err, runAttr)
			}
			return result
		}
		logger.Debug("Step passed", slog.String("step", step.String()), slog.Duration("duration", stepResult.Duration))
		result.Steps = append(result.Steps, stepResult)
	}
	return result
}

func skipped(steps []Step) []StepResult {
	results := make([]StepResult, len(steps))
	for i, s := range steps {
		results[i] = StepResult{Step: s, Status: StatusSkipped}
	}
	return results
}

// skipFrom marks undefined as undefined and all other steps as skipped.
func skipFrom(steps []Step, undefined Step, err error) []StepResult {
	results := skipped(steps)
	for i := range results {
		if results[i].Step.Line == undefined.Line {
			results[i].Status = StatusUndefined
			results[i].Err = err
		}
	}
	return results
}

// RunFeatures runs features concurrently with at most parallel features in
// flight. Results keep the order of features. The error is non-nil if any
// scenario failed.
func (r *Runner) RunFeatures(ctx context.Context, features []*Feature, parallel int) ([]Result, error) {
	if parallel <= 0 {
		parallel = 1
	}
	perFeature := make([][]Result, len(features))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, feature := range features {
		g.Go(func() error {
			perFeature[i] = r.Run(gctx, feature)
			return nil
		})
	}
	_ = g.Wait()

	var results []Result
	var errs []error
	for _, rs := range perFeature {
		for _, res := range rs {
			results = append(results, res)
			if res.Err != nil {
				errs = append(errs, fmt.Errorf("%s / %s: %w", res.Feature, res.Scenario, res.Err))
			}
		}
	}
	return results, errors.Join(errs...)
}
