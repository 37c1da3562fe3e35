package batch

import (
	"errors"
	"math"
	"runtime"
	"sync"

	"github.com/san-kum/floralyze/internal/analysis"
	"github.com/san-kum/floralyze/internal/dynamo"
	"github.com/san-kum/floralyze/internal/physics"
	"github.com/san-kum/floralyze/internal/projection"
	"github.com/san-kum/floralyze/internal/rosefit"
	"github.com/san-kum/floralyze/internal/sim"
)

// Metrics holds freshly computed pipeline outputs for one record.
type Metrics struct {
	Fit     rosefit.Params
	EFlower float64
	Lambda  float64
}

// Result is the enrichment outcome for one record. Exactly one of the
// following holds: Err is set (the configuration failed and nothing is
// reported for it), or FI carries the recomputed index (possibly NaN for
// the documented invalid-metric case, with Invalid set).
type Result struct {
	Record   *Record
	Computed *Metrics // non-nil only in recompute mode on success
	FI       float64  // NaN when invalid
	FIDelta  float64  // NaN when FI_reported or FI is missing
	Invalid  bool     // negative/missing metric reached the combiner
	Err      error    // NumericalDivergence or FitNonConvergence, row-scoped
}

// ErrKind maps a row failure to its short marker used in enriched output.
func (r *Result) ErrKind() string {
	switch {
	case r.Err == nil:
		return ""
	case errors.Is(r.Err, dynamo.ErrNumericalDivergence):
		return "numerical_divergence"
	case errors.Is(r.Err, dynamo.ErrFitNonConvergence):
		return "fit_non_convergence"
	case errors.Is(r.Err, dynamo.ErrMalformedRecord):
		return "malformed_input"
	default:
		return "error"
	}
}

// PipelineOptions configures per-record processing.
type PipelineOptions struct {
	// Recompute runs the full numerical pipeline (integrate, project,
	// fit, estimate) instead of recombining stored metrics.
	Recompute bool
	// Workers bounds batch parallelism; <= 0 means GOMAXPROCS.
	Workers  int
	Solver   sim.Options
	Fit      rosefit.FitOptions
	Lyapunov analysis.LyapunovOptions
}

func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		Solver:   sim.DefaultOptions(),
		Fit:      rosefit.DefaultFitOptions(),
		Lyapunov: analysis.DefaultLyapunovOptions(),
	}
}

// Process enriches every record. Each configuration's pipeline is
// independent, so records run in parallel; a failure is always scoped to
// its own row and never aborts the batch. Results keep input order.
func Process(records []*Record, opts PipelineOptions) []Result {
	results := make([]Result, len(records))

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(records) {
		workers = len(records)
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	next := make(chan int)

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range next {
				results[i] = processOne(records[i], opts)
			}
		}()
	}
	for i := range records {
		next <- i
	}
	close(next)
	wg.Wait()

	return results
}

func processOne(rec *Record, opts PipelineOptions) Result {
	res := Result{Record: rec, FI: math.NaN(), FIDelta: math.NaN()}

	var e, lambda float64
	haveMetrics := false

	if opts.Recompute {
		m, err := ComputeMetrics(rec, opts)
		if err != nil {
			res.Err = err
			return res
		}
		res.Computed = m
		e, lambda = m.EFlower, m.Lambda
		haveMetrics = true
	} else if rec.EFlower != nil && rec.LambdaMax != nil {
		e, lambda = *rec.EFlower, *rec.LambdaMax
		haveMetrics = true
	}

	if !haveMetrics {
		res.Invalid = true
		return res
	}

	fi, err := analysis.FlowerIndex(e, lambda)
	if err != nil {
		res.Invalid = true
		return res
	}
	res.FI = fi

	if rec.FIReported != nil {
		res.FIDelta = math.Abs(*rec.FIReported - fi)
	}
	return res
}

// ComputeMetrics runs the full numerical pipeline for one configuration:
// adaptive integration over the record's time span, polar projection after
// the transient discard, rhodonea fit seeded at the record's parameters,
// and the fixed-step exponent estimate.
func ComputeMetrics(rec *Record, opts PipelineOptions) (*Metrics, error) {
	sys := physics.NewThomas(rec.B)

	traj, err := sim.SampleTrajectory(sys, rec.Seed, 0, rec.SpanEnd(), rec.Steps, opts.Solver)
	if err != nil {
		return nil, err
	}

	polar := projection.Polar(traj.States[rec.TransientSteps:], rec.Plane, rec.Rotation)

	fit, err := rosefit.Fit(polar, rec.Rhodonea, opts.Fit)
	if err != nil {
		return nil, err
	}

	lyap := opts.Lyapunov
	if lyap.Dt <= 0 {
		lyap = analysis.DefaultLyapunovOptions()
	}

	return &Metrics{
		Fit:     fit,
		EFlower: rosefit.RMSError(polar, fit),
		Lambda:  analysis.ThomasLyapunov(rec.B, lyap),
	}, nil
}
