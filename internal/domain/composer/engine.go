package composer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/domain/catalog"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/domain/qos"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/types"
	"golang.org/x/sync/errgroup"
)

// Strategy names accepted by Compose.
const (
	AlgorithmDijkstra = "dijkstra"
	AlgorithmAStar    = "astar"
	AlgorithmGreedy   = "greedy"
)

// Algorithms lists the supported strategies in canonical order.
func Algorithms() []string {
	return []string{AlgorithmDijkstra, AlgorithmAStar, AlgorithmGreedy}
}

var (
	ErrNilRequest       = errors.New("nil request")
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
)

// Limits bounds one strategy run.
type Limits struct {
	MaxExpansions  int
	MaxGreedySteps int
	Timeout        time.Duration
	TraceExplores  int
	TraceExpands   int
}

// DefaultLimits returns the bounds used when no configuration is supplied.
func DefaultLimits() Limits {
	return Limits{
		MaxExpansions:  500000,
		MaxGreedySteps: 50,
		Timeout:        60 * time.Second,
		TraceExplores:  50,
		TraceExpands:   30,
	}
}

// Engine runs composition searches against the live catalog. Every run
// works on its own immutable snapshot, so searches never observe catalog
// mutations and any number may run concurrently.
type Engine struct {
	store   *catalog.Store
	limits  Limits
	logger  *logging.Logger
	metrics *monitoring.Metrics
	tracer  *tracing.Tracer
}

// New creates an engine over the given catalog.
func New(store *catalog.Store, limits Limits) *Engine {
	return &Engine{
		store:  store,
		limits: limits,
		logger: logging.NewNop(),
	}
}

// WithLogger attaches structured logging.
func (e *Engine) WithLogger(logger *logging.Logger) *Engine {
	if logger != nil {
		e.logger = logger
	}
	return e
}

// WithMetrics attaches Prometheus instrumentation.
func (e *Engine) WithMetrics(metrics *monitoring.Metrics) *Engine {
	e.metrics = metrics
	return e
}

// WithTracing attaches distributed tracing spans around each run.
func (e *Engine) WithTracing(tracer *tracing.Tracer) *Engine {
	e.tracer = tracer
	return e
}

// Limits exposes the configured bounds.
func (e *Engine) Limits() Limits {
	return e.limits
}

// Compose runs one strategy for the request and returns its result. The
// returned error covers input problems only; search failures come back as
// a Result with Success=false and a reason code.
func (e *Engine) Compose(ctx context.Context, req *types.Request, algorithm string) (*types.Result, error) {
	return e.ComposeWithSink(ctx, req, algorithm, nil)
}

// ComposeWithSink is Compose with a live trace feed. The sink is called
// synchronously from the search goroutine for every recorded entry.
func (e *Engine) ComposeWithSink(ctx context.Context, req *types.Request, algorithm string, sink Sink) (*types.Result, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	algo, err := normalizeAlgorithm(algorithm)
	if err != nil {
		return nil, err
	}
	return e.run(ctx, e.store.Snapshot(), req, algo, sink), nil
}

// ComposeAll runs every strategy over one shared catalog snapshot so the
// results are comparable, and returns them keyed by algorithm name.
func (e *Engine) ComposeAll(ctx context.Context, req *types.Request) (map[string]*types.Result, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	snap := e.store.Snapshot()
	results := make(map[string]*types.Result, 3)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, algo := range Algorithms() {
		g.Go(func() error {
			res := e.run(gctx, snap, req, algo, nil)
			mu.Lock()
			results[algo] = res
			mu.Unlock()
			return nil
		})
	}
	g.Wait()
	return results, nil
}

func normalizeAlgorithm(name string) (string, error) {
	switch name {
	case "":
		return AlgorithmDijkstra, nil
	case AlgorithmDijkstra, AlgorithmAStar, AlgorithmGreedy:
		return name, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

func (e *Engine) run(ctx context.Context, snap *catalog.Snapshot, req *types.Request, algorithm string, sink Sink) *types.Result {
	started := time.Now()
	if e.limits.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.limits.Timeout)
		defer cancel()
	}
	if e.tracer != nil {
		span, spanCtx := e.tracer.StartSpan(ctx, "compose."+algorithm)
		span.SetTag("request_id", req.ID)
		defer span.Finish()
		ctx = spanCtx
	}

	tr := newTracer(e.limits, sink)
	sc := newScorer(req.Constraints)

	var (
		out  outcome
		pool []*types.Service
	)
	switch {
	case alreadyProvided(req):
		// Nothing to compose; the provided set satisfies the target.
		tr.Init(len(req.Provided))
		out = outcome{chain: []string{}, utility: qos.UnconstrainedMax(), params: len(req.Provided)}
	default:
		pool = BuildFilter(snap, req)
		if len(pool) == 0 {
			tr.Init(len(req.Provided))
			tr.Unreachable()
			out = outcome{reason: types.ReasonNoComposition}
		} else {
			switch algorithm {
			case AlgorithmAStar:
				out = astar(ctx, pool, req, sc, tr, e.limits)
			case AlgorithmGreedy:
				out = greedy(ctx, pool, req, sc, tr, e.limits)
			default:
				out = dijkstra(ctx, pool, req, sc, tr, e.limits)
			}
		}
	}

	return e.assemble(snap, req, algorithm, pool, out, sc, tr, started)
}

func alreadyProvided(req *types.Request) bool {
	for _, p := range req.Provided {
		if p == req.Resultant {
			return true
		}
	}
	return false
}
