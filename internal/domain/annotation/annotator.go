package annotation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/domain/catalog"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/infrastructure/monitoring"
	"go.uber.org/zap"
)

var (
	ErrRunning    = errors.New("annotation run already in progress")
	ErrNoServices = errors.New("no services to annotate")
)

// Progress reports the state of the current or most recent run.
type Progress struct {
	Running    bool      `json:"running"`
	Total      int       `json:"total"`
	Done       int       `json:"done"`
	Current    string    `json:"current,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Annotator computes and applies annotation blocks for catalog services.
// One run at a time; the API layer polls Progress while a run executes.
type Annotator struct {
	store   *catalog.Store
	logger  *logging.Logger
	metrics *monitoring.Metrics

	mu       sync.Mutex
	running  bool
	progress Progress
}

// New creates an annotator over the catalog.
func New(store *catalog.Store) *Annotator {
	return &Annotator{
		store:  store,
		logger: logging.NewNop(),
	}
}

// WithLogger attaches structured logging.
func (a *Annotator) WithLogger(logger *logging.Logger) *Annotator {
	if logger != nil {
		a.logger = logger.Named("annotator")
	}
	return a
}

// WithMetrics attaches Prometheus instrumentation.
func (a *Annotator) WithMetrics(metrics *monitoring.Metrics) *Annotator {
	a.metrics = metrics
	return a
}

// Start launches a background run over the given service ids (all when
// empty) and returns immediately. A second Start while one is live fails
// with ErrRunning.
func (a *Annotator) Start(ctx context.Context, ids []string) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return ErrRunning
	}
	a.running = true
	a.progress = Progress{Running: true, StartedAt: time.Now().UTC()}
	a.mu.Unlock()

	// The run must outlive the request that started it.
	detached := context.WithoutCancel(ctx)
	go func() {
		if _, err := a.annotate(detached, ids); err != nil {
			a.logger.Warn("annotation run failed", zap.Error(err))
		}
	}()
	return nil
}

// Run annotates synchronously and returns how many services were updated.
func (a *Annotator) Run(ctx context.Context, ids []string) (int, error) {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return 0, ErrRunning
	}
	a.running = true
	a.progress = Progress{Running: true, StartedAt: time.Now().UTC()}
	a.mu.Unlock()

	return a.annotate(ctx, ids)
}

// Progress returns a copy of the current run state.
func (a *Annotator) Progress() Progress {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.progress
}

func (a *Annotator) annotate(ctx context.Context, ids []string) (int, error) {
	started := time.Now()
	defer func() {
		a.mu.Lock()
		a.running = false
		a.progress.Running = false
		a.progress.Current = ""
		a.progress.FinishedAt = time.Now().UTC()
		a.mu.Unlock()
	}()

	snap := a.store.Snapshot()
	targets := snap.Services()
	if len(ids) > 0 {
		wanted := make(map[string]bool, len(ids))
		for _, id := range ids {
			wanted[id] = true
		}
		targets = snap.Restrict(wanted).Services()
	}
	if len(targets) == 0 {
		return 0, ErrNoServices
	}

	a.mu.Lock()
	a.progress.Total = len(targets)
	a.mu.Unlock()

	done := 0
	for _, svc := range targets {
		if err := ctx.Err(); err != nil {
			return done, err
		}

		a.mu.Lock()
		a.progress.Current = svc.ID
		a.mu.Unlock()

		ann := Annotate(svc, snap)
		if err := a.store.SetAnnotations(svc.ID, ann); err != nil {
			return done, fmt.Errorf("annotate %s: %w", svc.ID, err)
		}

		done++
		a.mu.Lock()
		a.progress.Done = done
		a.mu.Unlock()
	}

	elapsed := time.Since(started)
	if a.metrics != nil {
		a.metrics.RecordAnnotationRun(done, elapsed)
	}
	a.logger.Info("annotation run complete",
		zap.Int("services", done),
		zap.Duration("duration", elapsed),
	)
	return done, nil
}
