package annotation

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/domain/catalog"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/types"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// ErrNotFound means the annotation service has no block for the service id.
var ErrNotFound = errors.New("annotations not found")

// Config holds the connection settings for the annotation service.
type Config struct {
	Address  string
	Timeout  time.Duration
	RetryMax int
}

// Client talks to the annotation service over HTTP.
type Client struct {
	base    string
	resty   *resty.Client
	breaker *resilience.Breaker
	logger  *logging.Logger
	metrics *monitoring.Metrics
}

// New creates a client for the annotation service at cfg.Address.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	retryMax := cfg.RetryMax
	if retryMax < 0 {
		retryMax = 0
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = retryMax
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 30 * time.Second
	retryClient.Logger = nil

	restyClient := resty.New()
	restyClient.
		SetBaseURL(cfg.Address).
		SetTimeout(timeout).
		SetRetryCount(retryMax).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(30 * time.Second).
		SetHeader("User-Agent", "ComposerOS-Annotation/1.0")
	restyClient.SetTransport(retryClient.HTTPClient.Transport)

	breaker := resilience.New("annotation-service", resilience.Settings{
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 10 ||
				(counts.Requests >= 20 && float64(counts.TotalFailures)/float64(counts.Requests) > 0.7)
		},
	})

	return &Client{
		base:    cfg.Address,
		resty:   restyClient,
		breaker: breaker,
		logger:  logging.NewNop(),
	}
}

// WithLogger attaches structured logging.
func (c *Client) WithLogger(logger *logging.Logger) *Client {
	if logger != nil {
		c.logger = logger.Named("annotation-client")
	}
	return c
}

// WithMetrics attaches Prometheus instrumentation.
func (c *Client) WithMetrics(metrics *monitoring.Metrics) *Client {
	c.metrics = metrics
	return c
}

// BreakerState returns the current circuit breaker state.
func (c *Client) BreakerState() resilience.State {
	return c.breaker.State()
}

// Health checks that the annotation service answers.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.execute(ctx, "health", func(req *resty.Request) (*resty.Response, error) {
		return req.Get("/health")
	})
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("annotation service unhealthy: %s", resp.Status())
	}
	return nil
}

// Fetch retrieves the annotation block for one service. A 404 from the
// service maps to ErrNotFound so callers can tell unknown ids from outages.
func (c *Client) Fetch(ctx context.Context, serviceID string) (*types.Annotations, error) {
	if serviceID == "" {
		return nil, fmt.Errorf("fetch annotations: empty service id")
	}

	var ann types.Annotations
	resp, err := c.execute(ctx, "fetch", func(req *resty.Request) (*resty.Response, error) {
		return req.SetResult(&ann).Get("/annotations/" + url.PathEscape(serviceID))
	})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == 404 {
		return nil, fmt.Errorf("fetch annotations for %s: %w", serviceID, ErrNotFound)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch annotations for %s: %s", serviceID, resp.Status())
	}
	if err := ann.Validate(); err != nil {
		return nil, fmt.Errorf("fetch annotations for %s: %w", serviceID, err)
	}
	return &ann, nil
}

// SyncReport summarizes one catalog sync against the annotation service.
type SyncReport struct {
	Requested int      `json:"requested"`
	Applied   int      `json:"applied"`
	Missing   int      `json:"missing"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}

// Sync fetches annotation blocks for the given service ids (the whole
// catalog when empty) and applies them to the store. Per-service failures
// are collected rather than aborting; the sync stops early only when the
// context ends or the circuit opens.
func (c *Client) Sync(ctx context.Context, store *catalog.Store, ids []string) (*SyncReport, error) {
	if len(ids) == 0 {
		for _, svc := range store.List() {
			ids = append(ids, svc.ID)
		}
	}

	rep := &SyncReport{Requested: len(ids)}
	started := time.Now()
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return rep, err
		}

		ann, err := c.Fetch(ctx, id)
		if errors.Is(err, ErrNotFound) {
			rep.Missing++
			continue
		}
		if errors.Is(err, resilience.ErrCircuitOpen) {
			return rep, fmt.Errorf("annotation service unavailable: %w", err)
		}
		if err != nil {
			rep.Failed++
			rep.Errors = append(rep.Errors, fmt.Sprintf("%s: %v", id, err))
			continue
		}

		if err := store.SetAnnotations(id, ann); err != nil {
			rep.Failed++
			rep.Errors = append(rep.Errors, fmt.Sprintf("%s: %v", id, err))
			continue
		}
		rep.Applied++
	}

	c.logger.Info("annotation sync complete",
		zap.Int("requested", rep.Requested),
		zap.Int("applied", rep.Applied),
		zap.Int("missing", rep.Missing),
		zap.Int("failed", rep.Failed),
		zap.Duration("duration", time.Since(started)),
	)
	return rep, nil
}

func (c *Client) execute(ctx context.Context, method string, fn func(*resty.Request) (*resty.Response, error)) (*resty.Response, error) {
	if c.base == "" {
		return nil, fmt.Errorf("annotation service address not configured")
	}

	started := time.Now()
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return fn(c.resty.R().SetContext(ctx))
	})
	if err != nil {
		c.recordError(method, err)
		if errors.Is(err, resilience.ErrCircuitOpen) {
			return nil, err
		}
		return nil, fmt.Errorf("annotation service %s: %w", method, err)
	}

	resp := result.(*resty.Response)
	if c.metrics != nil {
		c.metrics.RecordServiceCall("annotation", method, strconv.Itoa(resp.StatusCode()), time.Since(started))
	}
	return resp, nil
}

func (c *Client) recordError(method string, err error) {
	errType := "transport"
	if errors.Is(err, resilience.ErrCircuitOpen) {
		errType = "circuit_open"
	}
	if c.metrics != nil {
		c.metrics.RecordServiceError("annotation", method, errType)
	}
	c.logger.Warn("annotation service call failed",
		zap.String("method", method),
		zap.Error(err),
	)
}
