package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/domain/benchmark"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/domain/catalog"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/paths"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/types"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/utils"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// ParseServicesFile parses one service descriptor document, choosing the
// parser by extension and sniffing the content type for unknown ones.
func ParseServicesFile(data []byte, filename string) ([]*types.Service, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".wsdl", ".xml":
		svc, err := ParseService(data, filename)
		if err != nil {
			return nil, err
		}
		return []*types.Service{svc}, nil
	case ".json", ".yaml", ".yml", ".toml":
		return ParseDescriptor(data, filename)
	}
	mtype := mimetype.Detect(data)
	if mtype.Is("text/xml") || mtype.Is("application/xml") {
		svc, err := ParseService(data, filename)
		if err != nil {
			return nil, err
		}
		return []*types.Service{svc}, nil
	}
	return ParseDescriptor(data, filename)
}

// CollectServices parses a descriptor file or archive bundle. It returns
// every service found plus one message per document that failed, so a bad
// entry cannot sink the rest of an upload.
func CollectServices(data []byte, filename string) ([]*types.Service, []string) {
	if !IsArchive(filename) {
		svcs, err := ParseServicesFile(data, filename)
		if err != nil {
			return nil, []string{fmt.Sprintf("%s: %v", filename, err)}
		}
		return svcs, nil
	}

	entries, err := ExtractArchive(data, filename)
	if err != nil {
		return nil, []string{fmt.Sprintf("%s: %v", filename, err)}
	}
	var (
		all  []*types.Service
		errs []string
	)
	for _, entry := range entries {
		if IsArchive(entry.Name) {
			errs = append(errs, fmt.Sprintf("%s: nested archives are not expanded", entry.Name))
			continue
		}
		svcs, err := ParseServicesFile(entry.Data, entry.Name)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", entry.Name, err))
			continue
		}
		all = append(all, svcs...)
	}
	return all, errs
}

// Report summarizes one dataset load.
type Report struct {
	Services  int      `json:"services"`
	Requests  int      `json:"requests"`
	Solutions int      `json:"solutions"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}

// Loader fills the catalog, request, and benchmark stores from a dataset
// directory laid out per shared/paths.
type Loader struct {
	services  *catalog.Store
	requests  *catalog.RequestStore
	solutions *benchmark.Store
	logger    *logging.Logger
	metrics   *monitoring.Metrics
}

// NewLoader creates a loader over the given stores.
func NewLoader(services *catalog.Store, requests *catalog.RequestStore, solutions *benchmark.Store) *Loader {
	return &Loader{
		services:  services,
		requests:  requests,
		solutions: solutions,
		logger:    logging.NewNop(),
	}
}

// WithLogger attaches a logger.
func (l *Loader) WithLogger(logger *logging.Logger) *Loader {
	if logger != nil {
		l.logger = logger.Named("loader")
	}
	return l
}

// WithMetrics attaches a metrics recorder.
func (l *Loader) WithMetrics(metrics *monitoring.Metrics) *Loader {
	l.metrics = metrics
	return l
}

// LoadDataset walks the dataset root and ingests everything it recognizes:
// service descriptors and bundles under services/, request documents under
// requests/, best-known solutions under solutions/. Missing subdirectories
// are fine; a dataset may carry only services.
func (l *Loader) LoadDataset(ctx context.Context, root string) (*Report, error) {
	ds := paths.Dataset{Root: root}
	rep := &Report{}
	var mu sync.Mutex

	fail := func(kind, name string, err error) {
		mu.Lock()
		rep.Failed++
		rep.Errors = append(rep.Errors, fmt.Sprintf("%s: %v", name, err))
		mu.Unlock()
		l.record(kind, "failure", 0)
	}

	servicePatterns := append(append([]string{}, paths.DescriptorPatterns...), paths.ArchivePatterns...)
	err := l.walk(ctx, ds.ServicesDir(), servicePatterns, func(name string, data []byte) {
		started := time.Now()
		svcs, errs := CollectServices(data, name)
		added := 0
		for _, svc := range svcs {
			if err := l.services.Add(*svc); err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", svc.ID, err))
				continue
			}
			added++
		}
		mu.Lock()
		rep.Services += added
		rep.Failed += len(errs)
		rep.Errors = append(rep.Errors, errs...)
		mu.Unlock()
		status := "success"
		if added == 0 {
			status = "failure"
		}
		l.record("service", status, time.Since(started))
	})
	if err != nil {
		return rep, fmt.Errorf("load services: %w", err)
	}

	err = l.walk(ctx, ds.RequestsDir(), []string{"**/*.xml"}, func(name string, data []byte) {
		started := time.Now()
		reqs, err := ParseRequests(data)
		if err != nil {
			fail("request", name, err)
			return
		}
		added := 0
		for _, req := range reqs {
			if err := l.requests.Add(*req); err != nil {
				mu.Lock()
				rep.Failed++
				rep.Errors = append(rep.Errors, fmt.Sprintf("%s: %v", req.ID, err))
				mu.Unlock()
				continue
			}
			added++
		}
		mu.Lock()
		rep.Requests += added
		mu.Unlock()
		l.record("request", "success", time.Since(started))
	})
	if err != nil {
		return rep, fmt.Errorf("load requests: %w", err)
	}

	err = l.walk(ctx, ds.SolutionsDir(), []string{"**/*.xml"}, func(name string, data []byte) {
		started := time.Now()
		sols, err := ParseSolutions(data)
		if err != nil {
			fail("solution", name, err)
			return
		}
		added := 0
		for _, sol := range sols {
			if err := l.solutions.Put(sol); err != nil {
				continue
			}
			added++
		}
		mu.Lock()
		rep.Solutions += added
		mu.Unlock()
		l.record("solution", "success", time.Since(started))
	})
	if err != nil {
		return rep, fmt.Errorf("load solutions: %w", err)
	}

	l.logger.Info("dataset loaded",
		zap.String("root", root),
		zap.Int("services", rep.Services),
		zap.Int("requests", rep.Requests),
		zap.Int("solutions", rep.Solutions),
		zap.Int("failed", rep.Failed),
	)
	return rep, nil
}

// walk visits every regular file under dir whose path matches one of the
// glob patterns. Files past the document size limit are skipped.
func (l *Loader) walk(ctx context.Context, dir string, patterns []string, fn func(name string, data []byte)) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}
	conf := fastwalk.Config{Follow: false}
	return fastwalk.Walk(&conf, dir, func(path string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err != nil || d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil
		}
		if !matchesAny(patterns, rel) {
			return nil
		}
		if info, err := d.Info(); err != nil || info.Size() > int64(utils.MaxDocumentSize) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		fn(rel, data)
		return nil
	})
}

func matchesAny(patterns []string, rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func (l *Loader) record(kind, status string, duration time.Duration) {
	if l.metrics != nil {
		l.metrics.RecordIngest(kind, status, duration)
	}
}
