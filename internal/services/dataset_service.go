package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"precatorios/internal/cache"
	"precatorios/internal/core"
	applog "precatorios/internal/log"
	"precatorios/internal/sheets"
)

// DefaultReadTimeout bounds a shared read once it is detached from the
// caller that started it.
const DefaultReadTimeout = 30 * time.Second

// DatasetService serves datasets from a reader through a shared cache.
// Concurrent loads of the same source share one read. The read does not
// belong to any one caller, so a caller giving up never fails the others.
type DatasetService struct {
	reader      sheets.DatasetReader
	cache       cache.Cache[[]core.Record]
	group       singleflight.Group
	readTimeout time.Duration
	logger      *applog.Logger
	events      *applog.StructuredLogger
}

func NewDatasetService(reader sheets.DatasetReader, c cache.Cache[[]core.Record], logger *applog.Logger) *DatasetService {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentDataset)
	return &DatasetService{
		reader:      reader,
		cache:       c,
		readTimeout: DefaultReadTimeout,
		logger:      logger,
		events:      applog.NewStructuredLogger(logger),
	}
}

// Load returns the records of source. The returned slice is shared with the
// cache and must not be modified. Failures are reported as *core.LoadFailure.
func (s *DatasetService) Load(ctx context.Context, source core.Source) ([]core.Record, error) {
	key := source.String()
	if s.cache != nil {
		if records, ok := s.cache.Get(key); ok {
			s.events.LogDatasetLoaded(ctx, key, len(records), true)
			return records, nil
		}
	}

	ch := s.group.DoChan(key, func() (interface{}, error) {
		readCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.readTimeout)
		defer cancel()

		records, err := s.reader.ReadRecords(readCtx, source)
		if err != nil {
			return nil, core.NewLoadFailure(source, err)
		}
		if records == nil {
			records = []core.Record{}
		}
		if s.cache != nil {
			s.cache.Set(key, records)
		}
		return records, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		res.Err = core.NewLoadFailure(source, ctx.Err())
	}
	if res.Err != nil {
		s.events.LogError(ctx, "Dataset load failed", res.Err, applog.OpLoad,
			applog.LogFields{applog.FieldSource: key})
		return nil, res.Err
	}

	records := res.Val.([]core.Record)
	if !res.Shared {
		s.events.LogDatasetLoaded(ctx, key, len(records), false)
	}
	return records, nil
}

// Invalidate drops the cached records of source.
func (s *DatasetService) Invalidate(source core.Source) {
	if s.cache != nil {
		s.cache.Delete(source.String())
	}
}

// Warm loads the given sources, or all of them, concurrently. Every source is
// attempted; the failures are returned joined.
func (s *DatasetService) Warm(ctx context.Context, sources ...core.Source) error {
	if len(sources) == 0 {
		sources = core.Sources()
	}

	var (
		mu   sync.Mutex
		errs []error
		g    errgroup.Group
	)
	for _, src := range sources {
		g.Go(func() error {
			if _, err := s.Load(ctx, src); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("warm %s: %w", src, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}
