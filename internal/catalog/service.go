package catalog

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/obrasuite/obrasuite/internal/domain"
	"github.com/obrasuite/obrasuite/pkg/metrics"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Sync states reported by Status.
const (
	StateIdle    = "idle"
	StateSyncing = "syncing"
	StateReady   = "ready"
	StateFailed  = "failed"
)

// Status is the externally visible state of the sync service.
type Status struct {
	State      string    `json:"state"`
	Progress   int       `json:"progress"`
	Products   int       `json:"products"`
	LastSyncAt time.Time `json:"last_sync_at,omitempty"`
	LastError  string    `json:"last_error,omitempty"`
}

// Service owns the in-memory catalog and refreshes it from the feed.
// Every refresh is a full re-fetch guarded by a generation token: only the
// most recently started fetch may commit, so an abandoned fetch can never
// interleave its pages into a fresher catalog. Concurrent refresh triggers
// collapse into one flight.
type Service struct {
	client   FeedClient
	pageSize int
	sf       singleflight.Group

	mu         sync.RWMutex
	snap       *Snapshot
	latestGen  uint64
	state      string
	progress   int
	lastErr    error
	lastSyncAt time.Time
}

func NewService(client FeedClient, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = 500
	}
	return &Service{client: client, pageSize: pageSize, state: StateIdle}
}

// Current returns the last committed snapshot, nil before the first
// successful sync.
func (s *Service) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Status{
		State:      s.state,
		Progress:   s.progress,
		Products:   s.snap.Len(),
		LastSyncAt: s.lastSyncAt,
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}

// Sync runs one full catalog load. Concurrent callers share a single
// in-flight load and its result.
func (s *Service) Sync(ctx context.Context) error {
	_, err, _ := s.sf.Do("sync", func() (interface{}, error) {
		return nil, s.syncOnce(ctx)
	})
	return err
}

func (s *Service) syncOnce(ctx context.Context) error {
	gen := s.begin()
	started := time.Now()

	products, err := FetchAll(ctx, s.client, s.pageSize, func(pct int) {
		s.setProgress(gen, pct)
	})
	if err != nil {
		// a failed load leaves no partial catalog behind
		s.commit(gen, nil, err)
		zap.L().Error("catalog sync failed", zap.Uint64("generation", gen), zap.Error(err))
		return err
	}

	if !s.commit(gen, NewSnapshot(products), nil) {
		zap.L().Info("discarding catalog from superseded fetch", zap.Uint64("generation", gen))
		return nil
	}

	metrics.Record(metrics.MetricCatalogSyncDuration, float64(time.Since(started).Milliseconds()))
	metrics.Record(metrics.MetricCatalogSyncProducts, float64(len(products)))
	zap.L().Info("catalog sync complete",
		zap.Uint64("generation", gen),
		zap.Int("products", len(products)),
		zap.Duration("elapsed", time.Since(started)))
	return nil
}

// begin assigns the next generation token and marks the service syncing.
func (s *Service) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latestGen++
	s.state = StateSyncing
	s.progress = 0
	return s.latestGen
}

// commit installs the result of a fetch generation. Results from any
// generation other than the most recently started one are discarded.
func (s *Service) commit(gen uint64, snap *Snapshot, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.latestGen {
		return false
	}
	if err != nil {
		s.snap = nil
		s.state = StateFailed
		s.lastErr = err
		return true
	}
	s.snap = snap
	s.state = StateReady
	s.progress = 100
	s.lastErr = nil
	s.lastSyncAt = time.Now()
	return true
}

func (s *Service) setProgress(gen uint64, pct int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.latestGen {
		return
	}
	s.progress = pct
}

// FetchAll pulls the entire feed page by page, strictly sequentially, and
// reports cumulative progress after each page. Termination is driven by
// the page size actually requested against the source-reported total, so a
// source that changes its default page size cannot truncate the load. Any
// page failure aborts the whole load.
func FetchAll(ctx context.Context, client FeedClient, pageSize int, onProgress func(int)) ([]domain.Product, error) {
	var all []domain.Product
	for page := 1; ; page++ {
		fp, err := client.FetchPage(ctx, page, pageSize)
		if err != nil {
			return nil, err
		}

		all = append(all, fp.Products...)
		total := fp.TotalCount

		if onProgress != nil {
			if total <= 0 {
				onProgress(100)
			} else {
				pct := int(math.Round(float64(len(all)) / float64(total) * 100))
				if pct > 100 {
					pct = 100
				}
				onProgress(pct)
			}
		}

		if total <= 0 {
			return all, nil
		}
		// "more pages remain" derives from the page size actually used in
		// the request, never an assumed constant
		if page*pageSize >= total {
			return all, nil
		}
		if len(fp.Products) == 0 {
			return nil, errors.Errorf("catalog feed returned an empty page %d with %d of %d records fetched", page, len(all), total)
		}
	}
}
