package catalog

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/obrasuite/obrasuite/internal/domain"
	"github.com/pkg/errors"
)

// pagedFeed serves `total` synthetic products in feed order.
type pagedFeed struct {
	mu       sync.Mutex
	total    int
	calls    int
	failPage int // fail when fetching this page, 0 = never
}

func (f *pagedFeed) FetchPage(ctx context.Context, page, pageSize int) (*FeedPage, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.failPage != 0 && page == f.failPage {
		return nil, errors.Errorf("page %d unavailable", page)
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > f.total {
		end = f.total
	}
	fp := &FeedPage{TotalCount: f.total}
	for i := start; i < end; i++ {
		fp.Products = append(fp.Products, domain.Product{
			Sku:       fmt.Sprintf("SKU-%04d", i),
			Name:      fmt.Sprintf("product %d", i),
			UnitPrice: float64(100 + i),
			Unit:      domain.UnitCount,
		})
	}
	return fp, nil
}

func (f *pagedFeed) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestFetchAllPaginates(t *testing.T) {
	feed := &pagedFeed{total: 1200}
	var progress []int

	products, err := FetchAll(context.Background(), feed, 500, func(pct int) {
		progress = append(progress, pct)
	})
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(products) != 1200 {
		t.Fatalf("len(products) = %d, want 1200", len(products))
	}
	if feed.callCount() != 3 {
		t.Fatalf("page fetches = %d, want 3", feed.callCount())
	}
	want := []int{42, 83, 100}
	if len(progress) != len(want) {
		t.Fatalf("progress = %v, want %v", progress, want)
	}
	for i := range want {
		if progress[i] != want[i] {
			t.Fatalf("progress = %v, want %v", progress, want)
		}
	}
}

func TestFetchAllUsesRequestedPageSize(t *testing.T) {
	// a termination test hard-coded to 500 would stop after one page here
	feed := &pagedFeed{total: 150}
	products, err := FetchAll(context.Background(), feed, 50, nil)
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(products) != 150 {
		t.Fatalf("len(products) = %d, want 150", len(products))
	}
	if feed.callCount() != 3 {
		t.Fatalf("page fetches = %d, want 3", feed.callCount())
	}
}

func TestFetchAllEmptyFeed(t *testing.T) {
	var progress []int
	products, err := FetchAll(context.Background(), &pagedFeed{total: 0}, 500, func(pct int) {
		progress = append(progress, pct)
	})
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("len(products) = %d, want 0", len(products))
	}
	if len(progress) != 1 || progress[0] != 100 {
		t.Fatalf("progress = %v, want [100]", progress)
	}
}

func TestFetchAllAbortsOnPageFailure(t *testing.T) {
	feed := &pagedFeed{total: 1200, failPage: 2}
	products, err := FetchAll(context.Background(), feed, 500, nil)
	if err == nil {
		t.Fatal("expected page failure to abort the load")
	}
	if products != nil {
		t.Fatalf("no partial catalog may survive a failed load, got %d products", len(products))
	}
}

func TestFetchAllRejectsShortFeed(t *testing.T) {
	// source claims more records than it serves; must error, not spin
	feed := &pagedFeed{total: 2000}
	short := &truncatedFeed{inner: feed, serveUpTo: 1}
	_, err := FetchAll(context.Background(), short, 500, nil)
	if err == nil {
		t.Fatal("expected an error for a feed that under-delivers its total")
	}
}

type truncatedFeed struct {
	inner     *pagedFeed
	serveUpTo int
}

func (f *truncatedFeed) FetchPage(ctx context.Context, page, pageSize int) (*FeedPage, error) {
	if page > f.serveUpTo {
		return &FeedPage{TotalCount: f.inner.total}, nil
	}
	return f.inner.FetchPage(ctx, page, pageSize)
}

func TestServiceSync(t *testing.T) {
	s := NewService(&pagedFeed{total: 120}, 50)
	if s.Current() != nil {
		t.Fatal("snapshot must be nil before the first sync")
	}
	if err := s.Sync(context.Background()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	snap := s.Current()
	if snap.Len() != 120 {
		t.Fatalf("snapshot len = %d, want 120", snap.Len())
	}
	if _, ok := snap.Lookup("SKU-0042"); !ok {
		t.Fatal("Lookup(SKU-0042) missed")
	}
	st := s.Status()
	if st.State != StateReady || st.Progress != 100 || st.Products != 120 {
		t.Fatalf("status = %+v", st)
	}
}

func TestServiceSyncFailureLeavesEmptyCatalog(t *testing.T) {
	s := NewService(&pagedFeed{total: 120}, 50)
	if err := s.Sync(context.Background()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	s.client = &pagedFeed{total: 120, failPage: 2}
	if err := s.Sync(context.Background()); err == nil {
		t.Fatal("expected sync failure")
	}
	if s.Current() != nil {
		t.Fatal("a failed load must leave an empty catalog, not the previous one")
	}
	if st := s.Status(); st.State != StateFailed || st.LastError == "" {
		t.Fatalf("status = %+v", st)
	}
}

// gatedFeed blocks page fetches until released and signals first entry.
type gatedFeed struct {
	inner   *pagedFeed
	gate    chan struct{}
	entered chan struct{}
	once    sync.Once
}

func (f *gatedFeed) FetchPage(ctx context.Context, page, pageSize int) (*FeedPage, error) {
	f.once.Do(func() { close(f.entered) })
	<-f.gate
	return f.inner.FetchPage(ctx, page, pageSize)
}

func TestStaleGenerationIsDiscarded(t *testing.T) {
	stale := &gatedFeed{inner: &pagedFeed{total: 10}, gate: make(chan struct{}), entered: make(chan struct{})}
	s := NewService(stale, 50)

	done := make(chan error, 1)
	go func() { done <- s.syncOnce(context.Background()) }()
	<-stale.entered

	// second fetch supersedes the first while it is still in flight
	s.client = &pagedFeed{total: 3}
	if err := s.syncOnce(context.Background()); err != nil {
		t.Fatalf("fresh sync: %v", err)
	}

	close(stale.gate)
	if err := <-done; err != nil {
		t.Fatalf("stale sync: %v", err)
	}

	snap := s.Current()
	if snap.Len() != 3 {
		t.Fatalf("snapshot len = %d, want 3 (stale generation must not commit)", snap.Len())
	}
}
