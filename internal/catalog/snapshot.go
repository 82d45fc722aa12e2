package catalog

import (
	"time"

	"github.com/google/btree"
	"github.com/obrasuite/obrasuite/internal/domain"
)

type skuEntry struct {
	sku string
	pos int
}

func lessSku(a, b skuEntry) bool { return a.sku < b.sku }

// Snapshot is one fully fetched catalog generation. It is immutable after
// construction; a new fetch produces a new snapshot.
type Snapshot struct {
	products  []domain.Product
	index     *btree.BTreeG[skuEntry]
	fetchedAt time.Time
}

func NewSnapshot(products []domain.Product) *Snapshot {
	idx := btree.NewG[skuEntry](32, lessSku)
	for i, p := range products {
		idx.ReplaceOrInsert(skuEntry{sku: p.Sku, pos: i})
	}
	return &Snapshot{products: products, index: idx, fetchedAt: time.Now()}
}

// Products returns the feed-ordered product list. Callers must treat the
// slice as read-only.
func (s *Snapshot) Products() []domain.Product {
	if s == nil {
		return nil
	}
	return s.products
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.products)
}

func (s *Snapshot) FetchedAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.fetchedAt
}

// Lookup finds a product by sku.
func (s *Snapshot) Lookup(sku string) (domain.Product, bool) {
	if s == nil {
		return domain.Product{}, false
	}
	entry, ok := s.index.Get(skuEntry{sku: sku})
	if !ok {
		return domain.Product{}, false
	}
	return s.products[entry.pos], true
}
