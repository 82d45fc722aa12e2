package cart

import (
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/obrasuite/obrasuite/internal/domain"
	"github.com/obrasuite/obrasuite/internal/pricing"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var bucketName = []byte("carts")

// ErrCountOnly is returned when AddOne is applied to an area-priced product.
var ErrCountOnly = errors.New("cart: AddOne applies to count-priced products only")

// Store is the SKU-keyed durable cart. The in-memory state is loaded once
// from the bolt file at open and fully re-serialized after every mutation;
// there are no partial writes. Concurrent processes writing the same file
// are last-writer-wins, an accepted limitation of the design.
type Store struct {
	db  *bolt.DB
	key []byte

	mu    sync.Mutex
	items []domain.CartItem
	index map[string]int
}

// Open opens (creating if needed) the cart database at path and loads the
// cart stored under key. Corrupt stored data loads as an empty cart.
func Open(path, key string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open cart db")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "init cart bucket")
	}
	s := &Store{db: db, key: []byte(key), index: map[string]int{}}
	s.load()
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// load replaces the in-memory state from the durable store.
func (s *Store) load() {
	var raw []byte
	_ = s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketName).Get(s.key); v != nil {
			raw = append(raw, v...)
		}
		return nil
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.index = map[string]int{}
	if len(raw) == 0 {
		return
	}

	var env domain.CartEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		// corrupt payload degrades to an empty cart, never a load failure
		zap.L().Warn("discarding unreadable cart payload", zap.Error(err))
		return
	}
	for _, it := range env.Items {
		if it.Product.Sku == "" || it.Quantity <= 0 {
			continue
		}
		if _, dup := s.index[it.Product.Sku]; dup {
			continue
		}
		s.index[it.Product.Sku] = len(s.items)
		s.items = append(s.items, it)
	}
}

// Items returns the cart lines in stable insertion order.
func (s *Store) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Total prices the whole cart at the given discount percentage.
func (s *Store) Total(pct float64) int64 {
	return pricing.CartTotal(s.Items(), pct)
}

// AddOne inserts the product at quantity 1 or increments an existing line.
// Area-priced products must go through SetArea instead.
func (s *Store) AddOne(p domain.Product) error {
	if p.IsArea() {
		return ErrCountOnly
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cloneLocked()
	if pos, ok := s.index[p.Sku]; ok {
		next[pos].Quantity++
	} else {
		next = append(next, domain.CartItem{Product: p, Quantity: 1})
	}
	return s.saveLocked(next)
}

// SetArea quantizes the requested area into whole packages and overwrites
// the stored quantity, inserting the line when absent. Invalid input is a
// no-op that leaves the cart unchanged.
func (s *Store) SetArea(p domain.Product, area float64) error {
	coverage, ok := p.PackageCoverage()
	if !ok {
		return nil
	}
	qty, ok := NormalizeArea(area, coverage)
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cloneLocked()
	if pos, exists := s.index[p.Sku]; exists {
		next[pos].Quantity = qty
	} else {
		next = append(next, domain.CartItem{Product: p, Quantity: qty})
	}
	return s.saveLocked(next)
}

// SetQuantity unconditionally overwrites an existing line's quantity; a
// non-positive quantity removes the line. Absent skus are a no-op.
func (s *Store) SetQuantity(sku string, qty float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[sku]
	if !ok {
		return nil
	}
	next := s.cloneLocked()
	if qty <= 0 {
		next = append(next[:pos], next[pos+1:]...)
	} else {
		next[pos].Quantity = qty
	}
	return s.saveLocked(next)
}

// AdjustQuantity steps an existing line by delta. Count lines step by
// whole units, area lines by whole packages so the multiple-of-coverage
// invariant holds. A step that would land at or below zero removes the
// line rather than storing a non-positive quantity.
func (s *Store) AdjustQuantity(sku string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[sku]
	if !ok {
		return nil
	}
	next := s.cloneLocked()
	item := next[pos]

	step := float64(delta)
	if coverage, isArea := item.Product.PackageCoverage(); isArea {
		step = float64(delta) * coverage
	}
	qty := item.Quantity + step
	if qty <= 0 {
		next = append(next[:pos], next[pos+1:]...)
	} else {
		next[pos].Quantity = qty
	}
	return s.saveLocked(next)
}

// Remove deletes a line; removing an absent sku is a no-op.
func (s *Store) Remove(sku string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[sku]
	if !ok {
		return nil
	}
	next := s.cloneLocked()
	next = append(next[:pos], next[pos+1:]...)
	return s.saveLocked(next)
}

// Clear empties the cart (checkout capture).
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked([]domain.CartItem{})
}

func (s *Store) cloneLocked() []domain.CartItem {
	next := make([]domain.CartItem, len(s.items))
	copy(next, s.items)
	return next
}

// saveLocked persists the candidate state and commits it to memory only
// after the write succeeds.
func (s *Store) saveLocked(next []domain.CartItem) error {
	env := domain.CartEnvelope{SchemaVersion: domain.CartSchemaVersion, Items: next}
	raw, err := json.Marshal(env)
	if err != nil {
		return errors.Wrap(err, "serialize cart")
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put(s.key, raw)
	})
	if err != nil {
		return errors.Wrap(err, "persist cart")
	}

	s.items = next
	s.index = make(map[string]int, len(next))
	for i, it := range next {
		s.index[it.Product.Sku] = i
	}
	return nil
}
