package cart

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/obrasuite/obrasuite/internal/domain"
	bolt "go.etcd.io/bbolt"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cart.db"), "cart")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func countProduct(sku string, price float64) domain.Product {
	return domain.Product{Sku: sku, Name: "item " + sku, UnitPrice: price, Unit: domain.UnitCount}
}

func areaProduct(sku string, price, coverage float64) domain.Product {
	return domain.Product{Sku: sku, Name: "item " + sku, UnitPrice: price, Unit: domain.UnitArea, Coefficient: coverage}
}

func TestAddOne(t *testing.T) {
	s := openTestStore(t)

	p := countProduct("SKU-1", 1000)
	if err := s.AddOne(p); err != nil {
		t.Fatalf("AddOne: %v", err)
	}
	if err := s.AddOne(p); err != nil {
		t.Fatalf("AddOne again: %v", err)
	}

	items := s.Items()
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	if items[0].Quantity != 2 {
		t.Fatalf("quantity = %v, want 2", items[0].Quantity)
	}
}

func TestAddOneRejectsAreaProducts(t *testing.T) {
	s := openTestStore(t)
	if err := s.AddOne(areaProduct("AR-1", 500, 3)); err != ErrCountOnly {
		t.Fatalf("AddOne(area) = %v, want ErrCountOnly", err)
	}
	if s.Len() != 0 {
		t.Fatal("cart must stay empty after rejected AddOne")
	}
}

func TestSetArea(t *testing.T) {
	s := openTestStore(t)
	p := areaProduct("AR-1", 500, 3)

	if err := s.SetArea(p, 7); err != nil {
		t.Fatalf("SetArea: %v", err)
	}
	items := s.Items()
	if len(items) != 1 || items[0].Quantity != 9 {
		t.Fatalf("items = %+v, want one line with quantity 9", items)
	}

	// overwrite, not accumulate
	if err := s.SetArea(p, 2); err != nil {
		t.Fatalf("SetArea overwrite: %v", err)
	}
	if got := s.Items()[0].Quantity; got != 3 {
		t.Fatalf("quantity after overwrite = %v, want 3", got)
	}
}

func TestSetAreaInvalidInputIsNoop(t *testing.T) {
	s := openTestStore(t)
	p := areaProduct("AR-1", 500, 3)
	if err := s.SetArea(p, 7); err != nil {
		t.Fatalf("SetArea: %v", err)
	}

	for _, area := range []float64{0, -2, math.NaN(), math.Inf(1)} {
		if err := s.SetArea(p, area); err != nil {
			t.Fatalf("SetArea(%v): %v", area, err)
		}
	}
	// broken coefficient is equally a no-op
	if err := s.SetArea(areaProduct("AR-2", 100, 0), 5); err != nil {
		t.Fatalf("SetArea broken coefficient: %v", err)
	}

	items := s.Items()
	if len(items) != 1 || items[0].Quantity != 9 {
		t.Fatalf("cart changed by invalid input: %+v", items)
	}
}

func TestAdjustQuantityRemovesAtZero(t *testing.T) {
	s := openTestStore(t)
	p := countProduct("SKU-1", 100)
	if err := s.AddOne(p); err != nil {
		t.Fatalf("AddOne: %v", err)
	}

	if err := s.AdjustQuantity("SKU-1", -1); err != nil {
		t.Fatalf("AdjustQuantity: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("entry should be removed, cart has %d lines", s.Len())
	}
}

func TestAdjustQuantityAreaStepsByPackage(t *testing.T) {
	s := openTestStore(t)
	p := areaProduct("AR-1", 500, 3)
	if err := s.SetArea(p, 7); err != nil { // 9 = 3 packages
		t.Fatalf("SetArea: %v", err)
	}

	if err := s.AdjustQuantity("AR-1", 1); err != nil {
		t.Fatalf("AdjustQuantity +1: %v", err)
	}
	if got := s.Items()[0].Quantity; got != 12 {
		t.Fatalf("quantity = %v, want 12", got)
	}

	if err := s.AdjustQuantity("AR-1", -4); err != nil {
		t.Fatalf("AdjustQuantity -4: %v", err)
	}
	if s.Len() != 0 {
		t.Fatal("stepping to zero packages should remove the line")
	}
}

func TestAdjustQuantityAbsentSku(t *testing.T) {
	s := openTestStore(t)
	if err := s.AdjustQuantity("missing", 1); err != nil {
		t.Fatalf("AdjustQuantity absent sku: %v", err)
	}
	if s.Len() != 0 {
		t.Fatal("adjusting an absent sku must not create a line")
	}
}

func TestSetQuantityNonPositiveRemoves(t *testing.T) {
	s := openTestStore(t)
	if err := s.AddOne(countProduct("SKU-1", 100)); err != nil {
		t.Fatalf("AddOne: %v", err)
	}
	if err := s.SetQuantity("SKU-1", 0); err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}
	if s.Len() != 0 {
		t.Fatal("non-positive quantity must remove the line")
	}
}

func TestRemoveIdempotent(t *testing.T) {
	s := openTestStore(t)
	if err := s.AddOne(countProduct("SKU-1", 100)); err != nil {
		t.Fatalf("AddOne: %v", err)
	}
	if err := s.Remove("SKU-1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := s.Remove("SKU-1"); err != nil {
		t.Fatalf("Remove again: %v", err)
	}
	if err := s.Remove("never-there"); err != nil {
		t.Fatalf("Remove absent: %v", err)
	}
}

func TestRoundTripAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cart.db")

	s, err := Open(path, "cart")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.AddOne(countProduct("SKU-1", 100)); err != nil {
		t.Fatalf("AddOne: %v", err)
	}
	if err := s.AddOne(countProduct("SKU-2", 250)); err != nil {
		t.Fatalf("AddOne: %v", err)
	}
	if err := s.SetArea(areaProduct("AR-1", 500, 3), 7); err != nil {
		t.Fatalf("SetArea: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s2, err := Open(path, "cart")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	want := map[string]float64{"SKU-1": 1, "SKU-2": 1, "AR-1": 9}
	items := s2.Items()
	if len(items) != len(want) {
		t.Fatalf("len(items) = %d, want %d", len(items), len(want))
	}
	for _, it := range items {
		if want[it.Product.Sku] != it.Quantity {
			t.Fatalf("sku %s quantity = %v, want %v", it.Product.Sku, it.Quantity, want[it.Product.Sku])
		}
	}
	// insertion order survives the round trip
	if items[0].Product.Sku != "SKU-1" || items[2].Product.Sku != "AR-1" {
		t.Fatalf("order not preserved: %+v", items)
	}
}

func TestCorruptPayloadLoadsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cart.db")

	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		t.Fatalf("bolt open: %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		return b.Put([]byte("cart"), []byte("{not json"))
	})
	if err != nil {
		t.Fatalf("seed corrupt payload: %v", err)
	}
	_ = db.Close()

	s, err := Open(path, "cart")
	if err != nil {
		t.Fatalf("open over corrupt payload: %v", err)
	}
	defer s.Close()
	if s.Len() != 0 {
		t.Fatalf("corrupt cart should load empty, got %d lines", s.Len())
	}

	// the store stays usable afterwards
	if err := s.AddOne(countProduct("SKU-1", 100)); err != nil {
		t.Fatalf("AddOne after corrupt load: %v", err)
	}
}

func TestOpenMissingDir(t *testing.T) {
	_, err := Open(filepath.Join(string(os.PathSeparator), "no", "such", "dir", "cart.db"), "cart")
	if err == nil {
		t.Fatal("expected error opening cart db in missing directory")
	}
}
