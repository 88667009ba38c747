package cart

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/limestore/limectl/internal/model"
	"github.com/limestore/limectl/internal/storage"
)

func record(id, name string, price float64) map[string]any {
	return map[string]any{"id": id, "name": name, "price": price}
}

func newCart(t *testing.T) (*Service, *storage.MemStore) {
	t.Helper()
	st := storage.NewMemStore()
	return NewService(st, nil), st
}

func TestAdd_MergesSameID(t *testing.T) {
	t.Parallel()
	s, _ := newCart(t)

	if _, err := s.Add(record("p1", "Lime Tart", 10), 3); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := s.Add(record("p1", "Lime Tart", 10), 5); err != nil {
		t.Fatalf("Add: %v", err)
	}

	lines := s.Lines()
	if len(lines) != 1 || lines[0].Quantity != 8 {
		t.Fatalf("want one line qty=8, got %+v", lines)
	}
}

func TestAdd_ClampsMergedQuantityAt99(t *testing.T) {
	t.Parallel()
	s, _ := newCart(t)

	_, _ = s.Add(record("p1", "Lime Tart", 10), 95)
	_, _ = s.Add(record("p1", "Lime Tart", 10), 10)

	lines := s.Lines()
	if len(lines) != 1 || lines[0].Quantity != 99 {
		t.Fatalf("want qty clamped to 99, got %+v", lines)
	}
}

func TestAdd_IDPrecedenceAndRejection(t *testing.T) {
	t.Parallel()
	s, _ := newCart(t)

	// productId accepted when id absent
	if _, err := s.Add(map[string]any{"productId": "alt", "name": "Zest"}, 1); err != nil {
		t.Fatalf("productId alias: %v", err)
	}
	// slug is the last resort
	if _, err := s.Add(map[string]any{"slug": "lime-soda", "name": "Soda"}, 1); err != nil {
		t.Fatalf("slug alias: %v", err)
	}
	// no derivable id and no name → rejected, cart unchanged
	before := s.Lines()
	if _, err := s.Add(map[string]any{"price": 3.0}, 1); err == nil {
		t.Fatalf("want rejection for record without id/name")
	}
	if !reflect.DeepEqual(before, s.Lines()) {
		t.Fatalf("cart changed by rejected add")
	}
}

func TestAdd_NormalizesPriceAndName(t *testing.T) {
	t.Parallel()
	s, _ := newCart(t)

	line, err := s.Add(map[string]any{"id": "p9", "name": "  Lime Curd  ", "price": "not-a-number"}, 2)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if line.Name != "Lime Curd" || line.Price != 0 || line.Quantity != 2 {
		t.Fatalf("normalization wrong: %+v", line)
	}

	line, err = s.Add(map[string]any{"id": "p10", "name": "Juice", "price": -4.5}, 1)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if line.Price != 0 {
		t.Fatalf("negative price should coerce to 0, got %v", line.Price)
	}
}

func TestUpdateQuantity_RemovesBelowMinimum(t *testing.T) {
	t.Parallel()
	s, _ := newCart(t)
	_, _ = s.Add(record("p1", "Lime Tart", 10), 2)
	_, _ = s.Add(record("p2", "Zest", 3), 1)

	s.UpdateQuantity("p1", 0)
	if len(s.Lines()) != 1 || s.Lines()[0].ID != "p2" {
		t.Fatalf("qty 0 should remove the line: %+v", s.Lines())
	}

	s.UpdateQuantity("p2", -5)
	if len(s.Lines()) != 0 {
		t.Fatalf("negative qty should remove the line: %+v", s.Lines())
	}
}

func TestUpdateQuantity_UnknownIDIsNoop(t *testing.T) {
	t.Parallel()
	s, _ := newCart(t)
	_, _ = s.Add(record("p1", "Lime Tart", 10), 2)

	s.UpdateQuantity("ghost", 5)
	lines := s.Lines()
	if len(lines) != 1 || lines[0].ID != "p1" || lines[0].Quantity != 2 {
		t.Fatalf("unknown id must not create or change lines: %+v", lines)
	}
}

func TestUpdateQuantity_RoundsAndClamps(t *testing.T) {
	t.Parallel()
	s, _ := newCart(t)
	_, _ = s.Add(record("p1", "Lime Tart", 10), 2)

	s.UpdateQuantity("p1", 4.6)
	if got := s.Lines()[0].Quantity; got != 5 {
		t.Fatalf("want rounded 5, got %d", got)
	}
	s.UpdateQuantity("p1", 500)
	if got := s.Lines()[0].Quantity; got != 99 {
		t.Fatalf("want clamped 99, got %d", got)
	}
}

func TestRemove_AbsentIDLeavesCartUnchanged(t *testing.T) {
	t.Parallel()
	s, _ := newCart(t)
	_, _ = s.Add(record("p1", "Lime Tart", 10), 2)

	before := s.Lines()
	s.Remove("ghost")
	if !reflect.DeepEqual(before, s.Lines()) {
		t.Fatalf("Remove(absent) changed the cart")
	}

	s.Remove("p1")
	if len(s.Lines()) != 0 {
		t.Fatalf("Remove(present) should delete the line")
	}
}

func TestDerivedValues(t *testing.T) {
	t.Parallel()
	s, _ := newCart(t)
	_, _ = s.Add(record("p1", "Lime Tart", 10), 2)
	_, _ = s.Add(record("p2", "Zest", 3.5), 1)

	if got := s.Subtotal(); got != 23.5 {
		t.Fatalf("Subtotal=%v, want 23.5", got)
	}
	if got := s.TotalItems(); got != 3 {
		t.Fatalf("TotalItems=%v, want 3", got)
	}
}

func TestRestore_CorruptedValueYieldsEmptyCart(t *testing.T) {
	t.Parallel()
	st := storage.NewMemStore()
	_ = st.Set(storage.KeyCart, []byte(`{{{not json`))

	s := NewService(st, nil)
	if len(s.Lines()) != 0 {
		t.Fatalf("corrupted store should restore empty, got %+v", s.Lines())
	}

	// non-array payload too
	_ = st.Set(storage.KeyCart, []byte(`{"id":"a"}`))
	s = NewService(st, nil)
	if len(s.Lines()) != 0 {
		t.Fatalf("non-array store should restore empty, got %+v", s.Lines())
	}
}

func TestRestore_RenormalizesStoredEntries(t *testing.T) {
	t.Parallel()
	st := storage.NewMemStore()
	_ = st.Set(storage.KeyCart, []byte(`[{"id":"a","name":"Lime Tart","price":"9.99","quantity":"200"}]`))

	s := NewService(st, nil)
	lines := s.Lines()
	if len(lines) != 1 {
		t.Fatalf("want one restored line, got %+v", lines)
	}
	if lines[0].Quantity != 99 || lines[0].Price != 9.99 {
		t.Fatalf("want qty=99 price=9.99, got %+v", lines[0])
	}
}

func TestRestore_DropsInvalidEntriesIndependently(t *testing.T) {
	t.Parallel()
	st := storage.NewMemStore()
	_ = st.Set(storage.KeyCart, []byte(`[
		{"id":"a","name":"Lime Tart","price":2,"quantity":1},
		{"price":5},
		"garbage",
		{"slug":"soda","name":"Soda","quantity":3}
	]`))

	s := NewService(st, nil)
	lines := s.Lines()
	if len(lines) != 2 || lines[0].ID != "a" || lines[1].ID != "soda" || lines[1].Quantity != 3 {
		t.Fatalf("defensive restore wrong: %+v", lines)
	}
}

func TestPersistence_RoundTrip(t *testing.T) {
	t.Parallel()
	st := storage.NewMemStore()
	s := NewService(st, nil)
	_, _ = s.Add(record("p1", "Lime Tart", 9.99), 2)
	_, _ = s.Add(record("p2", "Zest", 3), 1)
	want := s.Lines()

	// a fresh service over the same store restores field-for-field
	again := NewService(st, nil)
	if !reflect.DeepEqual(want, again.Lines()) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", again.Lines(), want)
	}
}

func TestPersistFailure_IsSwallowed(t *testing.T) {
	t.Parallel()
	st := storage.NewMemStore()
	s := NewService(st, nil)
	st.FailSet = true

	if _, err := s.Add(record("p1", "Lime Tart", 10), 1); err != nil {
		t.Fatalf("persist failure must not surface: %v", err)
	}
	if len(s.Lines()) != 1 {
		t.Fatalf("cart must keep working in memory")
	}
}

func TestClear_PersistsEmptyArray(t *testing.T) {
	t.Parallel()
	st := storage.NewMemStore()
	s := NewService(st, nil)
	_, _ = s.Add(record("p1", "Lime Tart", 10), 1)

	s.Clear()
	b, err := st.Get(storage.KeyCart)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	var got []model.CartLine
	if err := json.Unmarshal(b, &got); err != nil || len(got) != 0 {
		t.Fatalf("cleared cart should persist as empty array: %s err=%v", b, err)
	}
}
