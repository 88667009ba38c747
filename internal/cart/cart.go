// Package cart holds the client-side shopping cart: what the shopper intends
// to buy, independent of server state, until checkout is submitted.
package cart

import (
	"encoding/json"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/limestore/limectl/internal/model"
	"github.com/limestore/limectl/internal/storage"
)

// Service is the cart state container. Every mutation is persisted to the
// store immediately; persistence failures are logged and swallowed so the
// cart keeps working in memory for the rest of the session.
type Service struct {
	mu    sync.Mutex
	log   *zap.Logger
	store storage.Store
	lines []model.CartLine
}

// NewService constructs the cart and restores any persisted lines.
// A corrupted or non-array stored value yields an empty cart.
func NewService(store storage.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{log: log, store: store}
	s.restore()
	return s
}

// Add merges a loosely-shaped product record into the cart with the given
// quantity (rounded, clamped to [1,99]; values below 1 count as 1). Records
// that normalize to an empty id or name are rejected and the cart is
// unchanged. Adding an id already in the cart increments that line's
// quantity, re-clamped to the same bounds, rather than duplicating the row.
func (s *Service) Add(raw map[string]any, quantity float64) (model.CartLine, error) {
	line, err := Normalize(raw)
	if err != nil {
		return model.CartLine{}, err
	}
	line.Quantity = clampQuantity(quantity)

	s.mu.Lock()
	defer s.mu.Unlock()
	merged := s.merge(line)
	s.persist()
	return merged, nil
}

// merge appends line or folds it into an existing line with the same id.
// Caller must hold s.mu.
func (s *Service) merge(line model.CartLine) model.CartLine {
	for i := range s.lines {
		if s.lines[i].ID == line.ID {
			s.lines[i].Quantity = clampQuantity(float64(s.lines[i].Quantity + line.Quantity))
			return s.lines[i]
		}
	}
	s.lines = append(s.lines, line)
	return line
}

// UpdateQuantity sets the quantity for the line with the given id.
// No-op when id is empty, the quantity is not finite, or no such line
// exists. A quantity below 1 removes the line entirely; otherwise it is
// rounded and clamped to [1,99].
func (s *Service) UpdateQuantity(id string, quantity float64) {
	if id == "" || math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].ID != id {
			continue
		}
		if quantity < MinQuantity {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
		} else {
			s.lines[i].Quantity = clampQuantity(quantity)
		}
		s.persist()
		return
	}
}

// Remove deletes the line with the given id; no-op if absent.
func (s *Service) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].ID == id {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			s.persist()
			return
		}
	}
}

// Clear empties the cart.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	s.persist()
}

// Lines returns a copy of the cart contents in insertion order.
func (s *Service) Lines() []model.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Subtotal is Σ(price × quantity); non-finite line totals count as 0.
func (s *Service) Subtotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum float64
	for _, l := range s.lines {
		t := l.Total()
		if math.IsNaN(t) || math.IsInf(t, 0) {
			continue
		}
		sum += t
	}
	return sum
}

// TotalItems is Σ(quantity) over all lines.
func (s *Service) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

// persist serializes the cart to the store. Caller must hold s.mu.
func (s *Service) persist() {
	lines := s.lines
	if lines == nil {
		lines = []model.CartLine{}
	}
	b, err := json.Marshal(lines)
	if err != nil {
		s.log.Warn("cart: marshal failed", zap.Error(err))
		return
	}
	if err := s.store.Set(storage.KeyCart, b); err != nil {
		s.log.Warn("cart: persist failed", zap.Error(err))
	}
}

// restore rehydrates the cart from the store. Each stored entry is
// re-normalized independently; invalid entries are dropped rather than
// aborting the whole restore.
func (s *Service) restore() {
	b, err := s.store.Get(storage.KeyCart)
	if err != nil {
		return
	}
	var raw []any
	if err := json.Unmarshal(b, &raw); err != nil {
		s.log.Warn("cart: stored value is not a JSON array, starting empty", zap.Error(err))
		return
	}
	for _, entry := range raw {
		rec, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		line, err := Normalize(rec)
		if err != nil {
			s.log.Debug("cart: dropping invalid stored line", zap.Error(err))
			continue
		}
		s.merge(line)
	}
}
