package store

import (
	"fmt"
	"math"
	"sync"

	"github.com/google/btree"

	"github.com/efreitasn/minidex/internal/domain"
)

// idLess orders the id index ascending, so ranged walks return orders in
// creation order.
func idLess(a, b uint64) bool {
	return a < b
}

// OrderBook stores orders and allocates their identifiers. Orders form an
// append-only, id-indexed log: they are never deleted, only flagged filled
// or cancelled.
//
// Primary index: id → order. Secondary indexes: creator → orders
// (append-only), plus a B-tree over ids for ranged listing.
type OrderBook struct {
	mu        sync.RWMutex
	lastID    uint64
	orders    map[uint64]*domain.Order
	byCreator map[string][]*domain.Order
	ids       *btree.BTreeG[uint64]
}

// NewOrderBook creates an empty OrderBook.
func NewOrderBook() *OrderBook {
	const degree = 32
	return &OrderBook{
		orders:    make(map[uint64]*domain.Order),
		byCreator: make(map[string][]*domain.Order),
		ids:       btree.NewG[uint64](degree, idLess),
	}
}

// NextID returns a fresh strictly-increasing identifier, starting at 1,
// and advances the counter.
func (b *OrderBook) NextID() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastID++
	return b.lastID
}

// Insert stores a new order keyed by its id and appends it to the
// creator's secondary index. The id must not already exist.
func (b *OrderBook) Insert(o *domain.Order) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.orders[o.ID]; exists {
		return fmt.Errorf("order %d already exists", o.ID)
	}
	b.orders[o.ID] = o
	b.byCreator[o.Creator] = append(b.byCreator[o.Creator], o)
	b.ids.ReplaceOrInsert(o.ID)
	return nil
}

// Get returns a snapshot of the order with the given id. It returns
// domain.ErrOrderNotFound if the order does not exist. The snapshot is a
// copy; flag mutations go through MarkFilled and MarkCancelled only.
func (b *OrderBook) Get(id uint64) (domain.Order, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	o, ok := b.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return *o, nil
}

// MarkFilled sets the filled flag. It is an unconditional write: callers
// validate the order's current state first.
func (b *OrderBook) MarkFilled(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if o, ok := b.orders[id]; ok {
		o.Filled = true
	}
}

// MarkCancelled sets the cancelled flag. It is an unconditional write:
// callers validate the order's current state first.
func (b *OrderBook) MarkCancelled(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if o, ok := b.orders[id]; ok {
		o.Cancelled = true
	}
}

// IsFilled reports whether the order exists and has been filled.
func (b *OrderBook) IsFilled(id uint64) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	o, ok := b.orders[id]
	return ok && o.Filled
}

// IsCancelled reports whether the order exists and has been cancelled.
func (b *OrderBook) IsCancelled(id uint64) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	o, ok := b.orders[id]
	return ok && o.Cancelled
}

// Count returns the number of orders ever created.
func (b *OrderBook) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.orders)
}

// ListByCreator returns a creator's orders in reverse creation order
// (newest first). Pagination is 1-based. It returns the requested page and
// the total number of the creator's orders. Pages past the end, a page or
// limit below 1, and offsets too large to compute all yield an empty page.
func (b *OrderBook) ListByCreator(creator string, page, limit int) ([]domain.Order, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	all := b.byCreator[creator]
	total := len(all)

	if page < 1 || limit < 1 || page-1 > math.MaxInt/limit {
		return []domain.Order{}, total
	}
	start := (page - 1) * limit
	if start >= total {
		return []domain.Order{}, total
	}
	end := start + limit
	if end > total {
		end = total
	}

	result := make([]domain.Order, 0, end-start)
	for i := total - 1 - start; i > total-1-end; i-- {
		result = append(result, *all[i])
	}
	return result, total
}

// ListRange walks the id index ascending and returns up to limit order
// snapshots with id > afterID.
func (b *OrderBook) ListRange(afterID uint64, limit int) []domain.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if limit <= 0 || afterID == math.MaxUint64 {
		return []domain.Order{}
	}
	result := make([]domain.Order, 0, limit)
	b.ids.AscendGreaterOrEqual(afterID+1, func(id uint64) bool {
		result = append(result, *b.orders[id])
		return len(result) < limit
	})
	return result
}
