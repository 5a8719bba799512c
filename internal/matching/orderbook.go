package matching

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/matchbook/clob/internal/types"
)

/*
The book keeps each side as a slice of price levels sorted best-first
(bids descending, asks ascending), with a FIFO queue of orders inside
each level. Best price is levels[0], insertion is a binary search plus
one slice insert, and price-time priority falls out of the structure
itself: walking levels front to back and each queue head to tail visits
makers in exactly the order they must be matched.

Prices and quantities are decimal values, so partial fills subtract
exactly and an order is empty when its quantity IsZero. No dust
epsilon is needed.
*/

// sequence allocates strictly increasing identifiers. Values are never
// reused, so order IDs, taker IDs and trade IDs drawn from the same
// allocator are unique across all of them.
type sequence struct {
	last uint64
}

// Next returns the next sequence value
func (s *sequence) Next() uint64 {
	s.last++
	return s.last
}

// priceLevel holds all resting orders at a single price in arrival order
type priceLevel struct {
	price  decimal.Decimal
	orders []*types.Order
}

// totalQuantity sums the remaining quantity of every order at this level
func (l *priceLevel) totalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, order := range l.orders {
		total = total.Add(order.Quantity)
	}
	return total
}

// bookSide is one half of the book: price levels sorted best-first
type bookSide struct {
	side   types.Side
	levels []*priceLevel
}

func newBookSide(side types.Side) *bookSide {
	return &bookSide{side: side}
}

// better reports whether price a has strictly higher priority than b on
// this side: bids prefer higher prices, asks prefer lower prices.
func (s *bookSide) better(a, b decimal.Decimal) bool {
	if s.side == types.Buy {
		return a.GreaterThan(b)
	}
	return a.LessThan(b)
}

// findLevel locates the level index for price. When no level exists at
// that price, the returned index is where a new level must be inserted
// to keep the side sorted.
func (s *bookSide) findLevel(price decimal.Decimal) (int, bool) {
	idx := sort.Search(len(s.levels), func(i int) bool {
		return !s.better(s.levels[i].price, price)
	})
	if idx < len(s.levels) && s.levels[idx].price.Equal(price) {
		return idx, true
	}
	return idx, false
}

// insert adds a resting order, preserving the side's sort invariant.
// Orders at an existing price join the back of that level's queue.
func (s *bookSide) insert(order *types.Order) {
	idx, found := s.findLevel(order.Price)
	if found {
		s.levels[idx].orders = append(s.levels[idx].orders, order)
		return
	}

	level := &priceLevel{price: order.Price, orders: []*types.Order{order}}
	s.levels = append(s.levels, nil)
	copy(s.levels[idx+1:], s.levels[idx:])
	s.levels[idx] = level
}

// bestLevel returns the top-priority level, or nil when the side is empty
func (s *bookSide) bestLevel() *priceLevel {
	if len(s.levels) == 0 {
		return nil
	}
	return s.levels[0]
}

// peekBest returns the top-priority resting order without removing it
func (s *bookSide) peekBest() *types.Order {
	level := s.bestLevel()
	if level == nil {
		return nil
	}
	return level.orders[0]
}

// dropBest removes the top-priority resting order, deleting its price
// level when the queue drains.
func (s *bookSide) dropBest() {
	level := s.bestLevel()
	if level == nil {
		return
	}

	level.orders = level.orders[1:]
	if len(level.orders) == 0 {
		copy(s.levels, s.levels[1:])
		s.levels[len(s.levels)-1] = nil
		s.levels = s.levels[:len(s.levels)-1]
	}
}

// ordersInPriority returns every resting order on this side in matching
// priority order (best price first, oldest first within a price).
func (s *bookSide) ordersInPriority() []*types.Order {
	var orders []*types.Order
	for _, level := range s.levels {
		orders = append(orders, level.orders...)
	}
	return orders
}

// orderCount returns the number of resting orders on this side
func (s *bookSide) orderCount() int {
	count := 0
	for _, level := range s.levels {
		count += len(level.orders)
	}
	return count
}

// OrderBook owns the two resting-order collections and the sequence
// allocator. All mutation goes through its methods so the sort and
// positivity invariants are enforced at one boundary.
type OrderBook struct {
	bids *bookSide
	asks *bookSide
	seq  sequence
}

// NewOrderBook creates an empty order book
func NewOrderBook() *OrderBook {
	return &OrderBook{
		bids: newBookSide(types.Buy),
		asks: newBookSide(types.Sell),
	}
}

// NextID allocates the next identifier from the book's sequence
func (b *OrderBook) NextID() uint64 {
	return b.seq.Next()
}

// sideOf returns the resting collection for the given side
func (b *OrderBook) sideOf(side types.Side) *bookSide {
	if side == types.Buy {
		return b.bids
	}
	return b.asks
}

// oppositeOf returns the collection an incoming order on side matches against
func (b *OrderBook) oppositeOf(side types.Side) *bookSide {
	return b.sideOf(side.Opposite())
}

// Insert rests an order on its side. The order's quantity must be positive.
func (b *OrderBook) Insert(order *types.Order) {
	b.sideOf(order.Side).insert(order)
}

// BestBid returns the highest bid price, or false when there are no bids
func (b *OrderBook) BestBid() (decimal.Decimal, bool) {
	level := b.bids.bestLevel()
	if level == nil {
		return decimal.Zero, false
	}
	return level.price, true
}

// BestAsk returns the lowest ask price, or false when there are no asks
func (b *OrderBook) BestAsk() (decimal.Decimal, bool) {
	level := b.asks.bestLevel()
	if level == nil {
		return decimal.Zero, false
	}
	return level.price, true
}
