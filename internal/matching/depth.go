package matching

import (
	"github.com/shopspring/decimal"

	"github.com/matchbook/clob/internal/types"
)

// DefaultDepthLevels is how many price levels a depth snapshot keeps
// per side when the caller does not ask for a specific count.
const DefaultDepthLevels = 15

// DepthLevel is one aggregated row of a depth snapshot: all resting
// quantity at a single price, plus the running total from the best
// price out to this level. Derived on every read, never persisted.
type DepthLevel struct {
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
	Orders   int             `json:"order_count"`
}

// BBO is the top-of-book quote. Fields are nil when the corresponding
// side is empty; Spread is nil unless both sides have liquidity.
type BBO struct {
	BestBid *decimal.Decimal `json:"best_bid"`
	BestAsk *decimal.Decimal `json:"best_ask"`
	Spread  *decimal.Decimal `json:"spread"`
}

// Depth returns up to maxLevels aggregated price levels for one side,
// bids ordered by price descending and asks ascending, with cumulative
// totals growing away from the touch. maxLevels <= 0 uses the default.
func (e *Engine) Depth(side types.Side, maxLevels int) []DepthLevel {
	e.mu.Lock()
	defer e.mu.Unlock()

	if maxLevels <= 0 {
		maxLevels = DefaultDepthLevels
	}

	bookSide := e.book.sideOf(side)
	count := len(bookSide.levels)
	if count > maxLevels {
		count = maxLevels
	}

	depth := make([]DepthLevel, 0, count)
	cumulative := decimal.Zero

	// Levels are already held best-first, which is exactly the order
	// the cumulative total must grow in.
	for _, level := range bookSide.levels[:count] {
		quantity := level.totalQuantity()
		cumulative = cumulative.Add(quantity)
		depth = append(depth, DepthLevel{
			Price:    level.price,
			Quantity: quantity,
			Total:    cumulative,
			Orders:   len(level.orders),
		})
	}

	return depth
}

// Quote derives the best bid, best ask and spread from the top of the
// book. Pure read; holds no state of its own.
func (e *Engine) Quote() BBO {
	e.mu.Lock()
	defer e.mu.Unlock()

	var quote BBO

	if bid, ok := e.book.BestBid(); ok {
		quote.BestBid = &bid
	}
	if ask, ok := e.book.BestAsk(); ok {
		quote.BestAsk = &ask
	}
	if quote.BestBid != nil && quote.BestAsk != nil {
		spread := quote.BestAsk.Sub(*quote.BestBid).Abs()
		quote.Spread = &spread
	}

	return quote
}
